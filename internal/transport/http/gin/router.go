package httpgin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kordei/zoneboard/internal/service/bookings"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svc bookings.UseCase,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/api/bookings", handleListZones(svc))
	r.POST("/api/bookings", handleAction(svc))

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, fail("Method not allowed"))
	})

	return r
}

// @Summary  List zones with bookings
// @Param    branch  query  string  false  "Branch filter"
// @Success  200  {object}  Response
// @Failure  500  {object}  Response
// @Router   /api/bookings [get]
func handleListZones(svc bookings.UseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		zones, err := svc.ListZones(c.Request.Context(), c.Query("branch"))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, ok(zones))
	}
}

// @Summary  Booking mutations (action-dispatched)
// @Param    req  body  ActionRequest  true  "payload"
// @Success  200  {object}  Response
// @Success  201  {object}  Response
// @Failure  400  {object}  Response  "unknown action / malformed body"
// @Failure  404  {object}  Response  "booking or zone not found"
// @Failure  500  {object}  Response
// @Router   /api/bookings [post]
func handleAction(svc bookings.UseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, fail(err.Error()))
			return
		}

		ctx := c.Request.Context()

		switch req.Action {
		case ActionCreate:
			created, err := svc.Create(ctx, req.ZoneID, req.ZoneName, req.Branch, req.Data)
			if err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusCreated, ok(created))

		case ActionUpdate:
			updated, err := svc.Update(ctx, req.BookingID, req.Data)
			if err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusOK, ok(updated))

		case ActionUpdateStatus:
			updated, err := svc.UpdateStatus(ctx, req.BookingID, req.Status)
			if err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusOK, ok(updated))

		case ActionDelete:
			if err := svc.Delete(ctx, req.BookingID, req.SkipCleaningFlag); err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusOK, okMessage("Booking deleted"))

		case ActionComplete:
			if err := svc.Complete(ctx, req.BookingID, req.CompletionType); err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusOK, okMessage("Booking completed"))

		case ActionClearAll:
			deleted, err := svc.ClearAll(ctx, req.Branch)
			if err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusOK, ok(ClearAllResult{Deleted: deleted}))

		case ActionMarkCleaned:
			if err := svc.MarkCleaned(ctx, req.ZoneID); err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusOK, okMessage("Zone cleaned"))

		default:
			c.JSON(http.StatusBadRequest, fail("Unknown action"))
		}
	}
}

func respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, fail("booking not found"))
	case errors.Is(err, bookings.ErrZoneNotFound):
		c.JSON(http.StatusNotFound, fail("zone not found"))
	case errors.Is(err, bookings.ErrInvalidCompletion):
		c.JSON(http.StatusBadRequest, fail("Invalid completion type"))
	default:
		c.JSON(http.StatusInternalServerError, fail(err.Error()))
	}
}
