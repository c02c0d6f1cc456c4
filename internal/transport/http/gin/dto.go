package httpgin

import "github.com/kordei/zoneboard/internal/domain"

// Action discriminators carried in the POST body.
const (
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionUpdateStatus = "updateStatus"
	ActionDelete       = "delete"
	ActionComplete     = "complete"
	ActionClearAll     = "clearAll"
	ActionMarkCleaned  = "markCleaned"
)

// ActionRequest is the single mutation envelope: which fields matter
// depends on the action.
type ActionRequest struct {
	Action           string                `json:"action" binding:"required"`
	ZoneID           int64                 `json:"zoneId"`
	ZoneName         string                `json:"zoneName"`
	Branch           string                `json:"branch"`
	BookingID        int64                 `json:"bookingId"`
	Status           domain.BookingStatus  `json:"status"`
	CompletionType   domain.CompletionType `json:"completionType"`
	SkipCleaningFlag bool                  `json:"skipCleaningFlag"`
	Data             domain.BookingPatch   `json:"data"`
}

type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ClearAllResult struct {
	Deleted int64 `json:"deleted"`
}

func ok(data any) Response {
	return Response{Success: true, Data: data}
}

func okMessage(msg string) Response {
	return Response{Success: true, Message: msg}
}

func fail(msg string) Response {
	return Response{Success: false, Error: msg}
}
