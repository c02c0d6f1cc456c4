package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kordei/zoneboard/internal/config"
	"github.com/kordei/zoneboard/internal/postgres"
	redisx "github.com/kordei/zoneboard/internal/redis"
	postgresrepo "github.com/kordei/zoneboard/internal/repository/postgres"
	redisrepo "github.com/kordei/zoneboard/internal/repository/redis"
	"github.com/kordei/zoneboard/internal/service/bookings"
	httpgin "github.com/kordei/zoneboard/internal/transport/http/gin"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	pubsub     *redisrepo.BoardPubSub
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redisx.New(context.Background(), redisx.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.NewBoardCache(
		redisrepo.New(rdb),
		time.Duration(cfg.Board.CacheTTLSeconds)*time.Second,
	)
	pubsub := redisrepo.NewBoardPubSub(rdb)

	// Initialize service
	svc := bookings.New(store.Zones(), store.Bookings(), store.Schema(), cache, pubsub)

	// Schema setup and first-start seeding run on every boot
	if err := svc.Initialize(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Initialize Gin router
	router := httpgin.NewRouter(svc, logger)

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		pubsub: pubsub,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Board change feed, logged for operators watching the service
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, func(_ context.Context, branch string) {
			a.logger.Info("board changed", "branch", branch)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("board change feed: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
