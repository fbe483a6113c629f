package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/priatmojo/washpool/internal/db"
	"github.com/priatmojo/washpool/internal/handlers"
	"github.com/priatmojo/washpool/internal/logger"
	"github.com/priatmojo/washpool/internal/repository/postgres"
	"github.com/priatmojo/washpool/internal/service/payout"
	"github.com/priatmojo/washpool/internal/service/report"
	"github.com/priatmojo/washpool/internal/service/share"
	"github.com/priatmojo/washpool/internal/service/transaction"
)

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Parse the configured owner/pool split
	rates, err := share.ParseRates(c.OwnerPercent, c.PoolPercent)
	if err != nil {
		return nil, fmt.Errorf("error while parsing share rates. Err: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	transactionService, err := transaction.NewService(rates, storage)
	if err != nil {
		return nil, fmt.Errorf("error while creating transaction service. Err: %w", err)
	}
	payoutService := payout.NewService(storage, logger)
	reportService := report.NewService(storage)

	mux := handlers.NewRouter(
		transactionService,
		payoutService,
		reportService,
		storage,
		logger,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); err == context.DeadlineExceeded {
			slog.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		slog.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	slog.Info("Starting server")
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
