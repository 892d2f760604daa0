package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	webAdapter "bakeshop/internal/adapters/web"
	"bakeshop/internal/app"
	"bakeshop/internal/config"
	"bakeshop/internal/core"
	"bakeshop/internal/db"
	"bakeshop/internal/logger"
	"bakeshop/internal/notify"
	"bakeshop/internal/payments"
	"bakeshop/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl := logger.New(cfg.Log)
	defer func() { _ = zl.Sync() }()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.Database)
	if err != nil {
		zl.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	audit := core.NewAuditLog(pool)
	orderService := core.NewOrderService(pool, audit)
	contactService := core.NewContactService(pool)
	catalogService := core.NewCatalogService(pool)
	expenseService := core.NewExpenseService(pool)

	provider := payments.NewManualProvider()
	notifier := notify.NewLogNotifier(zl)

	svc := app.NewAppService(orderService, contactService, catalogService, expenseService, audit, provider, notifier, zl)

	sweeper := scheduler.NewQuoteExpiry(orderService, zl, cfg.QuoteExpiryCron)
	if err := sweeper.Start(ctx); err != nil {
		zl.Fatal("quote expiry scheduler", zap.Error(err))
	}
	defer sweeper.Stop()

	handler := webAdapter.NewHandler(svc, cfg.AllowedOrigins, zl)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting", zap.String("port", cfg.HTTP.Port), zap.String("environment", cfg.Environment))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server", zap.Error(err))
		}
	case sig := <-stop:
		zl.Info("shutting down", zap.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zl.Error("shutdown", zap.Error(err))
		}
	}
}
