// Package server wires the application together: configuration, MongoDB,
// Redis, storage, HTTP routing, and graceful shutdown.
package server

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

	"github.com/VDECKSHOP/backend/app/controllers"
	"github.com/VDECKSHOP/backend/app/repositories"
	"github.com/VDECKSHOP/backend/app/routes"
	"github.com/VDECKSHOP/backend/app/services"
	"github.com/VDECKSHOP/backend/config"
	"github.com/VDECKSHOP/backend/pkg/cache"
	"github.com/VDECKSHOP/backend/pkg/logger"
	"github.com/VDECKSHOP/backend/pkg/metrics"
	"github.com/VDECKSHOP/backend/pkg/middleware"
	"github.com/VDECKSHOP/backend/pkg/mongodb"
	"github.com/VDECKSHOP/backend/pkg/reqid"
	"github.com/VDECKSHOP/backend/pkg/router"
	"github.com/VDECKSHOP/backend/pkg/storage"
	"github.com/VDECKSHOP/backend/pkg/workerpool"
)

const shutdownTimeout = 5 * time.Second

// Start boots every subsystem, serves HTTP, and blocks until SIGINT or
// SIGTERM, then shuts down in reverse order.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("server: load config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := mongodb.Connect(ctx, config.MongoURI(), config.MongoDB())
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer closeCancel()
		_ = store.Close(closeCtx)
	}()

	// Persist request logs alongside console output.
	mongoLog := logger.NewMongoHandler(store.Collection("logs"), slog.LevelInfo)
	defer mongoLog.Close()
	logger.SetHandler(logger.NewFanout(logger.L.Handler(), mongoLog))

	if err := cache.Connect(); err != nil {
		logger.Warn("cache unavailable, serving without it", "error", err)
	}
	defer cache.Close() //nolint:errcheck

	storage.Connect()

	pool := workerpool.New(8)
	defer pool.Shutdown()

	productRepo := repositories.NewProductRepository(store.Collection("products"))
	orderRepo := repositories.NewOrderRepository(store.Collection("orders"))

	guard := config.OrderGuardStock()
	var tx services.TxRunner
	if guard {
		if store.SupportsTransactions(ctx) {
			tx = repositories.NewMongoTxRunner(store.Client())
		} else {
			logger.Warn("deployment has no transaction support, falling back to permissive stock decrement")
			guard = false
		}
	}

	orderService := services.NewOrderService(productRepo, orderRepo, tx, guard).WithPool(pool)
	productService := services.NewProductService(productRepo)

	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))

	routes.RegisterAPI(r,
		controllers.NewOrderController(orderService),
		controllers.NewProductController(productService),
		controllers.NewUploadController(),
	)

	addr := ":" + config.AppPort()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "guard_stock", guard)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: listen: %w", err)
	case s := <-sig:
		logger.Info("shutting down", "signal", s.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
