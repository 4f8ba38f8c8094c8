// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"procurement-workers/internal/catalog"
	"procurement-workers/internal/common/camunda"
	"procurement-workers/internal/common/config"
	"procurement-workers/internal/common/database"
	"procurement-workers/internal/common/logger"
	"procurement-workers/internal/common/observability"
	"procurement-workers/internal/datasource"
	"procurement-workers/internal/scheduler"
	"procurement-workers/internal/seedstore"

	cs "procurement-workers/internal/workers/procurement/create-seed"
	qp "procurement-workers/internal/workers/procurement/query-procedures"
	rs "procurement-workers/internal/workers/procurement/resolve-seed"
)

const (
	refreshTimeout  = 2 * time.Minute
	shutdownTimeout = 30 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	log.Info("Starting worker manager...", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	if err := cfg.ValidateCamunda(); err != nil {
		zapLog.Fatal("invalid camunda config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs, err := observability.New(cfg.Observability.ServiceName)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}

	tp, err := observability.NewTracerProvider(cfg.Observability)
	if err != nil {
		zapLog.Fatal("tracer init failed", zap.Error(err))
	}

	// --- Backends with retry ---
	var conns *database.Connections
	err = camunda.RetryWithBackoff(ctx, func() error {
		var err error
		conns, err = database.Open(ctx, cfg)
		return err
	}, camunda.DefaultRetryConfig, log, "Backend connections")
	if err != nil {
		zapLog.Fatal("backends failed after retries", zap.Error(err))
	}
	defer conns.Close()

	source, err := datasource.New(cfg.Records, conns)
	if err != nil {
		zapLog.Fatal("record source init failed", zap.Error(err))
	}

	store, err := seedstore.New(cfg.Seeds, conns, log)
	if err != nil {
		zapLog.Fatal("seed store init failed", zap.Error(err))
	}
	if err := seedstore.Prepare(ctx, store); err != nil {
		zapLog.Fatal("seed store schema failed", zap.Error(err))
	}

	// --- Catalog ---
	cat := catalog.New(source, store, log, catalog.Options{
		CodeAttempts:  cfg.Seeds.CodeAttempts,
		Observability: obs,
	})
	if err := cat.Load(ctx); err != nil {
		log.Warn("Initial catalog load incomplete, serving not-ready until refresh", map[string]interface{}{
			"error": err,
		})
	}

	sched := scheduler.New(cat, cfg.Records.RefreshSchedule, refreshTimeout, log)
	if err := sched.Start(ctx); err != nil {
		zapLog.Fatal("scheduler start failed", zap.Error(err))
	}

	// --- Zeebe ---
	client, err := camunda.NewClientWithConfig(ctx, camunda.ConfigFrom(cfg.Camunda), log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("Zeebe client connected successfully", nil)

	registry := camunda.NewRegistry(client, obs, log)

	queryHandler := qp.NewHandler(qp.LoadConfig(cfg), cat, obs, log)
	registry.Start(qp.TaskType, config.GetWorkerConfig(cfg, qp.TaskType), queryHandler.Handle)

	createHandler := cs.NewHandler(cs.LoadConfig(cfg), cat, obs, log)
	registry.Start(cs.TaskType, config.GetWorkerConfig(cfg, cs.TaskType), createHandler.Handle)

	resolveHandler := rs.NewHandler(rs.LoadConfig(cfg), cat, obs, log)
	registry.Start(rs.TaskType, config.GetWorkerConfig(cfg, rs.TaskType), resolveHandler.Handle)

	log.Info("Workers registered", map[string]interface{}{"count": registry.Count()})

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              cfg.Observability.MetricsAddress,
		Handler:           newServeMux(cat, client),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Health/Metrics server listening", map[string]interface{}{"address": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Health/Metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("Shutdown signal received, stopping workers...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	registry.Stop()
	sched.Stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Error stopping Health/Metrics server", map[string]interface{}{"error": err})
	}
	if err := client.Close(); err != nil {
		log.Error("Error closing Zeebe client", map[string]interface{}{"error": err})
	}
	if err := obs.Shutdown(shutdownCtx); err != nil {
		log.Error("Error flushing metrics", map[string]interface{}{"error": err})
	}
	if err := observability.ShutdownTracer(shutdownCtx, tp); err != nil {
		log.Error("Error flushing traces", map[string]interface{}{"error": err})
	}

	log.Info("Worker manager stopped gracefully", nil)
}
