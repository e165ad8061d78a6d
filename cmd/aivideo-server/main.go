package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"aivideogen/internal/adapters/export"
	"aivideogen/internal/adapters/generation"
	"aivideogen/internal/adapters/history"
	"aivideogen/internal/adapters/kvstore"
	"aivideogen/internal/assetcache"
	"aivideogen/internal/config"
	"aivideogen/internal/quota"
	"aivideogen/internal/server"
	"aivideogen/internal/service"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := os.MkdirAll(filepath.Dir(cfg.HistoryDBPath), 0755); err != nil {
		logger.Fatal("could not create data directory", zap.Error(err))
	}
	kv, err := kvstore.NewSQLiteStore(cfg.HistoryDBPath)
	if err != nil {
		logger.Fatal("could not open history storage", zap.Error(err))
	}
	defer kv.Close()

	store := history.NewStore(kv, logger)
	client := generation.NewClient(cfg.GenerationBaseURL, logger)
	resolver := export.NewResolver(cfg.DownloadDir, logger)
	counter := quota.NewCounter(cfg.DailyLimit)
	orchestrator := service.NewOrchestrator(client, store, counter, logger)

	// The asset cache worker has its own install/activate lifecycle; a
	// failed install only means there is no offline shell yet.
	worker, err := assetcache.NewWorker(cfg.UpstreamOrigin, cfg.CacheVersion, assetcache.NewStorage(), logger)
	if err != nil {
		logger.Fatal("could not create asset cache worker", zap.Error(err))
	}
	installCtx, cancelInstall := context.WithTimeout(context.Background(), 15*time.Second)
	if err := worker.Install(installCtx); err != nil {
		logger.Warn("asset cache install failed, no offline shell", zap.Error(err))
	}
	cancelInstall()
	worker.Activate()

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: server.New(orchestrator, resolver, client, worker, logger).Router(),
	}

	// Channel to listen for signals (SIGINT, SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("HTTP server starting", zap.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
