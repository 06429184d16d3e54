package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	simhttp "github.com/mjones/baby-raffle-web/internal/raffle-simulator/http"
	"github.com/mjones/baby-raffle-web/internal/raffle-simulator/store"
	"github.com/mjones/baby-raffle-web/internal/shared/config"
	"github.com/mjones/baby-raffle-web/internal/shared/logger"
	"github.com/mjones/baby-raffle-web/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "raffle-api-simulator"
		cfg.HTTPPort = "8080"
		cfg.MetricsPort = "9092"
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	st := store.New(cfg.AdminUsername, cfg.AdminPassword, cfg.VenmoUsername)
	api := &simhttp.API{Log: log, Store: st, UploadDir: cfg.UploadDir}

	// só liveness; o simulador não tem dependências externas
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error { return nil })
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	addr := ":" + cfg.HTTPPort
	log.Info("raffle-api-simulator listening",
		zap.String("addr", addr),
		zap.String("upload_dir", cfg.UploadDir),
	)
	if err := http.ListenAndServe(addr, api.Router()); err != nil && err != http.ErrServerClosed {
		log.Fatal("simulator", zap.Error(err))
	}
}
