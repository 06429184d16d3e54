package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mjones/baby-raffle-web/internal/raffle-web/api"
	"github.com/mjones/baby-raffle-web/internal/raffle-web/betflow"
	"github.com/mjones/baby-raffle-web/internal/raffle-web/catalog"
	"github.com/mjones/baby-raffle-web/internal/raffle-web/producer"
	"github.com/mjones/baby-raffle-web/internal/raffle-web/session"
	"github.com/mjones/baby-raffle-web/internal/raffle-web/web"
	"github.com/mjones/baby-raffle-web/internal/shared/cache"
	"github.com/mjones/baby-raffle-web/internal/shared/config"
	"github.com/mjones/baby-raffle-web/internal/shared/kafka"
	"github.com/mjones/baby-raffle-web/internal/shared/logger"
	"github.com/mjones/baby-raffle-web/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "raffle-web"
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	// Redis: token admin durável + cache das respostas públicas
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()
	log.Info("redis connected")

	// Kafka writer pros eventos de pedido submetido
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicOrderSubmitted)
	defer writer.Close()

	// deps
	holder := session.NewHolder(context.Background(), session.NewRedisStorage(rdb), log)
	client := api.New(cfg.RaffleAPIURL, holder)
	carts := betflow.NewStore()
	cat := catalog.New(rdb)
	publ := producer.NewKafkaPublisher(writer, cfg.TopicOrderSubmitted)

	srv := web.NewServer(log, client, holder, carts, cat, cfg.SessionCookie, publ)

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	addr := ":" + cfg.HTTPPort
	log.Info("raffle-web listening",
		zap.String("addr", addr),
		zap.String("backend", cfg.RaffleAPIURL),
	)
	httpSrv := &http.Server{Addr: addr, Handler: srv.Router()}
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("web", zap.Error(err))
	}
}
