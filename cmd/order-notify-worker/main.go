package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/mjones/baby-raffle-web/internal/shared/config"
	"github.com/mjones/baby-raffle-web/internal/shared/kafka"
	"github.com/mjones/baby-raffle-web/internal/shared/logger"
	"github.com/mjones/baby-raffle-web/internal/shared/metrics"
	ev "github.com/mjones/baby-raffle-web/pkg/contracts/events"
)

var ordersNotified = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "raffle_orders_notified_total",
	Help: "Pedidos processados pelo worker de notificação",
})

func main() {
	cfg := config.Load()
	if cfg.ServiceName == "" {
		cfg.ServiceName = "order-notify-worker"
		cfg.MetricsPort = "9093"
	}

	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	prometheus.MustRegister(ordersNotified)

	// Kafka consumer: consome pedidos submetidos pelo frontend
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  strings.Split(cfg.KafkaBrokers, ","),
		GroupID:  "order-notify",
		Topic:    cfg.TopicOrderSubmitted,
		MinBytes: 1e3,
		MaxBytes: 10e6,
	})
	defer reader.Close()

	// DLQ pra payloads que não parseiam
	var dlqWriter *kafkago.Writer
	if cfg.TopicOrderSubmittedDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicOrderSubmittedDLQ)
		defer dlqWriter.Close()
	}

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error { return nil })
	log.Info("order-notify-worker started", zap.String("consume", cfg.TopicOrderSubmitted))

	ctx := context.Background()

	// Loop principal: cada pedido vira uma notificação pra família
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var order ev.OrderSubmitted
		if jerr := json.Unmarshal(msg.Value, &order); jerr != nil {
			log.Error("unmarshal order_submitted", zap.Error(jerr))
			if dlqWriter != nil {
				_ = kafka.WriteJSON(ctx, dlqWriter, string(msg.Key), msg.Value)
			}
			continue
		}

		notify(log, &order)
		ordersNotified.Inc()
	}
}

// notify registra o pedido; o pagamento em si é validado manualmente
// pelo admin depois que o Venmo chega.
func notify(log *zap.Logger, o *ev.OrderSubmitted) {
	log.Info("new raffle order",
		zap.Int64("payment_id", o.PaymentID),
		zap.String("user", o.UserName),
		zap.String("email", o.UserEmail),
		zap.Int("bets", o.BetCount),
		zap.Float64("total", float64(o.TotalCents)/100),
	)
}
