package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/sentiment-api/config"
	"github.com/spacesedan/sentiment-api/internal/api"
	"github.com/spacesedan/sentiment-api/internal/clients"
	"github.com/spacesedan/sentiment-api/internal/clients/kafka_client"
	"github.com/spacesedan/sentiment-api/internal/db"
	"github.com/spacesedan/sentiment-api/internal/logging"
	"github.com/spacesedan/sentiment-api/internal/monitoring"
	"github.com/spacesedan/sentiment-api/internal/sentiment"
)

const KAFKA_INIT_ATTEMPTS = 3

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serviceName := getEnv("SERVICE_NAME", "sentiment-api")
	addr := getEnv("API_ADDR", ":8080")

	overall := &atomic.Bool{}
	overall.Store(true)

	opts := []sentiment.ServiceOption{sentiment.WithHealthSignal(overall)}
	var signals []*atomic.Bool

	// Every dependency below is optional: the API still analyzes text with
	// a missing cache, store, or broker, it just reports degraded health.
	if cache := tryInitValkey(); cache != nil {
		valkeyHealthy := &atomic.Bool{}
		valkeyHealthy.Store(true)
		go monitoring.MonitorValkeyHealth(ctx, valkeyHealthy)
		signals = append(signals, valkeyHealthy)
		opts = append(opts, sentiment.WithCache(cache))
		defer clients.CloseValkey()
	}

	if store := tryInitDynamo(); store != nil {
		dynamoHealthy := &atomic.Bool{}
		dynamoHealthy.Store(true)
		go monitoring.MonitorDynamoHealth(ctx, dynamoHealthy)
		signals = append(signals, dynamoHealthy)
		opts = append(opts, sentiment.WithStore(store))
	}

	cfg := kafka_client.GetKafkaConfig()
	if kafkaReady(cfg) {
		opts = append(opts, sentiment.WithPublisher(kafka_client.NewResultPublisher(cfg.Topic)))
		defer kafka_client.CloseKafkaProducer()
	}

	go monitoring.Aggregate(ctx, overall, signals...)

	service := sentiment.NewService(serviceName, opts...)
	router := api.NewRouter(service)

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("[Main] Starting sentiment API",
			slog.String("addr", addr),
			slog.String("env", env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Server failed",
				slog.String("error", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("[Main] Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Graceful shutdown failed",
			slog.String("error", err.Error()))
	}
}

func tryInitValkey() (cache *clients.ValkeyClient) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("[Main] Valkey unavailable, running without cache",
				slog.Any("reason", r))
			cache = nil
		}
	}()
	return clients.InitValkey()
}

func tryInitDynamo() (store *db.RecordStore) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("[Main] DynamoDB unavailable, running without storage",
				slog.Any("reason", r))
			store = nil
		}
	}()
	return db.NewRecordStore()
}

func kafkaReady(cfg kafka_client.KafkaConfig) bool {
	for i := 0; i < KAFKA_INIT_ATTEMPTS; i++ {
		err := kafka_client.InitKafkaProducer(cfg)
		if err == nil {
			return true
		}
		slog.Warn("Kafka init failed, retrying...", slog.String("error", err.Error()))
		time.Sleep(5 * time.Second)
	}
	slog.Warn("[Main] Kafka unavailable, running without result publishing")
	return false
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}
