package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/sentiment-api/internal/clients"
	"github.com/spacesedan/sentiment-api/internal/db"
)

const HEALTHCHECK_TIMER = 15

func MonitorValkeyHealth(ctx context.Context, healthy *atomic.Bool) {
	ticker := time.NewTicker(time.Second * HEALTHCHECK_TIMER)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := clients.GetValkeyClient().Ping(ctx)
			healthy.Store(isHealthy)
			if !isHealthy {
				slog.Warn("[HealthCheck] Valkey is unhealthy")
			}
		}
	}
}

func MonitorDynamoHealth(ctx context.Context, healthy *atomic.Bool) {
	ticker := time.NewTicker(time.Second * HEALTHCHECK_TIMER)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := db.TableReachable(ctx)
			healthy.Store(isHealthy)
			if !isHealthy {
				slog.Warn("[HealthCheck] DynamoDB is unhealthy")
			}
		}
	}
}

// Aggregate folds individual dependency signals into one service-level
// signal consumed by the health endpoint.
func Aggregate(ctx context.Context, overall *atomic.Bool, signals ...*atomic.Bool) {
	ticker := time.NewTicker(time.Second * HEALTHCHECK_TIMER)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok := true
			for _, s := range signals {
				if !s.Load() {
					ok = false
					break
				}
			}
			overall.Store(ok)
		}
	}
}
