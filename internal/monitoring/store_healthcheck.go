package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	HEALTHCHECK_TIMER   = 15
	healthcheckDeadline = 5 * time.Second
)

// Pinger is anything whose reachability can be probed, such as a history store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckStoreHealth pings the store once and records the outcome in healthy.
func CheckStoreHealth(ctx context.Context, store Pinger, healthy *atomic.Bool) bool {
	pingCtx, cancel := context.WithTimeout(ctx, healthcheckDeadline)
	defer cancel()

	err := store.Ping(pingCtx)
	isHealthy := err == nil
	wasHealthy := healthy.Swap(isHealthy)

	if !isHealthy {
		slog.Warn("[HealthCheck] History store is unhealthy", slog.String("error", err.Error()))
	} else if !wasHealthy {
		slog.Info("[HealthCheck] History store is healthy")
	}
	return isHealthy
}

// MonitorStoreHealth checks the store immediately and then on every tick
// until ctx is cancelled.
func MonitorStoreHealth(ctx context.Context, store Pinger, healthy *atomic.Bool) {
	MonitorStoreHealthEvery(ctx, store, healthy, time.Second*HEALTHCHECK_TIMER)
}

func MonitorStoreHealthEvery(ctx context.Context, store Pinger, healthy *atomic.Bool, interval time.Duration) {
	CheckStoreHealth(ctx, store, healthy)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			CheckStoreHealth(ctx, store, healthy)
		}
	}
}
