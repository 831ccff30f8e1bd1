package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Healthy   bool            `json:"healthy"`
	Checks    map[string]bool `json:"checks"`
	CheckedAt time.Time       `json:"checkedAt"`
}

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// MongoCheck pings the primary.
func MongoCheck(client *mongo.Client) HealthCheck {
	return func(ctx context.Context) error { return client.Ping(ctx, nil) }
}

// RedisCheck pings a redis database.
func RedisCheck(client *redis.Client) HealthCheck {
	return func(ctx context.Context) error { return client.Ping(ctx).Err() }
}

// RunHealthChecks performs one round of checks and stores the snapshot.
func RunHealthChecks(ctx context.Context, checks map[string]HealthCheck) HealthStatus {
	status := HealthStatus{Healthy: true, Checks: make(map[string]bool, len(checks)), CheckedAt: time.Now()}
	for name, check := range checks {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := check(pingCtx)
		cancel()
		status.Checks[name] = err == nil
		if err != nil {
			status.Healthy = false
			GetLogger().Warn("Health check failed", zap.String("dependency", name), zap.Error(err))
		}
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
	return status
}

// StartHealthMonitor performs periodic health checks until ctx is cancelled.
// The periodic ping also keeps hosted instances from idling out.
func StartHealthMonitor(ctx context.Context, interval time.Duration, checks map[string]HealthCheck) {
	RunHealthChecks(ctx, checks)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				status := RunHealthChecks(ctx, checks)
				GetLogger().Debug("Keep-alive health ping", zap.Bool("healthy", status.Healthy))
			}
		}
	}()
}
