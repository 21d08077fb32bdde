package health

import (
	"context"
	"time"
)

// Pinger is satisfied by the database gateway
type Pinger interface {
	Ping(ctx context.Context) error
}

// CacheProbe is satisfied by the redis cache
type CacheProbe interface {
	Enabled() bool
	IsHealthy(ctx context.Context) bool
}

type HealthChecker struct {
	db    Pinger
	cache CacheProbe
}

type HealthStatus struct {
	Status   string          `json:"status"`
	Version  string          `json:"version,omitempty"`
	Database ComponentHealth `json:"database"`
	Cache    ComponentHealth `json:"cache"`
}

type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

func NewHealthChecker(db Pinger, cache CacheProbe) *HealthChecker {
	return &HealthChecker{db: db, cache: cache}
}

// CheckReady reports the server unhealthy only when the database is down.
// A missing or failing cache degrades performance, not correctness.
func (h *HealthChecker) CheckReady(ctx context.Context) HealthStatus {
	dbHealth := h.checkDatabase(ctx)

	status := StatusHealthy
	if dbHealth.Status != StatusHealthy {
		status = StatusUnhealthy
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		Cache:    h.checkCache(ctx),
	}
}

func (h *HealthChecker) checkDatabase(ctx context.Context) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return ComponentHealth{Status: StatusUnhealthy, ResponseTime: responseTime}
	}
	return ComponentHealth{Status: StatusHealthy, ResponseTime: responseTime}
}

func (h *HealthChecker) checkCache(ctx context.Context) ComponentHealth {
	if h.cache == nil || !h.cache.Enabled() {
		return ComponentHealth{Status: StatusDisabled}
	}

	start := time.Now()
	ok := h.cache.IsHealthy(ctx)
	responseTime := time.Since(start).Milliseconds()

	if !ok {
		return ComponentHealth{Status: StatusUnhealthy, ResponseTime: responseTime}
	}
	return ComponentHealth{Status: StatusHealthy, ResponseTime: responseTime}
}
