package handlers

import (
	"net/http"

	"garage-backend/internal/health"
	"garage-backend/pkg/utils"
)

type HealthHandler struct {
	checker *health.HealthChecker
	version string
}

func NewHealthHandler(checker *health.HealthChecker, version string) *HealthHandler {
	return &HealthHandler{checker: checker, version: version}
}

// BasicHealth - liveness probe
func (h *HealthHandler) BasicHealth(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadinessHealth - readiness probe, 503 while the database is unreachable
func (h *HealthHandler) ReadinessHealth(w http.ResponseWriter, r *http.Request) {
	status := h.checker.CheckReady(r.Context())
	status.Version = h.version

	code := http.StatusOK
	if status.Status != health.StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	utils.JSON(w, code, status)
}
