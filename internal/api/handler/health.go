package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

const readinessTimeout = 3 * time.Second

// HealthHandler handles GET /health, the liveness probe.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness reports that the process is up.
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Check pings one dependency.
type Check func(ctx context.Context) error

// ReadinessHandler handles GET /health/ready. Each named check must pass
// before the service is reported ready.
type ReadinessHandler struct {
	checks map[string]Check
}

func NewReadinessHandler(checks map[string]Check) *ReadinessHandler {
	return &ReadinessHandler{checks: checks}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

// Readiness pings every dependency.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  readinessResponse
// @Failure  503  {object}  readinessResponse
// @Router   /health/ready [get]
func (h *ReadinessHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(map[string]dependencyStatus, len(names))
	healthy := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
