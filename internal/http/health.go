package http

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/redmonkez12/sentiment-api/internal/httputil"
	"github.com/redmonkez12/sentiment-api/internal/logging"
)

const readinessTimeout = 2 * time.Second

// Check reports whether a dependency is reachable
type Check func(ctx context.Context) error

// HealthResponse is returned by the health endpoints
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthHandler serves liveness and readiness
type HealthHandler struct {
	checks map[string]Check
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Live reports that the process is serving
// @Summary      Health check
// @Description  Check if the API is running
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, HealthResponse{Status: "ok"}, http.StatusOK)
}

// Ready pings every dependency
// @Summary      Readiness check
// @Description  Check that postgres and redis are reachable
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
	status := http.StatusOK

	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			logger.Error("readiness check failed", "dependency", name, "error", err.Error())
			resp.Checks[name] = "unavailable"
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	httputil.RespondJSON(w, resp, status)
}
