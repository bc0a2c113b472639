package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/deppfellow/jobly/internal/middleware"
	"github.com/deppfellow/jobly/internal/server"
	"github.com/labstack/echo/v4"
)

// healthCheck probes one dependency.
type healthCheck func(ctx context.Context) error

type checkResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type healthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]checkResult `json:"checks"`
}

// HealthHandler serves /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
	checks map[string]healthCheck

	// critical checks turn the endpoint into a 503 when they fail. Redis is
	// left out: without it only task delivery stalls.
	critical map[string]bool
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	checks := make(map[string]healthCheck)
	if s.DB != nil {
		checks["database"] = s.DB.Pool.Ping
	}
	if s.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}
	}

	return &HealthHandler{
		Handler:  NewHandler(s),
		checks:   checks,
		critical: map[string]bool{"database": true},
	}
}

// CheckHealth runs the checks named in config and reports each one.
// It answers 200 when every critical check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	cfg := h.server.Config.Observability.HealthChecks
	response := healthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]checkResult),
	}

	if cfg.Enabled {
		for _, name := range cfg.Checks {
			check, ok := h.checks[name]
			if !ok {
				continue
			}

			result, err := h.runCheck(c.Request().Context(), check, cfg.Timeout)
			response.Checks[name] = result

			if err != nil {
				logger.Error().Err(err).Str("check", name).Str("response_time", result.ResponseTime).Msg("health check failed")
				h.recordFailure(name, result)
				if h.critical[name] {
					response.Status = "unhealthy"
				}
				continue
			}

			logger.Debug().Str("check", name).Str("response_time", result.ResponseTime).Msg("health check passed")
		}
	}

	if response.Status != "healthy" {
		return c.JSON(http.StatusServiceUnavailable, response)
	}
	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) runCheck(parent context.Context, check healthCheck, timeout time.Duration) (checkResult, error) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	start := time.Now()
	err := check(ctx)
	result := checkResult{Status: "healthy", ResponseTime: time.Since(start).String()}
	if err != nil {
		result.Status = "unhealthy"
		result.Error = err.Error()
	}
	return result, err
}

func (h *HealthHandler) recordFailure(name string, result checkResult) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}
	app.RecordCustomEvent("HealthCheckError", map[string]interface{}{
		"check_type":    name,
		"operation":     "health_check",
		"error_type":    name + "_unhealthy",
		"response_time": result.ResponseTime,
		"error_message": result.Error,
	})
}
