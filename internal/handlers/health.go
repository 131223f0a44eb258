package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/duygu-analizi/sentiment-api/internal/classifier"
	"github.com/duygu-analizi/sentiment-api/internal/middleware"
)

// ServiceName is reported by the health endpoints
const ServiceName = "sentiment-api"

// HealthHandler handles health check endpoints
type HealthHandler struct {
	model   classifier.Pinger
	breaker *middleware.CircuitBreaker
	info    ModelInfo
	version string
}

// ModelInfo describes the configured model
type ModelInfo struct {
	Name    string `json:"name"`
	Backend string `json:"backend"`
}

// NewHealthHandler creates a new health handler. model and breaker may be nil.
func NewHealthHandler(model classifier.Pinger, breaker *middleware.CircuitBreaker, info ModelInfo, version string) *HealthHandler {
	return &HealthHandler{
		model:   model,
		breaker: breaker,
		info:    info,
		version: version,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Model        ModelInfo         `json:"model"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Health returns basic health status
// @Summary  Liveness
// @Tags     health
// @Produce  json
// @Success  200  {object}  HealthResponse
// @Router   /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Version: h.version,
		Model:   h.info,
	})
}

// DeepHealth returns health status with model readiness
// @Summary  Readiness of the model backend
// @Tags     health
// @Produce  json
// @Success  200  {object}  HealthResponse
// @Failure  503  {object}  HealthResponse
// @Router   /health/deep [get]
func (h *HealthHandler) DeepHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	deps := make(map[string]string)
	allHealthy := true

	// Check model backend
	if h.model != nil {
		if err := h.model.Ping(ctx); err != nil {
			deps["model"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			deps["model"] = "healthy"
		}
	} else {
		deps["model"] = "not configured"
	}

	// Check circuit breaker
	if h.breaker != nil {
		state := h.breaker.State()
		deps["circuit_breaker"] = state.String()
		if state == middleware.CircuitOpen {
			allHealthy = false
		}
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthResponse{
		Status:       status,
		Service:      ServiceName,
		Version:      h.version,
		Model:        h.info,
		Dependencies: deps,
	})
}
