// Package router assembles the gin engine serving the form, the API and
// the operational endpoints.
package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/duygu-analizi/sentiment-api/internal/handlers"
	"github.com/duygu-analizi/sentiment-api/internal/middleware"
	"github.com/duygu-analizi/sentiment-api/internal/telemetry"
	"github.com/duygu-analizi/sentiment-api/internal/web"
)

// Deps are the components the routes are built from
type Deps struct {
	Analyzer handlers.Analyzer
	Health   *handlers.HealthHandler
	Breaker  *middleware.CircuitBreaker
	Metrics  *telemetry.Metrics
	Logger   *zap.Logger
	Examples []string
}

// Setup builds the engine
func Setup(deps Deps) (*gin.Engine, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger, "/health", "/metrics"))
	router.Use(middleware.CORS())
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}
	router.SetHTMLTemplate(tmpl)

	// Form
	form := handlers.NewFormHandler(deps.Analyzer, deps.Examples)
	predict := handlers.NewPredictHandler(deps.Analyzer)

	router.GET("/", form.Index)
	router.POST("/", modelRoute(deps.Breaker, form.Unavailable, form.Analyze)...)

	// API
	api := router.Group("/api")
	{
		api.POST("/predict", modelRoute(deps.Breaker, middleware.RejectJSON, predict.Predict)...)
	}

	// Health
	if deps.Health != nil {
		router.GET("/health", deps.Health.Health)
		router.GET("/health/deep", deps.Health.DeepHealth)
	}

	// Metrics
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	// Swagger
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router, nil
}

// modelRoute puts the circuit breaker in front of handlers that call the model
func modelRoute(cb *middleware.CircuitBreaker, reject middleware.RejectFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	if cb == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{middleware.CircuitBreakerMiddlewareWithReject(cb, reject), h}
}
