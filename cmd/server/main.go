package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "github.com/duygu-analizi/sentiment-api/docs" // Swagger docs
	"github.com/duygu-analizi/sentiment-api/internal/analysis"
	"github.com/duygu-analizi/sentiment-api/internal/classifier"
	"github.com/duygu-analizi/sentiment-api/internal/config"
	"github.com/duygu-analizi/sentiment-api/internal/eventbus"
	"github.com/duygu-analizi/sentiment-api/internal/handlers"
	"github.com/duygu-analizi/sentiment-api/internal/logger"
	"github.com/duygu-analizi/sentiment-api/internal/middleware"
	"github.com/duygu-analizi/sentiment-api/internal/router"
	"github.com/duygu-analizi/sentiment-api/internal/sentiment"
	"github.com/duygu-analizi/sentiment-api/internal/telemetry"
	"github.com/duygu-analizi/sentiment-api/internal/web"
)

var version = "1.0.0"

// @title Duygu Analizi API
// @version 1.0.0
// @description Three-class sentiment analysis of free text.
// @host localhost:7860
// @BasePath /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:           "sentiment-api",
		Short:         "Serve the sentiment analysis form and JSON API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				log.Printf("failed to load configuration: %v", err)
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				log.Printf("invalid flags: %v", err)
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "listen host, overrides HOST")
	cmd.Flags().IntVar(&port, "port", 7860, "listen port, overrides PORT")

	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Printf("failed to initialize logger: %v", err)
		return err
	}
	defer zl.Sync()

	zl.Info("sentiment api starting",
		zap.String("version", version),
		zap.String("environment", cfg.Environment),
		zap.String("backend", cfg.ModelBackend),
		zap.String("model", cfg.ModelName),
	)

	// Tracing
	if cfg.OTLPEndpoint != "" {
		shutdownTelemetry, err := telemetry.InitTracer(ctx, handlers.ServiceName, version, cfg.OTLPEndpoint)
		if err != nil {
			// Log but don't fail, as collector might be down
			zl.Error("failed to initialize telemetry", zap.Error(err))
		} else {
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdownTelemetry(flushCtx); err != nil {
					zl.Error("failed to shutdown telemetry", zap.Error(err))
				}
			}()
		}
	}

	// Outcome events
	var publisher *eventbus.Publisher
	if cfg.NATSURL != "" {
		publisher, err = eventbus.Connect(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			zl.Error("failed to connect to NATS, events disabled", zap.Error(err))
		} else {
			defer publisher.Close()
			zl.Info("connected to NATS", zap.String("subject", cfg.NATSSubject))
		}
	}

	// Model
	model, err := newModel(cfg)
	if err != nil {
		zl.Error("failed to initialize model backend", zap.Error(err))
		return err
	}
	adapter, err := classifier.NewAdapter(model, cfg.ModelLabels)
	if err != nil {
		zl.Error("failed to initialize classifier", zap.Error(err))
		return err
	}

	metrics := telemetry.NewMetrics()
	svc := analysis.NewService(sentiment.NewNormalizer(adapter), analysis.Options{
		Publisher: publisher,
		Metrics:   metrics,
		Logger:    zl,
		ModelName: cfg.ModelName,
		Timeout:   cfg.InferenceTimeout,
	})

	breaker := middleware.NewCircuitBreakerWithConfig(cfg.BreakerFailureThreshold, 1, cfg.BreakerTimeout)
	breaker.OnStateChange = func(from, to middleware.CircuitState) {
		zl.Warn("model circuit breaker state changed",
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
		metrics.SetBreakerState(int(to))
	}

	examples, err := web.LoadExamples(cfg.ExamplesFile)
	if err != nil {
		zl.Error("failed to load examples", zap.Error(err))
		return err
	}

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine, err := router.Setup(router.Deps{
		Analyzer: svc,
		Health: handlers.NewHealthHandler(adapter, breaker, handlers.ModelInfo{
			Name:    cfg.ModelName,
			Backend: cfg.ModelBackend,
		}, version),
		Breaker:  breaker,
		Metrics:  metrics,
		Logger:   zl,
		Examples: examples,
	})
	if err != nil {
		zl.Error("failed to set up router", zap.Error(err))
		return err
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.InferenceTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	select {
	case err := <-errCh:
		if err != nil {
			zl.Error("failed to start server", zap.Error(err))
			return err
		}
	case <-ctx.Done():
	}

	zl.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	zl.Info("server exited gracefully")
	return nil
}

func newModel(cfg *config.Config) (classifier.Model, error) {
	switch cfg.ModelBackend {
	case config.BackendInference:
		return classifier.NewInferenceClient(classifier.InferenceConfig{
			URL:       cfg.InferenceURL,
			HealthURL: cfg.InferenceHealth,
			Token:     cfg.InferenceToken,
			Timeout:   cfg.InferenceTimeout,
		}), nil
	case config.BackendLexicon:
		lexicon, err := classifier.NewLexicon(classifier.DefaultPositiveWords, classifier.DefaultNegativeWords, cfg.ModelLabels)
		if err != nil {
			return nil, err
		}
		return lexicon, nil
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.ModelBackend)
	}
}
