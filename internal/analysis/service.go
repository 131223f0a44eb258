package analysis

import (
	"context"
	"errors"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/duygu-analizi/sentiment-api/internal/eventbus"
	"github.com/duygu-analizi/sentiment-api/internal/sentiment"
	"github.com/duygu-analizi/sentiment-api/internal/telemetry"
)

var tracer = otel.Tracer("github.com/duygu-analizi/sentiment-api/internal/analysis")

// UndeterminedLanguage is reported when detection is not reliable
const UndeterminedLanguage = "und"

// EventPublisher receives analysis outcome events
type EventPublisher interface {
	Publish(ctx context.Context, evt eventbus.AnalysisEvent) error
}

// Service runs one analysis per call: it bounds the model call with a
// timeout and records logs, metrics, a trace span and an outcome event.
type Service struct {
	normalizer *sentiment.Normalizer
	publisher  EventPublisher
	metrics    *telemetry.Metrics
	logger     *zap.Logger
	modelName  string
	timeout    time.Duration
}

// Options configures a Service
type Options struct {
	Publisher EventPublisher
	Metrics   *telemetry.Metrics
	Logger    *zap.Logger
	ModelName string
	Timeout   time.Duration
}

// NewService creates an analysis service around normalizer
func NewService(normalizer *sentiment.Normalizer, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		normalizer: normalizer,
		publisher:  opts.Publisher,
		metrics:    opts.Metrics,
		logger:     logger,
		modelName:  opts.ModelName,
		timeout:    opts.Timeout,
	}
}

// Analyze classifies text. Errors match sentiment.ErrEmptyInput or
// sentiment.ErrExternalModel.
func (s *Service) Analyze(ctx context.Context, text string) (*sentiment.Result, error) {
	ctx, span := tracer.Start(ctx, "analysis.Analyze")
	defer span.End()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	lang := DetectLanguage(text)
	span.SetAttributes(
		attribute.String("text.language", lang),
		attribute.Int("text.length", len([]rune(text))),
	)

	start := time.Now()
	result, err := s.normalizer.Normalize(ctx, sentiment.ClassificationRequest{Text: text})
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		if errors.Is(err, sentiment.ErrEmptyInput) {
			s.metrics.ObserveAnalysis(telemetry.OutcomeEmptyInput, "", lang, elapsed)
			s.logger.Debug("rejected empty text")
			return nil, err
		}

		s.metrics.ObserveAnalysis(telemetry.OutcomeModelError, "", lang, elapsed)
		s.logger.Error("sentiment analysis failed",
			zap.Error(err),
			zap.String("language", lang),
			zap.Duration("latency", elapsed),
		)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("sentiment.label", string(result.Sentiment)),
		attribute.Float64("sentiment.confidence", result.Confidence),
	)
	s.metrics.ObserveAnalysis(telemetry.OutcomeOK, string(result.Sentiment), lang, elapsed)

	s.logger.Info("sentiment analyzed",
		zap.String("sentiment", string(result.Sentiment)),
		zap.Float64("confidence", result.Confidence),
		zap.String("language", lang),
		zap.Duration("latency", elapsed),
	)

	s.publish(ctx, result, lang, elapsed)
	return result, nil
}

func (s *Service) publish(ctx context.Context, result *sentiment.Result, lang string, elapsed time.Duration) {
	if s.publisher == nil {
		return
	}

	evt := eventbus.AnalysisEvent{
		ID:         uuid.New().String(),
		Sentiment:  string(result.Sentiment),
		Confidence: result.Confidence,
		Language:   lang,
		Model:      s.modelName,
		LatencyMs:  elapsed.Milliseconds(),
		Timestamp:  time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish analysis event", zap.Error(err))
	}
}

// DetectLanguage returns the ISO 639-1 code of text, or UndeterminedLanguage.
func DetectLanguage(text string) string {
	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return UndeterminedLanguage
	}
	if code := info.Lang.Iso6391(); code != "" {
		return code
	}
	return UndeterminedLanguage
}
