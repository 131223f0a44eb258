package classifier

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/duygu-analizi/sentiment-api/internal/sentiment"
)

var tracer = otel.Tracer("github.com/duygu-analizi/sentiment-api/internal/classifier")

// Adapter maps a Model's raw labels onto sentiment classes and enforces
// the output contract. It implements sentiment.Classifier.
type Adapter struct {
	model  Model
	labels map[string]sentiment.ClassID
}

// NewAdapter creates an Adapter. labels[i] is the raw label of class i;
// empty labels mean DefaultLabels.
func NewAdapter(model Model, labels []string) (*Adapter, error) {
	labels = labelsOrDefault(labels)
	if model == nil {
		return nil, fmt.Errorf("%w: no model configured", sentiment.ErrExternalModel)
	}
	if len(labels) != sentiment.NumClasses {
		return nil, fmt.Errorf("expected %d labels, got %d", sentiment.NumClasses, len(labels))
	}
	if len(lo.Uniq(labels)) != len(labels) {
		return nil, fmt.Errorf("labels must be unique: %v", labels)
	}

	byLabel := make(map[string]sentiment.ClassID, len(labels))
	for i, l := range labels {
		if l == "" {
			return nil, fmt.Errorf("label for %s is empty", sentiment.ClassID(i))
		}
		byLabel[l] = sentiment.ClassID(i)
	}

	return &Adapter{model: model, labels: byLabel}, nil
}

// Classify calls the model once and returns its scores ordered by class.
// Every failure is reported as sentiment.ErrExternalModel; nothing is retried.
func (a *Adapter) Classify(ctx context.Context, text string) ([]sentiment.RawScore, error) {
	ctx, span := tracer.Start(ctx, "classifier.Classify", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	predictions, err := a.model.Predict(ctx, text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "predict failed")
		return nil, fmt.Errorf("%w: %v", sentiment.ErrExternalModel, err)
	}
	span.SetAttributes(attribute.Int("classifier.predictions", len(predictions)))

	raw := make([]sentiment.RawScore, 0, len(predictions))
	for _, p := range predictions {
		class, ok := a.labels[p.Label]
		if !ok {
			err := fmt.Errorf("%w: unrecognized label %q", sentiment.ErrExternalModel, p.Label)
			span.RecordError(err)
			span.SetStatus(codes.Error, "unrecognized label")
			return nil, err
		}
		raw = append(raw, sentiment.RawScore{Class: class, Score: p.Score})
	}

	if err := sentiment.Validate(raw); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed model output")
		return nil, err
	}

	sort.Slice(raw, func(i, j int) bool { return raw[i].Class < raw[j].Class })
	return raw, nil
}

// Ping forwards to the model when it supports readiness checks.
func (a *Adapter) Ping(ctx context.Context) error {
	if p, ok := a.model.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
