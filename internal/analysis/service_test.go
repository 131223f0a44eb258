package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/duygu-analizi/sentiment-api/internal/eventbus"
	"github.com/duygu-analizi/sentiment-api/internal/mocks"
	"github.com/duygu-analizi/sentiment-api/internal/sentiment"
	"github.com/duygu-analizi/sentiment-api/internal/telemetry"
)

type recordingPublisher struct {
	events []eventbus.AnalysisEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt eventbus.AnalysisEvent) error {
	p.events = append(p.events, evt)
	return p.err
}

func positiveScores() []sentiment.RawScore {
	return []sentiment.RawScore{
		{Class: sentiment.Class0, Score: 0.05},
		{Class: sentiment.Class1, Score: 0.10},
		{Class: sentiment.Class2, Score: 0.85},
	}
}

func TestService_Analyze(t *testing.T) {
	t.Run("publishes an event without the text", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		classifier := mocks.NewMockClassifier(ctrl)
		classifier.EXPECT().Classify(gomock.Any(), "Bu harika bir gün!").Return(positiveScores(), nil)

		publisher := &recordingPublisher{}
		core, logs := observer.New(zap.InfoLevel)
		svc := NewService(sentiment.NewNormalizer(classifier), Options{
			Publisher: publisher,
			Metrics:   telemetry.NewMetrics(),
			Logger:    zap.New(core),
			ModelName: "test-model",
			Timeout:   time.Second,
		})

		result, err := svc.Analyze(context.Background(), "Bu harika bir gün!")

		require.NoError(t, err)
		assert.Equal(t, sentiment.Positive, result.Sentiment)

		require.Len(t, publisher.events, 1)
		evt := publisher.events[0]
		assert.Equal(t, "positive", evt.Sentiment)
		assert.Equal(t, 0.85, evt.Confidence)
		assert.Equal(t, "test-model", evt.Model)
		assert.NotEmpty(t, evt.ID)

		entries := logs.FilterMessage("sentiment analyzed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "positive", entries[0].ContextMap()["sentiment"])
	})

	t.Run("publish failure does not fail the analysis", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		classifier := mocks.NewMockClassifier(ctrl)
		classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(positiveScores(), nil)

		svc := NewService(sentiment.NewNormalizer(classifier), Options{
			Publisher: &recordingPublisher{err: errors.New("nats: connection closed")},
		})

		result, err := svc.Analyze(context.Background(), "Çok mutluyum!")

		require.NoError(t, err)
		assert.Equal(t, sentiment.Positive, result.Sentiment)
	})

	t.Run("empty input skips the model and the event", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		classifier := mocks.NewMockClassifier(ctrl)
		classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Times(0)

		publisher := &recordingPublisher{}
		svc := NewService(sentiment.NewNormalizer(classifier), Options{Publisher: publisher, Metrics: telemetry.NewMetrics()})

		_, err := svc.Analyze(context.Background(), "   ")

		assert.ErrorIs(t, err, sentiment.ErrEmptyInput)
		assert.Empty(t, publisher.events)
	})

	t.Run("model failure is logged and returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		classifier := mocks.NewMockClassifier(ctrl)
		classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).Return(nil, errors.New("model server returned status 503"))

		core, logs := observer.New(zap.InfoLevel)
		svc := NewService(sentiment.NewNormalizer(classifier), Options{Logger: zap.New(core)})

		_, err := svc.Analyze(context.Background(), "Normal bir gün geçirdim.")

		assert.ErrorIs(t, err, sentiment.ErrExternalModel)
		assert.Equal(t, 1, logs.FilterMessage("sentiment analysis failed").Len())
	})

	t.Run("applies the timeout to the model call", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		classifier := mocks.NewMockClassifier(ctrl)
		classifier.EXPECT().Classify(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ string) ([]sentiment.RawScore, error) {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
			<-ctx.Done()
			return nil, ctx.Err()
		})

		svc := NewService(sentiment.NewNormalizer(classifier), Options{Timeout: 50 * time.Millisecond})

		_, err := svc.Analyze(context.Background(), "Bu durumdan hiç memnun değilim.")

		assert.ErrorIs(t, err, sentiment.ErrExternalModel)
	})
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "en", DetectLanguage("This is a wonderful day and I am really happy to spend it walking in the park with all of my friends."))
	assert.Equal(t, UndeterminedLanguage, DetectLanguage(""))
}
