package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duygu-analizi/sentiment-api/internal/sentiment"
)

type analyzerFunc func(ctx context.Context, text string) (*sentiment.Result, error)

func (f analyzerFunc) Analyze(ctx context.Context, text string) (*sentiment.Result, error) {
	return f(ctx, text)
}

func TestProbe(t *testing.T) {
	a := analyzerFunc(func(_ context.Context, text string) (*sentiment.Result, error) {
		if text == "" {
			return nil, errors.New("Boş metin analiz edilemez")
		}
		return &sentiment.Result{
			Sentiment:  sentiment.Positive,
			Confidence: 0.85,
			Scores: map[sentiment.Sentiment]float64{
				sentiment.Negative: 0.05,
				sentiment.Neutral:  0.05,
				sentiment.Positive: 0.85,
			},
			Text: text,
		}, nil
	})

	rows := probe(context.Background(), a, []string{"Çok mutluyum!", ""})

	require.Len(t, rows, 2)
	assert.NoError(t, rows[0].Err)
	assert.Equal(t, sentiment.Positive, rows[0].Result.Sentiment)
	assert.Error(t, rows[1].Err)
}

func TestRender(t *testing.T) {
	rows := []row{
		{
			Text: "Çok mutluyum!",
			Result: &sentiment.Result{
				Sentiment:  sentiment.Positive,
				Confidence: 0.85,
				Scores: map[sentiment.Sentiment]float64{
					sentiment.Negative: 0.05,
					sentiment.Neutral:  0.05,
					sentiment.Positive: 0.85,
				},
			},
		},
		{Text: "", Err: errors.New("sentiment api returned 400: Boş metin analiz edilemez")},
	}

	var buf bytes.Buffer
	render(&buf, rows, false)
	out := buf.String()

	assert.Contains(t, out, "SENTIMENT")
	assert.Contains(t, out, "Çok mutluyum!")
	assert.Contains(t, out, "positive")
	assert.Contains(t, out, "0.850")
	assert.Contains(t, out, "0.050")
	assert.Contains(t, out, "Boş metin analiz edilemez")
	assert.NotContains(t, out, "\x1b[")
}
