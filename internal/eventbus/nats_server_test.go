package eventbus

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTestServer(t *testing.T) string {
	t.Helper()

	opts := natsserver.DefaultTestOptions
	opts.Port = -1
	s := natsserver.RunServer(&opts)
	t.Cleanup(s.Shutdown)
	return s.ClientURL()
}

func TestPublisher_Publish(t *testing.T) {
	url := runTestServer(t)

	sub, err := nats.Connect(url)
	require.NoError(t, err)
	defer sub.Close()

	msgs, err := sub.SubscribeSync("sentiment.analyzed")
	require.NoError(t, err)
	require.NoError(t, sub.Flush())

	p, err := Connect(url, "sentiment.analyzed")
	require.NoError(t, err)
	defer p.Close()

	evt := AnalysisEvent{
		ID:         "4b0d7a9e-0d1f-4f0e-9a57-3c2b1f9e8d11",
		Sentiment:  "positive",
		Confidence: 0.985,
		Language:   "tr",
		Model:      "cardiffnlp/twitter-roberta-base-sentiment-latest",
		LatencyMs:  42,
		Timestamp:  time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, p.Publish(context.Background(), evt))

	msg, err := msgs.NextMsg(2 * time.Second)
	require.NoError(t, err)

	var got AnalysisEvent
	require.NoError(t, json.Unmarshal(msg.Data, &got))
	assert.Equal(t, evt, got)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(msg.Data, &raw))
	assert.NotContains(t, raw, "text")
}

func TestPublisher_PublishCancelled(t *testing.T) {
	url := runTestServer(t)

	p, err := Connect(url, "sentiment.analyzed")
	require.NoError(t, err)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, p.Publish(ctx, AnalysisEvent{ID: "1"}), context.Canceled)
}
