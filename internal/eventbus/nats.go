package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// AnalysisEvent describes the outcome of one analysis. It never carries the
// analysed text.
type AnalysisEvent struct {
	ID         string    `json:"id"`
	Sentiment  string    `json:"sentiment"`
	Confidence float64   `json:"confidence"`
	Language   string    `json:"language"`
	Model      string    `json:"model"`
	LatencyMs  int64     `json:"latency_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher publishes analysis events to a NATS subject.
// A nil *Publisher is valid and drops every event.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// Connect dials NATS and returns a publisher for subject
func Connect(url, subject string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("sentiment-api"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return &Publisher{conn: nc, subject: subject}, nil
}

// Publish sends evt. It does not wait for delivery.
func (p *Publisher) Publish(ctx context.Context, evt AnalysisEvent) error {
	if p == nil || p.conn == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.conn.Publish(p.subject, data)
}

// Close drains pending messages and closes the connection
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Drain()
}
