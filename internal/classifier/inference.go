package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// InferenceConfig configures an InferenceClient
type InferenceConfig struct {
	URL       string
	HealthURL string
	Token     string
	Timeout   time.Duration
}

// InferenceRequest is the text-classification request body
type InferenceRequest struct {
	Inputs string `json:"inputs"`
}

// InferenceError is the error body returned by HuggingFace-style servers
type InferenceError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time,omitempty"`
}

// InferenceClient is an HTTP client for a hosted text-classification model
type InferenceClient struct {
	url        string
	healthURL  string
	token      string
	httpClient *http.Client
}

// NewInferenceClient creates a new inference client
func NewInferenceClient(cfg InferenceConfig) *InferenceClient {
	return &InferenceClient{
		url:       cfg.URL,
		healthURL: cfg.HealthURL,
		token:     cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Predict sends text for classification and returns every class score
func (c *InferenceClient) Predict(ctx context.Context, text string) ([]Prediction, error) {
	body, err := json.Marshal(InferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var ie InferenceError
		if json.Unmarshal(respBody, &ie) == nil && ie.Error != "" {
			return nil, fmt.Errorf("model server returned status %d: %s", resp.StatusCode, ie.Error)
		}
		return nil, fmt.Errorf("model server returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return decodePredictions(respBody)
}

// decodePredictions accepts both the flat [{label,score}] reply and the
// per-input nested [[{label,score}]] reply.
func decodePredictions(body []byte) ([]Prediction, error) {
	var nested [][]Prediction
	if err := json.Unmarshal(body, &nested); err == nil {
		if len(nested) != 1 {
			return nil, fmt.Errorf("expected predictions for 1 input, got %d", len(nested))
		}
		return nested[0], nil
	}

	var flat []Prediction
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return flat, nil
}

// Ping checks the model server health endpoint
func (c *InferenceClient) Ping(ctx context.Context) error {
	if c.healthURL == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model server not ready: status %d", resp.StatusCode)
	}
	return nil
}
