package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duygu-analizi/sentiment-api/internal/analysis"
	"github.com/duygu-analizi/sentiment-api/internal/classifier"
	"github.com/duygu-analizi/sentiment-api/internal/handlers"
	"github.com/duygu-analizi/sentiment-api/internal/middleware"
	"github.com/duygu-analizi/sentiment-api/internal/router"
	"github.com/duygu-analizi/sentiment-api/internal/sentiment"
	"github.com/duygu-analizi/sentiment-api/internal/telemetry"
)

func setupLexiconRouter(t *testing.T) (*gin.Engine, *middleware.CircuitBreaker) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lexicon, err := classifier.NewLexicon(classifier.DefaultPositiveWords, classifier.DefaultNegativeWords, nil)
	require.NoError(t, err)
	adapter, err := classifier.NewAdapter(lexicon, nil)
	require.NoError(t, err)

	metrics := telemetry.NewMetrics()
	svc := analysis.NewService(sentiment.NewNormalizer(adapter), analysis.Options{
		Metrics:   metrics,
		ModelName: "lexicon",
		Timeout:   time.Second,
	})
	breaker := middleware.NewCircuitBreakerWithConfig(3, 1, time.Minute)

	r, err := router.Setup(router.Deps{
		Analyzer: svc,
		Health:   handlers.NewHealthHandler(adapter, breaker, handlers.ModelInfo{Name: "lexicon", Backend: "lexicon"}, "test"),
		Breaker:  breaker,
		Metrics:  metrics,
		Examples: []string{"Bu harika bir gün!"},
	})
	require.NoError(t, err)
	return r, breaker
}

func TestRouter_Predict(t *testing.T) {
	r, _ := setupLexiconRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"data": ["Bu harika bir gün!"]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Contains(t, w.Body.String(), `"text":"Bu harika bir gün!"`)

	var got sentiment.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, sentiment.Positive, got.Sentiment)
	assert.Equal(t, 0.85, got.Confidence)
	assert.Len(t, got.Scores, 3)
}

func TestRouter_PredictEmpty(t *testing.T) {
	r, _ := setupLexiconRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"data": [""]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Boş metin analiz edilemez"}`, w.Body.String())
}

func TestRouter_Operational(t *testing.T) {
	r, _ := setupLexiconRouter(t)

	tests := []struct {
		path       string
		wantStatus int
		wantBody   string
	}{
		{"/", http.StatusOK, "Duygu Analizi API"},
		{"/health", http.StatusOK, `"status":"healthy"`},
		{"/health/deep", http.StatusOK, `"circuit_breaker":"closed"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	r, _ := setupLexiconRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"data": ["Çok mutluyum!"]}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(httptest.NewRecorder(), req)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `sentiment_analyses_total{`)
	assert.Contains(t, body, `outcome="ok"`)
	assert.Contains(t, body, `sentiment_http_requests_total{method="POST",route="/api/predict",status="200"} 1`)
}

func predictRequest(ctx context.Context, text string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(`{"data": ["`+text+`"]}`))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(ctx)
}

func TestRouter_CancelledRequestsKeepCircuitClosed(t *testing.T) {
	r, breaker := setupLexiconRouter(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, predictRequest(ctx, "Bu harika bir gün!"))
		assert.Equal(t, http.StatusBadGateway, w.Code)
	}

	assert.Equal(t, middleware.CircuitClosed, breaker.State())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, predictRequest(context.Background(), "Bu harika bir gün!"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_OpenCircuit(t *testing.T) {
	r, breaker := setupLexiconRouter(t)
	for i := 0; i < 3; i++ {
		breaker.RecordFailure()
	}
	require.Equal(t, middleware.CircuitOpen, breaker.State())

	t.Run("api answers json", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, predictRequest(context.Background(), "Çok mutluyum!"))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"error":"`+middleware.MsgModelUnavailable+`"}`, w.Body.String())
	})

	t.Run("form renders the page", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(url.Values{"text": {"Çok mutluyum!"}}.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		body := w.Body.String()
		assert.Contains(t, body, "Duygu Analizi API")
		assert.Contains(t, body, `class="failed"`)
		assert.Contains(t, body, "Model geçici olarak kullanılamıyor")
		assert.Contains(t, body, ">Çok mutluyum!</textarea>")
	})
}
