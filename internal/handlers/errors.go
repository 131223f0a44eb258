package handlers

import (
	"errors"
	"net/http"

	"github.com/duygu-analizi/sentiment-api/internal/sentiment"
)

// User-facing messages
const (
	MsgEmptyInput     = "Boş metin analiz edilemez"
	MsgAnalysisFailed = "Analiz hatası"
	MsgInvalidBody    = `Geçersiz istek gövdesi, beklenen biçim: {"data": ["<metin>"]}`
)

// ErrorMapping is the HTTP form of an analysis error
type ErrorMapping struct {
	StatusCode int
	Message    string
}

// MapAnalysisError maps analysis errors to an HTTP status and message
func MapAnalysisError(err error) ErrorMapping {
	switch {
	case errors.Is(err, sentiment.ErrEmptyInput):
		return ErrorMapping{StatusCode: http.StatusBadRequest, Message: MsgEmptyInput}
	case errors.Is(err, sentiment.ErrExternalModel):
		return ErrorMapping{StatusCode: http.StatusBadGateway, Message: MsgAnalysisFailed + ": " + err.Error()}
	default:
		return ErrorMapping{StatusCode: http.StatusInternalServerError, Message: MsgAnalysisFailed + ": " + err.Error()}
	}
}
