package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duygu-analizi/sentiment-api/internal/middleware"
	"github.com/duygu-analizi/sentiment-api/internal/sentiment"
)

// Analyzer classifies one text
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*sentiment.Result, error)
}

// PredictRequest is the body of POST /api/predict
type PredictRequest struct {
	Data []string `json:"data" binding:"required,len=1" example:"Bu harika bir gün!"`
}

// PredictHandler serves the JSON prediction endpoint
type PredictHandler struct {
	analyzer Analyzer
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(analyzer Analyzer) *PredictHandler {
	return &PredictHandler{analyzer: analyzer}
}

// Predict handles POST /api/predict
// @Summary      Analyze the sentiment of a text
// @Description  Returns the dominant sentiment, its confidence and the score of every class.
// @Tags         predict
// @Accept       json
// @Produce      json
// @Param        request  body      PredictRequest  true  "Text to analyze, as a one-element list"
// @Success      200      {object}  sentiment.Result
// @Failure      400      {object}  middleware.ErrorResponse
// @Failure      502      {object}  middleware.ErrorResponse
// @Failure      503      {object}  middleware.ErrorResponse
// @Router       /api/predict [post]
func (h *PredictHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.BadRequest(c, MsgInvalidBody)
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), req.Data[0])
	if err != nil {
		mapped := MapAnalysisError(err)
		_ = c.Error(err)
		middleware.RespondError(c, mapped.StatusCode, mapped.Message)
		return
	}

	c.PureJSON(http.StatusOK, result)
}
