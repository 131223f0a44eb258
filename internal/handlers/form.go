package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/duygu-analizi/sentiment-api/internal/middleware"
	"github.com/duygu-analizi/sentiment-api/internal/web"
)

// FormHandler serves the browser form
type FormHandler struct {
	analyzer Analyzer
	examples []string
}

// NewFormHandler creates a form handler showing examples under the form
func NewFormHandler(analyzer Analyzer, examples []string) *FormHandler {
	return &FormHandler{analyzer: analyzer, examples: examples}
}

// Index handles GET /. An example link pre-fills the text through ?text=.
func (h *FormHandler) Index(c *gin.Context) {
	page := web.NewPage(h.examples)
	page.Text = c.Query("text")
	c.HTML(http.StatusOK, web.IndexTemplate, page)
}

// Analyze handles POST / and renders the result below the form
func (h *FormHandler) Analyze(c *gin.Context) {
	page := web.NewPage(h.examples)
	page.Text = c.PostForm("text")

	status := http.StatusOK
	var output any

	result, err := h.analyzer.Analyze(c.Request.Context(), page.Text)
	if err != nil {
		mapped := MapAnalysisError(err)
		_ = c.Error(err)
		status = mapped.StatusCode
		page.Failed = true
		output = middleware.ErrorResponse{Error: mapped.Message}
	} else {
		output = result
	}

	rendered, err := prettyJSON(output)
	if err != nil {
		middleware.RespondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	page.Output = rendered

	c.HTML(status, web.IndexTemplate, page)
}

// Unavailable renders the form with the open-circuit error in the output panel
func (h *FormHandler) Unavailable(c *gin.Context, retryAfterSeconds int) {
	page := web.NewPage(h.examples)
	page.Text = c.PostForm("text")
	page.Failed = true

	rendered, err := prettyJSON(middleware.ErrorResponse{Error: middleware.MsgModelUnavailable})
	if err != nil {
		middleware.RespondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	page.Output = rendered

	if retryAfterSeconds > 0 {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	c.HTML(http.StatusServiceUnavailable, web.IndexTemplate, page)
}

// prettyJSON indents v and leaves non-ASCII and HTML characters unescaped
func prettyJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
