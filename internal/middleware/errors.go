package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the single-field error body shared by every endpoint
type ErrorResponse struct {
	Error string `json:"error" example:"Boş metin analiz edilemez"`
}

// RespondError sends {"error": message}. Non-ASCII text is written as is.
func RespondError(c *gin.Context, status int, message string) {
	c.PureJSON(status, ErrorResponse{Error: message})
}

// AbortWithError sends {"error": message} and stops the handler chain
func AbortWithError(c *gin.Context, status int, message string) {
	RespondError(c, status, message)
	c.Abort()
}

// BadRequest sends a 400 error
func BadRequest(c *gin.Context, message string) {
	RespondError(c, http.StatusBadRequest, message)
}

// ServiceUnavailable sends a 503 error with a Retry-After hint in seconds
func ServiceUnavailable(c *gin.Context, message string, retryAfterSeconds int) {
	if retryAfterSeconds > 0 {
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
	}
	AbortWithError(c, http.StatusServiceUnavailable, message)
}
