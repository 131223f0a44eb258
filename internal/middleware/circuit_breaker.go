package middleware

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// CircuitState represents the state of the circuit breaker
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // Normal operation
	CircuitOpen                         // Failing, reject requests
	CircuitHalfOpen                     // Testing if recovered
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker stops calling the model after repeated failures
type CircuitBreaker struct {
	mu              sync.RWMutex
	state           CircuitState
	failures        int
	successes       int
	lastFailureTime time.Time
	now             func() time.Time

	// Configuration
	FailureThreshold int           // Number of failures before opening
	SuccessThreshold int           // Number of successes before closing
	Timeout          time.Duration // How long to wait before half-open
	OnStateChange    func(from, to CircuitState)
}

// NewCircuitBreaker creates a new circuit breaker with defaults
func NewCircuitBreaker() *CircuitBreaker {
	return NewCircuitBreakerWithConfig(5, 2, 30*time.Second)
}

// NewCircuitBreakerWithConfig creates a circuit breaker with custom config
func NewCircuitBreakerWithConfig(failureThreshold, successThreshold int, timeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:            CircuitClosed,
		now:              time.Now,
		FailureThreshold: failureThreshold,
		SuccessThreshold: successThreshold,
		Timeout:          timeout,
	}
}

// State returns the current state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Allow checks if a request should be allowed
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		// Check if timeout has passed
		if cb.now().Sub(cb.lastFailureTime) > cb.Timeout {
			cb.setState(CircuitHalfOpen)
			return true
		}
		return false
	case CircuitHalfOpen:
		return true
	}
	return false
}

// RecordSuccess records a successful request
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitHalfOpen:
		cb.successes++
		if cb.successes >= cb.SuccessThreshold {
			cb.setState(CircuitClosed)
			cb.failures = 0
			cb.successes = 0
		}
	case CircuitClosed:
		cb.failures = 0 // Reset failures on success
	}
}

// RecordFailure records a failed request
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailureTime = cb.now()

	switch cb.state {
	case CircuitClosed:
		if cb.failures >= cb.FailureThreshold {
			cb.setState(CircuitOpen)
		}
	case CircuitHalfOpen:
		cb.setState(CircuitOpen)
		cb.successes = 0
	}
}

func (cb *CircuitBreaker) setState(newState CircuitState) {
	if cb.OnStateChange != nil && cb.state != newState {
		cb.OnStateChange(cb.state, newState)
	}
	cb.state = newState
}

// MsgModelUnavailable is returned while the model circuit is open
const MsgModelUnavailable = "Model geçici olarak kullanılamıyor, lütfen daha sonra tekrar deneyin"

// RejectFunc writes the response for a request refused by an open circuit
type RejectFunc func(c *gin.Context, retryAfterSeconds int)

// RejectJSON answers 503 {"error": MsgModelUnavailable} with Retry-After
func RejectJSON(c *gin.Context, retryAfterSeconds int) {
	ServiceUnavailable(c, MsgModelUnavailable, retryAfterSeconds)
}

// CircuitBreakerMiddleware rejects model-bound requests with RejectJSON
// while the circuit is open.
func CircuitBreakerMiddleware(cb *CircuitBreaker) gin.HandlerFunc {
	return CircuitBreakerMiddlewareWithReject(cb, RejectJSON)
}

// CircuitBreakerMiddlewareWithReject rejects through reject while the circuit
// is open. A 502 from the handler counts as a model failure, any status below
// 400 as a success. Client errors and requests the caller cancelled leave the
// breaker untouched.
func CircuitBreakerMiddlewareWithReject(cb *CircuitBreaker, reject RejectFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cb.Allow() {
			reject(c, int(math.Ceil(cb.Timeout.Seconds())))
			c.Abort()
			return
		}

		c.Next()

		if errors.Is(c.Request.Context().Err(), context.Canceled) {
			return
		}

		switch status := c.Writer.Status(); {
		case status == http.StatusBadGateway:
			cb.RecordFailure()
		case status < http.StatusBadRequest:
			cb.RecordSuccess()
		}
	}
}
