package clients

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"slices"
	"strconv"
	"time"
)

// RetryConfig defines retry behavior for outbound HTTP calls
type RetryConfig struct {
	MaxRetries      int           // Retries after the first attempt
	InitialBackoff  time.Duration // Backoff before the first retry
	MaxBackoff      time.Duration // Upper bound of any backoff
	BackoffFactor   float64       // Multiplier per attempt
	Jitter          float64       // Random jitter factor (0-1)
	RetryableStatus []int         // HTTP status codes worth retrying
}

// DefaultRetryConfig returns the retry configuration used by the import job
func DefaultRetryConfig(maxRetries int) *RetryConfig {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryConfig{
		MaxRetries:     maxRetries,
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     15 * time.Second,
		BackoffFactor:  2.0,
		Jitter:         0.1,
		RetryableStatus: []int{
			http.StatusTooManyRequests,     // 429
			http.StatusInternalServerError, // 500
			http.StatusBadGateway,          // 502
			http.StatusServiceUnavailable,  // 503
			http.StatusGatewayTimeout,      // 504
		},
	}
}

// Retrier repeats HTTP calls with exponential backoff
type Retrier struct {
	config *RetryConfig
}

// NewRetrier creates a retrier. A nil config retries three times.
func NewRetrier(config *RetryConfig) *Retrier {
	if config == nil {
		config = DefaultRetryConfig(3)
	}
	return &Retrier{config: config}
}

// ShouldRetry reports whether a failed attempt is worth repeating.
// Transport errors (no status) are always retried.
func (r *Retrier) ShouldRetry(statusCode int, err error) bool {
	if err != nil && statusCode == 0 {
		return true
	}
	return slices.Contains(r.config.RetryableStatus, statusCode)
}

// Backoff returns how long to wait before the retry following attempt
func (r *Retrier) Backoff(attempt int, retryAfter time.Duration) time.Duration {
	if retryAfter > 0 {
		return min(retryAfter, r.config.MaxBackoff)
	}

	backoff := float64(r.config.InitialBackoff) * math.Pow(r.config.BackoffFactor, float64(attempt))
	if r.config.Jitter > 0 {
		backoff += backoff * r.config.Jitter * (rand.Float64()*2 - 1)
	}
	if backoff > float64(r.config.MaxBackoff) {
		backoff = float64(r.config.MaxBackoff)
	}
	return time.Duration(backoff)
}

// ParseRetryAfter extracts the Retry-After duration from a response
func ParseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	value := resp.Header.Get("Retry-After")
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil {
		return time.Until(t)
	}
	return 0
}

// RequestFunc performs one HTTP attempt
type RequestFunc func(ctx context.Context) (*http.Response, error)

// Do runs fn until it returns a 2xx response, a non-retryable outcome, or
// retries run out. The caller owns the returned response body. Bodies of
// discarded attempts are closed here.
func (r *Retrier) Do(ctx context.Context, fn RequestFunc) (*http.Response, int, error) {
	var (
		resp *http.Response
		err  error
	)
	for attempt := 0; ; attempt++ {
		resp, err = fn(ctx)

		status := 0
		if err == nil {
			status = resp.StatusCode
			if status >= 200 && status < 300 {
				return resp, attempt + 1, nil
			}
		}

		if !r.ShouldRetry(status, err) || attempt >= r.config.MaxRetries {
			return resp, attempt + 1, err
		}

		wait := r.Backoff(attempt, ParseRetryAfter(resp))
		if resp != nil {
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return nil, attempt + 1, ctx.Err()
		case <-time.After(wait):
		}
	}
}
