package services

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRetryAfter is the wait used when a 429 carries no usable Retry-After header.
const DefaultRetryAfter = time.Second

// RateLimitError is returned for an HTTP 429 response.
// RetryAfter holds the server-advised wait, already defaulted.
type RateLimitError struct {
	Status     int
	RetryAfter time.Duration
	Method     string
	URL        string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (%d) on %s %s, retry after %s", e.Status, e.Method, e.URL, e.RetryAfter)
}

// ParseRetryAfter reads a Retry-After value given in whole seconds.
// Empty, unparseable or negative values yield [DefaultRetryAfter].
func ParseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return DefaultRetryAfter
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return DefaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}

// RateLimitTransport turns 429 responses into [*RateLimitError] so callers above the SDK can see Retry-After.
//
// Limiter, when set, spaces out requests client-side before they are sent.
type RateLimitTransport struct {
	Base    http.RoundTripper
	Limiter *rate.Limiter
}

// NewRateLimitTransport wraps base. rps <= 0 disables the client-side limiter.
func NewRateLimitTransport(base http.RoundTripper, rps float64) *RateLimitTransport {
	t := &RateLimitTransport{Base: base}
	if rps > 0 {
		t.Limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return t
}

func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusTooManyRequests {
		return resp, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return nil, &RateLimitError{
		Status:     resp.StatusCode,
		RetryAfter: ParseRetryAfter(resp.Header.Get("Retry-After")),
		Method:     req.Method,
		URL:        req.URL.Path,
	}
}
