package bfplib

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

type httpClient struct {
	userAgent      string
	client         *http.Client
	rateLimiter    *rate.Limiter
	circuitBreaker *circuitBreaker
}

func (h httpClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	req.Header.Set("User-Agent", h.userAgent)

	if err := h.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter rejected the request: %w", err)
	}

	return h.circuitBreaker.Do(ctx, func(ctx context.Context) (*http.Response, error) {
		resp, err := h.client.Do(req.WithContext(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= http.StatusBadRequest {
			io.Copy(io.Discard, resp.Body) // nolint: errcheck
			resp.Body.Close()

			return nil, fmt.Errorf("netloc has responded with %s", resp.Status)
		}

		return resp, nil
	})
}

// NewHTTPClient wraps a plain http.Client with a user agent, a
// client-side rate limiter and a circuit breaker. The timeout of the
// wrapped client bounds every single request; a slow provider can never
// stall a resolution beyond it.
func NewHTTPClient(client *http.Client,
	userAgent string,
	rateLimiterInterval time.Duration,
	rateLimitBurst int,
	circuitBreakerOpenThreshold uint32,
	circuitBreakerHalfOpenTimeout, circuitBreakerResetFailuresTimeout time.Duration) HTTPClient {
	return httpClient{
		userAgent:   userAgent,
		client:      client,
		rateLimiter: rate.NewLimiter(rate.Every(rateLimiterInterval), rateLimitBurst),
		circuitBreaker: newCircuitBreaker(circuitBreakerOpenThreshold,
			circuitBreakerHalfOpenTimeout,
			circuitBreakerResetFailuresTimeout),
	}
}
