package github

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

const (
	userAgent         = "history-dates-cli/1.0"
	maxRetries        = 3
	baseBackoffMs     = 1000 // 1 second base backoff
	requestTimeoutSec = 30   // 30 second timeout per request
)

// New creates a new GitHub client with retry logic
// Public repositories can be read without a token; when one is given,
// requests are authenticated through an OAuth2 transport.
func New(ctx context.Context, token string) *github.Client {
	var base http.RoundTripper = http.DefaultTransport
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		base = &oauth2.Transport{Source: ts, Base: http.DefaultTransport}
	}

	httpClient := &http.Client{
		Timeout:   requestTimeoutSec * time.Second,
		Transport: newRetryTransport(base),
	}

	client := github.NewClient(httpClient)
	client.UserAgent = userAgent

	return client
}

// retryTransport wraps http.RoundTripper with retry logic for GitHub API
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	sleep      func(context.Context, time.Duration) error
}

func newRetryTransport(base http.RoundTripper) *retryTransport {
	return &retryTransport{base: base, maxRetries: maxRetries, sleep: sleepCtx}
}

// sleepCtx waits for d or until ctx is done
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RoundTrip implements http.RoundTripper with retry logic
// Auth errors and 404s are returned immediately, rate limits wait for the
// reset, and 5xx responses and transport errors back off exponentially.
func (rt *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	var lastErr error

	for attempt := 0; attempt <= rt.maxRetries; attempt++ {
		resp, err := rt.base.RoundTrip(req.Clone(ctx))
		if err != nil {
			lastErr = err
			if attempt < rt.maxRetries {
				if err := rt.sleep(ctx, calculateBackoff(attempt)); err != nil {
					return nil, err
				}
			}
			continue
		}

		if isAuthorizationError(resp) || !shouldRetry(resp) || attempt == rt.maxRetries {
			return resp, nil
		}

		wait := calculateBackoff(attempt)
		if resp.StatusCode == http.StatusForbidden {
			wait = getRateLimitRetryAfter(resp)
		}

		// Close response body to prevent resource leak
		resp.Body.Close()
		lastErr = fmt.Errorf("status %d", resp.StatusCode)

		if err := rt.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	// All retries exhausted
	return nil, fmt.Errorf("GitHub API request failed after %d attempts: %w", rt.maxRetries+1, lastErr)
}

// isRateLimited reports whether a 403 carries rate limit headers
func isRateLimited(resp *http.Response) bool {
	return resp.Header.Get("X-RateLimit-Remaining") == "0" ||
		resp.Header.Get("Retry-After") != ""
}

// shouldRetry determines if a response should be retried
func shouldRetry(resp *http.Response) bool {
	if resp.StatusCode >= 500 {
		return true
	}
	return resp.StatusCode == http.StatusForbidden && isRateLimited(resp)
}

// getRateLimitRetryAfter calculates retry delay for rate limit responses
func getRateLimitRetryAfter(resp *http.Response) time.Duration {
	// First check for Retry-After header
	if retryAfterStr := resp.Header.Get("Retry-After"); retryAfterStr != "" {
		if retryAfterSec, err := strconv.Atoi(retryAfterStr); err == nil {
			return time.Duration(retryAfterSec) * time.Second
		}
	}

	// Check for X-RateLimit-Reset header
	if resetTimeStr := resp.Header.Get("X-RateLimit-Reset"); resetTimeStr != "" {
		if resetTime, err := strconv.ParseInt(resetTimeStr, 10, 64); err == nil {
			resetDuration := time.Until(time.Unix(resetTime, 0))
			if resetDuration > 0 {
				// Add small buffer to avoid racing with reset
				return resetDuration + (5 * time.Second)
			}
		}
	}

	// Default fallback for rate limits
	return 60 * time.Second
}

// isAuthorizationError checks if the response indicates an error that should not be retried
func isAuthorizationError(resp *http.Response) bool {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return true
	case http.StatusForbidden:
		// 403 without rate limit headers is likely an authorization issue
		return !isRateLimited(resp)
	case http.StatusNotFound:
		// Could be a private repository the token cannot see
		return true
	default:
		return false
	}
}

// calculateBackoff calculates exponential backoff with ±25% jitter
func calculateBackoff(attempt int) time.Duration {
	backoffMs := baseBackoffMs * int(math.Pow(2, float64(attempt)))
	jitterMs := backoffMs / 4
	if jitterMs > 0 {
		backoffMs += rand.Intn(2*jitterMs+1) - jitterMs
	}
	return time.Duration(backoffMs) * time.Millisecond
}
