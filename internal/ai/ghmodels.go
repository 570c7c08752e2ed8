package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Attamusc/history-dates-cli/internal/historic"
	"github.com/Attamusc/history-dates-cli/internal/logctx"
)

// GHModelsClient implements Restater using GitHub Models API
type GHModelsClient struct {
	HTTP      *http.Client
	BaseURL   string
	Model     string
	Token     string
	UserAgent string

	sleep func(ctx context.Context, d time.Duration) error
}

// NewGHModelsClient creates a new GitHub Models API client
func NewGHModelsClient(baseURL, model, token, userAgent string) *GHModelsClient {
	if userAgent == "" {
		userAgent = "history-dates-cli/1.0"
	}
	return &GHModelsClient{
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		BaseURL:   strings.TrimRight(baseURL, "/"),
		Model:     model,
		Token:     token,
		UserAgent: userAgent,
		sleep:     sleepCtx,
	}
}

// chatCompletionRequest represents the OpenAI-compatible request format
type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse represents the OpenAI-compatible response format
type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
}

type choice struct {
	Message message `json:"message"`
}

// batchRequest is the user prompt of a batch call
type batchRequest struct {
	Items []batchItem `json:"items"`
}

type batchItem struct {
	ID         string `json:"id"`
	Expression string `json:"expression"`
}

const (
	systemPrompt = "Rewrite the historical date expression as exactly one of: " +
		"'Month DD, YYYY' with the English month name (e.g. 'March 04, 1899'), " +
		"'YYYY' for a year alone, or 'Nth century' with the 'th' suffix (e.g. '5th century'). " +
		"Use four digit years. Reply with the rewritten date only, no prefatory text. " +
		"If the expression has no recoverable date, reply with an empty string."
	batchSystemPrompt = "You will receive a batch of historical date expressions as JSON " +
		`{"items":[{"id":"...","expression":"..."}]}. ` +
		"Rewrite each expression as exactly one of: 'Month DD, YYYY' with the English month name, " +
		"'YYYY' for a year alone, or 'Nth century' with the 'th' suffix. " +
		`Reply with a JSON object mapping each id to its rewritten date, e.g. {"1":"March 04, 1899"}. ` +
		"Use an empty string when an expression has no recoverable date. Reply with JSON only."
	temperature = 0.0
	maxRetries  = 3
	baseDelay   = 1 * time.Second
)

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

// Restate rewrites a single expression using GitHub Models API
// The rewrite is only returned when historic.Parse accepts it
func (c *GHModelsClient) Restate(ctx context.Context, expression string) (string, error) {
	logger := logctx.From(ctx)
	logger.Debug("AI restating expression", "model", c.Model, "expression", expression)

	content, err := c.callAPI(ctx, systemPrompt, expression)
	if err != nil {
		return "", err
	}

	restated := cleanReply(content)
	if !historic.Parse(restated).OK() {
		logger.Debug("AI restatement rejected", "expression", expression, "restated", restated)
		return "", fmt.Errorf("%w: %q", ErrNotAccepted, restated)
	}
	return restated, nil
}

// RestateBatch rewrites many expressions in one request
// Duplicate expressions are sent once; rewrites that do not parse are dropped
func (c *GHModelsClient) RestateBatch(ctx context.Context, expressions []string) (map[string]string, error) {
	logger := logctx.From(ctx)
	result := make(map[string]string)

	unique := dedupe(expressions)
	if len(unique) == 0 {
		return result, nil
	}

	logger.Debug("AI restating batch", "model", c.Model, "count", len(unique))
	prompt, err := c.buildBatchPrompt(unique)
	if err != nil {
		return nil, err
	}

	content, err := c.callAPI(ctx, batchSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	byID, err := c.parseBatchResponse(content)
	if err != nil {
		return nil, err
	}

	for i, expression := range unique {
		restated := cleanReply(byID[strconv.Itoa(i+1)])
		if restated == "" {
			continue
		}
		if !historic.Parse(restated).OK() {
			logger.Debug("AI restatement rejected", "expression", expression, "restated", restated)
			continue
		}
		result[expression] = restated
	}

	logger.Debug("AI batch restated", "requested", len(unique), "accepted", len(result))
	return result, nil
}

// buildBatchPrompt encodes expressions with 1-based string ids
func (c *GHModelsClient) buildBatchPrompt(expressions []string) (string, error) {
	req := batchRequest{Items: make([]batchItem, 0, len(expressions))}
	for i, expression := range expressions {
		req.Items = append(req.Items, batchItem{ID: strconv.Itoa(i + 1), Expression: expression})
	}

	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal batch request: %w", err)
	}
	return string(data), nil
}

// parseBatchResponse decodes the id -> rewrite object, tolerating a
// markdown code fence around it
func (c *GHModelsClient) parseBatchResponse(content string) (map[string]string, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	var byID map[string]string
	if err := json.Unmarshal([]byte(content), &byID); err != nil {
		return nil, fmt.Errorf("failed to parse batch response: %w", err)
	}
	return byID, nil
}

// callAPI makes the actual HTTP request to GitHub Models API with retry logic
func (c *GHModelsClient) callAPI(ctx context.Context, system, userPrompt string) (string, error) {
	logger := logctx.From(ctx)

	request := chatCompletionRequest{
		Model:       c.Model,
		Temperature: temperature,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: userPrompt},
		},
	}

	sleep := c.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	logger.Debug("Starting AI API request", "model", c.Model, "maxRetries", maxRetries)

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Apply jittered exponential backoff
			delay := time.Duration(float64(baseDelay) * math.Pow(2, float64(attempt-1)))
			jitter := time.Duration(rand.Float64() * float64(delay) * 0.1) // 10% jitter
			logger.Debug("AI API retry backoff", "attempt", attempt, "delay", delay+jitter)
			if err := sleep(ctx, delay+jitter); err != nil {
				return "", err
			}
		}

		response, err := c.makeHTTPRequest(ctx, request)
		if err != nil {
			lastErr = err

			// Retry on rate limits and server errors
			var httpErr *HTTPError
			if errors.As(err, &httpErr) && httpErr.retryable() {
				logger.Debug("AI API retryable failure", "attempt", attempt+1, "statusCode", httpErr.StatusCode)
				if retryAfter := httpErr.Headers.Get("Retry-After"); retryAfter != "" {
					if seconds, parseErr := strconv.Atoi(retryAfter); parseErr == nil {
						logger.Debug("AI API rate limit backoff", "retryAfter", seconds)
						if err := sleep(ctx, time.Duration(seconds)*time.Second); err != nil {
							return "", err
						}
					}
				}
				continue
			}

			logger.Debug("AI API request failed", "attempt", attempt+1, "error", err)
			return "", fmt.Errorf("GitHub Models API request failed: %w", err)
		}

		if len(response.Choices) == 0 {
			return "", errors.New("GitHub Models API returned empty response")
		}

		content := response.Choices[0].Message.Content
		logger.Debug("AI API request succeeded", "attempt", attempt+1, "length", len(content))
		return content, nil
	}

	return "", fmt.Errorf("GitHub Models API failed after %d retries: %w", maxRetries, lastErr)
}

// makeHTTPRequest performs the actual HTTP request
func (c *GHModelsClient) makeHTTPRequest(ctx context.Context, request chatCompletionRequest) (*chatCompletionResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := c.BaseURL + "/inference/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
			Headers:    resp.Header,
		}
	}

	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &response, nil
}

// cleanReply trims whitespace, quotes and a trailing period from a model reply
func cleanReply(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'`")
	s = strings.TrimSuffix(s, ".")
	return strings.TrimSpace(s)
}

func dedupe(expressions []string) []string {
	seen := make(map[string]bool, len(expressions))
	var unique []string
	for _, e := range expressions {
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		unique = append(unique, e)
	}
	return unique
}

// HTTPError represents an HTTP error response
type HTTPError struct {
	StatusCode int
	Body       string
	Headers    http.Header
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
