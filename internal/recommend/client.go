package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"time"
)

// Client speaks an OpenRouter-compatible chat-completions API with
// bounded retries and exponential backoff.
type Client struct {
	httpClient       *http.Client
	apiKey           string
	baseURL          string
	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// NewClient builds a client with default timeouts and retry strategy.
func NewClient(apiKey string) *Client {
	return NewClientWithOptions(apiKey, 60*time.Second, 3, 500*time.Millisecond, 4*time.Second, "")
}

// NewClientWithOptions customizes HTTP timeout, retry/backoff behavior, and
// base URL (the latter used in tests).
func NewClientWithOptions(apiKey string, httpTimeout time.Duration, retryMax int, baseDelay, maxDelay time.Duration, baseURL string) *Client {
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}
	if retryMax <= 0 {
		retryMax = 3
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 4 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	return &Client{
		httpClient:       &http.Client{Timeout: httpTimeout},
		apiKey:           apiKey,
		baseURL:          baseURL,
		retryMaxAttempts: retryMax,
		retryBaseDelay:   baseDelay,
		retryMaxDelay:    maxDelay,
	}
}

// Complete sends one chat request and returns the first choice's content.
// 429 and 5xx responses retry with capped, jittered exponential backoff;
// other failures classify into typed errors.
func (c *Client) Complete(ctx context.Context, model, prompt string, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("api key is missing")
	}
	if model == "" {
		return "", errors.New("model cannot be empty")
	}
	payload, err := json.Marshal(chatRequest{
		Model:     model,
		Messages:  []message{{Role: "user", Content: prompt}},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	endpoint := c.baseURL + "/chat/completions"
	backoff := c.retryBaseDelay

	var lastErr error
	for attempt := 1; attempt <= c.retryMaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return "", fmt.Errorf("build request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if isRetryableNetErr(err) && attempt < c.retryMaxAttempts {
				lastErr = err
				time.Sleep(backoff)
				backoff *= 2
				continue
			}
			return "", fmt.Errorf("http request: %w", err)
		}
		content, retry, err := c.readResponse(resp)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !retry || attempt >= c.retryMaxAttempts {
			break
		}
		sleep := withJitter(backoff)
		if c.retryMaxDelay > 0 && sleep > c.retryMaxDelay {
			sleep = c.retryMaxDelay
		}
		var rl *RateLimitError
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			sleep = rl.RetryAfter
		}
		time.Sleep(sleep)
		backoff *= 2
	}
	return "", lastErr
}

// readResponse consumes one HTTP response. The second return reports whether
// the failure is retryable.
func (c *Client) readResponse(resp *http.Response) (string, bool, error) {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: resp.Header.Get("X-Request-Id")}
		var raw map[string]any
		_ = json.Unmarshal(body, &raw)
		if v, ok := raw["error"].(map[string]any); ok {
			if msg, ok := v["message"].(string); ok {
				apiErr.Message = msg
			}
			if code, ok := v["code"].(string); ok {
				apiErr.Code = code
			}
		}
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return "", retryable, classifyAPIError(apiErr, resp)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false, fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", false, errors.New("response has no choices")
	}
	return out.Choices[0].Message.Content, false, nil
}

func classifyAPIError(apiErr *APIError, resp *http.Response) error {
	switch {
	case apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden:
		return &AuthError{APIError: apiErr}
	case apiErr.StatusCode == http.StatusTooManyRequests:
		var ra time.Duration
		if v := resp.Header.Get("Retry-After"); v != "" {
			if secs, err := parseRetryAfterSeconds(v); err == nil && secs > 0 {
				ra = time.Duration(secs) * time.Second
			}
		}
		return &RateLimitError{APIError: apiErr, RetryAfter: ra}
	case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		return &BadRequestError{APIError: apiErr}
	case apiErr.StatusCode >= 500:
		return &ServerError{APIError: apiErr}
	}
	return apiErr
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	return errors.Is(err, io.EOF)
}

// parseRetryAfterSeconds interprets a Retry-After value as seconds or an
// HTTP date.
func parseRetryAfterSeconds(v string) (int, error) {
	if s, err := strconv.Atoi(v); err == nil {
		return s, nil
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		return int(d.Seconds()), nil
	}
	return 0, fmt.Errorf("invalid Retry-After: %q", v)
}

// withJitter applies +/- 20% jitter to a backoff duration.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}
