package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Kind classifies a generation failure so callers can map it to guidance.
type Kind string

const (
	KindAuth      Kind = "auth"
	KindRateLimit Kind = "rate-limit"
	KindQuota     Kind = "quota"
	KindNetwork   Kind = "network"
	KindTimeout   Kind = "timeout"
	KindUnknown   Kind = "unknown"
)

// APIError is a classified failure from the generation collaborator.
type APIError struct {
	Kind       Kind
	Provider   Provider
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Provider, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
}

// classifyResponse maps a resty response or transport error to an
// *APIError, or nil when the request succeeded.
func (c *Client) classifyResponse(resp *resty.Response, err error) error {
	if err != nil {
		return &APIError{
			Kind:     classifyTransportError(err),
			Provider: c.provider,
			Message:  err.Error(),
		}
	}

	if resp.StatusCode() == 200 {
		return nil
	}

	body := resp.String()
	if len(body) > 200 {
		body = body[:200]
	}

	return &APIError{
		Kind:       ClassifyStatus(resp.StatusCode(), body),
		Provider:   c.provider,
		StatusCode: resp.StatusCode(),
		Message:    body,
	}
}

// ClassifyStatus maps an HTTP status plus response body to an error kind.
// 429 means quota exhaustion when the body says so, rate limiting otherwise.
func ClassifyStatus(status int, body string) Kind {
	lower := strings.ToLower(body)
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 429 && (strings.Contains(lower, "quota") || strings.Contains(lower, "billing")):
		return KindQuota
	case status == 429:
		return KindRateLimit
	case status >= 500:
		return KindNetwork
	default:
		return KindUnknown
	}
}

func classifyTransportError(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}
	if strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "no such host") {
		return KindNetwork
	}
	return KindUnknown
}

// Guidance maps a classified error to a short hint for the user.
func Guidance(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "AI request failed; rerun with --verbose for details."
	}

	switch apiErr.Kind {
	case KindAuth:
		return "Authentication failed. Check your API key (config or environment variable)."
	case KindRateLimit:
		return "Rate limited by the provider. Wait a moment and retry, or lower --batch-size."
	case KindQuota:
		return "API quota exhausted. Check your plan and billing with the provider."
	case KindNetwork:
		return "Network error reaching the provider. Check connectivity or --base-url."
	case KindTimeout:
		return "The AI request timed out. Retry or raise the configured timeout."
	default:
		return "AI request failed; rerun with --verbose for details."
	}
}
