package ai

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// ErrorKind buckets upstream provider failures into the categories the HTTP
// surface maps to fixed statuses. None of these are retried automatically.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidKey
	KindQuota
	KindRateLimited
	KindContentPolicy
	KindModelUnavailable
	KindNotConfigured
)

// ProviderError wraps an upstream provider failure with its classification
type ProviderError struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *ProviderError) Error() string { return e.Message }

func (e *ProviderError) Unwrap() error { return e.cause }

// HTTPStatus returns the status the spec taxonomy assigns to the error kind
func (e *ProviderError) HTTPStatus() int {
	switch e.Kind {
	case KindInvalidKey:
		return http.StatusUnauthorized
	case KindQuota, KindRateLimited:
		return http.StatusTooManyRequests
	case KindContentPolicy:
		return http.StatusBadRequest
	case KindModelUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// classify maps a raw provider error to a ProviderError with a human-readable
// message
func classify(err error) *ProviderError {
	var apiErr *openai.APIError
	code := ""
	msg := err.Error()
	httpStatus := 0
	if errors.As(err, &apiErr) {
		if s, ok := apiErr.Code.(string); ok {
			code = s
		}
		msg = apiErr.Message
		httpStatus = apiErr.HTTPStatusCode
	}
	lower := strings.ToLower(msg)

	switch {
	case code == "invalid_api_key" || httpStatus == http.StatusUnauthorized || strings.Contains(lower, "api key"):
		return &ProviderError{
			Kind:    KindInvalidKey,
			Message: "Invalid API key. Please check your OpenAI API key configuration.",
			cause:   err,
		}
	case code == "insufficient_quota" || strings.Contains(lower, "quota") || strings.Contains(lower, "billing"):
		return &ProviderError{
			Kind:    KindQuota,
			Message: "OpenAI API quota exceeded. Please check your billing and usage.",
			cause:   err,
		}
	case strings.Contains(lower, "content_policy") || strings.Contains(lower, "content policy"):
		return &ProviderError{
			Kind:    KindContentPolicy,
			Message: "Content policy violation. Please try a different prompt.",
			cause:   err,
		}
	case strings.Contains(lower, "model_not_found") || strings.Contains(lower, "model is currently"):
		return &ProviderError{
			Kind:    KindModelUnavailable,
			Message: "Model temporarily unavailable. Please try again later.",
			cause:   err,
		}
	case httpStatus == http.StatusTooManyRequests || strings.Contains(lower, "rate_limit") || strings.Contains(lower, "rate limit"):
		return &ProviderError{
			Kind:    KindRateLimited,
			Message: "Too many requests. Please wait a moment and try again.",
			cause:   err,
		}
	default:
		return &ProviderError{
			Kind:    KindUnknown,
			Message: fmt.Sprintf("Request failed: %s. Please try again.", msg),
			cause:   err,
		}
	}
}
