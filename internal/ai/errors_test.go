package ai

import (
	"errors"
	"net/http"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyInvalidKey(t *testing.T) {
	err := classify(&openai.APIError{
		Code:           "invalid_api_key",
		Message:        "Incorrect API key provided",
		HTTPStatusCode: http.StatusUnauthorized,
	})

	assert.Equal(t, KindInvalidKey, err.Kind)
	assert.Equal(t, http.StatusUnauthorized, err.HTTPStatus())
	assert.Contains(t, err.Message, "API key")
}

func TestClassifyQuota(t *testing.T) {
	err := classify(&openai.APIError{
		Code:           "insufficient_quota",
		Message:        "You exceeded your current quota, please check your plan and billing details.",
		HTTPStatusCode: http.StatusTooManyRequests,
	})

	assert.Equal(t, KindQuota, err.Kind)
	assert.Equal(t, http.StatusTooManyRequests, err.HTTPStatus())
	assert.Contains(t, err.Message, "quota")
}

func TestClassifyRateLimit(t *testing.T) {
	err := classify(&openai.APIError{
		Message:        "Rate limit reached for requests",
		HTTPStatusCode: http.StatusTooManyRequests,
	})

	assert.Equal(t, KindRateLimited, err.Kind)
	assert.Equal(t, http.StatusTooManyRequests, err.HTTPStatus())
}

func TestClassifyContentPolicy(t *testing.T) {
	err := classify(&openai.APIError{
		Code:           "content_policy_violation",
		Message:        "Your request was rejected as a result of our safety system (content_policy_violation).",
		HTTPStatusCode: http.StatusBadRequest,
	})

	assert.Equal(t, KindContentPolicy, err.Kind)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus())
	assert.Contains(t, err.Message, "different prompt")
}

func TestClassifyModelUnavailable(t *testing.T) {
	err := classify(&openai.APIError{
		Message:        "That model is currently overloaded with other requests.",
		HTTPStatusCode: http.StatusServiceUnavailable,
	})

	assert.Equal(t, KindModelUnavailable, err.Kind)
	assert.Equal(t, http.StatusServiceUnavailable, err.HTTPStatus())
}

func TestClassifyUnknown(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := classify(cause)

	assert.Equal(t, KindUnknown, err.Kind)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
	assert.Contains(t, err.Message, "connection reset by peer")
	// The original error stays reachable for logging
	require.ErrorIs(t, err, cause)
}

func TestTranscriptionLanguageCode(t *testing.T) {
	for lang, want := range map[string]string{
		"english": "en",
		"spanish": "es",
		"french":  "fr",
		"turkish": "tr",
	} {
		code, ok := TranscriptionLanguageCode(lang)
		assert.True(t, ok, lang)
		assert.Equal(t, want, code)
	}

	_, ok := TranscriptionLanguageCode("klingon")
	assert.False(t, ok)
}

func TestFallbackQuoteAlwaysComplete(t *testing.T) {
	for i := 0; i < 20; i++ {
		q := FallbackQuote()
		assert.NotEmpty(t, q.Quote)
		assert.NotEmpty(t, q.Author)
		assert.NotEmpty(t, q.Theme)
		assert.NotEmpty(t, q.Image)
	}
}
