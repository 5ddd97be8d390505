package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcanvas/backend/internal/ai"
	"github.com/mindcanvas/backend/internal/handlers"
	"github.com/mindcanvas/backend/validators"
)

// stubProvider implements handlers.AIProvider with canned responses
type stubProvider struct {
	image    *ai.GeneratedImage
	imageErr error
	analysis string
	text     string
	quote    *ai.Quote
	quoteErr error
}

func (p *stubProvider) GenerateImage(_ context.Context, _, _, _, _ string) (*ai.GeneratedImage, error) {
	return p.image, p.imageErr
}

func (p *stubProvider) AnalyzeImage(_ context.Context, _, _ string) (string, error) {
	return p.analysis, nil
}

func (p *stubProvider) TranscribeAudio(_ context.Context, _ string, _ io.Reader, _ string) (string, string, error) {
	return p.text, "en", nil
}

func (p *stubProvider) MotivationalQuote(_ context.Context) (*ai.Quote, error) {
	return p.quote, p.quoteErr
}

type stubImageFetcher struct{}

func (stubImageFetcher) FetchImage(_ context.Context, _ string) ([]byte, string, error) {
	return []byte("png-bytes"), "image/png", nil
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validators.NewValidator()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("firebaseUID", "user-1")
	return c, rec
}

func TestGenerateImageSuccess(t *testing.T) {
	provider := &stubProvider{image: &ai.GeneratedImage{URL: "https://img.example.com/1.png", RevisedPrompt: "a refined prompt"}}
	h := handlers.NewAIHandler(provider, stubImageFetcher{})

	c, rec := newTestContext(http.MethodPost, "/api/v1/generate-image", `{"prompt":"a castle in the clouds"}`)
	require.NoError(t, h.GenerateImage(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success        bool   `json:"success"`
		ImageURL       string `json:"imageUrl"`
		RevisedPrompt  string `json:"revisedPrompt"`
		OriginalPrompt string `json:"originalPrompt"`
		Size           string `json:"size"`
		Style          string `json:"style"`
		Quality        string `json:"quality"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "https://img.example.com/1.png", resp.ImageURL)
	assert.Equal(t, "a refined prompt", resp.RevisedPrompt)
	assert.Equal(t, "a castle in the clouds", resp.OriginalPrompt)
	// Defaults applied when the request omits them
	assert.Equal(t, "1024x1024", resp.Size)
	assert.Equal(t, "vivid", resp.Style)
	assert.Equal(t, "standard", resp.Quality)
}

func TestGenerateImageQuotaExceeded(t *testing.T) {
	provider := &stubProvider{imageErr: &ai.ProviderError{
		Kind:    ai.KindQuota,
		Message: "OpenAI API quota exceeded. Please check your billing and usage.",
	}}
	h := handlers.NewAIHandler(provider, stubImageFetcher{})

	c, _ := newTestContext(http.MethodPost, "/api/v1/generate-image", `{"prompt":"anything"}`)
	err := h.GenerateImage(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
	assert.Contains(t, httpErr.Message, "quota")
}

func TestGenerateImageMissingPrompt(t *testing.T) {
	h := handlers.NewAIHandler(&stubProvider{}, stubImageFetcher{})

	c, _ := newTestContext(http.MethodPost, "/api/v1/generate-image", `{}`)
	err := h.GenerateImage(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGenerateImageWithoutProvider(t *testing.T) {
	h := handlers.NewAIHandler(nil, stubImageFetcher{})

	c, _ := newTestContext(http.MethodPost, "/api/v1/generate-image", `{"prompt":"anything"}`)
	err := h.GenerateImage(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Code)
	assert.Contains(t, httpErr.Message, "OpenAI API key not configured")
}

func TestAnalyzeImageReturnsFunFact(t *testing.T) {
	provider := &stubProvider{analysis: "  Castles like this took decades to build.  "}
	h := handlers.NewAIHandler(provider, stubImageFetcher{})

	c, rec := newTestContext(http.MethodPost, "/api/v1/analyze-image", `{"imageUrl":"https://img.example.com/1.png"}`)
	require.NoError(t, h.AnalyzeImage(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		FunFact  string `json:"funFact"`
		Language string `json:"language"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Castles like this took decades to build.", resp.FunFact)
	// Language defaults when omitted
	assert.Equal(t, "english", resp.Language)
}

func newAudioUploadContext(t *testing.T, language string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("audio", "note.webm")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake-audio-bytes"))
	require.NoError(t, err)
	if language != "" {
		require.NoError(t, mw.WriteField("language", language))
	}
	require.NoError(t, mw.Close())

	e := echo.New()
	e.Validator = validators.NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transcribe-audio", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("firebaseUID", "user-1")
	return c, rec
}

func TestTranscribeAudioReturnsLanguageAndCode(t *testing.T) {
	provider := &stubProvider{text: "  remember to water the plants  "}
	h := handlers.NewAIHandler(provider, stubImageFetcher{})

	c, rec := newAudioUploadContext(t, "english")
	require.NoError(t, h.TranscribeAudio(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Transcription string `json:"transcription"`
		Language      string `json:"language"`
		LanguageCode  string `json:"languageCode"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "remember to water the plants", resp.Transcription)
	assert.Equal(t, "english", resp.Language)
	assert.Equal(t, "en", resp.LanguageCode)
}

func TestTranscribeAudioRejectsUnsupportedLanguage(t *testing.T) {
	h := handlers.NewAIHandler(&stubProvider{}, stubImageFetcher{})

	c, _ := newAudioUploadContext(t, "klingon")
	err := h.TranscribeAudio(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestMotivationalQuoteFallsBackWith200(t *testing.T) {
	provider := &stubProvider{quoteErr: &ai.ProviderError{
		Kind:    ai.KindQuota,
		Message: "OpenAI API quota exceeded. Please check your billing and usage.",
	}}
	h := handlers.NewAIHandler(provider, stubImageFetcher{})

	c, rec := newTestContext(http.MethodGet, "/api/v1/motivational-quote", "")
	require.NoError(t, h.MotivationalQuote(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp ai.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Quote)
	assert.NotEmpty(t, resp.Author)
	assert.NotEmpty(t, resp.Image)
}

func TestMotivationalQuoteWithoutProviderStill200(t *testing.T) {
	h := handlers.NewAIHandler(nil, stubImageFetcher{})

	c, rec := newTestContext(http.MethodGet, "/api/v1/motivational-quote", "")
	require.NoError(t, h.MotivationalQuote(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMotivationalQuoteSuccess(t *testing.T) {
	provider := &stubProvider{quote: &ai.Quote{Quote: "Keep going.", Author: "Anonymous", Theme: "perseverance", Image: "https://img.example.com/bg.jpg"}}
	h := handlers.NewAIHandler(provider, stubImageFetcher{})

	c, rec := newTestContext(http.MethodGet, "/api/v1/motivational-quote", "")
	require.NoError(t, h.MotivationalQuote(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp ai.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Keep going.", resp.Quote)
	assert.Equal(t, "Anonymous", resp.Author)
	assert.Equal(t, "https://img.example.com/bg.jpg", resp.Image)
}

func TestConvertImage(t *testing.T) {
	h := handlers.NewAIHandler(nil, stubImageFetcher{})

	c, rec := newTestContext(http.MethodPost, "/api/v1/convert-image", `{"imageUrl":"https://img.example.com/1.png"}`)
	require.NoError(t, h.ConvertImage(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data struct {
			DataURL     string `json:"dataUrl"`
			ContentType string `json:"contentType"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Data.DataURL, "data:image/png;base64,"))
	assert.Equal(t, "image/png", resp.Data.ContentType)
}

func TestPromptSuggestions(t *testing.T) {
	h := handlers.NewAIHandler(nil, stubImageFetcher{})

	c, rec := newTestContext(http.MethodGet, "/api/v1/prompt-suggestions", "")
	require.NoError(t, h.PromptSuggestions(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data []ai.PromptSuggestion `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, len(ai.PromptSuggestions))
}
