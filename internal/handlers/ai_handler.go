package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mindcanvas/backend/internal/ai"
	"github.com/mindcanvas/backend/internal/models"
	"github.com/mindcanvas/backend/internal/services"
)

// maxAudioUploadBytes caps transcription uploads (Whisper's own limit)
const maxAudioUploadBytes = 25 * 1024 * 1024

// AIProvider is the slice of the AI client the HTTP surface depends on
type AIProvider interface {
	GenerateImage(ctx context.Context, prompt, size, style, quality string) (*ai.GeneratedImage, error)
	AnalyzeImage(ctx context.Context, imageURL, language string) (string, error)
	TranscribeAudio(ctx context.Context, filename string, audio io.Reader, language string) (string, string, error)
	MotivationalQuote(ctx context.Context) (*ai.Quote, error)
}

// AIHandler handles AI content generation HTTP requests. The provider is nil
// when no API key is configured; every generation endpoint reports that
// explicitly instead of failing obscurely.
type AIHandler struct {
	ai      AIProvider
	fetcher services.ImageFetcher
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(provider AIProvider, fetcher services.ImageFetcher) *AIHandler {
	return &AIHandler{ai: provider, fetcher: fetcher}
}

// RegisterAIRoutes registers AI content routes
func (h *AIHandler) RegisterAIRoutes(g *echo.Group) {
	g.POST("/generate-image", h.GenerateImage)
	g.POST("/analyze-image", h.AnalyzeImage)
	g.POST("/transcribe-audio", h.TranscribeAudio)
	g.GET("/motivational-quote", h.MotivationalQuote)
	g.POST("/convert-image", h.ConvertImage)
	g.GET("/prompt-suggestions", h.PromptSuggestions)
}

// providerError maps an upstream provider failure to its HTTP status
func providerError(err error) error {
	var provErr *ai.ProviderError
	if errors.As(err, &provErr) {
		return echo.NewHTTPError(provErr.HTTPStatus(), provErr.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *AIHandler) requireClient() error {
	if h.ai == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "OpenAI API key not configured")
	}
	return nil
}

// GenerateImage generates an image from a text prompt
func (h *AIHandler) GenerateImage(c echo.Context) error {
	if err := h.requireClient(); err != nil {
		return err
	}

	var req models.GenerateImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Size == "" {
		req.Size = string(models.SizeSquare)
	}
	if req.Style == "" {
		req.Style = string(models.StyleVivid)
	}
	if req.Quality == "" {
		req.Quality = string(models.QualityStandard)
	}

	img, err := h.ai.GenerateImage(c.Request().Context(), req.Prompt, req.Size, req.Style, req.Quality)
	if err != nil {
		return providerError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"imageUrl":       img.URL,
		"revisedPrompt":  img.RevisedPrompt,
		"originalPrompt": req.Prompt,
		"size":           req.Size,
		"style":          req.Style,
		"quality":        req.Quality,
	})
}

// AnalyzeImage returns a fun fact about the image in the requested language
func (h *AIHandler) AnalyzeImage(c echo.Context) error {
	if err := h.requireClient(); err != nil {
		return err
	}

	var req models.AnalyzeImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Language == "" {
		req.Language = "english"
	}

	analysis, err := h.ai.AnalyzeImage(c.Request().Context(), req.ImageURL, req.Language)
	if err != nil {
		return providerError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"funFact":  strings.TrimSpace(analysis),
		"language": req.Language,
	})
}

// TranscribeAudio transcribes an uploaded audio file
func (h *AIHandler) TranscribeAudio(c echo.Context) error {
	if err := h.requireClient(); err != nil {
		return err
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Audio file is required")
	}
	if fileHeader.Size > maxAudioUploadBytes {
		return echo.NewHTTPError(http.StatusBadRequest, "Audio file must be smaller than 25MB")
	}

	language := c.FormValue("language")
	if language == "" {
		language = "english"
	}
	if _, ok := ai.TranscriptionLanguageCode(language); !ok {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unsupported language: %s", language))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read audio file")
	}
	defer file.Close()

	text, code, err := h.ai.TranscribeAudio(c.Request().Context(), fileHeader.Filename, file, language)
	if err != nil {
		return providerError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"transcription": strings.TrimSpace(text),
		"language":      language,
		"languageCode":  code,
	})
}

// MotivationalQuote returns a generated quote, falling back to a fixed list on
// any provider failure. This endpoint always responds 200.
func (h *AIHandler) MotivationalQuote(c echo.Context) error {
	if h.ai != nil {
		quote, err := h.ai.MotivationalQuote(c.Request().Context())
		if err == nil {
			return c.JSON(http.StatusOK, quote)
		}
		c.Logger().Warnf("Quote generation failed, using fallback: %v", err)
	}
	return c.JSON(http.StatusOK, ai.FallbackQuote())
}

// ConvertImage fetches an external image server-side and returns it as a base64
// data URL, working around expiring provider URLs and browser CORS limits
func (h *AIHandler) ConvertImage(c echo.Context) error {
	var req models.ConvertImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	data, contentType, err := h.fetcher.FetchImage(c.Request().Context(), req.ImageURL)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("Failed to fetch image: %v", err))
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data))
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"dataUrl":     dataURL,
			"contentType": contentType,
			"size":        len(data),
		},
	})
}

// PromptSuggestions returns the curated prompt catalog
func (h *AIHandler) PromptSuggestions(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": ai.PromptSuggestions})
}
