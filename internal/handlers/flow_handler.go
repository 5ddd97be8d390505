package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mindcanvas/backend/internal/ai"
	"github.com/mindcanvas/backend/internal/models"
	"github.com/mindcanvas/backend/internal/workflow"
)

// FlowHandler exposes the guided generation and voice note state machines over
// HTTP. Each authenticated user drives their own flow instance; commands
// issued in the wrong state come back as 409 Conflict.
type FlowHandler struct {
	flows        *workflow.Registry
	aiConfigured bool
}

// NewFlowHandler creates a new FlowHandler
func NewFlowHandler(flows *workflow.Registry, aiConfigured bool) *FlowHandler {
	return &FlowHandler{flows: flows, aiConfigured: aiConfigured}
}

// RegisterFlowRoutes registers the flow command routes
func (h *FlowHandler) RegisterFlowRoutes(g *echo.Group) {
	g.GET("/flows/generation", h.GenerationState)
	g.POST("/flows/generation/generate", h.GenerationGenerate)
	g.POST("/flows/generation/save", h.GenerationSave)
	g.POST("/flows/generation/discard", h.GenerationDiscard)

	g.GET("/flows/voice-note", h.VoiceNoteState)
	g.POST("/flows/voice-note/start", h.VoiceNoteStart)
	g.POST("/flows/voice-note/stop", h.VoiceNoteStop)
	g.POST("/flows/voice-note/transcribe", h.VoiceNoteTranscribe)
	g.PUT("/flows/voice-note/transcript", h.VoiceNoteEditTranscript)
	g.POST("/flows/voice-note/save", h.VoiceNoteSave)
	g.POST("/flows/voice-note/discard", h.VoiceNoteDiscard)
}

// flowError maps a flow command failure to its HTTP status
func flowError(err error) error {
	switch {
	case errors.Is(err, workflow.ErrBusy), errors.Is(err, workflow.ErrInvalidState):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, workflow.ErrEmptyPrompt), errors.Is(err, workflow.ErrEmptyAudio):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return providerError(err)
	}
}

func (h *FlowHandler) requireAI() error {
	if !h.aiConfigured {
		return echo.NewHTTPError(http.StatusInternalServerError, "OpenAI API key not configured")
	}
	return nil
}

func generationResponse(flow *workflow.GenerationFlow) echo.Map {
	resp := echo.Map{"state": flow.State()}
	if preview := flow.Preview(); preview != nil {
		resp["preview"] = echo.Map{
			"imageUrl":      preview.URL,
			"revisedPrompt": preview.RevisedPrompt,
			"prompt":        preview.Prompt,
			"size":          preview.Size,
			"style":         preview.Style,
			"quality":       preview.Quality,
		}
	}
	if id := flow.SavedID(); id != "" {
		resp["savedId"] = id
	}
	return resp
}

// GenerationState reports the user's current generation flow
func (h *FlowHandler) GenerationState(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return c.JSON(http.StatusOK, generationResponse(h.flows.Generation(uid)))
}

// GenerationGenerate submits a prompt to the user's generation flow. A flow
// that already finished is replaced with a fresh one first.
func (h *FlowHandler) GenerationGenerate(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if err := h.requireAI(); err != nil {
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

	flow := h.flows.Generation(uid)
	if state := flow.State(); state == workflow.StateSaved || state == workflow.StateDiscarded {
		flow = h.flows.ResetGeneration(uid)
	}

	if _, err := flow.Generate(c.Request().Context(), req.Prompt, models.ImageSize(req.Size), models.ImageStyle(req.Style), models.ImageQuality(req.Quality)); err != nil {
		return flowError(err)
	}
	return c.JSON(http.StatusOK, generationResponse(flow))
}

// GenerationSave persists the pending preview
func (h *FlowHandler) GenerationSave(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req struct {
		Category string `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	flow := h.flows.Generation(uid)
	if _, err := flow.Save(c.Request().Context(), req.Category); err != nil {
		return flowError(err)
	}
	return c.JSON(http.StatusCreated, generationResponse(flow))
}

// GenerationDiscard closes the flow without persisting
func (h *FlowHandler) GenerationDiscard(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	flow := h.flows.Generation(uid)
	if err := flow.Discard(); err != nil {
		return flowError(err)
	}
	return c.JSON(http.StatusOK, generationResponse(flow))
}

func voiceNoteResponse(flow *workflow.VoiceNoteFlow) echo.Map {
	resp := echo.Map{"state": flow.State()}
	if transcript := flow.Transcript(); transcript != "" {
		resp["transcript"] = transcript
	}
	if id := flow.SavedID(); id != "" {
		resp["savedId"] = id
	}
	return resp
}

// VoiceNoteState reports the user's current voice note flow
func (h *FlowHandler) VoiceNoteState(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return c.JSON(http.StatusOK, voiceNoteResponse(h.flows.VoiceNote(uid)))
}

// VoiceNoteStart begins a recording. A flow that already finished is replaced
// with a fresh one first.
func (h *FlowHandler) VoiceNoteStart(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	flow := h.flows.VoiceNote(uid)
	if state := flow.State(); state == workflow.VoiceSaved || state == workflow.VoiceDiscarded {
		flow = h.flows.ResetVoiceNote(uid)
	}

	if err := flow.StartRecording(); err != nil {
		return flowError(err)
	}
	return c.JSON(http.StatusOK, voiceNoteResponse(flow))
}

// VoiceNoteStop ends the recording with the uploaded audio bytes
func (h *FlowHandler) VoiceNoteStop(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Audio file is required")
	}
	if fileHeader.Size > maxAudioUploadBytes {
		return echo.NewHTTPError(http.StatusBadRequest, "Audio file must be smaller than 25MB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read audio file")
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read audio file")
	}

	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	flow := h.flows.VoiceNote(uid)
	if err := flow.StopRecording(fileHeader.Filename, contentType, audio); err != nil {
		return flowError(err)
	}
	return c.JSON(http.StatusOK, voiceNoteResponse(flow))
}

// VoiceNoteTranscribe sends the recording for transcription
func (h *FlowHandler) VoiceNoteTranscribe(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	if err := h.requireAI(); err != nil {
		return err
	}

	var req struct {
		Language string `json:"language"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Language == "" {
		req.Language = "english"
	}
	if _, ok := ai.TranscriptionLanguageCode(req.Language); !ok {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Unsupported language: %s", req.Language))
	}

	flow := h.flows.VoiceNote(uid)
	if _, err := flow.Transcribe(c.Request().Context(), req.Language); err != nil {
		return flowError(err)
	}
	return c.JSON(http.StatusOK, voiceNoteResponse(flow))
}

// VoiceNoteEditTranscript replaces the transcript with user edits
func (h *FlowHandler) VoiceNoteEditTranscript(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	flow := h.flows.VoiceNote(uid)
	if err := flow.SetTranscript(req.Text); err != nil {
		return flowError(err)
	}
	return c.JSON(http.StatusOK, voiceNoteResponse(flow))
}

// VoiceNoteSave uploads the audio and persists the note
func (h *FlowHandler) VoiceNoteSave(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	flow := h.flows.VoiceNote(uid)
	if _, err := flow.Save(c.Request().Context(), req.Title); err != nil {
		return flowError(err)
	}
	return c.JSON(http.StatusCreated, voiceNoteResponse(flow))
}

// VoiceNoteDiscard drops the recording and transcript
func (h *FlowHandler) VoiceNoteDiscard(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	flow := h.flows.VoiceNote(uid)
	if err := flow.Discard(); err != nil {
		return flowError(err)
	}
	return c.JSON(http.StatusOK, voiceNoteResponse(flow))
}
