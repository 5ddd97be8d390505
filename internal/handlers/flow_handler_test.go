package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcanvas/backend/internal/ai"
	"github.com/mindcanvas/backend/internal/handlers"
	"github.com/mindcanvas/backend/internal/models"
	"github.com/mindcanvas/backend/internal/services"
	"github.com/mindcanvas/backend/internal/workflow"
	"github.com/mindcanvas/backend/validators"
)

// stubImageSaver records image saves
type stubImageSaver struct {
	saves []services.SaveImageInput
}

func (s *stubImageSaver) SaveGeneratedImage(_ context.Context, in services.SaveImageInput) (string, error) {
	s.saves = append(s.saves, in)
	return fmt.Sprintf("img-%d", len(s.saves)), nil
}

// stubNoteStore records note saves and audio uploads
type stubNoteStore struct {
	saves   []services.SaveNoteInput
	uploads int
}

func (s *stubNoteStore) SaveNote(_ context.Context, in services.SaveNoteInput) (string, error) {
	s.saves = append(s.saves, in)
	return fmt.Sprintf("note-%d", len(s.saves)), nil
}

func (s *stubNoteStore) UploadNoteAudio(_ context.Context, userID, filename string, _ io.Reader, _ string) (string, string, error) {
	s.uploads++
	path := fmt.Sprintf("users/%s/voice-notes/%s", userID, filename)
	return "https://storage.example.com/" + path, path, nil
}

func newFlowHandler(provider *stubProvider) (*handlers.FlowHandler, *stubImageSaver, *stubNoteStore) {
	imageSaver := &stubImageSaver{}
	noteStore := &stubNoteStore{}
	flows := workflow.NewRegistry(provider, imageSaver, provider, noteStore, noteStore)
	return handlers.NewFlowHandler(flows, true), imageSaver, noteStore
}

func newFlowAudioContext(t *testing.T, target string, audio []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("audio", "memo.webm")
	require.NoError(t, err)
	_, err = fw.Write(audio)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	e := echo.New()
	e.Validator = validators.NewValidator()
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("firebaseUID", "user-1")
	return c, rec
}

func TestGenerationFlowGenerateAndSave(t *testing.T) {
	provider := &stubProvider{image: &ai.GeneratedImage{URL: "https://img.example.com/1.png", RevisedPrompt: "a refined prompt"}}
	h, imageSaver, _ := newFlowHandler(provider)

	c, rec := newTestContext(http.MethodPost, "/api/v1/flows/generation/generate", `{"prompt":"a quiet harbor at dawn"}`)
	require.NoError(t, h.GenerationGenerate(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var generated struct {
		State   string `json:"state"`
		Preview struct {
			ImageURL string `json:"imageUrl"`
			Prompt   string `json:"prompt"`
		} `json:"preview"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &generated))
	assert.Equal(t, string(workflow.StatePreviewReady), generated.State)
	assert.Equal(t, "https://img.example.com/1.png", generated.Preview.ImageURL)
	assert.Equal(t, "a quiet harbor at dawn", generated.Preview.Prompt)

	c, rec = newTestContext(http.MethodPost, "/api/v1/flows/generation/save", `{"category":"seascapes"}`)
	require.NoError(t, h.GenerationSave(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var saved struct {
		State   string `json:"state"`
		SavedID string `json:"savedId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	assert.Equal(t, string(workflow.StateSaved), saved.State)
	assert.NotEmpty(t, saved.SavedID)

	require.Len(t, imageSaver.saves, 1)
	assert.Equal(t, "user-1", imageSaver.saves[0].UserID)
	assert.Equal(t, "seascapes", imageSaver.saves[0].Category)
}

func TestGenerationFlowSaveWithoutPreviewConflicts(t *testing.T) {
	h, _, _ := newFlowHandler(&stubProvider{})

	c, _ := newTestContext(http.MethodPost, "/api/v1/flows/generation/save", `{}`)
	err := h.GenerationSave(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestGenerationFlowRestartsAfterSave(t *testing.T) {
	provider := &stubProvider{image: &ai.GeneratedImage{URL: "https://img.example.com/1.png"}}
	h, imageSaver, _ := newFlowHandler(provider)

	c, _ := newTestContext(http.MethodPost, "/api/v1/flows/generation/generate", `{"prompt":"first artwork"}`)
	require.NoError(t, h.GenerationGenerate(c))
	c, _ = newTestContext(http.MethodPost, "/api/v1/flows/generation/save", `{}`)
	require.NoError(t, h.GenerationSave(c))

	// A finished flow does not block the next interaction
	c, rec := newTestContext(http.MethodPost, "/api/v1/flows/generation/generate", `{"prompt":"second artwork"}`)
	require.NoError(t, h.GenerationGenerate(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, imageSaver.saves, 1)
}

func TestGenerationFlowQuotaExceeded(t *testing.T) {
	provider := &stubProvider{imageErr: &ai.ProviderError{
		Kind:    ai.KindQuota,
		Message: "OpenAI API quota exceeded. Please check your billing and usage.",
	}}
	h, _, _ := newFlowHandler(provider)

	c, _ := newTestContext(http.MethodPost, "/api/v1/flows/generation/generate", `{"prompt":"anything"}`)
	err := h.GenerationGenerate(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
}

func TestVoiceNoteFlowEndToEnd(t *testing.T) {
	provider := &stubProvider{text: "remember to water the plants"}
	h, _, noteStore := newFlowHandler(provider)

	c, rec := newTestContext(http.MethodPost, "/api/v1/flows/voice-note/start", "")
	require.NoError(t, h.VoiceNoteStart(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newFlowAudioContext(t, "/api/v1/flows/voice-note/stop", []byte("fake-audio-bytes"))
	require.NoError(t, h.VoiceNoteStop(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newTestContext(http.MethodPost, "/api/v1/flows/voice-note/transcribe", `{"language":"english"}`)
	require.NoError(t, h.VoiceNoteTranscribe(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var transcribed struct {
		State      string `json:"state"`
		Transcript string `json:"transcript"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &transcribed))
	assert.Equal(t, string(workflow.VoiceTranscriptReady), transcribed.State)
	assert.Equal(t, "remember to water the plants", transcribed.Transcript)

	c, rec = newTestContext(http.MethodPost, "/api/v1/flows/voice-note/save", `{"title":"Garden memo"}`)
	require.NoError(t, h.VoiceNoteSave(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, 1, noteStore.uploads)
	require.Len(t, noteStore.saves, 1)
	saved := noteStore.saves[0]
	assert.Equal(t, "user-1", saved.UserID)
	assert.Equal(t, models.NoteVoice, saved.Type)
	assert.Equal(t, "remember to water the plants", saved.Content)
	assert.Equal(t, "Garden memo", saved.Title)
}

func TestVoiceNoteFlowRejectsEmptyRecording(t *testing.T) {
	h, _, _ := newFlowHandler(&stubProvider{})

	c, _ := newTestContext(http.MethodPost, "/api/v1/flows/voice-note/start", "")
	require.NoError(t, h.VoiceNoteStart(c))

	c, _ = newFlowAudioContext(t, "/api/v1/flows/voice-note/stop", nil)
	err := h.VoiceNoteStop(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestVoiceNoteFlowTranscribeBeforeRecordingConflicts(t *testing.T) {
	h, _, _ := newFlowHandler(&stubProvider{})

	c, _ := newTestContext(http.MethodPost, "/api/v1/flows/voice-note/transcribe", `{"language":"english"}`)
	err := h.VoiceNoteTranscribe(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestFlowStateRequiresAuth(t *testing.T) {
	h, _, _ := newFlowHandler(&stubProvider{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/flows/generation", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.GenerationState(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
