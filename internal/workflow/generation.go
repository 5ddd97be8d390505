// Package workflow models the user-facing orchestration flows as explicit
// command-driven state machines, decoupled from any rendering technology.
// Each flow instance belongs to a single user interaction; commands issued in
// the wrong state are rejected rather than queued.
package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mindcanvas/backend/internal/ai"
	"github.com/mindcanvas/backend/internal/models"
	"github.com/mindcanvas/backend/internal/services"
)

// GenerationState is the current phase of an image generation flow
type GenerationState string

const (
	StateIdle         GenerationState = "idle"
	StateGenerating   GenerationState = "generating"
	StatePreviewReady GenerationState = "preview_ready"
	StateSaving       GenerationState = "saving"
	StateSaved        GenerationState = "saved"
	StateDiscarded    GenerationState = "discarded"
)

var (
	// ErrBusy rejects a concurrent command while a request is in flight
	ErrBusy = errors.New("a request is already in progress")
	// ErrInvalidState rejects a command the current state does not allow
	ErrInvalidState = errors.New("operation not allowed in the current state")
	// ErrEmptyPrompt rejects generation without a prompt
	ErrEmptyPrompt = errors.New("prompt must not be empty")
)

// ImageGenerator produces an image for a prompt
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, size, style, quality string) (*ai.GeneratedImage, error)
}

// ImageSaver persists an accepted preview
type ImageSaver interface {
	SaveGeneratedImage(ctx context.Context, in services.SaveImageInput) (string, error)
}

// Preview is a generated image awaiting accept or discard
type Preview struct {
	URL           string
	RevisedPrompt string
	Prompt        string
	Size          models.ImageSize
	Style         models.ImageStyle
	Quality       models.ImageQuality
}

// GenerationFlow drives one generate → preview → save/discard interaction
type GenerationFlow struct {
	mu        sync.Mutex
	state     GenerationState
	userID    string
	generator ImageGenerator
	saver     ImageSaver
	preview   *Preview
	savedID   string
}

// NewGenerationFlow creates an idle flow for the user
func NewGenerationFlow(userID string, generator ImageGenerator, saver ImageSaver) *GenerationFlow {
	return &GenerationFlow{state: StateIdle, userID: userID, generator: generator, saver: saver}
}

// State returns the current state
func (f *GenerationFlow) State() GenerationState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Preview returns the pending preview, if any
func (f *GenerationFlow) Preview() *Preview {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.preview
}

// SavedID returns the persisted record id after a successful save
func (f *GenerationFlow) SavedID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.savedID
}

// Generate submits the prompt. Concurrent submissions while generating are
// rejected; zero results return the flow to idle.
func (f *GenerationFlow) Generate(ctx context.Context, prompt string, size models.ImageSize, style models.ImageStyle, quality models.ImageQuality) (*Preview, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	f.mu.Lock()
	if f.state == StateGenerating {
		f.mu.Unlock()
		return nil, ErrBusy
	}
	if f.state != StateIdle {
		f.mu.Unlock()
		return nil, ErrInvalidState
	}
	f.state = StateGenerating
	f.mu.Unlock()

	img, err := f.generator.GenerateImage(ctx, prompt, string(size), string(style), string(quality))

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateIdle
		return nil, err
	}

	f.preview = &Preview{
		URL:           img.URL,
		RevisedPrompt: img.RevisedPrompt,
		Prompt:        prompt,
		Size:          size,
		Style:         style,
		Quality:       quality,
	}
	f.state = StatePreviewReady
	return f.preview, nil
}

// Save persists the pending preview. On failure the preview remains and the
// user may retry.
func (f *GenerationFlow) Save(ctx context.Context, category string) (string, error) {
	f.mu.Lock()
	if f.state != StatePreviewReady {
		f.mu.Unlock()
		return "", ErrInvalidState
	}
	preview := f.preview
	f.state = StateSaving
	f.mu.Unlock()

	id, err := f.saver.SaveGeneratedImage(ctx, services.SaveImageInput{
		UserID:        f.userID,
		ImageURL:      preview.URL,
		Prompt:        preview.Prompt,
		RevisedPrompt: preview.RevisedPrompt,
		Size:          preview.Size,
		Style:         preview.Style,
		Quality:       preview.Quality,
		Category:      category,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StatePreviewReady
		return "", err
	}
	f.savedID = id
	f.state = StateSaved
	return id, nil
}

// Discard closes the flow without creating a record. The underlying network
// call, if any, is not aborted; its result is simply dropped.
func (f *GenerationFlow) Discard() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StatePreviewReady && f.state != StateSaved {
		return ErrInvalidState
	}
	f.preview = nil
	f.state = StateDiscarded
	return nil
}
