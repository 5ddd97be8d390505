package workflow

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/mindcanvas/backend/internal/models"
	"github.com/mindcanvas/backend/internal/services"
)

// VoiceNoteState is the current phase of a voice note flow
type VoiceNoteState string

const (
	VoiceIdle            VoiceNoteState = "idle"
	VoiceRecording       VoiceNoteState = "recording"
	VoiceRecorded        VoiceNoteState = "recorded"
	VoiceTranscribing    VoiceNoteState = "transcribing"
	VoiceTranscriptReady VoiceNoteState = "transcript_ready"
	VoiceSaving          VoiceNoteState = "saving"
	VoiceSaved           VoiceNoteState = "saved"
	VoiceDiscarded       VoiceNoteState = "discarded"
)

// ErrEmptyAudio rejects a recording with no captured bytes
var ErrEmptyAudio = errors.New("recording contains no audio")

// Transcriber converts recorded audio to text
type Transcriber interface {
	TranscribeAudio(ctx context.Context, filename string, audio io.Reader, language string) (string, string, error)
}

// NoteSaver persists an accepted transcript
type NoteSaver interface {
	SaveNote(ctx context.Context, in services.SaveNoteInput) (string, error)
}

// AudioStore persists the raw recording alongside the note
type AudioStore interface {
	UploadNoteAudio(ctx context.Context, userID, filename string, audio io.Reader, contentType string) (string, string, error)
}

// VoiceNoteFlow drives one record → transcribe → review → save interaction
type VoiceNoteFlow struct {
	mu          sync.Mutex
	state       VoiceNoteState
	userID      string
	transcriber Transcriber
	saver       NoteSaver
	audioStore  AudioStore

	audio       []byte
	filename    string
	contentType string
	language    string
	transcript  string
	savedID     string
}

// NewVoiceNoteFlow creates an idle flow for the user
func NewVoiceNoteFlow(userID string, transcriber Transcriber, saver NoteSaver, audioStore AudioStore) *VoiceNoteFlow {
	return &VoiceNoteFlow{state: VoiceIdle, userID: userID, transcriber: transcriber, saver: saver, audioStore: audioStore}
}

// State returns the current state
func (f *VoiceNoteFlow) State() VoiceNoteState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Transcript returns the pending transcript text
func (f *VoiceNoteFlow) Transcript() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transcript
}

// SavedID returns the persisted note id after a successful save
func (f *VoiceNoteFlow) SavedID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.savedID
}

// StartRecording begins capturing audio
func (f *VoiceNoteFlow) StartRecording() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != VoiceIdle {
		return ErrInvalidState
	}
	f.state = VoiceRecording
	return nil
}

// StopRecording ends the capture with the recorded bytes. Empty recordings
// are rejected and the flow returns to idle.
func (f *VoiceNoteFlow) StopRecording(filename, contentType string, audio []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != VoiceRecording {
		return ErrInvalidState
	}
	if len(audio) == 0 {
		f.state = VoiceIdle
		return ErrEmptyAudio
	}
	f.audio = audio
	f.filename = filename
	f.contentType = contentType
	f.state = VoiceRecorded
	return nil
}

// Transcribe sends the recording for transcription. Concurrent submissions
// while transcribing are rejected; on failure the recording is kept and
// transcription may be retried.
func (f *VoiceNoteFlow) Transcribe(ctx context.Context, language string) (string, error) {
	f.mu.Lock()
	if f.state == VoiceTranscribing {
		f.mu.Unlock()
		return "", ErrBusy
	}
	if f.state != VoiceRecorded {
		f.mu.Unlock()
		return "", ErrInvalidState
	}
	f.state = VoiceTranscribing
	filename, audio := f.filename, f.audio
	f.mu.Unlock()

	text, code, err := f.transcriber.TranscribeAudio(ctx, filename, bytes.NewReader(audio), language)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = VoiceRecorded
		return "", err
	}

	f.language = code
	f.transcript = text
	f.state = VoiceTranscriptReady
	return text, nil
}

// SetTranscript replaces the transcript with user edits before saving
func (f *VoiceNoteFlow) SetTranscript(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != VoiceTranscriptReady {
		return ErrInvalidState
	}
	f.transcript = text
	return nil
}

// Save uploads the audio and persists the note. On failure the transcript
// remains and the user may retry.
func (f *VoiceNoteFlow) Save(ctx context.Context, title string) (string, error) {
	f.mu.Lock()
	if f.state != VoiceTranscriptReady {
		f.mu.Unlock()
		return "", ErrInvalidState
	}
	f.state = VoiceSaving
	filename, contentType, audio := f.filename, f.contentType, f.audio
	transcript, language := f.transcript, f.language
	f.mu.Unlock()

	audioURL, audioPath, err := f.audioStore.UploadNoteAudio(ctx, f.userID, filename, bytes.NewReader(audio), contentType)
	if err != nil {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.state = VoiceTranscriptReady
		return "", err
	}

	id, err := f.saver.SaveNote(ctx, services.SaveNoteInput{
		UserID:    f.userID,
		Title:     title,
		Content:   transcript,
		Type:      models.NoteVoice,
		AudioURL:  audioURL,
		AudioPath: audioPath,
		Language:  language,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = VoiceTranscriptReady
		return "", err
	}

	f.savedID = id
	f.state = VoiceSaved
	return id, nil
}

// Discard drops the recording and transcript without saving
func (f *VoiceNoteFlow) Discard() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case VoiceRecording, VoiceRecorded, VoiceTranscriptReady, VoiceSaved:
		f.audio = nil
		f.transcript = ""
		f.state = VoiceDiscarded
		return nil
	default:
		return ErrInvalidState
	}
}
