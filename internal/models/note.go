package models

import (
	"time"

	"github.com/mindcanvas/backend/internal/store"
)

// NoteType distinguishes typed notes from transcribed voice notes
type NoteType string

const (
	NoteText  NoteType = "text"
	NoteVoice NoteType = "voice"
)

// SavedNote is a persisted note. Voice notes may carry an audio reference, but
// a recording can be discarded before save, so it is not required.
type SavedNote struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Type       NoteType  `json:"type"`
	Language   string    `json:"language,omitempty"`
	AudioURL   string    `json:"audioUrl,omitempty"`
	AudioPath  string    `json:"audioPath,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	IsFavorite bool      `json:"isFavorite"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NoteFromDocument decodes a raw store document into a SavedNote
func NoteFromDocument(doc store.Document) SavedNote {
	d := doc.Data
	return SavedNote{
		ID:         doc.ID,
		UserID:     docString(d, "userId"),
		Title:      docString(d, "title"),
		Content:    docString(d, "content"),
		Type:       NoteType(docString(d, "type")),
		Language:   docString(d, "language"),
		AudioURL:   docString(d, "audioUrl"),
		AudioPath:  docString(d, "audioPath"),
		Tags:       docStrings(d, "tags"),
		IsFavorite: docBool(d, "isFavorite"),
		CreatedAt:  docTime(d, "createdAt"),
		UpdatedAt:  docTime(d, "updatedAt"),
	}
}

// CreateNoteRequest defines the request body for saving a note
type CreateNoteRequest struct {
	Title     string `json:"title,omitempty" validate:"omitempty,max=200"`
	Content   string `json:"content" validate:"required,min=1"`
	Type      string `json:"type" validate:"required,oneof=text voice"`
	Language  string `json:"language,omitempty" validate:"omitempty,max=30"`
	AudioURL  string `json:"audioUrl,omitempty" validate:"omitempty,url"`
	AudioPath string `json:"audioPath,omitempty"`
}

// UpdateNoteRequest defines the request body for editing a note
type UpdateNoteRequest struct {
	Title   *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Content *string `json:"content,omitempty" validate:"omitempty,min=1"`
}
