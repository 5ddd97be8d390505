package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mindcanvas/backend/internal/models"
	"github.com/mindcanvas/backend/internal/storage"
	"github.com/mindcanvas/backend/internal/store"
)

// ErrNoteSave is returned when the note record cannot be written
var ErrNoteSave = errors.New("failed to save note, please try again")

// SaveNoteInput describes a note to persist. AudioURL/AudioPath are optional
// even for voice notes; a recording can be discarded before save.
type SaveNoteInput struct {
	UserID    string
	Title     string
	Content   string
	Type      models.NoteType
	Language  string
	AudioURL  string
	AudioPath string
}

// NoteQueryOptions controls note gallery filtering, search, sorting and limits
type NoteQueryOptions struct {
	Type          models.NoteType
	FavoritesOnly bool
	Search        string
	Sort          string
	Limit         int
}

// NoteService orchestrates note persistence
type NoteService struct {
	docs    store.DocumentStore
	objects storage.ObjectStore
}

// NewNoteService creates a new NoteService
func NewNoteService(docs store.DocumentStore, objects storage.ObjectStore) *NoteService {
	return &NoteService{docs: docs, objects: objects}
}

// SaveNote derives tags from the content, sanitizes and writes the record.
// Returns the new record id.
func (s *NoteService) SaveNote(ctx context.Context, in SaveNoteInput) (string, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Untitled Note"
	}

	record := map[string]interface{}{
		"userId":     in.UserID,
		"title":      title,
		"content":    strings.TrimSpace(in.Content),
		"type":       string(in.Type),
		"language":   nilIfEmpty(in.Language),
		"audioUrl":   nilIfEmpty(in.AudioURL),
		"audioPath":  nilIfEmpty(in.AudioPath),
		"tags":       ExtractContentTags(in.Content),
		"isFavorite": false,
	}

	id, err := s.docs.Create(ctx, CollectionNotes, store.Sanitize(record))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoteSave, err)
	}
	return id, nil
}

// UploadNoteAudio stores a voice recording durably and returns its download
// URL and storage path
func (s *NoteService) UploadNoteAudio(ctx context.Context, userID, filename string, audio io.Reader, contentType string) (string, string, error) {
	path := fmt.Sprintf("users/%s/voice-notes/%d-%s-%s",
		userID, time.Now().UnixMilli(), uuid.NewString()[:8], filename)

	url, err := s.objects.Upload(ctx, path, audio, contentType, map[string]string{
		"userId": userID,
		"type":   "voice-note",
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload audio to storage: %w", err)
	}
	return url, path, nil
}

// UserNotes returns the user's notes after applying filters, search and
// sorting in-process. Fetch errors degrade to an empty result set.
func (s *NoteService) UserNotes(ctx context.Context, userID string, opts NoteQueryOptions) []models.SavedNote {
	docs, err := s.docs.List(ctx, CollectionNotes, []store.Condition{store.Eq("userId", userID)}, store.ListOptions{})
	if err != nil {
		log.Printf("Error loading notes for user %s: %v", userID, err)
		return []models.SavedNote{}
	}

	notes := make([]models.SavedNote, 0, len(docs))
	for _, doc := range docs {
		note := models.NoteFromDocument(doc)
		if opts.Type != "" && note.Type != opts.Type {
			continue
		}
		if opts.FavoritesOnly && !note.IsFavorite {
			continue
		}
		if opts.Search != "" && !noteMatches(note, opts.Search) {
			continue
		}
		notes = append(notes, note)
	}

	sortNotes(notes, opts.Sort)

	if opts.Limit > 0 && len(notes) > opts.Limit {
		notes = notes[:opts.Limit]
	}
	return notes
}

func noteMatches(note models.SavedNote, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(note.Title), term) ||
		strings.Contains(strings.ToLower(note.Content), term) {
		return true
	}
	for _, tag := range note.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func sortNotes(notes []models.SavedNote, order string) {
	switch order {
	case SortOldest:
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].CreatedAt.Before(notes[j].CreatedAt)
		})
	case SortTitle:
		sort.SliceStable(notes, func(i, j int) bool {
			return strings.ToLower(notes[i].Title) < strings.ToLower(notes[j].Title)
		})
	default: // newest first
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].CreatedAt.After(notes[j].CreatedAt)
		})
	}
}

// GetNote fetches a single note record, or (nil, nil) when absent
func (s *NoteService) GetNote(ctx context.Context, id string) (*models.SavedNote, error) {
	doc, err := s.docs.Get(ctx, CollectionNotes, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	note := models.NoteFromDocument(*doc)
	return &note, nil
}

// UpdateNote edits a note's title and/or content; content edits re-derive tags
func (s *NoteService) UpdateNote(ctx context.Context, id string, req models.UpdateNoteRequest) error {
	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			title = "Untitled Note"
		}
		updates["title"] = title
	}
	if req.Content != nil {
		updates["content"] = strings.TrimSpace(*req.Content)
		updates["tags"] = ExtractContentTags(*req.Content)
	}
	updates = store.Sanitize(updates)
	if len(updates) == 0 {
		return nil
	}
	return s.docs.Update(ctx, CollectionNotes, id, updates)
}

// ToggleFavorite sets the favorite flag on a note
func (s *NoteService) ToggleFavorite(ctx context.Context, id string, isFavorite bool) error {
	return s.docs.Update(ctx, CollectionNotes, id, map[string]interface{}{"isFavorite": isFavorite})
}

// DeleteNote removes the note record and, for voice notes with uploaded audio,
// the stored recording. A missing recording is tolerated.
func (s *NoteService) DeleteNote(ctx context.Context, note *models.SavedNote) error {
	if note.AudioPath != "" {
		if err := s.objects.Delete(ctx, note.AudioPath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			return fmt.Errorf("failed to delete note audio: %w", err)
		}
	}
	if err := s.docs.Delete(ctx, CollectionNotes, note.ID); err != nil {
		return fmt.Errorf("failed to delete note record: %w", err)
	}
	return nil
}
