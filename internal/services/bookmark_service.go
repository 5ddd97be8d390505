package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mindcanvas/backend/internal/models"
	"github.com/mindcanvas/backend/internal/store"
)

// BookmarkService manages saved video references
type BookmarkService struct {
	docs store.DocumentStore
}

// NewBookmarkService creates a new BookmarkService
func NewBookmarkService(docs store.DocumentStore) *BookmarkService {
	return &BookmarkService{docs: docs}
}

// Add bookmarks a video for the user and returns the new record id
func (s *BookmarkService) Add(ctx context.Context, userID string, req models.CreateBookmarkRequest) (string, error) {
	record := map[string]interface{}{
		"userId":       userID,
		"videoId":      req.VideoID,
		"title":        req.Title,
		"thumbnail":    nilIfEmpty(req.Thumbnail),
		"channelTitle": nilIfEmpty(req.ChannelTitle),
		"notes":        nilIfEmpty(req.Notes),
		"bookmarkedAt": time.Now().UTC(),
	}

	id, err := s.docs.Create(ctx, CollectionBookmarks, store.Sanitize(record))
	if err != nil {
		return "", fmt.Errorf("failed to save bookmark: %w", err)
	}
	return id, nil
}

// ForUser returns the user's bookmarks, most recently bookmarked first
func (s *BookmarkService) ForUser(ctx context.Context, userID string) ([]models.VideoBookmark, error) {
	docs, err := s.docs.List(ctx, CollectionBookmarks,
		[]store.Condition{store.Eq("userId", userID)},
		store.ListOptions{OrderBy: "bookmarkedAt", Desc: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}

	bookmarks := make([]models.VideoBookmark, 0, len(docs))
	for _, doc := range docs {
		bookmarks = append(bookmarks, models.BookmarkFromDocument(doc))
	}
	return bookmarks, nil
}

// Get fetches a single bookmark, or (nil, nil) when absent
func (s *BookmarkService) Get(ctx context.Context, id string) (*models.VideoBookmark, error) {
	doc, err := s.docs.Get(ctx, CollectionBookmarks, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	bookmark := models.BookmarkFromDocument(*doc)
	return &bookmark, nil
}

// Remove deletes a bookmark
func (s *BookmarkService) Remove(ctx context.Context, id string) error {
	return s.docs.Delete(ctx, CollectionBookmarks, id)
}
