package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mindcanvas/backend/internal/models"
	"github.com/mindcanvas/backend/internal/storage"
	"github.com/mindcanvas/backend/internal/store"
)

// Document store collections
const (
	CollectionUsers     = "users"
	CollectionImages    = "ai-images"
	CollectionNotes     = "notes"
	CollectionBookmarks = "bookmarks"
)

// Sort orders for gallery queries
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortTitle  = "title"
)

// Distinct error per failed persistence stage, so the user knows whether the
// binary or the metadata step failed. None is retried automatically.
var (
	ErrImageConvert  = errors.New("unable to process the generated image, please try generating again")
	ErrImageUpload   = errors.New("failed to upload image to storage, please check your connection and try again")
	ErrImageMetadata = errors.New("failed to save image metadata, please try again")
)

// SaveImageInput describes a generated image to persist
type SaveImageInput struct {
	UserID        string
	ImageURL      string
	Prompt        string
	RevisedPrompt string
	Size          models.ImageSize
	Style         models.ImageStyle
	Quality       models.ImageQuality
	Category      string
}

// ImageQueryOptions controls gallery filtering, search, sorting and limits.
// All of it applies in-process; the store is only queried by owner.
type ImageQueryOptions struct {
	Category      string
	FavoritesOnly bool
	Search        string
	Sort          string
	Limit         int
}

// ImageStats summarizes a user's gallery
type ImageStats struct {
	TotalImages    int                  `json:"totalImages"`
	FavoriteImages int                  `json:"favoriteImages"`
	CategoryCounts map[string]int       `json:"categoryCounts"`
	SizeCounts     map[string]int       `json:"sizeCounts"`
	StyleCounts    map[string]int       `json:"styleCounts"`
	RecentImages   []models.SavedImage  `json:"recentImages"`
}

// ImageService orchestrates image persistence: convert, upload, derive
// metadata, write a normalized record
type ImageService struct {
	docs    store.DocumentStore
	objects storage.ObjectStore
	fetcher ImageFetcher
}

// NewImageService creates a new ImageService
func NewImageService(docs store.DocumentStore, objects storage.ObjectStore, fetcher ImageFetcher) *ImageService {
	return &ImageService{docs: docs, objects: objects, fetcher: fetcher}
}

// SaveGeneratedImage fetches the source image, uploads it to durable storage
// and writes the metadata record. Returns the new record id.
func (s *ImageService) SaveGeneratedImage(ctx context.Context, in SaveImageInput) (string, error) {
	data, contentType, err := s.fetcher.FetchImage(ctx, in.ImageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageConvert, err)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: unexpected content type %s", ErrImageConvert, contentType)
	}

	category := in.Category
	if category == "" {
		category = "generated"
	}

	now := time.Now()
	filename := ImageFilename(in.Prompt, now)
	// Timestamp plus random component guarantees path uniqueness; the store
	// overwrites silently on collision.
	storagePath := fmt.Sprintf("users/%s/ai-images/%d-%s-%s",
		in.UserID, now.UnixMilli(), uuid.NewString()[:8], filename)

	promptMeta := in.Prompt
	if len(promptMeta) > 100 {
		promptMeta = promptMeta[:100]
	}
	storageURL, err := s.objects.Upload(ctx, storagePath, bytes.NewReader(data), contentType, map[string]string{
		"userId":     in.UserID,
		"prompt":     promptMeta,
		"size":       string(in.Size),
		"style":      string(in.Style),
		"quality":    string(in.Quality),
		"category":   category,
		"uploadedAt": now.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageUpload, err)
	}

	record := map[string]interface{}{
		"userId":        in.UserID,
		"prompt":        in.Prompt,
		"revisedPrompt": nilIfEmpty(in.RevisedPrompt),
		"imageUrl":      in.ImageURL,
		"storageUrl":    storageURL,
		"storagePath":   storagePath,
		"filename":      filename,
		"size":          string(in.Size),
		"style":         string(in.Style),
		"quality":       string(in.Quality),
		"category":      category,
		"tags":          ExtractPromptTags(in.Prompt),
		"isFavorite":    false,
	}

	id, err := s.docs.Create(ctx, CollectionImages, store.Sanitize(record))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrImageMetadata, err)
	}
	return id, nil
}

// UserImages returns the user's gallery after applying filters, search and
// sorting in-process. Fetch errors degrade to an empty gallery.
func (s *ImageService) UserImages(ctx context.Context, userID string, opts ImageQueryOptions) []models.SavedImage {
	docs, err := s.docs.List(ctx, CollectionImages, []store.Condition{store.Eq("userId", userID)}, store.ListOptions{})
	if err != nil {
		log.Printf("Error loading images for user %s: %v", userID, err)
		return []models.SavedImage{}
	}

	images := make([]models.SavedImage, 0, len(docs))
	for _, doc := range docs {
		img := models.ImageFromDocument(doc)
		if opts.Category != "" && img.Category != opts.Category {
			continue
		}
		if opts.FavoritesOnly && !img.IsFavorite {
			continue
		}
		if opts.Search != "" && !imageMatches(img, opts.Search) {
			continue
		}
		images = append(images, img)
	}

	sortImages(images, opts.Sort)

	if opts.Limit > 0 && len(images) > opts.Limit {
		images = images[:opts.Limit]
	}
	return images
}

// imageMatches reports whether the search term is a case-insensitive substring
// of any searchable field
func imageMatches(img models.SavedImage, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(img.Prompt), term) ||
		strings.Contains(strings.ToLower(img.RevisedPrompt), term) ||
		strings.Contains(strings.ToLower(img.Category), term) {
		return true
	}
	for _, tag := range img.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

func sortImages(images []models.SavedImage, order string) {
	switch order {
	case SortOldest:
		sort.SliceStable(images, func(i, j int) bool {
			return images[i].CreatedAt.Before(images[j].CreatedAt)
		})
	case SortTitle:
		sort.SliceStable(images, func(i, j int) bool {
			return strings.ToLower(images[i].Prompt) < strings.ToLower(images[j].Prompt)
		})
	default: // newest first
		sort.SliceStable(images, func(i, j int) bool {
			return images[i].CreatedAt.After(images[j].CreatedAt)
		})
	}
}

// GetImage fetches a single image record, or (nil, nil) when absent
func (s *ImageService) GetImage(ctx context.Context, id string) (*models.SavedImage, error) {
	doc, err := s.docs.Get(ctx, CollectionImages, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	img := models.ImageFromDocument(*doc)
	return &img, nil
}

// ToggleFavorite sets the favorite flag on an image
func (s *ImageService) ToggleFavorite(ctx context.Context, id string, isFavorite bool) error {
	return s.docs.Update(ctx, CollectionImages, id, map[string]interface{}{"isFavorite": isFavorite})
}

// UpdateMetadata edits the mutable metadata fields of an image
func (s *ImageService) UpdateMetadata(ctx context.Context, id string, req models.UpdateImageRequest) error {
	updates := map[string]interface{}{}
	if req.Prompt != nil {
		updates["prompt"] = *req.Prompt
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Tags != nil {
		updates["tags"] = req.Tags
	}
	updates = store.Sanitize(updates)
	if len(updates) == 0 {
		return nil
	}
	return s.docs.Update(ctx, CollectionImages, id, updates)
}

// DeleteImage removes the stored object and then the metadata record. A
// missing object is tolerated so a previously failed delete can be retried.
func (s *ImageService) DeleteImage(ctx context.Context, img *models.SavedImage) error {
	if img.StoragePath != "" {
		if err := s.objects.Delete(ctx, img.StoragePath); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			return fmt.Errorf("failed to delete image file: %w", err)
		}
	}
	if err := s.docs.Delete(ctx, CollectionImages, img.ID); err != nil {
		return fmt.Errorf("failed to delete image record: %w", err)
	}
	return nil
}

// Stats summarizes the user's gallery
func (s *ImageService) Stats(ctx context.Context, userID string) *ImageStats {
	images := s.UserImages(ctx, userID, ImageQueryOptions{})

	stats := &ImageStats{
		TotalImages:    len(images),
		CategoryCounts: map[string]int{},
		SizeCounts:     map[string]int{},
		StyleCounts:    map[string]int{},
	}
	for _, img := range images {
		if img.IsFavorite {
			stats.FavoriteImages++
		}
		category := img.Category
		if category == "" {
			category = "uncategorized"
		}
		stats.CategoryCounts[category]++
		stats.SizeCounts[string(img.Size)]++
		stats.StyleCounts[string(img.Style)]++
	}
	if len(images) > 5 {
		stats.RecentImages = images[:5]
	} else {
		stats.RecentImages = images
	}
	return stats
}

// SubscribeUserImages streams the user's gallery, newest first, on every change
func (s *ImageService) SubscribeUserImages(ctx context.Context, userID string, fn func([]models.SavedImage)) (store.UnsubscribeFunc, error) {
	return s.docs.Subscribe(ctx, CollectionImages, []store.Condition{store.Eq("userId", userID)}, func(docs []store.Document) {
		images := make([]models.SavedImage, 0, len(docs))
		for _, doc := range docs {
			images = append(images, models.ImageFromDocument(doc))
		}
		sortImages(images, SortNewest)
		fn(images)
	})
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
