package models

import (
	"time"

	"github.com/mindcanvas/backend/internal/store"
)

// ImageSize is a supported generation size
type ImageSize string

const (
	SizeSquare    ImageSize = "1024x1024"
	SizeLandscape ImageSize = "1792x1024"
	SizePortrait  ImageSize = "1024x1792"
)

// ImageStyle is a supported generation style
type ImageStyle string

const (
	StyleVivid   ImageStyle = "vivid"
	StyleNatural ImageStyle = "natural"
)

// ImageQuality is a supported generation quality
type ImageQuality string

const (
	QualityStandard ImageQuality = "standard"
	QualityHD       ImageQuality = "hd"
)

// SavedImage is a persisted generation artifact. StorageURL and StoragePath are
// always set together once the record exists in the store.
type SavedImage struct {
	ID            string       `json:"id"`
	UserID        string       `json:"userId"`
	Prompt        string       `json:"prompt"`
	RevisedPrompt string       `json:"revisedPrompt,omitempty"`
	ImageURL      string       `json:"imageUrl"` // provider URL, time-limited
	StorageURL    string       `json:"storageUrl"`
	StoragePath   string       `json:"storagePath"`
	Filename      string       `json:"filename"`
	Size          ImageSize    `json:"size"`
	Style         ImageStyle   `json:"style"`
	Quality       ImageQuality `json:"quality"`
	Category      string       `json:"category,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	IsFavorite    bool         `json:"isFavorite"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// ImageFromDocument decodes a raw store document into a SavedImage
func ImageFromDocument(doc store.Document) SavedImage {
	d := doc.Data
	return SavedImage{
		ID:            doc.ID,
		UserID:        docString(d, "userId"),
		Prompt:        docString(d, "prompt"),
		RevisedPrompt: docString(d, "revisedPrompt"),
		ImageURL:      docString(d, "imageUrl"),
		StorageURL:    docString(d, "storageUrl"),
		StoragePath:   docString(d, "storagePath"),
		Filename:      docString(d, "filename"),
		Size:          ImageSize(docString(d, "size")),
		Style:         ImageStyle(docString(d, "style")),
		Quality:       ImageQuality(docString(d, "quality")),
		Category:      docString(d, "category"),
		Tags:          docStrings(d, "tags"),
		IsFavorite:    docBool(d, "isFavorite"),
		CreatedAt:     docTime(d, "createdAt"),
		UpdatedAt:     docTime(d, "updatedAt"),
	}
}

// GenerateImageRequest defines the request body for image generation
type GenerateImageRequest struct {
	Prompt  string `json:"prompt" validate:"required,min=1,max=4000"`
	Size    string `json:"size,omitempty" validate:"omitempty,oneof=1024x1024 1792x1024 1024x1792"`
	Style   string `json:"style,omitempty" validate:"omitempty,oneof=vivid natural"`
	Quality string `json:"quality,omitempty" validate:"omitempty,oneof=standard hd"`
}

// SaveImageRequest defines the request body for persisting a generated image
type SaveImageRequest struct {
	ImageURL      string `json:"imageUrl" validate:"required,url"`
	Prompt        string `json:"prompt" validate:"required,min=1,max=4000"`
	RevisedPrompt string `json:"revisedPrompt,omitempty"`
	Size          string `json:"size" validate:"required,oneof=1024x1024 1792x1024 1024x1792"`
	Style         string `json:"style" validate:"required,oneof=vivid natural"`
	Quality       string `json:"quality" validate:"required,oneof=standard hd"`
	Category      string `json:"category,omitempty" validate:"omitempty,max=50"`
}

// UpdateImageRequest defines the request body for editing image metadata
type UpdateImageRequest struct {
	Prompt   *string  `json:"prompt,omitempty" validate:"omitempty,min=1,max=4000"`
	Category *string  `json:"category,omitempty" validate:"omitempty,max=50"`
	Tags     []string `json:"tags,omitempty"`
}

// FavoriteRequest defines the request body for favorite toggling
type FavoriteRequest struct {
	IsFavorite bool `json:"isFavorite"`
}

// AnalyzeImageRequest defines the request body for vision analysis
type AnalyzeImageRequest struct {
	ImageURL string `json:"imageUrl" validate:"required,url"`
	Language string `json:"language,omitempty" validate:"omitempty,oneof=english spanish turkish russian"`
}

// ConvertImageRequest defines the request body for the image conversion proxy
type ConvertImageRequest struct {
	ImageURL string `json:"imageUrl" validate:"required,url"`
}
