package models

import (
	"time"

	"github.com/mindcanvas/backend/internal/store"
)

// VideoBookmark is a saved reference to an external video
type VideoBookmark struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	VideoID      string    `json:"videoId"`
	Title        string    `json:"title"`
	Thumbnail    string    `json:"thumbnail,omitempty"`
	ChannelTitle string    `json:"channelTitle,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	BookmarkedAt time.Time `json:"bookmarkedAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BookmarkFromDocument decodes a raw store document into a VideoBookmark
func BookmarkFromDocument(doc store.Document) VideoBookmark {
	d := doc.Data
	return VideoBookmark{
		ID:           doc.ID,
		UserID:       docString(d, "userId"),
		VideoID:      docString(d, "videoId"),
		Title:        docString(d, "title"),
		Thumbnail:    docString(d, "thumbnail"),
		ChannelTitle: docString(d, "channelTitle"),
		Notes:        docString(d, "notes"),
		BookmarkedAt: docTime(d, "bookmarkedAt"),
		CreatedAt:    docTime(d, "createdAt"),
		UpdatedAt:    docTime(d, "updatedAt"),
	}
}

// CreateBookmarkRequest defines the request body for bookmarking a video
type CreateBookmarkRequest struct {
	VideoID      string `json:"videoId" validate:"required"`
	Title        string `json:"title" validate:"required,max=200"`
	Thumbnail    string `json:"thumbnail,omitempty" validate:"omitempty,url"`
	ChannelTitle string `json:"channelTitle,omitempty" validate:"omitempty,max=200"`
	Notes        string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}
