package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned when a path does not resolve to a stored object
var ErrObjectNotFound = errors.New("object not found")

// UploadState mirrors the terminal and transient states of a resumable upload
type UploadState string

const (
	StateRunning  UploadState = "running"
	StatePaused   UploadState = "paused"
	StateSuccess  UploadState = "success"
	StateCanceled UploadState = "canceled"
	StateError    UploadState = "error"
)

// UploadProgress reports bytes transferred during an upload
type UploadProgress struct {
	BytesTransferred int64
	TotalBytes       int64
	Percentage       float64
	State            UploadState
}

// FileMetadata describes a stored object
type FileMetadata struct {
	Name           string
	FullPath       string
	Size           int64
	ContentType    string
	DownloadURL    string
	TimeCreated    time.Time
	Updated        time.Time
	CustomMetadata map[string]string
}

// ObjectStore defines binary blob storage with durable URL retrieval.
// Path collisions overwrite silently; callers must ensure path uniqueness.
type ObjectStore interface {
	// Upload writes bytes to path and returns a durable download URL.
	Upload(ctx context.Context, path string, r io.Reader, contentType string, metadata map[string]string) (string, error)

	// UploadWithProgress is Upload plus a progress callback. It returns only on
	// terminal success and fails on terminal error or cancellation.
	UploadWithProgress(ctx context.Context, path string, r io.Reader, size int64, contentType string, metadata map[string]string, onProgress func(UploadProgress)) (string, error)

	// URL returns the durable download URL for an existing object.
	URL(ctx context.Context, path string) (string, error)

	// Delete removes the object at path.
	Delete(ctx context.Context, path string) error

	// Metadata returns the stored object's metadata.
	Metadata(ctx context.Context, path string) (*FileMetadata, error)

	// List returns metadata for every object under the path prefix.
	List(ctx context.Context, prefix string) ([]FileMetadata, error)
}
