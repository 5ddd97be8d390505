package mock

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/mindcanvas/backend/internal/storage"
)

type storedObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
	created     time.Time
}

// ObjectStore is an in-memory storage.ObjectStore for tests
type ObjectStore struct {
	mu      sync.RWMutex
	objects map[string]storedObject

	UploadErr error
	DeleteErr error
}

// NewObjectStore creates an empty in-memory object store
func NewObjectStore() *ObjectStore {
	return &ObjectStore{objects: map[string]storedObject{}}
}

func (s *ObjectStore) urlFor(path string) string {
	return fmt.Sprintf("https://storage.example.com/o/%s?alt=media", url.PathEscape(path))
}

// Upload stores the bytes and returns a fake durable URL
func (s *ObjectStore) Upload(_ context.Context, path string, r io.Reader, contentType string, metadata map[string]string) (string, error) {
	if s.UploadErr != nil {
		return "", s.UploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.objects[path] = storedObject{data: data, contentType: contentType, metadata: metadata, created: time.Now()}
	s.mu.Unlock()
	return s.urlFor(path), nil
}

// UploadWithProgress stores the bytes, reporting a single terminal progress event
func (s *ObjectStore) UploadWithProgress(ctx context.Context, path string, r io.Reader, size int64, contentType string, metadata map[string]string, onProgress func(storage.UploadProgress)) (string, error) {
	url, err := s.Upload(ctx, path, r, contentType, metadata)
	if onProgress != nil {
		state := storage.StateSuccess
		if err != nil {
			state = storage.StateError
		}
		onProgress(storage.UploadProgress{BytesTransferred: size, TotalBytes: size, Percentage: 100, State: state})
	}
	return url, err
}

// URL returns the fake durable URL for a stored object
func (s *ObjectStore) URL(_ context.Context, path string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[path]; !ok {
		return "", storage.ErrObjectNotFound
	}
	return s.urlFor(path), nil
}

// Delete removes a stored object
func (s *ObjectStore) Delete(_ context.Context, path string) error {
	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[path]; !ok {
		return storage.ErrObjectNotFound
	}
	delete(s.objects, path)
	return nil
}

// Metadata returns the stored object's metadata
func (s *ObjectStore) Metadata(_ context.Context, path string) (*storage.FileMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[path]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &storage.FileMetadata{
		Name:           path,
		FullPath:       path,
		Size:           int64(len(obj.data)),
		ContentType:    obj.contentType,
		DownloadURL:    s.urlFor(path),
		TimeCreated:    obj.created,
		Updated:        obj.created,
		CustomMetadata: obj.metadata,
	}, nil
}

// List returns metadata for every object under the prefix
func (s *ObjectStore) List(_ context.Context, prefix string) ([]storage.FileMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var files []storage.FileMetadata
	for path, obj := range s.objects {
		if len(path) < len(prefix) || path[:len(prefix)] != prefix {
			continue
		}
		files = append(files, storage.FileMetadata{
			Name:           path,
			FullPath:       path,
			Size:           int64(len(obj.data)),
			ContentType:    obj.contentType,
			DownloadURL:    s.urlFor(path),
			TimeCreated:    obj.created,
			Updated:        obj.created,
			CustomMetadata: obj.metadata,
		})
	}
	return files, nil
}

// Has reports whether an object exists at path
func (s *ObjectStore) Has(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[path]
	return ok
}

// Len returns the number of stored objects
func (s *ObjectStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
