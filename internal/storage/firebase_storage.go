package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

const downloadTokenKey = "firebaseStorageDownloadTokens"

// FirebaseStorage implements ObjectStore on a Firebase Storage bucket
type FirebaseStorage struct {
	bucket *gcs.BucketHandle
}

// NewFirebaseStorage creates a new FirebaseStorage
func NewFirebaseStorage(bucket *gcs.BucketHandle) *FirebaseStorage {
	return &FirebaseStorage{bucket: bucket}
}

// downloadURL builds the token-based Firebase download URL, which does not expire
func downloadURL(bucketName, path, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucketName, url.PathEscape(path), token)
}

// Upload writes bytes to path and returns a durable download URL
func (s *FirebaseStorage) Upload(ctx context.Context, path string, r io.Reader, contentType string, metadata map[string]string) (string, error) {
	return s.upload(ctx, path, r, 0, contentType, metadata, nil)
}

// UploadWithProgress is Upload plus a progress callback
func (s *FirebaseStorage) UploadWithProgress(ctx context.Context, path string, r io.Reader, size int64, contentType string, metadata map[string]string, onProgress func(UploadProgress)) (string, error) {
	return s.upload(ctx, path, r, size, contentType, metadata, onProgress)
}

func (s *FirebaseStorage) upload(ctx context.Context, path string, r io.Reader, size int64, contentType string, metadata map[string]string, onProgress func(UploadProgress)) (string, error) {
	obj := s.bucket.Object(path)
	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	token := uuid.NewString()
	md := make(map[string]string, len(metadata)+1)
	for k, v := range metadata {
		md[k] = v
	}
	md[downloadTokenKey] = token
	w.Metadata = md

	var src io.Reader = r
	if onProgress != nil {
		src = &progressReader{r: r, total: size, onProgress: onProgress}
	}

	if _, err := io.Copy(w, src); err != nil {
		w.Close()
		if onProgress != nil {
			onProgress(UploadProgress{TotalBytes: size, State: StateError})
		}
		return "", fmt.Errorf("failed to upload object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		if onProgress != nil {
			onProgress(UploadProgress{TotalBytes: size, State: StateError})
		}
		return "", fmt.Errorf("failed to finalize object %s: %w", path, err)
	}
	if onProgress != nil {
		onProgress(UploadProgress{
			BytesTransferred: size,
			TotalBytes:       size,
			Percentage:       100,
			State:            StateSuccess,
		})
	}

	return downloadURL(obj.BucketName(), path, token), nil
}

// URL returns the durable download URL for an existing object
func (s *FirebaseStorage) URL(ctx context.Context, path string) (string, error) {
	obj := s.bucket.Object(path)
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("failed to get object %s: %w", path, err)
	}

	if token := attrs.Metadata[downloadTokenKey]; token != "" {
		// Objects can carry multiple comma-separated tokens; any one works.
		return downloadURL(obj.BucketName(), path, strings.Split(token, ",")[0]), nil
	}
	return attrs.MediaLink, nil
}

// Delete removes the object at path
func (s *FirebaseStorage) Delete(ctx context.Context, path string) error {
	if err := s.bucket.Object(path).Delete(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete object %s: %w", path, err)
	}
	return nil
}

// Metadata returns the stored object's metadata
func (s *FirebaseStorage) Metadata(ctx context.Context, path string) (*FileMetadata, error) {
	attrs, err := s.bucket.Object(path).Attrs(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get object metadata %s: %w", path, err)
	}
	return s.metadataFromAttrs(attrs), nil
}

// List returns metadata for every object under the path prefix
func (s *FirebaseStorage) List(ctx context.Context, prefix string) ([]FileMetadata, error) {
	it := s.bucket.Objects(ctx, &gcs.Query{Prefix: prefix})

	var files []FileMetadata
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects under %s: %w", prefix, err)
		}
		files = append(files, *s.metadataFromAttrs(attrs))
	}
	return files, nil
}

func (s *FirebaseStorage) metadataFromAttrs(attrs *gcs.ObjectAttrs) *FileMetadata {
	name := attrs.Name
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}

	urlStr := attrs.MediaLink
	if token := attrs.Metadata[downloadTokenKey]; token != "" {
		urlStr = downloadURL(attrs.Bucket, attrs.Name, strings.Split(token, ",")[0])
	}

	custom := make(map[string]string, len(attrs.Metadata))
	for k, v := range attrs.Metadata {
		if k == downloadTokenKey {
			continue
		}
		custom[k] = v
	}

	return &FileMetadata{
		Name:           name,
		FullPath:       attrs.Name,
		Size:           attrs.Size,
		ContentType:    attrs.ContentType,
		DownloadURL:    urlStr,
		TimeCreated:    attrs.Created,
		Updated:        attrs.Updated,
		CustomMetadata: custom,
	}
}

// progressReader reports bytes read through it
type progressReader struct {
	r          io.Reader
	read       int64
	total      int64
	onProgress func(UploadProgress)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		pct := float64(0)
		if p.total > 0 {
			pct = float64(p.read) / float64(p.total) * 100
		}
		p.onProgress(UploadProgress{
			BytesTransferred: p.read,
			TotalBytes:       p.total,
			Percentage:       pct,
			State:            StateRunning,
		})
	}
	return n, err
}
