package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ImageFetcher fetches an external image URL into bytes. Provider-issued
// generation URLs are time-limited, so fetching happens server-side before the
// blob is re-uploaded to durable storage.
type ImageFetcher interface {
	FetchImage(ctx context.Context, url string) (data []byte, contentType string, err error)
}

// HTTPImageFetcher implements ImageFetcher over plain HTTP
type HTTPImageFetcher struct {
	client *http.Client
}

// NewHTTPImageFetcher creates a new HTTPImageFetcher
func NewHTTPImageFetcher() *HTTPImageFetcher {
	return &HTTPImageFetcher{client: &http.Client{Timeout: 60 * time.Second}}
}

// FetchImage downloads the URL and validates that the response is an image
func (f *HTTPImageFetcher) FetchImage(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to fetch image: unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("invalid image format received: %s", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image body: %w", err)
	}
	return data, contentType, nil
}
