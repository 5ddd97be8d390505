package video

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Video is the subset of video metadata the application surfaces
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
}

// SearchResult is a page of videos
type SearchResult struct {
	Videos        []Video `json:"videos"`
	NextPageToken string  `json:"nextPageToken,omitempty"`
	PrevPageToken string  `json:"prevPageToken,omitempty"`
	TotalResults  int64   `json:"totalResults"`
}

// Client wraps the YouTube Data API
type Client struct {
	svc *youtube.Service
}

// NewClient creates a new Client using API-key authentication
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &Client{svc: svc}, nil
}

func thumbnailURL(details *youtube.ThumbnailDetails) string {
	if details == nil {
		return ""
	}
	switch {
	case details.High != nil:
		return details.High.Url
	case details.Medium != nil:
		return details.Medium.Url
	case details.Default != nil:
		return details.Default.Url
	default:
		return ""
	}
}

// Search returns videos matching the query
func (c *Client) Search(ctx context.Context, query string, maxResults int64, pageToken string) (*SearchResult, error) {
	call := c.svc.Search.List([]string{"snippet"}).
		Context(ctx).
		Q(query).
		Type("video").
		MaxResults(maxResults)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search videos: %w", err)
	}

	result := &SearchResult{
		NextPageToken: resp.NextPageToken,
		PrevPageToken: resp.PrevPageToken,
	}
	if resp.PageInfo != nil {
		result.TotalResults = resp.PageInfo.TotalResults
	}
	for _, item := range resp.Items {
		if item.Id == nil || item.Snippet == nil {
			continue
		}
		result.Videos = append(result.Videos, Video{
			ID:           item.Id.VideoId,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			Thumbnail:    thumbnailURL(item.Snippet.Thumbnails),
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
		})
	}
	return result, nil
}

// Trending returns the most popular videos for a region
func (c *Client) Trending(ctx context.Context, maxResults int64, regionCode string) (*SearchResult, error) {
	if regionCode == "" {
		regionCode = "US"
	}

	resp, err := c.svc.Videos.List([]string{"snippet"}).
		Context(ctx).
		Chart("mostPopular").
		RegionCode(regionCode).
		MaxResults(maxResults).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trending videos: %w", err)
	}

	result := &SearchResult{}
	if resp.PageInfo != nil {
		result.TotalResults = resp.PageInfo.TotalResults
	}
	for _, item := range resp.Items {
		if item.Snippet == nil {
			continue
		}
		result.Videos = append(result.Videos, Video{
			ID:           item.Id,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			Thumbnail:    thumbnailURL(item.Snippet.Thumbnails),
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
		})
	}
	return result, nil
}
