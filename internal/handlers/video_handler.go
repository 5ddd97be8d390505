package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mindcanvas/backend/internal/video"
)

// VideoHandler handles video discovery HTTP requests. The client is nil when
// no API key is configured.
type VideoHandler struct {
	videos *video.Client
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(videos *video.Client) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// RegisterVideoRoutes registers video discovery routes
func (h *VideoHandler) RegisterVideoRoutes(g *echo.Group) {
	g.GET("/videos/search", h.SearchVideos)
	g.GET("/videos/trending", h.TrendingVideos)
}

func (h *VideoHandler) requireClient() error {
	if h.videos == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "YouTube API key not configured")
	}
	return nil
}

func maxResultsParam(c echo.Context) int64 {
	maxResults := int64(12)
	if raw := c.QueryParam("maxResults"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 && n <= 50 {
			maxResults = n
		}
	}
	return maxResults
}

// SearchVideos searches videos by query
func (h *VideoHandler) SearchVideos(c echo.Context) error {
	if err := h.requireClient(); err != nil {
		return err
	}

	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Query parameter 'q' is required")
	}

	result, err := h.videos.Search(c.Request().Context(), query, maxResultsParam(c), c.QueryParam("pageToken"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": result})
}

// TrendingVideos returns the most popular videos for a region
func (h *VideoHandler) TrendingVideos(c echo.Context) error {
	if err := h.requireClient(); err != nil {
		return err
	}

	result, err := h.videos.Trending(c.Request().Context(), maxResultsParam(c), c.QueryParam("region"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": result})
}
