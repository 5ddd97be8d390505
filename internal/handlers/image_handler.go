package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mindcanvas/backend/internal/models"
	"github.com/mindcanvas/backend/internal/services"
)

// ImageHandler handles the gallery HTTP surface
type ImageHandler struct {
	images *services.ImageService
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(images *services.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// RegisterImageRoutes registers gallery routes
func (h *ImageHandler) RegisterImageRoutes(g *echo.Group) {
	g.POST("/images", h.SaveImage)
	g.GET("/images", h.ListImages)
	g.GET("/images/stats", h.ImageStats)
	g.GET("/images/stream", h.StreamImages)
	g.GET("/images/:id", h.GetImage)
	g.PUT("/images/:id", h.UpdateImage)
	g.PUT("/images/:id/favorite", h.FavoriteImage)
	g.DELETE("/images/:id", h.DeleteImage)
}

// ownedImage loads the image and verifies the caller owns it
func (h *ImageHandler) ownedImage(c echo.Context) (*models.SavedImage, error) {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	img, err := h.images.GetImage(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if img == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Image not found")
	}
	if img.UserID != uid {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You do not own this image")
	}
	return img, nil
}

// SaveImage persists a generated image to durable storage
func (h *ImageHandler) SaveImage(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.SaveImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	id, err := h.images.SaveGeneratedImage(c.Request().Context(), services.SaveImageInput{
		UserID:        uid,
		ImageURL:      req.ImageURL,
		Prompt:        req.Prompt,
		RevisedPrompt: req.RevisedPrompt,
		Size:          models.ImageSize(req.Size),
		Style:         models.ImageStyle(req.Style),
		Quality:       models.ImageQuality(req.Quality),
		Category:      req.Category,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"id": id}})
}

// ListImages returns the caller's gallery with filtering, search and sorting
func (h *ImageHandler) ListImages(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	opts := services.ImageQueryOptions{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Sort:     c.QueryParam("sort"),
	}
	if fav := c.QueryParam("favorite"); fav != "" {
		opts.FavoritesOnly, _ = strconv.ParseBool(fav)
	}
	if limit := c.QueryParam("limit"); limit != "" {
		opts.Limit, _ = strconv.Atoi(limit)
	}

	images := h.images.UserImages(c.Request().Context(), uid, opts)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": images, "count": len(images)})
}

// ImageStats summarizes the caller's gallery
func (h *ImageHandler) ImageStats(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	stats := h.images.Stats(c.Request().Context(), uid)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": stats})
}

// StreamImages pushes the caller's gallery over server-sent events whenever it
// changes, newest first
func (h *ImageHandler) StreamImages(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set(echo.HeaderCacheControl, "no-cache")
	resp.Header().Set(echo.HeaderConnection, "keep-alive")
	resp.WriteHeader(http.StatusOK)

	ctx := c.Request().Context()
	events := make(chan []models.SavedImage, 1)
	unsubscribe, err := h.images.SubscribeUserImages(ctx, uid, func(images []models.SavedImage) {
		select {
		case events <- images:
		default:
		}
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case images := <-events:
			payload, err := json.Marshal(images)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(resp, "data: %s\n\n", payload); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}

// GetImage returns a single image the caller owns
func (h *ImageHandler) GetImage(c echo.Context) error {
	img, err := h.ownedImage(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": img})
}

// UpdateImage edits the mutable metadata of an image
func (h *ImageHandler) UpdateImage(c echo.Context) error {
	img, err := h.ownedImage(c)
	if err != nil {
		return err
	}

	var req models.UpdateImageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.images.UpdateMetadata(c.Request().Context(), img.ID, req); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// FavoriteImage sets the favorite flag on an image
func (h *ImageHandler) FavoriteImage(c echo.Context) error {
	img, err := h.ownedImage(c)
	if err != nil {
		return err
	}

	var req models.FavoriteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := h.images.ToggleFavorite(c.Request().Context(), img.ID, req.IsFavorite); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"isFavorite": req.IsFavorite}})
}

// DeleteImage removes the stored file and the metadata record
func (h *ImageHandler) DeleteImage(c echo.Context) error {
	img, err := h.ownedImage(c)
	if err != nil {
		return err
	}

	if err := h.images.DeleteImage(c.Request().Context(), img); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
