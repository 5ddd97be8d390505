package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mindcanvas/backend/internal/models"
	"github.com/mindcanvas/backend/internal/services"
)

// BookmarkHandler handles video bookmark HTTP requests
type BookmarkHandler struct {
	bookmarks *services.BookmarkService
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(bookmarks *services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks}
}

// RegisterBookmarkRoutes registers bookmark routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.POST("/bookmarks", h.CreateBookmark)
	g.GET("/bookmarks", h.ListBookmarks)
	g.DELETE("/bookmarks/:id", h.DeleteBookmark)
}

// CreateBookmark saves a video reference for the caller
func (h *BookmarkHandler) CreateBookmark(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateBookmarkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	id, err := h.bookmarks.Add(c.Request().Context(), uid, req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"id": id}})
}

// ListBookmarks returns the caller's bookmarks, newest first
func (h *BookmarkHandler) ListBookmarks(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	bookmarks, err := h.bookmarks.ForUser(c.Request().Context(), uid)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": bookmarks, "count": len(bookmarks)})
}

// DeleteBookmark removes a bookmark the caller owns
func (h *BookmarkHandler) DeleteBookmark(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	bookmark, err := h.bookmarks.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if bookmark == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Bookmark not found")
	}
	if bookmark.UserID != uid {
		return echo.NewHTTPError(http.StatusForbidden, "You do not own this bookmark")
	}

	if err := h.bookmarks.Remove(c.Request().Context(), bookmark.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
