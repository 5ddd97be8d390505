package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mindcanvas/backend/internal/models"
	"github.com/mindcanvas/backend/internal/services"
)

// maxNoteAudioBytes caps voice note uploads
const maxNoteAudioBytes = 50 * 1024 * 1024

// NoteHandler handles note HTTP requests
type NoteHandler struct {
	notes *services.NoteService
}

// NewNoteHandler creates a new NoteHandler
func NewNoteHandler(notes *services.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// RegisterNoteRoutes registers note routes
func (h *NoteHandler) RegisterNoteRoutes(g *echo.Group) {
	g.POST("/notes", h.CreateNote)
	g.POST("/notes/audio", h.UploadAudio)
	g.GET("/notes", h.ListNotes)
	g.GET("/notes/:id", h.GetNote)
	g.PUT("/notes/:id", h.UpdateNote)
	g.PUT("/notes/:id/favorite", h.FavoriteNote)
	g.DELETE("/notes/:id", h.DeleteNote)
}

// ownedNote loads the note and verifies the caller owns it
func (h *NoteHandler) ownedNote(c echo.Context) (*models.SavedNote, error) {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	note, err := h.notes.GetNote(c.Request().Context(), c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if note == nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Note not found")
	}
	if note.UserID != uid {
		return nil, echo.NewHTTPError(http.StatusForbidden, "You do not own this note")
	}
	return note, nil
}

// CreateNote saves a text or voice note
func (h *NoteHandler) CreateNote(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	id, err := h.notes.SaveNote(c.Request().Context(), services.SaveNoteInput{
		UserID:    uid,
		Title:     req.Title,
		Content:   req.Content,
		Type:      models.NoteType(req.Type),
		Language:  req.Language,
		AudioURL:  req.AudioURL,
		AudioPath: req.AudioPath,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": echo.Map{"id": id}})
}

// UploadAudio stores a voice recording and returns its durable URL and path,
// for use in a subsequent note create
func (h *NoteHandler) UploadAudio(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Audio file is required")
	}
	if fileHeader.Size > maxNoteAudioBytes {
		return echo.NewHTTPError(http.StatusBadRequest, "Audio file must be smaller than 50MB")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read audio file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	url, path, err := h.notes.UploadNoteAudio(c.Request().Context(), uid, fileHeader.Filename, file, contentType)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    echo.Map{"audioUrl": url, "audioPath": path},
	})
}

// ListNotes returns the caller's notes with filtering, search and sorting
func (h *NoteHandler) ListNotes(c echo.Context) error {
	uid := getUserIDFromContext(c)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	opts := services.NoteQueryOptions{
		Type:   models.NoteType(c.QueryParam("type")),
		Search: c.QueryParam("search"),
		Sort:   c.QueryParam("sort"),
	}
	if fav := c.QueryParam("favorite"); fav != "" {
		opts.FavoritesOnly, _ = strconv.ParseBool(fav)
	}
	if limit := c.QueryParam("limit"); limit != "" {
		opts.Limit, _ = strconv.Atoi(limit)
	}

	notes := h.notes.UserNotes(c.Request().Context(), uid, opts)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": notes, "count": len(notes)})
}

// GetNote returns a single note the caller owns
func (h *NoteHandler) GetNote(c echo.Context) error {
	note, err := h.ownedNote(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": note})
}

// UpdateNote edits a note's title and/or content
func (h *NoteHandler) UpdateNote(c echo.Context) error {
	note, err := h.ownedNote(c)
	if err != nil {
		return err
	}

	var req models.UpdateNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.notes.UpdateNote(c.Request().Context(), note.ID, req); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// FavoriteNote sets the favorite flag on a note
func (h *NoteHandler) FavoriteNote(c echo.Context) error {
	note, err := h.ownedNote(c)
	if err != nil {
		return err
	}

	var req models.FavoriteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	if err := h.notes.ToggleFavorite(c.Request().Context(), note.ID, req.IsFavorite); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"isFavorite": req.IsFavorite}})
}

// DeleteNote removes the note and any stored recording
func (h *NoteHandler) DeleteNote(c echo.Context) error {
	note, err := h.ownedNote(c)
	if err != nil {
		return err
	}

	if err := h.notes.DeleteNote(c.Request().Context(), note); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
