package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcanvas/backend/internal/handlers"
	"github.com/mindcanvas/backend/internal/mock"
	"github.com/mindcanvas/backend/internal/models"
	"github.com/mindcanvas/backend/internal/services"
	"github.com/mindcanvas/backend/validators"
)

func newImageHandler() (*handlers.ImageHandler, *services.ImageService, *mock.DocumentStore) {
	docs := mock.NewDocumentStore()
	objects := mock.NewObjectStore()
	svc := services.NewImageService(docs, objects, stubImageFetcher{})
	return handlers.NewImageHandler(svc), svc, docs
}

func newRequestContext(uid, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validators.NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != "" {
		c.Set("firebaseUID", uid)
	}
	return c, rec
}

func seedImage(t *testing.T, svc *services.ImageService, uid, prompt string) string {
	t.Helper()
	id, err := svc.SaveGeneratedImage(context.Background(), services.SaveImageInput{
		UserID:   uid,
		ImageURL: "https://provider.example.com/img.png",
		Prompt:   prompt,
		Size:     models.SizeSquare,
		Style:    models.StyleVivid,
		Quality:  models.QualityStandard,
	})
	require.NoError(t, err)
	return id
}

func TestSaveImageEndpoint(t *testing.T) {
	h, _, docs := newImageHandler()

	body := `{"imageUrl":"https://provider.example.com/img.png","prompt":"a quiet harbor","size":"1024x1024","style":"vivid","quality":"standard"}`
	c, rec := newRequestContext("user-1", http.MethodPost, "/api/v1/images", body)
	require.NoError(t, h.SaveImage(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, docs.Count(services.CollectionImages))
}

func TestSaveImageRejectsInvalidBody(t *testing.T) {
	h, _, docs := newImageHandler()

	// Missing required fields
	c, _ := newRequestContext("user-1", http.MethodPost, "/api/v1/images", `{"prompt":"no url"}`)
	err := h.SaveImage(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	assert.Equal(t, 0, docs.Count(services.CollectionImages))
}

func TestListImagesEndpoint(t *testing.T) {
	h, svc, _ := newImageHandler()
	seedImage(t, svc, "user-1", "neon cyberpunk alley")
	seedImage(t, svc, "user-1", "quiet forest path")
	seedImage(t, svc, "user-2", "someone else's artwork")

	c, rec := newRequestContext("user-1", http.MethodGet, "/api/v1/images?search=cyberpunk", "")
	require.NoError(t, h.ListImages(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Count int                 `json:"count"`
		Data  []models.SavedImage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "neon cyberpunk alley", resp.Data[0].Prompt)
}

func TestGetImageRequiresOwnership(t *testing.T) {
	h, svc, _ := newImageHandler()
	id := seedImage(t, svc, "user-1", "private artwork")

	c, _ := newRequestContext("user-2", http.MethodGet, "/api/v1/images/"+id, "")
	c.SetParamNames("id")
	c.SetParamValues(id)
	err := h.GetImage(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestGetImageNotFound(t *testing.T) {
	h, _, _ := newImageHandler()

	c, _ := newRequestContext("user-1", http.MethodGet, "/api/v1/images/no-such-id", "")
	c.SetParamNames("id")
	c.SetParamValues("no-such-id")
	err := h.GetImage(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestFavoriteImageEndpoint(t *testing.T) {
	h, svc, _ := newImageHandler()
	id := seedImage(t, svc, "user-1", "soon to be favorite")

	c, rec := newRequestContext("user-1", http.MethodPut, "/api/v1/images/"+id+"/favorite", `{"isFavorite":true}`)
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.FavoriteImage(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	img, err := svc.GetImage(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, img.IsFavorite)
}

func TestDeleteImageEndpoint(t *testing.T) {
	h, svc, docs := newImageHandler()
	id := seedImage(t, svc, "user-1", "short lived artwork")

	c, rec := newRequestContext("user-1", http.MethodDelete, "/api/v1/images/"+id, "")
	c.SetParamNames("id")
	c.SetParamValues(id)
	require.NoError(t, h.DeleteImage(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, docs.Count(services.CollectionImages))
}

func TestImageEndpointsRequireAuth(t *testing.T) {
	h, _, _ := newImageHandler()

	c, _ := newRequestContext("", http.MethodGet, "/api/v1/images", "")
	err := h.ListImages(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestImageStatsEndpoint(t *testing.T) {
	h, svc, _ := newImageHandler()
	seedImage(t, svc, "user-1", "first gallery artwork")
	seedImage(t, svc, "user-1", "second gallery artwork")

	c, rec := newRequestContext("user-1", http.MethodGet, "/api/v1/images/stats", "")
	require.NoError(t, h.ImageStats(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data services.ImageStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.TotalImages)
}
