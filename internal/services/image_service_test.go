package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcanvas/backend/internal/mock"
	"github.com/mindcanvas/backend/internal/models"
	"github.com/mindcanvas/backend/internal/services"
)

// stubFetcher returns fixed bytes for any URL
type stubFetcher struct {
	data        []byte
	contentType string
	err         error
}

func (f *stubFetcher) FetchImage(_ context.Context, _ string) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.data, f.contentType, nil
}

func pngFetcher() *stubFetcher {
	return &stubFetcher{data: []byte("png-bytes"), contentType: "image/png"}
}

func newImageService() (*services.ImageService, *mock.DocumentStore, *mock.ObjectStore) {
	docs := mock.NewDocumentStore()
	objects := mock.NewObjectStore()
	return services.NewImageService(docs, objects, pngFetcher()), docs, objects
}

func saveImage(t *testing.T, svc *services.ImageService, userID, prompt string) string {
	t.Helper()
	id, err := svc.SaveGeneratedImage(context.Background(), services.SaveImageInput{
		UserID:   userID,
		ImageURL: "https://provider.example.com/img.png",
		Prompt:   prompt,
		Size:     models.SizeSquare,
		Style:    models.StyleVivid,
		Quality:  models.QualityStandard,
	})
	require.NoError(t, err)
	return id
}

func TestSaveGeneratedImageRoundTrip(t *testing.T) {
	svc, docs, objects := newImageService()
	ctx := context.Background()

	id := saveImage(t, svc, "user-1", "A mystical dragon flying over mountains")
	require.NotEmpty(t, id)
	assert.Equal(t, 1, docs.Count(services.CollectionImages))
	assert.Equal(t, 1, objects.Len())

	images := svc.UserImages(ctx, "user-1", services.ImageQueryOptions{})
	require.Len(t, images, 1)

	img := images[0]
	assert.Equal(t, id, img.ID)
	assert.Equal(t, "user-1", img.UserID)
	assert.Equal(t, "A mystical dragon flying over mountains", img.Prompt)
	assert.Equal(t, "generated", img.Category)
	assert.False(t, img.IsFavorite)
	assert.NotEmpty(t, img.StorageURL)
	assert.NotEmpty(t, img.StoragePath)
	assert.Contains(t, img.Tags, "dragon")
	assert.True(t, objects.Has(img.StoragePath))
}

func TestSaveGeneratedImageGalleryIsolation(t *testing.T) {
	svc, _, _ := newImageService()
	ctx := context.Background()

	saveImage(t, svc, "user-1", "first prompt artwork")
	saveImage(t, svc, "user-2", "second prompt artwork")

	assert.Len(t, svc.UserImages(ctx, "user-1", services.ImageQueryOptions{}), 1)
	assert.Len(t, svc.UserImages(ctx, "user-2", services.ImageQueryOptions{}), 1)
	assert.Empty(t, svc.UserImages(ctx, "user-3", services.ImageQueryOptions{}))
}

func TestSaveGeneratedImageFetchFailure(t *testing.T) {
	docs := mock.NewDocumentStore()
	objects := mock.NewObjectStore()
	svc := services.NewImageService(docs, objects, &stubFetcher{err: errors.New("connection reset")})

	_, err := svc.SaveGeneratedImage(context.Background(), services.SaveImageInput{
		UserID: "user-1", ImageURL: "https://x/y.png", Prompt: "p",
	})
	require.ErrorIs(t, err, services.ErrImageConvert)
	assert.Equal(t, 0, docs.Count(services.CollectionImages))
	assert.Equal(t, 0, objects.Len())
}

func TestSaveGeneratedImageRejectsNonImage(t *testing.T) {
	docs := mock.NewDocumentStore()
	objects := mock.NewObjectStore()
	svc := services.NewImageService(docs, objects, &stubFetcher{data: []byte("<html>"), contentType: "text/html"})

	_, err := svc.SaveGeneratedImage(context.Background(), services.SaveImageInput{
		UserID: "user-1", ImageURL: "https://x/y", Prompt: "p",
	})
	require.ErrorIs(t, err, services.ErrImageConvert)
}

func TestSaveGeneratedImageUploadFailure(t *testing.T) {
	docs := mock.NewDocumentStore()
	objects := mock.NewObjectStore()
	objects.UploadErr = errors.New("bucket unavailable")
	svc := services.NewImageService(docs, objects, pngFetcher())

	_, err := svc.SaveGeneratedImage(context.Background(), services.SaveImageInput{
		UserID: "user-1", ImageURL: "https://x/y.png", Prompt: "p",
	})
	require.ErrorIs(t, err, services.ErrImageUpload)
	assert.Equal(t, 0, docs.Count(services.CollectionImages))
}

func TestSaveGeneratedImageMetadataFailure(t *testing.T) {
	docs := mock.NewDocumentStore()
	docs.CreateErr = errors.New("write denied")
	objects := mock.NewObjectStore()
	svc := services.NewImageService(docs, objects, pngFetcher())

	_, err := svc.SaveGeneratedImage(context.Background(), services.SaveImageInput{
		UserID: "user-1", ImageURL: "https://x/y.png", Prompt: "p",
	})
	require.ErrorIs(t, err, services.ErrImageMetadata)
}

func TestUserImagesFilterAndSearch(t *testing.T) {
	svc, _, _ := newImageService()
	ctx := context.Background()

	saveImage(t, svc, "user-1", "neon cyberpunk city at night")
	saveImage(t, svc, "user-1", "serene forest clearing")
	saveImage(t, svc, "user-1", "cyberpunk robot portrait")

	matches := svc.UserImages(ctx, "user-1", services.ImageQueryOptions{Search: "cyberpunk"})
	require.Len(t, matches, 2)
	for _, img := range matches {
		assert.Contains(t, img.Prompt, "cyberpunk")
	}

	assert.Empty(t, svc.UserImages(ctx, "user-1", services.ImageQueryOptions{Search: "underwater"}))

	// Search is case-insensitive
	assert.Len(t, svc.UserImages(ctx, "user-1", services.ImageQueryOptions{Search: "CYBERPUNK"}), 2)
}

func TestUserImagesSortOrders(t *testing.T) {
	svc, _, _ := newImageService()
	ctx := context.Background()

	saveImage(t, svc, "user-1", "alpha artwork")
	saveImage(t, svc, "user-1", "bravo artwork")
	saveImage(t, svc, "user-1", "charlie artwork")

	newest := svc.UserImages(ctx, "user-1", services.ImageQueryOptions{Sort: services.SortNewest})
	oldest := svc.UserImages(ctx, "user-1", services.ImageQueryOptions{Sort: services.SortOldest})
	require.Len(t, newest, 3)
	require.Len(t, oldest, 3)

	// Oldest is the exact reverse of newest
	for i := range newest {
		assert.Equal(t, newest[i].ID, oldest[len(oldest)-1-i].ID)
	}
	assert.Equal(t, "charlie artwork", newest[0].Prompt)

	byTitle := svc.UserImages(ctx, "user-1", services.ImageQueryOptions{Sort: services.SortTitle})
	assert.Equal(t, "alpha artwork", byTitle[0].Prompt)
	assert.Equal(t, "charlie artwork", byTitle[2].Prompt)
}

func TestUserImagesLimit(t *testing.T) {
	svc, _, _ := newImageService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		saveImage(t, svc, "user-1", fmt.Sprintf("artwork number %d", i))
	}

	assert.Len(t, svc.UserImages(ctx, "user-1", services.ImageQueryOptions{Limit: 3}), 3)
}

func TestUserImagesDegradesToEmptyOnError(t *testing.T) {
	svc, docs, _ := newImageService()
	docs.ListErr = errors.New("store unavailable")

	images := svc.UserImages(context.Background(), "user-1", services.ImageQueryOptions{})
	assert.NotNil(t, images)
	assert.Empty(t, images)
}

func TestToggleFavorite(t *testing.T) {
	svc, _, _ := newImageService()
	ctx := context.Background()

	id := saveImage(t, svc, "user-1", "favorite candidate artwork")

	require.NoError(t, svc.ToggleFavorite(ctx, id, true))
	img, err := svc.GetImage(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.True(t, img.IsFavorite)

	// Setting the same value again is a no-op, not an error
	require.NoError(t, svc.ToggleFavorite(ctx, id, true))
	img, err = svc.GetImage(ctx, id)
	require.NoError(t, err)
	assert.True(t, img.IsFavorite)

	require.NoError(t, svc.ToggleFavorite(ctx, id, false))
	img, err = svc.GetImage(ctx, id)
	require.NoError(t, err)
	assert.False(t, img.IsFavorite)

	favorites := svc.UserImages(ctx, "user-1", services.ImageQueryOptions{FavoritesOnly: true})
	assert.Empty(t, favorites)
}

func TestGetImageAbsent(t *testing.T) {
	svc, _, _ := newImageService()

	img, err := svc.GetImage(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, img)
}

func TestDeleteImageRemovesObjectAndRecord(t *testing.T) {
	svc, docs, objects := newImageService()
	ctx := context.Background()

	id := saveImage(t, svc, "user-1", "short lived artwork")
	img, err := svc.GetImage(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, img)

	require.NoError(t, svc.DeleteImage(ctx, img))
	assert.Equal(t, 0, docs.Count(services.CollectionImages))
	assert.False(t, objects.Has(img.StoragePath))
}

func TestDeleteImageToleratesMissingObject(t *testing.T) {
	svc, docs, objects := newImageService()
	ctx := context.Background()

	id := saveImage(t, svc, "user-1", "orphaned record artwork")
	img, err := svc.GetImage(ctx, id)
	require.NoError(t, err)

	// Simulate a previous partial delete where the object is already gone
	require.NoError(t, objects.Delete(ctx, img.StoragePath))

	require.NoError(t, svc.DeleteImage(ctx, img))
	assert.Equal(t, 0, docs.Count(services.CollectionImages))
}

func TestImageStats(t *testing.T) {
	svc, _, _ := newImageService()
	ctx := context.Background()

	saveImage(t, svc, "user-1", "first gallery artwork")
	id := saveImage(t, svc, "user-1", "second gallery artwork")
	require.NoError(t, svc.ToggleFavorite(ctx, id, true))

	stats := svc.Stats(ctx, "user-1")
	assert.Equal(t, 2, stats.TotalImages)
	assert.Equal(t, 1, stats.FavoriteImages)
	assert.Equal(t, 2, stats.CategoryCounts["generated"])
	assert.Len(t, stats.RecentImages, 2)
}

func TestSubscribeUserImages(t *testing.T) {
	svc, _, _ := newImageService()
	ctx := context.Background()

	var latest []models.SavedImage
	unsubscribe, err := svc.SubscribeUserImages(ctx, "user-1", func(images []models.SavedImage) {
		latest = images
	})
	require.NoError(t, err)
	defer unsubscribe()

	assert.Empty(t, latest)

	saveImage(t, svc, "user-1", "streamed gallery artwork")
	require.Len(t, latest, 1)
	assert.Equal(t, "streamed gallery artwork", latest[0].Prompt)
}
