package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yokitheyo/mediacatalog/internal/domain"
)

var admin = &domain.Identity{UserID: "admin-1"}

type imageFixture struct {
	images     *fakeImageRepo
	categories *fakeCategoryRepo
	blobs      *fakeBlobStore
	cache      *fakeCache
	queue      *fakeQueue
	usecase    *ImageUsecase
}

func newImageFixture() *imageFixture {
	f := &imageFixture{
		images:     newFakeImageRepo(),
		categories: newFakeCategoryRepo("nature", "popular"),
		blobs:      newFakeBlobStore(),
		cache:      newFakeCache(),
		queue:      &fakeQueue{},
	}
	f.usecase = NewImageUsecase(f.images, f.categories, f.blobs, passthroughPreparer{}, f.cache, f.queue)
	return f
}

func file(name string) *domain.UploadFile {
	return &domain.UploadFile{Filename: name, Size: 4, Reader: strings.NewReader("data")}
}

func TestUploadImage_Success(t *testing.T) {
	f := newImageFixture()
	f.cache.Set(domain.CacheKeyImages, "stale")

	img, err := f.usecase.UploadImage(context.Background(), admin, domain.UploadInput{
		Title:    "  Sunset ",
		Category: " Nature ",
		File:     file("beach.JPG"),
	})
	require.NoError(t, err)

	require.Equal(t, 1, f.images.count())
	stored := f.images.only()
	assert.Equal(t, img.ID, stored.ID)
	assert.Equal(t, "Sunset", stored.Title)
	assert.Equal(t, "nature", stored.Category)
	assert.Equal(t, "beach.JPG", stored.OriginalName)
	assert.True(t, strings.HasPrefix(stored.PublicID, "images-website/"))
	assert.True(t, strings.HasSuffix(stored.PublicID, ".jpg"))
	assert.Equal(t, "https://cdn.example.com/"+stored.PublicID, stored.ImageURL)
	assert.False(t, stored.UploadedAt.IsZero())

	_, cached := f.cache.Get(domain.CacheKeyImages)
	assert.False(t, cached)
	assert.Equal(t, []string{domain.CacheKeyImages}, f.cache.deletes)
	assert.Equal(t, 1, f.blobs.stored())
}

func TestUploadImage_Unauthorized(t *testing.T) {
	f := newImageFixture()

	_, err := f.usecase.UploadImage(context.Background(), nil, domain.UploadInput{
		Title: "t", Category: "nature", File: file("a.jpg"),
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, 0, f.blobs.puts)
}

func TestUploadImage_ValidationDiscardsBlob(t *testing.T) {
	f := newImageFixture()

	_, err := f.usecase.UploadImage(context.Background(), admin, domain.UploadInput{
		Title: "   ", Category: "", File: file("a.jpg"),
	})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Issues, 2)
	assert.Equal(t, "Title is required", verr.Issues[0].Msg)
	assert.Equal(t, "Category is required", verr.Issues[1].Msg)

	assert.Equal(t, 1, f.blobs.puts)
	assert.Len(t, f.blobs.deleted, 1)
	assert.Equal(t, 0, f.blobs.stored())
	assert.Equal(t, 0, f.images.count())
}

func TestUploadImage_NoFile(t *testing.T) {
	f := newImageFixture()

	_, err := f.usecase.UploadImage(context.Background(), admin, domain.UploadInput{
		Title: "Sunset", Category: "nature",
	})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "No file uploaded", verr.Issues[0].Msg)
	assert.Equal(t, 0, f.blobs.puts)
	assert.Empty(t, f.blobs.deleted)
}

func TestUploadImage_InvalidCategory(t *testing.T) {
	f := newImageFixture()

	_, err := f.usecase.UploadImage(context.Background(), admin, domain.UploadInput{
		Title: "Sunset", Category: "Landscapes", File: file("a.jpg"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	assert.Equal(t, 0, f.images.count())
	assert.Len(t, f.blobs.deleted, 1)
	assert.Equal(t, 0, f.blobs.stored())
	assert.Empty(t, f.cache.deletes)
}

func TestUploadImage_CategoryLookupFailure(t *testing.T) {
	f := newImageFixture()
	f.categories.err = errBoom

	_, err := f.usecase.UploadImage(context.Background(), admin, domain.UploadInput{
		Title: "Sunset", Category: "nature", File: file("a.jpg"),
	})

	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, 0, f.blobs.stored())
}

func TestUploadImage_DuplicateURLPrecheck(t *testing.T) {
	f := newImageFixture()
	f.blobs.fixedURL = "https://cdn.example.com/same.jpg"
	require.NoError(t, f.images.Create(context.Background(), &domain.Image{
		ID: "existing", Title: "old", Category: "nature",
		ImageURL: "https://cdn.example.com/same.jpg", PublicID: "images-website/old.jpg",
	}))

	_, err := f.usecase.UploadImage(context.Background(), admin, domain.UploadInput{
		Title: "Sunset", Category: "nature", File: file("a.jpg"),
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateImage)
	assert.Equal(t, 1, f.images.count())
	assert.Len(t, f.blobs.deleted, 1)
}

func TestUploadImage_DuplicateRejectedByStoreIndex(t *testing.T) {
	f := newImageFixture()
	f.images.createErr = domain.ErrDuplicateImage

	_, err := f.usecase.UploadImage(context.Background(), admin, domain.UploadInput{
		Title: "Sunset", Category: "nature", File: file("a.jpg"),
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateImage)
	assert.Equal(t, 0, f.blobs.stored())
}

func TestUploadImage_InsertFailureDiscardsBlob(t *testing.T) {
	f := newImageFixture()
	f.images.createErr = errBoom

	_, err := f.usecase.UploadImage(context.Background(), admin, domain.UploadInput{
		Title: "Sunset", Category: "nature", File: file("a.jpg"),
	})

	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 0, f.blobs.stored())
}

func TestUploadImage_FailedCompensationIsQueued(t *testing.T) {
	f := newImageFixture()
	f.blobs.deleteErr = errBoom

	_, err := f.usecase.UploadImage(context.Background(), admin, domain.UploadInput{
		Title: "Sunset", Category: "unknown", File: file("a.jpg"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	require.Len(t, f.queue.tasks, 1)
	assert.True(t, strings.HasSuffix(f.queue.tasks[0], "|invalid category"))
}

func TestUploadImage_BlobStoreFailure(t *testing.T) {
	f := newImageFixture()
	f.blobs.putErr = errBoom

	_, err := f.usecase.UploadImage(context.Background(), admin, domain.UploadInput{
		Title: "Sunset", Category: "nature", File: file("a.jpg"),
	})

	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, 0, f.images.count())
	assert.Empty(t, f.blobs.deleted)
}

func TestUploadImage_InvalidFormatNeverReachesBlobStore(t *testing.T) {
	f := newImageFixture()
	f.usecase.preparer = passthroughPreparer{err: domain.ErrInvalidFormat}

	_, err := f.usecase.UploadImage(context.Background(), admin, domain.UploadInput{
		Title: "Sunset", Category: "nature", File: file("a.txt"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
	assert.Equal(t, 0, f.blobs.puts)
}

func TestUploadImage_OversizedImageKeepsTooLargeKind(t *testing.T) {
	f := newImageFixture()
	f.usecase.preparer = passthroughPreparer{err: fmt.Errorf("%w: 50000x50000 pixels", domain.ErrFileTooLarge)}

	_, err := f.usecase.UploadImage(context.Background(), admin, domain.UploadInput{
		Title: "Sunset", Category: "nature", File: file("a.png"),
	})

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	assert.NotErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, 0, f.blobs.puts)
}

func TestDeleteImage(t *testing.T) {
	f := newImageFixture()
	ctx := context.Background()

	img, err := f.usecase.UploadImage(ctx, admin, domain.UploadInput{
		Title: "Sunset", Category: "nature", File: file("a.jpg"),
	})
	require.NoError(t, err)
	f.cache.deletes = nil

	require.NoError(t, f.usecase.DeleteImage(ctx, admin, img.ID))

	assert.Equal(t, 0, f.images.count())
	assert.Equal(t, 0, f.blobs.stored())
	assert.Equal(t, []string{img.PublicID}, f.blobs.deleted)
	assert.Equal(t, []string{domain.CacheKeyImages}, f.cache.deletes)

	catalog := NewCatalogUsecase(f.images, f.categories, f.cache)
	listed, err := catalog.ListImages(ctx, domain.ImageQuery{})
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestDeleteImage_NotFoundLeavesStateUnchanged(t *testing.T) {
	f := newImageFixture()
	ctx := context.Background()

	_, err := f.usecase.UploadImage(ctx, admin, domain.UploadInput{
		Title: "Sunset", Category: "nature", File: file("a.jpg"),
	})
	require.NoError(t, err)
	f.cache.deletes = nil

	err = f.usecase.DeleteImage(ctx, admin, "missing")
	assert.ErrorIs(t, err, domain.ErrImageNotFound)
	assert.Equal(t, 1, f.images.count())
	assert.Equal(t, 1, f.blobs.stored())
	assert.Empty(t, f.blobs.deleted)
	assert.Empty(t, f.cache.deletes)
}

func TestDeleteImage_BlobFailureStillRemovesRecord(t *testing.T) {
	f := newImageFixture()
	ctx := context.Background()

	img, err := f.usecase.UploadImage(ctx, admin, domain.UploadInput{
		Title: "Sunset", Category: "nature", File: file("a.jpg"),
	})
	require.NoError(t, err)
	f.blobs.deleteErr = errBoom

	require.NoError(t, f.usecase.DeleteImage(ctx, admin, img.ID))
	assert.Equal(t, 0, f.images.count())
	require.Len(t, f.queue.tasks, 1)
	assert.Equal(t, img.PublicID+"|blob delete failed", f.queue.tasks[0])
}

func TestDeleteImage_QueuedCleanupSeesRecordGone(t *testing.T) {
	f := newImageFixture()
	ctx := context.Background()

	img, err := f.usecase.UploadImage(ctx, admin, domain.UploadInput{
		Title: "Sunset", Category: "nature", File: file("a.jpg"),
	})
	require.NoError(t, err)

	// the worker consumes the task as soon as it is published and the blob
	// host has recovered by then
	cleanup := NewCleanupUsecase(f.images, f.blobs)
	var cleanupErrs []error
	f.queue.onPublish = func(ctx context.Context, publicID string) {
		cleanupErrs = append(cleanupErrs, cleanup.RemoveOrphan(ctx, publicID))
	}
	f.blobs.failDeletes = 1

	require.NoError(t, f.usecase.DeleteImage(ctx, admin, img.ID))

	assert.Equal(t, 0, f.images.count())
	assert.Equal(t, 0, f.blobs.stored())
	assert.Equal(t, []error{nil}, cleanupErrs)
}

func TestDeleteImage_RecordFailureQueuesNothing(t *testing.T) {
	f := newImageFixture()
	f.images.items["11111111-1111-1111-1111-111111111111"] = &domain.Image{
		ID: "11111111-1111-1111-1111-111111111111", PublicID: "images-website/x.jpg",
	}
	f.blobs.deleteErr = errBoom
	f.images.deleteErr = errBoom

	err := f.usecase.DeleteImage(context.Background(), admin, "11111111-1111-1111-1111-111111111111")

	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Empty(t, f.queue.tasks)
}

func TestEnqueueCleanup_PublishIsBounded(t *testing.T) {
	f := newImageFixture()
	f.blobs.deleteErr = errBoom

	var errAtPublish error
	f.queue.onPublish = func(ctx context.Context, _ string) {
		errAtPublish = ctx.Err()
	}

	// the request has already gone away
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.usecase.discardBlob(ctx, &domain.StoredBlob{PublicID: "images-website/x.jpg"}, "validation failed")

	require.Len(t, f.queue.contexts, 1)
	assert.NoError(t, errAtPublish)
	deadline, ok := f.queue.contexts[0].Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(CleanupPublishTimeout), deadline, time.Second)
}

func TestDeleteImage_Unauthorized(t *testing.T) {
	f := newImageFixture()
	assert.ErrorIs(t, f.usecase.DeleteImage(context.Background(), &domain.Identity{}, "x"), domain.ErrUnauthorized)
}
