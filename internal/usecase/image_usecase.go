package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/domain"
)

// CleanupPublishTimeout bounds how long a request waits on the cleanup queue.
const CleanupPublishTimeout = 3 * time.Second

// ImageUsecase runs the upload and delete workflows. The blob store and the
// catalog are only kept consistent by the compensating deletes below.
type ImageUsecase struct {
	images     domain.ImageRepository
	categories domain.CategoryRepository
	blobs      domain.BlobStore
	preparer   domain.UploadPreparer
	cache      domain.Cache
	cleanup    domain.CleanupQueue
	now        func() time.Time
}

func NewImageUsecase(
	images domain.ImageRepository,
	categories domain.CategoryRepository,
	blobs domain.BlobStore,
	preparer domain.UploadPreparer,
	cache domain.Cache,
	cleanup domain.CleanupQueue,
) *ImageUsecase {
	return &ImageUsecase{
		images:     images,
		categories: categories,
		blobs:      blobs,
		preparer:   preparer,
		cache:      cache,
		cleanup:    cleanup,
		now:        time.Now,
	}
}

func (u *ImageUsecase) UploadImage(ctx context.Context, identity *domain.Identity, in domain.UploadInput) (*domain.Image, error) {
	if identity == nil || identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}

	// The payload goes to the blob store before the text fields are checked,
	// so every failure past this point must discard the blob.
	var blob *domain.StoredBlob
	var originalName string
	if in.File != nil {
		var err error
		originalName = filepath.Base(in.File.Filename)
		blob, err = u.storeBlob(ctx, in.File)
		if err != nil {
			return nil, err
		}
	}

	if issues := validateUpload(in); len(issues) > 0 {
		u.discardBlob(ctx, blob, "validation failed")
		return nil, domain.NewValidationError(issues...)
	}

	if blob == nil {
		return nil, domain.NewValidationError(domain.FieldIssue{Field: "image", Msg: "No file uploaded"})
	}

	category := domain.NormalizeName(in.Category)

	exists, err := u.categories.Exists(ctx, category)
	if err != nil {
		u.discardBlob(ctx, blob, "category lookup failed")
		return nil, domain.Upstream("look up category", err)
	}
	if !exists {
		zlog.Logger.Warn().Str("category", category).Msg("upload rejected: unknown category")
		u.discardBlob(ctx, blob, "invalid category")
		return nil, domain.ErrInvalidCategory
	}

	duplicate, err := u.images.ExistsByURL(ctx, blob.URL)
	if err != nil {
		u.discardBlob(ctx, blob, "duplicate check failed")
		return nil, domain.Upstream("check duplicate image", err)
	}
	if duplicate {
		zlog.Logger.Warn().Str("image_url", blob.URL).Msg("upload rejected: image url already registered")
		u.discardBlob(ctx, blob, "duplicate image")
		return nil, domain.ErrDuplicateImage
	}

	image := &domain.Image{
		ID:           uuid.New().String(),
		Title:        strings.TrimSpace(in.Title),
		Category:     category,
		ImageURL:     blob.URL,
		PublicID:     blob.PublicID,
		OriginalName: originalName,
		UploadedAt:   u.now().UTC(),
	}

	if err := u.images.Create(ctx, image); err != nil {
		if errors.Is(err, domain.ErrDuplicateImage) {
			u.discardBlob(ctx, blob, "duplicate image")
			return nil, domain.ErrDuplicateImage
		}
		u.discardBlob(ctx, blob, "catalog insert failed")
		zlog.Logger.Error().Err(err).Str("image_id", image.ID).Msg("failed to create image record")
		return nil, domain.Upstream("create image", err)
	}

	u.cache.Delete(domain.CacheKeyImages)

	zlog.Logger.Info().
		Str("image_id", image.ID).
		Str("user_id", identity.UserID).
		Str("category", image.Category).
		Str("public_id", image.PublicID).
		Msg("image uploaded successfully")

	return image, nil
}

func (u *ImageUsecase) DeleteImage(ctx context.Context, identity *domain.Identity, id string) error {
	if identity == nil || identity.UserID == "" {
		return domain.ErrUnauthorized
	}

	image, err := u.images.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrImageNotFound) {
			return domain.ErrImageNotFound
		}
		zlog.Logger.Error().Err(err).Str("image_id", id).Msg("failed to find image for delete")
		return domain.Upstream("find image", err)
	}

	// blob removal is best-effort: the record goes regardless
	blobErr := u.blobs.Delete(ctx, image.PublicID)
	if blobErr != nil {
		zlog.Logger.Error().Err(blobErr).Str("image_id", id).Str("public_id", image.PublicID).Msg("failed to delete blob")
	}

	if err := u.images.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrImageNotFound) {
			return domain.ErrImageNotFound
		}
		zlog.Logger.Error().Err(err).Str("image_id", id).Msg("failed to delete image record")
		return domain.Upstream("delete image", err)
	}

	// The worker skips blobs that a record still references, so the task is
	// only published once the record is gone.
	if blobErr != nil {
		u.enqueueCleanup(ctx, image.PublicID, "blob delete failed")
	}

	u.cache.Delete(domain.CacheKeyImages)

	zlog.Logger.Info().
		Str("image_id", id).
		Str("user_id", identity.UserID).
		Msg("image deleted successfully")
	return nil
}

func (u *ImageUsecase) storeBlob(ctx context.Context, file *domain.UploadFile) (*domain.StoredBlob, error) {
	prepared, err := u.preparer.Prepare(file)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidFormat) || errors.Is(err, domain.ErrFileTooLarge) {
			return nil, err
		}
		return nil, domain.Upstream("prepare upload", err)
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(file.Filename))
	blob, err := u.blobs.Put(ctx, name, prepared.ContentType, prepared.Size, prepared.Reader)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("filename", file.Filename).Msg("failed to store blob")
		return nil, domain.Upstream("put blob", err)
	}
	return blob, nil
}

// discardBlob is the compensating action for a blob that will not be
// registered. Its own failure is logged and handed to the cleanup queue.
func (u *ImageUsecase) discardBlob(ctx context.Context, blob *domain.StoredBlob, reason string) {
	if blob == nil {
		return
	}
	if err := u.blobs.Delete(ctx, blob.PublicID); err != nil {
		zlog.Logger.Error().
			Err(err).
			Str("public_id", blob.PublicID).
			Str("reason", reason).
			Msg("compensating blob delete failed")
		u.enqueueCleanup(ctx, blob.PublicID, reason)
		return
	}
	zlog.Logger.Info().
		Str("public_id", blob.PublicID).
		Str("reason", reason).
		Msg("discarded unregistered blob")
}

func (u *ImageUsecase) enqueueCleanup(ctx context.Context, publicID, reason string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), CleanupPublishTimeout)
	defer cancel()

	if err := u.cleanup.PublishBlobCleanup(ctx, publicID, reason); err != nil {
		zlog.Logger.Error().Err(err).Str("public_id", publicID).Msg("failed to enqueue blob cleanup")
	}
}

func validateUpload(in domain.UploadInput) []domain.FieldIssue {
	var issues []domain.FieldIssue
	if strings.TrimSpace(in.Title) == "" {
		issues = append(issues, domain.FieldIssue{Field: "title", Msg: "Title is required"})
	}
	if strings.TrimSpace(in.Category) == "" {
		issues = append(issues, domain.FieldIssue{Field: "category", Msg: "Category is required"})
	}
	return issues
}
