package usecase

import (
	"context"
	"fmt"

	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/domain"
)

// CleanupUsecase removes blobs that ended up without a catalog record.
type CleanupUsecase struct {
	images domain.ImageRepository
	blobs  domain.BlobStore
}

func NewCleanupUsecase(images domain.ImageRepository, blobs domain.BlobStore) *CleanupUsecase {
	return &CleanupUsecase{
		images: images,
		blobs:  blobs,
	}
}

func (u *CleanupUsecase) RemoveOrphan(ctx context.Context, publicID string) error {
	referenced, err := u.images.ExistsByPublicID(ctx, publicID)
	if err != nil {
		return fmt.Errorf("check blob reference: %w", err)
	}
	if referenced {
		zlog.Logger.Warn().Str("public_id", publicID).Msg("blob is referenced by a catalog record, skipping cleanup")
		return nil
	}

	if err := u.blobs.Delete(ctx, publicID); err != nil {
		return fmt.Errorf("delete orphan blob: %w", err)
	}

	zlog.Logger.Info().Str("public_id", publicID).Msg("orphan blob removed")
	return nil
}
