package worker

import (
	"context"
	"fmt"

	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacatalog/internal/domain"
	"github.com/yokitheyo/mediacatalog/internal/dto"
)

// CleanupWorker handles orphan blob tasks taken from the queue.
type CleanupWorker struct {
	cleanup domain.CleanupService
}

func NewCleanupWorker(cleanup domain.CleanupService) *CleanupWorker {
	return &CleanupWorker{cleanup: cleanup}
}

// HandleCleanupTask returns an error to keep the message uncommitted so the
// queue delivers it again.
func (w *CleanupWorker) HandleCleanupTask(ctx context.Context, task *dto.BlobCleanupTask) error {
	if task == nil || task.PublicID == "" {
		return fmt.Errorf("cleanup task without public id")
	}

	zlog.Logger.Info().
		Str("public_id", task.PublicID).
		Str("reason", task.Reason).
		Msg("starting blob cleanup task")

	if err := w.cleanup.RemoveOrphan(ctx, task.PublicID); err != nil {
		zlog.Logger.Error().
			Err(err).
			Str("public_id", task.PublicID).
			Str("reason", task.Reason).
			Msg("failed to remove orphan blob")
		return fmt.Errorf("remove orphan %s: %w", task.PublicID, err)
	}

	return nil
}
