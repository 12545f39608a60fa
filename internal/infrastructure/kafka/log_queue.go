package kafka

import (
	"context"

	"github.com/wb-go/wbf/zlog"
)

// LogQueue stands in for the producer when Kafka is disabled: orphaned blobs
// are only reported in the log.
type LogQueue struct{}

func NewLogQueue() *LogQueue {
	return &LogQueue{}
}

func (LogQueue) PublishBlobCleanup(_ context.Context, publicID, reason string) error {
	zlog.Logger.Warn().
		Str("public_id", publicID).
		Str("reason", reason).
		Msg("orphaned blob needs manual cleanup (kafka disabled)")
	return nil
}

func (LogQueue) Close() error {
	return nil
}
