package kafka

import (
	"context"
	"encoding/json"

	wbfkafka "github.com/wb-go/wbf/kafka"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacatalog/internal/config"
	"github.com/yokitheyo/mediacatalog/internal/dto"
	"github.com/yokitheyo/mediacatalog/internal/retry"
)

type Producer struct {
	client *wbfkafka.Producer
	topic  string
}

// NewProducer creates the cleanup-topic producer.
func NewProducer(cfg *config.KafkaConfig) *Producer {
	client := wbfkafka.NewProducer(cfg.Brokers, cfg.Topic)
	zlog.Logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("Kafka producer initialized (wbf)")
	return &Producer{
		client: client,
		topic:  cfg.Topic,
	}
}

func (p *Producer) PublishBlobCleanup(ctx context.Context, publicID, reason string) error {
	task := dto.BlobCleanupTask{
		PublicID: publicID,
		Reason:   reason,
	}
	data, err := json.Marshal(task)
	if err != nil {
		zlog.Logger.Error().Err(err).Str("public_id", publicID).Msg("Failed to marshal cleanup task")
		return err
	}
	if err := p.client.SendWithRetry(ctx, retry.PublishStrategy, []byte(publicID), data); err != nil {
		zlog.Logger.Error().
			Err(err).
			Str("public_id", publicID).
			Str("reason", reason).
			Msg("Failed to send cleanup task with retry")
		return err
	}
	zlog.Logger.Info().
		Str("public_id", publicID).
		Str("reason", reason).
		Msg("Cleanup task sent to Kafka")
	return nil
}

// Requeue puts a failed task back on the topic with its attempt count. It runs
// on the worker, so it uses the longer queue strategy.
func (p *Producer) Requeue(ctx context.Context, task *dto.BlobCleanupTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	if err := p.client.SendWithRetry(ctx, retry.QueueStrategy, []byte(task.PublicID), data); err != nil {
		return err
	}
	zlog.Logger.Info().
		Str("public_id", task.PublicID).
		Int("attempt", task.Attempt).
		Msg("Cleanup task requeued")
	return nil
}

func (p *Producer) Close() error {
	if err := p.client.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("Failed to close Kafka producer")
		return err
	}
	zlog.Logger.Info().Msg("Kafka producer closed successfully")
	return nil
}
