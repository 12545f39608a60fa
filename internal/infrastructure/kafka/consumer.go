package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	wbfkafka "github.com/wb-go/wbf/kafka"
	wbfretry "github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"

	"github.com/yokitheyo/mediacatalog/internal/config"
	"github.com/yokitheyo/mediacatalog/internal/dto"
	"github.com/yokitheyo/mediacatalog/internal/retry"
)

type MessageHandler func(ctx context.Context, task *dto.BlobCleanupTask) error

// Requeuer publishes a failed task again at the tail of the topic.
type Requeuer interface {
	Requeue(ctx context.Context, task *dto.BlobCleanupTask) error
}

// MaxTaskAttempts bounds how many times one task goes through the topic.
const MaxTaskAttempts = 5

type Consumer struct {
	client   *wbfkafka.Consumer
	handler  MessageHandler
	requeuer Requeuer
	strategy wbfretry.Strategy
	topic    string
}

func NewConsumer(cfg *config.KafkaConfig, handler MessageHandler, requeuer Requeuer) (*Consumer, error) {
	if requeuer == nil {
		return nil, errors.New("kafka consumer requires a requeuer")
	}
	client := wbfkafka.NewConsumer(cfg.Brokers, cfg.Topic, cfg.GroupID)

	zlog.Logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Str("group_id", cfg.GroupID).
		Msg("Kafka consumer initialized (wbf)")

	return &Consumer{
		client:   client,
		handler:  handler,
		requeuer: requeuer,
		strategy: retry.QueueStrategy,
		topic:    cfg.Topic,
	}, nil
}

// Start consumes until ctx is done. The group reader moves past every fetched
// message, so each one is settled (handled, requeued or dropped) and then
// committed. It returns an error only when a failed task could not be put
// back on the topic; restarting resumes from the last committed offset.
func (c *Consumer) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			zlog.Logger.Info().Msg("Kafka consumer stopped")
			return nil
		default:
			msg, err := c.client.FetchWithRetry(ctx, retry.QueueStrategy)
			if err != nil {
				if ctx.Err() != nil {
					continue
				}
				zlog.Logger.Error().Err(err).Msg("Failed to fetch Kafka message")
				time.Sleep(time.Second)
				continue
			}

			commit, err := c.handle(ctx, msg.Value)
			if err != nil {
				return err
			}
			if !commit {
				continue
			}

			if err := c.client.Commit(ctx, msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Int64("offset", msg.Offset).
					Msg("Failed to commit message")
				continue
			}

			zlog.Logger.Debug().
				Int64("offset", msg.Offset).
				Msg("Cleanup message committed")
		}
	}
}

// handle settles one message and reports whether its offset may be committed.
func (c *Consumer) handle(ctx context.Context, value []byte) (bool, error) {
	task, ok := decodeTask(value)
	if !ok {
		// poison messages are committed so they do not block the partition
		return true, nil
	}

	err := wbfretry.Do(func() error {
		if ctx.Err() != nil {
			return nil
		}
		return c.handler(ctx, task)
	}, c.strategy)
	if ctx.Err() != nil {
		// left uncommitted; the group resumes here after restart
		return false, nil
	}
	if err == nil {
		zlog.Logger.Info().
			Str("public_id", task.PublicID).
			Msg("Cleanup task processed")
		return true, nil
	}

	next := *task
	next.Attempt++
	if next.Attempt >= MaxTaskAttempts {
		zlog.Logger.Error().
			Err(err).
			Str("public_id", task.PublicID).
			Int("attempt", next.Attempt).
			Msg("Cleanup task failed too many times, giving up")
		return true, nil
	}

	zlog.Logger.Warn().
		Err(err).
		Str("public_id", task.PublicID).
		Int("attempt", next.Attempt).
		Msg("Cleanup task failed, requeueing")
	if err := c.requeuer.Requeue(ctx, &next); err != nil {
		zlog.Logger.Error().
			Err(err).
			Str("public_id", task.PublicID).
			Msg("Failed to requeue cleanup task")
		return false, fmt.Errorf("requeue %s: %w", task.PublicID, err)
	}
	return true, nil
}

func decodeTask(value []byte) (*dto.BlobCleanupTask, bool) {
	var task dto.BlobCleanupTask
	if err := json.Unmarshal(value, &task); err != nil {
		zlog.Logger.Error().
			Err(err).
			Bytes("msg", value).
			Msg("Failed to unmarshal message")
		return nil, false
	}

	if task.PublicID == "" {
		zlog.Logger.Error().
			Str("reason", task.Reason).
			Msg("Invalid task: empty PublicID")
		return nil, false
	}

	return &task, true
}

func (c *Consumer) Close() error {
	if err := c.client.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("Failed to close Kafka consumer")
		return err
	}
	zlog.Logger.Info().Msg("Kafka consumer closed successfully")
	return nil
}
