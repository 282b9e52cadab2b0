package kafka

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/enzymatix/mechvalid/internal/config"
	"github.com/enzymatix/mechvalid/internal/infrastructure/monitoring/logging"
	"github.com/enzymatix/mechvalid/pkg/errors"
	validationtypes "github.com/enzymatix/mechvalid/pkg/types/validation"
)

// JobHandler processes one validation job.  A returned error leaves the
// message uncommitted so another worker retries it.
type JobHandler func(ctx context.Context, job validationtypes.Job) error

// Consumer reads validation jobs from the jobs topic within a consumer group.
type Consumer struct {
	reader *kafkago.Reader
	logger logging.Logger
}

// NewConsumer builds a group consumer on the jobs topic.
func NewConsumer(cfg config.KafkaConfig, logger logging.Logger) *Consumer {
	start := kafkago.FirstOffset
	if cfg.AutoOffsetReset == "latest" {
		start = kafkago.LastOffset
	}
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       TopicValidationJobs,
		StartOffset: start,
	})
	return &Consumer{reader: reader, logger: logger}
}

// Run consumes jobs until ctx is cancelled.  Messages that fail to decode are
// committed and dropped: redelivering a malformed payload can never succeed.
func (c *Consumer) Run(ctx context.Context, handler JobHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return errors.Wrap(err, errors.CodeMessageQueue, "failed to fetch message")
		}

		var job validationtypes.Job
		if err := json.Unmarshal(msg.Value, &job); err != nil {
			c.logger.Error("dropping malformed job message",
				logging.Int64("offset", msg.Offset),
				logging.Err(err))
			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				return errors.Wrap(err, errors.CodeMessageQueue, "failed to commit malformed message")
			}
			continue
		}

		if err := handler(ctx, job); err != nil {
			c.logger.Error("job handler failed, message left uncommitted",
				logging.String("job", job.JobID),
				logging.Err(err))
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return errors.Wrap(err, errors.CodeMessageQueue, "failed to commit message")
		}
	}
}

// Close shuts the reader down.
func (c *Consumer) Close() error {
	if err := c.reader.Close(); err != nil {
		return errors.Wrap(err, errors.CodeMessageQueue, "failed to close consumer")
	}
	return nil
}
