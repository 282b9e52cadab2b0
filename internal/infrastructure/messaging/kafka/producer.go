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

// Producer publishes validation jobs and results.
type Producer struct {
	writer *kafkago.Writer
	logger logging.Logger
}

// NewProducer builds a producer for the given brokers.  Messages are keyed by
// reaction or job id so per-key ordering is preserved across partitions.
func NewProducer(cfg config.KafkaConfig, logger logging.Logger) *Producer {
	writer := &kafkago.Writer{
		Addr:        kafkago.TCP(cfg.Brokers...),
		Balancer:    &kafkago.Hash{},
		MaxAttempts: cfg.ProducerRetries + 1,
		BatchSize:   cfg.BatchSize,
	}
	return &Producer{writer: writer, logger: logger}
}

// PublishJob enqueues a validation job.
func (p *Producer) PublishJob(ctx context.Context, job validationtypes.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode job")
	}
	msg := kafkago.Message{
		Topic: TopicValidationJobs,
		Key:   []byte(job.JobID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.CodeMessageQueue, "failed to publish job").
			WithDetail("job=" + job.JobID)
	}
	p.logger.Debug("job published",
		logging.String("job", job.JobID),
		logging.Int("reactions", len(job.ReactionIDs)))
	return nil
}

// PublishResult emits one per-reaction outcome.
func (p *Producer) PublishResult(ctx context.Context, result validationtypes.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode result")
	}
	msg := kafkago.Message{
		Topic: TopicValidationResults,
		Key:   []byte(result.ReactionID),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.CodeMessageQueue, "failed to publish result").
			WithDetail("reaction=" + result.ReactionID)
	}
	return nil
}

// PublishDeadLetter moves a job that cannot be processed to the dead-letter
// topic with the failure reason in the headers.
func (p *Producer) PublishDeadLetter(ctx context.Context, job validationtypes.Job, reason string) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, errors.CodeSerialization, "failed to encode dead-lettered job")
	}
	msg := kafkago.Message{
		Topic: TopicValidationJobsDLQ,
		Key:   []byte(job.JobID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "reason", Value: []byte(reason)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, errors.CodeMessageQueue, "failed to publish to dead-letter topic").
			WithDetail("job=" + job.JobID)
	}
	p.logger.Warn("job dead-lettered",
		logging.String("job", job.JobID),
		logging.String("reason", reason))
	return nil
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		return errors.Wrap(err, errors.CodeMessageQueue, "failed to close producer")
	}
	return nil
}
