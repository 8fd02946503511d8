// Package consumer reads a Kafka topic as a consumer group and commits offsets
// only after the handler accepts each record.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"wardaudit/internal/platform/config"
)

// Message is a consumed record.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
}

// Handler processes one message. A returned error stops the batch before the
// message is committed, so it is redelivered.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

type Consumer struct {
	client     *kgo.Client
	logger     *slog.Logger
	retryDelay time.Duration
}

// New joins cfg.ConsumerGroup on cfg.Topic.
func New(cfg config.KafkaConfig, logger *slog.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are not configured")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.ConsumerGroup(cfg.ConsumerGroup),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return &Consumer{client: client, logger: logger, retryDelay: time.Second}, nil
}

// Run polls until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context, h Handler) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			return ctx.Err()
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.ErrorContext(ctx, "kafka fetch error",
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		var handled []*kgo.Record
		var failed error
		fetches.EachRecord(func(r *kgo.Record) {
			if failed != nil {
				return
			}
			if err := h.Handle(ctx, toMessage(r)); err != nil {
				failed = err
				return
			}
			handled = append(handled, r)
		})

		if len(handled) > 0 {
			if err := c.client.CommitRecords(ctx, handled...); err != nil && !errors.Is(err, context.Canceled) {
				c.logger.ErrorContext(ctx, "kafka commit failed", "error", err)
			}
		}
		if failed != nil {
			c.logger.WarnContext(ctx, "message handling failed, rewinding", "error", failed)
			// Reposition so the failed record is fetched again.
			c.client.SetOffsets(rewindOffsets(fetches, handled))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}
	}
}

func (c *Consumer) Close() {
	c.client.Close()
}

func toMessage(r *kgo.Record) *Message {
	msg := &Message{
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Key:       r.Key,
		Value:     r.Value,
		Headers:   make(map[string]string, len(r.Headers)),
	}
	for _, h := range r.Headers {
		msg.Headers[h.Key] = string(h.Value)
	}
	return msg
}

// rewindOffsets positions each fetched partition at its first unhandled record.
func rewindOffsets(fetches kgo.Fetches, handled []*kgo.Record) map[string]map[int32]kgo.EpochOffset {
	done := make(map[string]map[int32]int64)
	for _, r := range handled {
		if done[r.Topic] == nil {
			done[r.Topic] = make(map[int32]int64)
		}
		done[r.Topic][r.Partition] = r.Offset + 1
	}

	out := make(map[string]map[int32]kgo.EpochOffset)
	fetches.EachPartition(func(p kgo.FetchTopicPartition) {
		if len(p.Records) == 0 {
			return
		}
		next := p.Records[0].Offset
		if off, ok := done[p.Topic][p.Partition]; ok {
			next = off
		}
		if out[p.Topic] == nil {
			out[p.Topic] = make(map[int32]kgo.EpochOffset)
		}
		out[p.Topic][p.Partition] = kgo.EpochOffset{Epoch: -1, Offset: next}
	})
	return out
}
