package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"innkeep/pkg/logger"
)

// Handler processes a single message. A non-nil error triggers a retry
// with backoff; after MaxRetries the message is committed anyway and
// the failure is logged.
type Handler func(ctx context.Context, msg kafkago.Message) error

// Consumer reads messages from a topic as part of a consumer group.
type Consumer struct {
	reader     *kafkago.Reader
	topic      string
	maxRetries int
	backoff    time.Duration
	log        *logger.Logger

	mu     sync.Mutex
	closed bool
}

func NewConsumer(cfg Config, topic string, log *logger.Logger) (*Consumer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka consumer: topic cannot be empty")
	}
	if cfg.GroupID == "" {
		return nil, fmt.Errorf("kafka consumer: group id cannot be empty")
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          topic,
		GroupID:        cfg.GroupID,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
		MaxWait:        cfg.MaxWait,
		CommitInterval: cfg.CommitInterval,
	})

	return &Consumer{
		reader:     reader,
		topic:      topic,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		log:        log,
	}, nil
}

// Run fetches and handles messages until ctx is cancelled or the
// consumer is closed.
func (c *Consumer) Run(ctx context.Context, handle Handler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if closed {
				return nil
			}
			return fmt.Errorf("fetching from topic %s: %w", c.topic, err)
		}

		c.handleWithRetry(ctx, msg, handle)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			c.log.Error("commit failed",
				"topic", c.topic,
				"offset", msg.Offset,
				"error", err,
			)
		}
	}
}

func (c *Consumer) handleWithRetry(ctx context.Context, msg kafkago.Message, handle Handler) {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}
		if err = handle(ctx, msg); err == nil {
			return
		}
		c.log.Warn("message handling failed",
			"topic", c.topic,
			"offset", msg.Offset,
			"attempt", attempt+1,
			"error", err,
		)
	}

	c.log.Error("message dropped after retries",
		"topic", c.topic,
		"offset", msg.Offset,
		"event_id", HeaderValue(msg, HeaderEventID),
		"error", err,
	)
}

func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.reader.Close()
}
