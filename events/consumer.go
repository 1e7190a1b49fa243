package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"

	"github.com/lingualoop/go-core/logger"
)

type kafkaConsumer struct {
	logger logger.Logger

	cfg *ConsumerConfig
	c   *kafka.Consumer

	closed atomic.Bool
}

// NewKafkaConsumer creates a Consumer subscribed to the completion topic
func NewKafkaConsumer(log logger.Logger, cfg *ConsumerConfig) (Consumer, error) {
	if cfg == nil {
		cfg = DefaultConsumerConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	consumer, err := kafka.NewConsumer(cfg.BuildConfigMap())
	if err != nil {
		return nil, ErrConnection(err)
	}

	if err := consumer.Subscribe(cfg.Topic, nil); err != nil {
		consumer.Close()
		return nil, ErrSubscribe(cfg.Topic, err)
	}

	return &kafkaConsumer{
		logger: log,
		cfg:    cfg,
		c:      consumer,
	}, nil
}

// Start launches the consume loop in its own goroutine
func (kc *kafkaConsumer) Start(ctx context.Context, handler Handler) error {
	go func() {
		if err := kc.consumeLoop(ctx, handler); err != nil {
			kc.logger.Error("completion event consume loop exited",
				zap.String("topic", kc.cfg.Topic),
				zap.Error(err),
			)
		}
	}()
	kc.logger.Info("completion event consumer started",
		zap.String("topic", kc.cfg.Topic),
		zap.String("group_id", kc.cfg.GroupID),
	)
	return nil
}

// Close closes the consumer
// It can be called multiple times safely
func (kc *kafkaConsumer) Close() error {
	if !kc.closed.CompareAndSwap(false, true) {
		return nil
	}

	kc.c.Close()
	kc.logger.Info("completion event consumer closed", zap.String("topic", kc.cfg.Topic))
	return nil
}

// consumeLoop polls the broker and dispatches decoded events
func (kc *kafkaConsumer) consumeLoop(ctx context.Context, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		default:
			ev := kc.c.Poll(-1)
			if ev == nil {
				continue
			}

			switch e := ev.(type) {
			case *kafka.Message:
				if err := kc.handleMessage(ctx, e, handler); err != nil {
					kc.logger.Error("completion event handling failed",
						zap.String("topic", *e.TopicPartition.Topic),
						zap.Int32("partition", e.TopicPartition.Partition),
						zap.Int64("offset", int64(e.TopicPartition.Offset)),
						zap.Error(err),
					)
					// the offset stays uncommitted; the message is
					// redelivered after a rebalance or restart
				}
			case kafka.Error:
				kc.logger.Error("kafka consumer error",
					zap.Int("code", int(e.Code())),
					zap.String("error", e.String()),
				)
				if e.Code() == kafka.ErrAllBrokersDown {
					return ErrConsume(e)
				}
			case kafka.OffsetsCommitted:
				if e.Error != nil {
					kc.logger.Error("failed to commit offsets", zap.Error(e.Error))
				}
			default:
				kc.logger.Debug("received unknown event", zap.String("type", fmt.Sprintf("%T", e)))
			}
		}
	}
}

// handleMessage decodes one message and runs the handler with retries.
// Undecodable messages are committed after logging so they cannot wedge the
// partition.
func (kc *kafkaConsumer) handleMessage(ctx context.Context, msg *kafka.Message, handler Handler) error {
	startTime := time.Now()

	var event CompletionEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		kc.logger.Error("dropping undecodable completion event",
			zap.Int64("offset", int64(msg.TopicPartition.Offset)),
			zap.Error(err),
		)
		return kc.commit(msg)
	}

	var runError error
	for i := 1; i <= kc.cfg.MaxRetries; i++ {
		if runError = handler(ctx, event); runError == nil {
			break
		}
	}
	if runError != nil {
		return runError
	}

	if err := kc.commit(msg); err != nil {
		return err
	}

	kc.logger.Debug("completion event processed",
		zap.String("user_id", event.UserID),
		zap.String("lesson_id", event.LessonID),
		zap.Int64("offset", int64(msg.TopicPartition.Offset)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return nil
}

// commit commits the message offset when auto commit is disabled
func (kc *kafkaConsumer) commit(msg *kafka.Message) error {
	if kc.cfg.EnableAutoCommit {
		return nil
	}
	if _, err := kc.c.CommitMessage(msg); err != nil {
		return ErrCommit(err)
	}
	return nil
}
