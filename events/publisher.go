package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"

	"github.com/lingualoop/go-core/logger"
)

type kafkaPublisher struct {
	logger logger.Logger

	topic string
	p     *kafka.Producer

	wg     sync.WaitGroup
	done   chan struct{}
	closed atomic.Bool
}

// NewKafkaPublisher creates a Publisher backed by a Kafka producer
// It validates broker connectivity before returning
func NewKafkaPublisher(log logger.Logger, cfg *PublisherConfig) (Publisher, error) {
	if cfg == nil {
		cfg = DefaultPublisherConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := validateCluster(log, cfg.Brokers); err != nil {
		return nil, err
	}

	configMap := cfg.BuildConfigMap()

	var producer *kafka.Producer
	var err error

	maxRetries := 3
	retryDelay := 3 * time.Second
	for i := 0; i < maxRetries; i++ {
		producer, err = kafka.NewProducer(configMap)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			log.Warn("failed to create kafka producer, retrying...",
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("max_retries", maxRetries),
			)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("events: create kafka producer after %d retries: %w", maxRetries, err)
	}

	kp := &kafkaPublisher{
		logger: log,
		topic:  cfg.Topic,
		p:      producer,
		done:   make(chan struct{}),
	}

	kp.wg.Add(1)
	go kp.handleDeliveryReports()

	log.Info("completion event publisher initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
	)
	return kp, nil
}

// handleDeliveryReports drains the producer's event channel and logs
// delivery outcomes
func (kp *kafkaPublisher) handleDeliveryReports() {
	defer kp.wg.Done()

	for {
		select {
		case <-kp.done:
			return
		case e := <-kp.p.Events():
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					kp.logger.Error("failed to deliver completion event",
						zap.Error(ev.TopicPartition.Error),
						zap.String("topic", *ev.TopicPartition.Topic),
						zap.ByteString("key", ev.Key),
					)
				} else {
					kp.logger.Debug("completion event delivered",
						zap.String("topic", *ev.TopicPartition.Topic),
						zap.Int32("partition", ev.TopicPartition.Partition),
						zap.Int64("offset", int64(ev.TopicPartition.Offset)),
					)
				}
			case kafka.Error:
				kp.logger.Error("kafka producer error",
					zap.Int("code", int(ev.Code())),
					zap.String("error", ev.String()),
				)
			default:
				kp.logger.Debug("received unknown event", zap.String("type", fmt.Sprintf("%T", ev)))
			}
		}
	}
}

// Publish enqueues the event for delivery, keyed by user id
// A zero EmittedAt is stamped with the current time
func (kp *kafkaPublisher) Publish(ctx context.Context, event CompletionEvent) error {
	if kp.closed.Load() {
		return ErrPublisherClosed
	}
	if event.UserID == "" || event.LessonID == "" {
		return ErrInvalidEvent("user_id and lesson_id are required")
	}
	if event.EmittedAt.IsZero() {
		event.EmittedAt = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return ErrEncode(err)
	}

	return kp.p.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &kp.topic,
			Partition: kafka.PartitionAny,
		},
		Key:   []byte(event.UserID),
		Value: payload,
	}, nil)
}

// Close flushes pending events and closes the producer
// It can be called multiple times safely
func (kp *kafkaPublisher) Close() error {
	if !kp.closed.CompareAndSwap(false, true) {
		return nil
	}

	close(kp.done)
	kp.wg.Wait()

	remaining := kp.p.Flush(10000) // 10 seconds
	if remaining > 0 {
		kp.logger.Warn("events still queued at shutdown", zap.Int("remaining", remaining))
	}

	kp.p.Close()
	return nil
}
