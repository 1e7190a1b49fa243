package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"

	"github.com/lingualoop/go-core/logger"
)

// validateCluster verifies broker connectivity before a publisher is built
func validateCluster(log logger.Logger, brokers []string) error {
	configMap := &kafka.ConfigMap{
		"bootstrap.servers":  strings.Join(brokers, ","),
		"request.timeout.ms": 10000, // 10s
	}

	maxRetries := 3
	retryDelay := 2 * time.Second

	var adminClient *kafka.AdminClient
	var err error

	for i := 0; i < maxRetries; i++ {
		adminClient, err = kafka.NewAdminClient(configMap)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			log.Warn("failed to create kafka admin client, retrying...",
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("max_retries", maxRetries),
			)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		return fmt.Errorf("events: create kafka admin client after %d retries: %w", maxRetries, err)
	}

	defer adminClient.Close()

	// fetch cluster metadata to verify the connection
	metadataTimeoutMs := int((10 * time.Second).Milliseconds())
	if _, err := adminClient.GetMetadata(nil, false, metadataTimeoutMs); err != nil {
		return ErrConnection(err)
	}

	log.Info("kafka brokers connection validated", zap.Strings("brokers", brokers))
	return nil
}
