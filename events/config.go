package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// DefaultTopic is the completion event topic
const DefaultTopic = "lesson-completions"

// PublisherConfig is the configuration for the Kafka publisher
type PublisherConfig struct {
	// kafka cluster brokers
	Brokers []string `mapstructure:"brokers"`

	// Topic receiving completion events
	// default: DefaultTopic
	Topic string `mapstructure:"topic"`

	// Optional: kafka client id
	// Used to identify this publisher in broker logs and metrics
	ClientID string `mapstructure:"client_id"`

	// Acks message confirmation mechanism: "all"/"-1", "1" or "0"
	// default: "all"
	Acks string `mapstructure:"acks"`

	// Compression codec: "none", "gzip", "snappy", "lz4", "zstd"
	// default: "none"
	Compression string `mapstructure:"compression"`

	// LingerMs batch sending wait time in milliseconds
	// default: 0 (send immediately)
	LingerMs int `mapstructure:"linger_ms"`

	// BatchSize maximum batched bytes before an immediate send
	// default: 100KB
	BatchSize int `mapstructure:"batch_size"`

	// Security protocol: "PLAINTEXT", "SASL_PLAINTEXT", "SASL_SSL"
	// only support PLAINTEXT for now
	// default: "PLAINTEXT"
	SecurityProtocol string `mapstructure:"security_protocol"`

	// Max retries for the kafka producer
	// default: 3
	MaxRetries int `mapstructure:"max_retries"`
}

// DefaultPublisherConfig returns the default publisher configuration
func DefaultPublisherConfig() *PublisherConfig {
	return &PublisherConfig{
		Topic:            DefaultTopic,
		Acks:             "all",
		Compression:      "none",
		LingerMs:         0,
		BatchSize:        100 * 1024, // 100KB
		SecurityProtocol: "PLAINTEXT",
		MaxRetries:       3,
	}
}

// Validate validates the publisher configuration
func (c *PublisherConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return ErrInvalidConfig("brokers are required")
	}
	if c.Topic == "" {
		return ErrInvalidConfig("topic is required")
	}
	return nil
}

// BuildConfigMap translates the configuration for the kafka client
func (c *PublisherConfig) BuildConfigMap() *kafka.ConfigMap {
	configMap := &kafka.ConfigMap{
		"bootstrap.servers": strings.Join(c.Brokers, ","),
		"compression.type":  strings.ToLower(c.Compression),
		"acks":              strings.ToLower(c.Acks),
		"linger.ms":         c.LingerMs,
		"batch.size":        c.BatchSize,
		"retries":           c.MaxRetries,
		"security.protocol": c.SecurityProtocol,
	}

	if c.ClientID != "" {
		_ = configMap.SetKey("client.id", c.ClientID)
	}

	return configMap
}

// ConsumerConfig is the configuration for the Kafka consumer
type ConsumerConfig struct {
	// kafka connection config
	Brokers []string `mapstructure:"brokers"`
	GroupID string   `mapstructure:"group_id"`

	// Topic carrying completion events
	// default: DefaultTopic
	Topic string `mapstructure:"topic"`

	// Max handler retries per message
	// default: 3
	MaxRetries int `mapstructure:"max_retries"`

	// Auto offset reset policy: "earliest" or "latest"
	// default: "latest"
	AutoOffsetReset string `mapstructure:"auto_offset_reset"`

	// Enable auto commit of offsets; when false, offsets are committed
	// after each successfully handled message
	// default: false
	EnableAutoCommit bool `mapstructure:"enable_auto_commit"`

	// Auto commit interval (only used when EnableAutoCommit is true)
	// default: 5s
	AutoCommitInterval time.Duration `mapstructure:"auto_commit_interval"`

	// Session timeout
	// default: 30s
	SessionTimeout time.Duration `mapstructure:"session_timeout"`

	// Max poll interval - maximum time between two polls
	// default: 120s
	MaxPollInterval time.Duration `mapstructure:"max_poll_interval"`

	// Security protocol: "PLAINTEXT", "SASL_PLAINTEXT", "SASL_SSL"
	// only support PLAINTEXT for now
	// default: "PLAINTEXT"
	SecurityProtocol string `mapstructure:"security_protocol"`

	// Debug enables consumer debug logs
	Debug bool `mapstructure:"debug"`
}

// DefaultConsumerConfig returns the default consumer configuration
func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Topic:              DefaultTopic,
		MaxRetries:         3,
		AutoOffsetReset:    "latest",
		EnableAutoCommit:   false,
		AutoCommitInterval: 5 * time.Second,
		SessionTimeout:     30 * time.Second,
		MaxPollInterval:    120 * time.Second,
		SecurityProtocol:   "PLAINTEXT",
		Debug:              false,
	}
}

// Validate validates the consumer configuration
func (c *ConsumerConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return ErrInvalidConfig("brokers are required")
	}
	if c.GroupID == "" {
		return ErrInvalidConfig("group_id is required")
	}
	if c.Topic == "" {
		return ErrInvalidConfig("topic is required")
	}

	if c.AutoOffsetReset != "earliest" && c.AutoOffsetReset != "latest" {
		return ErrInvalidConfig(
			fmt.Sprintf("invalid auto_offset_reset: %s, must be either 'earliest' or 'latest'", c.AutoOffsetReset),
		)
	}

	if c.EnableAutoCommit && c.AutoCommitInterval <= 0 {
		return ErrInvalidConfig("auto_commit_interval must be greater than 0 when enable_auto_commit is true")
	}

	if c.SessionTimeout <= 0 {
		return ErrInvalidConfig("session_timeout must be greater than 0")
	}

	if c.MaxPollInterval <= 0 {
		return ErrInvalidConfig("max_poll_interval must be greater than 0")
	}

	return nil
}

// BuildConfigMap translates the configuration for the kafka client
func (c *ConsumerConfig) BuildConfigMap() *kafka.ConfigMap {
	configMap := &kafka.ConfigMap{
		"bootstrap.servers":    strings.Join(c.Brokers, ","),
		"group.id":             c.GroupID,
		"auto.offset.reset":    strings.ToLower(c.AutoOffsetReset), // latest, earliest
		"enable.auto.commit":   c.EnableAutoCommit,
		"session.timeout.ms":   int(c.SessionTimeout.Milliseconds()),
		"max.poll.interval.ms": int(c.MaxPollInterval.Milliseconds()),
		"security.protocol":    c.SecurityProtocol,
	}

	if c.EnableAutoCommit {
		_ = configMap.SetKey("auto.commit.interval.ms", int(c.AutoCommitInterval.Milliseconds()))
	}

	if c.Debug {
		_ = configMap.SetKey("debug", "consumer,cgrp,topic,fetch")
	}

	return configMap
}
