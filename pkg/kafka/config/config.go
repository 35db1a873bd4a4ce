package kafka_config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"clinic/pkg/logger"
)

var (
	validCompressions = map[string]bool{"none": true, "gzip": true, "snappy": true, "lz4": true, "zstd": true}
	validAcks         = map[int]bool{-1: true, 0: true, 1: true}
)

// Config carries broker, topic and client tuning for booking events.
type Config struct {
	Brokers []string

	BookingEventsTopic    string
	BookingEventsDLQTopic string
	NotifierGroupID       string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerRequireAcks  int    // -1 all replicas, 0 none, 1 leader
	ProducerCompression  string // none, gzip, snappy, lz4, zstd

	ConsumerStartOffset       int64 // -1 newest, -2 oldest
	ConsumerMinBytes          int
	ConsumerMaxBytes          int
	ConsumerMaxWait           time.Duration
	ConsumerCommitInterval    time.Duration
	ConsumerHeartbeatInterval time.Duration
	ConsumerSessionTimeout    time.Duration
	ConsumerRebalanceTimeout  time.Duration
	ConsumerMaxRetries        int

	EnableMiddleware bool
}

// Load reads the Kafka settings from the environment. Call it after the
// service config so values from the env file are visible.
func Load() (*Config, error) {
	cfg := &Config{
		Brokers: splitBrokers(getEnvStr(EnvKafkaBrokers, DefaultKafkaBrokers)),

		BookingEventsTopic:    getEnvStr(EnvBookingEventsTopic, DefaultBookingEventsTopic),
		BookingEventsDLQTopic: getEnvStr(EnvBookingEventsDLQTopic, DefaultBookingEventsDLQTopic),
		NotifierGroupID:       getEnvStr(EnvNotifierGroupID, DefaultNotifierGroupID),

		ProducerMaxAttempts:  getEnv(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts, strconv.Atoi),
		ProducerBatchTimeout: getEnv(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout, time.ParseDuration),
		ProducerRequireAcks:  getEnv(EnvKafkaProducerRequireAcks, DefaultProducerRequireAcks, strconv.Atoi),
		ProducerCompression:  strings.ToLower(getEnvStr(EnvKafkaProducerCompression, DefaultProducerCompression)),

		ConsumerStartOffset:       getEnv(EnvKafkaConsumerStartOffset, int64(DefaultConsumerStartOffset), parseInt64),
		ConsumerMinBytes:          getEnv(EnvKafkaConsumerMinBytes, DefaultConsumerMinBytes, strconv.Atoi),
		ConsumerMaxBytes:          getEnv(EnvKafkaConsumerMaxBytes, DefaultConsumerMaxBytes, strconv.Atoi),
		ConsumerMaxWait:           getEnv(EnvKafkaConsumerMaxWait, DefaultConsumerMaxWait, time.ParseDuration),
		ConsumerCommitInterval:    getEnv(EnvKafkaConsumerCommitInterval, DefaultConsumerCommitInterval, time.ParseDuration),
		ConsumerHeartbeatInterval: getEnv(EnvKafkaConsumerHeartbeatInterval, DefaultConsumerHeartbeatInterval, time.ParseDuration),
		ConsumerSessionTimeout:    getEnv(EnvKafkaConsumerSessionTimeout, DefaultConsumerSessionTimeout, time.ParseDuration),
		ConsumerRebalanceTimeout:  getEnv(EnvKafkaConsumerRebalanceTimeout, DefaultConsumerRebalanceTimeout, time.ParseDuration),
		ConsumerMaxRetries:        getEnv(EnvKafkaConsumerMaxRetries, DefaultConsumerMaxRetries, strconv.Atoi),

		EnableMiddleware: getEnv(EnvKafkaEnableMiddleware, DefaultEnableMiddleware, strconv.ParseBool),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(cfg.Brokers) == 0 {
		add("At least one Kafka broker is required")
	}
	for i, broker := range cfg.Brokers {
		if broker == "" {
			add("Broker %d cannot be empty", i)
		}
	}

	if cfg.BookingEventsTopic == "" {
		add("BookingEventsTopic cannot be empty")
	}
	if cfg.BookingEventsDLQTopic == cfg.BookingEventsTopic {
		add("BookingEventsDLQTopic must differ from BookingEventsTopic, got: %s", cfg.BookingEventsDLQTopic)
	}
	if cfg.NotifierGroupID == "" {
		add("NotifierGroupID cannot be empty")
	}

	if cfg.ProducerMaxAttempts <= 0 {
		add("ProducerMaxAttempts must be positive, got: %d", cfg.ProducerMaxAttempts)
	}
	if !validCompressions[cfg.ProducerCompression] {
		add("ProducerCompression must be one of [none, gzip, snappy, lz4, zstd], got: %s", cfg.ProducerCompression)
	}
	if !validAcks[cfg.ProducerRequireAcks] {
		add("ProducerRequireAcks must be -1, 0, or 1, got: %d", cfg.ProducerRequireAcks)
	}

	if cfg.ConsumerStartOffset != -1 && cfg.ConsumerStartOffset != -2 {
		add("ConsumerStartOffset must be -1 (newest) or -2 (oldest), got: %d", cfg.ConsumerStartOffset)
	}
	if cfg.ConsumerMinBytes <= 0 || cfg.ConsumerMaxBytes < cfg.ConsumerMinBytes {
		add("Consumer byte limits must satisfy 0 < min <= max, got: min=%d max=%d", cfg.ConsumerMinBytes, cfg.ConsumerMaxBytes)
	}
	if cfg.ConsumerMaxRetries < 0 {
		add("ConsumerMaxRetries cannot be negative, got: %d", cfg.ConsumerMaxRetries)
	}

	for name, d := range map[string]time.Duration{
		"ProducerBatchTimeout":      cfg.ProducerBatchTimeout,
		"ConsumerMaxWait":           cfg.ConsumerMaxWait,
		"ConsumerCommitInterval":    cfg.ConsumerCommitInterval,
		"ConsumerHeartbeatInterval": cfg.ConsumerHeartbeatInterval,
		"ConsumerSessionTimeout":    cfg.ConsumerSessionTimeout,
		"ConsumerRebalanceTimeout":  cfg.ConsumerRebalanceTimeout,
	} {
		if d <= 0 {
			add("%s must be positive, got: %s", name, d)
		}
	}
	if cfg.ConsumerHeartbeatInterval >= cfg.ConsumerSessionTimeout {
		add("ConsumerHeartbeatInterval (%s) must be shorter than ConsumerSessionTimeout (%s)",
			cfg.ConsumerHeartbeatInterval, cfg.ConsumerSessionTimeout)
	}

	if len(problems) == 0 {
		return nil
	}
	msg := "Kafka configuration validation failed:\n"
	for i, p := range problems {
		msg += fmt.Sprintf("  %d. %s\n", i+1, p)
	}
	return fmt.Errorf("%s", msg)
}

func (cfg *Config) LogConfiguration(log *logger.Logger) {
	log.Info("Kafka configuration loaded",
		"brokers", cfg.Brokers,
		"booking_events_topic", cfg.BookingEventsTopic,
		"booking_events_dlq_topic", cfg.BookingEventsDLQTopic,
		"notifier_group_id", cfg.NotifierGroupID,
		"producer_max_attempts", cfg.ProducerMaxAttempts,
		"producer_require_acks", cfg.ProducerRequireAcks,
		"producer_compression", cfg.ProducerCompression,
		"consumer_start_offset", cfg.ConsumerStartOffset,
		"consumer_max_retries", cfg.ConsumerMaxRetries,
		"enable_middleware", cfg.EnableMiddleware,
	)
}

func splitBrokers(value string) []string {
	var brokers []string
	for _, b := range strings.Split(value, ",") {
		brokers = append(brokers, strings.TrimSpace(b))
	}
	return brokers
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnv parses key with parse, keeping fallback when unset or malformed.
func getEnv[T any](key string, fallback T, parse func(string) (T, error)) T {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if v, err := parse(value); err == nil {
		return v
	}
	return fallback
}

func parseInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
