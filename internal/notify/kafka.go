// Package notify provides notification sinks that deliver report
// notifications outside the primary database.
package notify

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
	"github.com/xkilldash9x/secreport/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// messageWriter is the subset of *kafka.Writer the sink needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes each notification as one JSON message keyed by recipient.
type KafkaSink struct {
	writer messageWriter
	topic  string
	logger *zap.Logger
}

// NewKafkaSink creates a sink writing to cfg.Topic on cfg.Brokers.
func NewKafkaSink(cfg config.KafkaConfig, logger *zap.Logger) *KafkaSink {
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: timeout,
		BatchTimeout: 10 * time.Millisecond,
	}
	return newKafkaSink(writer, cfg.Topic, logger)
}

func newKafkaSink(w messageWriter, topic string, logger *zap.Logger) *KafkaSink {
	return &KafkaSink{writer: w, topic: topic, logger: logger.Named("kafka_sink")}
}

// SendNotification implements schemas.NotificationSink.
func (s *KafkaSink) SendNotification(ctx context.Context, n schemas.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(n.RecipientID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "category", Value: []byte(n.Category)},
			{Key: "recipient_id", Value: []byte(n.RecipientID)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write notification to %s: %w", s.topic, err)
	}
	s.logger.Debug("Notification published", zap.String("recipient", n.RecipientID))
	return nil
}

// Close flushes pending messages and closes the writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
