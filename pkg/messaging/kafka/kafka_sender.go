// Package kafka implements an EventSender on top of kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/tradekit/matchtrade/pkg/messaging"
)

// KafkaEventSender implements messaging.EventSender using a kafka-go
// writer with JSON payloads keyed by order ID.
type KafkaEventSender struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaEventSender creates a sender for the given broker and topic
func NewKafkaEventSender(brokerAddr, topic string) (*KafkaEventSender, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokerAddr),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaEventSender{
		writer: writer,
		topic:  topic,
	}, nil
}

// SendTrade publishes a trade event to Kafka
func (k *KafkaEventSender) SendTrade(ctx context.Context, event *messaging.TradeEvent) error {
	return k.send(ctx, strconv.FormatUint(event.TakerID, 10), event)
}

// SendCancel publishes a cancel event to Kafka
func (k *KafkaEventSender) SendCancel(ctx context.Context, event *messaging.CancelEvent) error {
	return k.send(ctx, strconv.FormatUint(event.OrderID, 10), event)
}

func (k *KafkaEventSender) send(ctx context.Context, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send event to Kafka: %w", err)
	}
	return nil
}

// Close closes the Kafka writer
func (k *KafkaEventSender) Close() error {
	return k.writer.Close()
}

var _ messaging.EventSender = (*KafkaEventSender)(nil)
