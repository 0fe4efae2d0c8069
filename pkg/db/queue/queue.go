// Package queue implements the sarama-backed event pipeline used for
// downstream settlement consumers. Events are JSON encoded; quantity
// and price travel as decimal strings.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/IBM/sarama"

	"github.com/tradekit/matchtrade/pkg/messaging"
)

var (
	configMu   sync.RWMutex
	brokerList = "localhost:9092"
	topic      = "match-events"

	// newSyncProducer is swapped out by tests
	newSyncProducer = func(brokers []string) (sarama.SyncProducer, error) {
		return sarama.NewSyncProducer(brokers, nil)
	}
)

// SetBrokerList overrides the Kafka broker address
func SetBrokerList(addr string) {
	configMu.Lock()
	defer configMu.Unlock()
	brokerList = addr
}

// SetTopic overrides the Kafka topic
func SetTopic(t string) {
	configMu.Lock()
	defer configMu.Unlock()
	topic = t
}

func currentConfig() (string, string) {
	configMu.RLock()
	defer configMu.RUnlock()
	return brokerList, topic
}

// QueueEventSender implements messaging.EventSender with a sarama
// sync producer.
type QueueEventSender struct {
	producer sarama.SyncProducer
	topic    string
}

// NewQueueEventSender connects a sync producer to the configured broker
func NewQueueEventSender() (*QueueEventSender, error) {
	brokers, t := currentConfig()
	producer, err := newSyncProducer([]string{brokers})
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &QueueEventSender{
		producer: producer,
		topic:    t,
	}, nil
}

// SendTrade publishes a trade event
func (q *QueueEventSender) SendTrade(ctx context.Context, event *messaging.TradeEvent) error {
	return q.send(strconv.FormatUint(event.TakerID, 10), event)
}

// SendCancel publishes a cancel event
func (q *QueueEventSender) SendCancel(ctx context.Context, event *messaging.CancelEvent) error {
	return q.send(strconv.FormatUint(event.OrderID, 10), event)
}

func (q *QueueEventSender) send(key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: q.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}

	if _, _, err := q.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}
	return nil
}

// Close shuts down the producer
func (q *QueueEventSender) Close() error {
	return q.producer.Close()
}

var _ messaging.EventSender = (*QueueEventSender)(nil)
