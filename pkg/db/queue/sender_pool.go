package queue

import (
	"context"
	"fmt"
	"sync"

	"github.com/tradekit/matchtrade/pkg/messaging"
)

var (
	senderPool   chan messaging.EventSender
	poolInitOnce sync.Once
	maxPoolSize  = 32
)

func initSenderPool() {
	poolInitOnce.Do(func() {
		senderPool = make(chan messaging.EventSender, maxPoolSize)
		for i := 0; i < maxPoolSize; i++ {
			sender, err := NewQueueEventSender()
			if err != nil {
				fmt.Printf("Error creating sender: %v\n", err)
				continue
			}
			senderPool <- sender
		}
	})
}

// GetSender gets a sender from the pool
func GetSender() messaging.EventSender {
	initSenderPool()

	select {
	case sender := <-senderPool:
		return sender
	default:
		fmt.Printf("Warning: sender pool is empty\n")
		return nil
	}
}

// ReturnSender returns a sender to the pool
func ReturnSender(sender messaging.EventSender) {
	if sender == nil {
		return
	}

	select {
	case senderPool <- sender:
	default:
		fmt.Printf("Warning: sender pool is full\n")
		_ = sender.Close()
	}
}

// SendTrade publishes a trade event using a pooled sender
func SendTrade(ctx context.Context, event *messaging.TradeEvent) error {
	sender := GetSender()
	if sender == nil {
		return fmt.Errorf("failed to get event sender from pool")
	}
	defer ReturnSender(sender)

	return sender.SendTrade(ctx, event)
}

// SendCancel publishes a cancel event using a pooled sender
func SendCancel(ctx context.Context, event *messaging.CancelEvent) error {
	sender := GetSender()
	if sender == nil {
		return fmt.Errorf("failed to get event sender from pool")
	}
	defer ReturnSender(sender)

	return sender.SendCancel(ctx, event)
}

// CloseSenderPool closes every pooled producer. Meant for process
// shutdown; the pool cannot be reused afterwards.
func CloseSenderPool() error {
	if senderPool == nil {
		return nil
	}

	var firstErr error
	for {
		select {
		case sender := <-senderPool:
			if err := sender.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		default:
			return firstErr
		}
	}
}

// PooledEventSender implements messaging.EventSender on top of the
// shared pool, checking a producer out per publish so books matching
// concurrently do not serialize on a single Kafka connection.
type PooledEventSender struct{}

// NewPooledEventSender returns a sender backed by the shared pool
func NewPooledEventSender() PooledEventSender {
	return PooledEventSender{}
}

func (PooledEventSender) SendTrade(ctx context.Context, event *messaging.TradeEvent) error {
	return SendTrade(ctx, event)
}

func (PooledEventSender) SendCancel(ctx context.Context, event *messaging.CancelEvent) error {
	return SendCancel(ctx, event)
}

func (PooledEventSender) Close() error {
	return CloseSenderPool()
}

var _ messaging.EventSender = PooledEventSender{}
