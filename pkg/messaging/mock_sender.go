package messaging

import (
	"context"
	"sync"
)

// CaptureSender records events in memory for tests
type CaptureSender struct {
	mu      sync.Mutex
	trades  []TradeEvent
	cancels []CancelEvent
}

// NewCaptureSender creates an empty CaptureSender
func NewCaptureSender() *CaptureSender {
	return &CaptureSender{}
}

// SendTrade records the trade event
func (c *CaptureSender) SendTrade(ctx context.Context, event *TradeEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trades = append(c.trades, *event)
	return nil
}

// SendCancel records the cancel event
func (c *CaptureSender) SendCancel(ctx context.Context, event *CancelEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancels = append(c.cancels, *event)
	return nil
}

// Trades returns a copy of the recorded trade events
func (c *CaptureSender) Trades() []TradeEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]TradeEvent, len(c.trades))
	copy(out, c.trades)
	return out
}

// Cancels returns a copy of the recorded cancel events
func (c *CaptureSender) Cancels() []CancelEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CancelEvent, len(c.cancels))
	copy(out, c.cancels)
	return out
}

// Close does nothing
func (c *CaptureSender) Close() error {
	return nil
}

var _ EventSender = (*CaptureSender)(nil)
