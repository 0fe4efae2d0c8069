// Package messaging carries execution events from the matching core
// to external consumers. It decouples the core package from concrete
// transports like Kafka or Redis.
package messaging

import "context"

// Event types
const (
	EventTrade  = "TRADE"
	EventCancel = "CANCEL"
)

// TradeEvent describes one matched maker/taker pair. Quantity and
// price are decimal strings; floats never appear on the wire.
type TradeEvent struct {
	Type     string `json:"type"`
	Symbol   string `json:"symbol"`
	MakerID  uint64 `json:"makerId"`
	TakerID  uint64 `json:"takerId"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
}

// CancelEvent describes a passive cancellation: quantity the engine
// discarded without filling.
type CancelEvent struct {
	Type     string `json:"type"`
	Symbol   string `json:"symbol"`
	OrderID  uint64 `json:"orderId"`
	Unfilled string `json:"unfilled"`
}

// EventSender delivers execution events to an external system
type EventSender interface {
	SendTrade(ctx context.Context, event *TradeEvent) error
	SendCancel(ctx context.Context, event *CancelEvent) error
	Close() error
}
