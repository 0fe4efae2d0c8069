package core

import "github.com/nikolaydubina/fpdecimal"

// NotificationSink receives execution events from an OrderBook. The
// book invokes it synchronously inside the matching critical section,
// always after its own state change has been finalized.
type NotificationSink interface {
	// TradeSuccess is emitted once per matched pair per matching step.
	// The trade price is always the resting maker's price.
	TradeSuccess(makerID, takerID uint64, quantity, price fpdecimal.Decimal)

	// CancelOrder is emitted when the engine passively terminates an
	// order with quantity remaining: market order without liquidity,
	// IOC leftover, FOK rejection. It never fires for an explicit
	// client cancellation.
	CancelOrder(orderID uint64, quantity fpdecimal.Decimal)
}

// NoopSink discards all notifications
type NoopSink struct{}

// TradeSuccess does nothing
func (NoopSink) TradeSuccess(makerID, takerID uint64, quantity, price fpdecimal.Decimal) {}

// CancelOrder does nothing
func (NoopSink) CancelOrder(orderID uint64, quantity fpdecimal.Decimal) {}

var _ NotificationSink = NoopSink{}
