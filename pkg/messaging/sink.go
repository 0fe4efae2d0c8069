package messaging

import (
	"context"

	"github.com/nikolaydubina/fpdecimal"
	"github.com/rs/zerolog/log"

	"github.com/tradekit/matchtrade/pkg/core"
	"github.com/tradekit/matchtrade/pkg/otel"
)

// Sink adapts an EventSender to the book's NotificationSink. Send
// failures are logged and swallowed: the book has already finalized
// its state when the sink runs, and a slow or failing transport must
// not disturb matching.
type Sink struct {
	symbol string
	sender EventSender
}

// NewSink creates a sink publishing events for the given symbol
func NewSink(symbol string, sender EventSender) *Sink {
	return &Sink{
		symbol: symbol,
		sender: sender,
	}
}

// TradeSuccess publishes a trade event
func (s *Sink) TradeSuccess(makerID, takerID uint64, quantity, price fpdecimal.Decimal) {
	otel.GetOrderMetrics().RecordTrade(context.Background(), s.symbol)

	event := &TradeEvent{
		Type:     EventTrade,
		Symbol:   s.symbol,
		MakerID:  makerID,
		TakerID:  takerID,
		Quantity: quantity.String(),
		Price:    price.String(),
	}
	if err := s.sender.SendTrade(context.Background(), event); err != nil {
		log.Error().Err(err).
			Str("symbol", s.symbol).
			Uint64("maker_id", makerID).
			Uint64("taker_id", takerID).
			Msg("Failed to publish trade event")
	}
}

// CancelOrder publishes a passive-cancellation event
func (s *Sink) CancelOrder(orderID uint64, quantity fpdecimal.Decimal) {
	event := &CancelEvent{
		Type:     EventCancel,
		Symbol:   s.symbol,
		OrderID:  orderID,
		Unfilled: quantity.String(),
	}
	if err := s.sender.SendCancel(context.Background(), event); err != nil {
		log.Error().Err(err).
			Str("symbol", s.symbol).
			Uint64("order_id", orderID).
			Msg("Failed to publish cancel event")
	}
}

var _ core.NotificationSink = (*Sink)(nil)
