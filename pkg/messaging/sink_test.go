package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/nikolaydubina/fpdecimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkTradeSuccess(t *testing.T) {
	capture := NewCaptureSender()
	sink := NewSink("BTC/DOGE", capture)

	sink.TradeSuccess(1, 2, fpdecimal.FromFloat(3.5), fpdecimal.FromFloat(100.25))

	trades := capture.Trades()
	require.Len(t, trades, 1)
	assert.Equal(t, EventTrade, trades[0].Type)
	assert.Equal(t, "BTC/DOGE", trades[0].Symbol)
	assert.Equal(t, uint64(1), trades[0].MakerID)
	assert.Equal(t, uint64(2), trades[0].TakerID)
	assert.Equal(t, "3.500", trades[0].Quantity)
	assert.Equal(t, "100.250", trades[0].Price)
}

func TestSinkCancelOrder(t *testing.T) {
	capture := NewCaptureSender()
	sink := NewSink("BTC/DOGE", capture)

	sink.CancelOrder(7, fpdecimal.FromFloat(12.0))

	cancels := capture.Cancels()
	require.Len(t, cancels, 1)
	assert.Equal(t, EventCancel, cancels[0].Type)
	assert.Equal(t, uint64(7), cancels[0].OrderID)
	assert.Equal(t, "12.000", cancels[0].Unfilled)
}

// failingSender always errors to exercise the swallow path
type failingSender struct{}

func (failingSender) SendTrade(context.Context, *TradeEvent) error {
	return errors.New("broker down")
}

func (failingSender) SendCancel(context.Context, *CancelEvent) error {
	return errors.New("broker down")
}

func (failingSender) Close() error { return nil }

func TestSinkSwallowsSendErrors(t *testing.T) {
	sink := NewSink("BTC/DOGE", failingSender{})

	// must not panic or propagate
	sink.TradeSuccess(1, 2, fpdecimal.FromFloat(1.0), fpdecimal.FromFloat(100.0))
	sink.CancelOrder(3, fpdecimal.FromFloat(1.0))
}
