package messaging

import "context"

// Fanout forwards every event to all wrapped senders. Each sender is
// attempted even when an earlier one fails; the first error is
// returned.
type Fanout struct {
	senders []EventSender
}

// NewFanout wraps the given senders
func NewFanout(senders ...EventSender) *Fanout {
	return &Fanout{senders: senders}
}

// SendTrade forwards the trade event to every sender
func (f *Fanout) SendTrade(ctx context.Context, event *TradeEvent) error {
	var firstErr error
	for _, sender := range f.senders {
		if err := sender.SendTrade(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SendCancel forwards the cancel event to every sender
func (f *Fanout) SendCancel(ctx context.Context, event *CancelEvent) error {
	var firstErr error
	for _, sender := range f.senders {
		if err := sender.SendCancel(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close closes every wrapped sender
func (f *Fanout) Close() error {
	var firstErr error
	for _, sender := range f.senders {
		if err := sender.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ EventSender = (*Fanout)(nil)
