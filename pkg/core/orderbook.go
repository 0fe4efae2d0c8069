package core

import (
	"github.com/nikolaydubina/fpdecimal"
)

// OrderBook implements price-time-priority matching for one symbol.
// It is not safe for concurrent use; the Engine serializes access.
type OrderBook struct {
	symbol string
	bids   *SideQueue
	asks   *SideQueue
	sink   NotificationSink
}

// NewOrderBook creates a book for the symbol. A nil sink is replaced
// with NoopSink.
func NewOrderBook(symbol string, sink NotificationSink) *OrderBook {
	if sink == nil {
		sink = NoopSink{}
	}
	return &OrderBook{
		symbol: symbol,
		bids:   NewSideQueue(Buy),
		asks:   NewSideQueue(Sell),
		sink:   sink,
	}
}

// Symbol returns the symbol this book trades
func (ob *OrderBook) Symbol() string {
	return ob.symbol
}

// Bids returns the buy side of the book
func (ob *OrderBook) Bids() *SideQueue {
	return ob.bids
}

// Asks returns the sell side of the book
func (ob *OrderBook) Asks() *SideQueue {
	return ob.asks
}

func (ob *OrderBook) sideOf(side Side) *SideQueue {
	if side == Buy {
		return ob.bids
	}
	return ob.asks
}

// AddOrder runs the matching algorithm for the order's kind. The
// whole walk across price levels completes before it returns; all
// error paths are checked before any book structure is altered.
func (ob *OrderBook) AddOrder(order *Order) error {
	if ob.sideOf(order.Side()).Exists(order.ID()) {
		return ErrDuplicateOrder
	}

	switch order.Kind() {
	case KindLimit:
		return ob.limit(order)
	case KindMarket:
		return ob.market(order)
	case KindIOC:
		return ob.ioc(order)
	case KindFOK:
		return ob.fok(order)
	default:
		return ErrInvalidKind
	}
}

// tryMatch performs one matching step against the opposing side.
// It returns true when no trade is possible and the remaining taker
// quantity should rest: the opposing side is empty or its best price
// is worse than the taker's limit. Otherwise it trades the oldest
// order at the best opposing price and returns false.
func (ob *OrderBook) tryMatch(taker *Order) bool {
	makers := ob.sideOf(taker.Side().Opposite())

	best, ok := makers.BestPrice()
	if !ok {
		return true
	}
	if taker.Side() == Buy && best.GreaterThan(taker.Price()) {
		return true
	}
	if taker.Side() == Sell && best.LessThan(taker.Price()) {
		return true
	}

	var (
		makerID    uint64
		traded     fpdecimal.Decimal
		tradePrice fpdecimal.Decimal
	)
	matched := makers.ConsumeBestOrder(func(maker *Order) {
		traded = min(maker.Quantity(), taker.Quantity())
		maker.DecreaseQuantity(traded)
		taker.DecreaseQuantity(traded)
		makerID = maker.ID()
		tradePrice = maker.Price()
	})

	// notify only once the book state is final; trade price is the
	// resting maker's price, never the taker's
	if matched {
		ob.sink.TradeSuccess(makerID, taker.ID(), traded, tradePrice)
	}
	return false
}

// limit repeats matching steps until the taker is filled or no longer
// crosses; any remainder rests on the taker's own side.
func (ob *OrderBook) limit(taker *Order) error {
	for {
		if ob.tryMatch(taker) {
			return ob.sideOf(taker.Side()).Insert(taker)
		}
		if taker.IsFilled() {
			return nil
		}
	}
}

// market overwrites the order price with the current best opposing
// price and runs the limit algorithm at that price. With an empty
// opposing side the order is passively canceled instead.
func (ob *OrderBook) market(taker *Order) error {
	best, ok := ob.sideOf(taker.Side().Opposite()).BestPrice()
	if !ok {
		ob.sink.CancelOrder(taker.ID(), taker.Quantity())
		return ErrNoOpposingLiquidity
	}
	taker.setPrice(best)
	return ob.limit(taker)
}

// ioc runs one full matching pass honoring the limit price, then
// discards any remainder; an IOC order never rests.
func (ob *OrderBook) ioc(taker *Order) error {
	for {
		if ob.tryMatch(taker) {
			break
		}
		if taker.IsFilled() {
			return nil
		}
	}
	ob.sink.CancelOrder(taker.ID(), taker.Quantity())
	return nil
}

// fok accumulates available opposing quantity within the taker's
// acceptable price range before touching anything. Insufficient
// quantity rejects the whole order; sufficient quantity guarantees
// the limit pass below fills it completely.
func (ob *OrderBook) fok(taker *Order) error {
	makers := ob.sideOf(taker.Side().Opposite())

	available := fpdecimal.Zero
	makers.Ascend(func(level *PriceLevel) bool {
		if taker.Side() == Buy && level.Price().GreaterThan(taker.Price()) {
			return false
		}
		if taker.Side() == Sell && level.Price().LessThan(taker.Price()) {
			return false
		}
		available = available.Add(level.Volume())
		return available.LessThan(taker.Quantity())
	})

	if available.LessThan(taker.Quantity()) {
		ob.sink.CancelOrder(taker.ID(), taker.Quantity())
		return ErrInsufficientLiquidity
	}
	return ob.limit(taker)
}

// CancelOrder removes the order resting at exactly (price, side, id)
// and returns it, or nil when nothing rests there. The caller supplies
// the resting price; no cross-price scan is performed. Explicit
// cancellation never goes through the notification sink.
func (ob *OrderBook) CancelOrder(orderID uint64, price fpdecimal.Decimal, side Side) *Order {
	return ob.sideOf(side).Remove(price, orderID)
}

// min returns the minimum of two decimals
func min(a, b fpdecimal.Decimal) fpdecimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
