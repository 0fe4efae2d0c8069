package core

import (
	"github.com/nikolaydubina/fpdecimal"
)

// PriceLevel holds all resting orders at one exact price, in strict
// arrival order. A level is never kept in its SideQueue once empty.
type PriceLevel struct {
	price  fpdecimal.Decimal
	orders []*Order

	next *PriceLevel
	prev *PriceLevel
}

// NewPriceLevel creates an empty level for the given price
func NewPriceLevel(price fpdecimal.Decimal) *PriceLevel {
	return &PriceLevel{
		price: price,
	}
}

// Price returns the level's price
func (l *PriceLevel) Price() fpdecimal.Decimal {
	return l.price
}

// Len returns the number of resting orders at this level
func (l *PriceLevel) Len() int {
	return len(l.orders)
}

// Front returns the oldest resting order, or nil when the level is empty
func (l *PriceLevel) Front() *Order {
	if len(l.orders) == 0 {
		return nil
	}
	return l.orders[0]
}

// Volume returns the total resting quantity at this level
func (l *PriceLevel) Volume() fpdecimal.Decimal {
	volume := fpdecimal.Zero
	for _, o := range l.orders {
		volume = volume.Add(o.Quantity())
	}
	return volume
}

// Orders returns the resting orders oldest-first. The returned slice
// aliases the level and must not be retained across mutations.
func (l *PriceLevel) Orders() []*Order {
	return l.orders
}

func (l *PriceLevel) push(order *Order) {
	l.orders = append(l.orders, order)
}

// popFront removes and returns the oldest order
func (l *PriceLevel) popFront() *Order {
	if len(l.orders) == 0 {
		return nil
	}
	front := l.orders[0]
	l.orders = l.orders[1:]
	return front
}

// remove takes out the order with the given ID, scanning the FIFO
// sequence linearly; levels are expected to be shallow.
func (l *PriceLevel) remove(orderID uint64) *Order {
	for i, o := range l.orders {
		if o.ID() == orderID {
			l.orders = append(l.orders[:i], l.orders[i+1:]...)
			return o
		}
	}
	return nil
}
