package core

import (
	"fmt"
	"strings"

	"github.com/nikolaydubina/fpdecimal"
)

// SideQueue is the price-ordered index of one side of a book: a doubly
// linked list of price levels with the best price at the head (highest
// first for bids, lowest first for asks), a map from exact price to
// level, and the set of resting order IDs. The ID set holds
// identifiers only, never order references; an ID is present iff the
// order rests in exactly one level of this side.
type SideQueue struct {
	side     Side
	head     *PriceLevel
	tail     *PriceLevel
	levels   map[string]*PriceLevel
	orderIDs map[uint64]struct{}
}

// NewSideQueue creates an empty queue for the given side
func NewSideQueue(side Side) *SideQueue {
	return &SideQueue{
		side:     side,
		levels:   make(map[string]*PriceLevel),
		orderIDs: make(map[uint64]struct{}),
	}
}

// Side returns which side of the book this queue indexes
func (q *SideQueue) Side() Side {
	return q.side
}

// better reports whether price a has priority over price b on this side
func (q *SideQueue) better(a, b fpdecimal.Decimal) bool {
	if q.side == Buy {
		return a.GreaterThan(b)
	}
	return a.LessThan(b)
}

// Insert places the order at the back of the level for its exact
// price, creating the level if absent. Fails with ErrDuplicateOrder
// when the order's ID already rests on this side; nothing changes then.
func (q *SideQueue) Insert(order *Order) error {
	if _, exists := q.orderIDs[order.ID()]; exists {
		return ErrDuplicateOrder
	}

	price := order.Price()
	key := price.String()

	level, ok := q.levels[key]
	if !ok {
		level = NewPriceLevel(price)
		q.levels[key] = level
		q.link(level)
	}
	level.push(order)
	q.orderIDs[order.ID()] = struct{}{}
	return nil
}

// link threads a fresh level into the list by price priority
func (q *SideQueue) link(level *PriceLevel) {
	if q.head == nil {
		q.head = level
		q.tail = level
		return
	}

	if q.better(level.price, q.head.price) {
		level.next = q.head
		q.head.prev = level
		q.head = level
		return
	}
	if !q.better(level.price, q.tail.price) {
		level.prev = q.tail
		q.tail.next = level
		q.tail = level
		return
	}

	current := q.head
	for current != nil && !q.better(level.price, current.price) {
		current = current.next
	}
	level.next = current
	level.prev = current.prev
	current.prev.next = level
	current.prev = level
}

// unlink detaches a level from the list; the levels map entry is the
// caller's responsibility.
func (q *SideQueue) unlink(level *PriceLevel) {
	if level.prev != nil {
		level.prev.next = level.next
	} else {
		q.head = level.next
	}
	if level.next != nil {
		level.next.prev = level.prev
	} else {
		q.tail = level.prev
	}
	level.prev = nil
	level.next = nil
}

// BestPrice returns the price of the best non-empty level. The second
// return is false when the side is empty.
func (q *SideQueue) BestPrice() (fpdecimal.Decimal, bool) {
	if q.head == nil {
		return fpdecimal.Zero, false
	}
	return q.head.price, true
}

// ConsumeBest detaches the best level, lets fn operate on it, and
// reattaches the level at the head when it still holds orders. This is
// the sole mutation path used during matching: it always exposes the
// best price's oldest order. Returns false when the side is empty.
func (q *SideQueue) ConsumeBest(fn func(*PriceLevel)) bool {
	level := q.head
	if level == nil {
		return false
	}
	q.unlink(level)

	fn(level)

	if level.Len() > 0 {
		// still the best price on this side
		if q.head != nil {
			level.next = q.head
			q.head.prev = level
			q.head = level
		} else {
			q.head = level
			q.tail = level
		}
	} else {
		delete(q.levels, level.price.String())
	}
	return true
}

// ConsumeBestOrder exposes the oldest order at the best price to fn
// and drops the order from its level once fn leaves it fully filled.
// Returns false when the side is empty.
func (q *SideQueue) ConsumeBestOrder(fn func(maker *Order)) bool {
	matched := false
	q.ConsumeBest(func(level *PriceLevel) {
		maker := level.Front()
		if maker == nil {
			return
		}
		fn(maker)
		matched = true
		if maker.IsFilled() {
			level.popFront()
			delete(q.orderIDs, maker.ID())
		}
	})
	return matched
}

// Remove takes the order with the given ID out of the level at exactly
// the supplied price. It returns nil when the ID is not resting or no
// order with that ID sits at that price; the caller supplies the
// resting price, no cross-price scan is performed.
func (q *SideQueue) Remove(price fpdecimal.Decimal, orderID uint64) *Order {
	if _, exists := q.orderIDs[orderID]; !exists {
		return nil
	}

	key := price.String()
	level, ok := q.levels[key]
	if !ok {
		return nil
	}

	order := level.remove(orderID)
	if order == nil {
		return nil
	}
	delete(q.orderIDs, orderID)

	if level.Len() == 0 {
		q.unlink(level)
		delete(q.levels, key)
	}
	return order
}

// Exists reports whether an order with this ID currently rests here
func (q *SideQueue) Exists(orderID uint64) bool {
	_, exists := q.orderIDs[orderID]
	return exists
}

// Ascend walks the levels from best to worst until fn returns false
func (q *SideQueue) Ascend(fn func(*PriceLevel) bool) {
	for level := q.head; level != nil; level = level.next {
		if !fn(level) {
			return
		}
	}
}

// Len returns the total number of resting orders on this side
func (q *SideQueue) Len() int {
	count := 0
	for level := q.head; level != nil; level = level.next {
		count += level.Len()
	}
	return count
}

// Prices returns the level prices from best to worst
func (q *SideQueue) Prices() []fpdecimal.Decimal {
	prices := make([]fpdecimal.Decimal, 0, len(q.levels))
	for level := q.head; level != nil; level = level.next {
		prices = append(prices, level.price)
	}
	return prices
}

// String implements fmt.Stringer interface
func (q *SideQueue) String() string {
	sb := strings.Builder{}
	for level := q.head; level != nil; level = level.next {
		sb.WriteString(fmt.Sprintf("\n%s -> orders: %d", level.price.String(), level.Len()))
	}
	return sb.String()
}
