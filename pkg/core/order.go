package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nikolaydubina/fpdecimal"
)

// Side represents buy or sell side of the order
type Side int

// Order sides
const (
	Sell Side = iota
	Buy
)

// String returns side as string
func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// SideFromString parses a side from its textual form
func SideFromString(s string) (Side, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown side %q", s)
	}
}

// Opposite returns the other side of the book
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// Kind represents the execution policy of the order
type Kind string

// Order kinds
const (
	KindLimit  Kind = "LIMIT"
	KindMarket Kind = "MARKET"
	KindIOC    Kind = "IOC" // Immediate Or Cancel
	KindFOK    Kind = "FOK" // Fill Or Kill
)

// KindFromString parses an order kind from its textual form
func KindFromString(s string) (Kind, error) {
	switch Kind(strings.ToUpper(s)) {
	case KindLimit:
		return KindLimit, nil
	case KindMarket:
		return KindMarket, nil
	case KindIOC:
		return KindIOC, nil
	case KindFOK:
		return KindFOK, nil
	default:
		return "", fmt.Errorf("unknown order kind %q", s)
	}
}

// Order stores a trade intent. The only field that changes after
// construction is the remaining quantity, which matching decreases in
// place; market orders additionally get their price overwritten with
// the best opposing price at execution time.
type Order struct {
	id        uint64
	symbol    string
	price     fpdecimal.Decimal
	quantity  fpdecimal.Decimal
	kind      Kind
	side      Side
	timestamp int64
}

// NewOrder creates a new Order. Price must be positive for every kind
// except market orders, whose price is assigned by the book.
func NewOrder(id uint64, symbol string, price, quantity fpdecimal.Decimal, kind Kind, side Side, timestamp int64) (*Order, error) {
	if quantity.LessThanOrEqual(fpdecimal.Zero) {
		return nil, ErrInvalidQuantity
	}

	switch kind {
	case KindLimit, KindIOC, KindFOK:
		if price.LessThanOrEqual(fpdecimal.Zero) {
			return nil, ErrInvalidPrice
		}
	case KindMarket:
		// price is ignored and overwritten at execution time
	default:
		return nil, ErrInvalidKind
	}

	return &Order{
		id:        id,
		symbol:    symbol,
		price:     price,
		quantity:  quantity,
		kind:      kind,
		side:      side,
		timestamp: timestamp,
	}, nil
}

// ID returns the order identifier, unique within its book
func (o *Order) ID() uint64 {
	return o.id
}

// Symbol returns the traded symbol
func (o *Order) Symbol() string {
	return o.symbol
}

// Price returns the price field copy
func (o *Order) Price() fpdecimal.Decimal {
	return o.price
}

// Quantity returns the remaining quantity copy
func (o *Order) Quantity() fpdecimal.Decimal {
	return o.quantity
}

// Kind returns the order kind
func (o *Order) Kind() Kind {
	return o.kind
}

// Side returns the side of the Order
func (o *Order) Side() Side {
	return o.side
}

// Timestamp returns the submission timestamp in milliseconds. It is
// metadata only; time priority within a level follows insertion order.
func (o *Order) Timestamp() int64 {
	return o.timestamp
}

// DecreaseQuantity subtracts the traded quantity from the remainder
func (o *Order) DecreaseQuantity(quantity fpdecimal.Decimal) {
	o.quantity = o.quantity.Sub(quantity)
}

// IsFilled reports whether no quantity remains
func (o *Order) IsFilled() bool {
	return o.quantity.Equal(fpdecimal.Zero)
}

// setPrice overwrites the price; used for market orders only
func (o *Order) setPrice(price fpdecimal.Decimal) {
	o.price = price
}

// MarshalJSON implements custom JSON marshaling for Order
func (o *Order) MarshalJSON() ([]byte, error) {
	type OrderJSON struct {
		ID        uint64 `json:"id"`
		Symbol    string `json:"symbol"`
		Price     string `json:"price"`
		Quantity  string `json:"quantity"`
		Kind      Kind   `json:"kind"`
		Side      string `json:"side"`
		Timestamp int64  `json:"timestamp"`
	}

	return json.Marshal(OrderJSON{
		ID:        o.id,
		Symbol:    o.symbol,
		Price:     o.price.String(),
		Quantity:  o.quantity.String(),
		Kind:      o.kind,
		Side:      o.side.String(),
		Timestamp: o.timestamp,
	})
}

// String implements Stringer interface
func (o *Order) String() string {
	j, _ := o.MarshalJSON()
	return string(j)
}
