package core

import (
	"context"
	"sync"

	"github.com/nikolaydubina/fpdecimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tradekit/matchtrade/pkg/otel"
)

// bookEntry pairs a book with its lock. Readers (diagnostics) may hold
// the lock shared; AddOrder and CancelOrder hold it exclusive, so one
// order's full walk across price levels is atomic per book.
type bookEntry struct {
	mu   sync.RWMutex
	book *OrderBook
}

// Engine routes orders to per-symbol books. Books for different
// symbols are fully independent and may be mutated concurrently.
type Engine struct {
	mu    sync.RWMutex
	books map[string]*bookEntry
}

// NewEngine creates an empty engine. Each server or test constructs
// its own; there is no package-level instance.
func NewEngine() *Engine {
	return &Engine{
		books: make(map[string]*bookEntry),
	}
}

// AddBook registers a book for the symbol, replacing any existing one.
// Administrative: not safe to race with trading on that symbol.
func (e *Engine) AddBook(symbol string, sink NotificationSink) *OrderBook {
	book := NewOrderBook(symbol, sink)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.books[symbol] = &bookEntry{book: book}
	return book
}

func (e *Engine) entry(symbol string) *bookEntry {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.books[symbol]
}

// AddOrder routes the order to its symbol's book and runs matching
// under the book's exclusive lock. Fails with ErrSymbolNotFound when
// no book is registered for the order's symbol.
func (e *Engine) AddOrder(ctx context.Context, order *Order) error {
	_, span := otel.StartOrderSpan(ctx, otel.SpanProcessOrder,
		attribute.Int64(otel.AttributeOrderID, int64(order.ID())),
		attribute.String(otel.AttributeOrderSymbol, order.Symbol()),
		attribute.String(otel.AttributeOrderSide, order.Side().String()),
		attribute.String(otel.AttributeOrderKind, string(order.Kind())),
		attribute.String(otel.AttributeOrderQuantity, order.Quantity().String()),
		attribute.String(otel.AttributeOrderPrice, order.Price().String()),
	)
	defer span.End()

	entry := e.entry(order.Symbol())
	if entry == nil {
		otel.RecordError(span, ErrSymbolNotFound)
		return ErrSymbolNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.book.AddOrder(order); err != nil {
		otel.RecordError(span, err)
		return err
	}
	otel.GetOrderMetrics().RecordProcessed(ctx, string(order.Kind()))
	return nil
}

// CancelOrder removes the order resting at exactly (price, side, id)
// in the symbol's book. Returns nil when the symbol is unknown or
// nothing rests there; "already filled" and "never existed" are not
// distinguished.
func (e *Engine) CancelOrder(ctx context.Context, symbol string, orderID uint64, price fpdecimal.Decimal, side Side) *Order {
	_, span := otel.StartOrderSpan(ctx, otel.SpanCancelOrder,
		attribute.Int64(otel.AttributeOrderID, int64(orderID)),
		attribute.String(otel.AttributeOrderSymbol, symbol),
		attribute.String(otel.AttributeOrderSide, side.String()),
	)
	defer span.End()

	entry := e.entry(symbol)
	if entry == nil {
		return nil
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.book.CancelOrder(orderID, price, side)
}

// Depth sums resting order counts per side across all books, taking
// each book's lock shared so no book is observed mid-mutation.
func (e *Engine) Depth() (buy, sell int) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, entry := range e.books {
		entry.mu.RLock()
		buy += entry.book.Bids().Len()
		sell += entry.book.Asks().Len()
		entry.mu.RUnlock()
	}
	return buy, sell
}

// Symbols returns the registered symbols in unspecified order
func (e *Engine) Symbols() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	symbols := make([]string, 0, len(e.books))
	for symbol := range e.books {
		symbols = append(symbols, symbol)
	}
	return symbols
}

// View runs fn with read access to the symbol's book. The book must
// not be mutated through fn; use it for inspection only.
func (e *Engine) View(symbol string, fn func(*OrderBook)) error {
	entry := e.entry(symbol)
	if entry == nil {
		return ErrSymbolNotFound
	}

	entry.mu.RLock()
	defer entry.mu.RUnlock()
	fn(entry.book)
	return nil
}
