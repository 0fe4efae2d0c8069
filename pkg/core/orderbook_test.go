package core

import (
	"testing"

	"github.com/nikolaydubina/fpdecimal"
)

// recordedTrade captures one TradeSuccess call
type recordedTrade struct {
	makerID  uint64
	takerID  uint64
	quantity fpdecimal.Decimal
	price    fpdecimal.Decimal
}

// recordedCancel captures one CancelOrder call
type recordedCancel struct {
	orderID  uint64
	quantity fpdecimal.Decimal
}

// recordingSink collects every notification for assertions
type recordingSink struct {
	trades  []recordedTrade
	cancels []recordedCancel
}

func (s *recordingSink) TradeSuccess(makerID, takerID uint64, quantity, price fpdecimal.Decimal) {
	s.trades = append(s.trades, recordedTrade{makerID, takerID, quantity, price})
}

func (s *recordingSink) CancelOrder(orderID uint64, quantity fpdecimal.Decimal) {
	s.cancels = append(s.cancels, recordedCancel{orderID, quantity})
}

func depth(book *OrderBook) (buy, sell int) {
	return book.Bids().Len(), book.Asks().Len()
}

func addOrder(t testing.TB, book *OrderBook, id uint64, price, quantity float64, kind Kind, side Side) {
	t.Helper()
	if err := book.AddOrder(mustOrder(t, id, price, quantity, kind, side)); err != nil {
		t.Fatalf("AddOrder(%d) failed: %v", id, err)
	}
}

func TestLimitOrdersRestAndMatch(t *testing.T) {
	sink := &recordingSink{}
	book := NewOrderBook("TEST", sink)

	// ten sells at ascending prices rest without matching
	for i := uint64(0); i < 10; i++ {
		addOrder(t, book, i, 100.0+float64(i), 10.0, KindLimit, Sell)
	}
	buy, sell := depth(book)
	if buy != 0 || sell != 10 {
		t.Fatalf("Expected depth 0/10, got %d/%d", buy, sell)
	}

	// ten buys below the spread rest without matching
	for i := uint64(10); i < 20; i++ {
		addOrder(t, book, i, 90.0+float64(i-10), 10.0, KindLimit, Buy)
	}
	buy, sell = depth(book)
	if buy != 10 || sell != 10 {
		t.Fatalf("Expected depth 10/10, got %d/%d", buy, sell)
	}
	if len(sink.trades) != 0 {
		t.Fatalf("Expected no trades yet, got %d", len(sink.trades))
	}

	// a crossing buy consumes exactly the best ask
	addOrder(t, book, 20, 100.0, 10.0, KindLimit, Buy)
	buy, sell = depth(book)
	if buy != 10 || sell != 9 {
		t.Fatalf("Expected depth 10/9, got %d/%d", buy, sell)
	}

	if len(sink.trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(sink.trades))
	}
	trade := sink.trades[0]
	if trade.makerID != 0 || trade.takerID != 20 {
		t.Errorf("Expected maker 0 taker 20, got maker %d taker %d", trade.makerID, trade.takerID)
	}
	if !trade.price.Equal(fpdecimal.FromFloat(100.0)) {
		t.Errorf("Expected trade at maker price 100, got %v", trade.price)
	}
	if !trade.quantity.Equal(fpdecimal.FromFloat(10.0)) {
		t.Errorf("Expected trade quantity 10, got %v", trade.quantity)
	}
}

func TestLimitOrderWalksLevels(t *testing.T) {
	sink := &recordingSink{}
	book := NewOrderBook("TEST", sink)

	addOrder(t, book, 1, 100.0, 5.0, KindLimit, Sell)
	addOrder(t, book, 2, 101.0, 5.0, KindLimit, Sell)
	addOrder(t, book, 3, 102.0, 5.0, KindLimit, Sell)

	// a buy limit at 101 sweeps two levels and rests nothing
	addOrder(t, book, 10, 101.0, 10.0, KindLimit, Buy)

	buy, sell := depth(book)
	if buy != 0 || sell != 1 {
		t.Fatalf("Expected depth 0/1, got %d/%d", buy, sell)
	}
	if len(sink.trades) != 2 {
		t.Fatalf("Expected 2 trades, got %d", len(sink.trades))
	}
	if !sink.trades[0].price.Equal(fpdecimal.FromFloat(100.0)) {
		t.Errorf("Expected first trade at 100, got %v", sink.trades[0].price)
	}
	if !sink.trades[1].price.Equal(fpdecimal.FromFloat(101.0)) {
		t.Errorf("Expected second trade at 101, got %v", sink.trades[1].price)
	}
}

func TestLimitPartialFillRests(t *testing.T) {
	sink := &recordingSink{}
	book := NewOrderBook("TEST", sink)

	addOrder(t, book, 1, 100.0, 3.0, KindLimit, Sell)
	addOrder(t, book, 2, 100.0, 10.0, KindLimit, Buy)

	buy, sell := depth(book)
	if buy != 1 || sell != 0 {
		t.Fatalf("Expected depth 1/0, got %d/%d", buy, sell)
	}
	if !book.Bids().Exists(2) {
		t.Error("Expected remainder of order 2 to rest")
	}

	best, _ := book.Bids().BestPrice()
	if !best.Equal(fpdecimal.FromFloat(100.0)) {
		t.Errorf("Expected remainder resting at 100, got %v", best)
	}
	if !sink.trades[0].quantity.Equal(fpdecimal.FromFloat(3.0)) {
		t.Errorf("Expected trade quantity 3, got %v", sink.trades[0].quantity)
	}
}

func TestPriceTimePriority(t *testing.T) {
	sink := &recordingSink{}
	book := NewOrderBook("TEST", sink)

	// same price, insertion order decides; better price always first
	addOrder(t, book, 1, 101.0, 1.0, KindLimit, Sell)
	addOrder(t, book, 2, 100.0, 1.0, KindLimit, Sell)
	addOrder(t, book, 3, 100.0, 1.0, KindLimit, Sell)

	addOrder(t, book, 10, 101.0, 3.0, KindLimit, Buy)

	wantMakers := []uint64{2, 3, 1}
	if len(sink.trades) != 3 {
		t.Fatalf("Expected 3 trades, got %d", len(sink.trades))
	}
	for i, want := range wantMakers {
		if sink.trades[i].makerID != want {
			t.Errorf("Expected maker %d at trade %d, got %d", want, i, sink.trades[i].makerID)
		}
	}
}

func TestMarketOrderRestsAtSnapshotPrice(t *testing.T) {
	sink := &recordingSink{}
	book := NewOrderBook("TEST", sink)

	for i := uint64(0); i < 10; i++ {
		addOrder(t, book, i, 100.0+float64(i), 10.0, KindLimit, Sell)
	}
	for i := uint64(10); i < 20; i++ {
		addOrder(t, book, i, 90.0+float64(i-10), 10.0, KindLimit, Buy)
	}

	// the market sell snapshots the best bid (99) and executes as a
	// limit at that price: it fills the one bid at 99, then the
	// remainder rests on the sell side at 99.
	addOrder(t, book, 20, 0, 2000.0, KindMarket, Sell)

	buy, sell := depth(book)
	if buy != 9 || sell != 11 {
		t.Fatalf("Expected depth 9/11, got %d/%d", buy, sell)
	}
	if !book.Asks().Exists(20) {
		t.Error("Expected market remainder to rest on the ask side")
	}
	best, _ := book.Asks().BestPrice()
	if !best.Equal(fpdecimal.FromFloat(99.0)) {
		t.Errorf("Expected remainder resting at snapshot price 99, got %v", best)
	}
	if len(sink.trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(sink.trades))
	}
	if !sink.trades[0].price.Equal(fpdecimal.FromFloat(99.0)) {
		t.Errorf("Expected trade at 99, got %v", sink.trades[0].price)
	}
}

func TestMarketOrderNoLiquidity(t *testing.T) {
	sink := &recordingSink{}
	book := NewOrderBook("TEST", sink)

	err := book.AddOrder(mustOrder(t, 1, 0, 10.0, KindMarket, Buy))
	if err != ErrNoOpposingLiquidity {
		t.Fatalf("Expected ErrNoOpposingLiquidity, got %v", err)
	}

	buy, sell := depth(book)
	if buy != 0 || sell != 0 {
		t.Fatalf("Expected empty book, got %d/%d", buy, sell)
	}
	if len(sink.cancels) != 1 {
		t.Fatalf("Expected 1 cancel notification, got %d", len(sink.cancels))
	}
	if sink.cancels[0].orderID != 1 || !sink.cancels[0].quantity.Equal(fpdecimal.FromFloat(10.0)) {
		t.Errorf("Expected cancel of order 1 qty 10, got %+v", sink.cancels[0])
	}
}

func TestIOCMatchesThenDiscardsRemainder(t *testing.T) {
	sink := &recordingSink{}
	book := NewOrderBook("TEST", sink)

	addOrder(t, book, 1, 100.0, 5.0, KindLimit, Sell)
	addOrder(t, book, 2, 101.0, 5.0, KindLimit, Sell)

	// the IOC buy at 101 sweeps both levels, then the remaining 10
	// is discarded instead of resting
	addOrder(t, book, 10, 101.0, 20.0, KindIOC, Buy)

	buy, sell := depth(book)
	if buy != 0 || sell != 0 {
		t.Fatalf("Expected empty book, got %d/%d", buy, sell)
	}
	if len(sink.trades) != 2 {
		t.Fatalf("Expected 2 trades, got %d", len(sink.trades))
	}
	if len(sink.cancels) != 1 {
		t.Fatalf("Expected 1 cancel notification, got %d", len(sink.cancels))
	}
	if sink.cancels[0].orderID != 10 || !sink.cancels[0].quantity.Equal(fpdecimal.FromFloat(10.0)) {
		t.Errorf("Expected cancel of remainder 10, got %+v", sink.cancels[0])
	}
}

func TestIOCFullyFilledNoCancel(t *testing.T) {
	sink := &recordingSink{}
	book := NewOrderBook("TEST", sink)

	addOrder(t, book, 1, 100.0, 5.0, KindLimit, Sell)
	addOrder(t, book, 10, 100.0, 5.0, KindIOC, Buy)

	if len(sink.cancels) != 0 {
		t.Errorf("Expected no cancel for fully filled IOC, got %d", len(sink.cancels))
	}
	if len(sink.trades) != 1 {
		t.Errorf("Expected 1 trade, got %d", len(sink.trades))
	}
}

func TestIOCRespectsLimitPrice(t *testing.T) {
	sink := &recordingSink{}
	book := NewOrderBook("TEST", sink)

	addOrder(t, book, 1, 100.0, 5.0, KindLimit, Sell)
	addOrder(t, book, 2, 105.0, 5.0, KindLimit, Sell)

	// the level at 105 is beyond the limit; only 100 trades
	addOrder(t, book, 10, 100.0, 10.0, KindIOC, Buy)

	buy, sell := depth(book)
	if buy != 0 || sell != 1 {
		t.Fatalf("Expected depth 0/1, got %d/%d", buy, sell)
	}
	if len(sink.trades) != 1 {
		t.Fatalf("Expected 1 trade, got %d", len(sink.trades))
	}
	if sink.cancels[0].orderID != 10 || !sink.cancels[0].quantity.Equal(fpdecimal.FromFloat(5.0)) {
		t.Errorf("Expected cancel of remainder 5, got %+v", sink.cancels[0])
	}
}

func TestFOKRejectsInsufficientLiquidity(t *testing.T) {
	sink := &recordingSink{}
	book := NewOrderBook("TEST", sink)

	addOrder(t, book, 1, 100.0, 5.0, KindLimit, Sell)
	addOrder(t, book, 2, 101.0, 5.0, KindLimit, Sell)

	err := book.AddOrder(mustOrder(t, 10, 101.0, 20.0, KindFOK, Buy))
	if err != ErrInsufficientLiquidity {
		t.Fatalf("Expected ErrInsufficientLiquidity, got %v", err)
	}

	// the book is completely untouched
	buy, sell := depth(book)
	if buy != 0 || sell != 2 {
		t.Fatalf("Expected depth 0/2, got %d/%d", buy, sell)
	}
	if len(sink.trades) != 0 {
		t.Errorf("Expected no trades, got %d", len(sink.trades))
	}
	if len(sink.cancels) != 1 {
		t.Fatalf("Expected exactly 1 cancel notification, got %d", len(sink.cancels))
	}
	if sink.cancels[0].orderID != 10 || !sink.cancels[0].quantity.Equal(fpdecimal.FromFloat(20.0)) {
		t.Errorf("Expected cancel of full quantity 20, got %+v", sink.cancels[0])
	}
}

func TestFOKFillsWhenLiquiditySuffices(t *testing.T) {
	sink := &recordingSink{}
	book := NewOrderBook("TEST", sink)

	addOrder(t, book, 1, 100.0, 5.0, KindLimit, Sell)
	addOrder(t, book, 2, 101.0, 5.0, KindLimit, Sell)

	addOrder(t, book, 10, 101.0, 10.0, KindFOK, Buy)

	buy, sell := depth(book)
	if buy != 0 || sell != 0 {
		t.Fatalf("Expected empty book, got %d/%d", buy, sell)
	}
	if len(sink.trades) != 2 {
		t.Errorf("Expected 2 trades, got %d", len(sink.trades))
	}
	if len(sink.cancels) != 0 {
		t.Errorf("Expected no cancels, got %d", len(sink.cancels))
	}
}

func TestFOKIgnoresLevelsBeyondLimit(t *testing.T) {
	sink := &recordingSink{}
	book := NewOrderBook("TEST", sink)

	addOrder(t, book, 1, 100.0, 5.0, KindLimit, Sell)
	addOrder(t, book, 2, 110.0, 100.0, KindLimit, Sell)

	// plenty of quantity exists but only 5 within the price limit
	err := book.AddOrder(mustOrder(t, 10, 101.0, 10.0, KindFOK, Buy))
	if err != ErrInsufficientLiquidity {
		t.Fatalf("Expected ErrInsufficientLiquidity, got %v", err)
	}
}

func TestFOKSellScansBids(t *testing.T) {
	sink := &recordingSink{}
	book := NewOrderBook("TEST", sink)

	addOrder(t, book, 1, 100.0, 5.0, KindLimit, Buy)
	addOrder(t, book, 2, 99.0, 5.0, KindLimit, Buy)

	addOrder(t, book, 10, 99.0, 10.0, KindFOK, Sell)

	buy, sell := depth(book)
	if buy != 0 || sell != 0 {
		t.Fatalf("Expected empty book, got %d/%d", buy, sell)
	}
	if len(sink.trades) != 2 {
		t.Fatalf("Expected 2 trades, got %d", len(sink.trades))
	}
	if !sink.trades[0].price.Equal(fpdecimal.FromFloat(100.0)) {
		t.Errorf("Expected first trade at best bid 100, got %v", sink.trades[0].price)
	}
}

func TestDuplicateOrderRejected(t *testing.T) {
	book := NewOrderBook("TEST", nil)

	addOrder(t, book, 1, 100.0, 5.0, KindLimit, Sell)
	err := book.AddOrder(mustOrder(t, 1, 101.0, 3.0, KindLimit, Sell))
	if err != ErrDuplicateOrder {
		t.Fatalf("Expected ErrDuplicateOrder, got %v", err)
	}

	buy, sell := depth(book)
	if buy != 0 || sell != 1 {
		t.Fatalf("Expected depth 0/1, got %d/%d", buy, sell)
	}
}

func TestCancelOrderExactPriceContract(t *testing.T) {
	sink := &recordingSink{}
	book := NewOrderBook("TEST", sink)

	addOrder(t, book, 1, 100.0, 5.0, KindLimit, Sell)

	// wrong price, wrong side, wrong ID all fail quietly
	if book.CancelOrder(1, fpdecimal.FromFloat(101.0), Sell) != nil {
		t.Error("Expected nil for wrong price")
	}
	if book.CancelOrder(1, fpdecimal.FromFloat(100.0), Buy) != nil {
		t.Error("Expected nil for wrong side")
	}
	if book.CancelOrder(2, fpdecimal.FromFloat(100.0), Sell) != nil {
		t.Error("Expected nil for unknown ID")
	}

	order := book.CancelOrder(1, fpdecimal.FromFloat(100.0), Sell)
	if order == nil || order.ID() != 1 {
		t.Fatalf("Expected to cancel order 1, got %v", order)
	}

	// explicit cancellation never notifies the sink
	if len(sink.cancels) != 0 {
		t.Errorf("Expected no sink notifications, got %d", len(sink.cancels))
	}

	buy, sell := depth(book)
	if buy != 0 || sell != 0 {
		t.Fatalf("Expected empty book, got %d/%d", buy, sell)
	}
}

func TestTradedVolumeConservation(t *testing.T) {
	sink := &recordingSink{}
	book := NewOrderBook("TEST", sink)

	addOrder(t, book, 1, 100.0, 3.0, KindLimit, Sell)
	addOrder(t, book, 2, 100.0, 4.0, KindLimit, Sell)
	addOrder(t, book, 3, 101.0, 5.0, KindLimit, Sell)

	addOrder(t, book, 10, 101.0, 10.0, KindLimit, Buy)

	total := fpdecimal.Zero
	for _, trade := range sink.trades {
		total = total.Add(trade.quantity)
	}
	if !total.Equal(fpdecimal.FromFloat(10.0)) {
		t.Errorf("Expected total traded volume 10, got %v", total)
	}
	remaining := book.Asks().Len()
	if remaining != 1 {
		t.Errorf("Expected 1 remaining maker, got %d", remaining)
	}
}

func TestAddOrderInvalidKind(t *testing.T) {
	book := NewOrderBook("TEST", nil)
	order := &Order{id: 1, quantity: fpdecimal.FromFloat(1.0), kind: Kind("WEIRD"), side: Buy}
	if err := book.AddOrder(order); err != ErrInvalidKind {
		t.Errorf("Expected ErrInvalidKind, got %v", err)
	}
}
