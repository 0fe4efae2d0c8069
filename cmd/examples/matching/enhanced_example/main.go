package main

import (
	"fmt"

	"github.com/nikolaydubina/fpdecimal"

	"github.com/tradekit/matchtrade/pkg/core"
)

// traceSink prints every execution event as it happens
type traceSink struct{}

func (traceSink) TradeSuccess(makerID, takerID uint64, quantity, price fpdecimal.Decimal) {
	fmt.Printf("  TRADE: maker=%d taker=%d qty=%s price=%s\n",
		makerID, takerID, quantity.String(), price.String())
}

func (traceSink) CancelOrder(orderID uint64, quantity fpdecimal.Decimal) {
	fmt.Printf("  CANCEL: order=%d unfilled=%s\n", orderID, quantity.String())
}

// A walkthrough of all four order kinds against one book
func main() {
	book := core.NewOrderBook("BTC/DOGE", traceSink{})

	fmt.Println("===== ORDER MATCHING DEMONSTRATION =====")
	fmt.Println("This example shows how each order kind executes against resting liquidity")
	fmt.Println()

	fmt.Println("STEP 1: Adding sell orders to the order book")
	fmt.Println("------------------------------------------")

	for _, o := range []struct {
		id    uint64
		price float64
		qty   float64
	}{
		{1, 10.0, 5.0},
		{2, 10.5, 3.0},
		{3, 11.0, 7.0},
	} {
		submit(book, o.id, o.price, o.qty, core.KindLimit, core.Sell)
		fmt.Printf("Added sell order: ID=%d, Price=%.2f, Quantity=%.2f\n", o.id, o.price, o.qty)
	}
	printBook(book)

	fmt.Println("STEP 2: A buy limit order crossing the lowest ask")
	fmt.Println("-------------------------------------------------")
	submit(book, 10, 10.0, 3.0, core.KindLimit, core.Buy)
	printBook(book)

	fmt.Println("STEP 3: A market buy sweeping the best ask level")
	fmt.Println("------------------------------------------------")
	submit(book, 11, 0, 2.0, core.KindMarket, core.Buy)
	printBook(book)

	fmt.Println("STEP 4: An IOC buy that partially fills and discards the rest")
	fmt.Println("-------------------------------------------------------------")
	submit(book, 12, 10.5, 10.0, core.KindIOC, core.Buy)
	printBook(book)

	fmt.Println("STEP 5: A FOK buy rejected for insufficient liquidity")
	fmt.Println("-----------------------------------------------------")
	submit(book, 13, 11.0, 100.0, core.KindFOK, core.Buy)
	printBook(book)

	fmt.Println("STEP 6: Explicit cancellation of a resting order")
	fmt.Println("------------------------------------------------")
	if canceled := book.CancelOrder(3, fpdecimal.FromFloat(11.0), core.Sell); canceled != nil {
		fmt.Printf("Canceled order %d with %s unfilled\n", canceled.ID(), canceled.Quantity().String())
	}
	printBook(book)
}

func submit(book *core.OrderBook, id uint64, price, qty float64, kind core.Kind, side core.Side) {
	order, err := core.NewOrder(id, "BTC/DOGE",
		fpdecimal.FromFloat(price), fpdecimal.FromFloat(qty), kind, side, 0)
	if err != nil {
		fmt.Printf("  invalid order %d: %v\n", id, err)
		return
	}
	if err := book.AddOrder(order); err != nil {
		fmt.Printf("  order %d rejected: %v\n", id, err)
	}
}

func printBook(book *core.OrderBook) {
	fmt.Println("\nCurrent order book status:")
	fmt.Printf("  asks:%s\n", book.Asks().String())
	fmt.Printf("  bids:%s\n", book.Bids().String())
	fmt.Println()
}
