package main

import (
	"fmt"

	"github.com/nikolaydubina/fpdecimal"

	"github.com/tradekit/matchtrade/pkg/core"
)

// printSink logs every execution event to stdout
type printSink struct{}

func (printSink) TradeSuccess(makerID, takerID uint64, quantity, price fpdecimal.Decimal) {
	fmt.Printf("Trade executed: maker=%d taker=%d qty=%s price=%s\n",
		makerID, takerID, quantity.String(), price.String())
}

func (printSink) CancelOrder(orderID uint64, quantity fpdecimal.Decimal) {
	fmt.Printf("Order canceled: id=%d unfilled=%s\n", orderID, quantity.String())
}

func main() {
	book := core.NewOrderBook("BTC/DOGE", printSink{})

	// Rest a sell limit order
	sellOrder, err := core.NewOrder(1, "BTC/DOGE",
		fpdecimal.FromFloat(10.0), fpdecimal.FromFloat(10.0),
		core.KindLimit, core.Sell, 0)
	if err != nil {
		panic(err)
	}
	if err := book.AddOrder(sellOrder); err != nil {
		panic(err)
	}
	fmt.Printf("Created sell order: %d\n", sellOrder.ID())

	// Cross it with a smaller buy limit order
	buyOrder, err := core.NewOrder(2, "BTC/DOGE",
		fpdecimal.FromFloat(10.0), fpdecimal.FromFloat(5.0),
		core.KindLimit, core.Buy, 0)
	if err != nil {
		panic(err)
	}
	if err := book.AddOrder(buyOrder); err != nil {
		panic(err)
	}

	fmt.Println("\nSummary of orders:")
	fmt.Printf("- Sell Order: ID=%d, Price=%s, Remaining=%s\n",
		sellOrder.ID(), sellOrder.Price().String(), sellOrder.Quantity().String())
	fmt.Printf("- Buy Order: ID=%d, Price=%s, Remaining=%s\n",
		buyOrder.ID(), buyOrder.Price().String(), buyOrder.Quantity().String())
}
