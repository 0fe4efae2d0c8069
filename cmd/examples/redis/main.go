package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nikolaydubina/fpdecimal"
	"github.com/redis/go-redis/v9"

	"github.com/tradekit/matchtrade/pkg/core"
	"github.com/tradekit/matchtrade/pkg/messaging"
	"github.com/tradekit/matchtrade/pkg/messaging/redisfeed"
)

const (
	redisAddr    = "localhost:6379"
	redisChannel = "match-feed"
)

func main() {
	ctx := context.Background()

	// Subscribe to the feed channel before trading so the published
	// events can be shown afterwards
	client := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer client.Close()

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to Redis: %v", err))
	}
	fmt.Printf("Redis connection established: %s\n", pong)

	sub := client.Subscribe(ctx, redisChannel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		panic(err)
	}

	// Wire a book to the Redis feed
	sender, err := redisfeed.NewRedisEventSender(redisAddr, redisChannel)
	if err != nil {
		panic(err)
	}
	defer sender.Close()

	book := core.NewOrderBook("BTC/DOGE", messaging.NewSink("BTC/DOGE", sender))

	sellOrder, err := core.NewOrder(1, "BTC/DOGE",
		fpdecimal.FromFloat(10.0), fpdecimal.FromFloat(10.0),
		core.KindLimit, core.Sell, time.Now().UnixMilli())
	if err != nil {
		panic(err)
	}
	if err := book.AddOrder(sellOrder); err != nil {
		panic(err)
	}
	fmt.Printf("Created sell order: %d\n", sellOrder.ID())

	buyOrder, err := core.NewOrder(2, "BTC/DOGE",
		fpdecimal.FromFloat(10.0), fpdecimal.FromFloat(5.0),
		core.KindLimit, core.Buy, time.Now().UnixMilli())
	if err != nil {
		panic(err)
	}
	if err := book.AddOrder(buyOrder); err != nil {
		panic(err)
	}

	// The trade above was published to the channel
	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	msg, err := sub.ReceiveMessage(recvCtx)
	if err != nil {
		panic(err)
	}

	var event messaging.TradeEvent
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		panic(err)
	}

	fmt.Println("\nEvent received on the feed channel:")
	fmt.Printf("- Type=%s Symbol=%s Maker=%d Taker=%d Qty=%s Price=%s\n",
		event.Type, event.Symbol, event.MakerID, event.TakerID, event.Quantity, event.Price)

	fmt.Println("\nSummary of orders:")
	fmt.Printf("- Sell Order: ID=%d, Remaining=%s\n", sellOrder.ID(), sellOrder.Quantity().String())
	fmt.Printf("- Buy Order: ID=%d, Remaining=%s\n", buyOrder.ID(), buyOrder.Quantity().String())
}
