package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tradekit/matchtrade/pkg/server"
)

var (
	serverAddr = flag.String("addr", "http://localhost:8080", "The server base URL")
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	// Remove the command from os.Args to make flag parsing work
	os.Args = append(os.Args[:1], os.Args[2:]...)

	client := &apiClient{
		http: &http.Client{Timeout: 10 * time.Second},
	}

	switch command {
	case "create-book":
		createBook(client)
	case "list-books":
		listBooks(client)
	case "depth":
		showDepth(client)
	case "create-order":
		createOrder(client)
	case "cancel-order":
		cancelOrder(client)
	case "get-state":
		flag.Parse()
		if flag.NArg() < 1 {
			fmt.Println("Usage: get-state <symbol>")
			os.Exit(1)
		}
		if err := showBookState(client, flag.Arg(0)); err != nil {
			log.Fatal().Err(err).Msg("GetBookState failed")
		}
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

type apiClient struct {
	http *http.Client
}

func (c *apiClient) do(method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, *serverAddr+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp server.ErrorResponse
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s (HTTP %d)", errResp.Error, resp.StatusCode)
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, data)
	}

	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

func createBook(c *apiClient) {
	symbol := flag.String("symbol", "", "Symbol to trade")
	sink := flag.String("sink", "feed", "Notification sink (none, feed, kafka, redis)")
	flag.Parse()

	if *symbol == "" && flag.NArg() >= 1 {
		*symbol = flag.Arg(0)
	}
	if *symbol == "" {
		fmt.Println("Usage: create-book <symbol> [--sink=none|feed|kafka|redis]")
		os.Exit(1)
	}

	req := server.CreateBookRequest{Symbol: *symbol, Sink: *sink}
	if err := c.do("POST", "/api/v1/books", req, nil); err != nil {
		log.Fatal().Err(err).Msg("CreateBook failed")
	}

	log.Info().Str("symbol", *symbol).Str("sink", *sink).Msg("Created order book")
}

func listBooks(c *apiClient) {
	var resp map[string][]string
	if err := c.do("GET", "/api/v1/books", nil, &resp); err != nil {
		log.Fatal().Err(err).Msg("ListBooks failed")
	}

	symbols := resp["symbols"]
	log.Info().Int("total", len(symbols)).Msg("Listed order books")
	for i, symbol := range symbols {
		log.Info().Int("index", i+1).Str("symbol", symbol).Msg("Order book")
	}
}

func showDepth(c *apiClient) {
	var resp server.DepthResponse
	if err := c.do("GET", "/api/v1/depth", nil, &resp); err != nil {
		log.Fatal().Err(err).Msg("Depth failed")
	}

	log.Info().Int("buy", resp.Buy).Int("sell", resp.Sell).Msg("Resting order counts")
}

func createOrder(c *apiClient) {
	symbol := flag.String("symbol", "", "Symbol to trade")
	orderID := flag.Uint64("id", 0, "Order ID")
	side := flag.String("side", "", "Order side (BUY/SELL)")
	kind := flag.String("kind", "LIMIT", "Order kind (LIMIT/MARKET/IOC/FOK)")
	quantity := flag.String("qty", "", "Order quantity")
	price := flag.String("price", "", "Order price")
	flag.Parse()

	// Positional form: create-order <symbol> <side> <kind> <qty> <price> <id>
	if *symbol == "" && flag.NArg() >= 6 {
		*symbol = flag.Arg(0)
		*side = flag.Arg(1)
		*kind = flag.Arg(2)
		*quantity = flag.Arg(3)
		*price = flag.Arg(4)
		id, err := strconv.ParseUint(flag.Arg(5), 10, 64)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid order ID")
		}
		*orderID = id
	}

	if *symbol == "" || *orderID == 0 || *side == "" || *quantity == "" {
		fmt.Println("Usage: create-order <symbol> <side> <kind> <quantity> <price> <id>")
		fmt.Println("   or: create-order --symbol=<symbol> --id=<id> --side=<side> --kind=<kind> --qty=<quantity> --price=<price>")
		os.Exit(1)
	}

	req := server.SubmitOrderRequest{
		OrderID:  *orderID,
		Symbol:   *symbol,
		Price:    *price,
		Quantity: *quantity,
		Side:     *side,
		Kind:     *kind,
	}

	var resp map[string]interface{}
	if err := c.do("POST", "/api/v1/orders", req, &resp); err != nil {
		log.Fatal().Err(err).Msg("CreateOrder failed")
	}

	log.Info().
		Uint64("id", *orderID).
		Str("symbol", *symbol).
		Str("side", *side).
		Str("kind", *kind).
		Interface("remaining", resp["quantity"]).
		Msg("Order accepted")
}

func cancelOrder(c *apiClient) {
	symbol := flag.String("symbol", "", "Symbol")
	orderID := flag.Uint64("id", 0, "Order ID")
	price := flag.String("price", "", "Resting price of the order")
	side := flag.String("side", "", "Order side (BUY/SELL)")
	flag.Parse()

	if *symbol == "" && flag.NArg() >= 4 {
		*symbol = flag.Arg(0)
		id, err := strconv.ParseUint(flag.Arg(1), 10, 64)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid order ID")
		}
		*orderID = id
		*price = flag.Arg(2)
		*side = flag.Arg(3)
	}

	if *symbol == "" || *orderID == 0 || *price == "" || *side == "" {
		fmt.Println("Usage: cancel-order <symbol> <id> <price> <side>")
		os.Exit(1)
	}

	req := server.CancelOrderRequest{
		OrderID: *orderID,
		Symbol:  *symbol,
		Price:   *price,
		Side:    *side,
	}
	if err := c.do("POST", "/api/v1/orders/cancel", req, nil); err != nil {
		log.Fatal().Err(err).Msg("CancelOrder failed")
	}

	log.Info().Uint64("order_id", *orderID).Msg("Order canceled")
}

func showBookState(c *apiClient, symbol string) error {
	color.NoColor = false
	cyan := color.New(color.FgCyan).SprintfFunc()
	red := color.New(color.FgRed).SprintfFunc()
	green := color.New(color.FgGreen).SprintfFunc()

	var resp server.BookDepthResponse
	if err := c.do("GET", "/api/v1/books/"+symbol, nil, &resp); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)

	fmt.Fprintf(w, "%15s|%15s|%15s|%s\n",
		cyan("Price"),
		cyan("Volume"),
		cyan("Orders"),
		cyan("Side"))
	fmt.Fprintf(w, "%15s|%15s|%15s|%s\n",
		"---------------",
		"---------------",
		"---------------",
		"----")

	// asks print worst-first so the spread sits in the middle
	for i := len(resp.Asks) - 1; i >= 0; i-- {
		level := resp.Asks[i]
		fmt.Fprintf(w, "%15s|%15s|%15d|%s\n",
			level.Price,
			level.Volume,
			level.Orders,
			red("ASK"))
	}

	fmt.Fprintf(w, "%15s|%15s|%15s|%s\n",
		"---------------",
		"---------------",
		"---------------",
		"----")

	for _, level := range resp.Bids {
		fmt.Fprintf(w, "%15s|%15s|%15d|%s\n",
			level.Price,
			level.Volume,
			level.Orders,
			green("BID"))
	}

	return w.Flush()
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  create-book <symbol> [--sink=none|feed|kafka|redis]")
	fmt.Println("  list-books")
	fmt.Println("  depth")
	fmt.Println("  create-order <symbol> <side> <kind> <quantity> <price> <id>")
	fmt.Println("  cancel-order <symbol> <id> <price> <side>")
	fmt.Println("  get-state <symbol>")
	fmt.Println("\nExamples:")
	fmt.Println("  create-book BTC/DOGE --sink=feed")
	fmt.Println("  create-order BTC/DOGE SELL LIMIT 0.5 100.0 1")
	fmt.Println("  create-order BTC/DOGE BUY MARKET 1.0 0 2")
	fmt.Println("  cancel-order BTC/DOGE 1 100.0 SELL")
	fmt.Println("  get-state BTC/DOGE")
}
