package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"golang.org/x/time/rate"

	"github.com/tradekit/matchtrade/pkg/server"
)

const (
	numWorkers      = 100
	ordersPerWorker = 1000
	maxRequestRate  = 2000
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	symbol := flag.String("symbol", "LOAD/TEST", "symbol to trade during the test")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Println("Received interrupt signal, cleaning up...")
		cancel()
	}()

	client := &http.Client{Timeout: 10 * time.Second}

	if err := createBook(ctx, client, *addr, *symbol); err != nil {
		log.Fatalf("Failed to create order book: %v", err)
	}
	log.Printf("Created order book: %s", *symbol)

	limiter := rate.NewLimiter(rate.Limit(maxRequestRate), maxRequestRate/10)

	// latencies in microseconds, up to 10s, 3 significant figures
	hist := hdrhistogram.New(1, 10_000_000, 3)
	var histMu sync.Mutex

	var wg sync.WaitGroup
	errChan := make(chan error, numWorkers*ordersPerWorker)

	start := time.Now()
	log.Printf("Starting %d workers, %d orders per worker...", numWorkers, ordersPerWorker)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

			for j := 0; j < ordersPerWorker; j++ {
				if err := limiter.Wait(ctx); err != nil {
					return
				}

				orderID := uint64(workerID*ordersPerWorker + j + 1)
				side := "BUY"
				if r.Float64() < 0.5 {
					side = "SELL"
				}

				reqStart := time.Now()
				err := submitOrder(ctx, client, *addr, server.SubmitOrderRequest{
					OrderID:  orderID,
					Symbol:   *symbol,
					Price:    "100.00",
					Quantity: "10.00",
					Side:     side,
					Kind:     "LIMIT",
				})
				elapsed := time.Since(reqStart)

				histMu.Lock()
				_ = hist.RecordValue(elapsed.Microseconds())
				histMu.Unlock()

				if err != nil {
					errChan <- fmt.Errorf("failed to create order %d: %w", orderID, err)
				}
			}
		}(i)
	}

	wg.Wait()
	duration := time.Since(start)
	close(errChan)

	var errors []error
	for err := range errChan {
		errors = append(errors, err)
	}

	total := int64(numWorkers * ordersPerWorker)
	log.Printf("Load test completed in %v", duration)
	log.Printf("Total orders attempted: %d", total)
	log.Printf("Throughput: %.0f orders/sec", float64(total)/duration.Seconds())
	log.Printf("Errors encountered: %d", len(errors))
	log.Printf("Latency (us): p50=%d p95=%d p99=%d max=%d mean=%.0f",
		hist.ValueAtQuantile(50),
		hist.ValueAtQuantile(95),
		hist.ValueAtQuantile(99),
		hist.Max(),
		hist.Mean())

	if len(errors) > 0 {
		log.Printf("First error: %v", errors[0])
		os.Exit(1)
	}
}

func createBook(ctx context.Context, client *http.Client, addr, symbol string) error {
	return postJSON(ctx, client, addr+"/api/v1/books", server.CreateBookRequest{
		Symbol: symbol,
		Sink:   "none",
	})
}

func submitOrder(ctx context.Context, client *http.Client, addr string, order server.SubmitOrderRequest) error {
	return postJSON(ctx, client, addr+"/api/v1/orders", order)
}

func postJSON(ctx context.Context, client *http.Client, url string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
	}
	// drain so the connection is reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
