package otel

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	orderMetrics     *OrderMetrics
	orderMetricsOnce sync.Once
)

// OrderMetrics holds counters for engine operations
type OrderMetrics struct {
	processedOrdersTotal metric.Int64Counter
	tradesTotal          metric.Int64Counter
}

// GetOrderMetrics returns the OrderMetrics singleton
func GetOrderMetrics() *OrderMetrics {
	orderMetricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter(instrumentationName)

		processed, err := meter.Int64Counter(
			"engine.processed_orders.total",
			metric.WithDescription("Total number of orders processed"),
			metric.WithUnit("{order}"),
		)
		if err != nil {
			orderMetrics = &OrderMetrics{}
			return
		}

		trades, err := meter.Int64Counter(
			"engine.trades.total",
			metric.WithDescription("Total number of trades executed"),
			metric.WithUnit("{trade}"),
		)
		if err != nil {
			orderMetrics = &OrderMetrics{processedOrdersTotal: processed}
			return
		}

		orderMetrics = &OrderMetrics{
			processedOrdersTotal: processed,
			tradesTotal:          trades,
		}
	})
	return orderMetrics
}

// RecordProcessed increments the processed orders counter
func (m *OrderMetrics) RecordProcessed(ctx context.Context, kind string) {
	if m.processedOrdersTotal == nil {
		return
	}
	m.processedOrdersTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("order.kind", kind),
	))
}

// RecordTrade increments the executed trades counter
func (m *OrderMetrics) RecordTrade(ctx context.Context, symbol string) {
	if m.tradesTotal == nil {
		return
	}
	m.tradesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("order.symbol", symbol),
	))
}
