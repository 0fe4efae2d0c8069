package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// Span names
	SpanSubmitOrder  = "submit_order"
	SpanProcessOrder = "process_order"
	SpanCancelOrder  = "cancel_order"
	SpanPublishEvent = "publish_event"

	// Attribute keys
	AttributeOrderID       = "order.id"
	AttributeOrderSymbol   = "order.symbol"
	AttributeOrderSide     = "order.side"
	AttributeOrderKind     = "order.kind"
	AttributeOrderQuantity = "order.quantity"
	AttributeOrderPrice    = "order.price"
)

// StartOrderSpan starts a new span for order processing
func StartOrderSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// AddAttributes adds attributes to a span
func AddAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	if span == nil {
		return
	}
	span.SetAttributes(attrs...)
}

// RecordError marks the span failed with the given error
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
