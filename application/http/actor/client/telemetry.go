package client

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "http-engine/application/http/actor/client"

type telemetry struct {
	tracer trace.Tracer

	requests     metric.Int64Counter
	redirects    metric.Int64Counter
	failures     metric.Int64Counter
	responseSize metric.Int64Histogram
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) *telemetry {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}

	meter := mp.Meter(instrumentationName)
	t := &telemetry{tracer: tp.Tracer(instrumentationName)}

	var err error
	// Instruments are still usable (as no-ops) when creation fails.
	if t.requests, err = meter.Int64Counter("http.client.requests",
		metric.WithDescription("Requests written to a connection, one per hop."),
		metric.WithUnit("{request}"),
	); err != nil {
		otel.Handle(err)
	}
	if t.redirects, err = meter.Int64Counter("http.client.redirects",
		metric.WithDescription("Redirects followed."),
		metric.WithUnit("{redirect}"),
	); err != nil {
		otel.Handle(err)
	}
	if t.failures, err = meter.Int64Counter("http.client.transport_failures",
		metric.WithDescription("Hops that failed in the transport."),
		metric.WithUnit("{failure}"),
	); err != nil {
		otel.Handle(err)
	}
	if t.responseSize, err = meter.Int64Histogram("http.client.response.size",
		metric.WithDescription("Bytes received per hop."),
		metric.WithUnit("By"),
	); err != nil {
		otel.Handle(err)
	}

	return t
}

func (t *telemetry) hopDone(ctx context.Context, method string, code uint, size int) {
	attrs := metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.Int("http.response.status_code", int(code)),
	)
	t.requests.Add(ctx, 1, attrs)
	t.responseSize.Record(ctx, int64(size), attrs)
}

func (t *telemetry) transportFailed(ctx context.Context, op string) {
	t.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}
