package client

import (
	"http-engine/application/http"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const DefaultMaxRedirects = 10

type Options struct {
	// MaxRedirects bounds how many redirects one send follows.
	// Zero means DefaultMaxRedirects.
	MaxRedirects uint

	// MaxResponseSize stops receiving once that many bytes arrived.
	// Zero means no limit.
	MaxResponseSize uint

	Encode http.EncodeOptions
	Decode http.DecodeOptions

	// Global providers are used when nil.
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

var DefaultOptions = Options{
	MaxRedirects:    DefaultMaxRedirects,
	MaxResponseSize: 0,
	Encode:          http.DefaultEncodeOptions,
	Decode:          http.DefaultDecodeOptions,
}

func (o Options) maxRedirects() uint {
	if o.MaxRedirects == 0 {
		return DefaultMaxRedirects
	}
	return o.MaxRedirects
}
