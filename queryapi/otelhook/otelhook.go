// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package otelhook provides OpenTelemetry instrumentation for queryapi
// clients. It implements the [queryapi.DispatchHook] interface to add
// distributed tracing and metrics to query dispatch.
//
// Usage:
//
//	client := queryapi.NewClient(codec, queryapi.WithDispatchHook(otelhook.New(otelhook.DefaultConfig())))
package otelhook

import (
	"context"
	"fmt"
	"time"

	"github.com/neograph/queryapi-go/queryapi"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "neograph/queryapi"

// Config configures OpenTelemetry instrumentation for a [queryapi.Client].
type Config struct {
	// TracerProvider supplies the tracer. Defaults to otel.GetTracerProvider().
	TracerProvider trace.TracerProvider
	// MeterProvider supplies the meter. Defaults to otel.GetMeterProvider().
	MeterProvider metric.MeterProvider
	// EnableTracing enables span creation. Default true.
	EnableTracing bool
	// EnableMetrics enables counter and histogram recording. Default true.
	EnableMetrics bool
	// RecordExceptions calls RecordError on the span for failed dispatches.
	// Default true.
	RecordExceptions bool
	// CustomAttributes are added to every span.
	CustomAttributes []attribute.KeyValue
}

// DefaultConfig returns a Config with sensible defaults. TracerProvider and
// MeterProvider are resolved from the global OTel SDK at hook-creation
// time.
func DefaultConfig() Config {
	return Config{
		EnableTracing:    true,
		EnableMetrics:    true,
		RecordExceptions: true,
	}
}

// hook implements queryapi.DispatchHook with OpenTelemetry tracing and
// metrics.
type hook struct {
	cfg               Config
	tracer            trace.Tracer
	requestCounter    metric.Int64Counter
	durationHistogram metric.Float64Histogram
}

// New builds a [queryapi.DispatchHook] from cfg, resolving any unset
// provider from the global OTel SDK.
func New(cfg Config) queryapi.DispatchHook {
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = otel.GetTracerProvider()
	}
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = otel.GetMeterProvider()
	}

	h := &hook{cfg: cfg, tracer: cfg.TracerProvider.Tracer(instrumentationName)}

	if cfg.EnableMetrics {
		meter := cfg.MeterProvider.Meter(instrumentationName)
		h.requestCounter, _ = meter.Int64Counter("queryapi.client.requests",
			metric.WithUnit("{request}"),
			metric.WithDescription("Number of Query API requests dispatched"),
		)
		h.durationHistogram, _ = meter.Float64Histogram("queryapi.client.duration",
			metric.WithUnit("s"),
			metric.WithDescription("Duration of Query API requests"),
		)
	}

	return h
}

// spanToken is the HookToken returned by OnDispatchStart.
type spanToken struct {
	span      trace.Span
	startTime time.Time
}

func (h *hook) OnDispatchStart(ctx context.Context, info queryapi.DispatchInfo) (context.Context, queryapi.HookToken) {
	if !h.cfg.EnableTracing {
		return ctx, &spanToken{startTime: time.Now()}
	}

	attrs := []attribute.KeyValue{
		attribute.String("rpc.system", "neo4j_query_api"),
		attribute.String("url.full", info.URL),
		attribute.String("queryapi.request_id", info.RequestID),
	}
	attrs = append(attrs, h.cfg.CustomAttributes...)

	ctx, span := h.tracer.Start(ctx, "queryapi/query",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	return ctx, &spanToken{span: span, startTime: time.Now()}
}

func (h *hook) OnDispatchEnd(ctx context.Context, token queryapi.HookToken, info queryapi.DispatchInfo, stats *queryapi.TransferStats, err error) {
	st, ok := token.(*spanToken)
	if !ok {
		return
	}
	duration := time.Since(st.startTime)

	status := "ok"
	if err != nil {
		status = "error"
	}

	if h.cfg.EnableMetrics {
		metricAttrs := metric.WithAttributes(
			attribute.String("rpc.system", "neo4j_query_api"),
			attribute.String("response_shape", info.ResponseShape),
			attribute.String("status", status),
		)
		if h.requestCounter != nil {
			h.requestCounter.Add(ctx, 1, metricAttrs)
		}
		if h.durationHistogram != nil {
			h.durationHistogram.Record(ctx, duration.Seconds(), metricAttrs)
		}
	}

	if st.span == nil || !st.span.IsRecording() {
		return
	}

	if stats != nil {
		st.span.SetAttributes(
			attribute.Int64("queryapi.records_decoded", stats.RecordsDecoded),
			attribute.Int64("queryapi.bytes_read", stats.BytesRead),
			attribute.String("queryapi.response_shape", info.ResponseShape),
		)
	}

	if err != nil {
		st.span.SetStatus(codes.Error, err.Error())
		if h.cfg.RecordExceptions {
			st.span.RecordError(err)
		}
		errType := fmt.Sprintf("%T", err)
		if qerr, ok := err.(*queryapi.Error); ok {
			errType = string(qerr.Code)
		}
		st.span.SetAttributes(attribute.String("queryapi.error_type", errType))
	} else {
		st.span.SetStatus(codes.Ok, "")
	}

	st.span.End()
}
