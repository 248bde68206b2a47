// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package otelhook

import (
	"context"
	"errors"
	"testing"

	"github.com/neograph/queryapi-go/queryapi"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestHook(t *testing.T) (queryapi.DispatchHook, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	cfg := DefaultConfig()
	cfg.TracerProvider = tp
	cfg.MeterProvider = mp
	return New(cfg), recorder, reader
}

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestHookRecordsSpanAndMetrics(t *testing.T) {
	h, recorder, reader := newTestHook(t)

	info := queryapi.DispatchInfo{RequestID: "req-1", URL: "http://db.example/query"}
	ctx, token := h.OnDispatchStart(context.Background(), info)

	stats := &queryapi.TransferStats{}
	stats.RecordRow()
	stats.RecordRow()
	info.ResponseShape = queryapi.DispatchShapeStreaming
	h.OnDispatchEnd(ctx, token, info, stats, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d", len(spans))
	}
	span := spans[0]
	if span.Name() != "queryapi/query" {
		t.Errorf("span name = %q", span.Name())
	}
	if span.Status().Code != codes.Ok {
		t.Errorf("span status = %v", span.Status())
	}
	if v, ok := spanAttr(span, "queryapi.request_id"); !ok || v.AsString() != "req-1" {
		t.Errorf("request_id attribute = %v (present=%v)", v, ok)
	}
	if v, ok := spanAttr(span, "queryapi.records_decoded"); !ok || v.AsInt64() != 2 {
		t.Errorf("records_decoded attribute = %v (present=%v)", v, ok)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(rm.ScopeMetrics) != 1 {
		t.Fatalf("scope metrics = %d", len(rm.ScopeMetrics))
	}
	names := map[string]bool{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		names[m.Name] = true
	}
	if !names["queryapi.client.requests"] || !names["queryapi.client.duration"] {
		t.Errorf("metric names = %v", names)
	}
}

func TestHookRecordsError(t *testing.T) {
	h, recorder, _ := newTestHook(t)

	info := queryapi.DispatchInfo{RequestID: "req-2", URL: "http://db.example/query"}
	ctx, token := h.OnDispatchStart(context.Background(), info)

	qerr := &queryapi.Error{Code: queryapi.CodeProtocol, Message: "bad stream"}
	h.OnDispatchEnd(ctx, token, info, &queryapi.TransferStats{}, qerr)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("ended spans = %d", len(spans))
	}
	span := spans[0]
	if span.Status().Code != codes.Error {
		t.Errorf("span status = %v", span.Status())
	}
	if v, ok := spanAttr(span, "queryapi.error_type"); !ok || v.AsString() != string(queryapi.CodeProtocol) {
		t.Errorf("error_type attribute = %v (present=%v)", v, ok)
	}
	if len(span.Events()) == 0 {
		t.Error("expected a recorded exception event")
	}
}

func TestHookDisabled(t *testing.T) {
	h := New(Config{})

	ctx, token := h.OnDispatchStart(context.Background(), queryapi.DispatchInfo{})
	// Must not panic with tracing and metrics both off.
	h.OnDispatchEnd(ctx, token, queryapi.DispatchInfo{}, nil, errors.New("boom"))
}
