// Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package queryapi implements a client-side codec and streaming adapter for
// a graph database's HTTP Query API.
//
// The protocol encodes every parameter and result field as a tagged JSON
// value of the shape {"$type": ..., "_value": ...}, and offers two response
// shapes: a single buffered JSON document, and a line-delimited stream of
// JSON event objects ({"$event": ..., "_body": ...}).
//
// # Value codec
//
// [Codec] holds the resolved [IntegerMode] and exposes [Codec.DecodeValue]
// and [Codec.EncodeValue], the two halves of the tagged-value mapping
// described in the package's data model. Temporal, duration, and point
// textual forms are parsed and formatted by the scalar parsers in
// parse_temporal.go, parse_duration.go, and parse_point.go.
//
// # Streaming pipeline
//
// A streaming response body is turned into a sequence of [Event] values by
// composing a [LineFramer] (byte chunks -> whole lines) with the per-line
// event parser in events.go. [StreamingReader] consumes that sequence and
// enforces event ordering: one Header, then zero or more Record, then one
// Summary (or a terminating Error).
//
// # Response readers
//
// [BufferedReader] wraps a fully materialized success document.
// [StreamingReader] wraps the event pipeline above. Both expose Keys,
// Stream, and Meta with the same contract; [Codec.Dispatch] chooses between them
// based on the response Content-Type.
//
// # HTTP client
//
// [Client] is a thin, optional convenience wrapper: it builds a request via
// [Codec.EncodeRequest], executes it with an *http.Client, and hands the
// response to [Codec.Dispatch]. Session orchestration (transactions, retries,
// routing, bookmark bookkeeping) is expected to live above this package; it
// only needs an [AuthEncoder] and a [TxEnvelope] to drive
// [Codec.EncodeRequest].
//
// # Reference
//
// This package targets the HTTP Query API surface documented at
// https://neo4j.com/docs/query-api/current/.
package queryapi
