// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import "context"

// Response shape constants for DispatchInfo.ResponseShape.
const (
	DispatchShapeBuffered  = "buffered"
	DispatchShapeStreaming = "streaming"
)

// DispatchHook provides observability callpoints around request dispatch.
// Implementations must be safe for concurrent use.
type DispatchHook interface {
	OnDispatchStart(ctx context.Context, info DispatchInfo) (context.Context, HookToken)
	OnDispatchEnd(ctx context.Context, token HookToken, info DispatchInfo, stats *TransferStats, err error)
}

// HookToken is an opaque value returned by OnDispatchStart and passed back to
// OnDispatchEnd. Only meaningful to the DispatchHook that created it.
type HookToken any

// DispatchInfo carries per-request metadata passed to hooks.
type DispatchInfo struct {
	RequestID     string // correlation id stamped by Client, see uuid in client.go
	URL           string
	ResponseShape string // DispatchShapeBuffered or DispatchShapeStreaming, set once known
}

// TransferStats holds per-response counters handed to a DispatchHook's
// OnDispatchEnd. [Client] fills in RecordsDecoded as rows are streamed; it
// does not call RecordBytes or RecordEvent, so BytesRead and the event
// counters stay zero for responses it dispatches.
type TransferStats struct {
	RecordsDecoded int64
	BytesRead      int64
	HeaderEvents   int64
	SummaryEvents  int64
	ErrorEvents    int64
}

// RecordRow records one decoded row.
func (s *TransferStats) RecordRow() {
	s.RecordsDecoded++
}

// RecordBytes adds n to the running byte count read from the response body.
func (s *TransferStats) RecordBytes(n int64) {
	s.BytesRead += n
}

// RecordEvent increments the counter for the given event kind.
func (s *TransferStats) RecordEvent(kind EventKind) {
	switch kind {
	case EventHeader:
		s.HeaderEvents++
	case EventSummary:
		s.SummaryEvents++
	case EventError:
		s.ErrorEvents++
	}
}
