// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	json "github.com/goccy/go-json"
)

// EventKind discriminates one decoded line of a streaming response.
type EventKind int

const (
	EventHeader EventKind = iota
	EventRecord
	EventSummary
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventHeader:
		return "header"
	case EventRecord:
		return "record"
	case EventSummary:
		return "summary"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

const (
	wireEventHeader  = "Header"
	wireEventRecord  = "Record"
	wireEventSummary = "Summary"
	wireEventError   = "Error"
)

// Event is one decoded line of a streaming (jsonl) response. Exactly one of
// Fields, Record, Summary, Err is meaningful, selected by Kind.
type Event struct {
	Kind    EventKind
	Fields  []string // set when Kind == EventHeader
	Record  []any    // set when Kind == EventRecord, one decoded value per field
	Summary Summary  // set when Kind == EventSummary
	Err     error    // set when Kind == EventError
}

// parseEvent decodes one streaming response line: the shared
// {"$event": ..., "_body": ...} envelope, dispatched by event name.
func (c *Codec) parseEvent(line []byte) (Event, error) {
	var env wireEventEnvelope
	if err := json.Unmarshal(line, &env); err != nil {
		return Event{}, protocolError("malformed event line: %v", err)
	}
	if len(env.Body) == 0 || string(env.Body) == "null" {
		return Event{}, protocolError("event %q has no body", env.Event)
	}

	switch env.Event {
	case wireEventHeader:
		var body wireHeaderBody
		if err := json.Unmarshal(env.Body, &body); err != nil {
			return Event{}, protocolError("malformed header event: %v", err)
		}
		return Event{Kind: EventHeader, Fields: body.Fields}, nil

	case wireEventRecord:
		var raw []taggedValue
		if err := json.Unmarshal(env.Body, &raw); err != nil {
			return Event{}, protocolError("malformed record event: %v", err)
		}
		row := make([]any, len(raw))
		for i, v := range raw {
			dv, err := c.DecodeValue(v)
			if err != nil {
				return Event{}, err
			}
			row[i] = dv
		}
		return Event{Kind: EventRecord, Record: row}, nil

	case wireEventSummary:
		var body wireSummaryBody
		if err := json.Unmarshal(env.Body, &body); err != nil {
			return Event{}, protocolError("malformed summary event: %v", err)
		}
		summary, err := c.decodeSummary(body.Bookmarks, body.Counters, body.ProfiledQueryPlan, body.QueryPlan, body.Notifications)
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: EventSummary, Summary: summary}, nil

	case wireEventError:
		var body wireErrorBody
		if err := json.Unmarshal(env.Body, &body); err != nil {
			return Event{}, protocolError("malformed error event: %v", err)
		}
		return Event{Kind: EventError, Err: errorFromFailures(body.Failures)}, nil

	default:
		return Event{}, protocolError("unknown event type %q", env.Event)
	}
}
