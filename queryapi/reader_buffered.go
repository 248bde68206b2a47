// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	"context"

	json "github.com/goccy/go-json"
)

// wireBufferedEnvelope covers both a buffered success and failure document:
// the server distinguishes them by which of data/errors is present, not by
// a discriminator field.
type wireBufferedEnvelope struct {
	Data *struct {
		Fields []string        `json:"fields"`
		Values [][]taggedValue `json:"values"`
	} `json:"data"`
	Counters          wireCounters       `json:"counters"`
	Bookmarks         []string           `json:"bookmarks"`
	ProfiledQueryPlan *wirePlan          `json:"profiledQueryPlan"`
	QueryPlan         *wirePlan          `json:"queryPlan"`
	Notifications     []wireNotification `json:"notifications"`
	Errors            []wireError        `json:"errors"`
}

// BufferedReader wraps a single, fully materialized response document. The
// field names and summary are decoded up front in [NewBufferedReader]; rows
// stay in wire form and are decoded one at a time as Stream consumes them.
type BufferedReader struct {
	codec   *Codec
	fields  []string
	rows    [][]taggedValue
	next    int
	summary Summary
}

// NewBufferedReader decodes a complete buffered response body. A response
// reporting failure (an "errors" array, no "data") is returned as an error,
// not a zero-value reader. Row values are not decoded here: a malformed row
// surfaces as a per-row error from Stream, not a construction failure.
func (c *Codec) NewBufferedReader(body []byte) (*BufferedReader, error) {
	var env wireBufferedEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, protocolError("malformed buffered response: %v", err)
	}
	if len(env.Errors) > 0 {
		return nil, errorFromFailures(env.Errors)
	}
	if env.Data == nil {
		return nil, protocolError("buffered response has neither data nor errors")
	}

	summary, err := c.decodeSummary(env.Bookmarks, env.Counters, env.ProfiledQueryPlan, env.QueryPlan, env.Notifications)
	if err != nil {
		return nil, err
	}

	return &BufferedReader{codec: c, fields: env.Data.Fields, rows: env.Data.Values, summary: summary}, nil
}

func (r *BufferedReader) Keys() ([]string, error) {
	return r.fields, nil
}

// Stream decodes and yields the remaining rows. Consumption is destructive:
// each row is yielded at most once, so a second call yields only whatever
// the first left unconsumed.
func (r *BufferedReader) Stream(ctx context.Context) <-chan RowResult {
	ch := make(chan RowResult)
	go func() {
		defer close(ch)
		for r.next < len(r.rows) {
			raw := r.rows[r.next]
			r.next++
			row := make([]any, len(raw))
			for i, v := range raw {
				dv, err := r.codec.DecodeValue(v)
				if err != nil {
					sendRowResult(ctx, ch, RowResult{Err: err})
					return
				}
				row[i] = dv
			}
			if !sendRowResult(ctx, ch, RowResult{Row: Row{Values: row}}) {
				return
			}
		}
	}()
	return ch
}

func (r *BufferedReader) Meta(ctx context.Context) (Summary, error) {
	return r.summary, nil
}
