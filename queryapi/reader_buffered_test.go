// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

const bufferedSuccessDoc = `{
	"data": {
		"fields": ["a", "b"],
		"values": [
			[{"$type":"Integer","_value":"1"}, {"$type":"String","_value":"x"}],
			[{"$type":"Integer","_value":"2"}, {"$type":"String","_value":"y"}]
		]
	},
	"counters": {"nodesCreated": 2, "containsUpdates": true},
	"bookmarks": ["bm1"]
}`

func collectRows(t *testing.T, r Response) [][]any {
	t.Helper()
	var rows [][]any
	for rr := range r.Stream(context.Background()) {
		if rr.Err != nil {
			t.Fatalf("row error: %v", rr.Err)
		}
		rows = append(rows, rr.Row.Values)
	}
	return rows
}

func TestBufferedReader(t *testing.T) {
	c := NewCodec()

	r, err := c.NewBufferedReader([]byte(bufferedSuccessDoc))
	if err != nil {
		t.Fatalf("NewBufferedReader returned error: %v", err)
	}

	keys, err := r.Keys()
	if err != nil {
		t.Fatalf("Keys returned error: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Errorf("Keys = %#v", keys)
	}

	rows := collectRows(t, r)
	expected := [][]any{{Int64(1), "x"}, {Int64(2), "y"}}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("rows = %#v, expected %#v", rows, expected)
	}

	summary, err := r.Meta(context.Background())
	if err != nil {
		t.Fatalf("Meta returned error: %v", err)
	}
	if !reflect.DeepEqual(summary.Bookmark, Bookmarks{"bm1"}) {
		t.Errorf("Bookmark = %#v", summary.Bookmark)
	}
	if summary.Stats.NodesCreated != Int64(2) || !summary.Stats.ContainsUpdates {
		t.Errorf("Stats = %#v", summary.Stats)
	}

	// Keys and Meta stay stable on repeat calls.
	again, _ := r.Keys()
	if !reflect.DeepEqual(again, keys) {
		t.Error("Keys not idempotent")
	}
	summary2, _ := r.Meta(context.Background())
	if !reflect.DeepEqual(summary2.Bookmark, summary.Bookmark) {
		t.Error("Meta not idempotent")
	}
}

func TestBufferedReaderWithPlans(t *testing.T) {
	c := NewCodec()

	doc := `{
		"data": {"fields": [], "values": []},
		"counters": {},
		"bookmarks": [],
		"profiledQueryPlan": {
			"dbHits": 10,
			"records": 3,
			"operatorType": "ProduceResults",
			"arguments": {"planner": {"$type":"String","_value":"COST"}},
			"identifiers": ["a"],
			"children": []
		}
	}`
	r, err := c.NewBufferedReader([]byte(doc))
	if err != nil {
		t.Fatalf("NewBufferedReader returned error: %v", err)
	}
	summary, err := r.Meta(context.Background())
	if err != nil {
		t.Fatalf("Meta returned error: %v", err)
	}
	if summary.Profile == nil {
		t.Fatal("Profile expected")
	}
	if summary.Profile.Rows != Int64(3) || summary.Profile.Args["planner"] != "COST" {
		t.Errorf("Profile = %#v", summary.Profile)
	}
	if summary.Plan != nil {
		t.Error("Plan expected nil")
	}
}

func TestBufferedReaderErrorDocument(t *testing.T) {
	c := NewCodec()

	t.Run("code and message preserved", func(t *testing.T) {
		_, err := c.NewBufferedReader([]byte(`{"errors":[{"code":"Neo.ClientError.Statement.SyntaxError","message":"bad"}]}`))
		var qerr *Error
		if !errors.As(err, &qerr) {
			t.Fatalf("error = %v (%T)", err, err)
		}
		if qerr.Code != "Neo.ClientError.Statement.SyntaxError" || qerr.Message != "bad" {
			t.Errorf("error = %+v", qerr)
		}
	})

	t.Run("legacy error field fallback", func(t *testing.T) {
		_, err := c.NewBufferedReader([]byte(`{"errors":[{"error":"Neo.Fallback","message":"bad"}]}`))
		var qerr *Error
		if !errors.As(err, &qerr) {
			t.Fatalf("error = %v (%T)", err, err)
		}
		if qerr.Code != "Neo.Fallback" {
			t.Errorf("Code = %q", qerr.Code)
		}
	})

	t.Run("empty error list", func(t *testing.T) {
		_, err := c.NewBufferedReader([]byte(`{"errors":[]}`))
		if !errors.Is(err, ErrProtocol) {
			t.Errorf("error = %v, expected a protocol error", err)
		}
	})

	t.Run("neither data nor errors", func(t *testing.T) {
		_, err := c.NewBufferedReader([]byte(`{}`))
		if !errors.Is(err, ErrProtocol) {
			t.Errorf("error = %v, expected a protocol error", err)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		_, err := c.NewBufferedReader([]byte(`{`))
		if !errors.Is(err, ErrProtocol) {
			t.Errorf("error = %v, expected a protocol error", err)
		}
	})
}

func TestBufferedReaderStreamSinglePass(t *testing.T) {
	c := NewCodec()

	r, err := c.NewBufferedReader([]byte(bufferedSuccessDoc))
	if err != nil {
		t.Fatalf("NewBufferedReader returned error: %v", err)
	}

	if rows := collectRows(t, r); len(rows) != 2 {
		t.Fatalf("first pass rows = %d, expected 2", len(rows))
	}
	// A consumed reader has nothing left to yield.
	if rows := collectRows(t, r); len(rows) != 0 {
		t.Errorf("second pass rows = %d, expected 0", len(rows))
	}

	// Keys and Meta are unaffected by consumption.
	if _, err := r.Keys(); err != nil {
		t.Errorf("Keys after consumption returned error: %v", err)
	}
	if _, err := r.Meta(context.Background()); err != nil {
		t.Errorf("Meta after consumption returned error: %v", err)
	}
}

func TestBufferedReaderMalformedRowSurfacesFromStream(t *testing.T) {
	c := NewCodec()

	doc := `{
		"data": {
			"fields": ["n"],
			"values": [
				[{"$type":"Integer","_value":"1"}],
				[{"$type":"Integer","_value":"oops"}]
			]
		},
		"counters": {},
		"bookmarks": []
	}`
	r, err := c.NewBufferedReader([]byte(doc))
	if err != nil {
		t.Fatalf("NewBufferedReader returned error: %v", err)
	}

	var rows [][]any
	var rowErr error
	for rr := range r.Stream(context.Background()) {
		if rr.Err != nil {
			rowErr = rr.Err
			break
		}
		rows = append(rows, rr.Row.Values)
	}
	if len(rows) != 1 {
		t.Errorf("rows before failure = %d, expected 1", len(rows))
	}
	if !errors.Is(rowErr, ErrProtocol) {
		t.Errorf("row error = %v, expected a protocol error", rowErr)
	}
}

func TestBufferedReaderStreamCancellation(t *testing.T) {
	c := NewCodec()

	r, err := c.NewBufferedReader([]byte(bufferedSuccessDoc))
	if err != nil {
		t.Fatalf("NewBufferedReader returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ch := r.Stream(ctx)
	<-ch
	cancel()
	// The channel must close once the context is gone; draining must not
	// hang.
	for range ch {
	}
}
