// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package conformance

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/neograph/queryapi-go/queryapi"
)

// Fixture is one canonical success response, stored in pieces so the same
// values render as both response shapes.
type Fixture struct {
	// Statement is the lookup key a request selects this fixture with.
	Statement string

	fields  []string
	rows    []string // each entry is a JSON array of tagged values
	summary string   // top-level summary fields as a JSON object fragment

	// Verify checks the decoded result against the fixture's expected
	// values, using a default (lossless integer) codec.
	Verify func(keys []string, rows [][]any, summary queryapi.Summary) error
}

// BufferedDocument renders the fixture as a single buffered response body.
func (f Fixture) BufferedDocument() string {
	var b strings.Builder
	b.WriteString(`{"data":{"fields":[`)
	for i, field := range f.fields {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%q", field)
	}
	b.WriteString(`],"values":[`)
	b.WriteString(strings.Join(f.rows, ","))
	b.WriteString(`]},`)
	b.WriteString(f.summary)
	b.WriteString(`}`)
	return b.String()
}

// StreamDocument renders the fixture as a jsonl event stream: one Header,
// one Record per row, one Summary.
func (f Fixture) StreamDocument() string {
	var b strings.Builder
	b.WriteString(`{"$event":"Header","_body":{"fields":[`)
	for i, field := range f.fields {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%q", field)
	}
	b.WriteString("]}}\n")
	for _, row := range f.rows {
		fmt.Fprintf(&b, `{"$event":"Record","_body":%s}`+"\n", row)
	}
	fmt.Fprintf(&b, `{"$event":"Summary","_body":{%s}}`+"\n", f.summary)
	return b.String()
}

// ErrorFixture is one canonical failure response.
type ErrorFixture struct {
	Statement string
	// Code and Message are what a conforming decoder must surface.
	Code    string
	Message string
}

// BufferedDocument renders the failure as a buffered error document.
func (f ErrorFixture) BufferedDocument() string {
	return fmt.Sprintf(`{"errors":[{"code":%q,"message":%q}]}`, f.Code, f.Message)
}

// StreamDocument renders the failure as a stream that opens normally and
// then terminates with an Error event.
func (f ErrorFixture) StreamDocument() string {
	return `{"$event":"Header","_body":{"fields":["x"]}}` + "\n" +
		fmt.Sprintf(`{"$event":"Error","_body":{"failures":[{"code":%q,"message":%q}]}}`, f.Code, f.Message) + "\n"
}

const emptySummary = `"counters":{},"bookmarks":[]`

func expectRows(expected [][]any) func([]string, [][]any, queryapi.Summary) error {
	return func(_ []string, rows [][]any, _ queryapi.Summary) error {
		if !reflect.DeepEqual(rows, expected) {
			return fmt.Errorf("rows mismatch:\n got %#v\nwant %#v", rows, expected)
		}
		return nil
	}
}

func strptr(s string) *string { return &s }

// Fixtures returns the canonical success fixtures, one per protocol
// feature.
func Fixtures() []Fixture {
	return []Fixture{
		{
			Statement: "scalars",
			fields:    []string{"null", "bool", "int", "float", "string", "bytes"},
			rows: []string{
				`[{"$type":"Null","_value":null},` +
					`{"$type":"Boolean","_value":true},` +
					`{"$type":"Integer","_value":"42"},` +
					`{"$type":"Float","_value":"2.5"},` +
					`{"$type":"String","_value":"hello"},` +
					`{"$type":"Base64","_value":"Z3JhcGg="}]`,
			},
			summary: emptySummary,
			Verify: expectRows([][]any{{
				nil, true, queryapi.Int64(42), 2.5, "hello", []byte("graph"),
			}}),
		},
		{
			Statement: "temporals",
			fields:    []string{"date", "localtime", "time", "offsetdatetime", "zoneddatetime", "localdatetime", "duration"},
			rows: []string{
				`[{"$type":"Date","_value":"2024-01-15"},` +
					`{"$type":"LocalTime","_value":"12:50:35.556"},` +
					`{"$type":"Time","_value":"12:50:35.556+01:00"},` +
					`{"$type":"OffsetDateTime","_value":"2024-01-15T12:50:35.556+01:00"},` +
					`{"$type":"ZonedDateTime","_value":"2024-01-15T12:50:35.556+01:00[Europe/Berlin]"},` +
					`{"$type":"LocalDateTime","_value":"2024-01-15T12:50:35.556"},` +
					`{"$type":"Duration","_value":"P14DT16H12M"}]`,
			},
			summary: emptySummary,
			Verify: func(_ []string, rows [][]any, _ queryapi.Summary) error {
				date := queryapi.Date{Year: queryapi.Int64(2024), Month: queryapi.Int64(1), Day: queryapi.Int64(15)}
				lt := queryapi.LocalTime{
					Hour:       queryapi.Int64(12),
					Minute:     queryapi.Int64(50),
					Second:     queryapi.Int64(35),
					Nanosecond: queryapi.Int64(556000000),
				}
				expected := [][]any{{
					date,
					lt,
					queryapi.Time{LocalTime: lt, OffsetSeconds: queryapi.Int64(3600)},
					queryapi.DateTime{Date: date, LocalTime: lt, OffsetSeconds: queryapi.Int64(3600)},
					queryapi.DateTime{Date: date, LocalTime: lt, OffsetSeconds: queryapi.Int64(3600), ZoneID: strptr("Europe/Berlin")},
					queryapi.LocalDateTime{Date: date, LocalTime: lt},
					queryapi.Duration{
						Months:      queryapi.Int64(0),
						Days:        queryapi.Int64(14),
						Seconds:     queryapi.Int64(58320),
						Nanoseconds: queryapi.Int64(0),
					},
				}}
				if !reflect.DeepEqual(rows, expected) {
					return fmt.Errorf("rows mismatch:\n got %#v\nwant %#v", rows, expected)
				}
				return nil
			},
		},
		{
			Statement: "points",
			fields:    []string{"p2", "p3"},
			rows: []string{
				`[{"$type":"Point","_value":"SRID=7203;POINT (1.5 -2.5)"},` +
					`{"$type":"Point","_value":"SRID=4979;POINT Z (1 2 3)"}]`,
			},
			summary: emptySummary,
			Verify: expectRows([][]any{{
				queryapi.NewPoint2D(queryapi.Int64(7203), 1.5, -2.5),
				queryapi.NewPoint3D(queryapi.Int64(4979), 1, 2, 3),
			}}),
		},
		{
			Statement: "collections",
			fields:    []string{"map", "list"},
			rows: []string{
				`[{"$type":"Map","_value":{"k":{"$type":"Integer","_value":"1"},"nested":{"$type":"List","_value":[{"$type":"String","_value":"in"}]}}},` +
					`{"$type":"List","_value":[{"$type":"Integer","_value":"1"},{"$type":"Null","_value":null}]}]`,
			},
			summary: emptySummary,
			Verify: expectRows([][]any{{
				map[string]any{"k": queryapi.Int64(1), "nested": []any{"in"}},
				[]any{queryapi.Int64(1), nil},
			}}),
		},
		{
			Statement: "graph_entities",
			fields:    []string{"node", "rel"},
			rows: []string{
				`[{"$type":"Node","_value":{"element_id":"n1","labels":["Person"],"properties":{"name":{"$type":"String","_value":"Ada"}}}},` +
					`{"$type":"Relationship","_value":{"element_id":"r1","start_node_element_id":"n1","end_node_element_id":"n2","type":"KNOWS","properties":{"since":{"$type":"Integer","_value":"1999"}}}}]`,
			},
			summary: emptySummary,
			Verify: expectRows([][]any{{
				queryapi.Node{ElementID: "n1", Labels: []string{"Person"}, Properties: map[string]any{"name": "Ada"}},
				queryapi.Relationship{
					ElementID:      "r1",
					StartElementID: "n1",
					EndElementID:   "n2",
					Type:           "KNOWS",
					Properties:     map[string]any{"since": queryapi.Int64(1999)},
				},
			}}),
		},
		{
			Statement: "path",
			fields:    []string{"p"},
			rows: []string{
				`[{"$type":"Path","_value":[` +
					`{"$type":"Node","_value":{"element_id":"n1","labels":[]}},` +
					`{"$type":"Relationship","_value":{"element_id":"r1","start_node_element_id":"n1","end_node_element_id":"n2","type":"KNOWS"}},` +
					`{"$type":"Node","_value":{"element_id":"n2","labels":[]}}]}]`,
			},
			summary: emptySummary,
			Verify: func(_ []string, rows [][]any, _ queryapi.Summary) error {
				if len(rows) != 1 || len(rows[0]) != 1 {
					return fmt.Errorf("expected one path cell, got %#v", rows)
				}
				p, ok := rows[0][0].(queryapi.Path)
				if !ok {
					return fmt.Errorf("cell = %T, expected a path", rows[0][0])
				}
				if p.Start.ElementID != "n1" || p.End.ElementID != "n2" || len(p.Segments) != 1 {
					return fmt.Errorf("path = %#v", p)
				}
				if p.Segments[0].Relationship.Type != "KNOWS" {
					return fmt.Errorf("segment = %#v", p.Segments[0])
				}
				return nil
			},
		},
		{
			Statement: "counters",
			fields:    []string{},
			rows:      nil,
			summary:   `"counters":{"nodesCreated":2,"propertiesSet":4,"containsUpdates":true},"bookmarks":["bm-conformance"]`,
			Verify: func(_ []string, rows [][]any, summary queryapi.Summary) error {
				if len(rows) != 0 {
					return fmt.Errorf("expected no rows, got %#v", rows)
				}
				if summary.Stats.NodesCreated != queryapi.Int64(2) || summary.Stats.PropertiesSet != queryapi.Int64(4) {
					return fmt.Errorf("counters = %#v", summary.Stats)
				}
				if !summary.Stats.ContainsUpdates {
					return fmt.Errorf("ContainsUpdates = false")
				}
				if !reflect.DeepEqual(summary.Bookmark, queryapi.Bookmarks{"bm-conformance"}) {
					return fmt.Errorf("bookmarks = %#v", summary.Bookmark)
				}
				return nil
			},
		},
		{
			Statement: "plan",
			fields:    []string{},
			rows:      nil,
			summary: `"counters":{},"bookmarks":[],"profiledQueryPlan":{` +
				`"dbHits":10,"records":3,"operatorType":"ProduceResults",` +
				`"arguments":{"planner":{"$type":"String","_value":"COST"}},"identifiers":["a"],` +
				`"children":[{"dbHits":7,"records":3,"operatorType":"AllNodesScan","children":[]}]}`,
			Verify: func(_ []string, _ [][]any, summary queryapi.Summary) error {
				if summary.Profile == nil {
					return fmt.Errorf("profile missing")
				}
				if summary.Profile.Rows != queryapi.Int64(3) || summary.Profile.Args["planner"] != "COST" {
					return fmt.Errorf("profile = %#v", summary.Profile)
				}
				if len(summary.Profile.Children) != 1 || summary.Profile.Children[0].OperatorType != "AllNodesScan" {
					return fmt.Errorf("profile children = %#v", summary.Profile.Children)
				}
				return nil
			},
		},
		{
			Statement: "notifications",
			fields:    []string{},
			rows:      nil,
			summary: `"counters":{},"bookmarks":[],"notifications":[{` +
				`"code":"Neo.ClientNotification.Statement.CartesianProduct",` +
				`"title":"cartesian product","severity":"WARNING","category":"PERFORMANCE",` +
				`"position":{"offset":7,"line":1,"column":8}}]`,
			Verify: func(_ []string, _ [][]any, summary queryapi.Summary) error {
				if len(summary.Notifications) != 1 {
					return fmt.Errorf("notifications = %#v", summary.Notifications)
				}
				n := summary.Notifications[0]
				if n.Code != "Neo.ClientNotification.Statement.CartesianProduct" || n.Severity != "WARNING" {
					return fmt.Errorf("notification = %#v", n)
				}
				if !n.Position.Valid || n.Position.Column != 8 {
					return fmt.Errorf("position = %#v", n.Position)
				}
				return nil
			},
		},
		{
			Statement: "empty",
			fields:    []string{"nothing"},
			rows:      nil,
			summary:   emptySummary,
			Verify: func(keys []string, rows [][]any, _ queryapi.Summary) error {
				if !reflect.DeepEqual(keys, []string{"nothing"}) {
					return fmt.Errorf("keys = %#v", keys)
				}
				if len(rows) != 0 {
					return fmt.Errorf("expected no rows, got %#v", rows)
				}
				return nil
			},
		},
	}
}

// ErrorFixtures returns the canonical failure fixtures.
func ErrorFixtures() []ErrorFixture {
	return []ErrorFixture{
		{
			Statement: "syntax_error",
			Code:      "Neo.ClientError.Statement.SyntaxError",
			Message:   "Invalid input 'RETRUN'",
		},
		{
			Statement: "terminated",
			Code:      "Neo.TransientError.General.TransactionTerminated",
			Message:   "The transaction has been terminated",
		},
	}
}
