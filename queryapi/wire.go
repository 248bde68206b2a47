// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	json "github.com/goccy/go-json"
)

// Tag is the closed set of wire tagged-value discriminators. An unknown tag
// is always a protocol error - this set is never extended at runtime.
type Tag string

const (
	TagNull           Tag = "Null"
	TagBoolean        Tag = "Boolean"
	TagInteger        Tag = "Integer"
	TagFloat          Tag = "Float"
	TagString         Tag = "String"
	TagTime           Tag = "Time"
	TagDate           Tag = "Date"
	TagLocalTime      Tag = "LocalTime"
	TagZonedDateTime  Tag = "ZonedDateTime"
	TagOffsetDateTime Tag = "OffsetDateTime"
	TagLocalDateTime  Tag = "LocalDateTime"
	TagDuration       Tag = "Duration"
	TagPoint          Tag = "Point"
	TagBase64         Tag = "Base64"
	TagMap            Tag = "Map"
	TagList           Tag = "List"
	TagNode           Tag = "Node"
	TagRelationship   Tag = "Relationship"
	TagPath           Tag = "Path"
)

// taggedValue is the wire shape {"$type": ..., "_value": ...}. _value's
// payload shape depends on $type: see decode.go for the per-tag dispatch.
type taggedValue struct {
	Type  Tag             `json:"$type"`
	Value json.RawMessage `json:"_value"`
}

// wireNode is the wire payload shape for TagNode.
type wireNode struct {
	ElementID  string                 `json:"element_id"`
	Labels     []string               `json:"labels"`
	Properties map[string]taggedValue `json:"properties"`
}

// wireRelationship is the wire payload shape for TagRelationship.
type wireRelationship struct {
	ElementID      string                 `json:"element_id"`
	StartElementID string                 `json:"start_node_element_id"`
	EndElementID   string                 `json:"end_node_element_id"`
	Type           string                 `json:"type"`
	Properties     map[string]taggedValue `json:"properties"`
}

// wireCounters is the wire shape of the "counters" field in a buffered or
// streaming summary. Field names follow the server's camelCase wire
// convention, distinct from the decoded [Counters] struct's Go naming.
type wireCounters struct {
	NodesCreated          int64 `json:"nodesCreated"`
	NodesDeleted          int64 `json:"nodesDeleted"`
	RelationshipsCreated  int64 `json:"relationshipsCreated"`
	RelationshipsDeleted  int64 `json:"relationshipsDeleted"`
	PropertiesSet         int64 `json:"propertiesSet"`
	LabelsAdded           int64 `json:"labelsAdded"`
	LabelsRemoved         int64 `json:"labelsRemoved"`
	IndexesAdded          int64 `json:"indexesAdded"`
	IndexesRemoved        int64 `json:"indexesRemoved"`
	ConstraintsAdded      int64 `json:"constraintsAdded"`
	ConstraintsRemoved    int64 `json:"constraintsRemoved"`
	SystemUpdates         int64 `json:"systemUpdates"`
	ContainsUpdates       bool  `json:"containsUpdates"`
	ContainsSystemUpdates bool  `json:"containsSystemUpdates"`
}

// wirePosition is the wire shape of a notification's input position.
type wirePosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// wireNotification is the wire shape of one notifications[] entry.
type wireNotification struct {
	Code        string        `json:"code"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Severity    string        `json:"severity"`
	Category    string        `json:"category"`
	GqlStatus   string        `json:"gql_status"`
	Position    *wirePosition `json:"position"`
}

// wirePlan is the wire shape of both "queryPlan" and "profiledQueryPlan".
// Profiled plans additionally populate the dbHits/time/pageCache fields.
type wirePlan struct {
	DBHits            int64                  `json:"dbHits"`
	Records           int64                  `json:"records"`
	HasPageCacheStats bool                   `json:"hasPageCacheStats"`
	PageCacheHits     int64                  `json:"pageCacheHits"`
	PageCacheMisses   int64                  `json:"pageCacheMisses"`
	PageCacheHitRatio float64                `json:"pageCacheHitRatio"`
	Time              int64                  `json:"time"`
	OperatorType      string                 `json:"operatorType"`
	Arguments         map[string]taggedValue `json:"arguments"`
	Identifiers       []string               `json:"identifiers"`
	Children          []wirePlan             `json:"children"`
}

// wireError is one entry of a buffered error response's "errors" array or
// of a streaming Error event's "failures" array.
type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Error is the server's historical fallback field for Code, present on
	// a known server bug where Code is sometimes omitted. See DESIGN.md.
	Error string `json:"error"`
}

// wireEventEnvelope is one line of a streaming response.
type wireEventEnvelope struct {
	Event string          `json:"$event"`
	Body  json.RawMessage `json:"_body"`
}

// wireHeaderBody is the _body shape for a Header event.
type wireHeaderBody struct {
	Fields []string `json:"fields"`
}

// wireSummaryBody is the _body shape for a Summary event; structurally
// identical to the summary fields of wireBufferedEnvelope.
type wireSummaryBody struct {
	Bookmarks         []string           `json:"bookmarks"`
	Counters          wireCounters       `json:"counters"`
	ProfiledQueryPlan *wirePlan          `json:"profiledQueryPlan"`
	QueryPlan         *wirePlan          `json:"queryPlan"`
	Notifications     []wireNotification `json:"notifications"`
}

// wireErrorBody is the _body shape for an Error event.
type wireErrorBody struct {
	Failures []wireError `json:"failures"`
}
