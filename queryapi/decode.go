// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	"encoding/base64"
	"strconv"

	json "github.com/goccy/go-json"
)

// DecodeValue decodes one tagged wire value into its Go representation per
// this codec's resolved IntegerMode. Container tags (Map, List, Node,
// Relationship, Path) recurse into their nested tagged values.
func (c *Codec) DecodeValue(tv taggedValue) (any, error) {
	switch tv.Type {
	case TagNull:
		return nil, nil
	case TagBoolean:
		var b bool
		if err := json.Unmarshal(tv.Value, &b); err != nil {
			return nil, protocolError("malformed Boolean value: %v", err)
		}
		return b, nil
	case TagInteger:
		s, err := decodeTextValue(tv.Value)
		if err != nil {
			return nil, err
		}
		return c.decodeInteger(s)
	case TagFloat:
		s, err := decodeTextValue(tv.Value)
		if err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, protocolError("malformed Float value %q: %v", s, err)
		}
		return f, nil
	case TagString:
		return decodeTextValue(tv.Value)
	case TagDate:
		s, err := decodeTextValue(tv.Value)
		if err != nil {
			return nil, err
		}
		return c.parseDate(s)
	case TagLocalTime:
		s, err := decodeTextValue(tv.Value)
		if err != nil {
			return nil, err
		}
		return c.parseLocalTime(s)
	case TagTime:
		s, err := decodeTextValue(tv.Value)
		if err != nil {
			return nil, err
		}
		tr, err := c.parseTime(s)
		if err != nil {
			return nil, err
		}
		if tr.offset == nil {
			return tr.local, nil
		}
		return Time{LocalTime: tr.local, OffsetSeconds: c.decodeIntegerField(*tr.offset)}, nil
	case TagLocalDateTime:
		s, err := decodeTextValue(tv.Value)
		if err != nil {
			return nil, err
		}
		return c.parseLocalDateTime(s)
	case TagOffsetDateTime:
		s, err := decodeTextValue(tv.Value)
		if err != nil {
			return nil, err
		}
		dt, ldt, err := c.parseOffsetDateTime(s)
		if err != nil {
			return nil, err
		}
		if dt != nil {
			return *dt, nil
		}
		return *ldt, nil
	case TagZonedDateTime:
		s, err := decodeTextValue(tv.Value)
		if err != nil {
			return nil, err
		}
		return c.parseZonedDateTime(s)
	case TagDuration:
		s, err := decodeTextValue(tv.Value)
		if err != nil {
			return nil, err
		}
		return c.parseDuration(s)
	case TagPoint:
		s, err := decodeTextValue(tv.Value)
		if err != nil {
			return nil, err
		}
		return c.parsePoint(s), nil
	case TagBase64:
		s, err := decodeTextValue(tv.Value)
		if err != nil {
			return nil, err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, protocolError("malformed Base64 value: %v", err)
		}
		return b, nil
	case TagMap:
		var raw map[string]taggedValue
		if err := json.Unmarshal(tv.Value, &raw); err != nil {
			return nil, protocolError("malformed Map value: %v", err)
		}
		return c.decodeProperties(raw)
	case TagList:
		var raw []taggedValue
		if err := json.Unmarshal(tv.Value, &raw); err != nil {
			return nil, protocolError("malformed List value: %v", err)
		}
		out := make([]any, len(raw))
		for i, v := range raw {
			dv, err := c.DecodeValue(v)
			if err != nil {
				return nil, err
			}
			out[i] = dv
		}
		return out, nil
	case TagNode:
		var wn wireNode
		if err := json.Unmarshal(tv.Value, &wn); err != nil {
			return nil, protocolError("malformed Node value: %v", err)
		}
		return c.decodeNode(wn)
	case TagRelationship:
		var wr wireRelationship
		if err := json.Unmarshal(tv.Value, &wr); err != nil {
			return nil, protocolError("malformed Relationship value: %v", err)
		}
		return c.decodeRelationship(wr)
	case TagPath:
		return c.decodePath(tv.Value)
	default:
		return nil, protocolError("unknown wire tag %q", tv.Type)
	}
}

func decodeTextValue(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", protocolError("malformed scalar value: %v", err)
	}
	return s, nil
}

func (c *Codec) decodeProperties(wp map[string]taggedValue) (map[string]any, error) {
	if wp == nil {
		return nil, nil
	}
	out := make(map[string]any, len(wp))
	for k, v := range wp {
		dv, err := c.DecodeValue(v)
		if err != nil {
			return nil, err
		}
		out[k] = dv
	}
	return out, nil
}

func (c *Codec) decodeNode(wn wireNode) (Node, error) {
	props, err := c.decodeProperties(wn.Properties)
	if err != nil {
		return Node{}, err
	}
	return Node{ElementID: wn.ElementID, Labels: wn.Labels, Properties: props}, nil
}

func (c *Codec) decodeRelationship(wr wireRelationship) (Relationship, error) {
	props, err := c.decodeProperties(wr.Properties)
	if err != nil {
		return Relationship{}, err
	}
	return Relationship{
		ElementID:      wr.ElementID,
		StartElementID: wr.StartElementID,
		EndElementID:   wr.EndElementID,
		Type:           wr.Type,
		Properties:     props,
	}, nil
}

// decodePath reconstructs a Path from its wire shape: a flat JSON array
// alternating Node, Relationship, Node, ..., Node tagged values. Segment
// order follows array order; a relationship's own StartElementID/
// EndElementID retain its underlying direction regardless of which way the
// path traverses it.
func (c *Codec) decodePath(raw json.RawMessage) (Path, error) {
	var elems []taggedValue
	if err := json.Unmarshal(raw, &elems); err != nil {
		return Path{}, protocolError("malformed Path value: %v", err)
	}
	if len(elems) == 0 || len(elems)%2 == 0 {
		return Path{}, protocolError("malformed Path: expected an odd number of elements, got %d", len(elems))
	}

	startVal, err := c.DecodeValue(elems[0])
	if err != nil {
		return Path{}, err
	}
	start, ok := startVal.(Node)
	if !ok {
		return Path{}, protocolError("malformed Path: expected Node at position 0")
	}

	cur := start
	var segments []Segment
	for i := 1; i < len(elems); i += 2 {
		relVal, err := c.DecodeValue(elems[i])
		if err != nil {
			return Path{}, err
		}
		rel, ok := relVal.(Relationship)
		if !ok {
			return Path{}, protocolError("malformed Path: expected Relationship at position %d", i)
		}
		nodeVal, err := c.DecodeValue(elems[i+1])
		if err != nil {
			return Path{}, err
		}
		next, ok := nodeVal.(Node)
		if !ok {
			return Path{}, protocolError("malformed Path: expected Node at position %d", i+1)
		}
		segments = append(segments, Segment{Start: cur, Relationship: rel, End: next})
		cur = next
	}

	return Path{Start: start, End: cur, Segments: segments}, nil
}

func (c *Codec) decodeCounters(wc wireCounters) Counters {
	return Counters{
		NodesCreated:          c.decodeIntegerField(wc.NodesCreated),
		NodesDeleted:          c.decodeIntegerField(wc.NodesDeleted),
		RelationshipsCreated:  c.decodeIntegerField(wc.RelationshipsCreated),
		RelationshipsDeleted:  c.decodeIntegerField(wc.RelationshipsDeleted),
		PropertiesSet:         c.decodeIntegerField(wc.PropertiesSet),
		LabelsAdded:           c.decodeIntegerField(wc.LabelsAdded),
		LabelsRemoved:         c.decodeIntegerField(wc.LabelsRemoved),
		IndexesAdded:          c.decodeIntegerField(wc.IndexesAdded),
		IndexesRemoved:        c.decodeIntegerField(wc.IndexesRemoved),
		ConstraintsAdded:      c.decodeIntegerField(wc.ConstraintsAdded),
		ConstraintsRemoved:    c.decodeIntegerField(wc.ConstraintsRemoved),
		SystemUpdates:         c.decodeIntegerField(wc.SystemUpdates),
		ContainsUpdates:       wc.ContainsUpdates,
		ContainsSystemUpdates: wc.ContainsSystemUpdates,
	}
}

func (c *Codec) decodeNotifications(wn []wireNotification) []Notification {
	if wn == nil {
		return nil
	}
	out := make([]Notification, len(wn))
	for i, n := range wn {
		var pos InputPosition
		if n.Position != nil {
			pos = InputPosition{Offset: n.Position.Offset, Line: n.Position.Line, Column: n.Position.Column, Valid: true}
		}
		out[i] = Notification{
			Code:        n.Code,
			Title:       n.Title,
			Description: n.Description,
			Severity:    n.Severity,
			Category:    n.Category,
			GqlStatus:   n.GqlStatus,
			Position:    pos,
		}
	}
	return out
}

// decodePlan recursively decodes a query-plan tree. Field names are
// deliberately renamed across the wire boundary: wire "records" becomes
// Rows, wire "arguments" becomes Args.
func (c *Codec) decodePlan(wp *wirePlan) (*ProfiledPlan, error) {
	if wp == nil {
		return nil, nil
	}
	args, err := c.decodeProperties(wp.Arguments)
	if err != nil {
		return nil, err
	}
	children := make([]ProfiledPlan, len(wp.Children))
	for i := range wp.Children {
		child, err := c.decodePlan(&wp.Children[i])
		if err != nil {
			return nil, err
		}
		children[i] = *child
	}
	return &ProfiledPlan{
		DBHits:            c.decodeIntegerField(wp.DBHits),
		Rows:              c.decodeIntegerField(wp.Records),
		HasPageCacheStats: wp.HasPageCacheStats,
		PageCacheHits:     c.decodeIntegerField(wp.PageCacheHits),
		PageCacheMisses:   c.decodeIntegerField(wp.PageCacheMisses),
		PageCacheHitRatio: wp.PageCacheHitRatio,
		Time:              c.decodeIntegerField(wp.Time),
		OperatorType:      wp.OperatorType,
		Args:              args,
		Identifiers:       wp.Identifiers,
		Children:          children,
	}, nil
}

func (c *Codec) decodeSummary(bookmarks []string, counters wireCounters, profiledPlan, queryPlan *wirePlan, notifications []wireNotification) (Summary, error) {
	profile, err := c.decodePlan(profiledPlan)
	if err != nil {
		return Summary{}, err
	}
	plan, err := c.decodePlan(queryPlan)
	if err != nil {
		return Summary{}, err
	}
	var bm Bookmarks
	if bookmarks != nil {
		bm = Bookmarks(bookmarks)
	}
	return Summary{
		Bookmark:      bm,
		Stats:         c.decodeCounters(counters),
		Profile:       profile,
		Plan:          plan,
		Notifications: c.decodeNotifications(notifications),
	}, nil
}
