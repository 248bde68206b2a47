// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	"encoding/base64"
	"math"
	"math/big"
	"reflect"
	"strconv"

	json "github.com/goccy/go-json"
)

// EncodeValue maps a Go value to its tagged wire form. The cases below are
// an ordered predicate chain, not a general-purpose encoder: graph
// entities (Node, Relationship, Path, Segment) and anything else not
// listed are rejected with a CodeInvalidInput error rather than silently
// falling through to a generic representation.
func (c *Codec) EncodeValue(v any) (taggedValue, error) {
	switch val := v.(type) {
	case nil:
		return taggedValue{Type: TagNull, Value: json.RawMessage("null")}, nil
	case bool:
		return newTagged(TagBoolean, val)
	case Int64:
		return newTagged(TagInteger, strconv.FormatInt(int64(val), 10))
	case int:
		return newTagged(TagInteger, strconv.Itoa(val))
	case int32:
		return newTagged(TagInteger, strconv.FormatInt(int64(val), 10))
	case int64:
		return newTagged(TagInteger, strconv.FormatInt(val, 10))
	case *big.Int:
		if val == nil {
			return taggedValue{}, invalidInputError("nil *big.Int parameter")
		}
		return newTagged(TagInteger, val.String())
	case float32:
		return newTagged(TagFloat, formatFloatValue(float64(val)))
	case float64:
		return newTagged(TagFloat, formatFloatValue(val))
	case string:
		return newTagged(TagString, val)
	case []byte:
		return newTagged(TagBase64, base64.StdEncoding.EncodeToString(val))
	case Date:
		return newTagged(TagDate, val.format())
	case LocalTime:
		return newTagged(TagLocalTime, val.format())
	case Time:
		if val.OffsetSeconds == nil {
			return taggedValue{}, invalidInputError("Time requires OffsetSeconds")
		}
		return newTagged(TagTime, val.format())
	case LocalDateTime:
		return newTagged(TagLocalDateTime, val.format())
	case DateTime:
		// A DateTime without an offset is ambiguous, even when a zone id is
		// set. Reject rather than guess. With an offset, the zone id picks
		// ZonedDateTime over OffsetDateTime.
		if val.OffsetSeconds == nil {
			return taggedValue{}, invalidInputError("DateTime requires OffsetSeconds to be unambiguous")
		}
		if val.ZoneID != nil {
			return newTagged(TagZonedDateTime, val.format())
		}
		return newTagged(TagOffsetDateTime, val.format())
	case Duration:
		return newTagged(TagDuration, val.format())
	case Point:
		if val.Broken() {
			return taggedValue{}, invalidInputError("cannot encode a broken Point: %v", val.broken)
		}
		return newTagged(TagPoint, val.format())
	case map[string]any:
		out := make(map[string]taggedValue, len(val))
		for k, elem := range val {
			tv, err := c.EncodeValue(elem)
			if err != nil {
				return taggedValue{}, err
			}
			out[k] = tv
		}
		b, err := json.Marshal(out)
		if err != nil {
			return taggedValue{}, invalidInputError("encoding Map value: %v", err)
		}
		return taggedValue{Type: TagMap, Value: b}, nil
	case []any:
		out := make([]taggedValue, len(val))
		for i, elem := range val {
			tv, err := c.EncodeValue(elem)
			if err != nil {
				return taggedValue{}, err
			}
			out[i] = tv
		}
		b, err := json.Marshal(out)
		if err != nil {
			return taggedValue{}, invalidInputError("encoding List value: %v", err)
		}
		return taggedValue{Type: TagList, Value: b}, nil
	case Node, Relationship, Path, Segment:
		return taggedValue{}, invalidInputError("graph entities cannot be sent as query parameters (got %T)", v)
	default:
		return c.encodeReflected(v)
	}
}

// encodeReflected is the fallback for any parameter shape not covered by
// the explicit cases above: a slice/array of a concrete element type (e.g.
// []string, []int64) is an "iterable" per the wire model and is
// materialized into a List; anything else is rejected.
func (c *Codec) encodeReflected(v any) (taggedValue, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		out := make([]taggedValue, n)
		for i := 0; i < n; i++ {
			tv, err := c.EncodeValue(rv.Index(i).Interface())
			if err != nil {
				return taggedValue{}, err
			}
			out[i] = tv
		}
		b, err := json.Marshal(out)
		if err != nil {
			return taggedValue{}, invalidInputError("encoding List value: %v", err)
		}
		return taggedValue{Type: TagList, Value: b}, nil
	default:
		return taggedValue{}, invalidInputError("unsupported parameter type %T", v)
	}
}

func newTagged(tag Tag, v any) (taggedValue, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return taggedValue{}, invalidInputError("encoding %s value: %v", tag, err)
	}
	return taggedValue{Type: tag, Value: b}, nil
}

// formatFloatValue renders a float64 the way Float wire values are always
// carried: as a JSON string, so NaN and the infinities survive transport.
func formatFloatValue(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// EncodeParameters encodes a parameter map for a request body.
func (c *Codec) EncodeParameters(params map[string]any) (map[string]taggedValue, error) {
	if params == nil {
		return nil, nil
	}
	out := make(map[string]taggedValue, len(params))
	for k, v := range params {
		tv, err := c.EncodeValue(v)
		if err != nil {
			return nil, err
		}
		out[k] = tv
	}
	return out, nil
}
