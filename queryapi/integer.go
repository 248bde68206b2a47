// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	"math/big"
	"strconv"
)

// IntegerMode selects how wire Integer values (and every integer-bearing
// field nested in counters and temporals) are represented once decoded.
// It is resolved once at [NewCodec] and applied uniformly everywhere.
type IntegerMode int

const (
	// IntegerModeLossless keeps a 64-bit integer abstraction ([Int64]).
	// This is the default: it never loses precision and never silently
	// promotes to a float.
	IntegerModeLossless IntegerMode = iota
	// IntegerModeBigInt decodes every integer field as *big.Int.
	IntegerModeBigInt
	// IntegerModeNumber decodes every integer field as float64, matching a
	// JS-style "everything is a double" caller.
	IntegerModeNumber
)

// Int64 is the lossless-integer wrapper type. It exists (instead of a bare
// int64) so integers decoded under IntegerModeLossless carry a
// distinguishing Go type, and so the value codec's encode side can special-case it
// ahead of a generic numeric literal.
type Int64 int64

// Number returns the value as a float64, mirroring what IntegerModeNumber
// would have produced for the same wire payload.
func (i Int64) Number() float64 { return float64(i) }

// decodeInteger parses a decimal-string Integer payload per the resolved
// IntegerMode. The wire never sends a JSON number for Integer (that would
// lose 64-bit range), only a decimal string.
func (c *Codec) decodeInteger(s string) (any, error) {
	switch c.mode {
	case IntegerModeBigInt:
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, protocolError("invalid Integer value %q", s)
		}
		return n, nil
	case IntegerModeNumber:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, protocolError("invalid Integer value %q: %v", s, err)
		}
		return f, nil
	default:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, protocolError("invalid Integer value %q: %v", s, err)
		}
		return Int64(n), nil
	}
}

// decodeIntegerField is decodeInteger for a field whose wire payload is
// already a Go int (e.g. nanoseconds parsed out of a temporal string, or a
// counters field read straight off a JSON number). It exists so every
// integer-bearing field - not just ones carried as wire Integer tags -
// presents the same type under a given mode.
func (c *Codec) decodeIntegerField(n int64) any {
	switch c.mode {
	case IntegerModeBigInt:
		return big.NewInt(n)
	case IntegerModeNumber:
		return float64(n)
	default:
		return Int64(n)
	}
}

// intFieldValue renders an integer-bearing decoded field back to a plain
// int64, as the temporal, duration and point formatters need when
// re-encoding a value. Accepts the three possible decoded shapes.
func intFieldValue(v any) (int64, bool) {
	switch n := v.(type) {
	case Int64:
		return int64(n), true
	case *big.Int:
		return n.Int64(), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
