// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	"errors"
	"testing"
)

func TestParsePoint(t *testing.T) {
	c := NewCodec()

	t.Run("2D", func(t *testing.T) {
		p := c.parsePoint("SRID=7203;POINT (1.5 2.5)")
		if p.Broken() {
			t.Fatal("expected a well-formed point")
		}
		x, _ := p.X()
		y, _ := p.Y()
		_, hasZ, _ := p.Z()
		if p.SRID != Int64(7203) || x != 1.5 || y != 2.5 || hasZ {
			t.Errorf("parsePoint = srid=%v x=%v y=%v hasZ=%v", p.SRID, x, y, hasZ)
		}
	})

	t.Run("3D", func(t *testing.T) {
		p := c.parsePoint("SRID=4326;POINT Z (1.5 2.5 3.5)")
		if p.Broken() {
			t.Fatal("expected a well-formed point")
		}
		z, hasZ, _ := p.Z()
		if p.SRID != Int64(4326) || !hasZ || z != 3.5 {
			t.Errorf("parsePoint = srid=%v z=%v hasZ=%v", p.SRID, z, hasZ)
		}
	})
}

func TestParsePointBroken(t *testing.T) {
	c := NewCodec()

	inputs := []struct {
		name  string
		input string
	}{
		{"missing semicolon", "SRID=4326 POINT (1 2)"},
		{"missing SRID prefix", "ID=4326;POINT (1 2)"},
		{"bad SRID number", "SRID=abc;POINT (1 2)"},
		{"missing POINT prefix", "SRID=4326;CIRCLE (1 2)"},
		{"unterminated coordinates", "SRID=4326;POINT (1 2"},
		{"wrong 2D arity", "SRID=4326;POINT (1 2 3)"},
		{"wrong 3D arity", "SRID=4326;POINT Z (1 2)"},
		{"non-numeric coordinate", "SRID=4326;POINT (a 2)"},
	}

	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			p := c.parsePoint(tt.input)
			if !p.Broken() {
				t.Fatalf("parsePoint(%q) expected a broken point", tt.input)
			}
			// The deferred error surfaces on every accessor, typed as a
			// protocol error.
			if _, err := p.X(); !errors.Is(err, ErrProtocol) {
				t.Errorf("X() error = %v, expected a protocol error", err)
			}
			if _, err := p.Y(); err == nil {
				t.Error("Y() expected deferred error, got none")
			}
			if _, _, err := p.Z(); err == nil {
				t.Error("Z() expected deferred error, got none")
			}
		})
	}
}

func TestPointFormat(t *testing.T) {
	tests := []struct {
		name     string
		point    Point
		expected string
	}{
		{"2D", NewPoint2D(Int64(7203), 1.5, 2.5), "SRID=7203;POINT (1.5 2.5)"},
		{"3D", NewPoint3D(Int64(4326), 1.5, 2.5, 3.5), "SRID=4326;POINT Z (1.5 2.5 3.5)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.point.format(); got != tt.expected {
				t.Errorf("format() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
