// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	"strconv"
	"strings"
)

// parsePoint parses the canonical "SRID=<n>;POINT (<x> <y>)" or
// "SRID=<n>;POINT Z (<x> <y> <z>)" form. A malformed payload never fails
// this call directly: it produces a Point whose coordinates are
// unreadable, so a bad point does not abort decoding of the surrounding
// row or value until the point is actually read.
func (c *Codec) parsePoint(s string) Point {
	segs := strings.Split(s, ";")
	if len(segs) != 2 {
		return brokenPoint(protocolError("malformed Point value %q", s))
	}
	sridPart, pointPart := segs[0], segs[1]

	sridStr, ok := strings.CutPrefix(sridPart, "SRID=")
	if !ok {
		return brokenPoint(protocolError("malformed Point value %q: missing SRID", s))
	}
	srid, err := strconv.ParseInt(sridStr, 10, 64)
	if err != nil {
		return brokenPoint(protocolError("malformed Point SRID in %q: %v", s, err))
	}

	var inner string
	var is3D bool
	switch {
	case strings.HasPrefix(pointPart, "POINT Z ("):
		is3D = true
		inner = strings.TrimPrefix(pointPart, "POINT Z (")
	case strings.HasPrefix(pointPart, "POINT ("):
		inner = strings.TrimPrefix(pointPart, "POINT (")
	default:
		return brokenPoint(protocolError("malformed Point value %q: missing POINT", s))
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return brokenPoint(protocolError("malformed Point value %q: unterminated coordinates", s))
	}

	coords := strings.Fields(inner)
	wantLen := 2
	if is3D {
		wantLen = 3
	}
	if len(coords) != wantLen {
		return brokenPoint(protocolError("malformed Point value %q: expected %d coordinates, got %d", s, wantLen, len(coords)))
	}

	x, err := strconv.ParseFloat(coords[0], 64)
	if err != nil {
		return brokenPoint(protocolError("malformed Point X in %q: %v", s, err))
	}
	y, err := strconv.ParseFloat(coords[1], 64)
	if err != nil {
		return brokenPoint(protocolError("malformed Point Y in %q: %v", s, err))
	}
	sridField := c.decodeIntegerField(srid)
	if !is3D {
		return Point{SRID: sridField, x: x, y: y}
	}
	z, err := strconv.ParseFloat(coords[2], 64)
	if err != nil {
		return brokenPoint(protocolError("malformed Point Z in %q: %v", s, err))
	}
	return Point{SRID: sridField, x: x, y: y, z: &z}
}

func brokenPoint(err error) Point {
	return Point{broken: err}
}

// format renders the canonical textual form the parser above accepts.
func (p Point) format() string {
	srid, _ := intFieldValue(p.SRID)
	if p.z != nil {
		return "SRID=" + strconv.FormatInt(srid, 10) + ";POINT Z (" +
			formatPointCoord(p.x) + " " + formatPointCoord(p.y) + " " + formatPointCoord(*p.z) + ")"
	}
	return "SRID=" + strconv.FormatInt(srid, 10) + ";POINT (" +
		formatPointCoord(p.x) + " " + formatPointCoord(p.y) + ")"
}

func formatPointCoord(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
