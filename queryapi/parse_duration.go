// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	"strconv"
	"strings"
)

// parseDuration parses the canonical ISO-8601-derived form
// "P<n>M<n>W<n>DT<n>H<n>M<n>[.,]<n>S". It walks the text after "P",
// accumulating digits (plus '.', ',', and a leading '-') until a
// designator character finalizes the accumulated number. Years are not
// part of this codec's canonical form: a 'Y' designator is rejected like
// any other unrecognized character.
func (c *Codec) parseDuration(s string) (Duration, error) {
	if !strings.HasPrefix(s, "P") {
		return Duration{}, protocolError("malformed Duration value %q", s)
	}

	var acc strings.Builder
	inTime := false
	var months, weeks, days, hours, minutes, seconds, nanos int64

	for i := 1; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '-' || ch == '.' || ch == ',' || (ch >= '0' && ch <= '9'):
			acc.WriteByte(ch)
		case ch == 'T':
			inTime = true
		case ch == 'M':
			v, err := parseDurInt(acc.String())
			if err != nil {
				return Duration{}, protocolError("malformed Duration in %q: %v", s, err)
			}
			if inTime {
				minutes = v
			} else {
				months = v
			}
			acc.Reset()
		case ch == 'W':
			if inTime {
				return Duration{}, protocolError("Duration %q: 'W' not allowed in time part", s)
			}
			v, err := parseDurInt(acc.String())
			if err != nil {
				return Duration{}, protocolError("malformed Duration in %q: %v", s, err)
			}
			weeks = v
			acc.Reset()
		case ch == 'D':
			if inTime {
				return Duration{}, protocolError("Duration %q: 'D' not allowed in time part", s)
			}
			v, err := parseDurInt(acc.String())
			if err != nil {
				return Duration{}, protocolError("malformed Duration in %q: %v", s, err)
			}
			days = v
			acc.Reset()
		case ch == 'H':
			if !inTime {
				return Duration{}, protocolError("Duration %q: 'H' only allowed in time part", s)
			}
			v, err := parseDurInt(acc.String())
			if err != nil {
				return Duration{}, protocolError("malformed Duration in %q: %v", s, err)
			}
			hours = v
			acc.Reset()
		case ch == 'S':
			if !inTime {
				return Duration{}, protocolError("Duration %q: 'S' only allowed in time part", s)
			}
			secPart, fracPart := splitFrac(acc.String())
			v, err := parseDurInt(secPart)
			if err != nil {
				return Duration{}, protocolError("malformed Duration in %q: %v", s, err)
			}
			seconds = v
			if fracPart != "" {
				n, err := strconv.ParseInt(padRightZerosTo(fracPart, 9), 10, 64)
				if err != nil {
					return Duration{}, protocolError("malformed Duration fraction in %q: %v", s, err)
				}
				if strings.HasPrefix(secPart, "-") {
					n = -n
				}
				nanos = n
			}
			acc.Reset()
		default:
			return Duration{}, protocolError("Duration %q: unexpected character %q", s, string(ch))
		}
	}

	return Duration{
		Months:      c.decodeIntegerField(months),
		Days:        c.decodeIntegerField(weeks*7 + days),
		Seconds:     c.decodeIntegerField(hours*3600 + minutes*60 + seconds),
		Nanoseconds: c.decodeIntegerField(nanos),
	}, nil
}

func splitFrac(acc string) (intPart, fracPart string) {
	idx := strings.IndexAny(acc, ".,")
	if idx < 0 {
		return acc, ""
	}
	return acc[:idx], acc[idx+1:]
}

func parseDurInt(acc string) (int64, error) {
	if acc == "" || acc == "-" {
		return 0, nil
	}
	return strconv.ParseInt(acc, 10, 64)
}

// format renders the canonical textual form the parser above accepts. It
// emits months and days unconditionally and folds the time part into a
// single total-seconds "S" component rather than re-splitting it into
// hours/minutes. The result parses back to the same Duration whenever
// Seconds and Nanoseconds do not have opposite signs, which holds for every
// Duration the parser produces.
func (d Duration) format() string {
	months, _ := intFieldValue(d.Months)
	days, _ := intFieldValue(d.Days)
	seconds, _ := intFieldValue(d.Seconds)
	nanos, _ := intFieldValue(d.Nanoseconds)

	out := "P" + strconv.FormatInt(months, 10) + "M" + strconv.FormatInt(days, 10) + "D"
	if seconds != 0 || nanos != 0 {
		out += "T"
		if seconds == 0 && nanos < 0 {
			out += "-"
		}
		out += strconv.FormatInt(seconds, 10)
		if nanos != 0 {
			abs := nanos
			if abs < 0 {
				abs = -abs
			}
			out += "." + pad(abs, 9)
		}
		out += "S"
	}
	return out
}
