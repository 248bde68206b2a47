// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	"strconv"
	"strings"
)

// parseDate parses the canonical "[±]YYYY-MM-DD" form. The optional leading
// sign is concatenated with the year digits before integer parsing, so a
// BCE-style negative year round-trips exactly.
func (c *Codec) parseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, protocolError("empty Date value")
	}
	rest := s
	sign := ""
	if rest[0] == '+' || rest[0] == '-' {
		sign = string(rest[0])
		rest = rest[1:]
	}
	parts := strings.Split(rest, "-")
	if len(parts) != 3 {
		return Date{}, protocolError("malformed Date value %q", s)
	}
	year, err := strconv.ParseInt(sign+parts[0], 10, 64)
	if err != nil {
		return Date{}, protocolError("malformed Date year in %q: %v", s, err)
	}
	month, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Date{}, protocolError("malformed Date month in %q: %v", s, err)
	}
	day, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Date{}, protocolError("malformed Date day in %q: %v", s, err)
	}
	return Date{
		Year:  c.decodeIntegerField(year),
		Month: c.decodeIntegerField(month),
		Day:   c.decodeIntegerField(day),
	}, nil
}

func (d Date) format() string {
	y, _ := intFieldValue(d.Year)
	m, _ := intFieldValue(d.Month)
	dy, _ := intFieldValue(d.Day)
	sign := ""
	if y < 0 {
		sign = "-"
		y = -y
	}
	return sign + pad(y, 4) + "-" + pad(m, 2) + "-" + pad(dy, 2)
}

// parseLocalTime parses "HH:MM:SS[.fffffffff]" with no offset.
func (c *Codec) parseLocalTime(s string) (LocalTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return LocalTime{}, protocolError("malformed LocalTime value %q", s)
	}
	hour, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return LocalTime{}, protocolError("malformed LocalTime hour in %q: %v", s, err)
	}
	minute, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return LocalTime{}, protocolError("malformed LocalTime minute in %q: %v", s, err)
	}
	secStr, fracStr, _, _ := splitSecondsFragment(parts[2])
	secStr = truncate(secStr, 2)
	sec, err := strconv.ParseInt(secStr, 10, 64)
	if err != nil {
		return LocalTime{}, protocolError("malformed LocalTime seconds in %q: %v", s, err)
	}
	nanos, err := parseNanoFraction(fracStr)
	if err != nil {
		return LocalTime{}, protocolError("malformed LocalTime fraction in %q: %v", s, err)
	}
	return LocalTime{
		Hour:       c.decodeIntegerField(hour),
		Minute:     c.decodeIntegerField(minute),
		Second:     c.decodeIntegerField(sec),
		Nanosecond: c.decodeIntegerField(nanos),
	}, nil
}

func (lt LocalTime) format() string {
	h, _ := intFieldValue(lt.Hour)
	m, _ := intFieldValue(lt.Minute)
	s, _ := intFieldValue(lt.Second)
	n, _ := intFieldValue(lt.Nanosecond)
	out := pad(h, 2) + ":" + pad(m, 2) + ":" + pad(s, 2)
	if n != 0 {
		out += "." + padRightZeros9(n)
	}
	return out
}

// timeParseResult is the ambiguous outcome of parsing a Time wire payload:
// the grammar decodes to a Time when an offset is present in the text, and
// to a LocalTime (offset absent) otherwise.
type timeParseResult struct {
	local  LocalTime
	offset *int64
}

// parseTime implements the full Time grammar from the package's scalar
// parsers: split on ':', the third fragment holds seconds, optional
// nanoseconds, and an optional offset searched for within whichever of
// (fraction, seconds) is present.
func (c *Codec) parseTime(s string) (timeParseResult, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return timeParseResult{}, protocolError("malformed Time value %q", s)
	}
	hour, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return timeParseResult{}, protocolError("malformed Time hour in %q: %v", s, err)
	}
	minute, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return timeParseResult{}, protocolError("malformed Time minute in %q: %v", s, err)
	}
	// Re-join any remaining fragments (an offset containing ':' splits the
	// original string into more than 3 colon-separated parts).
	thirdAndRest := strings.Join(parts[2:], ":")

	secStr, fracStr, offsetStr, hasFrac := splitSecondsFragment(thirdAndRest)
	secStr = truncate(secStr, 2)
	sec, err := strconv.ParseInt(secStr, 10, 64)
	if err != nil {
		return timeParseResult{}, protocolError("malformed Time seconds in %q: %v", s, err)
	}
	var nanos int64
	if hasFrac {
		nanos, err = parseNanoFraction(fracStr)
		if err != nil {
			return timeParseResult{}, protocolError("malformed Time fraction in %q: %v", s, err)
		}
	}

	local := LocalTime{
		Hour:       c.decodeIntegerField(hour),
		Minute:     c.decodeIntegerField(minute),
		Second:     c.decodeIntegerField(sec),
		Nanosecond: c.decodeIntegerField(nanos),
	}

	if offsetStr == "" {
		return timeParseResult{local: local}, nil
	}
	offset, err := parseOffsetSeconds(offsetStr)
	if err != nil {
		return timeParseResult{}, protocolError("malformed Time offset in %q: %v", s, err)
	}
	return timeParseResult{local: local, offset: &offset}, nil
}

func (t Time) format() string {
	off, _ := intFieldValue(t.OffsetSeconds)
	return t.LocalTime.format() + formatOffset(off)
}

// parseLocalDateTime parses "date 'T' localTime".
func (c *Codec) parseLocalDateTime(s string) (LocalDateTime, error) {
	dateStr, timeStr, ok := strings.Cut(s, "T")
	if !ok {
		return LocalDateTime{}, protocolError("malformed LocalDateTime value %q", s)
	}
	date, err := c.parseDate(dateStr)
	if err != nil {
		return LocalDateTime{}, err
	}
	lt, err := c.parseLocalTime(timeStr)
	if err != nil {
		return LocalDateTime{}, err
	}
	return LocalDateTime{Date: date, LocalTime: lt}, nil
}

func (ldt LocalDateTime) format() string {
	return ldt.Date.format() + "T" + ldt.LocalTime.format()
}

// parseOffsetDateTime parses "date 'T' time"; if the time portion carries
// an offset, the result is a DateTime, otherwise a LocalDateTime.
func (c *Codec) parseOffsetDateTime(s string) (dt *DateTime, ldt *LocalDateTime, err error) {
	dateStr, timeStr, ok := strings.Cut(s, "T")
	if !ok {
		return nil, nil, protocolError("malformed OffsetDateTime value %q", s)
	}
	date, err := c.parseDate(dateStr)
	if err != nil {
		return nil, nil, err
	}
	tr, err := c.parseTime(timeStr)
	if err != nil {
		return nil, nil, err
	}
	if tr.offset == nil {
		return nil, &LocalDateTime{Date: date, LocalTime: tr.local}, nil
	}
	return &DateTime{
		Date:          date,
		LocalTime:     tr.local,
		OffsetSeconds: c.decodeIntegerField(*tr.offset),
	}, nil, nil
}

// parseZonedDateTime parses "offsetDateTime '[' zoneId ']'". It always
// produces a DateTime; the inner offset is carried when present, and the
// zone id is always set.
func (c *Codec) parseZonedDateTime(s string) (DateTime, error) {
	body, bracket, ok := strings.Cut(s, "[")
	if !ok || !strings.HasSuffix(bracket, "]") {
		return DateTime{}, protocolError("malformed ZonedDateTime value %q", s)
	}
	zoneID := strings.TrimSuffix(bracket, "]")
	dt, ldt, err := c.parseOffsetDateTime(body)
	if err != nil {
		return DateTime{}, err
	}
	if dt != nil {
		dt.ZoneID = &zoneID
		return *dt, nil
	}
	zid := zoneID
	return DateTime{Date: ldt.Date, LocalTime: ldt.LocalTime, ZoneID: &zid}, nil
}

func (dt DateTime) format() string {
	out := dt.Date.format() + "T" + dt.LocalTime.format()
	if dt.OffsetSeconds != nil {
		off, _ := intFieldValue(dt.OffsetSeconds)
		out += formatOffset(off)
	}
	if dt.ZoneID != nil {
		out += "[" + *dt.ZoneID + "]"
	}
	return out
}

// --- shared helpers ---

// splitSecondsFragment splits the "SS[.fffffffff][offset]" tail of a Time
// payload. If a '.' is present, nanoseconds are searched for an offset
// marker first; otherwise the seconds text itself is searched.
func splitSecondsFragment(fragment string) (secStr, fracStr, offsetStr string, hasFrac bool) {
	dotIdx := strings.IndexByte(fragment, '.')
	if dotIdx < 0 {
		secStr, offsetStr = splitOffsetMarker(fragment)
		return secStr, "", offsetStr, false
	}
	secStr = fragment[:dotIdx]
	tail := fragment[dotIdx+1:]
	fracStr, offsetStr = splitOffsetMarker(tail)
	return secStr, fracStr, offsetStr, true
}

// splitOffsetMarker finds the first '+', '-', or 'Z' in s and splits there.
func splitOffsetMarker(s string) (before, marker string) {
	idx := strings.IndexAny(s, "+-Z")
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx:]
}

func parseNanoFraction(fracStr string) (int64, error) {
	if fracStr == "" {
		return 0, nil
	}
	return strconv.ParseInt(padRightZerosTo(fracStr, 9), 10, 64)
}

func parseOffsetSeconds(s string) (int64, error) {
	if s == "Z" {
		return 0, nil
	}
	if s == "" {
		return 0, protocolError("empty offset")
	}
	sign := int64(1)
	if s[0] == '-' {
		sign = -1
	} else if s[0] != '+' {
		return 0, protocolError("offset %q missing sign", s)
	}
	rest := s[1:]
	parts := strings.Split(rest, ":")
	hours, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, err
	}
	var minutes int64
	if len(parts) > 1 {
		minutes, err = strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return 0, err
		}
	}
	return sign * (hours*3600 + minutes*60), nil
}

func formatOffset(seconds int64) string {
	if seconds == 0 {
		return "Z"
	}
	sign := "+"
	s := seconds
	if s < 0 {
		sign = "-"
		s = -s
	}
	hours := s / 3600
	minutes := (s % 3600) / 60
	return sign + pad(hours, 2) + ":" + pad(minutes, 2)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func pad(v int64, width int) string {
	s := strconv.FormatInt(v, 10)
	for len(s) < width {
		s = "0" + s
	}
	return s
}

func padRightZerosTo(s string, width int) string {
	for len(s) < width {
		s += "0"
	}
	if len(s) > width {
		s = s[:width]
	}
	return s
}

func padRightZeros9(n int64) string {
	return pad(n, 9)
}
