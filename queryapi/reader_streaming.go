// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	"context"
	"io"
)

// StreamingReader wraps a line-delimited (jsonl) response body, decoding it
// lazily one event at a time. It enforces the event grammar: exactly one
// Header, then zero or more Record, then exactly one terminating Summary or
// Error. The first error encountered - a read failure, a malformed line, or
// an out-of-order event - latches: every later call returns it again.
type StreamingReader struct {
	codec  *Codec
	r      io.Reader
	framer *LineFramer

	pending [][]byte

	fields   []string
	keysRead bool

	summary  Summary
	metaRead bool

	err error
}

// NewStreamingReader wraps body for event-by-event decoding. body is not
// closed by the reader; the caller owns its lifecycle.
func (c *Codec) NewStreamingReader(body io.Reader) *StreamingReader {
	return &StreamingReader{codec: c, r: body, framer: NewLineFramer()}
}

// nextLine returns the next non-blank line, reading further from the body
// as needed. ok is false only at a clean end of stream.
func (s *StreamingReader) nextLine() (line []byte, ok bool, err error) {
	for {
		if len(s.pending) > 0 {
			next := s.pending[0]
			s.pending = s.pending[1:]
			if len(next) == 0 {
				continue
			}
			return next, true, nil
		}

		buf := make([]byte, 4096)
		n, readErr := s.r.Read(buf)
		if n > 0 {
			s.pending = append(s.pending, s.framer.Feed(buf[:n])...)
		}
		if readErr != nil {
			if readErr == io.EOF {
				if tail := s.framer.Flush(); tail != nil {
					s.pending = append(s.pending, tail)
					continue
				}
				if len(s.pending) > 0 {
					continue
				}
				return nil, false, nil
			}
			return nil, false, serviceError("", readErr)
		}
	}
}

func (s *StreamingReader) nextEvent() (Event, bool, error) {
	if s.err != nil {
		return Event{}, false, s.err
	}
	line, ok, err := s.nextLine()
	if err != nil {
		s.err = err
		return Event{}, false, err
	}
	if !ok {
		return Event{}, false, nil
	}
	ev, err := s.codec.parseEvent(line)
	if err != nil {
		s.err = err
		return Event{}, false, err
	}
	return ev, true, nil
}

// Keys reads and caches the Header event. Safe to call more than once; the
// underlying stream is only ever advanced past the header once.
func (s *StreamingReader) Keys() ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.keysRead {
		return s.fields, nil
	}
	ev, ok, err := s.nextEvent()
	if err != nil {
		return nil, err
	}
	if ok && ev.Kind == EventError {
		s.err = ev.Err
		return nil, s.err
	}
	if !ok || ev.Kind != EventHeader {
		e := protocolError("expected Header event at start of stream")
		s.err = e
		return nil, e
	}
	if ev.Fields == nil {
		e := protocolError("header event is missing its fields")
		s.err = e
		return nil, e
	}
	s.fields = ev.Fields
	s.keysRead = true
	return s.fields, nil
}

// Stream consumes Record events until the terminating Summary or Error,
// caching the summary for a later Meta call. It may only be consumed once;
// call Keys first if the header hasn't been read yet (Stream does so
// automatically).
func (s *StreamingReader) Stream(ctx context.Context) <-chan RowResult {
	ch := make(chan RowResult)
	go func() {
		defer close(ch)

		if !s.keysRead {
			if _, err := s.Keys(); err != nil {
				sendRowResult(ctx, ch, RowResult{Err: err})
				return
			}
		}

		for {
			ev, ok, err := s.nextEvent()
			if err != nil {
				sendRowResult(ctx, ch, RowResult{Err: err})
				return
			}
			if !ok {
				e := protocolError("stream ended before a Summary event")
				s.err = e
				sendRowResult(ctx, ch, RowResult{Err: e})
				return
			}
			switch ev.Kind {
			case EventRecord:
				if !sendRowResult(ctx, ch, RowResult{Row: Row{Values: ev.Record}}) {
					return
				}
			case EventSummary:
				s.summary = ev.Summary
				s.metaRead = true
				return
			case EventError:
				s.err = ev.Err
				sendRowResult(ctx, ch, RowResult{Err: ev.Err})
				return
			default:
				e := protocolError("unexpected %v event after Header", ev.Kind)
				s.err = e
				sendRowResult(ctx, ch, RowResult{Err: e})
				return
			}
		}
	}()
	return ch
}

func sendRowResult(ctx context.Context, ch chan<- RowResult, rr RowResult) bool {
	select {
	case <-ctx.Done():
		return false
	case ch <- rr:
		return true
	}
}

// Meta returns the terminating Summary, draining any unread Record events
// first if Stream was never called or wasn't consumed to completion.
func (s *StreamingReader) Meta(ctx context.Context) (Summary, error) {
	if s.err != nil {
		return Summary{}, s.err
	}
	if s.metaRead {
		return s.summary, nil
	}
	if !s.keysRead {
		if _, err := s.Keys(); err != nil {
			return Summary{}, err
		}
	}
	for {
		select {
		case <-ctx.Done():
			return Summary{}, ctx.Err()
		default:
		}
		ev, ok, err := s.nextEvent()
		if err != nil {
			return Summary{}, err
		}
		if !ok {
			e := protocolError("stream ended before a Summary event")
			s.err = e
			return Summary{}, e
		}
		switch ev.Kind {
		case EventRecord:
			continue
		case EventSummary:
			s.summary = ev.Summary
			s.metaRead = true
			return s.summary, nil
		case EventError:
			s.err = ev.Err
			return Summary{}, ev.Err
		default:
			e := protocolError("unexpected %v event after Header", ev.Kind)
			s.err = e
			return Summary{}, e
		}
	}
}
