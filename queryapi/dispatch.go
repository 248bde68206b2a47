// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	"bytes"
	"io"
	"mime"
	"net/http"
)

// Dispatch inspects resp's Content-Type and returns the matching Response
// implementation: a [StreamingReader] for the jsonl media type, or a
// [BufferedReader] for the single-document media type (and, leniently,
// plain "application/json"). resp.Body is fully read here for a buffered
// response; for a streaming response it is left open, is not closed by the
// returned [StreamingReader], and stays the caller's to close.
func (c *Codec) Dispatch(resp *http.Response) (Response, error) {
	contentType := resp.Header.Get(HeaderContentType)
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = contentType
	}

	switch mediaType {
	case MediaTypeStreaming:
		return c.NewStreamingReader(resp.Body), nil
	case MediaTypeBuffered, MediaTypeJSON, "":
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, serviceError(requestURL(resp), err)
		}
		if len(bytes.TrimSpace(body)) == 0 {
			body = []byte("{}")
		}
		return c.NewBufferedReader(body)
	default:
		return nil, protocolError("unsupported response content-type %q", contentType)
	}
}

// DispatchShape reports the response-shape constant Dispatch would select
// for resp, for callers that need it before calling Dispatch (e.g. to
// populate a [DispatchInfo]).
func DispatchShape(resp *http.Response) string {
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get(HeaderContentType))
	if mediaType == MediaTypeStreaming {
		return DispatchShapeStreaming
	}
	return DispatchShapeBuffered
}

func requestURL(resp *http.Response) string {
	if resp.Request == nil || resp.Request.URL == nil {
		return ""
	}
	return resp.Request.URL.String()
}
