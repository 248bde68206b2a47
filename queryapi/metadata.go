// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

// Media types recognized on request/response Content-Type and negotiated
// via Accept.
const (
	// MediaTypeBuffered is the single-JSON-document response/request shape.
	MediaTypeBuffered = "application/vnd.neo4j.query"
	// MediaTypeStreaming is the line-delimited JSON event-stream shape.
	MediaTypeStreaming = "application/vnd.neo4j.query+jsonl"
	// MediaTypeJSON is the generic fallback accepted as a buffered document.
	MediaTypeJSON = "application/json"
)

// HTTP header names used by the request encoder.
const (
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderAuthorization = "Authorization"
)

// acceptHeader is the Accept preference list: streaming first, then
// buffered, then the generic JSON fallback.
const acceptHeader = MediaTypeStreaming + ", " + MediaTypeBuffered + ", " + MediaTypeJSON
