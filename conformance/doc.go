// Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package conformance provides canonical wire fixtures for the query
// protocol: one fixture per protocol feature (scalar tags, temporal tags,
// points, collections, graph entities, paths, counters, plans,
// notifications, failure documents), each renderable as both a buffered
// document and a line-delimited event stream.
//
// The fixtures serve two roles. In-process, the package's own tests decode
// every fixture's buffered document directly with a buffered reader, and
// drive its event stream through [queryapi.Client] against [NewHandler].
// Out of process, the cmd/queryapi-conformance-go binary
// serves the same handler over HTTP so implementations in other languages
// can decode the identical payloads.
package conformance
