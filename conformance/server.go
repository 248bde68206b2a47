// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package conformance

import (
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/neograph/queryapi-go/queryapi"
)

// NewHandler returns an http.Handler serving every fixture: a POST body's
// "statement" field selects the fixture, and the Accept header selects the
// response shape. A statement with no fixture is answered with a buffered
// error document, itself a well-formed protocol payload.
func NewHandler() http.Handler {
	byStatement := map[string]Fixture{}
	for _, f := range Fixtures() {
		byStatement[f.Statement] = f
	}
	errByStatement := map[string]ErrorFixture{}
	for _, f := range ErrorFixtures() {
		errByStatement[f.Statement] = f
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var body struct {
			Statement string `json:"statement"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		streaming := strings.Contains(r.Header.Get(queryapi.HeaderAccept), queryapi.MediaTypeStreaming)

		if ef, ok := errByStatement[body.Statement]; ok {
			if streaming {
				w.Header().Set(queryapi.HeaderContentType, queryapi.MediaTypeStreaming)
				io.WriteString(w, ef.StreamDocument())
				return
			}
			w.Header().Set(queryapi.HeaderContentType, queryapi.MediaTypeBuffered)
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, ef.BufferedDocument())
			return
		}

		f, ok := byStatement[body.Statement]
		if !ok {
			w.Header().Set(queryapi.HeaderContentType, queryapi.MediaTypeBuffered)
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, ErrorFixture{
				Code:    "Neo.ClientError.Statement.SyntaxError",
				Message: "no conformance fixture named " + body.Statement,
			}.BufferedDocument())
			return
		}

		if streaming {
			w.Header().Set(queryapi.HeaderContentType, queryapi.MediaTypeStreaming)
			io.WriteString(w, f.StreamDocument())
			return
		}
		w.Header().Set(queryapi.HeaderContentType, queryapi.MediaTypeBuffered)
		io.WriteString(w, f.BufferedDocument())
	})
}
