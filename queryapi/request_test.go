// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
)

type staticAuth struct {
	value string
	err   error
}

func (a staticAuth) Authorization() (string, error) { return a.value, a.err }

type staticEnvelope struct {
	fields map[string]any
	err    error
}

func (e staticEnvelope) MarshalEnvelope() (map[string]any, error) { return e.fields, e.err }

func decodeRequestBody(t *testing.T, req *http.Request) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("reading request body: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("request body is not valid JSON: %v\n%s", err, raw)
	}
	return body
}

func TestEncodeRequest(t *testing.T) {
	c := NewCodec()

	req, err := c.EncodeRequest(context.Background(), "http://db.example/query", "RETURN 1", nil, true, nil, nil)
	if err != nil {
		t.Fatalf("EncodeRequest returned error: %v", err)
	}

	if req.Method != http.MethodPost {
		t.Errorf("Method = %q", req.Method)
	}
	if got := req.Header.Get(HeaderContentType); got != MediaTypeBuffered {
		t.Errorf("Content-Type = %q", got)
	}
	if got := req.Header.Get(HeaderAccept); got != acceptHeader {
		t.Errorf("Accept = %q", got)
	}
	if got := req.Header.Get(HeaderAuthorization); got != "" {
		t.Errorf("Authorization = %q, expected unset", got)
	}

	body := decodeRequestBody(t, req)
	if body["statement"] != "RETURN 1" {
		t.Errorf("statement = %v", body["statement"])
	}
	if body["includeCounters"] != true {
		t.Errorf("includeCounters = %v", body["includeCounters"])
	}
	if _, present := body["parameters"]; present {
		t.Error("parameters present for a nil parameter map")
	}
}

func TestEncodeRequestParameters(t *testing.T) {
	c := NewCodec()

	req, err := c.EncodeRequest(context.Background(), "http://db.example/query", "RETURN $n", map[string]any{"n": "hi"}, false, nil, nil)
	if err != nil {
		t.Fatalf("EncodeRequest returned error: %v", err)
	}

	body := decodeRequestBody(t, req)
	params, ok := body["parameters"].(map[string]any)
	if !ok {
		t.Fatalf("parameters = %#v", body["parameters"])
	}
	expected := map[string]any{"$type": "String", "_value": "hi"}
	if !reflect.DeepEqual(params["n"], expected) {
		t.Errorf("parameters.n = %#v", params["n"])
	}
	if body["includeCounters"] != false {
		t.Errorf("includeCounters = %v", body["includeCounters"])
	}
}

func TestEncodeRequestAuthorization(t *testing.T) {
	c := NewCodec()

	req, err := c.EncodeRequest(context.Background(), "http://db.example/query", "RETURN 1", nil, false, staticAuth{value: "Bearer tok"}, nil)
	if err != nil {
		t.Fatalf("EncodeRequest returned error: %v", err)
	}
	if got := req.Header.Get(HeaderAuthorization); got != "Bearer tok" {
		t.Errorf("Authorization = %q", got)
	}

	// An encoder that yields an empty string leaves the header unset.
	req, err = c.EncodeRequest(context.Background(), "http://db.example/query", "RETURN 1", nil, false, staticAuth{}, nil)
	if err != nil {
		t.Fatalf("EncodeRequest returned error: %v", err)
	}
	if got := req.Header.Get(HeaderAuthorization); got != "" {
		t.Errorf("Authorization = %q, expected unset", got)
	}

	_, err = c.EncodeRequest(context.Background(), "http://db.example/query", "RETURN 1", nil, false, staticAuth{err: errors.New("no token")}, nil)
	if err == nil {
		t.Fatal("expected error from failing auth encoder")
	}
}

func TestEncodeRequestTxEnvelope(t *testing.T) {
	c := NewCodec()

	tx := staticEnvelope{fields: map[string]any{
		"maxExecutionTime": float64(30),
		"bookmarks":        []any{"bm1"},
	}}
	req, err := c.EncodeRequest(context.Background(), "http://db.example/query", "RETURN 1", nil, false, nil, tx)
	if err != nil {
		t.Fatalf("EncodeRequest returned error: %v", err)
	}

	body := decodeRequestBody(t, req)
	if body["maxExecutionTime"] != float64(30) {
		t.Errorf("maxExecutionTime = %v", body["maxExecutionTime"])
	}
	if !reflect.DeepEqual(body["bookmarks"], []any{"bm1"}) {
		t.Errorf("bookmarks = %#v", body["bookmarks"])
	}
	// The envelope sits beside the statement, not instead of it.
	if body["statement"] != "RETURN 1" {
		t.Errorf("statement = %v", body["statement"])
	}

	_, err = c.EncodeRequest(context.Background(), "http://db.example/query", "RETURN 1", nil, false, nil, staticEnvelope{err: errors.New("bad tx")})
	if err == nil {
		t.Fatal("expected error from failing envelope")
	}
}

func TestEncodeRequestBadParameter(t *testing.T) {
	c := NewCodec()

	_, err := c.EncodeRequest(context.Background(), "http://db.example/query", "RETURN $n", map[string]any{"n": make(chan int)}, false, nil, nil)
	if err == nil {
		t.Fatal("expected error for an unencodable parameter")
	}
	var qerr *Error
	if !errors.As(err, &qerr) || qerr.Code != CodeInvalidInput {
		t.Errorf("error = %v, expected invalid input", err)
	}
}

func TestAcceptHeaderOrdering(t *testing.T) {
	// Streaming is preferred, buffered next, plain JSON last.
	parts := strings.Split(acceptHeader, ", ")
	expected := []string{MediaTypeStreaming, MediaTypeBuffered, MediaTypeJSON}
	if !reflect.DeepEqual(parts, expected) {
		t.Errorf("accept header = %#v", parts)
	}
}
