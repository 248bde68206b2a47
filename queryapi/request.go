// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	"bytes"
	"context"
	"net/http"

	json "github.com/goccy/go-json"
)

// AuthEncoder supplies the Authorization header value for a request.
// Session-level concerns (token refresh, basic vs. bearer, routing to a
// particular database) live in the caller's implementation; this package
// only needs the resulting header string.
type AuthEncoder interface {
	Authorization() (string, error)
}

// TxEnvelope contributes additional top-level fields to a request body -
// typically transaction metadata (an existing transaction id, bookmarks to
// wait on, a timeout) that sits above what this package models directly.
type TxEnvelope interface {
	MarshalEnvelope() (map[string]any, error)
}

// EncodeRequest builds the HTTP request for one query submission: a JSON
// body of {"statement", "includeCounters", "parameters"?, ...envelope
// fields}, with Content-Type, Accept, and (if auth is non-nil)
// Authorization headers set.
func (c *Codec) EncodeRequest(ctx context.Context, url, statement string, params map[string]any, includeCounters bool, auth AuthEncoder, tx TxEnvelope) (*http.Request, error) {
	encodedParams, err := c.EncodeParameters(params)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"statement":       statement,
		"includeCounters": includeCounters,
	}
	if encodedParams != nil {
		body["parameters"] = encodedParams
	}
	if tx != nil {
		envelope, err := tx.MarshalEnvelope()
		if err != nil {
			return nil, invalidInputError("encoding transaction envelope: %v", err)
		}
		for k, v := range envelope {
			body[k] = v
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, invalidInputError("encoding request body: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, serviceError(url, err)
	}
	req.Header.Set(HeaderContentType, MediaTypeBuffered)
	req.Header.Set(HeaderAccept, acceptHeader)

	if auth != nil {
		authz, err := auth.Authorization()
		if err != nil {
			return nil, invalidInputError("encoding authorization: %v", err)
		}
		if authz != "" {
			req.Header.Set(HeaderAuthorization, authz)
		}
	}

	return req, nil
}
