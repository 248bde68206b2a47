// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// Client is a thin, optional convenience wrapper around [Codec]: it builds
// a request with [Codec.EncodeRequest], executes it with an *http.Client,
// and hands the response to [Codec.Dispatch]. Session orchestration
// (transactions, retries, routing, bookmark bookkeeping) is expected to
// live above this package.
type Client struct {
	codec      *Codec
	httpClient *http.Client
	hook       DispatchHook
	logger     *slog.Logger
}

// ClientOption configures a [Client] built by [NewClient].
type ClientOption func(*Client)

// WithHTTPClient overrides the *http.Client used to execute requests. The
// default is http.DefaultClient.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(cl *Client) { cl.httpClient = hc }
}

// WithDispatchHook attaches observability callbacks around every request.
func WithDispatchHook(hook DispatchHook) ClientOption {
	return func(cl *Client) { cl.hook = hook }
}

// WithLogger attaches a structured logger for dispatch start/end and
// protocol-error diagnostics. When unset the client does not log.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(cl *Client) { cl.logger = logger }
}

// NewClient builds a Client bound to codec.
func NewClient(codec *Codec, opts ...ClientOption) *Client {
	cl := &Client{codec: codec, httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(cl)
	}
	return cl
}

// Query submits one statement against url and returns the resulting
// [Response]. auth and tx may be nil.
func (cl *Client) Query(ctx context.Context, url, statement string, params map[string]any, includeCounters bool, auth AuthEncoder, tx TxEnvelope) (Response, error) {
	info := DispatchInfo{RequestID: uuid.NewString(), URL: url}
	stats := &TransferStats{}

	var token HookToken
	if cl.hook != nil {
		ctx, token = cl.hook.OnDispatchStart(ctx, info)
	}
	cl.log(ctx, slog.LevelDebug, "dispatching query", "request_id", info.RequestID, "url", url)

	req, err := cl.codec.EncodeRequest(ctx, url, statement, params, includeCounters, auth, tx)
	if err != nil {
		cl.endHook(ctx, token, info, stats, err)
		return nil, err
	}

	resp, err := cl.httpClient.Do(req)
	if err != nil {
		se := serviceError(url, err)
		cl.log(ctx, slog.LevelError, "query dispatch failed", "request_id", info.RequestID, "err", se)
		cl.endHook(ctx, token, info, stats, se)
		return nil, se
	}

	info.ResponseShape = DispatchShape(resp)
	response, err := cl.codec.Dispatch(resp)
	if err != nil {
		cl.log(ctx, slog.LevelError, "response rejected", "request_id", info.RequestID, "err", err)
		cl.endHook(ctx, token, info, stats, err)
		return nil, err
	}
	cl.log(ctx, slog.LevelDebug, "response accepted", "request_id", info.RequestID, "shape", info.ResponseShape)

	if cl.hook == nil {
		return response, nil
	}
	return &instrumentedResponse{
		Response: response,
		hook:     cl.hook,
		ctx:      ctx,
		token:    token,
		info:     info,
		stats:    stats,
		body:     resp.Body,
	}, nil
}

func (cl *Client) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if cl.logger != nil {
		cl.logger.Log(ctx, level, msg, args...)
	}
}

func (cl *Client) endHook(ctx context.Context, token HookToken, info DispatchInfo, stats *TransferStats, err error) {
	if cl.hook != nil {
		cl.hook.OnDispatchEnd(ctx, token, info, stats, err)
	}
}

// instrumentedResponse wraps a [Response] to drive [DispatchHook]'s
// OnDispatchEnd exactly once, at the point the caller reaches the terminal
// Summary (or an error), and to close the underlying response body once
// that point is reached.
type instrumentedResponse struct {
	Response
	hook  DispatchHook
	ctx   context.Context
	token HookToken
	info  DispatchInfo
	stats *TransferStats
	body  io.Closer

	ended bool
}

func (r *instrumentedResponse) Stream(ctx context.Context) <-chan RowResult {
	upstream := r.Response.Stream(ctx)
	out := make(chan RowResult)
	go func() {
		defer close(out)
		for rr := range upstream {
			if rr.Err == nil {
				r.stats.RecordRow()
			} else {
				r.finish(rr.Err)
			}
			select {
			case <-ctx.Done():
				return
			case out <- rr:
			}
		}
		r.finish(nil)
	}()
	return out
}

func (r *instrumentedResponse) Meta(ctx context.Context) (Summary, error) {
	summary, err := r.Response.Meta(ctx)
	r.finish(err)
	return summary, err
}

func (r *instrumentedResponse) finish(err error) {
	if r.ended {
		return
	}
	r.ended = true
	if r.body != nil {
		r.body.Close()
	}
	r.hook.OnDispatchEnd(r.ctx, r.token, r.info, r.stats, err)
}
