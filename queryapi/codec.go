// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package queryapi

// Codec decodes and encodes tagged wire values under a fixed
// [IntegerMode]. It is stateless beyond that mode and safe for concurrent
// use by multiple requests.
type Codec struct {
	mode IntegerMode
}

// CodecOption configures a [Codec] built by [NewCodec].
type CodecOption func(*Codec)

// WithIntegerMode sets the representation used for every integer-bearing
// field this codec decodes. The default is [IntegerModeLossless].
func WithIntegerMode(mode IntegerMode) CodecOption {
	return func(c *Codec) { c.mode = mode }
}

// NewCodec builds a [Codec] with the given options applied.
func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{mode: IntegerModeLossless}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IntegerMode reports the mode this codec was built with.
func (c *Codec) IntegerMode() IntegerMode { return c.mode }
