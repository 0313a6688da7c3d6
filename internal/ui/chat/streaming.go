// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// =============================================================================
// STREAMING BUFFER
// =============================================================================

// StreamingBuffer batches streamed tokens so the viewport re-renders at a
// capped frame rate instead of once per token. Tokens accumulate in the
// buffer; Flush hands them over only when the rate limiter permits, or
// unconditionally via Drain at end of stream.
//
// Thread-safety: tokens arrive from the stream-reading command while
// flushes happen in the Bubble Tea update loop, so all operations lock.
type StreamingBuffer struct {
	mu      sync.Mutex
	buffer  strings.Builder
	limiter *rate.Limiter
}

// NewStreamingBuffer creates a buffer that allows maxFPS flushes per second.
func NewStreamingBuffer(maxFPS int) *StreamingBuffer {
	if maxFPS <= 0 || maxFPS > 60 {
		maxFPS = 10
	}
	return &StreamingBuffer{
		limiter: rate.NewLimiter(rate.Limit(maxFPS), 1),
	}
}

// Write adds a token to the buffer.
func (sb *StreamingBuffer) Write(token string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.WriteString(token)
}

// Flush returns accumulated content when the rate limiter allows a render.
// Returns ("", false) when the buffer is empty or a flush would exceed the
// frame cap.
func (sb *StreamingBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}
	if !sb.limiter.Allow() {
		return "", false
	}

	content := sb.buffer.String()
	sb.buffer.Reset()
	return content, true
}

// Drain returns all buffered content regardless of the frame cap. Called
// once when the stream completes so no trailing tokens are lost.
func (sb *StreamingBuffer) Drain() string {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	content := sb.buffer.String()
	sb.buffer.Reset()
	return content
}

// Len returns the number of buffered bytes.
func (sb *StreamingBuffer) Len() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.buffer.Len()
}
