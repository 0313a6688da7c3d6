// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"
	"time"
)

func TestStreamingBufferAccumulates(t *testing.T) {
	buf := NewStreamingBuffer(10)
	buf.Write("hello")
	buf.Write(" ")
	buf.Write("world")

	if got := buf.Len(); got != 11 {
		t.Errorf("Len() = %d, want 11", got)
	}

	content := buf.Drain()
	if content != "hello world" {
		t.Errorf("Drain() = %q, want %q", content, "hello world")
	}
	if buf.Len() != 0 {
		t.Errorf("Len() after Drain = %d, want 0", buf.Len())
	}
}

func TestStreamingBufferFlushRateLimited(t *testing.T) {
	buf := NewStreamingBuffer(1) // one flush per second

	buf.Write("first")
	content, ok := buf.Flush()
	if !ok {
		t.Fatal("first Flush() should be allowed")
	}
	if content != "first" {
		t.Errorf("Flush() = %q, want %q", content, "first")
	}

	// Immediately after, the limiter should hold the next flush back.
	buf.Write("second")
	if _, ok := buf.Flush(); ok {
		t.Error("second Flush() within the same interval should be denied")
	}

	// The written content must survive a denied flush.
	if got := buf.Drain(); got != "second" {
		t.Errorf("Drain() after denied flush = %q, want %q", got, "second")
	}
}

func TestStreamingBufferFlushEmpty(t *testing.T) {
	buf := NewStreamingBuffer(10)
	if content, ok := buf.Flush(); ok || content != "" {
		t.Errorf("Flush() on empty buffer = (%q, %v), want (\"\", false)", content, ok)
	}
}

func TestStreamingBufferDrainUnconditional(t *testing.T) {
	buf := NewStreamingBuffer(1)
	buf.Write("a")
	buf.Flush() // consume the limiter token

	buf.Write("b")
	// Drain must not be rate limited.
	if got := buf.Drain(); got != "b" {
		t.Errorf("Drain() = %q, want %q", got, "b")
	}
}

func TestStreamingBufferClampsInvalidFPS(t *testing.T) {
	for _, fps := range []int{0, -5, 1000} {
		buf := NewStreamingBuffer(fps)
		buf.Write("x")
		if got := buf.Drain(); got != "x" {
			t.Errorf("NewStreamingBuffer(%d) buffer broken: Drain() = %q", fps, got)
		}
	}
}

func TestStreamingBufferAllowsFlushAfterInterval(t *testing.T) {
	buf := NewStreamingBuffer(50)
	buf.Write("a")
	buf.Flush()

	time.Sleep(30 * time.Millisecond)

	buf.Write("b")
	if _, ok := buf.Flush(); !ok {
		t.Error("Flush() after the refresh interval should be allowed")
	}
}

func TestStreamingBufferLongContent(t *testing.T) {
	buf := NewStreamingBuffer(10)
	token := strings.Repeat("x", 1024)
	for i := 0; i < 100; i++ {
		buf.Write(token)
	}
	if got := buf.Len(); got != 100*1024 {
		t.Errorf("Len() = %d, want %d", got, 100*1024)
	}
}
