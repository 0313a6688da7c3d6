// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for the local Ollama API.
//
// The client covers the operations ollamaterm needs: health checking (with
// best-effort startup of "ollama serve" when the daemon is down), model
// listing and inspection, model pull and removal, and chat in both
// one-shot and streaming forms. Streaming responses are line-delimited
// JSON; StreamReader parses them and StreamAccumulator collects content
// and timing statistics for display.
//
// All requests honor context cancellation. Errors are typed ClientError
// values with sentinel instances for the common cases (daemon not running,
// model not found, timeout) so callers can branch with errors.Is.
package ollama
