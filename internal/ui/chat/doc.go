// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the ollamaterm TUI: a single Bubble Tea program
// with a main menu, streaming chat screen, history browser, and model
// pull/remove pages.
//
// Streaming responses arrive on a channel from the Ollama client and are
// batched through a rate-limited buffer so the viewport re-renders at a
// capped frame rate instead of once per token.
package chat
