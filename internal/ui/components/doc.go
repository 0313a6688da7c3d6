// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the ollamaterm
// TUI: the response panel, model and history tables, loading spinner, and
// download progress display.
package components
