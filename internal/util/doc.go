// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for ollamaterm: atomic file
// writes used by conversation storage, and rune/width-safe string helpers
// used by the reflow engine and table rendering.
package util
