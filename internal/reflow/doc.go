// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reflow wraps arbitrary response text to a terminal column width
// while preserving structural intent: box-drawing tables keep their cell
// boundaries, code blocks keep their indentation, and prose is word-filled.
//
// The engine is a pure function of (text, width). It holds no state, does
// no I/O beyond optional terminal-width detection, and never fails: any
// input degrades to a best-effort wrap rather than an error.
package reflow
