// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the non-TUI command surface of ollamaterm:
// argument parsing, one-shot queries, the line-based chat REPL, model
// management, and history commands.
//
// The package is deliberately flag-package-free: commands are parsed with
// a small unified parser so every subcommand handles --flag value,
// --flag=value, and boolean flags the same way.
package cli
