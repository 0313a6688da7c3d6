// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package index maintains a SQLite full-text index over saved conversations
// so history search does not have to load and scan every JSON file. The
// index is derivative state: it can always be rebuilt from the chat store.
package index
