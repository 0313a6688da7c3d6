// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists chat conversations as JSON files under the
// ollamaterm data directory. Writes are atomic so a crash mid-save never
// corrupts an existing conversation.
package storage
