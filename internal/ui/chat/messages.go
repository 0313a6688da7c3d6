// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file defines the Bubble Tea message types used by the TUI:
// streaming chunk delivery, model list loading, pull progress, history
// loading, and error reporting.
package chat

import (
	"github.com/jeranaias/ollamaterm/internal/config"
	"github.com/jeranaias/ollamaterm/internal/ollama"
	"github.com/jeranaias/ollamaterm/internal/storage"
)

// ConfigReloadedMsg delivers a freshly loaded config, e.g. after the file
// watcher sees an edit. Sent from outside the program via Program.Send so
// the update happens on the Bubble Tea loop rather than racing it.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// streamChunkMsg delivers the next chunk from an in-flight chat stream.
type streamChunkMsg struct {
	chunk ollama.StreamChunk
	ch    <-chan ollama.StreamChunk
}

// streamClosedMsg signals that the stream channel was closed.
type streamClosedMsg struct{}

// flushTickMsg drives periodic viewport refreshes while streaming.
type flushTickMsg struct{}

// =============================================================================
// MODEL MESSAGES
// =============================================================================

// modelsLoadedMsg delivers the installed model list.
type modelsLoadedMsg struct {
	models []ollama.ModelInfo
	err    error
}

// pullProgressMsg delivers a progress update from an in-flight pull.
type pullProgressMsg struct {
	progress ollama.PullProgress
	ch       <-chan ollama.PullProgress
}

// pullDoneMsg signals that a pull finished.
type pullDoneMsg struct {
	model string
	err   error
}

// deleteDoneMsg signals that a model delete finished.
type deleteDoneMsg struct {
	model string
	err   error
}

// =============================================================================
// HISTORY MESSAGES
// =============================================================================

// historyLoadedMsg delivers the saved conversation list.
type historyLoadedMsg struct {
	metas []storage.ConversationMeta
	err   error
}

// conversationLoadedMsg delivers a full conversation for viewing or resume.
type conversationLoadedMsg struct {
	conv *storage.StoredConversation
	err  error
}

// savedMsg signals that the active conversation was persisted.
type savedMsg struct {
	id  string
	err error
}

// =============================================================================
// GENERAL MESSAGES
// =============================================================================

// errMsg reports a background error for the status line.
type errMsg struct {
	err error
}

// statusMsg sets a transient status line message.
type statusMsg struct {
	text string
}
