// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"time"

	"github.com/jeranaias/ollamaterm/internal/config"
	"github.com/jeranaias/ollamaterm/internal/index"
	"github.com/jeranaias/ollamaterm/internal/ollama"
	"github.com/jeranaias/ollamaterm/internal/storage"
)

// newClient builds an API client from the loaded configuration.
func newClient(cfg *config.Config) *ollama.Client {
	return ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL:      cfg.Ollama.URL,
		Timeout:      time.Duration(cfg.Ollama.TimeoutSecs) * time.Second,
		DefaultModel: cfg.DefaultModel,
	})
}

// newStore builds the conversation store from the loaded configuration.
func newStore(cfg *config.Config) (*storage.ChatStore, error) {
	var store *storage.ChatStore
	var err error
	if cfg.History.Dir != "" {
		store, err = storage.NewChatStoreWithDir(cfg.History.Dir)
	} else {
		store, err = storage.NewChatStore()
	}
	if err != nil {
		return nil, err
	}
	if cfg.History.MaxConversations > 0 {
		store.MaxConversations = cfg.History.MaxConversations
	}
	return store, nil
}

// openSearchIndex opens the full-text index when enabled. A nil index with
// a nil error means search is disabled; callers fall back to scanning.
func openSearchIndex(cfg *config.Config) (*index.Index, error) {
	if !cfg.History.SearchIndex {
		return nil, nil
	}
	path, err := index.DefaultPath()
	if err != nil {
		return nil, err
	}
	return index.Open(path)
}

// confirm asks a yes/no question on the terminal. Returns false when stdin
// is not a TTY.
func confirm(question string) bool {
	if !IsTTY() {
		return false
	}
	fmt.Printf("%s [y/N] ", question)
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y" || answer == "yes"
}
