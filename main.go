// ollamaterm - terminal chat for local Ollama models.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ollamaterm/internal/cli"
	"github.com/jeranaias/ollamaterm/internal/config"
	"github.com/jeranaias/ollamaterm/internal/index"
	"github.com/jeranaias/ollamaterm/internal/ollama"
	"github.com/jeranaias/ollamaterm/internal/storage"
	"github.com/jeranaias/ollamaterm/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	var err error
	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdAsk:
		err = cli.HandleAsk(args)
	case cli.CmdChat:
		err = cli.HandleChat(args)
	case cli.CmdModels:
		err = cli.HandleModels(args)
	case cli.CmdPull:
		err = cli.HandlePull(args)
	case cli.CmdRm:
		err = cli.HandleRm(args)
	case cli.CmdHistory:
		err = cli.HandleHistory(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// runTUI wires the config, store, search index, and API client into the
// Bubble Tea program.
func runTUI(args cli.Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if args.Model != "" {
		cfg.DefaultModel = args.Model
	}

	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL:      cfg.Ollama.URL,
		DefaultModel: cfg.DefaultModel,
	})

	var store *storage.ChatStore
	if cfg.History.Dir != "" {
		store, err = storage.NewChatStoreWithDir(cfg.History.Dir)
	} else {
		store, err = storage.NewChatStore()
	}
	if err != nil {
		return err
	}
	if cfg.History.MaxConversations > 0 {
		store.MaxConversations = cfg.History.MaxConversations
	}

	// Full-text search is optional; the TUI falls back to store scans
	var search *index.Index
	if cfg.History.SearchIndex {
		if path, err := index.DefaultPath(); err == nil {
			if ix, err := index.Open(path); err == nil {
				search = ix
				defer search.Close()
			}
		}
	}

	app := chat.New(chat.Options{
		Config: cfg,
		Client: client,
		Store:  store,
		Search: search,
	})

	program := tea.NewProgram(app, tea.WithAltScreen())

	// Config edits are handed to the Bubble Tea loop as a message; the
	// watcher goroutine never touches state the program reads.
	watcher, werr := config.NewWatcher(mustConfigPath(), func(updated *config.Config) {
		program.Send(chat.ConfigReloadedMsg{Config: updated})
	})
	if werr == nil {
		go watcher.Watch()
		defer watcher.Close()
	}
	_, err = program.Run()
	return err
}

func mustConfigPath() string {
	path, err := config.Path()
	if err != nil {
		return ""
	}
	return path
}
