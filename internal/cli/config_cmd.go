// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration commands.
//
// Subcommands:
//   config show             Print the active configuration
//   config path             Print the config file location
//   config set <key> <val>  Set a value and save

package cli

import (
	"fmt"
	"strconv"

	"github.com/jeranaias/ollamaterm/internal/config"
	"github.com/jeranaias/ollamaterm/internal/ui/styles"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) error {
	parser := NewArgParser(args.Raw)

	switch parser.Subcommand() {
	case "", "show":
		return configShow()
	case "path":
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case "set":
		return configSet(parser.Positional(1), parser.Positional(2))
	default:
		return fmt.Errorf("unknown config subcommand %q", parser.Subcommand())
	}
}

func configShow() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("model               %s\n", cfg.DefaultModel)
	fmt.Printf("ollama.url          %s\n", cfg.Ollama.URL)
	fmt.Printf("ollama.timeout      %ds\n", cfg.Ollama.TimeoutSecs)
	fmt.Printf("ui.theme            %s\n", cfg.UI.Theme)
	fmt.Printf("ui.refresh_fps      %d\n", cfg.UI.RefreshFPS)
	fmt.Printf("ui.wrap_margin      %d\n", cfg.UI.WrapMargin)
	fmt.Printf("ui.min_width        %d\n", cfg.UI.MinWidth)
	fmt.Printf("history.max         %d\n", cfg.History.MaxConversations)
	fmt.Printf("history.search      %t\n", cfg.History.SearchIndex)
	if cfg.History.Dir != "" {
		fmt.Printf("history.dir         %s\n", cfg.History.Dir)
	}
	return nil
}

// configSet updates a single key and saves the file. Keys use the short
// names shown by `config show`.
func configSet(key, value string) error {
	if key == "" || value == "" {
		return fmt.Errorf("usage: ollamaterm config set <key> <value>")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch key {
	case "model":
		cfg.DefaultModel = value
	case "url", "ollama.url":
		cfg.Ollama.URL = value
	case "timeout", "ollama.timeout":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("timeout must be a number of seconds")
		}
		cfg.Ollama.TimeoutSecs = n
	case "theme", "ui.theme":
		cfg.UI.Theme = value
	case "refresh_fps", "ui.refresh_fps":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("refresh_fps must be a number")
		}
		cfg.UI.RefreshFPS = n
	case "wrap_margin", "ui.wrap_margin":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("wrap_margin must be a number")
		}
		cfg.UI.WrapMargin = n
	case "history.max":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("history.max must be a number")
		}
		cfg.History.MaxConversations = n
	case "history.search":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("history.search must be true or false")
		}
		cfg.History.SearchIndex = b
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}
	fmt.Println(styles.RenderSuccess(fmt.Sprintf("Set %s = %s", key, value)))
	return nil
}
