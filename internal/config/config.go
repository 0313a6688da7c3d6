// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for
// ollamaterm.
//
// Configuration is TOML at ~/.ollamaterm/config.toml, with built-in
// defaults, OLLAMATERM_* environment overrides, and validation that
// clamps out-of-range values instead of failing.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete ollamaterm configuration.
type Config struct {
	// DefaultModel is used when no model is named on the command line.
	DefaultModel string `toml:"default_model"`

	// Ollama server configuration
	Ollama OllamaConfig `toml:"ollama"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// History (saved conversation) configuration
	History HistoryConfig `toml:"history"`
}

// OllamaConfig contains Ollama server configuration.
type OllamaConfig struct {
	// URL of the Ollama server
	URL string `toml:"url"`
	// TimeoutSecs is the timeout for non-streaming requests
	TimeoutSecs int `toml:"timeout_secs"`
}

// UIConfig contains display configuration.
type UIConfig struct {
	// Theme: "auto", "dark", or "light"
	Theme string `toml:"theme"`
	// RefreshFPS caps live-panel re-renders during streaming (1-60)
	RefreshFPS int `toml:"refresh_fps"`
	// WrapMargin is subtracted from the terminal width when wrapping
	// responses. Tracks the response panel's border and padding.
	WrapMargin int `toml:"wrap_margin"`
	// MinWidth is the wrap width floor for narrow terminals
	MinWidth int `toml:"min_width"`
}

// HistoryConfig contains saved-conversation configuration.
type HistoryConfig struct {
	// Dir overrides the conversation directory (empty = default)
	Dir string `toml:"dir"`
	// MaxConversations caps stored conversations (0 = unlimited)
	MaxConversations int `toml:"max_conversations"`
	// SearchIndex enables the SQLite search index
	SearchIndex bool `toml:"search_index"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		DefaultModel: "llama3.2",

		Ollama: OllamaConfig{
			URL:         "http://127.0.0.1:11434",
			TimeoutSecs: 30,
		},

		UI: UIConfig{
			Theme:      "auto",
			RefreshFPS: 10,
			WrapMargin: 15,
			MinWidth:   50,
		},

		History: HistoryConfig{
			Dir:              "",
			MaxConversations: 100,
			SearchIndex:      true,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// Dir returns the ollamaterm configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".ollamaterm"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir ensures the config directory exists.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the default config file. A missing file is
// not an error: defaults are used. Environment overrides are applied last,
// then validation clamps anything out of range.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the configuration to a specific TOML file.
func SaveTo(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# ollamaterm configuration file")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides:
//   - OLLAMATERM_MODEL: overrides default_model
//   - OLLAMATERM_URL: overrides ollama.url
//   - OLLAMATERM_THEME: overrides ui.theme
//   - OLLAMATERM_HISTORY_DIR: overrides history.dir
//   - OLLAMATERM_WRAP_MARGIN: overrides ui.wrap_margin
func (c *Config) ApplyEnvOverrides() {
	if model := os.Getenv("OLLAMATERM_MODEL"); model != "" {
		c.DefaultModel = model
	}
	if u := os.Getenv("OLLAMATERM_URL"); u != "" {
		c.Ollama.URL = u
	}
	if theme := os.Getenv("OLLAMATERM_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if dir := os.Getenv("OLLAMATERM_HISTORY_DIR"); dir != "" {
		c.History.Dir = dir
	}
	if margin := os.Getenv("OLLAMATERM_WRAP_MARGIN"); margin != "" {
		if n, err := strconv.Atoi(margin); err == nil {
			c.UI.WrapMargin = n
		}
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration, clamping recoverable values to their
// valid ranges and returning an error only for unusable settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.UI.Theme) {
	case "auto", "dark", "light":
		c.UI.Theme = strings.ToLower(c.UI.Theme)
	default:
		return ValidationError{Field: "ui.theme", Message: "must be auto, dark, or light"}
	}

	if c.Ollama.URL != "" {
		parsed, err := url.Parse(c.Ollama.URL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return ValidationError{Field: "ollama.url", Message: "must be a valid URL"}
		}
	}

	c.Ollama.TimeoutSecs = clamp(c.Ollama.TimeoutSecs, 1, 600)
	c.UI.RefreshFPS = clamp(c.UI.RefreshFPS, 1, 60)
	c.UI.WrapMargin = clamp(c.UI.WrapMargin, 0, 100)
	if c.UI.MinWidth < 20 {
		c.UI.MinWidth = 20
	}
	if c.History.MaxConversations < 0 {
		c.History.MaxConversations = 0
	}

	return nil
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
