// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "llama3.2", cfg.DefaultModel)
	assert.Equal(t, "http://127.0.0.1:11434", cfg.Ollama.URL)
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.Equal(t, 15, cfg.UI.WrapMargin)
	assert.Equal(t, 50, cfg.UI.MinWidth)
	assert.Equal(t, 10, cfg.UI.RefreshFPS)
	assert.Equal(t, 100, cfg.History.MaxConversations)
	assert.True(t, cfg.History.SearchIndex)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))

	require.NoError(t, err)
	assert.Equal(t, Default().DefaultModel, cfg.DefaultModel)
}

func TestLoadFromPath_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
default_model = "gemma3"

[ui]
theme = "dark"
wrap_margin = 20
`), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "gemma3", cfg.DefaultModel)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, 20, cfg.UI.WrapMargin)
	// Unspecified values keep their defaults
	assert.Equal(t, "http://127.0.0.1:11434", cfg.Ollama.URL)
	assert.Equal(t, 50, cfg.UI.MinWidth)
}

func TestLoadFromPath_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is not [toml"), 0644))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestValidate_BadTheme(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "solarized"

	err := cfg.Validate()
	require.Error(t, err)
	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ui.theme", verr.Field)
}

func TestValidate_ThemeCaseInsensitive(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "DARK"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestValidate_BadURL(t *testing.T) {
	cfg := Default()
	cfg.Ollama.URL = "not a url"

	assert.Error(t, cfg.Validate())
}

func TestValidate_Clamping(t *testing.T) {
	cfg := Default()
	cfg.UI.RefreshFPS = 500
	cfg.UI.WrapMargin = -3
	cfg.UI.MinWidth = 5
	cfg.Ollama.TimeoutSecs = 0
	cfg.History.MaxConversations = -1

	require.NoError(t, cfg.Validate())

	assert.Equal(t, 60, cfg.UI.RefreshFPS)
	assert.Equal(t, 0, cfg.UI.WrapMargin)
	assert.Equal(t, 20, cfg.UI.MinWidth)
	assert.Equal(t, 1, cfg.Ollama.TimeoutSecs)
	assert.Equal(t, 0, cfg.History.MaxConversations)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("OLLAMATERM_MODEL", "qwen3")
	t.Setenv("OLLAMATERM_URL", "http://10.0.0.2:11434")
	t.Setenv("OLLAMATERM_THEME", "light")
	t.Setenv("OLLAMATERM_WRAP_MARGIN", "12")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "qwen3", cfg.DefaultModel)
	assert.Equal(t, "http://10.0.0.2:11434", cfg.Ollama.URL)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, 12, cfg.UI.WrapMargin)
}

func TestApplyEnvOverrides_BadIntIgnored(t *testing.T) {
	t.Setenv("OLLAMATERM_WRAP_MARGIN", "lots")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, 15, cfg.UI.WrapMargin)
}

func TestSaveToAndRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := Default()
	cfg.DefaultModel = "mistral"
	cfg.UI.Theme = "light"
	require.NoError(t, SaveTo(cfg, path))

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "mistral", loaded.DefaultModel)
	assert.Equal(t, "light", loaded.UI.Theme)
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTo(Default(), path))

	var reloads atomic.Int32
	var gotModel atomic.Value
	w, err := NewWatcher(path, func(cfg *Config) {
		gotModel.Store(cfg.DefaultModel)
		reloads.Add(1)
	})
	require.NoError(t, err)
	defer w.Close()

	w.debounce = 50 * time.Millisecond
	require.NoError(t, w.Watch())

	cfg := Default()
	cfg.DefaultModel = "changed-model"
	require.NoError(t, SaveTo(cfg, path))

	require.Eventually(t, func() bool {
		return reloads.Load() > 0
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, "changed-model", gotModel.Load())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, SaveTo(Default(), path))

	var reloads atomic.Int32
	w, err := NewWatcher(path, func(*Config) { reloads.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	w.debounce = 50 * time.Millisecond
	require.NoError(t, w.Watch())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644))

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, reloads.Load())
}
