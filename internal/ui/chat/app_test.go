// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"

	"github.com/jeranaias/ollamaterm/internal/config"
)

func TestUpdate_ConfigReloaded(t *testing.T) {
	app := New(Options{})

	updated := config.Default()
	updated.DefaultModel = "qwen2.5-coder:7b"
	updated.UI.WrapMargin = 20
	updated.UI.MinWidth = 60

	model, _ := app.Update(ConfigReloadedMsg{Config: updated})
	got := model.(*App)

	if got.cfg != updated {
		t.Error("config not swapped in")
	}
	if got.cfg.UI.WrapMargin != 20 {
		t.Errorf("WrapMargin = %d, want 20", got.cfg.UI.WrapMargin)
	}
}

func TestUpdate_ConfigReloadedNil(t *testing.T) {
	app := New(Options{})
	before := app.cfg

	model, _ := app.Update(ConfigReloadedMsg{})
	got := model.(*App)

	if got.cfg != before {
		t.Error("nil reload must leave the config alone")
	}
}
