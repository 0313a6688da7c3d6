// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()

	if theme == nil {
		t.Fatal("NewTheme returned nil")
	}
	// Representative styles must be initialized
	if theme.Header.GetPaddingLeft() != 2 {
		t.Errorf("Header padding = %d, want 2", theme.Header.GetPaddingLeft())
	}
	if !theme.InputPrompt.GetBold() {
		t.Error("InputPrompt should be bold")
	}
}

func TestNewThemeWithMode(t *testing.T) {
	dark := NewThemeWithMode("dark")
	if !dark.IsDark {
		t.Error("mode 'dark' should force IsDark")
	}

	light := NewThemeWithMode("light")
	if light.IsDark {
		t.Error("mode 'light' should clear IsDark")
	}
}

func TestSetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)

	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("size = %dx%d, want 120x40", theme.Width, theme.Height)
	}
}

func TestResponsePanelChrome(t *testing.T) {
	theme := NewThemeWithMode("dark")

	// The reflow wrap margin assumes the panel's horizontal chrome
	// (border + padding) stays within it.
	chrome := theme.ResponsePanel.GetHorizontalFrameSize()
	if chrome > 15 {
		t.Errorf("panel horizontal frame = %d, must not exceed the wrap margin of 15", chrome)
	}
}

func TestStatusIndicatorsAreASCII(t *testing.T) {
	for _, s := range []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Pending,
	} {
		for _, r := range s {
			if r > 127 {
				t.Errorf("indicator %q contains non-ASCII rune %q", s, r)
			}
		}
	}
}

func TestRenderHelpers(t *testing.T) {
	tests := []struct {
		name   string
		render func(string) string
		marker string
	}{
		{"success", RenderSuccess, "[OK]"},
		{"error", RenderError, "[X]"},
		{"warning", RenderWarning, "[!]"},
		{"info", RenderInfo, "[i]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.render("something happened")
			if !strings.Contains(out, tt.marker) {
				t.Errorf("output %q missing indicator %q", out, tt.marker)
			}
			if !strings.Contains(out, "something happened") {
				t.Errorf("output %q missing message", out)
			}
		})
	}
}
