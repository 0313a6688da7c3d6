// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection for the CLI commands.
//
// Distinguishes interactive terminals from piped output so the CLI can
// decide when to render Markdown, colorize, or prompt:
// - Interactive terminals get colors and rendered Markdown
// - Piped output gets raw text
// - NO_COLOR is honored per https://no-color.org/

package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// =============================================================================
// TERMINAL WIDTH
// =============================================================================

const (
	// fallbackWidth is used when size detection fails.
	fallbackWidth = 80

	// minTerminalWidth is the narrowest width used for wrapping.
	minTerminalWidth = 40
)

// TerminalWidth returns the current terminal width, or 80 when it cannot
// be determined.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	if width < minTerminalWidth {
		return minTerminalWidth
	}
	return width
}

// =============================================================================
// COLOR CONTROL
// =============================================================================

var (
	colorsEnabledOnce sync.Once
	colorsEnabled     bool
)

// ColorsEnabled returns true if colored output should be used. NO_COLOR
// takes precedence, then FORCE_COLOR, then TTY detection.
func ColorsEnabled() bool {
	colorsEnabledOnce.Do(func() {
		if os.Getenv("NO_COLOR") != "" {
			colorsEnabled = false
			return
		}
		if os.Getenv("FORCE_COLOR") != "" {
			colorsEnabled = true
			return
		}
		colorsEnabled = IsStdoutTTY()
	})
	return colorsEnabled
}

// ColorProfile returns the termenv color profile for the current output,
// Ascii when colors are disabled.
func ColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// HasDarkBackground reports whether the terminal background is dark.
// Used to pick the Markdown style when the theme is "auto".
func HasDarkBackground() bool {
	return termenv.HasDarkBackground()
}
