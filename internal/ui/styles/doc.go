// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles defines the adaptive color palette and lipgloss styles
// shared by every TUI screen. Colors are AdaptiveColor pairs so the same
// theme reads well on light and dark terminals; the config ui.theme
// setting can force either mode.
package styles
