// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/ollamaterm/internal/ollama"
	"github.com/jeranaias/ollamaterm/internal/ui/styles"
)

// =============================================================================
// PULL PROGRESS
// =============================================================================

// PullProgressBar renders model download progress: status line plus an
// ASCII progress bar when the layer size is known.
type PullProgressBar struct {
	theme *styles.Theme

	Width    int
	progress ollama.PullProgress
}

// NewPullProgressBar creates a progress bar of the given width in columns.
func NewPullProgressBar(theme *styles.Theme, width int) *PullProgressBar {
	if width < 20 {
		width = 20
	}
	return &PullProgressBar{theme: theme, Width: width}
}

// Update records the latest progress line.
func (p *PullProgressBar) Update(progress ollama.PullProgress) {
	p.progress = progress
}

// View renders the current progress.
func (p *PullProgressBar) View() string {
	prog := p.progress
	if prog.Status == "" {
		return ""
	}

	status := p.theme.ProgressText.Render(prog.Status)

	pct := prog.Percent()
	if pct < 0 {
		return status
	}

	barWidth := p.Width - 10 // room for " 100.0%"
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(pct / 100 * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled) + "]"
	line := fmt.Sprintf("%s %5.1f%%", bar, pct)

	detail := fmt.Sprintf("%s / %s", formatBytes(prog.Completed), formatBytes(prog.Total))

	return status + "\n" +
		p.theme.ProgressText.Render(line) + "\n" +
		p.theme.StatsLine.Render(detail)
}

// formatBytes formats a byte count in human-readable form.
func formatBytes(n int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case n >= gb:
		return fmt.Sprintf("%.1f GB", float64(n)/gb)
	case n >= mb:
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%.1f KB", float64(n)/kb)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
