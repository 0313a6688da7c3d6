// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/ollamaterm/internal/reflow"
	"github.com/jeranaias/ollamaterm/internal/ui/styles"
)

// =============================================================================
// RESPONSE PANEL
// =============================================================================

// ResponsePanel renders assistant responses inside a bordered panel. Text
// is wrapped by the reflow engine before rendering; the engine's margin
// accounts for this panel's border and padding, so content never collides
// with the frame.
type ResponsePanel struct {
	theme *styles.Theme

	Title string
	Stats string // one-line stream statistics, shown under the content

	width    int // full terminal width
	margin   int // columns reserved for the frame; 0 means reflow.Margin
	minWidth int // wrap width floor; 0 means reflow.MinWidth
	markdown *glamour.TermRenderer
}

// NewResponsePanel creates a panel using the given theme.
func NewResponsePanel(theme *styles.Theme) *ResponsePanel {
	return &ResponsePanel{
		theme: theme,
		Title: "Response",
		width: reflow.DefaultTerminalWidth,
	}
}

// SetWrapLimits overrides the margin and width floor used for wrapping.
// Zero values keep the engine defaults.
func (p *ResponsePanel) SetWrapLimits(margin, minWidth int) {
	if margin != p.margin || minWidth != p.minWidth {
		p.margin = margin
		p.minWidth = minWidth
		p.markdown = nil
	}
}

// SetWidth updates the panel for a new terminal width. Drops the cached
// markdown renderer since its word wrap is width-bound.
func (p *ResponsePanel) SetWidth(width int) {
	if width <= 0 {
		width = reflow.DefaultTerminalWidth
	}
	if width != p.width {
		p.width = width
		p.markdown = nil
	}
}

// WrapWidth returns the content width the reflow engine will use for the
// current terminal width.
func (p *ResponsePanel) WrapWidth() int {
	if p.margin == 0 && p.minWidth == 0 {
		return reflow.WidthFor(p.width)
	}
	margin := p.margin
	if margin == 0 {
		margin = reflow.Margin
	}
	return reflow.WidthWithin(p.width, margin, p.minWidth)
}

// Render wraps plain text and frames it. Used while a response is still
// streaming, when markdown rendering would be wasted on a moving target.
func (p *ResponsePanel) Render(text string) string {
	wrapped := reflow.Reflow(text, p.WrapWidth())
	return p.frame(wrapped)
}

// RenderMarkdown renders a completed response as markdown via glamour,
// falling back to plain reflowed text if rendering fails.
func (p *ResponsePanel) RenderMarkdown(text string) string {
	renderer, err := p.renderer()
	if err != nil {
		return p.Render(text)
	}

	out, err := renderer.Render(text)
	if err != nil {
		return p.Render(text)
	}
	return p.frame(out)
}

func (p *ResponsePanel) renderer() (*glamour.TermRenderer, error) {
	if p.markdown != nil {
		return p.markdown, nil
	}

	style := glamour.WithAutoStyle()
	if p.theme != nil && p.theme.IsDark {
		style = glamour.WithStandardStyle("dark")
	} else if p.theme != nil {
		style = glamour.WithStandardStyle("light")
	}

	renderer, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(p.WrapWidth()),
	)
	if err != nil {
		return nil, err
	}
	p.markdown = renderer
	return renderer, nil
}

func (p *ResponsePanel) frame(content string) string {
	var out string
	if p.Title != "" {
		out = p.theme.ResponseTitle.Render(p.Title) + "\n"
	}
	out += p.theme.ResponsePanel.Width(p.WrapWidth() + p.theme.ResponsePanel.GetHorizontalPadding()).Render(content)
	if p.Stats != "" {
		out += "\n" + p.theme.StatsLine.Render(p.Stats)
	}
	return out
}
