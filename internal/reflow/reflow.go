// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reflow

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// =============================================================================
// WIDTH RESOLUTION
// =============================================================================

const (
	// DefaultTerminalWidth is the fallback when terminal size detection fails.
	DefaultTerminalWidth = 80

	// Margin is subtracted from the terminal width to leave room for the
	// response panel's border and padding. Keep in sync with the panel
	// styles in internal/ui/components.
	Margin = 15

	// MinWidth is the narrowest wrap width we will resolve to, no matter
	// how small the terminal is.
	MinWidth = 50

	// minCodeWidth is the narrowest useful fill width inside an indented
	// code line. Below this the line is hard-cut instead of word-filled.
	minCodeWidth = 20
)

// WidthFor resolves an effective wrap width from a terminal column count.
func WidthFor(terminalCols int) int {
	return WidthWithin(terminalCols, Margin, MinWidth)
}

// WidthWithin resolves a wrap width with a caller-supplied margin and
// floor. Non-positive floors fall back to MinWidth so a bad config value
// cannot collapse the width to zero.
func WidthWithin(terminalCols, margin, floor int) int {
	if floor <= 0 {
		floor = MinWidth
	}
	w := terminalCols - margin
	if w < floor {
		return floor
	}
	return w
}

// AutoWidth resolves the wrap width from the live terminal, falling back to
// DefaultTerminalWidth when stdout is not a terminal.
func AutoWidth() int {
	cols, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 {
		cols = DefaultTerminalWidth
	}
	return WidthFor(cols)
}

// =============================================================================
// REFLOW
// =============================================================================

// boxDrawing are the characters that mark a rendered fixed-width table.
// Seeing any of them anywhere routes the whole input through the
// table-preserving path; a stray separator in prose is an accepted false
// positive.
const boxDrawing = "│─┌┐└┘"

// ReflowAuto wraps text to the current terminal width (see AutoWidth).
func ReflowAuto(text string) string {
	return Reflow(text, 0)
}

// Reflow wraps text so that lines fit within width columns wherever that is
// possible without destroying structure. A width <= 0 resolves from the
// live terminal. Widths are display columns (runewidth), not bytes.
//
// Three content paths:
//   - table: input contains box-drawing characters; lines split on │ and
//     fragments reassembled so cell boundaries survive
//   - code: paragraph opens with a code fence or an indented line;
//     indentation is preserved across wraps
//   - prose: word-filled at full width
//
// Reflow never fails; pathological inputs degrade to hard character cuts.
func Reflow(text string, width int) string {
	if width <= 0 {
		width = AutoWidth()
	}

	if strings.ContainsAny(text, boxDrawing) {
		return reflowTable(text, width)
	}

	paragraphs := strings.Split(text, "\n\n")
	wrapped := make([]string, len(paragraphs))
	for i, p := range paragraphs {
		if isCodeParagraph(p) {
			wrapped[i] = reflowCode(p, width)
		} else {
			wrapped[i] = reflowProse(p, width)
		}
	}
	return strings.Join(wrapped, "\n\n")
}

// =============================================================================
// TABLE PATH
// =============================================================================

// reflowTable wraps table-like content line by line, breaking over-length
// lines at cell boundaries (│) so columns can be visually re-associated
// even when alignment is lost. A single fragment wider than width is
// emitted oversized; this path never hard-cuts, so separators are never
// destroyed.
func reflowTable(text string, width int) string {
	lines := strings.Split(text, "\n")
	var out []string

	for _, line := range lines {
		if runewidth.StringWidth(line) <= width {
			out = append(out, line)
			continue
		}

		if !strings.Contains(line, "│") {
			// No structural marker to preserve; regular word-fill.
			out = append(out, fill(line, width)...)
			continue
		}

		parts := strings.Split(line, "│")
		current := ""
		for i, part := range parts {
			sep := ""
			if i < len(parts)-1 {
				sep = "│"
			}
			candidate := current + part + sep
			if runewidth.StringWidth(candidate) <= width {
				current = candidate
				continue
			}
			if current != "" {
				out = append(out, current)
			}
			current = part + sep
		}
		if current != "" {
			out = append(out, current)
		}
	}

	return strings.Join(out, "\n")
}

// =============================================================================
// PARAGRAPH PATHS
// =============================================================================

// isCodeParagraph reports whether a paragraph should be treated as code:
// it opens with a fence marker, or its raw first line is indented.
func isCodeParagraph(p string) bool {
	if strings.HasPrefix(strings.TrimSpace(p), "```") {
		return true
	}
	return strings.HasPrefix(p, " ") || strings.HasPrefix(p, "\t")
}

// reflowCode wraps a code paragraph, preserving each line's leading
// whitespace across continuation lines. Lines whose indent leaves fewer
// than minCodeWidth columns are hard-cut at the width boundary instead,
// with the remainder on the next line verbatim. That is a deliberate
// degradation: wrapping inside a 19-column window produces worse output
// than an honest cut.
func reflowCode(p string, width int) string {
	lines := strings.Split(p, "\n")
	var out []string

	for _, line := range lines {
		if runewidth.StringWidth(line) <= width {
			out = append(out, line)
			continue
		}

		indent := leadingWhitespace(line)
		content := line[len(indent):]
		contentWidth := width - runewidth.StringWidth(indent)

		if contentWidth >= minCodeWidth {
			for _, filled := range fill(content, contentWidth) {
				out = append(out, indent+filled)
			}
		} else {
			head, rest := cutAtWidth(line, width)
			out = append(out, head)
			if rest != "" {
				out = append(out, rest)
			}
		}
	}

	return strings.Join(out, "\n")
}

// reflowProse wraps a prose paragraph line by line. Embedded blank lines
// survive as empty output lines so upstream formatting is not collapsed.
func reflowProse(p string, width int) string {
	lines := strings.Split(p, "\n")
	var out []string

	for _, line := range lines {
		switch {
		case strings.TrimSpace(line) == "":
			out = append(out, "")
		case runewidth.StringWidth(line) <= width:
			out = append(out, line)
		default:
			out = append(out, fill(line, width)...)
		}
	}

	return strings.Join(out, "\n")
}

// =============================================================================
// WORD-FILL PRIMITIVE
// =============================================================================

// fill greedily packs whitespace-delimited tokens onto lines of at most
// width columns. A token wider than width is broken after an interior
// hyphen when that yields an under-width boundary, otherwise at the width
// boundary. This is the single wrap primitive shared by the prose path,
// the code path, and the table path's no-separator fallback.
func fill(s string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	current := ""

	flush := func() {
		if current != "" {
			lines = append(lines, current)
			current = ""
		}
	}

	for _, token := range strings.Fields(s) {
		// Break tokens that can never fit on one line.
		for runewidth.StringWidth(token) > width {
			flush()
			head, rest := breakToken(token, width)
			lines = append(lines, head)
			token = rest
		}

		switch {
		case current == "":
			current = token
		case runewidth.StringWidth(current)+1+runewidth.StringWidth(token) <= width:
			current += " " + token
		default:
			flush()
			current = token
		}
	}
	flush()

	if lines == nil {
		lines = []string{""}
	}
	return lines
}

// breakToken splits an over-width token, preferring a break just after the
// last interior hyphen that still fits; otherwise a hard cut at the width
// boundary.
func breakToken(token string, width int) (head, rest string) {
	runes := []rune(token)
	bestEnd := 0
	cols := 0
	for i, r := range runes {
		cols += runewidth.RuneWidth(r)
		if cols > width {
			break
		}
		if r == '-' && i < len(runes)-1 {
			bestEnd = i + 1
		}
	}
	if bestEnd > 0 {
		return string(runes[:bestEnd]), string(runes[bestEnd:])
	}
	return cutAtWidth(token, width)
}

// cutAtWidth splits a string at the given display-column boundary. The head
// always contains at least one rune, even when that rune alone is wider than
// the target, so callers splitting in a loop are guaranteed progress.
func cutAtWidth(s string, width int) (head, rest string) {
	if width < 1 {
		width = 1
	}
	cols := 0
	for i, r := range s {
		w := runewidth.RuneWidth(r)
		if cols+w > width {
			if i == 0 {
				n := utf8.RuneLen(r)
				return s[:n], s[n:]
			}
			return s[:i], s[i:]
		}
		cols += w
	}
	return s, ""
}

// leadingWhitespace returns the run of spaces and tabs opening a line.
func leadingWhitespace(line string) string {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return line[:i]
		}
	}
	return line
}
