// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/jeranaias/ollamaterm/internal/ollama"
	"github.com/jeranaias/ollamaterm/internal/storage"
	"github.com/jeranaias/ollamaterm/internal/ui/styles"
	"github.com/jeranaias/ollamaterm/internal/util"
)

// =============================================================================
// MODEL TABLE
// =============================================================================

// ModelTable renders installed models as a selectable table.
type ModelTable struct {
	theme  *styles.Theme
	Models []ollama.ModelInfo

	Cursor int
}

// NewModelTable creates a table over the given models.
func NewModelTable(theme *styles.Theme, models []ollama.ModelInfo) *ModelTable {
	return &ModelTable{theme: theme, Models: models}
}

// MoveUp moves the selection up, clamping at the top.
func (t *ModelTable) MoveUp() {
	if t.Cursor > 0 {
		t.Cursor--
	}
}

// MoveDown moves the selection down, clamping at the bottom.
func (t *ModelTable) MoveDown() {
	if t.Cursor < len(t.Models)-1 {
		t.Cursor++
	}
}

// Selected returns the model under the cursor, or nil when empty.
func (t *ModelTable) Selected() *ollama.ModelInfo {
	if t.Cursor < 0 || t.Cursor >= len(t.Models) {
		return nil
	}
	return &t.Models[t.Cursor]
}

// View renders the table.
func (t *ModelTable) View() string {
	if len(t.Models) == 0 {
		return t.theme.MenuDesc.Render("No models installed. Use the pull page to download one.")
	}

	var sb strings.Builder
	sb.WriteString(t.theme.TableHeader.Render(
		util.PadRight("Model", 32) + util.PadRight("Size", 10) + "Modified"))
	sb.WriteString("\n")

	for i, m := range t.Models {
		row := util.PadRight(util.TruncateWidth(m.Name, 30), 32) +
			util.PadRight(m.FormatSize(), 10) +
			m.ModifiedAt.Format("2006-01-02")

		style := t.theme.TableRow
		if i == t.Cursor {
			style = t.theme.TableRowSelected
		}
		sb.WriteString(style.Render(row))
		sb.WriteString("\n")
	}

	return sb.String()
}

// =============================================================================
// HISTORY TABLE
// =============================================================================

// HistoryTable renders saved conversations as a selectable table.
type HistoryTable struct {
	theme         *styles.Theme
	Conversations []storage.ConversationMeta

	Cursor int
}

// NewHistoryTable creates a table over the given conversation list.
func NewHistoryTable(theme *styles.Theme, metas []storage.ConversationMeta) *HistoryTable {
	return &HistoryTable{theme: theme, Conversations: metas}
}

// MoveUp moves the selection up, clamping at the top.
func (t *HistoryTable) MoveUp() {
	if t.Cursor > 0 {
		t.Cursor--
	}
}

// MoveDown moves the selection down, clamping at the bottom.
func (t *HistoryTable) MoveDown() {
	if t.Cursor < len(t.Conversations)-1 {
		t.Cursor++
	}
}

// Selected returns the conversation under the cursor, or nil when empty.
func (t *HistoryTable) Selected() *storage.ConversationMeta {
	if t.Cursor < 0 || t.Cursor >= len(t.Conversations) {
		return nil
	}
	return &t.Conversations[t.Cursor]
}

// SetConversations replaces the table contents, keeping the cursor in range.
func (t *HistoryTable) SetConversations(metas []storage.ConversationMeta) {
	t.Conversations = metas
	if t.Cursor >= len(metas) {
		t.Cursor = len(metas) - 1
	}
	if t.Cursor < 0 {
		t.Cursor = 0
	}
}

// View renders the table.
func (t *HistoryTable) View() string {
	if len(t.Conversations) == 0 {
		return t.theme.MenuDesc.Render("No saved conversations.")
	}

	var sb strings.Builder
	sb.WriteString(t.theme.TableHeader.Render(
		util.PadRight("Name", 42) + util.PadRight("Model", 18) +
			util.PadRight("Msgs", 6) + "Updated"))
	sb.WriteString("\n")

	for i, m := range t.Conversations {
		row := util.PadRight(util.TruncateWidth(m.Name, 40), 42) +
			util.PadRight(util.TruncateWidth(m.Model, 16), 18) +
			util.PadRight(strconv.Itoa(m.MessageCount), 6) +
			m.UpdatedAt.Format("2006-01-02 15:04")

		style := t.theme.TableRow
		if i == t.Cursor {
			style = t.theme.TableRowSelected
		}
		sb.WriteString(style.Render(row))
		sb.WriteString("\n")
	}

	return sb.String()
}
