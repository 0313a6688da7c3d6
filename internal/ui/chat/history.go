// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ollamaterm/internal/index"
	"github.com/jeranaias/ollamaterm/internal/reflow"
	"github.com/jeranaias/ollamaterm/internal/storage"
	"github.com/jeranaias/ollamaterm/internal/ui/components"
)

// =============================================================================
// HISTORY SCREEN
// =============================================================================

// loadHistoryCmd lists saved conversations, optionally filtered by query.
// When the search index is available it answers full-text queries; otherwise
// the store falls back to scanning message content.
func (a *App) loadHistoryCmd(query string) tea.Cmd {
	return func() tea.Msg {
		query = strings.TrimSpace(query)
		if query == "" {
			metas, err := a.store.List()
			return historyLoadedMsg{metas: metas, err: err}
		}

		if a.search != nil {
			hits, err := a.search.Search(query, 0)
			if err == nil {
				return historyLoadedMsg{metas: hitsToMetas(hits)}
			}
			// Fall through to the store scan on index failure
		}

		metas, err := a.store.SearchMessages(query)
		return historyLoadedMsg{metas: metas, err: err}
	}
}

// hitsToMetas collapses per-message search hits into one row per
// conversation, keeping the best-ranked snippet as the preview.
func hitsToMetas(hits []index.Hit) []storage.ConversationMeta {
	seen := make(map[string]bool, len(hits))
	metas := make([]storage.ConversationMeta, 0, len(hits))
	for _, h := range hits {
		if seen[h.ConversationID] {
			continue
		}
		seen[h.ConversationID] = true
		metas = append(metas, storage.ConversationMeta{
			ID:        h.ConversationID,
			Name:      h.Name,
			Model:     h.Model,
			UpdatedAt: h.UpdatedAt,
			Preview:   h.Snippet,
		})
	}
	return metas
}

func (a *App) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.err != nil {
			a.lastErr = msg.err
			return a, nil
		}
		if a.historyTable == nil {
			a.historyTable = components.NewHistoryTable(a.theme, msg.metas)
		} else {
			a.historyTable.SetConversations(msg.metas)
		}
		return a, nil

	case conversationLoadedMsg:
		if msg.err != nil {
			a.lastErr = msg.err
			return a, nil
		}
		a.viewing = msg.conv
		a.screen = screenHistoryView
		a.viewport.SetContent(a.renderConversation(msg.conv))
		a.viewport.GotoTop()
		return a, nil

	case tea.KeyMsg:
		if a.searching {
			return a.handleHistorySearchKey(msg)
		}
		return a.handleHistoryKey(msg)
	}
	return a, nil
}

func (a *App) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.historyTable != nil {
			a.historyTable.MoveUp()
		}
	case "down", "j":
		if a.historyTable != nil {
			a.historyTable.MoveDown()
		}
	case "/":
		a.searching = true
		a.historySearch.SetValue("")
		a.historySearch.Focus()
	case "enter":
		if meta := a.selectedHistory(); meta != nil {
			return a, a.loadConversationCmd(meta.ID)
		}
	case "d":
		if meta := a.selectedHistory(); meta != nil {
			return a, a.deleteConversationCmd(meta.ID)
		}
	case "esc", "q":
		a.searching = false
		a.screen = screenMenu
	case "ctrl+c":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleHistorySearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.searching = false
		a.historySearch.Blur()
		return a, a.loadHistoryCmd(a.historySearch.Value())
	case "esc":
		a.searching = false
		a.historySearch.Blur()
		a.historySearch.SetValue("")
		return a, a.loadHistoryCmd("")
	case "ctrl+c":
		return a, tea.Quit
	}
	var cmd tea.Cmd
	a.historySearch, cmd = a.historySearch.Update(msg)
	return a, cmd
}

func (a *App) selectedHistory() *storage.ConversationMeta {
	if a.historyTable == nil {
		return nil
	}
	return a.historyTable.Selected()
}

func (a *App) loadConversationCmd(id string) tea.Cmd {
	return func() tea.Msg {
		conv, err := a.store.Load(id)
		return conversationLoadedMsg{conv: conv, err: err}
	}
}

func (a *App) deleteConversationCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := a.store.Delete(id); err != nil {
			return errMsg{err: err}
		}
		if a.search != nil {
			_ = a.search.Remove(id)
		}
		metas, err := a.store.List()
		return historyLoadedMsg{metas: metas, err: err}
	}
}

func (a *App) viewHistory() string {
	var sb strings.Builder

	sb.WriteString(a.theme.HeaderTitle.Render("History"))
	sb.WriteString("\n\n")

	if a.searching {
		sb.WriteString(a.historySearch.View())
		sb.WriteString("\n\n")
	}

	if a.historyTable == nil {
		sb.WriteString(a.theme.ThinkingText.Render("Loading conversations..."))
	} else {
		sb.WriteString(a.historyTable.View())
	}
	sb.WriteString("\n\n")

	help := a.theme.ShortcutKey.Render("enter") + a.theme.ShortcutDesc.Render(" open  ") +
		a.theme.ShortcutKey.Render("/") + a.theme.ShortcutDesc.Render(" search  ") +
		a.theme.ShortcutKey.Render("d") + a.theme.ShortcutDesc.Render(" delete  ") +
		a.theme.ShortcutKey.Render("esc") + a.theme.ShortcutDesc.Render(" back")
	sb.WriteString(help)

	if line := a.statusLine(); line != "" {
		sb.WriteString("\n")
		sb.WriteString(line)
	}

	return a.theme.Container.Render(sb.String())
}

// =============================================================================
// HISTORY VIEWER
// =============================================================================

func (a *App) updateHistoryView(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			a.viewing = nil
			a.screen = screenHistory
			return a, a.loadHistoryCmd("")
		case "r":
			if a.viewing != nil {
				conv := a.viewing
				a.viewing = nil
				return a.resumeConversation(conv)
			}
		case "e":
			if a.viewing != nil {
				return a, a.exportConversationCmd(a.viewing)
			}
		case "ctrl+c":
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

// renderConversation renders a saved conversation for the read-only viewer,
// with assistant replies passed through the Markdown renderer.
func (a *App) renderConversation(conv *storage.StoredConversation) string {
	var sb strings.Builder
	for i, msg := range conv.Messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		switch msg.Role {
		case "user":
			sb.WriteString(a.theme.UserPrompt.Render("You: "))
			sb.WriteString(reflow.Reflow(msg.Content, a.panel.WrapWidth()))
			sb.WriteString("\n")
		default:
			a.panel.Stats = messageStats(msg)
			sb.WriteString(a.panel.RenderMarkdown(msg.Content))
		}
	}
	return sb.String()
}

// exportConversationCmd writes the conversation as Markdown next to the
// working directory.
func (a *App) exportConversationCmd(conv *storage.StoredConversation) tea.Cmd {
	return func() tea.Msg {
		name := conv.Name
		if name == "" {
			name = conv.ID
		}
		name = sanitizeFilename(name) + ".md"
		path := filepath.Join(".", name)
		if err := os.WriteFile(path, []byte(conv.ExportMarkdown()), 0o644); err != nil {
			return errMsg{err: err}
		}
		return statusMsg{text: fmt.Sprintf("Exported to %s", path)}
	}
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		case ' ':
			return '_'
		}
		return r
	}, name)
}

func (a *App) viewHistoryView() string {
	var sb strings.Builder

	title := "Conversation"
	if a.viewing != nil && a.viewing.Name != "" {
		title = a.viewing.Name
	}
	sb.WriteString(a.theme.HeaderTitle.Render(title))
	if a.viewing != nil && a.viewing.Model != "" {
		sb.WriteString("  ")
		sb.WriteString(a.theme.HeaderSubtitle.Render(a.viewing.Model))
	}
	sb.WriteString("\n")

	sb.WriteString(a.viewport.View())
	sb.WriteString("\n")

	help := a.theme.ShortcutKey.Render("r") + a.theme.ShortcutDesc.Render(" resume  ") +
		a.theme.ShortcutKey.Render("e") + a.theme.ShortcutDesc.Render(" export  ") +
		a.theme.ShortcutKey.Render("esc") + a.theme.ShortcutDesc.Render(" back")
	sb.WriteString(help)

	if line := a.statusLine(); line != "" {
		sb.WriteString("\n")
		sb.WriteString(line)
	}

	return a.theme.Container.Render(sb.String())
}
