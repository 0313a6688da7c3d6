// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// REMOVE SCREEN
// =============================================================================

func (a *App) updateRemove(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.confirmRm {
			return a.handleRemoveConfirmKey(msg)
		}
		return a.handleRemoveKey(msg)

	case deleteDoneMsg:
		if msg.err != nil {
			a.lastErr = msg.err
			return a, nil
		}
		a.status = fmt.Sprintf("Removed %s", msg.model)
		if a.activeModel == msg.model {
			a.activeModel = a.cfg.DefaultModel
		}
		return a, a.loadModelsCmd()
	}
	return a, nil
}

func (a *App) handleRemoveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.removeTable != nil {
			a.removeTable.MoveUp()
		}
	case "down", "j":
		if a.removeTable != nil {
			a.removeTable.MoveDown()
		}
	case "enter", "d":
		if a.removeTable != nil && a.removeTable.Selected() != nil {
			a.confirmRm = true
		}
	case "esc", "q":
		a.screen = screenMenu
	case "ctrl+c":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleRemoveConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		a.confirmRm = false
		if sel := a.removeTable.Selected(); sel != nil {
			return a, a.deleteModelCmd(sel.Name)
		}
	case "n", "N", "esc":
		a.confirmRm = false
	case "ctrl+c":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) deleteModelCmd(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := a.client.DeleteModel(ctx, name)
		return deleteDoneMsg{model: name, err: err}
	}
}

func (a *App) viewRemove() string {
	var sb strings.Builder

	sb.WriteString(a.theme.HeaderTitle.Render("Remove Model"))
	sb.WriteString("\n\n")

	if a.removeTable == nil {
		sb.WriteString(a.theme.ThinkingText.Render("Loading models..."))
	} else {
		sb.WriteString(a.removeTable.View())
	}
	sb.WriteString("\n\n")

	if a.confirmRm {
		sel := a.removeTable.Selected()
		if sel != nil {
			warning := fmt.Sprintf("Delete %s (%s)? [y/n]", sel.Name, sel.FormatSize())
			sb.WriteString(a.theme.WarningStyle.Render(warning))
			sb.WriteString("\n")
		}
	} else {
		help := a.theme.ShortcutKey.Render("enter") + a.theme.ShortcutDesc.Render(" delete  ") +
			a.theme.ShortcutKey.Render("esc") + a.theme.ShortcutDesc.Render(" back")
		sb.WriteString(help)
	}

	if line := a.statusLine(); line != "" {
		sb.WriteString("\n")
		sb.WriteString(line)
	}

	return a.theme.Container.Render(sb.String())
}
