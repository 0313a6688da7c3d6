// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ollamaterm/internal/util"
)

// =============================================================================
// MAIN MENU
// =============================================================================

func (a *App) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	if a.pickingModel {
		return a.updateModelPicker(keyMsg)
	}

	switch keyMsg.String() {
	case "up", "k":
		if a.menuCursor > 0 {
			a.menuCursor--
		}
	case "down", "j":
		if a.menuCursor < len(menuItems)-1 {
			a.menuCursor++
		}
	case "enter":
		return a.selectMenuItem(menuItems[a.menuCursor].key)
	case "q", "ctrl+c", "esc":
		return a, tea.Quit
	default:
		// Direct hotkeys
		for _, item := range menuItems {
			if keyMsg.String() == item.key {
				return a.selectMenuItem(item.key)
			}
		}
	}
	return a, nil
}

func (a *App) selectMenuItem(key string) (tea.Model, tea.Cmd) {
	a.lastErr = nil
	a.status = ""

	switch key {
	case "c":
		return a.openChat()
	case "m":
		a.pickingModel = true
		a.menuCursor = a.modelIndex(a.activeModel)
		return a, a.loadModelsCmd()
	case "h":
		a.screen = screenHistory
		return a, a.loadHistoryCmd("")
	case "p":
		a.screen = screenPull
		a.pullInput.SetValue("")
		a.pullInput.Focus()
		return a, nil
	case "r":
		a.screen = screenRemove
		a.confirmRm = false
		return a, a.loadModelsCmd()
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) modelIndex(name string) int {
	for i, m := range a.models {
		if m.Name == name {
			return i
		}
	}
	return 0
}

func (a *App) updateModelPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.menuCursor > 0 {
			a.menuCursor--
		}
	case "down", "j":
		if a.menuCursor < len(a.models)-1 {
			a.menuCursor++
		}
	case "enter":
		if a.menuCursor < len(a.models) {
			a.activeModel = a.models[a.menuCursor].Name
			a.status = "Active model: " + a.activeModel
		}
		a.pickingModel = false
		a.menuCursor = 0
	case "esc", "q":
		a.pickingModel = false
		a.menuCursor = 0
	}
	return a, nil
}

// =============================================================================
// MENU VIEW
// =============================================================================

func (a *App) viewMenu() string {
	var sb strings.Builder

	sb.WriteString(a.theme.Header.Render("ollamaterm"))
	sb.WriteString("\n")
	sb.WriteString(a.theme.HeaderSubtitle.Render("local model chat  |  active: " + a.activeModel))
	sb.WriteString("\n\n")

	if a.pickingModel {
		sb.WriteString(a.theme.HeaderTitle.Render("Pick a model"))
		sb.WriteString("\n\n")
		if len(a.models) == 0 {
			sb.WriteString(a.theme.MenuDesc.Render("No models installed."))
			sb.WriteString("\n")
		}
		for i, m := range a.models {
			line := util.PadRight(m.Name, 32) + m.FormatSize()
			if i == a.menuCursor {
				sb.WriteString(a.theme.MenuItemSelected.Render("> " + line))
			} else {
				sb.WriteString(a.theme.MenuItem.Render("  " + line))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		sb.WriteString(a.theme.ShortcutDesc.Render("enter select  |  esc back"))
	} else {
		for i, item := range menuItems {
			line := a.theme.MenuKey.Render("["+item.key+"] ") + item.title +
				"  " + a.theme.MenuDesc.Render(item.desc)
			if i == a.menuCursor {
				sb.WriteString(a.theme.MenuItemSelected.Render("> " + item.title))
				sb.WriteString("  ")
				sb.WriteString(a.theme.MenuDesc.Render(item.desc))
			} else {
				sb.WriteString("  " + line)
			}
			sb.WriteString("\n")
		}
	}

	if line := a.statusLine(); line != "" {
		sb.WriteString("\n")
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return a.theme.Container.Render(sb.String())
}
