// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ollamaterm/internal/ollama"
)

// =============================================================================
// PULL SCREEN
// =============================================================================

// recommendedModels is shown as a starting point when the pull input is
// empty.
var recommendedModels = []struct {
	name string
	desc string
}{
	{"llama3.2:latest", "Meta Llama 3.2, general purpose"},
	{"qwen2.5-coder:7b", "Code-focused, strong completions"},
	{"mistral:latest", "Fast general-purpose model"},
	{"phi3:mini", "Small model for constrained machines"},
}

func (a *App) updatePull(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handlePullKey(msg)

	case pullProgressMsg:
		a.pullBar.Update(msg.progress)
		return a, waitPullProgress(msg.ch)

	case pullDoneMsg:
		a.pulling = false
		if msg.err != nil {
			a.lastErr = msg.err
			return a, nil
		}
		a.status = fmt.Sprintf("Pulled %s", strings.TrimSpace(a.pullInput.Value()))
		a.pullInput.SetValue("")
		// Refresh the model list so the new model is selectable
		return a, a.loadModelsCmd()
	}

	var cmd tea.Cmd
	a.pullInput, cmd = a.pullInput.Update(msg)
	return a, cmd
}

func (a *App) handlePullKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "esc":
		if a.pulling {
			// The HTTP request keeps running until its context is
			// cancelled by the command goroutine finishing.
			return a, nil
		}
		a.screen = screenMenu
		a.pullInput.SetValue("")
		return a, nil
	case "enter":
		if a.pulling {
			return a, nil
		}
		name := strings.TrimSpace(a.pullInput.Value())
		if name == "" {
			return a, nil
		}
		a.lastErr = nil
		a.status = ""
		a.pulling = true
		return a, a.startPullCmd(name)
	}

	var cmd tea.Cmd
	a.pullInput, cmd = a.pullInput.Update(msg)
	return a, cmd
}

// startPullCmd launches the download and bridges its progress callback onto
// a channel the update loop drains one message at a time.
func (a *App) startPullCmd(name string) tea.Cmd {
	ch := make(chan ollama.PullProgress, 16)
	go func() {
		defer close(ch)
		err := a.client.PullModel(context.Background(), name, func(p ollama.PullProgress) {
			ch <- p
		})
		if err != nil {
			ch <- ollama.PullProgress{Error: err}
		}
	}()
	return waitPullProgress(ch)
}

func waitPullProgress(ch <-chan ollama.PullProgress) tea.Cmd {
	return func() tea.Msg {
		progress, ok := <-ch
		if !ok {
			return pullDoneMsg{}
		}
		if progress.Error != nil {
			return pullDoneMsg{err: progress.Error}
		}
		return pullProgressMsg{progress: progress, ch: ch}
	}
}

func (a *App) viewPull() string {
	var sb strings.Builder

	sb.WriteString(a.theme.HeaderTitle.Render("Pull Model"))
	sb.WriteString("\n\n")

	sb.WriteString(a.theme.InputContainer.Render(a.pullInput.View()))
	sb.WriteString("\n\n")

	if a.pulling {
		sb.WriteString(a.pullBar.View())
		sb.WriteString("\n")
	} else {
		sb.WriteString(a.theme.MenuDesc.Render("Suggestions:"))
		sb.WriteString("\n")
		for _, m := range recommendedModels {
			sb.WriteString("  ")
			sb.WriteString(a.theme.MenuKey.Render(m.name))
			sb.WriteString("  ")
			sb.WriteString(a.theme.MenuDesc.Render(m.desc))
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")

	help := a.theme.ShortcutKey.Render("enter") + a.theme.ShortcutDesc.Render(" pull  ") +
		a.theme.ShortcutKey.Render("esc") + a.theme.ShortcutDesc.Render(" back")
	sb.WriteString(help)

	if line := a.statusLine(); line != "" {
		sb.WriteString("\n")
		sb.WriteString(line)
	}

	return a.theme.Container.Render(sb.String())
}
