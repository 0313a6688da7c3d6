// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ollamaterm/internal/ollama"
	"github.com/jeranaias/ollamaterm/internal/reflow"
	"github.com/jeranaias/ollamaterm/internal/storage"
)

// =============================================================================
// CHAT SCREEN
// =============================================================================

func (a *App) openChat() (tea.Model, tea.Cmd) {
	a.screen = screenChat
	if a.conversation == nil {
		a.conversation = &storage.StoredConversation{Model: a.activeModel}
	}
	a.input.Focus()
	return a, nil
}

// resumeConversation opens the chat screen with a saved conversation's
// context loaded.
func (a *App) resumeConversation(conv *storage.StoredConversation) (tea.Model, tea.Cmd) {
	a.conversation = conv
	if conv.Model != "" && a.hasModel(conv.Model) {
		a.activeModel = conv.Model
	}
	a.rendered = a.transcript()
	a.syncViewport(true)
	return a.openChat()
}

func (a *App) updateChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleChatKey(msg)

	case streamChunkMsg:
		return a.handleStreamChunk(msg)

	case streamClosedMsg:
		return a.finishStream()

	case flushTickMsg:
		if !a.streaming {
			return a, nil
		}
		// Each flush re-wraps the whole partial reply, so earlier lines
		// reflow as the text grows instead of freezing at their first
		// wrap point.
		if _, ok := a.buf.Flush(); ok {
			a.rendered = a.streamBase + reflow.Reflow(a.acc.Content(), a.panel.WrapWidth())
			a.syncViewport(true)
		}
		return a, a.flushTick()

	case savedMsg:
		if msg.err != nil {
			a.lastErr = msg.err
		} else {
			a.status = "Conversation saved"
		}
		return a, nil
	}

	// Spinner animation frames
	var spinCmd tea.Cmd
	a.spin, spinCmd = a.spin.Update(msg)

	var vpCmd tea.Cmd
	a.viewport, vpCmd = a.viewport.Update(msg)

	return a, tea.Batch(spinCmd, vpCmd)
}

func (a *App) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if a.streaming {
			return a.abortStream()
		}
		return a, tea.Quit

	case "esc":
		if a.streaming {
			return a.abortStream()
		}
		a.screen = screenMenu
		a.menuCursor = 0
		return a, nil

	case "ctrl+s":
		return a, a.saveConversationCmd()

	case "ctrl+n":
		a.conversation = &storage.StoredConversation{Model: a.activeModel}
		a.rendered = ""
		a.syncViewport(false)
		a.status = "New conversation"
		return a, nil

	case "enter":
		if a.streaming {
			return a, nil
		}
		prompt := strings.TrimSpace(a.input.Value())
		if prompt == "" {
			return a, nil
		}
		a.input.SetValue("")
		return a.sendPrompt(prompt)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// =============================================================================
// STREAMING FLOW
// =============================================================================

func (a *App) sendPrompt(prompt string) (tea.Model, tea.Cmd) {
	a.lastErr = nil
	a.status = ""

	if a.conversation == nil {
		a.conversation = &storage.StoredConversation{Model: a.activeModel}
	}
	a.conversation.Model = a.activeModel

	// Show the prompt immediately
	if a.rendered != "" {
		a.rendered += "\n\n"
	}
	a.rendered += a.theme.UserPrompt.Render("You: ") +
		reflow.Reflow(prompt, a.panel.WrapWidth()) + "\n\n"
	a.streamBase = a.rendered
	a.syncViewport(true)

	messages := a.conversation.ToAPIMessages()
	messages = append(messages, ollama.NewUserMessage(prompt))

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelStream = cancel
	a.streaming = true
	a.acc = ollama.NewStreamAccumulator()
	a.pendingPrompt = prompt

	ch := a.client.ChatStreamChan(ctx, a.activeModel, messages)

	return a, tea.Batch(a.spin.Start(), waitChunk(ch), a.flushTick())
}

// waitChunk returns a command that delivers the next chunk from the stream.
func waitChunk(ch <-chan ollama.StreamChunk) tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return streamChunkMsg{chunk: chunk, ch: ch}
	}
}

func (a *App) flushTick() tea.Cmd {
	fps := a.cfg.UI.RefreshFPS
	if fps <= 0 {
		fps = 10
	}
	interval := time.Second / time.Duration(fps)
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return flushTickMsg{}
	})
}

func (a *App) handleStreamChunk(msg streamChunkMsg) (tea.Model, tea.Cmd) {
	a.acc.Add(msg.chunk)
	if msg.chunk.Content != "" {
		a.spin.Stop()
		a.buf.Write(msg.chunk.Content)
	}
	return a, waitChunk(msg.ch)
}

func (a *App) finishStream() (tea.Model, tea.Cmd) {
	a.streaming = false
	a.spin.Stop()
	if a.cancelStream != nil {
		a.cancelStream()
		a.cancelStream = nil
	}

	a.buf.Drain()
	a.rendered = a.streamBase + reflow.Reflow(a.acc.Content(), a.panel.WrapWidth())

	if err := a.acc.Err(); err != nil {
		a.lastErr = err
		a.pendingPrompt = ""
		a.syncViewport(true)
		return a, nil
	}

	reply := a.acc.Content()
	a.conversation.AppendExchange(a.pendingPrompt, reply, a.acc.Stats())
	a.pendingPrompt = ""

	a.rendered = a.transcript()
	a.syncViewport(true)

	return a, nil
}

func (a *App) abortStream() (tea.Model, tea.Cmd) {
	if a.cancelStream != nil {
		a.cancelStream()
		a.cancelStream = nil
	}
	a.streaming = false
	a.spin.Stop()
	a.buf.Drain()
	// Keep the partial reply so follow-ups still have context
	if partial := a.acc.Content(); partial != "" {
		a.conversation.AppendExchange(a.pendingPrompt, partial, a.acc.Stats())
		a.rendered = a.transcript()
		a.syncViewport(true)
	}
	a.pendingPrompt = ""
	a.status = "Generation cancelled"
	return a, nil
}

// transcript rebuilds the full rendered conversation from stored messages.
func (a *App) transcript() string {
	if a.conversation == nil {
		return ""
	}

	width := a.panel.WrapWidth()
	var sb strings.Builder
	for i, msg := range a.conversation.Messages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		switch msg.Role {
		case "user":
			sb.WriteString(a.theme.UserPrompt.Render("You: "))
			sb.WriteString(reflow.Reflow(msg.Content, width))
		default:
			// Completed replies get the full markdown panel; the
			// in-flight reply streams as plain reflowed text until done.
			a.panel.Stats = messageStats(msg)
			sb.WriteString(a.panel.RenderMarkdown(msg.Content))
		}
	}
	return sb.String()
}

// messageStats formats a stored assistant message's statistics for the
// panel footer. Empty when the message predates stats recording.
func messageStats(msg storage.StoredMessage) string {
	if msg.TokenCount == 0 {
		return ""
	}
	secs := float64(msg.DurationMs) / 1000
	return fmt.Sprintf("%.1fs | %d tokens | %.1f tok/s",
		secs, msg.TokenCount, msg.TokensPerSec)
}

func (a *App) syncViewport(gotoBottom bool) {
	a.viewport.SetContent(a.rendered)
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func (a *App) saveConversationCmd() tea.Cmd {
	conv := a.conversation
	return func() tea.Msg {
		if conv == nil || len(conv.Messages) == 0 {
			return statusMsg{text: "Nothing to save"}
		}
		id, err := a.store.Save(conv)
		if err == nil && a.search != nil {
			// Index errors are non-fatal: the JSON file is the source of truth
			_ = a.search.Add(conv)
		}
		return savedMsg{id: id, err: err}
	}
}

// =============================================================================
// CHAT VIEW
// =============================================================================

func (a *App) viewChat() string {
	var sb strings.Builder

	sb.WriteString(a.theme.HeaderTitle.Render("Chat"))
	sb.WriteString("  ")
	sb.WriteString(a.theme.HeaderSubtitle.Render(a.activeModel))
	sb.WriteString("\n")

	sb.WriteString(a.viewport.View())
	sb.WriteString("\n")

	if a.spin.IsActive() {
		sb.WriteString(a.spin.View())
		sb.WriteString("\n")
	}

	sb.WriteString(a.theme.InputContainer.Render(a.input.View()))
	sb.WriteString("\n")

	help := a.theme.ShortcutKey.Render("enter") + a.theme.ShortcutDesc.Render(" send  ") +
		a.theme.ShortcutKey.Render("ctrl+s") + a.theme.ShortcutDesc.Render(" save  ") +
		a.theme.ShortcutKey.Render("ctrl+n") + a.theme.ShortcutDesc.Render(" new  ") +
		a.theme.ShortcutKey.Render("esc") + a.theme.ShortcutDesc.Render(" back")
	sb.WriteString(help)

	if line := a.statusLine(); line != "" {
		sb.WriteString("\n")
		sb.WriteString(line)
	}

	return a.theme.Container.Render(sb.String())
}
