// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single query command handler.
//
// Handles "ollamaterm ask", which sends one question to the model and
// streams the answer to stdout.
//
// Examples:
//   ollamaterm ask "What is a goroutine?"
//   cat error.log | ollamaterm ask "What went wrong here?"
//   ollamaterm ask -f main.go "Review this code"
//
// Flags:
//   -f, --file FILE     Include file content with the question
//   -m, --model NAME    Use a specific model (overrides config)
//   --plain             Raw output, no Markdown rendering
//   -q, --quiet         Suppress the stats line

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/ollamaterm/internal/config"
	"github.com/jeranaias/ollamaterm/internal/ollama"
	"github.com/jeranaias/ollamaterm/internal/reflow"
	"github.com/jeranaias/ollamaterm/internal/ui/styles"
)

// MaxFileSize is the largest file included with -f (50KB).
const MaxFileSize = 50 * 1024

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// renderMarkdown renders Markdown for terminal display, wrapped at the
// same width the reflow engine would use. Returns the input unchanged
// when rendering fails.
func renderMarkdown(content string) string {
	style := "notty"
	if ColorsEnabled() {
		if HasDarkBackground() {
			style = "dark"
		} else {
			style = "light"
		}
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(reflow.WidthFor(TerminalWidth())),
	)
	if err != nil {
		return reflow.Reflow(content, reflow.WidthFor(TerminalWidth()))
	}

	rendered, err := renderer.Render(content)
	if err != nil {
		return reflow.Reflow(content, reflow.WidthFor(TerminalWidth()))
	}
	return rendered
}

// =============================================================================
// FILE READING
// =============================================================================

// readFileForContext reads a file and formats it for inclusion in a
// prompt. Files larger than MaxFileSize are rejected.
func readFileForContext(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %s", path)
		}
		return "", fmt.Errorf("cannot access file: %w", err)
	}

	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("file too large: %d bytes (max %d bytes)", info.Size(), MaxFileSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n--- File: %s ---\n", path))
	sb.Write(content)
	sb.WriteString("\n--- End of file ---\n")
	return sb.String(), nil
}

// readStdinQuestion reads a piped question from stdin. Returns "" when
// stdin is a terminal.
func readStdinQuestion() string {
	stat, err := os.Stdin.Stat()
	if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
		return ""
	}
	data, err := io.ReadAll(bufio.NewReader(os.Stdin))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	question := args.Query
	if question == "" {
		question = readStdinQuestion()
	}
	if question == "" {
		return fmt.Errorf("no question provided. Usage: ollamaterm ask \"your question\"")
	}

	if args.File != "" {
		fileContent, err := readFileForContext(args.File)
		if err != nil {
			return err
		}
		question += fileContent
	}

	client := newClient(cfg)

	ctx := context.Background()
	if err := client.EnsureRunning(ctx); err != nil {
		return err
	}

	model := args.Model
	if model == "" {
		model = cfg.DefaultModel
	}

	messages := []ollama.Message{ollama.NewUserMessage(question)}

	// Interactive terminals get the answer rendered once it is complete;
	// piped output streams raw tokens so downstream tools see them early.
	renderAtEnd := IsStdoutTTY() && !args.Plain

	acc := ollama.NewStreamAccumulator()
	err = client.ChatStream(ctx, model, messages, func(chunk ollama.StreamChunk) {
		acc.Add(chunk)
		if !renderAtEnd && chunk.Content != "" {
			fmt.Print(chunk.Content)
		}
	})
	if err != nil {
		return err
	}

	if renderAtEnd {
		fmt.Print(renderMarkdown(acc.Content()))
	} else {
		fmt.Println()
	}

	if !args.Quiet && IsStdoutTTY() {
		fmt.Fprintln(os.Stderr, styles.RenderInfo(acc.Stats().Format()))
	}
	return nil
}
