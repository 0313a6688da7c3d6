// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat REPL for the terminal.
//
// Handles "ollamaterm chat": a line-based conversation loop with input
// history, slash commands, and streamed responses. This is the plain
// alternative to the TUI for users who want a readline-style session.

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/ollamaterm/internal/config"
	"github.com/jeranaias/ollamaterm/internal/index"
	"github.com/jeranaias/ollamaterm/internal/ollama"
	"github.com/jeranaias/ollamaterm/internal/reflow"
	"github.com/jeranaias/ollamaterm/internal/storage"
	"github.com/jeranaias/ollamaterm/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle  = lipgloss.NewStyle().Foreground(styles.Purple).Bold(true)
	replyStyle   = lipgloss.NewStyle().Foreground(styles.TextPrimary)
	statsStyle   = lipgloss.NewStyle().Foreground(styles.TextMuted)
	warningStyle = lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(styles.Rose).Bold(true)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatInput wraps liner with persistent input history, so arrow-key
// recall works across sessions.
type ChatInput struct {
	line        *liner.State
	historyFile string
}

// NewChatInput creates a liner-backed input reader with history loaded
// from the config directory.
func NewChatInput() *ChatInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}

	ci := &ChatInput{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	ci.loadHistory()
	return ci
}

func (c *ChatInput) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with history navigation.
func (c *ChatInput) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with owner-only permissions.
func (c *ChatInput) SaveHistory() {
	if err := config.EnsureDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and releases the terminal.
func (c *ChatInput) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// SESSION STATE
// =============================================================================

// ChatSession holds the state for an interactive REPL session.
type ChatSession struct {
	Conversation *storage.StoredConversation

	Config *config.Config
	Client *ollama.Client
	Store  *storage.ChatStore
	Search *index.Index // nil when the search index is disabled

	Model string
	Quiet bool

	Input      *ChatInput
	CancelFunc context.CancelFunc
}

// NewChatSession builds a session from parsed args and configuration.
func NewChatSession(args Args, cfg *config.Config) (*ChatSession, error) {
	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}
	search, err := openSearchIndex(cfg)
	if err != nil {
		// Search is optional in the REPL; carry on without it
		search = nil
	}

	model := args.Model
	if model == "" {
		model = cfg.DefaultModel
	}

	return &ChatSession{
		Conversation: &storage.StoredConversation{Model: model},
		Config:       cfg,
		Client:       newClient(cfg),
		Store:        store,
		Search:       search,
		Model:        model,
		Quiet:        args.Quiet,
		Input:        NewChatInput(),
	}, nil
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat handles the "chat" command.
func HandleChat(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	session, err := NewChatSession(args, cfg)
	if err != nil {
		return err
	}
	defer session.Input.Close()
	if session.Search != nil {
		defer session.Search.Close()
	}

	ctx := context.Background()
	if err := session.Client.EnsureRunning(ctx); err != nil {
		return err
	}

	if !session.Quiet {
		printWelcome(session)
	}

	// First Ctrl+C during generation cancels it instead of killing the
	// process.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		for range sigChan {
			if session.CancelFunc != nil {
				session.CancelFunc()
				session.CancelFunc = nil
				fmt.Fprintln(os.Stderr, "\n"+warningStyle.Render("[Cancelled]"))
			}
		}
	}()

	for {
		input, err := session.Input.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			// liner.ErrPromptAborted (Ctrl+C) or EOF (Ctrl+D)
			fmt.Println()
			return session.exit()
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			keepGoing, err := handleSlashCommand(input, session)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
			}
			if !keepGoing {
				return session.exit()
			}
			continue
		}

		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			return session.exit()
		}

		if err := session.send(input); err != nil {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("[Error]"), err)
		}
	}
}

// send streams one exchange and records it in the conversation.
func (s *ChatSession) send(input string) error {
	messages := s.Conversation.ToAPIMessages()
	messages = append(messages, ollama.NewUserMessage(input))

	ctx, cancel := context.WithCancel(context.Background())
	s.CancelFunc = cancel
	defer func() {
		cancel()
		s.CancelFunc = nil
	}()

	acc := ollama.NewStreamAccumulator()
	err := s.Client.ChatStream(ctx, s.Model, messages, func(chunk ollama.StreamChunk) {
		acc.Add(chunk)
		if chunk.Content != "" {
			fmt.Print(replyStyle.Render(chunk.Content))
		}
	})
	fmt.Println()

	if err != nil {
		if ctx.Err() == context.Canceled {
			// Keep the partial reply so follow-ups still have context
			if acc.Content() != "" {
				s.Conversation.AppendExchange(input, acc.Content(), acc.Stats())
			}
			return nil
		}
		return err
	}

	s.Conversation.AppendExchange(input, acc.Content(), acc.Stats())

	if !s.Quiet {
		fmt.Println(statsStyle.Render(acc.Stats().Format()))
	}
	return nil
}

// exit saves the conversation and prints a closing summary.
func (s *ChatSession) exit() error {
	if len(s.Conversation.Messages) > 0 {
		if _, err := s.saveConversation(); err != nil {
			fmt.Fprintf(os.Stderr, "%s failed to save conversation: %v\n",
				warningStyle.Render("[!]"), err)
		} else if !s.Quiet {
			fmt.Println(styles.RenderSuccess("Conversation saved"))
		}
	}
	return nil
}

func (s *ChatSession) saveConversation() (string, error) {
	id, err := s.Store.Save(s.Conversation)
	if err != nil {
		return "", err
	}
	if s.Search != nil {
		// Index errors are non-fatal: the JSON file is the source of truth
		_ = s.Search.Add(s.Conversation)
	}
	return id, nil
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand executes a /command. Returns false when the session
// should end.
func handleSlashCommand(cmd string, session *ChatSession) (bool, error) {
	fields := strings.Fields(cmd)
	switch strings.ToLower(fields[0]) {
	case "/help", "/?":
		printREPLHelp()
		return true, nil

	case "/model":
		return handleModelCommand(session, fields[1:])

	case "/models":
		ctx := context.Background()
		models, err := session.Client.ListModels(ctx)
		if err != nil {
			return true, err
		}
		for _, m := range models {
			fmt.Printf("  %-32s %s\n", m.Name, m.FormatSize())
		}
		return true, nil

	case "/clear":
		session.Conversation = &storage.StoredConversation{Model: session.Model}
		fmt.Println(styles.RenderInfo("Context cleared"))
		return true, nil

	case "/save":
		if len(session.Conversation.Messages) == 0 {
			fmt.Println(styles.RenderWarning("Nothing to save"))
			return true, nil
		}
		id, err := session.saveConversation()
		if err != nil {
			return true, err
		}
		fmt.Println(styles.RenderSuccess("Saved conversation " + id))
		return true, nil

	case "/history":
		printConversation(session)
		return true, nil

	case "/quit", "/exit", "/q":
		return false, nil

	default:
		return true, fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
}

// handleModelCommand shows or switches the active model.
func handleModelCommand(session *ChatSession, args []string) (bool, error) {
	if len(args) == 0 {
		fmt.Println(styles.RenderInfo("Active model: " + session.Model))
		return true, nil
	}

	name := args[0]
	ctx := context.Background()
	exists, err := session.Client.ModelExists(ctx, name)
	if err != nil {
		return true, err
	}
	if !exists {
		return true, fmt.Errorf("model %q is not installed (try: ollamaterm pull %s)", name, name)
	}

	session.Model = name
	session.Conversation.Model = name
	fmt.Println(styles.RenderSuccess("Switched to " + name))
	return true, nil
}

// =============================================================================
// OUTPUT
// =============================================================================

func printWelcome(session *ChatSession) {
	fmt.Println(promptStyle.Render("ollamaterm chat"))
	fmt.Printf("Model: %s  |  /help for commands, /quit to exit\n\n", session.Model)
}

func printREPLHelp() {
	fmt.Print(`Commands:
  /model [name]   Show or switch the active model
  /models         List installed models
  /clear          Clear the conversation context
  /save           Save the conversation now
  /history        Show the conversation so far
  /help           Show this help
  /quit           Exit (also: exit, quit, Ctrl+D)
`)
}

func printConversation(session *ChatSession) {
	if len(session.Conversation.Messages) == 0 {
		fmt.Println(styles.RenderInfo("No messages yet"))
		return
	}
	width := reflow.WidthFor(TerminalWidth())
	for _, msg := range session.Conversation.Messages {
		label := "you"
		if msg.Role != "user" {
			label = session.Model
		}
		fmt.Printf("%s\n%s\n\n",
			promptStyle.Render(label+":"),
			reflow.Reflow(msg.Content, width))
	}
}
