// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ollamaterm/internal/config"
	"github.com/jeranaias/ollamaterm/internal/index"
	"github.com/jeranaias/ollamaterm/internal/ollama"
	"github.com/jeranaias/ollamaterm/internal/reflow"
	"github.com/jeranaias/ollamaterm/internal/storage"
	"github.com/jeranaias/ollamaterm/internal/ui/components"
	"github.com/jeranaias/ollamaterm/internal/ui/styles"
)

// =============================================================================
// SCREENS
// =============================================================================

// screen identifies the active TUI page.
type screen int

const (
	screenMenu screen = iota
	screenChat
	screenHistory
	screenHistoryView
	screenPull
	screenRemove
)

// menu entries, in display order.
var menuItems = []struct {
	key   string
	title string
	desc  string
}{
	{"c", "Chat", "Start a conversation with the active model"},
	{"m", "Models", "Pick the active model"},
	{"h", "History", "Browse, resume, and export saved conversations"},
	{"p", "Pull", "Download a model from the registry"},
	{"r", "Remove", "Delete an installed model"},
	{"q", "Quit", "Exit ollamaterm"},
}

// =============================================================================
// APP MODEL
// =============================================================================

// App is the root Bubble Tea model.
type App struct {
	cfg    *config.Config
	client *ollama.Client
	store  *storage.ChatStore
	search *index.Index // nil when the search index is disabled

	theme  *styles.Theme
	screen screen
	width  int
	height int

	// Menu state
	menuCursor   int
	models       []ollama.ModelInfo
	activeModel  string
	pickingModel bool

	// Chat screen state
	input         textinput.Model
	viewport      viewport.Model
	spin          components.Spinner
	panel         *components.ResponsePanel
	conversation  *storage.StoredConversation
	acc           *ollama.StreamAccumulator
	buf           *StreamingBuffer
	rendered      string // content already pushed to the viewport
	streamBase    string // rendered transcript up to the reply being streamed
	pendingPrompt string
	streaming     bool
	cancelStream  context.CancelFunc

	// History state
	historyTable  *components.HistoryTable
	historySearch textinput.Model
	searching     bool
	viewing       *storage.StoredConversation

	// Pull state
	pullInput textinput.Model
	pullBar   *components.PullProgressBar
	pulling   bool

	// Remove state
	removeTable *components.ModelTable
	confirmRm   bool

	status  string
	lastErr error
}

// Options configures a new App.
type Options struct {
	Config *config.Config
	Client *ollama.Client
	Store  *storage.ChatStore
	Search *index.Index
}

// New creates the root TUI model.
func New(opts Options) *App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	theme := styles.NewThemeWithMode(cfg.UI.Theme)

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "Type a message..."
	input.CharLimit = 4096

	pullInput := textinput.New()
	pullInput.Prompt = "> "
	pullInput.Placeholder = "model:tag (e.g. llama3.2:latest)"

	historySearch := textinput.New()
	historySearch.Prompt = "/ "
	historySearch.Placeholder = "search saved conversations"

	return &App{
		cfg:           cfg,
		client:        opts.Client,
		store:         opts.Store,
		search:        opts.Search,
		theme:         theme,
		screen:        screenMenu,
		activeModel:   cfg.DefaultModel,
		input:         input,
		pullInput:     pullInput,
		historySearch: historySearch,
		spin:          components.NewThinkingSpinner(),
		panel:         newPanel(cfg, theme),
		buf:           NewStreamingBuffer(cfg.UI.RefreshFPS),
		pullBar:       components.NewPullProgressBar(theme, 60),
		width:         reflow.DefaultTerminalWidth,
		height:        24,
	}
}

// newPanel builds the response panel with the configured wrap limits.
func newPanel(cfg *config.Config, theme *styles.Theme) *components.ResponsePanel {
	panel := components.NewResponsePanel(theme)
	panel.SetWrapLimits(cfg.UI.WrapMargin, cfg.UI.MinWidth)
	return panel
}

// Init loads the installed model list.
func (a *App) Init() tea.Cmd {
	return a.loadModelsCmd()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update dispatches messages by kind, then by active screen.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a.handleResize(msg)

	case modelsLoadedMsg:
		if msg.err != nil {
			a.lastErr = msg.err
			return a, nil
		}
		a.models = msg.models
		a.removeTable = components.NewModelTable(a.theme, msg.models)
		// Keep the active model valid
		if len(msg.models) > 0 && !a.hasModel(a.activeModel) {
			a.activeModel = msg.models[0].Name
		}
		return a, nil

	case ConfigReloadedMsg:
		if msg.Config != nil {
			a.cfg = msg.Config
			a.panel.SetWrapLimits(msg.Config.UI.WrapMargin, msg.Config.UI.MinWidth)
		}
		return a, nil

	case errMsg:
		a.lastErr = msg.err
		return a, nil

	case statusMsg:
		a.status = msg.text
		return a, nil
	}

	switch a.screen {
	case screenMenu:
		return a.updateMenu(msg)
	case screenChat:
		return a.updateChat(msg)
	case screenHistory:
		return a.updateHistory(msg)
	case screenHistoryView:
		return a.updateHistoryView(msg)
	case screenPull:
		return a.updatePull(msg)
	case screenRemove:
		return a.updateRemove(msg)
	}
	return a, nil
}

func (a *App) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	a.width = msg.Width
	a.height = msg.Height
	a.theme.SetSize(msg.Width, msg.Height)
	a.panel.SetWidth(msg.Width)

	a.viewport.Width = msg.Width
	a.viewport.Height = msg.Height - 6 // header, input, status
	if a.viewport.Height < 3 {
		a.viewport.Height = 3
	}
	a.input.Width = msg.Width - 4
	return a, nil
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the active screen.
func (a *App) View() string {
	switch a.screen {
	case screenChat:
		return a.viewChat()
	case screenHistory:
		return a.viewHistory()
	case screenHistoryView:
		return a.viewHistoryView()
	case screenPull:
		return a.viewPull()
	case screenRemove:
		return a.viewRemove()
	default:
		return a.viewMenu()
	}
}

// =============================================================================
// SHARED COMMANDS
// =============================================================================

func (a *App) loadModelsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := a.client.EnsureRunning(ctx); err != nil {
			return modelsLoadedMsg{err: err}
		}
		models, err := a.client.ListModels(ctx)
		return modelsLoadedMsg{models: models, err: err}
	}
}

func (a *App) hasModel(name string) bool {
	for _, m := range a.models {
		if m.Name == name {
			return true
		}
	}
	return false
}

// statusLine renders the transient status or last error.
func (a *App) statusLine() string {
	if a.lastErr != nil {
		return styles.RenderError(a.lastErr.Error())
	}
	if a.status != "" {
		return a.theme.InfoStyle.Render(a.status)
	}
	return ""
}
