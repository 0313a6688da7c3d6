// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/ollamaterm/internal/ollama"
	"github.com/jeranaias/ollamaterm/internal/storage"
	"github.com/jeranaias/ollamaterm/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewThemeWithMode("dark")
}

// =============================================================================
// SPINNER TESTS
// =============================================================================

func TestSpinner_StartStop(t *testing.T) {
	s := NewThinkingSpinner()

	if s.IsActive() {
		t.Error("spinner active before Start")
	}

	cmd := s.Start()
	if cmd == nil {
		t.Error("Start should return a tick command")
	}
	if !s.IsActive() {
		t.Error("spinner not active after Start")
	}
	if s.View() == "" {
		t.Error("active spinner renders empty")
	}
	if !strings.Contains(s.View(), "Thinking") {
		t.Errorf("view %q missing message", s.View())
	}

	s.Stop()
	if s.View() != "" {
		t.Error("stopped spinner should render empty")
	}
}

func TestSpinner_Elapsed(t *testing.T) {
	s := NewSpinner()
	if s.Elapsed() != 0 {
		t.Error("Elapsed before Start should be 0")
	}

	s.Start()
	time.Sleep(10 * time.Millisecond)
	if s.Elapsed() <= 0 {
		t.Error("Elapsed after Start should be positive")
	}
}

// =============================================================================
// RESPONSE PANEL TESTS
// =============================================================================

func TestResponsePanel_WrapWidth(t *testing.T) {
	p := NewResponsePanel(testTheme())

	p.SetWidth(100)
	if got := p.WrapWidth(); got != 85 {
		t.Errorf("WrapWidth at 100 cols = %d, want 85", got)
	}

	p.SetWidth(40)
	if got := p.WrapWidth(); got != 50 {
		t.Errorf("WrapWidth at 40 cols = %d, want floor 50", got)
	}

	p.SetWidth(0)
	if got := p.WrapWidth(); got != 65 {
		t.Errorf("WrapWidth at default = %d, want 65", got)
	}
}

func TestResponsePanel_RenderWrapsContent(t *testing.T) {
	p := NewResponsePanel(testTheme())
	p.SetWidth(80)

	long := strings.Repeat("word ", 40)
	out := p.Render(long)

	if out == "" {
		t.Fatal("empty render")
	}
	if !strings.Contains(out, "Response") {
		t.Error("render missing title")
	}
}

func TestResponsePanel_RenderMarkdownFallsBack(t *testing.T) {
	p := NewResponsePanel(testTheme())
	p.SetWidth(80)
	p.Stats = "1.0s | 5 tokens"

	out := p.RenderMarkdown("# Title\n\nSome **bold** text.")
	if out == "" {
		t.Fatal("empty markdown render")
	}
	if !strings.Contains(out, "1.0s | 5 tokens") {
		t.Error("stats line missing from render")
	}
}

// =============================================================================
// TABLE TESTS
// =============================================================================

func TestModelTable_CursorClamping(t *testing.T) {
	table := NewModelTable(testTheme(), []ollama.ModelInfo{
		{Name: "llama3.2:latest", Size: 1 << 30, ModifiedAt: time.Now()},
		{Name: "gemma3:latest", Size: 1 << 29, ModifiedAt: time.Now()},
	})

	table.MoveUp() // already at top
	if table.Cursor != 0 {
		t.Errorf("Cursor = %d after MoveUp at top, want 0", table.Cursor)
	}

	table.MoveDown()
	table.MoveDown() // past bottom
	if table.Cursor != 1 {
		t.Errorf("Cursor = %d after MoveDown at bottom, want 1", table.Cursor)
	}

	if got := table.Selected(); got == nil || got.Name != "gemma3:latest" {
		t.Errorf("Selected = %v, want gemma3", got)
	}
}

func TestModelTable_EmptyView(t *testing.T) {
	table := NewModelTable(testTheme(), nil)

	if table.Selected() != nil {
		t.Error("Selected on empty table should be nil")
	}
	if !strings.Contains(table.View(), "No models") {
		t.Errorf("empty view = %q", table.View())
	}
}

func TestModelTable_ViewContainsRows(t *testing.T) {
	table := NewModelTable(testTheme(), []ollama.ModelInfo{
		{Name: "llama3.2:latest", Size: 2 << 30, ModifiedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
	})

	view := table.View()
	for _, want := range []string{"llama3.2:latest", "2.0 GB", "2025-02-01"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistoryTable_SetConversationsClampsCursor(t *testing.T) {
	metas := []storage.ConversationMeta{
		{Name: "one", Model: "m", UpdatedAt: time.Now()},
		{Name: "two", Model: "m", UpdatedAt: time.Now()},
		{Name: "three", Model: "m", UpdatedAt: time.Now()},
	}
	table := NewHistoryTable(testTheme(), metas)
	table.Cursor = 2

	table.SetConversations(metas[:1])
	if table.Cursor != 0 {
		t.Errorf("Cursor = %d after shrink, want 0", table.Cursor)
	}

	table.SetConversations(nil)
	if table.Selected() != nil {
		t.Error("Selected on empty table should be nil")
	}
}

// =============================================================================
// PROGRESS TESTS
// =============================================================================

func TestPullProgressBar(t *testing.T) {
	bar := NewPullProgressBar(testTheme(), 60)

	if bar.View() != "" {
		t.Error("blank progress should render empty")
	}

	bar.Update(ollama.PullProgress{Status: "pulling manifest"})
	if !strings.Contains(bar.View(), "pulling manifest") {
		t.Error("status missing from view")
	}
	if strings.Contains(bar.View(), "%") {
		t.Error("unknown total should not render a percentage")
	}

	bar.Update(ollama.PullProgress{
		Status:    "downloading",
		Total:     1000,
		Completed: 500,
	})
	view := bar.View()
	if !strings.Contains(view, "50.0%") {
		t.Errorf("view missing percentage:\n%s", view)
	}
	if !strings.Contains(view, "500 B / 1000 B") {
		t.Errorf("view missing byte counts:\n%s", view)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
