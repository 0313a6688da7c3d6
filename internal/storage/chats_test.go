// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/ollamaterm/internal/ollama"
)

func newTestStore(t *testing.T) *ChatStore {
	t.Helper()
	store, err := NewChatStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewChatStoreWithDir failed: %v", err)
	}
	return store
}

func sampleConversation(prompt string) *StoredConversation {
	return &StoredConversation{
		Model: "llama3.2",
		Messages: []StoredMessage{
			{Role: "user", Content: prompt, Timestamp: time.Now()},
			{Role: "assistant", Content: "Sure thing.", Timestamp: time.Now()},
		},
	}
}

// =============================================================================
// SAVE / LOAD TESTS
// =============================================================================

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Save(sampleConversation("How do I sort a slice?"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id == "" {
		t.Fatal("Save returned empty ID")
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ID != id {
		t.Errorf("ID = %q, want %q", loaded.ID, id)
	}
	if loaded.Model != "llama3.2" {
		t.Errorf("Model = %q, want 'llama3.2'", loaded.Model)
	}
	if len(loaded.Messages) != 2 {
		t.Errorf("got %d messages, want 2", len(loaded.Messages))
	}
	if loaded.CreatedAt.IsZero() || loaded.UpdatedAt.IsZero() {
		t.Error("timestamps not set on save")
	}
}

func TestSave_GeneratesName(t *testing.T) {
	store := newTestStore(t)

	conv := sampleConversation("How do I sort\na slice in Go?")
	store.Save(conv)

	if conv.Name == "" {
		t.Fatal("name not generated")
	}
	if strings.Contains(conv.Name, "\n") {
		t.Errorf("name contains newline: %q", conv.Name)
	}
}

func TestSave_KeepsExplicitName(t *testing.T) {
	store := newTestStore(t)

	conv := sampleConversation("hello")
	conv.Name = "Sorting help"
	store.Save(conv)

	if conv.Name != "Sorting help" {
		t.Errorf("Name = %q, want 'Sorting help'", conv.Name)
	}
}

func TestSave_NameTruncated(t *testing.T) {
	store := newTestStore(t)

	conv := sampleConversation(strings.Repeat("x", 200))
	store.Save(conv)

	if got := len([]rune(conv.Name)); got > 50 {
		t.Errorf("name length = %d runes, want <= 50", got)
	}
	if !strings.HasSuffix(conv.Name, "...") {
		t.Errorf("truncated name %q should end in ellipsis", conv.Name)
	}
}

func TestLoad_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("nonexistent")
	if !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("err = %v, want ErrConversationNotFound", err)
	}
}

func TestLoadByIndex(t *testing.T) {
	store := newTestStore(t)

	store.Save(sampleConversation("first"))
	time.Sleep(10 * time.Millisecond) // ordering is by UpdatedAt
	store.Save(sampleConversation("second"))

	conv, err := store.LoadByIndex(0)
	if err != nil {
		t.Fatalf("LoadByIndex failed: %v", err)
	}
	if conv.Messages[0].Content != "second" {
		t.Errorf("index 0 = %q, want most recent 'second'", conv.Messages[0].Content)
	}

	if _, err := store.LoadByIndex(5); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("out-of-range err = %v, want ErrConversationNotFound", err)
	}
}

// =============================================================================
// LIST TESTS
// =============================================================================

func TestList_Empty(t *testing.T) {
	store := newTestStore(t)

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 0 {
		t.Errorf("got %d conversations, want 0", len(metas))
	}
}

func TestList_SortedMostRecentFirst(t *testing.T) {
	store := newTestStore(t)

	store.Save(sampleConversation("older"))
	time.Sleep(10 * time.Millisecond)
	store.Save(sampleConversation("newer"))

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("got %d conversations, want 2", len(metas))
	}
	if metas[0].Preview != "newer" {
		t.Errorf("metas[0].Preview = %q, want 'newer'", metas[0].Preview)
	}
	if metas[0].MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", metas[0].MessageCount)
	}
}

func TestList_SkipsCorruptedFiles(t *testing.T) {
	store := newTestStore(t)

	store.Save(sampleConversation("good"))
	os.WriteFile(filepath.Join(store.BaseDir, "broken.json"), []byte("{not json"), 0644)

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 1 {
		t.Errorf("got %d conversations, want 1 (corrupted file skipped)", len(metas))
	}
}

// =============================================================================
// SEARCH TESTS
// =============================================================================

func TestSearch_ByName(t *testing.T) {
	store := newTestStore(t)

	conv := sampleConversation("help with goroutines")
	conv.Name = "Concurrency questions"
	store.Save(conv)
	store.Save(sampleConversation("unrelated topic"))

	results, err := store.Search("CONCURRENCY")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Name != "Concurrency questions" {
		t.Errorf("result name = %q", results[0].Name)
	}
}

func TestSearchMessages_MatchesContent(t *testing.T) {
	store := newTestStore(t)

	conv := sampleConversation("tell me about channels")
	conv.Messages[1].Content = "Channels carry values between goroutines."
	store.Save(conv)
	store.Save(sampleConversation("something else"))

	results, err := store.SearchMessages("goroutines")
	if err != nil {
		t.Fatalf("SearchMessages failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("got %d results, want 1", len(results))
	}
}

func TestSearchMessages_EmptyQueryListsAll(t *testing.T) {
	store := newTestStore(t)

	store.Save(sampleConversation("a"))
	store.Save(sampleConversation("b"))

	results, err := store.SearchMessages("")
	if err != nil {
		t.Fatalf("SearchMessages failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

// =============================================================================
// DELETE TESTS
// =============================================================================

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	id, _ := store.Save(sampleConversation("to delete"))

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(id); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("Load after delete err = %v, want ErrConversationNotFound", err)
	}
	if err := store.Delete(id); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("double delete err = %v, want ErrConversationNotFound", err)
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)

	store.Save(sampleConversation("one"))
	store.Save(sampleConversation("two"))

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	metas, _ := store.List()
	if len(metas) != 0 {
		t.Errorf("got %d conversations after Clear, want 0", len(metas))
	}
}

func TestEnforceLimit(t *testing.T) {
	store := newTestStore(t)
	store.MaxConversations = 3

	for i := 0; i < 5; i++ {
		store.Save(sampleConversation(strings.Repeat("m", i+1)))
		time.Sleep(5 * time.Millisecond)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 3 {
		t.Fatalf("got %d conversations, want 3 after eviction", len(metas))
	}
	// Newest survive
	if metas[0].Preview != "mmmmm" {
		t.Errorf("metas[0].Preview = %q, want newest", metas[0].Preview)
	}
}

// =============================================================================
// CONVERSION TESTS
// =============================================================================

func TestToAPIMessages(t *testing.T) {
	conv := sampleConversation("hello")
	conv.Messages = append(conv.Messages, StoredMessage{Role: "weird", Content: "x"})

	msgs := conv.ToAPIMessages()
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[1].Role != "assistant" {
		t.Error("roles not preserved")
	}
	if msgs[2].Role != "assistant" {
		t.Errorf("invalid role coerced to %q, want 'assistant'", msgs[2].Role)
	}
}

func TestAppendExchange(t *testing.T) {
	conv := &StoredConversation{Model: "llama3.2"}
	stats := &ollama.StreamStats{
		CompletionTokens: 42,
		TotalDuration:    2 * time.Second,
		TokensPerSecond:  21,
	}

	conv.AppendExchange("question", "answer", stats)

	if len(conv.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(conv.Messages))
	}
	if conv.Messages[0].Role != "user" || conv.Messages[0].Content != "question" {
		t.Error("user message not recorded")
	}
	last := conv.Messages[1]
	if last.Role != "assistant" || last.Content != "answer" {
		t.Error("assistant message not recorded")
	}
	if last.TokenCount != 42 {
		t.Errorf("TokenCount = %d, want 42", last.TokenCount)
	}
	if last.TokensPerSec != 21 {
		t.Errorf("TokensPerSec = %v, want 21", last.TokensPerSec)
	}
}

// =============================================================================
// EXPORT TESTS
// =============================================================================

func TestExportMarkdown(t *testing.T) {
	conv := sampleConversation("What is a pointer?")
	conv.Name = "Pointers"
	conv.CreatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	md := conv.ExportMarkdown()

	for _, want := range []string{"# Pointers", "**User**", "**Assistant**", "What is a pointer?"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestExportJSON_RoundTrip(t *testing.T) {
	conv := sampleConversation("export me")
	conv.ID = "abc"

	data, err := conv.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"id": "abc"`) {
		t.Error("exported JSON missing indented id field")
	}
}

func TestFormatHistoryList(t *testing.T) {
	out := FormatHistoryList(nil)
	if out != "No saved conversations." {
		t.Errorf("empty list = %q", out)
	}

	metas := []ConversationMeta{{
		Name:         "Test chat",
		Model:        "llama3.2",
		MessageCount: 4,
		UpdatedAt:    time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
	}}
	out = FormatHistoryList(metas)
	if !strings.Contains(out, "Test chat") || !strings.Contains(out, "2025-03-01 09:30") {
		t.Errorf("formatted list missing fields:\n%s", out)
	}
}
