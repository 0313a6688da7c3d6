// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/ollamaterm/internal/storage"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ix.Close() })
	return ix
}

func conversation(id, name string, contents ...string) *storage.StoredConversation {
	conv := &storage.StoredConversation{
		ID:        id,
		Name:      name,
		Model:     "llama3.2",
		UpdatedAt: time.Now(),
	}
	for i, c := range contents {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		conv.Messages = append(conv.Messages, storage.StoredMessage{
			Role: role, Content: c, Timestamp: time.Now(),
		})
	}
	return conv
}

func TestAddAndSearch(t *testing.T) {
	ix := openTestIndex(t)

	require.NoError(t, ix.Add(conversation("c1", "Concurrency",
		"how do goroutines work", "Goroutines are lightweight threads.")))
	require.NoError(t, ix.Add(conversation("c2", "Sorting",
		"how do I sort a slice", "Use sort.Slice with a less function.")))

	hits, err := ix.Search("goroutines", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	for _, h := range hits {
		assert.Equal(t, "c1", h.ConversationID)
		assert.Equal(t, "Concurrency", h.Name)
		assert.Contains(t, h.Snippet, "[")
	}

	hits, err = ix.Search("slice", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "c2", hits[0].ConversationID)
}

func TestSearch_PrefixMatch(t *testing.T) {
	ix := openTestIndex(t)
	require.NoError(t, ix.Add(conversation("c1", "Chat", "tell me about channels")))

	hits, err := ix.Search("chan", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearch_MultiTermIsConjunction(t *testing.T) {
	ix := openTestIndex(t)
	require.NoError(t, ix.Add(conversation("c1", "A", "red green")))
	require.NoError(t, ix.Add(conversation("c2", "B", "red blue")))

	hits, err := ix.Search("red blue", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c2", hits[0].ConversationID)
}

func TestSearch_QuotesInQueryAreSafe(t *testing.T) {
	ix := openTestIndex(t)
	require.NoError(t, ix.Add(conversation("c1", "A", `he said "hello" loudly`)))

	hits, err := ix.Search(`"hello"`, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	// FTS5 operators in user input must not be interpreted
	_, err = ix.Search(`NOT AND (`, 10)
	assert.NoError(t, err)
}

func TestSearch_EmptyQuery(t *testing.T) {
	ix := openTestIndex(t)

	_, err := ix.Search("   ", 10)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestAdd_ReplacesExistingEntry(t *testing.T) {
	ix := openTestIndex(t)

	require.NoError(t, ix.Add(conversation("c1", "First", "original content")))
	require.NoError(t, ix.Add(conversation("c1", "First", "replacement content")))

	hits, err := ix.Search("original", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = ix.Search("replacement", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	convs, msgs, err := ix.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, convs)
	assert.Equal(t, 1, msgs)
}

func TestRemove(t *testing.T) {
	ix := openTestIndex(t)

	require.NoError(t, ix.Add(conversation("c1", "A", "find me")))
	require.NoError(t, ix.Remove("c1"))

	hits, err := ix.Search("find", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	// Removing an unknown ID is not an error
	assert.NoError(t, ix.Remove("nope"))
}

func TestRebuild(t *testing.T) {
	store, err := storage.NewChatStoreWithDir(t.TempDir())
	require.NoError(t, err)

	for _, prompt := range []string{"about goroutines", "about channels"} {
		_, err := store.Save(&storage.StoredConversation{
			Model: "llama3.2",
			Messages: []storage.StoredMessage{
				{Role: "user", Content: prompt, Timestamp: time.Now()},
			},
		})
		require.NoError(t, err)
	}

	ix := openTestIndex(t)
	// Stale entry that no longer exists in the store
	require.NoError(t, ix.Add(conversation("stale", "Old", "vanished text")))

	require.NoError(t, ix.Rebuild(store))

	hits, err := ix.Search("vanished", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = ix.Search("goroutines", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	convs, _, err := ix.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, convs)
}

func TestSearch_LimitApplied(t *testing.T) {
	ix := openTestIndex(t)
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		require.NoError(t, ix.Add(conversation(id, "N"+id, "common phrase here")))
	}

	hits, err := ix.Search("common", 3)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestClosedIndex(t *testing.T) {
	ix := openTestIndex(t)
	require.NoError(t, ix.Close())

	assert.ErrorIs(t, ix.Add(conversation("c1", "A", "x")), ErrClosed)
	_, err := ix.Search("x", 10)
	assert.ErrorIs(t, err, ErrClosed)
}
