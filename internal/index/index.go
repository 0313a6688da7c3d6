// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/ollamaterm/internal/storage"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed     = errors.New("index is closed")
	ErrEmptyQuery = errors.New("empty search query")
)

// =============================================================================
// CONVERSATION INDEX
// =============================================================================

// Index is a SQLite search index over saved conversations. Safe for
// concurrent use; SQLite allows a single writer so the pool is capped
// at one connection.
type Index struct {
	db *sql.DB
	mu sync.RWMutex
}

// DefaultPath returns the index location under the ollamaterm data
// directory.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".ollamaterm", "history.db"), nil
}

// Open opens (creating if needed) the index database at path.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	// SQLite supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize metadata: %w", err)
	}

	return &Index{db: db}, nil
}

// Close closes the index and releases resources.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.db == nil {
		return nil
	}
	err := ix.db.Close()
	ix.db = nil
	return err
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// Add indexes a conversation, replacing any previous entry for the same ID.
// Called after every store.Save.
func (ix *Index) Add(conv *storage.StoredConversation) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.db == nil {
		return ErrClosed
	}

	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := removeTx(tx, conv.ID); err != nil {
		return err
	}

	_, err = tx.Exec(
		"INSERT INTO conversations (id, name, model, updated_at, message_count) VALUES (?, ?, ?, ?, ?)",
		conv.ID, conv.Name, conv.Model, conv.UpdatedAt.Unix(), len(conv.Messages),
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		"INSERT INTO messages_fts (content, conversation_id, role, position) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, msg := range conv.Messages {
		if msg.Content == "" {
			continue
		}
		if _, err := stmt.Exec(msg.Content, conv.ID, msg.Role, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Remove drops a conversation from the index. Called after store.Delete.
func (ix *Index) Remove(id string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.db == nil {
		return ErrClosed
	}

	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := removeTx(tx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func removeTx(tx *sql.Tx, id string) error {
	if _, err := tx.Exec("DELETE FROM messages_fts WHERE conversation_id = ?", id); err != nil {
		return err
	}
	_, err := tx.Exec("DELETE FROM conversations WHERE id = ?", id)
	return err
}

// Rebuild drops all entries and re-indexes every conversation in the store.
// Recovers from a deleted or stale index file.
func (ix *Index) Rebuild(store *storage.ChatStore) error {
	ix.mu.Lock()
	if ix.db == nil {
		ix.mu.Unlock()
		return ErrClosed
	}

	if _, err := ix.db.Exec("DELETE FROM messages_fts"); err != nil {
		ix.mu.Unlock()
		return err
	}
	if _, err := ix.db.Exec("DELETE FROM conversations"); err != nil {
		ix.mu.Unlock()
		return err
	}
	ix.mu.Unlock()

	metas, err := store.List()
	if err != nil {
		return err
	}

	for _, meta := range metas {
		conv, err := store.Load(meta.ID)
		if err != nil {
			continue // skip corrupted files, same as List
		}
		if err := ix.Add(conv); err != nil {
			return err
		}
	}

	return nil
}

// =============================================================================
// STATISTICS
// =============================================================================

// Stats returns the number of indexed conversations and messages.
func (ix *Index) Stats() (conversations, messages int, err error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.db == nil {
		return 0, 0, ErrClosed
	}

	if err = ix.db.QueryRow("SELECT COUNT(*) FROM conversations").Scan(&conversations); err != nil {
		return 0, 0, err
	}
	if err = ix.db.QueryRow("SELECT COUNT(*) FROM messages_fts").Scan(&messages); err != nil {
		return 0, 0, err
	}
	return conversations, messages, nil
}
