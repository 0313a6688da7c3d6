// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"strings"
	"time"
)

// =============================================================================
// SEARCH RESULT
// =============================================================================

// Hit is a single search result: one matching message, with enough
// context to open the conversation it came from.
type Hit struct {
	ConversationID string
	Name           string
	Model          string
	UpdatedAt      time.Time
	Role           string
	Position       int
	Snippet        string // matched text with [..] markers around hits
}

// DefaultMaxResults caps search output when the caller passes limit <= 0.
const DefaultMaxResults = 50

// =============================================================================
// SEARCH
// =============================================================================

// Search finds messages matching the query, best match first. The query is
// matched as a conjunction of prefix terms, so "gor chan" finds messages
// containing words starting with "gor" and "chan".
func (ix *Index) Search(query string, limit int) ([]Hit, error) {
	ftsQuery := buildFTSQuery(query)
	if ftsQuery == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultMaxResults
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.db == nil {
		return nil, ErrClosed
	}

	rows, err := ix.db.Query(`
		SELECT m.conversation_id, c.name, c.model, c.updated_at, m.role, m.position,
		       snippet(messages_fts, 0, '[', ']', '...', 12)
		FROM messages_fts m
		JOIN conversations c ON c.id = m.conversation_id
		WHERE messages_fts MATCH ?
		ORDER BY bm25(messages_fts), c.updated_at DESC
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var updatedAt int64
		if err := rows.Scan(&h.ConversationID, &h.Name, &h.Model, &updatedAt,
			&h.Role, &h.Position, &h.Snippet); err != nil {
			return nil, err
		}
		h.UpdatedAt = time.Unix(updatedAt, 0)
		hits = append(hits, h)
	}

	return hits, rows.Err()
}

// buildFTSQuery turns free text into a safe FTS5 match expression: each
// whitespace token becomes a quoted prefix term, joined with implicit AND.
// Quoting neutralizes FTS5 operators in user input.
func buildFTSQuery(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, `""`)
		terms = append(terms, `"`+f+`"*`)
	}
	return strings.Join(terms, " ")
}
