// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - Saved conversation management commands.
//
// Subcommands:
//   history                 List saved conversations
//   history show <n>        Show conversation n (1-based list position)
//   history search <query>  Full-text search across messages
//   history export <n>      Export conversation n (--format md|json, --output FILE)
//   history delete <n>      Delete conversation n
//   history clear           Delete all conversations (--confirm required)

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/ollamaterm/internal/config"
	"github.com/jeranaias/ollamaterm/internal/reflow"
	"github.com/jeranaias/ollamaterm/internal/storage"
	"github.com/jeranaias/ollamaterm/internal/ui/styles"
	"github.com/jeranaias/ollamaterm/internal/util"
)

// HandleHistory dispatches the history subcommands.
func HandleHistory(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	store, err := newStore(cfg)
	if err != nil {
		return err
	}

	parser := NewArgParser(args.Raw)
	switch parser.Subcommand() {
	case "", "list":
		return historyList(store)
	case "show":
		return historyShow(store, parser)
	case "search":
		return historySearch(cfg, store, parser)
	case "export":
		return historyExport(store, parser)
	case "delete", "rm":
		return historyDelete(cfg, store, parser)
	case "clear":
		return historyClear(cfg, store, parser)
	default:
		return fmt.Errorf("unknown history subcommand %q", parser.Subcommand())
	}
}

func historyList(store *storage.ChatStore) error {
	metas, err := store.List()
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("No saved conversations.")
		return nil
	}
	fmt.Print(storage.FormatHistoryList(metas))
	return nil
}

// loadByListPosition resolves a 1-based position from the history list.
func loadByListPosition(store *storage.ChatStore, arg string) (*storage.StoredConversation, error) {
	if arg == "" {
		return nil, fmt.Errorf("missing conversation number (see: ollamaterm history)")
	}
	n := 0
	if _, err := fmt.Sscanf(arg, "%d", &n); err != nil || n < 1 {
		return nil, fmt.Errorf("invalid conversation number %q", arg)
	}
	return store.LoadByIndex(n - 1)
}

func historyShow(store *storage.ChatStore, parser *ArgParser) error {
	conv, err := loadByListPosition(store, parser.Positional(1))
	if err != nil {
		return err
	}

	width := reflow.WidthFor(TerminalWidth())
	fmt.Printf("%s  (%s, %d messages)\n\n", conv.Name, conv.Model, len(conv.Messages))
	for _, msg := range conv.Messages {
		label := "you"
		if msg.Role != "user" {
			label = conv.Model
		}
		fmt.Printf("%s:\n%s\n\n", label, reflow.Reflow(msg.Content, width))
	}
	return nil
}

func historySearch(cfg *config.Config, store *storage.ChatStore, parser *ArgParser) error {
	query := strings.Join(parser.PositionalFrom(1), " ")
	if query == "" {
		return fmt.Errorf("missing search query")
	}

	// Prefer the FTS index; fall back to scanning the JSON files when the
	// index is disabled or unavailable.
	if ix, err := openSearchIndex(cfg); err == nil && ix != nil {
		defer ix.Close()
		hits, err := ix.Search(query, 0)
		if err == nil {
			if len(hits) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for _, h := range hits {
				fmt.Printf("%s %s  %s\n",
					util.PadRight(h.Name, 40),
					h.UpdatedAt.Format("2006-01-02"),
					h.Snippet)
			}
			return nil
		}
	}

	metas, err := store.SearchMessages(query)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	fmt.Print(storage.FormatHistoryList(metas))
	return nil
}

func historyExport(store *storage.ChatStore, parser *ArgParser) error {
	conv, err := loadByListPosition(store, parser.Positional(1))
	if err != nil {
		return err
	}

	var data []byte
	switch format := parser.FlagOrDefault("format", "md"); format {
	case "md", "markdown":
		data = []byte(conv.ExportMarkdown())
	case "json":
		data, err = conv.ExportJSON()
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown export format %q (md or json)", format)
	}

	if out := parser.Flag("output"); out != "" {
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		fmt.Println(styles.RenderSuccess("Exported to " + out))
		return nil
	}
	fmt.Print(string(data))
	return nil
}

func historyDelete(cfg *config.Config, store *storage.ChatStore, parser *ArgParser) error {
	conv, err := loadByListPosition(store, parser.Positional(1))
	if err != nil {
		return err
	}
	if err := store.Delete(conv.ID); err != nil {
		return err
	}
	if ix, err := openSearchIndex(cfg); err == nil && ix != nil {
		_ = ix.Remove(conv.ID)
		ix.Close()
	}
	fmt.Println(styles.RenderSuccess("Deleted " + conv.Name))
	return nil
}

func historyClear(cfg *config.Config, store *storage.ChatStore, parser *ArgParser) error {
	if !parser.BoolFlag("confirm") {
		return fmt.Errorf("this deletes all saved conversations; re-run with --confirm")
	}
	if err := store.Clear(); err != nil {
		return err
	}
	// Rebuilding against the now-empty store drops every indexed row
	if ix, err := openSearchIndex(cfg); err == nil && ix != nil {
		_ = ix.Rebuild(store)
		ix.Close()
	}
	fmt.Println(styles.RenderSuccess("History cleared"))
	return nil
}
