// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// models.go - Model management commands: models, pull, rm.

package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/ollamaterm/internal/config"
	"github.com/jeranaias/ollamaterm/internal/ollama"
	"github.com/jeranaias/ollamaterm/internal/ui/styles"
	"github.com/jeranaias/ollamaterm/internal/util"
)

// =============================================================================
// MODELS
// =============================================================================

// HandleModels lists the installed models.
func HandleModels(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	ctx := context.Background()
	if err := client.EnsureRunning(ctx); err != nil {
		return err
	}

	models, err := client.ListModels(ctx)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		fmt.Println("No models installed. Download one with: ollamaterm pull llama3.2")
		return nil
	}

	fmt.Printf("%s %s %s\n",
		util.PadRight("NAME", 32), util.PadRight("SIZE", 10), "MODIFIED")
	for _, m := range models {
		marker := "  "
		if m.Name == cfg.DefaultModel {
			marker = "* "
		}
		fmt.Printf("%s%s %s %s\n",
			marker,
			util.PadRight(m.Name, 30),
			util.PadRight(m.FormatSize(), 10),
			m.ModifiedAt.Format("2006-01-02"))
	}
	return nil
}

// =============================================================================
// PULL
// =============================================================================

// HandlePull downloads a model, printing progress in place on a TTY.
func HandlePull(args Args) error {
	name := strings.TrimSpace(args.Query)
	if name == "" {
		return fmt.Errorf("no model given. Usage: ollamaterm pull <model:tag>")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	ctx := context.Background()
	if err := client.EnsureRunning(ctx); err != nil {
		return err
	}

	fmt.Printf("Pulling %s...\n", name)

	tty := IsStdoutTTY()
	lastStatus := ""
	err = client.PullModel(ctx, name, func(p ollama.PullProgress) {
		if tty {
			// Rewrite the current line instead of scrolling
			if pct := p.Percent(); pct >= 0 {
				fmt.Printf("\r\033[K%s %5.1f%%", p.Status, pct)
			} else {
				fmt.Printf("\r\033[K%s", p.Status)
			}
			return
		}
		// Piped output: one line per status change
		if p.Status != lastStatus {
			fmt.Println(p.Status)
			lastStatus = p.Status
		}
	})
	if tty {
		fmt.Println()
	}
	if err != nil {
		return err
	}

	fmt.Println(styles.RenderSuccess("Pulled " + name))
	return nil
}

// =============================================================================
// RM
// =============================================================================

// HandleRm deletes an installed model after confirmation.
func HandleRm(args Args) error {
	name := strings.TrimSpace(args.Query)
	if name == "" {
		return fmt.Errorf("no model given. Usage: ollamaterm rm <model:tag>")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	ctx := context.Background()
	if err := client.EnsureRunning(ctx); err != nil {
		return err
	}

	exists, err := client.ModelExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("model %q is not installed", name)
	}

	if !args.Quiet && IsTTY() {
		if !confirm(fmt.Sprintf("Delete %s?", name)) {
			fmt.Fprintln(os.Stderr, "Aborted")
			return nil
		}
	}

	if err := client.DeleteModel(ctx, name); err != nil {
		return err
	}
	fmt.Println(styles.RenderSuccess("Removed " + name))
	return nil
}
