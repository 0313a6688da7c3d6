// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// ARG PARSER TESTS
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"export", "--format", "json"},
			wantSub: "export",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("format") != "json" {
					t.Errorf("Flag(format) = %q, want %q", p.Flag("format"), "json")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"export", "--format=md"},
			wantSub: "export",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("format") != "md" {
					t.Errorf("Flag(format) = %q, want %q", p.Flag("format"), "md")
				}
			},
		},
		{
			name:    "boolean flag",
			args:    []string{"clear", "--confirm"},
			wantSub: "clear",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("confirm") {
					t.Error("BoolFlag(confirm) should be true")
				}
			},
		},
		{
			name:    "explicit boolean false",
			args:    []string{"clear", "--confirm=false"},
			wantSub: "clear",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("confirm") {
					t.Error("BoolFlag(confirm) should be false")
				}
			},
		},
		{
			name:    "multiple positionals",
			args:    []string{"search", "error", "handling"},
			wantSub: "search",
			validate: func(t *testing.T, p *ArgParser) {
				got := strings.Join(p.PositionalFrom(1), " ")
				if got != "error handling" {
					t.Errorf("PositionalFrom(1) joined = %q, want %q", got, "error handling")
				}
			},
		},
		{
			name:    "no arguments",
			args:    nil,
			wantSub: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args)
			if p.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestArgParser_Defaults(t *testing.T) {
	p := NewArgParser([]string{"export", "3"})

	if got := p.FlagOrDefault("format", "md"); got != "md" {
		t.Errorf("FlagOrDefault(format) = %q, want %q", got, "md")
	}
	if got := p.FlagIntOrDefault("limit", 50); got != 50 {
		t.Errorf("FlagIntOrDefault(limit) = %d, want 50", got)
	}
	if got := p.Positional(1); got != "3" {
		t.Errorf("Positional(1) = %q, want %q", got, "3")
	}
	if got := p.Positional(5); got != "" {
		t.Errorf("Positional(5) = %q, want empty", got)
	}
}

func TestArgParser_FlagIntInvalid(t *testing.T) {
	p := NewArgParser([]string{"show", "--lines", "abc"})
	if got := p.FlagIntOrDefault("lines", 10); got != 10 {
		t.Errorf("FlagIntOrDefault with non-number = %d, want default 10", got)
	}
}

// =============================================================================
// COMMAND PARSING TESTS
// =============================================================================

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantCmd Command
	}{
		{"no args starts TUI", nil, CmdTUI},
		{"explicit tui", []string{"tui"}, CmdTUI},
		{"ask", []string{"ask", "hello"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"models", []string{"models"}, CmdModels},
		{"models alias ls", []string{"ls"}, CmdModels},
		{"pull", []string{"pull", "llama3.2"}, CmdPull},
		{"rm", []string{"rm", "llama3.2"}, CmdRm},
		{"rm alias remove", []string{"remove", "llama3.2"}, CmdRm},
		{"history", []string{"history"}, CmdHistory},
		{"config", []string{"config", "show"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"help flag", []string{"-h"}, CmdHelp},
		{"bare question becomes ask", []string{"why is the sky blue"}, CmdAsk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := ParseArgs(tt.args)
			if cmd != tt.wantCmd {
				t.Errorf("ParseArgs(%v) = %v, want %v", tt.args, cmd, tt.wantCmd)
			}
		})
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"-q", "--model", "mistral", "models"})
	if cmd != CmdModels {
		t.Fatalf("command = %v, want CmdModels", cmd)
	}
	if !args.Quiet {
		t.Error("Quiet should be true")
	}
	if args.Model != "mistral" {
		t.Errorf("Model = %q, want %q", args.Model, "mistral")
	}
}

func TestParseArgs_ModelEquals(t *testing.T) {
	_, args := ParseArgs([]string{"--model=phi3", "chat"})
	if args.Model != "phi3" {
		t.Errorf("Model = %q, want %q", args.Model, "phi3")
	}
}

func TestParseArgs_AskQuery(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantQuery string
		wantFile  string
	}{
		{
			name:      "joined positionals",
			args:      []string{"ask", "what", "is", "a", "goroutine"},
			wantQuery: "what is a goroutine",
		},
		{
			name:      "file flag",
			args:      []string{"ask", "-f", "main.go", "review", "this"},
			wantQuery: "review this",
			wantFile:  "main.go",
		},
		{
			name:      "file equals form",
			args:      []string{"ask", "--file=notes.txt", "summarize"},
			wantQuery: "summarize",
			wantFile:  "notes.txt",
		},
		{
			name:      "quoted question",
			args:      []string{"ask", "what is a goroutine?"},
			wantQuery: "what is a goroutine?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args := ParseArgs(tt.args)
			if cmd != CmdAsk {
				t.Fatalf("command = %v, want CmdAsk", cmd)
			}
			if args.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", args.Query, tt.wantQuery)
			}
			if args.File != tt.wantFile {
				t.Errorf("File = %q, want %q", args.File, tt.wantFile)
			}
		})
	}
}

func TestParseArgs_BareQuestionQuery(t *testing.T) {
	_, args := ParseArgs([]string{"explain", "channels"})
	if args.Query != "explain channels" {
		t.Errorf("Query = %q, want %q", args.Query, "explain channels")
	}
}

func TestParseArgs_HistorySubcommand(t *testing.T) {
	_, args := ParseArgs([]string{"history", "export", "2", "--format", "json"})
	if args.Subcommand != "export" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "export")
	}
	if len(args.Raw) != 4 {
		t.Errorf("Raw = %v, want 4 elements", args.Raw)
	}
}

// =============================================================================
// FILE CONTEXT TESTS
// =============================================================================

func TestReadFileForContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snippet.go")
	if err := os.WriteFile(path, []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	content, err := readFileForContext(path)
	if err != nil {
		t.Fatalf("readFileForContext() error = %v", err)
	}
	if !strings.Contains(content, "package main") {
		t.Error("content should include the file body")
	}
	if !strings.Contains(content, "snippet.go") {
		t.Error("content should name the file")
	}
}

func TestReadFileForContext_Missing(t *testing.T) {
	_, err := readFileForContext(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want file-not-found message", err)
	}
}

func TestReadFileForContext_TooLarge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.bin")
	if err := os.WriteFile(path, make([]byte, MaxFileSize+1), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := readFileForContext(path)
	if err == nil {
		t.Fatal("expected error for oversized file")
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Errorf("error = %v, want too-large message", err)
	}
}
