// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for ollamaterm.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdModels
	CmdPull
	CmdRm
	CmdHistory
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	Model   string
	Plain   bool // Disable Markdown rendering and colors

	// Command-specific
	Query      string
	File       string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `ollamaterm %s - terminal chat for local Ollama models

Usage:
  ollamaterm                      Start the TUI (default)
  ollamaterm ask "question"       Ask a single question, stream the answer
  ollamaterm chat                 Interactive chat REPL
  ollamaterm models               List installed models
  ollamaterm pull <model:tag>     Download a model
  ollamaterm rm <model:tag>       Delete a model
  ollamaterm history [subcommand] Saved conversation management
  ollamaterm config [subcommand]  Configuration
  ollamaterm version              Print version
  ollamaterm help                 Show this help

Ask:
  ollamaterm ask "Explain goroutines"
  cat error.log | ollamaterm ask "What went wrong here?"
  ollamaterm ask -f main.go "Review this code"
    -f, --file FILE     Include file content with the question
    -m, --model NAME    Use a specific model for this question
    --plain             Raw output, no Markdown rendering

Chat REPL commands:
  /model [name]         Show or switch the active model
  /models               List installed models
  /clear                Clear the conversation context
  /save                 Save the conversation
  /history              Show the conversation so far
  /help                 Show REPL help
  /quit                 Exit (also: exit, quit, Ctrl+D)

History:
  ollamaterm history                 List saved conversations
  ollamaterm history show <n>        Show conversation n from the list
  ollamaterm history search <query>  Full-text search across messages
  ollamaterm history export <n>      Export conversation n
    --format md|json                 Export format (default: md)
    --output FILE                    Write to file (default: stdout)
  ollamaterm history delete <n>      Delete conversation n
  ollamaterm history clear --confirm Delete all saved conversations

Config:
  ollamaterm config show             Print the active configuration
  ollamaterm config path             Print the config file location
  ollamaterm config set <key> <val>  Set a value (model, url, theme)

Global flags:
  -m, --model NAME    Override the default model
  -q, --quiet         Minimal output
  -v, --verbose       Verbose output
  --plain             Disable colors and Markdown rendering

Environment:
  OLLAMATERM_MODEL, OLLAMATERM_URL, OLLAMATERM_THEME override config values.
  NO_COLOR disables colored output.
`

// PrintUsage prints the top-level usage text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("ollamaterm version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments. Split out from Parse for testing.
func ParseArgs(args []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(args)

	// No arguments: launch the TUI
	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "ask":
		parseAskArgs(&parsed, remaining)
		return CmdAsk, parsed

	case "chat":
		return CmdChat, parsed

	case "models", "list", "ls":
		return CmdModels, parsed

	case "pull":
		if len(remaining) > 0 {
			parsed.Query = remaining[0]
		}
		return CmdPull, parsed

	case "rm", "remove", "delete":
		if len(remaining) > 0 {
			parsed.Query = remaining[0]
		}
		return CmdRm, parsed

	case "history", "hist":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
		}
		return CmdHistory, parsed

	case "config":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
		}
		return CmdConfig, parsed

	case "version", "-v", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		// Unknown word: treat the whole line as an ask query, which makes
		// `ollamaterm "why is the sky blue"` work.
		parsed.Raw = append([]string{cmd}, remaining...)
		parseAskArgs(&parsed, parsed.Raw)
		return CmdAsk, parsed
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "--verbose":
			parsed.Verbose = true
		case "--plain", "--no-color":
			parsed.Plain = true
		case "-m", "--model":
			if i+1 < len(args) {
				i++
				parsed.Model = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--model=") {
				parsed.Model = strings.TrimPrefix(arg, "--model=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsed
}

// parseAskArgs parses ask command specific arguments. Positional words are
// joined into the query.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-f", "--file":
			if i+1 < len(remaining) {
				i++
				args.File = remaining[i]
			}
		case "-m", "--model":
			if i+1 < len(remaining) {
				i++
				args.Model = remaining[i]
			}
		case "--plain":
			args.Plain = true
		default:
			switch {
			case strings.HasPrefix(arg, "--file="):
				args.File = strings.TrimPrefix(arg, "--file=")
			case strings.HasPrefix(arg, "--model="):
				args.Model = strings.TrimPrefix(arg, "--model=")
			case strings.HasPrefix(arg, "-"):
				// Unknown flag, ignore
			default:
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// HandleVersion prints version info.
func HandleVersion() {
	PrintVersion()
}

// HandleHelp prints usage.
func HandleHelp() {
	PrintUsage()
}
