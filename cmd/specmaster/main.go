// Command specmaster is an interactive explorer for OpenAPI documents.
//
// Usage:
//
//	specmaster <file|url>             Open the interactive explorer
//	specmaster stats <file|url>       Document statistics
//	specmaster endpoints <file|url>   Plain endpoint listing
//	specmaster search <file|url> <q>  One-shot search from the shell
//	specmaster events                 Tail the diagnostics event log
package main

import (
	"fmt"
	"os"
	"strings"
)

const usage = `specmaster — OpenAPI document explorer

Usage:
  specmaster <file|url>              Open the interactive explorer
  specmaster <command> [flags] <file|url>

Commands:
  stats       Document statistics (endpoints, schemas, tags, methods)
  endpoints   Plain endpoint listing (scriptable, one per line)
  search      One-shot search from the shell
  events      Tail the diagnostics event log (~/.specmaster/events.jsonl)

Sources may be local files (.json, .yaml, .yml, optionally .gz) or
http(s) URLs.

Run 'specmaster <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]

	switch cmd {
	case "stats":
		os.Args = os.Args[1:]
		runStats()
	case "endpoints":
		os.Args = os.Args[1:]
		runEndpoints()
	case "search":
		os.Args = os.Args[1:]
		runSearch()
	case "events":
		os.Args = os.Args[1:]
		runEvents()
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		if strings.HasPrefix(cmd, "-") {
			fmt.Fprintf(os.Stderr, "specmaster: unknown flag %q\n\n", cmd)
			fmt.Print(usage)
			os.Exit(1)
		}
		runTUI(cmd)
	}
}
