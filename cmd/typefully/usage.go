// ABOUTME: Usage text for the whole CLI and for single commands.
// ABOUTME: Rendered from the command registry so help never drifts from the commands.
package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/2389-research/typefully/internal/config"
)

const usageHeader = `Typefully CLI - Manage social media posts via the Typefully API

USAGE:
  typefully <command> [arguments]

COMMANDS:
`

const usageFooter = `
GLOBAL OPTIONS:
  --social-set-id <id>                       Social set to act on (also --social_set_id)
  --use-default                              Required when using the default social set with a single argument
  --help, -h                                 Show help

EXAMPLES:
  # Non-interactive setup, auto-selects the default if only one social set exists
  typefully setup --key typ_xxx --location global

  # Create a thread (use --- on its own line to separate posts)
  typefully drafts:create 123 --platform x --text $'First\n---\nSecond'

  # Publish using the default social set (requires --use-default for safety)
  typefully drafts:publish 456 --use-default

  # Upload media, then attach it
  typefully media:upload 123 ./image.jpg
  typefully drafts:create 123 --platform x --text "Look!" --media <media_id>

ENVIRONMENT:
  TYPEFULLY_API_KEY                          API key (highest priority)
  TYPEFULLY_API_BASE                         API base URL
  TYPEFULLY_MEDIA_POLL_INTERVAL_MS           Media status poll interval
  TYPEFULLY_LOG_LEVEL, TYPEFULLY_LOG_FORMAT  Diagnostics on stderr (debug|info|warn|error, text|json)

CONFIG PRIORITY:
  1. TYPEFULLY_API_KEY environment variable
  2. ./.typefully/config.json (project-local)
  3. ~/.config/typefully/config.json (user-global)

GET YOUR API KEY:
  ` + config.APIKeyURL + `
`

func writeUsage(w io.Writer, commands []command) error {
	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString(usageHeader)
	for _, c := range commands {
		writeCommandLines(bw, c)
	}
	_, _ = bw.WriteString(usageFooter)
	return bw.Flush()
}

func writeCommandHelp(w io.Writer, c command) error {
	bw := bufio.NewWriter(w)
	_, _ = fmt.Fprintf(bw, "USAGE:\n  typefully %s\n\n%s\n", c.use, c.short)
	if len(c.aliases) > 0 {
		_, _ = fmt.Fprintf(bw, "\nALIASES:\n  %s\n", strings.Join(c.aliases, ", "))
	}
	if c.help != "" {
		_, _ = fmt.Fprintf(bw, "\nOPTIONS:\n%s", indent(c.help, "  "))
	}
	return bw.Flush()
}

func writeCommandLines(w io.Writer, c command) {
	_, _ = fmt.Fprintf(w, "  %-42s %s\n", c.use, c.short)
	if c.help != "" {
		_, _ = io.WriteString(w, indent(c.help, "    "))
	}
	_, _ = io.WriteString(w, "\n")
}

func indent(text, prefix string) string {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
