// ABOUTME: Root Cobra command, command registry, and the dispatcher.
// ABOUTME: Every outcome is a single JSON document on stdout; errors exit 1.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/2389-research/typefully/internal/api"
	"github.com/2389-research/typefully/internal/apperr"
	"github.com/2389-research/typefully/internal/args"
	"github.com/2389-research/typefully/internal/config"
	"github.com/2389-research/typefully/internal/logutil"
)

// handler runs a parsed command. A nil result prints nothing.
type handler func(ctx context.Context, in *invocation) (any, error)

// command is one registry entry. Options are parsed by internal/args, so
// cobra only routes by name and renders help.
type command struct {
	use     string // name plus positional synopsis
	aliases []string
	short   string
	help    string // option lines shown under the command
	options args.Schema
	run     handler
}

func (c command) name() string {
	name, _, _ := strings.Cut(c.use, " ")
	return name
}

// registry lists commands in the order they appear in usage output.
func registry() []command {
	var out []command
	out = append(out, setupCommands()...)
	out = append(out, accountCommands()...)
	out = append(out, draftCommands()...)
	out = append(out, tagCommands()...)
	out = append(out, mediaCommands()...)
	out = append(out, queueCommands()...)
	out = append(out, linkedinCommands()...)
	out = append(out, mcpCommand())
	return out
}

func run(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer) int {
	settings := config.LoadSettings()

	logger, err := logutil.New(logutil.LoggerConfig{
		Level:  settings.LogLevel,
		Format: settings.LogFormat,
	}, stderr)
	if err != nil {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("invalid logging settings", "error", err)
	}
	logger = logger.With("run_id", uuid.NewString())

	paths, err := config.DefaultPaths()
	if err != nil {
		writeError(stdout, err)
		return 1
	}

	a := newApp(stdin, stdout, stderr, settings, paths, logger)
	root := newRootCmd(a, stdout)
	// cobra reads os.Args when given nil.
	if argv == nil {
		argv = []string{}
	}
	root.SetArgs(argv)

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Debug("command failed", "error", err)
		writeError(stdout, err)
		return 1
	}
	return 0
}

func newRootCmd(a *app, stdout io.Writer) *cobra.Command {
	commands := registry()

	root := &cobra.Command{
		Use:                "typefully",
		Short:              "Manage social media posts via the Typefully API",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceErrors:      true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, argv []string) error {
			if len(argv) == 0 || argv[0] == "--help" || argv[0] == "-h" || argv[0] == "help" {
				return writeUsage(stdout, commands)
			}
			return apperr.Newf("Unknown command: %s", argv[0]).
				With("hint", "Use --help for usage.")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(stdout)
	root.SetErr(stdout)

	for _, c := range commands {
		root.AddCommand(c.cobra(a, stdout))
	}

	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if cmd == root {
			_ = writeUsage(stdout, commands)
			return
		}
		for _, c := range commands {
			if c.name() == cmd.Name() {
				_ = writeCommandHelp(stdout, c)
				return
			}
		}
	})

	return root
}

func (c command) cobra(a *app, stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:                c.use,
		Aliases:            c.aliases,
		Short:              c.short,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, argv []string) error {
			return a.dispatch(cmd.Context(), c, cmd.CalledAs(), argv, stdout)
		},
	}
}

// dispatch parses argv against the command schema, runs the handler, and
// prints its result.
func (a *app) dispatch(ctx context.Context, c command, calledAs string, argv []string, stdout io.Writer) error {
	parsed, err := args.Parse(argv, c.options.With(args.Global))
	if err != nil {
		return err
	}
	if parsed.Bool("help") {
		return writeCommandHelp(stdout, c)
	}

	if calledAs == "" {
		calledAs = c.name()
	}
	a.logger.Debug("dispatch", "command", calledAs, "positional", len(parsed.Positional))

	result, err := c.run(ctx, &invocation{app: a, name: calledAs, parsed: parsed})
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return writeJSON(stdout, result)
}

// writeJSON prints v as indented JSON. Raw responses keep the server's key order.
func writeJSON(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

type httpErrorOutput struct {
	Error    string          `json:"error"`
	Response json.RawMessage `json:"response"`
}

// writeError normalizes any error into the JSON error envelope.
func writeError(w io.Writer, err error) {
	var (
		appErr  *apperr.Error
		httpErr *api.HTTPError
		pathErr *fs.PathError
		out     any
	)
	switch {
	case errors.As(err, &appErr):
		out = appErr
	case errors.As(err, &httpErr):
		out = httpErrorOutput{Error: httpErr.Error(), Response: httpErr.Body}
	case errors.As(err, &pathErr) && errors.Is(err, fs.ErrNotExist):
		out = apperr.Newf("File not found: %s", pathErr.Path)
	default:
		out = apperr.New(err.Error())
	}
	if werr := writeJSON(w, out); werr != nil {
		_, _ = fmt.Fprintf(w, "{\"error\": %q}\n", err.Error())
	}
}
