// ABOUTME: Per-invocation state shared by command handlers.
// ABOUTME: Holds settings, config resolution, the lazily built API client, and terminal access.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/2389-research/typefully/internal/api"
	"github.com/2389-research/typefully/internal/apperr"
	"github.com/2389-research/typefully/internal/args"
	"github.com/2389-research/typefully/internal/config"
	"github.com/2389-research/typefully/internal/media"
	"github.com/2389-research/typefully/internal/target"
	"github.com/2389-research/typefully/internal/tui"
)

type app struct {
	stdout      io.Writer
	settings    config.Settings
	resolver    config.Resolver
	logger      *slog.Logger
	notes       *tui.Notifier
	term        tui.Terminal
	interactive bool
	clock       media.Clock

	client *api.Client
}

func newApp(stdin io.Reader, stdout, stderr io.Writer, settings config.Settings, paths config.Paths, logger *slog.Logger) *app {
	return &app{
		stdout:   stdout,
		settings: settings,
		resolver: config.Resolver{Paths: paths, EnvAPIKey: settings.APIKey},
		logger:   logger,
		notes:    tui.NewNotifier(stderr),
		term:     tui.Terminal{In: stdin, Out: stderr},
		// Prompts need a keyboard on stdin; piped or redirected input never prompts.
		interactive: isTerminal(stdin),
		clock:       media.RealClock,
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// baseClient talks to the configured API base without resolving a key.
// Setup uses it with WithAPIKey to check a key before it is saved.
func (a *app) baseClient() *api.Client {
	return api.NewClient(a.settings.APIBase, "", api.WithLogger(a.logger))
}

// apiClient returns a client for the active API key. The key is resolved on first
// use so that local validation errors win over a missing key.
func (a *app) apiClient() (*api.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	key, ok := a.resolver.APIKey()
	if !ok {
		return nil, apperr.New("API key not found. Get your key at "+config.APIKeyURL,
			"hint", "Run: typefully setup")
	}
	a.logger.Debug("api key resolved", "source", key.Source)
	a.client = api.NewClient(a.settings.APIBase, key.Value, api.WithLogger(a.logger))
	return a.client, nil
}

// invocation is one parsed command call.
type invocation struct {
	*app
	name   string
	parsed *args.Parsed
}

// targets collects the identifier sources for the target resolver.
func (in *invocation) targets() target.Inputs {
	flag, _ := in.parsed.String("social_set_id")
	def, _ := in.resolver.DefaultSocialSet()
	return target.Inputs{
		Command:    in.name,
		Positional: in.parsed.Positional,
		Flag:       flag,
		Default:    def.Value,
		UseDefault: in.parsed.Bool("use_default"),
	}
}

// socialSet resolves "<cmd> [social_set_id]" commands.
func (in *invocation) socialSet() (string, error) {
	id, _, err := target.Single(in.targets())
	return id, err
}

// required is the error for a missing required option.
func (in *invocation) required(name string) error {
	return apperr.Newf("%s is required", in.parsed.Display(name))
}

// cancelled maps an aborted prompt onto the error envelope.
func cancelled(err error) error {
	if errors.Is(err, tui.ErrCancelled) || errors.Is(err, context.Canceled) {
		return apperr.New("Cancelled")
	}
	return err
}
