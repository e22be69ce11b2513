// ABOUTME: setup command: stores an API key and optionally a default social set.
// ABOUTME: Runs the bubbletea wizard on a terminal, or non-interactively when a key is passed.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/2389-research/typefully/internal/api"
	"github.com/2389-research/typefully/internal/apperr"
	"github.com/2389-research/typefully/internal/args"
	"github.com/2389-research/typefully/internal/config"
	"github.com/2389-research/typefully/internal/tui"
)

const gitignoreBlock = "# Typefully config (contains API key)\n.typefully/\n"

func setupCommands() []command {
	return []command{
		{
			use:   "setup [api_key]",
			short: "Save API key and optional default social set (interactive without a key)",
			help: `--key <api_key>                            Provide key non-interactively
--location, --scope <global|local>         Config location (default: global in non-interactive mode)
                                           global: ~/.config/typefully/config.json
                                           local: ./.typefully/config.json (project-specific)
--default-social-set <id>                  Set default social set non-interactively
--no-default                               Skip setting a default social set
`,
			options: args.Schema{
				{Name: "key", Kind: args.String},
				locationOption,
				{Name: "default_social_set", Kind: args.String},
				{Name: "no_default", Kind: args.Bool},
			},
			run: runSetup,
		},
		{
			use:   "config:show",
			short: "Show current config, API key source, and default social set",
			run:   runConfigShow,
		},
		{
			use:     "config:set-default [social_set_id]",
			short:   "Set default social set (interactive if ID not provided)",
			help:    "--location, --scope <global|local>         Where to store the default\n",
			options: args.Schema{locationOption},
			run:     runConfigSetDefault,
		},
	}
}

type setupOptions struct {
	Key              string `mapstructure:"key"`
	Location         string `mapstructure:"location"`
	DefaultSocialSet string `mapstructure:"default_social_set"`
	NoDefault        bool   `mapstructure:"no_default"`
}

type setupOutput struct {
	Success            bool    `json:"success"`
	Message            string  `json:"message"`
	ConfigPath         string  `json:"config_path"`
	Scope              string  `json:"scope"`
	DefaultSocialSetID *string `json:"default_social_set_id"`
}

// setupState is what setup knows after the key has been collected.
type setupState struct {
	key            string
	scope          config.Scope
	path           string
	nonInteractive bool
	socialSets     []tui.Option // nil when not fetched yet
}

func runSetup(ctx context.Context, in *invocation) (any, error) {
	var opts setupOptions
	if err := in.parsed.Decode(&opts); err != nil {
		return nil, err
	}

	st := setupState{key: opts.Key}
	if len(in.parsed.Positional) > 0 {
		st.key = in.parsed.Positional[0]
	}
	if opts.Location != "" {
		scope, err := config.ParseScope(opts.Location)
		if err != nil {
			return nil, apperr.New(err.Error())
		}
		st.scope = scope
	}
	st.nonInteractive = st.key != ""

	if !st.nonInteractive {
		if !in.interactive {
			return nil, apperr.New("API key is required",
				"hint", "Run: typefully setup --key <api_key>")
		}
		if err := in.runWizard(ctx, &st); err != nil {
			return nil, err
		}
	}
	st.key = strings.TrimSpace(st.key)
	if st.key == "" {
		return nil, apperr.New("API key is required")
	}
	if st.scope == "" {
		st.scope = config.ScopeGlobal
	}

	st.path = in.resolver.Paths.For(st.scope)
	if err := config.Merge(st.path, map[string]any{config.KeyAPIKey: st.key}); err != nil {
		return nil, err
	}
	if st.scope == config.ScopeLocal {
		if err := in.protectLocalConfig(ctx, st.nonInteractive); err != nil {
			return nil, err
		}
	}
	in.notes.Success("API key saved to %s", st.path)

	defaultID, err := in.setupDefault(ctx, &st, opts)
	if err != nil {
		return nil, err
	}

	return setupOutput{
		Success:            true,
		Message:            "Setup complete",
		ConfigPath:         st.path,
		Scope:              string(st.scope),
		DefaultSocialSetID: defaultID,
	}, nil
}

func (in *invocation) runWizard(ctx context.Context, st *setupState) error {
	client := in.baseClient()
	res, err := in.term.RunSetup(ctx, string(st.scope), func(ctx context.Context, key string) ([]tui.Option, error) {
		return listSocialSets(ctx, client.WithAPIKey(key))
	})
	if err != nil {
		return cancelled(err)
	}
	st.key = res.APIKey
	if res.Location != "" {
		scope, err := config.ParseScope(res.Location)
		if err != nil {
			return err
		}
		st.scope = scope
	}
	if res.Validated {
		st.socialSets = res.SocialSets
		if st.socialSets == nil {
			st.socialSets = []tui.Option{}
		}
	}
	return nil
}

func listSocialSets(ctx context.Context, client *api.Client) ([]tui.Option, error) {
	raw, err := client.Get(ctx, "/social-sets", url.Values{"limit": {"50"}})
	if err != nil {
		return nil, err
	}
	return tui.SocialSetOptions(raw)
}

// setupDefault stores a default social set when one is given or obvious.
// It returns the stored id, or nil when none was stored.
func (in *invocation) setupDefault(ctx context.Context, st *setupState, opts setupOptions) (*string, error) {
	client := in.baseClient().WithAPIKey(st.key)

	if opts.DefaultSocialSet != "" {
		id := opts.DefaultSocialSet
		if _, err := client.Get(ctx, api.SocialSetPath(id), nil); err != nil {
			in.logger.Debug("social set check failed", "id", id, "error", err)
			return nil, apperr.Newf("Social set %s not found or not accessible", id)
		}
		if err := config.Merge(st.path, map[string]any{config.KeyDefaultSocialSetID: id}); err != nil {
			return nil, err
		}
		in.notes.Success("Default social set saved: %s", id)
		return &id, nil
	}

	if opts.NoDefault {
		in.notes.Dim("Skipping default social set configuration.")
		return nil, nil
	}

	sets := st.socialSets
	if sets == nil {
		var err error
		if sets, err = listSocialSets(ctx, client); err != nil {
			in.notes.Warn("Could not fetch social sets: %v", err)
			in.notes.Dim("You can set a default later with: typefully config:set-default")
			return nil, nil
		}
	}

	var chosen tui.Option
	switch {
	case len(sets) == 0:
		in.notes.Warn("No social sets found.")
		in.notes.Dim("To get started, connect a social account at typefully.com:")
		in.notes.Info("https://typefully.com/?settings=accounts")
		in.notes.Dim("After connecting, run: typefully config:set-default")
		return nil, nil
	case len(sets) == 1:
		chosen = sets[0]
	case st.nonInteractive || !in.interactive:
		in.notes.Info("Found %d social sets. Use --default-social-set <id> to set one as default.", len(sets))
		return nil, nil
	default:
		opt, ok, err := in.term.Choose(ctx, "Choose a default social set", sets, true)
		if err != nil {
			return nil, cancelled(err)
		}
		if !ok {
			return nil, nil
		}
		chosen = opt
	}

	if err := config.Merge(st.path, map[string]any{config.KeyDefaultSocialSetID: chosen.Value}); err != nil {
		return nil, err
	}
	in.notes.Success("Default social set: %s", chosen.Label)
	return &chosen.Value, nil
}

// protectLocalConfig makes sure .typefully/ is ignored by git next to the
// local config. Interactive runs ask first.
func (in *invocation) protectLocalConfig(ctx context.Context, nonInteractive bool) error {
	dir := filepath.Dir(filepath.Dir(in.resolver.Paths.Local))
	path := filepath.Join(dir, ".gitignore")

	data, err := os.ReadFile(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read .gitignore: %w", err)
	}
	if exists && (strings.Contains(string(data), ".typefully/") || strings.Contains(string(data), ".typefully\n")) {
		return nil
	}

	if !nonInteractive && in.interactive {
		question := "Add .typefully/ to .gitignore?"
		if !exists {
			in.notes.Warn("No .gitignore found. Your API key could be accidentally committed.")
			question = "Create .gitignore with .typefully/ entry?"
		}
		ok, err := in.term.Confirm(ctx, question)
		if err != nil {
			return cancelled(err)
		}
		if !ok {
			in.notes.Warn("Remember to add .typefully/ to .gitignore to protect your API key")
			return nil
		}
	}

	if !exists {
		if err := os.WriteFile(path, []byte(gitignoreBlock), 0644); err != nil {
			return fmt.Errorf("failed to create .gitignore: %w", err)
		}
		in.notes.Success("Created .gitignore with .typefully/ entry")
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open .gitignore: %w", err)
	}
	defer func() { _ = f.Close() }()
	if _, err := f.WriteString("\n" + gitignoreBlock); err != nil {
		return fmt.Errorf("failed to update .gitignore: %w", err)
	}
	in.notes.Success("Added .typefully/ to .gitignore")
	return nil
}
