// ABOUTME: config:show and config:set-default commands.
// ABOUTME: Reports where the API key and default social set come from and stores a new default.
package main

import (
	"context"
	"net/url"

	"github.com/2389-research/typefully/internal/api"
	"github.com/2389-research/typefully/internal/apperr"
	"github.com/2389-research/typefully/internal/args"
	"github.com/2389-research/typefully/internal/config"
	"github.com/2389-research/typefully/internal/target"
	"github.com/2389-research/typefully/internal/tui"
)

var locationOption = args.Option{Name: "location", Kind: args.String, Aliases: []string{"scope"}}

type unconfiguredOutput struct {
	Configured bool   `json:"configured"`
	Hint       string `json:"hint"`
	APIKeyURL  string `json:"api_key_url"`
}

type defaultSocialSet struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

type configFiles struct {
	Local  *config.FileStatus `json:"local"`
	Global *config.FileStatus `json:"global"`
}

type configOutput struct {
	Configured       bool              `json:"configured"`
	ActiveSource     string            `json:"active_source"`
	APIKeyPreview    string            `json:"api_key_preview"`
	DefaultSocialSet *defaultSocialSet `json:"default_social_set"`
	ConfigFiles      configFiles       `json:"config_files"`
}

type setDefaultOutput struct {
	Success            bool   `json:"success"`
	Message            string `json:"message"`
	DefaultSocialSetID string `json:"default_social_set_id"`
	ConfigPath         string `json:"config_path"`
	Scope              string `json:"scope"`
}

func runConfigShow(_ context.Context, in *invocation) (any, error) {
	key, ok := in.resolver.APIKey()
	if !ok {
		return unconfiguredOutput{
			Configured: false,
			Hint:       "Run: typefully setup",
			APIKeyURL:  config.APIKeyURL,
		}, nil
	}

	out := configOutput{
		Configured:    true,
		ActiveSource:  key.Source,
		APIKeyPreview: config.MaskKey(key.Value),
		ConfigFiles: configFiles{
			Local:  config.Status(in.resolver.Paths.Local),
			Global: config.Status(in.resolver.Paths.Global),
		},
	}
	if def, ok := in.resolver.DefaultSocialSet(); ok {
		out.DefaultSocialSet = &defaultSocialSet{ID: def.Value, Source: def.Source}
	}
	return out, nil
}

func runConfigSetDefault(ctx context.Context, in *invocation) (any, error) {
	var scope config.Scope
	if loc, ok := in.parsed.String("location"); ok {
		s, err := config.ParseScope(loc)
		if err != nil {
			return nil, apperr.New(err.Error())
		}
		scope = s
	}

	var id string
	t := in.targets()
	if len(t.Positional) > 0 || t.Flag != "" {
		t.Default = ""
		var err error
		if id, _, err = target.Single(t); err != nil {
			return nil, err
		}
	}

	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}

	if id == "" {
		if id, err = in.pickSocialSet(ctx, client); err != nil {
			return nil, err
		}
	}

	if _, err := client.Get(ctx, api.SocialSetPath(id), nil); err != nil {
		in.logger.Debug("social set check failed", "id", id, "error", err)
		return nil, apperr.Newf("Social set %s not found or not accessible", id)
	}

	if scope == "" {
		if scope, err = in.chooseScope(ctx, "Where should the default be stored?"); err != nil {
			return nil, err
		}
	}

	path := in.resolver.Paths.For(scope)
	if err := config.Merge(path, map[string]any{config.KeyDefaultSocialSetID: id}); err != nil {
		return nil, err
	}
	in.notes.Success("Default social set saved to %s", path)

	return setDefaultOutput{
		Success:            true,
		Message:            "Default social set configured",
		DefaultSocialSetID: id,
		ConfigPath:         path,
		Scope:              string(scope),
	}, nil
}

// pickSocialSet chooses a social set when none was given: the only one, or
// the user's pick on a terminal.
func (in *invocation) pickSocialSet(ctx context.Context, client *api.Client) (string, error) {
	if !in.interactive {
		return "", apperr.New("social_set_id is required",
			"hint", "Pass it as an argument: typefully config:set-default <social_set_id>")
	}

	raw, err := client.Get(ctx, "/social-sets", url.Values{"limit": {"50"}})
	if err != nil {
		return "", err
	}
	options, err := tui.SocialSetOptions(raw)
	if err != nil {
		return "", err
	}

	switch len(options) {
	case 0:
		return "", apperr.New("No social sets found. Create one at typefully.com first.")
	case 1:
		in.notes.Success("Auto-selecting: %s", options[0].Label)
		return options[0].Value, nil
	}

	opt, ok, err := in.term.Choose(ctx, "Choose a default social set", options, false)
	if err != nil {
		return "", cancelled(err)
	}
	if !ok {
		return "", apperr.New("Cancelled")
	}
	return opt.Value, nil
}

// chooseScope asks for a storage location on a terminal and defaults to
// global otherwise.
func (in *invocation) chooseScope(ctx context.Context, title string) (config.Scope, error) {
	if !in.interactive {
		return config.ScopeGlobal, nil
	}
	opt, ok, err := in.term.Choose(ctx, title, tui.LocationOptions(), false)
	if err != nil {
		return "", cancelled(err)
	}
	if !ok {
		return "", apperr.New("Cancelled")
	}
	return config.ParseScope(opt.Value)
}
