// ABOUTME: Commands for listing and creating draft tags.
// ABOUTME: Both accept an optional social set id and fall back to the default.
package main

import (
	"context"
	"net/url"

	"github.com/2389-research/typefully/internal/api"
	"github.com/2389-research/typefully/internal/args"
)

func tagCommands() []command {
	return []command{
		{
			use:   "tags:list [social_set_id]",
			short: "List all tags (uses default if ID omitted)",
			run:   runTagsList,
		},
		{
			use:     "tags:create [social_set_id]",
			short:   "Create a new tag (uses default if ID omitted)",
			help:    "--name <name>                              Tag name (required)\n",
			options: args.Schema{{Name: "name", Kind: args.String}},
			run:     runTagsCreate,
		},
	}
}

func runTagsList(ctx context.Context, in *invocation) (any, error) {
	id, err := in.socialSet()
	if err != nil {
		return nil, err
	}
	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	return client.Get(ctx, api.SocialSetPath(id, "tags"), url.Values{"limit": {"50"}})
}

func runTagsCreate(ctx context.Context, in *invocation) (any, error) {
	id, err := in.socialSet()
	if err != nil {
		return nil, err
	}
	name, _ := in.parsed.String("name")
	if name == "" {
		return nil, in.required("name")
	}
	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	return client.Post(ctx, api.SocialSetPath(id, "tags"), map[string]string{"name": name})
}
