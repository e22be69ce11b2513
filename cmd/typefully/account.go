// ABOUTME: Commands for the authenticated user, social sets, and LinkedIn lookups.
// ABOUTME: Thin pass-throughs that print the API response.
package main

import (
	"context"
	"net/url"

	"github.com/2389-research/typefully/internal/api"
	"github.com/2389-research/typefully/internal/args"
)

func accountCommands() []command {
	return []command{
		{
			use:   "me:get",
			short: "Get authenticated user info",
			run:   runMeGet,
		},
		{
			use:   "social-sets:list",
			short: "List all social sets",
			run:   runSocialSetsList,
		},
		{
			use:   "social-sets:get [social_set_id]",
			short: "Get social set details with platforms (uses default if ID omitted)",
			run:   runSocialSetsGet,
		},
	}
}

func linkedinCommands() []command {
	return []command{
		{
			use:   "linkedin:organizations:resolve [social_set_id]",
			short: "Resolve a LinkedIn company page URL into a mentionable organization",
			help:  "--organization-url, --url <url>            LinkedIn company page URL (required)\n",
			options: args.Schema{
				{Name: "organization_url", Kind: args.String, Aliases: []string{"url"}},
			},
			run: runLinkedinResolve,
		},
	}
}

func runMeGet(ctx context.Context, in *invocation) (any, error) {
	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	return client.Get(ctx, "/me", nil)
}

func runSocialSetsList(ctx context.Context, in *invocation) (any, error) {
	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	return client.Get(ctx, "/social-sets", url.Values{"limit": {"50"}})
}

func runSocialSetsGet(ctx context.Context, in *invocation) (any, error) {
	id, err := in.socialSet()
	if err != nil {
		return nil, err
	}
	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	return client.Get(ctx, api.SocialSetPath(id), nil)
}

func runLinkedinResolve(ctx context.Context, in *invocation) (any, error) {
	id, err := in.socialSet()
	if err != nil {
		return nil, err
	}
	orgURL, _ := in.parsed.String("organization_url")
	if orgURL == "" {
		return nil, in.required("organization_url")
	}
	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	return client.Get(ctx, api.SocialSetPath(id, "linkedin", "organizations", "resolve"),
		url.Values{"organization_url": {orgURL}})
}
