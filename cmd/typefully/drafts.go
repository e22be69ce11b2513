// ABOUTME: Draft commands: list, get, create, update, delete, schedule, and publish.
// ABOUTME: Single-argument forms that modify or fetch a draft require --use-default.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"

	"github.com/2389-research/typefully/internal/api"
	"github.com/2389-research/typefully/internal/apperr"
	"github.com/2389-research/typefully/internal/args"
	"github.com/2389-research/typefully/internal/draft"
	"github.com/2389-research/typefully/internal/target"
)

const useDefaultHelp = "--use-default                              Required when using default social set with single arg\n"

var createOptions = args.Schema{
	{Name: "platform", Kind: args.String},
	{Name: "all", Kind: args.Bool},
	{Name: "text", Kind: args.String},
	{Name: "file", Kind: args.String, Aliases: []string{"-f"}},
	{Name: "media", Kind: args.String},
	{Name: "title", Kind: args.String},
	{Name: "schedule", Kind: args.String},
	{Name: "tags", Kind: args.String},
	{Name: "reply_to", Kind: args.String},
	{Name: "community", Kind: args.String},
	{Name: "share", Kind: args.Bool},
	{Name: "notes", Kind: args.String, Aliases: []string{"scratchpad"}},
}

var updateOptions = args.Schema{
	{Name: "platform", Kind: args.String},
	{Name: "text", Kind: args.String},
	{Name: "file", Kind: args.String, Aliases: []string{"-f"}},
	{Name: "media", Kind: args.String},
	{Name: "append", Kind: args.Bool, Aliases: []string{"-a"}},
	{Name: "title", Kind: args.String},
	{Name: "schedule", Kind: args.String},
	{Name: "tags", Kind: args.String},
	{Name: "share", Kind: args.Bool},
	{Name: "notes", Kind: args.String, Aliases: []string{"scratchpad"}},
}

const createHelp = `--platform <platforms>                     Comma-separated: x,linkedin,threads,bluesky,mastodon
                                           (auto-selects first connected platform if omitted)
--all                                      Post to all connected platforms
--text <text>                              Post content (use --- on its own line for threads)
--file, -f <path>                          Read content from file instead of --text
--media <media_ids>                        Comma-separated media IDs to attach
--title <title>                            Draft title (internal only)
--schedule <time>                          "now", "next-free-slot", or ISO datetime
--tags <tag_slugs>                         Comma-separated tag slugs
--reply-to <url>                           URL of X post to reply to
--community <id>                           X community ID to post to
--share                                    Generate a public share URL for the draft
--notes, --scratchpad <text>               Internal notes/scratchpad for the draft
`

const updateHelp = `--platform <platforms>                     Comma-separated platforms
                                           (preserves draft's existing platforms if omitted)
--text <text>                              New post content
--file, -f <path>                          Read content from file instead of --text
--media <media_ids>                        Comma-separated media IDs to attach
--append, -a                               Append to existing thread instead of replacing
--title <title>                            New draft title
--schedule <time>                          "now", "next-free-slot", or ISO datetime
--tags <tag_slugs>                         Comma-separated tag slugs ("" clears tags)
--share                                    Generate a public share URL for the draft
--notes, --scratchpad <text>               Internal notes/scratchpad for the draft
` + useDefaultHelp

func draftCommands() []command {
	return []command{
		{
			use:   "drafts:list [social_set_id]",
			short: "List drafts (uses default if ID omitted)",
			help: `--status <status>                          Filter by: draft, scheduled, published, error, publishing
--tag <tag_slug>                           Filter by tag slug
--sort <order>                             Sort by: created_at, -created_at, updated_at, -updated_at,
                                           scheduled_date, -scheduled_date, published_at, -published_at
--limit <n>                                Max results (default: 10, max: 50)
`,
			options: args.Schema{
				{Name: "status", Kind: args.String},
				{Name: "tag", Kind: args.String},
				{Name: "sort", Kind: args.String},
				{Name: "limit", Kind: args.Int},
			},
			run: runDraftsList,
		},
		{
			use:   "drafts:get [social_set_id] <draft_id>",
			short: "Get a specific draft",
			help:  useDefaultHelp,
			run:   runDraftsGet,
		},
		{
			use:     "drafts:create [social_set_id]",
			short:   "Create a new draft (uses default if ID omitted)",
			help:    createHelp,
			options: createOptions,
			run:     runDraftsCreate,
		},
		{
			use:     "create-draft <text>",
			short:   "Create a draft from positional text (social set from --social-set-id or default)",
			help:    createHelp,
			options: createOptions,
			run:     runCreateDraft,
		},
		{
			use:     "drafts:update [social_set_id] <draft_id>",
			aliases: []string{"update-draft"},
			short:   "Update a draft",
			help:    updateHelp,
			options: updateOptions,
			run:     runDraftsUpdate,
		},
		{
			use:   "drafts:delete [social_set_id] <draft_id>",
			short: "Delete a draft",
			help:  useDefaultHelp,
			run:   runDraftsDelete,
		},
		{
			use:   "drafts:schedule [social_set_id] <draft_id>",
			short: "Schedule a draft",
			help: "--time <time>                              \"next-free-slot\" or ISO datetime (required)\n" +
				useDefaultHelp,
			options: args.Schema{{Name: "time", Kind: args.String}},
			run:     runDraftsSchedule,
		},
		{
			use:   "drafts:publish [social_set_id] <draft_id>",
			short: "Publish a draft immediately",
			help:  useDefaultHelp,
			run:   runDraftsPublish,
		},
	}
}

// draftOptions covers both create and update; each schema only admits its own subset.
type draftOptions struct {
	Platform  *string `mapstructure:"platform"`
	All       bool    `mapstructure:"all"`
	Text      string  `mapstructure:"text"`
	File      string  `mapstructure:"file"`
	Media     string  `mapstructure:"media"`
	Append    bool    `mapstructure:"append"`
	Title     string  `mapstructure:"title"`
	Schedule  string  `mapstructure:"schedule"`
	Tags      *string `mapstructure:"tags"`
	ReplyTo   string  `mapstructure:"reply_to"`
	Community string  `mapstructure:"community"`
	Share     bool    `mapstructure:"share"`
	Notes     string  `mapstructure:"notes"`
}

// content returns the post text, read from --file when given.
func (o draftOptions) content() (string, error) {
	if o.File == "" {
		return o.Text, nil
	}
	data, err := os.ReadFile(o.File)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", apperr.Newf("File not found: %s", o.File)
		}
		return "", fmt.Errorf("failed to read %s: %w", o.File, err)
	}
	return string(data), nil
}

func (o draftOptions) mediaIDs() []string {
	if o.Media == "" {
		return nil
	}
	return draft.ParseList(o.Media)
}

// payload holds the fields shared by create and update. Platforms are added by the caller.
func (o draftOptions) payload() draft.Payload {
	p := draft.Payload{
		DraftTitle:     o.Title,
		PublishAt:      o.Schedule,
		Share:          o.Share,
		ScratchpadText: o.Notes,
	}
	if o.Tags != nil {
		tags := draft.ParseList(*o.Tags)
		p.Tags = &tags
	}
	return p
}

func connectedPlatforms(ctx context.Context, client *api.Client, socialSetID string) func() ([]string, error) {
	return func() ([]string, error) {
		raw, err := client.Get(ctx, api.SocialSetPath(socialSetID), nil)
		if err != nil {
			return nil, err
		}
		return draft.ConnectedPlatforms(raw)
	}
}

type draftListOptions struct {
	Status string `mapstructure:"status"`
	Tag    string `mapstructure:"tag"`
	Sort   string `mapstructure:"sort"`
	Limit  *int   `mapstructure:"limit"`
}

func runDraftsList(ctx context.Context, in *invocation) (any, error) {
	id, err := in.socialSet()
	if err != nil {
		return nil, err
	}
	var opts draftListOptions
	if err := in.parsed.Decode(&opts); err != nil {
		return nil, err
	}
	limit := 10
	if opts.Limit != nil {
		limit = *opts.Limit
	}

	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	return client.Get(ctx, api.SocialSetPath(id, "drafts"), url.Values{
		"limit":    {strconv.Itoa(limit)},
		"status":   {opts.Status},
		"tag":      {opts.Tag},
		"order_by": {opts.Sort},
	})
}

// draftTarget resolves "[social_set_id] <draft_id>" behind the --use-default gate.
func (in *invocation) draftTarget() (target.Pair, error) {
	return target.Resolve(in.targets(), "draft_id", true)
}

func runDraftsGet(ctx context.Context, in *invocation) (any, error) {
	t, err := in.draftTarget()
	if err != nil {
		return nil, err
	}
	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	return client.Get(ctx, api.SocialSetPath(t.SocialSetID, "drafts", t.ID), nil)
}

func runDraftsCreate(ctx context.Context, in *invocation) (any, error) {
	id, err := in.socialSet()
	if err != nil {
		return nil, err
	}
	return createDraft(ctx, in, id, "")
}

// runCreateDraft treats the first positional as the post text.
func runCreateDraft(ctx context.Context, in *invocation) (any, error) {
	id, err := target.FlagOrDefault(in.targets())
	if err != nil {
		return nil, err
	}
	var text string
	if len(in.parsed.Positional) > 0 {
		text = in.parsed.Positional[0]
	}
	return createDraft(ctx, in, id, text)
}

func createDraft(ctx context.Context, in *invocation, socialSetID, positionalText string) (any, error) {
	var opts draftOptions
	if err := in.parsed.Decode(&opts); err != nil {
		return nil, err
	}
	text, err := opts.content()
	if err != nil {
		return nil, err
	}
	if text == "" {
		text = positionalText
	}
	parts := draft.SplitThread(text)
	if len(parts) == 0 {
		return nil, apperr.New("--text or --file is required")
	}

	sel := draft.Selection{Explicit: opts.Platform, All: opts.All}
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	names, err := sel.Resolve(connectedPlatforms(ctx, client, socialSetID))
	if err != nil {
		return nil, err
	}

	payload := opts.payload()
	payload.Platforms = draft.Fanout(names, draft.BuildPosts(parts, opts.mediaIDs()), draft.Settings{
		ReplyToURL:  opts.ReplyTo,
		CommunityID: opts.Community,
	})

	in.logger.Debug("create draft", "social_set_id", socialSetID, "platforms", names, "posts", len(parts))
	return client.Post(ctx, api.SocialSetPath(socialSetID, "drafts"), payload)
}

func runDraftsUpdate(ctx context.Context, in *invocation) (any, error) {
	t, err := in.draftTarget()
	if err != nil {
		return nil, err
	}
	var opts draftOptions
	if err := in.parsed.Decode(&opts); err != nil {
		return nil, err
	}
	text, err := opts.content()
	if err != nil {
		return nil, err
	}

	payload := opts.payload()
	if text == "" && payload.Empty() {
		return nil, apperr.New("At least one of --text, --file, --title, --schedule, --share, --notes, or --tags is required")
	}
	if err := (draft.Selection{Explicit: opts.Platform}).Validate(); err != nil {
		return nil, err
	}

	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	path := api.SocialSetPath(t.SocialSetID, "drafts", t.ID)

	if text != "" {
		raw, err := client.Get(ctx, path, nil)
		if err != nil {
			return nil, err
		}
		existing, err := draft.DecodeExisting(raw)
		if err != nil {
			return nil, err
		}

		var names []string
		if opts.Platform != nil {
			names = draft.ParseList(*opts.Platform)
		} else if names = existing.EnabledPlatforms(); len(names) == 0 {
			names, err = draft.Selection{}.Resolve(connectedPlatforms(ctx, client, t.SocialSetID))
			if err != nil {
				return nil, err
			}
		}

		var posts []draft.Post
		if opts.Append {
			posts = draft.Append(existing.FirstEnabledPosts(), text, opts.mediaIDs())
		} else {
			posts = draft.BuildPosts(draft.SplitThread(text), opts.mediaIDs())
		}
		payload.Platforms = draft.Fanout(names, posts, draft.Settings{})
	}

	return client.Patch(ctx, path, payload)
}

type statusMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func runDraftsDelete(ctx context.Context, in *invocation) (any, error) {
	t, err := in.draftTarget()
	if err != nil {
		return nil, err
	}
	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	if _, err := client.Delete(ctx, api.SocialSetPath(t.SocialSetID, "drafts", t.ID)); err != nil {
		return nil, err
	}
	return statusMessage{Success: true, Message: "Draft deleted"}, nil
}

func runDraftsSchedule(ctx context.Context, in *invocation) (any, error) {
	t, err := in.draftTarget()
	if err != nil {
		return nil, err
	}
	when, _ := in.parsed.String("time")
	if when == "" {
		return nil, apperr.New(`--time is required (use "next-free-slot" or ISO datetime)`)
	}
	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	return client.Patch(ctx, api.SocialSetPath(t.SocialSetID, "drafts", t.ID), draft.Payload{PublishAt: when})
}

func runDraftsPublish(ctx context.Context, in *invocation) (any, error) {
	t, err := in.draftTarget()
	if err != nil {
		return nil, err
	}
	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	return client.Patch(ctx, api.SocialSetPath(t.SocialSetID, "drafts", t.ID), draft.Payload{PublishAt: "now"})
}
