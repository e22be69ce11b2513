// ABOUTME: Commands for the publishing queue and its recurring slot schedule.
// ABOUTME: Schedule rules are validated as a JSON array before anything is sent.
package main

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/2389-research/typefully/internal/api"
	"github.com/2389-research/typefully/internal/apperr"
	"github.com/2389-research/typefully/internal/args"
)

func queueCommands() []command {
	return []command{
		{
			use:   "queue:get [social_set_id]",
			short: "Get scheduled drafts and free slots for a date range",
			help: "--start-date <YYYY-MM-DD>                  First day (required)\n" +
				"--end-date <YYYY-MM-DD>                    Last day (required)\n",
			options: args.Schema{
				{Name: "start_date", Kind: args.String},
				{Name: "end_date", Kind: args.String},
			},
			run: runQueueGet,
		},
		{
			use:   "queue:schedule:get [social_set_id]",
			short: "Get the recurring queue schedule",
			run:   runQueueScheduleGet,
		},
		{
			use:     "queue:schedule:put [social_set_id]",
			short:   "Replace the recurring queue schedule",
			help:    "--rules <json>                             JSON array of slot rules, e.g. [{\"h\":9,\"m\":30,\"days\":[\"mon\"]}]\n",
			options: args.Schema{{Name: "rules", Kind: args.String}},
			run:     runQueueSchedulePut,
		},
	}
}

type queueRange struct {
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`
}

func runQueueGet(ctx context.Context, in *invocation) (any, error) {
	id, err := in.socialSet()
	if err != nil {
		return nil, err
	}
	var opts queueRange
	if err := in.parsed.Decode(&opts); err != nil {
		return nil, err
	}
	if opts.StartDate == "" {
		return nil, in.required("start_date")
	}
	if opts.EndDate == "" {
		return nil, in.required("end_date")
	}

	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	return client.Get(ctx, api.SocialSetPath(id, "queue"), url.Values{
		"start_date": {opts.StartDate},
		"end_date":   {opts.EndDate},
	})
}

func runQueueScheduleGet(ctx context.Context, in *invocation) (any, error) {
	id, err := in.socialSet()
	if err != nil {
		return nil, err
	}
	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	return client.Get(ctx, api.SocialSetPath(id, "queue", "schedule"), nil)
}

func runQueueSchedulePut(ctx context.Context, in *invocation) (any, error) {
	id, err := in.socialSet()
	if err != nil {
		return nil, err
	}
	text, _ := in.parsed.String("rules")
	if text == "" {
		return nil, in.required("rules")
	}
	var rules any
	if err := json.Unmarshal([]byte(text), &rules); err != nil {
		return nil, apperr.New("--rules must be valid JSON")
	}
	if _, ok := rules.([]any); !ok {
		return nil, apperr.New("--rules must be a JSON array")
	}

	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	body := struct {
		Rules json.RawMessage `json:"rules"`
	}{Rules: json.RawMessage(text)}
	return client.Put(ctx, api.SocialSetPath(id, "queue", "schedule"), body)
}
