// ABOUTME: Media commands: upload a file through the orchestrator and check processing status.
// ABOUTME: A processing timeout is reported as a successful upload with a hint.
package main

import (
	"context"
	"time"

	"github.com/2389-research/typefully/internal/api"
	"github.com/2389-research/typefully/internal/args"
	"github.com/2389-research/typefully/internal/media"
	"github.com/2389-research/typefully/internal/target"
)

const defaultMediaTimeout = 60 // seconds

func mediaCommands() []command {
	return []command{
		{
			use:   "media:upload [social_set_id] <file>",
			short: "Upload media file (uses default if one arg)",
			help: "--no-wait                                  Return immediately after upload (don't poll)\n" +
				"--timeout <seconds>                        Max wait for processing (default: 60)\n",
			options: args.Schema{
				{Name: "no_wait", Kind: args.Bool},
				{Name: "timeout", Kind: args.Int},
			},
			run: runMediaUpload,
		},
		{
			use:   "media:status [social_set_id] <media_id>",
			short: "Check media upload status (uses default if one arg)",
			run:   runMediaStatus,
		},
	}
}

type uploadOptions struct {
	NoWait  bool `mapstructure:"no_wait"`
	Timeout *int `mapstructure:"timeout"`
}

type mediaOutput struct {
	MediaID string `json:"media_id"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message"`
	Hint    string `json:"hint,omitempty"`
}

func runMediaUpload(ctx context.Context, in *invocation) (any, error) {
	t, err := target.Resolve(in.targets(), "file_path", false)
	if err != nil {
		return nil, err
	}
	var opts uploadOptions
	if err := in.parsed.Decode(&opts); err != nil {
		return nil, err
	}
	timeout := defaultMediaTimeout
	if opts.Timeout != nil {
		timeout = *opts.Timeout
	}

	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	orch := media.NewOrchestrator(client, in.settings.PollInterval, in.clock, in.logger)
	res, err := orch.Upload(ctx, media.Request{
		SocialSetID: t.SocialSetID,
		Path:        t.ID,
		NoWait:      opts.NoWait,
		Timeout:     time.Duration(timeout) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	switch res.State {
	case media.StateDone:
		return mediaOutput{
			MediaID: res.MediaID,
			Message: "Upload complete. Use media:status to check processing.",
		}, nil
	case media.StateTimedOut:
		return mediaOutput{
			MediaID: res.MediaID,
			Status:  "processing",
			Message: "Upload complete but still processing. Use media:status to check.",
			Hint:    "Increase timeout with --timeout <seconds>",
		}, nil
	default:
		return mediaOutput{
			MediaID: res.MediaID,
			Status:  "ready",
			Message: "Media uploaded and ready to use",
		}, nil
	}
}

func runMediaStatus(ctx context.Context, in *invocation) (any, error) {
	t, err := target.Resolve(in.targets(), "media_id", false)
	if err != nil {
		return nil, err
	}
	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}
	return client.Get(ctx, api.SocialSetPath(t.SocialSetID, "media", t.ID), nil)
}
