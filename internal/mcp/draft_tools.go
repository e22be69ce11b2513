// ABOUTME: MCP tool implementations for drafts.
// ABOUTME: Registers list_drafts, get_draft, create_draft, and schedule_draft.
package mcp

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/typefully/internal/api"
	"github.com/2389-research/typefully/internal/draft"
)

func (s *Server) registerDraftTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_drafts",
		Description: "List drafts in a social set, optionally filtered by status or tag.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"social_set_id": {"type": "string", "description": "Social set id (defaults to the configured default)"},
				"status": {"type": "string", "description": "draft, scheduled, published, error, or publishing"},
				"tag": {"type": "string", "description": "Filter by tag slug"},
				"sort": {"type": "string", "description": "Sort order, e.g. created_at or -updated_at"},
				"limit": {"type": "number", "description": "Maximum number of drafts (default 10, max 50)"}
			}
		}`),
	}, s.handleListDrafts)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "get_draft",
		Description: "Get a single draft with its posts.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"social_set_id": {"type": "string", "description": "Social set id (defaults to the configured default)"},
				"draft_id": {"type": "string", "description": "Draft id", "minLength": 1}
			},
			"required": ["draft_id"]
		}`),
	}, s.handleGetDraft)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "create_draft",
		Description: "Create a draft. Separate thread posts with a line containing only ---.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"social_set_id": {"type": "string", "description": "Social set id (defaults to the configured default)"},
				"text": {"type": "string", "description": "Post text", "minLength": 1},
				"platforms": {"type": "array", "items": {"type": "string"}, "description": "x, linkedin, threads, bluesky, mastodon (default: first connected)"},
				"all_platforms": {"type": "boolean", "description": "Post to every connected platform"},
				"media_ids": {"type": "array", "items": {"type": "string"}, "description": "Media ids attached to the first post"},
				"title": {"type": "string", "description": "Internal draft title"},
				"schedule": {"type": "string", "description": "now, next-free-slot, or an ISO datetime"},
				"tags": {"type": "array", "items": {"type": "string"}, "description": "Tag slugs"},
				"share": {"type": "boolean", "description": "Generate a public share URL"},
				"notes": {"type": "string", "description": "Scratchpad notes"},
				"reply_to_url": {"type": "string", "description": "X post URL to reply to"},
				"community_id": {"type": "string", "description": "X community id"}
			},
			"required": ["text"]
		}`),
	}, s.handleCreateDraft)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "schedule_draft",
		Description: "Schedule a draft for a time, the next free queue slot, or publish now.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"social_set_id": {"type": "string", "description": "Social set id (defaults to the configured default)"},
				"draft_id": {"type": "string", "description": "Draft id", "minLength": 1},
				"time": {"type": "string", "description": "now, next-free-slot, or an ISO datetime", "minLength": 1}
			},
			"required": ["draft_id", "time"]
		}`),
	}, s.handleScheduleDraft)
}

func (s *Server) handleListDrafts(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		SocialSetID string `json:"social_set_id"`
		Status      string `json:"status"`
		Tag         string `json:"tag"`
		Sort        string `json:"sort"`
		Limit       int    `json:"limit"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	id, err := s.socialSet(args.SocialSetID)
	if err != nil {
		return toolError("%v", err), nil
	}

	if args.Limit <= 0 {
		args.Limit = 10
	}
	q := url.Values{
		"limit":    {strconv.Itoa(args.Limit)},
		"status":   {args.Status},
		"tag":      {args.Tag},
		"order_by": {args.Sort},
	}
	return apiResult(s.api.Get(ctx, api.SocialSetPath(id, "drafts"), q)), nil
}

func (s *Server) handleGetDraft(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		SocialSetID string `json:"social_set_id"`
		DraftID     string `json:"draft_id"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.DraftID == "" {
		return toolError("draft_id is required"), nil
	}
	id, err := s.socialSet(args.SocialSetID)
	if err != nil {
		return toolError("%v", err), nil
	}
	return apiResult(s.api.Get(ctx, api.SocialSetPath(id, "drafts", args.DraftID), nil)), nil
}

func (s *Server) handleCreateDraft(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		SocialSetID  string   `json:"social_set_id"`
		Text         string   `json:"text"`
		Platforms    []string `json:"platforms"`
		AllPlatforms bool     `json:"all_platforms"`
		MediaIDs     []string `json:"media_ids"`
		Title        string   `json:"title"`
		Schedule     string   `json:"schedule"`
		Tags         []string `json:"tags"`
		Share        bool     `json:"share"`
		Notes        string   `json:"notes"`
		ReplyToURL   string   `json:"reply_to_url"`
		CommunityID  string   `json:"community_id"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	parts := draft.SplitThread(args.Text)
	if len(parts) == 0 {
		return toolError("text is required"), nil
	}
	id, err := s.socialSet(args.SocialSetID)
	if err != nil {
		return toolError("%v", err), nil
	}

	sel := draft.Selection{All: args.AllPlatforms}
	if args.Platforms != nil {
		explicit := strings.Join(args.Platforms, ",")
		sel.Explicit = &explicit
	}
	if err := sel.Validate(); err != nil {
		return toolError("%v", err), nil
	}
	names, err := sel.Resolve(func() ([]string, error) {
		raw, err := s.api.Get(ctx, api.SocialSetPath(id), nil)
		if err != nil {
			return nil, err
		}
		return draft.ConnectedPlatforms(raw)
	})
	if err != nil {
		return apiResult(nil, err), nil
	}

	posts := draft.BuildPosts(parts, args.MediaIDs)
	payload := draft.Payload{
		Platforms:      draft.Fanout(names, posts, draft.Settings{ReplyToURL: args.ReplyToURL, CommunityID: args.CommunityID}),
		DraftTitle:     args.Title,
		PublishAt:      args.Schedule,
		Share:          args.Share,
		ScratchpadText: args.Notes,
	}
	if args.Tags != nil {
		tags := args.Tags
		payload.Tags = &tags
	}

	return apiResult(s.api.Post(ctx, api.SocialSetPath(id, "drafts"), payload)), nil
}

func (s *Server) handleScheduleDraft(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		SocialSetID string `json:"social_set_id"`
		DraftID     string `json:"draft_id"`
		Time        string `json:"time"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.DraftID == "" || args.Time == "" {
		return toolError("draft_id and time are required"), nil
	}
	id, err := s.socialSet(args.SocialSetID)
	if err != nil {
		return toolError("%v", err), nil
	}
	body := map[string]string{"publish_at": args.Time}
	return apiResult(s.api.Patch(ctx, api.SocialSetPath(id, "drafts", args.DraftID), body)), nil
}
