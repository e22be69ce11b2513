// ABOUTME: MCP tool implementations for account-level reads.
// ABOUTME: Registers get_me, list_social_sets, list_tags, get_media_status, and get_queue.
package mcp

import (
	"context"
	"encoding/json"
	"net/url"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/typefully/internal/api"
)

func (s *Server) registerAccountTools() {
	s.mcp.AddTool(&gomcp.Tool{
		Name:        "get_me",
		Description: "Get the authenticated Typefully user.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleGetMe)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_social_sets",
		Description: "List social sets (accounts) available to the API key.",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleListSocialSets)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "list_tags",
		Description: "List tags defined for a social set.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"social_set_id": {"type": "string", "description": "Social set id (defaults to the configured default)"}
			}
		}`),
	}, s.handleListTags)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "get_media_status",
		Description: "Check processing status of uploaded media.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"social_set_id": {"type": "string", "description": "Social set id (defaults to the configured default)"},
				"media_id": {"type": "string", "description": "Media id returned by an upload", "minLength": 1}
			},
			"required": ["media_id"]
		}`),
	}, s.handleMediaStatus)

	s.mcp.AddTool(&gomcp.Tool{
		Name:        "get_queue",
		Description: "Get the publishing queue for a date range.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"social_set_id": {"type": "string", "description": "Social set id (defaults to the configured default)"},
				"start_date": {"type": "string", "description": "Start date (YYYY-MM-DD)", "minLength": 1},
				"end_date": {"type": "string", "description": "End date (YYYY-MM-DD)", "minLength": 1}
			},
			"required": ["start_date", "end_date"]
		}`),
	}, s.handleGetQueue)
}

func (s *Server) handleGetMe(ctx context.Context, _ *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	return apiResult(s.api.Get(ctx, "/me", nil)), nil
}

func (s *Server) handleListSocialSets(ctx context.Context, _ *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	return apiResult(s.api.Get(ctx, "/social-sets", url.Values{"limit": {"50"}})), nil
}

func (s *Server) handleListTags(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		SocialSetID string `json:"social_set_id"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	id, err := s.socialSet(args.SocialSetID)
	if err != nil {
		return toolError("%v", err), nil
	}
	return apiResult(s.api.Get(ctx, api.SocialSetPath(id, "tags"), url.Values{"limit": {"50"}})), nil
}

func (s *Server) handleMediaStatus(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		SocialSetID string `json:"social_set_id"`
		MediaID     string `json:"media_id"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.MediaID == "" {
		return toolError("media_id is required"), nil
	}
	id, err := s.socialSet(args.SocialSetID)
	if err != nil {
		return toolError("%v", err), nil
	}
	return apiResult(s.api.Get(ctx, api.SocialSetPath(id, "media", args.MediaID), nil)), nil
}

func (s *Server) handleGetQueue(ctx context.Context, req *gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	var args struct {
		SocialSetID string `json:"social_set_id"`
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
	}
	if err := unmarshalArgs(req, &args); err != nil {
		return toolError("invalid arguments: %v", err), nil
	}
	if args.StartDate == "" || args.EndDate == "" {
		return toolError("start_date and end_date are required"), nil
	}
	id, err := s.socialSet(args.SocialSetID)
	if err != nil {
		return toolError("%v", err), nil
	}
	q := url.Values{"start_date": {args.StartDate}, "end_date": {args.EndDate}}
	return apiResult(s.api.Get(ctx, api.SocialSetPath(id, "queue"), q)), nil
}

// unmarshalArgs tolerates a missing arguments object.
func unmarshalArgs(req *gomcp.CallToolRequest, v any) error {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, v)
}
