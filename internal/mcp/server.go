// ABOUTME: MCP server initialization and configuration for typefully.
// ABOUTME: Exposes account, draft, tag, media, and queue operations as tools over stdio.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2389-research/typefully/internal/api"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Server wraps the MCP server with an API client.
type Server struct {
	mcp              *gomcp.Server
	api              *api.Client
	defaultSocialSet string
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithDefaultSocialSet sets the social set used when a tool call omits one.
func WithDefaultSocialSet(id string) ServerOption {
	return func(s *Server) {
		s.defaultSocialSet = id
	}
}

// NewServer creates an MCP server backed by client.
func NewServer(client *api.Client, opts ...ServerOption) (*Server, error) {
	if client == nil {
		return nil, fmt.Errorf("api client is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "typefully",
			Version: Version,
		},
		nil,
	)

	s := &Server{
		mcp: mcpServer,
		api: client,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerAccountTools()
	s.registerDraftTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}

// socialSet picks the explicit id or the configured default.
func (s *Server) socialSet(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if s.defaultSocialSet != "" {
		return s.defaultSocialSet, nil
	}
	return "", errors.New("social_set_id is required (no default social set is configured)")
}

func toolError(format string, args ...interface{}) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

// apiResult renders an API response, or the API failure, as tool output.
func apiResult(raw json.RawMessage, err error) *gomcp.CallToolResult {
	if err != nil {
		var httpErr *api.HTTPError
		if errors.As(err, &httpErr) {
			return toolError("%s: %s", httpErr.Error(), string(httpErr.Body))
		}
		return toolError("%v", err)
	}
	text := string(raw)
	var buf bytes.Buffer
	if json.Indent(&buf, raw, "", "  ") == nil {
		text = buf.String()
	}
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: text}},
	}
}
