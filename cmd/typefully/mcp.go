// ABOUTME: MCP server command implementation for typefully.
// ABOUTME: Starts the MCP server in stdio mode for AI agent integration.
package main

import (
	"context"

	mcppkg "github.com/2389-research/typefully/internal/mcp"
)

func mcpCommand() command {
	return command{
		use:   "mcp",
		short: "Start MCP server (stdio mode) for AI agent integration",
		run:   runMCP,
	}
}

func runMCP(ctx context.Context, in *invocation) (any, error) {
	client, err := in.apiClient()
	if err != nil {
		return nil, err
	}

	var opts []mcppkg.ServerOption
	if def, ok := in.resolver.DefaultSocialSet(); ok {
		opts = append(opts, mcppkg.WithDefaultSocialSet(def.Value))
	}

	server, err := mcppkg.NewServer(client, opts...)
	if err != nil {
		return nil, err
	}
	in.logger.Info("mcp server starting", "version", mcppkg.Version)
	return nil, server.Serve(ctx)
}
