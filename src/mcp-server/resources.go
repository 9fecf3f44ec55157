// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// createResources creates all MCP resource definitions with their handlers.
//
// The server exposes three resources:
//   - info://version: Server version and registered capabilities
//   - config://template: Example configuration file showing every setting
//   - genealogy://relationships: Relationship terminology reference
func createResources() []server.ServerResource {
	return []server.ServerResource{
		{
			Resource: mcp.NewResource("info://version", "Server Version",
				mcp.WithResourceDescription("Server version and registered capabilities"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleVersionResource,
		},
		{
			Resource: mcp.NewResource("config://template", "Configuration Template",
				mcp.WithResourceDescription("Example configuration file showing the expected structure and defaults"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleConfigResource,
		},
		{
			Resource: mcp.NewResource("genealogy://relationships", "Relationship Terminology",
				mcp.WithResourceDescription("How relationship names are derived from generation distance"),
				mcp.WithMIMEType("text/markdown"),
			),
			Handler: handleRelationshipsResource,
		},
	}
}
