// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/H0llyW00dzZ/gramps-mcp/src/mcp-server/templates"
	"github.com/H0llyW00dzZ/gramps-mcp/src/version"
	"github.com/mark3labs/mcp-go/mcp"
)

// handleConfigResource handles requests for the configuration template
// resource. It provides a JSON template showing the expected configuration
// structure for the MCP server, with placeholder credentials.
func handleConfigResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exampleConfig := map[string]any{
		"gramps": map[string]any{
			"apiUrl":         "https://gramps.example.org",
			"username":       "your-username",
			"password":       "use GRAMPS_PASSWORD instead of storing this",
			"caBundle":       "",
			"timeoutSeconds": 30,
		},
		"defaults": map[string]any{
			"generations": 5,
			"pageSize":    20,
		},
	}

	jsonData, err := json.MarshalIndent(exampleConfig, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config template: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "config://template",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleVersionResource handles requests for the version information
// resource. It reports the server version together with the tools, resources,
// and prompts that were actually registered at build time (from the metadata
// cache populated via WithPopulate).
func handleVersionResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	cache := getServerCache()

	versionInfo := map[string]any{
		"name":    "Gramps Genealogy",
		"version": version.Version,
		"type":    "MCP Server",
		"capabilities": map[string]any{
			"tools":     cache.tools,
			"resources": cache.resources,
			"prompts":   cache.prompts,
		},
		"maxGenerations": 10,
	}

	jsonData, err := json.MarshalIndent(versionInfo, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal version info: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "info://version",
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

// handleRelationshipsResource serves the embedded relationship terminology
// reference.
func handleRelationshipsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	content, err := templates.MagicEmbed.ReadFile("relationships.md")
	if err != nil {
		return nil, fmt.Errorf("failed to read relationships template: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "genealogy://relationships",
			MIMEType: "text/markdown",
			Text:     string(content),
		},
	}, nil
}
