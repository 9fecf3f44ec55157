// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/H0llyW00dzZ/gramps-mcp/src/mcp-server/templates"
	"github.com/mark3labs/mcp-go/server"
)

// instructionData holds the data used to populate the MCP server instructions template.
type instructionData struct {
	Tools     []toolInfo
	ToolRoles map[string]string // Maps tool roles to tool names for template use
}

// toolInfo represents information about an MCP tool for template rendering.
type toolInfo struct {
	Name        string
	Description string
}

// loadInstructions renders the embedded instructions template with the
// registered tools and returns the result for MCP client initialization.
//
// Parameters:
//   - tools: Slice of tool definitions without backend requirements
//   - backendTools: Slice of tool definitions that talk to the record store
//
// Returns:
//   - string: The rendered instruction text describing server capabilities
//   - error: If the embedded file cannot be read or template parsing fails
//
// The template references tools by their Role, so renaming a tool only
// requires updating its definition, not the template.
func loadInstructions(tools []ToolDefinition, backendTools []ToolDefinitionWithBackend) (string, error) {
	templateBytes, err := templates.MagicEmbed.ReadFile("gramps_instructions.md")
	if err != nil {
		return "", fmt.Errorf("failed to load MCP server instructions template: %w", err)
	}

	var toolInfos []toolInfo
	toolRoles := make(map[string]string)

	for _, tool := range tools {
		toolName := string(tool.Tool.Name)
		toolInfos = append(toolInfos, toolInfo{
			Name:        toolName,
			Description: tool.Tool.Description,
		})
		if tool.Role != "" {
			toolRoles[tool.Role] = toolName
		}
	}

	for _, tool := range backendTools {
		toolName := string(tool.Tool.Name)
		toolInfos = append(toolInfos, toolInfo{
			Name:        toolName,
			Description: tool.Tool.Description,
		})
		if tool.Role != "" {
			toolRoles[tool.Role] = toolName
		}
	}

	data := instructionData{
		Tools:     toolInfos,
		ToolRoles: toolRoles,
	}

	tmpl, err := template.New("instructions").Parse(string(templateBytes))
	if err != nil {
		return "", fmt.Errorf("failed to parse instructions template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute instructions template: %w", err)
	}

	return buf.String(), nil
}

// serverCache holds capability metadata extracted at build time and served
// back by the info://version resource.
type serverCache struct {
	tools     []map[string]any
	resources []map[string]any
	prompts   []map[string]any
}

// Global cache instance with sync.Once for thread-safe lazy initialization
var (
	cache     *serverCache
	cacheOnce sync.Once
)

// getServerCache returns the lazily initialized server cache. The cache is
// populated by the ServerBuilder's Build() method when WithPopulate() is used.
func getServerCache() *serverCache {
	cacheOnce.Do(func() {
		cache = &serverCache{}
	})
	return cache
}

// populateToolMetadataCache extracts name and description metadata from the
// registered tools. Backend tools and plain tools are merged into one list;
// clients don't need to know which tools carry a backend.
func populateToolMetadataCache(serverCache *serverCache, tools []ToolDefinition, backendTools []ToolDefinitionWithBackend) {
	serverCache.tools = make([]map[string]any, 0, len(tools)+len(backendTools))

	for _, toolDef := range tools {
		serverCache.tools = append(serverCache.tools, map[string]any{
			"name":        toolDef.Tool.Name,
			"description": toolDef.Tool.Description,
		})
	}
	for _, toolDef := range backendTools {
		serverCache.tools = append(serverCache.tools, map[string]any{
			"name":        toolDef.Tool.Name,
			"description": toolDef.Tool.Description,
		})
	}
}

// populateResourceMetadataCache extracts metadata from the registered resources.
func populateResourceMetadataCache(serverCache *serverCache, resources []server.ServerResource) {
	serverCache.resources = make([]map[string]any, 0, len(resources))

	for _, resourceDef := range resources {
		resource := resourceDef.Resource
		serverCache.resources = append(serverCache.resources, map[string]any{
			"uri":         resource.URI,
			"name":        resource.Name,
			"description": resource.Description,
			"mimeType":    resource.MIMEType,
		})
	}
}

// populatePromptMetadataCache extracts metadata from the registered prompts,
// including their argument schemas.
func populatePromptMetadataCache(serverCache *serverCache, prompts []server.ServerPrompt) {
	serverCache.prompts = make([]map[string]any, 0, len(prompts))

	for _, promptDef := range prompts {
		prompt := promptDef.Prompt
		metadata := map[string]any{
			"name":        prompt.Name,
			"description": prompt.Description,
		}

		if len(prompt.Arguments) > 0 {
			args := make([]map[string]any, 0, len(prompt.Arguments))
			for _, arg := range prompt.Arguments {
				args = append(args, map[string]any{
					"name":        arg.Name,
					"description": arg.Description,
					"required":    arg.Required,
				})
			}
			metadata["arguments"] = args
		}

		serverCache.prompts = append(serverCache.prompts, metadata)
	}
}
