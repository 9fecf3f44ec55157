// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"time"

	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/gramps/client"
	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/gramps/lineage"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Backend bundles the live connections a genealogy tool handler needs: the
// loaded configuration, the authenticated record store client, and the
// lineage traversal engine built on top of it.
//
// One Backend is built per server and shared by every backend tool handler.
// The client carries the credential state; the engine is stateless.
type Backend struct {
	Config *Config
	Client *client.Client
	Engine *lineage.Engine
}

// NewBackend builds the backend from a loaded configuration. It constructs
// the record store client (which validates the connection settings) and the
// lineage engine reading through that client.
//
// Parameters:
//   - config: Loaded server configuration with record store settings
//   - version: Server version string, used in the client User-Agent
//
// Returns:
//   - *Backend: The assembled backend ready for tool handlers
//   - error: Client construction error (missing URL/credentials, bad CA bundle)
func NewBackend(config *Config, version string) (*Backend, error) {
	c, err := client.New(client.Config{
		BaseURL:  config.Gramps.APIURL,
		Username: config.Gramps.Username,
		Password: config.Gramps.Password,
		Timeout:  time.Duration(config.Gramps.Timeout) * time.Second,
		CABundle: config.Gramps.CABundle,
		Version:  version,
	})
	if err != nil {
		return nil, err
	}

	return &Backend{
		Config: config,
		Client: c,
		Engine: lineage.NewEngine(c),
	}, nil
}

// ToolHandler defines the signature for tool handlers that matches [MCP]
// server expectations. It processes tool calls and returns results.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// BackendToolHandler defines tool handlers that require access to the record
// store backend. It extends ToolHandler with a Backend parameter carrying the
// client, engine, and configuration.
type BackendToolHandler func(ctx context.Context, request mcp.CallToolRequest, backend *Backend) (*mcp.CallToolResult, error)

// ResourceHandler defines the signature for resource handlers that provide
// static or dynamic resources to MCP clients.
type ResourceHandler = func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error)

// PromptHandler defines the signature for prompt handlers that provide
// predefined prompts for guided workflows.
type PromptHandler = func(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error)

// ToolDefinition holds a tool definition and its handler.
//
// Fields:
//   - Tool: The MCP tool definition containing name, description, and input schema
//   - Handler: The function that implements the tool's logic
//   - Role: Stable role identifier used by the instructions template
//
// This struct is used when registering tools that don't need the backend,
// such as the pure relationship labeler.
type ToolDefinition struct {
	Tool    mcp.Tool
	Handler ToolHandler
	Role    string
}

// ToolDefinitionWithBackend holds a tool definition whose handler talks to
// the record store. The handler receives the Backend in addition to the
// standard context and request.
type ToolDefinitionWithBackend struct {
	Tool    mcp.Tool
	Handler BackendToolHandler
	Role    string
}

// ServerDependencies holds all dependencies needed to create the MCP server.
// It consolidates all required components for server initialization using the
// builder pattern and should not be instantiated directly.
type ServerDependencies struct {
	Config       *Config
	Version      string
	Backend      *Backend
	Tools        []ToolDefinition
	BackendTools []ToolDefinitionWithBackend
	Resources    []server.ServerResource
	Prompts      []server.ServerPrompt
	Instructions string
	Populate     bool
}

// ServerBuilder helps construct the [MCP] server with proper dependencies
// using a fluent interface.
//
// Example:
//
//	s, err := NewServerBuilder().
//	    WithConfig(config).
//	    WithVersion("1.0.0").
//	    WithBackend(backend).
//	    WithDefaultTools().
//	    Build()
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ServerBuilder struct{ deps ServerDependencies }

// NewServerBuilder creates a new server builder with default empty
// dependencies. Chain configuration methods and call Build() to create the
// server.
func NewServerBuilder() *ServerBuilder { return &ServerBuilder{} }

// WithConfig sets the server configuration.
func (b *ServerBuilder) WithConfig(config *Config) *ServerBuilder {
	b.deps.Config = config
	return b
}

// WithVersion sets the server version string used for identification and
// User-Agent headers.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.deps.Version = version
	return b
}

// WithBackend sets the record store backend shared by backend tool handlers.
// Without a backend, only tools registered via WithTools (the pure ones) will
// be usable.
func (b *ServerBuilder) WithBackend(backend *Backend) *ServerBuilder {
	b.deps.Backend = backend
	return b
}

// WithTools adds tool definitions that don't require the backend.
func (b *ServerBuilder) WithTools(tools ...ToolDefinition) *ServerBuilder {
	b.deps.Tools = append(b.deps.Tools, tools...)
	return b
}

// WithBackendTools adds tool definitions whose handlers receive the backend.
func (b *ServerBuilder) WithBackendTools(tools ...ToolDefinitionWithBackend) *ServerBuilder {
	b.deps.BackendTools = append(b.deps.BackendTools, tools...)
	return b
}

// WithDefaultTools adds the full set of genealogy tools to the server using
// createTools. This includes record search and CRUD, lineage traversal, and
// the relationship labeler.
func (b *ServerBuilder) WithDefaultTools() *ServerBuilder {
	tools, backendTools := createTools()
	b.deps.Tools = append(b.deps.Tools, tools...)
	b.deps.BackendTools = append(b.deps.BackendTools, backendTools...)
	return b
}

// WithResources adds static and dynamic resources to the MCP server.
// Clients access resources using URIs like "info://version".
func (b *ServerBuilder) WithResources(resources ...server.ServerResource) *ServerBuilder {
	b.deps.Resources = append(b.deps.Resources, resources...)
	return b
}

// WithPrompts adds predefined prompts to the MCP server for guided workflows
// like lineage research.
func (b *ServerBuilder) WithPrompts(prompts ...server.ServerPrompt) *ServerBuilder {
	b.deps.Prompts = append(b.deps.Prompts, prompts...)
	return b
}

// WithInstructions sets the server instructions sent to MCP clients during
// initialization.
func (b *ServerBuilder) WithInstructions(instructions string) *ServerBuilder {
	b.deps.Instructions = instructions
	return b
}

// WithPopulate enables capability metadata caching during Build. The cached
// metadata backs the info://version resource so it reflects whatever tools,
// resources, and prompts were actually registered.
func (b *ServerBuilder) WithPopulate() *ServerBuilder {
	b.deps.Populate = true
	return b
}

// Build creates the [MCP] server with all configured dependencies.
//
// Returns:
//   - A pointer to the configured MCPServer instance
//   - An error if the configuration is invalid or server creation fails
//
// Backend tools are registered with a wrapper closing over the configured
// Backend, so their handlers keep the BackendToolHandler signature.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
func (b *ServerBuilder) Build() (*server.MCPServer, error) {
	opts := []server.ServerOption{
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithPromptCapabilities(true),
	}
	if b.deps.Instructions != "" {
		opts = append(opts, server.WithInstructions(b.deps.Instructions))
	}

	s := server.NewMCPServer("Gramps Genealogy", b.deps.Version, opts...)

	// Add tools
	for _, tool := range b.deps.Tools {
		s.AddTool(tool.Tool, tool.Handler)
	}

	// Add tools that need the backend (wrap the handler)
	for _, tool := range b.deps.BackendTools {
		handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return tool.Handler(ctx, request, b.deps.Backend)
		}
		s.AddTool(tool.Tool, handler)
	}

	// Add resources
	for _, resource := range b.deps.Resources {
		s.AddResource(resource.Resource, resource.Handler)
	}

	// Add prompts
	for _, prompt := range b.deps.Prompts {
		s.AddPrompt(prompt.Prompt, prompt.Handler)
	}

	if b.deps.Populate {
		cache := getServerCache()
		populateToolMetadataCache(cache, b.deps.Tools, b.deps.BackendTools)
		populateResourceMetadataCache(cache, b.deps.Resources)
		populatePromptMetadataCache(cache, b.deps.Prompts)
	}

	return s, nil
}
