// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/H0llyW00dzZ/gramps-mcp/src/version"
	"github.com/mark3labs/mcp-go/server"
)

var appVersion = version.Version // default version

// GetVersion returns the current version of the MCP server.
//
// The version is initially the default from the version package, but is
// overridden when Run() is called with a specific version string. Other
// components use it for logging and User-Agent strings.
func GetVersion() string {
	return appVersion
}

// Run starts the MCP server exposing the genealogy record store tools.
//
// Run loads the configuration, builds the record store backend (client plus
// lineage engine), registers all tools, resources, and prompts, and serves
// MCP over stdio until the client disconnects or a termination signal
// arrives.
//
// Parameters:
//   - version: Version string to set for the server (e.g., "0.3.1")
//
// Returns:
//   - error: Server startup or runtime error, or graceful shutdown signal
//
// Configuration:
//   - Loads config from GRAMPS_MCP_CONFIG_FILE environment variable
//   - GRAMPS_API_URL, GRAMPS_USERNAME, GRAMPS_PASSWORD override file values
//
// Server Lifecycle:
//  1. Load and validate configuration
//  2. Build the record store backend (credentials are exchanged lazily,
//     on the first tool call, not at startup)
//  3. Render server instructions from the registered tools
//  4. Set up signal handling for graceful shutdown
//  5. Build the MCP server using the ServerBuilder pattern
//  6. Serve stdio with context cancellation support
//
// Graceful Shutdown:
//   - Responds to SIGINT (Ctrl+C) and SIGTERM signals
//   - Cancels the serving context and returns context.Canceled wrapped in a
//     "server shutdown" error
func Run(version string) error {
	// Set the version for GetVersion
	appVersion = version

	// Load configuration
	config, err := loadConfig(os.Getenv("GRAMPS_MCP_CONFIG_FILE"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Build the record store backend shared by all backend tools
	backend, err := NewBackend(config, version)
	if err != nil {
		return fmt.Errorf("failed to build backend: %w", err)
	}

	// Create tools (called once and reused)
	tools, backendTools := createTools()

	// Render server instructions from the registered tools so the text never
	// drifts from what is actually available
	instructions, err := loadInstructions(tools, backendTools)
	if err != nil {
		return fmt.Errorf("failed to load instructions: %w", err)
	}

	// Create cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create MCP server using ServerBuilder for better testability
	s, err := NewServerBuilder().
		WithConfig(config).
		WithVersion(version).
		WithBackend(backend).
		WithTools(tools...).
		WithBackendTools(backendTools...).
		WithResources(createResources()...).
		WithPrompts(createPrompts()...).
		WithInstructions(instructions).
		WithPopulate().
		Build()
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	// Create stdio server to connect with our context
	stdioServer := server.NewStdioServer(s)

	// Start server with graceful shutdown support
	errChan := make(chan error, 1)
	go func() {
		errChan <- stdioServer.Listen(ctx, os.Stdin, os.Stdout)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		// Graceful shutdown triggered by signal
		return fmt.Errorf("server shutdown: %w", ctx.Err())
	}
}
