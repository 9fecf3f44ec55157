// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"os"
)

// ADKTransportConfig holds configuration for creating MCP transports for
// [Google ADK] integration.
//
// Example usage with ADK:
//
//	transport, err := NewADKTransportBuilder().WithInMemoryTransport().BuildTransport(ctx)
//	mcpToolSet, err := mcptoolset.New(mcptoolset.Config{Transport: transport})
//
// [Google ADK]: https://pkg.go.dev/google.golang.org/adk
type ADKTransportConfig struct {
	// MCP server configuration
	MCPConfigFile string
	Version       string

	// Transport type: "inmemory"
	TransportType string
}

// ADKTransportBuilder helps construct MCP transports for ADK integration
type ADKTransportBuilder struct{ config ADKTransportConfig }

// NewADKTransportBuilder creates a new ADK transport builder with default configuration
func NewADKTransportBuilder() *ADKTransportBuilder {
	return &ADKTransportBuilder{
		config: ADKTransportConfig{
			MCPConfigFile: os.Getenv("GRAMPS_MCP_CONFIG_FILE"),
			Version:       GetVersion(),
			TransportType: "inmemory",
		},
	}
}

// WithMCPConfig sets the MCP server configuration file path
func (b *ADKTransportBuilder) WithMCPConfig(configFile string) *ADKTransportBuilder {
	b.config.MCPConfigFile = configFile
	return b
}

// WithVersion sets the MCP server version
func (b *ADKTransportBuilder) WithVersion(version string) *ADKTransportBuilder {
	b.config.Version = version
	return b
}

// WithInMemoryTransport configures in-memory transport (connects directly to handlers)
func (b *ADKTransportBuilder) WithInMemoryTransport() *ADKTransportBuilder {
	b.config.TransportType = "inmemory"
	return b
}

// ValidateConfig validates the transport builder configuration
func (b *ADKTransportBuilder) ValidateConfig() error {
	if b.config.TransportType == "inmemory" {
		return nil
	}
	return fmt.Errorf("unsupported transport type: %s", b.config.TransportType)
}

// BuildTransport creates an in-memory MCP transport wired to a fully built
// genealogy server. The configuration (and therefore the record store
// credentials) is loaded the same way the stdio server loads it.
func (b *ADKTransportBuilder) BuildTransport(ctx context.Context) (*InMemoryTransport, error) {
	if err := b.ValidateConfig(); err != nil {
		return nil, err
	}

	switch b.config.TransportType {
	case "inmemory":
		return b.buildInMemoryTransport(ctx)
	default:
		return nil, fmt.Errorf("unsupported transport type: %s", b.config.TransportType)
	}
}

// buildInMemoryTransport loads the configuration, builds the backend, and
// hands both to TransportBuilder.
func (b *ADKTransportBuilder) buildInMemoryTransport(ctx context.Context) (*InMemoryTransport, error) {
	config, err := loadConfig(b.config.MCPConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load MCP config: %w", err)
	}

	backend, err := NewBackend(config, b.config.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to build backend: %w", err)
	}

	return NewTransportBuilder().
		WithConfig(config).
		WithVersion(b.config.Version).
		WithBackend(backend).
		WithDefaultTools().
		BuildInMemoryTransport(ctx)
}
