// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver provides the [MCP] server for a Gramps Web genealogy
// record store. It implements the Model Context Protocol ([MCP]) with tools
// for person and family record operations and generation-bounded lineage
// traversal, handling record store authentication internally so clients
// never touch credentials.
// The package uses a builder pattern for server construction and supports
// in-memory transports for agent framework integration.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
