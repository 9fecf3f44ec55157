// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package templates provides embedded filesystem access for MCP server
// template files: the server instructions rendered at initialization and the
// relationship terminology reference served as a resource.
//
// Access goes through the [EmbedFS] interface, with [MagicEmbed] as the
// default implementation, so components never depend on [embed.FS] directly.
package templates
