// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package logger provides dual-mode logging for the Gramps MCP server.
// CLILogger writes human-readable text for terminal use; MCPLogger emits
// structured JSON lines and stays silent by default so that nothing leaks
// into the MCP stdio protocol stream.
package logger
