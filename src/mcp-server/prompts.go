// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// createPrompts creates and returns all MCP prompt definitions with their handlers
func createPrompts() []server.ServerPrompt {
	return []server.ServerPrompt{
		{
			Prompt: mcp.NewPrompt("lineage_research",
				mcp.WithPromptDescription("Guided lineage research workflow for a person"),
				mcp.WithArgument("person",
					mcp.ArgumentDescription("Handle, Gramps ID, or name of the person to research"),
				),
				mcp.WithArgument("generations",
					mcp.ArgumentDescription("How many generations to walk in each direction (default: 5, max: 10)"),
				),
			),
			Handler: handleLineageResearchPrompt,
		},
		{
			Prompt: mcp.NewPrompt("record_hygiene",
				mcp.WithPromptDescription("Review person and family records for duplicates, missing links, and inconsistent data"),
				mcp.WithArgument("scope",
					mcp.ArgumentDescription("What to review: 'person', 'family', or 'tree'"),
				),
				mcp.WithArgument("handle",
					mcp.ArgumentDescription("Handle of the record to review (for 'person' or 'family' scope)"),
				),
			),
			Handler: handleRecordHygienePrompt,
		},
	}
}
