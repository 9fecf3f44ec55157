// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// handleLineageResearchPrompt handles the lineage research workflow prompt
func handleLineageResearchPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	person := request.Params.Arguments["person"]
	generations := request.Params.Arguments["generations"]
	if generations == "" {
		generations = "5"
	}

	messages := []mcp.PromptMessage{
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(fmt.Sprintf(`I'll help you research the lineage of: %s

Let's locate the person first and then walk their family graph:`, person)),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`1. Locate the person record and note its handle.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(`Use the "find_person" tool with the Gramps ID or a name search, then "get_person" with the handle to confirm the right record.`),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(fmt.Sprintf(`2. Walk %s generations of ancestors.`, generations)),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(fmt.Sprintf(`Use the "get_ancestors" tool with the handle and generations=%s. The 'tree' format is easiest to read; missing branches are normal in sparse trees.`, generations)),
		),
		mcp.NewPromptMessage(
			mcp.RoleUser,
			mcp.NewTextContent(fmt.Sprintf(`3. Walk %s generations of descendants the same way with "get_descendants".`, generations)),
		),
		mcp.NewPromptMessage(
			mcp.RoleAssistant,
			mcp.NewTextContent(`4. Summarize the lineage: which lines are well documented, where the tree goes dark, and which generations have gaps worth researching next.`),
		),
	}

	return mcp.NewGetPromptResult(
		"Lineage Research Workflow",
		messages,
	), nil
}

// handleRecordHygienePrompt handles the record review prompt
func handleRecordHygienePrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	scope := request.Params.Arguments["scope"]
	if scope == "" {
		scope = "person"
	}
	handle := request.Params.Arguments["handle"]

	var steps []mcp.PromptMessage

	steps = append(steps, mcp.NewPromptMessage(
		mcp.RoleAssistant,
		mcp.NewTextContent(fmt.Sprintf(`I'll review %s records for data quality issues.

Here is the checklist:`, scope)),
	))

	switch scope {
	case "family":
		steps = append(steps,
			mcp.NewPromptMessage(
				mcp.RoleUser,
				mcp.NewTextContent(fmt.Sprintf(`1. Fetch the family with "get_family" (handle: %s) and check that both parent handles resolve with "get_person".`, handle)),
			),
			mcp.NewPromptMessage(
				mcp.RoleUser,
				mcp.NewTextContent(`2. For each child reference, confirm the child record exists and that its parent_family_list points back at this family. Flag Unknown relationship qualifiers worth clarifying.`),
			),
		)
	case "tree":
		steps = append(steps,
			mcp.NewPromptMessage(
				mcp.RoleUser,
				mcp.NewTextContent(`1. Use "find_person" to page through records and collect people with identical names and overlapping families; these are duplicate candidates.`),
			),
			mcp.NewPromptMessage(
				mcp.RoleUser,
				mcp.NewTextContent(`2. For each duplicate candidate, compare with "get_person" and propose a merge direction. Prefer "update_person" over creating new records.`),
			),
		)
	default:
		steps = append(steps,
			mcp.NewPromptMessage(
				mcp.RoleUser,
				mcp.NewTextContent(fmt.Sprintf(`1. Fetch the person with "get_person" (handle: %s) and check the name is complete: first name and a primary surname.`, handle)),
			),
			mcp.NewPromptMessage(
				mcp.RoleUser,
				mcp.NewTextContent(`2. Verify every family handle in family_list and parent_family_list resolves with "get_family"; dangling handles show up as pruned branches in traversals.`),
			),
		)
	}

	steps = append(steps, mcp.NewPromptMessage(
		mcp.RoleAssistant,
		mcp.NewTextContent(`3. Report the issues found, ordered by impact on lineage traversal, with the specific tool call that would fix each one.`),
	))

	return mcp.NewGetPromptResult(
		"Record Hygiene Review",
		steps,
	), nil
}
