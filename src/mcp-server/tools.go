// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createTools creates and returns all MCP tool definitions with their handlers.
// It organizes tools into two categories: pure tools that never touch the
// record store, and backend tools that need the authenticated client and the
// lineage engine.
//
// Returns:
//   - A slice of ToolDefinition for pure tools
//   - A slice of ToolDefinitionWithBackend for tools that use the record store
//
// The function defines the following tools:
//   - relationship_label: Names a relationship from direction and distance
//   - find_person / find_family: Search records with pagination
//   - get_person / get_family: Fetch one record by handle
//   - create_person / create_family: Create records (Gramps ID auto-assigned)
//   - update_person / update_family: Replace records by handle
//   - delete_person / delete_family: Remove records by handle
//   - get_ancestors / get_descendants: Generation-bounded lineage traversal
func createTools() ([]ToolDefinition, []ToolDefinitionWithBackend) {
	// Pure tools that don't need the record store
	tools := []ToolDefinition{
		{
			Tool: mcp.NewTool("relationship_label",
				mcp.WithDescription("Name the relationship of a relative at a given generation distance (e.g. Father, Grandmother, 2x Great-Grandchild)"),
				mcp.WithString("direction",
					mcp.Required(),
					mcp.Description("Traversal direction: 'ancestor' or 'descendant'"),
				),
				mcp.WithNumber("distance",
					mcp.Required(),
					mcp.Description("Generation distance from the starting person (0 = the person themself)"),
				),
				mcp.WithString("sex",
					mcp.Description("Sex of the relative for ancestor terms: 'male', 'female', or 'unknown' (default: unknown)"),
					mcp.DefaultString("unknown"),
				),
			),
			Handler: handleRelationshipLabel,
			Role:    "relationshipLabeler",
		},
	}

	// Tools that need the record store backend
	backendTools := []ToolDefinitionWithBackend{
		{
			Tool: mcp.NewTool("find_person",
				mcp.WithDescription("Search person records by Gramps ID or free text, with pagination"),
				mcp.WithString("gramps_id",
					mcp.Description("Exact Gramps ID to match (e.g. 'I0042')"),
				),
				mcp.WithString("search",
					mcp.Description("Free-text search over names"),
				),
				mcp.WithNumber("page",
					mcp.Description("Page number, 1-based (default: 1)"),
					mcp.DefaultNumber(1),
				),
				mcp.WithNumber("pagesize",
					mcp.Description("Results per page (default: from server config)"),
				),
			),
			Handler: handleFindPerson,
			Role:    "personSearch",
		},
		{
			Tool: mcp.NewTool("get_person",
				mcp.WithDescription("Fetch a single person record by its handle"),
				mcp.WithString("handle",
					mcp.Required(),
					mcp.Description("Store-assigned handle of the person"),
				),
			),
			Handler: handleGetPerson,
			Role:    "personReader",
		},
		{
			Tool: mcp.NewTool("create_person",
				mcp.WithDescription("Create a person record; the store assigns the handle and a Gramps ID is generated when missing"),
				mcp.WithObject("person",
					mcp.Required(),
					mcp.Description("Person record: primary_name with first_name/surname_list, optional gender (0=female, 1=male, 2=unknown) and gramps_id"),
				),
			),
			Handler: handleCreatePerson,
			Role:    "personCreator",
		},
		{
			Tool: mcp.NewTool("update_person",
				mcp.WithDescription("Replace a person record identified by its handle"),
				mcp.WithString("handle",
					mcp.Required(),
					mcp.Description("Store-assigned handle of the person to update"),
				),
				mcp.WithObject("person",
					mcp.Required(),
					mcp.Description("Full replacement person record"),
				),
			),
			Handler: handleUpdatePerson,
			Role:    "personEditor",
		},
		{
			Tool: mcp.NewTool("delete_person",
				mcp.WithDescription("Delete a person record by its handle"),
				mcp.WithString("handle",
					mcp.Required(),
					mcp.Description("Store-assigned handle of the person to delete"),
				),
			),
			Handler: handleDeletePerson,
			Role:    "personRemover",
		},
		{
			Tool: mcp.NewTool("find_family",
				mcp.WithDescription("Search family records by Gramps ID or free text, with pagination"),
				mcp.WithString("gramps_id",
					mcp.Description("Exact Gramps ID to match (e.g. 'F0007')"),
				),
				mcp.WithString("search",
					mcp.Description("Free-text search"),
				),
				mcp.WithNumber("page",
					mcp.Description("Page number, 1-based (default: 1)"),
					mcp.DefaultNumber(1),
				),
				mcp.WithNumber("pagesize",
					mcp.Description("Results per page (default: from server config)"),
				),
			),
			Handler: handleFindFamily,
			Role:    "familySearch",
		},
		{
			Tool: mcp.NewTool("get_family",
				mcp.WithDescription("Fetch a single family record by its handle, including parent and child references"),
				mcp.WithString("handle",
					mcp.Required(),
					mcp.Description("Store-assigned handle of the family"),
				),
			),
			Handler: handleGetFamily,
			Role:    "familyReader",
		},
		{
			Tool: mcp.NewTool("create_family",
				mcp.WithDescription("Create a family record linking parents and children; a Gramps ID is generated when missing"),
				mcp.WithObject("family",
					mcp.Required(),
					mcp.Description("Family record: optional father_handle/mother_handle and child_ref_list with ref/frel/mrel entries"),
				),
			),
			Handler: handleCreateFamily,
			Role:    "familyCreator",
		},
		{
			Tool: mcp.NewTool("update_family",
				mcp.WithDescription("Replace a family record identified by its handle"),
				mcp.WithString("handle",
					mcp.Required(),
					mcp.Description("Store-assigned handle of the family to update"),
				),
				mcp.WithObject("family",
					mcp.Required(),
					mcp.Description("Full replacement family record"),
				),
			),
			Handler: handleUpdateFamily,
			Role:    "familyEditor",
		},
		{
			Tool: mcp.NewTool("delete_family",
				mcp.WithDescription("Delete a family record by its handle"),
				mcp.WithString("handle",
					mcp.Required(),
					mcp.Description("Store-assigned handle of the family to delete"),
				),
			),
			Handler: handleDeleteFamily,
			Role:    "familyRemover",
		},
		{
			Tool: mcp.NewTool("get_ancestors",
				mcp.WithDescription("Walk a person's ancestors breadth-first, grouped by generation (bound capped at 10)"),
				mcp.WithString("handle",
					mcp.Required(),
					mcp.Description("Store-assigned handle of the starting person"),
				),
				mcp.WithNumber("generations",
					mcp.Description("How many generations to walk (default: from server config, max: 10)"),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'json', 'table', or 'tree' (default: json)"),
					mcp.DefaultString("json"),
				),
			),
			Handler: handleGetAncestors,
			Role:    "ancestorWalker",
		},
		{
			Tool: mcp.NewTool("get_descendants",
				mcp.WithDescription("Walk a person's descendants breadth-first, grouped by generation (bound capped at 10)"),
				mcp.WithString("handle",
					mcp.Required(),
					mcp.Description("Store-assigned handle of the starting person"),
				),
				mcp.WithNumber("generations",
					mcp.Description("How many generations to walk (default: from server config, max: 10)"),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'json', 'table', or 'tree' (default: json)"),
					mcp.DefaultString("json"),
				),
			),
			Handler: handleGetDescendants,
			Role:    "descendantWalker",
		},
	}

	return tools, backendTools
}
