// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/gramps/auth"
	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/gramps/client"
	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/gramps/lineage"
	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/helper/jsonrpc"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolError maps a record store failure to a tool error result with an
// actionable message. The error taxonomy from the client package is preserved
// in the wording so MCP clients can tell an expired login from a missing
// record or a slow store.
func toolError(action string, err error) *mcp.CallToolResult {
	var authErr *auth.Error
	var apiErr *client.APIError
	var timeoutErr *client.TimeoutError

	switch {
	case errors.As(err, &authErr):
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: record store rejected the credentials: %v", action, err))
	case client.IsNotFound(err):
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: record not found", action))
	case errors.As(err, &timeoutErr):
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: record store did not answer in time: %v", action, err))
	case errors.As(err, &apiErr):
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", action, err))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("failed to %s: %v", action, err))
	}
}

// jsonResult marshals v into an indented JSON tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// handleRelationshipLabel names the relationship for a (direction, distance,
// sex) triple. It is pure: no backend, no failure modes beyond bad arguments.
func handleRelationshipLabel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	directionArg, err := request.RequireString("direction")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("direction parameter required: %v", err)), nil
	}

	var direction lineage.Direction
	switch strings.ToLower(directionArg) {
	case "ancestor", "ancestors":
		direction = lineage.Ancestor
	case "descendant", "descendants":
		direction = lineage.Descendant
	default:
		return mcp.NewToolResultError("direction must be 'ancestor' or 'descendant'"), nil
	}

	distance := request.GetInt("distance", -1)
	if distance < 0 {
		return mcp.NewToolResultError("distance parameter required and must be >= 0"), nil
	}

	var sex lineage.Sex
	switch strings.ToLower(request.GetString("sex", "unknown")) {
	case "male":
		sex = lineage.SexMale
	case "female":
		sex = lineage.SexFemale
	default:
		sex = lineage.SexUnknown
	}

	return mcp.NewToolResultText(lineage.Label(direction, distance, sex)), nil
}

// searchFilter builds the query filter shared by the two search tools.
func searchFilter(request mcp.CallToolRequest) url.Values {
	filter := url.Values{}
	if grampsID := request.GetString("gramps_id", ""); grampsID != "" {
		filter.Set("gramps_id", grampsID)
	}
	if search := request.GetString("search", ""); search != "" {
		filter.Set("search", search)
	}
	return filter
}

// handleFindPerson searches person records with pagination.
func handleFindPerson(ctx context.Context, request mcp.CallToolRequest, backend *Backend) (*mcp.CallToolResult, error) {
	page := request.GetInt("page", 1)
	pageSize := request.GetInt("pagesize", backend.Config.Defaults.PageSize)

	people, err := backend.Client.SearchPeople(ctx, searchFilter(request), page, pageSize)
	if err != nil {
		return toolError("search people", err), nil
	}

	summary := make([]map[string]any, 0, len(people))
	for i := range people {
		p := &people[i]
		summary = append(summary, map[string]any{
			"handle":    p.Handle,
			"gramps_id": p.GrampsID,
			"name":      p.DisplayName(),
		})
	}
	return jsonResult(map[string]any{
		"count":  len(people),
		"page":   page,
		"people": summary,
	})
}

// handleGetPerson fetches one person record by handle.
func handleGetPerson(ctx context.Context, request mcp.CallToolRequest, backend *Backend) (*mcp.CallToolResult, error) {
	handle, err := request.RequireString("handle")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("handle parameter required: %v", err)), nil
	}

	person, err := backend.Client.Person(ctx, handle)
	if err != nil {
		return toolError("fetch person "+handle, err), nil
	}

	return jsonResult(map[string]any{
		"person": person,
		"name":   person.DisplayName(),
	})
}

// recordPayload extracts and returns the named object argument.
func recordPayload(request mcp.CallToolRequest, key string) (map[string]any, error) {
	raw, ok := request.GetArguments()[key]
	if !ok {
		return nil, fmt.Errorf("%s parameter required", key)
	}
	payload, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s parameter must be an object", key)
	}
	return payload, nil
}

// handleCreatePerson validates and creates a person record.
func handleCreatePerson(ctx context.Context, request mcp.CallToolRequest, backend *Backend) (*mcp.CallToolResult, error) {
	payload, err := recordPayload(request, "person")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validatePayload(personSchema, payload); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var person client.Person
	if err := jsonrpc.UnmarshalFromMap(payload, &person); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to decode person payload: %v", err)), nil
	}

	created, err := backend.Client.CreatePerson(ctx, &person)
	if err != nil {
		return toolError("create person", err), nil
	}

	return jsonResult(map[string]any{
		"created": created,
		"name":    created.DisplayName(),
	})
}

// handleUpdatePerson validates and replaces a person record.
func handleUpdatePerson(ctx context.Context, request mcp.CallToolRequest, backend *Backend) (*mcp.CallToolResult, error) {
	handle, err := request.RequireString("handle")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("handle parameter required: %v", err)), nil
	}
	payload, err := recordPayload(request, "person")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validatePayload(personSchema, payload); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var person client.Person
	if err := jsonrpc.UnmarshalFromMap(payload, &person); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to decode person payload: %v", err)), nil
	}
	person.Handle = handle

	if err := backend.Client.UpdatePerson(ctx, &person); err != nil {
		return toolError("update person "+handle, err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Person %s updated", handle)), nil
}

// handleDeletePerson removes a person record.
func handleDeletePerson(ctx context.Context, request mcp.CallToolRequest, backend *Backend) (*mcp.CallToolResult, error) {
	handle, err := request.RequireString("handle")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("handle parameter required: %v", err)), nil
	}

	if err := backend.Client.DeletePerson(ctx, handle); err != nil {
		return toolError("delete person "+handle, err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Person %s deleted", handle)), nil
}

// handleFindFamily searches family records with pagination.
func handleFindFamily(ctx context.Context, request mcp.CallToolRequest, backend *Backend) (*mcp.CallToolResult, error) {
	page := request.GetInt("page", 1)
	pageSize := request.GetInt("pagesize", backend.Config.Defaults.PageSize)

	families, err := backend.Client.SearchFamilies(ctx, searchFilter(request), page, pageSize)
	if err != nil {
		return toolError("search families", err), nil
	}

	summary := make([]map[string]any, 0, len(families))
	for i := range families {
		f := &families[i]
		summary = append(summary, map[string]any{
			"handle":    f.Handle,
			"gramps_id": f.GrampsID,
			"children":  len(f.ChildRefList),
		})
	}
	return jsonResult(map[string]any{
		"count":    len(families),
		"page":     page,
		"families": summary,
	})
}

// handleGetFamily fetches one family record by handle, annotating each child
// reference with its display qualifiers.
func handleGetFamily(ctx context.Context, request mcp.CallToolRequest, backend *Backend) (*mcp.CallToolResult, error) {
	handle, err := request.RequireString("handle")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("handle parameter required: %v", err)), nil
	}

	family, err := backend.Client.Family(ctx, handle)
	if err != nil {
		return toolError("fetch family "+handle, err), nil
	}

	children := make([]map[string]any, 0, len(family.ChildRefList))
	for _, ref := range family.ChildRefList {
		children = append(children, map[string]any{
			"handle":              ref.Ref,
			"father_relationship": client.DisplayQualifier(ref.FatherRel),
			"mother_relationship": client.DisplayQualifier(ref.MotherRel),
		})
	}

	return jsonResult(map[string]any{
		"family":   family,
		"children": children,
	})
}

// handleCreateFamily validates and creates a family record.
func handleCreateFamily(ctx context.Context, request mcp.CallToolRequest, backend *Backend) (*mcp.CallToolResult, error) {
	payload, err := recordPayload(request, "family")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validatePayload(familySchema, payload); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var family client.Family
	if err := jsonrpc.UnmarshalFromMap(payload, &family); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to decode family payload: %v", err)), nil
	}

	created, err := backend.Client.CreateFamily(ctx, &family)
	if err != nil {
		return toolError("create family", err), nil
	}

	return jsonResult(map[string]any{"created": created})
}

// handleUpdateFamily validates and replaces a family record.
func handleUpdateFamily(ctx context.Context, request mcp.CallToolRequest, backend *Backend) (*mcp.CallToolResult, error) {
	handle, err := request.RequireString("handle")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("handle parameter required: %v", err)), nil
	}
	payload, err := recordPayload(request, "family")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := validatePayload(familySchema, payload); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var family client.Family
	if err := jsonrpc.UnmarshalFromMap(payload, &family); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to decode family payload: %v", err)), nil
	}
	family.Handle = handle

	if err := backend.Client.UpdateFamily(ctx, &family); err != nil {
		return toolError("update family "+handle, err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Family %s updated", handle)), nil
}

// handleDeleteFamily removes a family record.
func handleDeleteFamily(ctx context.Context, request mcp.CallToolRequest, backend *Backend) (*mcp.CallToolResult, error) {
	handle, err := request.RequireString("handle")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("handle parameter required: %v", err)), nil
	}

	if err := backend.Client.DeleteFamily(ctx, handle); err != nil {
		return toolError("delete family "+handle, err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Family %s deleted", handle)), nil
}

// handleGetAncestors walks a person's ancestors.
func handleGetAncestors(ctx context.Context, request mcp.CallToolRequest, backend *Backend) (*mcp.CallToolResult, error) {
	return handleTraversal(ctx, request, backend, lineage.Ancestor)
}

// handleGetDescendants walks a person's descendants.
func handleGetDescendants(ctx context.Context, request mcp.CallToolRequest, backend *Backend) (*mcp.CallToolResult, error) {
	return handleTraversal(ctx, request, backend, lineage.Descendant)
}

// handleTraversal runs one lineage traversal and renders it in the requested
// format. Traversal itself only fails on context cancellation; unresolvable
// handles yield an empty result.
func handleTraversal(ctx context.Context, request mcp.CallToolRequest, backend *Backend, direction lineage.Direction) (*mcp.CallToolResult, error) {
	handle, err := request.RequireString("handle")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("handle parameter required: %v", err)), nil
	}

	generations := request.GetInt("generations", backend.Config.Defaults.Generations)

	var result *lineage.Result
	if direction == lineage.Ancestor {
		result, err = backend.Engine.Ancestors(ctx, handle, generations)
	} else {
		result, err = backend.Engine.Descendants(ctx, handle, generations)
	}
	if err != nil {
		return toolError("walk "+direction.String(), err), nil
	}

	switch request.GetString("format", "json") {
	case "table":
		return mcp.NewToolResultText(result.RenderTable()), nil
	case "tree":
		return mcp.NewToolResultText(result.RenderTree()), nil
	default:
		return jsonResult(result)
	}
}
