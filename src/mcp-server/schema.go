// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSON Schemas for record payloads submitted through the create/update tools.
// Validation happens before anything is sent to the record store, so a
// malformed payload fails fast with a message naming the offending field
// instead of an opaque store-side 400.
const (
	personSchema = `{
		"type": "object",
		"properties": {
			"handle": {"type": "string"},
			"gramps_id": {"type": "string"},
			"gender": {"type": "integer", "enum": [0, 1, 2]},
			"primary_name": {
				"type": "object",
				"properties": {
					"first_name": {"type": "string"},
					"surname_list": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"surname": {"type": "string"},
								"prefix": {"type": "string"},
								"primary": {"type": "boolean"}
							},
							"required": ["surname"]
						}
					}
				}
			},
			"family_list": {"type": "array", "items": {"type": "string"}},
			"parent_family_list": {"type": "array", "items": {"type": "string"}}
		},
		"required": ["primary_name"]
	}`

	familySchema = `{
		"type": "object",
		"properties": {
			"handle": {"type": "string"},
			"gramps_id": {"type": "string"},
			"father_handle": {"type": "string"},
			"mother_handle": {"type": "string"},
			"child_ref_list": {
				"type": "array",
				"items": {
					"type": "object",
					"properties": {
						"ref": {"type": "string"},
						"frel": {"type": "string"},
						"mrel": {"type": "string"}
					},
					"required": ["ref"]
				}
			}
		}
	}`
)

// validatePayload validates a record payload against one of the schemas
// above. On failure, it returns a single error listing every violation found,
// so the caller can fix them all in one pass.
func validatePayload(schema string, payload map[string]any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewGoLoader(payload),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("invalid record payload: %s", strings.Join(problems, "; "))
}
