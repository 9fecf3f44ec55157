// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package jsonrpc

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Map converts a decoded JSON-RPC map to canonical lowercase key form.
//
// It handles specific JSON-RPC fields with special logic:
//   - "id": preserves values, converting whole number floats to int64 and
//     empty object IDs to null
//   - "jsonrpc": adds the default version "2.0" if missing
func Map(temp map[string]any) map[string]any {
	fixed := make(map[string]any)
	for k, v := range temp {
		key := strings.ToLower(k)
		switch key {
		case "id":
			if idMap, ok := v.(map[string]any); ok && len(idMap) == 0 {
				fixed["id"] = nil
			} else {
				fixed["id"] = normalizeIDValue(v)
			}
		case "jsonrpc":
			fixed["jsonrpc"] = v
		default:
			fixed[key] = v
		}
	}

	if _, ok := fixed["jsonrpc"]; !ok {
		fixed["jsonrpc"] = mcp.JSONRPC_VERSION
	}

	return fixed
}

// normalizeIDValue converts whole number float64 values to int64 for JSON-RPC
// ID fields. JSON unmarshaling treats all numbers as float64; integral IDs
// are preferred on the wire.
func normalizeIDValue(v any) any {
	if f, ok := v.(float64); ok {
		if f == float64(int64(f)) {
			return int64(f)
		}
	}
	return v
}

// UnmarshalFromMap converts a map/any to a struct via JSON round-trip.
// It is used to turn generic JSON-RPC parameters into strongly-typed structs.
func UnmarshalFromMap(src any, dest any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
