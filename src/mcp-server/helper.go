// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import "fmt"

// getParams extracts parameters from a normalized JSON-RPC request.
func getParams(req map[string]any, method string) (map[string]any, error) {
	p, ok := req["params"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid %s params", method)
	}
	return p, nil
}

// getStringParam extracts a required string parameter from JSON-RPC params.
func getStringParam(params map[string]any, method, key string) (string, error) {
	v, ok := params[key].(string)
	if !ok {
		return "", fmt.Errorf("invalid %s params: %s must be a string", method, key)
	}
	return v, nil
}

// getOptionalStringParam extracts an optional string parameter, returning an
// empty string when absent.
func getOptionalStringParam(params map[string]any, method, key string) (string, error) {
	raw, ok := params[key]
	if !ok || raw == nil {
		return "", nil
	}
	v, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("invalid %s params: %s must be a string", method, key)
	}
	return v, nil
}

// getMapParam extracts a required object parameter from JSON-RPC params.
func getMapParam(params map[string]any, method, key string) (map[string]any, error) {
	v, ok := params[key].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid %s params: %s must be an object", method, key)
	}
	return v, nil
}
