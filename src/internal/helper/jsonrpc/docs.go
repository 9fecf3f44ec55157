// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package jsonrpc normalizes JSON-RPC 2.0 payloads exchanged by the in-memory
// ADK transport bridge, tolerating mixed-case keys and loose ID typing from
// third-party clients.
package jsonrpc
