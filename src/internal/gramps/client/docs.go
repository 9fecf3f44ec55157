// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package client is the authenticated HTTP transport to the genealogy record
// store. It injects bearer credentials from the auth manager, retries exactly
// once on an authentication rejection, and maps non-2xx statuses to a typed
// failure taxonomy so callers never see raw transport errors.
package client
