// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package auth manages the bearer credential shared by all outbound record
// store calls: it caches a token with its decoded expiry, refreshes on demand
// through a single-flight exchange, and never persists credentials.
package auth
