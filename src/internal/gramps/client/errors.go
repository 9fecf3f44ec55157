// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package client

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned (wrapped with the endpoint) when the record store
// answers 404 for a handle. The lineage engine treats it as a dead branch
// rather than a failure.
var ErrNotFound = errors.New("record not found")

// APIError reports a non-2xx response from the record store other than
// authentication rejection and not-found. It carries the HTTP status and the
// endpoint so tool callers can report actionable failures.
type APIError struct {
	StatusCode int
	Endpoint   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("record store request to %s failed with status %d", e.Endpoint, e.StatusCode)
}

// TimeoutError reports a request that exceeded its deadline. It is kept
// distinct from APIError so callers can tell a slow store from a broken one.
type TimeoutError struct {
	Endpoint string
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("record store request to %s timed out", e.Endpoint)
}

// IsNotFound reports whether err represents a 404 from the record store.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
