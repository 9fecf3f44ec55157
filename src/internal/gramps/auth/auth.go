// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/helper/gc"
	"golang.org/x/sync/singleflight"
)

const (
	// tokenPath is the record store's credential exchange endpoint,
	// relative to the API base URL.
	tokenPath = "/api/token/"

	// expiryBuffer is subtracted from the token's embedded expiry so
	// in-flight requests never race an edge-of-expiry rejection.
	expiryBuffer = 30 * time.Second

	// defaultLifetime is assumed for tokens without a usable exp claim.
	defaultLifetime = time.Hour
)

// Error reports a rejected credential exchange, carrying the HTTP status and
// response body returned by the token endpoint. The Transport also returns it
// when a request is still rejected after a forced token refresh.
type Error struct {
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("authentication failed (status %d): %s", e.StatusCode, e.Body)
}

// Manager owns a single cached bearer token and its expiry for one configured
// record store backend. Construct one Manager per backend; there is no global
// credential state.
//
// Token is safe to call from arbitrarily many concurrent goroutines: refreshes
// are deduplicated through a single-flight group, so N concurrent callers with
// no valid cached token trigger exactly one credential exchange and all
// receive its outcome.
type Manager struct {
	tokenURL string
	username string
	password string
	client   *http.Client

	group singleflight.Group

	mu     sync.RWMutex
	token  string
	expiry time.Time

	now func() time.Time // clock injection for tests
}

// New creates a credential manager for the record store at baseURL.
// A trailing slash on baseURL is tolerated. If client is nil a default
// HTTP client with a 30 second timeout is used.
func New(baseURL, username, password string, client *http.Client) *Manager {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Manager{
		tokenURL: strings.TrimRight(baseURL, "/") + tokenPath,
		username: username,
		password: password,
		client:   client,
		now:      time.Now,
	}
}

// Token returns a valid bearer token, refreshing it if the cached one is
// missing or expired. Concurrent callers awaiting the same refresh all
// receive the same token or the same failure.
func (m *Manager) Token(ctx context.Context) (string, error) {
	if tok, ok := m.cached(); ok {
		return tok, nil
	}

	v, err, _ := m.group.Do("refresh", func() (any, error) {
		// A refresh that completed while this caller was queued is good enough.
		if tok, ok := m.cached(); ok {
			return tok, nil
		}
		return m.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Clear drops the cached token and resets its expiry to the past, forcing the
// next Token call to refresh. It is called by the Transport after an
// authentication rejection.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.token = ""
	m.expiry = time.Time{}
	m.mu.Unlock()
}

// cached returns the token when one is stored and not yet inside the expiry
// buffer window.
func (m *Manager) cached() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token != "" && m.now().Before(m.expiry) {
		return m.token, true
	}
	return "", false
}

// refresh performs the credential exchange: a form-encoded POST of
// username/password to the token endpoint, expecting a JSON access_token in
// return. On success the token and its buffered expiry are stored.
func (m *Manager) refresh(ctx context.Context) (string, error) {
	form := url.Values{
		"username": {m.username},
		"password": {m.password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &Error{StatusCode: resp.StatusCode, Body: string(buf.Bytes())}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access_token")
	}

	expiry := tokenExpiry(payload.AccessToken, m.now()).Add(-expiryBuffer)

	m.mu.Lock()
	m.token = payload.AccessToken
	m.expiry = expiry
	m.mu.Unlock()

	return payload.AccessToken, nil
}
