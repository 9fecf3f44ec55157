// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/gramps/auth"
	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/helper/gc"
	"github.com/cloudflare/cfssl/helpers"
	"github.com/google/uuid"
)

// Record store collection paths, relative to the API base URL.
const (
	peoplePath   = "/api/people/"
	familiesPath = "/api/families/"
)

// defaultTimeout bounds each request when the configuration does not set one.
const defaultTimeout = 30 * time.Second

// Config holds everything needed to talk to one record store backend.
type Config struct {
	// BaseURL: API base URL of the record store (trailing slash tolerated)
	BaseURL string
	// Username, Password: credentials for the token exchange
	Username string
	Password string
	// Timeout: per-request deadline (defaults to 30s)
	Timeout time.Duration
	// CABundle: optional path to a PEM bundle trusted for TLS, for
	// self-hosted stores behind self-signed certificates
	CABundle string
	// Version: server version used in the User-Agent header
	Version string
}

// Client issues authenticated HTTP requests against the record store. It owns
// a credential manager for the configured backend and maps response statuses
// to the typed failure taxonomy (auth.Error, ErrNotFound, APIError,
// TimeoutError). Beyond the HTTP call and credential state it has no side
// effects.
type Client struct {
	baseURL   string
	http      *http.Client
	auth      *auth.Manager
	userAgent string
}

// New creates a record store client from cfg. It validates that the base URL
// and credentials are present and, when a CA bundle is configured, loads it
// into the TLS root pool.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("record store base URL is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("record store credentials are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}
	if cfg.CABundle != "" {
		pool, err := helpers.LoadPEMCertPool(cfg.CABundle)
		if err != nil {
			return nil, fmt.Errorf("failed to load CA bundle %s: %w", cfg.CABundle, err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{RootCAs: pool},
		}
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		baseURL:   baseURL,
		http:      httpClient,
		auth:      auth.New(baseURL, cfg.Username, cfg.Password, httpClient),
		userAgent: "Gramps-MCP/" + cfg.Version + " (+https://github.com/H0llyW00dzZ/gramps-mcp)",
	}, nil
}

// Get issues an authenticated GET and decodes the JSON response into out.
// Pass nil query or out when not needed.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues an authenticated PUT with a JSON body, replacing the record.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do obtains a token, sends the request, and retries exactly once with a
// fresh token on an authentication rejection. A second rejection is fatal to
// the call; no further retries happen anywhere in the stack.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	token, err := c.auth.Token(ctx)
	if err != nil {
		return err
	}

	status, data, err := c.send(ctx, method, path, query, body, token)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized {
		// Stale or revoked token: force one refresh, then retry once.
		c.auth.Clear()
		token, err = c.auth.Token(ctx)
		if err != nil {
			return err
		}
		status, data, err = c.send(ctx, method, path, query, body, token)
		if err != nil {
			return err
		}
		if status == http.StatusUnauthorized {
			return &auth.Error{StatusCode: status, Body: "request rejected after token refresh"}
		}
	}

	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case status < 200 || status >= 300:
		return &APIError{StatusCode: status, Endpoint: path}
	}

	// Empty 2xx bodies (DELETE, some PUTs) decode to an empty result.
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// send performs one HTTP exchange and returns the status and body. Transport
// errors are mapped here: deadline or network timeouts become TimeoutError,
// everything else is wrapped.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, token string) (int, []byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode %s request body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build %s request: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return 0, nil, &TimeoutError{Endpoint: path}
		}
		return 0, nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return 0, nil, fmt.Errorf("failed to read %s response: %w", path, err)
	}

	// The pool reuses the buffer after this call returns; copy out.
	data := append([]byte(nil), buf.Bytes()...)
	return resp.StatusCode, data, nil
}

// Person fetches a person record by handle.
func (c *Client) Person(ctx context.Context, handle string) (*Person, error) {
	var p Person
	if err := c.Get(ctx, peoplePath+handle, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Family fetches a family record by handle.
func (c *Client) Family(ctx context.Context, handle string) (*Family, error) {
	var f Family
	if err := c.Get(ctx, familiesPath+handle, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// SearchPeople lists person records matching the given filter parameters,
// paginated with page/pagesize.
func (c *Client) SearchPeople(ctx context.Context, filter url.Values, page, pageSize int) ([]Person, error) {
	var people []Person
	if err := c.Get(ctx, peoplePath, withPagination(filter, page, pageSize), &people); err != nil {
		return nil, err
	}
	return people, nil
}

// SearchFamilies lists family records matching the given filter parameters,
// paginated with page/pagesize.
func (c *Client) SearchFamilies(ctx context.Context, filter url.Values, page, pageSize int) ([]Family, error) {
	var families []Family
	if err := c.Get(ctx, familiesPath, withPagination(filter, page, pageSize), &families); err != nil {
		return nil, err
	}
	return families, nil
}

// CreatePerson creates a person record. A missing display identifier is
// assigned on a copy before submission; the caller's record is never
// modified. The store assigns the handle.
func (c *Client) CreatePerson(ctx context.Context, p *Person) (*Person, error) {
	submit := *p
	if submit.GrampsID == "" {
		submit.GrampsID = NewGrampsID("I")
	}
	var created Person
	if err := c.Post(ctx, peoplePath, &submit, &created); err != nil {
		return nil, err
	}
	if created.Handle == "" {
		// Stores that answer 201 with an empty body keep the submitted record.
		created = submit
	}
	return &created, nil
}

// UpdatePerson replaces the person record identified by its handle.
func (c *Client) UpdatePerson(ctx context.Context, p *Person) error {
	if p.Handle == "" {
		return fmt.Errorf("person handle is required for update")
	}
	return c.Put(ctx, peoplePath+p.Handle, p, nil)
}

// DeletePerson removes a person record by handle.
func (c *Client) DeletePerson(ctx context.Context, handle string) error {
	return c.Delete(ctx, peoplePath+handle)
}

// CreateFamily creates a family record, assigning a display identifier on a
// copy when missing. The caller's record is never modified.
func (c *Client) CreateFamily(ctx context.Context, f *Family) (*Family, error) {
	submit := *f
	if submit.GrampsID == "" {
		submit.GrampsID = NewGrampsID("F")
	}
	var created Family
	if err := c.Post(ctx, familiesPath, &submit, &created); err != nil {
		return nil, err
	}
	if created.Handle == "" {
		created = submit
	}
	return &created, nil
}

// UpdateFamily replaces the family record identified by its handle.
func (c *Client) UpdateFamily(ctx context.Context, f *Family) error {
	if f.Handle == "" {
		return fmt.Errorf("family handle is required for update")
	}
	return c.Put(ctx, familiesPath+f.Handle, f, nil)
}

// DeleteFamily removes a family record by handle.
func (c *Client) DeleteFamily(ctx context.Context, handle string) error {
	return c.Delete(ctx, familiesPath+handle)
}

// NewGrampsID mints a display identifier with the conventional type prefix
// ("I" for individuals, "F" for families). Handles stay store-assigned; this
// only covers the user-facing identifier for records created through tools.
func NewGrampsID(prefix string) string {
	return prefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// withPagination adds page/pagesize to filter, treating non-positive values
// as "use store defaults".
func withPagination(filter url.Values, page, pageSize int) url.Values {
	q := url.Values{}
	for k, vs := range filter {
		q[k] = vs
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pagesize", strconv.Itoa(pageSize))
	}
	return q
}
