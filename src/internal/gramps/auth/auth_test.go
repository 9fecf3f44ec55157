// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenEndpoint serves the credential exchange, counting exchanges and
// checking that credentials arrive form-encoded.
func tokenEndpoint(t *testing.T, count *int32, token string, delay time.Duration) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/token/" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		if r.PostForm.Get("username") != "ada" || r.PostForm.Get("password") != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		atomic.AddInt32(count, 1)
		if delay > 0 {
			time.Sleep(delay)
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": token})
	}))
}

func TestTokenSingleFlight(t *testing.T) {
	var exchanges int32
	token := makeJWT(time.Now().Add(time.Hour).Unix())
	srv := tokenEndpoint(t, &exchanges, token, 50*time.Millisecond)
	defer srv.Close()

	m := New(srv.URL, "ada", "s3cret", srv.Client())

	const callers = 16
	results := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = m.Token(context.Background())
		}(i)
	}
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, token, results[i], "caller %d got a different token", i)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&exchanges), "concurrent callers should share one exchange")
}

func TestTokenExpiryBuffer(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	exp := base.Add(10 * time.Minute)

	var exchanges int32
	srv := tokenEndpoint(t, &exchanges, makeJWT(exp.Unix()), 0)
	defer srv.Close()

	current := base
	m := New(srv.URL, "ada", "s3cret", srv.Client())
	m.now = func() time.Time { return current }

	_, err := m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&exchanges))

	// Still inside validity: 31 seconds before the embedded expiry.
	current = exp.Add(-31 * time.Second)
	_, err = m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&exchanges), "token should still be cached outside the buffer window")

	// The buffer window starts 30 seconds before expiry.
	current = exp.Add(-30 * time.Second)
	_, err = m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&exchanges), "token inside the buffer window should refresh")
}

func TestTokenMalformedExpFallback(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)

	var exchanges int32
	srv := tokenEndpoint(t, &exchanges, "opaque-session-token", 0)
	defer srv.Close()

	current := base
	m := New(srv.URL, "ada", "s3cret", srv.Client())
	m.now = func() time.Time { return current }

	_, err := m.Token(context.Background())
	require.NoError(t, err)

	// Assumed lifetime is one hour; the buffer trims the last 30 seconds.
	current = base.Add(time.Hour - 31*time.Second)
	_, err = m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&exchanges))

	current = base.Add(time.Hour - 30*time.Second)
	_, err = m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&exchanges))
}

func TestClearForcesRefresh(t *testing.T) {
	var exchanges int32
	token := makeJWT(time.Now().Add(time.Hour).Unix())
	srv := tokenEndpoint(t, &exchanges, token, 0)
	defer srv.Close()

	m := New(srv.URL, "ada", "s3cret", srv.Client())

	_, err := m.Token(context.Background())
	require.NoError(t, err)

	_, err = m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&exchanges))

	m.Clear()

	_, err = m.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&exchanges))
}

func TestTokenRejectedCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := New(srv.URL, "ada", "wrong", srv.Client())

	_, err := m.Token(context.Background())
	require.Error(t, err)

	var authErr *Error
	require.True(t, errors.As(err, &authErr), "expected *auth.Error, got %T", err)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Contains(t, authErr.Error(), "authentication failed")
}

func TestTokenEmptyAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": ""})
	}))
	defer srv.Close()

	m := New(srv.URL, "ada", "s3cret", srv.Client())

	_, err := m.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no access_token")
}

func TestNewTrimsTrailingSlash(t *testing.T) {
	m := New("https://gramps.example.org/", "ada", "s3cret", nil)
	assert.Equal(t, "https://gramps.example.org/api/token/", m.tokenURL)
	assert.NotNil(t, m.client, "nil client should get a default")
}
