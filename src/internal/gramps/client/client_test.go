// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/gramps/auth"
	"github.com/H0llyW00dzZ/gramps-mcp/src/internal/gramps/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFixture is a fake record store: it issues tokens unconditionally and
// delegates everything else to handle.
type storeFixture struct {
	tokenExchanges int32
	apiAttempts    int32
	handle         func(w http.ResponseWriter, r *http.Request, attempt int32)
}

func (s *storeFixture) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/token/" {
			n := atomic.AddInt32(&s.tokenExchanges, 1)
			json.NewEncoder(w).Encode(map[string]string{
				"access_token": "token-" + string(rune('a'+n-1)),
			})
			return
		}
		attempt := atomic.AddInt32(&s.apiAttempts, 1)
		s.handle(w, r, attempt)
	}))
}

func newClient(t *testing.T, baseURL string, timeout time.Duration) *client.Client {
	t.Helper()
	c, err := client.New(client.Config{
		BaseURL:  baseURL,
		Username: "ada",
		Password: "s3cret",
		Timeout:  timeout,
		Version:  "test",
	})
	require.NoError(t, err)
	return c
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     client.Config
		wantErr string
	}{
		{
			name:    "missing base URL",
			cfg:     client.Config{Username: "ada", Password: "s3cret"},
			wantErr: "base URL is required",
		},
		{
			name:    "missing credentials",
			cfg:     client.Config{BaseURL: "https://gramps.example.org"},
			wantErr: "credentials are required",
		},
		{
			name:    "bad CA bundle path",
			cfg:     client.Config{BaseURL: "https://gramps.example.org", Username: "a", Password: "b", CABundle: "/nonexistent/bundle.pem"},
			wantErr: "CA bundle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.New(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRetryOnceAfterUnauthorized(t *testing.T) {
	fixture := &storeFixture{
		handle: func(w http.ResponseWriter, r *http.Request, attempt int32) {
			if attempt == 1 {
				// Check the retry actually carries a fresh token.
				assert.Equal(t, "Bearer token-a", r.Header.Get("Authorization"))
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			assert.Equal(t, "Bearer token-b", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(client.Person{Handle: "H1", GrampsID: "I0001"})
		},
	}
	srv := fixture.server(t)
	defer srv.Close()

	c := newClient(t, srv.URL, 0)

	person, err := c.Person(context.Background(), "H1")
	require.NoError(t, err)
	assert.Equal(t, "H1", person.Handle)
	assert.Equal(t, int32(2), atomic.LoadInt32(&fixture.apiAttempts), "expected exactly 2 HTTP attempts")
	assert.Equal(t, int32(2), atomic.LoadInt32(&fixture.tokenExchanges), "expected a forced refresh between attempts")
}

func TestUnauthorizedTwiceIsFatal(t *testing.T) {
	fixture := &storeFixture{
		handle: func(w http.ResponseWriter, r *http.Request, attempt int32) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	}
	srv := fixture.server(t)
	defer srv.Close()

	c := newClient(t, srv.URL, 0)

	_, err := c.Person(context.Background(), "H1")
	require.Error(t, err)

	var authErr *auth.Error
	require.True(t, errors.As(err, &authErr), "expected *auth.Error, got %T: %v", err, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&fixture.apiAttempts), "a second 401 must not trigger more retries")
}

func TestNotFound(t *testing.T) {
	fixture := &storeFixture{
		handle: func(w http.ResponseWriter, r *http.Request, attempt int32) {
			http.NotFound(w, r)
		},
	}
	srv := fixture.server(t)
	defer srv.Close()

	c := newClient(t, srv.URL, 0)

	_, err := c.Person(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err), "expected ErrNotFound, got %v", err)
	assert.Contains(t, err.Error(), "/api/people/missing")
}

func TestAPIError(t *testing.T) {
	fixture := &storeFixture{
		handle: func(w http.ResponseWriter, r *http.Request, attempt int32) {
			w.WriteHeader(http.StatusBadGateway)
		},
	}
	srv := fixture.server(t)
	defer srv.Close()

	c := newClient(t, srv.URL, 0)

	_, err := c.Family(context.Background(), "F1")
	require.Error(t, err)

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr), "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.False(t, client.IsNotFound(err))
}

func TestTimeout(t *testing.T) {
	fixture := &storeFixture{
		handle: func(w http.ResponseWriter, r *http.Request, attempt int32) {
			time.Sleep(300 * time.Millisecond)
		},
	}
	srv := fixture.server(t)
	defer srv.Close()

	c := newClient(t, srv.URL, 100*time.Millisecond)

	_, err := c.Person(context.Background(), "H1")
	require.Error(t, err)

	var timeoutErr *client.TimeoutError
	require.True(t, errors.As(err, &timeoutErr), "expected *TimeoutError, got %T: %v", err, err)
}

func TestDeleteToleratesEmptyBody(t *testing.T) {
	fixture := &storeFixture{
		handle: func(w http.ResponseWriter, r *http.Request, attempt int32) {
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNoContent)
		},
	}
	srv := fixture.server(t)
	defer srv.Close()

	c := newClient(t, srv.URL, 0)
	require.NoError(t, c.DeletePerson(context.Background(), "H1"))
}

func TestCreatePerson(t *testing.T) {
	t.Run("assigns a gramps id and decodes the created record", func(t *testing.T) {
		fixture := &storeFixture{
			handle: func(w http.ResponseWriter, r *http.Request, attempt int32) {
				require.Equal(t, http.MethodPost, r.Method)
				var submitted client.Person
				require.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
				assert.True(t, strings.HasPrefix(submitted.GrampsID, "I"), "expected generated ID with I prefix, got %q", submitted.GrampsID)

				submitted.Handle = "H-created"
				w.WriteHeader(http.StatusCreated)
				json.NewEncoder(w).Encode(submitted)
			},
		}
		srv := fixture.server(t)
		defer srv.Close()

		c := newClient(t, srv.URL, 0)
		input := &client.Person{PrimaryName: client.Name{FirstName: "Ada"}}
		created, err := c.CreatePerson(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, "H-created", created.Handle)
		assert.Empty(t, input.GrampsID, "the caller's record must not pick up the generated ID")
	})

	t.Run("falls back to the submitted record on an empty 201", func(t *testing.T) {
		fixture := &storeFixture{
			handle: func(w http.ResponseWriter, r *http.Request, attempt int32) {
				w.WriteHeader(http.StatusCreated)
			},
		}
		srv := fixture.server(t)
		defer srv.Close()

		c := newClient(t, srv.URL, 0)
		created, err := c.CreatePerson(context.Background(), &client.Person{
			GrampsID:    "I9999",
			PrimaryName: client.Name{FirstName: "Ada"},
		})
		require.NoError(t, err)
		assert.Equal(t, "I9999", created.GrampsID)
	})
}

func TestCreateFamily(t *testing.T) {
	fixture := &storeFixture{
		handle: func(w http.ResponseWriter, r *http.Request, attempt int32) {
			require.Equal(t, http.MethodPost, r.Method)
			var submitted client.Family
			require.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
			assert.True(t, strings.HasPrefix(submitted.GrampsID, "F"), "expected generated ID with F prefix, got %q", submitted.GrampsID)

			submitted.Handle = "F-created"
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(submitted)
		},
	}
	srv := fixture.server(t)
	defer srv.Close()

	c := newClient(t, srv.URL, 0)
	input := &client.Family{FatherHandle: "H1", MotherHandle: "H2"}
	created, err := c.CreateFamily(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "F-created", created.Handle)
	assert.Empty(t, input.GrampsID, "the caller's record must not pick up the generated ID")
}

func TestUpdateRequiresHandle(t *testing.T) {
	fixture := &storeFixture{
		handle: func(w http.ResponseWriter, r *http.Request, attempt int32) {},
	}
	srv := fixture.server(t)
	defer srv.Close()

	c := newClient(t, srv.URL, 0)

	require.Error(t, c.UpdatePerson(context.Background(), &client.Person{}))
	require.Error(t, c.UpdateFamily(context.Background(), &client.Family{}))
	assert.Equal(t, int32(0), atomic.LoadInt32(&fixture.apiAttempts), "validation must happen before any request")
}

func TestSearchPeoplePagination(t *testing.T) {
	fixture := &storeFixture{
		handle: func(w http.ResponseWriter, r *http.Request, attempt int32) {
			assert.Equal(t, "/api/people/", r.URL.Path)
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			assert.Equal(t, "10", r.URL.Query().Get("pagesize"))
			assert.Equal(t, "I0042", r.URL.Query().Get("gramps_id"))
			json.NewEncoder(w).Encode([]client.Person{{Handle: "H1"}, {Handle: "H2"}})
		},
	}
	srv := fixture.server(t)
	defer srv.Close()

	c := newClient(t, srv.URL, 0)

	filter := map[string][]string{"gramps_id": {"I0042"}}
	people, err := c.SearchPeople(context.Background(), filter, 2, 10)
	require.NoError(t, err)
	assert.Len(t, people, 2)
}
