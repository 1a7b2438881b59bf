package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expertpicks/clientcore/core/session"
	"github.com/expertpicks/clientcore/integration/api"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...api.Option) *api.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.New(api.Config{
		BaseURL:        srv.URL,
		RequestTimeout: 2 * time.Second,
	}, opts...)
	require.NoError(t, err)
	return client
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires a base URL", func(t *testing.T) {
		t.Parallel()
		_, err := api.New(api.Config{})
		assert.ErrorIs(t, err, api.ErrMissingBaseURL)
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		t.Parallel()

		var gotPath atomic.Value
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath.Store(r.URL.Path)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "UP"})
		}))

		require.NoError(t, client.Ping(t.Context()))
		assert.Equal(t, "/health/ping", gotPath.Load())
	})
}

func TestClient_Headers(t *testing.T) {
	t.Parallel()

	t.Run("attaches bearer token and request ID", func(t *testing.T) {
		t.Parallel()

		var auth, requestID atomic.Value
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth.Store(r.Header.Get("Authorization"))
			requestID.Store(r.Header.Get("X-Request-ID"))
			_ = json.NewEncoder(w).Encode(map[string]int{"pendingCount": 0})
		})
		client := newTestClient(t, handler,
			api.WithTokenSource(func() string { return "current-token" }))

		_, err := client.PendingCount(t.Context())
		require.NoError(t, err)

		assert.Equal(t, "Bearer current-token", auth.Load())
		assert.NotEmpty(t, requestID.Load())
	})

	t.Run("omits authorization when logged out", func(t *testing.T) {
		t.Parallel()

		var auth atomic.Value
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth.Store(r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "UP"})
		})
		client := newTestClient(t, handler,
			api.WithTokenSource(func() string { return "" }))

		require.NoError(t, client.Ping(t.Context()))
		assert.Equal(t, "", auth.Load())
	})

	t.Run("token source is consulted per request", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var tokens []string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			tokens = append(tokens, r.Header.Get("Authorization"))
			mu.Unlock()
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "UP"})
		})

		current := atomic.Value{}
		current.Store("tok-1")
		client := newTestClient(t, handler,
			api.WithTokenSource(func() string { return current.Load().(string) }))

		require.NoError(t, client.Ping(t.Context()))
		current.Store("tok-2")
		require.NoError(t, client.Ping(t.Context()))

		require.Len(t, tokens, 2)
		assert.Equal(t, "Bearer tok-1", tokens[0])
		assert.Equal(t, "Bearer tok-2", tokens[1])
	})
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	t.Run("decodes identity from response", func(t *testing.T) {
		t.Parallel()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/auth/login", r.URL.Path)

			var creds session.Credentials
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			assert.Equal(t, "a@b.c", creds.Email)

			_ = json.NewEncoder(w).Encode(session.Identity{
				ID:    7,
				Email: creds.Email,
				Roles: []string{"ROLE_USER"},
				Token: "issued-token",
			})
		})
		client := newTestClient(t, handler)

		identity, err := client.Login(t.Context(), session.Credentials{Email: "a@b.c", Password: "pw"})

		require.NoError(t, err)
		assert.Equal(t, int64(7), identity.ID)
		assert.Equal(t, "issued-token", identity.Token)
	})

	t.Run("maps 401 to ErrUnauthorized", func(t *testing.T) {
		t.Parallel()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "bad credentials"})
		})
		client := newTestClient(t, handler)

		_, err := client.Login(t.Context(), session.Credentials{})

		require.Error(t, err)
		assert.ErrorIs(t, err, api.ErrUnauthorized)

		var apiErr *api.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Contains(t, apiErr.Message, "bad credentials")
	})
}

func TestClient_PendingCount(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/collaborations/requests/incoming/pending-count", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]int{"pendingCount": 3})
	})
	client := newTestClient(t, handler)

	count, err := client.PendingCount(t.Context())

	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestClient_Me(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/me", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(api.Profile{ID: 1, Username: "orig"})
		case http.MethodPut:
			var update api.ProfileUpdate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&update))
			_ = json.NewEncoder(w).Encode(api.Profile{ID: 1, Username: update.Username})
		}
	})
	client := newTestClient(t, handler)

	profile, err := client.Me(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "orig", profile.Username)

	profile, err = client.UpdateMe(t.Context(), api.ProfileUpdate{Username: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", profile.Username)
}

func TestClient_ErrorPayloadShapes(t *testing.T) {
	t.Parallel()

	t.Run("error key payload", func(t *testing.T) {
		t.Parallel()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
		})
		client := newTestClient(t, handler)

		err := client.Ping(t.Context())
		var apiErr *api.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "boom", apiErr.Message)
	})

	t.Run("non-JSON body still yields status", func(t *testing.T) {
		t.Parallel()

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		})
		client := newTestClient(t, handler)

		err := client.Ping(t.Context())
		var apiErr *api.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	})
}
