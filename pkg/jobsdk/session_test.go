package jobsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a scripted stand-in for the auth endpoints. It tracks which
// access/refresh pair is currently valid and counts refresh round trips.
type fakeAPI struct {
	mu           sync.Mutex
	validAccess  string
	validRefresh string
	refreshOK    bool
	// refreshGrantsStale makes refresh hand out a pair the server will not
	// accept, so the retried request fails again
	refreshGrantsStale bool
	gen                int

	meHits      int
	refreshHits int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{validAccess: "access-1", validRefresh: "refresh-1", refreshOK: true, gen: 1}
}

// rotate invalidates the outstanding access token, as if the pair expired.
func (a *fakeAPI) expireAccess() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.validAccess = "server-only-" + a.validAccess
}

func (a *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()

	writeJSON := func(status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}

	switch r.URL.Path {
	case "/api/auth/login":
		writeJSON(http.StatusOK, map[string]any{
			"message":      "Login successful",
			"user":         map[string]any{"id": 1, "email": "jane@example.com", "name": "Jane"},
			"accessToken":  a.validAccess,
			"refreshToken": a.validRefresh,
		})

	case "/api/auth/me":
		a.meHits++
		if r.Header.Get("Authorization") != "Bearer "+a.validAccess {
			writeJSON(http.StatusUnauthorized, map[string]string{
				"error": "Authentication failed", "message": "Invalid or expired token",
			})
			return
		}
		writeJSON(http.StatusOK, map[string]any{
			"user": map[string]any{"id": 1, "email": "jane@example.com", "name": "Jane"},
		})

	case "/api/auth/refresh-token":
		a.refreshHits++
		var req struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if !a.refreshOK || req.RefreshToken != a.validRefresh {
			writeJSON(http.StatusUnauthorized, map[string]string{
				"error": "Authentication failed", "message": "Invalid or expired refresh token",
			})
			return
		}
		if a.refreshGrantsStale {
			writeJSON(http.StatusOK, map[string]string{
				"accessToken": "stale-grant", "refreshToken": "stale-grant",
			})
			return
		}
		a.gen++
		a.validAccess = fmt.Sprintf("access-%d", a.gen)
		a.validRefresh = fmt.Sprintf("refresh-%d", a.gen)
		writeJSON(http.StatusOK, map[string]string{
			"accessToken": a.validAccess, "refreshToken": a.validRefresh,
		})

	case "/api/auth/logout":
		writeJSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})

	default:
		writeJSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
}

func newTestSession(t *testing.T) (*fakeAPI, *Client, *Session, *MemTokenStore) {
	t.Helper()
	api := newFakeAPI()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	store := &MemTokenStore{}
	client := NewClientWithStore(srv.URL, store)
	s, err := client.Login(context.Background(), "jane@example.com", "secret123")
	require.NoError(t, err)
	return api, client, s, store
}

func TestSilentRefreshAndRetry(t *testing.T) {
	ctx := context.Background()
	api, _, s, store := newTestSession(t)

	u, err := s.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Zero(t, api.refreshHits)

	// server stops honoring the outstanding access token
	api.expireAccess()

	u, err = s.Me(ctx)
	require.NoError(t, err, "a 401 must be absorbed by one refresh and retry")
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, 1, api.refreshHits, "exactly one refresh round trip")
	assert.Equal(t, 3, api.meHits, "first call, the 401, and the retry")

	// the rotated pair reached the store
	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "access-2", saved.AccessToken)
	assert.Equal(t, "refresh-2", saved.RefreshToken)
	assert.Equal(t, saved, s.Tokens())
}

func TestRefreshRejectedExpiresSession(t *testing.T) {
	ctx := context.Background()
	api, _, s, store := newTestSession(t)

	api.expireAccess()
	api.refreshOK = false

	_, err := s.Me(ctx)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 1, api.refreshHits)

	// stored tokens are gone so the next start goes to login
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoTokens)
	assert.Empty(t, s.Tokens().AccessToken)

	// no second refresh attempt without a refresh token
	_, err = s.Me(ctx)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 1, api.refreshHits)
}

func TestSecondUnauthorizedSurfaces(t *testing.T) {
	ctx := context.Background()
	api, _, s, _ := newTestSession(t)

	// refresh succeeds but grants a pair the server will not accept, so the
	// retry gets another 401 and the failure surfaces
	api.expireAccess()
	api.refreshGrantsStale = true

	var apiErr *APIError
	_, err := s.Me(ctx)
	if assert.ErrorAs(t, err, &apiErr) {
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "Authentication failed", apiErr.Title)
	}
	assert.Equal(t, 1, api.refreshHits, "no second refresh after the retry fails")
}

func TestResumeFromStore(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	store := &MemTokenStore{}
	require.NoError(t, store.Save(Tokens{AccessToken: "access-1", RefreshToken: "refresh-1"}))

	client := NewClientWithStore(srv.URL, store)
	s, u, err := client.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, "access-1", s.Tokens().AccessToken)
}

func TestResumeWithEmptyStore(t *testing.T) {
	api := newFakeAPI()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client := NewClientWithStore(srv.URL, &MemTokenStore{})
	_, _, err := client.Resume(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, api.meHits, "no request without stored tokens")
}

func TestResumeWithDeadTokensClearsStore(t *testing.T) {
	api := newFakeAPI()
	api.refreshOK = false
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	store := &MemTokenStore{}
	require.NoError(t, store.Save(Tokens{AccessToken: "stale", RefreshToken: "stale"}))

	client := NewClientWithStore(srv.URL, store)
	_, _, err := client.Resume(context.Background())
	require.Error(t, err)

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoTokens)
}

func TestLogoutClearsStateEvenWhenServerUnreachable(t *testing.T) {
	ctx := context.Background()
	_, client, s, store := newTestSession(t)

	// point the client at a closed port
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	client.BaseURL = dead.URL

	require.NoError(t, s.Logout(ctx))
	assert.Empty(t, s.Tokens().AccessToken)
	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoTokens)
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	store := &FileTokenStore{Path: filepath.Join(t.TempDir(), "jobtrack", "tokens.json")}

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoTokens)

	want := Tokens{AccessToken: "a", RefreshToken: "r"}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, store.Clear())
	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoTokens)
	assert.NoError(t, store.Clear(), "clearing twice is fine")
}
