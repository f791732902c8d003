package jobsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// ErrSessionExpired means the refresh token was rejected (or absent); the
// stored tokens have been cleared and the user must log in again.
var ErrSessionExpired = errors.New("session expired, log in again")

// Session is an authenticated connection to the API. Every request carries
// the bearer access token; a 401 triggers exactly one silent refresh and one
// retry before the failure is surfaced.
type Session struct {
	client *Client

	mu     sync.Mutex
	tokens Tokens
}

// Resume rebuilds a session from the token store and verifies it against
// /api/auth/me. Any failure clears the store so the next start goes straight
// to login.
func (c *Client) Resume(ctx context.Context) (*Session, *User, error) {
	if c.Store == nil {
		return nil, nil, ErrSessionExpired
	}
	tokens, err := c.Store.Load()
	if err != nil {
		_ = c.Store.Clear()
		return nil, nil, ErrSessionExpired
	}
	s := &Session{client: c, tokens: tokens}
	u, err := s.Me(ctx)
	if err != nil {
		_ = c.Store.Clear()
		return nil, nil, err
	}
	return s, u, nil
}

// Tokens returns a copy of the current token pair.
func (s *Session) Tokens() Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

// Me fetches the account behind this session.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := s.do(ctx, http.MethodGet, "/api/auth/me", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateProfile changes the display name.
func (s *Session) UpdateProfile(ctx context.Context, name string) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	err := s.do(ctx, http.MethodPut, "/api/auth/profile", map[string]string{"name": name}, http.StatusOK, &out)
	if err != nil {
		return nil, err
	}
	return &out.User, nil
}

// ChangePassword verifies the current password and sets a new one.
func (s *Session) ChangePassword(ctx context.Context, current, newPassword string) error {
	return s.do(ctx, http.MethodPut, "/api/auth/password", map[string]string{
		"currentPassword": current,
		"newPassword":     newPassword,
	}, http.StatusOK, nil)
}

// Logout revokes the session server-side and clears the token store. It
// succeeds even when the server is unreachable; the local state is gone
// either way.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	access := s.tokens.AccessToken
	s.tokens = Tokens{}
	s.mu.Unlock()

	if s.client.Store != nil {
		_ = s.client.Store.Clear()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.url("/api/auth/logout"), nil)
	if err != nil {
		return err
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil
	}
	_ = resp.Body.Close()
	return nil
}

// do sends one authenticated request. On 401 it refreshes the token pair and
// retries once; a second 401 is returned as-is.
func (s *Session) do(ctx context.Context, method, path string, body any, wantStatus int, target any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
	}

	s.mu.Lock()
	access := s.tokens.AccessToken
	s.mu.Unlock()

	resp, err := s.send(ctx, method, path, payload, access)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return decodeJSON(resp, target, wantStatus)
	}
	_ = resp.Body.Close()

	access, err = s.refresh(ctx, access)
	if err != nil {
		return err
	}

	resp, err = s.send(ctx, method, path, payload, access)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, wantStatus)
}

func (s *Session) send(ctx context.Context, method, path string, payload []byte, access string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.client.url(path), body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+access)
	return s.client.HTTPClient.Do(req)
}

// refresh exchanges the refresh token for a new pair. staleAccess is the
// access token that just got a 401: if another goroutine already rotated the
// pair, the fresh token is returned without a second round trip. A rejected
// refresh clears the store and degrades to ErrSessionExpired.
func (s *Session) refresh(ctx context.Context, staleAccess string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tokens.AccessToken != staleAccess {
		return s.tokens.AccessToken, nil
	}
	if s.tokens.RefreshToken == "" {
		return "", ErrSessionExpired
	}

	var out struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	err := s.client.postJSON(ctx, "/api/auth/refresh-token", map[string]string{
		"refreshToken": s.tokens.RefreshToken,
	}, http.StatusOK, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			if s.client.Store != nil {
				_ = s.client.Store.Clear()
			}
			s.tokens = Tokens{}
			return "", ErrSessionExpired
		}
		return "", err
	}

	s.tokens = Tokens{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}
	if s.client.Store != nil {
		if err := s.client.Store.Save(s.tokens); err != nil {
			return "", fmt.Errorf("save tokens: %w", err)
		}
	}
	return s.tokens.AccessToken, nil
}
