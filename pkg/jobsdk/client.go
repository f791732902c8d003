// Package jobsdk is a Go client for the jobtrack API. It keeps a durable
// token pair, attaches the bearer token to every request, and transparently
// refreshes the session once when the server answers 401.
package jobsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the unauthenticated auth endpoints and creates Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Store      TokenStore
}

// NewClient creates a client with a file-backed token store.
func NewClient(baseURL string) (*Client, error) {
	store, err := NewFileTokenStore()
	if err != nil {
		return nil, err
	}
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Store:      store,
	}, nil
}

// NewClientWithStore creates a client using the caller's token store.
func NewClientWithStore(baseURL string, store TokenStore) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Store:      store,
	}
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int    `json:"-"`
	Title   string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Title, e.Message)
	}
	return e.Title
}

// User is the public view of an account.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	Message      string `json:"message"`
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// Register creates an account and returns a live session.
func (c *Client) Register(ctx context.Context, email, password, name string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/register", map[string]string{
		"email": email, "password": password, "name": name,
	}, http.StatusCreated)
}

// Login authenticates and returns a live session. Any session previously
// active for this account is revoked server-side.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{
		"email": email, "password": password,
	}, http.StatusOK)
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]string, wantStatus int) (*Session, error) {
	var out authResponse
	if err := c.postJSON(ctx, path, body, wantStatus, &out); err != nil {
		return nil, err
	}
	tokens := Tokens{AccessToken: out.AccessToken, RefreshToken: out.RefreshToken}
	if c.Store != nil {
		if err := c.Store.Save(tokens); err != nil {
			return nil, fmt.Errorf("save tokens: %w", err)
		}
	}
	return &Session{client: c, tokens: tokens}, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, wantStatus int, target any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, wantStatus)
}

// decodeJSON reads the full body, turning non-expected statuses into *APIError.
func decodeJSON(resp *http.Response, target any, wantStatus int) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != wantStatus {
		return parseAPIError(resp.StatusCode, body)
	}
	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Title == "" {
		apiErr.Title = http.StatusText(status)
	}
	return apiErr
}
