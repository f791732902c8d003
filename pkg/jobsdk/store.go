package jobsdk

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Tokens is the persisted access/refresh token pair.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// ErrNoTokens is returned by Load when nothing has been saved yet.
var ErrNoTokens = errors.New("no stored tokens")

// TokenStore persists the token pair across process restarts.
type TokenStore interface {
	Load() (Tokens, error)
	Save(t Tokens) error
	Clear() error
}

// FileTokenStore keeps the token pair as JSON in the user config directory.
type FileTokenStore struct {
	Path string
}

// NewFileTokenStore places the token file under the platform config dir,
// e.g. ~/.config/jobtrack/tokens.json on Linux.
func NewFileTokenStore() (*FileTokenStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &FileTokenStore{Path: filepath.Join(dir, "jobtrack", "tokens.json")}, nil
}

func (s *FileTokenStore) Load() (Tokens, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Tokens{}, ErrNoTokens
		}
		return Tokens{}, err
	}
	var t Tokens
	if err := json.Unmarshal(b, &t); err != nil {
		return Tokens{}, err
	}
	if t.AccessToken == "" && t.RefreshToken == "" {
		return Tokens{}, ErrNoTokens
	}
	return t, nil
}

func (s *FileTokenStore) Save(t Tokens) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	// 0600: tokens grant full account access
	return os.WriteFile(s.Path, b, 0o600)
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemTokenStore is an in-memory TokenStore for tests and short-lived tools.
type MemTokenStore struct {
	tokens Tokens
	set    bool
}

func (s *MemTokenStore) Load() (Tokens, error) {
	if !s.set {
		return Tokens{}, ErrNoTokens
	}
	return s.tokens, nil
}

func (s *MemTokenStore) Save(t Tokens) error {
	s.tokens, s.set = t, true
	return nil
}

func (s *MemTokenStore) Clear() error {
	s.tokens, s.set = Tokens{}, false
	return nil
}
