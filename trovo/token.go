package trovo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned by TokenStore.Load when nothing was saved yet
var ErrNoToken = errors.New("trovo: no token stored")

// TokenStore persists the open platform token as JSON in a single file
type TokenStore struct {
	Path string

	mu sync.Mutex
}

// NewTokenStore returns a store backed by path, "trovo.json" when empty
func NewTokenStore(path string) *TokenStore {
	if path == "" {
		path = "trovo.json"
	}
	return &TokenStore{Path: path}
}

// Load reads the stored token
func (s *TokenStore) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("decode token %s: %w", s.Path, err)
	}
	if token.AccessToken == "" {
		return nil, ErrNoToken
	}

	return &token, nil
}

// Save writes the token, readable by the owner only
func (s *TokenStore) Save(token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), filepath.Base(s.Path)+".*")
	if err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write token: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("write token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write token: %w", err)
	}

	return os.Rename(tmp.Name(), s.Path)
}
