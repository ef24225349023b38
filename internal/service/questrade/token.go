package questrade

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrTokenExpired is returned when a stored access token is past its expiry.
var ErrTokenExpired = errors.New("questrade: access token expired")

// Token is the OAuth token set returned by the login server. It is persisted
// to the token file after every exchange because the refresh token is
// single use.
type Token struct {
	AccessToken  string    `json:"access_token" yaml:"access_token"`
	TokenType    string    `json:"token_type" yaml:"token_type"`
	ExpiresIn    int       `json:"expires_in" yaml:"expires_in"`
	RefreshToken string    `json:"refresh_token" yaml:"refresh_token"`
	APIServer    string    `json:"api_server" yaml:"api_server"`
	ExpiresAt    time.Time `json:"-" yaml:"expires_at,omitempty"`
}

// Expired reports whether the access token is no longer usable at now.
// Tokens without a recorded expiry are assumed valid.
func (t *Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

func (t *Token) validate() error {
	switch {
	case t.AccessToken == "":
		return errors.New("token has no access_token")
	case t.RefreshToken == "":
		return errors.New("token has no refresh_token")
	case t.APIServer == "":
		return errors.New("token has no api_server")
	}
	return nil
}

// LoadToken reads a token file.
func LoadToken(path string) (*Token, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var t Token
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("token file %s: %w", path, err)
	}
	return &t, nil
}

// SaveToken writes the token file with owner-only permissions. The file is
// replaced atomically so a crash never leaves a half-written refresh token.
func SaveToken(path string, t *Token) error {
	b, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".token-*.yaml")
	if err != nil {
		return fmt.Errorf("create token file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod token file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}
