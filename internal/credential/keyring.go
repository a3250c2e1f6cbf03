// Package credential keeps the mail API bearer token in the OS keyring so
// it never lands in the config file.
package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const (
	serviceName = "mailpane"
	tokenKey    = "api-token"
	tokenLabel  = "mailpane API token"
)

// TokenStore reads and writes the API token. The keyring is opened per
// call so a locked or missing backend only fails the call that needs it.
type TokenStore struct {
	open func() (keyring.Keyring, error)
}

// NewTokenStore returns a store backed by the first available OS keyring,
// falling back to an encrypted file under ~/.config/mailpane.
func NewTokenStore() *TokenStore {
	return &TokenStore{open: openSystemKeyring}
}

// NewTokenStoreWith returns a store backed by ring.
func NewTokenStoreWith(ring keyring.Keyring) *TokenStore {
	return &TokenStore{open: func() (keyring.Keyring, error) { return ring, nil }}
}

func openSystemKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/mailpane/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("mailpane-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Token returns the stored API token. A missing entry is reported as
// ErrNoToken.
func (s *TokenStore) Token() (string, error) {
	ring, err := s.open()
	if err != nil {
		return "", err
	}
	item, err := ring.Get(tokenKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("reading API token: %w", err)
	}
	return string(item.Data), nil
}

// SaveToken replaces the stored API token. An empty token clears it.
func (s *TokenStore) SaveToken(token string) error {
	if token == "" {
		return s.ClearToken()
	}
	ring, err := s.open()
	if err != nil {
		return err
	}
	if err := ring.Set(keyring.Item{Key: tokenKey, Data: []byte(token), Label: tokenLabel}); err != nil {
		return fmt.Errorf("saving API token: %w", err)
	}
	return nil
}

// ClearToken removes the stored API token. Clearing when none is stored
// succeeds.
func (s *TokenStore) ClearToken() error {
	ring, err := s.open()
	if err != nil {
		return err
	}
	if err := ring.Remove(tokenKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("clearing API token: %w", err)
	}
	return nil
}

// ErrNoToken means no API token has been saved.
var ErrNoToken = errors.New("no API token stored")
