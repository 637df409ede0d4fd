// Package credstore keeps the session cookie between CLI runs. Cookies are
// saved per API host in the OS keychain.
package credstore

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const service = "alumnet-cli"

// ErrNotAuthenticated is returned when no session is saved for a host
var ErrNotAuthenticated = errors.New("not authenticated. Please run 'alumnet login' first")

// Store defines the interface for session storage operations.
// This allows us to mock the keyring in tests.
type Store interface {
	Save(host, value string) error
	Load(host string) (string, error)
	Delete(host string) error
}

// keyringStore implements Store using the OS keyring
type keyringStore struct{}

// Default is the keyring-backed store
var Default Store = keyringStore{}

func keyFor(host string) string {
	return "session-" + host
}

// Save persists the session securely in the OS keychain/credential manager
func (keyringStore) Save(host, value string) error {
	if err := keyring.Set(service, keyFor(host), value); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load retrieves the session from the OS keychain/credential manager
func (keyringStore) Load(host string) (string, error) {
	value, err := keyring.Get(service, keyFor(host))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotAuthenticated
		}
		return "", fmt.Errorf("failed to load session: %w", err)
	}
	return value, nil
}

// Delete removes the session from the OS keychain/credential manager
func (keyringStore) Delete(host string) error {
	if err := keyring.Delete(service, keyFor(host)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
