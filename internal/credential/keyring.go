package credential

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/99designs/keyring"
)

const serviceName = "opportune"

const (
	KeyToken        = "gmail-token"
	KeyIMAPPassword = "imap-password"
)

const (
	EnvToken        = "OPPORTUNE_TOKEN"
	EnvIMAPPassword = "OPPORTUNE_IMAP_PASSWORD"
)

var (
	ErrNoToken        = errors.New("no access token configured (use --token, OPPORTUNE_TOKEN or `opportune auth set-token`)")
	ErrNoIMAPPassword = errors.New("no IMAP password configured (use OPPORTUNE_IMAP_PASSWORD or `opportune auth set-imap-password`)")
)

// Origin names where a resolved secret came from.
type Origin string

const (
	OriginFlag    Origin = "flag"
	OriginEnv     Origin = "env"
	OriginKeyring Origin = "keyring"
)

// Store reads and writes secrets in the OS keyring.
type Store struct {
	ring   keyring.Keyring
	getenv func(string) string
}

// Open returns a Store backed by the platform keyring, falling back to an
// encrypted file under configDir.
func Open(configDir string) (*Store, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(configDir, "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt("opportune-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return NewStore(ring), nil
}

func NewStore(ring keyring.Keyring) *Store {
	return &Store{ring: ring, getenv: os.Getenv}
}

// Get returns the stored value, or "" when key is not set.
func (s *Store) Get(key string) (string, error) {
	item, err := s.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}
	return string(item.Data), nil
}

func (s *Store) Set(key string, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("credential %q is empty", key)
	}
	err := s.ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: serviceName + " " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if err := s.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}

// Token resolves the Gmail bearer token: flag, then env, then keyring.
func (s *Store) Token(flagValue string) (string, Origin, error) {
	return s.resolve(KeyToken, flagValue, EnvToken, ErrNoToken)
}

// IMAPPassword resolves the IMAP password: flag, then env, then keyring.
func (s *Store) IMAPPassword(flagValue string) (string, Origin, error) {
	return s.resolve(KeyIMAPPassword, flagValue, EnvIMAPPassword, ErrNoIMAPPassword)
}

func (s *Store) resolve(key, flagValue, envKey string, missing error) (string, Origin, error) {
	if value := strings.TrimSpace(flagValue); value != "" {
		return value, OriginFlag, nil
	}

	getenv := os.Getenv
	if s != nil && s.getenv != nil {
		getenv = s.getenv
	}
	if value := strings.TrimSpace(getenv(envKey)); value != "" {
		return value, OriginEnv, nil
	}

	if s == nil || s.ring == nil {
		return "", "", missing
	}
	value, err := s.Get(key)
	if err != nil {
		return "", "", err
	}
	if value == "" {
		return "", "", missing
	}
	return value, OriginKeyring, nil
}
