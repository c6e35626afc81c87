// Package credential keeps the content API key in the OS keyring.
package credential

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/99designs/keyring"
)

const (
	serviceName = "workspace-sim"

	// ContentAPIKey is the keyring entry holding the text-generation API key.
	ContentAPIKey = "content-api-key"

	// BackendEnv overrides the keyring backend, e.g. "file" on headless
	// machines without a secret service.
	BackendEnv = "WSIM_KEYRING_BACKEND"
)

// ErrNotStored is returned when no value exists for a key.
var ErrNotStored = errors.New("credential not stored")

var defaultBackends = []keyring.BackendType{
	keyring.KeychainBackend,
	keyring.SecretServiceBackend,
	keyring.WinCredBackend,
	keyring.PassBackend,
	keyring.FileBackend,
}

// open is swapped in tests for an in-memory keyring.
var open = openKeyring

func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:              serviceName,
		AllowedBackends:          backends(),
		FileDir:                  "~/.config/workspace-sim/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("workspace-sim-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

func backends() []keyring.BackendType {
	name := strings.TrimSpace(os.Getenv(BackendEnv))
	if name == "" {
		return defaultBackends
	}
	return []keyring.BackendType{keyring.BackendType(strings.ToLower(name))}
}

func notFound(err error) bool {
	return errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, fs.ErrNotExist)
}

// Get returns the value stored under key, or ErrNotStored.
func Get(key string) (string, error) {
	ring, err := open()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	switch {
	case notFound(err):
		return "", ErrNotStored
	case err != nil:
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	value := strings.TrimSpace(string(item.Data))
	if value == "" {
		return "", ErrNotStored
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func Set(key, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("setting credential %q: empty value", key)
	}

	ring, err := open()
	if err != nil {
		return err
	}

	if err := ring.Set(keyring.Item{
		Key:         key,
		Data:        []byte(value),
		Label:       serviceName + " " + key,
		Description: "API key used to generate workspace text",
	}); err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}
	return nil
}

// Delete removes key. It returns ErrNotStored when there was nothing
// to remove.
func Delete(key string) error {
	ring, err := open()
	if err != nil {
		return err
	}

	// not every backend reports a missing key on Remove
	if _, err := ring.Get(key); notFound(err) {
		return ErrNotStored
	}

	if err := ring.Remove(key); err != nil && !notFound(err) {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}
	return nil
}
