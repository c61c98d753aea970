package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when the store has no value for a key
	ErrNotFound = errors.New("secret not found")
	// ErrStoreMissing is returned when the backing store does not exist at all
	ErrStoreMissing = errors.New("secrets store not found")
)

// Store is a read-only source of named secrets
type Store interface {
	Get(key string) (string, error)
}

// FileStore reads secrets from a flat YAML document:
//
//	GROQ_API_KEY: gsk_...
//	OPENAI_API_KEY: sk-...
//
// The file is read on every lookup so rotated keys are picked up without a restart.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file backing the store
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Get(key string) (string, error) {
	if s.path == "" {
		return "", ErrStoreMissing
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrStoreMissing
		}
		return "", fmt.Errorf("read secrets file %s: %w", s.path, err)
	}

	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return "", fmt.Errorf("parse secrets file %s: %w", s.path, err)
	}

	value, ok := values[key]
	if !ok || value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

// MapStore is an in-memory Store
type MapStore map[string]string

func (m MapStore) Get(key string) (string, error) {
	if m == nil {
		return "", ErrStoreMissing
	}
	value, ok := m[key]
	if !ok || value == "" {
		return "", ErrNotFound
	}
	return value, nil
}
