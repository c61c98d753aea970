package secrets

import (
	"errors"
	"os"

	"github.com/Conceptual-Machines/story-api/internal/logger"
)

// Source names where a credential was found
type Source string

const (
	SourceNone  Source = ""
	SourceStore Source = "secrets"
	SourceEnv   Source = "env"
)

// Resolver looks a credential up in the secrets store first and falls back to
// the process environment. A missing store counts as "not found".
type Resolver struct {
	store     Store
	lookupEnv func(string) (string, bool)
}

// NewResolver creates a resolver backed by store and os.LookupEnv
func NewResolver(store Store) *Resolver {
	return &Resolver{
		store:     store,
		lookupEnv: os.LookupEnv,
	}
}

// WithEnv replaces the environment lookup
func (r *Resolver) WithEnv(lookup func(string) (string, bool)) *Resolver {
	r.lookupEnv = lookup
	return r
}

// Resolve returns the credential stored under key
func (r *Resolver) Resolve(key string) (string, bool) {
	value, _, ok := r.Lookup(key)
	return value, ok
}

// Lookup is Resolve plus the source the value came from
func (r *Resolver) Lookup(key string) (string, Source, bool) {
	if r.store != nil {
		value, err := r.store.Get(key)
		switch {
		case err == nil:
			return value, SourceStore, true
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrStoreMissing):
		default:
			logger.Warn("Secrets store lookup failed, falling back to environment", logger.Fields{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	if r.lookupEnv != nil {
		if value, ok := r.lookupEnv(key); ok && value != "" {
			return value, SourceEnv, true
		}
	}

	return "", SourceNone, false
}

// Has reports whether key resolves from any source
func (r *Resolver) Has(key string) bool {
	_, ok := r.Resolve(key)
	return ok
}
