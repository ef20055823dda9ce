package entity

import (
	"fmt"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/mageshb/persistent/schema"
)

// Registry caches derived operation bundles keyed by a fingerprint of
// the definition. Because derivation is pure and deterministic,
// structurally equal definitions share one bundle. A Registry is safe
// for concurrent use.
type Registry struct {
	mu  sync.RWMutex
	ops map[string]*Operations
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ops: make(map[string]*Operations)}
}

// Derive returns the operation bundle for the definition, deriving and
// caching it on first use.
func (r *Registry) Derive(def schema.Definition) (*Operations, error) {
	key, err := fingerprint(def)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	ops, ok := r.ops[key]
	r.mu.RUnlock()
	if ok {
		return ops, nil
	}
	ops, err = Derive(def)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	// Another goroutine may have derived the same definition; both
	// results are identical, keep the first.
	if cached, ok := r.ops[key]; ok {
		ops = cached
	} else {
		r.ops[key] = ops
	}
	r.mu.Unlock()
	return ops, nil
}

// Len returns the number of cached bundles.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ops)
}

// fingerprint computes a stable key for a definition. msgpack encoding
// preserves field order, so structurally equal definitions produce the
// same key.
func fingerprint(def schema.Definition) (string, error) {
	b, err := msgpack.Marshal(def)
	if err != nil {
		return "", fmt.Errorf("entity: fingerprint: %w", err)
	}
	return string(b), nil
}
