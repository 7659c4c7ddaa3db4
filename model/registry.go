package model

import (
	"fmt"
	"sync"

	"github.com/mickamy/basemodel/internal/naming"
	"github.com/mickamy/basemodel/orm"
)

// Registry resolves model names to mappers. Relationship hydration looks
// targets up here. A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	mappers map[string]*Mapper
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{mappers: make(map[string]*Mapper)}
}

// Register makes m available under name. A later registration under the
// same name replaces the earlier one.
func (r *Registry) Register(name string, m *Mapper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappers[name] = m
}

// Lookup returns the mapper registered under name.
func (r *Registry) Lookup(name string) (*Mapper, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: %q (no registry)", ErrUnknownModel, name)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mappers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
	return m, nil
}

// New builds a Mapper bound to this registry and registers it under its
// model name ("BookModel" registers as "book").
func (r *Registry) New(db orm.Querier, name string, opts ...Option) *Mapper {
	m := New(db, name, append([]Option{WithRegistry(r)}, opts...)...)
	r.Register(naming.ModelName(name), m)
	return m
}
