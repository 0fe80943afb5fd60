package schema

import (
	"fmt"

	"github.com/kailas-cloud/searchsync/internal/domain"
)

// Registry is the read-only set of indexed types, in registration order.
type Registry struct {
	types  []*Type
	byName map[string]*Type
}

// NewRegistry validates and creates a Registry.
// Qualified names must be unique.
func NewRegistry(types ...*Type) (*Registry, error) {
	r := &Registry{
		types:  make([]*Type, 0, len(types)),
		byName: make(map[string]*Type, len(types)),
	}
	for _, t := range types {
		if t == nil {
			return nil, fmt.Errorf("%w: nil type", domain.ErrInvalidSchema)
		}
		name := t.QualifiedName()
		if _, ok := r.byName[name]; ok {
			return nil, fmt.Errorf("%w: duplicate type %s", domain.ErrInvalidSchema, name)
		}
		r.byName[name] = t
		r.types = append(r.types, t)
	}
	return r, nil
}

// Types returns the registered types in registration order.
func (r *Registry) Types() []*Type {
	out := make([]*Type, len(r.types))
	copy(out, r.types)
	return out
}

// Resolve maps a qualified name to its type.
func (r *Registry) Resolve(name string) (*Type, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, &domain.ResolutionError{Name: name}
	}
	return t, nil
}

// Len returns the number of registered types.
func (r *Registry) Len() int { return len(r.types) }
