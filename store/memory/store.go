// Package memory is an in-process object store for tests, examples and
// small sites that keep their content in memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/searchsync/internal/domain/schema"
)

// Predicate filters instances of a collection.
type Predicate func(schema.Instance) bool

type key struct {
	root *schema.Type
	id   string
}

// Store keeps instances keyed by hierarchy root and id. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	items map[key]schema.Instance
	order []key
}

// New creates a store holding insts.
func New(insts ...schema.Instance) *Store {
	s := &Store{items: make(map[key]schema.Instance)}
	s.Put(insts...)
	return s
}

func keyOf(t *schema.Type, id string) key {
	root := t
	for root.Parent() != nil {
		root = root.Parent()
	}
	return key{root: root, id: id}
}

// Put adds or replaces instances.
func (s *Store) Put(insts ...schema.Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inst := range insts {
		k := keyOf(inst.SearchType(), inst.SearchID())
		if _, ok := s.items[k]; !ok {
			s.order = append(s.order, k)
		}
		s.items[k] = inst
	}
}

// Remove deletes an instance.
func (s *Store) Remove(inst schema.Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := keyOf(inst.SearchType(), inst.SearchID())
	if _, ok := s.items[k]; !ok {
		return
	}
	delete(s.items, k)
	for i, o := range s.order {
		if o == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// FetchOrdered returns the instances of c with the given ids, in id order.
// c.Predicate must be nil, a Predicate or a func(schema.Instance) bool.
func (s *Store) FetchOrdered(_ context.Context, c schema.Collection, ids []string) ([]schema.Instance, error) {
	pred, err := predicateOf(c.Predicate)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]schema.Instance, 0, len(ids))
	for _, id := range ids {
		inst, ok := s.items[keyOf(c.Type, id)]
		if !ok || !inst.SearchType().IsSubtypeOf(c.Type) {
			continue
		}
		if pred != nil && !pred(inst) {
			continue
		}
		out = append(out, inst)
	}
	return out, nil
}

// All returns the instances whose most specific type is t, in insertion order.
func (s *Store) All(_ context.Context, t *schema.Type) ([]schema.Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []schema.Instance
	for _, k := range s.order {
		if inst := s.items[k]; inst.SearchType() == t {
			out = append(out, inst)
		}
	}
	return out, nil
}

// Len returns the number of stored instances.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func predicateOf(p any) (Predicate, error) {
	switch f := p.(type) {
	case nil:
		return nil, nil
	case Predicate:
		return f, nil
	case func(schema.Instance) bool:
		return f, nil
	default:
		return nil, fmt.Errorf("memory store: unsupported predicate %T", p)
	}
}
