package schema

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/searchsync/internal/domain"
)

// Type is an indexed object type: a node in a single-rooted hierarchy
// carrying its own search field declarations.
type Type struct {
	namespace string
	name      string
	parent    *Type
	fields    []Field
}

// NewType validates and creates a Type. Every field is bound to the new type.
// Field names must be unique within the type.
func NewType(namespace, name string, parent *Type, fields ...Field) (*Type, error) {
	if namespace == "" || name == "" {
		return nil, fmt.Errorf("%w: type namespace and name are required", domain.ErrInvalidSchema)
	}
	if strings.Contains(namespace, "__") || strings.Contains(name, "__") {
		return nil, fmt.Errorf("%w: type %s.%s: names must not contain %q",
			domain.ErrInvalidSchema, namespace, name, "__")
	}
	if strings.ContainsAny(namespace+name, ".:") {
		return nil, fmt.Errorf("%w: type %s.%s: names must not contain '.' or ':'",
			domain.ErrInvalidSchema, namespace, name)
	}

	t := &Type{namespace: namespace, name: name, parent: parent}
	seen := make(map[string]bool, len(fields))
	t.fields = make([]Field, 0, len(fields))
	for _, f := range fields {
		if err := f.validate(); err != nil {
			return nil, fmt.Errorf("%w: type %s: %w", domain.ErrInvalidSchema, t.QualifiedName(), err)
		}
		if seen[f.name] {
			return nil, fmt.Errorf("%w: type %s: duplicate field %q",
				domain.ErrInvalidSchema, t.QualifiedName(), f.name)
		}
		seen[f.name] = true
		f.owner = t
		t.fields = append(t.fields, f)
	}
	return t, nil
}

// MustType is NewType that panics on error. For package-level declarations.
func MustType(namespace, name string, parent *Type, fields ...Field) *Type {
	t, err := NewType(namespace, name, parent, fields...)
	if err != nil {
		panic(err)
	}
	return t
}

// Namespace returns the application label.
func (t *Type) Namespace() string { return t.namespace }

// Name returns the object type name.
func (t *Type) Name() string { return t.name }

// Parent returns the parent type, nil for a root.
func (t *Type) Parent() *Type { return t.parent }

// QualifiedName returns "<namespace>.<name>".
func (t *Type) QualifiedName() string { return t.namespace + "." + t.name }

// Key returns the document sub-object key "<namespace>__<name>".
func (t *Type) Key() string { return t.namespace + "__" + t.name }

func (t *Type) String() string { return t.QualifiedName() }

// Fields returns the descriptors declared directly on t.
func (t *Type) Fields() []Field {
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// Ancestors returns the chain from the root down to t's parent.
func (t *Type) Ancestors() []*Type {
	var chain []*Type
	for p := t.parent; p != nil; p = p.parent {
		chain = append(chain, p)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// SearchFields returns inherited descriptors (root-most first) followed by own.
func (t *Type) SearchFields() []Field {
	var out []Field
	for _, a := range t.Ancestors() {
		out = append(out, a.fields...)
	}
	return append(out, t.fields...)
}

// FilterFields returns the filter fields declared directly on t.
func (t *Type) FilterFields() []Field {
	var out []Field
	for _, f := range t.fields {
		if f.kind == Filter {
			out = append(out, f)
		}
	}
	return out
}

// FilterField finds a filter field by name among SearchFields.
func (t *Type) FilterField(name string) (Field, bool) {
	for _, f := range t.SearchFields() {
		if f.kind == Filter && f.name == name {
			return f, true
		}
	}
	return Field{}, false
}

// IsSubtypeOf reports whether t is other or descends from it.
func (t *Type) IsSubtypeOf(other *Type) bool {
	if other == nil {
		return false
	}
	for c := t; c != nil; c = c.parent {
		if c == other {
			return true
		}
	}
	return false
}
