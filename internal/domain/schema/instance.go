package schema

// Object is anything with a search identity. Related objects referenced
// from filter fields implement it so they serialize as their id.
type Object interface {
	SearchID() string
}

// Instance is an indexable object of a registered type.
type Instance interface {
	Object
	SearchType() *Type
}

// Localized is implemented by instances that belong to a locale.
// An empty code means no locale.
type Localized interface {
	SearchLocale() string
}

// Rooted is implemented by instances that may be the hierarchy root
// sentinel, which is never indexed.
type Rooted interface {
	IsRoot() bool
}

// Relation is a multi-valued relation (a related manager).
type Relation interface {
	Members() []any
}

// Members adapts a slice of any element type into a Relation.
type Members[T any] []T

// Members implements Relation.
func (m Members[T]) Members() []any {
	out := make([]any, len(m))
	for i, v := range m {
		out[i] = v
	}
	return out
}

// Collection is a query scope: a type plus a host predicate the core never inspects.
type Collection struct {
	Type      *Type
	Predicate any
}

// All returns a collection of every instance of t.
func All(t *Type) Collection { return Collection{Type: t} }
