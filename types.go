package searchsync

import (
	"context"

	"github.com/kailas-cloud/searchsync/internal/domain/document"
	"github.com/kailas-cloud/searchsync/internal/domain/engine"
	"github.com/kailas-cloud/searchsync/internal/domain/schema"
	"github.com/kailas-cloud/searchsync/internal/domain/search/facet"
	"github.com/kailas-cloud/searchsync/internal/domain/search/query"
	"github.com/kailas-cloud/searchsync/internal/domain/settings"
	searchuc "github.com/kailas-cloud/searchsync/internal/usecase/search"
)

// Schema model.
type (
	Type       = schema.Type
	Field      = schema.Field
	Kind       = schema.Kind
	Extractor  = schema.Extractor
	Registry   = schema.Registry
	Collection = schema.Collection
)

// Field kinds.
const (
	Text         = schema.Text
	Autocomplete = schema.Autocomplete
	Filter       = schema.Filter
	Related      = schema.Related
)

// Host object contracts.
type (
	Object     = schema.Object
	Instance   = schema.Instance
	Localized  = schema.Localized
	Rooted     = schema.Rooted
	Relation   = schema.Relation
	Attributes = schema.Attributes
)

// Members adapts a slice to Relation.
type Members[T any] = schema.Members[T]

// Index-side values.
type (
	Document   = document.Document
	Settings   = settings.Settings
	Params     = query.Params
	Response   = query.Response
	Hit        = query.Hit
	FacetCount = facet.Count
	Results    = searchuc.Results
)

// Transport is the client of a hosted search index.
type Transport = engine.Transport

// ObjectStore loads host objects by id, honoring the collection predicate
// and the order of ids.
type ObjectStore = searchuc.ObjectStore

// Enumerator lists every instance whose most specific type is t.
// Stores implementing it can drive Backend.Rebuild.
type Enumerator interface {
	All(ctx context.Context, t *Type) ([]Instance, error)
}

// NewType declares an indexed type. parent is nil for a hierarchy root.
func NewType(namespace, name string, parent *Type, fields ...Field) (*Type, error) {
	return schema.NewType(namespace, name, parent, fields...)
}

// MustType is like NewType but panics on error.
func MustType(namespace, name string, parent *Type, fields ...Field) *Type {
	return schema.MustType(namespace, name, parent, fields...)
}

// NewRegistry registers types for index settings and hit resolution.
func NewRegistry(types ...*Type) (*Registry, error) {
	return schema.NewRegistry(types...)
}

// NewText declares a full-text field. A nil extractor reads Attributes or map keys.
func NewText(name string, get Extractor) Field { return schema.NewText(name, get) }

// NewAutocomplete declares a prefix-searchable field.
func NewAutocomplete(name string, get Extractor) Field { return schema.NewAutocomplete(name, get) }

// NewFilter declares a filterable, facetable field.
func NewFilter(name string, get Extractor) Field { return schema.NewFilter(name, get) }

// NewRelated declares a group of fields evaluated against a related object.
func NewRelated(name string, get Extractor, nested ...Field) Field {
	return schema.NewRelated(name, get, nested...)
}

// All is the unfiltered collection of t and its subtypes.
func All(t *Type) Collection { return schema.All(t) }

// ObjectID returns the index identifier of inst.
func ObjectID(inst Instance) string { return document.ObjectID(inst) }

// BuildDocument renders inst as an index document.
func BuildDocument(inst Instance) Document { return document.Build(inst) }
