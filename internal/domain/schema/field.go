package schema

import "fmt"

// Kind is the category of a search field descriptor.
type Kind int

// Field kinds.
const (
	// Text is a full-text searchable field.
	Text Kind = iota + 1
	// Autocomplete is a prefix-searchable field.
	Autocomplete
	// Filter is a field usable for filtering and faceting.
	Filter
	// Related groups nested descriptors evaluated against a related object.
	Related
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Autocomplete:
		return "autocomplete"
	case Filter:
		return "filter"
	case Related:
		return "related"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "text":
		return Text, nil
	case "autocomplete":
		return Autocomplete, nil
	case "filter":
		return Filter, nil
	case "related":
		return Related, nil
	default:
		return 0, fmt.Errorf("unknown field kind %q", s)
	}
}

// Extractor reads a field value from an object.
type Extractor func(obj any) any

// Field is an immutable search field descriptor.
// Its owner is the type that declares it, bound by NewType.
type Field struct {
	name   string
	kind   Kind
	get    Extractor
	nested []Field
	owner  *Type
}

// NewText declares a full-text field. A nil extractor falls back to Lookup.
func NewText(name string, get Extractor) Field {
	return Field{name: name, kind: Text, get: get}
}

// NewAutocomplete declares a prefix-searchable field.
func NewAutocomplete(name string, get Extractor) Field {
	return Field{name: name, kind: Autocomplete, get: get}
}

// NewFilter declares a filter field.
func NewFilter(name string, get Extractor) Field {
	return Field{name: name, kind: Filter, get: get}
}

// NewRelated declares a group of fields evaluated against the related
// object (or each member of a related collection).
func NewRelated(name string, get Extractor, nested ...Field) Field {
	return Field{name: name, kind: Related, get: get, nested: append([]Field(nil), nested...)}
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// Kind returns the field kind.
func (f Field) Kind() Kind { return f.kind }

// Owner returns the declaring type, nil for nested fields.
func (f Field) Owner() *Type { return f.owner }

// Nested returns a copy of the nested descriptors of a related field.
func (f Field) Nested() []Field {
	if len(f.nested) == 0 {
		return nil
	}
	out := make([]Field, len(f.nested))
	copy(out, f.nested)
	return out
}

// Value extracts the raw field value from obj.
func (f Field) Value(obj any) any {
	if f.get != nil {
		return f.get(obj)
	}
	return Lookup(obj, f.name)
}

func (f Field) validate() error {
	if f.name == "" {
		return fmt.Errorf("field name is required")
	}
	switch f.kind {
	case Text, Autocomplete, Filter:
		if len(f.nested) > 0 {
			return fmt.Errorf("field %q: only related fields may nest", f.name)
		}
	case Related:
		seen := make(map[string]bool, len(f.nested))
		for _, n := range f.nested {
			if err := n.validate(); err != nil {
				return fmt.Errorf("related field %q: %w", f.name, err)
			}
			if seen[n.name] {
				return fmt.Errorf("related field %q: duplicate nested field %q", f.name, n.name)
			}
			seen[n.name] = true
		}
	default:
		return fmt.Errorf("field %q: invalid kind %d", f.name, int(f.kind))
	}
	return nil
}

// Attributes is implemented by objects that expose field values by name.
type Attributes interface {
	SearchValue(name string) (any, bool)
}

// Lookup reads a named value from obj. It understands Attributes
// and map[string]any; anything else yields nil.
func Lookup(obj any, name string) any {
	switch o := obj.(type) {
	case nil:
		return nil
	case Attributes:
		v, _ := o.SearchValue(name)
		return v
	case map[string]any:
		return o[name]
	}
	return nil
}
