package postgres

import (
	"fmt"

	"github.com/kailas-cloud/searchsync/internal/domain/schema"
)

// Row is one loaded object. Field values are keyed by field name.
type Row struct {
	typ    *schema.Type
	id     string
	locale string
	root   bool
	values map[string]any
}

func newRow(t *schema.Type, fields []schema.Field, vals []any) *Row {
	r := &Row{typ: t, values: make(map[string]any, len(fields))}
	if len(vals) > 0 {
		r.id = text(vals[0])
	}
	if len(vals) > 1 {
		r.locale = text(vals[1])
	}
	if len(vals) > 2 {
		r.root, _ = vals[2].(bool)
	}
	for i, f := range fields {
		if i+3 < len(vals) {
			r.values[f.Name()] = vals[i+3]
		}
	}
	return r
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}

// SearchID returns the primary key as text.
func (r *Row) SearchID() string { return r.id }

// SearchType returns the mapped type.
func (r *Row) SearchType() *schema.Type { return r.typ }

// SearchLocale returns the locale code, empty when the table has none.
func (r *Row) SearchLocale() string { return r.locale }

// IsRoot reports whether the row matched the table's root condition.
func (r *Row) IsRoot() bool { return r.root }

// SearchValue returns a field value.
func (r *Row) SearchValue(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}
