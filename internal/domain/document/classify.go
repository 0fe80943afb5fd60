package document

import (
	"iter"
	"reflect"

	"github.com/kailas-cloud/searchsync/internal/domain/schema"
)

// Classify turns one descriptor and one object into (descriptor, prepared value)
// pairs. The sequence is restartable: ranging again re-extracts the value.
func Classify(f schema.Field, obj any) iter.Seq2[schema.Field, any] {
	return func(yield func(schema.Field, any) bool) {
		switch f.Kind() {
		case schema.Text, schema.Autocomplete:
			yield(f, f.Value(obj))
		case schema.Filter:
			yield(f, FilterValue(f.Value(obj)))
		case schema.Related:
			yield(f, related(f, f.Value(obj)))
		}
	}
}

// FilterValue normalizes a raw filter value: related objects become their
// ids, collections become lists of ids, anything else passes through.
func FilterValue(v any) any {
	if isNil(v) {
		return nil
	}
	switch x := v.(type) {
	case schema.Relation:
		return idsOf(x.Members())
	case schema.Object:
		return x.SearchID()
	}
	if elems, ok := sliceElems(v); ok {
		return idsOf(elems)
	}
	return v
}

func idsOf(members []any) []any {
	out := make([]any, 0, len(members))
	for _, m := range members {
		if o, ok := m.(schema.Object); ok {
			out = append(out, o.SearchID())
			continue
		}
		out = append(out, m)
	}
	return out
}

func related(f schema.Field, v any) any {
	if isNil(v) {
		return nil
	}
	if members, ok := multi(v); ok {
		out := make([]map[string]any, 0, len(members))
		for _, m := range members {
			out = append(out, flatten(f.Nested(), m))
		}
		return out
	}
	v = invoke(v)
	if isNil(v) {
		return nil
	}
	return flatten(f.Nested(), v)
}

func flatten(fields []schema.Field, obj any) map[string]any {
	out := make(map[string]any, len(fields))
	for _, sub := range fields {
		for pf, val := range Classify(sub, obj) {
			out[pf.Name()] = val
		}
	}
	return out
}

// multi reports whether a related value has members. A nil slice is a
// relation with no members.
func multi(v any) ([]any, bool) {
	if r, ok := v.(schema.Relation); ok {
		return r.Members(), true
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Slice && rv.IsNil() && rv.Type().Elem().Kind() != reflect.Uint8 {
		return []any{}, true
	}
	return sliceElems(v)
}

// sliceElems unpacks slices and arrays, except byte slices.
func sliceElems(v any) ([]any, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() || rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, false
		}
	case reflect.Array:
	default:
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// invoke calls zero-argument accessors such as `func() *Author`.
func invoke(v any) any {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return v
	}
	ft := rv.Type()
	if ft.NumIn() != 0 || ft.NumOut() == 0 {
		return v
	}
	return rv.Call(nil)[0].Interface()
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Func:
		return rv.IsNil()
	}
	return false
}
