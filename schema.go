package searchsync

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/kailas-cloud/searchsync/internal/domain/schema"
)

const tagKey = "search"

// FieldsOf builds field descriptors from `search:"name,kind"` struct tags on T.
// kind is one of text, autocomplete, filter or related. Related fields
// recurse into the tags of their element struct type. Unexported fields are
// ignored. Promoted fields of embedded structs are included unless the
// embedded field is tagged `search:"-"`, which is how a child type embeds
// the struct of its parent type.
func FieldsOf[T any]() ([]Field, error) {
	var zero T
	return fieldsOf(reflect.TypeOf(&zero).Elem(), map[reflect.Type]bool{})
}

// MustFieldsOf is like FieldsOf but panics on error.
func MustFieldsOf[T any]() []Field {
	fields, err := FieldsOf[T]()
	if err != nil {
		panic(err)
	}
	return fields
}

// TypeOf declares an indexed type whose own fields come from T's tags.
// Promoted fields named like a field of an ancestor are inherited, not
// redeclared, so T may embed its parent's struct without a `search:"-"` tag.
func TypeOf[T any](namespace, name string, parent *Type) (*Type, error) {
	var zero T
	fields, err := ownFields(reflect.TypeOf(&zero).Elem(), parent)
	if err != nil {
		return nil, err
	}
	return schema.NewType(namespace, name, parent, fields...)
}

func ownFields(t reflect.Type, parent *Type) ([]Field, error) {
	fields, promoted, err := collectFields(t, map[reflect.Type]bool{})
	if err != nil || parent == nil {
		return fields, err
	}
	inherited := make(map[string]bool)
	for _, f := range parent.SearchFields() {
		inherited[f.Name()] = true
	}
	own := fields[:0]
	for i, f := range fields {
		if promoted[i] && inherited[f.Name()] {
			continue
		}
		own = append(own, f)
	}
	return own, nil
}

func fieldsOf(t reflect.Type, visiting map[reflect.Type]bool) ([]Field, error) {
	fields, _, err := collectFields(t, visiting)
	return fields, err
}

// collectFields returns the tagged fields of t and, per field, whether it was
// promoted from an embedded struct.
func collectFields(t reflect.Type, visiting map[reflect.Type]bool) ([]Field, []bool, error) {
	t = structType(t)
	if t.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("searchsync: type %s is not a struct", t)
	}
	if visiting[t] {
		return nil, nil, fmt.Errorf("searchsync: related fields of %s form a cycle", t)
	}
	visiting[t] = true
	defer delete(visiting, t)

	var (
		fields   []Field
		promoted []bool
		skipped  [][]int
	)
	for _, sf := range reflect.VisibleFields(t) {
		if under(sf.Index, skipped) {
			continue
		}
		tag := sf.Tag.Get(tagKey)
		if sf.Anonymous {
			if tag == "-" {
				skipped = append(skipped, sf.Index)
			}
			continue
		}
		if !sf.IsExported() || tag == "" || tag == "-" {
			continue
		}
		f, err := fieldFromTag(t, sf, tag, visiting)
		if err != nil {
			return nil, nil, err
		}
		fields = append(fields, f)
		promoted = append(promoted, len(sf.Index) > 1)
	}
	return fields, promoted, nil
}

// under reports whether index lies inside one of the embedded fields at prefixes.
func under(index []int, prefixes [][]int) bool {
	for _, p := range prefixes {
		if len(index) > len(p) && slices.Equal(index[:len(p)], p) {
			return true
		}
	}
	return false
}

func fieldFromTag(owner reflect.Type, sf reflect.StructField, tag string, visiting map[reflect.Type]bool) (Field, error) {
	name, modifier, _ := strings.Cut(tag, ",")
	if name == "" {
		return Field{}, fmt.Errorf("searchsync: empty field name in tag on %s", sf.Name)
	}
	kind, err := schema.ParseKind(modifier)
	if err != nil {
		return Field{}, fmt.Errorf("searchsync: field %s: %w", sf.Name, err)
	}

	get := extractor(owner, sf.Index)
	switch kind {
	case schema.Text:
		return schema.NewText(name, get), nil
	case schema.Autocomplete:
		return schema.NewAutocomplete(name, get), nil
	case schema.Filter:
		return schema.NewFilter(name, get), nil
	default:
		nested, err := fieldsOf(elemType(sf.Type), visiting)
		if err != nil {
			return Field{}, fmt.Errorf("searchsync: related field %s: %w", sf.Name, err)
		}
		return schema.NewRelated(name, get, nested...), nil
	}
}

// extractor reads the field at index from an owner value, a pointer to one,
// or a struct that embeds owner (a child type embedding its parent's struct).
// Other types and nil pointers anywhere on the path yield nil.
func extractor(owner reflect.Type, index []int) schema.Extractor {
	return func(obj any) any {
		v, ok := ownerValue(reflect.ValueOf(obj), owner, maxEmbedDepth)
		if !ok {
			return nil
		}
		fv, err := v.FieldByIndexErr(index)
		if err != nil {
			return nil
		}
		return fv.Interface()
	}
}

const maxEmbedDepth = 8

// ownerValue dereferences v and, when it is not an owner, searches its
// embedded fields breadth first.
func ownerValue(v reflect.Value, owner reflect.Type, depth int) (reflect.Value, bool) {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	if v.Type() == owner {
		return v, true
	}
	if depth == 0 {
		return reflect.Value{}, false
	}

	var embedded []reflect.Value
	for i := range v.NumField() {
		if v.Type().Field(i).Anonymous {
			embedded = append(embedded, v.Field(i))
		}
	}
	for _, ev := range embedded {
		if structType(ev.Type()) == owner {
			return ownerValue(ev, owner, 0)
		}
	}
	for _, ev := range embedded {
		if found, ok := ownerValue(ev, owner, depth-1); ok {
			return found, true
		}
	}
	return reflect.Value{}, false
}

func structType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// elemType unwraps pointers and one level of slice or array.
func elemType(t reflect.Type) reflect.Type {
	t = structType(t)
	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}
	return structType(t)
}
