package settings

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/searchsync/internal/domain/document"
	"github.com/kailas-cloud/searchsync/internal/domain/schema"
)

// KeyFaceting is the settings key listing facetable attributes.
const KeyFaceting = "attributesForFaceting"

// Settings is the index configuration pushed to the search service.
type Settings map[string]any

// Faceting returns the attributesForFaceting entries.
func (s Settings) Faceting() []string {
	return toStrings(s[KeyFaceting])
}

// FilterOnly wraps an attribute in the filter-only facet modifier.
func FilterOnly(attr string) string { return "filterOnly(" + attr + ")" }

// FacetAttribute strips a facet modifier such as filterOnly(x) or searchable(x).
func FacetAttribute(entry string) string {
	open := strings.IndexByte(entry, '(')
	if open <= 0 || !strings.HasSuffix(entry, ")") {
		return entry
	}
	return entry[open+1 : len(entry)-1]
}

// Compute derives the index settings from base and the registered types.
// base is deep-copied and never mutated.
func Compute(base map[string]any, types []*schema.Type) Settings {
	out := Settings(deepCopy(base).(map[string]any))

	facets := toStrings(out[KeyFaceting])
	seen := make(map[string]bool, len(facets))
	for _, f := range facets {
		seen[f] = true
	}
	add := func(entry string) {
		if seen[entry] {
			return
		}
		seen[entry] = true
		facets = append(facets, entry)
	}

	add(FilterOnly(document.KeyManaged))
	add(document.KeyLocale)
	add(document.KeyModel)
	for _, t := range types {
		for _, f := range t.FilterFields() {
			add(FilterOnly(t.Key() + "." + f.Name()))
		}
	}

	out[KeyFaceting] = facets
	return out
}

func toStrings(v any) []string {
	switch x := v.(type) {
	case []string:
		return append([]string(nil), x...)
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok {
				out = append(out, s)
				continue
			}
			out = append(out, fmt.Sprint(e))
		}
		return out
	}
	return nil
}

func deepCopy(v any) any {
	switch x := v.(type) {
	case nil:
		return map[string]any{}
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = copyValue(e)
		}
		return out
	}
	return v
}

func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return deepCopy(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = copyValue(e)
		}
		return out
	case []string:
		return append([]string(nil), x...)
	}
	return v
}
