package facet

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"

	"github.com/kailas-cloud/searchsync/internal/domain/document"
	"github.com/kailas-cloud/searchsync/internal/domain/schema"
)

// Count is the number of results sharing one filter value.
type Count struct {
	Value any `json:"value"`
	Count int `json:"count"`
}

// Tally groups instances by the normalized value of a filter field.
// Multi-valued fields count once per element. Ordered by descending count,
// ties by first appearance.
func Tally(instances []schema.Instance, f schema.Field) []Count {
	var counts []Count
	index := make(map[any]int)

	add := func(v any) {
		k := key(v)
		if i, ok := index[k]; ok {
			counts[i].Count++
			return
		}
		index[k] = len(counts)
		counts = append(counts, Count{Value: v, Count: 1})
	}

	for _, inst := range instances {
		v := document.FilterValue(f.Value(inst))
		if vals, ok := v.([]any); ok {
			for _, e := range vals {
				add(e)
			}
			continue
		}
		add(v)
	}

	slices.SortStableFunc(counts, func(a, b Count) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return counts
}

type rendered string

func key(v any) any {
	if v == nil {
		return nil
	}
	if reflect.ValueOf(v).Comparable() {
		return v
	}
	return rendered(fmt.Sprintf("%T:%#v", v, v))
}
