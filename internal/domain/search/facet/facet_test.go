package facet

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/searchsync/internal/domain/schema"
)

var itemType = schema.MustType("shop", "Item", nil,
	schema.NewFilter("color", nil),
	schema.NewFilter("tags", nil),
	schema.NewFilter("dims", nil),
)

type item map[string]any

func (i item) SearchID() string         { return i["id"].(string) }
func (i item) SearchType() *schema.Type { return itemType }

func (i item) SearchValue(name string) (any, bool) {
	v, ok := i[name]
	return v, ok
}

func field(t *testing.T, name string) schema.Field {
	t.Helper()
	f, ok := itemType.FilterField(name)
	if !ok {
		t.Fatalf("no filter field %q", name)
	}
	return f
}

func TestTally_OrderByCountThenFirstAppearance(t *testing.T) {
	insts := []schema.Instance{
		item{"id": "1", "color": "red"},
		item{"id": "2", "color": "blue"},
		item{"id": "3", "color": "green"},
		item{"id": "4", "color": "blue"},
		item{"id": "5", "color": "red"},
		item{"id": "6", "color": "red"},
		item{"id": "7", "color": "green"},
	}

	got := Tally(insts, field(t, "color"))
	want := []Count{{"red", 3}, {"blue", 2}, {"green", 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tally() = %v, want %v", got, want)
	}
}

func TestTally_MultiValuedCountsEachElement(t *testing.T) {
	insts := []schema.Instance{
		item{"id": "1", "tags": []string{"a", "b"}},
		item{"id": "2", "tags": []string{"b"}},
	}

	got := Tally(insts, field(t, "tags"))
	want := []Count{{"b", 2}, {"a", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tally() = %v, want %v", got, want)
	}
}

func TestTally_NilAndUncomparable(t *testing.T) {
	insts := []schema.Instance{
		item{"id": "1"},
		item{"id": "2", "dims": map[string]int{"w": 1}},
		item{"id": "3", "dims": map[string]int{"w": 1}},
		item{"id": "4"},
		item{"id": "5"},
	}

	got := Tally(insts, field(t, "dims"))
	if len(got) != 2 {
		t.Fatalf("Tally() = %v", got)
	}
	if got[0].Value != nil || got[0].Count != 3 {
		t.Errorf("got[0] = %v", got[0])
	}
	if got[1].Count != 2 {
		t.Errorf("got[1] = %v", got[1])
	}
}

func TestTally_Empty(t *testing.T) {
	if got := Tally(nil, field(t, "color")); len(got) != 0 {
		t.Errorf("Tally(nil) = %v", got)
	}
}
