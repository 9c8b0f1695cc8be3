package places

import (
	"reflect"
	"testing"

	"github.com/prentissw/charted-roots/internal/model"
)

func testHierarchy() *Hierarchy {
	return NewHierarchy([]*model.Place{
		{ID: "usa", Name: "USA", Type: model.PlaceTypeCountry},
		{ID: "kansas", Name: "Kansas", ParentID: "usa", Type: model.PlaceTypeState},
		{ID: "shawnee", Name: "Shawnee County", ParentID: "kansas", Type: model.PlaceTypeCounty},
		{ID: "topeka", Name: "Topeka", ParentID: "shawnee", Type: model.PlaceTypeCity},
	})
}

func TestFullName(t *testing.T) {
	h := testHierarchy()
	if got := h.FullName("topeka"); got != "Topeka, Shawnee County, Kansas, USA" {
		t.Errorf("FullName(topeka) = %q", got)
	}
	if got := h.FullName("usa"); got != "USA" {
		t.Errorf("FullName(usa) = %q", got)
	}
	if got := h.FullName("nowhere"); got != "" {
		t.Errorf("FullName(nowhere) = %q", got)
	}
}

func TestChainTerminatesOnCycle(t *testing.T) {
	h := NewHierarchy([]*model.Place{
		{ID: "a", Name: "A", ParentID: "b"},
		{ID: "b", Name: "B", ParentID: "a"},
	})

	chain := h.Chain("a")
	if len(chain) != 2 || chain[0].ID != "a" || chain[1].ID != "b" {
		t.Fatalf("Chain(a) = %v, want partial chain a, b", chain)
	}
	if got := h.FullName("a"); got != "A, B" {
		t.Errorf("FullName in cycle = %q", got)
	}
}

func TestChainStopsAtDanglingParent(t *testing.T) {
	h := NewHierarchy([]*model.Place{
		{ID: "topeka", Name: "Topeka", ParentID: "gone"},
	})
	chain := h.Chain("topeka")
	if len(chain) != 1 {
		t.Errorf("Chain = %v, want just topeka", chain)
	}
}

func TestChildrenAndRoots(t *testing.T) {
	h := testHierarchy()

	if got := h.ChildrenOf("kansas"); !reflect.DeepEqual(got, []string{"shawnee"}) {
		t.Errorf("ChildrenOf(kansas) = %v", got)
	}
	if got := h.Roots(); !reflect.DeepEqual(got, []string{"usa"}) {
		t.Errorf("Roots() = %v", got)
	}

	orphaned := NewHierarchy([]*model.Place{
		{ID: "x", Name: "X", ParentID: "missing"},
	})
	if got := orphaned.Roots(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("Roots with dangling parent = %v", got)
	}
}
