package graph

import (
	"reflect"
	"sort"
	"testing"

	"github.com/prentissw/charted-roots/internal/model"
)

// testPersons builds a three-generation family:
//
//	grandpa ═ grandma
//	   ├── dad ═ mom
//	   │     ├── me
//	   │     └── sis ═ sis-husband
//	   └── aunt
//	         └── cousin (father unknown)
func testPersons() []*model.Person {
	return []*model.Person{
		{
			CrID: "p-grandpa", Name: "Walter Prentiss", Sex: model.SexMale,
			SpouseIDs: []string{"p-grandma"}, ChildrenIDs: []string{"p-dad", "p-aunt"},
			Marriages: map[string]model.Marriage{"p-grandma": {Date: "1948-06-12", Place: "Topeka, Kansas"}},
		},
		{
			CrID: "p-grandma", Name: "Edith Prentiss", Sex: model.SexFemale,
			SpouseIDs: []string{"p-grandpa"}, ChildrenIDs: []string{"p-dad", "p-aunt"},
			Marriages: map[string]model.Marriage{"p-grandpa": {Date: "1948-06-12", Place: "Topeka, Kansas"}},
		},
		{
			CrID: "p-dad", Name: "Harold Prentiss", Sex: model.SexMale,
			FatherID: "p-grandpa", MotherID: "p-grandma",
			SpouseIDs: []string{"p-mom"}, ChildrenIDs: []string{"p-me", "p-sis"},
		},
		{
			CrID: "p-mom", Name: "June Prentiss", Sex: model.SexFemale,
			SpouseIDs: []string{"p-dad"}, ChildrenIDs: []string{"p-me", "p-sis"},
		},
		{
			CrID: "p-aunt", Name: "Dorothy Lane", Sex: model.SexFemale,
			FatherID: "p-grandpa", MotherID: "p-grandma",
			ChildrenIDs: []string{"p-cousin"},
		},
		{
			CrID: "p-me", Name: "Sam Prentiss", Sex: model.SexMale,
			FatherID: "p-dad", MotherID: "p-mom",
		},
		{
			CrID: "p-sis", Name: "Ruth Alvarez", Sex: model.SexFemale,
			FatherID: "p-dad", MotherID: "p-mom",
			SpouseIDs: []string{"p-sis-husband"},
		},
		{
			CrID: "p-sis-husband", Name: "Marco Alvarez", Sex: model.SexMale,
			SpouseIDs: []string{"p-sis"},
		},
		{
			CrID: "p-cousin", Name: "Glen Lane", Sex: model.SexMale,
			MotherID: "p-aunt",
		},
	}
}

func newTestGraph() *Graph {
	g := New()
	g.SetPersons(testPersons())
	return g
}

func sorted(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	return out
}

func TestPersonLookup(t *testing.T) {
	g := newTestGraph()

	if g.Len() != 9 {
		t.Fatalf("Len() = %d, want 9", g.Len())
	}
	p, ok := g.Person("p-me")
	if !ok || p.Name != "Sam Prentiss" {
		t.Fatalf("Person(p-me) = %v, %v", p, ok)
	}
	if _, ok := g.Person("p-nobody"); ok {
		t.Error("Person(p-nobody) should not be found")
	}

	persons := g.Persons()
	for i := 1; i < len(persons); i++ {
		if persons[i-1].CrID >= persons[i].CrID {
			t.Fatalf("Persons() not sorted: %s before %s", persons[i-1].CrID, persons[i].CrID)
		}
	}
}

func TestChildrenOfDerivedFromChildSide(t *testing.T) {
	g := newTestGraph()

	got := g.ChildrenOf("p-grandpa")
	want := []string{"p-aunt", "p-dad"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ChildrenOf(p-grandpa) = %v, want %v", got, want)
	}

	// p-aunt's own ChildrenIDs names p-cousin, but the index is built from
	// p-cousin's MotherID; a stale parent-side list would not matter.
	got = g.ChildrenOf("p-aunt")
	want = []string{"p-cousin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ChildrenOf(p-aunt) = %v, want %v", got, want)
	}
}

func TestInvalidate(t *testing.T) {
	g := newTestGraph()

	if got := g.ChildrenOf("p-sis-husband"); len(got) != 0 {
		t.Fatalf("ChildrenOf(p-sis-husband) = %v, want none", got)
	}

	me, _ := g.Person("p-me")
	me.StepfatherIDs = append(me.StepfatherIDs, "p-sis-husband")

	// Stale until invalidated.
	if got := g.ChildrenOf("p-sis-husband"); len(got) != 0 {
		t.Fatalf("cache rebuilt without Invalidate: %v", got)
	}

	g.Invalidate()
	want := []string{"p-me"}
	if got := g.ChildrenOf("p-sis-husband"); !reflect.DeepEqual(got, want) {
		t.Errorf("ChildrenOf(p-sis-husband) after Invalidate = %v, want %v", got, want)
	}
}

func TestAncestors(t *testing.T) {
	g := newTestGraph()

	got := sorted(g.Ancestors("p-me", false))
	want := []string{"p-dad", "p-grandma", "p-grandpa", "p-mom"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ancestors(p-me) = %v, want %v", got, want)
	}

	withSelf := g.Ancestors("p-me", true)
	if len(withSelf) != 5 || withSelf[0] != "p-me" {
		t.Errorf("Ancestors(p-me, includeSelf) = %v", withSelf)
	}
}

func TestDescendants(t *testing.T) {
	g := newTestGraph()

	got := sorted(g.Descendants("p-grandpa", false, false))
	want := []string{"p-aunt", "p-cousin", "p-dad", "p-me", "p-sis"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Descendants(p-grandpa) = %v, want %v", got, want)
	}

	got = sorted(g.Descendants("p-grandpa", false, true))
	want = []string{"p-aunt", "p-cousin", "p-dad", "p-me", "p-mom", "p-sis", "p-sis-husband"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Descendants(p-grandpa, spouses) = %v, want %v", got, want)
	}
}

func TestTraversalTerminatesOnCycle(t *testing.T) {
	g := New()
	g.SetPersons([]*model.Person{
		{CrID: "a", FatherID: "b"},
		{CrID: "b", FatherID: "a"},
	})

	if got := sorted(g.Ancestors("a", false)); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Ancestors in cycle = %v, want [b]", got)
	}
	if got := sorted(g.Descendants("a", false, false)); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Descendants in cycle = %v, want [b]", got)
	}
}

func TestPathAndKinship(t *testing.T) {
	g := newTestGraph()

	tests := []struct {
		from, to string
		want     string
	}{
		{"p-me", "p-me", "self"},
		{"p-me", "p-dad", "father"},
		{"p-me", "p-grandma", "grandmother"},
		{"p-grandpa", "p-me", "grandson"},
		{"p-me", "p-sis", "sister"},
		{"p-me", "p-aunt", "aunt"},
		{"p-aunt", "p-me", "nephew"},
		{"p-me", "p-cousin", "first cousin"},
		{"p-grandpa", "p-cousin", "grandson"},
		{"p-me", "p-sis-husband", "brother-in-law"},
		{"p-dad", "p-mom", "wife"},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_"+tt.to, func(t *testing.T) {
			path := g.Path(tt.from, tt.to)
			if got := g.Kinship(path); got != tt.want {
				t.Errorf("Kinship(Path(%s, %s)) = %q, want %q", tt.from, tt.to, got, tt.want)
			}
		})
	}

	if path := g.Path("p-me", "p-nobody"); path != nil {
		t.Errorf("Path to unknown person = %v, want nil", path)
	}
	if got := g.Kinship(nil); got != "no relation" {
		t.Errorf("Kinship(nil) = %q", got)
	}
}

func TestMirrorViolations(t *testing.T) {
	g := New()
	g.SetPersons([]*model.Person{
		{CrID: "parent-ok", ChildrenIDs: []string{"child-a"}},
		{CrID: "parent-stale"},
		{CrID: "child-a", FatherID: "parent-ok", MotherID: "parent-stale"},
		{CrID: "child-b", FatherID: "parent-gone"},
	})

	got := g.MirrorViolations()
	want := []MirrorViolation{
		{ChildID: "child-a", ParentID: "parent-stale"},
		{ChildID: "child-b", ParentID: "parent-gone", Missing: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MirrorViolations() = %+v, want %+v", got, want)
	}

	if repaired := g.RepairMirrors(); repaired != 1 {
		t.Fatalf("RepairMirrors() = %d, want 1", repaired)
	}

	got = g.MirrorViolations()
	want = []MirrorViolation{{ChildID: "child-b", ParentID: "parent-gone", Missing: true}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MirrorViolations() after repair = %+v, want %+v", got, want)
	}
}
