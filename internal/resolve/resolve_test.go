package resolve

import (
	"testing"

	"github.com/prentissw/charted-roots/internal/model"
)

func newPersons(handles ...string) map[string]*model.Person {
	persons := make(map[string]*model.Person, len(handles))
	for _, h := range handles {
		persons[h] = &model.Person{CrID: "cr-" + h}
	}
	return persons
}

func TestResolveBirthFamily(t *testing.T) {
	persons := newPersons("F", "M", "C")
	families := []RawFamily{{
		Handle:       "FAM1",
		FatherHandle: "F",
		MotherHandle: "M",
		Children:     []RawChild{{Handle: "C"}},
	}}

	res := Resolve(persons, families)
	if res.FamiliesResolved != 1 {
		t.Fatalf("FamiliesResolved = %d", res.FamiliesResolved)
	}

	c := persons["C"]
	if c.FatherID != "cr-F" || c.MotherID != "cr-M" {
		t.Errorf("child parents = (%q, %q)", c.FatherID, c.MotherID)
	}
	if !persons["F"].HasChild("cr-C") || !persons["M"].HasChild("cr-C") {
		t.Error("parents should list the child")
	}
	if !persons["F"].HasSpouse("cr-M") || !persons["M"].HasSpouse("cr-F") {
		t.Error("spouse link should be symmetric")
	}
}

func TestResolveAdoptedFatherSide(t *testing.T) {
	// An adopted child of the father and birth child of the mother: the
	// biological father field stays unset.
	persons := newPersons("F", "M", "C")
	families := []RawFamily{{
		Handle:       "FAM1",
		FatherHandle: "F",
		MotherHandle: "M",
		Children:     []RawChild{{Handle: "C", FatherRel: model.RelationAdopted}},
	}}

	Resolve(persons, families)

	c := persons["C"]
	if c.AdoptiveFatherID != "cr-F" {
		t.Errorf("AdoptiveFatherID = %q, want cr-F", c.AdoptiveFatherID)
	}
	if c.FatherID != "" {
		t.Errorf("FatherID = %q, want unset", c.FatherID)
	}
	if c.MotherID != "cr-M" {
		t.Errorf("MotherID = %q, want cr-M (birth)", c.MotherID)
	}
	if !persons["F"].HasSpouse("cr-M") {
		t.Error("spouse link F-M should still be present")
	}
}

func TestResolveFirstAdoptionWins(t *testing.T) {
	persons := newPersons("F1", "F2", "M", "C")
	families := []RawFamily{
		{Handle: "FAM1", FatherHandle: "F1", MotherHandle: "M",
			Children: []RawChild{{Handle: "C", FatherRel: model.RelationAdopted}}},
		{Handle: "FAM2", FatherHandle: "F2", MotherHandle: "M",
			Children: []RawChild{{Handle: "C", FatherRel: model.RelationAdopted}}},
	}

	Resolve(persons, families)

	if got := persons["C"].AdoptiveFatherID; got != "cr-F1" {
		t.Errorf("AdoptiveFatherID = %q, want the first adoption cr-F1", got)
	}
}

func TestResolveStepParentsAccumulate(t *testing.T) {
	persons := newPersons("S1", "S2", "M", "C")
	families := []RawFamily{
		{Handle: "FAM1", FatherHandle: "S1", MotherHandle: "M",
			Children: []RawChild{{Handle: "C", FatherRel: model.RelationStepchild}}},
		{Handle: "FAM2", FatherHandle: "S2", MotherHandle: "M",
			Children: []RawChild{{Handle: "C", FatherRel: model.RelationStepchild}}},
	}

	Resolve(persons, families)

	got := persons["C"].StepfatherIDs
	if len(got) != 2 {
		t.Fatalf("StepfatherIDs = %v, want two step-fathers across remarriages", got)
	}
}

func TestResolveSingleParentFamily(t *testing.T) {
	persons := newPersons("M", "C")
	families := []RawFamily{{
		Handle: "FAM1", MotherHandle: "M",
		Children: []RawChild{{Handle: "C"}},
	}}

	res := Resolve(persons, families)
	if res.FamiliesResolved != 1 {
		t.Fatalf("single-parent family should resolve, got %d", res.FamiliesResolved)
	}
	if persons["C"].MotherID != "cr-M" {
		t.Errorf("MotherID = %q", persons["C"].MotherID)
	}
	if len(persons["M"].SpouseIDs) != 0 {
		t.Errorf("no spouse link should be created: %v", persons["M"].SpouseIDs)
	}
}

func TestResolveEmptyFamilyDiscarded(t *testing.T) {
	persons := newPersons("C")
	families := []RawFamily{{Handle: "FAM1", Children: []RawChild{{Handle: "C"}}}}

	res := Resolve(persons, families)
	if res.FamiliesDiscarded != 1 {
		t.Errorf("FamiliesDiscarded = %d, want 1", res.FamiliesDiscarded)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("empty family shell is not an error, got %v", res.Warnings)
	}
}

func TestResolveSpouseIdempotent(t *testing.T) {
	// The same couple in two family records must not duplicate spouse links.
	persons := newPersons("F", "M", "C1", "C2")
	families := []RawFamily{
		{Handle: "FAM1", FatherHandle: "F", MotherHandle: "M", Children: []RawChild{{Handle: "C1"}}},
		{Handle: "FAM2", FatherHandle: "F", MotherHandle: "M", Children: []RawChild{{Handle: "C2"}}},
	}

	Resolve(persons, families)

	if got := persons["F"].SpouseIDs; len(got) != 1 {
		t.Errorf("SpouseIDs = %v, want exactly one entry", got)
	}
}

func TestResolveMarriageMetadata(t *testing.T) {
	persons := newPersons("F", "M")
	families := []RawFamily{{
		Handle: "FAM1", FatherHandle: "F", MotherHandle: "M",
		MarriageDate: "1890-06-01", MarriagePlace: "York",
	}}

	Resolve(persons, families)

	m, ok := persons["F"].Marriages["cr-M"]
	if !ok || m.Date != "1890-06-01" || m.Place != "York" {
		t.Errorf("marriage metadata = %+v, ok=%v", m, ok)
	}
	if _, ok := persons["M"].Marriages["cr-F"]; !ok {
		t.Error("marriage metadata should be recorded on both partners")
	}
}

func TestResolveSameCoupleTwiceWarns(t *testing.T) {
	// Remarriage after divorce: same parent pair, two marriage events.
	// Current behavior keeps the first and warns.
	persons := newPersons("F", "M")
	families := []RawFamily{
		{Handle: "FAM1", FatherHandle: "F", MotherHandle: "M", MarriageDate: "1890-06-01"},
		{Handle: "FAM2", FatherHandle: "F", MotherHandle: "M", MarriageDate: "1902-09-12"},
	}

	res := Resolve(persons, families)
	if len(res.Warnings) == 0 {
		t.Error("expected a warning for colliding marriage records")
	}
	if m := persons["F"].Marriages["cr-M"]; m.Date != "1890-06-01" {
		t.Errorf("kept marriage = %+v, want the first", m)
	}
}

func TestResolveUnknownChildHandle(t *testing.T) {
	persons := newPersons("F", "M")
	families := []RawFamily{{
		Handle: "FAM1", FatherHandle: "F", MotherHandle: "M",
		Children: []RawChild{{Handle: "GHOST"}},
	}}

	res := Resolve(persons, families)
	if len(res.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one unknown-handle warning", res.Warnings)
	}
	if res.FamiliesResolved != 1 {
		t.Error("family should still resolve the spouse link")
	}
}