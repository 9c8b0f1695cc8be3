package graph

import (
	"reflect"
	"strings"
	"testing"

	"github.com/prentissw/charted-roots/internal/model"
)

func TestSynthesizeBirthFamilies(t *testing.T) {
	g := newTestGraph()
	fg := g.SynthesizeFamilies()

	if len(fg.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", fg.Warnings)
	}
	if len(fg.Step) != 0 || len(fg.Adoptive) != 0 {
		t.Fatalf("expected only birth families, got step=%d adoptive=%d", len(fg.Step), len(fg.Adoptive))
	}

	byKey := make(map[string]*model.Family)
	for _, f := range fg.Birth {
		byKey[f.Key()] = f
	}

	grand, ok := byKey["p-grandpa|p-grandma"]
	if !ok {
		t.Fatalf("missing grandparent family; have %v", keys(byKey))
	}
	if grand.MarriageDate != "1948-06-12" || grand.MarriagePlace != "Topeka, Kansas" {
		t.Errorf("grandparent marriage = %q %q", grand.MarriageDate, grand.MarriagePlace)
	}
	wantChildren := []model.ChildRef{
		{ID: "p-aunt", FatherRel: model.RelationBirth, MotherRel: model.RelationBirth},
		{ID: "p-dad", FatherRel: model.RelationBirth, MotherRel: model.RelationBirth},
	}
	if !reflect.DeepEqual(grand.Children, wantChildren) {
		t.Errorf("grandparent children = %+v, want %+v", grand.Children, wantChildren)
	}

	// Single-parent family for the cousin.
	aunt, ok := byKey["|p-aunt"]
	if !ok {
		t.Fatalf("missing single-mother family; have %v", keys(byKey))
	}
	if len(aunt.Children) != 1 || aunt.Children[0].ID != "p-cousin" {
		t.Errorf("aunt family children = %+v", aunt.Children)
	}

	// Childless couple still gets a family record.
	if _, ok := byKey["p-sis-husband|p-sis"]; !ok {
		t.Errorf("missing childless couple family; have %v", keys(byKey))
	}
}

func keys(m map[string]*model.Family) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestAdoptiveParentJoinsSpouseFamily(t *testing.T) {
	g := New()
	g.SetPersons([]*model.Person{
		{CrID: "f", Sex: model.SexMale, SpouseIDs: []string{"m"}},
		{CrID: "m", Sex: model.SexFemale, SpouseIDs: []string{"f"}},
		{CrID: "c", MotherID: "m", AdoptiveFatherID: "f"},
	})

	fg := g.SynthesizeFamilies()
	if len(fg.Birth) != 1 || len(fg.Adoptive) != 0 {
		t.Fatalf("birth=%d adoptive=%d, want 1/0", len(fg.Birth), len(fg.Adoptive))
	}

	fam := fg.Birth[0]
	if fam.FatherID != "f" || fam.MotherID != "m" {
		t.Fatalf("family pair = %s|%s", fam.FatherID, fam.MotherID)
	}
	want := []model.ChildRef{{ID: "c", FatherRel: model.RelationAdopted, MotherRel: model.RelationBirth}}
	if !reflect.DeepEqual(fam.Children, want) {
		t.Errorf("children = %+v, want %+v", fam.Children, want)
	}
}

func TestStepParentJoinsSpouseFamily(t *testing.T) {
	g := New()
	g.SetPersons([]*model.Person{
		{CrID: "f", Sex: model.SexMale, SpouseIDs: []string{"s"}},
		{CrID: "s", Sex: model.SexFemale, SpouseIDs: []string{"f"}},
		{CrID: "c", FatherID: "f", StepmotherIDs: []string{"s"}},
	})

	fg := g.SynthesizeFamilies()
	if len(fg.Birth) != 1 || len(fg.Step) != 0 {
		t.Fatalf("birth=%d step=%d, want 1/0", len(fg.Birth), len(fg.Step))
	}

	fam := fg.Birth[0]
	if fam.FatherID != "f" || fam.MotherID != "s" {
		t.Fatalf("family pair = %s|%s", fam.FatherID, fam.MotherID)
	}
	want := []model.ChildRef{{ID: "c", FatherRel: model.RelationBirth, MotherRel: model.RelationStepchild}}
	if !reflect.DeepEqual(fam.Children, want) {
		t.Errorf("children = %+v, want %+v", fam.Children, want)
	}
}

func TestStepFamilySeparateWhenBirthParentPresent(t *testing.T) {
	// Child has both birth parents plus a step-mother married to the
	// father; the step family is a second record alongside the birth one.
	g := New()
	g.SetPersons([]*model.Person{
		{CrID: "f", Sex: model.SexMale, SpouseIDs: []string{"m", "s"}},
		{CrID: "m", Sex: model.SexFemale, SpouseIDs: []string{"f"}},
		{CrID: "s", Sex: model.SexFemale, SpouseIDs: []string{"f"}},
		{CrID: "c", FatherID: "f", MotherID: "m", StepmotherIDs: []string{"s"}},
	})

	fg := g.SynthesizeFamilies()
	if len(fg.Birth) != 1 || len(fg.Step) != 1 {
		t.Fatalf("birth=%d step=%d, want 1/1", len(fg.Birth), len(fg.Step))
	}
	if fg.Birth[0].Key() != "f|m" {
		t.Errorf("birth family = %s", fg.Birth[0].Key())
	}

	step := fg.Step[0]
	if step.Key() != "f|s" {
		t.Fatalf("step family = %s, want f|s", step.Key())
	}
	want := []model.ChildRef{{ID: "c", FatherRel: model.RelationBirth, MotherRel: model.RelationStepchild}}
	if !reflect.DeepEqual(step.Children, want) {
		t.Errorf("step children = %+v, want %+v", step.Children, want)
	}
}

func TestLoneStepParent(t *testing.T) {
	// Step-mother not married to any birth parent stands alone.
	g := New()
	g.SetPersons([]*model.Person{
		{CrID: "f", Sex: model.SexMale},
		{CrID: "s", Sex: model.SexFemale},
		{CrID: "c", FatherID: "f", StepmotherIDs: []string{"s"}},
	})

	fg := g.SynthesizeFamilies()
	if len(fg.Birth) != 1 || len(fg.Step) != 1 {
		t.Fatalf("birth=%d step=%d, want 1/1", len(fg.Birth), len(fg.Step))
	}
	step := fg.Step[0]
	if step.FatherID != "" || step.MotherID != "s" {
		t.Errorf("lone step family pair = %s|%s, want |s", step.FatherID, step.MotherID)
	}
	if len(step.Children) != 1 || step.Children[0].MotherRel != model.RelationStepchild {
		t.Errorf("lone step children = %+v", step.Children)
	}
}

func TestAdoptivePairFamily(t *testing.T) {
	g := New()
	g.SetPersons([]*model.Person{
		{CrID: "af", Sex: model.SexMale, SpouseIDs: []string{"am"}},
		{CrID: "am", Sex: model.SexFemale, SpouseIDs: []string{"af"}},
		{CrID: "c", AdoptiveFatherID: "af", AdoptiveMotherID: "am"},
	})

	fg := g.SynthesizeFamilies()
	if len(fg.Adoptive) != 1 {
		t.Fatalf("adoptive=%d, want 1", len(fg.Adoptive))
	}
	fam := fg.Adoptive[0]
	if fam.Key() != "af|am" {
		t.Fatalf("adoptive family = %s", fam.Key())
	}
	want := []model.ChildRef{{ID: "c", FatherRel: model.RelationAdopted, MotherRel: model.RelationAdopted}}
	if !reflect.DeepEqual(fam.Children, want) {
		t.Errorf("children = %+v, want %+v", fam.Children, want)
	}
}

func TestMissingParentDropped(t *testing.T) {
	g := New()
	g.SetPersons([]*model.Person{
		{CrID: "m", Sex: model.SexFemale},
		{CrID: "c", FatherID: "gone", MotherID: "m"},
	})

	fg := g.SynthesizeFamilies()
	if len(fg.Warnings) != 1 || !strings.Contains(fg.Warnings[0], "gone") {
		t.Fatalf("warnings = %v", fg.Warnings)
	}
	if len(fg.Birth) != 1 || fg.Birth[0].Key() != "|m" {
		t.Fatalf("birth families = %+v", fg.Birth)
	}
}

func TestChildlessCoupleRoles(t *testing.T) {
	g := New()
	g.SetPersons([]*model.Person{
		{CrID: "z-husband", Sex: model.SexMale, SpouseIDs: []string{"a-wife"}},
		{CrID: "a-wife", Sex: model.SexFemale, SpouseIDs: []string{"z-husband"}},
		{CrID: "pa", Sex: model.SexFemale, SpouseIDs: []string{"pb"}},
		{CrID: "pb", Sex: model.SexFemale, SpouseIDs: []string{"pa"}},
	})

	fg := g.SynthesizeFamilies()
	if len(fg.Birth) != 2 {
		t.Fatalf("birth families = %d, want 2", len(fg.Birth))
	}

	got := map[string]bool{}
	for _, f := range fg.Birth {
		got[f.Key()] = true
	}
	// Roles by sex regardless of cr_id order; same-sex pairs fall back to
	// cr_id order.
	if !got["z-husband|a-wife"] {
		t.Errorf("expected z-husband|a-wife, got %v", got)
	}
	if !got["pa|pb"] {
		t.Errorf("expected pa|pb, got %v", got)
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	g := newTestGraph()
	first := g.SynthesizeFamilies()
	second := g.SynthesizeFamilies()
	if !reflect.DeepEqual(first, second) {
		t.Error("successive syntheses differ")
	}
}
