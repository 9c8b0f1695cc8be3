package model

import "testing"

func TestConfidenceFromGramps(t *testing.T) {
	tests := []struct {
		in   int
		want Confidence
	}{
		{4, ConfidenceHigh},
		{3, ConfidenceHigh},
		{2, ConfidenceMedium},
		{1, ConfidenceLow},
		{0, ConfidenceLow},
	}

	for _, tt := range tests {
		if got := ConfidenceFromGramps(tt.in); got != tt.want {
			t.Errorf("ConfidenceFromGramps(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSex(t *testing.T) {
	tests := []struct {
		in   string
		want Sex
	}{
		{"M", SexMale},
		{"male", SexMale},
		{"F", SexFemale},
		{"Female", SexFemale},
		{"", SexUnknown},
		{"nonbinary", SexUnknown},
	}

	for _, tt := range tests {
		if got := ParseSex(tt.in); got != tt.want {
			t.Errorf("ParseSex(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseParentalRelation(t *testing.T) {
	tests := []struct {
		in   string
		want ParentalRelation
	}{
		{"", RelationBirth},
		{"Birth", RelationBirth},
		{"Adopted", RelationAdopted},
		{"adopted", RelationAdopted},
		{"Stepchild", RelationStepchild},
		{"something-else", RelationBirth},
	}

	for _, tt := range tests {
		if got := ParseParentalRelation(tt.in); got != tt.want {
			t.Errorf("ParseParentalRelation(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPersonSpouseAndChildHelpers(t *testing.T) {
	p := &Person{CrID: "a"}

	p.AddSpouse("b")
	p.AddSpouse("b") // idempotent
	p.AddSpouse("a") // never self
	p.AddSpouse("")
	if len(p.SpouseIDs) != 1 || p.SpouseIDs[0] != "b" {
		t.Errorf("SpouseIDs = %v, want [b]", p.SpouseIDs)
	}

	p.AddChild("c")
	p.AddChild("c")
	if len(p.ChildrenIDs) != 1 {
		t.Errorf("ChildrenIDs = %v, want one entry", p.ChildrenIDs)
	}
}

func TestPersonLiving(t *testing.T) {
	alive := &Person{CrID: "a", BirthDate: "1990-01-01"}
	if !alive.Living() {
		t.Error("person without death date should be living")
	}
	dead := &Person{CrID: "b", DeathDate: "1950"}
	if dead.Living() {
		t.Error("person with death date should not be living")
	}
}
