// Package model defines the canonical in-memory genealogy types.
//
// Persons reference each other exclusively by cr_id. Relationship fields are
// flat ID references, never embedded objects, so the same Person value can be
// shared between the graph cache, the synchronizer, and the exporters without
// copying subtrees.
package model

import "strings"

// Sex is the biological, interchange-compatible sex of a person.
type Sex string

const (
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
	SexUnknown Sex = "U"
)

// ParseSex normalizes a free-form sex value to M/F/U.
func ParseSex(s string) Sex {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M", "MALE":
		return SexMale
	case "F", "FEMALE":
		return SexFemale
	default:
		return SexUnknown
	}
}

// ResearchLevel is a 0-6 confidence scale for how thoroughly a person has
// been researched.
type ResearchLevel int

// MaxResearchLevel is the highest valid research level.
const MaxResearchLevel ResearchLevel = 6

// Valid reports whether the level is within the 0-6 scale.
func (r ResearchLevel) Valid() bool {
	return r >= 0 && r <= MaxResearchLevel
}

// Marriage holds per-partner marriage metadata, keyed by the other partner's
// cr_id on the Person that carries it.
type Marriage struct {
	Date  string
	Place string
}

// Person is the canonical node of the family graph.
//
// The singular parent fields are biological; step-parents accumulate across
// remarriages and adoptive parents are singular per side. SpouseIDs is
// symmetric: if A lists B, B must list A. ChildrenIDs is maintained to be
// consistent with the children's own parent references.
type Person struct {
	CrID string
	Name string
	Sex  Sex

	// Presentation-only identity fields; never written to interchange
	// formats that lack the concept.
	GenderIdentity string
	Pronouns       string

	BirthDate   string
	DeathDate   string
	BirthPlace  string
	DeathPlace  string
	BurialPlace string
	Occupation  string

	ResearchLevel ResearchLevel

	FatherID         string
	MotherID         string
	StepfatherIDs    []string
	StepmotherIDs    []string
	AdoptiveFatherID string
	AdoptiveMotherID string
	SpouseIDs        []string
	ChildrenIDs      []string

	// Marriages is keyed by the other partner's cr_id.
	Marriages map[string]Marriage

	// Extras holds frontmatter fields the engine does not interpret.
	// They are preserved verbatim on write-back.
	Extras map[string]interface{}
}

// Living reports whether the person is treated as living for privacy
// purposes. A person with no recorded death is assumed living.
func (p *Person) Living() bool {
	return strings.TrimSpace(p.DeathDate) == ""
}

// HasSpouse reports whether id is already present in SpouseIDs.
func (p *Person) HasSpouse(id string) bool {
	for _, s := range p.SpouseIDs {
		if s == id {
			return true
		}
	}
	return false
}

// AddSpouse appends id to SpouseIDs if not already present.
func (p *Person) AddSpouse(id string) {
	if id == "" || id == p.CrID || p.HasSpouse(id) {
		return
	}
	p.SpouseIDs = append(p.SpouseIDs, id)
}

// HasChild reports whether id is already present in ChildrenIDs.
func (p *Person) HasChild(id string) bool {
	for _, c := range p.ChildrenIDs {
		if c == id {
			return true
		}
	}
	return false
}

// AddChild appends id to ChildrenIDs if not already present.
func (p *Person) AddChild(id string) {
	if id == "" || p.HasChild(id) {
		return
	}
	p.ChildrenIDs = append(p.ChildrenIDs, id)
}

// HasStepparent reports whether id is in the given step-parent list.
func HasStepparent(list []string, id string) bool {
	for _, s := range list {
		if s == id {
			return true
		}
	}
	return false
}

// ParentIDs returns every parent reference of the person in a stable order:
// father, mother, adoptive father, adoptive mother, then step-parents.
func (p *Person) ParentIDs() []string {
	var out []string
	for _, id := range []string{p.FatherID, p.MotherID, p.AdoptiveFatherID, p.AdoptiveMotherID} {
		if id != "" {
			out = append(out, id)
		}
	}
	out = append(out, p.StepfatherIDs...)
	out = append(out, p.StepmotherIDs...)
	return out
}
