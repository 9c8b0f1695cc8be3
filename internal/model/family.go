package model

// ParentalRelation qualifies a child's relationship to one parent side of a
// family. The qualifier is per side: a child can be the birth child of the
// father and the stepchild of the mother in the same family.
type ParentalRelation string

const (
	RelationBirth     ParentalRelation = "Birth"
	RelationAdopted   ParentalRelation = "Adopted"
	RelationStepchild ParentalRelation = "Stepchild"
)

// ParseParentalRelation normalizes an interchange qualifier. Unknown and
// empty values default to Birth, matching the interchange formats where an
// absent qualifier means a birth relationship.
func ParseParentalRelation(s string) ParentalRelation {
	switch s {
	case string(RelationAdopted), "adopted":
		return RelationAdopted
	case string(RelationStepchild), "stepchild", "Step":
		return RelationStepchild
	default:
		return RelationBirth
	}
}

// ChildRef is one child entry of a family, with its per-side qualifiers.
type ChildRef struct {
	ID        string
	FatherRel ParentalRelation
	MotherRel ParentalRelation
}

// Family is a derived grouping of a parent pair (or single parent) and their
// children. Families are synthesized fresh on every resolution or export
// pass; they are a view over Person records, not a stored entity.
type Family struct {
	FatherID string
	MotherID string
	Children []ChildRef

	MarriageDate  string
	MarriagePlace string
}

// Key returns the identity of the family's parent pairing. Deterministic so
// that successive exports group identically.
func (f *Family) Key() string {
	return f.FatherID + "|" + f.MotherID
}

// HasBothParents reports whether the family has a father and a mother.
func (f *Family) HasBothParents() bool {
	return f.FatherID != "" && f.MotherID != ""
}
