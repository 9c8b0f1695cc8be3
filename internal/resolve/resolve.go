// Package resolve links raw interchange records into canonical persons.
//
// Interchange formats describe relationships through family records that
// reference persons by format-native handles, and a family can reference
// persons that appear later in the document. Resolution therefore runs in
// exactly two passes: materialize every person first, then walk the family
// list once and write relationship references. The two-stage pipeline keeps
// the ordering guarantee auditable; nothing here is lazy or recursive.
package resolve

import (
	"fmt"

	"github.com/prentissw/charted-roots/internal/model"
)

// RawChild is one child entry of a raw family, with its per-side
// relationship qualifiers. Each side defaults to Birth.
type RawChild struct {
	Handle    string
	FatherRel model.ParentalRelation
	MotherRel model.ParentalRelation
}

// RawFamily is a family record as parsed from an interchange document,
// still referencing persons by native handle.
type RawFamily struct {
	Handle        string
	FatherHandle  string
	MotherHandle  string
	Children      []RawChild
	MarriageDate  string
	MarriagePlace string
}

// Result reports what resolution did.
type Result struct {
	// FamiliesResolved counts families that established at least one
	// relationship. Families with neither parent are discarded, which is
	// legal in the interchange formats and not counted as a problem.
	FamiliesResolved  int
	FamiliesDiscarded int

	// Warnings are per-record problems, accumulated rather than fatal.
	Warnings []string
}

// Resolve runs the two-pass algorithm. persons maps native handles to
// materialized Person nodes whose relationship fields start empty and whose
// CrID is already assigned; every reference written is a CrID.
func Resolve(persons map[string]*model.Person, families []RawFamily) *Result {
	res := &Result{}

	// Pass 1: make sure every person is materialized with empty
	// relationship fields. Parsers hand us materialized nodes already, so
	// this pass only normalizes nil slices and maps.
	for _, p := range persons {
		if p.Marriages == nil {
			p.Marriages = make(map[string]model.Marriage)
		}
	}

	// Pass 2: walk the family list and write references.
	for _, fam := range families {
		father := persons[fam.FatherHandle]
		mother := persons[fam.MotherHandle]
		if fam.FatherHandle != "" && father == nil {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("family %s: unknown father handle %q", fam.Handle, fam.FatherHandle))
		}
		if fam.MotherHandle != "" && mother == nil {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("family %s: unknown mother handle %q", fam.Handle, fam.MotherHandle))
		}

		if father == nil && mother == nil {
			// An empty family shell cannot establish any relationship.
			res.FamiliesDiscarded++
			continue
		}
		res.FamiliesResolved++

		for _, child := range fam.Children {
			c := persons[child.Handle]
			if c == nil {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("family %s: unknown child handle %q", fam.Handle, child.Handle))
				continue
			}

			if father != nil {
				linkParentSide(res, fam.Handle, c, father, child.FatherRel, fatherSide)
				father.AddChild(c.CrID)
			}
			if mother != nil {
				linkParentSide(res, fam.Handle, c, mother, child.MotherRel, motherSide)
				mother.AddChild(c.CrID)
			}
		}

		if father != nil && mother != nil {
			father.AddSpouse(mother.CrID)
			mother.AddSpouse(father.CrID)
			if fam.MarriageDate != "" || fam.MarriagePlace != "" {
				m := model.Marriage{Date: fam.MarriageDate, Place: fam.MarriagePlace}
				recordMarriage(res, fam.Handle, father, mother.CrID, m)
				recordMarriage(res, fam.Handle, mother, father.CrID, m)
			}
		}
	}

	return res
}

type parentSide int

const (
	fatherSide parentSide = iota
	motherSide
)

// linkParentSide writes one child->parent reference according to the
// child's qualifier on that side. Stepchild appends (a child accumulates
// step-parents across remarriages), Adopted is first-wins, Birth and absent
// set the singular biological field.
func linkParentSide(res *Result, famHandle string, child, parent *model.Person, rel model.ParentalRelation, side parentSide) {
	switch rel {
	case model.RelationStepchild:
		if side == fatherSide {
			if !model.HasStepparent(child.StepfatherIDs, parent.CrID) {
				child.StepfatherIDs = append(child.StepfatherIDs, parent.CrID)
			}
		} else {
			if !model.HasStepparent(child.StepmotherIDs, parent.CrID) {
				child.StepmotherIDs = append(child.StepmotherIDs, parent.CrID)
			}
		}
	case model.RelationAdopted:
		if side == fatherSide {
			if child.AdoptiveFatherID == "" {
				child.AdoptiveFatherID = parent.CrID
			}
		} else {
			if child.AdoptiveMotherID == "" {
				child.AdoptiveMotherID = parent.CrID
			}
		}
	default: // Birth
		if side == fatherSide {
			if child.FatherID == "" {
				child.FatherID = parent.CrID
			} else if child.FatherID != parent.CrID {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("family %s: person %s already has a father, keeping first", famHandle, child.CrID))
			}
		} else {
			if child.MotherID == "" {
				child.MotherID = parent.CrID
			} else if child.MotherID != parent.CrID {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("family %s: person %s already has a mother, keeping first", famHandle, child.CrID))
			}
		}
	}
}

// recordMarriage stores per-partner marriage metadata. Two distinct family
// records for the same pair would collapse into one entry here; that loses
// chronological distinction, so the collision is surfaced as a warning.
func recordMarriage(res *Result, famHandle string, p *model.Person, otherID string, m model.Marriage) {
	if existing, ok := p.Marriages[otherID]; ok && existing != m {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("family %s: persons %s and %s appear in more than one marriage, keeping first", famHandle, p.CrID, otherID))
		return
	}
	p.Marriages[otherID] = m
}
