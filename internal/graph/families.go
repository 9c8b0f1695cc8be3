package graph

import (
	"fmt"
	"sort"

	"github.com/prentissw/charted-roots/internal/model"
)

// FamilyGroups is the result of synthesizing family records from the person
// set. Families are a view, rebuilt fresh on every call, never stored.
//
// Three grouping passes run over the same person set: biological families
// keyed by the parent pair, step-parent families one per distinct
// step-parent per side, and adoptive families keyed by the adoptive pair.
// The split is required because the interchange formats carry only one
// relationship qualifier per child per family record; collapsing the three
// into one family per parent pair would silently lose qualifiers.
//
// When a child has no biological parent on one side, that side of its birth
// family is filled by a spouse-linked adoptive or step-parent so the
// qualifier lands on the same childref rather than splitting the couple
// into two family records. Sides joined this way are consumed and skipped
// by the later passes.
type FamilyGroups struct {
	Birth    []*model.Family
	Step     []*model.Family
	Adoptive []*model.Family

	// Warnings records parent references that were dropped because the
	// parent is absent from the graph. The edge is omitted from output
	// rather than emitted one-sided.
	Warnings []string
}

// All returns every synthesized family: birth, then step, then adoptive.
func (fg *FamilyGroups) All() []*model.Family {
	out := make([]*model.Family, 0, len(fg.Birth)+len(fg.Step)+len(fg.Adoptive))
	out = append(out, fg.Birth...)
	out = append(out, fg.Step...)
	out = append(out, fg.Adoptive...)
	return out
}

type familyBuilder struct {
	g        *Graph
	groups   *FamilyGroups
	consumed map[string]bool // childID|parentID|side
	seen     map[string]*model.Family
	pairs    map[string]bool // unordered couple keys with any family record
}

func sideKey(childID, parentID string, side parentSide) string {
	return childID + "|" + parentID + "|" + fmt.Sprint(side)
}

type parentSide int

const (
	fatherSide parentSide = iota
	motherSide
)

// SynthesizeFamilies derives family records for export. The output is
// deterministic: persons are walked in cr_id order and families appear in
// creation order, so successive exports of the same graph are identical.
func (g *Graph) SynthesizeFamilies() *FamilyGroups {
	g.ensure()

	b := &familyBuilder{
		g:        g,
		groups:   &FamilyGroups{},
		consumed: make(map[string]bool),
		seen:     make(map[string]*model.Family),
		pairs:    make(map[string]bool),
	}

	persons := g.Persons()
	b.birthPass(persons)
	b.stepPass(persons)
	b.adoptivePass(persons)
	b.childlessCouples(persons)

	return b.groups
}

// exists validates a parent reference, warning and dropping it when the
// parent is not in the graph.
func (b *familyBuilder) exists(childID, parentID string) bool {
	if parentID == "" {
		return false
	}
	if _, ok := b.g.byID[parentID]; !ok {
		b.groups.Warnings = append(b.groups.Warnings,
			fmt.Sprintf("person %s: parent %s not found, edge dropped", childID, parentID))
		return false
	}
	return true
}

// spouseLinked returns candidate when it exists and is a spouse of partner.
func (b *familyBuilder) spouseLinked(candidate, partner string) bool {
	p, ok := b.g.byID[candidate]
	return ok && partner != "" && p.HasSpouse(partner)
}

func (b *familyBuilder) family(group *[]*model.Family, father, mother string) *model.Family {
	k := groupKey(group, father, mother)
	if fam, ok := b.seen[k]; ok {
		return fam
	}
	fam := &model.Family{FatherID: father, MotherID: mother}
	b.seen[k] = fam
	*group = append(*group, fam)
	if father != "" && mother != "" {
		b.pairs[coupleKey(father, mother)] = true
	}
	return fam
}

func groupKey(group *[]*model.Family, father, mother string) string {
	return fmt.Sprintf("%p|%s|%s", group, father, mother)
}

func coupleKey(a, bID string) string {
	if a < bID {
		return a + "|" + bID
	}
	return bID + "|" + a
}

func (b *familyBuilder) birthPass(persons []*model.Person) {
	for _, c := range persons {
		father, frel := c.FatherID, model.RelationBirth
		mother, mrel := c.MotherID, model.RelationBirth

		if father != "" && !b.exists(c.CrID, father) {
			father = ""
		}
		if mother != "" && !b.exists(c.CrID, mother) {
			mother = ""
		}

		// Fill an empty side with a spouse-linked adoptive or step-parent
		// so the couple exports as a single family record.
		if father == "" && mother != "" {
			if id, rel := b.fillSide(c, mother, c.AdoptiveFatherID, c.StepfatherIDs, fatherSide); id != "" {
				father, frel = id, rel
			}
		}
		if mother == "" && father != "" {
			if id, rel := b.fillSide(c, father, c.AdoptiveMotherID, c.StepmotherIDs, motherSide); id != "" {
				mother, mrel = id, rel
			}
		}

		if father == "" && mother == "" {
			continue
		}

		fam := b.family(&b.groups.Birth, father, mother)
		fam.Children = append(fam.Children, model.ChildRef{ID: c.CrID, FatherRel: frel, MotherRel: mrel})

		if father != "" && mother != "" {
			if p, ok := b.g.byID[father]; ok {
				if m, ok := p.Marriages[mother]; ok {
					fam.MarriageDate = m.Date
					fam.MarriagePlace = m.Place
				}
			}
		}
	}
}

// fillSide picks an adoptive parent first, then the first step-parent in
// sorted order, provided the candidate is a spouse of the present parent.
// The chosen side is consumed for the later passes.
func (b *familyBuilder) fillSide(c *model.Person, partner, adoptive string, steps []string, side parentSide) (string, model.ParentalRelation) {
	if adoptive != "" && b.spouseLinked(adoptive, partner) {
		b.consumed[sideKey(c.CrID, adoptive, side)] = true
		return adoptive, model.RelationAdopted
	}
	sorted := append([]string(nil), steps...)
	sort.Strings(sorted)
	for _, s := range sorted {
		if b.spouseLinked(s, partner) {
			b.consumed[sideKey(c.CrID, s, side)] = true
			return s, model.RelationStepchild
		}
	}
	return "", model.RelationBirth
}

func (b *familyBuilder) stepPass(persons []*model.Person) {
	for _, c := range persons {
		b.stepSide(c, c.StepfatherIDs, fatherSide)
		b.stepSide(c, c.StepmotherIDs, motherSide)
	}
}

func (b *familyBuilder) stepSide(c *model.Person, stepParents []string, side parentSide) {
	sorted := append([]string(nil), stepParents...)
	sort.Strings(sorted)

	for _, sp := range sorted {
		if b.consumed[sideKey(c.CrID, sp, side)] {
			continue
		}
		if !b.exists(c.CrID, sp) {
			continue
		}

		// Join the step-parent's spouse (the child's birth parent on the
		// other side) into the same family record when linked.
		partner := ""
		if side == fatherSide {
			if c.MotherID != "" && b.spouseLinked(sp, c.MotherID) {
				partner = c.MotherID
			}
		} else {
			if c.FatherID != "" && b.spouseLinked(sp, c.FatherID) {
				partner = c.FatherID
			}
		}

		var fam *model.Family
		ref := model.ChildRef{ID: c.CrID, FatherRel: model.RelationBirth, MotherRel: model.RelationBirth}
		if side == fatherSide {
			fam = b.family(&b.groups.Step, sp, partner)
			ref.FatherRel = model.RelationStepchild
		} else {
			fam = b.family(&b.groups.Step, partner, sp)
			ref.MotherRel = model.RelationStepchild
		}
		fam.Children = append(fam.Children, ref)
	}
}

func (b *familyBuilder) adoptivePass(persons []*model.Person) {
	for _, c := range persons {
		father := c.AdoptiveFatherID
		mother := c.AdoptiveMotherID
		if father != "" && (b.consumed[sideKey(c.CrID, father, fatherSide)] || !b.exists(c.CrID, father)) {
			father = ""
		}
		if mother != "" && (b.consumed[sideKey(c.CrID, mother, motherSide)] || !b.exists(c.CrID, mother)) {
			mother = ""
		}
		if father == "" && mother == "" {
			continue
		}

		ref := model.ChildRef{ID: c.CrID, FatherRel: model.RelationBirth, MotherRel: model.RelationBirth}
		if father != "" {
			ref.FatherRel = model.RelationAdopted
		}
		if mother != "" {
			ref.MotherRel = model.RelationAdopted
		}

		fam := b.family(&b.groups.Adoptive, father, mother)
		fam.Children = append(fam.Children, ref)
	}
}

// childlessCouples emits an empty family for every spouse pair that no
// grouping produced a record for, so marriages survive export.
func (b *familyBuilder) childlessCouples(persons []*model.Person) {
	for _, p := range persons {
		spouses := append([]string(nil), p.SpouseIDs...)
		sort.Strings(spouses)
		for _, spouseID := range spouses {
			if p.CrID >= spouseID {
				continue // each couple once
			}
			if _, ok := b.g.byID[spouseID]; !ok {
				continue
			}
			if b.pairs[coupleKey(p.CrID, spouseID)] {
				continue
			}

			father, mother := coupleRoles(p, b.g.byID[spouseID])
			fam := b.family(&b.groups.Birth, father, mother)
			if fp, ok := b.g.byID[father]; ok {
				if m, ok := fp.Marriages[mother]; ok {
					fam.MarriageDate = m.Date
					fam.MarriagePlace = m.Place
				}
			}
		}
	}
}

// coupleRoles assigns father/mother roles for a childless couple by sex,
// falling back to cr_id order for same-sex or unknown pairs.
func coupleRoles(a, b *model.Person) (father, mother string) {
	switch {
	case a.Sex == model.SexMale || b.Sex == model.SexFemale:
		return a.CrID, b.CrID
	case a.Sex == model.SexFemale || b.Sex == model.SexMale:
		return b.CrID, a.CrID
	default:
		return a.CrID, b.CrID
	}
}
