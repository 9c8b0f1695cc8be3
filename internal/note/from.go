package note

import "github.com/prentissw/charted-roots/internal/model"

// FromPerson builds a person record carrying only the stable-ID side of
// each relationship field. The wikilink side is left empty; the sync pass
// fills it in once note names exist. Used when importing.
func FromPerson(p *model.Person) *PersonRecord {
	r := &PersonRecord{
		CrID:           p.CrID,
		Name:           p.Name,
		Sex:            p.Sex,
		GenderIdentity: p.GenderIdentity,
		Pronouns:       p.Pronouns,
		BirthDate:      p.BirthDate,
		DeathDate:      p.DeathDate,
		BirthPlace:     p.BirthPlace,
		DeathPlace:     p.DeathPlace,
		BurialPlace:    p.BurialPlace,
		Occupation:     p.Occupation,
		ResearchLevel:  p.ResearchLevel,

		Father:         DualRef{ID: p.FatherID},
		Mother:         DualRef{ID: p.MotherID},
		AdoptiveFather: DualRef{ID: p.AdoptiveFatherID},
		AdoptiveMother: DualRef{ID: p.AdoptiveMotherID},
	}
	if len(p.StepfatherIDs) > 0 {
		r.Stepfathers = DualList{IDs: append([]string(nil), p.StepfatherIDs...)}
	}
	if len(p.StepmotherIDs) > 0 {
		r.Stepmothers = DualList{IDs: append([]string(nil), p.StepmotherIDs...)}
	}
	if len(p.SpouseIDs) > 0 {
		r.Spouses = DualList{IDs: append([]string(nil), p.SpouseIDs...)}
	}
	if len(p.ChildrenIDs) > 0 {
		r.Children = DualList{IDs: append([]string(nil), p.ChildrenIDs...)}
	}
	return r
}
