package gedcom

import (
	"strings"

	"github.com/prentissw/charted-roots/internal/dates"
	"github.com/prentissw/charted-roots/internal/model"
	"github.com/prentissw/charted-roots/internal/resolve"
)

// ImportResult is the outcome of turning a GEDCOM file into canonical
// persons.
type ImportResult struct {
	Persons     []*model.Person
	Diagnostics *Diagnostics
	Resolution  *resolve.Result
}

// Import parses a GEDCOM file and resolves it into canonical persons, in
// file order. Dates are converted from the GEDCOM grammar to ISO where
// possible and kept verbatim otherwise.
func Import(data []byte) (*ImportResult, error) {
	doc, diags, err := Parse(data)
	if err != nil {
		return nil, err
	}

	byXRef := make(map[string]*model.Person, len(doc.Individuals))
	persons := make([]*model.Person, 0, len(doc.Individuals))
	for _, xref := range doc.IndiOrder {
		ind := doc.Individuals[xref]
		p := &model.Person{
			CrID:        trimXRef(xref),
			Name:        ind.Name,
			Sex:         model.ParseSex(ind.Sex),
			BirthDate:   dates.FromGEDCOM(ind.BirthDate),
			BirthPlace:  ind.BirthPlace,
			DeathDate:   dates.FromGEDCOM(ind.DeathDate),
			DeathPlace:  ind.DeathPlace,
			BurialPlace: ind.BurialPlace,
			Occupation:  ind.Occupation,
		}
		byXRef[xref] = p
		persons = append(persons, p)
	}

	families := make([]resolve.RawFamily, 0, len(doc.Families))
	for _, f := range doc.Families {
		raw := resolve.RawFamily{
			Handle:        f.XRef,
			FatherHandle:  f.Husband,
			MotherHandle:  f.Wife,
			MarriageDate:  dates.FromGEDCOM(f.MarriageDate),
			MarriagePlace: f.MarriagePlace,
		}
		for _, c := range f.Children {
			frel, mrel := c.FRel, c.MRel
			// A PEDI adopted on the child's FAMC link marks the whole
			// family adoptive unless a per-side tag already says more.
			if pedigree(doc, c.XRef, f.XRef) == "adopted" {
				if frel == model.RelationBirth {
					frel = model.RelationAdopted
				}
				if mrel == model.RelationBirth {
					mrel = model.RelationAdopted
				}
			}
			raw.Children = append(raw.Children, resolve.RawChild{
				Handle:    c.XRef,
				FatherRel: frel,
				MotherRel: mrel,
			})
		}
		families = append(families, raw)
	}

	res := resolve.Resolve(byXRef, families)

	return &ImportResult{
		Persons:     persons,
		Diagnostics: diags,
		Resolution:  res,
	}, nil
}

func pedigree(doc *Document, childXRef, famXRef string) string {
	ind, ok := doc.Individuals[childXRef]
	if !ok {
		return ""
	}
	for _, link := range ind.FamilyChild {
		if link.FamilyXRef == famXRef {
			return link.Pedigree
		}
	}
	return ""
}

func trimXRef(xref string) string {
	return strings.Trim(xref, "@")
}
