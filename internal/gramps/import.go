package gramps

import (
	"github.com/prentissw/charted-roots/internal/model"
	"github.com/prentissw/charted-roots/internal/resolve"
)

// ImportResult is the outcome of turning a document into canonical persons.
type ImportResult struct {
	Persons     []*model.Person
	Diagnostics *Diagnostics
	Resolution  *resolve.Result
}

// Import parses a Gramps XML document and resolves it into canonical
// persons. The returned persons are in document order. An invalid document
// still resolves whatever parsed; callers decide based on
// Diagnostics.Valid whether to accept the result.
func Import(data []byte) (*ImportResult, error) {
	doc, diags, err := Parse(data)
	if err != nil {
		return nil, err
	}

	byHandle := make(map[string]*model.Person, len(doc.Persons))
	persons := make([]*model.Person, 0, len(doc.Persons))
	for _, handle := range doc.PersonOrder {
		rec := doc.Persons[handle]
		p := &model.Person{
			CrID:       crIDFor(rec),
			Name:       rec.DisplayName(),
			Sex:        model.ParseSex(rec.Gender),
			BirthDate:  rec.BirthDate,
			BirthPlace: rec.BirthPlace,
			DeathDate:  rec.DeathDate,
			DeathPlace: rec.DeathPlace,
		}
		if rec.BurialPlace != "" {
			p.BurialPlace = rec.BurialPlace
		}
		byHandle[handle] = p
		persons = append(persons, p)
	}

	families := make([]resolve.RawFamily, 0, len(doc.Families))
	for _, f := range doc.Families {
		raw := resolve.RawFamily{
			Handle:        f.Handle,
			FatherHandle:  f.FatherHandle,
			MotherHandle:  f.MotherHandle,
			MarriageDate:  f.MarriageDate,
			MarriagePlace: f.MarriagePlace,
		}
		for _, c := range f.Children {
			raw.Children = append(raw.Children, resolve.RawChild{
				Handle:    c.Handle,
				FatherRel: c.FRel,
				MotherRel: c.MRel,
			})
		}
		families = append(families, raw)
	}

	res := resolve.Resolve(byHandle, families)

	return &ImportResult{
		Persons:     persons,
		Diagnostics: diags,
		Resolution:  res,
	}, nil
}

// crIDFor derives a stable cr_id for an imported person: the Gramps id
// when present, else the handle stripped of its leading underscore.
func crIDFor(rec *Person) string {
	if rec.ID != "" {
		return rec.ID
	}
	handle := rec.Handle
	for len(handle) > 0 && handle[0] == '_' {
		handle = handle[1:]
	}
	return handle
}
