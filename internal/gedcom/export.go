package gedcom

import (
	"fmt"
	"strings"

	"github.com/prentissw/charted-roots/internal/dates"
	"github.com/prentissw/charted-roots/internal/graph"
	"github.com/prentissw/charted-roots/internal/model"
)

// ExportOptions configures an export run.
type ExportOptions struct {
	Privacy bool
	Policy  model.PrivacyPolicy
}

// Export writes the graph as a GEDCOM 5.5.1 file. Returns the file and the
// warnings accumulated while deriving it. Output is deterministic for a
// given graph and options.
func Export(g *graph.Graph, opts ExportOptions) ([]byte, []string, error) {
	persons, warnings := g.Exportable(opts.Privacy, opts.Policy)

	wg := graph.New()
	wg.SetPersons(persons)

	fg := wg.SynthesizeFamilies()
	warnings = append(warnings, fg.Warnings...)
	families := fg.All()

	// Cross-reference IDs are assigned for every person and family before
	// any record is written: INDI records carry FAMC/FAMS links to family
	// IDs that must already exist.
	indiXRef := make(map[string]string)
	for i, p := range wg.Persons() {
		indiXRef[p.CrID] = fmt.Sprintf("@I%04d@", i+1)
	}
	famXRef := make([]string, len(families))
	for i := range families {
		famXRef[i] = fmt.Sprintf("@F%04d@", i+1)
	}

	famc := make(map[string][]int) // cr_id -> family indices as child
	fams := make(map[string][]int) // cr_id -> family indices as parent
	for i, f := range families {
		if f.FatherID != "" {
			fams[f.FatherID] = append(fams[f.FatherID], i)
		}
		if f.MotherID != "" {
			fams[f.MotherID] = append(fams[f.MotherID], i)
		}
		for _, c := range f.Children {
			famc[c.ID] = append(famc[c.ID], i)
		}
	}

	var b strings.Builder
	w := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	w("0 HEAD")
	w("1 SOUR CHARTED_ROOTS")
	w("1 GEDC")
	w("2 VERS 5.5.1")
	w("2 FORM LINEAGE-LINKED")
	w("1 CHAR UTF-8")

	for _, p := range wg.Persons() {
		w("0 %s INDI", indiXRef[p.CrID])
		given, surname := splitDisplayName(p.Name)
		if given != "" || surname != "" {
			w("1 NAME %s /%s/", given, surname)
		}
		if p.Sex == model.SexMale || p.Sex == model.SexFemale {
			w("1 SEX %s", p.Sex)
		}
		writeEvent(w, "BIRT", p.BirthDate, p.BirthPlace)
		writeEvent(w, "DEAT", p.DeathDate, p.DeathPlace)
		if p.BurialPlace != "" {
			w("1 BURI")
			w("2 PLAC %s", p.BurialPlace)
		}
		if p.Occupation != "" {
			w("1 OCCU %s", p.Occupation)
		}
		for _, i := range famc[p.CrID] {
			w("1 FAMC %s", famXRef[i])
		}
		for _, i := range fams[p.CrID] {
			w("1 FAMS %s", famXRef[i])
		}
	}

	for i, f := range families {
		w("0 %s FAM", famXRef[i])
		if f.FatherID != "" {
			w("1 HUSB %s", indiXRef[f.FatherID])
		}
		if f.MotherID != "" {
			w("1 WIFE %s", indiXRef[f.MotherID])
		}
		if f.MarriageDate != "" || f.MarriagePlace != "" {
			w("1 MARR")
			if d := dates.ToGEDCOM(f.MarriageDate); d != "" {
				w("2 DATE %s", d)
			}
			if f.MarriagePlace != "" {
				w("2 PLAC %s", f.MarriagePlace)
			}
		}
		for _, c := range f.Children {
			w("1 CHIL %s", indiXRef[c.ID])
			if c.FatherRel != model.RelationBirth && c.FatherRel != "" {
				w("2 _FREL %s", c.FatherRel)
			}
			if c.MotherRel != model.RelationBirth && c.MotherRel != "" {
				w("2 _MREL %s", c.MotherRel)
			}
		}
	}

	w("0 TRLR")

	return []byte(b.String()), warnings, nil
}

func writeEvent(w func(string, ...interface{}), tag, date, place string) {
	if date == "" && place == "" {
		return
	}
	w("1 %s", tag)
	if d := dates.ToGEDCOM(date); d != "" {
		w("2 DATE %s", d)
	}
	if place != "" {
		w("2 PLAC %s", place)
	}
}

// splitDisplayName splits a display name for the NAME line, the final word
// as surname.
func splitDisplayName(name string) (given, surname string) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return strings.Join(fields[:len(fields)-1], " "), fields[len(fields)-1]
	}
}
