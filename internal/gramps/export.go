package gramps

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/prentissw/charted-roots/internal/dates"
	"github.com/prentissw/charted-roots/internal/graph"
	"github.com/prentissw/charted-roots/internal/model"
)

// PolicyObfuscate and PolicyExclude are re-exported for callers that only
// import this package.
const (
	PolicyObfuscate = model.PolicyObfuscate
	PolicyExclude   = model.PolicyExclude
)

// ExportOptions configures an export run.
type ExportOptions struct {
	Privacy bool
	Policy  model.PrivacyPolicy
}

// Export writes the graph as a Gramps XML document. Returns the document
// and the warnings accumulated while deriving it (dropped edges, privacy
// exclusions). Output is deterministic for a given graph and options apart
// from the header timestamp.
func Export(g *graph.Graph, opts ExportOptions) ([]byte, []string, error) {
	persons, warnings := g.Exportable(opts.Privacy, opts.Policy)

	wg := graph.New()
	wg.SetPersons(persons)

	e := &exporter{
		g:             wg,
		personHandles: make(map[string]string),
		placeHandles:  make(map[string]string),
	}

	// Handles are assigned before any family or event XML is built:
	// person records carry childof/parentin back-references to family
	// handles that must already exist.
	for _, p := range wg.Persons() {
		e.personHandles[p.CrID] = "_" + p.CrID
	}

	fg := wg.SynthesizeFamilies()
	warnings = append(warnings, fg.Warnings...)
	e.families = fg.All()
	for i := range e.families {
		e.familyHandles = append(e.familyHandles, fmt.Sprintf("_f%04d", i+1))
	}

	e.collectPlaces()
	e.buildEvents()

	db := e.build()
	out, err := xml.MarshalIndent(db, "", "  ")
	if err != nil {
		return nil, warnings, fmt.Errorf("marshaling gramps xml: %w", err)
	}
	return append([]byte(xml.Header), append(out, '\n')...), warnings, nil
}

type exporter struct {
	g *graph.Graph

	personHandles map[string]string
	families      []*model.Family
	familyHandles []string

	placeOrder   []string
	placeHandles map[string]string

	events       []xmlEvent
	personEvents map[string][]string // cr_id -> event handles
	familyEvents []string            // per family index, "" when none
}

// collectPlaces gathers every distinct place name in a stable order:
// persons first, families after, each walked deterministically.
func (e *exporter) collectPlaces() {
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := e.placeHandles[name]; ok {
			return
		}
		e.placeHandles[name] = fmt.Sprintf("_p%04d", len(e.placeOrder)+1)
		e.placeOrder = append(e.placeOrder, name)
	}

	for _, p := range e.g.Persons() {
		add(p.BirthPlace)
		add(p.DeathPlace)
		add(p.BurialPlace)
	}
	for _, f := range e.families {
		add(f.MarriagePlace)
	}
}

func (e *exporter) addEvent(typ, date, place string) string {
	handle := fmt.Sprintf("_e%04d", len(e.events)+1)
	ev := xmlEvent{
		Handle: handle,
		ID:     fmt.Sprintf("E%04d", len(e.events)+1),
		Type:   typ,
	}

	// Date fallback chain: full ISO, free-text wrapper, bare year.
	// A date is never silently dropped.
	switch n := dates.Normalize(date); n.Kind {
	case dates.KindFull, dates.KindYear:
		ev.DateVal = &xmlDateVal{Val: n.Value}
	case dates.KindText:
		ev.DateStr = &xmlDateStr{Val: n.Value}
	}

	if place != "" {
		ev.Place = &xmlHlink{HLink: e.placeHandles[place]}
	}

	e.events = append(e.events, ev)
	return handle
}

func (e *exporter) buildEvents() {
	e.personEvents = make(map[string][]string)
	for _, p := range e.g.Persons() {
		if p.BirthDate != "" || p.BirthPlace != "" {
			e.personEvents[p.CrID] = append(e.personEvents[p.CrID], e.addEvent("Birth", p.BirthDate, p.BirthPlace))
		}
		if p.DeathDate != "" || p.DeathPlace != "" {
			e.personEvents[p.CrID] = append(e.personEvents[p.CrID], e.addEvent("Death", p.DeathDate, p.DeathPlace))
		}
		if p.BurialPlace != "" {
			e.personEvents[p.CrID] = append(e.personEvents[p.CrID], e.addEvent("Burial", "", p.BurialPlace))
		}
	}

	for _, f := range e.families {
		if f.MarriageDate == "" && f.MarriagePlace == "" {
			e.familyEvents = append(e.familyEvents, "")
			continue
		}
		e.familyEvents = append(e.familyEvents, e.addEvent("Marriage", f.MarriageDate, f.MarriagePlace))
	}
}

func (e *exporter) build() *xmlDatabase {
	db := &xmlDatabase{
		Xmlns: xmlns,
		Header: &xmlHeader{
			Created: &xmlCreated{
				Date:    time.Now().UTC().Format("2006-01-02"),
				Version: "1.7.1",
			},
		},
		Events: e.events,
	}

	// Family membership back-references per person.
	childOf := make(map[string][]string)
	parentIn := make(map[string][]string)
	for i, f := range e.families {
		fh := e.familyHandles[i]
		if f.FatherID != "" {
			parentIn[f.FatherID] = append(parentIn[f.FatherID], fh)
		}
		if f.MotherID != "" {
			parentIn[f.MotherID] = append(parentIn[f.MotherID], fh)
		}
		for _, c := range f.Children {
			childOf[c.ID] = append(childOf[c.ID], fh)
		}
	}

	for i, p := range e.g.Persons() {
		first, surname := splitName(p.Name)
		xp := xmlPerson{
			Handle: e.personHandles[p.CrID],
			ID:     fmt.Sprintf("I%04d", i+1),
			Gender: string(model.ParseSex(string(p.Sex))),
		}
		if first != "" || surname != "" {
			xp.Name = &xmlName{Type: "Birth Name", First: first, Surname: surname}
		}
		for _, eh := range e.personEvents[p.CrID] {
			xp.EventRefs = append(xp.EventRefs, xmlHlink{HLink: eh})
		}
		for _, fh := range childOf[p.CrID] {
			xp.ChildOf = append(xp.ChildOf, xmlHlink{HLink: fh})
		}
		for _, fh := range parentIn[p.CrID] {
			xp.ParentIn = append(xp.ParentIn, xmlHlink{HLink: fh})
		}
		db.People = append(db.People, xp)
	}

	for i, f := range e.families {
		xf := xmlFamily{
			Handle: e.familyHandles[i],
			ID:     fmt.Sprintf("F%04d", i+1),
		}
		if f.HasBothParents() {
			xf.Rel = &xmlRelType{Type: "Married"}
		}
		if f.FatherID != "" {
			xf.Father = &xmlHlink{HLink: e.personHandles[f.FatherID]}
		}
		if f.MotherID != "" {
			xf.Mother = &xmlHlink{HLink: e.personHandles[f.MotherID]}
		}
		if e.familyEvents[i] != "" {
			xf.EventRefs = append(xf.EventRefs, xmlHlink{HLink: e.familyEvents[i]})
		}
		for _, c := range f.Children {
			xf.ChildRefs = append(xf.ChildRefs, xmlChildRef{
				HLink: e.personHandles[c.ID],
				FRel:  relAttr(c.FatherRel),
				MRel:  relAttr(c.MotherRel),
			})
		}
		db.Families = append(db.Families, xf)
	}

	for _, name := range e.placeOrder {
		po := xmlPlaceObj{
			Handle: e.placeHandles[name],
			Names:  []xmlPName{{Value: name}},
		}
		if t := model.InferPlaceType(name); t != model.PlaceTypeUnknown {
			po.Type = string(t)
		}
		db.Places = append(db.Places, po)
	}

	return db
}

// relAttr renders a qualifier as a childref attribute, omitting Birth.
func relAttr(rel model.ParentalRelation) string {
	if rel == model.RelationBirth || rel == "" {
		return ""
	}
	return string(rel)
}

// splitName splits a display name into first and surname parts, treating
// the final word as the surname.
func splitName(name string) (first, surname string) {
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
