package gramps

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/prentissw/charted-roots/internal/model"
)

// Issue is one structural problem found during parsing, with element-path
// context.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	return i.Path + ": " + i.Message
}

// Diagnostics accumulates every problem found in a document. Parsing never
// stops at the first error; callers need the full list.
type Diagnostics struct {
	Errors   []Issue
	Warnings []Issue
}

// Valid reports whether the document parsed without hard errors.
// A document can be invalid and still have every other entity parsed.
func (d *Diagnostics) Valid() bool {
	return len(d.Errors) == 0
}

func (d *Diagnostics) errorf(path, format string, args ...interface{}) {
	d.Errors = append(d.Errors, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (d *Diagnostics) warnf(path, format string, args ...interface{}) {
	d.Warnings = append(d.Warnings, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Person is a parsed person record, still keyed by its document handle.
type Person struct {
	Handle string
	ID     string

	Gender  string
	First   string
	Surname string

	BirthDate   string
	BirthPlace  string
	DeathDate   string
	DeathPlace  string
	BurialPlace string

	ChildOf  []string
	ParentIn []string
}

// DisplayName joins the name parts.
func (p *Person) DisplayName() string {
	return strings.TrimSpace(strings.TrimSpace(p.First) + " " + strings.TrimSpace(p.Surname))
}

// ChildRef is one child entry of a parsed family. Absent qualifiers have
// already been normalized to Birth.
type ChildRef struct {
	Handle string
	FRel   model.ParentalRelation
	MRel   model.ParentalRelation
}

// Family is a parsed family record.
type Family struct {
	Handle string
	ID     string

	FatherHandle string
	MotherHandle string
	Children     []ChildRef

	MarriageDate  string
	MarriagePlace string
}

// Event is a parsed event. Date carries whichever of dateval/datestr the
// document had, verbatim.
type Event struct {
	Handle      string
	ID          string
	Type        string
	Date        string
	PlaceHandle string
	Description string
}

// Place is a parsed place, with its enclosing place still a handle.
type Place struct {
	Handle       string
	ID           string
	Name         string
	Type         string
	ParentHandle string
}

// Citation is a parsed citation with its confidence already mapped to the
// internal three-level scale.
type Citation struct {
	Handle       string
	SourceHandle string
	Raw          int
	Confidence   model.Confidence
}

// Source is a parsed source record.
type Source struct {
	Handle string
	Title  string
	Author string
}

// Note is a parsed note record.
type Note struct {
	Handle string
	Type   string
	Text   string
}

// Repository is a parsed repository record.
type Repository struct {
	Handle string
	Name   string
}

// MediaObject is a parsed media object record.
type MediaObject struct {
	Handle string
	Src    string
	Mime   string
}

// Document is a fully parsed Gramps database, every collection keyed by
// handle. PersonOrder preserves document order for deterministic walks.
type Document struct {
	Persons     map[string]*Person
	PersonOrder []string
	Families    []Family

	Events       map[string]*Event
	Places       map[string]*Place
	Sources      map[string]*Source
	Citations    map[string]*Citation
	Notes        map[string]*Note
	Repositories map[string]*Repository
	Media        map[string]*MediaObject
}

// Parse reads a Gramps XML document. A missing or wrong root element is a
// hard parse failure returned as error; every other problem is accumulated
// in the diagnostics, and the document is returned even when invalid so
// callers can enumerate what did parse.
func Parse(data []byte) (*Document, *Diagnostics, error) {
	var db xmlDatabase
	if err := xml.Unmarshal(data, &db); err != nil {
		return nil, nil, fmt.Errorf("not a gramps database: %w", err)
	}

	diags := &Diagnostics{}
	doc := &Document{
		Persons:      make(map[string]*Person),
		Events:       make(map[string]*Event),
		Places:       make(map[string]*Place),
		Sources:      make(map[string]*Source),
		Citations:    make(map[string]*Citation),
		Notes:        make(map[string]*Note),
		Repositories: make(map[string]*Repository),
		Media:        make(map[string]*MediaObject),
	}

	// Stage order matters: everything referenced by handle is parsed
	// before its referrers, so lookups below resolve in one pass.
	parseNotes(doc, diags, db.Notes)
	parseRepositories(doc, diags, db.Repositories)
	parsePlaces(doc, diags, db.Places)
	parseSources(doc, diags, db.Sources)
	parseCitations(doc, diags, db.Citations)
	parseMedia(doc, diags, db.Objects)
	parseEvents(doc, diags, db.Events)
	parsePeople(doc, diags, db.People)
	parseFamilies(doc, diags, db.Families)

	return doc, diags, nil
}

func parseNotes(doc *Document, diags *Diagnostics, notes []xmlNote) {
	for i, n := range notes {
		if n.Handle == "" {
			diags.warnf(fmt.Sprintf("notes/note[%d]", i), "missing handle, skipped")
			continue
		}
		doc.Notes[n.Handle] = &Note{Handle: n.Handle, Type: n.Type, Text: n.Text}
	}
}

func parseRepositories(doc *Document, diags *Diagnostics, repos []xmlRepository) {
	for i, r := range repos {
		if r.Handle == "" {
			diags.warnf(fmt.Sprintf("repositories/repository[%d]", i), "missing handle, skipped")
			continue
		}
		doc.Repositories[r.Handle] = &Repository{Handle: r.Handle, Name: r.Name}
	}
}

func parsePlaces(doc *Document, diags *Diagnostics, places []xmlPlaceObj) {
	for i, p := range places {
		path := fmt.Sprintf("places/placeobj[%d]", i)
		if p.Handle == "" {
			diags.warnf(path, "missing handle, skipped")
			continue
		}
		place := &Place{Handle: p.Handle, ID: p.ID, Type: p.Type}
		if len(p.Names) > 0 {
			place.Name = p.Names[0].Value
		}
		if place.Name == "" {
			diags.warnf(path, "place %s has no name", p.Handle)
		}
		if len(p.PlaceRefs) > 0 {
			place.ParentHandle = p.PlaceRefs[0].HLink
		}
		doc.Places[p.Handle] = place
	}
}

func parseSources(doc *Document, diags *Diagnostics, sources []xmlSource) {
	for i, s := range sources {
		if s.Handle == "" {
			diags.warnf(fmt.Sprintf("sources/source[%d]", i), "missing handle, skipped")
			continue
		}
		doc.Sources[s.Handle] = &Source{Handle: s.Handle, Title: s.Title, Author: s.Author}
	}
}

func parseCitations(doc *Document, diags *Diagnostics, citations []xmlCitation) {
	for i, c := range citations {
		path := fmt.Sprintf("citations/citation[%d]", i)
		if c.Handle == "" {
			diags.warnf(path, "missing handle, skipped")
			continue
		}
		cit := &Citation{Handle: c.Handle, Raw: c.Confidence, Confidence: model.ConfidenceFromGramps(c.Confidence)}
		if c.SourceRef != nil {
			cit.SourceHandle = c.SourceRef.HLink
			if _, ok := doc.Sources[cit.SourceHandle]; !ok {
				diags.warnf(path, "citation %s references unknown source %q", c.Handle, cit.SourceHandle)
			}
		}
		doc.Citations[c.Handle] = cit
	}
}

func parseMedia(doc *Document, diags *Diagnostics, objects []xmlObject) {
	for i, o := range objects {
		if o.Handle == "" {
			diags.warnf(fmt.Sprintf("objects/object[%d]", i), "missing handle, skipped")
			continue
		}
		m := &MediaObject{Handle: o.Handle}
		if o.File != nil {
			m.Src = o.File.Src
			m.Mime = o.File.Mime
		}
		doc.Media[o.Handle] = m
	}
}

func parseEvents(doc *Document, diags *Diagnostics, events []xmlEvent) {
	for i, e := range events {
		path := fmt.Sprintf("events/event[%d]", i)
		if e.Handle == "" {
			diags.warnf(path, "missing handle, skipped")
			continue
		}
		ev := &Event{Handle: e.Handle, ID: e.ID, Type: e.Type, Description: e.Description}
		switch {
		case e.DateVal != nil:
			ev.Date = e.DateVal.Val
		case e.DateStr != nil:
			ev.Date = e.DateStr.Val
		}
		if e.Place != nil {
			ev.PlaceHandle = e.Place.HLink
			if _, ok := doc.Places[ev.PlaceHandle]; !ok {
				diags.warnf(path, "event %s references unknown place %q", e.Handle, ev.PlaceHandle)
			}
		}
		doc.Events[e.Handle] = ev
	}
}

func parsePeople(doc *Document, diags *Diagnostics, people []xmlPerson) {
	for i, xp := range people {
		path := fmt.Sprintf("people/person[%d]", i)
		if xp.Handle == "" {
			// A person without its native handle cannot be referenced by
			// any family; the document as a whole is invalid.
			diags.errorf(path, "person missing handle")
			continue
		}
		if _, dup := doc.Persons[xp.Handle]; dup {
			diags.errorf(path, "duplicate person handle %q", xp.Handle)
			continue
		}

		p := &Person{Handle: xp.Handle, ID: xp.ID}

		p.Gender = strings.ToUpper(strings.TrimSpace(xp.Gender))
		if p.Gender == "" {
			diags.warnf(path, "person %s has no gender", xp.Handle)
			p.Gender = "U"
		}
		if xp.Name != nil {
			p.First = xp.Name.First
			p.Surname = xp.Name.Surname
		}

		for _, ref := range xp.EventRefs {
			ev, ok := doc.Events[ref.HLink]
			if !ok {
				diags.warnf(path, "person %s references unknown event %q", xp.Handle, ref.HLink)
				continue
			}
			placeName := doc.placeName(ev.PlaceHandle)
			switch ev.Type {
			case "Birth":
				p.BirthDate = ev.Date
				p.BirthPlace = placeName
			case "Death":
				p.DeathDate = ev.Date
				p.DeathPlace = placeName
			case "Burial":
				p.BurialPlace = placeName
			}
		}

		for _, ref := range xp.ChildOf {
			p.ChildOf = append(p.ChildOf, ref.HLink)
		}
		for _, ref := range xp.ParentIn {
			p.ParentIn = append(p.ParentIn, ref.HLink)
		}

		doc.Persons[xp.Handle] = p
		doc.PersonOrder = append(doc.PersonOrder, xp.Handle)
	}
}

func parseFamilies(doc *Document, diags *Diagnostics, families []xmlFamily) {
	for i, xf := range families {
		path := fmt.Sprintf("families/family[%d]", i)
		if xf.Handle == "" {
			diags.errorf(path, "family missing handle")
			continue
		}

		f := Family{Handle: xf.Handle, ID: xf.ID}
		if xf.Father != nil {
			f.FatherHandle = xf.Father.HLink
		}
		if xf.Mother != nil {
			f.MotherHandle = xf.Mother.HLink
		}

		for _, cr := range xf.ChildRefs {
			f.Children = append(f.Children, ChildRef{
				Handle: cr.HLink,
				FRel:   model.ParseParentalRelation(cr.FRel),
				MRel:   model.ParseParentalRelation(cr.MRel),
			})
		}

		for _, ref := range xf.EventRefs {
			ev, ok := doc.Events[ref.HLink]
			if !ok {
				diags.warnf(path, "family %s references unknown event %q", xf.Handle, ref.HLink)
				continue
			}
			if ev.Type == "Marriage" {
				f.MarriageDate = ev.Date
				f.MarriagePlace = doc.placeName(ev.PlaceHandle)
			}
		}

		doc.Families = append(doc.Families, f)
	}
}

// placeName resolves a place handle to its name, empty when absent.
func (doc *Document) placeName(handle string) string {
	if handle == "" {
		return ""
	}
	if p, ok := doc.Places[handle]; ok {
		return p.Name
	}
	return ""
}
