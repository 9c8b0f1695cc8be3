// Package note parses and serializes the vault's markdown note records.
//
// Each person, place, and event is a markdown file whose YAML frontmatter
// carries the record fields. Relationship fields use dual storage: a
// human-navigable wikilink field plus a stable-ID field that survives note
// renames. Reads are ID-first with wikilink fallback; the synchronizer keeps
// the two in step on write.
package note

import (
	"strings"

	"github.com/prentissw/charted-roots/internal/model"
	"github.com/prentissw/charted-roots/internal/wikilink"
)

// TypePerson, TypePlace and TypeEvent are the recognized note kinds, read
// from the frontmatter "type" field.
const (
	TypePerson = "person"
	TypePlace  = "place"
	TypeEvent  = "event"
)

// DualRef is a single-valued relationship field stored twice: as a wikilink
// to the related note and as that person's cr_id.
type DualRef struct {
	Link string // wikilink target (note name), empty if absent
	ID   string // cr_id, empty if absent
}

// Empty reports whether neither representation is present.
func (d DualRef) Empty() bool {
	return d.Link == "" && d.ID == ""
}

// DualList is a multi-valued relationship field stored twice.
type DualList struct {
	Links []string
	IDs   []string
}

// PersonRecord is the parsed frontmatter of a person note.
type PersonRecord struct {
	// Path is the vault-relative file path; NoteName is its base without
	// the .md extension and doubles as the wikilink target.
	Path     string
	NoteName string

	CrID           string
	Name           string
	Sex            model.Sex
	GenderIdentity string
	Pronouns       string
	BirthDate      string
	DeathDate      string
	BirthPlace     string
	DeathPlace     string
	BurialPlace    string
	Occupation     string
	ResearchLevel  model.ResearchLevel

	Father         DualRef
	Mother         DualRef
	AdoptiveFather DualRef
	AdoptiveMother DualRef
	Stepfathers    DualList
	Stepmothers    DualList
	Spouses        DualList
	Children       DualList

	// Extras holds every frontmatter field the engine does not interpret,
	// preserved verbatim on write-back. Keys with a leading underscore are
	// private by convention and never surfaced to exports.
	Extras map[string]interface{}

	// Body is the markdown content after the frontmatter block.
	Body string
}

// PrivateExtras returns the underscore-prefixed private fields.
func (r *PersonRecord) PrivateExtras() map[string]interface{} {
	out := make(map[string]interface{})
	for k, v := range r.Extras {
		if strings.HasPrefix(k, "_") {
			out[k] = v
		}
	}
	return out
}

// Resolve applies the ID-first, wikilink-fallback policy to a dual field.
// lookup maps a wikilink target to a cr_id. The second return reports
// whether the wikilink disagreed with (or substituted for) the ID field,
// meaning the pair is due for repair on next write.
func (d DualRef) Resolve(lookup func(target string) (string, bool)) (string, bool) {
	if d.ID != "" {
		stale := false
		if d.Link != "" {
			if id, ok := lookup(d.Link); !ok || id != d.ID {
				stale = true
			}
		}
		return d.ID, stale
	}
	if d.Link != "" {
		if id, ok := lookup(d.Link); ok {
			return id, true // link-only: the ID field needs writing
		}
	}
	return "", false
}

// ResolveList applies the ID-first policy element-wise. IDs win wholesale
// when present; otherwise every link is resolved through lookup.
func (d DualList) ResolveList(lookup func(target string) (string, bool)) ([]string, bool) {
	if len(d.IDs) > 0 {
		return append([]string(nil), d.IDs...), !linksMatch(d, lookup)
	}
	var out []string
	for _, link := range d.Links {
		if id, ok := lookup(link); ok {
			out = append(out, id)
		}
	}
	return out, len(out) > 0
}

func linksMatch(d DualList, lookup func(string) (string, bool)) bool {
	if len(d.Links) != len(d.IDs) {
		return false
	}
	seen := make(map[string]bool, len(d.IDs))
	for _, id := range d.IDs {
		seen[id] = true
	}
	for _, link := range d.Links {
		id, ok := lookup(link)
		if !ok || !seen[id] {
			return false
		}
	}
	return true
}

// ToPerson converts the record to a canonical Person using the ID-first
// policy for every relationship field.
func (r *PersonRecord) ToPerson(lookup func(target string) (string, bool)) *model.Person {
	p := &model.Person{
		CrID:           r.CrID,
		Name:           r.Name,
		Sex:            r.Sex,
		GenderIdentity: r.GenderIdentity,
		Pronouns:       r.Pronouns,
		BirthDate:      r.BirthDate,
		DeathDate:      r.DeathDate,
		BirthPlace:     r.BirthPlace,
		DeathPlace:     r.DeathPlace,
		BurialPlace:    r.BurialPlace,
		Occupation:     r.Occupation,
		ResearchLevel:  r.ResearchLevel,
		Extras:         r.Extras,
	}

	p.FatherID, _ = r.Father.Resolve(lookup)
	p.MotherID, _ = r.Mother.Resolve(lookup)
	p.AdoptiveFatherID, _ = r.AdoptiveFather.Resolve(lookup)
	p.AdoptiveMotherID, _ = r.AdoptiveMother.Resolve(lookup)
	p.StepfatherIDs, _ = r.Stepfathers.ResolveList(lookup)
	p.StepmotherIDs, _ = r.Stepmothers.ResolveList(lookup)
	p.SpouseIDs, _ = r.Spouses.ResolveList(lookup)
	p.ChildrenIDs, _ = r.Children.ResolveList(lookup)

	return p
}

// PlaceRecord is the parsed frontmatter of a place note.
type PlaceRecord struct {
	Path     string
	NoteName string

	ID        string
	Name      string
	Parent    DualRef
	Type      model.PlaceType
	Latitude  string
	Longitude string

	Extras map[string]interface{}
	Body   string
}

// EventRecord is the parsed frontmatter of an event note. People is a list;
// an event may have zero, one, or many participants.
type EventRecord struct {
	Path     string
	NoteName string

	CrID   string
	Type   model.EventType
	Date   string
	Place  DualRef
	People DualList

	Extras map[string]interface{}
	Body   string
}

// linkTarget extracts a wikilink target from a raw frontmatter value,
// accepting both the literal wikilink form and a bare note name.
func linkTarget(s string) string {
	return wikilink.Target(s)
}
