// Package check handles vault-wide validation.
//
// One run accumulates every problem it can find rather than stopping at the
// first: unreadable notes, duplicate or missing ids, dangling relationship
// references, one-sided parent/child edges, dual-storage drift, and
// unresolvable wikilinks in note bodies.
package check

import (
	"fmt"
	"sort"

	"github.com/prentissw/charted-roots/internal/graph"
	"github.com/prentissw/charted-roots/internal/model"
	"github.com/prentissw/charted-roots/internal/note"
	"github.com/prentissw/charted-roots/internal/storage"
	"github.com/prentissw/charted-roots/internal/vault"
)

// IssueLevel indicates the severity of an issue.
type IssueLevel int

const (
	LevelError IssueLevel = iota
	LevelWarning
)

func (l IssueLevel) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARN"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a validation issue.
type Issue struct {
	Level    IssueLevel
	FilePath string
	Message  string
}

// Report collects every issue found in one validation run.
type Report struct {
	Issues []Issue
}

// Errors counts error-level issues.
func (r *Report) Errors() int {
	n := 0
	for _, i := range r.Issues {
		if i.Level == LevelError {
			n++
		}
	}
	return n
}

// Warnings counts warning-level issues.
func (r *Report) Warnings() int {
	return len(r.Issues) - r.Errors()
}

func (r *Report) errorf(path, format string, args ...interface{}) {
	r.Issues = append(r.Issues, Issue{Level: LevelError, FilePath: path, Message: fmt.Sprintf(format, args...)})
}

func (r *Report) warnf(path, format string, args ...interface{}) {
	r.Issues = append(r.Issues, Issue{Level: LevelWarning, FilePath: path, Message: fmt.Sprintf(format, args...)})
}

// Run validates a loaded vault. The returned issues are sorted by file path
// so output is stable across runs.
func Run(v *vault.Vault) *Report {
	r := &Report{}

	for _, fe := range v.Errors {
		r.errorf(fe.Path, "%v", fe.Err)
	}

	pathOf := checkPersonRecords(r, v)
	checkRelationRefs(r, v)
	checkGraph(r, v, pathOf)
	checkDrift(r, v)
	checkPlaces(r, v)
	checkEvents(r, v)
	checkBodies(r, v)

	sort.SliceStable(r.Issues, func(i, j int) bool {
		return r.Issues[i].FilePath < r.Issues[j].FilePath
	})
	return r
}

// checkPersonRecords validates per-record fields and returns a cr_id to
// file path map for later checks.
func checkPersonRecords(r *Report, v *vault.Vault) map[string]string {
	pathOf := make(map[string]string)
	for _, p := range v.Persons {
		if p.CrID == "" {
			r.errorf(p.Path, "person note has no cr_id")
			continue
		}
		if prev, dup := pathOf[p.CrID]; dup {
			r.errorf(p.Path, "duplicate cr_id %q (also in %s)", p.CrID, prev)
			continue
		}
		pathOf[p.CrID] = p.Path

		if p.Name == "" {
			r.warnf(p.Path, "person %s has no name", p.CrID)
		}
		if !p.ResearchLevel.Valid() {
			r.errorf(p.Path, "research_level %d out of range 0-%d", p.ResearchLevel, model.MaxResearchLevel)
		}
		if p.Sex != "" && model.ParseSex(string(p.Sex)) == model.SexUnknown &&
			p.Sex != model.SexUnknown {
			r.warnf(p.Path, "unrecognized sex %q", p.Sex)
		}
	}
	return pathOf
}

// checkRelationRefs flags relationship fields that resolve to nobody.
func checkRelationRefs(r *Report, v *vault.Vault) {
	for _, p := range v.Persons {
		refs := []struct {
			field string
			ref   note.DualRef
		}{
			{"father", p.Father},
			{"mother", p.Mother},
			{"adoptive_father", p.AdoptiveFather},
			{"adoptive_mother", p.AdoptiveMother},
		}
		for _, f := range refs {
			checkRef(r, v, p, f.field, f.ref)
		}

		lists := []struct {
			field string
			list  note.DualList
		}{
			{"stepfather", p.Stepfathers},
			{"stepmother", p.Stepmothers},
			{"spouse", p.Spouses},
			{"children", p.Children},
		}
		for _, f := range lists {
			for _, link := range f.list.Links {
				checkRef(r, v, p, f.field, note.DualRef{Link: link})
			}
			for _, id := range f.list.IDs {
				checkRef(r, v, p, f.field, note.DualRef{ID: id})
			}
		}
	}
}

func checkRef(r *Report, v *vault.Vault, p *note.PersonRecord, field string, ref note.DualRef) {
	if ref.Empty() {
		return
	}
	if ref.ID == p.CrID && ref.ID != "" {
		r.errorf(p.Path, "%s refers to the person themselves", field)
		return
	}
	if ref.ID != "" {
		if v.PersonByID(ref.ID) == nil {
			r.errorf(p.Path, "%s_id %q does not match any person", field, ref.ID)
		}
		return
	}
	if _, ok := v.Lookup(ref.Link); !ok {
		r.warnf(p.Path, "%s link [[%s]] does not resolve", field, ref.Link)
	}
}

// checkGraph reports one-sided parent/child edges. A reference to a parent
// whose own children list omits the child breaks layout consumers, so it is
// an error, not a warning.
func checkGraph(r *Report, v *vault.Vault, pathOf map[string]string) {
	g := graph.New()
	g.SetPersons(v.PersonModels())
	for _, mv := range g.MirrorViolations() {
		if mv.Missing {
			// Already reported as a dangling reference.
			continue
		}
		r.errorf(pathOf[mv.ChildID],
			"parent %s does not list %s as a child", mv.ParentID, mv.ChildID)
	}
}

// checkDrift reports notes whose wikilink and id fields disagree. The sync
// command repairs these, so they are warnings.
func checkDrift(r *Report, v *vault.Vault) {
	plan := storage.Sync(v.Persons)
	for _, c := range plan.Changes {
		fields := make([]string, 0, len(c.Fields))
		for k := range c.Fields {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		r.warnf(c.Path, "dual-storage drift in %v, run sync to repair", fields)
	}
}

func checkPlaces(r *Report, v *vault.Vault) {
	byID := make(map[string]*note.PlaceRecord)
	for _, p := range v.Places {
		if p.ID == "" {
			r.errorf(p.Path, "place note has no id")
			continue
		}
		if prev, dup := byID[p.ID]; dup {
			r.errorf(p.Path, "duplicate place id %q (also in %s)", p.ID, prev.Path)
			continue
		}
		byID[p.ID] = p
	}

	for _, p := range v.Places {
		if p.Parent.Empty() {
			continue
		}
		id, _ := p.Parent.Resolve(v.LookupPlace)
		if id == "" {
			r.warnf(p.Path, "parent %q does not resolve to a place", p.Parent.Link)
			continue
		}
		if cyclic(byID, p.ID) {
			r.errorf(p.Path, "place %s is inside its own parent chain", p.ID)
		}
	}
}

// cyclic walks the parent chain from id looking for a repeat.
func cyclic(byID map[string]*note.PlaceRecord, id string) bool {
	seen := map[string]bool{}
	for id != "" && !seen[id] {
		seen[id] = true
		p, ok := byID[id]
		if !ok {
			return false
		}
		id, _ = p.Parent.Resolve(func(target string) (string, bool) {
			for pid, rec := range byID {
				if rec.NoteName == target || rec.Name == target {
					return pid, true
				}
			}
			return "", false
		})
	}
	return id != ""
}

func checkEvents(r *Report, v *vault.Vault) {
	seen := make(map[string]string)
	for _, e := range v.Events {
		if e.CrID == "" {
			r.errorf(e.Path, "event note has no cr_id")
			continue
		}
		if prev, dup := seen[e.CrID]; dup {
			r.errorf(e.Path, "duplicate event cr_id %q (also in %s)", e.CrID, prev)
			continue
		}
		seen[e.CrID] = e.Path

		if !e.Place.Empty() {
			if id, _ := e.Place.Resolve(v.LookupPlace); id == "" {
				r.warnf(e.Path, "place %q does not resolve", e.Place.Link)
			}
		}
		for _, link := range e.People.Links {
			if _, ok := v.Lookup(link); !ok {
				r.warnf(e.Path, "participant [[%s]] does not resolve", link)
			}
		}
		for _, id := range e.People.IDs {
			if v.PersonByID(id) == nil {
				r.warnf(e.Path, "participant id %q does not match any person", id)
			}
		}
	}
}
