// Package storage implements the dual-storage synchronizer.
//
// Every relationship field on a person note is stored twice: as a
// human-navigable wikilink and as a stable cr_id field. Wikilinks feed the
// host app's link graph but break silently on untracked renames; the id
// field survives renames but is unreadable as UI. This package computes the
// patches that bring both representations back into agreement, following
// the ID-first, wikilink-fallback read policy: where the two disagree the
// id is authoritative and the wikilink is repaired.
//
// Sync is pure: it consumes parsed records and produces a Plan of scoped
// field patches. File I/O belongs to the vault layer.
package storage

import (
	"fmt"
	"sort"

	"github.com/prentissw/charted-roots/internal/note"
)

// Change is the patch for one note: only the fields that must change.
type Change struct {
	Path   string
	Fields map[string]interface{}
}

// Plan is the full set of writes a sync run wants to make. Running Sync on
// an already-consistent record set produces an empty plan.
type Plan struct {
	Changes  []Change
	Warnings []string
}

// Empty reports whether the plan has no writes.
func (p *Plan) Empty() bool {
	return len(p.Changes) == 0
}

type syncer struct {
	recs     []*note.PersonRecord
	byID     map[string]*note.PersonRecord
	nameToID map[string]string
	plan     *Plan
}

// Sync computes the patch plan that makes every record's dual fields
// agree, spouse arrays symmetric, and children lists consistent with the
// children's own parent references. Deterministic: records are processed
// in path order.
func Sync(records []*note.PersonRecord) *Plan {
	s := &syncer{
		byID:     make(map[string]*note.PersonRecord),
		nameToID: make(map[string]string),
		plan:     &Plan{},
	}

	s.recs = append(s.recs, records...)
	sort.Slice(s.recs, func(i, j int) bool { return s.recs[i].Path < s.recs[j].Path })

	for _, r := range s.recs {
		if r.CrID == "" {
			s.warnf("%s: missing cr_id, skipped", r.Path)
			continue
		}
		if prev, dup := s.byID[r.CrID]; dup {
			s.warnf("%s: duplicate cr_id %s (already used by %s), skipped", r.Path, r.CrID, prev.Path)
			continue
		}
		s.byID[r.CrID] = r
		s.nameToID[r.NoteName] = r.CrID
	}

	spouses := s.symmetricSpouses()
	children := s.derivedChildren()

	for _, r := range s.recs {
		if s.byID[r.CrID] != r {
			continue
		}

		fields := make(map[string]interface{})
		s.patchRef(fields, r, "father", r.Father)
		s.patchRef(fields, r, "mother", r.Mother)
		s.patchRef(fields, r, "adoptive_father", r.AdoptiveFather)
		s.patchRef(fields, r, "adoptive_mother", r.AdoptiveMother)

		stepfathers, _ := r.Stepfathers.ResolveList(s.lookup)
		s.patchList(fields, r, "stepfather", r.Stepfathers, stepfathers)
		stepmothers, _ := r.Stepmothers.ResolveList(s.lookup)
		s.patchList(fields, r, "stepmother", r.Stepmothers, stepmothers)

		s.patchList(fields, r, "spouse", r.Spouses, spouses[r.CrID])
		s.patchList(fields, r, "children", r.Children, children[r.CrID])

		if len(fields) > 0 {
			s.plan.Changes = append(s.plan.Changes, Change{Path: r.Path, Fields: fields})
		}
	}

	return s.plan
}

func (s *syncer) warnf(format string, args ...interface{}) {
	s.plan.Warnings = append(s.plan.Warnings, fmt.Sprintf(format, args...))
}

func (s *syncer) lookup(target string) (string, bool) {
	id, ok := s.nameToID[target]
	return id, ok
}

func (s *syncer) noteNameOf(id string) string {
	if r, ok := s.byID[id]; ok {
		return r.NoteName
	}
	return ""
}

// symmetricSpouses resolves every spouse list and closes it symmetrically:
// if A lists X but X does not list A back, X's desired list gains A. This
// is the self-healing path for one-sided spouse arrays.
func (s *syncer) symmetricSpouses() map[string][]string {
	out := make(map[string][]string)
	for _, r := range s.recs {
		if s.byID[r.CrID] != r {
			continue
		}
		ids, _ := r.Spouses.ResolveList(s.lookup)
		out[r.CrID] = ids
	}

	ids := make([]string, 0, len(out))
	for id := range out {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		for _, other := range out[id] {
			if _, known := s.byID[other]; !known {
				continue
			}
			if !contains(out[other], id) {
				out[other] = append(out[other], id)
			}
		}
	}
	return out
}

// derivedChildren starts from each record's own children list and adds
// every person whose parent references (of any kind) point at the record.
func (s *syncer) derivedChildren() map[string][]string {
	out := make(map[string][]string)
	for _, r := range s.recs {
		if s.byID[r.CrID] != r {
			continue
		}
		ids, _ := r.Children.ResolveList(s.lookup)
		out[r.CrID] = ids
	}

	for _, r := range s.recs {
		if s.byID[r.CrID] != r {
			continue
		}
		for _, parentID := range s.parentIDs(r) {
			if _, known := s.byID[parentID]; !known {
				continue
			}
			if !contains(out[parentID], r.CrID) {
				out[parentID] = append(out[parentID], r.CrID)
			}
		}
	}
	return out
}

func (s *syncer) parentIDs(r *note.PersonRecord) []string {
	var out []string
	for _, d := range []note.DualRef{r.Father, r.Mother, r.AdoptiveFather, r.AdoptiveMother} {
		if id, _ := d.Resolve(s.lookup); id != "" {
			out = append(out, id)
		}
	}
	for _, dl := range []note.DualList{r.Stepfathers, r.Stepmothers} {
		ids, _ := dl.ResolveList(s.lookup)
		out = append(out, ids...)
	}
	return out
}

// patchRef brings a singular dual field into agreement: the id field wins,
// the wikilink is rewritten to the referenced person's current note name.
func (s *syncer) patchRef(fields map[string]interface{}, r *note.PersonRecord, key string, d note.DualRef) {
	id, _ := d.Resolve(s.lookup)
	if id == "" {
		if d.Link != "" {
			s.warnf("%s: %s link [[%s]] does not resolve to any person", r.Path, key, d.Link)
		}
		return
	}
	if _, known := s.byID[id]; !known {
		s.warnf("%s: %s_id %s does not match any person", r.Path, key, id)
		return
	}

	if d.ID != id {
		fields[key+"_id"] = id
	}
	if name := s.noteNameOf(id); name != "" && d.Link != name {
		fields[key] = "[[" + name + "]]"
	}
}

// patchList brings a multi-valued dual field to the desired id list. Links
// are rewritten for every id with a known note; unknown ids are kept in
// the id array but warned about.
func (s *syncer) patchList(fields map[string]interface{}, r *note.PersonRecord, key string, d note.DualList, desired []string) {
	if len(desired) == 0 {
		if len(d.Links) > 0 {
			s.warnf("%s: %s links %v do not resolve to any person", r.Path, key, d.Links)
		}
		return
	}

	if !equalStrings(d.IDs, desired) {
		fields[key+"_id"] = desired
	}

	var targets []string
	var links []string
	for _, id := range desired {
		name := s.noteNameOf(id)
		if name == "" {
			s.warnf("%s: %s_id %s does not match any person", r.Path, key, id)
			continue
		}
		targets = append(targets, name)
		links = append(links, "[["+name+"]]")
	}
	if len(links) > 0 && !equalStrings(d.Links, targets) {
		fields[key] = links
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
