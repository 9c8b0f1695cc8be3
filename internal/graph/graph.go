// Package graph owns the canonical in-memory family graph.
//
// The graph holds the resolved person set and a crId-keyed lookup cache that
// is rebuilt lazily after invalidation. Calculators, the check command, and
// the exporters all consume the graph through its accessors; none of them
// re-derive relationships on their own, so an invalidation is visible
// everywhere on next access.
package graph

import (
	"sort"

	"github.com/prentissw/charted-roots/internal/model"
)

// Graph is the canonical family graph. It is not safe for concurrent use;
// all operations run on the single logical thread of a command invocation.
type Graph struct {
	records []*model.Person

	dirty      bool
	byID       map[string]*model.Person
	childIndex map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{dirty: true}
}

// SetPersons replaces the underlying record set and invalidates the cache.
func (g *Graph) SetPersons(persons []*model.Person) {
	g.records = persons
	g.Invalidate()
}

// Invalidate marks the lookup cache stale. The next accessor call rebuilds
// it. This is the single invalidation entry point; callers never clear
// internal state directly.
func (g *Graph) Invalidate() {
	g.dirty = true
}

// ensure rebuilds the lookup cache if stale. Rebuilding is synchronous and
// runs to completion before any accessor returns, so callers never observe
// a half-built cache.
func (g *Graph) ensure() {
	if !g.dirty {
		return
	}

	g.byID = make(map[string]*model.Person, len(g.records))
	for _, p := range g.records {
		if p.CrID == "" {
			continue
		}
		g.byID[p.CrID] = p
	}

	// The child index is derived from each child's parent references, the
	// authoritative direction of the parent-child edge. Parent-side
	// children lists are a convenience and may be stale.
	g.childIndex = make(map[string][]string)
	for _, p := range g.records {
		for _, parentID := range p.ParentIDs() {
			g.childIndex[parentID] = append(g.childIndex[parentID], p.CrID)
		}
	}
	for id := range g.childIndex {
		sort.Strings(g.childIndex[id])
	}

	g.dirty = false
}

// Person looks up a person by cr_id.
func (g *Graph) Person(id string) (*model.Person, bool) {
	g.ensure()
	p, ok := g.byID[id]
	return p, ok
}

// Persons returns every person sorted by cr_id for deterministic walks.
func (g *Graph) Persons() []*model.Person {
	g.ensure()
	out := make([]*model.Person, 0, len(g.byID))
	for _, p := range g.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CrID < out[j].CrID })
	return out
}

// Len returns the number of persons with a cr_id.
func (g *Graph) Len() int {
	g.ensure()
	return len(g.byID)
}

// ChildrenOf returns the cr_ids of everyone that references id as a parent
// of any kind, sorted.
func (g *Graph) ChildrenOf(id string) []string {
	g.ensure()
	return g.childIndex[id]
}

// MirrorViolation is a parent-child edge without a consistent back
// reference: the child names a parent whose own children list does not
// contain the child, or the parent does not exist at all. Such edges are
// dropped from derived output rather than emitted, since downstream layout
// consumers crash on one-sided edges.
type MirrorViolation struct {
	ChildID  string
	ParentID string
	Missing  bool // parent absent from the graph entirely
}

// MirrorViolations checks every parent reference in the graph. Detection
// happens here at traversal/export time, not during resolution.
func (g *Graph) MirrorViolations() []MirrorViolation {
	g.ensure()

	var out []MirrorViolation
	for _, p := range g.Persons() {
		for _, parentID := range []string{p.FatherID, p.MotherID} {
			if parentID == "" {
				continue
			}
			parent, ok := g.byID[parentID]
			if !ok {
				out = append(out, MirrorViolation{ChildID: p.CrID, ParentID: parentID, Missing: true})
				continue
			}
			if !parent.HasChild(p.CrID) {
				out = append(out, MirrorViolation{ChildID: p.CrID, ParentID: parentID})
			}
		}
	}
	return out
}

// RepairMirrors adds missing child back-references for every valid parent
// reference, returning how many were added. Used after imports so exported
// graphs always satisfy the mirror invariant.
func (g *Graph) RepairMirrors() int {
	g.ensure()

	repaired := 0
	for _, p := range g.Persons() {
		for _, parentID := range p.ParentIDs() {
			parent, ok := g.byID[parentID]
			if !ok {
				continue
			}
			if !parent.HasChild(p.CrID) {
				parent.AddChild(p.CrID)
				repaired++
			}
		}
	}
	return repaired
}
