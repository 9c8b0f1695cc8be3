// Package places maintains the place hierarchy.
//
// Places form a single-parent tree in well-formed vaults, but nothing
// enforces that on disk: imports and hand-edited notes can produce parent
// cycles. Every walk here carries a visited set and returns the partial
// chain instead of recursing unboundedly.
package places

import (
	"sort"
	"strings"

	"github.com/prentissw/charted-roots/internal/model"
)

// Hierarchy is an id-keyed view over a set of places.
type Hierarchy struct {
	byID map[string]*model.Place
}

// NewHierarchy builds a hierarchy from a place set.
func NewHierarchy(places []*model.Place) *Hierarchy {
	h := &Hierarchy{byID: make(map[string]*model.Place, len(places))}
	for _, p := range places {
		if p.ID == "" {
			continue
		}
		h.byID[p.ID] = p
	}
	return h
}

// Place looks up a place by id.
func (h *Hierarchy) Place(id string) (*model.Place, bool) {
	p, ok := h.byID[id]
	return p, ok
}

// Places returns every place sorted by id.
func (h *Hierarchy) Places() []*model.Place {
	out := make([]*model.Place, 0, len(h.byID))
	for _, p := range h.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Chain returns the place and its enclosing places, innermost first. A
// parent cycle or a dangling parent reference ends the chain at the last
// reachable place.
func (h *Hierarchy) Chain(id string) []*model.Place {
	var out []*model.Place
	visited := make(map[string]bool)

	for id != "" && !visited[id] {
		visited[id] = true
		p, ok := h.byID[id]
		if !ok {
			break
		}
		out = append(out, p)
		id = p.ParentID
	}
	return out
}

// FullName renders the comma-joined hierarchical name, e.g.
// "Topeka, Shawnee County, Kansas, USA".
func (h *Hierarchy) FullName(id string) string {
	chain := h.Chain(id)
	parts := make([]string, 0, len(chain))
	for _, p := range chain {
		if p.Name != "" {
			parts = append(parts, p.Name)
		}
	}
	return strings.Join(parts, ", ")
}

// ChildrenOf returns the ids of every place whose parent is id, sorted.
func (h *Hierarchy) ChildrenOf(id string) []string {
	var out []string
	for _, p := range h.byID {
		if p.ParentID == id {
			out = append(out, p.ID)
		}
	}
	sort.Strings(out)
	return out
}

// Roots returns the ids of every place without a resolvable parent,
// sorted.
func (h *Hierarchy) Roots() []string {
	var out []string
	for _, p := range h.byID {
		if p.ParentID == "" {
			out = append(out, p.ID)
			continue
		}
		if _, ok := h.byID[p.ParentID]; !ok {
			out = append(out, p.ID)
		}
	}
	sort.Strings(out)
	return out
}
