package graph

import "sort"

// Traversals treat the graph as potentially cyclic: malformed imports can
// loop through step or adoptive relations, so every walk keeps a visited
// set and terminates instead of recursing unboundedly.

// Ancestors returns the cr_ids of every ancestor reachable through parent
// references of any kind, breadth-first, nearest generations first.
func (g *Graph) Ancestors(id string, includeSelf bool) []string {
	g.ensure()

	var out []string
	visited := map[string]bool{id: true}
	if includeSelf {
		if _, ok := g.byID[id]; ok {
			out = append(out, id)
		}
	}

	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		p, ok := g.byID[current]
		if !ok {
			continue
		}
		for _, parentID := range p.ParentIDs() {
			if parentID == "" || visited[parentID] {
				continue
			}
			visited[parentID] = true
			if _, ok := g.byID[parentID]; !ok {
				continue
			}
			out = append(out, parentID)
			queue = append(queue, parentID)
		}
	}

	return out
}

// Descendants returns the cr_ids of every descendant, breadth-first. With
// includeSpouses, each descendant's spouses are included as well (but not
// walked further, since spouses are not descendants).
func (g *Graph) Descendants(id string, includeSelf, includeSpouses bool) []string {
	g.ensure()

	var out []string
	visited := map[string]bool{id: true}
	if includeSelf {
		if _, ok := g.byID[id]; ok {
			out = append(out, id)
		}
	}

	appendSpouses := func(of string) {
		if !includeSpouses {
			return
		}
		p, ok := g.byID[of]
		if !ok {
			return
		}
		spouses := append([]string(nil), p.SpouseIDs...)
		sort.Strings(spouses)
		for _, spouseID := range spouses {
			if visited[spouseID] {
				continue
			}
			visited[spouseID] = true
			if _, ok := g.byID[spouseID]; ok {
				out = append(out, spouseID)
			}
		}
	}

	if includeSelf {
		appendSpouses(id)
	}

	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, childID := range g.ChildrenOf(current) {
			if visited[childID] {
				continue
			}
			visited[childID] = true
			out = append(out, childID)
			appendSpouses(childID)
			queue = append(queue, childID)
		}
	}

	return out
}

// Relation labels one step of a relationship path.
type Relation string

const (
	RelParent Relation = "parent"
	RelChild  Relation = "child"
	RelSpouse Relation = "spouse"
)

// Step is one hop of a relationship path.
type Step struct {
	ID  string
	Rel Relation
}

// Path finds the shortest relationship path from one person to another by
// breadth-first search over the parent/child/spouse edge set. Returns nil
// when no path exists.
func (g *Graph) Path(fromID, toID string) []Step {
	g.ensure()

	if _, ok := g.byID[fromID]; !ok {
		return nil
	}
	if _, ok := g.byID[toID]; !ok {
		return nil
	}
	if fromID == toID {
		return []Step{}
	}

	type visit struct {
		id   string
		prev *visit
		rel  Relation
	}

	visited := map[string]bool{fromID: true}
	queue := []*visit{{id: fromID}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, edge := range g.edges(current.id) {
			if visited[edge.ID] {
				continue
			}
			visited[edge.ID] = true

			next := &visit{id: edge.ID, prev: current, rel: edge.Rel}
			if edge.ID == toID {
				var path []Step
				for v := next; v.prev != nil; v = v.prev {
					path = append([]Step{{ID: v.id, Rel: v.rel}}, path...)
				}
				return path
			}
			queue = append(queue, next)
		}
	}

	return nil
}

// edges returns the outgoing relationship edges of a person in a stable
// order: parents, children, spouses.
func (g *Graph) edges(id string) []Step {
	p, ok := g.byID[id]
	if !ok {
		return nil
	}

	var out []Step
	for _, parentID := range p.ParentIDs() {
		if _, ok := g.byID[parentID]; ok {
			out = append(out, Step{ID: parentID, Rel: RelParent})
		}
	}
	for _, childID := range g.ChildrenOf(id) {
		out = append(out, Step{ID: childID, Rel: RelChild})
	}
	spouses := append([]string(nil), p.SpouseIDs...)
	sort.Strings(spouses)
	for _, spouseID := range spouses {
		if _, ok := g.byID[spouseID]; ok {
			out = append(out, Step{ID: spouseID, Rel: RelSpouse})
		}
	}
	return out
}
