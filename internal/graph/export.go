package graph

import (
	"fmt"

	"github.com/prentissw/charted-roots/internal/model"
)

// Exportable returns the person set prepared for an exporter: shallow
// copies with one-sided parent edges removed and the privacy policy
// applied. The caller's graph is never mutated. Returned warnings describe
// every dropped edge and excluded person.
//
// One-sided edges (a child naming a parent who does not list the child)
// are dropped here rather than repaired: exporters must not invent
// relationships the vault does not consistently state.
func (g *Graph) Exportable(privacy bool, policy model.PrivacyPolicy) ([]*model.Person, []string) {
	var warnings []string

	drop := make(map[string]bool)
	for _, v := range g.MirrorViolations() {
		if v.Missing {
			// Family synthesis reports these itself when the edge is
			// reached.
			continue
		}
		warnings = append(warnings,
			fmt.Sprintf("person %s: parent %s does not list them as a child, edge dropped", v.ChildID, v.ParentID))
		drop[v.ChildID+"|"+v.ParentID] = true
	}

	var out []*model.Person
	for _, p := range g.Persons() {
		if privacy && policy == model.PolicyExclude && p.Living() {
			warnings = append(warnings, fmt.Sprintf("person %s excluded (living)", p.CrID))
			continue
		}

		cp := *p
		if drop[cp.CrID+"|"+cp.FatherID] {
			cp.FatherID = ""
		}
		if drop[cp.CrID+"|"+cp.MotherID] {
			cp.MotherID = ""
		}
		if privacy && policy == model.PolicyObfuscate && cp.Living() {
			cp.Name = model.ObfuscateName(cp.Name)
			cp.BirthDate = ""
			cp.BirthPlace = ""
			cp.DeathPlace = ""
			cp.BurialPlace = ""
			cp.Occupation = ""
		}
		out = append(out, &cp)
	}
	return out, warnings
}
