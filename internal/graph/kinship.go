package graph

import (
	"fmt"
	"strings"

	"github.com/prentissw/charted-roots/internal/model"
)

// Kinship turns a relationship path into a human-readable kinship term for
// the person at the end of the path ("grandmother", "first cousin once
// removed", "brother-in-law"). Falls back to a generic description for
// paths the vocabulary does not cover.
func (g *Graph) Kinship(path []Step) string {
	if path == nil {
		return "no relation"
	}
	if len(path) == 0 {
		return "self"
	}

	target, ok := g.Person(path[len(path)-1].ID)
	if !ok {
		return "no relation"
	}
	sex := target.Sex

	steps := path
	inLaw := false

	// A single spouse hop at either end makes an in-law of the remaining
	// core relationship.
	if steps[0].Rel == RelSpouse && len(steps) > 1 {
		steps = steps[1:]
		inLaw = true
	}
	if len(steps) > 1 && steps[len(steps)-1].Rel == RelSpouse {
		steps = steps[:len(steps)-1]
		inLaw = true
	}

	if len(steps) == 1 && steps[0].Rel == RelSpouse {
		return pick(sex, "husband", "wife", "spouse")
	}

	up, down, ok := countUpDown(steps)
	if !ok {
		return fmt.Sprintf("related (%d steps)", len(path))
	}

	term := baseTerm(up, down, sex)
	if term == "" {
		return fmt.Sprintf("related (%d steps)", len(path))
	}
	if inLaw {
		term += "-in-law"
	}
	return term
}

// countUpDown checks that the core path is parent steps followed by child
// steps and counts each run.
func countUpDown(steps []Step) (up, down int, ok bool) {
	i := 0
	for ; i < len(steps) && steps[i].Rel == RelParent; i++ {
		up++
	}
	for ; i < len(steps) && steps[i].Rel == RelChild; i++ {
		down++
	}
	return up, down, i == len(steps)
}

func baseTerm(up, down int, sex model.Sex) string {
	switch {
	case up == 0 && down == 0:
		return "self"
	case down == 0:
		return greats(up-1) + pick(sex, "father", "mother", "parent")
	case up == 0:
		return greats(down-1) + pick(sex, "son", "daughter", "child")
	case up == 1 && down == 1:
		return pick(sex, "brother", "sister", "sibling")
	case up == 1:
		return greats(down-2) + pick(sex, "nephew", "niece", "nibling")
	case down == 1:
		return greats(up-2) + pick(sex, "uncle", "aunt", "pibling")
	default:
		degree := min(up, down) - 1
		removed := up - down
		if removed < 0 {
			removed = -removed
		}
		term := fmt.Sprintf("%s cousin", ordinal(degree))
		if removed > 0 {
			term += fmt.Sprintf(" %s removed", timesWord(removed))
		}
		return term
	}
}

// greats prefixes n generations of "great-", with the first becoming
// "grand" for parent/child chains ("grandfather", "great-grandfather").
func greats(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("great-", n-1) + "grand"
}

func pick(sex model.Sex, male, female, neutral string) string {
	switch sex {
	case model.SexMale:
		return male
	case model.SexFemale:
		return female
	default:
		return neutral
	}
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "first"
	case 2:
		return "second"
	case 3:
		return "third"
	default:
		return fmt.Sprintf("%dth", n)
	}
}

func timesWord(n int) string {
	switch n {
	case 1:
		return "once"
	case 2:
		return "twice"
	default:
		return fmt.Sprintf("%d times", n)
	}
}
