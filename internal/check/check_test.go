package check

import (
	"strings"
	"testing"

	"github.com/prentissw/charted-roots/internal/note"
	"github.com/prentissw/charted-roots/internal/vault"
)

func consistentVault() *vault.Vault {
	return &vault.Vault{
		Persons: []*note.PersonRecord{
			{
				Path:     "people/harold-prentiss.md",
				NoteName: "Harold Prentiss",
				CrID:     "p-harold",
				Name:     "Harold Prentiss",
				Sex:      "M",
				Spouses:  note.DualList{Links: []string{"June Prentiss"}, IDs: []string{"p-june"}},
				Children: note.DualList{Links: []string{"Sam Prentiss"}, IDs: []string{"p-sam"}},
			},
			{
				Path:     "people/june-prentiss.md",
				NoteName: "June Prentiss",
				CrID:     "p-june",
				Name:     "June Prentiss",
				Sex:      "F",
				Spouses:  note.DualList{Links: []string{"Harold Prentiss"}, IDs: []string{"p-harold"}},
				Children: note.DualList{Links: []string{"Sam Prentiss"}, IDs: []string{"p-sam"}},
			},
			{
				Path:     "people/sam-prentiss.md",
				NoteName: "Sam Prentiss",
				CrID:     "p-sam",
				Name:     "Sam Prentiss",
				Sex:      "M",
				Father:   note.DualRef{Link: "Harold Prentiss", ID: "p-harold"},
				Mother:   note.DualRef{Link: "June Prentiss", ID: "p-june"},
			},
		},
	}
}

func messagesOf(r *Report) []string {
	var out []string
	for _, i := range r.Issues {
		out = append(out, i.Level.String()+" "+i.FilePath+": "+i.Message)
	}
	return out
}

func hasIssue(r *Report, substr string) bool {
	for _, m := range messagesOf(r) {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestRunCleanVault(t *testing.T) {
	r := Run(consistentVault())
	if len(r.Issues) != 0 {
		t.Fatalf("issues on clean vault: %v", messagesOf(r))
	}
}

func TestDuplicateAndMissingCrID(t *testing.T) {
	v := consistentVault()
	v.Persons = append(v.Persons,
		&note.PersonRecord{Path: "people/dup.md", NoteName: "Dup", CrID: "p-sam", Name: "Dup"},
		&note.PersonRecord{Path: "people/anon.md", NoteName: "Anon", Name: "Anon"},
	)

	r := Run(v)
	if !hasIssue(r, `duplicate cr_id "p-sam"`) {
		t.Errorf("missing duplicate issue: %v", messagesOf(r))
	}
	if !hasIssue(r, "no cr_id") {
		t.Errorf("missing no-cr_id issue: %v", messagesOf(r))
	}
}

func TestDanglingReferences(t *testing.T) {
	v := consistentVault()
	sam := v.Persons[2]
	sam.AdoptiveFather = note.DualRef{ID: "p-ghost"}
	sam.Stepmothers = note.DualList{Links: []string{"Nobody Special"}}

	r := Run(v)
	if !hasIssue(r, `adoptive_father_id "p-ghost"`) {
		t.Errorf("missing dangling id issue: %v", messagesOf(r))
	}
	if !hasIssue(r, "stepmother link [[Nobody Special]]") {
		t.Errorf("missing dangling link issue: %v", messagesOf(r))
	}
}

func TestSelfReference(t *testing.T) {
	v := consistentVault()
	v.Persons[2].Father = note.DualRef{ID: "p-sam"}

	r := Run(v)
	if !hasIssue(r, "father refers to the person themselves") {
		t.Errorf("missing self-reference issue: %v", messagesOf(r))
	}
}

func TestMirrorViolation(t *testing.T) {
	v := consistentVault()
	// Harold stops listing Sam as a child while Sam still names him.
	v.Persons[0].Children = note.DualList{}
	v.Persons[1].Children = note.DualList{}

	r := Run(v)
	if !hasIssue(r, "parent p-harold does not list p-sam as a child") {
		t.Errorf("missing mirror issue: %v", messagesOf(r))
	}
}

func TestDualStorageDrift(t *testing.T) {
	v := consistentVault()
	// June's spouse wikilink goes stale; the id field still agrees.
	v.Persons[1].Spouses = note.DualList{Links: []string{"Harold P"}, IDs: []string{"p-harold"}}

	r := Run(v)
	if !hasIssue(r, "dual-storage drift") {
		t.Errorf("missing drift issue: %v", messagesOf(r))
	}
}

func TestResearchLevelOutOfRange(t *testing.T) {
	v := consistentVault()
	v.Persons[0].ResearchLevel = 9

	r := Run(v)
	if !hasIssue(r, "research_level 9 out of range") {
		t.Errorf("missing range issue: %v", messagesOf(r))
	}
}

func TestPlaceChecks(t *testing.T) {
	v := consistentVault()
	v.Places = []*note.PlaceRecord{
		{Path: "places/a.md", NoteName: "A", ID: "pl-a", Name: "A", Parent: note.DualRef{Link: "B"}},
		{Path: "places/b.md", NoteName: "B", ID: "pl-b", Name: "B", Parent: note.DualRef{Link: "A"}},
		{Path: "places/c.md", NoteName: "C", ID: "pl-c", Name: "C", Parent: note.DualRef{Link: "Atlantis"}},
	}

	r := Run(v)
	if !hasIssue(r, "inside its own parent chain") {
		t.Errorf("missing cycle issue: %v", messagesOf(r))
	}
	if !hasIssue(r, `parent "Atlantis" does not resolve`) {
		t.Errorf("missing dangling parent issue: %v", messagesOf(r))
	}
}

func TestEventChecks(t *testing.T) {
	v := consistentVault()
	v.Events = []*note.EventRecord{
		{
			Path:     "events/mystery.md",
			NoteName: "mystery",
			CrID:     "e-mystery",
			Type:     "census",
			Place:    note.DualRef{Link: "Atlantis"},
			People:   note.DualList{Links: []string{"Nobody Special"}},
		},
	}

	r := Run(v)
	if !hasIssue(r, `place "Atlantis" does not resolve`) {
		t.Errorf("missing event place issue: %v", messagesOf(r))
	}
	if !hasIssue(r, "participant [[Nobody Special]] does not resolve") {
		t.Errorf("missing participant issue: %v", messagesOf(r))
	}
}

func TestBodyLinkScan(t *testing.T) {
	v := consistentVault()
	v.Persons[2].Body = "Raised by [[Harold Prentiss]] near [[Atlantis]].\n\n" +
		"```\nnot a link: [[Ignored In Code]]\n```\n"

	r := Run(v)
	if !hasIssue(r, "body link [[Atlantis]] does not resolve") {
		t.Errorf("missing body link issue: %v", messagesOf(r))
	}
	if hasIssue(r, "Harold Prentiss]] does not resolve") {
		t.Errorf("resolved link flagged: %v", messagesOf(r))
	}
	if hasIssue(r, "Ignored In Code") {
		t.Errorf("code block link flagged: %v", messagesOf(r))
	}
}
