package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prentissw/charted-roots/internal/model"
	"github.com/prentissw/charted-roots/internal/note"
	"github.com/prentissw/charted-roots/internal/storage"
)

func writeNote(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testVault(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeNote(t, root, "people/Harold Prentiss.md", `---
type: person
cr_id: p-harold
name: Harold Prentiss
sex: M
birth_date: "1920-03-14"
spouse:
  - "[[June Prentiss]]"
spouse_id:
  - p-june
---

Research notes.
`)
	writeNote(t, root, "people/June Prentiss.md", `---
type: person
cr_id: p-june
name: June Prentiss
sex: F
spouse:
  - "[[Harold Prentiss]]"
spouse_id:
  - p-harold
---
`)
	writeNote(t, root, "places/Topeka.md", `---
type: place
id: pl-topeka
name: Topeka
place_type: city
parent: "[[Shawnee County]]"
---
`)
	writeNote(t, root, "places/Shawnee County.md", `---
type: place
id: pl-shawnee
name: Shawnee County
---
`)
	writeNote(t, root, "events/Wedding of Harold and June.md", `---
type: event
cr_id: e-wedding
event_type: Marriage
date: "1948-06-12"
place: "[[Topeka]]"
people:
  - "[[Harold Prentiss]]"
  - "[[June Prentiss]]"
---
`)
	// Not a genealogy note; must be ignored.
	writeNote(t, root, "journal.md", "# Journal\n\nNothing here.\n")
	// Metadata dir; must be skipped.
	writeNote(t, root, ".roots/scratch.md", "---\ntype: person\n---\n")

	return root
}

func TestLoad(t *testing.T) {
	v, err := Load(testVault(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(v.Errors) != 0 {
		t.Fatalf("unexpected file errors: %v", v.Errors)
	}
	if len(v.Persons) != 2 {
		t.Fatalf("persons = %d, want 2", len(v.Persons))
	}
	if len(v.Places) != 2 {
		t.Fatalf("places = %d, want 2", len(v.Places))
	}
	if len(v.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(v.Events))
	}

	harold := v.PersonByID("p-harold")
	if harold == nil {
		t.Fatal("p-harold not loaded")
	}
	if harold.NoteName != "Harold Prentiss" {
		t.Errorf("NoteName = %q", harold.NoteName)
	}
	if !strings.Contains(harold.Body, "Research notes.") {
		t.Errorf("body not preserved: %q", harold.Body)
	}
}

func TestLoadCollectsBadNotes(t *testing.T) {
	root := testVault(t)
	writeNote(t, root, "people/broken.md", "---\ntype: person\n  bad yaml: [\n---\n")

	v, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(v.Errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(v.Errors))
	}
	if v.Errors[0].Path != filepath.Join("people", "broken.md") {
		t.Errorf("error path = %q", v.Errors[0].Path)
	}
	// The rest of the vault still loads.
	if len(v.Persons) != 2 {
		t.Errorf("persons = %d, want 2", len(v.Persons))
	}
}

func TestLookupResolvesNoteNameAndPersonName(t *testing.T) {
	v, err := Load(testVault(t))
	if err != nil {
		t.Fatal(err)
	}
	if id, ok := v.Lookup("Harold Prentiss"); !ok || id != "p-harold" {
		t.Errorf("Lookup(Harold Prentiss) = %q, %v", id, ok)
	}
	if _, ok := v.Lookup("Nobody"); ok {
		t.Error("Lookup(Nobody) resolved")
	}
}

func TestPersonModels(t *testing.T) {
	v, err := Load(testVault(t))
	if err != nil {
		t.Fatal(err)
	}
	persons := v.PersonModels()
	var harold *model.Person
	for _, p := range persons {
		if p.CrID == "p-harold" {
			harold = p
		}
	}
	if harold == nil {
		t.Fatal("p-harold missing from models")
	}
	if len(harold.SpouseIDs) != 1 || harold.SpouseIDs[0] != "p-june" {
		t.Errorf("SpouseIDs = %v", harold.SpouseIDs)
	}
	if harold.BirthDate != "1920-03-14" {
		t.Errorf("BirthDate = %q", harold.BirthDate)
	}
}

func TestPlaceAndEventModels(t *testing.T) {
	v, err := Load(testVault(t))
	if err != nil {
		t.Fatal(err)
	}

	var topeka *model.Place
	for _, p := range v.PlaceModels() {
		if p.ID == "pl-topeka" {
			topeka = p
		}
	}
	if topeka == nil {
		t.Fatal("pl-topeka missing")
	}
	if topeka.ParentID != "pl-shawnee" {
		t.Errorf("ParentID = %q, want pl-shawnee", topeka.ParentID)
	}

	events := v.EventModels()
	if len(events) != 1 {
		t.Fatalf("events = %d", len(events))
	}
	e := events[0]
	if e.Type != model.EventMarriage {
		t.Errorf("Type = %q", e.Type)
	}
	if e.PlaceID != "pl-topeka" {
		t.Errorf("PlaceID = %q", e.PlaceID)
	}
	if len(e.PersonIDs) != 2 {
		t.Errorf("PersonIDs = %v", e.PersonIDs)
	}
}

func TestApplyPlan(t *testing.T) {
	root := testVault(t)
	v, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}

	plan := &storage.Plan{Changes: []storage.Change{
		{
			Path:   filepath.Join("people", "June Prentiss.md"),
			Fields: map[string]interface{}{"occupation": "teacher"},
		},
		{
			// Value already current; must not count as a write.
			Path:   filepath.Join("people", "Harold Prentiss.md"),
			Fields: map[string]interface{}{"birth_date": "1920-03-14"},
		},
	}}

	written, err := v.Apply(plan)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if written != 1 {
		t.Errorf("written = %d, want 1", written)
	}

	content, err := os.ReadFile(filepath.Join(root, "people", "June Prentiss.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "occupation: teacher") {
		t.Errorf("occupation not written:\n%s", content)
	}
}

func TestCreatePerson(t *testing.T) {
	root := testVault(t)
	v, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}

	rel, err := v.CreatePerson("people", &note.PersonRecord{
		CrID: "p-sam",
		Name: "Sam Prentiss",
		Sex:  model.SexMale,
		Father: note.DualRef{
			Link: "Harold Prentiss",
			ID:   "p-harold",
		},
	})
	if err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	if rel != filepath.Join("people", "sam-prentiss.md") {
		t.Errorf("rel = %q", rel)
	}

	content, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"cr_id: p-sam", "father_id: p-harold"} {
		if !strings.Contains(string(content), want) {
			t.Errorf("new note missing %q:\n%s", want, content)
		}
	}

	// The in-memory vault sees the new person immediately.
	if id, ok := v.Lookup("sam-prentiss"); !ok || id != "p-sam" {
		t.Errorf("Lookup(sam-prentiss) = %q, %v", id, ok)
	}
}

func TestCreatePersonDeduplicatesNames(t *testing.T) {
	root := testVault(t)
	v, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}

	rel, err := v.CreatePerson("", &note.PersonRecord{CrID: "p-h2", Name: "Harold Prentiss"})
	if err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	if rel != "harold-prentiss-2.md" {
		t.Errorf("rel = %q, want harold-prentiss-2.md", rel)
	}
}
