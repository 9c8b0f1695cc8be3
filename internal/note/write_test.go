package note

import (
	"strings"
	"testing"
)

func TestUpdateFields(t *testing.T) {
	content := `---
type: person
cr_id: cr-0001
name: Jane Doe
# keep this comment
occupation: weaver
---

Body stays.
`

	updated, changed, err := UpdateFields(content, map[string]interface{}{
		"occupation": "teacher",
		"spouse_id":  []string{"cr-0003"},
	})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if !changed {
		t.Fatal("expected a change")
	}
	if !strings.Contains(updated, "occupation: teacher") {
		t.Errorf("occupation not updated:\n%s", updated)
	}
	if !strings.Contains(updated, "spouse_id:") {
		t.Errorf("new field not appended:\n%s", updated)
	}
	if !strings.Contains(updated, "# keep this comment") {
		t.Errorf("comment on untouched field lost:\n%s", updated)
	}
	if !strings.Contains(updated, "Body stays.") {
		t.Errorf("body perturbed:\n%s", updated)
	}

	// Field order of untouched keys is preserved.
	if strings.Index(updated, "cr_id:") > strings.Index(updated, "name:") {
		t.Error("field order perturbed")
	}
}

func TestUpdateFieldsIdempotent(t *testing.T) {
	content := "---\ntype: person\ncr_id: cr-1\nname: X\n---\n"

	updates := map[string]interface{}{"spouse_id": []string{"cr-2"}}
	once, changed, err := UpdateFields(content, updates)
	if err != nil || !changed {
		t.Fatalf("first update: changed=%v err=%v", changed, err)
	}

	twice, changed, err := UpdateFields(once, updates)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if changed {
		t.Error("second identical update must report no change")
	}
	if twice != once {
		t.Error("second identical update must not rewrite content")
	}
}

func TestUpdateFieldsDelete(t *testing.T) {
	content := "---\ntype: person\ncr_id: cr-1\nfather: \"[[people/x]]\"\n---\n"
	updated, changed, err := UpdateFields(content, map[string]interface{}{"father": nil})
	if err != nil || !changed {
		t.Fatalf("delete: changed=%v err=%v", changed, err)
	}
	if strings.Contains(updated, "father:") {
		t.Errorf("father not removed:\n%s", updated)
	}
}

func TestRenderPersonRoundTrip(t *testing.T) {
	r := &PersonRecord{
		Path:     "people/jane-doe.md",
		NoteName: "jane-doe",
		CrID:     "cr-0001",
		Name:     "Jane Doe",
		Sex:      "F",
		Father:   DualRef{Link: "people/john-doe", ID: "cr-0002"},
		Spouses:  DualList{Links: []string{"people/sam-smith"}, IDs: []string{"cr-0003"}},
		Extras:   map[string]interface{}{"custom_field": "kept"},
	}

	content, err := RenderPerson(r)
	if err != nil {
		t.Fatalf("RenderPerson: %v", err)
	}

	parsed, err := ParsePerson("people/jane-doe.md", content)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if parsed.CrID != r.CrID || parsed.Name != r.Name {
		t.Errorf("identity fields lost: %+v", parsed)
	}
	if parsed.Father.Link != "people/john-doe" || parsed.Father.ID != "cr-0002" {
		t.Errorf("dual father field lost: %+v", parsed.Father)
	}
	if len(parsed.Spouses.IDs) != 1 || parsed.Spouses.IDs[0] != "cr-0003" {
		t.Errorf("spouse ids lost: %v", parsed.Spouses.IDs)
	}
	if parsed.Extras["custom_field"] != "kept" {
		t.Errorf("extras lost: %v", parsed.Extras)
	}

	// Deterministic rendering keeps exports and tests stable.
	again, err := RenderPerson(r)
	if err != nil {
		t.Fatalf("RenderPerson again: %v", err)
	}
	if again != content {
		t.Error("RenderPerson is not deterministic")
	}
}
