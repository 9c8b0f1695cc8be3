package note

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/prentissw/charted-roots/internal/model"
)

// Split separates YAML frontmatter from the markdown body. Frontmatter is
// only detected when the first line is exactly '---'. ok is false when no
// closed frontmatter block is present.
func Split(content string) (fm string, body string, ok bool) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", content, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), true
		}
	}
	return "", content, false
}

// NoteType reads the "type" field of a note's frontmatter without fully
// parsing the record. Returns "" for notes without frontmatter, and an error
// when a frontmatter block is present but is not valid YAML.
func NoteType(content string) (string, error) {
	fm, _, ok := Split(content)
	if !ok {
		return "", nil
	}
	var m map[string]interface{}
	if err := yaml.Unmarshal([]byte(fm), &m); err != nil {
		return "", fmt.Errorf("parse frontmatter: %w", err)
	}
	t, _ := m["type"].(string)
	return t, nil
}

// personKeys are the frontmatter fields the engine interprets on a person
// note. Everything else lands in Extras and is preserved verbatim.
var personKeys = map[string]bool{
	"type": true, "cr_id": true, "name": true, "sex": true,
	"gender_identity": true, "pronouns": true,
	"birth_date": true, "death_date": true,
	"birth_place": true, "death_place": true, "burial_place": true,
	"occupation": true, "research_level": true,
	"father": true, "father_id": true,
	"mother": true, "mother_id": true,
	"adoptive_father": true, "adoptive_father_id": true,
	"adoptive_mother": true, "adoptive_mother_id": true,
	"stepfather": true, "stepfather_id": true,
	"stepmother": true, "stepmother_id": true,
	"spouse": true, "spouse_id": true,
	"children": true, "children_id": true,
}

// ParsePerson parses a person note. relPath is the vault-relative file path.
// A YAML failure is an error; a missing cr_id is left empty for the caller
// to flag, since parsing never fails per-record.
func ParsePerson(relPath, content string) (*PersonRecord, error) {
	fm, body, ok := Split(content)
	if !ok {
		return nil, fmt.Errorf("%s: no frontmatter", relPath)
	}

	var m map[string]interface{}
	if err := yaml.Unmarshal([]byte(fm), &m); err != nil {
		return nil, fmt.Errorf("%s: parse frontmatter: %w", relPath, err)
	}

	r := &PersonRecord{
		Path:     relPath,
		NoteName: noteName(relPath),
		Body:     body,
		Extras:   make(map[string]interface{}),
	}

	r.CrID = getString(m, "cr_id")
	r.Name = getString(m, "name")
	r.Sex = model.ParseSex(getString(m, "sex"))
	r.GenderIdentity = getString(m, "gender_identity")
	r.Pronouns = getString(m, "pronouns")
	r.BirthDate = getString(m, "birth_date")
	r.DeathDate = getString(m, "death_date")
	r.BirthPlace = linkTarget(getString(m, "birth_place"))
	r.DeathPlace = linkTarget(getString(m, "death_place"))
	r.BurialPlace = linkTarget(getString(m, "burial_place"))
	r.Occupation = getString(m, "occupation")
	r.ResearchLevel = model.ResearchLevel(getInt(m, "research_level"))

	r.Father = getDualRef(m, "father")
	r.Mother = getDualRef(m, "mother")
	r.AdoptiveFather = getDualRef(m, "adoptive_father")
	r.AdoptiveMother = getDualRef(m, "adoptive_mother")
	r.Stepfathers = getDualList(m, "stepfather")
	r.Stepmothers = getDualList(m, "stepmother")
	r.Spouses = getDualList(m, "spouse")
	r.Children = getDualList(m, "children")

	for k, v := range m {
		if !personKeys[k] {
			r.Extras[k] = v
		}
	}

	return r, nil
}

// ParsePlace parses a place note.
func ParsePlace(relPath, content string) (*PlaceRecord, error) {
	fm, body, ok := Split(content)
	if !ok {
		return nil, fmt.Errorf("%s: no frontmatter", relPath)
	}

	var m map[string]interface{}
	if err := yaml.Unmarshal([]byte(fm), &m); err != nil {
		return nil, fmt.Errorf("%s: parse frontmatter: %w", relPath, err)
	}

	known := map[string]bool{
		"type": true, "id": true, "name": true, "parent": true, "parent_id": true,
		"place_type": true, "latitude": true, "longitude": true,
	}

	r := &PlaceRecord{
		Path:      relPath,
		NoteName:  noteName(relPath),
		Body:      body,
		Extras:    make(map[string]interface{}),
		ID:        getString(m, "id"),
		Name:      getString(m, "name"),
		Parent:    getDualRef(m, "parent"),
		Type:      model.PlaceType(getString(m, "place_type")),
		Latitude:  getString(m, "latitude"),
		Longitude: getString(m, "longitude"),
	}
	if r.Type == "" {
		r.Type = model.InferPlaceType(r.Name)
	}

	for k, v := range m {
		if !known[k] {
			r.Extras[k] = v
		}
	}

	return r, nil
}

// ParseEvent parses an event note. The people field is always treated as a
// list even when authored as a single scalar.
func ParseEvent(relPath, content string) (*EventRecord, error) {
	fm, body, ok := Split(content)
	if !ok {
		return nil, fmt.Errorf("%s: no frontmatter", relPath)
	}

	var m map[string]interface{}
	if err := yaml.Unmarshal([]byte(fm), &m); err != nil {
		return nil, fmt.Errorf("%s: parse frontmatter: %w", relPath, err)
	}

	known := map[string]bool{
		"type": true, "cr_id": true, "event_type": true, "date": true,
		"place": true, "place_id": true, "people": true, "people_id": true,
	}

	r := &EventRecord{
		Path:     relPath,
		NoteName: noteName(relPath),
		Body:     body,
		Extras:   make(map[string]interface{}),
		CrID:     getString(m, "cr_id"),
		Type:     model.EventType(strings.ToLower(getString(m, "event_type"))),
		Date:     getString(m, "date"),
		Place:    getDualRef(m, "place"),
		People:   getDualList(m, "people"),
	}

	for k, v := range m {
		if !known[k] {
			r.Extras[k] = v
		}
	}

	return r, nil
}

func noteName(relPath string) string {
	return strings.TrimSuffix(filepath.Base(relPath), ".md")
}

func getString(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case int:
		return fmt.Sprintf("%d", v)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
	default:
		return ""
	}
}

func getInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// getStrings accepts either a scalar or a YAML sequence for a field.
func getStrings(m map[string]interface{}, key string) []string {
	switch v := m[key].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
		return nil
	case []interface{}:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	default:
		return nil
	}
}

func getDualRef(m map[string]interface{}, key string) DualRef {
	return DualRef{
		Link: linkTarget(getString(m, key)),
		ID:   getString(m, key+"_id"),
	}
}

func getDualList(m map[string]interface{}, key string) DualList {
	var links []string
	for _, raw := range getStrings(m, key) {
		links = append(links, linkTarget(raw))
	}
	return DualList{
		Links: links,
		IDs:   getStrings(m, key+"_id"),
	}
}
