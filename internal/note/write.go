package note

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// UpdateFields patches frontmatter fields in place and reports whether
// anything changed. Field order and YAML comments of untouched fields are
// preserved; new keys are appended at the end of the frontmatter block. A
// nil update value deletes the key. The body is never touched.
//
// Running UpdateFields twice with the same updates yields no second change,
// which is what makes synchronizer writes idempotent.
func UpdateFields(content string, updates map[string]interface{}) (string, bool, error) {
	fm, body, ok := Split(content)
	if !ok {
		return "", false, fmt.Errorf("no frontmatter to update")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(fm), &doc); err != nil {
		return "", false, fmt.Errorf("parse frontmatter: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return "", false, fmt.Errorf("frontmatter is not a mapping")
	}

	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	changed := false
	for _, key := range keys {
		value := updates[key]
		idx := findKey(mapping, key)

		if value == nil {
			if idx >= 0 {
				mapping.Content = append(mapping.Content[:idx], mapping.Content[idx+2:]...)
				changed = true
			}
			continue
		}

		if idx >= 0 {
			var existing interface{}
			if err := mapping.Content[idx+1].Decode(&existing); err == nil &&
				valuesEqual(existing, value) {
				continue
			}
			var n yaml.Node
			if err := n.Encode(value); err != nil {
				return "", false, fmt.Errorf("encode %s: %w", key, err)
			}
			mapping.Content[idx+1] = &n
			changed = true
			continue
		}

		var keyNode, valNode yaml.Node
		keyNode.SetString(key)
		if err := valNode.Encode(value); err != nil {
			return "", false, fmt.Errorf("encode %s: %w", key, err)
		}
		mapping.Content = append(mapping.Content, &keyNode, &valNode)
		changed = true
	}

	if !changed {
		return content, false, nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return "", false, fmt.Errorf("serialize frontmatter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", false, err
	}

	var out strings.Builder
	out.WriteString("---\n")
	out.Write(buf.Bytes())
	out.WriteString("---")
	if body != "" {
		out.WriteString("\n")
		out.WriteString(body)
	} else {
		out.WriteString("\n")
	}
	return out.String(), true, nil
}

func findKey(mapping *yaml.Node, key string) int {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return i
		}
	}
	return -1
}

// valuesEqual compares a decoded YAML value with an update value,
// tolerating the []string vs []interface{} representation difference.
func valuesEqual(existing, update interface{}) bool {
	if ss, ok := update.([]string); ok {
		generic := make([]interface{}, len(ss))
		for i, s := range ss {
			generic[i] = s
		}
		update = generic
	}
	return reflect.DeepEqual(existing, update)
}

// personFieldOrder is the canonical key order for freshly created person
// notes.
var personFieldOrder = []string{
	"type", "cr_id", "name", "sex", "gender_identity", "pronouns",
	"birth_date", "birth_place", "death_date", "death_place", "burial_place",
	"occupation", "research_level",
	"father", "father_id", "mother", "mother_id",
	"adoptive_father", "adoptive_father_id", "adoptive_mother", "adoptive_mother_id",
	"stepfather", "stepfather_id", "stepmother", "stepmother_id",
	"spouse", "spouse_id", "children", "children_id",
}

// RenderPerson serializes a person record into full note content with the
// canonical field order. Empty fields are omitted; extras are appended in
// sorted key order.
func RenderPerson(r *PersonRecord) (string, error) {
	fields := map[string]interface{}{
		"type":            TypePerson,
		"cr_id":           r.CrID,
		"name":            r.Name,
		"sex":             string(r.Sex),
		"gender_identity": r.GenderIdentity,
		"pronouns":        r.Pronouns,
		"birth_date":      r.BirthDate,
		"birth_place":     r.BirthPlace,
		"death_date":      r.DeathDate,
		"death_place":     r.DeathPlace,
		"burial_place":    r.BurialPlace,
		"occupation":      r.Occupation,
	}
	if r.ResearchLevel > 0 {
		fields["research_level"] = int(r.ResearchLevel)
	}

	addDualRef(fields, "father", r.Father)
	addDualRef(fields, "mother", r.Mother)
	addDualRef(fields, "adoptive_father", r.AdoptiveFather)
	addDualRef(fields, "adoptive_mother", r.AdoptiveMother)
	addDualList(fields, "stepfather", r.Stepfathers)
	addDualList(fields, "stepmother", r.Stepmothers)
	addDualList(fields, "spouse", r.Spouses)
	addDualList(fields, "children", r.Children)

	mapping := &yaml.Node{Kind: yaml.MappingNode}
	appendField := func(key string, value interface{}) error {
		var keyNode, valNode yaml.Node
		keyNode.SetString(key)
		if err := valNode.Encode(value); err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		mapping.Content = append(mapping.Content, &keyNode, &valNode)
		return nil
	}

	for _, key := range personFieldOrder {
		value, ok := fields[key]
		if !ok || isEmptyValue(value) {
			continue
		}
		if err := appendField(key, value); err != nil {
			return "", err
		}
	}

	extraKeys := make([]string, 0, len(r.Extras))
	for k := range r.Extras {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		if err := appendField(k, r.Extras[k]); err != nil {
			return "", err
		}
	}

	doc := yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mapping}}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	var out strings.Builder
	out.WriteString("---\n")
	out.Write(buf.Bytes())
	out.WriteString("---\n")
	if r.Body != "" {
		out.WriteString(r.Body)
	} else {
		out.WriteString("\n# " + r.Name + "\n")
	}
	return out.String(), nil
}

func addDualRef(fields map[string]interface{}, key string, d DualRef) {
	if d.Link != "" {
		fields[key] = "[[" + d.Link + "]]"
	}
	if d.ID != "" {
		fields[key+"_id"] = d.ID
	}
}

func addDualList(fields map[string]interface{}, key string, d DualList) {
	if len(d.Links) > 0 {
		links := make([]string, len(d.Links))
		for i, l := range d.Links {
			links[i] = "[[" + l + "]]"
		}
		fields[key] = links
	}
	if len(d.IDs) > 0 {
		fields[key+"_id"] = append([]string(nil), d.IDs...)
	}
}

func isEmptyValue(v interface{}) bool {
	switch x := v.(type) {
	case string:
		return x == ""
	case []string:
		return len(x) == 0
	case nil:
		return true
	default:
		return false
	}
}
