package vault

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prentissw/charted-roots/internal/atomicfile"
	"github.com/prentissw/charted-roots/internal/note"
	"github.com/prentissw/charted-roots/internal/slugs"
	"github.com/prentissw/charted-roots/internal/storage"
)

// Apply writes a sync plan to disk. Each change is re-applied against the
// file's current content, so a note edited since Load only gains the fields
// the plan names. Returns the number of files actually rewritten.
func (v *Vault) Apply(plan *storage.Plan) (int, error) {
	written := 0
	for _, c := range plan.Changes {
		path := filepath.Join(v.Root, c.Path)
		content, err := os.ReadFile(path)
		if err != nil {
			return written, fmt.Errorf("apply %s: %w", c.Path, err)
		}
		updated, changed, err := note.UpdateFields(string(content), c.Fields)
		if err != nil {
			return written, fmt.Errorf("apply %s: %w", c.Path, err)
		}
		if !changed {
			continue
		}
		if err := atomicfile.WriteFile(path, []byte(updated), 0); err != nil {
			return written, fmt.Errorf("apply %s: %w", c.Path, err)
		}
		written++
	}
	return written, nil
}

// CreatePerson renders a new person note under dir (vault-relative, may be
// empty for the root) and adds it to the loaded vault. The note name is
// slugged from the person's name and de-duplicated against existing files.
// Returns the vault-relative path of the new note.
func (v *Vault) CreatePerson(dir string, r *note.PersonRecord) (string, error) {
	if r.CrID == "" {
		return "", fmt.Errorf("create person: missing cr_id")
	}

	taken := make(map[string]bool, len(v.Persons))
	for _, p := range v.Persons {
		taken[slugs.Name(p.NoteName)] = true
	}
	name := slugs.Unique(slugs.Name(r.Name), taken)

	rel := name + ".md"
	if dir != "" {
		rel = filepath.Join(dir, rel)
	}
	path := filepath.Join(v.Root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create person: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("create person: %s already exists", rel)
	}

	r.Path = rel
	r.NoteName = name
	content, err := note.RenderPerson(r)
	if err != nil {
		return "", fmt.Errorf("create person: %w", err)
	}
	if err := atomicfile.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("create person: %w", err)
	}

	v.Persons = append(v.Persons, r)
	v.personLookup = nil
	return rel, nil
}
