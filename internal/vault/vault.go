// Package vault reads and writes the markdown notes of a genealogy vault.
//
// A vault is a directory tree of .md files. Notes whose frontmatter carries
// type: person, place, or event are parsed into records; everything else is
// left alone. Load never aborts on a bad note: parse failures are collected
// per file so one malformed record cannot hide the rest of the vault.
package vault

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/prentissw/charted-roots/internal/model"
	"github.com/prentissw/charted-roots/internal/note"
)

// metaDir is the vault-local directory holding the index database and other
// derived state. It is never walked.
const metaDir = ".roots"

// FileError records a file that could not be read or parsed during Load.
type FileError struct {
	Path string // vault-relative
	Err  error
}

// Vault holds every parsed record of a loaded vault.
type Vault struct {
	Root string

	Persons []*note.PersonRecord
	Places  []*note.PlaceRecord
	Events  []*note.EventRecord

	// Errors lists files that failed to read or parse. The rest of the
	// vault is still usable.
	Errors []FileError

	personLookup map[string]string
	placeLookup  map[string]string
}

// Load walks root and parses every typed note. It returns an error only when
// the root itself cannot be walked; per-file failures land in Vault.Errors.
func Load(root string) (*Vault, error) {
	v := &Vault{Root: root}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			rel, _ := filepath.Rel(root, path)
			v.Errors = append(v.Errors, FileError{Path: rel, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			// Skip the metadata dir and hidden dirs (.obsidian, .trash).
			if path != root && (d.Name() == metaDir || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".md") {
			return nil
		}

		rel, _ := filepath.Rel(root, path)
		content, err := os.ReadFile(path)
		if err != nil {
			v.Errors = append(v.Errors, FileError{Path: rel, Err: err})
			return nil
		}

		typ, err := note.NoteType(string(content))
		if err != nil {
			v.Errors = append(v.Errors, FileError{Path: rel, Err: err})
			return nil
		}
		switch typ {
		case note.TypePerson:
			r, err := note.ParsePerson(rel, string(content))
			if err != nil {
				v.Errors = append(v.Errors, FileError{Path: rel, Err: err})
				return nil
			}
			v.Persons = append(v.Persons, r)
		case note.TypePlace:
			r, err := note.ParsePlace(rel, string(content))
			if err != nil {
				v.Errors = append(v.Errors, FileError{Path: rel, Err: err})
				return nil
			}
			v.Places = append(v.Places, r)
		case note.TypeEvent:
			r, err := note.ParseEvent(rel, string(content))
			if err != nil {
				v.Errors = append(v.Errors, FileError{Path: rel, Err: err})
				return nil
			}
			v.Events = append(v.Events, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Lookup resolves a person wikilink target (note name, with person name as a
// fallback) to a cr_id. First writer wins on duplicate names.
func (v *Vault) Lookup(target string) (string, bool) {
	if v.personLookup == nil {
		v.personLookup = make(map[string]string)
		for _, r := range v.Persons {
			if r.CrID == "" {
				continue
			}
			if _, ok := v.personLookup[r.NoteName]; !ok {
				v.personLookup[r.NoteName] = r.CrID
			}
			if r.Name != "" {
				if _, ok := v.personLookup[r.Name]; !ok {
					v.personLookup[r.Name] = r.CrID
				}
			}
		}
	}
	id, ok := v.personLookup[target]
	return id, ok
}

// LookupPlace resolves a place wikilink target to a place ID.
func (v *Vault) LookupPlace(target string) (string, bool) {
	if v.placeLookup == nil {
		v.placeLookup = make(map[string]string)
		for _, r := range v.Places {
			if r.ID == "" {
				continue
			}
			if _, ok := v.placeLookup[r.NoteName]; !ok {
				v.placeLookup[r.NoteName] = r.ID
			}
			if r.Name != "" {
				if _, ok := v.placeLookup[r.Name]; !ok {
					v.placeLookup[r.Name] = r.ID
				}
			}
		}
	}
	id, ok := v.placeLookup[target]
	return id, ok
}

// PersonModels converts the person records to model persons, resolving all
// dual-storage references ID-first.
func (v *Vault) PersonModels() []*model.Person {
	out := make([]*model.Person, 0, len(v.Persons))
	for _, r := range v.Persons {
		out = append(out, r.ToPerson(v.Lookup))
	}
	return out
}

// PlaceModels converts the place records, resolving parent references
// against the vault's own place notes.
func (v *Vault) PlaceModels() []*model.Place {
	out := make([]*model.Place, 0, len(v.Places))
	for _, r := range v.Places {
		parentID, _ := r.Parent.Resolve(v.LookupPlace)
		out = append(out, &model.Place{
			ID:        r.ID,
			Name:      r.Name,
			ParentID:  parentID,
			Type:      r.Type,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}
	return out
}

// EventModels converts the event records. Participants resolve against
// person notes, the place against place notes.
func (v *Vault) EventModels() []*model.Event {
	out := make([]*model.Event, 0, len(v.Events))
	for _, r := range v.Events {
		placeID, _ := r.Place.Resolve(v.LookupPlace)
		people, _ := r.People.ResolveList(v.Lookup)
		out = append(out, &model.Event{
			CrID:      r.CrID,
			Type:      r.Type,
			Date:      r.Date,
			PlaceID:   placeID,
			PersonIDs: people,
		})
	}
	return out
}

// PersonByID returns the record carrying the given cr_id, or nil.
func (v *Vault) PersonByID(id string) *note.PersonRecord {
	for _, r := range v.Persons {
		if r.CrID == id {
			return r
		}
	}
	return nil
}
