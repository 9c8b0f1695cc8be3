// Package testutil builds temporary vaults for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestVault is a temporary vault under construction. Call Build to create
// the directory tree.
type TestVault struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestVault creates a vault builder.
func NewTestVault(t *testing.T) *TestVault {
	t.Helper()
	return &TestVault{t: t, files: make(map[string]string)}
}

// WithFile adds a file, path relative to the vault root.
func (v *TestVault) WithFile(path, content string) *TestVault {
	v.files[path] = content
	return v
}

// WithPerson adds a person note under people/. Frontmatter lines are given
// without the delimiters.
func (v *TestVault) WithPerson(name string, frontmatter ...string) *TestVault {
	return v.withNote("people/"+name+".md", "person", frontmatter)
}

// WithPlace adds a place note under places/.
func (v *TestVault) WithPlace(name string, frontmatter ...string) *TestVault {
	return v.withNote("places/"+name+".md", "place", frontmatter)
}

// WithEvent adds an event note under events/.
func (v *TestVault) WithEvent(name string, frontmatter ...string) *TestVault {
	return v.withNote("events/"+name+".md", "event", frontmatter)
}

func (v *TestVault) withNote(path, noteType string, frontmatter []string) *TestVault {
	content := "---\ntype: " + noteType + "\n"
	for _, line := range frontmatter {
		content += line + "\n"
	}
	content += "---\n"
	v.files[path] = content
	return v
}

// WithVaultConfig sets .roots/config.toml.
func (v *TestVault) WithVaultConfig(toml string) *TestVault {
	v.files[filepath.Join(".roots", "config.toml")] = toml
	return v
}

// Build creates the vault under t.TempDir.
func (v *TestVault) Build() *TestVault {
	v.t.Helper()
	v.Path = v.t.TempDir()
	for path, content := range v.files {
		v.writeFile(path, content)
	}
	return v
}

func (v *TestVault) writeFile(relPath, content string) {
	v.t.Helper()
	fullPath := filepath.Join(v.Path, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		v.t.Fatalf("mkdir for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
		v.t.Fatalf("write %s: %v", relPath, err)
	}
}

// ReadFile reads a file relative to the vault root, failing the test on
// error.
func (v *TestVault) ReadFile(relPath string) string {
	v.t.Helper()
	data, err := os.ReadFile(filepath.Join(v.Path, relPath))
	if err != nil {
		v.t.Fatalf("read %s: %v", relPath, err)
	}
	return string(data)
}
