package cli

import (
	"fmt"

	"github.com/prentissw/charted-roots/internal/graph"
	"github.com/prentissw/charted-roots/internal/index"
	"github.com/prentissw/charted-roots/internal/vault"
)

// loadVault loads the resolved vault from disk.
func loadVault() (*vault.Vault, error) {
	v, err := vault.Load(getVaultPath())
	if err != nil {
		return nil, fmt.Errorf("load vault: %w", err)
	}
	return v, nil
}

// buildGraph assembles the family graph from a loaded vault.
func buildGraph(v *vault.Vault) *graph.Graph {
	g := graph.New()
	g.SetPersons(v.PersonModels())
	return g
}

// resolvePersonID resolves a cr_id, note name, or person name to exactly
// one cr_id, using the vault directly so no index is required.
func resolvePersonID(v *vault.Vault, query string) (string, error) {
	if v.PersonByID(query) != nil {
		return query, nil
	}
	if id, ok := v.Lookup(query); ok {
		return id, nil
	}

	// Prefix match on names as a convenience, but only when unambiguous.
	var matches []string
	for _, r := range v.Persons {
		if len(r.Name) >= len(query) && r.Name[:len(query)] == query {
			matches = append(matches, r.CrID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no person matches %q", query)
	default:
		return "", fmt.Errorf("%q matches %d persons, use a cr_id", query, len(matches))
	}
}

// openIndex opens the vault's index and rebuilds it from the loaded vault,
// so queries always see the current note contents.
func openIndex(v *vault.Vault) (*index.Database, error) {
	db, err := index.Open(getVaultPath())
	if err != nil {
		return nil, err
	}
	if err := db.Rebuild(v); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
