package index

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/prentissw/charted-roots/internal/sqlutil"
)

// PersonRow is a person as stored in the index.
type PersonRow struct {
	CrID          string
	FilePath      string
	Name          string
	Sex           string
	BirthDate     *string
	DeathDate     *string
	BirthPlace    *string
	Occupation    *string
	ResearchLevel int
	Living        bool
}

// Stats summarizes the indexed vault.
type Stats struct {
	Persons     int
	Places      int
	Events      int
	ParentLinks int
	SpouseLinks int
	Living      int

	// ByResearchLevel counts persons at each research level 0-6.
	ByResearchLevel map[int]int
}

const personColumns = `cr_id, file_path, name, sex, birth_date, death_date,
	birth_place, occupation, research_level, living`

func scanPerson(rows *sql.Rows) (PersonRow, error) {
	var r PersonRow
	var living int
	err := rows.Scan(&r.CrID, &r.FilePath, &r.Name, &r.Sex,
		&r.BirthDate, &r.DeathDate, &r.BirthPlace, &r.Occupation,
		&r.ResearchLevel, &living)
	r.Living = living != 0
	return r, err
}

// Person looks up one person by cr_id.
func (d *Database) Person(crID string) (*PersonRow, error) {
	rows, err := d.db.Query(
		"SELECT "+personColumns+" FROM persons WHERE cr_id = ?", crID)
	if err != nil {
		return nil, err
	}
	results, err := sqlutil.ScanRows(rows, scanPerson)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrPersonNotFound, crID)
	}
	return &results[0], nil
}

// PersonsByIDs returns the indexed rows for the given cr_ids, sorted by name.
func (d *Database) PersonsByIDs(ids []string) ([]PersonRow, error) {
	ph, args := sqlutil.InClauseArgs(ids)
	rows, err := d.db.Query(
		"SELECT "+personColumns+" FROM persons WHERE cr_id IN ("+ph+") ORDER BY name", args...)
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanRows(rows, scanPerson)
}

// FindPerson resolves a name or cr_id to indexed persons. An exact cr_id
// match wins; otherwise exact names, then case-insensitive prefix matches.
func (d *Database) FindPerson(query string) ([]PersonRow, error) {
	if p, err := d.Person(query); err == nil {
		return []PersonRow{*p}, nil
	}

	rows, err := d.db.Query(
		"SELECT "+personColumns+" FROM persons WHERE name = ? ORDER BY cr_id", query)
	if err != nil {
		return nil, err
	}
	exact, err := sqlutil.ScanRows(rows, scanPerson)
	if err != nil {
		return nil, err
	}
	if len(exact) > 0 {
		return exact, nil
	}

	rows, err = d.db.Query(
		"SELECT "+personColumns+" FROM persons WHERE name LIKE ? ORDER BY name, cr_id",
		query+"%")
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanRows(rows, scanPerson)
}

// SearchResult is one full-text search hit.
type SearchResult struct {
	CrID     string
	Name     string
	FilePath string
	Snippet  string
}

// Search runs a full-text query over person names and note bodies.
func (d *Database) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.Query(`
		SELECT cr_id, name, file_path,
		       snippet(fts_persons, 2, '[', ']', ' … ', 12)
		FROM fts_persons
		WHERE fts_persons MATCH ?
		ORDER BY rank
		LIMIT ?`,
		buildFTSQuery(query), limit)
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (SearchResult, error) {
		var r SearchResult
		err := rows.Scan(&r.CrID, &r.Name, &r.FilePath, &r.Snippet)
		return r, err
	})
}

// buildFTSQuery quotes every token so user input can never hit FTS5
// operator syntax (hyphens in particular parse as column filters).
func buildFTSQuery(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return `""`
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, " ")
}

// Reference is one indexed relationship edge pointing at a person.
type Reference struct {
	SourceID string // the person holding the reference
	Kind     string // father, mother, stepfather, ..., or spouse
	FilePath string
}

// ReferencesTo lists every parent or spouse edge whose target is crID,
// i.e. the people whose notes mention this person.
func (d *Database) ReferencesTo(crID string) ([]Reference, error) {
	rows, err := d.db.Query(`
		SELECT child_id, kind, file_path FROM parent_edges WHERE parent_id = ?
		UNION ALL
		SELECT person_id, 'spouse', file_path FROM spouse_edges WHERE spouse_id = ?
		ORDER BY 1, 2`,
		crID, crID)
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (Reference, error) {
		var r Reference
		err := rows.Scan(&r.SourceID, &r.Kind, &r.FilePath)
		return r, err
	})
}

// EventRow is an event as stored in the index.
type EventRow struct {
	CrID      string
	EventType string
	Date      *string
	PlaceID   *string
	FilePath  string
}

// EventsForPerson lists events the person participates in, oldest first by
// date string (undated events last).
func (d *Database) EventsForPerson(crID string) ([]EventRow, error) {
	rows, err := d.db.Query(`
		SELECT e.cr_id, e.event_type, e.date, e.place_id, e.file_path
		FROM events e
		JOIN event_people ep ON ep.event_id = e.cr_id
		WHERE ep.person_id = ?
		ORDER BY e.date IS NULL, e.date, e.cr_id`,
		crID)
	if err != nil {
		return nil, err
	}
	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (EventRow, error) {
		var r EventRow
		err := rows.Scan(&r.CrID, &r.EventType, &r.Date, &r.PlaceID, &r.FilePath)
		return r, err
	})
}

// VaultStats computes summary counts over the whole index.
func (d *Database) VaultStats() (*Stats, error) {
	s := &Stats{ByResearchLevel: make(map[int]int)}

	counts := []struct {
		query string
		dst   *int
	}{
		{"SELECT COUNT(*) FROM persons", &s.Persons},
		{"SELECT COUNT(*) FROM places", &s.Places},
		{"SELECT COUNT(*) FROM events", &s.Events},
		{"SELECT COUNT(*) FROM parent_edges", &s.ParentLinks},
		{"SELECT COUNT(*) FROM spouse_edges", &s.SpouseLinks},
		{"SELECT COUNT(*) FROM persons WHERE living = 1", &s.Living},
	}
	for _, c := range counts {
		if err := d.db.QueryRow(c.query).Scan(c.dst); err != nil {
			return nil, err
		}
	}

	rows, err := d.db.Query(
		"SELECT research_level, COUNT(*) FROM persons GROUP BY research_level")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var level, n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, err
		}
		s.ByResearchLevel[level] = n
	}
	return s, rows.Err()
}
