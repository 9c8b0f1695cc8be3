// Package index maintains the vault's SQLite index.
//
// The index lives in the vault's .roots directory and is derived state: it
// can always be rebuilt from the notes. It exists so that lookups, stats,
// and name search do not require re-parsing the whole vault on every
// invocation.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/prentissw/charted-roots/internal/model"
	"github.com/prentissw/charted-roots/internal/vault"
)

var (
	// ErrPersonNotFound indicates the requested cr_id is not in the index.
	ErrPersonNotFound = errors.New("person not found in index")
	// ErrIndexLocked indicates another process is rebuilding the index.
	ErrIndexLocked = errors.New("index is locked for rebuild")
)

// metaDir is the vault-local directory holding the index database.
const metaDir = ".roots"

// schemaVersion is bumped whenever the table layout changes; an index with
// a different version is deleted and rebuilt.
const schemaVersion = 2

// Database is the SQLite index handle.
type Database struct {
	db *sql.DB
}

// DB returns the underlying sql.DB for ad-hoc queries.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Open opens or creates the index database under vaultPath.
func Open(vaultPath string) (*Database, error) {
	dbDir := filepath.Join(vaultPath, metaDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s directory: %w", metaDir, err)
	}

	dbPath := filepath.Join(dbDir, "index.db")

	lock, err := acquireLock(dbDir)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	if stale, err := isStaleSchema(dbPath); err == nil && stale {
		if err := removeDatabaseFiles(dbPath); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// OpenInMemory opens an in-memory index (for testing).
func OpenInMemory() (*Database, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database.
func (d *Database) Close() error {
	return d.db.Close()
}

// Analyze refreshes the query planner statistics. Call after a rebuild.
func (d *Database) Analyze() error {
	_, err := d.db.Exec("ANALYZE")
	return err
}

type indexLock struct {
	file *os.File
}

func acquireLock(dbDir string) (*indexLock, error) {
	lockPath := filepath.Join(dbDir, "index.lock")
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open index lock: %w", err)
	}
	if err := lockFileExclusiveNonBlocking(f); err != nil {
		f.Close()
		if isWouldBlockError(err) {
			return nil, ErrIndexLocked
		}
		return nil, fmt.Errorf("acquire index lock: %w", err)
	}
	return &indexLock{file: f}, nil
}

func (l *indexLock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlockFile(l.file)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}

// isStaleSchema reports whether an existing database was written by a
// different schema version.
func isStaleSchema(dbPath string) (bool, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return false, nil
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return true, nil
	}
	defer db.Close()

	var v string
	err = db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&v)
	if err != nil {
		return true, nil
	}
	return v != fmt.Sprint(schemaVersion), nil
}

func removeDatabaseFiles(dbPath string) error {
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}

func (d *Database) initialize() error {
	schema := `
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
		PRAGMA cache_size = -64000;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS persons (
			cr_id TEXT PRIMARY KEY,
			file_path TEXT NOT NULL,
			name TEXT NOT NULL,
			sex TEXT NOT NULL,
			birth_date TEXT,
			death_date TEXT,
			birth_place TEXT,
			occupation TEXT,
			research_level INTEGER NOT NULL DEFAULT 0,
			living INTEGER NOT NULL DEFAULT 0,
			indexed_at INTEGER
		);

		-- Child-to-parent relationship edges, one row per reference.
		CREATE TABLE IF NOT EXISTS parent_edges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			child_id TEXT NOT NULL,
			parent_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			file_path TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS spouse_edges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			person_id TEXT NOT NULL,
			spouse_id TEXT NOT NULL,
			file_path TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS places (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			parent_id TEXT,
			place_type TEXT NOT NULL,
			file_path TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS events (
			cr_id TEXT PRIMARY KEY,
			event_type TEXT NOT NULL,
			date TEXT,
			place_id TEXT,
			file_path TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS event_people (
			event_id TEXT NOT NULL,
			person_id TEXT NOT NULL,
			file_path TEXT NOT NULL,
			PRIMARY KEY (event_id, person_id)
		);

		CREATE INDEX IF NOT EXISTS idx_persons_file ON persons(file_path);
		CREATE INDEX IF NOT EXISTS idx_persons_name ON persons(name);
		CREATE INDEX IF NOT EXISTS idx_parent_edges_child ON parent_edges(child_id);
		CREATE INDEX IF NOT EXISTS idx_parent_edges_parent ON parent_edges(parent_id);
		CREATE INDEX IF NOT EXISTS idx_spouse_edges_person ON spouse_edges(person_id);
		CREATE INDEX IF NOT EXISTS idx_spouse_edges_spouse ON spouse_edges(spouse_id);
		CREATE INDEX IF NOT EXISTS idx_places_parent ON places(parent_id);
		CREATE INDEX IF NOT EXISTS idx_events_place ON events(place_id);
		CREATE INDEX IF NOT EXISTS idx_event_people_person ON event_people(person_id);

		CREATE VIRTUAL TABLE IF NOT EXISTS fts_persons USING fts5(
			cr_id,
			name,
			body,
			file_path UNINDEXED,
			tokenize='porter unicode61'
		);
	`
	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize index schema: %w", err)
	}
	_, err := d.db.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)",
		fmt.Sprint(schemaVersion),
	)
	return err
}

var filePathTables = []string{
	"persons", "parent_edges", "spouse_edges",
	"places", "events", "event_people", "fts_persons",
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func deleteByFilePath(e execer, filePath string) error {
	for _, table := range filePathTables {
		if _, err := e.Exec("DELETE FROM "+table+" WHERE file_path = ?", filePath); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return nil
}

// Rebuild replaces the whole index with the contents of a loaded vault.
func (d *Database) Rebuild(v *vault.Vault) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range filePathTables {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	now := time.Now().Unix()
	for _, r := range v.Persons {
		p := r.ToPerson(v.Lookup)
		if err := insertPerson(tx, r.Path, r.Body, p, now); err != nil {
			return err
		}
	}
	for i, p := range v.PlaceModels() {
		r := v.Places[i]
		_, err := tx.Exec(
			"INSERT OR REPLACE INTO places (id, name, parent_id, place_type, file_path) VALUES (?, ?, ?, ?, ?)",
			p.ID, p.Name, nullable(p.ParentID), string(p.Type), r.Path,
		)
		if err != nil {
			return fmt.Errorf("index place %s: %w", p.ID, err)
		}
	}
	for i, e := range v.EventModels() {
		r := v.Events[i]
		_, err := tx.Exec(
			"INSERT OR REPLACE INTO events (cr_id, event_type, date, place_id, file_path) VALUES (?, ?, ?, ?, ?)",
			e.CrID, string(e.Type), nullable(e.Date), nullable(e.PlaceID), r.Path,
		)
		if err != nil {
			return fmt.Errorf("index event %s: %w", e.CrID, err)
		}
		for _, pid := range e.PersonIDs {
			_, err := tx.Exec(
				"INSERT OR IGNORE INTO event_people (event_id, person_id, file_path) VALUES (?, ?, ?)",
				e.CrID, pid, r.Path,
			)
			if err != nil {
				return fmt.Errorf("index event %s: %w", e.CrID, err)
			}
		}
	}

	return tx.Commit()
}

// UpdateFile re-indexes a single note, given the vault it belongs to. Rows
// from the file's previous contents are dropped first.
func (d *Database) UpdateFile(v *vault.Vault, relPath string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteByFilePath(tx, relPath); err != nil {
		return err
	}

	now := time.Now().Unix()
	for _, r := range v.Persons {
		if r.Path != relPath {
			continue
		}
		if err := insertPerson(tx, r.Path, r.Body, r.ToPerson(v.Lookup), now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func insertPerson(e execer, path, body string, p *model.Person, now int64) error {
	living := 0
	if p.Living() {
		living = 1
	}
	_, err := e.Exec(`
		INSERT OR REPLACE INTO persons
			(cr_id, file_path, name, sex, birth_date, death_date, birth_place,
			 occupation, research_level, living, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CrID, path, p.Name, string(p.Sex),
		nullable(p.BirthDate), nullable(p.DeathDate), nullable(p.BirthPlace),
		nullable(p.Occupation), int(p.ResearchLevel), living, now,
	)
	if err != nil {
		return fmt.Errorf("index person %s: %w", p.CrID, err)
	}

	for kind, parentID := range parentEdges(p) {
		for _, pid := range parentID {
			_, err := e.Exec(
				"INSERT INTO parent_edges (child_id, parent_id, kind, file_path) VALUES (?, ?, ?, ?)",
				p.CrID, pid, kind, path,
			)
			if err != nil {
				return fmt.Errorf("index person %s: %w", p.CrID, err)
			}
		}
	}
	for _, sid := range p.SpouseIDs {
		_, err := e.Exec(
			"INSERT INTO spouse_edges (person_id, spouse_id, file_path) VALUES (?, ?, ?)",
			p.CrID, sid, path,
		)
		if err != nil {
			return fmt.Errorf("index person %s: %w", p.CrID, err)
		}
	}

	_, err = e.Exec(
		"INSERT INTO fts_persons (cr_id, name, body, file_path) VALUES (?, ?, ?, ?)",
		p.CrID, p.Name, strings.TrimSpace(body), path,
	)
	if err != nil {
		return fmt.Errorf("index person %s: %w", p.CrID, err)
	}
	return nil
}

func parentEdges(p *model.Person) map[string][]string {
	edges := make(map[string][]string)
	add := func(kind, id string) {
		if id != "" {
			edges[kind] = append(edges[kind], id)
		}
	}
	add("father", p.FatherID)
	add("mother", p.MotherID)
	add("adoptive_father", p.AdoptiveFatherID)
	add("adoptive_mother", p.AdoptiveMotherID)
	for _, id := range p.StepfatherIDs {
		add("stepfather", id)
	}
	for _, id := range p.StepmotherIDs {
		add("stepmother", id)
	}
	return edges
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
