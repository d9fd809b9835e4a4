package poemquiz

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// PoemDB is a SQLite-backed poem corpus. The table is read fully into an
// in-memory PoemStore by Load, so corpus validation happens once at startup
// and queries never touch the database afterwards.
type PoemDB struct {
	db    *sql.DB
	store *PoemStore
}

// OpenPoemDB opens (creating if necessary) a poem database file.
func OpenPoemDB(dbPath string) (*PoemDB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open poem database: %w", err)
	}

	// Single connection: sqlite allows one writer, and it keeps an
	// in-memory database from being split across pool connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping poem database: %w", err)
	}

	return &PoemDB{db: db}, nil
}

// Close closes the underlying database connection.
func (d *PoemDB) Close() error {
	return d.db.Close()
}

// CreateTables creates the poems table if it does not exist.
func (d *PoemDB) CreateTables() error {
	query := `CREATE TABLE IF NOT EXISTS poems (
		id INTEGER PRIMARY KEY,
		author TEXT NOT NULL,
		upper TEXT NOT NULL,
		lower TEXT NOT NULL,
		reading_upper TEXT,
		reading_lower TEXT,
		description TEXT
	)`
	if _, err := d.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create poems table: %w", err)
	}
	return nil
}

// ImportPoems validates the given records and writes them to the poems
// table, replacing rows with matching ids.
func (d *PoemDB) ImportPoems(poems []Poem) error {
	if err := validatePoems(poems); err != nil {
		return fmt.Errorf("refusing to import: %w", err)
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT OR REPLACE INTO poems (id, author, upper, lower, reading_upper, reading_lower, description) VALUES (?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare import: %w", err)
	}
	defer stmt.Close()

	for _, p := range poems {
		if _, err := stmt.Exec(p.ID, p.Author, p.Upper, p.Lower, p.ReadingUpper, p.ReadingLower, p.Description); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to import poem %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// Load reads every poem row, validates the corpus, and caches it for the
// repository methods. It must be called before the PoemDB is used as a
// PoemRepository.
func (d *PoemDB) Load() error {
	rows, err := d.db.Query(
		"SELECT id, author, upper, lower, COALESCE(reading_upper, ''), COALESCE(reading_lower, ''), COALESCE(description, '') FROM poems ORDER BY id",
	)
	if err != nil {
		return fmt.Errorf("failed to load poems: %w", err)
	}
	defer rows.Close()

	var poems []Poem
	for rows.Next() {
		var p Poem
		if err := rows.Scan(&p.ID, &p.Author, &p.Upper, &p.Lower, &p.ReadingUpper, &p.ReadingLower, &p.Description); err != nil {
			return fmt.Errorf("failed to scan poem: %w", err)
		}
		poems = append(poems, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating poems: %w", err)
	}

	store, err := NewPoemStore(poems)
	if err != nil {
		return err
	}
	d.store = store
	return nil
}

// Store returns the loaded in-memory corpus, or nil before Load.
func (d *PoemDB) Store() *PoemStore {
	return d.store
}

// PoemCount implements PoemRepository.
func (d *PoemDB) PoemCount() int {
	if d.store == nil {
		return 0
	}
	return d.store.PoemCount()
}

// PoemByID implements PoemRepository.
func (d *PoemDB) PoemByID(id int) (Poem, bool) {
	if d.store == nil {
		return Poem{}, false
	}
	return d.store.PoemByID(id)
}

// Poems implements PoemRepository.
func (d *PoemDB) Poems() []Poem {
	if d.store == nil {
		return nil
	}
	return d.store.Poems()
}

// RandomPoems implements PoemRepository.
func (d *PoemDB) RandomPoems(count int, excludeID int) []Poem {
	if d.store == nil {
		return nil
	}
	return d.store.RandomPoems(count, excludeID)
}
