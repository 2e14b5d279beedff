// Package ledger tracks which PDF files have already been processed.
//
// The mark is keyed by a hash of the file contents rather than the path,
// so it survives the rename the tool itself performs as well as later
// manual moves within the folder.
package ledger

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/crypto/blake2b"
	_ "modernc.org/sqlite"
)

// DBFile is the ledger filename, created next to the bibtex file.
const DBFile = ".pdfrenamer.db"

// DB wraps the SQLite ledger.
type DB struct {
	db *sql.DB
}

// Record describes one processed file.
type Record struct {
	Hash           string
	Format         string
	Identifier     string
	IdentifierType string
	Filename       string
	ProcessedAt    time.Time
}

// Open opens or creates a ledger at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the ledger.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the ledger schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS processed (
			hash TEXT PRIMARY KEY,
			format TEXT NOT NULL,
			identifier TEXT,
			identifier_type TEXT,
			filename TEXT,
			processed_at TEXT NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}

// HashFile returns the BLAKE2b-256 hash of a file's contents.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file for hashing: %w", err)
	}
	defer f.Close()

	h, err := blake2b.New256(nil)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// IsProcessed reports whether the file was already processed with the
// given name format. A file processed under a different format counts as
// unprocessed, matching the original skip rule.
func (d *DB) IsProcessed(path, format string) (bool, error) {
	hash, err := HashFile(path)
	if err != nil {
		return false, err
	}

	var storedFormat string
	err = d.db.QueryRow(
		`SELECT format FROM processed WHERE hash = ?`, hash,
	).Scan(&storedFormat)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying ledger: %w", err)
	}

	return storedFormat == format, nil
}

// MarkProcessed records that the file at path was processed.
func (d *DB) MarkProcessed(path string, rec Record) error {
	hash, err := HashFile(path)
	if err != nil {
		return err
	}

	_, err = d.db.Exec(`
		INSERT OR REPLACE INTO processed
		(hash, format, identifier, identifier_type, filename, processed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		hash,
		rec.Format,
		rec.Identifier,
		rec.IdentifierType,
		rec.Filename,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	return nil
}

// Get returns the record for a file, or nil if it has none.
func (d *DB) Get(path string) (*Record, error) {
	hash, err := HashFile(path)
	if err != nil {
		return nil, err
	}

	var rec Record
	var processedAt string
	err = d.db.QueryRow(`
		SELECT hash, format, identifier, identifier_type, filename, processed_at
		FROM processed WHERE hash = ?`, hash,
	).Scan(&rec.Hash, &rec.Format, &rec.Identifier, &rec.IdentifierType,
		&rec.Filename, &processedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}

	if t, err := time.Parse(time.RFC3339, processedAt); err == nil {
		rec.ProcessedAt = t
	}
	return &rec, nil
}
