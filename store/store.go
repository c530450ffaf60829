// Package store persists standardized citation documents and their dedup
// keys in a local SQLite database. Documents are kept as JSON blobs keyed
// by citation id, so the schema survives additions to the document shape.
package store

import (
	"database/sql"
	"fmt"

	"github.com/miku/citkit/dedup"
	"github.com/miku/citkit/standardize"
	"github.com/segmentio/encoding/json"

	_ "modernc.org/sqlite"
)

var initStatements = []string{
	`CREATE TABLE IF NOT EXISTS standardized (
  id TEXT PRIMARY KEY,
  update_date TEXT,
  doc TEXT
)`,
	`CREATE INDEX IF NOT EXISTS idx_standardized_update_date ON standardized(update_date)`,
	`CREATE TABLE IF NOT EXISTS dedup_keys (
  cit_id TEXT,
  label TEXT,
  hash TEXT,
  fields TEXT,
  PRIMARY KEY (cit_id, label)
)`,
	`CREATE INDEX IF NOT EXISTS idx_dedup_keys_hash ON dedup_keys(hash)`,
}

// Store wraps a single SQLite database file.
type Store struct {
	db *sql.DB
}

// Open opens or creates a store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)
	for _, stmt := range initStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("initializing schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertDocuments writes a batch of standardized documents, replacing any
// previous version per id.
func (s *Store) UpsertDocuments(docs []standardize.Document) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO standardized (id, update_date, doc) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, doc := range docs {
		b, err := json.Marshal(doc)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encoding %s: %w", doc.ID, err)
		}
		if _, err := stmt.Exec(doc.ID, doc.UpdateDate, string(b)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// UpsertKeys writes a batch of dedup keys, one row per citation and variant.
func (s *Store) UpsertKeys(keys []dedup.Key) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO dedup_keys (cit_id, label, hash, fields) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, k := range keys {
		b, err := json.Marshal(k.Fields)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encoding key for %s: %w", k.CitationID, err)
		}
		if _, err := stmt.Exec(k.CitationID, k.Label, k.Hash, string(b)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Document returns one standardized document by id, or (nil, nil) when the
// id is unknown.
func (s *Store) Document(id string) (*standardize.Document, error) {
	var blob string
	err := s.db.QueryRow(`SELECT doc FROM standardized WHERE id = ?`, id).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc standardize.Document
	if err := json.Unmarshal([]byte(blob), &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", id, err)
	}
	return &doc, nil
}

// DocumentsUpdatedBetween returns documents with an update date in [from,
// to], ordered by id. Dates compare lexicographically, so pass them in the
// same format they were stored in.
func (s *Store) DocumentsUpdatedBetween(from, to string) ([]standardize.Document, error) {
	rows, err := s.db.Query(`SELECT doc FROM standardized WHERE update_date >= ? AND update_date <= ? ORDER BY id`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []standardize.Document
	for rows.Next() {
		var blob string
		if err := rows.Scan(&blob); err != nil {
			return nil, err
		}
		var doc standardize.Document
		if err := json.Unmarshal([]byte(blob), &doc); err != nil {
			return nil, fmt.Errorf("decoding document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// KeysByHash returns all dedup keys sharing a hash, that is one duplicate
// cluster, ordered by citation id.
func (s *Store) KeysByHash(hash string) ([]dedup.Key, error) {
	rows, err := s.db.Query(`SELECT cit_id, label, hash, fields FROM dedup_keys WHERE hash = ? ORDER BY cit_id`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKeys(rows)
}

// KeysForCitation returns all key variants recorded for a citation id.
func (s *Store) KeysForCitation(citID string) ([]dedup.Key, error) {
	rows, err := s.db.Query(`SELECT cit_id, label, hash, fields FROM dedup_keys WHERE cit_id = ? ORDER BY label`, citID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanKeys(rows)
}

func scanKeys(rows *sql.Rows) ([]dedup.Key, error) {
	var keys []dedup.Key
	for rows.Next() {
		var k dedup.Key
		var fields string
		if err := rows.Scan(&k.CitationID, &k.Label, &k.Hash, &fields); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fields), &k.Fields); err != nil {
			return nil, fmt.Errorf("decoding key fields for %s: %w", k.CitationID, err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
