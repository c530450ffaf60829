package refdb

import (
	"errors"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/segmentio/encoding/json"
)

// ErrIncompleteDatabase is returned by Load when the blob decodes but lacks
// required sections; resolving against a partial database would silently
// miss matches.
var ErrIncompleteDatabase = errors.New("incomplete reference database")

// Save writes the database as a zstd compressed JSON blob. The format is
// internal and versioned through the Version and CreationDate fields.
func Save(db *Database, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	zw, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(zw)
	if err := enc.Encode(db); err != nil {
		zw.Close()
		return fmt.Errorf("encoding database: %w", err)
	}
	if err := zw.Close(); err != nil {
		return err
	}
	return f.Close()
}

// Load reads a database blob written by Save. The whole structure is loaded
// up front; afterwards the database is read-only.
func Load(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	var db Database
	dec := json.NewDecoder(zr.IOReadCloser())
	if err := dec.Decode(&db); err != nil {
		return nil, fmt.Errorf("decoding database: %w", err)
	}
	if db.ISSNLToData == nil || db.TitleToISSNL == nil || db.ISSNToISSNL == nil {
		return nil, ErrIncompleteDatabase
	}
	if db.ISSNYearVolume == nil {
		db.ISSNYearVolume = make(map[string]bool)
	}
	if db.TitleYearVolume == nil {
		db.TitleYearVolume = make(map[string]bool)
	}
	if db.ISSNYearVolumeLR == nil {
		db.ISSNYearVolumeLR = make(map[string]bool)
	}
	if db.ISSNYearVolumeLRML1 == nil {
		db.ISSNYearVolumeLRML1 = make(map[string]bool)
	}
	if db.ISSNToEquation == nil {
		db.ISSNToEquation = make(map[string]Equation)
	}
	return &db, nil
}
