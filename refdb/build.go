package refdb

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	gzip "github.com/klauspost/pgzip"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultDelimiter separates columns in the tabular sources.
	DefaultDelimiter = '|'
	// DefaultSubDelimiter separates values inside multi-valued columns.
	DefaultSubDelimiter = "#"
)

// Sources names the four tabular inputs of a build. All four files are
// required; a missing or unreadable file aborts the build. Files ending in
// .gz are decompressed transparently.
type Sources struct {
	// Crosswalk: ISSNL|MAIN_TITLE|MAIN_ABBREV_TITLE|ISSNS|TITLES
	Crosswalk string
	// YearVolume: ISSN|TITLE|YEAR|VOLUME
	YearVolume string
	// Regression: ISSN|YEAR|ROUNDED PV|ROUNDED PV - 1|ROUNDED PV + 1
	Regression string
	// Equations: ISSN|a|b|r2
	Equations string
}

// Build compiles the reference database from the tabular sources. A
// malformed row is logged and skipped, never fatal; only an absent or
// unreadable source file fails the build. Conflicts resolve first-wins: a
// duplicate ISSN-L row and a second ISSN-L claim on the same ISSN are
// logged and discarded.
func Build(src Sources, version string) (*Database, error) {
	db := &Database{
		ISSNLToData:         make(map[string]JournalData),
		ISSNToISSNL:         make(map[string]string),
		TitleToISSNL:        make(map[string][]string),
		ISSNYearVolume:      make(map[string]bool),
		TitleYearVolume:     make(map[string]bool),
		ISSNYearVolumeLR:    make(map[string]bool),
		ISSNYearVolumeLRML1: make(map[string]bool),
		ISSNToEquation:      make(map[string]Equation),
		Version:             version,
		CreationDate:        time.Now().Format("2006-01-02"),
	}
	log.WithField("path", src.Crosswalk).Info("loading issnl crosswalk")
	if err := eachRow(src.Crosswalk, db.addCrosswalkRow); err != nil {
		return nil, fmt.Errorf("crosswalk source: %w", err)
	}
	log.WithField("path", src.YearVolume).Info("loading year-volume data")
	if err := eachRow(src.YearVolume, db.addYearVolumeRow); err != nil {
		return nil, fmt.Errorf("year-volume source: %w", err)
	}
	log.WithField("path", src.Regression).Info("loading predicted year-volume data")
	if err := eachRow(src.Regression, db.addRegressionRow); err != nil {
		return nil, fmt.Errorf("regression source: %w", err)
	}
	log.WithField("path", src.Equations).Info("loading regression equations")
	if err := eachRow(src.Equations, db.addEquationRow); err != nil {
		return nil, fmt.Errorf("equations source: %w", err)
	}
	for title := range db.TitleToISSNL {
		sort.Strings(db.TitleToISSNL[title])
	}
	return db, nil
}

func (db *Database) addCrosswalkRow(row map[string]string) {
	issnl := CleanISSN(row["ISSNL"])
	if issnl == "" {
		log.WithField("row", row).Warn("crosswalk row without usable ISSN-L, skipping")
		return
	}
	if _, ok := db.ISSNLToData[issnl]; ok {
		log.WithField("issnl", issnl).Info("duplicate ISSN-L, keeping first occurrence")
	} else {
		data := JournalData{
			MainTitles:        splitMulti(row["MAIN_TITLE"]),
			MainAbbrevTitles:  splitMulti(row["MAIN_ABBREV_TITLE"]),
			ISSNs:             cleanISSNs(splitMulti(row["ISSNS"])),
			AlternativeTitles: splitMulti(row["TITLES"]),
		}
		db.ISSNLToData[issnl] = data
		for _, title := range uniqueTitles(data) {
			if !contains(db.TitleToISSNL[title], issnl) {
				db.TitleToISSNL[title] = append(db.TitleToISSNL[title], issnl)
			}
		}
	}
	// ISSN ownership is recorded even when the identity row is a duplicate.
	for _, issn := range cleanISSNs(splitMulti(row["ISSNS"])) {
		if prev, ok := db.ISSNToISSNL[issn]; ok {
			if prev != issnl {
				log.WithFields(log.Fields{"issn": issn, "kept": prev, "dropped": issnl}).
					Info("ISSN already assigned, keeping first assignment")
			}
			continue
		}
		db.ISSNToISSNL[issn] = issnl
	}
}

func (db *Database) addYearVolumeRow(row map[string]string) {
	issn := CleanISSN(row["ISSN"])
	if issn == "" {
		log.WithField("row", row).Error("malformed or empty ISSN, skipping row")
		return
	}
	year, volume := row["YEAR"], row["VOLUME"]
	db.ISSNYearVolume[Key(issn, year, volume)] = true
	title := row["TITLE"]
	if title == "" {
		log.WithField("issn", issn).Info("year-volume row without title")
		return
	}
	db.TitleYearVolume[Key(title, year, volume)] = true
}

func (db *Database) addRegressionRow(row map[string]string) {
	issn, year := row["ISSN"], row["YEAR"]
	db.ISSNYearVolumeLR[Key(issn, year, row["ROUNDED PV"])] = true
	db.ISSNYearVolumeLRML1[Key(issn, year, row["ROUNDED PV - 1"])] = true
	db.ISSNYearVolumeLRML1[Key(issn, year, row["ROUNDED PV + 1"])] = true
}

func (db *Database) addEquationRow(row map[string]string) {
	issn := row["ISSN"]
	if _, ok := db.ISSNToEquation[issn]; ok {
		return
	}
	a, errA := strconv.ParseFloat(row["a"], 64)
	b, errB := strconv.ParseFloat(row["b"], 64)
	r2, errR := strconv.ParseFloat(row["r2"], 64)
	if errA != nil || errB != nil || errR != nil {
		log.WithField("row", row).Warn("unparsable equation coefficients, skipping row")
		return
	}
	db.ISSNToEquation[issn] = Equation{A: a, B: b, R2: r2}
}

// eachRow streams a delimited file with a header line and hands each row to
// fn as a column name to value map. Missing trailing columns read as empty.
func eachRow(path string, fn func(map[string]string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer zr.Close()
		r = zr
	}
	cr := csv.NewReader(r)
	cr.Comma = DefaultDelimiter
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			log.WithError(err).Warn("unreadable row, skipping")
			continue
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		fn(row)
	}
}

// cleanISSNs compacts ISSNs, dropping malformed ones.
func cleanISSNs(issns []string) []string {
	var out []string
	for _, issn := range issns {
		if c := CleanISSN(issn); c != "" {
			out = append(out, c)
		} else {
			log.WithField("issn", issn).Warn("malformed ISSN in crosswalk, dropping")
		}
	}
	return out
}

func splitMulti(s string) []string {
	var out []string
	for _, v := range strings.Split(s, DefaultSubDelimiter) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func uniqueTitles(data JournalData) []string {
	seen := make(map[string]bool)
	var titles []string
	for _, group := range [][]string{data.MainTitles, data.MainAbbrevTitles, data.AlternativeTitles} {
		for _, t := range group {
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			titles = append(titles, t)
		}
	}
	return titles
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
