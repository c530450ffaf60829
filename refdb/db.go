// Package refdb builds and serves the journal reference database: official
// titles and ISSNs keyed by linking ISSN, plus year-volume combinations,
// both observed and predicted, used for match validation.
package refdb

import (
	"strconv"
	"strings"
)

// JournalData holds the official identity of a journal, keyed by ISSN-L.
type JournalData struct {
	MainTitles        []string `json:"main-title"`
	MainAbbrevTitles  []string `json:"main-abbrev-title"`
	ISSNs             []string `json:"issns"`
	AlternativeTitles []string `json:"alternative-titles"`
}

// Equation holds the coefficients of the per journal year to volume linear
// regression, volume = A + B * year.
type Equation struct {
	A  float64 `json:"a"`
	B  float64 `json:"b"`
	R2 float64 `json:"r2"`
}

// Database is the compiled reference structure. It is built once, then
// treated as read-only; concurrent lookups are safe without locking.
type Database struct {
	// ISSNLToData maps a linking ISSN to the journal identity.
	ISSNLToData map[string]JournalData `json:"issnl-to-data"`
	// ISSNToISSNL maps each member ISSN to its owning ISSN-L.
	ISSNToISSNL map[string]string `json:"issn-to-issnl"`
	// TitleToISSNL maps a normalized title variant to the ISSN-Ls carrying
	// it. Titles are not unique across journals.
	TitleToISSNL map[string][]string `json:"title-to-issnl"`
	// ISSNYearVolume marks historically observed ISSN-YEAR-VOLUME triples.
	ISSNYearVolume map[string]bool `json:"issn-year-volume"`
	// TitleYearVolume marks observed TITLE-YEAR-VOLUME triples, a fallback
	// when no ISSN is known.
	TitleYearVolume map[string]bool `json:"title-year-volume"`
	// ISSNYearVolumeLR marks triples with the regression-predicted volume.
	ISSNYearVolumeLR map[string]bool `json:"issn-year-volume-lr"`
	// ISSNYearVolumeLRML1 marks triples with the predicted volume plus or
	// minus one, to absorb prediction error.
	ISSNYearVolumeLRML1 map[string]bool `json:"issn-year-volume-lr-ml1"`
	// ISSNToEquation keeps the regression coefficients per ISSN.
	ISSNToEquation map[string]Equation `json:"issn-to-equation"`
	Version        string              `json:"version"`
	CreationDate   string              `json:"creation-date"`
}

// Key assembles the membership key used by the validation sets.
func Key(issn, year, volume string) string {
	return strings.Join([]string{issn, year, volume}, "-")
}

// ISSNLForKey extracts the ISSN from a validated ISSN-YEAR-VOLUME key and
// maps it to its ISSN-L. An unmapped ISSN stands for itself.
func (db *Database) ISSNLForKey(key string) string {
	parts := strings.SplitN(key, "-", 2)
	issn := parts[0]
	if issnl, ok := db.ISSNToISSNL[issn]; ok && issnl != "" {
		return issnl
	}
	return issn
}

// MemberISSNs returns the union of member ISSNs for a set of ISSN-Ls.
func (db *Database) MemberISSNs(issnls []string) []string {
	seen := make(map[string]bool)
	var issns []string
	for _, issnl := range issnls {
		for _, issn := range db.ISSNLToData[issnl].ISSNs {
			if issn == "" || seen[issn] {
				continue
			}
			seen[issn] = true
			issns = append(issns, issn)
		}
	}
	return issns
}

// InferVolume predicts a volume for an ISSN and year from the regression
// equation. Returns the empty string if no equation is known or the
// prediction is not positive.
func (db *Database) InferVolume(issn, year string) string {
	eq, ok := db.ISSNToEquation[issn]
	if !ok {
		return ""
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return ""
	}
	v := eq.A + eq.B*float64(y)
	if v <= 0 {
		return ""
	}
	return strconv.Itoa(int(v + 0.5))
}
