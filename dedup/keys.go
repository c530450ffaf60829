// Package dedup derives clustering keys for citations. Each key hashes a
// canonical subset of cleaned fields; citations referring to the same work
// end up with equal hashes, and several variants per citation allow
// clustering at decreasing strictness.
package dedup

import (
	"crypto/sha1"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/miku/citkit/normal"
	"github.com/miku/citkit/schema/citation"
	"github.com/miku/citkit/standardize"
)

// Key variant labels, strictest first within each publication type.
const (
	LabelArticleVolume    = "article_volume"
	LabelArticleStartPage = "article_start_page"
	LabelArticleIssue     = "article_issue"
	LabelBook             = "book"
	LabelChapter          = "chapter"
)

// articleBase is shared by all article variants; each variant adds one
// discriminating field.
var articleBase = []string{
	"cleaned_first_author",
	"cleaned_title",
	"cleaned_publication_date",
	"cleaned_journal_title",
}

var articleExtras = []struct {
	field string
	label string
}{
	{"cleaned_volume", LabelArticleVolume},
	{"cleaned_start_page", LabelArticleStartPage},
	{"cleaned_issue", LabelArticleIssue},
}

var bookBase = []string{
	"cleaned_first_author",
	"cleaned_publication_date",
	"cleaned_source",
	"cleaned_publisher",
	"cleaned_publisher_address",
}

var chapterExtras = []string{
	"cleaned_chapter_title",
	"cleaned_chapter_first_author",
}

// Key is one clustering key for one citation.
type Key struct {
	CitationID string            `json:"cit_id"`
	Fields     map[string]string `json:"fields"`
	Hash       string            `json:"hash"`
	Label      string            `json:"label"`
}

// DeriveKeys computes all key variants for a citation. For articles,
// resolvedJournalTitle seeds the journal field when the resolver produced a
// canonical title; pass the empty string to fall back to local cleanup.
// Citations of unsupported publication types yield no keys. A variant whose
// field set is incomplete is silently dropped rather than hashed degenerate.
func DeriveKeys(cit *citation.Citation, resolvedJournalTitle, collection string) []Key {
	id := cit.ID(collection)
	switch cit.PublicationType {
	case citation.TypeArticle:
		return articleKeys(cit, resolvedJournalTitle, id)
	case citation.TypeBook:
		return bookKeys(cit, id)
	}
	return nil
}

func articleKeys(cit *citation.Citation, resolvedJournalTitle, id string) []Key {
	data := articleData(cit, resolvedJournalTitle)
	var keys []Key
	for _, extra := range articleExtras {
		fields := append(append([]string{}, articleBase...), extra.field)
		if k, ok := makeKey(id, data, fields, extra.label); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func bookKeys(cit *citation.Citation, id string) []Key {
	data := bookData(cit)
	var keys []Key
	k, ok := makeKey(id, data, bookBase, LabelBook)
	if !ok {
		return nil
	}
	keys = append(keys, k)
	chapterFields := append(append([]string{}, bookBase...), chapterExtras...)
	if ck, ok := makeKey(id, data, chapterFields, LabelChapter); ok {
		keys = append(keys, ck)
	}
	return keys
}

func articleData(cit *citation.Citation, resolvedJournalTitle string) map[string]string {
	data := make(map[string]string)
	if fa := cit.FirstAuthor(); fa != nil {
		put(data, "cleaned_first_author", standardize.CleanAuthor(*fa))
	}
	put(data, "cleaned_publication_date", standardize.PublicationYear(cit.PublicationDate))
	put(data, "cleaned_title", cleanField(cit.Title))
	put(data, "cleaned_volume", cleanField(cit.Volume))
	put(data, "cleaned_issue", cleanField(cit.Issue))
	put(data, "cleaned_start_page", cleanField(cit.FirstPage))
	journal := strings.ToLower(resolvedJournalTitle)
	if journal == "" {
		journal = normal.JournalTitle(cit.Source, normal.TitleOptions{DiscardInvalidChars: true})
	}
	put(data, "cleaned_journal_title", journal)
	return data
}

func bookData(cit *citation.Citation) map[string]string {
	data := make(map[string]string)
	put(data, "cleaned_publication_date", standardize.PublicationYear(cit.PublicationDate))
	put(data, "cleaned_source", cleanField(cit.Source))
	put(data, "cleaned_publisher", cleanField(cit.Publisher))
	put(data, "cleaned_publisher_address", cleanField(cit.PublisherAddress))
	put(data, "cleaned_chapter_title", cleanField(cit.ChapterTitle))
	if cit.ChapterTitle == "" {
		if fa := cit.FirstAuthor(); fa != nil {
			put(data, "cleaned_first_author", standardize.CleanAuthor(*fa))
		}
	} else {
		// chapter citations take the chapter author from the analytic list
		// and the book author from the monographic list
		if len(cit.AnalyticAuthors) > 0 {
			put(data, "cleaned_chapter_first_author", standardize.CleanAuthor(cit.AnalyticAuthors[0]))
		}
		if len(cit.MonographicAuthors) > 0 {
			put(data, "cleaned_first_author", standardize.CleanAuthor(cit.MonographicAuthors[0]))
		}
	}
	return data
}

// makeKey hashes the named fields. All fields must be present, otherwise no
// key is produced; this is a frequent, expected case, not an error.
func makeKey(id string, data map[string]string, fields []string, label string) (Key, bool) {
	subset := make(map[string]string, len(fields))
	for _, f := range fields {
		v, ok := data[f]
		if !ok || v == "" {
			return Key{}, false
		}
		subset[f] = v
	}
	return Key{
		CitationID: id,
		Fields:     subset,
		Hash:       HashFields(subset),
		Label:      label,
	}, true
}

// HashFields returns a hex sha1 over the sorted field name and value pairs,
// stable across runs and platforms.
func HashFields(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	h := sha1.New()
	for _, name := range names {
		_, _ = io.WriteString(h, name)
		_, _ = io.WriteString(h, "=")
		_, _ = io.WriteString(h, fields[name])
		_, _ = io.WriteString(h, "\n")
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

func cleanField(s string) string {
	return strings.ToLower(normal.Default(s))
}

func put(data map[string]string, field, value string) {
	if value != "" {
		data[field] = value
	}
}
