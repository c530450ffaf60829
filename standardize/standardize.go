// Package standardize turns noisy citation records into canonical
// standardized documents, resolving journal identities for article
// citations along the way.
package standardize

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/miku/citkit/normal"
	"github.com/miku/citkit/resolve"
	"github.com/miku/citkit/schema/citation"
)

// Output publication types. Chapters are book citations with a chapter
// title.
const (
	TypeArticle = "article"
	TypeBook    = "book"
	TypeChapter = "chapter"
)

// Pages is a normalized page range.
type Pages struct {
	FirstPage string `json:"first_page"`
	EndPage   string `json:"end_page"`
	Pages     string `json:"pages"`
}

// Document is the standardized form of a citation, keyed by the composite
// citation identifier.
type Document struct {
	ID               string          `json:"_id"`
	UpdateDate       string          `json:"update-date"`
	PublicationType  string          `json:"publication_type,omitempty"`
	Journal          *resolve.Result `json:"std_journal,omitempty"`
	Authors          []string        `json:"std_authors,omitempty"`
	Title            string          `json:"std_title,omitempty"`
	Volume           string          `json:"std_volume,omitempty"`
	Issue            string          `json:"std_issue,omitempty"`
	Pages            *Pages          `json:"std_pages,omitempty"`
	PublicationDate  string          `json:"std_publication_date,omitempty"`
	Publisher        string          `json:"std_publisher,omitempty"`
	PublisherAddress string          `json:"std_publisher_address,omitempty"`
	BookTitle        string          `json:"std_book_title,omitempty"`
	BookAuthors      []string        `json:"std_book_authors,omitempty"`
}

// Standardizer produces standardized documents. It is stateless apart from
// the resolver and safe for concurrent use.
type Standardizer struct {
	resolver *resolve.Resolver
}

// New creates a standardizer around a journal resolver. The resolver may be
// nil, then article citations keep an unresolved journal.
func New(resolver *resolve.Resolver) *Standardizer {
	return &Standardizer{resolver: resolver}
}

// Standardize transforms a single citation. Missing optional fields come
// out empty, never as an error. Unsupported publication types yield a
// document with identifier and date only.
func (s *Standardizer) Standardize(cit *citation.Citation, collection string) *Document {
	doc := &Document{
		ID:         cit.ID(collection),
		UpdateDate: time.Now().Format("2006-01-02"),
	}
	switch cit.PublicationType {
	case citation.TypeArticle:
		s.article(cit, doc)
	case citation.TypeBook:
		if cit.ChapterTitle != "" {
			s.chapter(cit, doc)
		} else {
			s.book(cit, doc)
		}
	}
	return doc
}

func (s *Standardizer) article(cit *citation.Citation, doc *Document) {
	doc.PublicationType = TypeArticle
	doc.Journal = s.journal(cit)
	doc.Authors = cleanAuthors(cit.Authors)
	doc.PublicationDate = PublicationYear(cit.PublicationDate)
	doc.Title = lowerDefault(cit.Title)
	doc.Volume = normal.ExtractVolume(cit.Volume)
	doc.Issue = normal.ExtractIssue(cit.Issue)
	doc.Pages = pages(cit.FirstPage, cit.EndPage)
}

func (s *Standardizer) chapter(cit *citation.Citation, doc *Document) {
	doc.PublicationType = TypeChapter
	doc.Authors = cleanAuthors(cit.Authors)
	doc.Title = lowerDefault(cit.ChapterTitle)
	doc.BookAuthors = cleanAuthors(cit.MonographicAuthors)
	doc.BookTitle = lowerDefault(cit.Source)
	doc.PublicationDate = PublicationYear(cit.PublicationDate)
	doc.Pages = pages(cit.FirstPage, cit.EndPage)
	doc.Publisher = lowerDefault(cit.Publisher)
	doc.PublisherAddress = lowerDefault(cit.PublisherAddress)
}

func (s *Standardizer) book(cit *citation.Citation, doc *Document) {
	doc.PublicationType = TypeBook
	doc.Authors = cleanAuthors(cit.Authors)
	doc.PublicationDate = PublicationYear(cit.PublicationDate)
	doc.Title = lowerDefault(cit.Source)
	doc.Publisher = lowerDefault(cit.Publisher)
	doc.PublisherAddress = lowerDefault(cit.PublisherAddress)
}

// journal cleans the cited title and resolves it. Only article citations
// carry a journal identity; books route their source through the default
// cleanup instead.
func (s *Standardizer) journal(cit *citation.Citation) *resolve.Result {
	title := normal.JournalTitle(cit.Source, normal.TitleOptions{
		DiscardInvalidChars: true,
		Uppercase:           true,
	})
	if s.resolver == nil {
		return &resolve.Result{Status: resolve.StatusNotNormalized, CitedTitle: title}
	}
	res := s.resolver.Resolve(resolve.Request{
		Title:  title,
		Year:   PublicationYear(cit.PublicationDate),
		Volume: normal.ExtractVolume(cit.Volume),
	})
	return &res
}

// CleanAuthor reduces a structured name to "initial lastname", lower case.
// Empty names reduce to the empty string.
func CleanAuthor(a citation.Author) string {
	surname := normal.Default(a.Surname)
	given := normal.Default(a.GivenNames)
	var lastname, initial string
	if surname != "" {
		fields := strings.Fields(surname)
		lastname = fields[len(fields)-1]
	}
	if given != "" {
		initial = string([]rune(given)[0])
	}
	return strings.ToLower(strings.TrimSpace(initial + " " + lastname))
}

func cleanAuthors(authors []citation.Author) []string {
	var out []string
	for _, a := range authors {
		if c := CleanAuthor(a); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// PublicationYear extracts a four digit year from a free text date. When no
// literal year is present the date is run through a lenient parser; a date
// that still resists yields the empty string.
func PublicationYear(s string) string {
	if s == "" {
		return ""
	}
	if y := normal.ExtractYear(s); y != "" {
		return y
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return strconv.Itoa(t.Year())
	}
	return ""
}

// CleanEndPage restores an elided end page. Citations often shorten the end
// page to the digits that differ, "1234-56" meaning 1234 to 1256; the
// missing prefix is copied from the first page.
func CleanEndPage(firstPage, endPage string) string {
	if diff := len(firstPage) - len(endPage); diff > 0 {
		return firstPage[:diff] + endPage
	}
	return endPage
}

func pages(firstPage, endPage string) *Pages {
	fp := normal.Default(firstPage)
	ep := CleanEndPage(fp, normal.Default(endPage))
	p := Pages{FirstPage: fp, EndPage: ep}
	if fp != "" && ep != "" {
		p.Pages = fp + "-" + ep
	}
	return &p
}

func lowerDefault(s string) string {
	return strings.ToLower(normal.Default(s))
}
