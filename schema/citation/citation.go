// Package citation declares the upstream bibliographic reference record, as
// extracted from the citing document. The record is read-only for all tools
// in this module.
package citation

// Publication types we process. Anything else is passed over.
const (
	TypeArticle = "article"
	TypeBook    = "book"
)

// Author is a structured contributor name.
type Author struct {
	Surname    string `json:"surname,omitempty"`
	GivenNames string `json:"given_names,omitempty"`
}

// Citation is a single reference entry from a bibliography. Fields are free
// text as found in the source and may contain HTML entities, stray
// punctuation or annotations.
type Citation struct {
	// Seq is the citing-reference sequence identifier within the parent
	// document.
	Seq             string `json:"seq"`
	PublicationType string `json:"publication_type"`
	// Source holds the journal title for articles and the book title for
	// books and chapters.
	Source string `json:"source,omitempty"`
	// Title is the article title. For books the title lives in Source.
	Title string `json:"title,omitempty"`
	// ChapterTitle set on a book citation marks it as a book chapter.
	ChapterTitle     string   `json:"chapter_title,omitempty"`
	Volume           string   `json:"volume,omitempty"`
	Issue            string   `json:"issue,omitempty"`
	FirstPage        string   `json:"first_page,omitempty"`
	EndPage          string   `json:"end_page,omitempty"`
	PublicationDate  string   `json:"publication_date,omitempty"`
	DOI              string   `json:"doi,omitempty"`
	Publisher        string   `json:"publisher,omitempty"`
	PublisherAddress string   `json:"publisher_address,omitempty"`
	Authors          []Author `json:"authors,omitempty"`
	// AnalyticAuthors are the chapter level contributors of a book chapter.
	AnalyticAuthors []Author `json:"analytic_authors,omitempty"`
	// MonographicAuthors are the book level contributors.
	MonographicAuthors []Author `json:"monographic_authors,omitempty"`
}

// ID returns the composite citation identifier, sequence id plus the
// acronym of the collection the citing document belongs to.
func (c *Citation) ID(collection string) string {
	return c.Seq + "-" + collection
}

// FirstAuthor returns the first entry of the author list, or nil.
func (c *Citation) FirstAuthor() *Author {
	if len(c.Authors) == 0 {
		return nil
	}
	return &c.Authors[0]
}
