package standardize

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miku/citkit/refdb"
	"github.com/miku/citkit/resolve"
	"github.com/miku/citkit/schema/citation"
)

func testResolver() *resolve.Resolver {
	db := &refdb.Database{
		ISSNLToData: map[string]refdb.JournalData{
			"00010002": {
				MainTitles: []string{"REVISTA X"},
				ISSNs:      []string{"00010002"},
			},
		},
		ISSNToISSNL:  map[string]string{"00010002": "00010002"},
		TitleToISSNL: map[string][]string{"REVISTA X": {"00010002"}},
		ISSNYearVolume: map[string]bool{
			"00010002-2020-10": true,
		},
	}
	return resolve.New(db, resolve.Options{UseExact: true})
}

func TestStandardizeArticle(t *testing.T) {
	s := New(testResolver())
	cit := &citation.Citation{
		Seq:             "S0001-1234202000010000100021",
		PublicationType: citation.TypeArticle,
		Source:          "Revista X (Impresso)",
		Title:           "Estudo  de Caso",
		Volume:          "v. 10",
		Issue:           "n. 2",
		FirstPage:       "1234",
		EndPage:         "56",
		PublicationDate: "2020 Mar",
		Authors: []citation.Author{
			{Surname: "da Silva", GivenNames: "João Carlos"},
			{Surname: "Souza", GivenNames: "Maria"},
		},
	}
	doc := s.Standardize(cit, "scl")
	if doc.ID != "S0001-1234202000010000100021-scl" {
		t.Errorf("id: got %q", doc.ID)
	}
	if doc.PublicationType != TypeArticle {
		t.Errorf("type: got %q", doc.PublicationType)
	}
	if doc.Journal == nil {
		t.Fatal("expected journal resolution")
	}
	if doc.Journal.Status != resolve.StatusExact {
		t.Errorf("journal status: got %v", doc.Journal.Status)
	}
	if doc.Journal.ISSNL != "0001-0002" {
		t.Errorf("issnl: got %q", doc.Journal.ISSNL)
	}
	if doc.Journal.CitedTitle != "REVISTA X" {
		t.Errorf("cited title: got %q", doc.Journal.CitedTitle)
	}
	if want := []string{"j silva", "m souza"}; !cmp.Equal(doc.Authors, want) {
		t.Errorf("authors: got %v, want %v", doc.Authors, want)
	}
	if doc.Title != "estudo de caso" {
		t.Errorf("title: got %q", doc.Title)
	}
	if doc.Volume != "10" || doc.Issue != "2" {
		t.Errorf("volume/issue: got %q/%q", doc.Volume, doc.Issue)
	}
	if doc.PublicationDate != "2020" {
		t.Errorf("date: got %q", doc.PublicationDate)
	}
	want := &Pages{FirstPage: "1234", EndPage: "1256", Pages: "1234-1256"}
	if !cmp.Equal(doc.Pages, want) {
		t.Errorf("pages: got %+v, want %+v", doc.Pages, want)
	}
}

func TestStandardizeChapter(t *testing.T) {
	s := New(nil)
	cit := &citation.Citation{
		Seq:              "42",
		PublicationType:  citation.TypeBook,
		ChapterTitle:     "Sobre Métodos",
		Source:           "Manual de Pesquisa",
		Publisher:        "Editora Alfa",
		PublisherAddress: "São Paulo",
		PublicationDate:  "1999",
		Authors: []citation.Author{
			{Surname: "Pereira", GivenNames: "Ana"},
		},
		MonographicAuthors: []citation.Author{
			{Surname: "Lima", GivenNames: "Rui"},
		},
	}
	doc := s.Standardize(cit, "scl")
	if doc.PublicationType != TypeChapter {
		t.Fatalf("type: got %q", doc.PublicationType)
	}
	if doc.Title != "sobre metodos" {
		t.Errorf("title: got %q", doc.Title)
	}
	if doc.BookTitle != "manual de pesquisa" {
		t.Errorf("book title: got %q", doc.BookTitle)
	}
	if want := []string{"r lima"}; !cmp.Equal(doc.BookAuthors, want) {
		t.Errorf("book authors: got %v", doc.BookAuthors)
	}
	if doc.Publisher != "editora alfa" || doc.PublisherAddress != "sao paulo" {
		t.Errorf("publisher: got %q/%q", doc.Publisher, doc.PublisherAddress)
	}
	if doc.Journal != nil {
		t.Error("chapters carry no journal identity")
	}
}

func TestStandardizeBook(t *testing.T) {
	s := New(nil)
	cit := &citation.Citation{
		Seq:             "7",
		PublicationType: citation.TypeBook,
		Source:          "Tratado Geral",
		PublicationDate: "not a date",
	}
	doc := s.Standardize(cit, "arg")
	if doc.PublicationType != TypeBook {
		t.Fatalf("type: got %q", doc.PublicationType)
	}
	if doc.Title != "tratado geral" {
		t.Errorf("title: got %q", doc.Title)
	}
	if doc.PublicationDate != "" {
		t.Errorf("malformed date should standardize to empty, got %q", doc.PublicationDate)
	}
}

func TestStandardizeUnsupportedType(t *testing.T) {
	s := New(nil)
	doc := s.Standardize(&citation.Citation{Seq: "1", PublicationType: "thesis"}, "scl")
	if doc.PublicationType != "" {
		t.Errorf("got %q", doc.PublicationType)
	}
	if doc.ID != "1-scl" {
		t.Errorf("id: got %q", doc.ID)
	}
}

func TestCleanEndPage(t *testing.T) {
	var cases = []struct {
		first, end, want string
	}{
		{"1234", "56", "1256"},
		{"45", "78", "78"},
		{"120", "9", "129"},
		{"12", "3456", "3456"},
		{"", "10", "10"},
	}
	for _, c := range cases {
		if got := CleanEndPage(c.first, c.end); got != c.want {
			t.Errorf("CleanEndPage(%q, %q): got %q, want %q", c.first, c.end, got, c.want)
		}
	}
}

func TestCleanAuthor(t *testing.T) {
	var cases = []struct {
		author citation.Author
		want   string
	}{
		{citation.Author{Surname: "da Silva", GivenNames: "João"}, "j silva"},
		{citation.Author{Surname: "Souza"}, "souza"},
		{citation.Author{GivenNames: "Maria"}, "m"},
		{citation.Author{}, ""},
	}
	for _, c := range cases {
		if got := CleanAuthor(c.author); got != c.want {
			t.Errorf("CleanAuthor(%+v): got %q, want %q", c.author, got, c.want)
		}
	}
}

func TestPublicationYear(t *testing.T) {
	var cases = []struct {
		in, want string
	}{
		{"2020 Mar", "2020"},
		{"São Paulo, 1999", "1999"},
		{"", ""},
		{"garbage", ""},
	}
	for _, c := range cases {
		if got := PublicationYear(c.in); got != c.want {
			t.Errorf("PublicationYear(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}
