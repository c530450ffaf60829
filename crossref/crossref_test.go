package crossref

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/miku/citkit/schema/citation"
)

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

func TestCitationAttrsDOIWins(t *testing.T) {
	cit := &citation.Citation{
		PublicationType: citation.TypeArticle,
		DOI:             "10.1590/abc",
		Source:          "Revista X",
	}
	attrs := CitationAttrs(cit)
	if len(attrs) != 1 || attrs["doi"] != "10.1590/abc" {
		t.Fatalf("got %v", attrs)
	}
}

func TestCitationAttrsFallback(t *testing.T) {
	cit := &citation.Citation{
		PublicationType: citation.TypeArticle,
		DOI:             "not a doi",
		Source:          "Revista X (Online)",
		Volume:          "10",
		Issue:           "2",
		FirstPage:       "100",
		PublicationDate: "2020-03",
		Authors:         []citation.Author{{Surname: "Silva", GivenNames: "J"}},
	}
	attrs := CitationAttrs(cit)
	if attrs["doi"] != "" {
		t.Error("invalid DOI must not short-circuit")
	}
	if attrs["aulast"] != "Silva" {
		t.Errorf("aulast: got %q", attrs["aulast"])
	}
	if attrs["title"] != "revista x" {
		t.Errorf("title: got %q", attrs["title"])
	}
	if attrs["data"] != "2020" {
		t.Errorf("data: got %q", attrs["data"])
	}
	if attrs["spage"] != "100" {
		t.Errorf("spage: got %q", attrs["spage"])
	}
}

func TestCitationAttrsEmpty(t *testing.T) {
	if attrs := CitationAttrs(&citation.Citation{}); attrs != nil {
		t.Errorf("got %v, want nil", attrs)
	}
}

func TestFetchByDOI(t *testing.T) {
	var gotURL string
	c := &Collector{
		Client: doerFunc(func(req *http.Request) (*http.Response, error) {
			gotURL = req.URL.String()
			return respond(200, `{"status":"ok","message":{"DOI":"10.1590/abc","title":["x"]}}`), nil
		}),
		UserAgent: "citkit-test",
	}
	cit := &citation.Citation{Seq: "1", DOI: "10.1590/abc"}
	md, err := c.Fetch(context.Background(), cit, "scl")
	if err != nil {
		t.Fatal(err)
	}
	if md == nil {
		t.Fatal("expected metadata")
	}
	if md.ID != "1-scl" {
		t.Errorf("id: got %q", md.ID)
	}
	if !strings.Contains(gotURL, "10.1590") {
		t.Errorf("url: got %q", gotURL)
	}
	if !strings.Contains(string(md.Crossref), "DOI") {
		t.Errorf("record: got %s", md.Crossref)
	}
}

func TestFetchByQueryNoMatch(t *testing.T) {
	c := &Collector{
		Client: doerFunc(func(req *http.Request) (*http.Response, error) {
			return respond(200, `{"status":"ok","message":{"items":[]}}`), nil
		}),
	}
	cit := &citation.Citation{Seq: "1", Source: "Revista X"}
	md, err := c.Fetch(context.Background(), cit, "scl")
	if err != nil {
		t.Fatal(err)
	}
	if md != nil {
		t.Errorf("got %v, want nil", md)
	}
}

func TestFetchNotFound(t *testing.T) {
	c := &Collector{
		Client: doerFunc(func(req *http.Request) (*http.Response, error) {
			return respond(404, ``), nil
		}),
	}
	cit := &citation.Citation{Seq: "1", DOI: "10.1590/gone"}
	md, err := c.Fetch(context.Background(), cit, "scl")
	if err != nil || md != nil {
		t.Fatalf("got %v, %v", md, err)
	}
}

func TestQueryURL(t *testing.T) {
	c := &Collector{Email: "dev@example.org"}
	attrs := map[string]string{"title": "revista x", "data": "2020", "aulast": "Silva"}
	link := c.QueryURL(attrs)
	if !strings.Contains(link, "query.bibliographic=revista+x+2020") {
		t.Errorf("got %q", link)
	}
	if !strings.Contains(link, "query.author=Silva") {
		t.Errorf("got %q", link)
	}
	if !strings.Contains(link, "mailto=dev%40example.org") {
		t.Errorf("got %q", link)
	}
}
