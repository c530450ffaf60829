// Package crossref enriches article citations with crossref metadata,
// either directly by DOI or through a bibliographic query assembled from
// the cleaned citation attributes.
package crossref

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"

	"github.com/miku/citkit/normal"
	"github.com/miku/citkit/schema/citation"
	"github.com/segmentio/encoding/json"
)

// DefaultEndpoint is the crossref works API.
const DefaultEndpoint = "https://api.crossref.org/works"

// Doer abstracts https://pkg.go.dev/net/http#Client.Do.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Metadata pairs a citation identifier with the raw crossref record.
type Metadata struct {
	ID       string          `json:"_id"`
	Crossref json.RawMessage `json:"crossref"`
}

// CitationAttrs extracts the attributes used to look up a citation. A valid
// DOI short-circuits everything else; otherwise first author surname,
// journal title, year, volume, issue and start page are collected. Returns
// nil when nothing usable is present.
func CitationAttrs(cit *citation.Citation) map[string]string {
	if cit.DOI != "" {
		if doi := normal.ExtractDOI(cit.DOI); doi != "" {
			return map[string]string{"doi": doi}
		}
	}
	attrs := make(map[string]string)
	if fa := cit.FirstAuthor(); fa != nil {
		if surname := normal.Default(fa.Surname); surname != "" {
			attrs["aulast"] = surname
		}
	}
	if title := normal.JournalTitle(cit.Source, normal.TitleOptions{}); title != "" {
		attrs["title"] = title
	}
	if date := html.UnescapeString(cit.PublicationDate); len(date) >= 4 {
		if year := date[:4]; isDigits(year) {
			attrs["data"] = year
		}
	}
	for key, raw := range map[string]string{
		"volume": cit.Volume,
		"issue":  cit.Issue,
		"spage":  cit.FirstPage,
	} {
		if v := strings.TrimSpace(html.UnescapeString(raw)); v != "" {
			attrs[key] = v
		}
	}
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// Collector fetches crossref metadata for citations. Plug in a retrying
// client via the Doer interface.
type Collector struct {
	Client    Doer
	Endpoint  string
	Email     string
	UserAgent string
}

func (c *Collector) endpoint() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return DefaultEndpoint
}

// WorksURL is the direct lookup URL for a DOI.
func (c *Collector) WorksURL(doi string) string {
	return c.endpoint() + "/" + url.PathEscape(doi)
}

// QueryURL builds a bibliographic query URL from citation attributes.
func (c *Collector) QueryURL(attrs map[string]string) string {
	v := url.Values{}
	var bib []string
	for _, key := range []string{"title", "data", "volume", "issue", "spage"} {
		if attrs[key] != "" {
			bib = append(bib, attrs[key])
		}
	}
	if len(bib) > 0 {
		v.Set("query.bibliographic", strings.Join(bib, " "))
	}
	if attrs["aulast"] != "" {
		v.Set("query.author", attrs["aulast"])
	}
	v.Set("rows", "1")
	if c.Email != "" {
		v.Set("mailto", c.Email)
	}
	return c.endpoint() + "?" + v.Encode()
}

// Fetch retrieves metadata for one citation. A citation without usable
// attributes or without a crossref match yields (nil, nil).
func (c *Collector) Fetch(ctx context.Context, cit *citation.Citation, collection string) (*Metadata, error) {
	attrs := CitationAttrs(cit)
	if attrs == nil {
		return nil, nil
	}
	var link string
	if doi := attrs["doi"]; doi != "" {
		link = c.WorksURL(doi)
	} else {
		link = c.QueryURL(attrs)
	}
	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return nil, err
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crossref: got HTTP %d for %s", resp.StatusCode, link)
	}
	// direct works lookups return the record itself under message; query
	// lookups wrap a result list
	var envelope struct {
		Status  string          `json:"status"`
		Message json.RawMessage `json:"message"`
	}
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("crossref: decoding response: %w", err)
	}
	if envelope.Status != "ok" {
		return nil, nil
	}
	record := envelope.Message
	if attrs["doi"] == "" {
		var listing struct {
			Items []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(envelope.Message, &listing); err != nil {
			return nil, fmt.Errorf("crossref: decoding query result: %w", err)
		}
		if len(listing.Items) == 0 {
			return nil, nil
		}
		record = listing.Items[0]
	}
	return &Metadata{ID: cit.ID(collection), Crossref: record}, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
