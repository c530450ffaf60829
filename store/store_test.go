package store

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miku/citkit/dedup"
	"github.com/miku/citkit/standardize"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestDocumentRoundtrip(t *testing.T) {
	s := testStore(t)
	docs := []standardize.Document{
		{ID: "1-scl", UpdateDate: "2020-01-15", Title: "estudo de caso"},
		{ID: "2-scl", UpdateDate: "2020-03-01", Title: "outro estudo"},
	}
	if err := s.UpsertDocuments(docs); err != nil {
		t.Fatalf("UpsertDocuments: %v", err)
	}
	got, err := s.Document("1-scl")
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if got == nil || !cmp.Equal(*got, docs[0]) {
		t.Errorf("got %+v, want %+v", got, docs[0])
	}
	missing, err := s.Document("nope")
	if err != nil || missing != nil {
		t.Errorf("missing id: got %v, %v", missing, err)
	}
}

func TestUpsertReplaces(t *testing.T) {
	s := testStore(t)
	doc := standardize.Document{ID: "1-scl", UpdateDate: "2020-01-15", Title: "first"}
	if err := s.UpsertDocuments([]standardize.Document{doc}); err != nil {
		t.Fatal(err)
	}
	doc.Title = "second"
	if err := s.UpsertDocuments([]standardize.Document{doc}); err != nil {
		t.Fatal(err)
	}
	got, err := s.Document("1-scl")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "second" {
		t.Errorf("got %q, want replacement to win", got.Title)
	}
}

func TestDocumentsUpdatedBetween(t *testing.T) {
	s := testStore(t)
	docs := []standardize.Document{
		{ID: "a", UpdateDate: "2020-01-01"},
		{ID: "b", UpdateDate: "2020-06-15"},
		{ID: "c", UpdateDate: "2021-02-01"},
	}
	if err := s.UpsertDocuments(docs); err != nil {
		t.Fatal(err)
	}
	got, err := s.DocumentsUpdatedBetween("2020-01-01", "2020-12-31")
	if err != nil {
		t.Fatalf("DocumentsUpdatedBetween: %v", err)
	}
	var ids []string
	for _, d := range got {
		ids = append(ids, d.ID)
	}
	if want := []string{"a", "b"}; !cmp.Equal(ids, want) {
		t.Errorf("got %v, want %v", ids, want)
	}
}

func TestKeysByHash(t *testing.T) {
	s := testStore(t)
	keys := []dedup.Key{
		{CitationID: "1-scl", Label: dedup.LabelArticleVolume, Hash: "aaa", Fields: map[string]string{"cleaned_title": "x"}},
		{CitationID: "2-arg", Label: dedup.LabelArticleVolume, Hash: "aaa", Fields: map[string]string{"cleaned_title": "x"}},
		{CitationID: "1-scl", Label: dedup.LabelArticleIssue, Hash: "bbb", Fields: map[string]string{"cleaned_title": "x"}},
	}
	if err := s.UpsertKeys(keys); err != nil {
		t.Fatalf("UpsertKeys: %v", err)
	}
	cluster, err := s.KeysByHash("aaa")
	if err != nil {
		t.Fatalf("KeysByHash: %v", err)
	}
	if len(cluster) != 2 {
		t.Fatalf("got %d keys, want 2", len(cluster))
	}
	if cluster[0].CitationID != "1-scl" || cluster[1].CitationID != "2-arg" {
		t.Errorf("cluster order: got %v", cluster)
	}
	if cluster[0].Fields["cleaned_title"] != "x" {
		t.Errorf("fields not preserved: %v", cluster[0].Fields)
	}
	mine, err := s.KeysForCitation("1-scl")
	if err != nil {
		t.Fatalf("KeysForCitation: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("got %d variants, want 2", len(mine))
	}
}

func TestUpsertKeysReplaces(t *testing.T) {
	s := testStore(t)
	k := dedup.Key{CitationID: "1-scl", Label: dedup.LabelBook, Hash: "old", Fields: map[string]string{}}
	if err := s.UpsertKeys([]dedup.Key{k}); err != nil {
		t.Fatal(err)
	}
	k.Hash = "new"
	if err := s.UpsertKeys([]dedup.Key{k}); err != nil {
		t.Fatal(err)
	}
	got, err := s.KeysForCitation("1-scl")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Hash != "new" {
		t.Errorf("got %v, want single replaced key", got)
	}
}
