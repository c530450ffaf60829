// ck-load moves standardized documents and dedup keys in and out of the
// local SQLite store.
//
// $ ck-load -db citations.db < standardized.jsonl
// $ ck-load -db citations.db -mode keys < keys.jsonl
// $ ck-load -db citations.db -from 2020-01-01 -to 2020-12-31 > updated.jsonl
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/miku/citkit"
	"github.com/miku/citkit/dedup"
	"github.com/miku/citkit/standardize"
	"github.com/miku/citkit/store"
	"github.com/segmentio/encoding/json"
)

var docs = strings.TrimLeft(`
# ck-load - SQLite store for standardized citations

Without -from/-to, reads records from stdin and upserts them into the store:
standardized documents by default, dedup keys with -mode keys. With -from
and -to, exports documents updated in that date range as newline delimited
JSON instead.

## examples

$ ck-load -db citations.db < standardized.jsonl
$ ck-load -db citations.db -mode keys < keys.jsonl
$ ck-load -db citations.db -from 2020-01-01 -to 2020-12-31

## flags

`, "\n")

var (
	dbPath      = flag.String("db", "citations.db", "path to the SQLite store")
	mode        = flag.String("mode", "docs", "what to load: docs or keys")
	batchSize   = flag.Int("b", 1000, "records per transaction")
	exportFrom  = flag.String("from", "", "export documents updated on or after this date (YYYY-MM-DD)")
	exportTo    = flag.String("to", "", "export documents updated on or before this date (YYYY-MM-DD)")
	showVersion = flag.Bool("version", false, "show version")
)

func main() {
	flag.Usage = func() {
		io.WriteString(os.Stderr, docs)
		flag.PrintDefaults()
	}
	flag.Parse()
	if *showVersion {
		fmt.Println(citkit.Version)
		os.Exit(0)
	}
	s, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	if *exportFrom != "" || *exportTo != "" {
		if *exportFrom == "" || *exportTo == "" {
			log.Fatal("need both -from and -to for an export")
		}
		if err := export(s, *exportFrom, *exportTo); err != nil {
			log.Fatal(err)
		}
		return
	}
	switch *mode {
	case "docs":
		err = loadDocs(s)
	case "keys":
		err = loadKeys(s)
	default:
		err = fmt.Errorf("invalid mode: %s", *mode)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func export(s *store.Store, from, to string) error {
	docs, err := s.DocumentsUpdatedBetween(from, to)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(os.Stdout)
	defer bw.Flush()
	enc := json.NewEncoder(bw)
	for _, doc := range docs {
		if err := enc.Encode(doc); err != nil {
			return err
		}
	}
	return nil
}

func loadDocs(s *store.Store) error {
	var (
		scanner = bufio.NewScanner(os.Stdin)
		batch   []standardize.Document
		total   int
	)
	for scanner.Scan() {
		var doc standardize.Document
		if err := json.Unmarshal(scanner.Bytes(), &doc); err != nil {
			log.Printf("skipping malformed document: %v", err)
			continue
		}
		batch = append(batch, doc)
		if len(batch) >= *batchSize {
			if err := s.UpsertDocuments(batch); err != nil {
				return err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		if err := s.UpsertDocuments(batch); err != nil {
			return err
		}
		total += len(batch)
	}
	log.Printf("loaded %d documents", total)
	return nil
}

func loadKeys(s *store.Store) error {
	var (
		scanner = bufio.NewScanner(os.Stdin)
		batch   []dedup.Key
		total   int
	)
	for scanner.Scan() {
		var k dedup.Key
		if err := json.Unmarshal(scanner.Bytes(), &k); err != nil {
			log.Printf("skipping malformed key: %v", err)
			continue
		}
		batch = append(batch, k)
		if len(batch) >= *batchSize {
			if err := s.UpsertKeys(batch); err != nil {
				return err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		if err := s.UpsertKeys(batch); err != nil {
			return err
		}
		total += len(batch)
	}
	log.Printf("loaded %d keys", total)
	return nil
}
