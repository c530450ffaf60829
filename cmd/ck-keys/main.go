// ck-keys derives dedup keys for citations. Reads newline delimited
// citation JSON and writes one key record per variant and citation.
//
// $ ck-keys -c scl < citations.jsonl > keys.jsonl
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/miku/citkit"
	"github.com/miku/citkit/dedup"
	"github.com/miku/citkit/normal"
	"github.com/miku/citkit/parallel/record"
	"github.com/miku/citkit/refdb"
	"github.com/miku/citkit/resolve"
	"github.com/miku/citkit/schema/citation"
	"github.com/miku/citkit/standardize"
	"github.com/segmentio/encoding/json"
)

var docs = strings.TrimLeft(`
# ck-keys - derive dedup keys for citations

Emits one JSON record per key variant, e.g. article_volume, article_issue,
article_start_page, book, chapter. Citations referring to the same work get
equal hashes within a variant.

With -d, cited journal titles are resolved against the reference database
first, so variant spellings of the same journal hash alike.

## example

$ ck-keys -d refdb.json.zst -c scl < citations.jsonl > keys.jsonl

## flags

`, "\n")

var (
	dbPath      = flag.String("d", "", "optional reference database for journal title resolution")
	collection  = flag.String("c", "scl", "collection tag appended to citation ids")
	numWorkers  = flag.Int("w", runtime.NumCPU(), "number of workers")
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
	var resolver *resolve.Resolver
	if *dbPath != "" {
		db, err := refdb.Load(*dbPath)
		if err != nil {
			log.Fatal(err)
		}
		resolver = resolve.New(db, resolve.Options{})
	}
	proc := record.NewProcessor(func(line []byte) ([]byte, error) {
		var cit citation.Citation
		if err := json.Unmarshal(line, &cit); err != nil {
			log.Printf("skipping malformed citation: %v", err)
			return nil, nil
		}
		var resolvedTitle string
		if resolver != nil && cit.PublicationType == citation.TypeArticle {
			result := resolver.Resolve(resolve.Request{
				Title:  normal.JournalTitle(cit.Source, normal.TitleOptions{DiscardInvalidChars: true, Uppercase: true}),
				Year:   standardize.PublicationYear(cit.PublicationDate),
				Volume: normal.ExtractVolume(cit.Volume),
			})
			if result.Status.IsNormalized() && len(result.OfficialTitles) > 0 {
				resolvedTitle = result.OfficialTitles[0]
			}
		}
		keys := dedup.DeriveKeys(&cit, resolvedTitle, *collection)
		if len(keys) == 0 {
			return nil, nil
		}
		var buf []byte
		for _, k := range keys {
			b, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			buf = append(buf, b...)
			buf = append(buf, '\n')
		}
		return buf, nil
	}, record.WithWorkers(*numWorkers))
	if err := proc.Process(context.Background(), os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
