// ck-crossref enriches citations with crossref metadata, by DOI where one is
// present, via a bibliographic query otherwise.
//
// $ ck-crossref -email you@example.org < citations.jsonl > crossref.jsonl
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/miku/citkit"
	"github.com/miku/citkit/crossref"
	"github.com/miku/citkit/schema/citation"
	"github.com/segmentio/encoding/json"
	"github.com/sethgrid/pester"
)

var docs = strings.TrimLeft(`
# ck-crossref - fetch crossref metadata for citations

Reads citations as newline delimited JSON and writes one metadata record per
matched citation. Requests run sequentially with retries and backoff, out of
politeness to the API; citations without usable attributes or without a
match are skipped silently.

## example

$ ck-crossref -email you@example.org -c scl < citations.jsonl > crossref.jsonl

## flags

`, "\n")

var (
	collection  = flag.String("c", "scl", "collection tag appended to citation ids")
	apiEmail    = flag.String("email", "", "email to send along with API requests")
	userAgent   = flag.String("user-agent", citkit.UserAgent, "user agent for API requests")
	maxRetries  = flag.Int("r", 3, "max retries per request")
	timeout     = flag.Duration("T", 30*time.Second, "request timeout")
	sleep       = flag.Duration("sleep", 100*time.Millisecond, "pause between requests")
	bestEffort  = flag.Bool("B", false, "log request errors and continue")
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
	client := pester.New()
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = *maxRetries
	client.RetryOnHTTP429 = true
	client.Timeout = *timeout
	collector := &crossref.Collector{
		Client:    client,
		Email:     *apiEmail,
		UserAgent: *userAgent,
	}
	var (
		ctx     = context.Background()
		scanner = bufio.NewScanner(os.Stdin)
		bw      = bufio.NewWriter(os.Stdout)
		enc     = json.NewEncoder(bw)
	)
	defer bw.Flush()
	for scanner.Scan() {
		var cit citation.Citation
		if err := json.Unmarshal(scanner.Bytes(), &cit); err != nil {
			log.Printf("skipping malformed citation: %v", err)
			continue
		}
		md, err := collector.Fetch(ctx, &cit, *collection)
		if err != nil {
			if *bestEffort {
				log.Printf("fetch failed for %s: %v", cit.ID(*collection), err)
				continue
			}
			log.Fatal(err)
		}
		if md == nil {
			continue
		}
		if err := enc.Encode(md); err != nil {
			log.Fatal(err)
		}
		time.Sleep(*sleep)
	}
	if err := scanner.Err(); err != nil {
		log.Fatal(err)
	}
}
