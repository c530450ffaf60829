// ck-cluster groups dedup key records into duplicate clusters.
//
// $ ck-keys -c scl < citations.jsonl | ck-cluster > clusters.jsonl
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
	"github.com/miku/citkit/clustering"
	"github.com/segmentio/encoding/json"
)

var docs = strings.TrimLeft(`
# ck-cluster - group dedup keys into clusters

Reads key records as written by ck-keys and emits one cluster per line:
citations sharing a key hash within the same variant. By default only
clusters with at least two members are reported.

## example

$ ck-keys -c scl < citations.jsonl | ck-cluster > clusters.jsonl

## flags

`, "\n")

var (
	minSize     = flag.Int("m", 2, "minimum cluster size to report")
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
	g := &clustering.Grouper{MinSize: *minSize}
	if err := g.ReadFrom(os.Stdin); err != nil {
		log.Fatal(err)
	}
	bw := bufio.NewWriter(os.Stdout)
	defer bw.Flush()
	enc := json.NewEncoder(bw)
	for _, c := range g.Clusters() {
		if err := enc.Encode(c); err != nil {
			log.Fatal(err)
		}
	}
}
