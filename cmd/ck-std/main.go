// ck-std standardizes citations. Reads newline delimited citation JSON from
// stdin or a file and writes one standardized document per line.
//
// $ ck-std -d refdb.json.zst -c scl < citations.jsonl > standardized.jsonl
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
	"github.com/miku/citkit/config"
	"github.com/miku/citkit/parallel/record"
	"github.com/miku/citkit/refdb"
	"github.com/miku/citkit/resolve"
	"github.com/miku/citkit/schema/citation"
	"github.com/miku/citkit/standardize"
	"github.com/segmentio/encoding/json"
)

var docs = strings.TrimLeft(`
# ck-std - standardize citations

Reads citations as newline delimited JSON, cleans author names, titles,
volume, issue and pages, resolves cited journal titles against the reference
database and emits one standardized document per line. Output order does not
follow input order.

## example

$ ck-std -d refdb.json.zst -c scl < citations.jsonl > standardized.jsonl

## flags

`, "\n")

var (
	configFile  = flag.String("config", "", "optional YAML config file")
	dbPath      = flag.String("d", "", "path to the reference database blob")
	collection  = flag.String("c", "", "collection tag appended to citation ids")
	inputFile   = flag.String("i", "", "input file (default: stdin)")
	outputFile  = flag.String("o", "", "output file (default: stdout)")
	useExact    = flag.Bool("exact", true, "enable exact title matching")
	useFuzzy    = flag.Bool("fuzzy", true, "enable fuzzy title matching")
	threshold   = flag.Float64("threshold", resolve.DefaultThreshold, "minimum similarity for fuzzy matches")
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
	cfg, err := config.FromFile(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if *dbPath != "" {
		cfg.ReferenceDB = *dbPath
	}
	if *collection != "" {
		cfg.Collection = *collection
	}
	cfg.UseExact = *useExact
	cfg.UseFuzzy = *useFuzzy
	cfg.FuzzyThreshold = *threshold
	db, err := refdb.Load(cfg.ReferenceDB)
	if err != nil {
		log.Fatal(err)
	}
	var (
		resolver     = resolve.New(db, cfg.ResolverOptions())
		standardizer = standardize.New(resolver)
		r            = io.Reader(os.Stdin)
		w            = io.Writer(os.Stdout)
	)
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		r = f
	}
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		w = f
	}
	proc := record.NewProcessor(func(line []byte) ([]byte, error) {
		var cit citation.Citation
		if err := json.Unmarshal(line, &cit); err != nil {
			log.Printf("skipping malformed citation: %v", err)
			return nil, nil
		}
		doc := standardizer.Standardize(&cit, cfg.Collection)
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	}, record.WithWorkers(*numWorkers))
	if err := proc.Process(context.Background(), r, w); err != nil {
		log.Fatal(err)
	}
}
