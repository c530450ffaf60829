// ck-dbgen builds the journal reference database from tabular source files
// and writes it out as a compressed JSON blob.
//
// $ ck-dbgen -crosswalk crosswalk.csv -year-volume yv.csv \
//     -regression lr.csv -equations eq.csv -o refdb.json.zst
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/miku/citkit"
	"github.com/miku/citkit/refdb"
)

var docs = strings.TrimLeft(`
# ck-dbgen - build the journal reference database

Reads four pipe delimited tabular files (plain or gzip compressed):

  -crosswalk     ISSN-L to ISSN crosswalk with titles
  -year-volume   observed ISSN, year and volume triples
  -regression    predicted volumes from a linear regression
  -equations     regression coefficients per ISSN

and writes a single compressed reference database blob used by ck-std.

## flags

`, "\n")

var (
	crosswalkFile  = flag.String("crosswalk", "", "title crosswalk file (ISSN-L, ISSNs, titles)")
	yearVolumeFile = flag.String("year-volume", "", "observed year-volume file")
	regressionFile = flag.String("regression", "", "predicted volume file")
	equationsFile  = flag.String("equations", "", "regression coefficients file")
	output         = flag.String("o", "refdb.json.zst", "output path for the database blob")
	dbVersion      = flag.String("db-version", citkit.Version, "version string embedded in the database")
	showVersion    = flag.Bool("version", false, "show version")
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
	for name, v := range map[string]string{
		"crosswalk":   *crosswalkFile,
		"year-volume": *yearVolumeFile,
		"regression":  *regressionFile,
		"equations":   *equationsFile,
	} {
		if v == "" {
			log.Fatalf("missing required flag: -%s", name)
		}
	}
	src := refdb.Sources{
		Crosswalk:  *crosswalkFile,
		YearVolume: *yearVolumeFile,
		Regression: *regressionFile,
		Equations:  *equationsFile,
	}
	db, err := refdb.Build(src, *dbVersion)
	if err != nil {
		log.Fatal(err)
	}
	if err := refdb.Save(db, *output); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d journals to %s", len(db.ISSNLToData), *output)
}
