// ck-norm applies citation text cleanup to lines from stdin, mainly for
// debugging the normalization pipeline.
//
// $ echo 'Rev. Saúde Pública (Online)' | ck-norm -a journal
// rev saude publica
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/miku/citkit"
	"github.com/miku/citkit/normal"
	"github.com/miku/citkit/parallel/record"
)

var (
	algo        = flag.String("a", "default", "normalization algorithm: default, journal, journal-upper, year, volume, issue, doi")
	showVersion = flag.Bool("version", false, "show version")
)

func procAdapt(f func(string) string) record.ProcessFunc {
	return func(b []byte) ([]byte, error) {
		return append([]byte(f(string(b))), '\n'), nil
	}
}

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(citkit.Version)
		os.Exit(0)
	}
	var f func(string) string
	switch *algo {
	case "default":
		f = normal.Default
	case "journal":
		f = func(s string) string {
			return normal.JournalTitle(s, normal.TitleOptions{DiscardInvalidChars: true})
		}
	case "journal-upper":
		f = func(s string) string {
			return normal.JournalTitle(s, normal.TitleOptions{DiscardInvalidChars: true, Uppercase: true})
		}
	case "year":
		f = normal.ExtractYear
	case "volume":
		f = normal.ExtractVolume
	case "issue":
		f = normal.ExtractIssue
	case "doi":
		f = normal.ExtractDOI
	default:
		log.Fatalf("invalid algorithm name: %s", *algo)
	}
	pp := record.NewProcessor(procAdapt(f))
	if err := pp.Process(context.Background(), os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}
