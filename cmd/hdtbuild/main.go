// Command hdtbuild encodes one or more RDF source files into a single
// HDT binary container.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	rdf2hdt "github.com/DeciSym/rdf2hdt"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("hdtbuild: ")

	out := flag.String("o", "", "output .hdt file (required)")
	base := flag.String("base", "", "base IRI for the header graph (default: derived from the first input's path)")
	keepTemp := flag.Bool("keep-temp", false, "keep the intermediate merged N-Triples file instead of removing it")

	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: hdtbuild -o out.hdt <flags> input.nt [input2.ttl ...]")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *out == "" || len(flag.Args()) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	opts := rdf2hdt.Options{
		BaseIRI:          *base,
		KeepIntermediate: *keepTemp,
		Warnf:            func(format string, args ...interface{}) { log.Printf(format, args...) },
	}

	stats, err := rdf2hdt.Build(flag.Args(), *out, opts)
	if err != nil {
		log.Print(err)
		if be, ok := err.(*rdf2hdt.BuildError); ok {
			os.Exit(be.Kind.ExitCode())
		}
		os.Exit(1)
	}

	log.Printf("wrote %d triples (%d shared, %d subjects-only, %d objects-only, %d predicates) to %s: %d bytes",
		stats.NumTriples, stats.NumSharedTerms, stats.NumSubjectTerms, stats.NumObjectTerms, stats.NumPredicates, *out, stats.OutputSize)
}
