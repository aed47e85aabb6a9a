package normalize

import (
	"path/filepath"
	"strings"

	"github.com/DeciSym/rdf2hdt/internal/hdterrors"
	rdf "github.com/knakk/rdf"
)

// sourceFormat describes how a single input file should be decoded.
type sourceFormat struct {
	rdfFormat rdf.Format
	isQuad    bool
	isTrig    bool
}

// detectFormat maps a file extension to its decoding strategy, per
// spec.md §4.1's supported-format list (N-Triples, Turtle, N-Quads,
// TriG, RDF/XML).
func detectFormat(path string) (sourceFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".nt":
		return sourceFormat{rdfFormat: rdf.FormatNT}, nil
	case ".ttl":
		return sourceFormat{rdfFormat: rdf.FormatTTL}, nil
	case ".rdf", ".xml", ".owl":
		return sourceFormat{rdfFormat: rdf.FormatRDFXML}, nil
	case ".nq":
		return sourceFormat{rdfFormat: rdf.FormatNQ, isQuad: true}, nil
	case ".trig":
		// TriG has no dedicated decoder in knakk/rdf; the graph-block
		// wrappers are stripped by a pre-pass (trig.go) and the
		// remaining content is decoded as Turtle.
		return sourceFormat{rdfFormat: rdf.FormatTTL, isTrig: true}, nil
	default:
		return sourceFormat{}, hdterrors.Newf(hdterrors.InvalidInput, "unrecognized input file extension: %s", path)
	}
}
