package normalize

import (
	"io"
	"os"

	"github.com/DeciSym/rdf2hdt/internal/hdterrors"
	"github.com/DeciSym/rdf2hdt/internal/term"
	rdf "github.com/knakk/rdf"
)

// NTripleSource re-reads an already-normalized N-Triples file one
// triple at a time. The dictionary builder opens two independent
// instances of this over the same file for its two passes (spec.md
// §4.2), rather than holding the whole graph in memory.
type NTripleSource struct {
	f   *os.File
	dec *rdf.TripleDecoder
}

// OpenNTriples opens path for a fresh streaming read.
func OpenNTriples(path string) (*NTripleSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, hdterrors.WrapFile(hdterrors.IoError, path, err, "opening intermediate N-Triples file")
	}
	return &NTripleSource{f: f, dec: rdf.NewTripleDecoder(f, rdf.FormatNT)}, nil
}

// Next returns the next triple, or io.EOF once the file is exhausted.
func (s *NTripleSource) Next() (term.Triple, error) {
	tr, err := s.dec.Decode()
	if err == io.EOF {
		return term.Triple{}, io.EOF
	}
	if err != nil {
		return term.Triple{}, hdterrors.WrapFile(hdterrors.ParseError, s.f.Name(), err, "re-parsing intermediate N-Triples")
	}
	return toTriple(tr)
}

// Close releases the underlying file handle.
func (s *NTripleSource) Close() error { return s.f.Close() }
