// Package normalize is the first pipeline stage (spec.md §4.1): it
// consumes a list of RDF source files in any of the supported textual
// serializations and produces a single N-Triples stream for the
// dictionary builder to read twice. Named graphs, wherever the source
// format carries them, are flattened into the single default graph;
// callers are warned once per file when that happens.
package normalize

import (
	"bufio"
	"bytes"
	"io"
	"io/ioutil"
	"os"

	"github.com/DeciSym/rdf2hdt/internal/hdterrors"
	"github.com/DeciSym/rdf2hdt/internal/term"
	rdf "github.com/knakk/rdf"
)

// Warnf is the signature for the caller-supplied warning sink (spec.md
// §4.0's ambient logging rule: this package never logs directly).
type Warnf func(format string, args ...interface{})

// Normalize merges inputs into a single N-Triples file, returning its
// path and a cleanup function that removes any temporary file it
// created. If keepTemp is true, the cleanup function is a no-op and
// the temporary path is left in place for inspection.
//
// A lone ".nt" input is passed through by reference without being
// parsed at all, matching the original encoder's single-file fast
// path: a malformed standalone .nt file surfaces its parse error from
// the dictionary builder, not from here.
func Normalize(inputs []string, keepTemp bool, warn Warnf) (path string, cleanup func() error, err error) {
	if warn == nil {
		warn = func(string, ...interface{}) {}
	}
	if len(inputs) == 0 {
		return "", nil, hdterrors.New(hdterrors.InvalidInput, "no input files given")
	}
	if len(inputs) == 1 {
		if fmtInfo, ferr := detectFormat(inputs[0]); ferr == nil && fmtInfo.rdfFormat == rdf.FormatNT && !fmtInfo.isTrig {
			return inputs[0], func() error { return nil }, nil
		}
	}

	tmp, err := ioutil.TempFile("", "rdf2hdt-*.nt")
	if err != nil {
		return "", nil, hdterrors.Wrap(hdterrors.IoError, err, "creating intermediate N-Triples file")
	}
	cleanup = func() error {
		if keepTemp {
			return nil
		}
		return os.Remove(tmp.Name())
	}

	bw := bufio.NewWriter(tmp)
	for _, path := range inputs {
		if err := normalizeFile(bw, path, warn); err != nil {
			tmp.Close()
			cleanup()
			return "", nil, err
		}
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, hdterrors.WrapFile(hdterrors.IoError, tmp.Name(), err, "flushing intermediate N-Triples file")
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, hdterrors.WrapFile(hdterrors.IoError, tmp.Name(), err, "closing intermediate N-Triples file")
	}
	return tmp.Name(), cleanup, nil
}

func normalizeFile(w io.Writer, path string, warn Warnf) error {
	sf, err := detectFormat(path)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return hdterrors.WrapFile(hdterrors.IoError, path, err, "opening input file")
	}
	defer f.Close()

	var r io.Reader = f
	if sf.isTrig {
		data, err := ioutil.ReadAll(f)
		if err != nil {
			return hdterrors.WrapFile(hdterrors.IoError, path, err, "reading TriG input")
		}
		stripped, sawNamed := stripTrigGraphs(data)
		if sawNamed {
			warn("%s: named graph flattened into the default graph", path)
		}
		r = bytes.NewReader(stripped)
	}

	if sf.isQuad {
		return normalizeQuads(w, r, sf, path, warn)
	}
	return normalizeTriples(w, r, sf, path)
}

func normalizeTriples(w io.Writer, r io.Reader, sf sourceFormat, path string) error {
	dec := rdf.NewTripleDecoder(r, sf.rdfFormat)
	for {
		tr, err := dec.Decode()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return hdterrors.WrapFile(hdterrors.ParseError, path, err, "parsing RDF input")
		}
		out, err := toTriple(tr)
		if err != nil {
			return hdterrors.WrapFile(hdterrors.ParseError, path, err, "converting parsed triple")
		}
		if _, err := io.WriteString(w, term.NTriplesLine(out)); err != nil {
			return hdterrors.WrapFile(hdterrors.IoError, path, err, "writing intermediate N-Triples")
		}
	}
}

func normalizeQuads(w io.Writer, r io.Reader, sf sourceFormat, path string, warn Warnf) error {
	dec := rdf.NewQuadDecoder(r, sf.rdfFormat)
	warned := false
	for {
		q, err := dec.Decode()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return hdterrors.WrapFile(hdterrors.ParseError, path, err, "parsing RDF input")
		}
		if q.Graph.URI != "" && !warned {
			warn("%s: named graph %q flattened into the default graph", path, q.Graph.URI)
			warned = true
		}
		out, err := toTriple(q.Statement)
		if err != nil {
			return hdterrors.WrapFile(hdterrors.ParseError, path, err, "converting parsed quad")
		}
		if _, err := io.WriteString(w, term.NTriplesLine(out)); err != nil {
			return hdterrors.WrapFile(hdterrors.IoError, path, err, "writing intermediate N-Triples")
		}
	}
}

func toTriple(tr rdf.Triple) (term.Triple, error) {
	s, err := toTerm(tr.Subj)
	if err != nil {
		return term.Triple{}, err
	}
	p, err := toTerm(tr.Pred)
	if err != nil {
		return term.Triple{}, err
	}
	o, err := toTerm(tr.Obj)
	if err != nil {
		return term.Triple{}, err
	}
	return term.Triple{Subj: s, Pred: p, Obj: o}, nil
}
