// Package rdf2hdt builds HDT (Header-Dictionary-Triples) binary
// containers from RDF source files. It runs a four-stage pipeline:
// normalize (flatten any supported textual RDF serialization to plain
// N-Triples), dictionary (partition distinct terms into the
// shared/subjects-only/objects-only/predicates sections and translate
// triples into dictionary IDs), bitmap (sort, deduplicate, and encode
// the ID triples as BitmapTriples), and container (frame everything
// into the final binary file, with a VoID/HDT metadata header graph).
package rdf2hdt

import (
	"os"
	"path/filepath"
	"time"

	"github.com/DeciSym/rdf2hdt/internal/bitmap"
	"github.com/DeciSym/rdf2hdt/internal/container"
	"github.com/DeciSym/rdf2hdt/internal/dictionary"
	"github.com/DeciSym/rdf2hdt/internal/hdterrors"
	"github.com/DeciSym/rdf2hdt/internal/normalize"
)

// ErrorKind classifies a BuildError; see Kind's documentation in
// internal/hdterrors for the taxonomy and process exit codes.
type ErrorKind = hdterrors.Kind

// The error kinds a Build call can return.
const (
	InvalidInput              = hdterrors.InvalidInput
	ParseError                = hdterrors.ParseError
	IoError                   = hdterrors.IoError
	EncoderInvariantViolation = hdterrors.EncoderInvariantViolation
	UnicodeError              = hdterrors.UnicodeError
)

// BuildError is returned by Build on failure; callers that need the
// process exit code spec.md §6 assigns to a given failure can type
// assert to *BuildError and call its Kind's ExitCode method.
type BuildError = hdterrors.BuildError

// Options configures a Build call.
type Options struct {
	// BaseIRI is the subject of the header graph's dataset description.
	// If empty, it is derived from the absolute path of the first input
	// file.
	BaseIRI string

	// KeepIntermediate leaves any temporary merged N-Triples file in
	// place instead of removing it once the build finishes, for
	// inspection.
	KeepIntermediate bool

	// Warnf receives non-fatal warnings (e.g. a named graph flattened
	// into the default graph). If nil, warnings are discarded.
	Warnf func(format string, args ...interface{})
}

// Stats reports what a successful Build produced.
type Stats struct {
	NumTriples      int
	NumSharedTerms  int
	NumSubjectTerms int
	NumObjectTerms  int
	NumPredicates   int
	OriginalSize    int64
	OutputSize      int64
}

// Build runs the full normalize -> dictionary -> bitmap -> container
// pipeline over inputs and writes the resulting HDT container to
// outputPath.
func Build(inputs []string, outputPath string, opts Options) (*Stats, error) {
	warn := opts.Warnf
	if warn == nil {
		warn = func(string, ...interface{}) {}
	}

	originalSize, err := totalInputSize(inputs)
	if err != nil {
		return nil, err
	}

	ntPath, cleanup, err := normalize.Normalize(inputs, opts.KeepIntermediate, warn)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	dict, encoded, err := dictionary.Build(ntPath)
	if err != nil {
		return nil, err
	}

	bt, err := bitmap.Encode(encoded)
	if err != nil {
		return nil, err
	}

	baseIRI := opts.BaseIRI
	if baseIRI == "" {
		baseIRI, err = fileBaseIRI(inputs[0])
		if err != nil {
			return nil, err
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, hdterrors.WrapFile(hdterrors.IoError, outputPath, err, "creating output file")
	}

	numTriples := len(bt.Z)
	err = container.Write(out, dict, bt, numTriples, container.Params{
		BaseIRI:      baseIRI,
		OriginalSize: originalSize,
		IssuedAt:     time.Now(),
	})
	closeErr := out.Close()
	if err != nil {
		os.Remove(outputPath)
		return nil, hdterrors.WrapFile(hdterrors.IoError, outputPath, err, "writing HDT container")
	}
	if closeErr != nil {
		return nil, hdterrors.WrapFile(hdterrors.IoError, outputPath, closeErr, "closing output file")
	}

	outInfo, err := os.Stat(outputPath)
	if err != nil {
		return nil, hdterrors.WrapFile(hdterrors.IoError, outputPath, err, "statting output file")
	}

	return &Stats{
		NumTriples:      numTriples,
		NumSharedTerms:  len(dict.Shared.Terms),
		NumSubjectTerms: len(dict.Subjects.Terms),
		NumObjectTerms:  len(dict.Objects.Terms),
		NumPredicates:   len(dict.Predicates.Terms),
		OriginalSize:    originalSize,
		OutputSize:      outInfo.Size(),
	}, nil
}

func totalInputSize(inputs []string) (int64, error) {
	var total int64
	for _, p := range inputs {
		info, err := os.Stat(p)
		if err != nil {
			return 0, hdterrors.WrapFile(hdterrors.IoError, p, err, "statting input file")
		}
		total += info.Size()
	}
	return total, nil
}

func fileBaseIRI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", hdterrors.WrapFile(hdterrors.IoError, path, err, "resolving absolute path for base IRI")
	}
	return "file://" + filepath.ToSlash(abs), nil
}
