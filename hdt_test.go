package rdf2hdt

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func writeTempNT(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "in.nt")
	if err := ioutil.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestBuildSingleTripleScenario(t *testing.T) {
	// S1: a single triple.
	in := writeTempNT(t, `<http://ex/s> <http://ex/p> <http://ex/o> .
`)
	out := filepath.Join(t.TempDir(), "out.hdt")

	stats, err := Build([]string{in}, out, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.NumTriples != 1 {
		t.Errorf("NumTriples = %d; want 1", stats.NumTriples)
	}
	if stats.OutputSize == 0 {
		t.Error("expected non-empty output file")
	}
}

func TestBuildSharedSubjectObjectScenario(t *testing.T) {
	// S2/S3-style: a term appears as both subject and object.
	in := writeTempNT(t, `<http://ex/a> <http://ex/p> <http://ex/b> .
<http://ex/b> <http://ex/p> <http://ex/c> .
`)
	out := filepath.Join(t.TempDir(), "out.hdt")

	stats, err := Build([]string{in}, out, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.NumTriples != 2 {
		t.Errorf("NumTriples = %d; want 2", stats.NumTriples)
	}
	if stats.NumSharedTerms != 1 {
		t.Errorf("NumSharedTerms = %d; want 1 (http://ex/b)", stats.NumSharedTerms)
	}
}

func TestBuildDeduplicatesExactTriples(t *testing.T) {
	in := writeTempNT(t, `<http://ex/a> <http://ex/p> <http://ex/b> .
<http://ex/a> <http://ex/p> <http://ex/b> .
`)
	out := filepath.Join(t.TempDir(), "out.hdt")

	stats, err := Build([]string{in}, out, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.NumTriples != 1 {
		t.Errorf("NumTriples = %d; want 1 (duplicates collapsed)", stats.NumTriples)
	}
}

func TestBuildEmptyGraph(t *testing.T) {
	in := writeTempNT(t, "")
	out := filepath.Join(t.TempDir(), "out.hdt")

	stats, err := Build([]string{in}, out, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.NumTriples != 0 {
		t.Errorf("NumTriples = %d; want 0", stats.NumTriples)
	}
	if stats.OutputSize == 0 {
		t.Error("expected a well-formed (if minimal) output file for an empty graph")
	}
}

func TestBuildNoInputsIsInvalidInput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.hdt")
	_, err := Build(nil, out, Options{})
	if err == nil {
		t.Fatal("expected an error for no inputs")
	}
	be, ok := err.(*BuildError)
	if !ok {
		t.Fatalf("expected *BuildError, got %T", err)
	}
	if be.Kind != InvalidInput {
		t.Errorf("Kind = %v; want InvalidInput", be.Kind)
	}
}

func TestBuildOutputDeterministicModuloTimestamp(t *testing.T) {
	in := writeTempNT(t, `<http://ex/a> <http://ex/p> "v" .
`)
	out1 := filepath.Join(t.TempDir(), "out1.hdt")
	out2 := filepath.Join(t.TempDir(), "out2.hdt")

	if _, err := Build([]string{in}, out1, Options{BaseIRI: "file:///fixed"}); err != nil {
		t.Fatal(err)
	}
	if _, err := Build([]string{in}, out2, Options{BaseIRI: "file:///fixed"}); err != nil {
		t.Fatal(err)
	}

	b1, err := os.ReadFile(out1)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := os.ReadFile(out2)
	if err != nil {
		t.Fatal(err)
	}
	// The two builds can only differ in their dc:issued timestamp inside
	// the header graph (seconds resolution, so they may coincide);
	// everything else -- dictionary, bitmap triples, control block
	// framing -- must be byte-identical.
	if len(b1) != len(b2) {
		t.Fatalf("expected equal-length outputs, got %d vs %d", len(b1), len(b2))
	}
	if !bytes.Equal(b1[:8], b2[:8]) {
		t.Error("expected the leading global control block to be identical across builds")
	}
	maskIssued := func(b []byte) []byte {
		marker := []byte("<http://purl.org/dc/terms/issued> \"")
		i := bytes.Index(b, marker)
		if i < 0 {
			t.Fatal("dc:issued triple not found in output")
		}
		out := append([]byte(nil), b...)
		start := i + len(marker)
		end := start + bytes.IndexByte(out[start:], '"')
		for j := start; j < end; j++ {
			out[j] = 'X'
		}
		return out
	}
	if !bytes.Equal(maskIssued(b1), maskIssued(b2)) {
		t.Error("expected outputs to be byte-identical apart from the dc:issued timestamp")
	}
}

func TestBuildKeepIntermediate(t *testing.T) {
	in1 := writeTempNT(t, `<http://ex/a> <http://ex/p> <http://ex/b> .
`)
	dir := t.TempDir()
	in2 := filepath.Join(dir, "in2.nt")
	if err := ioutil.WriteFile(in2, []byte(`<http://ex/c> <http://ex/p> <http://ex/d> .
`), 0644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "out.hdt")

	stats, err := Build([]string{in1, in2}, out, Options{KeepIntermediate: true})
	if err != nil {
		t.Fatal(err)
	}
	if stats.NumTriples != 2 {
		t.Errorf("NumTriples = %d; want 2", stats.NumTriples)
	}
}
