// Package bitmap builds the BitmapTriples encoding described in
// spec.md §4.8: the dictionary-encoded triples, sorted into SPO order
// and deduplicated, are laid out as two parallel ID arrays (Y, the
// distinct predicate per subject; Z, the object per (subject,
// predicate) pair) and two delimiter bitmaps (By, Bz) marking where
// each subject's and each (subject,predicate)'s run ends.
//
// This mirrors the walk in the original encoder's BitmapTriples loader,
// reimplemented without panics: a malformed ID stream (a zero ID, or
// subject IDs that do not run contiguously from 1 once sorted) is
// reported as an EncoderInvariantViolation instead of crashing the
// process.
package bitmap

import (
	"sort"

	"github.com/DeciSym/rdf2hdt/internal/dictionary"
	"github.com/DeciSym/rdf2hdt/internal/hdterrors"
)

// Triples holds the BitmapTriples encoding of a triple set.
type Triples struct {
	Y  []uint32
	Z  []uint32
	By []bool
	Bz []bool
}

// Encode sorts triples into SPO order, collapses exact duplicates (HDT
// stores a set of triples, not a multiset), and builds the
// BitmapTriples encoding.
func Encode(triples []dictionary.EncodedTriple) (*Triples, error) {
	sorted := make([]dictionary.EncodedTriple, len(triples))
	copy(sorted, triples)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.S != b.S {
			return a.S < b.S
		}
		if a.P != b.P {
			return a.P < b.P
		}
		return a.O < b.O
	})
	sorted = dedupe(sorted)

	if len(sorted) == 0 {
		// The walk never runs, but the container still needs a
		// well-formed (if trivial) bitmap section for an empty graph.
		return &Triples{By: []bool{true}, Bz: []bool{true}}, nil
	}

	if err := validate(sorted); err != nil {
		return nil, err
	}

	t := &Triples{
		Y:  make([]uint32, 0, len(sorted)),
		Z:  make([]uint32, 0, len(sorted)),
		By: make([]bool, 0, len(sorted)),
		Bz: make([]bool, 0, len(sorted)),
	}

	for i, tr := range sorted {
		newSubject := i == 0 || tr.S != sorted[i-1].S
		newPredicateGroup := newSubject || tr.P != sorted[i-1].P

		if newPredicateGroup {
			if len(t.Bz) > 0 {
				t.Bz[len(t.Bz)-1] = true
			}
			t.Y = append(t.Y, tr.P)
			t.Bz = append(t.Bz, false)

			if newSubject && len(t.By) > 0 {
				t.By[len(t.By)-1] = true
			}
			t.By = append(t.By, false)
		} else {
			t.Bz = append(t.Bz, false)
		}

		t.Z = append(t.Z, tr.O)
	}
	t.Bz[len(t.Bz)-1] = true
	t.By[len(t.By)-1] = true

	return t, nil
}

func dedupe(sorted []dictionary.EncodedTriple) []dictionary.EncodedTriple {
	out := sorted[:0]
	for i, tr := range sorted {
		if i > 0 && tr == sorted[i-1] {
			continue
		}
		out = append(out, tr)
	}
	return out
}

func validate(sorted []dictionary.EncodedTriple) error {
	for i, tr := range sorted {
		if tr.S == 0 || tr.P == 0 || tr.O == 0 {
			return hdterrors.Newf(hdterrors.EncoderInvariantViolation, "triple %d has a zero dictionary ID: %+v", i, tr)
		}
		if i == 0 {
			if tr.S != 1 {
				return hdterrors.Newf(hdterrors.EncoderInvariantViolation, "first subject ID is %d, want 1", tr.S)
			}
			continue
		}
		prev := sorted[i-1]
		switch {
		case tr.S < prev.S:
			return hdterrors.Newf(hdterrors.EncoderInvariantViolation, "subject ID regressed at triple %d: %d < %d", i, tr.S, prev.S)
		case tr.S > prev.S+1:
			return hdterrors.Newf(hdterrors.EncoderInvariantViolation, "subject ID gap at triple %d: %d after %d", i, tr.S, prev.S)
		case tr.S == prev.S && tr.P < prev.P:
			return hdterrors.Newf(hdterrors.EncoderInvariantViolation, "predicate ID regressed at triple %d within subject %d", i, tr.S)
		case tr.S == prev.S && tr.P == prev.P && tr.O <= prev.O:
			return hdterrors.Newf(hdterrors.EncoderInvariantViolation, "object ID did not strictly increase at triple %d within subject %d, predicate %d", i, tr.S, tr.P)
		}
	}
	return nil
}
