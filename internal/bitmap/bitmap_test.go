package bitmap

import (
	"testing"

	"github.com/DeciSym/rdf2hdt/internal/dictionary"
)

func TestEncodeEmpty(t *testing.T) {
	got, err := Encode(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.By) != 1 || !got.By[0] {
		t.Errorf("expected By = [true] on empty input, got %v", got.By)
	}
	if len(got.Bz) != 1 || !got.Bz[0] {
		t.Errorf("expected Bz = [true] on empty input, got %v", got.Bz)
	}
	if len(got.Y) != 0 || len(got.Z) != 0 {
		t.Errorf("expected empty Y/Z, got Y=%v Z=%v", got.Y, got.Z)
	}
}

func TestEncodeSingleTriple(t *testing.T) {
	got, err := Encode([]dictionary.EncodedTriple{{S: 1, P: 1, O: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Y) != 1 || got.Y[0] != 1 {
		t.Errorf("Y = %v; want [1]", got.Y)
	}
	if len(got.Z) != 1 || got.Z[0] != 1 {
		t.Errorf("Z = %v; want [1]", got.Z)
	}
	if got.By[0] != true || got.Bz[0] != true {
		t.Errorf("By/Bz should each be a single true bit: By=%v Bz=%v", got.By, got.Bz)
	}
}

func TestEncodeDeduplicatesExactTriples(t *testing.T) {
	got, err := Encode([]dictionary.EncodedTriple{
		{S: 1, P: 1, O: 1},
		{S: 1, P: 1, O: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Z) != 1 {
		t.Errorf("expected duplicate triple collapsed to 1 entry, got %d", len(got.Z))
	}
}

func TestEncodeMultiplePredicatesPerSubject(t *testing.T) {
	// subject 1 has predicates {1,2}, each with one object; subject 2 has predicate 1 with two objects.
	got, err := Encode([]dictionary.EncodedTriple{
		{S: 1, P: 1, O: 5},
		{S: 1, P: 2, O: 6},
		{S: 2, P: 1, O: 7},
		{S: 2, P: 1, O: 8},
	})
	if err != nil {
		t.Fatal(err)
	}
	wantY := []uint32{1, 2, 1}
	if !equalU32(got.Y, wantY) {
		t.Errorf("Y = %v; want %v", got.Y, wantY)
	}
	wantZ := []uint32{5, 6, 7, 8}
	if !equalU32(got.Z, wantZ) {
		t.Errorf("Z = %v; want %v", got.Z, wantZ)
	}
	// By marks the end of each subject's predicate run within Y: index 1 (pred 2, last of subject 1) and index 2 (pred 1, last and only of subject 2).
	wantBy := []bool{false, true, true}
	if !equalBool(got.By, wantBy) {
		t.Errorf("By = %v; want %v", got.By, wantBy)
	}
	// Bz marks the end of each (subject,predicate) run within Z.
	wantBz := []bool{true, true, false, true}
	if !equalBool(got.Bz, wantBz) {
		t.Errorf("Bz = %v; want %v", got.Bz, wantBz)
	}
}

func TestEncodeRejectsZeroID(t *testing.T) {
	_, err := Encode([]dictionary.EncodedTriple{{S: 0, P: 1, O: 1}})
	if err == nil {
		t.Fatal("expected error for zero subject ID")
	}
}

func TestEncodeRejectsSubjectGap(t *testing.T) {
	_, err := Encode([]dictionary.EncodedTriple{
		{S: 1, P: 1, O: 1},
		{S: 3, P: 1, O: 1},
	})
	if err == nil {
		t.Fatal("expected error for subject ID gap")
	}
}

func equalU32(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalBool(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
