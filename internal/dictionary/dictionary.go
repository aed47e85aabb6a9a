// Package dictionary builds the four-section HDT dictionary (spec.md
// §4.2) from a normalized N-Triples stream: it discovers the distinct
// subject, predicate and object terms in a first pass, partitions them
// into the shared, subjects-only, objects-only and predicates
// sections, and in a second pass re-reads the stream to translate each
// triple into its (subjectID, predicateID, objectID) encoding.
//
// Term discovery uses a throwaway BoltDB file as an ordered set, the
// same way the teacher's triple store uses BoltDB buckets to assign
// and look up term IDs; the shared/subjects-only/objects-only split is
// computed with RoaringBitmap set operations over those discovery IDs,
// the same bitmap library the teacher uses for its triple postings.
package dictionary

import (
	"encoding/binary"
	"io"
	"io/ioutil"
	"os"
	"sort"

	"github.com/DeciSym/rdf2hdt/internal/hdterrors"
	"github.com/DeciSym/rdf2hdt/internal/normalize"
	"github.com/RoaringBitmap/roaring"
	"github.com/boltdb/bolt"
)

var (
	bucketTermIndex    = []byte("termIndex")    // term string -> discovery ID
	bucketTermIndexRev = []byte("termIndexRev") // discovery ID -> term string
	bucketPredicates   = []byte("predicates")   // predicate term string -> nil
)

// Section is one of the dictionary's four partitions: a sorted,
// deduplicated list of term strings plus its Plain Front Coding
// encoding, ready to be framed by internal/framing.WritePFCSection.
type Section struct {
	Terms      []string
	Compressed []byte
	Offsets    []uint32
	ids        map[string]uint32
}

func newSection(terms []string) Section {
	sort.Strings(terms)
	ids := make(map[string]uint32, len(terms))
	for i, t := range terms {
		ids[t] = uint32(i + 1)
	}
	compressed, offsets := compressPFC(terms)
	return Section{Terms: terms, Compressed: compressed, Offsets: offsets, ids: ids}
}

// ID returns the section-local 1-based ID of t, or (0, false) if t is
// not a member of this section.
func (s Section) ID(t string) (uint32, bool) {
	id, ok := s.ids[t]
	return id, ok
}

// Dictionary is the assembled four-section HDT dictionary.
type Dictionary struct {
	Shared     Section
	Subjects   Section
	Objects    Section
	Predicates Section
}

// SubjectID returns the global subject-position ID of t: its shared-
// section ID if t is a shared term, else its subjects-only ID offset
// past the shared section. Returns 0 if t was never seen as a subject.
func (d *Dictionary) SubjectID(t string) uint32 {
	if id, ok := d.Shared.ID(t); ok {
		return id
	}
	if id, ok := d.Subjects.ID(t); ok {
		return uint32(len(d.Shared.Terms)) + id
	}
	return 0
}

// ObjectID is SubjectID's counterpart for the object position.
func (d *Dictionary) ObjectID(t string) uint32 {
	if id, ok := d.Shared.ID(t); ok {
		return id
	}
	if id, ok := d.Objects.ID(t); ok {
		return uint32(len(d.Shared.Terms)) + id
	}
	return 0
}

// PredicateID returns t's ID in the predicates section, or 0 if unseen.
func (d *Dictionary) PredicateID(t string) uint32 {
	id, _ := d.Predicates.ID(t)
	return id
}

// EncodedTriple is a triple translated into dictionary IDs.
type EncodedTriple struct {
	S, P, O uint32
}

// Build runs both passes over ntPath and returns the assembled
// dictionary plus every triple translated into dictionary IDs, in
// file order (internal/bitmap sorts them into SPO order itself).
func Build(ntPath string) (*Dictionary, []EncodedTriple, error) {
	dbFile, err := ioutil.TempFile("", "rdf2hdt-dict-*.db")
	if err != nil {
		return nil, nil, hdterrors.Wrap(hdterrors.IoError, err, "creating discovery database")
	}
	dbPath := dbFile.Name()
	dbFile.Close()
	defer os.Remove(dbPath)

	kv, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, nil, hdterrors.Wrap(hdterrors.IoError, err, "opening discovery database")
	}
	defer kv.Close()

	if err := kv.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketTermIndex, bucketTermIndexRev, bucketPredicates} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, nil, hdterrors.Wrap(hdterrors.IoError, err, "initializing discovery buckets")
	}

	subjBitmap := roaring.NewBitmap()
	objBitmap := roaring.NewBitmap()

	src, err := normalize.OpenNTriples(ntPath)
	if err != nil {
		return nil, nil, err
	}
	for {
		tr, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			src.Close()
			return nil, nil, err
		}
		if err := kv.Update(func(tx *bolt.Tx) error {
			sID, err := discover(tx, tr.Subj.Normalized())
			if err != nil {
				return err
			}
			subjBitmap.Add(sID)

			oID, err := discover(tx, tr.Obj.Normalized())
			if err != nil {
				return err
			}
			objBitmap.Add(oID)

			return tx.Bucket(bucketPredicates).Put([]byte(tr.Pred.Normalized()), nil)
		}); err != nil {
			src.Close()
			return nil, nil, hdterrors.Wrap(hdterrors.IoError, err, "pass 1: discovering terms")
		}
	}
	src.Close()

	shared := roaring.And(subjBitmap, objBitmap)
	subjOnly := roaring.AndNot(subjBitmap, shared)
	objOnly := roaring.AndNot(objBitmap, shared)

	var sharedTerms, subjOnlyTerms, objOnlyTerms, predTerms []string
	if err := kv.View(func(tx *bolt.Tx) error {
		rev := tx.Bucket(bucketTermIndexRev)
		lookup := func(bm *roaring.Bitmap) ([]string, error) {
			out := make([]string, 0, bm.GetCardinality())
			it := bm.Iterator()
			for it.HasNext() {
				b := rev.Get(u32tob(it.Next()))
				if b == nil {
					return nil, hdterrors.New(hdterrors.EncoderInvariantViolation, "discovery ID missing reverse mapping")
				}
				out = append(out, string(b))
			}
			return out, nil
		}
		var err error
		if sharedTerms, err = lookup(shared); err != nil {
			return err
		}
		if subjOnlyTerms, err = lookup(subjOnly); err != nil {
			return err
		}
		if objOnlyTerms, err = lookup(objOnly); err != nil {
			return err
		}
		return tx.Bucket(bucketPredicates).ForEach(func(k, _ []byte) error {
			predTerms = append(predTerms, string(k))
			return nil
		})
	}); err != nil {
		return nil, nil, err
	}

	dict := &Dictionary{
		Shared:     newSection(sharedTerms),
		Subjects:   newSection(subjOnlyTerms),
		Objects:    newSection(objOnlyTerms),
		Predicates: newSection(predTerms),
	}

	encoded, err := encodeTriples(ntPath, dict)
	if err != nil {
		return nil, nil, err
	}

	return dict, encoded, nil
}

// discover returns t's discovery ID, assigning a fresh one via the
// term index bucket's sequence counter if t has not been seen before.
func discover(tx *bolt.Tx, t string) (uint32, error) {
	idx := tx.Bucket(bucketTermIndex)
	key := []byte(t)
	if b := idx.Get(key); b != nil {
		return btou32(b), nil
	}
	n, err := idx.NextSequence()
	if err != nil {
		return 0, err
	}
	id := uint32(n)
	if err := idx.Put(key, u32tob(id)); err != nil {
		return 0, err
	}
	if err := tx.Bucket(bucketTermIndexRev).Put(u32tob(id), key); err != nil {
		return 0, err
	}
	return id, nil
}

func encodeTriples(ntPath string, dict *Dictionary) ([]EncodedTriple, error) {
	src, err := normalize.OpenNTriples(ntPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var out []EncodedTriple
	for {
		tr, err := src.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		s := dict.SubjectID(tr.Subj.Normalized())
		p := dict.PredicateID(tr.Pred.Normalized())
		o := dict.ObjectID(tr.Obj.Normalized())
		if s == 0 || p == 0 || o == 0 {
			return nil, hdterrors.New(hdterrors.EncoderInvariantViolation, "triple references a term missing from the dictionary")
		}
		out = append(out, EncodedTriple{S: s, P: p, O: o})
	}
}

func u32tob(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func btou32(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}
