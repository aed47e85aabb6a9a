// Package container assembles the final HDT binary file: the global
// control block, the header graph, the four-section dictionary, and
// the BitmapTriples encoding, framed exactly as spec.md §4.9 lays out.
package container

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/DeciSym/rdf2hdt/internal/bitmap"
	"github.com/DeciSym/rdf2hdt/internal/dictionary"
	"github.com/DeciSym/rdf2hdt/internal/framing"
)

// Params carries everything Write needs beyond the dictionary and
// triples themselves: the provenance/statistics fields that end up in
// the header graph.
type Params struct {
	BaseIRI      string
	OriginalSize int64
	IssuedAt     time.Time
}

// Write serializes dict and bt into w as a complete HDT container:
// global block, header block + graph, dictionary block + sections
// (shared, subjects, predicates, objects), triples block + sections
// (By, Bz, Y, Z).
func Write(w io.Writer, dict *dictionary.Dictionary, bt *bitmap.Triples, numTriples int, p Params) error {
	dictBlob, err := serializeDictionary(dict)
	if err != nil {
		return err
	}
	triplesBlob, err := serializeTriples(bt)
	if err != nil {
		return err
	}

	sizeStrings := sizeOfStrings(dict)
	hdtSizeEstimate := int64(len(dictBlob) + len(triplesBlob))

	header := BuildHeaderGraph(HeaderStats{
		BaseIRI:           p.BaseIRI,
		NumTriples:        numTriples,
		NumPredicates:     len(dict.Predicates.Terms),
		NumShared:         len(dict.Shared.Terms),
		NumSubjectsOnly:   len(dict.Subjects.Terms),
		NumObjectsOnly:    len(dict.Objects.Terms),
		DictionaryMapping: "1",
		SizeStrings:       sizeStrings,
		OriginalSize:      p.OriginalSize,
		HDTSizeEstimate:   hdtSizeEstimate,
		IssuedAt:          p.IssuedAt,
	})

	if err := WriteControlBlock(w, ControlBlock{
		Type:   BlockGlobal,
		Format: "<http://purl.org/HDT/hdt#HDTv1>",
	}); err != nil {
		return err
	}

	if err := WriteControlBlock(w, ControlBlock{
		Type:   BlockHeader,
		Format: "ntriples",
		Properties: []Property{
			{Key: "length", Value: strconv.Itoa(len(header))},
		},
	}); err != nil {
		return err
	}
	if _, err := w.Write(header); err != nil {
		return err
	}

	if err := WriteControlBlock(w, ControlBlock{
		Type:   BlockDictionary,
		Format: "<http://purl.org/HDT/hdt#dictionaryFour>",
		Properties: []Property{
			{Key: "mappings", Value: "1"},
			{Key: "sizeStrings", Value: strconv.Itoa(sizeStrings)},
		},
	}); err != nil {
		return err
	}
	if _, err := w.Write(dictBlob); err != nil {
		return err
	}

	if err := WriteControlBlock(w, ControlBlock{
		Type:   BlockTriples,
		Format: "<http://purl.org/HDT/hdt#triplesBitmap>",
		Properties: []Property{
			{Key: "order", Value: "1"},
		},
	}); err != nil {
		return err
	}
	_, err = w.Write(triplesBlob)
	return err
}

// serializeDictionary writes the four PFC sections in the order
// spec.md §4.9 requires: shared, subjects, predicates, objects.
func serializeDictionary(dict *dictionary.Dictionary) ([]byte, error) {
	var buf bytes.Buffer
	for _, s := range []dictionary.Section{dict.Shared, dict.Subjects, dict.Predicates, dict.Objects} {
		if err := framing.WritePFCSection(&buf, len(s.Terms), s.Compressed, s.Offsets); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// serializeTriples writes the BitmapTriples sections in the order
// spec.md §4.9 requires: By, Bz, Y, Z.
func serializeTriples(bt *bitmap.Triples) ([]byte, error) {
	var buf bytes.Buffer
	if err := framing.WriteBitmapSection(&buf, bt.By); err != nil {
		return nil, err
	}
	if err := framing.WriteBitmapSection(&buf, bt.Bz); err != nil {
		return nil, err
	}
	if err := framing.WriteU32Array(&buf, bt.Y); err != nil {
		return nil, err
	}
	if err := framing.WriteU32Array(&buf, bt.Z); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sizeOfStrings(dict *dictionary.Dictionary) int {
	n := 0
	for _, s := range []dictionary.Section{dict.Shared, dict.Subjects, dict.Predicates, dict.Objects} {
		for _, term := range s.Terms {
			n += len(term)
		}
	}
	return n
}
