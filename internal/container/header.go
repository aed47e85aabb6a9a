package container

import (
	"bytes"
	"strconv"
	"time"

	"github.com/DeciSym/rdf2hdt/internal/term"
)

// RDF, VoID, HDT and Dublin Core vocabulary terms used in the header
// graph (spec.md §4.10).
const (
	rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	hdtNS                                = "http://purl.org/HDT/hdt#"
	hdtHDTv1                             = hdtNS + "HDTv1"
	hdtStatisticalInformation            = hdtNS + "statisticalInformation"
	hdtPublicationInformation            = hdtNS + "publicationInformation"
	hdtFormatInformation                 = hdtNS + "formatInformation"
	hdtDictionary                        = hdtNS + "dictionary"
	hdtTriples                           = hdtNS + "triples"
	hdtDictionaryNumSharedSubjectObject  = hdtNS + "dictionarynumSharedSubjectObject"
	hdtDictionaryMapping                 = hdtNS + "dictionarymapping"
	hdtDictionarySizeStrings             = hdtNS + "dictionarysizeStrings"
	hdtDictionaryBlockSize               = hdtNS + "dictionaryblockSize"
	hdtTriplesBitmap                     = hdtNS + "triplesBitmap"
	hdtTriplesNumTriples                 = hdtNS + "triplesnumTriples"
	hdtTriplesOrder                      = hdtNS + "triplesOrder"
	hdtOriginalSize                      = hdtNS + "originalSize"
	hdtHDTSize                           = hdtNS + "hdtSize"

	voidNS               = "http://rdfs.org/ns/void#"
	voidDataset          = voidNS + "Dataset"
	voidTriples          = voidNS + "triples"
	voidProperties       = voidNS + "properties"
	voidDistinctSubjects = voidNS + "distinctSubjects"
	voidDistinctObjects  = voidNS + "distinctObjects"

	dcNS     = "http://purl.org/dc/terms/"
	dcFormat = dcNS + "format"
	dcIssued = dcNS + "issued"
)

// HeaderStats carries the counts and sizes the header graph reports,
// all of which the dictionary/bitmap stages have already computed by
// the time the container is written.
type HeaderStats struct {
	BaseIRI           string
	NumTriples        int
	NumPredicates     int
	NumShared         int
	NumSubjectsOnly   int
	NumObjectsOnly    int
	DictionaryMapping string
	SizeStrings       int
	OriginalSize      int64
	HDTSizeEstimate   int64
	IssuedAt          time.Time
}

// BuildHeaderGraph renders the HDT/VoID metadata graph described in
// spec.md §4.10 as N-Triples.
func BuildHeaderGraph(s HeaderStats) []byte {
	base := term.NewIRI(s.BaseIRI)
	statistics := term.NewBlankNode("statistics")
	publicationInformation := term.NewBlankNode("publicationInformation")
	format := term.NewBlankNode("format")
	dictionary := term.NewBlankNode("dictionary")
	triples := term.NewBlankNode("triples")

	lit := func(s string) term.Term { return term.NewSimpleLiteral(s) }
	itoa := func(n int) term.Term { return lit(strconv.Itoa(n)) }
	i64toa := func(n int64) term.Term { return lit(strconv.FormatInt(n, 10)) }

	lines := []term.Triple{
		{Subj: base, Pred: term.NewIRI(rdfType), Obj: term.NewIRI(hdtHDTv1)},
		{Subj: base, Pred: term.NewIRI(rdfType), Obj: term.NewIRI(voidDataset)},
		{Subj: base, Pred: term.NewIRI(voidTriples), Obj: itoa(s.NumTriples)},
		{Subj: base, Pred: term.NewIRI(voidProperties), Obj: itoa(s.NumPredicates)},
		{Subj: base, Pred: term.NewIRI(voidDistinctSubjects), Obj: itoa(s.NumShared + s.NumSubjectsOnly)},
		{Subj: base, Pred: term.NewIRI(voidDistinctObjects), Obj: itoa(s.NumShared + s.NumObjectsOnly)},
		{Subj: base, Pred: term.NewIRI(hdtStatisticalInformation), Obj: statistics},
		{Subj: base, Pred: term.NewIRI(hdtPublicationInformation), Obj: publicationInformation},
		{Subj: base, Pred: term.NewIRI(hdtFormatInformation), Obj: format},

		{Subj: format, Pred: term.NewIRI(hdtDictionary), Obj: dictionary},
		{Subj: format, Pred: term.NewIRI(hdtTriples), Obj: triples},

		{Subj: dictionary, Pred: term.NewIRI(hdtDictionaryNumSharedSubjectObject), Obj: itoa(s.NumShared)},
		{Subj: dictionary, Pred: term.NewIRI(hdtDictionaryMapping), Obj: lit(s.DictionaryMapping)},
		{Subj: dictionary, Pred: term.NewIRI(hdtDictionarySizeStrings), Obj: itoa(s.SizeStrings)},
		{Subj: dictionary, Pred: term.NewIRI(hdtDictionaryBlockSize), Obj: itoa(16)},

		{Subj: triples, Pred: term.NewIRI(dcFormat), Obj: term.NewIRI(hdtTriplesBitmap)},
		{Subj: triples, Pred: term.NewIRI(hdtTriplesNumTriples), Obj: itoa(s.NumTriples)},
		{Subj: triples, Pred: term.NewIRI(hdtTriplesOrder), Obj: lit("SPO")},

		{Subj: statistics, Pred: term.NewIRI(hdtOriginalSize), Obj: i64toa(s.OriginalSize)},
		{Subj: statistics, Pred: term.NewIRI(hdtHDTSize), Obj: i64toa(s.HDTSizeEstimate)},

		{Subj: publicationInformation, Pred: term.NewIRI(dcIssued), Obj: lit(s.IssuedAt.UTC().Format(time.RFC3339))},
	}

	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(term.NTriplesLine(l))
	}
	return buf.Bytes()
}
