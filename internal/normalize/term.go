package normalize

import (
	"fmt"
	"time"

	"github.com/DeciSym/rdf2hdt/internal/term"
	rdf "github.com/knakk/rdf"
)

// toTerm converts a parsed rdf.Term into this module's dictionary term
// model. Blank nodes and IRIs carry over directly; a literal's typed
// Go value is rendered back to its lexical form (the decoder already
// discarded the original source text for typed literals).
func toTerm(t rdf.Term) (term.Term, error) {
	switch v := t.(type) {
	case *rdf.Blank:
		return term.NewBlankNode(v.ID), nil
	case *rdf.URI:
		return term.NewIRI(v.URI), nil
	case *rdf.Literal:
		lex := literalLexical(v)
		switch {
		case v.Lang != "":
			return term.NewLangLiteral(lex, v.Lang), nil
		case v.DataType != nil && v.DataType.URI != term.XSDString:
			return term.NewTypedLiteral(lex, v.DataType.URI), nil
		default:
			return term.NewSimpleLiteral(lex), nil
		}
	default:
		return nil, fmt.Errorf("unsupported RDF term type %T", t)
	}
}

func literalLexical(l *rdf.Literal) string {
	switch v := l.Value.(type) {
	case string:
		return v
	case time.Time:
		return v.Format(rdf.DateFormat)
	default:
		return fmt.Sprintf("%v", v)
	}
}
