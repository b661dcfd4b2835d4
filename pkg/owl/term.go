package owl

import (
	"fmt"
	"sort"

	"github.com/orneryd/ontomod/pkg/pool"
)

// TermKind says what an axiom operand holds.
type TermKind int

const (
	// TermEntity is a named entity.
	TermEntity TermKind = iota + 1
	// TermExpression is an anonymous class expression. Its text is opaque to
	// this package; Refs lists the named entities it mentions.
	TermExpression
	// TermLiteral is a data value.
	TermLiteral
	// TermDataRange is a datatype or data range. Data ranges are not entities.
	TermDataRange
	// TermIRI is a bare IRI, used for annotation subjects and IRI-valued annotations.
	TermIRI
)

var termKindNames = map[TermKind]string{
	TermEntity:     "entity",
	TermExpression: "expression",
	TermLiteral:    "literal",
	TermDataRange:  "datarange",
	TermIRI:        "iri",
}

func (k TermKind) String() string { return termKindNames[k] }

// MarshalText implements encoding.TextMarshaler.
func (k TermKind) MarshalText() ([]byte, error) { return []byte(termKindNames[k]), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *TermKind) UnmarshalText(b []byte) error {
	for kind, name := range termKindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown term kind %q", b)
}

// Term is one operand of an axiom.
type Term struct {
	Kind     TermKind `json:"kind"`
	Entity   Entity   `json:"entity,omitzero"`
	Value    string   `json:"value,omitempty"`
	Datatype IRI      `json:"datatype,omitempty"`
	Refs     []Entity `json:"refs,omitempty"`
}

// Named wraps an entity as a term.
func Named(e Entity) Term { return Term{Kind: TermEntity, Entity: e} }

// Expression builds an anonymous class expression term.
func Expression(text string, refs ...Entity) Term {
	r := append([]Entity(nil), refs...)
	SortEntities(r)
	return Term{Kind: TermExpression, Value: text, Refs: dedupeSorted(r)}
}

// Literal builds a typed literal. An empty datatype means xsd:string.
func Literal(value string, datatype IRI) Term {
	if datatype == "" {
		datatype = NamespaceXSD + "string"
	}
	return Term{Kind: TermLiteral, Value: value, Datatype: datatype}
}

// DataRange builds a datatype term.
func DataRange(datatype IRI) Term { return Term{Kind: TermDataRange, Value: string(datatype)} }

// IRITerm wraps a bare IRI.
func IRITerm(iri IRI) Term { return Term{Kind: TermIRI, Value: string(iri)} }

// IsNamed reports whether the term is a named entity.
func (t Term) IsNamed() bool { return t.Kind == TermEntity }

// IsAnonymous reports whether the term is an anonymous class expression.
func (t Term) IsAnonymous() bool { return t.Kind == TermExpression }

// IRI returns the IRI for entity and IRI terms, and "" otherwise.
func (t Term) IRI() IRI {
	switch t.Kind {
	case TermEntity:
		return t.Entity.IRI
	case TermIRI:
		return IRI(t.Value)
	}
	return ""
}

// Entities returns the named entities mentioned by the term.
func (t Term) Entities() []Entity {
	switch t.Kind {
	case TermEntity:
		return []Entity{t.Entity}
	case TermExpression:
		return t.Refs
	}
	return nil
}

func (t Term) writeKey(b *pool.KeyBuilder) {
	switch t.Kind {
	case TermEntity:
		b.WriteString(t.Entity.Kind.String())
		b.WriteByte('(')
		b.WriteIRI(string(t.Entity.IRI))
		b.WriteByte(')')
	case TermExpression:
		b.WriteString(t.Value)
	case TermLiteral:
		b.WriteQuoted(t.Value)
		b.WriteString("^^")
		b.WriteIRI(string(t.Datatype))
	case TermDataRange:
		b.WriteString("Datatype(")
		b.WriteIRI(t.Value)
		b.WriteByte(')')
	case TermIRI:
		b.WriteIRI(t.Value)
	}
}

// Key is the canonical text of the term.
func (t Term) Key() string {
	b := pool.GetKeyBuilder()
	defer pool.PutKeyBuilder(b)
	t.writeKey(b)
	return b.String()
}

func sortTerms(terms []Term) []Term {
	keyed := make(map[string]Term, len(terms))
	keys := make([]string, 0, len(terms))
	for _, t := range terms {
		k := t.Key()
		if _, dup := keyed[k]; dup {
			continue
		}
		keyed[k] = t
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Term, len(keys))
	for i, k := range keys {
		out[i] = keyed[k]
	}
	return out
}

func dedupeSorted(entities []Entity) []Entity {
	if len(entities) < 2 {
		return entities
	}
	out := entities[:1]
	for _, e := range entities[1:] {
		if e != out[len(out)-1] {
			out = append(out, e)
		}
	}
	return out
}

// Annotation is a property/value pair attached to an axiom or an ontology.
type Annotation struct {
	Property Entity `json:"property"`
	Value    Term   `json:"value"`
}

// Key is the canonical text of the annotation.
func (a Annotation) Key() string {
	return "Annotation(<" + string(a.Property.IRI) + "> " + a.Value.Key() + ")"
}
