package owl

import (
	"fmt"
	"sort"

	"github.com/orneryd/ontomod/pkg/pool"
)

// AxiomType enumerates the axiom shapes the store understands.
type AxiomType int

const (
	Declaration AxiomType = iota + 1
	SubClassOf
	EquivalentClasses
	DisjointClasses
	SubObjectPropertyOf
	EquivalentObjectProperties
	DisjointObjectProperties
	ObjectPropertyDomain
	ObjectPropertyRange
	InverseObjectProperties
	FunctionalObjectProperty
	InverseFunctionalObjectProperty
	TransitiveObjectProperty
	SymmetricObjectProperty
	AsymmetricObjectProperty
	ReflexiveObjectProperty
	IrreflexiveObjectProperty
	SubDataPropertyOf
	EquivalentDataProperties
	DisjointDataProperties
	DataPropertyDomain
	DataPropertyRange
	FunctionalDataProperty
	SubAnnotationPropertyOf
	ClassAssertion
	ObjectPropertyAssertion
	NegativeObjectPropertyAssertion
	DataPropertyAssertion
	NegativeDataPropertyAssertion
	AnnotationAssertion
)

type axiomTypeInfo struct {
	name  string
	arity int // -1 for n-ary set axioms
	set   bool
}

var axiomTypes = map[AxiomType]axiomTypeInfo{
	Declaration:                     {"Declaration", 1, false},
	SubClassOf:                      {"SubClassOf", 2, false},
	EquivalentClasses:               {"EquivalentClasses", -1, true},
	DisjointClasses:                 {"DisjointClasses", -1, true},
	SubObjectPropertyOf:             {"SubObjectPropertyOf", 2, false},
	EquivalentObjectProperties:      {"EquivalentObjectProperties", -1, true},
	DisjointObjectProperties:        {"DisjointObjectProperties", -1, true},
	ObjectPropertyDomain:            {"ObjectPropertyDomain", 2, false},
	ObjectPropertyRange:             {"ObjectPropertyRange", 2, false},
	InverseObjectProperties:         {"InverseObjectProperties", 2, true},
	FunctionalObjectProperty:        {"FunctionalObjectProperty", 1, false},
	InverseFunctionalObjectProperty: {"InverseFunctionalObjectProperty", 1, false},
	TransitiveObjectProperty:        {"TransitiveObjectProperty", 1, false},
	SymmetricObjectProperty:         {"SymmetricObjectProperty", 1, false},
	AsymmetricObjectProperty:        {"AsymmetricObjectProperty", 1, false},
	ReflexiveObjectProperty:         {"ReflexiveObjectProperty", 1, false},
	IrreflexiveObjectProperty:       {"IrreflexiveObjectProperty", 1, false},
	SubDataPropertyOf:               {"SubDataPropertyOf", 2, false},
	EquivalentDataProperties:        {"EquivalentDataProperties", -1, true},
	DisjointDataProperties:          {"DisjointDataProperties", -1, true},
	DataPropertyDomain:              {"DataPropertyDomain", 2, false},
	DataPropertyRange:               {"DataPropertyRange", 2, false},
	FunctionalDataProperty:          {"FunctionalDataProperty", 1, false},
	SubAnnotationPropertyOf:         {"SubAnnotationPropertyOf", 2, false},
	ClassAssertion:                  {"ClassAssertion", 2, false},
	ObjectPropertyAssertion:         {"ObjectPropertyAssertion", 3, false},
	NegativeObjectPropertyAssertion: {"NegativeObjectPropertyAssertion", 3, false},
	DataPropertyAssertion:           {"DataPropertyAssertion", 3, false},
	NegativeDataPropertyAssertion:   {"NegativeDataPropertyAssertion", 3, false},
	AnnotationAssertion:             {"AnnotationAssertion", 3, false},
}

func (t AxiomType) String() string {
	if info, ok := axiomTypes[t]; ok {
		return info.name
	}
	return fmt.Sprintf("AxiomType(%d)", int(t))
}

// ParseAxiomType maps a functional-syntax keyword back to its AxiomType.
func ParseAxiomType(s string) (AxiomType, error) {
	for t, info := range axiomTypes {
		if info.name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown axiom type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t AxiomType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *AxiomType) UnmarshalText(b []byte) error {
	parsed, err := ParseAxiomType(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// IsLogical reports whether axioms of this type carry logical content, i.e. are
// neither declarations nor annotation axioms.
func (t AxiomType) IsLogical() bool {
	switch t {
	case Declaration, AnnotationAssertion, SubAnnotationPropertyOf:
		return false
	}
	return true
}

// IsNary reports whether operand order is irrelevant for this type.
func (t AxiomType) IsNary() bool { return axiomTypes[t].set }

// PropertyCharacteristicTypes lists the characteristic axiom types for a
// property kind. Only object and data properties have characteristics.
func PropertyCharacteristicTypes(kind EntityKind) []AxiomType {
	switch kind {
	case ObjectProperty:
		return []AxiomType{
			SymmetricObjectProperty, AsymmetricObjectProperty, TransitiveObjectProperty,
			ReflexiveObjectProperty, IrreflexiveObjectProperty, FunctionalObjectProperty,
			InverseFunctionalObjectProperty,
		}
	case DataProperty:
		return []AxiomType{FunctionalDataProperty}
	}
	return nil
}

// Axiom is a single logical or non-logical statement. Axioms are values and are
// compared structurally through Key; set-like axioms keep their operands sorted
// so operand order never matters.
type Axiom struct {
	Type        AxiomType    `json:"type"`
	Args        []Term       `json:"args"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

func newAxiom(t AxiomType, args ...Term) Axiom {
	if t.IsNary() {
		args = sortTerms(args)
	}
	return Axiom{Type: t, Args: args}
}

// NewAxiom builds an axiom from raw operands and checks the operand count.
func NewAxiom(t AxiomType, args []Term, annotations []Annotation) (Axiom, error) {
	info, ok := axiomTypes[t]
	if !ok {
		return Axiom{}, fmt.Errorf("unknown axiom type %d", int(t))
	}
	ax := newAxiom(t, args...)
	if info.arity >= 0 && len(ax.Args) != info.arity {
		return Axiom{}, fmt.Errorf("%s takes %d operands, got %d", info.name, info.arity, len(ax.Args))
	}
	if info.arity < 0 && len(ax.Args) < 2 {
		return Axiom{}, fmt.Errorf("%s needs at least two distinct operands", info.name)
	}
	if len(annotations) > 0 {
		ax = ax.Annotated(annotations...)
	}
	return ax, nil
}

// NewDeclaration declares e.
func NewDeclaration(e Entity) Axiom { return newAxiom(Declaration, Named(e)) }

// NewSubClassOf states sub ⊑ sup.
func NewSubClassOf(sub, sup Term) Axiom { return newAxiom(SubClassOf, sub, sup) }

// NewEquivalentClasses states that all members are equivalent.
func NewEquivalentClasses(members ...Term) Axiom { return newAxiom(EquivalentClasses, members...) }

// NewDisjointClasses states that all members are pairwise disjoint.
func NewDisjointClasses(members ...Term) Axiom { return newAxiom(DisjointClasses, members...) }

// NewSubPropertyOf states sub ⊑ sup for object, data or annotation properties.
func NewSubPropertyOf(sub, sup Entity) Axiom {
	switch sub.Kind {
	case DataProperty:
		return newAxiom(SubDataPropertyOf, Named(sub), Named(sup))
	case AnnotationProperty:
		return newAxiom(SubAnnotationPropertyOf, Named(sub), Named(sup))
	}
	return newAxiom(SubObjectPropertyOf, Named(sub), Named(sup))
}

// NewEquivalentProperties states that all properties are equivalent.
func NewEquivalentProperties(props ...Entity) Axiom {
	t := EquivalentObjectProperties
	if len(props) > 0 && props[0].Kind == DataProperty {
		t = EquivalentDataProperties
	}
	return newAxiom(t, namedTerms(props)...)
}

// NewDisjointProperties states that all properties are pairwise disjoint.
func NewDisjointProperties(props ...Entity) Axiom {
	t := DisjointObjectProperties
	if len(props) > 0 && props[0].Kind == DataProperty {
		t = DisjointDataProperties
	}
	return newAxiom(t, namedTerms(props)...)
}

// NewDomain states the domain of an object or data property.
func NewDomain(p Entity, domain Term) Axiom {
	if p.Kind == DataProperty {
		return newAxiom(DataPropertyDomain, Named(p), domain)
	}
	return newAxiom(ObjectPropertyDomain, Named(p), domain)
}

// NewObjectPropertyRange states the class range of an object property.
func NewObjectPropertyRange(p Entity, rng Term) Axiom {
	return newAxiom(ObjectPropertyRange, Named(p), rng)
}

// NewDataPropertyRange states the data range of a data property.
func NewDataPropertyRange(p Entity, rng Term) Axiom {
	return newAxiom(DataPropertyRange, Named(p), rng)
}

// NewInverseObjectProperties states that p and q are inverses.
func NewInverseObjectProperties(p, q Entity) Axiom {
	return newAxiom(InverseObjectProperties, Named(p), Named(q))
}

// NewCharacteristic builds a single-property characteristic axiom such as
// TransitiveObjectProperty(p).
func NewCharacteristic(t AxiomType, p Entity) Axiom { return newAxiom(t, Named(p)) }

// NewClassAssertion states that ind is an instance of class.
func NewClassAssertion(class Term, ind Entity) Axiom {
	return newAxiom(ClassAssertion, class, Named(ind))
}

// NewObjectPropertyAssertion states p(subject, object).
func NewObjectPropertyAssertion(p, subject, object Entity) Axiom {
	return newAxiom(ObjectPropertyAssertion, Named(p), Named(subject), Named(object))
}

// NewNegativeObjectPropertyAssertion states ¬p(subject, object).
func NewNegativeObjectPropertyAssertion(p, subject, object Entity) Axiom {
	return newAxiom(NegativeObjectPropertyAssertion, Named(p), Named(subject), Named(object))
}

// NewDataPropertyAssertion states p(subject, value).
func NewDataPropertyAssertion(p, subject Entity, value Term) Axiom {
	return newAxiom(DataPropertyAssertion, Named(p), Named(subject), value)
}

// NewNegativeDataPropertyAssertion states ¬p(subject, value).
func NewNegativeDataPropertyAssertion(p, subject Entity, value Term) Axiom {
	return newAxiom(NegativeDataPropertyAssertion, Named(p), Named(subject), value)
}

// NewAnnotationAssertion annotates subject with prop = value.
func NewAnnotationAssertion(prop Entity, subject IRI, value Term) Axiom {
	return newAxiom(AnnotationAssertion, Named(prop), IRITerm(subject), value)
}

func namedTerms(entities []Entity) []Term {
	out := make([]Term, len(entities))
	for i, e := range entities {
		out[i] = Named(e)
	}
	return out
}

// Arg returns operand i, or the zero Term when out of range.
func (a Axiom) Arg(i int) Term {
	if i < 0 || i >= len(a.Args) {
		return Term{}
	}
	return a.Args[i]
}

// Property returns the property operand for property-centred axioms
// (characteristics, domains, ranges, assertions and annotation assertions).
func (a Axiom) Property() Entity { return a.Arg(0).Entity }

// Subject returns the subject of assertion axioms: the individual of a class
// assertion, the subject individual of a property assertion, or the subject IRI
// (as an Entity-less Term) of an annotation assertion.
func (a Axiom) Subject() Term {
	switch a.Type {
	case ClassAssertion:
		return a.Arg(1)
	case ObjectPropertyAssertion, NegativeObjectPropertyAssertion,
		DataPropertyAssertion, NegativeDataPropertyAssertion, AnnotationAssertion:
		return a.Arg(1)
	}
	return Term{}
}

// Object returns the object/value operand of property and annotation assertions.
func (a Axiom) Object() Term { return a.Arg(2) }

// Signature returns every named entity the axiom mentions, including the
// properties of its annotations.
func (a Axiom) Signature() EntitySet {
	sig := make(EntitySet)
	for _, t := range a.Args {
		for _, e := range t.Entities() {
			sig.Add(e)
		}
	}
	for _, ann := range a.Annotations {
		sig.Add(ann.Property)
		for _, e := range ann.Value.Entities() {
			sig.Add(e)
		}
	}
	return sig
}

// ContainsEntity reports whether e is in the axiom's signature.
func (a Axiom) ContainsEntity(e Entity) bool {
	for _, t := range a.Args {
		for _, x := range t.Entities() {
			if x == e {
				return true
			}
		}
	}
	for _, ann := range a.Annotations {
		if ann.Property == e {
			return true
		}
	}
	return false
}

// Pairwise splits an n-ary set axiom into one axiom per operand pair. Other
// axioms, and set axioms with two operands, are returned unchanged.
func (a Axiom) Pairwise() []Axiom {
	if !a.Type.IsNary() || len(a.Args) <= 2 {
		return []Axiom{a}
	}
	out := make([]Axiom, 0, len(a.Args)*(len(a.Args)-1)/2)
	for i := 0; i < len(a.Args); i++ {
		for j := i + 1; j < len(a.Args); j++ {
			pair := newAxiom(a.Type, a.Args[i], a.Args[j])
			pair.Annotations = a.Annotations
			out = append(out, pair)
		}
	}
	return out
}

// Annotated returns a copy of the axiom carrying anns in addition to its own
// annotations.
func (a Axiom) Annotated(anns ...Annotation) Axiom {
	merged := make(map[string]Annotation, len(a.Annotations)+len(anns))
	for _, ann := range a.Annotations {
		merged[ann.Key()] = ann
	}
	for _, ann := range anns {
		merged[ann.Key()] = ann
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := Axiom{Type: a.Type, Args: a.Args, Annotations: make([]Annotation, len(keys))}
	for i, k := range keys {
		out.Annotations[i] = merged[k]
	}
	return out
}

// WithoutAnnotations returns the axiom stripped of its annotations.
func (a Axiom) WithoutAnnotations() Axiom {
	return Axiom{Type: a.Type, Args: a.Args}
}

// HasAnnotation reports whether the axiom carries an annotation on prop.
func (a Axiom) HasAnnotation(prop Entity) bool {
	for _, ann := range a.Annotations {
		if ann.Property == prop {
			return true
		}
	}
	return false
}

func (a Axiom) writeLogical(b *pool.KeyBuilder) {
	b.WriteString(a.Type.String())
	b.WriteByte('(')
	for i, t := range a.Args {
		if i > 0 {
			b.WriteByte(' ')
		}
		t.writeKey(b)
	}
	b.WriteByte(')')
}

// Key is the canonical text of the axiom, annotations included. Two axioms are
// equal exactly when their keys are equal.
func (a Axiom) Key() string {
	b := pool.GetKeyBuilder()
	defer pool.PutKeyBuilder(b)
	a.writeLogical(b)
	if len(a.Annotations) > 0 {
		b.WriteString(" [")
		for i, ann := range a.Annotations {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(ann.Key())
		}
		b.WriteByte(']')
	}
	return b.String()
}

// LogicalKey is Key without the annotations.
func (a Axiom) LogicalKey() string {
	b := pool.GetKeyBuilder()
	defer pool.PutKeyBuilder(b)
	a.writeLogical(b)
	return b.String()
}

// Equal reports structural equality.
func (a Axiom) Equal(other Axiom) bool { return a.Key() == other.Key() }

func (a Axiom) String() string { return a.Key() }
