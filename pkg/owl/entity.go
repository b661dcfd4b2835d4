package owl

import (
	"fmt"
	"sort"
	"strings"
)

// EntityKind identifies what sort of named element an Entity is.
type EntityKind int

const (
	Class EntityKind = iota + 1
	ObjectProperty
	DataProperty
	AnnotationProperty
	Individual
)

var entityKindNames = map[EntityKind]string{
	Class:              "Class",
	ObjectProperty:     "ObjectProperty",
	DataProperty:       "DataProperty",
	AnnotationProperty: "AnnotationProperty",
	Individual:         "NamedIndividual",
}

// String returns the OWL keyword for the kind.
func (k EntityKind) String() string {
	if name, ok := entityKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EntityKind(%d)", int(k))
}

// ParseEntityKind is the inverse of EntityKind.String (case-insensitive).
func ParseEntityKind(s string) (EntityKind, error) {
	for k, name := range entityKindNames {
		if strings.EqualFold(name, s) {
			return k, nil
		}
	}
	if strings.EqualFold(s, "Individual") {
		return Individual, nil
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k EntityKind) MarshalText() ([]byte, error) {
	if k == 0 {
		return []byte{}, nil
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EntityKind) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*k = 0
		return nil
	}
	kind, err := ParseEntityKind(string(b))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// IsProperty reports whether the kind is an object, data or annotation property.
func (k EntityKind) IsProperty() bool {
	return k == ObjectProperty || k == DataProperty || k == AnnotationProperty
}

// Entity is a named ontology element. Two Entity values with the same kind and
// IRI are the same entity; Entity is comparable and is used directly as a map key.
type Entity struct {
	Kind EntityKind `json:"kind"`
	IRI  IRI        `json:"iri"`
}

// NewClass returns the class named iri.
func NewClass(iri IRI) Entity { return Entity{Kind: Class, IRI: iri} }

// NewObjectProperty returns the object property named iri.
func NewObjectProperty(iri IRI) Entity { return Entity{Kind: ObjectProperty, IRI: iri} }

// NewDataProperty returns the data property named iri.
func NewDataProperty(iri IRI) Entity { return Entity{Kind: DataProperty, IRI: iri} }

// NewAnnotationProperty returns the annotation property named iri.
func NewAnnotationProperty(iri IRI) Entity { return Entity{Kind: AnnotationProperty, IRI: iri} }

// NewIndividual returns the named individual iri.
func NewIndividual(iri IRI) Entity { return Entity{Kind: Individual, IRI: iri} }

func (e Entity) String() string {
	return e.Kind.String() + "(<" + string(e.IRI) + ">)"
}

// IsZero reports whether e is the zero Entity.
func (e Entity) IsZero() bool { return e.Kind == 0 && e.IRI == "" }

// Built-in entities that never carry domain information.
var (
	Thing                = NewClass(IRIThing)
	Nothing              = NewClass(IRINothing)
	TopObjectProperty    = NewObjectProperty(IRITopObjectProperty)
	BottomObjectProperty = NewObjectProperty(IRIBottomObjectProperty)
	TopDataProperty      = NewDataProperty(IRITopDataProperty)
	BottomDataProperty   = NewDataProperty(IRIBottomDataProperty)
	Label                = NewAnnotationProperty(IRILabel)
	Source               = NewAnnotationProperty(IRISource)
	IsInferred           = NewAnnotationProperty(IRIIsInferred)
)

// Sentinels returns the top and bottom entities. Axioms mentioning any of them
// are trivial as far as inferred-axiom consolidation is concerned.
func Sentinels() []Entity {
	return []Entity{
		Thing, Nothing,
		TopObjectProperty, BottomObjectProperty,
		TopDataProperty, BottomDataProperty,
	}
}

// IsSentinel reports whether e is one of Sentinels().
func IsSentinel(e Entity) bool {
	switch e {
	case Thing, Nothing, TopObjectProperty, BottomObjectProperty, TopDataProperty, BottomDataProperty:
		return true
	}
	return false
}

// EntitySet is an unordered set of entities.
type EntitySet map[Entity]struct{}

// NewEntitySet returns a set holding entities.
func NewEntitySet(entities ...Entity) EntitySet {
	s := make(EntitySet, len(entities))
	for _, e := range entities {
		s[e] = struct{}{}
	}
	return s
}

// Add inserts e and reports whether it was absent.
func (s EntitySet) Add(e Entity) bool {
	if _, ok := s[e]; ok {
		return false
	}
	s[e] = struct{}{}
	return true
}

// Contains reports membership.
func (s EntitySet) Contains(e Entity) bool {
	_, ok := s[e]
	return ok
}

// Remove deletes e.
func (s EntitySet) Remove(e Entity) { delete(s, e) }

// Union adds every member of other.
func (s EntitySet) Union(other EntitySet) {
	for e := range other {
		s[e] = struct{}{}
	}
}

// Sorted returns the members ordered by IRI, then kind.
func (s EntitySet) Sorted() []Entity {
	out := make([]Entity, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	SortEntities(out)
	return out
}

// SortEntities orders entities by IRI, then kind.
func SortEntities(entities []Entity) {
	sort.Slice(entities, func(i, j int) bool {
		if entities[i].IRI != entities[j].IRI {
			return entities[i].IRI < entities[j].IRI
		}
		return entities[i].Kind < entities[j].Kind
	})
}
