// Package reasoner defines the reasoner contract used by inference
// consolidation and provides two implementations:
//
//   - Datalog: a rule-based reasoner evaluated with Google Mangle. It
//     materializes the class and property hierarchies, disjointness, instance
//     types and property values, and detects clashes.
//   - Hierarchy: a told-hierarchy reasoner that only answers class and property
//     hierarchy queries and reports every other query as unsupported.
//
// Reasoners are obtained through a Manager, which keeps one instance per name
// for an ontology and keeps them synchronized with the ontology's axioms.
//
// Capability probing is explicit: Probe returns Supported or Unsupported rather
// than failing, so callers can degrade gracefully:
//
//	support, err := reasoner.Probe(r, reasoner.ClassAssertions)
//	if err != nil {
//		return err
//	}
//	if support == reasoner.Unsupported {
//		log.Warn("reasoner cannot infer types", zap.String("reasoner", r.Name()))
//	}
package reasoner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/orneryd/ontomod/pkg/owl"
)

var (
	// ErrUnsupported is wrapped by queries a reasoner cannot answer.
	ErrUnsupported = errors.New("unsupported reasoner operation")

	// ErrInconsistentOntology is returned by entailment queries on an
	// ontology that has no models.
	ErrInconsistentOntology = errors.New("ontology is inconsistent")

	// ErrUnknownReasoner is returned for unrecognized reasoner names.
	ErrUnknownReasoner = errors.New("unknown reasoner")

	// ErrDisposed is returned by queries on a disposed reasoner.
	ErrDisposed = errors.New("reasoner disposed")
)

// Reasoner answers entailment queries over an ontology's imports closure.
//
// Class results always use named classes. Queries on entities that are not in
// the ontology return empty results, not errors.
type Reasoner interface {
	// Name identifies the reasoner, e.g. "datalog".
	Name() string

	IsConsistent() (bool, error)

	// SuperClasses returns the (direct) superclasses of c, excluding classes
	// equivalent to c.
	SuperClasses(c owl.Entity, direct bool) (owl.EntitySet, error)
	SubClasses(c owl.Entity, direct bool) (owl.EntitySet, error)

	// EquivalentClasses returns c and every class equivalent to it.
	EquivalentClasses(c owl.Entity) (owl.EntitySet, error)
	DisjointClasses(c owl.Entity) (owl.EntitySet, error)

	SuperObjectProperties(p owl.Entity, direct bool) (owl.EntitySet, error)
	SuperDataProperties(p owl.Entity, direct bool) (owl.EntitySet, error)
	InverseObjectProperties(p owl.Entity) (owl.EntitySet, error)

	Types(i owl.Entity, direct bool) (owl.EntitySet, error)
	ObjectPropertyValues(i, p owl.Entity) (owl.EntitySet, error)
	DataPropertyValues(i, p owl.Entity) ([]owl.Term, error)

	// UnsatisfiableClasses returns the named classes equivalent to
	// owl:Nothing, including owl:Nothing itself.
	UnsatisfiableClasses() (owl.EntitySet, error)

	// Refresh drops any state derived from the ontology.
	Refresh() error

	// Dispose releases the reasoner. Later queries fail with ErrDisposed.
	Dispose()
}

// Capability is a family of inferences a reasoner may support.
type Capability int

const (
	ClassHierarchy Capability = iota
	DataPropertyHierarchy
	ObjectPropertyHierarchy
	ClassAssertions
	ClassEquivalence
	ClassDisjointness
	InverseProperties
	PropertyValues

	numCapabilities
)

var capabilityNames = [numCapabilities]string{
	"class hierarchy",
	"data property hierarchy",
	"object property hierarchy",
	"class assertions",
	"class equivalence",
	"class disjointness",
	"inverse properties",
	"property values",
}

// AllCapabilities lists every capability.
func AllCapabilities() []Capability {
	out := make([]Capability, numCapabilities)
	for i := range out {
		out[i] = Capability(i)
	}
	return out
}

func (c Capability) String() string {
	if c < 0 || c >= numCapabilities {
		return fmt.Sprintf("Capability(%d)", int(c))
	}
	return capabilityNames[c]
}

// CapabilitySet is a bitset of capabilities.
type CapabilitySet uint16

// Capabilities builds a set.
func Capabilities(cs ...Capability) CapabilitySet {
	var s CapabilitySet
	for _, c := range cs {
		s |= 1 << uint(c)
	}
	return s
}

// Has reports whether c is in the set.
func (s CapabilitySet) Has(c Capability) bool { return s&(1<<uint(c)) != 0 }

func (s CapabilitySet) String() string {
	var names []string
	for _, c := range AllCapabilities() {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return strings.Join(names, ", ")
}

// CapabilityReporter is implemented by reasoners that know their capabilities
// up front.
type CapabilityReporter interface {
	Capabilities() CapabilitySet
}

// Wrapper is implemented by reasoners that decorate another reasoner.
type Wrapper interface {
	Unwrap() Reasoner
}

// Support is the outcome of a capability probe.
type Support int

const (
	Unsupported Support = iota
	Supported
)

func (s Support) String() string {
	if s == Supported {
		return "supported"
	}
	return "unsupported"
}

// probeIRI names the throwaway entities used by trial queries.
const probeIRI owl.IRI = "urn:ontomod:probe"

// Probe reports whether r supports c. Reasoners implementing
// CapabilityReporter (directly or beneath wrappers) answer from their table;
// others get a trial query on throwaway entities, and an ErrUnsupported
// result becomes Unsupported. Any other query failure is returned.
func Probe(r Reasoner, c Capability) (Support, error) {
	for cur := r; cur != nil; {
		if rep, ok := cur.(CapabilityReporter); ok {
			if rep.Capabilities().Has(c) {
				return Supported, nil
			}
			return Unsupported, nil
		}
		w, ok := cur.(Wrapper)
		if !ok {
			break
		}
		cur = w.Unwrap()
	}

	err := trial(r, c)
	switch {
	case err == nil:
		return Supported, nil
	case errors.Is(err, ErrUnsupported):
		return Unsupported, nil
	}
	return Unsupported, fmt.Errorf("probe %s: %w", c, err)
}

func trial(r Reasoner, c Capability) error {
	class := owl.NewClass(probeIRI)
	ind := owl.NewIndividual(probeIRI)
	var err error
	switch c {
	case ClassHierarchy:
		_, err = r.SuperClasses(class, true)
	case DataPropertyHierarchy:
		_, err = r.SuperDataProperties(owl.NewDataProperty(probeIRI), true)
	case ObjectPropertyHierarchy:
		_, err = r.SuperObjectProperties(owl.NewObjectProperty(probeIRI), true)
	case ClassAssertions:
		_, err = r.Types(ind, true)
	case ClassEquivalence:
		_, err = r.EquivalentClasses(class)
	case ClassDisjointness:
		_, err = r.DisjointClasses(class)
	case InverseProperties:
		_, err = r.InverseObjectProperties(owl.NewObjectProperty(probeIRI))
	case PropertyValues:
		if _, err = r.DataPropertyValues(ind, owl.NewDataProperty(probeIRI+"#dprop")); err == nil {
			_, err = r.ObjectPropertyValues(ind, owl.NewObjectProperty(probeIRI+"#oprop"))
		}
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupported, c)
	}
	return err
}

func unsupported(reasoner, query string) error {
	return fmt.Errorf("%s: %s: %w", reasoner, query, ErrUnsupported)
}
