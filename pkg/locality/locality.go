// Package locality extracts syntactic locality-based modules.
//
// An axiom is ⊥-local for a signature Σ when it becomes a tautology after every
// class and property outside Σ is replaced by owl:Nothing or the bottom
// property, and ⊤-local when the same holds after replacing them by owl:Thing
// or the top property. A module is grown to a fixpoint by adding every
// non-local axiom and extending Σ with its signature. The ⊤⊥* (Star) module
// alternates ⊥ and ⊤ extraction on the previous result until neither removes
// an axiom; it is the smallest of the three and preserves every entailment
// over the seed signature.
//
// Class expressions are opaque to this package and are never taken to be ⊥-
// or ⊤-equivalent. Assertions about individuals outside Σ are local, so
// unrelated ABox data stays out of the module.
package locality

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/orneryd/ontomod/pkg/owl"
)

// ModuleType selects the locality notion used for extraction.
type ModuleType int

const (
	// Star alternates Bottom and Top extraction to a fixpoint.
	Star ModuleType = iota
	// Bottom extracts a ⊥-module, which keeps the superclasses of Σ.
	Bottom
	// Top extracts a ⊤-module, which keeps the subclasses of Σ.
	Top
)

var moduleTypeNames = map[ModuleType]string{
	Star:   "star",
	Bottom: "bottom",
	Top:    "top",
}

func (t ModuleType) String() string {
	if name, ok := moduleTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ModuleType(%d)", int(t))
}

// ParseModuleType parses "star", "bottom" or "top", ignoring case.
func ParseModuleType(s string) (ModuleType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range moduleTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown module type %q (want star, bottom or top)", s)
}

// Extractor computes locality modules over an ontology's imports closure.
type Extractor struct {
	typ ModuleType
	log *zap.Logger
}

// New returns an extractor of the given module type. log may be nil.
func New(typ ModuleType, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{typ: typ, log: log}
}

// Type returns the module type the extractor computes.
func (x *Extractor) Type() ModuleType { return x.typ }

// Extract returns the module of ont for signature, plus the declarations and
// annotation assertions of every entity in the module's signature.
func (x *Extractor) Extract(ont *owl.Ontology, signature owl.EntitySet) (owl.AxiomSet, error) {
	if ont == nil {
		return owl.AxiomSet{}, errors.New("locality: nil ontology")
	}
	start := time.Now()
	closure := ont.ImportsClosure()

	var logical []owl.Axiom
	for _, ax := range ont.ClosureAxioms().Slice() {
		if ax.Type.IsLogical() {
			logical = append(logical, ax)
		}
	}

	rounds := 0
	switch x.typ {
	case Bottom:
		logical = extract(logical, signature, BottomLocal)
	case Top:
		logical = extract(logical, signature, TopLocal)
	case Star:
		for n := -1; n != len(logical); rounds++ {
			n = len(logical)
			logical = extract(logical, signature, BottomLocal)
			logical = extract(logical, signature, TopLocal)
		}
	default:
		return owl.AxiomSet{}, fmt.Errorf("locality: unsupported module type %s", x.typ)
	}

	module := owl.NewAxiomSet(logical...)
	sigma := owl.NewEntitySet()
	for e := range signature {
		sigma.Add(e)
	}
	for _, ax := range logical {
		for e := range ax.Signature() {
			sigma.Add(e)
		}
	}

	for _, e := range sigma.Sorted() {
		for _, o := range closure {
			module.Union(owl.NewAxiomSet(o.DeclarationAxioms(e)...))
			for _, ax := range o.AnnotationAssertionAxioms(e.IRI) {
				module.Add(ax)
				prop := ax.Property()
				for _, p := range closure {
					module.Union(owl.NewAxiomSet(p.DeclarationAxioms(prop)...))
				}
			}
		}
	}

	x.log.Debug("locality module extracted",
		zap.Stringer("type", x.typ),
		zap.Int("seed", len(signature)),
		zap.Int("signature", len(sigma)),
		zap.Int("logical_axioms", len(logical)),
		zap.Int("axioms", module.Len()),
		zap.Int("rounds", rounds),
		zap.Duration("elapsed", time.Since(start)))
	return module, nil
}

// extract grows a module of axioms for seed under one locality notion. The
// result keeps the order of axioms.
func extract(axioms []owl.Axiom, seed owl.EntitySet, local func(owl.Axiom, owl.EntitySet) bool) []owl.Axiom {
	sigma := owl.NewEntitySet()
	for e := range seed {
		sigma.Add(e)
	}
	mentions := make(map[owl.Entity][]int)
	for i, ax := range axioms {
		for e := range ax.Signature() {
			mentions[e] = append(mentions[e], i)
		}
	}

	in := make([]bool, len(axioms))
	var queue []owl.Entity
	add := func(i int) {
		in[i] = true
		for _, e := range axioms[i].Signature().Sorted() {
			if sigma.Add(e) {
				queue = append(queue, e)
			}
		}
	}

	// Some axioms are non-local whatever Σ holds, so every axiom is checked
	// once. After that an axiom's locality only changes when one of its
	// entities enters Σ.
	for i, ax := range axioms {
		if !in[i] && !local(ax, sigma) {
			add(i)
		}
	}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		for _, i := range mentions[e] {
			if !in[i] && !local(axioms[i], sigma) {
				add(i)
			}
		}
	}

	out := make([]owl.Axiom, 0, len(axioms))
	for i, ax := range axioms {
		if in[i] {
			out = append(out, ax)
		}
	}
	return out
}

// BottomLocal reports whether ax is syntactically ⊥-local for sig.
// Non-logical axioms are always local.
func BottomLocal(ax owl.Axiom, sig owl.EntitySet) bool {
	return isLocal(ax, sig, Bottom)
}

// TopLocal reports whether ax is syntactically ⊤-local for sig.
// Non-logical axioms are always local.
func TopLocal(ax owl.Axiom, sig owl.EntitySet) bool {
	return isLocal(ax, sig, Top)
}

func isLocal(ax owl.Axiom, sig owl.EntitySet, typ ModuleType) bool {
	bot := func(i int) bool { return isBottom(ax.Arg(i), sig, typ) }
	top := func(i int) bool { return isTop(ax.Arg(i), sig, typ) }
	outside := func(i int) bool { return !sig.Contains(ax.Arg(i).Entity) }

	switch ax.Type {
	case owl.SubClassOf, owl.SubObjectPropertyOf, owl.SubDataPropertyOf,
		owl.ObjectPropertyDomain, owl.ObjectPropertyRange,
		owl.DataPropertyDomain, owl.DataPropertyRange:
		return bot(0) || top(1)

	case owl.EquivalentClasses, owl.EquivalentObjectProperties, owl.EquivalentDataProperties:
		allBot, allTop := true, true
		for i := range ax.Args {
			allBot = allBot && bot(i)
			allTop = allTop && top(i)
		}
		return allBot || allTop

	case owl.DisjointClasses, owl.DisjointObjectProperties, owl.DisjointDataProperties:
		nonBottom := 0
		for i := range ax.Args {
			if !bot(i) {
				nonBottom++
			}
		}
		return nonBottom <= 1

	case owl.InverseObjectProperties:
		return (bot(0) && bot(1)) || (top(0) && top(1))

	case owl.ReflexiveObjectProperty:
		return top(0)

	case owl.TransitiveObjectProperty, owl.SymmetricObjectProperty:
		return bot(0) || top(0)

	case owl.FunctionalObjectProperty, owl.InverseFunctionalObjectProperty,
		owl.AsymmetricObjectProperty, owl.IrreflexiveObjectProperty,
		owl.FunctionalDataProperty:
		return bot(0)

	case owl.ClassAssertion:
		return top(0) || outside(1)

	case owl.ObjectPropertyAssertion, owl.DataPropertyAssertion:
		return top(0) || outside(1)

	case owl.NegativeObjectPropertyAssertion, owl.NegativeDataPropertyAssertion:
		return bot(0) || outside(1)
	}
	return true
}

// isBottom reports whether t is ⊥-equivalent once the entities outside sig
// are replaced for typ.
func isBottom(t owl.Term, sig owl.EntitySet, typ ModuleType) bool {
	if t.Kind != owl.TermEntity {
		return false
	}
	switch t.Entity {
	case owl.Nothing, owl.BottomObjectProperty, owl.BottomDataProperty:
		return true
	case owl.Thing, owl.TopObjectProperty, owl.TopDataProperty:
		return false
	}
	return typ == Bottom && replaceable(t.Entity, sig)
}

// isTop reports whether t is ⊤-equivalent once the entities outside sig are
// replaced for typ.
func isTop(t owl.Term, sig owl.EntitySet, typ ModuleType) bool {
	if t.Kind != owl.TermEntity {
		return false
	}
	switch t.Entity {
	case owl.Thing, owl.TopObjectProperty, owl.TopDataProperty:
		return true
	case owl.Nothing, owl.BottomObjectProperty, owl.BottomDataProperty:
		return false
	}
	return typ == Top && replaceable(t.Entity, sig)
}

// replaceable reports whether e is a class or property outside sig.
// Individuals and datatypes keep their meaning.
func replaceable(e owl.Entity, sig owl.EntitySet) bool {
	switch e.Kind {
	case owl.Class, owl.ObjectProperty, owl.DataProperty:
		return !sig.Contains(e)
	}
	return false
}
