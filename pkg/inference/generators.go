package inference

import (
	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/reasoner"
)

// generator writes the candidate axioms of each kind into out. Entities are
// drawn from the signature of the whole imports closure; sentinels are skipped
// since anything mentioning them is discarded later anyway.
type generator struct {
	ont *owl.Ontology
	r   reasoner.Reasoner
	out *owl.Ontology

	sig   map[owl.EntityKind][]owl.Entity
	unsat owl.EntitySet
}

func (g *generator) run(k Kind) error {
	switch k {
	case Subclasses:
		return g.subclasses()
	case SubObjectProperties:
		return g.subProperties(owl.ObjectProperty, g.r.SuperObjectProperties)
	case SubDataProperties:
		return g.subProperties(owl.DataProperty, g.r.SuperDataProperties)
	case Types:
		return g.types()
	case EquivalentClasses:
		return g.equivalentClasses()
	case DisjointClasses:
		return g.disjointClasses()
	case InverseObjectProperties:
		return g.inverses()
	case PropertyValues:
		return g.propertyValues()
	}
	return nil
}

func (g *generator) signature(kind owl.EntityKind) []owl.Entity {
	if g.sig == nil {
		g.sig = make(map[owl.EntityKind][]owl.Entity)
		seen := owl.NewEntitySet()
		for _, ont := range g.ont.ImportsClosure() {
			for e := range ont.Signature() {
				if !owl.IsSentinel(e) && seen.Add(e) {
					g.sig[e.Kind] = append(g.sig[e.Kind], e)
				}
			}
		}
		for _, entities := range g.sig {
			owl.SortEntities(entities)
		}
	}
	return g.sig[kind]
}

// subclasses emits c ⊑ d for every direct superclass d, or c ⊑ owl:Nothing
// when c is unsatisfiable.
func (g *generator) subclasses() error {
	if g.unsat == nil {
		unsat, err := g.r.UnsatisfiableClasses()
		if err != nil {
			return err
		}
		g.unsat = unsat
	}
	for _, c := range g.signature(owl.Class) {
		if g.unsat.Contains(c) {
			g.out.AddAxiom(owl.NewSubClassOf(owl.Named(c), owl.Named(owl.Nothing)))
			continue
		}
		supers, err := g.r.SuperClasses(c, true)
		if err != nil {
			return err
		}
		for _, d := range supers.Sorted() {
			g.out.AddAxiom(owl.NewSubClassOf(owl.Named(c), owl.Named(d)))
		}
	}
	return nil
}

func (g *generator) subProperties(kind owl.EntityKind, supers func(owl.Entity, bool) (owl.EntitySet, error)) error {
	for _, p := range g.signature(kind) {
		set, err := supers(p, true)
		if err != nil {
			return err
		}
		for _, q := range set.Sorted() {
			g.out.AddAxiom(owl.NewSubPropertyOf(p, q))
		}
	}
	return nil
}

func (g *generator) equivalentClasses() error {
	for _, c := range g.signature(owl.Class) {
		eq, err := g.r.EquivalentClasses(c)
		if err != nil {
			return err
		}
		group := owl.NewEntitySet(c)
		group.Union(eq)
		if len(group) < 2 {
			continue
		}
		members := group.Sorted()
		terms := make([]owl.Term, len(members))
		for i, m := range members {
			terms[i] = owl.Named(m)
		}
		g.out.AddAxiom(owl.NewEquivalentClasses(terms...))
	}
	return nil
}

func (g *generator) disjointClasses() error {
	for _, c := range g.signature(owl.Class) {
		disjoint, err := g.r.DisjointClasses(c)
		if err != nil {
			return err
		}
		for _, d := range disjoint.Sorted() {
			if d != c {
				g.out.AddAxiom(owl.NewDisjointClasses(owl.Named(c), owl.Named(d)))
			}
		}
	}
	return nil
}

func (g *generator) inverses() error {
	for _, p := range g.signature(owl.ObjectProperty) {
		inv, err := g.r.InverseObjectProperties(p)
		if err != nil {
			return err
		}
		for _, q := range inv.Sorted() {
			if q != p {
				g.out.AddAxiom(owl.NewInverseObjectProperties(p, q))
			}
		}
	}
	return nil
}

// types emits every class an individual belongs to, not only the most
// specific ones.
func (g *generator) types() error {
	for _, i := range g.signature(owl.Individual) {
		types, err := g.r.Types(i, false)
		if err != nil {
			return err
		}
		for _, c := range types.Sorted() {
			g.out.AddAxiom(owl.NewClassAssertion(owl.Named(c), i))
		}
	}
	return nil
}

func (g *generator) propertyValues() error {
	for _, i := range g.signature(owl.Individual) {
		for _, p := range g.signature(owl.ObjectProperty) {
			values, err := g.r.ObjectPropertyValues(i, p)
			if err != nil {
				return err
			}
			for _, v := range values.Sorted() {
				g.out.AddAxiom(owl.NewObjectPropertyAssertion(p, i, v))
			}
		}
		for _, p := range g.signature(owl.DataProperty) {
			values, err := g.r.DataPropertyValues(i, p)
			if err != nil {
				return err
			}
			for _, v := range values {
				g.out.AddAxiom(owl.NewDataPropertyAssertion(p, i, v))
			}
		}
	}
	return nil
}
