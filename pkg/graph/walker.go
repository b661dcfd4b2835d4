package graph

import (
	"github.com/orneryd/ontomod/pkg/owl"
)

// Walker computes related entities and the axioms relating them. All lookups
// search the imports closure of the ontology.
type Walker struct {
	ont *owl.Ontology
}

// NewWalker returns a walker over ont.
func NewWalker(ont *owl.Ontology) *Walker {
	return &Walker{ont: ont}
}

// Related returns e plus every entity reachable from it through kinds, and the
// axioms along the way. Each entity is expanded once, so cycles and
// polyhierarchies terminate.
func (w *Walker) Related(e owl.Entity, kinds RelationSet) (owl.EntitySet, owl.AxiomSet) {
	entities := owl.NewEntitySet()
	axioms := owl.NewAxiomSet()

	seen := owl.NewEntitySet(e)
	stack := []owl.Entity{e}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		entities.Add(cur)

		related, relAxioms := w.DirectlyRelated(cur, kinds)
		axioms.Union(relAxioms)
		for _, next := range related.Sorted() {
			if seen.Add(next) {
				stack = append(stack, next)
			}
		}
	}
	return entities, axioms
}

// DirectlyRelated returns the entities one edge away from e and the axioms
// that are those edges.
func (w *Walker) DirectlyRelated(e owl.Entity, kinds RelationSet) (owl.EntitySet, owl.AxiomSet) {
	r := &result{entities: owl.NewEntitySet(), axioms: owl.NewAxiomSet()}
	switch e.Kind {
	case owl.Class:
		w.hierarchy(r, e, owl.SubClassOf, kinds)
		w.pairwise(r, e, owl.EquivalentClasses, kinds.Has(Equivalents))
		w.pairwise(r, e, owl.DisjointClasses, kinds.Has(Disjoints))
	case owl.ObjectProperty:
		w.hierarchy(r, e, owl.SubObjectPropertyOf, kinds)
		w.second(r, e, owl.ObjectPropertyDomain, kinds.Has(Domains))
		w.second(r, e, owl.ObjectPropertyRange, kinds.Has(Ranges))
		w.pairwise(r, e, owl.InverseObjectProperties, kinds.Has(Inverses))
		w.pairwise(r, e, owl.EquivalentObjectProperties, kinds.Has(Equivalents))
		w.pairwise(r, e, owl.DisjointObjectProperties, kinds.Has(Disjoints))
	case owl.DataProperty:
		w.hierarchy(r, e, owl.SubDataPropertyOf, kinds)
		w.second(r, e, owl.DataPropertyDomain, kinds.Has(Domains))
		if kinds.Has(Ranges) {
			// Data ranges are not entities; only the axiom is kept.
			for _, ax := range w.ont.ClosureAxiomsFor(owl.DataPropertyRange, e, owl.AnyPosition) {
				r.axioms.Add(ax)
			}
		}
		w.pairwise(r, e, owl.EquivalentDataProperties, kinds.Has(Equivalents))
		w.pairwise(r, e, owl.DisjointDataProperties, kinds.Has(Disjoints))
	case owl.AnnotationProperty:
		w.hierarchy(r, e, owl.SubAnnotationPropertyOf, kinds)
	case owl.Individual:
		if kinds.Has(Types) {
			for _, ax := range w.ont.ClosureAxiomsFor(owl.ClassAssertion, e, owl.AnyPosition) {
				if cls := ax.Arg(0); cls.IsNamed() {
					r.add(cls.Entity, ax)
				}
			}
		}
		if kinds.Has(PropertyAssertions) {
			w.assertions(r, e)
		}
	}
	return r.entities, r.axioms
}

type result struct {
	entities owl.EntitySet
	axioms   owl.AxiomSet
}

func (r *result) add(e owl.Entity, ax owl.Axiom) {
	r.entities.Add(e)
	r.axioms.Add(ax)
}

// hierarchy follows subsumption axioms of type t upwards and/or downwards,
// skipping anonymous expressions.
func (w *Walker) hierarchy(r *result, e owl.Entity, t owl.AxiomType, kinds RelationSet) {
	if kinds.Has(Ancestors) {
		for _, ax := range w.ont.ClosureAxiomsFor(t, e, owl.SubPosition) {
			if sup := ax.Arg(1); sup.IsNamed() {
				r.add(sup.Entity, ax)
			}
		}
	}
	if kinds.Has(Descendants) {
		for _, ax := range w.ont.ClosureAxiomsFor(t, e, owl.SuperPosition) {
			if sub := ax.Arg(0); sub.IsNamed() {
				r.add(sub.Entity, ax)
			}
		}
	}
}

// second follows domain and range axioms to their named class.
func (w *Walker) second(r *result, e owl.Entity, t owl.AxiomType, enabled bool) {
	if !enabled {
		return
	}
	for _, ax := range w.ont.ClosureAxiomsFor(t, e, owl.AnyPosition) {
		if cls := ax.Arg(1); cls.IsNamed() {
			r.add(cls.Entity, ax)
		}
	}
}

// pairwise splits n-ary axioms of type t into pairs and keeps the pairs that
// contain e, relating e to the other named member.
func (w *Walker) pairwise(r *result, e owl.Entity, t owl.AxiomType, enabled bool) {
	if !enabled {
		return
	}
	for _, raw := range w.ont.ClosureAxiomsFor(t, e, owl.AnyPosition) {
		for _, pair := range raw.Pairwise() {
			if !hasNamedMember(pair, e) {
				continue
			}
			for _, member := range pair.Args {
				if member.IsNamed() && member.Entity != e {
					r.add(member.Entity, pair)
				}
			}
		}
	}
}

func hasNamedMember(ax owl.Axiom, e owl.Entity) bool {
	for _, t := range ax.Args {
		if t.IsNamed() && t.Entity == e {
			return true
		}
	}
	return false
}

// assertions follows positive and negative property assertions whose subject
// is the individual e.
func (w *Walker) assertions(r *result, e owl.Entity) {
	for _, t := range []owl.AxiomType{owl.ObjectPropertyAssertion, owl.NegativeObjectPropertyAssertion} {
		for _, ax := range w.ont.ClosureAxiomsFor(t, e, owl.AnyPosition) {
			obj := ax.Object()
			if !obj.IsNamed() {
				continue
			}
			r.entities.Add(ax.Property())
			r.add(obj.Entity, ax)
		}
	}
	for _, t := range []owl.AxiomType{owl.DataPropertyAssertion, owl.NegativeDataPropertyAssertion} {
		for _, ax := range w.ont.ClosureAxiomsFor(t, e, owl.AnyPosition) {
			r.add(ax.Property(), ax)
		}
	}
}
