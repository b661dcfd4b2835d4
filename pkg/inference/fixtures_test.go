package inference

import (
	"errors"

	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/owl/owltest"
	"github.com/orneryd/ontomod/pkg/reasoner"
)

var (
	cls = owltest.Class
	op  = owltest.ObjectProperty
	ind = owltest.Individual
)

var errBoom = errors.New("boom")

func named(e owl.Entity) owl.Term { return owl.Named(e) }

func subClass(sub, sup owl.Entity) owl.Axiom { return owl.NewSubClassOf(named(sub), named(sup)) }

// pets has Cat and Dog disjoint under Animal and one dog, rex.
func pets() *owl.Ontology {
	return owltest.New(owltest.IRI("pets")).
		SubClass(cls("Animal"), cls("LivingThing")).
		SubClass(cls("Dog"), cls("Animal")).
		SubClass(cls("Cat"), cls("Animal")).
		Declare(ind("rex")).
		Axioms(
			owl.NewDisjointClasses(named(cls("Cat")), named(cls("Dog"))),
			owl.NewClassAssertion(named(cls("Dog")), ind("rex")),
		).
		Ontology()
}

// parts has hasPart/partOf inverses, a symmetric adjacentTo and a few
// assertions over them.
func parts() *owl.Ontology {
	hasPart, partOf, adjacent := op("hasPart"), op("partOf"), op("adjacentTo")
	return owltest.New(owltest.IRI("parts")).
		Declare(hasPart, partOf, adjacent, ind("car"), ind("wheel"), ind("door")).
		Axioms(
			owl.NewInverseObjectProperties(hasPart, partOf),
			owl.NewCharacteristic(owl.SymmetricObjectProperty, adjacent),
			owl.NewObjectPropertyAssertion(hasPart, ind("car"), ind("wheel")),
			owl.NewNegativeObjectPropertyAssertion(adjacent, ind("wheel"), ind("door")),
		).
		Ontology()
}

// faulty wraps a reasoner and fails selected queries.
type faulty struct {
	reasoner.Reasoner
	failUnsat  bool
	failSupers bool
}

func (f *faulty) UnsatisfiableClasses() (owl.EntitySet, error) {
	if f.failUnsat {
		return nil, errBoom
	}
	return f.Reasoner.UnsatisfiableClasses()
}

func (f *faulty) SuperClasses(c owl.Entity, direct bool) (owl.EntitySet, error) {
	if f.failSupers {
		return nil, errBoom
	}
	return f.Reasoner.SuperClasses(c, direct)
}

func (f *faulty) Unwrap() reasoner.Reasoner { return f.Reasoner }
