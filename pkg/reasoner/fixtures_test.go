package reasoner

import (
	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/owl/owltest"
)

var (
	cls = owltest.Class
	op  = owltest.ObjectProperty
	dp  = owltest.DataProperty
	ind = owltest.Individual
)

func named(e owl.Entity) owl.Term { return owl.Named(e) }

func set(es ...owl.Entity) []owl.Entity {
	out := append([]owl.Entity{}, es...)
	owl.SortEntities(out)
	return out
}

// disjointPets has Cat and Dog disjoint under Animal, with CatDog below both.
func disjointPets() *owl.Ontology {
	return owltest.New(owltest.IRI("pets")).
		SubClass(cls("Dog"), cls("Animal")).
		SubClass(cls("Cat"), cls("Animal")).
		SubClass(cls("CatDog"), cls("Cat")).
		SubClass(cls("CatDog"), cls("Dog")).
		Axioms(owl.NewDisjointClasses(named(cls("Cat")), named(cls("Dog")))).
		Ontology()
}
