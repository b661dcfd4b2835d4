package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/owl/owltest"
	"github.com/orneryd/ontomod/pkg/reasoner"
)

func TestAddInferredAxiomsPrunesPoodle(t *testing.T) {
	ont := owltest.Animals()
	report, err := NewAdder(ont, reasoner.NewDatalog(ont, nil), nil).
		AddInferredAxioms([]Kind{Subclasses}, Options{})
	require.NoError(t, err)

	assert.Equal(t, []Kind{Subclasses}, report.Active)
	assert.Equal(t, 3, report.Generated)
	assert.Equal(t, 3, report.Duplicates)
	assert.Equal(t, 0, report.Trivial)
	assert.Equal(t, 0, report.Merged)
	assert.Equal(t, 1, report.Pruned)
	assert.True(t, ont.ContainsAxiom(subClass(cls("Poodle"), cls("Dog"))))
	assert.False(t, ont.ContainsAxiom(subClass(cls("Poodle"), cls("Animal"))))
}

func TestAddInferredAxiomsConsistencyGate(t *testing.T) {
	ont := parts()
	ont.AddAxioms(
		owl.NewDisjointClasses(named(cls("Vehicle")), named(cls("Component"))),
		owl.NewClassAssertion(named(cls("Vehicle")), ind("car")),
		owl.NewClassAssertion(named(cls("Component")), ind("car")),
	)
	before := ont.AxiomCount()

	_, err := NewAdder(ont, reasoner.NewDatalog(ont, nil), nil).
		AddInferredAxioms(AllKinds(), Options{AddInverses: true, Annotate: true})
	var ce *ConsistencyError
	require.ErrorAs(t, err, &ce)
	assert.ErrorIs(t, err, ErrInconsistent)
	assert.Equal(t, before, ont.AxiomCount())
}

func TestAddInferredAxiomsIdempotent(t *testing.T) {
	ont := pets()
	adder := NewAdder(ont, reasoner.NewDatalog(ont, nil), nil)
	kinds := []Kind{Subclasses, Types, DisjointClasses}

	first, err := adder.AddInferredAxioms(kinds, Options{Annotate: true})
	require.NoError(t, err)
	assert.Positive(t, first.Merged)
	count := ont.AxiomCount()

	second, err := adder.AddInferredAxioms(kinds, Options{Annotate: true})
	require.NoError(t, err)
	assert.Zero(t, second.Merged)
	assert.Zero(t, second.Pruned)
	assert.Equal(t, count, ont.AxiomCount())

	for _, ax := range ont.Axioms() {
		if !ax.HasAnnotation(owl.IsInferred) {
			continue
		}
		for _, s := range owl.Sentinels() {
			assert.False(t, ax.ContainsEntity(s), "trivial axiom merged: %s", ax)
		}
	}
	assert.True(t, ont.ContainsAxiomInClosure(owl.NewClassAssertion(named(cls("Animal")), ind("rex")), true))
	assert.True(t, ont.ContainsAxiomInClosure(owl.NewClassAssertion(named(cls("LivingThing")), ind("rex")), true))
}

func TestAddInferredAxiomsExcludedTypes(t *testing.T) {
	ont := pets()
	r := reasoner.NewDatalog(ont, nil)
	excluded := NewExcludedTypes(r)
	require.NoError(t, excluded.Add(cls("Dog"), false, true))

	report, err := NewAdder(ont, r, nil).AddInferredAxioms([]Kind{Types}, Options{ExcludedTypes: excluded})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Excluded)
	assert.Zero(t, report.Merged)
	assert.False(t, ont.ContainsAxiom(owl.NewClassAssertion(named(cls("Animal")), ind("rex"))))
}

func TestAddInferredAxiomsDegradedReasoner(t *testing.T) {
	ont := owltest.Animals()
	report, err := NewAdder(ont, reasoner.NewHierarchy(ont), nil).
		AddInferredAxioms([]Kind{Subclasses, Types, PropertyValues}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []Kind{Subclasses}, report.Active)
	assert.Equal(t, []Kind{Types, PropertyValues}, report.Unsupported)
	assert.Equal(t, 1, report.Pruned)
}

func TestAddInferredAxiomsInverses(t *testing.T) {
	ont := parts()
	report, err := NewAdder(ont, reasoner.NewHierarchy(ont), nil).
		AddInferredAxioms([]Kind{PropertyValues}, Options{AddInverses: true})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Inverses)
	assert.True(t, ont.ContainsAxiom(owl.NewObjectPropertyAssertion(op("partOf"), ind("wheel"), ind("car"))))
}

func TestAddInferredAxiomsRollsBackInverses(t *testing.T) {
	ont := parts()
	before := ont.Axioms()
	r := &faulty{Reasoner: reasoner.NewDatalog(ont, nil), failUnsat: true}

	_, err := NewAdder(ont, r, nil).AddInferredAxioms([]Kind{Subclasses}, Options{AddInverses: true})
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, before, ont.Axioms())
}

func TestCheckEntailmentErrors(t *testing.T) {
	ont := pets()
	ont.AddAxioms(subClass(cls("CatDog"), cls("Cat")), subClass(cls("CatDog"), cls("Dog")))

	got, err := CheckEntailmentErrors(reasoner.NewDatalog(ont, nil))
	require.NoError(t, err)
	assert.Equal(t, EntailmentReport{Consistent: true, Unsatisfiable: []owl.Entity{cls("CatDog")}}, got)

	ont.AddAxiom(owl.NewClassAssertion(named(cls("Cat")), ind("rex")))
	got, err = CheckEntailmentErrors(reasoner.NewDatalog(ont, nil))
	require.NoError(t, err)
	assert.False(t, got.Consistent)
	assert.Empty(t, got.Unsatisfiable)
}
