package reasoner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/owl/owltest"
)

func TestHierarchySuperClasses(t *testing.T) {
	r := NewHierarchy(owltest.Animals())

	direct, err := r.SuperClasses(cls("Poodle"), true)
	require.NoError(t, err)
	assert.Equal(t, set(cls("Dog")), direct.Sorted())

	all, err := r.SuperClasses(cls("Poodle"), false)
	require.NoError(t, err)
	assert.Equal(t, set(cls("Dog"), cls("Animal"), owl.Thing), all.Sorted())

	top, err := r.SuperClasses(owl.Thing, true)
	require.NoError(t, err)
	assert.Empty(t, top)

	unknown, err := r.SuperClasses(cls("Cat"), true)
	require.NoError(t, err)
	assert.Empty(t, unknown)
}

func TestHierarchyRootsUnderThing(t *testing.T) {
	ont := owltest.New(owltest.IRI("flat")).Declare(cls("Rock")).Ontology()
	supers, err := NewHierarchy(ont).SuperClasses(cls("Rock"), true)
	require.NoError(t, err)
	assert.Equal(t, set(owl.Thing), supers.Sorted())
}

func TestHierarchySubClasses(t *testing.T) {
	r := NewHierarchy(owltest.Animals())

	direct, err := r.SubClasses(cls("Animal"), true)
	require.NoError(t, err)
	assert.Equal(t, set(cls("Dog")), direct.Sorted())

	all, err := r.SubClasses(cls("Animal"), false)
	require.NoError(t, err)
	assert.Equal(t, set(cls("Dog"), cls("Poodle")), all.Sorted())
}

func TestHierarchyProperties(t *testing.T) {
	ont := owltest.New(owltest.IRI("props")).
		Axioms(
			owl.NewSubPropertyOf(op("hasMother"), op("hasParent")),
			owl.NewSubPropertyOf(op("hasParent"), op("hasAncestor")),
			owl.NewSubPropertyOf(op("hasMother"), op("hasAncestor")),
		).Ontology()
	r := NewHierarchy(ont)

	supers, err := r.SuperObjectProperties(op("hasMother"), true)
	require.NoError(t, err)
	assert.Equal(t, set(op("hasParent")), supers.Sorted())
}

func TestHierarchyUnsupported(t *testing.T) {
	r := NewHierarchy(owltest.Animals())

	_, err := r.Types(ind("x"), true)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = r.EquivalentClasses(cls("Dog"))
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = r.DataPropertyValues(ind("x"), dp("p"))
	assert.ErrorIs(t, err, ErrUnsupported)

	ok, err := r.IsConsistent()
	require.NoError(t, err)
	assert.True(t, ok)
}
