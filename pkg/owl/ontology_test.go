package owl_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/owl/owltest"
)

func TestOntologyAxiomIndex(t *testing.T) {
	ont := owltest.Animals()
	dog, poodle, animal := owltest.Class("Dog"), owltest.Class("Poodle"), owltest.Class("Animal")

	t.Run("sub position", func(t *testing.T) {
		axioms := ont.SubClassAxiomsForSubClass(poodle)
		assert.Len(t, axioms, 2)
	})

	t.Run("super position", func(t *testing.T) {
		axioms := ont.SubClassAxiomsForSuperClass(animal)
		assert.Len(t, axioms, 2)
		for _, ax := range axioms {
			assert.Equal(t, animal, ax.Arg(1).Entity)
		}
	})

	t.Run("declarations and annotations", func(t *testing.T) {
		assert.Len(t, ont.DeclarationAxioms(dog), 1)
		assert.Len(t, ont.AnnotationAssertionAxioms(dog.IRI), 1)
		assert.Empty(t, ont.AnnotationAssertionAxioms(poodle.IRI))
	})

	t.Run("referencing axioms by type", func(t *testing.T) {
		assert.Len(t, ont.ReferencingAxioms(dog, owl.SubClassOf), 2)
		assert.Len(t, ont.ReferencingAxioms(dog), 3)
	})

	t.Run("removal updates the signature", func(t *testing.T) {
		c := ont.Clone()
		for _, ax := range c.ReferencingAxioms(poodle) {
			require.True(t, c.RemoveAxiom(ax))
		}
		assert.False(t, c.ContainsEntity(poodle))
		assert.True(t, ont.ContainsEntity(poodle), "clone must not share axioms")
	})
}

func TestOntologyRevision(t *testing.T) {
	ont := owl.New(owltest.IRI("o"))
	r0 := ont.Revision()
	ax := owl.NewDeclaration(owltest.Class("A"))
	require.True(t, ont.AddAxiom(ax))
	assert.False(t, ont.AddAxiom(ax))
	r1 := ont.Revision()
	assert.Greater(t, r1, r0)
	assert.Equal(t, r1, ont.Revision(), "duplicate add is not a change")

	imp := owl.New(owltest.IRI("imp"))
	ont.AddImport(imp)
	before := ont.ClosureRevision()
	imp.AddAxiom(owl.NewDeclaration(owltest.Class("B")))
	assert.NotEqual(t, before, ont.ClosureRevision())
}

func TestImportsClosure(t *testing.T) {
	a := owl.New(owltest.IRI("a"))
	b := owl.New(owltest.IRI("b"))
	c := owl.New(owltest.IRI("c"))
	a.AddImport(b)
	b.AddImport(c)
	c.AddImport(a) // cycle

	closure := a.ImportsClosure()
	require.Len(t, closure, 3)
	assert.Same(t, a, closure[0])
	assert.Same(t, b, closure[1])
	assert.Same(t, c, closure[2])

	a.AddImport(b)
	assert.Len(t, a.Imports(), 1)
	assert.Equal(t, []owl.IRI{owltest.IRI("b")}, a.ImportIRIs())
}

func TestGetExistingEntity(t *testing.T) {
	base := owltest.New(owltest.IRI("base")).
		Declare(owltest.Class("Dog"), owltest.Individual("rex")).
		Ontology()
	ont := owltest.New(owltest.IRI("main")).Import(base).Ontology()
	ont.Prefixes().Add("ex", owltest.NS)

	e, err := ont.GetExistingEntity("ex:Dog")
	require.NoError(t, err)
	assert.Equal(t, owltest.Class("Dog"), e)

	e, err = ont.GetExistingEntity(string(owltest.IRI("rex")))
	require.NoError(t, err)
	assert.Equal(t, owl.Individual, e.Kind)

	t.Run("missing entity", func(t *testing.T) {
		_, err := ont.GetExistingEntity("ex:Cat")
		var lerr *owl.LookupError
		require.True(t, errors.As(err, &lerr))
		assert.Equal(t, "ex:Cat", lerr.ID)
		assert.True(t, errors.Is(err, owl.ErrEntityNotFound))
	})

	t.Run("unexpandable identifier", func(t *testing.T) {
		_, err := ont.GetExistingEntity("Cat")
		var lerr *owl.LookupError
		require.True(t, errors.As(err, &lerr))
		assert.Error(t, lerr.Cause)
	})

	t.Run("punned IRI prefers the class", func(t *testing.T) {
		punned := owltest.New(owltest.IRI("p")).
			Declare(owltest.Individual("X"), owltest.Class("X")).
			Ontology()
		e, err := punned.GetExistingEntity(string(owltest.IRI("X")))
		require.NoError(t, err)
		assert.Equal(t, owl.Class, e.Kind)
	})
}

func TestRemoveEntity(t *testing.T) {
	dog := owltest.Class("Dog")

	t.Run("with annotations", func(t *testing.T) {
		ont := owltest.Animals()
		removed := ont.RemoveEntity(dog, true)
		assert.Len(t, removed, 4)
		assert.False(t, ont.ContainsEntity(dog))
		assert.Empty(t, ont.AnnotationAssertionAxioms(dog.IRI))
	})

	t.Run("keeping annotations", func(t *testing.T) {
		ont := owltest.Animals()
		ont.RemoveEntity(dog, false)
		assert.Len(t, ont.AnnotationAssertionAxioms(dog.IRI), 1)
		assert.Empty(t, ont.DeclarationAxioms(dog))
	})
}

func TestOntologyAnnotations(t *testing.T) {
	ont := owl.New(owltest.IRI("m"))
	ont.SetSource(owltest.IRI("src"))
	ont.SetSource(owltest.IRI("src"))
	require.Len(t, ont.Annotations(), 1)
	assert.Equal(t, owl.Source, ont.Annotations()[0].Property)
	assert.Equal(t, owltest.IRI("src"), ont.Annotations()[0].Value.IRI())
}

func TestDocumentRoundTrip(t *testing.T) {
	ont := owltest.Animals()
	ont.SetOntologyID(owltest.IRI("animals"), owltest.IRI("animals/1.0"))
	ont.AddImportIRI(owltest.IRI("base"))
	ont.Prefixes().Add("ex", owltest.NS)
	ont.SetSource(owltest.IRI("upstream"))

	raw, err := json.Marshal(ont.ToDocument())
	require.NoError(t, err)

	var doc owl.Document
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, owltest.IRI("animals/1.0"), doc.Name())

	back, err := owl.FromDocument(&doc)
	require.NoError(t, err)
	assert.Equal(t, ont.ID(), back.ID())
	assert.Equal(t, ont.AxiomCount(), back.AxiomCount())
	assert.Equal(t, ont.ImportIRIs(), back.ImportIRIs())
	assert.Equal(t, ont.Annotations(), back.Annotations())
	for _, ax := range ont.Axioms() {
		assert.True(t, back.ContainsAxiom(ax), ax.Key())
	}
	_, err = back.GetExistingEntity("ex:Dog")
	assert.NoError(t, err)
}

func TestFromDocumentRejectsMalformedAxioms(t *testing.T) {
	doc := &owl.Document{
		IRI:    owltest.IRI("bad"),
		Axioms: []owl.Axiom{{Type: owl.SubClassOf, Args: []owl.Term{owl.Named(owltest.Class("A"))}}},
	}
	_, err := owl.FromDocument(doc)
	assert.Error(t, err)
}
