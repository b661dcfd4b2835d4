package module

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/ontomod/pkg/graph"
	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/owl/owltest"
)

var (
	cls = owltest.Class
	op  = owltest.ObjectProperty
	ap  = owltest.AnnotationProperty
)

type fakeOracle struct {
	calls     int
	signature owl.EntitySet
	result    []owl.Axiom
	err       error
}

func (f *fakeOracle) Extract(_ *owl.Ontology, sig owl.EntitySet) (owl.AxiomSet, error) {
	f.calls++
	f.signature = sig
	return owl.NewAxiomSet(f.result...), f.err
}

func id(e owl.Entity) string { return string(e.IRI) }

func TestAddEntityUnknownID(t *testing.T) {
	ext := New(owltest.Animals(), nil, nil)

	err := ext.AddEntity(owltest.NS+"Cat", Single, 0)
	var lookup *owl.LookupError
	require.ErrorAs(t, err, &lookup)
	assert.ErrorIs(t, err, owl.ErrEntityNotFound)
	assert.Equal(t, 0, ext.SignatureSize())

	err = ext.ExcludeEntity(owltest.NS+"Cat", 0)
	assert.ErrorIs(t, err, owl.ErrEntityNotFound)
}

func TestAddEntityInvalidMethod(t *testing.T) {
	ext := New(owltest.Animals(), nil, nil)
	assert.Error(t, ext.AddEntity(id(cls("Dog")), Method(9), 0))
}

func TestSignatureIdempotence(t *testing.T) {
	ext := New(owltest.Animals(), nil, nil)
	kinds := graph.Relations(graph.Descendants)

	require.NoError(t, ext.AddEntity(id(cls("Animal")), Single, kinds))
	once := ext.SignatureSize()
	require.NoError(t, ext.AddEntity(id(cls("Animal")), Single, kinds))

	assert.Equal(t, 3, once)
	assert.Equal(t, once, ext.SignatureSize())
	assert.Len(t, ext.SavedAxioms(), 3)
}

func TestSignatureSizeCountsEachMethod(t *testing.T) {
	ext := New(owltest.Animals(), nil, nil)
	require.NoError(t, ext.AddEntity(id(cls("Dog")), Single, 0))
	require.NoError(t, ext.AddEntity(id(cls("Dog")), Locality, 0))
	assert.Equal(t, 2, ext.SignatureSize())

	ext.ClearSignatures()
	assert.Equal(t, 0, ext.SignatureSize())
	assert.Empty(t, ext.SavedAxioms())
	assert.Empty(t, ext.Excluded())
}

func TestExtractEmptySignature(t *testing.T) {
	oracle := &fakeOracle{result: []owl.Axiom{owl.NewDeclaration(cls("Dog"))}}
	src := owltest.Animals()
	src.SetOntologyID(owltest.IRI("animals"), "")
	ext := New(src, oracle, nil)

	mod, err := ext.ExtractModule(owltest.IRI("mod"))
	require.NoError(t, err)

	assert.Equal(t, 0, oracle.calls)
	assert.Equal(t, owltest.IRI("mod"), mod.ID().IRI)
	assert.Equal(t, 0, mod.AxiomCount())
	assert.Equal(t, []owl.Annotation{{Property: owl.Source, Value: owl.IRITerm(owltest.IRI("animals"))}}, mod.Annotations())
}

func TestExtractLocality(t *testing.T) {
	dog := owl.NewSubClassOf(owl.Named(cls("Dog")), owl.Named(cls("Animal")))
	oracle := &fakeOracle{result: []owl.Axiom{dog}}
	ext := New(owltest.Animals(), oracle, nil)
	require.NoError(t, ext.AddEntity(id(cls("Dog")), Locality, 0))

	mod, err := ext.ExtractModule(owltest.IRI("mod"))
	require.NoError(t, err)

	assert.Equal(t, 1, oracle.calls)
	assert.True(t, oracle.signature.Contains(cls("Dog")))
	assert.True(t, mod.ContainsAxiom(dog))
	assert.Equal(t, 1, mod.AxiomCount())
}

func TestExtractLocalityErrors(t *testing.T) {
	ext := New(owltest.Animals(), nil, nil)
	require.NoError(t, ext.AddEntity(id(cls("Dog")), Locality, 0))
	_, err := ext.ExtractModule(owltest.IRI("mod"))
	assert.ErrorIs(t, err, ErrNoOracle)

	boom := errors.New("boom")
	ext = New(owltest.Animals(), &fakeOracle{err: boom}, nil)
	require.NoError(t, ext.AddEntity(id(cls("Dog")), Locality, 0))
	_, err = ext.ExtractModule(owltest.IRI("mod"))
	assert.ErrorIs(t, err, boom)
}

func TestExtractSingleAnnotationPropertyWorklist(t *testing.T) {
	definition := ap("definition")
	editorNote := ap("editorNote")
	undeclared := ap("undeclared")
	chases := op("chases")

	defAx := owl.NewAnnotationAssertion(definition, cls("Dog").IRI, owl.Literal("a domestic canine", ""))
	noteAx := owl.NewAnnotationAssertion(editorNote, definition.IRI, owl.Literal("from IAO", ""))
	otherAx := owl.NewAnnotationAssertion(undeclared, cls("Dog").IRI, owl.Literal("x", ""))
	transitive := owl.NewCharacteristic(owl.TransitiveObjectProperty, chases)

	src := owltest.Animals()
	src.AddAxioms(
		owl.NewDeclaration(definition), owl.NewDeclaration(editorNote), owl.NewDeclaration(chases),
		defAx, noteAx, otherAx, transitive,
	)

	ext := New(src, nil, nil)
	require.NoError(t, ext.AddEntity(id(cls("Dog")), Single, 0))
	require.NoError(t, ext.AddEntity(id(chases), Single, 0))

	mod, err := ext.ExtractModule(owltest.IRI("mod"))
	require.NoError(t, err)

	for _, ax := range []owl.Axiom{
		owl.NewDeclaration(cls("Dog")),
		owl.NewAnnotationAssertion(owl.Label, cls("Dog").IRI, owl.Literal("dog", "")),
		defAx, otherAx,
		owl.NewDeclaration(definition), noteAx, owl.NewDeclaration(editorNote),
		owl.NewDeclaration(chases), transitive,
	} {
		assert.True(t, mod.ContainsAxiom(ax), "missing %s", ax)
	}
	assert.False(t, mod.IsDeclared(undeclared))
	assert.False(t, mod.IsDeclared(owl.Label))
	assert.False(t, mod.ContainsEntity(cls("Animal")))
	assert.Equal(t, 9, mod.AxiomCount())
	assert.Equal(t, []owl.Entity{cls("Dog"), chases}, ext.Signature(Single), "signature is not consumed")
}

func TestExtractSingleSearchesImports(t *testing.T) {
	base := owltest.New(owltest.IRI("base")).Declare(cls("Dog")).Label(cls("Dog"), "dog").Ontology()
	src := owltest.New(owltest.IRI("src")).Import(base).Ontology()

	ext := New(src, nil, nil)
	require.NoError(t, ext.AddEntity(id(cls("Dog")), Single, 0))
	mod, err := ext.ExtractModule(owltest.IRI("mod"))
	require.NoError(t, err)

	assert.True(t, mod.IsDeclared(cls("Dog")))
	assert.Len(t, mod.AnnotationAssertionAxioms(cls("Dog").IRI), 1)
}

func TestExtractSavedAxioms(t *testing.T) {
	ext := New(owltest.Animals(), nil, nil)
	require.NoError(t, ext.AddEntity(id(cls("Animal")), Single, graph.Relations(graph.Descendants)))

	mod, err := ext.ExtractModule(owltest.IRI("mod"))
	require.NoError(t, err)

	assert.Len(t, mod.SubClassAxiomsForSubClass(cls("Poodle")), 2)
	assert.Len(t, mod.SubClassAxiomsForSubClass(cls("Dog")), 1)
	assert.Empty(t, mod.SubClassAxiomsForSubClass(cls("Animal")), "ancestors were not requested")
}

func TestExclusionPrecedence(t *testing.T) {
	for _, tc := range []struct {
		name        string
		config      *Config
		annotations int
	}{
		{"default removes annotations", nil, 0},
		{"keep annotations", &Config{RemoveExcludedAnnotations: false}, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ext := New(owltest.Animals(), nil, tc.config)
			require.NoError(t, ext.AddEntity(id(cls("Animal")), Single, graph.Relations(graph.Descendants)))
			require.NoError(t, ext.ExcludeEntity(id(cls("Dog")), 0))

			mod, err := ext.ExtractModule(owltest.IRI("mod"))
			require.NoError(t, err)

			assert.False(t, mod.ContainsEntity(cls("Dog")))
			assert.Len(t, mod.AnnotationAssertionAxioms(cls("Dog").IRI), tc.annotations)
			assert.True(t, mod.ContainsEntity(cls("Poodle")))
			assert.True(t, mod.ContainsAxiom(owl.NewSubClassOf(owl.Named(cls("Poodle")), owl.Named(cls("Animal")))))
		})
	}
}

func TestExcludeWithDescendants(t *testing.T) {
	ext := New(owltest.Animals(), nil, nil)
	require.NoError(t, ext.AddEntity(id(cls("Animal")), Single, graph.Relations(graph.Descendants)))
	require.NoError(t, ext.ExcludeEntity(id(cls("Dog")), graph.Relations(graph.Descendants)))

	assert.Equal(t, []owl.Entity{cls("Dog"), cls("Poodle")}, ext.Excluded())

	mod, err := ext.ExtractModule(owltest.IRI("mod"))
	require.NoError(t, err)
	assert.Equal(t, []owl.Entity{cls("Animal")}, mod.ClassesInSignature())
}

func TestSourceAnnotationPrefersVersionIRI(t *testing.T) {
	src := owltest.Animals()
	src.SetOntologyID(owltest.IRI("animals"), owltest.IRI("animals/v2"))

	mod, err := New(src, nil, nil).ExtractModule(owltest.IRI("mod"))
	require.NoError(t, err)
	require.Len(t, mod.Annotations(), 1)
	assert.Equal(t, owltest.IRI("animals/v2"), mod.Annotations()[0].Value.IRI())

	anon := owl.New("")
	mod, err = New(anon, nil, nil).ExtractModule(owltest.IRI("mod"))
	require.NoError(t, err)
	assert.Empty(t, mod.Annotations())
}
