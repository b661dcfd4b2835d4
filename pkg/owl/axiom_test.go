package owl_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/owl/owltest"
)

func TestPrefixMapExpand(t *testing.T) {
	pm := owl.NewPrefixMap()
	pm.Add("ex", owltest.NS)

	tests := []struct {
		id      string
		want    owl.IRI
		wantErr bool
	}{
		{id: "http://example.org/test#Dog", want: owltest.IRI("Dog")},
		{id: "<http://example.org/test#Dog>", want: owltest.IRI("Dog")},
		{id: "ex:Dog", want: owltest.IRI("Dog")},
		{id: "owl:Thing", want: owl.IRIThing},
		{id: "PO:0000003", want: owl.NamespaceOBO + "PO_0000003"},
		{id: "urn:uuid:1234", want: "urn:uuid:1234"},
		{id: "  ex:Cat ", want: owltest.IRI("Cat")},
		{id: "", wantErr: true},
		{id: "Dog", wantErr: true},
		{id: "nope:Dog", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := pm.Expand(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAxiomStructuralEquality(t *testing.T) {
	a, b, c := owl.Named(owltest.Class("A")), owl.Named(owltest.Class("B")), owl.Named(owltest.Class("C"))

	t.Run("n-ary operand order is irrelevant", func(t *testing.T) {
		x := owl.NewEquivalentClasses(a, b, c)
		y := owl.NewEquivalentClasses(c, a, b)
		assert.True(t, x.Equal(y))
		assert.Equal(t, x.Key(), y.Key())
	})

	t.Run("duplicate operands collapse", func(t *testing.T) {
		x := owl.NewDisjointClasses(a, b, a)
		assert.Len(t, x.Args, 2)
	})

	t.Run("subclass order matters", func(t *testing.T) {
		assert.False(t, owl.NewSubClassOf(a, b).Equal(owl.NewSubClassOf(b, a)))
	})

	t.Run("annotations change the key but not the logical key", func(t *testing.T) {
		plain := owl.NewSubClassOf(a, b)
		ann := plain.Annotated(owl.Annotation{Property: owl.IsInferred, Value: owl.Literal("true", "")})
		assert.NotEqual(t, plain.Key(), ann.Key())
		assert.Equal(t, plain.LogicalKey(), ann.LogicalKey())
		assert.True(t, ann.HasAnnotation(owl.IsInferred))
		assert.Equal(t, plain.Key(), ann.WithoutAnnotations().Key())
	})

	t.Run("entity kind is part of identity", func(t *testing.T) {
		iri := owltest.IRI("X")
		assert.NotEqual(t, owl.NewDeclaration(owl.NewClass(iri)).Key(),
			owl.NewDeclaration(owl.NewIndividual(iri)).Key())
	})
}

func TestAxiomPairwise(t *testing.T) {
	a, b, c := owl.Named(owltest.Class("A")), owl.Named(owltest.Class("B")), owl.Named(owltest.Class("C"))

	pairs := owl.NewEquivalentClasses(a, b, c).Pairwise()
	require.Len(t, pairs, 3)
	keys := owl.NewAxiomSet(pairs...)
	assert.True(t, keys.Contains(owl.NewEquivalentClasses(a, b)))
	assert.True(t, keys.Contains(owl.NewEquivalentClasses(b, c)))
	assert.True(t, keys.Contains(owl.NewEquivalentClasses(a, c)))

	sub := owl.NewSubClassOf(a, b)
	assert.Equal(t, []owl.Axiom{sub}, sub.Pairwise())
}

func TestAxiomSignature(t *testing.T) {
	dog := owltest.Class("Dog")
	owns := owltest.ObjectProperty("owns")
	expr := owl.Expression("ObjectSomeValuesFrom(<"+string(owns.IRI)+"> <"+string(dog.IRI)+">)", owns, dog)

	ax := owl.NewSubClassOf(owl.Named(owltest.Class("Owner")), expr).
		Annotated(owl.Annotation{Property: owl.IsInferred, Value: owl.Literal("true", "")})

	sig := ax.Signature()
	assert.True(t, sig.Contains(dog))
	assert.True(t, sig.Contains(owns))
	assert.True(t, sig.Contains(owltest.Class("Owner")))
	assert.True(t, sig.Contains(owl.IsInferred))
	assert.True(t, ax.ContainsEntity(owns))
	assert.False(t, ax.ContainsEntity(owltest.Class("Cat")))
}

func TestNewAxiomValidatesArity(t *testing.T) {
	_, err := owl.NewAxiom(owl.SubClassOf, []owl.Term{owl.Named(owltest.Class("A"))}, nil)
	assert.Error(t, err)

	_, err = owl.NewAxiom(owl.EquivalentClasses, []owl.Term{owl.Named(owltest.Class("A")), owl.Named(owltest.Class("A"))}, nil)
	assert.Error(t, err, "a single distinct member is not an equivalence")

	ax, err := owl.NewAxiom(owl.ClassAssertion, []owl.Term{owl.Named(owltest.Class("Dog")), owl.Named(owltest.Individual("rex"))}, nil)
	require.NoError(t, err)
	assert.Equal(t, owl.NewClassAssertion(owl.Named(owltest.Class("Dog")), owltest.Individual("rex")).Key(), ax.Key())
}

func TestAxiomJSON(t *testing.T) {
	ax := owl.NewDataPropertyAssertion(owltest.DataProperty("age"), owltest.Individual("rex"),
		owl.Literal("7", owl.NamespaceXSD+"integer")).
		Annotated(owl.Annotation{Property: owl.IsInferred, Value: owl.Literal("true", "")})

	raw, err := json.Marshal(ax)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"type":"DataPropertyAssertion"`)
	assert.Contains(t, string(raw), `"kind":"NamedIndividual"`)

	var back owl.Axiom
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, ax.Key(), back.Key())
}
