package termspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/ontomod/pkg/inference"
	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/owl/owltest"
	"github.com/orneryd/ontomod/pkg/reasoner"
)

func TestParseExcludedTypes(t *testing.T) {
	records, err := ParseExcludedTypes("excluded.yaml", []byte(`
- id: http://example.org/test#Dog
  exclude superclasses: y
  exclude class: no
- id: http://example.org/test#Poodle
- id: ""
  ignore: yes
`))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, ExcludedTypeRecord{
		ClassID:             owltest.NS + "Dog",
		ExcludeSuperclasses: true,
		Source:              "excluded.yaml",
		Row:                 2,
	}, records[0])
	assert.True(t, records[1].ExcludeClass, "classes are excluded unless stated otherwise")
	assert.False(t, records[1].ExcludeSuperclasses)
	assert.True(t, records[2].Ignore)

	_, err = ParseExcludedTypes("excluded.yaml", []byte("- exclude class: yes\n"))
	var se *SpecificationError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 1, se.Row)
}

func TestApplyExcludedTypes(t *testing.T) {
	ont := owltest.Animals()
	x := inference.NewExcludedTypes(reasoner.NewHierarchy(ont))
	records := []ExcludedTypeRecord{
		{ClassID: owltest.NS + "Dog", ExcludeSuperclasses: true},
		{ClassID: owltest.NS + "Poodle", ExcludeClass: true},
		{ClassID: owltest.NS + "Unicorn", Ignore: true},
	}
	require.NoError(t, ApplyExcludedTypes(x, ont, records))
	assert.Equal(t, []owl.Entity{owltest.Class("Animal"), owltest.Class("Poodle"), owl.Thing}, x.Classes())
}

func TestApplyExcludedTypesNotAClass(t *testing.T) {
	ont := owltest.New(owltest.IRI("o")).Declare(owltest.Individual("rex")).Ontology()
	x := inference.NewExcludedTypes(nil)

	err := ApplyExcludedTypes(x, ont, []ExcludedTypeRecord{{ClassID: owltest.NS + "rex", Row: 4}})
	var se *SpecificationError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 4, se.Row)
	assert.Contains(t, err.Error(), "not a class")

	err = ApplyExcludedTypes(x, ont, []ExcludedTypeRecord{{ClassID: owltest.NS + "Cat", Row: 5}})
	assert.ErrorIs(t, err, owl.ErrEntityNotFound)
}
