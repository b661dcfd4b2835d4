package termspec

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/ontomod/pkg/graph"
	"github.com/orneryd/ontomod/pkg/module"
	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/owl/owltest"
)

const terms = `
- id: http://example.org/test#Dog
  related: Descendants
- id: http://example.org/test#Animal
  method: single
- id: http://example.org/test#Poodle
  exclude: yes
- id: http://example.org/test#Unicorn
  ignore: T
`

func TestParse(t *testing.T) {
	records, err := Parse("terms.yaml", []byte(terms))
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, Record{
		EntityID:      owltest.NS + "Dog",
		Method:        module.Locality,
		RelationKinds: graph.Relations(graph.Descendants),
		Source:        "terms.yaml",
		Row:           2,
	}, records[0])
	assert.Equal(t, module.Single, records[1].Method)
	assert.True(t, records[2].Exclude)
	assert.True(t, records[3].Ignore)
	assert.Equal(t, 8, records[3].Row)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		row  int
		msg  string
	}{
		{"missing id", "- method: single\n", 1, `"id" field is required`},
		{"bad method", "- id: a:b\n- id: a:c\n  method: greedy\n", 2, "invalid module extraction method"},
		{"bad relation", "- id: a:b\n  related: cousins\n", 1, "invalid relation kind"},
		{"not a list", "id: a:b\n", 1, "expected a list"},
		{"not a mapping", "- a:b\n", 1, "expected a mapping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("terms.yaml", []byte(tt.data))
			var se *SpecificationError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.row, se.Row)
			assert.Equal(t, "terms.yaml", se.Source)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse("terms.yaml", []byte("- id: [unclosed\n"))
	var se *SpecificationError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, err.Error(), "invalid YAML")
}

func TestParseEmpty(t *testing.T) {
	records, err := Parse("empty.yaml", nil)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadFileAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(terms), 0o644))

	records, err := LoadFile(path)
	require.NoError(t, err)

	x := module.New(owltest.Animals(), nil, nil)
	require.NoError(t, Apply(x, records))

	assert.Equal(t, []owl.Entity{owltest.Class("Dog"), owltest.Class("Poodle")}, x.Signature(module.Locality))
	assert.Equal(t, []owl.Entity{owltest.Class("Animal")}, x.Signature(module.Single))
	assert.Equal(t, []owl.Entity{owltest.Class("Poodle")}, x.Excluded())
}

func TestApplyUnknownEntity(t *testing.T) {
	records, err := Parse("terms.yaml", []byte("- id: http://example.org/test#Dog\n- id: http://example.org/test#Cat\n"))
	require.NoError(t, err)

	err = Apply(module.New(owltest.Animals(), nil, nil), records)
	var se *SpecificationError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 2, se.Row)
	assert.True(t, errors.Is(err, owl.ErrEntityNotFound))
	var lookup *owl.LookupError
	assert.ErrorAs(t, err, &lookup)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsTrue(t *testing.T) {
	for _, s := range []string{"t", "TRUE", " y ", "Yes"} {
		assert.True(t, isTrue(s), s)
	}
	for _, s := range []string{"", "no", "1", "false"} {
		assert.False(t, isTrue(s), s)
	}
}
