package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/ontomod/pkg/reasoner"
)

func TestParseKinds(t *testing.T) {
	tests := []struct {
		in      string
		want    []Kind
		wantErr bool
	}{
		{in: "subclasses", want: []Kind{Subclasses}},
		{in: "Types, subclasses,types", want: []Kind{Types, Subclasses}},
		{in: " property values ,inverse object properties", want: []Kind{PropertyValues, InverseObjectProperties}},
		{in: "", want: nil},
		{in: "subclasses,,", want: []Kind{Subclasses}},
		{in: "superclasses", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKinds(tt.in)
			if tt.wantErr {
				assert.ErrorContains(t, err, "unsupported inference type")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range AllKinds() {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	assert.Len(t, AllKinds(), len(reasoner.AllCapabilities()))
}

func TestKindCapability(t *testing.T) {
	assert.Equal(t, reasoner.ClassHierarchy, Subclasses.Capability())
	assert.Equal(t, reasoner.ClassAssertions, Types.Capability())
	assert.Equal(t, reasoner.PropertyValues, PropertyValues.Capability())
}

func TestKindText(t *testing.T) {
	var k Kind
	require.NoError(t, k.UnmarshalText([]byte("Disjoint Classes")))
	assert.Equal(t, DisjointClasses, k)

	b, err := SubDataProperties.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "subdata properties", string(b))
}
