package reasoner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/owl/owltest"
)

// trialOnly hides any capability table so Probe must issue trial queries.
type trialOnly struct{ Reasoner }

type broken struct{ Reasoner }

func (broken) SuperClasses(owl.Entity, bool) (owl.EntitySet, error) {
	return nil, errors.New("connection reset")
}

func TestProbeCapabilityTable(t *testing.T) {
	ont := owltest.Animals()
	for _, c := range AllCapabilities() {
		s, err := Probe(NewDatalog(ont, nil), c)
		require.NoError(t, err)
		assert.Equal(t, Supported, s, c.String())
	}

	h := NewHierarchy(ont)
	for c, want := range map[Capability]Support{
		ClassHierarchy:    Supported,
		ClassAssertions:   Unsupported,
		ClassEquivalence:  Unsupported,
		PropertyValues:    Unsupported,
		InverseProperties: Unsupported,
	} {
		s, err := Probe(h, c)
		require.NoError(t, err)
		assert.Equal(t, want, s, c.String())
	}
}

func TestProbeTrialQuery(t *testing.T) {
	r := trialOnly{NewHierarchy(owltest.Animals())}

	s, err := Probe(r, ObjectPropertyHierarchy)
	require.NoError(t, err)
	assert.Equal(t, Supported, s)

	s, err = Probe(r, ClassDisjointness)
	require.NoError(t, err)
	assert.Equal(t, Unsupported, s)

	_, err = Probe(broken{r}, ClassHierarchy)
	assert.ErrorContains(t, err, "connection reset")
}

func TestCapabilitySet(t *testing.T) {
	s := Capabilities(ClassHierarchy, PropertyValues)
	assert.True(t, s.Has(PropertyValues))
	assert.False(t, s.Has(ClassAssertions))
	assert.Equal(t, "class hierarchy, property values", s.String())
	assert.Equal(t, "unsupported", Unsupported.String())
}
