package reasoner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/ontomod/pkg/cache"
	"github.com/orneryd/ontomod/pkg/metrics"
	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/owl/owltest"
)

func TestManagerSingletons(t *testing.T) {
	m := NewManager(owltest.Animals(), nil)

	a, err := m.Get("Datalog")
	require.NoError(t, err)
	b, err := m.Get(" datalog ")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.IsType(t, &Datalog{}, a)

	h, err := m.Get("HIERARCHY")
	require.NoError(t, err)
	assert.Equal(t, HierarchyName, h.Name())

	_, err = m.Get("hermit")
	assert.ErrorIs(t, err, ErrUnknownReasoner)
	assert.Equal(t, []string{"datalog", "hierarchy"}, Names())
}

func TestManagerDispose(t *testing.T) {
	m := NewManager(owltest.Animals(), nil)
	r, err := m.Get("datalog")
	require.NoError(t, err)

	m.Dispose()
	_, err = r.SuperClasses(cls("Dog"), true)
	assert.ErrorIs(t, err, ErrDisposed)

	fresh, err := m.Get("datalog")
	require.NoError(t, err)
	assert.NotSame(t, r, fresh)
}

func TestManagerCaching(t *testing.T) {
	m := NewManager(owltest.Animals(), &Config{CacheSize: 64, CacheTTL: time.Minute, Metrics: metrics.New()})
	r, err := m.Get("hierarchy")
	require.NoError(t, err)
	require.IsType(t, &Cached{}, r)

	s, err := Probe(r, ClassHierarchy)
	require.NoError(t, err)
	assert.Equal(t, Supported, s)
	s, err = Probe(r, ClassAssertions)
	require.NoError(t, err)
	assert.Equal(t, Unsupported, s)
}

type counting struct {
	Reasoner
	calls int
}

func (c *counting) SuperClasses(e owl.Entity, direct bool) (owl.EntitySet, error) {
	c.calls++
	return c.Reasoner.SuperClasses(e, direct)
}

func TestCachedInvalidatesOnChange(t *testing.T) {
	ont := owltest.Animals()
	inner := &counting{Reasoner: NewHierarchy(ont)}
	r := NewCached(inner, ont, cache.NewResultCache(16, 0), nil)

	first, err := r.SuperClasses(cls("Dog"), true)
	require.NoError(t, err)
	first.Add(cls("Bogus"))

	second, err := r.SuperClasses(cls("Dog"), true)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, set(cls("Animal")), second.Sorted(), "cached result is isolated from callers")

	ont.AddAxiom(owl.NewSubClassOf(named(cls("Dog")), named(cls("Pet"))))
	third, err := r.SuperClasses(cls("Dog"), true)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, set(cls("Animal"), cls("Pet")), third.Sorted())

	_, err = r.Types(ind("x"), true)
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.Equal(t, uint64(1), r.Stats().Hits)
	assert.Equal(t, uint64(1), r.Stats().Stale)
}
