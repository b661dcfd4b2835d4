package reasoner

import (
	"errors"
	"strconv"
	"time"

	"github.com/orneryd/ontomod/pkg/cache"
	"github.com/orneryd/ontomod/pkg/metrics"
	"github.com/orneryd/ontomod/pkg/owl"
)

// Cached memoizes the answers of another reasoner. Answers are stamped with
// the closure revision they were computed at, so a change to the ontology or
// its imports invalidates them.
type Cached struct {
	inner   Reasoner
	ont     *owl.Ontology
	cache   *cache.ResultCache
	metrics *metrics.Metrics
}

// NewCached wraps inner. m may be nil.
func NewCached(inner Reasoner, ont *owl.Ontology, c *cache.ResultCache, m *metrics.Metrics) *Cached {
	return &Cached{inner: inner, ont: ont, cache: c, metrics: m}
}

// Unwrap returns the wrapped reasoner.
func (c *Cached) Unwrap() Reasoner { return c.inner }

// Name returns the wrapped reasoner's name.
func (c *Cached) Name() string { return c.inner.Name() }

// Stats returns the cache statistics.
func (c *Cached) Stats() cache.Stats { return c.cache.Stats() }

func memo[T any](c *Cached, query string, args []string, clone func(T) T, fn func() (T, error)) (T, error) {
	key := cache.Key(query, args...)
	rev := c.ont.ClosureRevision()
	if v, ok := c.cache.Get(key, rev); ok {
		return clone(v.(T)), nil
	}
	start := time.Now()
	v, err := fn()
	c.metrics.ObserveQuery(c.inner.Name(), query, time.Since(start))
	if err != nil {
		if errors.Is(err, ErrUnsupported) {
			c.metrics.IncUnsupported(c.inner.Name(), query)
		}
		return v, err
	}
	c.cache.Put(key, rev, clone(v))
	return v, nil
}

func cloneSet(s owl.EntitySet) owl.EntitySet {
	out := make(owl.EntitySet, len(s))
	out.Union(s)
	return out
}

func cloneTerms(ts []owl.Term) []owl.Term { return append([]owl.Term(nil), ts...) }

func same[T any](v T) T { return v }

func entityArgs(direct bool, entities ...owl.Entity) []string {
	args := make([]string, 0, 2*len(entities)+1)
	for _, e := range entities {
		args = append(args, e.Kind.String(), string(e.IRI))
	}
	return append(args, strconv.FormatBool(direct))
}

func (c *Cached) IsConsistent() (bool, error) {
	return memo(c, "consistent", nil, same[bool], c.inner.IsConsistent)
}

func (c *Cached) SuperClasses(e owl.Entity, direct bool) (owl.EntitySet, error) {
	return memo(c, "superclasses", entityArgs(direct, e), cloneSet, func() (owl.EntitySet, error) {
		return c.inner.SuperClasses(e, direct)
	})
}

func (c *Cached) SubClasses(e owl.Entity, direct bool) (owl.EntitySet, error) {
	return memo(c, "subclasses", entityArgs(direct, e), cloneSet, func() (owl.EntitySet, error) {
		return c.inner.SubClasses(e, direct)
	})
}

func (c *Cached) EquivalentClasses(e owl.Entity) (owl.EntitySet, error) {
	return memo(c, "equivalent classes", entityArgs(false, e), cloneSet, func() (owl.EntitySet, error) {
		return c.inner.EquivalentClasses(e)
	})
}

func (c *Cached) DisjointClasses(e owl.Entity) (owl.EntitySet, error) {
	return memo(c, "disjoint classes", entityArgs(false, e), cloneSet, func() (owl.EntitySet, error) {
		return c.inner.DisjointClasses(e)
	})
}

func (c *Cached) SuperObjectProperties(p owl.Entity, direct bool) (owl.EntitySet, error) {
	return memo(c, "super object properties", entityArgs(direct, p), cloneSet, func() (owl.EntitySet, error) {
		return c.inner.SuperObjectProperties(p, direct)
	})
}

func (c *Cached) SuperDataProperties(p owl.Entity, direct bool) (owl.EntitySet, error) {
	return memo(c, "super data properties", entityArgs(direct, p), cloneSet, func() (owl.EntitySet, error) {
		return c.inner.SuperDataProperties(p, direct)
	})
}

func (c *Cached) InverseObjectProperties(p owl.Entity) (owl.EntitySet, error) {
	return memo(c, "inverse object properties", entityArgs(false, p), cloneSet, func() (owl.EntitySet, error) {
		return c.inner.InverseObjectProperties(p)
	})
}

func (c *Cached) Types(i owl.Entity, direct bool) (owl.EntitySet, error) {
	return memo(c, "types", entityArgs(direct, i), cloneSet, func() (owl.EntitySet, error) {
		return c.inner.Types(i, direct)
	})
}

func (c *Cached) ObjectPropertyValues(i, p owl.Entity) (owl.EntitySet, error) {
	return memo(c, "object property values", entityArgs(false, i, p), cloneSet, func() (owl.EntitySet, error) {
		return c.inner.ObjectPropertyValues(i, p)
	})
}

func (c *Cached) DataPropertyValues(i, p owl.Entity) ([]owl.Term, error) {
	return memo(c, "data property values", entityArgs(false, i, p), cloneTerms, func() ([]owl.Term, error) {
		return c.inner.DataPropertyValues(i, p)
	})
}

func (c *Cached) UnsatisfiableClasses() (owl.EntitySet, error) {
	return memo(c, "unsatisfiable classes", nil, cloneSet, c.inner.UnsatisfiableClasses)
}

// Refresh clears the cache and refreshes the wrapped reasoner.
func (c *Cached) Refresh() error {
	c.cache.Clear()
	return c.inner.Refresh()
}

// Dispose clears the cache and disposes the wrapped reasoner.
func (c *Cached) Dispose() {
	c.cache.Clear()
	c.inner.Dispose()
}
