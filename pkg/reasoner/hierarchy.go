package reasoner

import (
	"github.com/orneryd/ontomod/pkg/graph"
	"github.com/orneryd/ontomod/pkg/owl"
)

// HierarchyName is the manager name of the told-hierarchy reasoner.
const HierarchyName = "hierarchy"

var hierarchyCapabilities = Capabilities(ClassHierarchy, ObjectPropertyHierarchy, DataPropertyHierarchy)

// Hierarchy answers class and property hierarchy queries from asserted
// sub-axioms alone. It assumes the ontology is consistent and reports every
// other query as unsupported.
type Hierarchy struct {
	ont      *owl.Ontology
	walker   *graph.Walker
	disposed bool
}

// NewHierarchy returns a told-hierarchy reasoner over ont.
func NewHierarchy(ont *owl.Ontology) *Hierarchy {
	return &Hierarchy{ont: ont, walker: graph.NewWalker(ont)}
}

// Name returns "hierarchy".
func (h *Hierarchy) Name() string { return HierarchyName }

// Capabilities reports the hierarchy capabilities only.
func (h *Hierarchy) Capabilities() CapabilitySet { return hierarchyCapabilities }

// IsConsistent always reports true.
func (h *Hierarchy) IsConsistent() (bool, error) {
	if h.disposed {
		return false, ErrDisposed
	}
	return true, nil
}

func (h *Hierarchy) SuperClasses(c owl.Entity, direct bool) (owl.EntitySet, error) {
	supers, err := h.above(c, direct)
	if err != nil || !h.ont.ContainsEntityInClosure(c) || c == owl.Thing {
		return supers, err
	}
	if !direct || len(supers) == 0 {
		supers.Add(owl.Thing)
	}
	return supers, nil
}

func (h *Hierarchy) SubClasses(c owl.Entity, direct bool) (owl.EntitySet, error) {
	return h.reduce(c, graph.Descendants, direct)
}

func (h *Hierarchy) SuperObjectProperties(p owl.Entity, direct bool) (owl.EntitySet, error) {
	return h.above(p, direct)
}

func (h *Hierarchy) SuperDataProperties(p owl.Entity, direct bool) (owl.EntitySet, error) {
	return h.above(p, direct)
}

func (h *Hierarchy) above(e owl.Entity, direct bool) (owl.EntitySet, error) {
	return h.reduce(e, graph.Ancestors, direct)
}

// reduce returns the told strict ancestors or descendants of e, keeping only
// the nearest ones when direct is set.
func (h *Hierarchy) reduce(e owl.Entity, kind graph.RelationKind, direct bool) (owl.EntitySet, error) {
	if h.disposed {
		return nil, ErrDisposed
	}
	if !h.ont.ContainsEntityInClosure(e) {
		return owl.NewEntitySet(), nil
	}
	related := h.strict(e, kind)
	if !direct {
		return related, nil
	}
	reach := make(map[owl.Entity]owl.EntitySet, len(related))
	for x := range related {
		reach[x], _ = h.walker.Related(x, graph.Relations(kind))
	}
	out := owl.NewEntitySet()
	for x := range related {
		nearest := true
		for other := range related {
			if other != x && reach[other].Contains(x) && !reach[x].Contains(other) {
				nearest = false
				break
			}
		}
		if nearest {
			out.Add(x)
		}
	}
	return out, nil
}

// strict returns the closure of e over kind, minus e and anything in a cycle
// with it.
func (h *Hierarchy) strict(e owl.Entity, kind graph.RelationKind) owl.EntitySet {
	reverse := graph.Ancestors
	if kind == graph.Ancestors {
		reverse = graph.Descendants
	}
	related, _ := h.walker.Related(e, graph.Relations(kind))
	back, _ := h.walker.Related(e, graph.Relations(reverse))
	out := owl.NewEntitySet()
	for x := range related {
		if !back.Contains(x) {
			out.Add(x)
		}
	}
	return out
}

func (h *Hierarchy) EquivalentClasses(owl.Entity) (owl.EntitySet, error) {
	return nil, unsupported(HierarchyName, "equivalent classes")
}

func (h *Hierarchy) DisjointClasses(owl.Entity) (owl.EntitySet, error) {
	return nil, unsupported(HierarchyName, "disjoint classes")
}

func (h *Hierarchy) InverseObjectProperties(owl.Entity) (owl.EntitySet, error) {
	return nil, unsupported(HierarchyName, "inverse object properties")
}

func (h *Hierarchy) Types(owl.Entity, bool) (owl.EntitySet, error) {
	return nil, unsupported(HierarchyName, "types")
}

func (h *Hierarchy) ObjectPropertyValues(owl.Entity, owl.Entity) (owl.EntitySet, error) {
	return nil, unsupported(HierarchyName, "object property values")
}

func (h *Hierarchy) DataPropertyValues(owl.Entity, owl.Entity) ([]owl.Term, error) {
	return nil, unsupported(HierarchyName, "data property values")
}

// UnsatisfiableClasses returns owl:Nothing only.
func (h *Hierarchy) UnsatisfiableClasses() (owl.EntitySet, error) {
	if h.disposed {
		return nil, ErrDisposed
	}
	return owl.NewEntitySet(owl.Nothing), nil
}

// Refresh is a no-op; every query reads the ontology directly.
func (h *Hierarchy) Refresh() error {
	if h.disposed {
		return ErrDisposed
	}
	return nil
}

// Dispose marks the reasoner unusable.
func (h *Hierarchy) Dispose() { h.disposed = true }
