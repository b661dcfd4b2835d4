package owl

import (
	"sort"

	"github.com/orneryd/ontomod/pkg/pool"
)

// AxiomSet is a set of axioms under structural equality.
type AxiomSet struct {
	items map[string]Axiom
}

// NewAxiomSet returns a set holding axioms.
func NewAxiomSet(axioms ...Axiom) AxiomSet {
	s := AxiomSet{items: make(map[string]Axiom, len(axioms))}
	for _, ax := range axioms {
		s.items[ax.Key()] = ax
	}
	return s
}

// Add inserts ax and reports whether it was absent.
func (s *AxiomSet) Add(ax Axiom) bool {
	if s.items == nil {
		s.items = make(map[string]Axiom)
	}
	k := ax.Key()
	if _, ok := s.items[k]; ok {
		return false
	}
	s.items[k] = ax
	return true
}

// Remove deletes ax and reports whether it was present.
func (s *AxiomSet) Remove(ax Axiom) bool {
	k := ax.Key()
	if _, ok := s.items[k]; !ok {
		return false
	}
	delete(s.items, k)
	return true
}

// Contains reports membership.
func (s AxiomSet) Contains(ax Axiom) bool {
	_, ok := s.items[ax.Key()]
	return ok
}

// Len returns the number of axioms.
func (s AxiomSet) Len() int { return len(s.items) }

// Union adds every axiom of other.
func (s *AxiomSet) Union(other AxiomSet) {
	for k, ax := range other.items {
		if s.items == nil {
			s.items = make(map[string]Axiom, len(other.items))
		}
		s.items[k] = ax
	}
}

// Slice returns the axioms ordered by key.
func (s AxiomSet) Slice() []Axiom {
	keys := pool.GetKeySlice()
	defer pool.PutKeySlice(keys)
	for k := range s.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Axiom, len(keys))
	for i, k := range keys {
		out[i] = s.items[k]
	}
	return out
}

// Keys returns the sorted axiom keys.
func (s AxiomSet) Keys() []string {
	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
