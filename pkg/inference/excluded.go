package inference

import (
	"fmt"

	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/reasoner"
)

// ExcludedTypes is a set of classes that inferred class assertions must not
// use. A nil *ExcludedTypes excludes nothing.
type ExcludedTypes struct {
	r       reasoner.Reasoner
	classes owl.EntitySet
}

// NewExcludedTypes returns an empty set. r expands superclasses in Add and may
// be nil when superclasses are never requested.
func NewExcludedTypes(r reasoner.Reasoner) *ExcludedTypes {
	return &ExcludedTypes{r: r, classes: owl.NewEntitySet()}
}

// Add excludes c itself when excludeClass is set, and every superclass of c,
// direct or not, when excludeSuperclasses is set.
func (x *ExcludedTypes) Add(c owl.Entity, excludeClass, excludeSuperclasses bool) error {
	if excludeClass {
		x.classes.Add(c)
	}
	if !excludeSuperclasses {
		return nil
	}
	if x.r == nil {
		return fmt.Errorf("exclude superclasses of %s: no reasoner", c)
	}
	supers, err := x.r.SuperClasses(c, false)
	if err != nil {
		return fmt.Errorf("exclude superclasses of %s: %w", c, err)
	}
	x.classes.Union(supers)
	return nil
}

// Contains reports whether c is excluded.
func (x *ExcludedTypes) Contains(c owl.Entity) bool {
	return x != nil && x.classes.Contains(c)
}

// Len returns the number of excluded classes.
func (x *ExcludedTypes) Len() int {
	if x == nil {
		return 0
	}
	return len(x.classes)
}

// Classes returns the excluded classes sorted by IRI.
func (x *ExcludedTypes) Classes() []owl.Entity {
	if x == nil {
		return nil
	}
	return x.classes.Sorted()
}

// Clear empties the set.
func (x *ExcludedTypes) Clear() { x.classes = owl.NewEntitySet() }
