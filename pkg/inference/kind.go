package inference

import (
	"fmt"
	"strings"

	"github.com/orneryd/ontomod/pkg/reasoner"
)

// Kind is a family of inferred axioms to generate.
type Kind int

const (
	Subclasses Kind = iota
	SubDataProperties
	SubObjectProperties
	Types
	EquivalentClasses
	DisjointClasses
	InverseObjectProperties
	PropertyValues

	numKinds
)

var kindNames = [numKinds]string{
	"subclasses",
	"subdata properties",
	"subobject properties",
	"types",
	"equivalent classes",
	"disjoint classes",
	"inverse object properties",
	"property values",
}

var kindCapabilities = [numKinds]reasoner.Capability{
	reasoner.ClassHierarchy,
	reasoner.DataPropertyHierarchy,
	reasoner.ObjectPropertyHierarchy,
	reasoner.ClassAssertions,
	reasoner.ClassEquivalence,
	reasoner.ClassDisjointness,
	reasoner.InverseProperties,
	reasoner.PropertyValues,
}

// AllKinds lists every kind.
func AllKinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Capability returns the reasoner capability needed to generate k.
func (k Kind) Capability() reasoner.Capability { return kindCapabilities[k] }

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses one kind name, ignoring case and surrounding space.
func ParseKind(s string) (Kind, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for i, name := range kindNames {
		if name == want {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unsupported inference type %q", s)
}

// ParseKinds parses a comma-separated list of kind names. Duplicates are
// dropped and order is preserved.
func ParseKinds(s string) ([]Kind, error) {
	var out []Kind
	seen := make(map[Kind]bool)
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, err := ParseKind(part)
		if err != nil {
			return nil, err
		}
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out, nil
}

func hasKind(kinds []Kind, k Kind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}
