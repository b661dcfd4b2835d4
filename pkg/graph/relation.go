// Package graph walks the entity relationship graph of an ontology: the
// subsumption, equivalence, disjointness, domain, range, inverse, typing and
// assertion edges between named entities.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// RelationKind is one kind of edge followed by the walker.
type RelationKind int

const (
	Ancestors RelationKind = iota
	Descendants
	Equivalents
	Disjoints
	Domains
	Ranges
	Inverses
	Types
	PropertyAssertions
)

var relationNames = map[RelationKind]string{
	Ancestors:          "ancestors",
	Descendants:        "descendants",
	Equivalents:        "equivalents",
	Disjoints:          "disjoints",
	Domains:            "domains",
	Ranges:             "ranges",
	Inverses:           "inverses",
	Types:              "types",
	PropertyAssertions: "property assertions",
}

func (k RelationKind) String() string {
	if name, ok := relationNames[k]; ok {
		return name
	}
	return fmt.Sprintf("RelationKind(%d)", int(k))
}

// RelationSet is a set of relation kinds.
type RelationSet uint16

// Relations builds a set from kinds.
func Relations(kinds ...RelationKind) RelationSet {
	var s RelationSet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// With returns s plus k.
func (s RelationSet) With(k RelationKind) RelationSet { return s | 1<<uint(k) }

// Has reports whether k is in s.
func (s RelationSet) Has(k RelationKind) bool { return s&(1<<uint(k)) != 0 }

// IsEmpty reports whether s has no members.
func (s RelationSet) IsEmpty() bool { return s == 0 }

// Kinds returns the members in declaration order.
func (s RelationSet) Kinds() []RelationKind {
	var out []RelationKind
	for k := Ancestors; k <= PropertyAssertions; k++ {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func (s RelationSet) String() string {
	names := make([]string, 0, 9)
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

// ParseRelationKinds parses a comma-separated, case-insensitive list such as
// "ancestors, Property Assertions". The input is NFKC-normalized first; empty
// items are skipped.
func ParseRelationKinds(s string) (RelationSet, error) {
	s = norm.NFKC.String(s)
	var set RelationSet
	for _, item := range strings.Split(s, ",") {
		item = strings.ToLower(strings.TrimSpace(item))
		if item == "" {
			continue
		}
		kind, ok := relationByName(item)
		if !ok {
			return 0, fmt.Errorf("invalid relation kind %q: must be one of %s", item, validRelationNames())
		}
		set = set.With(kind)
	}
	return set, nil
}

func relationByName(name string) (RelationKind, bool) {
	for k, n := range relationNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

func validRelationNames() string {
	names := make([]string, 0, len(relationNames))
	for _, n := range relationNames {
		names = append(names, `"`+n+`"`)
	}
	sort.Strings(names)
	return "{" + strings.Join(names, ", ") + "}"
}
