package module

import (
	"fmt"
	"strings"
)

// Method selects how an entity in the signature is turned into module axioms.
type Method int

const (
	// Locality hands the entity to the locality-based module extractor, which
	// pulls in every axiom needed to preserve its entailments.
	Locality Method = iota + 1
	// Single copies only the entity's declaration, characteristics and
	// annotations.
	Single
)

// Methods lists every extraction method in processing order.
var Methods = []Method{Locality, Single}

var methodNames = map[Method]string{
	Locality: "locality",
	Single:   "single",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod parses a method name case-insensitively.
func ParseMethod(s string) (Method, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Methods {
		if methodNames[m] == want {
			return m, nil
		}
	}
	return 0, fmt.Errorf("invalid module extraction method %q: must be one of \"locality\", \"single\"", s)
}
