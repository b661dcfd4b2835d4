package owl

import (
	"fmt"
	"sort"
	"strings"
)

// IRI is a globally unique identifier for an ontology or one of its entities.
type IRI string

// String returns the IRI text.
func (i IRI) String() string { return string(i) }

// Well-known namespaces.
const (
	NamespaceOWL      = "http://www.w3.org/2002/07/owl#"
	NamespaceRDFS     = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceRDF      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceXSD      = "http://www.w3.org/2001/XMLSchema#"
	NamespaceDC       = "http://purl.org/dc/elements/1.1/"
	NamespaceOBO      = "http://purl.obolibrary.org/obo/"
	NamespaceOBOInOWL = "http://www.geneontology.org/formats/oboInOwl#"
)

// Vocabulary IRIs used by extraction and consolidation.
const (
	IRIThing                IRI = NamespaceOWL + "Thing"
	IRINothing              IRI = NamespaceOWL + "Nothing"
	IRITopObjectProperty    IRI = NamespaceOWL + "topObjectProperty"
	IRIBottomObjectProperty IRI = NamespaceOWL + "bottomObjectProperty"
	IRITopDataProperty      IRI = NamespaceOWL + "topDataProperty"
	IRIBottomDataProperty   IRI = NamespaceOWL + "bottomDataProperty"
	IRILabel                IRI = NamespaceRDFS + "label"
	IRISource               IRI = NamespaceDC + "source"
	IRIIsInferred           IRI = NamespaceOBOInOWL + "is_inferred"
)

// PrefixMap expands compact identifiers into full IRIs.
//
// Three identifier shapes are accepted by Expand:
//   - full IRIs ("http://purl.obolibrary.org/obo/PO_0000003")
//   - CURIEs with a registered prefix ("obo:PO_0000003", "owl:Thing")
//   - OBO IDs ("PO:0000003"), which expand to NamespaceOBO + "PO_0000003"
//
// Labels ('leaf') are not resolved here.
type PrefixMap struct {
	prefixes map[string]string
}

// NewPrefixMap returns a PrefixMap preloaded with the owl, rdf, rdfs, xsd, dc, obo and
// oboInOwl prefixes.
func NewPrefixMap() *PrefixMap {
	return &PrefixMap{
		prefixes: map[string]string{
			"owl":      NamespaceOWL,
			"rdf":      NamespaceRDF,
			"rdfs":     NamespaceRDFS,
			"xsd":      NamespaceXSD,
			"dc":       NamespaceDC,
			"obo":      NamespaceOBO,
			"oboInOwl": NamespaceOBOInOWL,
		},
	}
}

// Add registers (or replaces) a prefix.
func (p *PrefixMap) Add(prefix, namespace string) {
	p.prefixes[prefix] = namespace
}

// Prefixes returns the registered prefixes in sorted order.
func (p *PrefixMap) Prefixes() []string {
	out := make([]string, 0, len(p.prefixes))
	for k := range p.prefixes {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Expand converts id into a full IRI.
func (p *PrefixMap) Expand(id string) (IRI, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("empty identifier")
	}
	if strings.HasPrefix(id, "<") && strings.HasSuffix(id, ">") {
		return IRI(id[1 : len(id)-1]), nil
	}
	if strings.Contains(id, "://") || strings.HasPrefix(id, "urn:") {
		return IRI(id), nil
	}

	prefix, local, ok := strings.Cut(id, ":")
	if !ok {
		return "", fmt.Errorf("cannot expand identifier %q: no prefix", id)
	}
	if ns, found := p.prefixes[prefix]; found {
		return IRI(ns + local), nil
	}
	if isOBOID(prefix, local) {
		return IRI(NamespaceOBO + prefix + "_" + local), nil
	}
	return "", fmt.Errorf("cannot expand identifier %q: unknown prefix %q", id, prefix)
}

// isOBOID reports whether prefix:local looks like "PO:0000003".
func isOBOID(prefix, local string) bool {
	if prefix == "" || local == "" {
		return false
	}
	for _, r := range prefix {
		if !(r >= 'A' && r <= 'Z') && !(r >= 'a' && r <= 'z') && r != '_' {
			return false
		}
	}
	for _, r := range local {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
