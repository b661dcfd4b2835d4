package owl

import (
	"fmt"
	"sort"
)

// Document is the serializable form of an ontology. Imports are recorded by IRI
// and resolved by whoever loads the document.
type Document struct {
	IRI         IRI               `json:"iri,omitempty"`
	VersionIRI  IRI               `json:"versionIri,omitempty"`
	Imports     []IRI             `json:"imports,omitempty"`
	Prefixes    map[string]string `json:"prefixes,omitempty"`
	Annotations []Annotation      `json:"annotations,omitempty"`
	Axioms      []Axiom           `json:"axioms"`
}

// Name returns the IRI a document is stored and imported under: the version
// IRI when set, else the ontology IRI.
func (d *Document) Name() IRI {
	if d.VersionIRI != "" {
		return d.VersionIRI
	}
	return d.IRI
}

// ToDocument snapshots the ontology. Axioms are ordered by key.
func (o *Ontology) ToDocument() *Document {
	d := &Document{
		IRI:         o.id.IRI,
		VersionIRI:  o.id.VersionIRI,
		Imports:     o.ImportIRIs(),
		Annotations: o.Annotations(),
		Axioms:      o.Axioms(),
	}
	builtin := NewPrefixMap()
	for _, p := range o.prefixes.Prefixes() {
		ns := o.prefixes.prefixes[p]
		if builtin.prefixes[p] == ns {
			continue
		}
		if d.Prefixes == nil {
			d.Prefixes = make(map[string]string)
		}
		d.Prefixes[p] = ns
	}
	return d
}

// FromDocument rebuilds an ontology from d. Operands of n-ary axioms are
// re-canonicalized and operand counts are checked. Imports are recorded by IRI
// only; see storage.Loader for resolution.
func FromDocument(d *Document) (*Ontology, error) {
	o := New(d.IRI)
	o.id.VersionIRI = d.VersionIRI
	prefixes := make([]string, 0, len(d.Prefixes))
	for p := range d.Prefixes {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		o.prefixes.Add(p, d.Prefixes[p])
	}
	for _, iri := range d.Imports {
		o.addImportIRI(iri)
	}
	for _, ann := range d.Annotations {
		o.AddAnnotation(ann)
	}
	for i, raw := range d.Axioms {
		ax, err := NewAxiom(raw.Type, raw.Args, raw.Annotations)
		if err != nil {
			return nil, fmt.Errorf("axiom %d of %s: %w", i, d.Name(), err)
		}
		o.AddAxiom(ax)
	}
	return o, nil
}
