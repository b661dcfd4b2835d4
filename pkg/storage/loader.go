package storage

import (
	"errors"
	"fmt"

	"github.com/orneryd/ontomod/pkg/owl"
)

// Loader rebuilds ontologies from one or more engines and wires their
// imports. Engines are searched in order, so documents in an earlier engine
// shadow those of a later one.
//
// Every document is loaded at most once per Loader, so ontologies that share
// an import share the same *owl.Ontology and import cycles terminate.
type Loader struct {
	engines []Engine
	loaded  map[owl.IRI]*owl.Ontology
}

// NewLoader creates a Loader reading from engines.
func NewLoader(engines ...Engine) *Loader {
	return &Loader{engines: engines, loaded: make(map[owl.IRI]*owl.Ontology)}
}

// Load returns the ontology stored under name with its whole imports closure
// resolved. A missing import fails with an error wrapping ErrNotFound.
func (l *Loader) Load(name owl.IRI) (*owl.Ontology, error) {
	root, err := l.get(name)
	if err != nil {
		return nil, err
	}
	if err := l.Resolve(root); err != nil {
		return nil, err
	}
	return root, nil
}

// Resolve wires the imports of ont, and transitively of its imports, from the
// engine. Imports that are already resolved are kept.
func (l *Loader) Resolve(ont *owl.Ontology) error {
	if name := nameOf(ont); name != "" {
		if _, ok := l.loaded[name]; !ok {
			l.loaded[name] = ont
		}
	}

	visited := map[*owl.Ontology]bool{ont: true}
	stack := []*owl.Ontology{ont}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		resolved := make(map[owl.IRI]bool)
		for _, imp := range cur.Imports() {
			resolved[nameOf(imp)] = true
		}
		for _, iri := range cur.ImportIRIs() {
			if resolved[iri] {
				continue
			}
			imp, err := l.get(iri)
			if errors.Is(err, ErrNotFound) {
				return fmt.Errorf("import %s of %s: %w", iri, nameOf(cur), err)
			}
			if err != nil {
				return err
			}
			cur.AddImport(imp)
		}
		for _, imp := range cur.Imports() {
			if !visited[imp] {
				visited[imp] = true
				stack = append(stack, imp)
			}
		}
	}
	return nil
}

// get returns the ontology stored under name without resolving its imports.
func (l *Loader) get(name owl.IRI) (*owl.Ontology, error) {
	if ont, ok := l.loaded[name]; ok {
		return ont, nil
	}
	doc, err := l.fetch(name)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	ont, err := owl.FromDocument(doc)
	if err != nil {
		return nil, err
	}
	l.loaded[name] = ont
	return ont, nil
}

func (l *Loader) fetch(name owl.IRI) (*owl.Document, error) {
	for _, engine := range l.engines {
		doc, err := engine.GetDocument(name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return doc, err
	}
	return nil, ErrNotFound
}

func nameOf(ont *owl.Ontology) owl.IRI {
	id := ont.ID()
	if id.VersionIRI != "" {
		return id.VersionIRI
	}
	return id.IRI
}
