// Package storage persists ontology documents and resolves their imports.
//
// An Engine stores owl.Document values under their name (the version IRI when
// set, else the ontology IRI). Two implementations are provided:
//   - MemoryEngine: maps behind a mutex, for tests and for documents loaded
//     from files for the lifetime of one command
//   - BadgerEngine: BadgerDB-backed persistent store
//
// A Loader turns stored documents back into *owl.Ontology values with their
// imports closure wired up.
//
// Example Usage:
//
//	engine, err := storage.NewBadgerEngine("./data/ontomod")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer engine.Close()
//
//	doc, err := storage.ReadDocumentFile("plant-ontology.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if _, err := engine.PutDocument(doc); err != nil {
//		log.Fatal(err)
//	}
//
//	ont, err := storage.NewLoader(engine).Load(doc.Name())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(len(ont.ImportsClosure()), "ontologies in the closure")
package storage

import (
	"errors"
	"time"

	"github.com/orneryd/ontomod/pkg/owl"
)

// Common errors
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidData   = errors.New("invalid data")
	ErrStorageClosed = errors.New("storage closed")
)

// Engine stores ontology documents. Implementations are safe for concurrent
// use.
type Engine interface {
	// PutDocument stores doc under doc.Name(), replacing any previous
	// version.
	PutDocument(doc *owl.Document) (DocumentInfo, error)

	// GetDocument returns the document stored under name.
	GetDocument(name owl.IRI) (*owl.Document, error)

	// DeleteDocument removes the document stored under name.
	DeleteDocument(name owl.IRI) error

	// ListDocuments describes every stored document, ordered by name.
	ListDocuments() ([]DocumentInfo, error)

	// Importers returns the names of the stored documents that import iri
	// directly, ordered by name.
	Importers(iri owl.IRI) ([]owl.IRI, error)

	Close() error
}

// DocumentInfo describes a stored document.
type DocumentInfo struct {
	Name       owl.IRI   `json:"name"`
	IRI        owl.IRI   `json:"iri,omitempty"`
	VersionIRI owl.IRI   `json:"versionIri,omitempty"`
	Imports    []owl.IRI `json:"imports,omitempty"`
	Axioms     int       `json:"axioms"`
	Revision   string    `json:"revision"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func infoOf(doc *owl.Document, revision string, at time.Time) DocumentInfo {
	return DocumentInfo{
		Name:       doc.Name(),
		IRI:        doc.IRI,
		VersionIRI: doc.VersionIRI,
		Imports:    append([]owl.IRI(nil), doc.Imports...),
		Axioms:     len(doc.Axioms),
		Revision:   revision,
		UpdatedAt:  at,
	}
}

func validate(doc *owl.Document) error {
	if doc == nil {
		return ErrInvalidData
	}
	if doc.Name() == "" {
		return ErrInvalidID
	}
	return nil
}

// copyDocument returns a copy whose slices and maps are not shared with doc.
// Axioms are values and are copied with their operand slices.
func copyDocument(doc *owl.Document) *owl.Document {
	out := &owl.Document{
		IRI:         doc.IRI,
		VersionIRI:  doc.VersionIRI,
		Imports:     append([]owl.IRI(nil), doc.Imports...),
		Annotations: append([]owl.Annotation(nil), doc.Annotations...),
		Axioms:      make([]owl.Axiom, len(doc.Axioms)),
	}
	if doc.Prefixes != nil {
		out.Prefixes = make(map[string]string, len(doc.Prefixes))
		for k, v := range doc.Prefixes {
			out.Prefixes[k] = v
		}
	}
	for i, ax := range doc.Axioms {
		ax.Args = append([]owl.Term(nil), ax.Args...)
		ax.Annotations = append([]owl.Annotation(nil), ax.Annotations...)
		out.Axioms[i] = ax
	}
	return out
}
