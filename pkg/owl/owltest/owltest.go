// Package owltest provides small ontology builders for tests.
package owltest

import (
	"github.com/orneryd/ontomod/pkg/owl"
)

// NS is the namespace of every fixture entity.
const NS = "http://example.org/test#"

// IRI returns NS + local.
func IRI(local string) owl.IRI { return owl.IRI(NS + local) }

// Class returns the fixture class local.
func Class(local string) owl.Entity { return owl.NewClass(IRI(local)) }

// ObjectProperty returns the fixture object property local.
func ObjectProperty(local string) owl.Entity { return owl.NewObjectProperty(IRI(local)) }

// DataProperty returns the fixture data property local.
func DataProperty(local string) owl.Entity { return owl.NewDataProperty(IRI(local)) }

// AnnotationProperty returns the fixture annotation property local.
func AnnotationProperty(local string) owl.Entity { return owl.NewAnnotationProperty(IRI(local)) }

// Individual returns the fixture individual local.
func Individual(local string) owl.Entity { return owl.NewIndividual(IRI(local)) }

// Builder assembles an ontology fluently.
type Builder struct {
	ont *owl.Ontology
}

// New starts a builder for an ontology named iri.
func New(iri owl.IRI) *Builder { return &Builder{ont: owl.New(iri)} }

// Declare adds declarations for entities.
func (b *Builder) Declare(entities ...owl.Entity) *Builder {
	for _, e := range entities {
		b.ont.AddAxiom(owl.NewDeclaration(e))
	}
	return b
}

// SubClass adds sub ⊑ sup between named classes, declaring both.
func (b *Builder) SubClass(sub, sup owl.Entity) *Builder {
	b.Declare(sub, sup)
	b.ont.AddAxiom(owl.NewSubClassOf(owl.Named(sub), owl.Named(sup)))
	return b
}

// Label adds an rdfs:label annotation assertion.
func (b *Builder) Label(e owl.Entity, text string) *Builder {
	b.ont.AddAxiom(owl.NewAnnotationAssertion(owl.Label, e.IRI, owl.Literal(text, "")))
	return b
}

// Axioms adds arbitrary axioms.
func (b *Builder) Axioms(axioms ...owl.Axiom) *Builder {
	b.ont.AddAxioms(axioms...)
	return b
}

// Import adds imp as a direct import.
func (b *Builder) Import(imp *owl.Ontology) *Builder {
	b.ont.AddImport(imp)
	return b
}

// Ontology returns the built ontology.
func (b *Builder) Ontology() *owl.Ontology { return b.ont }

// Animals returns the Thing > Animal > Dog > Poodle hierarchy with the
// redundant assertion Poodle ⊑ Animal and a labelled Dog.
func Animals() *owl.Ontology {
	return New(IRI("animals")).
		SubClass(Class("Animal"), owl.Thing).
		SubClass(Class("Dog"), Class("Animal")).
		SubClass(Class("Poodle"), Class("Dog")).
		SubClass(Class("Poodle"), Class("Animal")).
		Label(Class("Dog"), "dog").
		Ontology()
}
