package inference

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/orneryd/ontomod/pkg/metrics"
	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/reasoner"
)

// inferredMarker is attached to merged axioms when annotation is requested.
var inferredMarker = owl.Annotation{Property: owl.IsInferred, Value: owl.Literal("true", "")}

// Report counts what each step of a run did.
type Report struct {
	// Active and Unsupported partition the requested kinds.
	Active      []Kind
	Unsupported []Kind

	Inverses   int // inverse assertions materialized before generation
	Generated  int // candidates produced by the generators
	Duplicates int // candidates already asserted
	Trivial    int // candidates mentioning a sentinel entity
	Excluded   int // class assertions on excluded types
	Merged     int // candidates added to the ontology
	Pruned     int // redundant subclass axioms removed afterwards
}

// Consolidator cleans a scratch ontology of candidate axioms and merges the
// survivors into the source ontology.
type Consolidator struct {
	ont     *owl.Ontology
	r       reasoner.Reasoner
	log     *zap.Logger
	metrics *metrics.Metrics

	// Annotate marks merged axioms with oboInOwl:is_inferred "true".
	Annotate bool
	// Excluded lists the classes inferred class assertions may not use.
	Excluded *ExcludedTypes
}

// NewConsolidator returns a consolidator merging into ont. config may be nil.
func NewConsolidator(ont *owl.Ontology, r reasoner.Reasoner, config *Config) *Consolidator {
	return &Consolidator{
		ont:     ont,
		r:       r,
		log:     config.logger(),
		metrics: config.metrics(),
	}
}

// Consolidate runs, in order: dedup against the asserted closure, the
// trivial-axiom filter, the excluded-type filter (Types only), annotation,
// the merge, and redundant subclass pruning (Subclasses only). scratch is
// consumed. Everything up to the merge works on scratch; if pruning fails the
// merged axioms are removed again, so an error always leaves the source
// ontology as it was.
func (c *Consolidator) Consolidate(scratch *owl.Ontology, kinds []Kind) (Report, error) {
	start := time.Now()
	report := Report{Generated: scratch.AxiomCount()}

	for _, ax := range scratch.Axioms() {
		if c.ont.ContainsAxiomInClosure(ax, true) {
			scratch.RemoveAxiom(ax)
			report.Duplicates++
		}
	}

	for _, ax := range scratch.Axioms() {
		if trivial(ax) {
			scratch.RemoveAxiom(ax)
			report.Trivial++
		}
	}

	if hasKind(kinds, Types) && c.Excluded.Len() > 0 {
		for _, ax := range scratch.AxiomsOfType(owl.ClassAssertion) {
			class := ax.Arg(0)
			if class.IsNamed() && c.Excluded.Contains(class.Entity) {
				scratch.RemoveAxiom(ax)
				report.Excluded++
			}
		}
	}

	candidates := scratch.Axioms()
	if c.Annotate {
		for i, ax := range candidates {
			candidates[i] = ax.Annotated(inferredMarker)
		}
	}

	merged := make([]owl.Axiom, 0, len(candidates))
	for _, ax := range candidates {
		if c.ont.AddAxiom(ax) {
			merged = append(merged, ax)
		}
	}
	report.Merged = len(merged)

	if hasKind(kinds, Subclasses) {
		redundant, err := c.redundantSubclassAxioms()
		if err != nil {
			c.ont.RemoveAxioms(merged...)
			return Report{}, fmt.Errorf("prune redundant subclass axioms: %w", err)
		}
		report.Pruned = c.ont.RemoveAxioms(redundant...)
	}

	c.metrics.AddStep("duplicate", report.Duplicates)
	c.metrics.AddStep("trivial", report.Trivial)
	c.metrics.AddStep("excluded", report.Excluded)
	c.metrics.AddStep("merged", report.Merged)
	c.metrics.AddStep("pruned", report.Pruned)
	c.metrics.ObserveStage("consolidate", time.Since(start))
	c.log.Info("axiom clean up and merge completed",
		zap.Int("generated", report.Generated),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("trivial", report.Trivial),
		zap.Int("excluded", report.Excluded),
		zap.Int("merged", report.Merged),
		zap.Int("pruned", report.Pruned),
		zap.Duration("elapsed", time.Since(start)))
	return report, nil
}

// redundantSubclassAxioms returns the asserted c ⊑ d axioms of the ontology
// whose named superclass d is not a direct superclass of c. Unsatisfiable
// classes are left alone: every class is above them.
func (c *Consolidator) redundantSubclassAxioms() ([]owl.Axiom, error) {
	unsat, err := c.r.UnsatisfiableClasses()
	if err != nil {
		return nil, err
	}
	var redundant []owl.Axiom
	for _, class := range c.ont.ClassesInSignature() {
		if unsat.Contains(class) {
			continue
		}
		axioms := c.ont.SubClassAxiomsForSubClass(class)
		if len(axioms) == 0 {
			continue
		}
		direct, err := c.r.SuperClasses(class, true)
		if err != nil {
			return nil, err
		}
		for _, ax := range axioms {
			sup := ax.Arg(1)
			if sup.IsNamed() && !direct.Contains(sup.Entity) {
				redundant = append(redundant, ax)
			}
		}
	}
	return redundant, nil
}

func trivial(ax owl.Axiom) bool {
	for _, e := range owl.Sentinels() {
		if ax.ContainsEntity(e) {
			return true
		}
	}
	return false
}
