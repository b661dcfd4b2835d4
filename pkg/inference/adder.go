// Package inference adds reasoner-inferred axioms to an ontology.
//
// A run has two halves. The Orchestrator checks that the ontology is
// consistent, probes the reasoner for each requested Kind, optionally
// materializes inverse property assertions, and generates candidate axioms
// into a scratch ontology. The Consolidator then drops candidates that are
// already asserted, trivial (they mention owl:Thing, owl:Nothing or a top or
// bottom property) or excluded, merges the rest, and prunes asserted subclass
// axioms that are no longer direct.
//
// Kinds the reasoner cannot serve are skipped with a warning; they never fail
// a run. Any error leaves the ontology with the axioms it started with.
//
// Example:
//
//	r := reasoner.NewDatalog(ont, log)
//	adder := inference.NewAdder(ont, r, &inference.Config{Logger: log})
//
//	report, err := adder.AddInferredAxioms(
//		[]inference.Kind{inference.Subclasses, inference.Types},
//		inference.Options{Annotate: true},
//	)
//	var inconsistent *inference.ConsistencyError
//	if errors.As(err, &inconsistent) {
//		// fix the ontology first
//	}
//	fmt.Printf("merged %d, pruned %d\n", report.Merged, report.Pruned)
//
// Kind names match the configuration strings:
//
//	subclasses, subdata properties, subobject properties, types,
//	equivalent classes, disjoint classes, inverse object properties,
//	property values
package inference

import (
	"time"

	"go.uber.org/zap"

	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/reasoner"
)

// Options tune AddInferredAxioms.
type Options struct {
	// Annotate marks every merged axiom as inferred.
	Annotate bool

	// AddInverses asserts the mirror image of property assertions over
	// inverse and symmetric properties before generation, for reasoners that
	// ignore inverse axioms.
	AddInverses bool

	// ExcludedTypes keeps inferred class assertions off these classes. Only
	// used when Types is requested.
	ExcludedTypes *ExcludedTypes
}

// Adder runs the whole inference pipeline against one ontology and reasoner.
type Adder struct {
	ont    *owl.Ontology
	r      reasoner.Reasoner
	config *Config
	log    *zap.Logger
}

// NewAdder returns an Adder. config may be nil.
func NewAdder(ont *owl.Ontology, r reasoner.Reasoner, config *Config) *Adder {
	return &Adder{ont: ont, r: r, config: config, log: config.logger()}
}

// AddInferredAxioms generates inferred axioms of the given kinds and merges
// them into the ontology. On error the ontology keeps exactly the axioms it
// had, including when inverse assertions were materialized.
func (a *Adder) AddInferredAxioms(kinds []Kind, opts Options) (Report, error) {
	start := time.Now()
	orch := NewOrchestrator(a.ont, a.r, a.config)

	a.log.Info("checking whether the ontology is logically consistent")
	if err := orch.CheckConsistency(); err != nil {
		return Report{}, err
	}

	var inverses []owl.Axiom
	rollback := func() {
		if n := a.ont.RemoveAxioms(inverses...); n > 0 {
			a.log.Debug("rolled back inverse property assertions", zap.Int("axioms", n))
		}
	}
	if opts.AddInverses {
		inverses = orch.MaterializeInverses()
	}

	if _, err := orch.SelectGenerators(kinds); err != nil {
		rollback()
		return Report{}, err
	}
	scratch, err := orch.Generate()
	if err != nil {
		rollback()
		return Report{}, err
	}

	c := NewConsolidator(a.ont, a.r, a.config)
	c.Annotate = opts.Annotate
	c.Excluded = opts.ExcludedTypes
	report, err := c.Consolidate(scratch, orch.Active())
	if err != nil {
		rollback()
		return Report{}, err
	}
	report.Active = orch.Active()
	report.Unsupported = orch.Unsupported()
	report.Inverses = len(inverses)

	a.log.Info("inferred axioms added",
		zap.Int("merged", report.Merged),
		zap.Int("pruned", report.Pruned),
		zap.Duration("elapsed", time.Since(start)))
	return report, nil
}

// EntailmentReport summarizes the logical health of an ontology.
type EntailmentReport struct {
	Consistent bool
	// Unsatisfiable lists named classes that can have no instances, not
	// counting owl:Nothing. Empty when the ontology is inconsistent.
	Unsatisfiable []owl.Entity
}

// CheckEntailmentErrors reports whether the ontology is consistent and, if
// so, which classes are unsatisfiable.
func CheckEntailmentErrors(r reasoner.Reasoner) (EntailmentReport, error) {
	ok, err := r.IsConsistent()
	if err != nil {
		return EntailmentReport{}, err
	}
	if !ok {
		return EntailmentReport{Consistent: false}, nil
	}
	unsat, err := r.UnsatisfiableClasses()
	if err != nil {
		return EntailmentReport{}, err
	}
	unsat.Remove(owl.Nothing)
	return EntailmentReport{Consistent: true, Unsatisfiable: unsat.Sorted()}, nil
}
