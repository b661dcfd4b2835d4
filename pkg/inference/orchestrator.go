package inference

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/orneryd/ontomod/pkg/metrics"
	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/reasoner"
)

// Config carries the ambient dependencies shared by the inference types.
// Zero values are usable: a nil Logger discards output and nil Metrics
// records nothing.
type Config struct {
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

func (c *Config) logger() *zap.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *Config) metrics() *metrics.Metrics {
	if c == nil {
		return nil
	}
	return c.Metrics
}

// Orchestrator drives one inference run over an ontology:
//
//	Idle → ConsistencyChecked → GeneratorsSelected → Generated
//
// The source ontology is only touched by MaterializeInverses; Generate writes
// its candidates to a scratch ontology.
type Orchestrator struct {
	ont     *owl.Ontology
	r       reasoner.Reasoner
	log     *zap.Logger
	metrics *metrics.Metrics

	state       State
	active      []Kind
	unsupported []Kind
}

// NewOrchestrator returns an idle orchestrator. config may be nil.
func NewOrchestrator(ont *owl.Ontology, r reasoner.Reasoner, config *Config) *Orchestrator {
	return &Orchestrator{
		ont:     ont,
		r:       r,
		log:     config.logger().With(zap.String("reasoner", r.Name())),
		metrics: config.metrics(),
	}
}

// State returns the current state.
func (o *Orchestrator) State() State { return o.state }

// Active returns the kinds chosen by SelectGenerators.
func (o *Orchestrator) Active() []Kind { return append([]Kind(nil), o.active...) }

// Unsupported returns the requested kinds the reasoner could not serve.
func (o *Orchestrator) Unsupported() []Kind { return append([]Kind(nil), o.unsupported...) }

// CheckConsistency asks the reasoner whether the ontology has a model. It may
// be called from any state and restarts the run. On failure the state is left
// unchanged.
func (o *Orchestrator) CheckConsistency() error {
	start := time.Now()
	ok, err := o.r.IsConsistent()
	o.metrics.ObserveStage("consistency", time.Since(start))
	if err != nil {
		return fmt.Errorf("consistency check: %w", err)
	}
	if !ok {
		return &ConsistencyError{Ontology: string(o.ont.ID().IRI), Reasoner: o.r.Name()}
	}
	o.log.Debug("ontology is consistent", zap.Duration("elapsed", time.Since(start)))
	o.state = ConsistencyChecked
	o.active, o.unsupported = nil, nil
	return nil
}

// SelectGenerators probes the reasoner for each requested kind. Kinds it
// cannot serve are logged and left out; they never fail the run.
func (o *Orchestrator) SelectGenerators(kinds []Kind) ([]Kind, error) {
	if err := o.require("SelectGenerators", ConsistencyChecked, GeneratorsSelected, Generated); err != nil {
		return nil, err
	}
	var active, skipped []Kind
	for _, k := range kinds {
		if hasKind(active, k) || hasKind(skipped, k) {
			continue
		}
		support, err := reasoner.Probe(o.r, k.Capability())
		if err != nil {
			return nil, err
		}
		if support == reasoner.Unsupported {
			o.log.Warn("reasoner does not support inference kind; skipping",
				zap.Stringer("kind", k))
			o.metrics.IncUnsupported(o.r.Name(), k.Capability().String())
			skipped = append(skipped, k)
			continue
		}
		active = append(active, k)
	}
	o.active, o.unsupported = active, skipped
	o.state = GeneratorsSelected
	return o.Active(), nil
}

// MaterializeInverses adds the mirror image of every asserted positive and
// negative object property assertion whose property has a declared inverse
// or is symmetric. Only asserted axioms of the imports closure are consulted.
// The added axioms are returned so a failed run can take them back.
func (o *Orchestrator) MaterializeInverses() []owl.Axiom {
	start := time.Now()
	forward := make(map[owl.Entity]owl.Entity)
	backward := make(map[owl.Entity]owl.Entity)
	symmetric := owl.NewEntitySet()
	for _, ax := range o.ont.ClosureAxiomsOfType(owl.InverseObjectProperties) {
		p, q := ax.Arg(0).Entity, ax.Arg(1).Entity
		forward[p] = q
		backward[q] = p
	}
	for _, ax := range o.ont.ClosureAxiomsOfType(owl.SymmetricObjectProperty) {
		symmetric.Add(ax.Property())
	}
	mirror := func(p owl.Entity) (owl.Entity, bool) {
		if q, ok := forward[p]; ok {
			return q, true
		}
		if q, ok := backward[p]; ok {
			return q, true
		}
		return p, symmetric.Contains(p)
	}

	var added []owl.Axiom
	for _, t := range []owl.AxiomType{owl.ObjectPropertyAssertion, owl.NegativeObjectPropertyAssertion} {
		for _, ax := range o.ont.ClosureAxiomsOfType(t) {
			q, ok := mirror(ax.Property())
			if !ok {
				continue
			}
			subject, object := ax.Subject().Entity, ax.Object().Entity
			inv := owl.NewObjectPropertyAssertion(q, object, subject)
			if t == owl.NegativeObjectPropertyAssertion {
				inv = owl.NewNegativeObjectPropertyAssertion(q, object, subject)
			}
			if o.ont.AddAxiom(inv) {
				added = append(added, inv)
			}
		}
	}
	o.metrics.AddStep("inverses", len(added))
	o.metrics.ObserveStage("inverses", time.Since(start))
	o.log.Info("generated inverse property assertions",
		zap.Int("axioms", len(added)),
		zap.Duration("elapsed", time.Since(start)))
	return added
}

// Generate runs the selected generators and returns their candidates in a
// new scratch ontology. A reasoner failure aborts generation; the source
// ontology is never modified.
func (o *Orchestrator) Generate() (*owl.Ontology, error) {
	if err := o.require("Generate", GeneratorsSelected, Generated); err != nil {
		return nil, err
	}
	start := time.Now()
	scratch := owl.New("")
	g := &generator{ont: o.ont, r: o.r, out: scratch}
	for _, k := range o.active {
		before := scratch.AxiomCount()
		if err := g.run(k); err != nil {
			if errors.Is(err, reasoner.ErrInconsistentOntology) {
				return nil, &ConsistencyError{Ontology: string(o.ont.ID().IRI), Reasoner: o.r.Name()}
			}
			return nil, fmt.Errorf("generate %s: %w", k, err)
		}
		o.log.Debug("generated candidate axioms",
			zap.Stringer("kind", k),
			zap.Int("axioms", scratch.AxiomCount()-before))
	}
	o.metrics.AddStep("generated", scratch.AxiomCount())
	o.metrics.ObserveStage("generate", time.Since(start))
	o.log.Info("inferred axioms generated",
		zap.Int("axioms", scratch.AxiomCount()),
		zap.Duration("elapsed", time.Since(start)))
	o.state = Generated
	return scratch, nil
}
