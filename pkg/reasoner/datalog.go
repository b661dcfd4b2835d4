package reasoner

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	"github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"
	"go.uber.org/zap"

	"github.com/orneryd/ontomod/pkg/owl"
)

// DatalogName is the manager name of the Datalog reasoner.
const DatalogName = "datalog"

var compiledProgram = sync.OnceValues(func() (*analysis.ProgramInfo, error) {
	unit, err := parse.Unit(strings.NewReader(program))
	if err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	info, err := analysis.AnalyzeOneUnit(unit, nil)
	if err != nil {
		return nil, fmt.Errorf("analyze rules: %w", err)
	}
	return info, nil
})

// Datalog materializes entailments of an ontology's imports closure with a
// fixed Datalog program. The materialization is rebuilt whenever the closure
// changes, so answers always reflect the current axioms.
type Datalog struct {
	ont      *owl.Ontology
	log      *zap.Logger
	model    *model
	disposed bool
}

// NewDatalog returns a Datalog reasoner over ont. log may be nil.
func NewDatalog(ont *owl.Ontology, log *zap.Logger) *Datalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Datalog{ont: ont, log: log}
}

// Name returns "datalog".
func (d *Datalog) Name() string { return DatalogName }

// Capabilities reports every capability.
func (d *Datalog) Capabilities() CapabilitySet {
	return Capabilities(AllCapabilities()...)
}

// Refresh discards the materialization; the next query rebuilds it.
func (d *Datalog) Refresh() error {
	if d.disposed {
		return ErrDisposed
	}
	d.model = nil
	return nil
}

// Dispose releases the materialization.
func (d *Datalog) Dispose() {
	d.model = nil
	d.disposed = true
}

func (d *Datalog) current() (*model, error) {
	if d.disposed {
		return nil, ErrDisposed
	}
	rev := d.ont.ClosureRevision()
	if d.model != nil && d.model.revision == rev {
		return d.model, nil
	}
	m, err := d.materialize()
	if err != nil {
		return nil, err
	}
	m.revision = rev
	d.model = m
	return m, nil
}

// consistent returns the model, or ErrInconsistentOntology.
func (d *Datalog) consistent() (*model, error) {
	m, err := d.current()
	if err != nil {
		return nil, err
	}
	if !m.consistent() {
		return nil, ErrInconsistentOntology
	}
	return m, nil
}

func (d *Datalog) materialize() (*model, error) {
	start := time.Now()
	info, err := compiledProgram()
	if err != nil {
		return nil, err
	}

	m := newModel()
	store := factstore.NewSimpleInMemoryStore()
	facts := 0
	add := func(pred string, args ...string) {
		terms := make([]ast.BaseTerm, len(args))
		for i, a := range args {
			terms[i] = ast.String(a)
		}
		if store.Add(ast.NewAtom(pred, terms...)) {
			facts++
		}
	}
	m.loadFacts(d.ont, add)

	// A single evaluation can stop short when rules of one stratum feed each
	// other, so evaluate until the store stops growing.
	rounds := 0
	for size := -1; size != store.EstimateFactCount(); rounds++ {
		size = store.EstimateFactCount()
		if _, err := engine.EvalProgramWithStats(info, store); err != nil {
			return nil, fmt.Errorf("%s: evaluate: %w", DatalogName, err)
		}
	}
	if err := m.readDerived(store); err != nil {
		return nil, fmt.Errorf("%s: read results: %w", DatalogName, err)
	}

	d.log.Debug("materialized entailments",
		zap.Int("told_facts", facts),
		zap.Int("derived_facts", store.EstimateFactCount()-facts),
		zap.Int("rounds", rounds),
		zap.Int("clashes", len(m.clashes)),
		zap.Duration("elapsed", time.Since(start)))
	return m, nil
}

// IsConsistent reports whether no individual clashes and owl:Thing is
// satisfiable.
func (d *Datalog) IsConsistent() (bool, error) {
	m, err := d.current()
	if err != nil {
		return false, err
	}
	return m.consistent(), nil
}

func (d *Datalog) SuperClasses(c owl.Entity, direct bool) (owl.EntitySet, error) {
	m, err := d.consistent()
	if err != nil {
		return nil, err
	}
	return m.classes.entities(m.hierarchyAbove(m.subc, m.classes, node(c), direct)), nil
}

func (d *Datalog) SubClasses(c owl.Entity, direct bool) (owl.EntitySet, error) {
	m, err := d.consistent()
	if err != nil {
		return nil, err
	}
	return m.classes.entities(m.hierarchyBelow(m.subc, m.classes, node(c), direct)), nil
}

func (d *Datalog) EquivalentClasses(c owl.Entity) (owl.EntitySet, error) {
	m, err := d.consistent()
	if err != nil {
		return nil, err
	}
	if _, ok := m.classes[node(c)]; !ok {
		return owl.NewEntitySet(), nil
	}
	return m.classes.entities(m.equivalents(m.subc, m.classes, node(c))), nil
}

func (d *Datalog) DisjointClasses(c owl.Entity) (owl.EntitySet, error) {
	m, err := d.consistent()
	if err != nil {
		return nil, err
	}
	return m.classes.entities(m.disj.targets(node(c))), nil
}

func (d *Datalog) SuperObjectProperties(p owl.Entity, direct bool) (owl.EntitySet, error) {
	m, err := d.consistent()
	if err != nil {
		return nil, err
	}
	return m.objectProps.entities(m.hierarchyAbove(m.psubc, m.objectProps, node(p), direct)), nil
}

func (d *Datalog) SuperDataProperties(p owl.Entity, direct bool) (owl.EntitySet, error) {
	m, err := d.consistent()
	if err != nil {
		return nil, err
	}
	return m.dataProps.entities(m.hierarchyAbove(m.dpsubc, m.dataProps, node(p), direct)), nil
}

func (d *Datalog) InverseObjectProperties(p owl.Entity) (owl.EntitySet, error) {
	m, err := d.consistent()
	if err != nil {
		return nil, err
	}
	return m.objectProps.entities(m.inv.targets(node(p))), nil
}

func (d *Datalog) Types(i owl.Entity, direct bool) (owl.EntitySet, error) {
	m, err := d.consistent()
	if err != nil {
		return nil, err
	}
	types := m.named(m.types.targets(node(i)), m.classes)
	if direct {
		types = m.minimal(m.subc, types)
	}
	return m.classes.entities(types), nil
}

func (d *Datalog) ObjectPropertyValues(i, p owl.Entity) (owl.EntitySet, error) {
	m, err := d.consistent()
	if err != nil {
		return nil, err
	}
	return m.individuals.entities(m.val.targets(pairKey(node(i), node(p)))), nil
}

func (d *Datalog) DataPropertyValues(i, p owl.Entity) ([]owl.Term, error) {
	m, err := d.consistent()
	if err != nil {
		return nil, err
	}
	keys := sortedKeys(m.dval.targets(pairKey(node(i), node(p))))
	out := make([]owl.Term, 0, len(keys))
	for _, k := range keys {
		out = append(out, m.literals[k])
	}
	return out, nil
}

// UnsatisfiableClasses returns the named unsatisfiable classes.
func (d *Datalog) UnsatisfiableClasses() (owl.EntitySet, error) {
	m, err := d.consistent()
	if err != nil {
		return nil, err
	}
	return m.classes.entities(m.unsat), nil
}
