// Package module builds import modules: self-contained subsets of a source
// ontology that other ontologies can import instead of the whole source.
//
// An Extractor accumulates a signature one term at a time, then materializes it:
//
//	ext := module.New(src, locality.New(locality.Star, nil), nil)
//	if err := ext.AddEntity("obo:PO_0009011", module.Locality, graph.Relations(graph.Descendants)); err != nil {
//		return err
//	}
//	if err := ext.ExcludeEntity("obo:PO_0025131", 0); err != nil {
//		return err
//	}
//	mod, err := ext.ExtractModule("http://example.org/imports/po_import.owl")
//
// Terms added with relation kinds pull in the related entities (found with a
// graph.Walker) and the axioms relating them; those axioms are copied into the
// module verbatim whatever method the term used. Excluded terms always win: they
// are removed from the finished module last.
package module

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orneryd/ontomod/pkg/graph"
	"github.com/orneryd/ontomod/pkg/metrics"
	"github.com/orneryd/ontomod/pkg/owl"
)

// ErrNoOracle is returned when a locality signature exists but no oracle was
// configured.
var ErrNoOracle = errors.New("no locality module extractor configured")

// LocalityOracle computes a locality-based module of ont for a signature.
type LocalityOracle interface {
	Extract(ont *owl.Ontology, signature owl.EntitySet) (owl.AxiomSet, error)
}

// Config tunes an Extractor.
type Config struct {
	// RemoveExcludedAnnotations also drops annotation assertions about
	// excluded entities.
	RemoveExcludedAnnotations bool

	// Logger receives progress and timing logs. Nil means no logging.
	Logger *zap.Logger

	// Metrics records closure and module sizes. May be nil.
	Metrics *metrics.Metrics
}

// DefaultConfig returns the configuration used when New is given nil.
func DefaultConfig() *Config {
	return &Config{RemoveExcludedAnnotations: true}
}

// Extractor accumulates a module signature over a source ontology and
// materializes modules from it. It is not safe for concurrent use.
type Extractor struct {
	ont    *owl.Ontology
	walker *graph.Walker
	oracle LocalityOracle
	config Config
	log    *zap.Logger

	signatures map[Method]owl.EntitySet
	saved      owl.AxiomSet
	excluded   owl.EntitySet
}

// New returns an extractor over ont. oracle may be nil when only the Single
// method is used.
func New(ont *owl.Ontology, oracle LocalityOracle, config *Config) *Extractor {
	if config == nil {
		config = DefaultConfig()
	}
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}
	e := &Extractor{
		ont:    ont,
		walker: graph.NewWalker(ont),
		oracle: oracle,
		config: *config,
		log:    log,
	}
	e.ClearSignatures()
	return e
}

// Ontology returns the source ontology.
func (e *Extractor) Ontology() *owl.Ontology { return e.ont }

// AddEntity resolves id, computes its closure over kinds and adds the closure
// to the signature of method. The axioms relating the closure are saved for
// verbatim copying into the module. Unknown ids fail with *owl.LookupError.
func (e *Extractor) AddEntity(id string, method Method, kinds graph.RelationSet) error {
	sig, ok := e.signatures[method]
	if !ok {
		return fmt.Errorf("add %q: invalid module extraction method %v", id, method)
	}
	entities, axioms, err := e.closure(id, kinds)
	if err != nil {
		return err
	}
	sig.Union(entities)
	e.saved.Union(axioms)
	return nil
}

// ExcludeEntity resolves id and marks it, and its closure over kinds, for
// removal from the finished module. No axioms are saved.
func (e *Extractor) ExcludeEntity(id string, kinds graph.RelationSet) error {
	entities, _, err := e.closure(id, kinds)
	if err != nil {
		return err
	}
	e.excluded.Union(entities)
	return nil
}

func (e *Extractor) closure(id string, kinds graph.RelationSet) (owl.EntitySet, owl.AxiomSet, error) {
	ent, err := e.ont.GetExistingEntity(id)
	if err != nil {
		return nil, owl.AxiomSet{}, err
	}
	entities, axioms := e.walker.Related(ent, kinds)
	e.config.Metrics.ObserveClosure(ent.Kind.String(), len(entities))
	e.log.Debug("computed related components",
		zap.String("entity", string(ent.IRI)),
		zap.Stringer("relations", kinds),
		zap.Int("entities", len(entities)),
		zap.Int("axioms", axioms.Len()))
	return entities, axioms, nil
}

// SignatureSize returns the sum of the per-method signature sizes. An entity
// added under both methods counts twice.
func (e *Extractor) SignatureSize() int {
	n := 0
	for _, m := range Methods {
		n += len(e.signatures[m])
	}
	return n
}

// Signature returns the sorted signature of method.
func (e *Extractor) Signature(method Method) []owl.Entity {
	return e.signatures[method].Sorted()
}

// Excluded returns the sorted exclusion set.
func (e *Extractor) Excluded() []owl.Entity {
	return e.excluded.Sorted()
}

// SavedAxioms returns the relation axioms that will be copied verbatim.
func (e *Extractor) SavedAxioms() []owl.Axiom {
	return e.saved.Slice()
}

// ClearSignatures empties every signature, the saved axioms and the exclusion
// set so the extractor can build an unrelated module.
func (e *Extractor) ClearSignatures() {
	e.signatures = make(map[Method]owl.EntitySet, len(Methods))
	for _, m := range Methods {
		e.signatures[m] = owl.NewEntitySet()
	}
	e.saved = owl.NewAxiomSet()
	e.excluded = owl.NewEntitySet()
}

// ExtractModule materializes the accumulated signature as a new ontology named
// moduleIRI. The source ontology is not modified.
func (e *Extractor) ExtractModule(moduleIRI owl.IRI) (mod *owl.Ontology, err error) {
	start := time.Now()
	log := e.log.With(zap.String("job", uuid.NewString()), zap.String("module", string(moduleIRI)))
	defer func() {
		size := 0
		if mod != nil {
			size = mod.AxiomCount()
		}
		e.config.Metrics.ObserveModule(size, err)
		e.config.Metrics.ObserveStage("extract", time.Since(start))
	}()

	mod = owl.New(moduleIRI)
	mod.SetOntologyID(moduleIRI, "")

	if loc := e.signatures[Locality]; len(loc) > 0 {
		if e.oracle == nil {
			return nil, fmt.Errorf("extract %s: %w", moduleIRI, ErrNoOracle)
		}
		stepStart := time.Now()
		axioms, err := e.oracle.Extract(e.ont, loc)
		if err != nil {
			return nil, fmt.Errorf("extract %s: locality module: %w", moduleIRI, err)
		}
		mod.AddAxioms(axioms.Slice()...)
		log.Info("locality module extracted",
			zap.Int("signature", len(loc)),
			zap.Int("axioms", axioms.Len()),
			zap.Duration("elapsed", time.Since(stepStart)))
	}

	e.extractSingle(mod)
	mod.AddAxioms(e.saved.Slice()...)

	for _, ent := range e.excluded.Sorted() {
		mod.RemoveEntity(ent, e.config.RemoveExcludedAnnotations)
	}

	id := e.ont.ID()
	switch {
	case id.VersionIRI != "":
		mod.SetSource(id.VersionIRI)
	case id.IRI != "":
		mod.SetSource(id.IRI)
	}

	log.Info("module extracted",
		zap.Int("axioms", mod.AxiomCount()),
		zap.Int("excluded", len(e.excluded)),
		zap.Duration("elapsed", time.Since(start)))
	return mod, nil
}

// extractSingle copies declarations, property characteristics and annotation
// assertions for the Single signature. Annotation properties used by copied
// annotations join the worklist until the target declares them.
func (e *Extractor) extractSingle(target *owl.Ontology) {
	queue := e.signatures[Single].Sorted()
	queued := owl.NewEntitySet(queue...)
	closure := e.ont.ImportsClosure()

	for len(queue) > 0 {
		ent := queue[0]
		queue = queue[1:]

		for _, ont := range closure {
			target.AddAxioms(ont.DeclarationAxioms(ent)...)
		}
		for _, t := range owl.PropertyCharacteristicTypes(ent.Kind) {
			target.AddAxioms(e.ont.ClosureAxiomsFor(t, ent, owl.AnyPosition)...)
		}

		for _, ont := range closure {
			for _, ax := range ont.AnnotationAssertionAxioms(ent.IRI) {
				target.AddAxiom(ax)
				for _, prop := range annotationProperties(ax) {
					if prop == owl.Label || queued.Contains(prop) || target.IsDeclaredInClosure(prop) {
						continue
					}
					if !e.ont.IsDeclaredInClosure(prop) {
						continue
					}
					queued.Add(prop)
					queue = append(queue, prop)
				}
			}
		}
	}
}

func annotationProperties(ax owl.Axiom) []owl.Entity {
	var out []owl.Entity
	for ent := range ax.Signature() {
		if ent.Kind == owl.AnnotationProperty {
			out = append(out, ent)
		}
	}
	owl.SortEntities(out)
	return out
}
