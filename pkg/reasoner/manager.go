package reasoner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/orneryd/ontomod/pkg/cache"
	"github.com/orneryd/ontomod/pkg/metrics"
	"github.com/orneryd/ontomod/pkg/owl"
)

// Config tunes the reasoners a Manager creates.
type Config struct {
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	// CacheSize bounds the memoized query results per reasoner. Zero
	// disables caching.
	CacheSize int
	CacheTTL  time.Duration
}

type factory func(ont *owl.Ontology, log *zap.Logger) Reasoner

var factories = map[string]factory{
	DatalogName:   func(ont *owl.Ontology, log *zap.Logger) Reasoner { return NewDatalog(ont, log) },
	HierarchyName: func(ont *owl.Ontology, _ *zap.Logger) Reasoner { return NewHierarchy(ont) },
}

// Names returns the recognized reasoner names.
func Names() []string {
	names := make([]string, 0, len(factories))
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Manager hands out one reasoner per name for an ontology. Reasoners it creates
// track the ontology's changes, so they never need manual flushing.
type Manager struct {
	ont       *owl.Ontology
	config    Config
	log       *zap.Logger
	reasoners map[string]Reasoner
}

// NewManager returns a manager for ont. config may be nil.
func NewManager(ont *owl.Ontology, config *Config) *Manager {
	if config == nil {
		config = &Config{}
	}
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{ont: ont, config: *config, log: log, reasoners: make(map[string]Reasoner)}
}

// Ontology returns the managed ontology.
func (m *Manager) Ontology() *owl.Ontology { return m.ont }

// Get returns the reasoner called name (case-insensitive), creating it on
// first use.
func (m *Manager) Get(name string) (Reasoner, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if r, ok := m.reasoners[key]; ok {
		return r, nil
	}
	mk, ok := factories[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownReasoner, name, strings.Join(Names(), ", "))
	}
	m.log.Info("creating reasoner", zap.String("reasoner", key))
	r := mk(m.ont, m.log.Named(key))
	if m.config.CacheSize > 0 {
		r = NewCached(r, m.ont, cache.NewResultCache(m.config.CacheSize, m.config.CacheTTL), m.config.Metrics)
	}
	m.reasoners[key] = r
	return r, nil
}

// Dispose disposes every reasoner created so far.
func (m *Manager) Dispose() {
	for name, r := range m.reasoners {
		r.Dispose()
		delete(m.reasoners, name)
	}
}
