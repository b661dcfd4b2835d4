package reasoner

import (
	"fmt"
	"sort"

	"github.com/google/mangle/ast"
	"github.com/google/mangle/factstore"

	"github.com/orneryd/ontomod/pkg/owl"
)

type nodeSet map[string]struct{}

// relation is a binary relation indexed in both directions.
type relation struct {
	fwd map[string]nodeSet
	rev map[string]nodeSet
}

func newRelation() *relation {
	return &relation{fwd: make(map[string]nodeSet), rev: make(map[string]nodeSet)}
}

func (r *relation) add(a, b string) {
	link(r.fwd, a, b)
	link(r.rev, b, a)
}

func link(m map[string]nodeSet, a, b string) {
	s, ok := m[a]
	if !ok {
		s = make(nodeSet)
		m[a] = s
	}
	s[b] = struct{}{}
}

func (r *relation) has(a, b string) bool {
	_, ok := r.fwd[a][b]
	return ok
}

func (r *relation) targets(a string) nodeSet { return r.fwd[a] }

func (r *relation) sources(b string) nodeSet { return r.rev[b] }

// entityIndex maps nodes back to the named entities they stand for.
type entityIndex map[string]owl.Entity

func (x entityIndex) entities(nodes nodeSet) owl.EntitySet {
	out := owl.NewEntitySet()
	for n := range nodes {
		if e, ok := x[n]; ok {
			out.Add(e)
		}
	}
	return out
}

type model struct {
	revision uint64

	thing, nothing string

	classes     entityIndex
	objectProps entityIndex
	dataProps   entityIndex
	individuals entityIndex
	literals    map[string]owl.Term

	subc   *relation
	disj   *relation
	psubc  *relation
	dpsubc *relation
	inv    *relation
	types  *relation
	val    *relation
	dval   *relation

	unsat   nodeSet
	clashes nodeSet
}

func newModel() *model {
	return &model{
		thing:       node(owl.Thing),
		nothing:     node(owl.Nothing),
		classes:     make(entityIndex),
		objectProps: make(entityIndex),
		dataProps:   make(entityIndex),
		individuals: make(entityIndex),
		literals:    make(map[string]owl.Term),
		subc:        newRelation(),
		disj:        newRelation(),
		psubc:       newRelation(),
		dpsubc:      newRelation(),
		inv:         newRelation(),
		types:       newRelation(),
		val:         newRelation(),
		dval:        newRelation(),
		unsat:       make(nodeSet),
		clashes:     make(nodeSet),
	}
}

func node(e owl.Entity) string { return string(e.IRI) }

func termNode(t owl.Term) string {
	if t.IsNamed() {
		return node(t.Entity)
	}
	return t.Key()
}

func pairKey(a, b string) string { return a + "\x00" + b }

func (m *model) consistent() bool {
	_, thingUnsat := m.unsat[m.thing]
	return len(m.clashes) == 0 && !thingUnsat
}

type addFunc func(pred string, args ...string)

func (m *model) entity(e owl.Entity, add addFunc) string {
	n := node(e)
	switch e.Kind {
	case owl.Class:
		m.classes[n] = e
		add("cnode", n)
	case owl.ObjectProperty:
		m.objectProps[n] = e
		add("pnode", n)
	case owl.DataProperty:
		m.dataProps[n] = e
		add("dpnode", n)
	case owl.Individual:
		m.individuals[n] = e
		add("inode", n)
	}
	return n
}

func (m *model) class(t owl.Term, add addFunc) string {
	if t.IsNamed() {
		return m.entity(t.Entity, add)
	}
	n := termNode(t)
	add("cnode", n)
	return n
}

func (m *model) literal(t owl.Term) string {
	n := termNode(t)
	m.literals[n] = t
	return n
}

func forPairs(args []owl.Term, fn func(a, b owl.Term)) {
	for i := 0; i < len(args); i++ {
		for j := i + 1; j < len(args); j++ {
			fn(args[i], args[j])
		}
	}
}

// loadFacts turns the told axioms of the imports closure into facts.
func (m *model) loadFacts(ont *owl.Ontology, add addFunc) {
	add("thing", m.thing)
	add("nothing", m.nothing)
	m.entity(owl.Thing, add)
	m.entity(owl.Nothing, add)

	both := func(pred string, a, b string) {
		add(pred, a, b)
		add(pred, b, a)
	}
	prop := func(ax owl.Axiom) string { return node(ax.Arg(0).Entity) }

	for _, ax := range ont.ClosureAxioms().Slice() {
		for _, e := range ax.Signature().Sorted() {
			m.entity(e, add)
		}
		switch ax.Type {
		case owl.SubClassOf:
			add("told_sub", m.class(ax.Arg(0), add), m.class(ax.Arg(1), add))
		case owl.EquivalentClasses:
			forPairs(ax.Args, func(a, b owl.Term) { both("told_sub", m.class(a, add), m.class(b, add)) })
		case owl.DisjointClasses:
			forPairs(ax.Args, func(a, b owl.Term) { both("told_disj", m.class(a, add), m.class(b, add)) })

		case owl.SubObjectPropertyOf:
			add("told_psub", termNode(ax.Arg(0)), termNode(ax.Arg(1)))
		case owl.EquivalentObjectProperties:
			forPairs(ax.Args, func(a, b owl.Term) { both("told_psub", termNode(a), termNode(b)) })
		case owl.DisjointObjectProperties:
			forPairs(ax.Args, func(a, b owl.Term) { both("told_pdisj", termNode(a), termNode(b)) })
		case owl.InverseObjectProperties:
			both("told_inv", termNode(ax.Arg(0)), termNode(ax.Arg(1)))
		case owl.ObjectPropertyDomain:
			add("dom", prop(ax), m.class(ax.Arg(1), add))
		case owl.ObjectPropertyRange:
			add("rng", prop(ax), m.class(ax.Arg(1), add))
		case owl.SymmetricObjectProperty:
			add("symmetric", prop(ax))
		case owl.TransitiveObjectProperty:
			add("transitive", prop(ax))
		case owl.AsymmetricObjectProperty:
			add("asymmetric", prop(ax))
		case owl.IrreflexiveObjectProperty:
			add("irreflexive", prop(ax))

		case owl.SubDataPropertyOf:
			add("told_dpsub", termNode(ax.Arg(0)), termNode(ax.Arg(1)))
		case owl.EquivalentDataProperties:
			forPairs(ax.Args, func(a, b owl.Term) { both("told_dpsub", termNode(a), termNode(b)) })
		case owl.DataPropertyDomain:
			add("ddom", prop(ax), m.class(ax.Arg(1), add))

		case owl.ClassAssertion:
			add("ca", termNode(ax.Arg(1)), m.class(ax.Arg(0), add))
		case owl.ObjectPropertyAssertion:
			add("opa", termNode(ax.Arg(1)), prop(ax), termNode(ax.Arg(2)))
		case owl.NegativeObjectPropertyAssertion:
			add("nopa", termNode(ax.Arg(1)), prop(ax), termNode(ax.Arg(2)))
		case owl.DataPropertyAssertion:
			add("dpa", termNode(ax.Arg(1)), prop(ax), m.literal(ax.Arg(2)))
		case owl.NegativeDataPropertyAssertion:
			add("ndpa", termNode(ax.Arg(1)), prop(ax), m.literal(ax.Arg(2)))
		}
	}
}

// readDerived copies the derived predicates out of the fact store.
func (m *model) readDerived(store factstore.ReadOnlyFactStore) error {
	read := func(pred string, arity int, fn func(args []string)) error {
		sym := ast.PredicateSym{Symbol: pred, Arity: arity}
		return store.GetFacts(ast.NewQuery(sym), func(atom ast.Atom) error {
			args := make([]string, len(atom.Args))
			for i, t := range atom.Args {
				c, ok := t.(ast.Constant)
				if !ok {
					return fmt.Errorf("%s: non-constant argument %v", pred, t)
				}
				args[i] = c.Symbol
			}
			fn(args)
			return nil
		})
	}
	pair := func(r *relation) func([]string) { return func(a []string) { r.add(a[0], a[1]) } }
	triple := func(r *relation) func([]string) { return func(a []string) { r.add(pairKey(a[0], a[1]), a[2]) } }
	single := func(s nodeSet) func([]string) { return func(a []string) { s[a[0]] = struct{}{} } }

	for _, q := range []struct {
		pred  string
		arity int
		fn    func([]string)
	}{
		{"subc", 2, pair(m.subc)},
		{"disj", 2, pair(m.disj)},
		{"psubc", 2, pair(m.psubc)},
		{"dpsubc", 2, pair(m.dpsubc)},
		{"inv", 2, pair(m.inv)},
		{"type", 2, pair(m.types)},
		{"val", 3, triple(m.val)},
		{"dval", 3, triple(m.dval)},
		{"unsat", 1, single(m.unsat)},
		{"clash", 1, single(m.clashes)},
	} {
		if err := read(q.pred, q.arity, q.fn); err != nil {
			return err
		}
	}
	return nil
}

// strictlyBelow reports whether a ⊑ b but not b ⊑ a.
func strictlyBelow(r *relation, a, b string) bool {
	return r.has(a, b) && !r.has(b, a)
}

// hierarchyAbove returns the named strict ancestors of x, or only the nearest
// ones when direct is set.
func (m *model) hierarchyAbove(r *relation, idx entityIndex, x string, direct bool) nodeSet {
	if _, ok := idx[x]; !ok {
		return nil
	}
	strict := make(nodeSet)
	for y := range r.targets(x) {
		if _, named := idx[y]; named && !r.has(y, x) {
			strict[y] = struct{}{}
		}
	}
	if direct {
		return m.minimal(r, strict)
	}
	return strict
}

// hierarchyBelow is hierarchyAbove in the other direction.
func (m *model) hierarchyBelow(r *relation, idx entityIndex, x string, direct bool) nodeSet {
	if _, ok := idx[x]; !ok {
		return nil
	}
	strict := make(nodeSet)
	for y := range r.sources(x) {
		if _, named := idx[y]; named && !r.has(x, y) {
			strict[y] = struct{}{}
		}
	}
	if !direct {
		return strict
	}
	out := make(nodeSet)
	for y := range strict {
		maximal := true
		for z := range strict {
			if strictlyBelow(r, y, z) {
				maximal = false
				break
			}
		}
		if maximal {
			out[y] = struct{}{}
		}
	}
	return out
}

// minimal keeps the members of s with no other member strictly below them.
func (m *model) minimal(r *relation, s nodeSet) nodeSet {
	out := make(nodeSet)
	for y := range s {
		keep := true
		for z := range s {
			if strictlyBelow(r, z, y) {
				keep = false
				break
			}
		}
		if keep {
			out[y] = struct{}{}
		}
	}
	return out
}

func (m *model) equivalents(r *relation, idx entityIndex, x string) nodeSet {
	out := nodeSet{x: {}}
	for y := range r.targets(x) {
		if _, named := idx[y]; named && r.has(y, x) {
			out[y] = struct{}{}
		}
	}
	return out
}

func (m *model) named(s nodeSet, idx entityIndex) nodeSet {
	out := make(nodeSet, len(s))
	for n := range s {
		if _, ok := idx[n]; ok {
			out[n] = struct{}{}
		}
	}
	return out
}

func sortedKeys(s nodeSet) []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
