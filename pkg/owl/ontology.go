package owl

import (
	"sort"
)

// OntologyID names an ontology. Either part may be empty.
type OntologyID struct {
	IRI        IRI `json:"iri,omitempty"`
	VersionIRI IRI `json:"versionIri,omitempty"`
}

// IsAnonymous reports whether neither IRI is set.
func (id OntologyID) IsAnonymous() bool { return id.IRI == "" && id.VersionIRI == "" }

// Position selects which operand of an axiom an entity must occupy when
// searching for axioms about it.
type Position int

const (
	// AnyPosition matches the entity wherever the axiom type anchors it.
	AnyPosition Position = iota
	// SubPosition matches the left operand of SubClassOf and Sub*PropertyOf.
	SubPosition
	// SuperPosition matches the right operand of SubClassOf and Sub*PropertyOf.
	SuperPosition
)

type keySet map[string]struct{}

// Ontology is an in-memory axiom store with direct imports. It is not safe for
// concurrent mutation; callers serialize jobs that touch the same ontology.
type Ontology struct {
	id          OntologyID
	prefixes    *PrefixMap
	axioms      map[string]Axiom
	logical     map[string]int
	refs        map[Entity]keySet
	subjects    map[IRI]keySet
	byType      map[AxiomType]keySet
	imports     []*Ontology
	importIRIs  []IRI
	annotations []Annotation
	revision    uint64
}

// New returns an empty ontology named iri (which may be empty).
func New(iri IRI) *Ontology {
	return &Ontology{
		id:       OntologyID{IRI: iri},
		prefixes: NewPrefixMap(),
		axioms:   make(map[string]Axiom),
		logical:  make(map[string]int),
		refs:     make(map[Entity]keySet),
		subjects: make(map[IRI]keySet),
		byType:   make(map[AxiomType]keySet),
	}
}

// ID returns the ontology identifier.
func (o *Ontology) ID() OntologyID { return o.id }

// SetOntologyID sets the ontology and version IRIs.
func (o *Ontology) SetOntologyID(iri, version IRI) {
	o.id = OntologyID{IRI: iri, VersionIRI: version}
	o.revision++
}

// Prefixes returns the prefix map used to resolve identifiers.
func (o *Ontology) Prefixes() *PrefixMap { return o.prefixes }

// Revision increases on every change to this ontology.
func (o *Ontology) Revision() uint64 { return o.revision }

// ClosureRevision sums the revisions of the imports closure, so it changes when
// any ontology in the closure changes.
func (o *Ontology) ClosureRevision() uint64 {
	var r uint64
	for _, ont := range o.ImportsClosure() {
		r += ont.revision + 1
	}
	return r
}

// AddImport adds imp as a direct import. Adding the same ontology twice is a
// no-op.
func (o *Ontology) AddImport(imp *Ontology) {
	for _, existing := range o.imports {
		if existing == imp {
			return
		}
	}
	o.imports = append(o.imports, imp)
	o.addImportIRI(imp.importName())
	o.revision++
}

// AddImportIRI records an import by IRI without resolving it. Loaders resolve
// these through ImportIRIs.
func (o *Ontology) AddImportIRI(iri IRI) {
	o.addImportIRI(iri)
	o.revision++
}

func (o *Ontology) addImportIRI(iri IRI) {
	if iri == "" {
		return
	}
	for _, existing := range o.importIRIs {
		if existing == iri {
			return
		}
	}
	o.importIRIs = append(o.importIRIs, iri)
}

// ImportIRIs returns the IRIs of the direct imports.
func (o *Ontology) ImportIRIs() []IRI {
	return append([]IRI(nil), o.importIRIs...)
}

// Imports returns the resolved direct imports.
func (o *Ontology) Imports() []*Ontology {
	return append([]*Ontology(nil), o.imports...)
}

func (o *Ontology) importName() IRI {
	if o.id.VersionIRI != "" {
		return o.id.VersionIRI
	}
	return o.id.IRI
}

// ImportsClosure returns o followed by every ontology it imports, directly or
// transitively, each exactly once. Import cycles are tolerated.
func (o *Ontology) ImportsClosure() []*Ontology {
	seen := map[*Ontology]bool{o: true}
	out := []*Ontology{}
	stack := []*Ontology{o}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		// Push in reverse so imports are visited in declaration order.
		for i := len(cur.imports) - 1; i >= 0; i-- {
			imp := cur.imports[i]
			if !seen[imp] {
				seen[imp] = true
				stack = append(stack, imp)
			}
		}
	}
	return out
}

// AddAxiom adds ax and reports whether it was absent.
func (o *Ontology) AddAxiom(ax Axiom) bool {
	k := ax.Key()
	if _, ok := o.axioms[k]; ok {
		return false
	}
	o.axioms[k] = ax
	o.logical[ax.LogicalKey()]++
	o.index(k, ax, true)
	o.revision++
	return true
}

// AddAxioms adds every axiom and returns how many were new.
func (o *Ontology) AddAxioms(axioms ...Axiom) int {
	n := 0
	for _, ax := range axioms {
		if o.AddAxiom(ax) {
			n++
		}
	}
	return n
}

// RemoveAxiom removes ax and reports whether it was present.
func (o *Ontology) RemoveAxiom(ax Axiom) bool {
	k := ax.Key()
	stored, ok := o.axioms[k]
	if !ok {
		return false
	}
	delete(o.axioms, k)
	lk := stored.LogicalKey()
	if o.logical[lk] <= 1 {
		delete(o.logical, lk)
	} else {
		o.logical[lk]--
	}
	o.index(k, stored, false)
	o.revision++
	return true
}

// RemoveAxioms removes every axiom and returns how many were present.
func (o *Ontology) RemoveAxioms(axioms ...Axiom) int {
	n := 0
	for _, ax := range axioms {
		if o.RemoveAxiom(ax) {
			n++
		}
	}
	return n
}

func (o *Ontology) index(k string, ax Axiom, add bool) {
	update := func(m keySet) keySet {
		if add {
			if m == nil {
				m = make(keySet)
			}
			m[k] = struct{}{}
			return m
		}
		delete(m, k)
		return m
	}
	for e := range ax.Signature() {
		if m := update(o.refs[e]); len(m) > 0 {
			o.refs[e] = m
		} else {
			delete(o.refs, e)
		}
	}
	if m := update(o.byType[ax.Type]); len(m) > 0 {
		o.byType[ax.Type] = m
	} else {
		delete(o.byType, ax.Type)
	}
	if ax.Type == AnnotationAssertion {
		subj := IRI(ax.Arg(1).Value)
		if m := update(o.subjects[subj]); len(m) > 0 {
			o.subjects[subj] = m
		} else {
			delete(o.subjects, subj)
		}
	}
}

// ContainsAxiom reports whether ax (annotations included) is asserted in this
// ontology.
func (o *Ontology) ContainsAxiom(ax Axiom) bool {
	_, ok := o.axioms[ax.Key()]
	return ok
}

// ContainsAxiomInClosure reports whether ax is asserted anywhere in the imports
// closure. When ignoreAnnotations is set, an asserted axiom that differs from
// ax only in its annotations also counts.
func (o *Ontology) ContainsAxiomInClosure(ax Axiom, ignoreAnnotations bool) bool {
	k := ax.Key()
	lk := ""
	if ignoreAnnotations {
		lk = ax.LogicalKey()
	}
	for _, ont := range o.ImportsClosure() {
		if _, ok := ont.axioms[k]; ok {
			return true
		}
		if ignoreAnnotations && ont.logical[lk] > 0 {
			return true
		}
	}
	return false
}

// AxiomCount returns the number of axioms asserted in this ontology.
func (o *Ontology) AxiomCount() int { return len(o.axioms) }

// Axioms returns every asserted axiom ordered by key.
func (o *Ontology) Axioms() []Axiom {
	return o.collect(o.allKeys())
}

// ClosureAxioms returns the axioms of the whole imports closure.
func (o *Ontology) ClosureAxioms() AxiomSet {
	set := NewAxiomSet()
	for _, ont := range o.ImportsClosure() {
		for _, ax := range ont.axioms {
			set.Add(ax)
		}
	}
	return set
}

// AxiomsOfType returns the asserted axioms of type t.
func (o *Ontology) AxiomsOfType(t AxiomType) []Axiom {
	return o.collect(o.byType[t])
}

// ClosureAxiomsOfType returns the axioms of type t across the imports closure.
func (o *Ontology) ClosureAxiomsOfType(t AxiomType) []Axiom {
	set := NewAxiomSet()
	for _, ont := range o.ImportsClosure() {
		for k := range ont.byType[t] {
			set.Add(ont.axioms[k])
		}
	}
	return set.Slice()
}

func (o *Ontology) allKeys() keySet {
	ks := make(keySet, len(o.axioms))
	for k := range o.axioms {
		ks[k] = struct{}{}
	}
	return ks
}

func (o *Ontology) collect(keys keySet) []Axiom {
	sorted := make([]string, 0, len(keys))
	for k := range keys {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)
	out := make([]Axiom, len(sorted))
	for i, k := range sorted {
		out[i] = o.axioms[k]
	}
	return out
}

// AxiomsFor returns the axioms of type t asserted in this ontology in which e
// occupies pos. For subsumption axioms SubPosition and SuperPosition select the
// left and right operand; for every other type the entity must be the anchor
// operand: the property of domain, range, characteristic and assertion axioms,
// the individual of class assertions, the subject of property assertions, or
// any member of n-ary axioms.
func (o *Ontology) AxiomsFor(t AxiomType, e Entity, pos Position) []Axiom {
	var out []Axiom
	for _, ax := range o.collect(o.refs[e]) {
		if ax.Type == t && anchored(ax, e, pos) {
			out = append(out, ax)
		}
	}
	return out
}

// ClosureAxiomsFor is AxiomsFor over the imports closure.
func (o *Ontology) ClosureAxiomsFor(t AxiomType, e Entity, pos Position) []Axiom {
	set := NewAxiomSet()
	for _, ont := range o.ImportsClosure() {
		for _, ax := range ont.AxiomsFor(t, e, pos) {
			set.Add(ax)
		}
	}
	return set.Slice()
}

func anchored(ax Axiom, e Entity, pos Position) bool {
	is := func(i int) bool {
		t := ax.Arg(i)
		return t.Kind == TermEntity && t.Entity == e
	}
	switch ax.Type {
	case SubClassOf, SubObjectPropertyOf, SubDataPropertyOf, SubAnnotationPropertyOf:
		switch pos {
		case SubPosition:
			return is(0)
		case SuperPosition:
			return is(1)
		}
		return is(0) || is(1)
	case ClassAssertion:
		return is(1)
	case ObjectPropertyAssertion, NegativeObjectPropertyAssertion,
		DataPropertyAssertion, NegativeDataPropertyAssertion:
		// Individuals anchor on the subject, properties on the property.
		if e.Kind == Individual {
			return is(1)
		}
		return is(0)
	}
	if ax.Type.IsNary() {
		for i := range ax.Args {
			if is(i) {
				return true
			}
		}
		return false
	}
	return is(0)
}

// SubClassAxiomsForSubClass returns SubClassOf axioms whose subclass is c.
func (o *Ontology) SubClassAxiomsForSubClass(c Entity) []Axiom {
	return o.AxiomsFor(SubClassOf, c, SubPosition)
}

// SubClassAxiomsForSuperClass returns SubClassOf axioms whose superclass is c.
func (o *Ontology) SubClassAxiomsForSuperClass(c Entity) []Axiom {
	return o.AxiomsFor(SubClassOf, c, SuperPosition)
}

// SubAxiomType returns the subsumption axiom type for entities of kind k.
func SubAxiomType(k EntityKind) (AxiomType, bool) {
	switch k {
	case Class:
		return SubClassOf, true
	case ObjectProperty:
		return SubObjectPropertyOf, true
	case DataProperty:
		return SubDataPropertyOf, true
	case AnnotationProperty:
		return SubAnnotationPropertyOf, true
	}
	return 0, false
}

// DeclarationAxioms returns the declarations of e asserted in this ontology.
func (o *Ontology) DeclarationAxioms(e Entity) []Axiom {
	return o.AxiomsFor(Declaration, e, AnyPosition)
}

// IsDeclared reports whether this ontology declares e.
func (o *Ontology) IsDeclared(e Entity) bool {
	return len(o.DeclarationAxioms(e)) > 0
}

// IsDeclaredInClosure reports whether any ontology of the imports closure
// declares e.
func (o *Ontology) IsDeclaredInClosure(e Entity) bool {
	for _, ont := range o.ImportsClosure() {
		if ont.IsDeclared(e) {
			return true
		}
	}
	return false
}

// AnnotationAssertionAxioms returns annotation assertions whose subject is iri.
func (o *Ontology) AnnotationAssertionAxioms(iri IRI) []Axiom {
	return o.collect(o.subjects[iri])
}

// ReferencingAxioms returns the axioms whose signature contains e, optionally
// restricted to the given types.
func (o *Ontology) ReferencingAxioms(e Entity, types ...AxiomType) []Axiom {
	all := o.collect(o.refs[e])
	if len(types) == 0 {
		return all
	}
	want := make(map[AxiomType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	out := all[:0]
	for _, ax := range all {
		if want[ax.Type] {
			out = append(out, ax)
		}
	}
	return out
}

// Signature returns every entity mentioned by an axiom of this ontology.
func (o *Ontology) Signature() EntitySet {
	sig := make(EntitySet, len(o.refs))
	for e := range o.refs {
		sig.Add(e)
	}
	return sig
}

// ContainsEntity reports whether e is in this ontology's signature.
func (o *Ontology) ContainsEntity(e Entity) bool {
	return len(o.refs[e]) > 0
}

// ContainsEntityInClosure reports whether e is in the signature of any ontology
// of the imports closure.
func (o *Ontology) ContainsEntityInClosure(e Entity) bool {
	for _, ont := range o.ImportsClosure() {
		if ont.ContainsEntity(e) {
			return true
		}
	}
	return false
}

func (o *Ontology) signatureOf(kind EntityKind) []Entity {
	var out []Entity
	for e := range o.refs {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	SortEntities(out)
	return out
}

// ClassesInSignature returns the classes of this ontology's signature.
func (o *Ontology) ClassesInSignature() []Entity { return o.signatureOf(Class) }

// ObjectPropertiesInSignature returns the object properties of the signature.
func (o *Ontology) ObjectPropertiesInSignature() []Entity { return o.signatureOf(ObjectProperty) }

// DataPropertiesInSignature returns the data properties of the signature.
func (o *Ontology) DataPropertiesInSignature() []Entity { return o.signatureOf(DataProperty) }

// IndividualsInSignature returns the named individuals of the signature.
func (o *Ontology) IndividualsInSignature() []Entity { return o.signatureOf(Individual) }

// GetExisting returns the entity of the given kind named iri if it exists in
// the imports closure.
func (o *Ontology) GetExisting(kind EntityKind, iri IRI) (Entity, bool) {
	e := Entity{Kind: kind, IRI: iri}
	if o.ContainsEntityInClosure(e) {
		return e, true
	}
	return Entity{}, false
}

// GetExistingAnnotationProperty returns the annotation property iri if it
// exists in the imports closure.
func (o *Ontology) GetExistingAnnotationProperty(iri IRI) (Entity, bool) {
	return o.GetExisting(AnnotationProperty, iri)
}

// entityLookupOrder is the precedence used when an IRI is punned.
var entityLookupOrder = []EntityKind{Class, ObjectProperty, DataProperty, AnnotationProperty, Individual}

// GetExistingEntity resolves id (full IRI, CURIE or OBO ID) to an entity of the
// imports closure. When the IRI names several kinds, classes win over
// properties and properties over individuals. The error is a *LookupError.
func (o *Ontology) GetExistingEntity(id string) (Entity, error) {
	iri, err := o.prefixes.Expand(id)
	if err != nil {
		return Entity{}, &LookupError{ID: id, Cause: err}
	}
	for _, kind := range entityLookupOrder {
		if e, ok := o.GetExisting(kind, iri); ok {
			return e, nil
		}
	}
	return Entity{}, &LookupError{ID: id}
}

// RemoveEntity deletes every axiom of the imports closure that mentions e.
// Annotation assertions about e are only removed when removeAnnotations is set.
// It returns the removed axioms.
func (o *Ontology) RemoveEntity(e Entity, removeAnnotations bool) []Axiom {
	var removed []Axiom
	for _, ont := range o.ImportsClosure() {
		var del []Axiom
		for _, ax := range ont.collect(ont.refs[e]) {
			if ax.Type != AnnotationAssertion {
				del = append(del, ax)
			}
		}
		if removeAnnotations {
			del = append(del, ont.AnnotationAssertionAxioms(e.IRI)...)
		}
		for _, ax := range del {
			if ont.RemoveAxiom(ax) {
				removed = append(removed, ax)
			}
		}
	}
	return removed
}

// Annotations returns the ontology-level annotations.
func (o *Ontology) Annotations() []Annotation {
	return append([]Annotation(nil), o.annotations...)
}

// AddAnnotation adds an ontology-level annotation unless already present.
func (o *Ontology) AddAnnotation(ann Annotation) bool {
	k := ann.Key()
	for _, existing := range o.annotations {
		if existing.Key() == k {
			return false
		}
	}
	o.annotations = append(o.annotations, ann)
	o.revision++
	return true
}

// SetSource stamps the ontology with a dc:source annotation pointing at iri.
func (o *Ontology) SetSource(iri IRI) {
	o.AddAnnotation(Annotation{Property: Source, Value: IRITerm(iri)})
}

// Clone returns a copy that shares the imported ontologies but owns its axioms
// and annotations.
func (o *Ontology) Clone() *Ontology {
	c := New(o.id.IRI)
	c.id = o.id
	for _, p := range o.prefixes.Prefixes() {
		c.prefixes.Add(p, o.prefixes.prefixes[p])
	}
	for _, ax := range o.axioms {
		c.AddAxiom(ax)
	}
	c.imports = append(c.imports, o.imports...)
	c.importIRIs = append(c.importIRIs, o.importIRIs...)
	c.annotations = append(c.annotations, o.annotations...)
	return c
}
