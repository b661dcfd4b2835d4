package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/ontomod/pkg/owl"
	"github.com/orneryd/ontomod/pkg/owl/owltest"
)

// engines returns a fresh instance of every Engine implementation.
func engines(t *testing.T) map[string]Engine {
	t.Helper()
	badgerEngine, err := NewBadgerEngineInMemory()
	require.NoError(t, err)
	out := map[string]Engine{
		"memory": NewMemoryEngine(),
		"badger": badgerEngine,
	}
	t.Cleanup(func() {
		for _, e := range out {
			_ = e.Close()
		}
	})
	return out
}

func animalsDoc() *owl.Document {
	doc := owltest.Animals().ToDocument()
	doc.Prefixes = map[string]string{"ex": owltest.NS}
	doc.Annotations = []owl.Annotation{{Property: owl.Label, Value: owl.Literal("animals", "")}}
	return doc
}

func TestEnginePutGet(t *testing.T) {
	for name, engine := range engines(t) {
		t.Run(name, func(t *testing.T) {
			doc := animalsDoc()
			info, err := engine.PutDocument(doc)
			require.NoError(t, err)
			assert.Equal(t, owltest.IRI("animals"), info.Name)
			assert.Equal(t, len(doc.Axioms), info.Axioms)
			assert.NotEmpty(t, info.Revision)
			assert.False(t, info.UpdatedAt.IsZero())

			got, err := engine.GetDocument(info.Name)
			require.NoError(t, err)
			assert.Equal(t, doc, got)

			ont, err := owl.FromDocument(got)
			require.NoError(t, err)
			assert.Equal(t, owltest.Animals().AxiomCount(), ont.AxiomCount())
		})
	}
}

func TestEngineReplace(t *testing.T) {
	for name, engine := range engines(t) {
		t.Run(name, func(t *testing.T) {
			first, err := engine.PutDocument(animalsDoc())
			require.NoError(t, err)

			smaller := animalsDoc()
			smaller.Axioms = smaller.Axioms[:2]
			smaller.Imports = []owl.IRI{owltest.IRI("upper")}
			second, err := engine.PutDocument(smaller)
			require.NoError(t, err)
			assert.NotEqual(t, first.Revision, second.Revision)

			got, err := engine.GetDocument(second.Name)
			require.NoError(t, err)
			assert.Len(t, got.Axioms, 2)

			infos, err := engine.ListDocuments()
			require.NoError(t, err)
			require.Len(t, infos, 1)
			assert.Equal(t, second.Revision, infos[0].Revision)

			importers, err := engine.Importers(owltest.IRI("upper"))
			require.NoError(t, err)
			assert.Equal(t, []owl.IRI{second.Name}, importers)
		})
	}
}

func TestEngineDelete(t *testing.T) {
	for name, engine := range engines(t) {
		t.Run(name, func(t *testing.T) {
			doc := animalsDoc()
			doc.Imports = []owl.IRI{owltest.IRI("upper")}
			info, err := engine.PutDocument(doc)
			require.NoError(t, err)

			require.NoError(t, engine.DeleteDocument(info.Name))
			_, err = engine.GetDocument(info.Name)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, engine.DeleteDocument(info.Name), ErrNotFound)

			importers, err := engine.Importers(owltest.IRI("upper"))
			require.NoError(t, err)
			assert.Empty(t, importers)

			// A re-put after delete starts clean.
			_, err = engine.PutDocument(doc)
			require.NoError(t, err)
			got, err := engine.GetDocument(info.Name)
			require.NoError(t, err)
			assert.Len(t, got.Axioms, len(doc.Axioms))
		})
	}
}

func TestEngineList(t *testing.T) {
	for name, engine := range engines(t) {
		t.Run(name, func(t *testing.T) {
			for _, local := range []string{"b", "a", "c"} {
				_, err := engine.PutDocument(&owl.Document{IRI: owltest.IRI(local)})
				require.NoError(t, err)
			}
			versioned := &owl.Document{IRI: owltest.IRI("d"), VersionIRI: owltest.IRI("d/1.0")}
			_, err := engine.PutDocument(versioned)
			require.NoError(t, err)

			infos, err := engine.ListDocuments()
			require.NoError(t, err)
			var names []owl.IRI
			for _, info := range infos {
				names = append(names, info.Name)
			}
			assert.Equal(t, []owl.IRI{owltest.IRI("a"), owltest.IRI("b"), owltest.IRI("c"), owltest.IRI("d/1.0")}, names)
			assert.Equal(t, owltest.IRI("d"), infos[3].IRI)
		})
	}
}

func TestEngineInvalid(t *testing.T) {
	for name, engine := range engines(t) {
		t.Run(name, func(t *testing.T) {
			_, err := engine.PutDocument(nil)
			assert.ErrorIs(t, err, ErrInvalidData)
			_, err = engine.PutDocument(&owl.Document{})
			assert.ErrorIs(t, err, ErrInvalidID)
			_, err = engine.GetDocument("")
			assert.ErrorIs(t, err, ErrInvalidID)
			assert.ErrorIs(t, engine.DeleteDocument(""), ErrInvalidID)
		})
	}
}

func TestEngineClosed(t *testing.T) {
	for name, engine := range engines(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, engine.Close())
			require.NoError(t, engine.Close())

			_, err := engine.PutDocument(animalsDoc())
			assert.ErrorIs(t, err, ErrStorageClosed)
			_, err = engine.GetDocument(owltest.IRI("animals"))
			assert.ErrorIs(t, err, ErrStorageClosed)
			_, err = engine.ListDocuments()
			assert.ErrorIs(t, err, ErrStorageClosed)
			_, err = engine.Importers(owltest.IRI("animals"))
			assert.ErrorIs(t, err, ErrStorageClosed)
		})
	}
}

func TestMemoryEngineCopies(t *testing.T) {
	engine := NewMemoryEngine()
	doc := animalsDoc()
	_, err := engine.PutDocument(doc)
	require.NoError(t, err)

	doc.Axioms[0].Args[0] = owl.IRITerm("mutated")
	doc.Prefixes["ex"] = "mutated"

	got, err := engine.GetDocument(doc.Name())
	require.NoError(t, err)
	assert.NotEqual(t, doc.Axioms[0], got.Axioms[0])
	assert.Equal(t, owltest.NS, got.Prefixes["ex"])
}

func TestBadgerEnginePersists(t *testing.T) {
	dir := t.TempDir()
	engine, err := NewBadgerEngine(dir)
	require.NoError(t, err)
	info, err := engine.PutDocument(animalsDoc())
	require.NoError(t, err)
	require.NoError(t, engine.RunGC())
	require.NoError(t, engine.Close())

	reopened, err := NewBadgerEngineWithOptions(BadgerOptions{DataDir: dir, SyncWrites: true})
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetDocument(info.Name)
	require.NoError(t, err)
	assert.Equal(t, animalsDoc(), got)
}

func TestRevisionOfAxiomKey(t *testing.T) {
	name := owltest.IRI("animals")
	ax := owl.NewDeclaration(owltest.Class("Dog"))
	assert.Equal(t, "rev-1", revisionOfAxiomKey(name, axiomKey(name, "rev-1", ax)))
}
