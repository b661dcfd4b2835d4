package storage

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/orneryd/ontomod/pkg/owl"
)

// MemoryEngine is a thread-safe in-memory document store.
//
// Use Cases:
//   - Unit testing (no disk I/O, fast cleanup)
//   - Holding documents read from files so a Loader can resolve imports
//     between them
//
// Documents are copied on the way in and on the way out, so callers may
// keep mutating what they passed or received.
type MemoryEngine struct {
	mu     sync.RWMutex
	docs   map[owl.IRI]*owl.Document
	infos  map[owl.IRI]DocumentInfo
	closed bool
}

// NewMemoryEngine creates an empty in-memory store.
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{
		docs:  make(map[owl.IRI]*owl.Document),
		infos: make(map[owl.IRI]DocumentInfo),
	}
}

// PutDocument stores a copy of doc.
func (m *MemoryEngine) PutDocument(doc *owl.Document) (DocumentInfo, error) {
	if err := validate(doc); err != nil {
		return DocumentInfo{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return DocumentInfo{}, ErrStorageClosed
	}

	info := infoOf(doc, uuid.NewString(), time.Now().UTC())
	m.docs[info.Name] = copyDocument(doc)
	m.infos[info.Name] = info
	return info, nil
}

// GetDocument returns a copy of the document stored under name.
func (m *MemoryEngine) GetDocument(name owl.IRI) (*owl.Document, error) {
	if name == "" {
		return nil, ErrInvalidID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStorageClosed
	}

	doc, ok := m.docs[name]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDocument(doc), nil
}

// DeleteDocument removes the document stored under name.
func (m *MemoryEngine) DeleteDocument(name owl.IRI) error {
	if name == "" {
		return ErrInvalidID
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStorageClosed
	}

	if _, ok := m.docs[name]; !ok {
		return ErrNotFound
	}
	delete(m.docs, name)
	delete(m.infos, name)
	return nil
}

// ListDocuments describes every stored document, ordered by name.
func (m *MemoryEngine) ListDocuments() ([]DocumentInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStorageClosed
	}

	out := make([]DocumentInfo, 0, len(m.infos))
	for _, info := range m.infos {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Importers returns the names of the stored documents that import iri
// directly, ordered by name.
func (m *MemoryEngine) Importers(iri owl.IRI) ([]owl.IRI, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStorageClosed
	}

	var out []owl.IRI
	for name, info := range m.infos {
		for _, imp := range info.Imports {
			if imp == iri {
				out = append(out, name)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Close drops every document. Further calls fail with ErrStorageClosed.
func (m *MemoryEngine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.docs = nil
	m.infos = nil
	return nil
}
