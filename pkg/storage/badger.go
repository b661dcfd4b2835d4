package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/orneryd/ontomod/pkg/owl"
)

// Key prefixes for BadgerDB storage organization
// Using single-byte prefixes for efficiency
const (
	prefixHeader = byte(0x01) // header:name -> JSON(documentHeader)
	prefixAxiom  = byte(0x02) // axiom:name:revision:digest -> JSON(Axiom)
	prefixImport = byte(0x03) // import:imported:name -> []byte{}
)

// BadgerEngine provides persistent document storage using BadgerDB.
//
// Key Structure:
//   - Header: 0x01 + name -> JSON(header)
//   - Axiom: 0x02 + name + 0x00 + revision + 0x00 + blake2b(axiom key) -> JSON(Axiom)
//   - Import index: 0x03 + imported IRI + 0x00 + name -> empty
//
// Axiom rows are written under a fresh revision before the header that points
// at it is committed, so readers always see one complete revision. Rows of
// older revisions are swept afterwards.
//
// Example:
//
//	engine, err := storage.NewBadgerEngine("/path/to/data")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer engine.Close()
//
//	info, err := engine.PutDocument(ont.ToDocument())
type BadgerEngine struct {
	db     *badger.DB
	mu     sync.RWMutex // Protects closed
	closed bool
}

// BadgerOptions configures the BadgerDB engine.
type BadgerOptions struct {
	// DataDir is the directory for storing data files.
	// Required unless InMemory is set.
	DataDir string

	// InMemory runs BadgerDB in memory-only mode.
	// Useful for testing. Data is not persisted.
	InMemory bool

	// SyncWrites forces fsync after each write.
	// Slower but more durable.
	SyncWrites bool

	// Logger receives BadgerDB's internal logging.
	// If nil, BadgerDB logs nothing.
	Logger *zap.Logger
}

// NewBadgerEngine opens a persistent store in dataDir with default settings.
func NewBadgerEngine(dataDir string) (*BadgerEngine, error) {
	return NewBadgerEngineWithOptions(BadgerOptions{DataDir: dataDir})
}

// NewBadgerEngineInMemory creates an in-memory BadgerDB for testing.
func NewBadgerEngineInMemory() (*BadgerEngine, error) {
	return NewBadgerEngineWithOptions(BadgerOptions{InMemory: true})
}

// NewBadgerEngineWithOptions creates a BadgerEngine with custom configuration.
func NewBadgerEngineWithOptions(opts BadgerOptions) (*BadgerEngine, error) {
	dir := opts.DataDir
	if opts.InMemory {
		dir = ""
	}
	badgerOpts := badger.DefaultOptions(dir)

	if opts.InMemory {
		badgerOpts = badgerOpts.WithInMemory(true)
	}

	if opts.SyncWrites {
		badgerOpts = badgerOpts.WithSyncWrites(true)
	}

	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(badgerLogger{opts.Logger.Sugar().Named("badger")})
	} else {
		// Use a quiet logger by default
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	badgerOpts = badgerOpts.
		WithMemTableSize(16 << 20).     // 16MB instead of 64MB
		WithValueLogFileSize(64 << 20). // 64MB instead of 1GB
		WithNumMemtables(2).            // 2 instead of 5
		WithValueThreshold(1024).       // Store values > 1KB in value log
		WithBlockCacheSize(32 << 20).   // 32MB block cache
		WithIndexCacheSize(16 << 20)    // 16MB index cache

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open BadgerDB: %w", err)
	}
	return &BadgerEngine{db: db}, nil
}

// badgerLogger adapts zap to badger.Logger.
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (l badgerLogger) Errorf(f string, args ...interface{})   { l.s.Errorf(strings.TrimSpace(f), args...) }
func (l badgerLogger) Warningf(f string, args ...interface{}) { l.s.Warnf(strings.TrimSpace(f), args...) }
func (l badgerLogger) Infof(f string, args ...interface{})    { l.s.Infof(strings.TrimSpace(f), args...) }
func (l badgerLogger) Debugf(f string, args ...interface{})   { l.s.Debugf(strings.TrimSpace(f), args...) }

// ============================================================================
// Key encoding helpers
// ============================================================================

func headerKey(name owl.IRI) []byte {
	return append([]byte{prefixHeader}, []byte(name)...)
}

// axiomPrefix returns the prefix of every axiom row of name, or of one
// revision of it when revision is non-empty.
func axiomPrefix(name owl.IRI, revision string) []byte {
	key := make([]byte, 0, 1+len(name)+1+len(revision)+1)
	key = append(key, prefixAxiom)
	key = append(key, []byte(name)...)
	key = append(key, 0x00)
	if revision != "" {
		key = append(key, []byte(revision)...)
		key = append(key, 0x00)
	}
	return key
}

func axiomKey(name owl.IRI, revision string, ax owl.Axiom) []byte {
	digest := blake2b.Sum256([]byte(ax.Key()))
	return append(axiomPrefix(name, revision), digest[:]...)
}

// revisionOfAxiomKey extracts the revision from an axiom row key of name.
func revisionOfAxiomKey(name owl.IRI, key []byte) string {
	rest := key[len(axiomPrefix(name, "")):]
	if i := bytes.IndexByte(rest, 0x00); i >= 0 {
		return string(rest[:i])
	}
	return ""
}

func importKey(imported, name owl.IRI) []byte {
	key := make([]byte, 0, 1+len(imported)+1+len(name))
	key = append(key, prefixImport)
	key = append(key, []byte(imported)...)
	key = append(key, 0x00)
	key = append(key, []byte(name)...)
	return key
}

// ============================================================================
// Serialization helpers
// ============================================================================

// documentHeader is everything of a document except its axioms.
type documentHeader struct {
	IRI         owl.IRI           `json:"iri,omitempty"`
	VersionIRI  owl.IRI           `json:"versionIri,omitempty"`
	Imports     []owl.IRI         `json:"imports,omitempty"`
	Prefixes    map[string]string `json:"prefixes,omitempty"`
	Annotations []owl.Annotation  `json:"annotations,omitempty"`
	Axioms      int               `json:"axioms"`
	Revision    string            `json:"revision"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func (h *documentHeader) info(name owl.IRI) DocumentInfo {
	return DocumentInfo{
		Name:       name,
		IRI:        h.IRI,
		VersionIRI: h.VersionIRI,
		Imports:    h.Imports,
		Axioms:     h.Axioms,
		Revision:   h.Revision,
		UpdatedAt:  h.UpdatedAt,
	}
}

func readHeader(txn *badger.Txn, name owl.IRI) (*documentHeader, error) {
	item, err := txn.Get(headerKey(name))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var h documentHeader
	err = item.Value(func(val []byte) error { return json.Unmarshal(val, &h) })
	if err != nil {
		return nil, fmt.Errorf("failed to decode header of %s: %w", name, err)
	}
	return &h, nil
}

func (b *BadgerEngine) checkOpen() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrStorageClosed
	}
	return nil
}

// ============================================================================
// Engine implementation
// ============================================================================

// PutDocument stores doc under a new revision, replacing any previous one.
func (b *BadgerEngine) PutDocument(doc *owl.Document) (DocumentInfo, error) {
	if err := validate(doc); err != nil {
		return DocumentInfo{}, err
	}
	if err := b.checkOpen(); err != nil {
		return DocumentInfo{}, err
	}

	name := doc.Name()
	h := &documentHeader{
		IRI:         doc.IRI,
		VersionIRI:  doc.VersionIRI,
		Imports:     doc.Imports,
		Prefixes:    doc.Prefixes,
		Annotations: doc.Annotations,
		Axioms:      len(doc.Axioms),
		Revision:    uuid.NewString(),
		UpdatedAt:   time.Now().UTC(),
	}

	// Axiom rows may not fit one transaction; a write batch splits them.
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for _, ax := range doc.Axioms {
		data, err := json.Marshal(ax)
		if err != nil {
			return DocumentInfo{}, fmt.Errorf("failed to encode axiom: %w", err)
		}
		if err := wb.Set(axiomKey(name, h.Revision, ax), data); err != nil {
			return DocumentInfo{}, err
		}
	}
	if err := wb.Flush(); err != nil {
		return DocumentInfo{}, fmt.Errorf("failed to write axioms of %s: %w", name, err)
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		old, err := readHeader(txn, name)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
		if old != nil {
			for _, imp := range old.Imports {
				if err := txn.Delete(importKey(imp, name)); err != nil {
					return err
				}
			}
		}
		for _, imp := range h.Imports {
			if err := txn.Set(importKey(imp, name), []byte{}); err != nil {
				return err
			}
		}
		data, err := json.Marshal(h)
		if err != nil {
			return fmt.Errorf("failed to encode header: %w", err)
		}
		return txn.Set(headerKey(name), data)
	})
	if err != nil {
		return DocumentInfo{}, err
	}

	if err := b.sweep(name, h.Revision); err != nil {
		return DocumentInfo{}, fmt.Errorf("failed to remove stale axioms of %s: %w", name, err)
	}
	return h.info(name), nil
}

// sweep deletes the axiom rows of name that belong to any revision other
// than keep. An empty keep deletes them all.
func (b *BadgerEngine) sweep(name owl.IRI, keep string) error {
	var stale [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = axiomPrefix(name, "")
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().KeyCopy(nil)
			if keep == "" || revisionOfAxiomKey(name, key) != keep {
				stale = append(stale, key)
			}
		}
		return nil
	})
	if err != nil || len(stale) == 0 {
		return err
	}

	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for _, key := range stale {
		if err := wb.Delete(key); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// GetDocument returns the current revision of the document stored under name.
// Axioms are ordered by key.
func (b *BadgerEngine) GetDocument(name owl.IRI) (*owl.Document, error) {
	if name == "" {
		return nil, ErrInvalidID
	}
	if err := b.checkOpen(); err != nil {
		return nil, err
	}

	var doc *owl.Document
	err := b.db.View(func(txn *badger.Txn) error {
		h, err := readHeader(txn, name)
		if err != nil {
			return err
		}
		doc = &owl.Document{
			IRI:         h.IRI,
			VersionIRI:  h.VersionIRI,
			Imports:     h.Imports,
			Prefixes:    h.Prefixes,
			Annotations: h.Annotations,
			Axioms:      make([]owl.Axiom, 0, h.Axioms),
		}

		opts := badger.DefaultIteratorOptions
		opts.Prefix = axiomPrefix(name, h.Revision)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var ax owl.Axiom
			if err := it.Item().Value(func(val []byte) error { return json.Unmarshal(val, &ax) }); err != nil {
				return fmt.Errorf("failed to decode axiom of %s: %w", name, err)
			}
			doc.Axioms = append(doc.Axioms, ax)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	keys := make(map[int]string, len(doc.Axioms))
	for i, ax := range doc.Axioms {
		keys[i] = ax.Key()
	}
	idx := make([]int, len(doc.Axioms))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return keys[idx[i]] < keys[idx[j]] })
	sorted := make([]owl.Axiom, len(idx))
	for i, j := range idx {
		sorted[i] = doc.Axioms[j]
	}
	doc.Axioms = sorted
	return doc, nil
}

// DeleteDocument removes the document stored under name.
func (b *BadgerEngine) DeleteDocument(name owl.IRI) error {
	if name == "" {
		return ErrInvalidID
	}
	if err := b.checkOpen(); err != nil {
		return err
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		h, err := readHeader(txn, name)
		if err != nil {
			return err
		}
		for _, imp := range h.Imports {
			if err := txn.Delete(importKey(imp, name)); err != nil {
				return err
			}
		}
		return txn.Delete(headerKey(name))
	})
	if err != nil {
		return err
	}
	return b.sweep(name, "")
}

// ListDocuments describes every stored document, ordered by name.
func (b *BadgerEngine) ListDocuments() ([]DocumentInfo, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}

	var out []DocumentInfo
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte{prefixHeader}
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			name := owl.IRI(item.Key()[1:])
			var h documentHeader
			if err := item.Value(func(val []byte) error { return json.Unmarshal(val, &h) }); err != nil {
				return fmt.Errorf("failed to decode header of %s: %w", name, err)
			}
			out = append(out, h.info(name))
		}
		return nil
	})
	return out, err
}

// Importers returns the names of the stored documents that import iri
// directly, ordered by name.
func (b *BadgerEngine) Importers(iri owl.IRI) ([]owl.IRI, error) {
	if err := b.checkOpen(); err != nil {
		return nil, err
	}

	var out []owl.IRI
	prefix := importKey(iri, "")
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			out = append(out, owl.IRI(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return out, err
}

// Close closes the BadgerDB database.
func (b *BadgerEngine) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	b.closed = true
	return b.db.Close()
}

// RunGC runs garbage collection on the BadgerDB value log.
func (b *BadgerEngine) RunGC() error {
	if err := b.checkOpen(); err != nil {
		return err
	}
	err := b.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}
