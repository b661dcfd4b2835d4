// Package pool recycles the scratch memory behind structural axiom keys.
//
// Every set insertion, dedup check and storage write renders a canonical key,
// so key builders and the slices used to sort keys are reused instead of
// reallocated.
//
// Usage:
//
//	b := pool.GetKeyBuilder()
//	defer pool.PutKeyBuilder(b)
//	b.WriteString("SubClassOf(")
//	b.WriteIRI("http://example.org/Dog")
package pool

import (
	"strconv"
	"sync"
)

// Config configures pooling.
type Config struct {
	// Enabled controls whether pooling is active
	Enabled bool

	// MaxKeys limits the capacity of key slices returned to the pool
	MaxKeys int
}

var config = Config{
	Enabled: true,
	MaxKeys: 4096,
}

// maxBuilder is the largest builder capacity kept for reuse. Keys of axioms
// with huge anonymous expressions are left to the GC.
const maxBuilder = 64 << 10

// Configure replaces the pooling configuration and drops pooled objects.
func Configure(c Config) {
	config = c
	builders = sync.Pool{New: newKeyBuilder}
	keySlices = sync.Pool{New: newKeySlice}
}

// Enabled reports whether pooling is active.
func Enabled() bool { return config.Enabled }

// KeyBuilder accumulates the canonical text of a key.
type KeyBuilder struct {
	buf []byte
}

func newKeyBuilder() any { return &KeyBuilder{buf: make([]byte, 0, 256)} }

var builders = sync.Pool{New: newKeyBuilder}

// WriteString appends s.
func (b *KeyBuilder) WriteString(s string) { b.buf = append(b.buf, s...) }

// WriteByte appends c. It implements io.ByteWriter and never fails.
func (b *KeyBuilder) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// WriteIRI appends iri in angle brackets.
func (b *KeyBuilder) WriteIRI(iri string) {
	b.buf = append(b.buf, '<')
	b.buf = append(b.buf, iri...)
	b.buf = append(b.buf, '>')
}

// WriteQuoted appends s as a Go-quoted string literal.
func (b *KeyBuilder) WriteQuoted(s string) { b.buf = strconv.AppendQuote(b.buf, s) }

func (b *KeyBuilder) String() string { return string(b.buf) }

// Len returns the number of bytes written.
func (b *KeyBuilder) Len() int { return len(b.buf) }

// Reset empties the builder.
func (b *KeyBuilder) Reset() { b.buf = b.buf[:0] }

// GetKeyBuilder returns an empty builder.
func GetKeyBuilder() *KeyBuilder {
	if !config.Enabled {
		return newKeyBuilder().(*KeyBuilder)
	}
	b := builders.Get().(*KeyBuilder)
	b.Reset()
	return b
}

// PutKeyBuilder returns b for reuse. b must not be used afterwards.
func PutKeyBuilder(b *KeyBuilder) {
	if !config.Enabled || b == nil || cap(b.buf) > maxBuilder {
		return
	}
	b.Reset()
	builders.Put(b)
}

func newKeySlice() any {
	s := make([]string, 0, 64)
	return &s
}

var keySlices = sync.Pool{New: newKeySlice}

// GetKeySlice returns an empty slice for collecting keys.
func GetKeySlice() []string {
	if !config.Enabled {
		return make([]string, 0, 64)
	}
	return (*keySlices.Get().(*[]string))[:0]
}

// PutKeySlice returns s for reuse. Slices grown past Config.MaxKeys are
// dropped.
func PutKeySlice(s []string) {
	if !config.Enabled || s == nil || cap(s) > config.MaxKeys {
		return
	}
	clear(s)
	s = s[:0]
	keySlices.Put(&s)
}
