// Package symbol implements the interner collaborator described by the
// module subsystem: names are pre-interned and compared by identity, with a
// precomputed hash carried alongside the text.
package symbol

import "sync"

// Name is an interned identifier. Two Names are the same identifier if and
// only if they compare equal; the interner guarantees that interning the
// same text twice returns the identical Name value.
type Name struct {
	text string
	hash uint64
}

// Text returns the original bytes this name was interned from.
func (n Name) Text() string {
	return n.text
}

// Hash returns the name's precomputed hash, suitable for bucketing without
// re-hashing the text on every lookup.
func (n Name) Hash() uint64 {
	return n.hash
}

// IsHidden reports whether this name begins with the `#` marker used for
// compiler-generated bindings that introspection hides by default.
func (n Name) IsHidden() bool {
	return len(n.text) > 0 && n.text[0] == '#'
}

func (n Name) String() string {
	return n.text
}

// Interner hands out canonical Names for byte sequences, so that identity
// comparison between two Names implies textual equality and vice versa.
type Interner struct {
	mu    sync.RWMutex
	table map[string]Name
}

// NewInterner constructs an empty Interner.
func NewInterner() *Interner {
	return &Interner{table: make(map[string]Name)}
}

// Intern returns the canonical Name for text, creating and caching one if
// this is the first time text has been seen.
func (in *Interner) Intern(text string) Name {
	in.mu.RLock()
	if n, ok := in.table[text]; ok {
		in.mu.RUnlock()
		return n
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	// Re-check: another goroutine may have interned text while we waited
	// for the write lock.
	if n, ok := in.table[text]; ok {
		return n
	}

	n := Name{text: text, hash: fnv1a(text)}
	in.table[text] = n

	return n
}

// DepMessageName composes the `_dep_message_<name>` binding name used to
// look up a custom deprecation message for name.
func DepMessageName(in *Interner, name Name) Name {
	return in.Intern("_dep_message_" + name.text)
}

// fnv1a is a small, dependency-free 64-bit hash. Nothing in this subsystem
// requires cryptographic strength, only good bucket distribution.
func fnv1a(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)

	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}

	return h
}
