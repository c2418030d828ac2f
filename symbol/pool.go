// Package symbol implements the interning table that maps functor and variable
// names to small integer ids.
//
// Instructions reference names by id, so a Pool must outlive every instruction
// sequence produced with it. A Pool only grows: ids are dense, start at 0, and
// are never reused.
package symbol

import (
	"math"
	"sync"

	"github.com/brunokim/l0/errors"
)

// ID identifies an interned text within one Pool.
type ID uint16

// MaxSymbols is the number of distinct texts a Pool can hold.
const MaxSymbols = math.MaxUint16 + 1

type entry struct {
	text string
	refs int
}

// Pool is a bidirectional interner between texts and IDs.
//
// It's safe for concurrent use, so independent compilations may share a Pool.
type Pool struct {
	mu      sync.RWMutex
	ids     map[string]ID
	entries []entry
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{ids: make(map[string]ID)}
}

// Intern returns the id of text, creating one if text was never interned.
// Every call adds a reference to the symbol.
func (p *Pool) Intern(text string) (ID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id, ok := p.ids[text]; ok {
		p.entries[id].refs++
		return id, nil
	}
	if len(p.entries) >= MaxSymbols {
		return 0, errors.New(errors.PoolExhausted, "cannot intern %q: all %d ids are taken", text, MaxSymbols)
	}
	id := ID(len(p.entries))
	p.ids[text] = id
	p.entries = append(p.entries, entry{text: text, refs: 1})
	return id, nil
}

// Lookup returns the id of text without interning it.
func (p *Pool) Lookup(text string) (ID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	id, ok := p.ids[text]
	return id, ok
}

// Resolve returns the text of id.
//
// It fails with errors.UnknownSymbol if id wasn't issued by this pool.
func (p *Pool) Resolve(id ID) (string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if int(id) >= len(p.entries) {
		return "", errors.New(errors.UnknownSymbol, "id %d not in pool of %d symbols", id, len(p.entries))
	}
	return p.entries[id].text, nil
}

// Refs returns how many times id was interned, or 0 if it's unknown.
func (p *Pool) Refs(id ID) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if int(id) >= len(p.entries) {
		return 0
	}
	return p.entries[id].refs
}

// Len returns the number of interned symbols.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}

// Symbols returns all interned texts, indexed by id.
func (p *Pool) Symbols() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	texts := make([]string, len(p.entries))
	for i, e := range p.entries {
		texts[i] = e.text
	}
	return texts
}
