// Package symbolindex is the in-memory mapping from symbol name to
// occurrences described in spec section 4.3: a dictionary from name to a
// list of entries keyed by (file, kind), giving average-case O(1) lookup
// for the Symbol query.
package symbolindex

import (
	"sync"

	"github.com/sourcelens/engine/internal/codeintel"
)

// fileKind is the secondary key distinguishing entries that share a name.
type fileKind struct {
	file string
	kind codeintel.SymbolKind
}

// Index is the many-reader, one-writer Symbol Index. Writes happen during
// indexing and after refactoring (spec section 5).
type Index struct {
	mu      sync.RWMutex
	byName  map[string]map[fileKind]*codeintel.Symbol
	byFile  map[string][]*codeintel.Symbol
}

func NewIndex() *Index {
	return &Index{
		byName: make(map[string]map[fileKind]*codeintel.Symbol),
		byFile: make(map[string][]*codeintel.Symbol),
	}
}

// Insert adds or replaces a symbol's entry. The (name, file, kind) triple
// is the entry's identity: re-inserting the same triple overwrites rather
// than duplicating.
func (idx *Index) Insert(sym codeintel.Symbol) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	key := fileKind{file: sym.DefinedAt.File, kind: sym.Kind}
	byKey, ok := idx.byName[sym.Name]
	if !ok {
		byKey = make(map[fileKind]*codeintel.Symbol)
		idx.byName[sym.Name] = byKey
	}

	stored := sym
	byKey[key] = &stored
	idx.byFile[sym.DefinedAt.File] = appendUniqueSymbol(idx.byFile[sym.DefinedAt.File], &stored)
}

func appendUniqueSymbol(list []*codeintel.Symbol, sym *codeintel.Symbol) []*codeintel.Symbol {
	for i, existing := range list {
		if existing.Name == sym.Name && existing.Kind == sym.Kind {
			list[i] = sym
			return list
		}
	}
	return append(list, sym)
}

// Lookup returns every entry whose name matches, optionally filtered to a
// single kind. The returned slice is a superset of that symbol's
// definitions, satisfying the testable property in spec section 8.
func (idx *Index) Lookup(name string, kind *codeintel.SymbolKind) []codeintel.Symbol {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	byKey, ok := idx.byName[name]
	if !ok {
		return nil
	}
	results := make([]codeintel.Symbol, 0, len(byKey))
	for k, sym := range byKey {
		if kind != nil && k.kind != *kind {
			continue
		}
		results = append(results, *sym)
	}
	return results
}

// Definitions returns every DefinedAt location for a name.
func (idx *Index) Definitions(name string) []codeintel.Location {
	syms := idx.Lookup(name, nil)
	locs := make([]codeintel.Location, 0, len(syms))
	for _, s := range syms {
		locs = append(locs, s.DefinedAt)
	}
	return locs
}

// References returns every reference location (including definitions) for
// a name across all files.
func (idx *Index) References(name string) []codeintel.Location {
	syms := idx.Lookup(name, nil)
	var locs []codeintel.Location
	for _, s := range syms {
		locs = append(locs, s.References...)
	}
	return locs
}

// SymbolsInFile returns every symbol defined in a file - used to
// reindex/invalidate a single file after a refactor writes it.
func (idx *Index) SymbolsInFile(file string) []codeintel.Symbol {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	list := idx.byFile[file]
	out := make([]codeintel.Symbol, len(list))
	for i, s := range list {
		out[i] = *s
	}
	return out
}

// RemoveFile drops every symbol defined in file - called before a
// reparse so stale entries never shadow fresh ones.
func (idx *Index) RemoveFile(file string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, sym := range idx.byFile[file] {
		key := fileKind{file: file, kind: sym.Kind}
		if byKey, ok := idx.byName[sym.Name]; ok {
			delete(byKey, key)
			if len(byKey) == 0 {
				delete(idx.byName, sym.Name)
			}
		}
	}
	delete(idx.byFile, file)
}

// All returns every symbol in the index, across every file - used by
// whole-project analyzers (dead code) that need the full symbol set rather
// than one file's.
func (idx *Index) All() []codeintel.Symbol {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]codeintel.Symbol, 0, len(idx.byFile))
	for _, list := range idx.byFile {
		for _, s := range list {
			out = append(out, *s)
		}
	}
	return out
}

// Exists reports whether name is known as a symbol anywhere in the index -
// used by the refactoring engine's rename conflict policy.
func (idx *Index) Exists(name string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.byName[name]
	return ok
}

// Len reports the total number of distinct (name, file, kind) entries.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	total := 0
	for _, byKey := range idx.byName {
		total += len(byKey)
	}
	return total
}
