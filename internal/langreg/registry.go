// Package langreg maps file extensions and language tags to grammar
// handles. Each grammar is a plug-in registered at startup per the external
// interface contract: {language_tag, extensions[], parse(bytes)->tree,
// node_kind_sets}.
package langreg

import (
	"path/filepath"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourcelens/engine/internal/codeintel"
)

// Grammar is the plug-in contract a language implementation supplies.
type Grammar struct {
	Language   codeintel.Language
	Extensions []string
	TSLanguage *tree_sitter.Language
	NodeKinds  codeintel.NodeKindSet
}

// Registry is the mapping from extension to grammar. It is built once at
// startup and only ever extended through Register, for the startup-overlay
// path driven by the language_extensions config option. Lookups take a
// read lock and Register takes the write lock.
type Registry struct {
	mu         sync.RWMutex
	byExt      map[string]*Grammar
	byLanguage map[codeintel.Language]*Grammar
}

func NewRegistry() *Registry {
	return &Registry{
		byExt:      make(map[string]*Grammar),
		byLanguage: make(map[codeintel.Language]*Grammar),
	}
}

// Register adds or overlays a grammar. Later registrations for an already
// known extension win - this is how the language_extensions config option
// overlays the built-in table.
func (r *Registry) Register(g *Grammar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ext := range g.Extensions {
		r.byExt[normalizeExt(ext)] = g
	}
	r.byLanguage[g.Language] = g
}

func normalizeExt(ext string) string {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.ToLower(ext)
}

// Lookup resolves a language by extension.
func (r *Registry) Lookup(ext string) (*Grammar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byExt[normalizeExt(ext)]
	return g, ok
}

// LookupLanguage resolves a language's grammar by its tag.
func (r *Registry) LookupLanguage(lang codeintel.Language) (*Grammar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.byLanguage[lang]
	return g, ok
}

// DetectFromPath derives the language from a file path's extension.
// Returns codeintel.LangUnknown, false when no grammar claims the
// extension - callers surface LanguageDetectionFailed.
func (r *Registry) DetectFromPath(path string) (codeintel.Language, bool) {
	g, ok := r.Lookup(filepath.Ext(path))
	if !ok {
		return codeintel.LangUnknown, false
	}
	return g.Language, true
}

// SupportedLanguages enumerates every language tag with a registered
// grammar.
func (r *Registry) SupportedLanguages() []codeintel.Language {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := make([]codeintel.Language, 0, len(r.byLanguage))
	for l := range r.byLanguage {
		langs = append(langs, l)
	}
	return langs
}
