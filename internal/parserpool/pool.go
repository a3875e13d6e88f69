// Package parserpool turns (source bytes, language) into a codeintel.ParsedAst.
// At most one parser instance per language is alive at a time; callers wait
// for exclusive access through a fair, FIFO mutex per language.
package parserpool

import (
	"context"
	"os"
	"sync"
	"time"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"golang.org/x/sync/semaphore"

	"github.com/sourcelens/engine/internal/codeintel"
	cierrors "github.com/sourcelens/engine/internal/errors"
	"github.com/sourcelens/engine/internal/langreg"
)

// DefaultMaxFileSize rejects oversize files before they ever reach a parser,
// matching the file-system boundary documented in spec section 6.
const DefaultMaxFileSize = 1 * 1024 * 1024 // 1 MiB

// languageSlot holds the single reusable tree-sitter parser for one
// language, plus the weighted semaphore that serializes access to it.
// A weight-1 semaphore.Weighted queues waiters FIFO and, unlike
// sync.Mutex, takes a ctx so a caller waiting for the parser can still
// observe cancellation.
type languageSlot struct {
	sem    *semaphore.Weighted
	parser *tree_sitter.Parser
}

func newLanguageSlot() *languageSlot {
	return &languageSlot{sem: semaphore.NewWeighted(1)}
}

// Pool is the Parser Pool: one languageSlot per registered grammar,
// resolved through the Language Registry.
type Pool struct {
	registry *langreg.Registry
	slots    sync.Map // codeintel.Language -> *languageSlot
	maxSize  int64
}

func NewPool(registry *langreg.Registry) *Pool {
	return &Pool{registry: registry, maxSize: DefaultMaxFileSize}
}

// WithMaxFileSize overrides the default size cap (the max_file_size config
// option).
func (p *Pool) WithMaxFileSize(n int64) *Pool {
	p.maxSize = n
	return p
}

func (p *Pool) slotFor(lang codeintel.Language) (*languageSlot, *langreg.Grammar, bool) {
	g, ok := p.registry.LookupLanguage(lang)
	if !ok {
		return nil, nil, false
	}
	v, _ := p.slots.LoadOrStore(lang, newLanguageSlot())
	return v.(*languageSlot), g, true
}

// Parse parses source bytes as the given language, blocking until the
// language's single parser instance is free.
func (p *Pool) Parse(ctx context.Context, source []byte, lang codeintel.Language) (*codeintel.ParsedAst, error) {
	slot, grammar, ok := p.slotFor(lang)
	if !ok {
		return nil, cierrors.NewCodeIntelError(cierrors.ErrUnsupportedLanguage,
			"no grammar registered for language "+lang.String(), nil)
	}

	if err := slot.sem.Acquire(ctx, 1); err != nil {
		return nil, cierrors.NewCodeIntelError(cierrors.ErrCancelled, "parse cancelled while waiting for parser", err)
	}
	defer slot.sem.Release(1)

	if slot.parser == nil {
		slot.parser = tree_sitter.NewParser()
		if err := slot.parser.SetLanguage(grammar.TSLanguage); err != nil {
			slot.parser = nil
			return nil, cierrors.NewCodeIntelError(cierrors.ErrParseFailed,
				"failed to bind grammar for "+lang.String(), err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, cierrors.NewCodeIntelError(cierrors.ErrCancelled, "parse cancelled before start", err)
	}

	start := time.Now()
	tree := slot.parser.Parse(source, nil)
	if tree == nil {
		return nil, cierrors.NewCodeIntelError(cierrors.ErrParseFailed,
			"grammar aborted parsing "+lang.String(), nil)
	}
	duration := time.Since(start)

	ast := &codeintel.ParsedAst{
		Tree:          tree,
		Language:      lang,
		Source:        source,
		ParseDuration: duration,
		NodeCount:     countNodes(tree.RootNode()),
	}
	ast.SetErrorNodes(collectErrorNodes(tree.RootNode(), source))
	return ast, nil
}

// ParseFile reads path from disk, detects its language via the registry,
// and parses it. It is a convenience wrapper; the two failure modes it adds
// over Parse are surfaced with their own error kinds.
func (p *Pool) ParseFile(ctx context.Context, path string) (*codeintel.ParsedAst, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, cierrors.NewCodeIntelError(cierrors.ErrFileReadFailed, "stat "+path, err)
	}
	if info.Size() > p.maxSize {
		return nil, cierrors.NewCodeIntelError(cierrors.ErrFileTooLarge, path, nil)
	}

	lang, ok := p.registry.DetectFromPath(path)
	if !ok {
		return nil, cierrors.NewCodeIntelError(cierrors.ErrLanguageDetectionFailed, path, nil)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, cierrors.NewCodeIntelError(cierrors.ErrFileReadFailed, path, err)
	}

	return p.Parse(ctx, source, lang)
}

func countNodes(n *tree_sitter.Node) int {
	if n == nil {
		return 0
	}
	count := 1
	for i := uint(0); i < n.ChildCount(); i++ {
		count += countNodes(n.Child(i))
	}
	return count
}

// collectErrorNodes walks the tree looking for ERROR and MISSING nodes,
// surfaced through ParsedAst.ErrorNodes so analyzers can skip them.
func collectErrorNodes(n *tree_sitter.Node, source []byte) []codeintel.Location {
	var locs []codeintel.Location
	var walk func(node *tree_sitter.Node)
	walk = func(node *tree_sitter.Node) {
		if node == nil {
			return
		}
		if node.IsError() || node.IsMissing() {
			start := node.StartPosition()
			locs = append(locs, codeintel.Location{
				Line:       int(start.Row) + 1,
				Column:     int(start.Column) + 1,
				ByteOffset: int(node.StartByte()),
			})
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i))
		}
	}
	walk(n)
	return locs
}
