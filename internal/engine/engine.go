// Package engine wires the Language Registry, Parser Pool, AST Cache,
// Symbol Index, Full-Text Index, Query Planner, Refactoring Engine,
// Progress Bus, and Agent Orchestrator into the single object spec
// section 6's external interfaces (Query API, Refactor API, Progress Bus
// subscription) are implemented against.
package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/sourcelens/engine/internal/astcache"
	"github.com/sourcelens/engine/internal/codeintel"
	"github.com/sourcelens/engine/internal/config"
	cierrors "github.com/sourcelens/engine/internal/errors"
	"github.com/sourcelens/engine/internal/fulltext"
	"github.com/sourcelens/engine/internal/langreg"
	"github.com/sourcelens/engine/internal/orchestrator"
	"github.com/sourcelens/engine/internal/parserpool"
	"github.com/sourcelens/engine/internal/progressbus"
	"github.com/sourcelens/engine/internal/queryplanner"
	"github.com/sourcelens/engine/internal/refactor"
	"github.com/sourcelens/engine/internal/symbolextract"
	"github.com/sourcelens/engine/internal/symbolindex"
)

// Engine is the in-process wiring of every component from spec section 4;
// it is the receiver the CLI and the MCP server both drive.
type Engine struct {
	cfg *config.Config

	Registry *langreg.Registry
	Pool     *parserpool.Pool
	Cache    *astcache.Cache
	Symbols  *symbolindex.Index
	FullText *fulltext.Index
	Planner  *queryplanner.Planner

	RenamePlanner *refactor.RenamePlanner
	Applier       *refactor.Applier

	Bus          *progressbus.Bus
	Orchestrator *orchestrator.Orchestrator
}

// New builds an Engine from a resolved Config. Intelligence tunables
// (cache_capacity, cache_ttl, max_file_size, search_timeout,
// max_parallel_agents) drive the component constructors exactly as spec
// section 6's Configuration table describes.
func New(cfg *config.Config) *Engine {
	intel := cfg.Intelligence.Resolve()

	registry := langreg.NewBuiltinRegistry()
	for ext, lang := range intel.LanguageExtensions {
		if g, ok := registry.LookupLanguage(parseLanguageTag(lang)); ok {
			overlay := *g
			overlay.Extensions = []string{ext}
			registry.Register(&overlay)
		}
	}

	pool := parserpool.NewPool(registry).WithMaxFileSize(intel.MaxFileSize)
	cache := astcache.NewCache(intel.CacheCapacity, intel.CacheTTL)
	symbols := symbolindex.NewIndex()
	fullText := fulltext.NewIndex()
	planner := queryplanner.NewPlanner(symbols, fullText, intel.CacheTTL)
	planner.Timeout = intel.SearchTimeout
	planner.MaxResults = intel.MaxResults
	bus := progressbus.NewBus()
	registryOfAgents := orchestrator.NewRegistry()
	orch := orchestrator.New(registryOfAgents, bus)
	orch.MaxParallel = intel.MaxParallelAgents
	if cfg.Orchestrator.SimulatedMode {
		sim := orchestrator.SimulatedWorker{}
		for _, name := range simulatedAgentNames {
			registryOfAgents.Register(name, sim)
		}
	}

	e := &Engine{
		cfg:      cfg,
		Registry: registry,
		Pool:     pool,
		Cache:    cache,
		Symbols:  symbols,
		FullText: fullText,
		Planner:  planner,
		Bus:      bus,
		Orchestrator: orch,
	}
	e.RenamePlanner = refactor.NewRenamePlanner(symbols, fullText, e.readFile)
	e.Applier = refactor.NewApplier(e)
	return e
}

// simulatedAgentNames mirrors the canned step lists SimulatedWorker knows
// about (internal/orchestrator/simulated.go), registered up front so
// `agent run --simulated` works against any of them out of the box.
var simulatedAgentNames = []string{
	"code-reviewer", "refactorer", "debugger", "test-writer",
	"performance", "security", "docs",
}

func parseLanguageTag(tag string) codeintel.Language {
	for lang := codeintel.LangUnknown; lang <= codeintel.LangRST; lang++ {
		if lang.String() == strings.ToLower(tag) {
			return lang
		}
	}
	return codeintel.LangUnknown
}

// IndexDirectory walks root, parsing every file the Language Registry
// recognizes and excluding anything cfg.Exclude matches, populating the
// Symbol Index and Full-Text Index. It returns the number of files
// successfully indexed; per-file parse failures are skipped rather than
// aborting the walk, matching spec section 7's "analyzers recover locally"
// propagation policy.
func (e *Engine) IndexDirectory(ctx context.Context, root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if e.Excluded(rel) {
			return nil
		}
		if _, ok := e.Registry.DetectFromPath(path); !ok {
			return nil
		}
		if indexErr := e.IndexFile(ctx, path); indexErr != nil {
			return nil // skip unparsable files, don't abort the walk
		}
		count++
		return nil
	})
	return count, err
}

// Excluded reports whether relPath matches one of cfg.Exclude's globs.
// It is exported so callers that walk the project root outside of
// IndexDirectory (e.g. the import-rewrite scan behind plan_imports and
// `refactor plan-imports`) apply the same exclude policy.
func (e *Engine) Excluded(relPath string) bool {
	slashPath := filepath.ToSlash(relPath)
	for _, pattern := range e.cfg.Exclude {
		if ok, _ := doublestar.Match(pattern, slashPath); ok {
			return true
		}
	}
	return false
}

// IndexFile parses one file, extracts its symbols, and (re)inserts them
// into the Symbol Index and Full-Text Index. Re-indexing an already
// present path replaces its entries, which is how InvalidateFile
// reconciles state after a refactor.Apply.
func (e *Engine) IndexFile(ctx context.Context, path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return cierrors.NewCodeIntelError(cierrors.ErrFileReadFailed, path, err)
	}

	lang, ok := e.Registry.DetectFromPath(path)
	if !ok {
		return cierrors.NewCodeIntelError(cierrors.ErrLanguageDetectionFailed, path, nil)
	}

	fp := astcache.Fingerprint64(source)
	ast, ok := e.Cache.Get(fp, lang)
	if !ok {
		ast, err = e.Pool.Parse(ctx, source, lang)
		if err != nil {
			return err
		}
		e.Cache.Put(fp, lang, ast)
	}

	grammar, _ := e.Registry.LookupLanguage(lang)
	symbols := symbolextract.Extract(path, ast, grammar.NodeKinds)

	e.Symbols.RemoveFile(path)
	names := make([]string, 0, len(symbols))
	kinds := make([]codeintel.SymbolKind, 0, len(symbols))
	for _, sym := range symbols {
		e.Symbols.Insert(sym)
		names = append(names, sym.Name)
		kinds = append(kinds, sym.Kind)
	}

	e.FullText.Index(fulltext.Document{
		Path:        path,
		Language:    lang,
		Content:     string(source),
		SymbolNames: names,
		SymbolKinds: kinds,
		Fingerprint: uint64(fp),
	})

	e.Planner.InvalidateCache()
	return nil
}

// InvalidateFile implements refactor.Invalidator: it re-reads and
// re-indexes file, or - if the refactor deleted it - removes it from both
// indexes.
func (e *Engine) InvalidateFile(file string) {
	if _, err := os.Stat(file); err != nil {
		e.Symbols.RemoveFile(file)
		e.FullText.Remove(file)
		e.Planner.InvalidateCache()
		return
	}
	_ = e.IndexFile(context.Background(), file)
}

func (e *Engine) readFile(file string) ([]byte, error) {
	return os.ReadFile(file)
}
