// Package queryplanner implements the Query Planner: it accepts a typed
// codeintel.Query, routes it to the cheapest layer that can answer it
// (symbol index -> full-text index -> AST walker -> line scan), aggregates
// and deduplicates results, and caches the response (spec section 4.3).
package queryplanner

import (
	"bytes"
	"context"
	"os"
	"sort"
	"time"

	"github.com/sourcelens/engine/internal/codeintel"
	core "github.com/sourcelens/engine/internal/core"
	cierrors "github.com/sourcelens/engine/internal/errors"
	"github.com/sourcelens/engine/internal/fulltext"
	"github.com/sourcelens/engine/internal/symbolindex"
)

// DefaultTimeout is the per-query deadline from spec section 5.
const DefaultTimeout = 5 * time.Second

// DefaultMaxResults truncates aggregated result sets absent an explicit
// max_results config override.
const DefaultMaxResults = 100

// Planner wires the layered indices together. FileLister is used only by
// the line-scan fallback, which needs to know which files are in scope
// when the symbol/full-text layers come up empty.
type Planner struct {
	Symbols  *symbolindex.Index
	FullText *fulltext.Index
	cache    *resultCache

	Timeout    time.Duration
	MaxResults int

	// FilesInScope lists candidate files for the AST-walker and line-scan
	// fallbacks. engine.New leaves it nil; nil disables those layers
	// gracefully (they simply find nothing).
	FilesInScope func(scope *codeintel.QueryScope) []string

	astWalker astWalkerFn
}

func NewPlanner(symbols *symbolindex.Index, fullText *fulltext.Index, cacheTTL time.Duration) *Planner {
	return &Planner{
		Symbols:    symbols,
		FullText:   fullText,
		cache:      newResultCache(cacheTTL),
		Timeout:    DefaultTimeout,
		MaxResults: DefaultMaxResults,
	}
}

// InvalidateCache drops every cached response. Called by the refactoring
// engine after applying edits, and by external file-change signals.
func (p *Planner) InvalidateCache() {
	p.cache.invalidateAll()
}

// Search answers a Query, consulting the result cache first.
func (p *Planner) Search(ctx context.Context, q codeintel.Query) (codeintel.SearchResponse, error) {
	start := time.Now()

	if cached, ok := p.cache.get(q); ok {
		return codeintel.SearchResponse{
			Results: cached,
			Metadata: codeintel.SearchMetadata{
				Layer:    layerForKind(q.Kind),
				Duration: time.Since(start),
				CacheHit: true,
			},
		}, nil
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results, layer, err := p.route(ctx, q)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// A timeout still returns whatever partial result the fastest
			// layer produced, per spec section 4.3.
			return codeintel.SearchResponse{
				Results:  p.finalize(results),
				Metadata: codeintel.SearchMetadata{Layer: layer, Duration: time.Since(start), CacheHit: false},
			}, cierrors.NewCodeIntelError(cierrors.ErrTimeout, "query exceeded deadline", ctxErr)
		}
		return codeintel.SearchResponse{}, err
	}

	final := p.finalize(results)
	p.cache.put(q, final)
	return codeintel.SearchResponse{
		Results:  final,
		Metadata: codeintel.SearchMetadata{Layer: layer, Duration: time.Since(start), CacheHit: false},
	}, nil
}

// route dispatches by query kind, trying layers in the fixed order from
// spec section 4.3's routing table. A later layer is consulted only when
// every earlier layer returned no results; results of different layers
// are never merged.
func (p *Planner) route(ctx context.Context, q codeintel.Query) ([]codeintel.SearchResult, codeintel.MatchedLayer, error) {
	switch q.Kind {
	case codeintel.QuerySymbol, codeintel.QueryDefinition, codeintel.QueryReference:
		return p.routeSymbolLike(ctx, q)
	case codeintel.QueryFullText:
		return p.routeFullText(ctx, q)
	case codeintel.QueryFuzzy:
		return p.routeFuzzy(ctx, q)
	default:
		return nil, 0, cierrors.NewCodeIntelError(cierrors.ErrInvalidQuery, "unrecognized query kind", nil)
	}
}

func (p *Planner) routeSymbolLike(ctx context.Context, q codeintel.Query) ([]codeintel.SearchResult, codeintel.MatchedLayer, error) {
	var results []codeintel.SearchResult
	layer := codeintel.LayerSymbolIndex

	var locs []codeintel.Location
	switch q.Kind {
	case codeintel.QueryDefinition:
		locs = p.Symbols.Definitions(q.Name)
	case codeintel.QueryReference:
		locs = p.Symbols.References(q.Name)
	default:
		for _, sym := range p.Symbols.Lookup(q.Name, q.SymbolKind) {
			locs = append(locs, sym.References...)
		}
	}
	for _, loc := range locs {
		results = append(results, codeintel.SearchResult{Location: loc, Score: 1.0, MatchedLayer: codeintel.LayerSymbolIndex})
	}

	if len(results) == 0 && p.FilesInScope != nil {
		walked := p.astWalkForName(ctx, q)
		if len(walked) > 0 {
			results = append(results, walked...)
			layer = codeintel.LayerASTWalker
		} else {
			scanned := p.lineScanForName(q)
			results = append(results, scanned...)
			if len(scanned) > 0 {
				layer = codeintel.LayerLineScan
			}
		}
	}
	return results, layer, nil
}

func (p *Planner) routeFullText(ctx context.Context, q codeintel.Query) ([]codeintel.SearchResult, codeintel.MatchedLayer, error) {
	hits := p.FullText.Search(q.Text, q.Filters)
	var results []codeintel.SearchResult
	for _, h := range hits {
		results = append(results, docHitToResult(h, q, codeintel.LayerFullTextIndex))
	}
	if len(results) == 0 && p.FilesInScope != nil {
		scanned := p.lineScanForText(q)
		if len(scanned) > 0 {
			return scanned, codeintel.LayerLineScan, nil
		}
	}
	return results, codeintel.LayerFullTextIndex, nil
}

func (p *Planner) routeFuzzy(ctx context.Context, q codeintel.Query) ([]codeintel.SearchResult, codeintel.MatchedLayer, error) {
	hits := p.FullText.Fuzzy(q.Text)
	var results []codeintel.SearchResult
	for _, h := range hits {
		results = append(results, docHitToResult(h, q, codeintel.LayerFullTextIndex))
	}
	if len(results) == 0 {
		// fall back to the symbol index, matching the exact name only.
		for _, sym := range p.symbolPrefixMatches(q.Text) {
			results = append(results, codeintel.SearchResult{Location: sym.DefinedAt, Score: 0.5, MatchedLayer: codeintel.LayerSymbolIndex})
		}
	}
	return results, codeintel.LayerFullTextIndex, nil
}

func (p *Planner) symbolPrefixMatches(prefix string) []codeintel.Symbol {
	// Exact-name lookup only: no prefix or edit-distance matching is done,
	// so this returns no results unless prefix is itself a known name.
	return p.Symbols.Lookup(prefix, nil)
}

func docHitToResult(h fulltext.Hit, q codeintel.Query, layer codeintel.MatchedLayer) codeintel.SearchResult {
	return codeintel.SearchResult{
		Location:       codeintel.Location{File: h.Doc.Path, Line: 1, Column: 1},
		ContentExcerpt: excerpt(h.Doc.Content, q.ContextLines),
		Score:          h.Score,
		MatchedLayer:   layer,
	}
}

func excerpt(content string, contextLines int) string {
	if contextLines <= 0 {
		contextLines = 2
	}
	lines := bytes.Split([]byte(content), []byte("\n"))
	if len(lines) > contextLines*2 {
		lines = lines[:contextLines*2]
	}
	return string(bytes.Join(lines, []byte("\n")))
}

// astWalkForName is the AST-walker layer. It delegates to the hook
// installed with WithASTWalker and returns no results when none is
// installed; the planner does no parsing of its own.
func (p *Planner) astWalkForName(ctx context.Context, q codeintel.Query) []codeintel.SearchResult {
	if p.astWalker == nil {
		return nil
	}
	return p.astWalker(ctx, q)
}

// astWalker is an optional hook, installed through WithASTWalker, so the
// planner can walk a cached AST directly instead of falling back to a line
// scan. Left nil, the planner degrades straight to line scan.
type astWalkerFn func(ctx context.Context, q codeintel.Query) []codeintel.SearchResult

func (p *Planner) WithASTWalker(fn astWalkerFn) *Planner {
	p.astWalker = fn
	return p
}

func (p *Planner) lineScanForName(q codeintel.Query) []codeintel.SearchResult {
	var results []codeintel.SearchResult
	for _, file := range p.filesInScope(q.Scope) {
		data, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		scanner := core.NewLineScanner(data)
		for scanner.Scan() {
			line := scanner.Bytes()
			if col := wholeWordIndex(line, q.Name); col >= 0 {
				results = append(results, codeintel.SearchResult{
					Location:     codeintel.Location{File: file, Line: scanner.LineNumber(), Column: col + 1, ByteOffset: scanner.Offset() + col},
					Score:        0.6,
					MatchedLayer: codeintel.LayerLineScan,
				})
			}
		}
	}
	return results
}

func (p *Planner) lineScanForText(q codeintel.Query) []codeintel.SearchResult {
	var results []codeintel.SearchResult
	for _, file := range p.filesInScope(q.Scope) {
		data, err := os.ReadFile(file)
		if err != nil {
			continue
		}
		if bytes.Contains(bytes.ToLower(data), bytes.ToLower([]byte(q.Text))) {
			scanner := core.NewLineScanner(data)
			for scanner.Scan() {
				if bytes.Contains(bytes.ToLower(scanner.Bytes()), bytes.ToLower([]byte(q.Text))) {
					results = append(results, codeintel.SearchResult{
						Location:       codeintel.Location{File: file, Line: scanner.LineNumber(), Column: 1, ByteOffset: scanner.Offset()},
						ContentExcerpt: scanner.Text(),
						Score:          0.4,
						MatchedLayer:   codeintel.LayerLineScan,
					})
				}
			}
		}
	}
	return results
}

func (p *Planner) filesInScope(scope *codeintel.QueryScope) []string {
	if p.FilesInScope == nil {
		return nil
	}
	return p.FilesInScope(scope)
}

// wholeWordIndex finds name in line at a position bounded by non-identifier
// characters on both sides (spec section 4.4's word-boundary definition),
// returning -1 when absent.
func wholeWordIndex(line []byte, name string) int {
	if name == "" {
		return -1
	}
	needle := []byte(name)
	for i := 0; i+len(needle) <= len(line); i++ {
		if !bytes.Equal(line[i:i+len(needle)], needle) {
			continue
		}
		if i > 0 && isWordByte(line[i-1]) {
			continue
		}
		if end := i + len(needle); end < len(line) && isWordByte(line[end]) {
			continue
		}
		return i
	}
	return -1
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// finalize deduplicates by (file, line, column), sorts by
// (-score, file, line, column) and truncates to MaxResults - the
// aggregation rules from spec section 4.3.
func (p *Planner) finalize(results []codeintel.SearchResult) []codeintel.SearchResult {
	seen := make(map[codeintel.Location]bool)
	deduped := results[:0:0]
	for _, r := range results {
		if seen[r.Location] {
			continue
		}
		seen[r.Location] = true
		deduped = append(deduped, r)
	}

	sort.Slice(deduped, func(i, j int) bool {
		if deduped[i].Score != deduped[j].Score {
			return deduped[i].Score > deduped[j].Score
		}
		return deduped[i].Location.Less(deduped[j].Location)
	})

	max := p.MaxResults
	if max <= 0 {
		max = DefaultMaxResults
	}
	if len(deduped) > max {
		deduped = deduped[:max]
	}
	return deduped
}

func layerForKind(k codeintel.QueryKind) codeintel.MatchedLayer {
	switch k {
	case codeintel.QueryFullText, codeintel.QueryFuzzy:
		return codeintel.LayerFullTextIndex
	default:
		return codeintel.LayerSymbolIndex
	}
}
