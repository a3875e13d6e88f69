package codeintel

import "time"

// ScopeKind narrows a query or refactor operation to a lexical region.
type ScopeKind int

const (
	ScopeFile ScopeKind = iota
	ScopeDirectory
	ScopeModule
	ScopeGlobal
)

// QueryScope pairs a scope kind with the path it's anchored to (empty for
// ScopeGlobal).
type QueryScope struct {
	Kind ScopeKind
	Path string
}

// FullTextFilters narrows a FullText/Fuzzy query by document metadata.
type FullTextFilters struct {
	Language *Language
	PathGlob string
	Kind     *SymbolKind
}

// QueryKind is the closed set of query shapes the planner accepts.
type QueryKind int

const (
	QuerySymbol QueryKind = iota
	QueryDefinition
	QueryReference
	QueryFullText
	QueryFuzzy
)

// Query is the tagged request accepted by the planner. Only the fields
// relevant to Kind are populated; callers should construct Query via the
// New* helpers rather than filling it by hand.
type Query struct {
	Kind         QueryKind
	Name         string // Symbol/Definition/Reference
	SymbolKind   *SymbolKind
	Text         string // FullText/Fuzzy
	Filters      FullTextFilters
	Scope        *QueryScope
	ContextLines int
}

func NewSymbolQuery(name string, kind *SymbolKind) Query {
	return Query{Kind: QuerySymbol, Name: name, SymbolKind: kind}
}

func NewDefinitionQuery(name string) Query {
	return Query{Kind: QueryDefinition, Name: name}
}

func NewReferenceQuery(name string) Query {
	return Query{Kind: QueryReference, Name: name}
}

func NewFullTextQuery(text string, filters FullTextFilters) Query {
	return Query{Kind: QueryFullText, Text: text, Filters: filters}
}

func NewFuzzyQuery(text string) Query {
	return Query{Kind: QueryFuzzy, Text: text}
}

// MatchedLayer records which layer of the search engine produced a result.
type MatchedLayer int

const (
	LayerSymbolIndex MatchedLayer = iota
	LayerFullTextIndex
	LayerASTWalker
	LayerLineScan
)

func (l MatchedLayer) String() string {
	switch l {
	case LayerSymbolIndex:
		return "symbol_index"
	case LayerFullTextIndex:
		return "fulltext_index"
	case LayerASTWalker:
		return "ast_walker"
	case LayerLineScan:
		return "line_scan"
	default:
		return "unknown"
	}
}

// SearchResult is one hit, already scored and attributed to the layer that
// produced it.
type SearchResult struct {
	Location       Location
	ContentExcerpt string
	Score          float64
	MatchedLayer   MatchedLayer
}

// SearchMetadata is returned alongside results so callers can observe which
// layer answered and whether the result cache was used.
type SearchMetadata struct {
	Layer    MatchedLayer
	Duration time.Duration
	CacheHit bool
}

// SearchResponse is the full answer to a Query.
type SearchResponse struct {
	Results  []SearchResult
	Metadata SearchMetadata
}
