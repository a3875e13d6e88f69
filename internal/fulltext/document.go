package fulltext

import "github.com/sourcelens/engine/internal/codeintel"

// Document is one indexed file: normalized content plus the metadata
// fields FullText queries can filter on.
type Document struct {
	Path        string
	Language    codeintel.Language
	Content     string
	SymbolNames []string
	SymbolKinds []codeintel.SymbolKind
	Fingerprint uint64
}
