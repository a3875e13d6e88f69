package analyzer

import "github.com/sourcelens/engine/internal/codeintel"

// DeadCodeFinding is a symbol with zero references besides its own
// definition.
type DeadCodeFinding struct {
	Symbol     codeintel.Symbol
	Confidence float64
	Rationale  string
}

// FindDeadCode inspects the given symbols (typically SymbolsInFile from
// the symbol index, or a whole-index dump) and reports those with no
// references beyond their definition site. Exported/public symbols are
// reported at lower confidence since they may be consumed outside the
// indexed scope - a library's public API looks "dead" from inside its own
// module.
func FindDeadCode(symbols []codeintel.Symbol) []DeadCodeFinding {
	var findings []DeadCodeFinding
	for _, sym := range symbols {
		if referencedElsewhere(sym) {
			continue
		}
		if isEntryPointShaped(sym) {
			continue
		}
		confidence := 0.9
		rationale := "no references found outside its own definition"
		if sym.Visibility == codeintel.VisibilityPublic {
			confidence = 0.4
			rationale = "no references found in the indexed scope, but symbol is exported and may be used externally"
		}
		findings = append(findings, DeadCodeFinding{
			Symbol:     sym,
			Confidence: confidence,
			Rationale:  rationale,
		})
	}
	return findings
}

func referencedElsewhere(sym codeintel.Symbol) bool {
	for _, ref := range sym.References {
		if ref != sym.DefinedAt {
			return true
		}
	}
	return false
}

// isEntryPointShaped excludes symbols that are conventionally invoked by a
// runtime rather than by other code in the indexed set - main/init in Go,
// test functions, and the like - since flagging these as dead code would
// be a near-constant false positive.
func isEntryPointShaped(sym codeintel.Symbol) bool {
	switch sym.Name {
	case "main", "start", "init", "__init__", "constructor":
		return true
	}
	if len(sym.Name) > 4 && sym.Name[:4] == "Test" {
		return true
	}
	if len(sym.Name) > 9 && sym.Name[:9] == "Benchmark" {
		return true
	}
	return false
}
