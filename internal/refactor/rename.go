// Package refactor implements the Refactoring Engine from spec section
// 4.4: rename planning, function extraction, import rewriting, and
// transactional multi-file application of a RefactorPlan. Planning is
// pure - it only ever reads the symbol/full-text indexes and source
// bytes already on hand - so a plan can always be inspected, and its
// risk assessed, before anything is written to disk.
package refactor

import (
	"sort"

	"github.com/sourcelens/engine/internal/codeintel"
	"github.com/sourcelens/engine/internal/fulltext"
	"github.com/sourcelens/engine/internal/symbolindex"
)

// rename risk thresholds, grounded on ast_agent_tools.rs's
// assess_rename_risk: external references or more than 10 affected files
// or more than 50 references force High; more than 3 files, more than 15
// references, or a Global-scoped rename force at least Medium.
const (
	highRiskMinAffectedFiles = 10
	highRiskMinReferences    = 50
	mediumRiskMinAffectedFiles = 3
	mediumRiskMinReferences    = 15
)

// RenamePlanner plans symbol renames against the live symbol and
// full-text indexes.
type RenamePlanner struct {
	Symbols  *symbolindex.Index
	FullText *fulltext.Index
	Sources  func(file string) ([]byte, error)
}

// NewRenamePlanner wires a planner to the indexes it needs to locate
// every occurrence of a symbol and the byte content needed to carve out
// exact Edit ranges.
func NewRenamePlanner(symbols *symbolindex.Index, fullText *fulltext.Index, sources func(string) ([]byte, error)) *RenamePlanner {
	return &RenamePlanner{Symbols: symbols, FullText: fullText, Sources: sources}
}

// PlanRename builds a RefactorPlan renaming every occurrence of oldName to
// newName within scope. References come from two sources unioned by
// location: the Symbol Index's tracked definitions/references, and a
// whole-word full-text scan over the same name, so occurrences the symbol
// extractor missed (shadowed bindings, string-embedded references in
// non-code documents) are still covered.
func (p *RenamePlanner) PlanRename(oldName, newName string, scope codeintel.QueryScope) (codeintel.RefactorPlan, error) {
	locations := p.collectReferences(oldName, scope)

	affectedFiles := make(map[string]bool)
	var edits []codeintel.Edit
	externalReferences := 0

	for _, loc := range locations {
		affectedFiles[loc.File] = true

		source, err := p.Sources(loc.File)
		if err != nil {
			return codeintel.RefactorPlan{}, err
		}
		oldBytes := []byte(oldName)
		start := loc.ByteOffset
		end := start + len(oldBytes)
		if end > len(source) || string(source[start:end]) != oldName {
			// Stale offset (file changed since indexing) - skip rather
			// than risk corrupting an unrelated span.
			continue
		}

		edits = append(edits, codeintel.Edit{
			File:     loc.File,
			Range:    codeintel.ByteRange{Start: start, End: end},
			OldBytes: oldBytes,
			NewBytes: []byte(newName),
			Category: codeintel.EditRename,
		})
	}

	for _, sym := range p.Symbols.Lookup(oldName, nil) {
		if sym.Visibility == codeintel.VisibilityPublic {
			externalReferences++
		}
	}

	risk := assessRenameRisk(len(locations), externalReferences, len(affectedFiles), scope)
	if p.Symbols.Exists(newName) {
		risk = risk.Promote()
	}

	files := make([]string, 0, len(affectedFiles))
	for f := range affectedFiles {
		files = append(files, f)
	}
	sort.Strings(files)

	var warnings []string
	if p.Symbols.Exists(newName) {
		warnings = append(warnings, "target name already exists in the indexed scope; rename may introduce a conflict")
	}

	return codeintel.RefactorPlan{
		Edits:           edits,
		AffectedFiles:   files,
		Risk:            risk,
		Rationale:       renameRationale(len(locations), len(files), externalReferences),
		EstimatedEffort: estimateEffort(len(edits)),
		Warnings:        warnings,
	}, nil
}

// collectReferences unions Symbol Index references with a whole-word
// full-text scan, deduplicating by Location.
func (p *RenamePlanner) collectReferences(name string, scope codeintel.QueryScope) []codeintel.Location {
	seen := make(map[codeintel.Location]bool)
	var out []codeintel.Location

	add := func(loc codeintel.Location) {
		if !inScope(loc, scope) {
			return
		}
		if seen[loc] {
			return
		}
		seen[loc] = true
		out = append(out, loc)
	}

	for _, loc := range p.Symbols.References(name) {
		add(loc)
	}

	for _, hit := range p.FullText.Search(name, codeintel.FullTextFilters{}) {
		source, err := p.Sources(hit.Doc.Path)
		if err != nil {
			continue
		}
		for _, offset := range wholeWordOffsets(source, name) {
			add(offsetToLocation(hit.Doc.Path, source, offset))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// wholeWordOffsets returns every byte offset in source where name appears
// as a whole word - not preceded or followed by an identifier character -
// so a rename of "Run" doesn't also touch "RunAll".
func wholeWordOffsets(source []byte, name string) []int {
	if name == "" {
		return nil
	}
	var offsets []int
	needle := []byte(name)
	for i := 0; i+len(needle) <= len(source); i++ {
		if string(source[i:i+len(needle)]) != name {
			continue
		}
		if i > 0 && isWordByte(source[i-1]) {
			continue
		}
		end := i + len(needle)
		if end < len(source) && isWordByte(source[end]) {
			continue
		}
		offsets = append(offsets, i)
	}
	return offsets
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// offsetToLocation derives a 1-based line/column from a byte offset by
// counting newlines and the distance back to the preceding one.
func offsetToLocation(file string, source []byte, offset int) codeintel.Location {
	line := 1
	lastNewline := -1
	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
			lastNewline = i
		}
	}
	column := offset - lastNewline
	return codeintel.Location{File: file, Line: line, Column: column, ByteOffset: offset}
}

func inScope(loc codeintel.Location, scope codeintel.QueryScope) bool {
	switch scope.Kind {
	case codeintel.ScopeGlobal:
		return true
	case codeintel.ScopeFile:
		return loc.File == scope.Path
	case codeintel.ScopeDirectory, codeintel.ScopeModule:
		return hasPathPrefix(loc.File, scope.Path)
	default:
		return true
	}
}

func hasPathPrefix(file, prefix string) bool {
	if prefix == "" {
		return true
	}
	if len(file) < len(prefix) {
		return false
	}
	return file[:len(prefix)] == prefix
}

func assessRenameRisk(totalReferences, externalReferences, affectedFiles int, scope codeintel.QueryScope) codeintel.RiskLevel {
	if externalReferences > 0 || affectedFiles > highRiskMinAffectedFiles || totalReferences > highRiskMinReferences {
		return codeintel.RiskHigh
	}
	if affectedFiles > mediumRiskMinAffectedFiles || totalReferences > mediumRiskMinReferences || scope.Kind == codeintel.ScopeGlobal {
		return codeintel.RiskMedium
	}
	return codeintel.RiskLow
}

func renameRationale(totalReferences, affectedFiles, externalReferences int) string {
	if externalReferences > 0 {
		return "rename touches one or more exported symbols; downstream consumers outside the indexed scope may break"
	}
	if affectedFiles > mediumRiskMinAffectedFiles {
		return "rename spans many files; review the full edit set before applying"
	}
	_ = totalReferences
	return "rename is confined to a small, local reference set"
}

func estimateEffort(editCount int) string {
	switch {
	case editCount <= 5:
		return "trivial"
	case editCount <= 25:
		return "moderate"
	default:
		return "substantial"
	}
}
