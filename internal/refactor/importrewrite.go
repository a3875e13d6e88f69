package refactor

import (
	"fmt"

	"github.com/sourcelens/engine/internal/codeintel"
)

// ImportRewriteRequest renames an import path across every file that
// imports it. Unlike PlanRename, this operates purely on import
// declaration text rather than symbol occurrences, since an import path
// is not itself a Symbol Index entry.
type ImportRewriteRequest struct {
	OldPath string
	NewPath string
	Files   map[string][]byte // file -> current content, read once by the caller
}

// PlanImportRewrite finds every whole-word occurrence of OldPath
// surrounded by quote characters (the only place an import path can
// legally appear across the supported grammars) and replaces it with
// NewPath.
func PlanImportRewrite(req ImportRewriteRequest) codeintel.RefactorPlan {
	var edits []codeintel.Edit
	var files []string

	for file, source := range req.Files {
		occurrences := quotedOccurrences(source, req.OldPath)
		if len(occurrences) == 0 {
			continue
		}
		files = append(files, file)
		for _, offset := range occurrences {
			edits = append(edits, codeintel.Edit{
				File:     file,
				Range:    codeintel.ByteRange{Start: offset, End: offset + len(req.OldPath)},
				OldBytes: []byte(req.OldPath),
				NewBytes: []byte(req.NewPath),
				Category: codeintel.EditImport,
			})
		}
	}

	return codeintel.RefactorPlan{
		Edits:           edits,
		AffectedFiles:   files,
		Risk:            importRewriteRisk(len(files)),
		Rationale:       fmt.Sprintf("rewrites import path %q to %q across %d file(s)", req.OldPath, req.NewPath, len(files)),
		EstimatedEffort: estimateEffort(len(edits)),
	}
}

func importRewriteRisk(affectedFiles int) codeintel.RiskLevel {
	if affectedFiles > mediumRiskMinAffectedFiles {
		return codeintel.RiskMedium
	}
	return codeintel.RiskLow
}

// quotedOccurrences returns the byte offset just past the opening quote
// for every occurrence of path wrapped in a matching quote character.
func quotedOccurrences(source []byte, path string) []int {
	var offsets []int
	needle := []byte(path)
	for i := 0; i+len(needle) <= len(source); i++ {
		if string(source[i:i+len(needle)]) != path {
			continue
		}
		if i == 0 || i+len(needle) >= len(source) {
			continue
		}
		open, close := source[i-1], source[i+len(needle)]
		if (open == '"' || open == '\'' || open == '`') && open == close {
			offsets = append(offsets, i)
		}
	}
	return offsets
}
