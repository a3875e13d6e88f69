// Package codeintel holds the data model shared by every layer of the code
// intelligence engine: locations, language tags, symbols, parsed ASTs, search
// documents and results, edits and refactor plans, and agent execution state.
package codeintel

import "fmt"

// Location identifies a single point in a source file. Line and Column are
// 1-based; ByteOffset must be a valid UTF-8 boundary into the file whose
// content produced the AST the location was derived from.
type Location struct {
	File       string
	Line       int
	Column     int
	ByteOffset int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Less orders locations by file, then line, then column - the sort key used
// throughout the search engine's aggregation rules.
func (l Location) Less(other Location) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	return l.Column < other.Column
}
