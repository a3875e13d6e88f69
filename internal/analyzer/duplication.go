package analyzer

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sourcelens/engine/internal/codeintel"
)

// DuplicateType distinguishes an exact textual copy from a
// structurally-similar-but-not-identical block (identifiers renamed,
// literals changed).
type DuplicateType int

const (
	DuplicateExact DuplicateType = iota
	DuplicateStructural
)

// CodeBlock is one candidate span considered for duplication, grounded on
// internal/analysis's CodeBlock shape but addressed by codeintel.Location
// rather than a FileID, matching the rest of this package's data model.
type CodeBlock struct {
	File       string
	StartLine  int
	EndLine    int
	Content    string
	Normalized string
	Tokens     []string
}

// DuplicationGroup is a transitively-closed set of blocks that are all
// pairwise similar at or above the detector's threshold.
type DuplicationGroup struct {
	Type       DuplicateType
	Blocks     []CodeBlock
	Similarity float64
}

const (
	minDuplicateLines = 4
	minDuplicateTokens = 8
	duplicateSimilarityThreshold = 0.85
)

// ExtractCodeBlocks walks root collecting one CodeBlock per function/class
// definition node large enough to be worth comparing.
func ExtractCodeBlocks(file string, root *tree_sitter.Node, source []byte, kinds codeintel.NodeKindSet) []CodeBlock {
	var blocks []CodeBlock
	walk(root, func(n *tree_sitter.Node) {
		kind := n.Kind()
		if !kinds.IsFunctionDef(kind) && !kinds.IsClassDef(kind) {
			return
		}
		startLine := int(n.StartPosition().Row) + 1
		endLine := int(n.EndPosition().Row) + 1
		if endLine-startLine+1 < minDuplicateLines {
			return
		}
		content := nodeText(n, source)
		tokens := tokenizeCode(content)
		if len(tokens) < minDuplicateTokens {
			return
		}
		blocks = append(blocks, CodeBlock{
			File:       file,
			StartLine:  startLine,
			EndLine:    endLine,
			Content:    content,
			Normalized: normalizeCode(tokens),
			Tokens:     tokens,
		})
	})
	return blocks
}

// tokenizeCode splits source text into a simple token stream: runs of
// identifier characters, and single punctuation/operator characters.
func tokenizeCode(code string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for _, r := range code {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			cur.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			flush()
			tokens = append(tokens, string(r))
		}
	}
	flush()
	return tokens
}

// normalizeCode replaces every identifier-like token with VAR and every
// numeric-literal token with LIT, so two blocks that differ only by
// variable naming or literal values hash identically. Keyword and
// punctuation tokens are kept verbatim since they carry the block's
// shape.
func normalizeCode(tokens []string) string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		switch {
		case isLikelyIdentifier(t):
			out = append(out, "VAR")
		case isNumericLiteral(t):
			out = append(out, "LIT")
		default:
			out = append(out, t)
		}
	}
	return strings.Join(out, " ")
}

func isNumericLiteral(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isLikelyIdentifier(tok string) bool {
	if tok == "" {
		return false
	}
	if keywords[tok] {
		return false
	}
	r := rune(tok[0])
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

var keywords = map[string]bool{
	"func": true, "def": true, "function": true, "fn": true, "class": true,
	"if": true, "else": true, "for": true, "while": true, "return": true,
	"struct": true, "interface": true, "const": true, "let": true, "var": true,
	"import": true, "package": true, "public": true, "private": true, "static": true,
}

func exactHash(content string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(content)))
	return hex.EncodeToString(sum[:])
}

func structuralHash(normalized string) string {
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// jaccardSimilarity scores two token sets by intersection-over-union; used
// to cluster structurally-similar-but-not-identical blocks once the exact
// and structural hash buckets have been exhausted.
func jaccardSimilarity(a, b []string) float64 {
	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}
	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// DetectDuplicates groups blocks into DuplicationGroups: first by exact
// hash, then by structural (normalized) hash among the blocks that weren't
// already grouped, then by pairwise Jaccard similarity over what remains,
// using union-find so similarity is transitive (A~B, B~C implies a single
// group containing A, B, C) rather than requiring every pair to clear the
// threshold directly.
func DetectDuplicates(blocks []CodeBlock) []DuplicationGroup {
	n := len(blocks)
	if n < 2 {
		return nil
	}
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	exactBuckets := make(map[string][]int)
	structBuckets := make(map[string][]int)
	for i, b := range blocks {
		exactBuckets[exactHash(b.Content)] = append(exactBuckets[exactHash(b.Content)], i)
		structBuckets[structuralHash(b.Normalized)] = append(structBuckets[structuralHash(b.Normalized)], i)
	}
	groupType := make(map[int]DuplicateType)
	for _, idxs := range exactBuckets {
		if len(idxs) < 2 {
			continue
		}
		for _, i := range idxs[1:] {
			union(idxs[0], i)
		}
		for _, i := range idxs {
			groupType[find(i)] = DuplicateExact
		}
	}
	for _, idxs := range structBuckets {
		if len(idxs) < 2 {
			continue
		}
		for _, i := range idxs[1:] {
			union(idxs[0], i)
		}
		for _, i := range idxs {
			if _, already := groupType[find(i)]; !already {
				groupType[find(i)] = DuplicateStructural
			}
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if find(i) == find(j) {
				continue
			}
			if jaccardSimilarity(blocks[i].Tokens, blocks[j].Tokens) >= duplicateSimilarityThreshold {
				union(i, j)
				if _, already := groupType[find(i)]; !already {
					groupType[find(i)] = DuplicateStructural
				}
			}
		}
	}

	clusters := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := find(i)
		clusters[root] = append(clusters[root], i)
	}

	var groups []DuplicationGroup
	for root, members := range clusters {
		if len(members) < 2 {
			continue
		}
		sort.Ints(members)
		group := DuplicationGroup{Type: groupType[root]}
		minSim := 1.0
		for _, i := range members {
			group.Blocks = append(group.Blocks, blocks[i])
		}
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				sim := jaccardSimilarity(blocks[members[i]].Tokens, blocks[members[j]].Tokens)
				if sim < minSim {
					minSim = sim
				}
			}
		}
		group.Similarity = minSim
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Blocks[0].File < groups[j].Blocks[0].File
	})
	return groups
}
