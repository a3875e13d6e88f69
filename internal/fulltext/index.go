package fulltext

import (
	"math"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hbollon/go-edlib"

	"github.com/sourcelens/engine/internal/codeintel"
)

const (
	bm25K1 = 1.2
	bm25B  = 0.75
)

type posting struct {
	docID int
	freq  int
}

// Index is the many-reader, one-writer inverted index over Documents.
type Index struct {
	mu sync.RWMutex

	docs       []Document
	pathToDoc  map[string]int
	postings   map[string][]posting
	docLengths []int
	totalTerms int64
}

func NewIndex() *Index {
	return &Index{
		pathToDoc: make(map[string]int),
		postings:  make(map[string][]posting),
	}
}

// Index tokenizes doc.Content and (re)inserts it. Re-indexing a path
// already present replaces its postings, which is how the refactoring
// engine invalidates a modified file's entry.
func (idx *Index) Index(doc Document) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if existing, ok := idx.pathToDoc[doc.Path]; ok {
		idx.removeDocLocked(existing)
		idx.docs[existing] = doc
	} else {
		idx.docs = append(idx.docs, doc)
		idx.docLengths = append(idx.docLengths, 0)
		idx.pathToDoc[doc.Path] = len(idx.docs) - 1
	}

	docID := idx.pathToDoc[doc.Path]
	tokens := TokenizeStemmed(doc.Content)
	idx.docLengths[docID] = len(tokens)
	idx.totalTerms += int64(len(tokens))

	freq := make(map[string]int)
	for _, tok := range tokens {
		freq[tok]++
	}
	for tok, count := range freq {
		idx.postings[tok] = append(idx.postings[tok], posting{docID: docID, freq: count})
	}
}

// removeDocLocked drops docID's postings without shrinking idx.docs, so
// existing docIDs stay valid. Called under idx.mu.
func (idx *Index) removeDocLocked(docID int) {
	idx.totalTerms -= int64(idx.docLengths[docID])
	idx.docLengths[docID] = 0
	for tok, list := range idx.postings {
		filtered := list[:0]
		for _, p := range list {
			if p.docID != docID {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) == 0 {
			delete(idx.postings, tok)
		} else {
			idx.postings[tok] = filtered
		}
	}
}

// Remove deletes a path from the index entirely - used when a file is
// deleted from the workspace.
func (idx *Index) Remove(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	docID, ok := idx.pathToDoc[path]
	if !ok {
		return
	}
	idx.removeDocLocked(docID)
	idx.docs[docID] = Document{}
	delete(idx.pathToDoc, path)
}

func (idx *Index) avgDocLength() float64 {
	n := 0
	for _, l := range idx.docLengths {
		if l > 0 {
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(idx.totalTerms) / float64(n)
}

// Hit is one scored document match before it is expanded into
// codeintel.SearchResults (which need a line/column, not just a document).
type Hit struct {
	Doc   Document
	Score float64
}

// Search runs a BM25-scored FullText query, filtered by language/glob/kind,
// sorted by descending score.
func (idx *Index) Search(query string, filters codeintel.FullTextFilters) []Hit {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	terms := TokenizeStemmed(query)
	if len(terms) == 0 {
		return nil
	}

	avgLen := idx.avgDocLength()
	n := len(idx.docs)
	scores := make(map[int]float64)

	for _, term := range terms {
		list := idx.postings[term]
		if len(list) == 0 {
			continue
		}
		idf := math.Log(1 + (float64(n)-float64(len(list))+0.5)/(float64(len(list))+0.5))
		for _, p := range list {
			dl := float64(idx.docLengths[p.docID])
			tf := float64(p.freq)
			denom := tf + bm25K1*(1-bm25B+bm25B*dl/maxFloat(avgLen, 1))
			scores[p.docID] += idf * (tf * (bm25K1 + 1)) / denom
		}
	}

	var hits []Hit
	for docID, score := range scores {
		doc := idx.docs[docID]
		if doc.Path == "" {
			continue
		}
		if !passesFilters(doc, filters) {
			continue
		}
		if containsExactField(doc, terms) {
			score += 10 // exact symbol-name field matches rank ahead of bag-of-words matches
		}
		hits = append(hits, Hit{Doc: doc, Score: normalizeScore(score)})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Doc.Path < hits[j].Doc.Path
	})
	return hits
}

// Fuzzy scores every document's symbol names against query using
// Jaro-Winkler edit distance and returns hits above a reasonable
// similarity floor, descending by score.
func (idx *Index) Fuzzy(query string) []Hit {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var hits []Hit
	for _, doc := range idx.docs {
		if doc.Path == "" {
			continue
		}
		best := 0.0
		for _, name := range doc.SymbolNames {
			score, err := edlib.StringsSimilarity(query, name, edlib.JaroWinkler)
			if err != nil {
				continue
			}
			if float64(score) > best {
				best = float64(score)
			}
		}
		if best >= 0.7 {
			hits = append(hits, Hit{Doc: doc, Score: best})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits
}

func passesFilters(doc Document, filters codeintel.FullTextFilters) bool {
	if filters.Language != nil && doc.Language != *filters.Language {
		return false
	}
	if filters.PathGlob != "" {
		matched, err := doublestar.Match(filters.PathGlob, doc.Path)
		if err != nil || !matched {
			return false
		}
	}
	if filters.Kind != nil {
		found := false
		for _, k := range doc.SymbolKinds {
			if k == *filters.Kind {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func containsExactField(doc Document, terms []string) bool {
	for _, term := range terms {
		for _, name := range doc.SymbolNames {
			nameTokens := TokenizeStemmed(name)
			if len(nameTokens) > 0 && nameTokens[0] == term {
				return true
			}
		}
	}
	return false
}

func normalizeScore(score float64) float64 {
	// squash into [0,1] via a monotone transform so scores stay comparable
	// across queries of different term counts, per spec section 4.3.
	if score <= 0 {
		return 0
	}
	return score / (score + 1)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
