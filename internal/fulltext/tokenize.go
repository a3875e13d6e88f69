// Package fulltext is the inverted index over tokenized source and
// metadata fields described in spec section 4.3: {path, language, kind,
// content}. Tokenization lowercases, splits on non-identifier characters,
// and keeps identifiers whole.
package fulltext

import (
	"strings"
	"unicode"

	"github.com/surgebase/porter2"
)

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Tokenize splits text into lowercase identifier tokens. It does not stem -
// callers that want stemmed tokens (to improve FullText/Fuzzy recall) use
// TokenizeStemmed.
func Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	for _, r := range text {
		if isIdentifierRune(r) {
			current.WriteRune(unicode.ToLower(r))
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// TokenizeStemmed tokenizes then applies the Porter2 stemmer to each token.
func TokenizeStemmed(text string) []string {
	raw := Tokenize(text)
	out := make([]string, len(raw))
	for i, tok := range raw {
		out[i] = porter2.Stem(tok)
	}
	return out
}
