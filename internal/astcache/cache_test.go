package astcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcelens/engine/internal/codeintel"
)

func newAst() *codeintel.ParsedAst {
	return &codeintel.ParsedAst{Language: codeintel.LangGo, Source: []byte("package main")}
}

func TestCacheHitAndMiss(t *testing.T) {
	c := NewCache(10, time.Minute)
	fp := Fingerprint64([]byte("package main"))

	_, ok := c.Get(fp, codeintel.LangGo)
	require.False(t, ok, "expected miss before insertion")

	ast := newAst()
	c.Put(fp, codeintel.LangGo, ast)

	got, ok := c.Get(fp, codeintel.LangGo)
	require.True(t, ok)
	assert.Same(t, ast, got)

	hits, misses, _ := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestCacheLRUEviction(t *testing.T) {
	c := NewCache(2, time.Minute)
	c.Put(Fingerprint(1), codeintel.LangGo, newAst())
	c.Put(Fingerprint(2), codeintel.LangGo, newAst())
	c.Put(Fingerprint(3), codeintel.LangGo, newAst())

	_, ok := c.Get(Fingerprint(1), codeintel.LangGo)
	assert.False(t, ok, "oldest entry should have been evicted")

	_, ok = c.Get(Fingerprint(3), codeintel.LangGo)
	assert.True(t, ok)

	assert.Equal(t, 2, c.Len())
}

func TestCacheTTLExpiry(t *testing.T) {
	c := NewCache(10, 20*time.Millisecond)
	fp := Fingerprint64([]byte("fn a(){}"))
	c.Put(fp, codeintel.LangRust, newAst())

	_, ok := c.Get(fp, codeintel.LangRust)
	require.True(t, ok, "entry should still be live immediately after insert")

	time.Sleep(40 * time.Millisecond)

	_, ok = c.Get(fp, codeintel.LangRust)
	assert.False(t, ok, "entry should have expired")
}

func TestCacheDifferentLanguagesDoNotCollide(t *testing.T) {
	c := NewCache(10, time.Minute)
	fp := Fingerprint64([]byte("shared source"))

	c.Put(fp, codeintel.LangGo, newAst())
	_, ok := c.Get(fp, codeintel.LangPython)
	assert.False(t, ok, "same fingerprint under a different language must miss")
}
