package parserpool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcelens/engine/internal/codeintel"
	"github.com/sourcelens/engine/internal/langreg"
)

func TestParseReturnsASTForRegisteredLanguage(t *testing.T) {
	pool := NewPool(langreg.NewBuiltinRegistry())
	ast, err := pool.Parse(context.Background(), []byte("package p\nfunc f() {}\n"), codeintel.LangGo)
	require.NoError(t, err)
	assert.Greater(t, ast.NodeCount, 0)
}

func TestParseRejectsUnregisteredLanguage(t *testing.T) {
	pool := NewPool(langreg.NewRegistry())
	_, err := pool.Parse(context.Background(), []byte("x"), codeintel.LangGo)
	require.Error(t, err)
}

func TestParseSerializesConcurrentCallsPerLanguage(t *testing.T) {
	pool := NewPool(langreg.NewBuiltinRegistry())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := pool.Parse(context.Background(), []byte("package p\nfunc f() {}\n"), codeintel.LangGo)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestParseRespectsContextCancellationWhileWaiting(t *testing.T) {
	pool := NewPool(langreg.NewBuiltinRegistry())
	slot, _, ok := pool.slotFor(codeintel.LangGo)
	require.True(t, ok)

	require.NoError(t, slot.sem.Acquire(context.Background(), 1))
	defer slot.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := pool.Parse(ctx, []byte("package p\n"), codeintel.LangGo)
	require.Error(t, err)
}
