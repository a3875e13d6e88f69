package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcelens/engine/internal/codeintel"
	"github.com/sourcelens/engine/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Project:      config.Project{Root: t.TempDir()},
		Intelligence: config.Intelligence{Tier: config.TierLight}.Resolve(),
	}
}

func TestIndexDirectoryFindsGoSymbols(t *testing.T) {
	cfg := testConfig(t)
	root := cfg.Project.Root
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package p\nfunc DoThing() int { return 1 }\n"), 0o644))

	e := New(cfg)
	count, err := e.IndexDirectory(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.True(t, e.Symbols.Exists("DoThing"))
}

func TestIndexDirectorySkipsExcludedFiles(t *testing.T) {
	cfg := testConfig(t)
	cfg.Exclude = []string{"**/vendor/**"}
	root := cfg.Project.Root
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "vendor", "skip.go"), []byte("package p\nfunc Skipped() {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "keep.go"), []byte("package p\nfunc Kept() {}\n"), 0o644))

	e := New(cfg)
	count, err := e.IndexDirectory(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.False(t, e.Symbols.Exists("Skipped"))
	assert.True(t, e.Symbols.Exists("Kept"))
}

func TestInvalidateFileReindexesModifiedContent(t *testing.T) {
	cfg := testConfig(t)
	root := cfg.Project.Root
	path := filepath.Join(root, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package p\nfunc Old() {}\n"), 0o644))

	e := New(cfg)
	_, err := e.IndexDirectory(context.Background(), root)
	require.NoError(t, err)
	require.True(t, e.Symbols.Exists("Old"))

	require.NoError(t, os.WriteFile(path, []byte("package p\nfunc New() {}\n"), 0o644))
	e.InvalidateFile(path)

	assert.False(t, e.Symbols.Exists("Old"))
	assert.True(t, e.Symbols.Exists("New"))
}

func TestInvalidateFileRemovesDeletedFile(t *testing.T) {
	cfg := testConfig(t)
	root := cfg.Project.Root
	path := filepath.Join(root, "a.go")
	require.NoError(t, os.WriteFile(path, []byte("package p\nfunc Gone() {}\n"), 0o644))

	e := New(cfg)
	_, err := e.IndexDirectory(context.Background(), root)
	require.NoError(t, err)
	require.True(t, e.Symbols.Exists("Gone"))

	require.NoError(t, os.Remove(path))
	e.InvalidateFile(path)

	assert.False(t, e.Symbols.Exists("Gone"))
}

func TestNewWiresSimulatedOrchestratorWhenConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.Orchestrator.SimulatedMode = true
	e := New(cfg)

	results, err := e.Orchestrator.Run(context.Background(), codeintel.SinglePlan(codeintel.AgentInvocation{AgentID: "1", AgentName: "code-reviewer"}))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, codeintel.AgentCompleted, results[0].State)
}
