package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sourcelens/engine/internal/config"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package p\nfunc DoThing() int { return 1 }\n"), 0o644))

	cfg := &config.Config{
		Project:      config.Project{Root: root},
		Intelligence: config.Intelligence{Tier: config.TierLight}.Resolve(),
		Orchestrator: config.OrchestratorConfig{SimulatedMode: true},
	}
	s, err := NewServer(cfg)
	require.NoError(t, err)
	return s
}

func callTool(t *testing.T, req any) *mcp.CallToolRequest {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: data}}
}

func TestHandlePlanRenameFindsIndexedSymbol(t *testing.T) {
	s := testServer(t)
	result, err := s.handlePlanRename(context.Background(), callTool(t, PlanRenameParams{OldName: "DoThing", NewName: "DoOtherThing"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestHandlePlanRenameUnknownSymbolReturnsToolError(t *testing.T) {
	s := testServer(t)
	result, err := s.handlePlanRename(context.Background(), callTool(t, PlanRenameParams{OldName: "NoSuchSymbol", NewName: "X"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandlePlanImportsScansProjectRoot(t *testing.T) {
	s := testServer(t)
	result, err := s.handlePlanImports(context.Background(), callTool(t, PlanImportsParams{OldPath: "old/pkg", NewPath: "new/pkg"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestHandleAgentRunUsesSimulatedWorker(t *testing.T) {
	s := testServer(t)
	result, err := s.handleAgentRun(context.Background(), callTool(t, AgentRunParams{AgentName: "code-reviewer"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}
