package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/sourcelens/engine/internal/codeintel"
	"github.com/sourcelens/engine/internal/refactor"
)

// PlanRenameParams are the arguments for the plan_rename tool.
type PlanRenameParams struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// PlanImportsParams are the arguments for the plan_imports tool.
type PlanImportsParams struct {
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
}

// RefactorApplyParams are the arguments for the refactor_apply tool.
type RefactorApplyParams struct {
	Plan json.RawMessage `json:"plan"`
}

// AgentRunParams are the arguments for the agent_run tool.
type AgentRunParams struct {
	AgentName string `json:"agent_name"`
}

// AnalyzeComplexityParams are the arguments for the analyze_complexity tool.
type AnalyzeComplexityParams struct {
	Path string `json:"path"`
}

// registerIntelTools wires the Refactor API and Agent Orchestrator into
// the server's tool set, each through AddTool(&mcp.Tool{...}, handler).
func (s *Server) registerIntelTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "plan_rename",
		Description: "Plan a transactional, multi-file symbol rename. Returns a RefactorPlan without touching any file; apply it with refactor_apply.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"old_name": {Type: "string", Description: "Symbol name to rename"},
				"new_name": {Type: "string", Description: "Replacement symbol name"},
			},
			Required: []string{"old_name", "new_name"},
		},
	}, s.handlePlanRename)

	s.server.AddTool(&mcp.Tool{
		Name:        "plan_imports",
		Description: "Plan a project-wide import path rewrite after a file or package move. Returns a RefactorPlan without touching any file; apply it with refactor_apply.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"old_path": {Type: "string", Description: "Import path being replaced"},
				"new_path": {Type: "string", Description: "Replacement import path"},
			},
			Required: []string{"old_path", "new_path"},
		},
	}, s.handlePlanImports)

	s.server.AddTool(&mcp.Tool{
		Name:        "refactor_apply",
		Description: "Apply a RefactorPlan produced by plan_rename or plan_imports, transactionally across every affected file.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"plan": {Type: "object", Description: "The RefactorPlan returned by plan_rename or plan_imports"},
			},
			Required: []string{"plan"},
		},
	}, s.handleRefactorApply)

	s.server.AddTool(&mcp.Tool{
		Name:        "agent_run",
		Description: "Run a named agent through the Agent Orchestrator and return its terminal AgentExecution. With the server's orchestrator.simulated_mode config on, agents run as simulated workers; with it off, no worker is registered and the run fails with an unknown-agent error.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"agent_name": {Type: "string", Description: "Registered agent name, e.g. code-reviewer, refactorer, debugger"},
			},
			Required: []string{"agent_name"},
		},
	}, s.handleAgentRun)

	s.server.AddTool(&mcp.Tool{
		Name:        "analyze_complexity",
		Description: "Report cyclomatic and cognitive complexity for every function defined in a file, via the Analyzer Library.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {Type: "string", Description: "File path, relative to the project root or absolute"},
			},
			Required: []string{"path"},
		},
	}, s.handleAnalyzeComplexity)
}

func (s *Server) handlePlanRename(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params PlanRenameParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("plan_rename", fmt.Errorf("invalid parameters: %w", err))
	}

	e := s.engine
	plan, err := e.RenamePlanner.PlanRename(params.OldName, params.NewName, codeintel.QueryScope{Kind: codeintel.ScopeGlobal})
	if err != nil {
		return createErrorResponse("plan_rename", err)
	}
	return createJSONResponse(plan)
}

func (s *Server) handlePlanImports(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params PlanImportsParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("plan_imports", fmt.Errorf("invalid parameters: %w", err))
	}

	e := s.engine
	files := map[string][]byte{}
	walkErr := filepath.WalkDir(s.cfg.Project.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(s.cfg.Project.Root, path)
		if relErr != nil {
			rel = path
		}
		if e.Excluded(rel) {
			return nil
		}
		if _, ok := e.Registry.DetectFromPath(path); !ok {
			return nil
		}
		source, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil // unreadable file, skip rather than abort the scan
		}
		files[path] = source
		return nil
	})
	if walkErr != nil {
		return createErrorResponse("plan_imports", fmt.Errorf("failed to scan %s: %w", s.cfg.Project.Root, walkErr))
	}

	plan := refactor.PlanImportRewrite(refactor.ImportRewriteRequest{
		OldPath: params.OldPath,
		NewPath: params.NewPath,
		Files:   files,
	})
	return createJSONResponse(plan)
}

func (s *Server) handleRefactorApply(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params RefactorApplyParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("refactor_apply", fmt.Errorf("invalid parameters: %w", err))
	}

	var plan codeintel.RefactorPlan
	if err := json.Unmarshal(params.Plan, &plan); err != nil {
		return createErrorResponse("refactor_apply", fmt.Errorf("invalid plan: %w", err))
	}

	e := s.engine
	if err := e.Applier.Apply(plan); err != nil {
		return createErrorResponse("refactor_apply", err)
	}
	return createJSONResponse(map[string]interface{}{
		"edits_applied":  len(plan.Edits),
		"files_affected": len(plan.AffectedFiles),
	})
}

func (s *Server) handleAgentRun(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params AgentRunParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("agent_run", fmt.Errorf("invalid parameters: %w", err))
	}

	e := s.engine
	results, err := e.Orchestrator.Run(ctx, codeintel.SinglePlan(codeintel.AgentInvocation{
		AgentID:   "mcp",
		AgentName: params.AgentName,
	}))
	if err != nil {
		return createErrorResponse("agent_run", err)
	}
	return createJSONResponse(results[0])
}

func (s *Server) handleAnalyzeComplexity(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params AnalyzeComplexityParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("analyze_complexity", fmt.Errorf("invalid parameters: %w", err))
	}

	path := params.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.cfg.Project.Root, path)
	}

	e := s.engine
	reports, err := e.AnalyzeComplexity(ctx, path)
	if err != nil {
		return createErrorResponse("analyze_complexity", err)
	}
	return createJSONResponse(reports)
}
