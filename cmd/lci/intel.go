package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/sourcelens/engine/internal/codeintel"
	"github.com/sourcelens/engine/internal/engine"
	"github.com/sourcelens/engine/internal/refactor"
)

// newEngine builds an engine.Engine from the CLI's resolved config and
// indexes cfg.Project.Root, so every refactor/agent subcommand sees an
// up to date Symbol Index and Full-Text Index.
func newEngine(c *cli.Context) (*engine.Engine, error) {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	e := engine.New(cfg)
	if _, err := e.IndexDirectory(c.Context, cfg.Project.Root); err != nil {
		return nil, fmt.Errorf("failed to index %s: %w", cfg.Project.Root, err)
	}
	return e, nil
}

func writePlan(c *cli.Context, plan codeintel.RefactorPlan) error {
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal refactor plan: %w", err)
	}

	if out := c.String("out"); out != "" {
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("failed to write plan to %s: %w", out, err)
		}
		fmt.Printf("wrote refactor plan (%d edit(s), risk=%s) to %s\n", len(plan.Edits), plan.Risk, out)
		return nil
	}

	fmt.Println(string(data))
	return nil
}

func refactorPlanRenameCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("usage: lci refactor plan-rename <old-name> <new-name>")
	}
	oldName, newName := c.Args().Get(0), c.Args().Get(1)

	e, err := newEngine(c)
	if err != nil {
		return err
	}

	plan, err := e.RenamePlanner.PlanRename(oldName, newName, codeintel.QueryScope{Kind: codeintel.ScopeGlobal})
	if err != nil {
		return fmt.Errorf("failed to plan rename: %w", err)
	}
	return writePlan(c, plan)
}

func refactorPlanImportsCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return errors.New("usage: lci refactor plan-imports <old-path> <new-path>")
	}
	oldPath, newPath := c.Args().Get(0), c.Args().Get(1)

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	e := engine.New(cfg)

	files := map[string][]byte{}
	walkErr := filepath.WalkDir(cfg.Project.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(cfg.Project.Root, path)
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
		return fmt.Errorf("failed to scan %s: %w", cfg.Project.Root, walkErr)
	}

	plan := refactor.PlanImportRewrite(refactor.ImportRewriteRequest{
		OldPath: oldPath,
		NewPath: newPath,
		Files:   files,
	})
	return writePlan(c, plan)
}

func refactorApplyCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: lci refactor apply <plan.json>")
	}

	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("failed to read plan file: %w", err)
	}
	var plan codeintel.RefactorPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return fmt.Errorf("failed to parse plan file: %w", err)
	}

	e, err := newEngine(c)
	if err != nil {
		return err
	}

	if err := e.Applier.Apply(plan); err != nil {
		return fmt.Errorf("refactor apply failed: %w", err)
	}
	fmt.Printf("applied %d edit(s) across %d file(s)\n", len(plan.Edits), len(plan.AffectedFiles))
	return nil
}

func analyzeComplexityCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: lci analyze complexity <file>")
	}
	path := c.Args().First()

	e, err := newEngine(c)
	if err != nil {
		return err
	}

	reports, err := e.AnalyzeComplexity(c.Context, path)
	if err != nil {
		return fmt.Errorf("failed to analyze complexity of %s: %w", path, err)
	}

	if c.Bool("json") {
		data, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal complexity report: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
	for _, r := range reports {
		fmt.Printf("%s:%d: %s cyclomatic=%d cognitive=%d\n", path, r.Line, r.FunctionName, r.CyclomaticComplexity, r.CognitiveComplexity)
	}
	return nil
}

func analyzeDuplicatesCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	e := engine.New(cfg)

	groups, err := e.FindDuplicates(c.Context, cfg.Project.Root)
	if err != nil {
		return fmt.Errorf("failed to find duplicates: %w", err)
	}

	if c.Bool("json") {
		data, err := json.MarshalIndent(groups, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal duplication groups: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
	for _, g := range groups {
		fmt.Printf("duplicate group (similarity=%.2f):\n", g.Similarity)
		for _, b := range g.Blocks {
			fmt.Printf("  %s:%d-%d\n", b.File, b.StartLine, b.EndLine)
		}
	}
	fmt.Printf("%d duplicate group(s)\n", len(groups))
	return nil
}

func analyzeDeadCodeCommand(c *cli.Context) error {
	e, err := newEngine(c)
	if err != nil {
		return err
	}

	findings := e.FindDeadCode()
	if c.Bool("json") {
		data, err := json.MarshalIndent(findings, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal dead code findings: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
	for _, f := range findings {
		fmt.Printf("%s:%d: %s (confidence=%.1f) - %s\n", f.Symbol.DefinedAt.File, f.Symbol.DefinedAt.Line, f.Symbol.Name, f.Confidence, f.Rationale)
	}
	fmt.Printf("%d dead code finding(s)\n", len(findings))
	return nil
}

func agentRunCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: lci agent run <agent-name>")
	}
	agentName := c.Args().First()

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Orchestrator.SimulatedMode = c.Bool("simulated")
	e := engine.New(cfg)

	sub := e.Bus.Subscribe()
	defer sub.Unsubscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for evt := range sub.C {
			if evt.Update != nil && !c.Bool("json") {
				fmt.Printf("[%s] %.0f%% %s\n", evt.Update.AgentID, evt.Update.Progress*100, evt.Update.Message)
			}
			if evt.Terminal != nil {
				return
			}
		}
	}()

	results, err := e.Orchestrator.Run(context.Background(), codeintel.SinglePlan(codeintel.AgentInvocation{AgentID: "cli", AgentName: agentName}))
	<-done
	if err != nil {
		return fmt.Errorf("agent run failed: %w", err)
	}

	result := results[0]
	if c.Bool("json") {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal agent result: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("agent %q finished as %s\n%s\n", agentName, result.State, result.Output)
	return nil
}
