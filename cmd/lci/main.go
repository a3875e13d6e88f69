package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sourcelens/engine/internal/codeintel"
	"github.com/sourcelens/engine/internal/config"
	"github.com/sourcelens/engine/internal/mcp"
	"github.com/sourcelens/engine/internal/version"

	"github.com/urfave/cli/v2"
)

var Version = version.Version

// loadConfigWithOverrides loads configuration and applies CLI flag overrides.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")

	if rootFlag := c.String("root"); rootFlag != "" && configPath == ".lci.kdl" {
		configPath = filepath.Join(rootFlag, ".lci.kdl")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if rootFlag := c.String("root"); rootFlag != "" {
		absRoot, err := filepath.Abs(rootFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", rootFlag, err)
		}
		cfg.Project.Root = absRoot
	}

	return cfg, nil
}

func main() {
	app := &cli.App{
		Name:                   "lci",
		Usage:                  "Code-intelligence engine: Query API, Refactor API, and Agent Orchestrator",
		Version:                Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   ".lci.kdl",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns (e.g., --include '*.go')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (e.g., --exclude '**/vendor/**')",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory to index (overrides config)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "definition",
				Aliases:   []string{"def"},
				Usage:     "Find a symbol's definition",
				ArgsUsage: "<symbol-name>",
				Flags:     []cli.Flag{jsonFlag},
				Action:    queryCommand(codeintel.NewDefinitionQuery),
			},
			{
				Name:      "references",
				Aliases:   []string{"refs"},
				Usage:     "Find every reference to a symbol",
				ArgsUsage: "<symbol-name>",
				Flags:     []cli.Flag{jsonFlag},
				Action:    queryCommand(codeintel.NewReferenceQuery),
			},
			{
				Name:      "symbol",
				Usage:     "Look up a symbol by name",
				ArgsUsage: "<symbol-name>",
				Flags:     []cli.Flag{jsonFlag},
				Action:    queryCommand(func(name string) codeintel.Query { return codeintel.NewSymbolQuery(name, nil) }),
			},
			{
				Name:      "search",
				Aliases:   []string{"s"},
				Usage:     "Full-text search across the indexed project",
				ArgsUsage: "<text>",
				Flags:     []cli.Flag{jsonFlag},
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return errors.New("usage: lci search <text>")
					}
					return runQuery(c, codeintel.NewFullTextQuery(c.Args().First(), codeintel.FullTextFilters{}))
				},
			},
			{
				Name:  "refactor",
				Usage: "Plan and apply transactional multi-file refactorings",
				Subcommands: []*cli.Command{
					{
						Name:      "plan-rename",
						Usage:     "Plan renaming a symbol across the project",
						ArgsUsage: "<old-name> <new-name>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "out", Usage: "Write the plan as JSON to this path instead of stdout"},
						},
						Action: refactorPlanRenameCommand,
					},
					{
						Name:      "plan-imports",
						Usage:     "Plan rewriting an import path across every file that imports it",
						ArgsUsage: "<old-path> <new-path>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "out", Usage: "Write the plan as JSON to this path instead of stdout"},
						},
						Action: refactorPlanImportsCommand,
					},
					{
						Name:      "apply",
						Usage:     "Apply a previously planned RefactorPlan transactionally",
						ArgsUsage: "<plan.json>",
						Action:    refactorApplyCommand,
					},
				},
			},
			{
				Name:  "agent",
				Usage: "Run agents through the Agent Orchestrator",
				Subcommands: []*cli.Command{
					{
						Name:      "run",
						Usage:     "Run a single agent invocation and print its terminal result",
						ArgsUsage: "<agent-name>",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "simulated", Usage: "Use SimulatedWorker canned step lists instead of a real backend", Value: true},
							jsonFlag,
						},
						Action: agentRunCommand,
					},
				},
			},
			{
				Name:  "analyze",
				Usage: "Run the analyzer library (complexity, duplication, dead code) over the project",
				Subcommands: []*cli.Command{
					{
						Name:      "complexity",
						Usage:     "Report cyclomatic/cognitive complexity for every function in a file",
						ArgsUsage: "<file>",
						Flags:     []cli.Flag{jsonFlag},
						Action:    analyzeComplexityCommand,
					},
					{
						Name:   "duplicates",
						Usage:  "Find duplicate functions/classes across the project root",
						Flags:  []cli.Flag{jsonFlag},
						Action: analyzeDuplicatesCommand,
					},
					{
						Name:   "deadcode",
						Usage:  "Find symbols with no references outside their own definition",
						Flags:  []cli.Flag{jsonFlag},
						Action: analyzeDeadCodeCommand,
					},
				},
			},
			{
				Name:  "serve",
				Usage: "Start the MCP server (Refactor API and Agent Orchestrator) over stdio",
				Action: serveCommand,
			},
			{
				Name:  "config",
				Usage: "Configuration management commands",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Show the resolved configuration",
						Action: configShowCommand,
					},
				},
			},
		},
		Action: func(c *cli.Context) error {
			return cli.ShowAppHelp(c)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

var jsonFlag = &cli.BoolFlag{
	Name:    "json",
	Aliases: []string{"j"},
	Usage:   "Output as JSON",
}

// queryCommand adapts a symbol-name query constructor (definition,
// reference, symbol) into a cli.ActionFunc, matching the old def/refs
// command's <symbol-name> argument shape.
func queryCommand(newQuery func(name string) codeintel.Query) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.NArg() < 1 {
			return fmt.Errorf("usage: lci %s <symbol-name>", c.Command.Name)
		}
		return runQuery(c, newQuery(c.Args().First()))
	}
}

func runQuery(c *cli.Context, q codeintel.Query) error {
	e, err := newEngine(c)
	if err != nil {
		return err
	}

	resp, err := e.Planner.Search(c.Context, q)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if c.Bool("json") {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal response: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(resp.Results) == 0 {
		fmt.Println("no results")
		return nil
	}
	for _, r := range resp.Results {
		fmt.Printf("%s:%d:%d: %s\n", r.Location.File, r.Location.Line, r.Location.Column, r.ContentExcerpt)
	}
	fmt.Printf("%d result(s) from %s in %s\n", len(resp.Results), resp.Metadata.Layer, resp.Metadata.Duration)
	return nil
}

func configShowCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// serveCommand starts the MCP server over stdio, shutting down gracefully
// on SIGINT/SIGTERM.
func serveCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	mcpServer, err := mcp.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- mcpServer.Start(ctx)
	}()

	select {
	case err := <-errChan:
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		mcpServer.Shutdown(shutdownCtx)
		if err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	case sig := <-sigChan:
		_ = sig
		cancel()
		<-errChan
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return mcpServer.Shutdown(shutdownCtx)
	}
}
