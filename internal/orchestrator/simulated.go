package orchestrator

import (
	"context"
	"fmt"

	"github.com/sourcelens/engine/internal/codeintel"
)

// agentSteps are the canned progress messages for each known agent name,
// grounded on tui/src/app.rs's get_agent_steps - the original's demo path
// for exercising the orchestrator UI without wiring a real agent runtime.
// Promoted to an explicit SimulatedWorker here per the SimulatedMode
// config decision recorded in DESIGN.md.
var agentSteps = map[string][]string{
	"code-reviewer": {
		"Initializing code review analysis...",
		"Parsing AST and building symbol tables...",
		"Analyzing code quality metrics...",
		"Checking for security vulnerabilities...",
		"Evaluating performance patterns...",
		"Generating review findings...",
		"Finalizing recommendations...",
	},
	"refactorer": {
		"Analyzing code structure...",
		"Identifying refactoring opportunities...",
		"Calculating complexity metrics...",
		"Planning structural improvements...",
		"Generating refactoring suggestions...",
		"Validating proposed changes...",
	},
	"debugger": {
		"Scanning for potential bugs...",
		"Analyzing control flow...",
		"Checking error handling patterns...",
		"Validating input sanitization...",
		"Generating debug report...",
	},
	"test-writer": {
		"Analyzing code coverage...",
		"Identifying test gaps...",
		"Generating test cases...",
		"Creating mock objects...",
		"Validating test quality...",
	},
	"performance": {
		"Profiling execution paths...",
		"Analyzing memory usage patterns...",
		"Identifying bottlenecks...",
		"Calculating algorithmic complexity...",
		"Generating optimization recommendations...",
	},
	"security": {
		"Scanning for OWASP Top 10 vulnerabilities...",
		"Analyzing authentication flows...",
		"Checking input validation...",
		"Evaluating cryptographic usage...",
		"Generating security assessment...",
	},
	"docs": {
		"Analyzing code documentation...",
		"Extracting API signatures...",
		"Generating usage examples...",
		"Creating documentation structure...",
		"Finalizing documentation...",
	},
}

var defaultAgentSteps = []string{
	"Initializing agent...",
	"Analyzing codebase...",
	"Processing requirements...",
	"Generating results...",
	"Finalizing output...",
}

// SimulatedWorker runs the canned step list for an agent's name instead
// of dispatching real analysis work - wired in when
// Config.Orchestrator.SimulatedMode is set, for demos and UI development
// against the orchestrator without a full indexing pipeline behind it.
type SimulatedWorker struct{}

func (SimulatedWorker) Run(ctx context.Context, invocation codeintel.AgentInvocation, report func(float64, string)) (string, []string, error) {
	steps, ok := agentSteps[invocation.AgentName]
	if !ok {
		steps = defaultAgentSteps
	}
	total := len(steps)
	for i, step := range steps {
		select {
		case <-ctx.Done():
			return "", nil, ctx.Err()
		default:
		}
		progress := float64(i+1) / float64(total)
		report(progress, step)
	}
	output := fmt.Sprintf("simulated %s run over context %q (%d parameter(s))", invocation.AgentName, invocation.Context, len(invocation.Parameters))
	return output, nil, nil
}
