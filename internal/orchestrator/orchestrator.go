// Package orchestrator implements the Agent Orchestrator from spec
// section 4.6: it schedules an ExecutionPlan's invocations according to
// its Single/Sequential/Parallel/Mixed shape, drives each one through a
// Worker to completion, and publishes every transition on the Progress
// Bus in the order spec section 5 requires (total order per agent_id).
package orchestrator

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sourcelens/engine/internal/codeintel"
	"github.com/sourcelens/engine/internal/progressbus"
)

// DefaultMaxParallel bounds the number of invocations a Parallel/Mixed
// plan runs concurrently, per spec section 4.6's max_parallel_agents
// configuration option.
const DefaultMaxParallel = 4

// Orchestrator schedules and runs ExecutionPlans against a Registry of
// Workers, publishing every state transition to a Bus.
type Orchestrator struct {
	Registry    *Registry
	Bus         *progressbus.Bus
	MaxParallel int

	mu         sync.RWMutex
	executions map[string]*codeintel.AgentExecution
}

// New wires an Orchestrator to its worker registry and progress bus.
func New(registry *Registry, bus *progressbus.Bus) *Orchestrator {
	return &Orchestrator{
		Registry:    registry,
		Bus:         bus,
		MaxParallel: DefaultMaxParallel,
		executions:  make(map[string]*codeintel.AgentExecution),
	}
}

// Snapshot returns a copy of one invocation's current execution state, or
// false if the orchestrator has never seen that agent ID.
func (o *Orchestrator) Snapshot(agentID string) (codeintel.AgentExecution, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	exec, ok := o.executions[agentID]
	if !ok {
		return codeintel.AgentExecution{}, false
	}
	return exec.Clone(), true
}

// Run executes plan to completion, returning every invocation's terminal
// AgentExecution snapshot. Sequential runs stop at the first invocation
// that doesn't reach AgentCompleted (spec section 4.6: "not on failure or
// cancellation - then propagate state and stop"). Parallel runs launch
// every invocation concurrently, bounded by MaxParallel. A Barrier step
// in a Mixed plan blocks until every prior step's invocations have
// reached a terminal state.
func (o *Orchestrator) Run(ctx context.Context, plan codeintel.ExecutionPlan) ([]codeintel.AgentExecution, error) {
	switch plan.Kind {
	case codeintel.PlanSingle:
		exec := o.runOne(ctx, plan.Invocation)
		return []codeintel.AgentExecution{exec}, nil
	case codeintel.PlanSequential:
		return o.runSequential(ctx, plan.Invocations), nil
	case codeintel.PlanParallel:
		return o.runParallel(ctx, plan.Invocations), nil
	case codeintel.PlanMixed:
		return o.runMixed(ctx, plan.Steps), nil
	default:
		return nil, errUnknownPlanKind(plan.Kind)
	}
}

func (o *Orchestrator) runSequential(ctx context.Context, invocations []codeintel.AgentInvocation) []codeintel.AgentExecution {
	var results []codeintel.AgentExecution
	for _, inv := range invocations {
		exec := o.runOne(ctx, inv)
		results = append(results, exec)
		if exec.State != codeintel.AgentCompleted {
			break
		}
	}
	return results
}

func (o *Orchestrator) runParallel(ctx context.Context, invocations []codeintel.AgentInvocation) []codeintel.AgentExecution {
	results := make([]codeintel.AgentExecution, len(invocations))
	g := new(errgroup.Group)
	g.SetLimit(o.maxParallel())
	for i, inv := range invocations {
		i, inv := i, inv
		g.Go(func() error {
			results[i] = o.runOne(ctx, inv)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (o *Orchestrator) runMixed(ctx context.Context, steps []codeintel.ExecutionStep) []codeintel.AgentExecution {
	var all []codeintel.AgentExecution
	var pending []codeintel.AgentExecution

	flushBarrier := func() {
		all = append(all, pending...)
		pending = nil
	}

	for _, step := range steps {
		switch step.Kind {
		case codeintel.StepSingle:
			pending = append(pending, o.runOne(ctx, step.Invocation))
		case codeintel.StepParallel:
			pending = append(pending, o.runParallel(ctx, step.Invocations)...)
		case codeintel.StepBarrier:
			flushBarrier()
		}
	}
	flushBarrier()
	return all
}

func (o *Orchestrator) maxParallel() int {
	if o.MaxParallel <= 0 {
		return DefaultMaxParallel
	}
	return o.MaxParallel
}

// runOne drives a single invocation through the queued -> running ->
// terminal lifecycle from spec section 4.6, publishing every transition.
func (o *Orchestrator) runOne(ctx context.Context, inv codeintel.AgentInvocation) codeintel.AgentExecution {
	exec := &codeintel.AgentExecution{ID: inv.AgentID, AgentName: inv.AgentName, State: codeintel.AgentQueued}
	o.store(exec)
	o.Bus.PublishProgress(codeintel.ProgressUpdate{AgentID: inv.AgentID, Progress: 0, Message: "queued"})

	now := time.Now()
	exec.State = codeintel.AgentRunning
	exec.StartedAt = &now
	o.store(exec)
	o.Bus.PublishProgress(codeintel.ProgressUpdate{AgentID: inv.AgentID, Progress: 0, Message: "started"})

	worker, ok := o.Registry.Lookup(inv.AgentName)
	if !ok {
		return o.finish(exec, codeintel.AgentFailed, "", nil, errUnknownAgent(inv.AgentName))
	}

	lastProgress := 0.0
	report := func(progress float64, message string) {
		if progress < lastProgress {
			progress = lastProgress
		}
		lastProgress = progress
		o.Bus.PublishProgress(codeintel.ProgressUpdate{AgentID: inv.AgentID, Progress: progress, Message: message})
	}

	output, modified, err := worker.Run(ctx, inv, report)

	if ctx.Err() != nil {
		return o.finish(exec, codeintel.AgentCancelled, output, modified, ctx.Err())
	}
	if err != nil {
		return o.finish(exec, codeintel.AgentFailed, output, modified, err)
	}
	return o.finish(exec, codeintel.AgentCompleted, output, modified, nil)
}

func (o *Orchestrator) finish(exec *codeintel.AgentExecution, state codeintel.AgentState, output string, modified []string, err error) codeintel.AgentExecution {
	now := time.Now()
	exec.State = state
	exec.FinishedAt = &now
	exec.Output = output
	exec.ModifiedFiles = modified
	exec.Error = err
	if state == codeintel.AgentCompleted {
		exec.Progress = 1.0
	}
	o.store(exec)
	o.Bus.PublishTerminal(*exec)
	return exec.Clone()
}

func (o *Orchestrator) store(exec *codeintel.AgentExecution) {
	o.mu.Lock()
	defer o.mu.Unlock()
	stored := exec.Clone()
	o.executions[exec.ID] = &stored
}
