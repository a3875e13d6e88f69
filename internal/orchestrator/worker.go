package orchestrator

import (
	"context"

	"github.com/sourcelens/engine/internal/codeintel"
)

// Worker drives one agent invocation to completion, emitting
// intermediate progress through report and returning the final
// output/modified-files pair (or an error). Progress passed to report
// must be non-decreasing, per spec section 4.6 - the orchestrator clamps
// a lower value to the last reported one before publishing it, and sets
// progress to 1.0 at completion itself.
type Worker interface {
	Run(ctx context.Context, invocation codeintel.AgentInvocation, report func(progress float64, message string)) (output string, modifiedFiles []string, err error)
}

// WorkerFunc adapts a plain function to the Worker interface.
type WorkerFunc func(ctx context.Context, invocation codeintel.AgentInvocation, report func(float64, string)) (string, []string, error)

func (f WorkerFunc) Run(ctx context.Context, invocation codeintel.AgentInvocation, report func(float64, string)) (string, []string, error) {
	return f(ctx, invocation, report)
}

// Registry maps an agent name to the Worker that implements it. Agents
// with no registered worker fail with an unknown-agent error at dispatch
// time rather than at plan-construction time, since a plan may name
// agents registered later.
type Registry struct {
	workers map[string]Worker
}

func NewRegistry() *Registry {
	return &Registry{workers: make(map[string]Worker)}
}

func (r *Registry) Register(agentName string, w Worker) {
	r.workers[agentName] = w
}

func (r *Registry) Lookup(agentName string) (Worker, bool) {
	w, ok := r.workers[agentName]
	return w, ok
}
