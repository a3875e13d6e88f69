package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcelens/engine/internal/codeintel"
	"github.com/sourcelens/engine/internal/progressbus"
)

func succeedingWorker(output string) Worker {
	return WorkerFunc(func(ctx context.Context, inv codeintel.AgentInvocation, report func(float64, string)) (string, []string, error) {
		report(0.5, "halfway")
		report(1.0, "done")
		return output, []string{"a.go"}, nil
	})
}

func failingWorker(errMsg string) Worker {
	return WorkerFunc(func(ctx context.Context, inv codeintel.AgentInvocation, report func(float64, string)) (string, []string, error) {
		report(0.3, "about to fail")
		return "", nil, errors.New(errMsg)
	})
}

func newTestOrchestrator() (*Orchestrator, *Registry) {
	reg := NewRegistry()
	return New(reg, progressbus.NewBus()), reg
}

func TestRunSingleCompletesSuccessfully(t *testing.T) {
	o, reg := newTestOrchestrator()
	reg.Register("echo", succeedingWorker("ok"))

	results, err := o.Run(context.Background(), codeintel.SinglePlan(codeintel.AgentInvocation{AgentID: "1", AgentName: "echo"}))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, codeintel.AgentCompleted, results[0].State)
	assert.Equal(t, 1.0, results[0].Progress)
	assert.Equal(t, "ok", results[0].Output)
}

func TestRunSequentialStopsOnFailure(t *testing.T) {
	o, reg := newTestOrchestrator()
	reg.Register("good", succeedingWorker("first"))
	reg.Register("bad", failingWorker("boom"))

	plan := codeintel.SequentialPlan([]codeintel.AgentInvocation{
		{AgentID: "1", AgentName: "bad"},
		{AgentID: "2", AgentName: "good"},
	})
	results, err := o.Run(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, results, 1, "sequential execution must stop after the first non-completed invocation")
	assert.Equal(t, codeintel.AgentFailed, results[0].State)
}

func TestRunParallelRunsAllInvocations(t *testing.T) {
	o, reg := newTestOrchestrator()
	reg.Register("echo", succeedingWorker("ok"))

	plan := codeintel.ParallelPlan([]codeintel.AgentInvocation{
		{AgentID: "1", AgentName: "echo"},
		{AgentID: "2", AgentName: "echo"},
		{AgentID: "3", AgentName: "echo"},
	})
	results, err := o.Run(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.Equal(t, codeintel.AgentCompleted, r.State)
	}
}

func TestRunMixedBarrierWaitsForPriorSteps(t *testing.T) {
	o, reg := newTestOrchestrator()
	reg.Register("echo", succeedingWorker("ok"))

	steps := []codeintel.ExecutionStep{
		{Kind: codeintel.StepParallel, Invocations: []codeintel.AgentInvocation{
			{AgentID: "1", AgentName: "echo"},
			{AgentID: "2", AgentName: "echo"},
		}},
		{Kind: codeintel.StepBarrier},
		{Kind: codeintel.StepSingle, Invocation: codeintel.AgentInvocation{AgentID: "3", AgentName: "echo"}},
	}
	results, err := o.Run(context.Background(), codeintel.MixedPlan(steps))
	require.NoError(t, err)
	require.Len(t, results, 3)
}

func TestRunUnknownAgentFails(t *testing.T) {
	o, _ := newTestOrchestrator()
	results, err := o.Run(context.Background(), codeintel.SinglePlan(codeintel.AgentInvocation{AgentID: "1", AgentName: "nope"}))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, codeintel.AgentFailed, results[0].State)
}

func TestRunCancellationMarksCancelled(t *testing.T) {
	o, reg := newTestOrchestrator()
	reg.Register("slow", WorkerFunc(func(ctx context.Context, inv codeintel.AgentInvocation, report func(float64, string)) (string, []string, error) {
		select {
		case <-ctx.Done():
			return "", nil, ctx.Err()
		case <-time.After(time.Second):
			return "too slow", nil, nil
		}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := o.Run(ctx, codeintel.SinglePlan(codeintel.AgentInvocation{AgentID: "1", AgentName: "slow"}))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, codeintel.AgentCancelled, results[0].State)
}

func TestSnapshotReflectsLatestState(t *testing.T) {
	o, reg := newTestOrchestrator()
	reg.Register("echo", succeedingWorker("ok"))
	_, err := o.Run(context.Background(), codeintel.SinglePlan(codeintel.AgentInvocation{AgentID: "1", AgentName: "echo"}))
	require.NoError(t, err)

	snap, ok := o.Snapshot("1")
	require.True(t, ok)
	assert.Equal(t, codeintel.AgentCompleted, snap.State)
}
