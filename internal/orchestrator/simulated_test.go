package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sourcelens/engine/internal/codeintel"
)

func TestSimulatedWorkerEmitsMonotoneProgressToOne(t *testing.T) {
	var progressValues []float64
	worker := SimulatedWorker{}
	output, modified, err := worker.Run(context.Background(), codeintel.AgentInvocation{AgentName: "code-reviewer"}, func(p float64, msg string) {
		progressValues = append(progressValues, p)
	})
	require.NoError(t, err)
	require.NotEmpty(t, progressValues)
	assert.Equal(t, 1.0, progressValues[len(progressValues)-1])
	assert.Contains(t, output, "code-reviewer")
	assert.Nil(t, modified)

	for i := 1; i < len(progressValues); i++ {
		assert.GreaterOrEqual(t, progressValues[i], progressValues[i-1])
	}
}

func TestSimulatedWorkerFallsBackToDefaultSteps(t *testing.T) {
	var count int
	worker := SimulatedWorker{}
	_, _, err := worker.Run(context.Background(), codeintel.AgentInvocation{AgentName: "unknown-agent"}, func(p float64, msg string) {
		count++
	})
	require.NoError(t, err)
	assert.Equal(t, len(defaultAgentSteps), count)
}

func TestSimulatedWorkerRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	worker := SimulatedWorker{}
	_, _, err := worker.Run(ctx, codeintel.AgentInvocation{AgentName: "code-reviewer"}, func(float64, string) {})
	require.Error(t, err)
}
