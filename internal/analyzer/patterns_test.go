package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLongMethodDetectorFlagsOversizedFunctions(t *testing.T) {
	facts := FunctionFacts{Name: "doEverything", File: "a.go", LineCount: 120}
	matches := DetectPatterns([]FunctionFacts{facts}, []PatternDetector{longMethodDetector{}})
	require.Len(t, matches, 1)
	assert.Equal(t, PatternLongMethod, matches[0].Kind)
	assert.Greater(t, matches[0].Confidence, 0.0)
}

func TestLongMethodDetectorIgnoresShortFunctions(t *testing.T) {
	facts := FunctionFacts{Name: "small", LineCount: 10}
	matches := DetectPatterns([]FunctionFacts{facts}, []PatternDetector{longMethodDetector{}})
	assert.Empty(t, matches)
}

func TestTooManyParamsDetector(t *testing.T) {
	facts := FunctionFacts{Name: "configure", ParamCount: 9}
	matches := DetectPatterns([]FunctionFacts{facts}, []PatternDetector{tooManyParamsDetector{}})
	require.Len(t, matches, 1)
	assert.Equal(t, PatternTooManyParams, matches[0].Kind)
}

func TestGodObjectDetector(t *testing.T) {
	facts := FunctionFacts{Name: "Manager", MethodCount: 40, StaticFieldCount: 20}
	matches := DetectPatterns([]FunctionFacts{facts}, []PatternDetector{godObjectDetector{}})
	require.Len(t, matches, 1)
	assert.Equal(t, PatternGodObject, matches[0].Kind)
	assert.Equal(t, 1.0, matches[0].Confidence)
}

func TestDetectPatternsSortsByDescendingConfidence(t *testing.T) {
	low := FunctionFacts{Name: "a", LineCount: 65}
	high := FunctionFacts{Name: "b", LineCount: 200}
	matches := DetectPatterns([]FunctionFacts{low, high}, []PatternDetector{longMethodDetector{}})
	require.Len(t, matches, 2)
	assert.GreaterOrEqual(t, matches[0].Confidence, matches[1].Confidence)
}
