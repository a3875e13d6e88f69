package refactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanImportRewriteFindsQuotedOccurrences(t *testing.T) {
	req := ImportRewriteRequest{
		OldPath: "old/pkg",
		NewPath: "new/pkg",
		Files: map[string][]byte{
			"a.go": []byte(`import "old/pkg"`),
			"b.go": []byte(`import "unrelated/pkg"`),
		},
	}
	plan := PlanImportRewrite(req)
	require.Len(t, plan.Edits, 1)
	assert.Equal(t, "a.go", plan.Edits[0].File)
	assert.Equal(t, []string{"a.go"}, plan.AffectedFiles)
}

func TestQuotedOccurrencesIgnoresUnquotedSubstring(t *testing.T) {
	offsets := quotedOccurrences([]byte("old/pkg/sub is not import \"old/pkg\""), "old/pkg")
	require.Len(t, offsets, 1)
}
