package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	m "scopemv.dev/pkg/scopemv/internal/model"
)

func TestPendingRecords(t *testing.T) {
	records := []m.ScriptRecord{
		{
			RelativePath:       "changed.src",
			CurrentScopeName:   "Old",
			SuggestedScopeName: "New",
		},
		{
			RelativePath:       "same.src",
			CurrentScopeName:   "New",
			SuggestedScopeName: "New",
		},
		{
			RelativePath:       "bare.src",
			SuggestedScopeName: "New",
		},
		{
			RelativePath:        "conflict.src",
			CurrentScopeName:    "Old",
			SuggestedScopeName:  "New",
			HasTypeNameConflict: true,
		},
	}

	pending := pendingRecords(records)

	assert.Len(t, pending, 1)
	assert.Equal(t, m.Path("changed.src"), pending[0].RelativePath)
}
