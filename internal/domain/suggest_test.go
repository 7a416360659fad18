package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "scopemv.dev/pkg/scopemv/internal/model"
)

func TestSuggest(t *testing.T) {
	tests := []struct {
		name string
		file m.Path
		in   m.SuggestionInput
		want string
	}{
		{
			"root name plus directories",
			"/proj/Assets/Scripts/Core/Widget.src",
			m.SuggestionInput{RootPath: "/proj/Assets"},
			"Assets.Scripts.Core",
		},
		{
			"prefix prepended",
			"/proj/Assets/Scripts/Core/Widget.src",
			m.SuggestionInput{Prefix: "My", RootPath: "/proj/Assets"},
			"My.Assets.Scripts.Core",
		},
		{
			"file directly under root",
			"/proj/Assets/Widget.src",
			m.SuggestionInput{RootPath: "/proj/Assets"},
			"Assets",
		},
		{
			"excluded segments dropped",
			"/proj/Assets/Scripts/Core/Widget.src",
			m.SuggestionInput{
				RootPath:        "/proj/Assets",
				ExcludeSegments: map[string]struct{}{"Scripts": {}},
			},
			"Assets.Core",
		},
		{
			"exclusion is case-sensitive",
			"/proj/Assets/scripts/Core/Widget.src",
			m.SuggestionInput{
				RootPath:        "/proj/Assets",
				ExcludeSegments: map[string]struct{}{"Scripts": {}},
			},
			"Assets.scripts.Core",
		},
		{
			"segment sanitization",
			"/proj/Assets/2Cool!/Widget.src",
			m.SuggestionInput{RootPath: "/proj/Assets"},
			"Assets._2Cool_",
		},
		{
			"file outside root falls back to root name",
			"/elsewhere/Widget.src",
			m.SuggestionInput{RootPath: "/proj/Assets"},
			"Assets",
		},
		{
			"adjacent duplicates collapse",
			"/x/A/Core/Core/B/Widget.src",
			m.SuggestionInput{RootPath: "/x/A", CollapseDuplicates: true},
			"A.Core.B",
		},
		{
			"non-adjacent duplicates survive",
			"/x/A/Core/B/Core/Widget.src",
			m.SuggestionInput{RootPath: "/x/A", CollapseDuplicates: true},
			"A.Core.B.Core",
		},
		{
			"duplicates kept without the collapse flag",
			"/x/A/Core/Core/B/Widget.src",
			m.SuggestionInput{RootPath: "/x/A"},
			"A.Core.Core.B",
		},
		{
			"windows-style separators normalized",
			`C:\proj\Assets\Scripts\Widget.src`,
			m.SuggestionInput{RootPath: `C:\proj\Assets`},
			"Assets.Scripts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.file, tt.in))
		})
	}
}

func TestSuggest_IsPure(t *testing.T) {
	in := m.SuggestionInput{
		Prefix:             "Game",
		RootPath:           "/proj/Assets",
		ExcludeSegments:    map[string]struct{}{"Editor": {}},
		CollapseDuplicates: true,
	}

	first := Suggest("/proj/Assets/Scripts/Editor/AI/Agent.src", in)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, Suggest("/proj/Assets/Scripts/Editor/AI/Agent.src", in))
	}
}

func TestSanitizeSegment(t *testing.T) {
	tests := []struct {
		seg  string
		want string
	}{
		{"2Cool!", "_2Cool_"},
		{"Plain", "Plain"},
		{"with space", "with_space"},
		{"héllo", "h_llo"},
		{"", "_"},
		{"9", "_9"},
	}

	for _, tt := range tests {
		t.Run(tt.seg, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeSegment(tt.seg))
		})
	}
}
