// Package model defines the data structures for scope renaming.
package model

// Path represents a file system path.
type Path string

// ScopeFacts holds the declaration facts extracted from a single source file.
// It is computed fresh on every scan and never persisted.
type ScopeFacts struct {
	// ScopeName is the currently declared scope, empty when the file has none.
	ScopeName string

	// TypeNames lists declared type identifiers in source order. Duplicates
	// are kept (partial declarations); membership tests happen downstream.
	TypeNames []string

	// HeaderStyle is true when the declaration is the header-terminated form.
	HeaderStyle bool
}

// SuggestionInput bundles the configuration that drives scope name suggestion.
// Suggestion is a pure function of (filePath, SuggestionInput).
type SuggestionInput struct {
	Prefix             string
	RootPath           Path
	ExcludeSegments    map[string]struct{}
	CollapseDuplicates bool
}

// ScriptRecord is the unit of work and of caller selection.
type ScriptRecord struct {
	FilePath         Path
	RelativePath     Path
	CurrentScopeName string

	// SuggestedScopeName may be hand-edited by the caller before applying.
	SuggestedScopeName string

	DeclaredTypeNames []string
	IsSelected        bool

	HasTypeNameConflict bool
	ConflictMessage     string
}

// NeedsChange reports whether applying this record would rename an existing scope.
func (r *ScriptRecord) NeedsChange() bool {
	return r.CurrentScopeName != "" && r.CurrentScopeName != r.SuggestedScopeName
}

// HasNoScope reports whether the file has no scope declaration at all.
func (r *ScriptRecord) HasNoScope() bool {
	return r.CurrentScopeName == ""
}

// ProgressFunc reports progress as a fraction in [0, 1] plus a short message.
// Implementations must return promptly and must not block.
type ProgressFunc func(fraction float64, message string)
