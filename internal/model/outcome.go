package model

// RenameOutcome is the result of processing one ScriptRecord. One outcome is
// produced per attempted rename; failed renames are never retried.
type RenameOutcome struct {
	OldScopeName      string `yaml:"old_scope"`
	NewScopeName      string `yaml:"new_scope"`
	FilesModified     int    `yaml:"files_modified"`
	ReferencesUpdated int    `yaml:"references_updated"`
	Success           bool   `yaml:"success"`
	ErrorMessage      string `yaml:"error,omitempty"`
}

// ApplyRun aggregates the outcomes of one batch apply.
type ApplyRun struct {
	Outcomes          []RenameOutcome `yaml:"outcomes"`
	FilesModified     int             `yaml:"files_modified"`
	ReferencesUpdated int             `yaml:"references_updated"`
}

// Reference descriptor prefixes used in AffectedFileReport entries.
const (
	// RefQualified marks a fully-qualified reference that will be rewritten.
	RefQualified = "FQ: "
	// RefBareType marks a bare type usage inferred from an import of the old scope.
	RefBareType = "Type: "
	// RefImport is the informational marker for an import of the old scope.
	RefImport = "using "
)

// AffectedFileReport describes one file that a rename would touch.
// Produced read-only by the affected-file scanner; never written back.
type AffectedFileReport struct {
	FilePath     Path
	RelativePath Path

	// References holds ordered descriptors, each prefixed with one of the
	// Ref* constants above.
	References []string
}
