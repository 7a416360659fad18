// Package controller provides output adapters for displaying scan, apply and
// preview results.
package controller

import (
	m "scopemv.dev/pkg/scopemv/internal/model"
)

// UI defines the interface for presenting results to the user. Implementations
// can use different output methods (plain text, tables, files).
type UI interface {
	// DisplayRecords renders the scan result table.
	DisplayRecords(records []m.ScriptRecord)

	// DisplayRun renders the outcome table for one batch apply.
	DisplayRun(run m.ApplyRun)

	// DisplayReports renders the affected-file reports keyed by source file.
	DisplayReports(reports map[m.Path][]m.AffectedFileReport)

	// DisplayDiff renders a unified diff between two versions of a file.
	DisplayDiff(path m.Path, before, after []byte)

	// DisplayProgress reports batch progress. It must not block.
	DisplayProgress(fraction float64, message string)
}
