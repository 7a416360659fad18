package controller

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	m "scopemv.dev/pkg/scopemv/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayRecords renders one row per scanned file.
func (s *SimpleUI) DisplayRecords(records []m.ScriptRecord) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Current Scope", "Suggested Scope", "Note"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT,
	})

	changes := 0

	for _, record := range records {
		table.Append([]string{
			string(record.RelativePath),
			record.CurrentScopeName,
			record.SuggestedScopeName,
			recordNote(record),
		})

		if record.NeedsChange() || record.HasNoScope() {
			changes++
		}
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(records)), "", "",
		fmt.Sprintf("%d pending", changes),
	})
	table.Render()

	s.printf("\n%s", tableBuffer.String())
}

func recordNote(record m.ScriptRecord) string {
	switch {
	case record.HasTypeNameConflict:
		return "conflict"
	case record.HasNoScope():
		return "no scope"
	case record.NeedsChange():
		return "rename"
	default:
		return ""
	}
}

// DisplayRun renders one row per rename outcome plus aggregate counts.
func (s *SimpleUI) DisplayRun(run m.ApplyRun) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Old Scope", "New Scope", "Files", "Refs", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, outcome := range run.Outcomes {
		status := "ok"
		if !outcome.Success {
			status = "failed: " + outcome.ErrorMessage
		}

		table.Append([]string{
			outcome.OldScopeName,
			outcome.NewScopeName,
			fmt.Sprintf("%d", outcome.FilesModified),
			fmt.Sprintf("%d", outcome.ReferencesUpdated),
			status,
		})
	}

	table.SetFooter([]string{
		"", "Total",
		fmt.Sprintf("%d", run.FilesModified),
		fmt.Sprintf("%d", run.ReferencesUpdated),
		"",
	})
	table.Render()

	s.printf("\n%s", tableBuffer.String())
}

// DisplayReports prints the affected files per source record, in stable order.
func (s *SimpleUI) DisplayReports(reports map[m.Path][]m.AffectedFileReport) {
	sources := make([]m.Path, 0, len(reports))
	for source := range reports {
		sources = append(sources, source)
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })

	for _, source := range sources {
		affected := reports[source]

		s.printf("%s: %d affected file(s)\n", source, len(affected))

		for _, report := range affected {
			s.printf("  %s\n", report.RelativePath)

			for _, ref := range report.References {
				s.printf("    %s\n", ref)
			}
		}
	}
}

// DisplayDiff renders a unified diff of the dry-run rewrite for one file.
func (s *SimpleUI) DisplayDiff(path m.Path, before, after []byte) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: string(path),
		ToFile:   string(path),
		Context:  3,
	})
	if err != nil {
		s.printf("diff error for %s: %v\n", path, err)
		return
	}

	if diff != "" {
		s.printf("%s", diff)
	}
}

// DisplayProgress prints a single progress line per reported step.
func (s *SimpleUI) DisplayProgress(fraction float64, message string) {
	s.printf("[%3.0f%%] %s\n", fraction*100, message)
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
