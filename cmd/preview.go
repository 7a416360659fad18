package cmd

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"scopemv.dev/pkg/scopemv/internal/controller"
	"scopemv.dev/pkg/scopemv/internal/domain"
	m "scopemv.dev/pkg/scopemv/internal/model"
)

const previewLongDescription = `Report which files a batch rename would touch, and which references inside
them, without writing anything. With --diff, render the unified diff of each
dependent file's dry-run rewrite.`

var previewDiffFlag bool

// previewCmd represents the preview command.
var previewCmd = newPreviewCmd()

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview [path]",
		Short: "Preview the files a rename would touch",
		Long:  previewLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, _, search, err := scanRecords(args)
			if err != nil {
				return err
			}

			pending := pendingRecords(records)
			ui := controller.NewSimpleUI(cmd)

			reports, err := workflow.Preview(domain.PreviewArgs{
				Records:    pending,
				SearchRoot: search,
				Extension:  viper.GetString(extensionConfigKey),
				Progress:   ui.DisplayProgress,
			})
			if err != nil {
				return err
			}

			ui.DisplayReports(reports)

			if previewDiffFlag {
				renderDiffs(ui, pending, reports)
			}

			return nil
		},
	}

	cmd.Flags().BoolVarP(&previewDiffFlag, "diff", "d", false, "show unified diffs of the dry-run rewrite")

	return cmd
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

// pendingRecords keeps the records a batch apply would process.
func pendingRecords(records []m.ScriptRecord) []m.ScriptRecord {
	pending := make([]m.ScriptRecord, 0, len(records))

	for _, record := range records {
		if record.NeedsChange() && !record.HasTypeNameConflict {
			pending = append(pending, record)
		}
	}

	return pending
}

// renderDiffs shows, per affected file, the diff the propagation engine would
// produce. Reads happen here so the preview itself stays read-only.
func renderDiffs(ui controller.UI, records []m.ScriptRecord, reports map[m.Path][]m.AffectedFileReport) {
	byPath := make(map[m.Path]m.ScriptRecord, len(records))
	for _, record := range records {
		byPath[record.FilePath] = record
	}

	for source, affected := range reports {
		record, ok := byPath[source]
		if !ok {
			continue
		}

		for _, report := range affected {
			before, err := os.ReadFile(filepath.Clean(string(report.FilePath)))
			if err != nil {
				slog.Error("failed to read file for diff", "path", report.FilePath, "error", err)
				continue
			}

			after, _, changed := engine.RewriteContent(
				before, record.CurrentScopeName, record.SuggestedScopeName, record.DeclaredTypeNames,
			)
			if changed {
				ui.DisplayDiff(report.FilePath, before, after)
			}
		}
	}
}
