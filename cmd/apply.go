package cmd

import (
	"regexp"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"scopemv.dev/pkg/scopemv/internal/controller"
	"scopemv.dev/pkg/scopemv/internal/domain"
	m "scopemv.dev/pkg/scopemv/internal/model"
)

const applyLongDescription = `Scan the source folder and rename every scope whose current name differs from
its suggested name. References in dependent files under the search root are
rewritten, missing imports are inserted, and imports left dead by the batch
are removed in a final sweep.

Records whose suggested scope collides with a declared type name are skipped.`

var applyIncludeFlag string

// applyCmd represents the apply command.
var applyCmd = newApplyCmd()

func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [path]",
		Short: "Rename scopes and propagate references",
		Long:  applyLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, _, search, err := scanRecords(args)
			if err != nil {
				return err
			}

			records, err = selectForApply(records, applyIncludeFlag)
			if err != nil {
				return err
			}

			ui := controller.NewSimpleUI(cmd)

			run, err := workflow.Apply(domain.ApplyArgs{
				Records:    records,
				SearchRoot: search,
				Extension:  viper.GetString(extensionConfigKey),
				Output:     m.Path(viper.GetString(outputFlagName)),
				Progress:   ui.DisplayProgress,
			})
			if err != nil {
				return err
			}

			ui.DisplayRun(run)

			return nil
		},
	}

	cmd.Flags().StringVarP(&applyIncludeFlag, "include", "i", "", "only apply records whose relative path matches regex")

	return cmd
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

// selectForApply marks the records the CLI applies: everything needing a
// change, minus conflicts, optionally filtered by an include pattern.
func selectForApply(records []m.ScriptRecord, includePattern string) ([]m.ScriptRecord, error) {
	var include *regexp.Regexp

	if includePattern != "" {
		var err error

		include, err = regexp.Compile(includePattern)
		if err != nil {
			return nil, err
		}
	}

	for i := range records {
		record := &records[i]
		record.IsSelected = (record.NeedsChange() || record.HasNoScope()) &&
			!record.HasTypeNameConflict &&
			(include == nil || include.MatchString(string(record.RelativePath)))
	}

	return records, nil
}
