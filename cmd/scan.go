package cmd

import (
	"github.com/spf13/cobra"
	"scopemv.dev/pkg/scopemv/internal/controller"
)

const scanLongDescription = `Scan the source folder, parse each file's scope declaration and type names,
and list the suggested scope derived from its folder path. Nothing is written.`

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [path]",
		Short: "List files with their current and suggested scopes",
		Long:  scanLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, _, _, err := scanRecords(args)
			if err != nil {
				return err
			}

			controller.NewSimpleUI(cmd).DisplayRecords(records)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
