// Package cmd provides the root command and CLI setup for scopemv.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"scopemv.dev/pkg/scopemv/internal/adapter"
	"scopemv.dev/pkg/scopemv/internal/domain"
	m "scopemv.dev/pkg/scopemv/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var fileAdapter adapter.ScopeFileAdapter
var outcomeStore adapter.OutcomeStore
var engine domain.Engine
var scanner domain.Scanner
var workflow domain.Workflow

// outputDirFlag is a root-level flag shared by commands that write outcome reports.
var outputDirFlag string

var searchRootFlag string
var prefixFlag string
var excludeSegmentsFlag string
var extensionFlag string
var useSourceAsRootFlag bool
var collapseDuplicatesFlag bool
var verboseFlag bool
var logFileFlag string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	fileAdapter = adapter.NewLocalScopeFileAdapter()
	outcomeStore = adapter.NewLocalOutcomeStore()
	engine = domain.NewEngine(fsAdapter, fileAdapter)
	scanner = domain.NewScanner(fsAdapter, fileAdapter)
	workflow = domain.NewWorkflow(fsAdapter, fileAdapter, outcomeStore, engine, scanner)
}

const rootLongDescription = `scopemv renames scope declarations across a tree of source files and keeps
every reference to the moved declarations consistent: the declaration itself,
fully-qualified references, import statements that bring the scope into
visibility, and imports that become dead as a result.

Scope names are suggested from each file's folder path relative to a root,
with optional prefixing, segment exclusion and duplicate collapsing.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scopemv",
		Short: "Scope rename tool for folder-derived namespaces",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(logFileFlag, verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&outputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for rename outcome reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringVarP(&searchRootFlag, searchFlagName, "s", viper.GetString(searchConfigKey), "search root for dependent files (defaults to the source folder)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(searchFlagName), searchConfigKey)

	cmd.PersistentFlags().StringVarP(&prefixFlag, prefixFlagName, "p", viper.GetString(prefixConfigKey), "prefix prepended to every suggested scope name")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(prefixFlagName), prefixConfigKey)

	cmd.PersistentFlags().StringVarP(&excludeSegmentsFlag, excludeFlagName, "x", viper.GetString(excludeConfigKey), "comma-separated path segments excluded from suggested names")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().StringVar(&extensionFlag, extensionFlagName, viper.GetString(extensionConfigKey), "source file extension to scan")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(extensionFlagName), extensionConfigKey)

	cmd.PersistentFlags().BoolVar(&useSourceAsRootFlag, sourceRootFlag, viper.GetBool(sourceRootConfigKey), "derive names from the source folder instead of the search root")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(sourceRootFlag), sourceRootConfigKey)

	cmd.PersistentFlags().BoolVar(&collapseDuplicatesFlag, collapseFlagName, viper.GetBool(collapseConfigKey), "collapse immediately-adjacent duplicate name segments")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(collapseFlagName), collapseConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "log at debug level")
	cmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "log file path")
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// sourceRoot resolves the positional source folder argument, defaulting to the
// working directory.
func sourceRoot(args []string) m.Path {
	if len(args) == 0 {
		return m.Path(".")
	}

	return m.Path(filepath.Clean(args[0]))
}

// searchRoot resolves the search folder, defaulting to the source folder.
func searchRoot(source m.Path) m.Path {
	if configured := viper.GetString(searchConfigKey); configured != "" {
		return m.Path(filepath.Clean(configured))
	}

	return source
}

// parseExcludeList splits a comma-separated exclusion list into a set,
// trimming entries and dropping empty ones.
func parseExcludeList(raw string) map[string]struct{} {
	set := make(map[string]struct{})

	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		set[entry] = struct{}{}
	}

	return set
}

// buildSuggestionInput assembles the suggestion configuration from flags and
// config values.
func buildSuggestionInput(source, search m.Path) m.SuggestionInput {
	root := search
	if viper.GetBool(sourceRootConfigKey) {
		root = source
	}

	return m.SuggestionInput{
		Prefix:             viper.GetString(prefixConfigKey),
		RootPath:           root,
		ExcludeSegments:    parseExcludeList(viper.GetString(excludeConfigKey)),
		CollapseDuplicates: viper.GetBool(collapseConfigKey),
	}
}

// scanRecords runs the scan pass shared by the scan, apply and preview commands.
func scanRecords(args []string) ([]m.ScriptRecord, m.Path, m.Path, error) {
	source := sourceRoot(args)
	search := searchRoot(source)

	records, err := workflow.Scan(domain.ScanArgs{
		Root:       source,
		Extension:  viper.GetString(extensionConfigKey),
		Suggestion: buildSuggestionInput(source, search),
	})
	if err != nil {
		return nil, source, search, err
	}

	return records, source, search, nil
}
