package domain

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"scopemv.dev/pkg/scopemv/internal/adapter"
	m "scopemv.dev/pkg/scopemv/internal/model"
	"scopemv.dev/pkg/scopemv/pkg"
)

const (
	// renameShare is the slice of the progress range spent on the per-record
	// renames; the rest is reserved for the cross-file cleanup sweep.
	renameShare = 0.8

	// cleanupCacheSize bounds the file-content cache used while the cleanup
	// sweep re-reads the tree once per renamed scope.
	cleanupCacheSize = 512
)

// ScanArgs configures a scan pass over the source folder.
type ScanArgs struct {
	Root       m.Path
	Extension  string
	Suggestion m.SuggestionInput
	Progress   m.ProgressFunc
}

// ApplyArgs configures a batch apply over the caller-selected records.
type ApplyArgs struct {
	Records    []m.ScriptRecord
	SearchRoot m.Path
	Extension  string

	// Output is the directory for the YAML outcome report; empty disables it.
	Output   m.Path
	Progress m.ProgressFunc
}

// PreviewArgs configures a read-only affected-file scan over many records.
type PreviewArgs struct {
	Records    []m.ScriptRecord
	SearchRoot m.Path
	Extension  string
	Progress   m.ProgressFunc
}

// Workflow sequences the declaration parser, the suggester, the propagation
// engine and the affected-file scanner over a tree of source files.
type Workflow interface {
	Scan(args ScanArgs) ([]m.ScriptRecord, error)
	Apply(args ApplyArgs) (m.ApplyRun, error)
	Preview(args PreviewArgs) (map[m.Path][]m.AffectedFileReport, error)
}

type workflow struct {
	fs       adapter.SourceFSAdapter
	files    adapter.ScopeFileAdapter
	outcomes adapter.OutcomeStore
	engine   Engine
	scanner  Scanner
	finder   ReferenceFinder
}

// NewWorkflow creates a Workflow instance with the provided dependencies.
func NewWorkflow(
	fs adapter.SourceFSAdapter,
	files adapter.ScopeFileAdapter,
	outcomes adapter.OutcomeStore,
	engine Engine,
	scanner Scanner,
) Workflow {
	return &workflow{
		fs:       fs,
		files:    files,
		outcomes: outcomes,
		engine:   engine,
		scanner:  scanner,
		finder:   NewReferenceFinder(),
	}
}

// RefreshRecords recomputes the suggested scope name and the conflict fields
// in place. It never re-reads the files, so it can run every time the
// suggestion inputs change.
func RefreshRecords(records []m.ScriptRecord, in m.SuggestionInput) {
	for i := range records {
		record := &records[i]
		record.SuggestedScopeName = Suggest(record.FilePath, in)
		record.HasTypeNameConflict, record.ConflictMessage = CheckConflict(
			record.SuggestedScopeName, record.DeclaredTypeNames,
		)
	}
}

// Scan walks the source folder and produces one ScriptRecord per parseable
// source file. A missing root yields an empty result, not an error; files
// that fail to read or parse are logged and skipped.
func (w *workflow) Scan(args ScanArgs) ([]m.ScriptRecord, error) {
	progress := progressOrNoop(args.Progress)

	if _, err := w.fs.FileInfo(args.Root); err != nil {
		slog.Warn("scan root not accessible", "root", args.Root, "error", err)
		return []m.ScriptRecord{}, nil
	}

	paths := w.collectFiles(args.Root, args.Extension)
	records := make([]m.ScriptRecord, 0, len(paths))

	for i, path := range paths {
		progress(float64(i)/float64(len(paths)), fmt.Sprintf("scanning %s", path))

		content, err := w.fs.ReadFile(path)
		if err != nil {
			slog.Error("failed to read source file", "path", path, "error", err)
			continue
		}

		facts, err := w.files.ParseFacts(content)
		if err != nil {
			slog.Error("failed to parse source file", "path", path, "error", err)
			continue
		}

		rel, err := w.fs.RelPath(args.Root, path)
		if err != nil {
			rel = path
		}

		records = append(records, m.ScriptRecord{
			FilePath:          path,
			RelativePath:      rel,
			CurrentScopeName:  facts.ScopeName,
			DeclaredTypeNames: facts.TypeNames,
			IsSelected:        true,
		})
	}

	RefreshRecords(records, args.Suggestion)
	progress(1, "scan complete")

	return records, nil
}

// Apply runs the batch rename: one engine invocation per selected record,
// followed by a single cross-file unused-import sweep driven by the aggregate
// moved-types-per-old-scope map. The map lives only for this invocation.
func (w *workflow) Apply(args ApplyArgs) (m.ApplyRun, error) {
	progress := progressOrNoop(args.Progress)
	run := m.ApplyRun{}
	moved := newMovedIndex()

	selected := selectRecords(args.Records)
	for i, record := range selected {
		progress(
			float64(i)/float64(len(selected))*renameShare,
			fmt.Sprintf("renaming %s -> %s", record.CurrentScopeName, record.SuggestedScopeName),
		)

		outcome := w.applyRecord(record, args, moved)

		run.Outcomes = append(run.Outcomes, outcome)
		run.FilesModified += outcome.FilesModified
		run.ReferencesUpdated += outcome.ReferencesUpdated
	}

	progress(renameShare, "sweeping unused imports")
	w.cleanupImports(moved, args, progress)
	progress(1, "apply complete")

	if args.Output != "" {
		if err := w.outcomes.SaveRun(args.Output, run); err != nil {
			return run, fmt.Errorf("save outcome report: %w", err)
		}
	}

	return run, nil
}

// selectRecords keeps the caller-selected records that would actually change
// their scope.
func selectRecords(records []m.ScriptRecord) []m.ScriptRecord {
	selected := make([]m.ScriptRecord, 0, len(records))

	for _, record := range records {
		if !record.IsSelected || record.SuggestedScopeName == "" {
			continue
		}

		if record.CurrentScopeName == record.SuggestedScopeName {
			continue
		}

		selected = append(selected, record)
	}

	return selected
}

// applyRecord renames one record, capturing any failure into its outcome so
// the batch continues with the next record.
func (w *workflow) applyRecord(record m.ScriptRecord, args ApplyArgs, moved *movedIndex) m.RenameOutcome {
	outcome := m.RenameOutcome{
		OldScopeName: record.CurrentScopeName,
		NewScopeName: record.SuggestedScopeName,
	}

	if record.CurrentScopeName != "" && len(record.DeclaredTypeNames) > 0 {
		moved.add(record.CurrentScopeName, record.DeclaredTypeNames)
	}

	stats, err := w.engine.Rename(RenameArgs{
		OldScope:   record.CurrentScopeName,
		NewScope:   record.SuggestedScopeName,
		MovedTypes: record.DeclaredTypeNames,
		File:       record.FilePath,
		SearchRoot: args.SearchRoot,
		Extension:  args.Extension,
	})
	if err != nil {
		slog.Error("rename failed", "file", record.FilePath, "error", err)
		outcome.ErrorMessage = err.Error()

		return outcome
	}

	outcome.Success = true
	outcome.FilesModified = stats.FilesModified
	outcome.ReferencesUpdated = stats.ReferencesUpdated

	return outcome
}

// cleanupImports re-examines, for every renamed-away scope, each file that
// still imports it. The import goes away when the scope has no remaining
// declared types, or when the file uses none of them as a bare identifier.
// Keeping a possibly-unneeded import is acceptable; removing a needed one is
// not.
func (w *workflow) cleanupImports(moved *movedIndex, args ApplyArgs, progress m.ProgressFunc) {
	if len(moved.order) == 0 {
		return
	}

	cache, err := lru.New[string, []byte](cleanupCacheSize)
	if err != nil {
		slog.Error("failed to create cleanup cache", "error", err)
		return
	}

	for i, oldScope := range moved.order {
		progress(
			renameShare+float64(i)/float64(len(moved.order))*(1-renameShare),
			fmt.Sprintf("sweeping imports of %s", oldScope),
		)

		movedSet := stringSet(moved.types[oldScope])
		remaining := w.remainingTypes(oldScope, movedSet, args, cache)
		w.sweepScope(oldScope, remaining, args, cache)
	}
}

// remainingTypes collects the type names still declared under oldScope
// anywhere in the tree, excluding the moved ones.
func (w *workflow) remainingTypes(oldScope string, movedSet map[string]struct{}, args ApplyArgs, cache *lru.Cache[string, []byte]) []string {
	var remaining []string

	seen := make(map[string]struct{})

	for _, path := range w.collectFiles(args.SearchRoot, args.Extension) {
		content, err := w.cachedRead(cache, path)
		if err != nil {
			slog.Error("failed to read file during sweep", "path", path, "error", err)
			continue
		}

		facts, err := w.files.ParseFacts(content)
		if err != nil || facts.ScopeName != oldScope {
			continue
		}

		for _, typeName := range facts.TypeNames {
			if _, isMoved := movedSet[typeName]; isMoved {
				continue
			}

			if _, dup := seen[typeName]; dup {
				continue
			}

			seen[typeName] = struct{}{}
			remaining = append(remaining, typeName)
		}
	}

	return remaining
}

// sweepScope removes the import of oldScope from every file where it is
// certainly or safely dead.
func (w *workflow) sweepScope(oldScope string, remaining []string, args ApplyArgs, cache *lru.Cache[string, []byte]) {
	for _, path := range w.collectFiles(args.SearchRoot, args.Extension) {
		content, err := w.cachedRead(cache, path)
		if err != nil {
			slog.Error("failed to read file during sweep", "path", path, "error", err)
			continue
		}

		lines := strings.Split(string(content), "\n")
		if !w.hasImport(lines, oldScope) {
			continue
		}

		if len(remaining) > 0 && w.usesAnyBare(lines, remaining) {
			continue
		}

		updated := w.withoutImport(lines, oldScope)
		if err := w.fs.WriteFile(path, []byte(updated), w.fileMode(path)); err != nil {
			slog.Error("failed to rewrite imports", "path", path, "error", err)
			continue
		}

		cache.Add(string(path), []byte(updated))
	}
}

func (w *workflow) hasImport(lines []string, scope string) bool {
	for _, line := range lines {
		if name, ok := w.files.ImportName(line); ok && name == scope {
			return true
		}
	}

	return false
}

// usesAnyBare reports whether any body line uses one of the names as a bare
// identifier.
func (w *workflow) usesAnyBare(lines []string, names []string) bool {
	for _, line := range lines {
		if w.files.IsScopeLine(line) {
			continue
		}

		if _, ok := w.files.ImportName(line); ok {
			continue
		}

		for _, name := range names {
			if w.finder.ContainsBare(line, name) {
				return true
			}
		}
	}

	return false
}

func (w *workflow) withoutImport(lines []string, scope string) string {
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if name, ok := w.files.ImportName(line); ok && name == scope {
			continue
		}

		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// previewBatch pairs a record's source path with its affected-file reports so
// batches can spill to disk between the scan and the final map assembly.
type previewBatch struct {
	Source  m.Path
	Reports []m.AffectedFileReport
}

// Preview runs the affected-file scanner for every record and returns the
// reports keyed by source file path. It never mutates the tree.
func (w *workflow) Preview(args PreviewArgs) (map[m.Path][]m.AffectedFileReport, error) {
	progress := progressOrNoop(args.Progress)

	spill, err := pkg.NewSpill[previewBatch]()
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := spill.Close(); err != nil {
			slog.Error("failed to close preview spill", "error", err)
		}
	}()

	for i, record := range args.Records {
		progress(float64(i)/float64(len(args.Records)), fmt.Sprintf("previewing %s", record.RelativePath))

		reports, err := w.scanner.Affected(AffectedArgs{
			OldScope:   record.CurrentScopeName,
			File:       record.FilePath,
			SearchRoot: args.SearchRoot,
			Extension:  args.Extension,
		})
		if err != nil {
			slog.Error("failed to preview record", "file", record.FilePath, "error", err)
			continue
		}

		if err := spill.Append(previewBatch{Source: record.FilePath, Reports: reports}); err != nil {
			return nil, err
		}
	}

	out := make(map[m.Path][]m.AffectedFileReport)

	err = spill.Range(func(_ uint64, batch previewBatch) error {
		out[batch.Source] = batch.Reports
		return nil
	})
	if err != nil {
		return nil, err
	}

	progress(1, "preview complete")

	return out, nil
}

// collectFiles lists every file under root carrying the source extension.
func (w *workflow) collectFiles(root m.Path, extension string) []m.Path {
	var paths []m.Path

	err := w.fs.Walk(root, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}

		if info.IsDir() || filepath.Ext(path) != extension {
			return nil
		}

		paths = append(paths, m.Path(path))

		return nil
	})
	if err != nil {
		slog.Warn("file walk aborted", "root", root, "error", err)
	}

	return paths
}

func (w *workflow) cachedRead(cache *lru.Cache[string, []byte], path m.Path) ([]byte, error) {
	if content, ok := cache.Get(string(path)); ok {
		return content, nil
	}

	content, err := w.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cache.Add(string(path), content)

	return content, nil
}

func (w *workflow) fileMode(path m.Path) os.FileMode {
	info, err := w.fs.FileInfo(path)
	if err != nil {
		return defaultFileMode
	}

	return info.Mode().Perm()
}

// movedIndex is the per-invocation aggregate of type names leaving each old
// scope. It is passed down the call chain and discarded when the batch ends.
type movedIndex struct {
	order []string
	types map[string][]string
}

func newMovedIndex() *movedIndex {
	return &movedIndex{types: make(map[string][]string)}
}

func (idx *movedIndex) add(scope string, typeNames []string) {
	if _, ok := idx.types[scope]; !ok {
		idx.order = append(idx.order, scope)
	}

	existing := stringSet(idx.types[scope])

	for _, name := range typeNames {
		if _, dup := existing[name]; dup {
			continue
		}

		existing[name] = struct{}{}
		idx.types[scope] = append(idx.types[scope], name)
	}
}

func stringSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}

	return set
}

func progressOrNoop(p m.ProgressFunc) m.ProgressFunc {
	if p == nil {
		return func(float64, string) {}
	}

	return p
}
