package domain

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"scopemv.dev/pkg/scopemv/internal/adapter"
	m "scopemv.dev/pkg/scopemv/internal/model"
)

// defaultFileMode is used when the original file mode cannot be determined.
const defaultFileMode os.FileMode = 0o644

// RenameArgs describes one scope rename to propagate through the tree.
type RenameArgs struct {
	OldScope   string
	NewScope   string
	MovedTypes []string
	File       m.Path
	SearchRoot m.Path
	Extension  string
}

// RenameStats aggregates what one rename changed on disk.
type RenameStats struct {
	FilesModified     int
	ReferencesUpdated int
}

// Engine is the reference propagation engine. Rename rewrites the declaration
// in the source file and then every dependent file under the search root;
// RewriteContent is the dry-run variant used by previews.
type Engine interface {
	Rename(args RenameArgs) (RenameStats, error)
	RewriteContent(content []byte, oldScope, newScope string, movedTypes []string) ([]byte, int, bool)
}

type engine struct {
	fs     adapter.SourceFSAdapter
	files  adapter.ScopeFileAdapter
	finder ReferenceFinder
}

// NewEngine constructs an Engine backed by the provided filesystem and scope
// file adapters.
func NewEngine(fs adapter.SourceFSAdapter, files adapter.ScopeFileAdapter) Engine {
	return &engine{
		fs:     fs,
		files:  files,
		finder: NewReferenceFinder(),
	}
}

// Rename performs the declaration rewrite (step A) and the dependent-file
// propagation pass (step B). A failure on the declaration rewrite fails the
// rename; failures on individual dependent files are logged and skipped.
func (e *engine) Rename(args RenameArgs) (RenameStats, error) {
	stats := RenameStats{}

	changed, err := e.renameDeclaration(args)
	if err != nil {
		return stats, err
	}

	if changed {
		stats.FilesModified++
		stats.ReferencesUpdated++
	}

	// An empty old scope means the declaration was just introduced; no
	// reference to it can exist anywhere else.
	if args.OldScope == "" {
		return stats, nil
	}

	e.propagate(args, &stats)

	return stats, nil
}

// renameDeclaration rewrites (or introduces) the scope declaration in the file
// being renamed.
func (e *engine) renameDeclaration(args RenameArgs) (bool, error) {
	content, err := e.fs.ReadFile(args.File)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", args.File, err)
	}

	var (
		updated []byte
		changed bool
	)

	if args.OldScope == "" {
		updated = e.files.InsertDeclaration(content, args.NewScope)
		changed = true
	} else {
		updated, changed = e.files.RenameDeclaration(content, args.OldScope, args.NewScope)
	}

	if !changed {
		return false, nil
	}

	if err := e.fs.WriteFile(args.File, updated, e.fileMode(args.File)); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", args.File, err)
	}

	return true, nil
}

// propagate rewrites every dependent file under the search root.
func (e *engine) propagate(args RenameArgs, stats *RenameStats) {
	renamed := filepath.Clean(string(args.File))

	err := e.fs.Walk(args.SearchRoot, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}

		if info.IsDir() || filepath.Ext(path) != args.Extension {
			return nil
		}

		if filepath.Clean(path) == renamed {
			return nil
		}

		e.propagateFile(m.Path(path), info.Mode().Perm(), args, stats)

		return nil
	})
	if err != nil {
		slog.Error("reference scan aborted", "root", args.SearchRoot, "error", err)
	}
}

// propagateFile applies step B to a single dependent file. Read or write
// failures leave the file untouched without aborting the scan.
func (e *engine) propagateFile(path m.Path, perm os.FileMode, args RenameArgs, stats *RenameStats) {
	content, err := e.fs.ReadFile(path)
	if err != nil {
		slog.Error("failed to read dependent file", "path", path, "error", err)
		return
	}

	updated, refs, changed := e.RewriteContent(content, args.OldScope, args.NewScope, args.MovedTypes)
	if !changed {
		return
	}

	if err := e.fs.WriteFile(path, updated, perm); err != nil {
		slog.Error("failed to write dependent file", "path", path, "error", err)
		return
	}

	stats.FilesModified++
	stats.ReferencesUpdated += refs
}

// RewriteContent rewrites fully-qualified references to the moved types,
// inserts an import of the new scope when the file relies on an import of the
// old one, and de-duplicates imports when anything changed. It never removes
// the old import: a type still declared under the old scope may need it, so
// dead-import removal is the batch-level cleanup's responsibility.
func (e *engine) RewriteContent(content []byte, oldScope, newScope string, movedTypes []string) ([]byte, int, bool) {
	text := string(content)
	refs := 0

	for _, typeName := range movedTypes {
		var n int

		text, n = e.finder.ReplaceQualified(text, oldScope, newScope, typeName)
		refs += n
	}

	changed := refs > 0
	lines := strings.Split(text, "\n")

	importsOld, importsNew, lastImport := e.scanImports(lines, oldScope, newScope)
	if importsOld && !importsNew && e.usesMovedTypes(lines, movedTypes) {
		lines = insertAfter(lines, lastImport, importIndent(lines[lastImport])+"import "+newScope+";")
		refs++
		changed = true
	}

	if !changed {
		return content, 0, false
	}

	lines = e.dedupeImports(lines)

	return []byte(strings.Join(lines, "\n")), refs, true
}

// scanImports reports whether old and new are imported and where the last
// import line sits.
func (e *engine) scanImports(lines []string, oldScope, newScope string) (bool, bool, int) {
	importsOld := false
	importsNew := false
	lastImport := -1

	for i, line := range lines {
		name, ok := e.files.ImportName(line)
		if !ok {
			continue
		}

		lastImport = i

		if name == oldScope {
			importsOld = true
		}

		if name == newScope {
			importsNew = true
		}
	}

	return importsOld, importsNew, lastImport
}

// usesMovedTypes reports whether any non-declaration, non-import line mentions
// a moved type as a whole word. A single hit is sufficient.
func (e *engine) usesMovedTypes(lines []string, movedTypes []string) bool {
	for _, line := range lines {
		if e.files.IsScopeLine(line) {
			continue
		}

		if _, ok := e.files.ImportName(line); ok {
			continue
		}

		for _, typeName := range movedTypes {
			if e.finder.ContainsWord(line, typeName) {
				return true
			}
		}
	}

	return false
}

// dedupeImports keeps only the first occurrence of each distinct import in
// original order. Lines are compared by their parsed scope name, so formatting
// differences between duplicates do not matter; the first occurrence keeps its
// original formatting.
func (e *engine) dedupeImports(lines []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		if name, ok := e.files.ImportName(line); ok {
			if _, dup := seen[name]; dup {
				continue
			}

			seen[name] = struct{}{}
		}

		out = append(out, line)
	}

	return out
}

// insertAfter places line directly after index i.
func insertAfter(lines []string, i int, line string) []string {
	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:i+1]...)
	out = append(out, line)
	out = append(out, lines[i+1:]...)

	return out
}

// importIndent copies the leading whitespace of an existing import line so the
// inserted one lines up with it.
func importIndent(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func (e *engine) fileMode(path m.Path) os.FileMode {
	info, err := e.fs.FileInfo(path)
	if err != nil {
		return defaultFileMode
	}

	return info.Mode().Perm()
}
