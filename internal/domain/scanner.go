package domain

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"scopemv.dev/pkg/scopemv/internal/adapter"
	m "scopemv.dev/pkg/scopemv/internal/model"
)

// AffectedArgs describes one read-only affected-file scan.
type AffectedArgs struct {
	OldScope   string
	File       m.Path
	SearchRoot m.Path
	Extension  string
}

// Scanner is the read-only variant of the propagation engine's detection
// logic. It reports which files and which references a rename would touch
// without mutating anything.
type Scanner interface {
	Affected(args AffectedArgs) ([]m.AffectedFileReport, error)
}

type scanner struct {
	fs     adapter.SourceFSAdapter
	files  adapter.ScopeFileAdapter
	finder ReferenceFinder
}

// NewScanner constructs a Scanner backed by the provided adapters.
func NewScanner(fs adapter.SourceFSAdapter, files adapter.ScopeFileAdapter) Scanner {
	return &scanner{
		fs:     fs,
		files:  files,
		finder: NewReferenceFinder(),
	}
}

// Affected re-derives the declared type names for the record's file and then
// collects, per dependent file, the references a rename would rewrite. A file
// with an import of the old scope but zero actual usages is not reported.
func (s *scanner) Affected(args AffectedArgs) ([]m.AffectedFileReport, error) {
	content, err := s.fs.ReadFile(args.File)
	if err != nil {
		return nil, err
	}

	facts, err := s.files.ParseFacts(content)
	if err != nil {
		return nil, err
	}

	if args.OldScope == "" || len(facts.TypeNames) == 0 {
		return nil, nil
	}

	scanned := filepath.Clean(string(args.File))

	var reports []m.AffectedFileReport

	walkErr := s.fs.Walk(args.SearchRoot, true, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}

		if info.IsDir() || filepath.Ext(path) != args.Extension {
			return nil
		}

		if filepath.Clean(path) == scanned {
			return nil
		}

		report, ok := s.inspect(m.Path(path), args, facts.TypeNames)
		if ok {
			reports = append(reports, report)
		}

		return nil
	})
	if walkErr != nil {
		slog.Error("affected-file scan aborted", "root", args.SearchRoot, "error", walkErr)
	}

	return reports, nil
}

// inspect collects the reference descriptors for one dependent file.
func (s *scanner) inspect(path m.Path, args AffectedArgs, typeNames []string) (m.AffectedFileReport, bool) {
	content, err := s.fs.ReadFile(path)
	if err != nil {
		slog.Error("failed to read dependent file", "path", path, "error", err)
		return m.AffectedFileReport{}, false
	}

	lines := strings.Split(string(content), "\n")
	importsOld := s.importsScope(lines, args.OldScope)

	var refs []string

	for _, line := range lines {
		if s.files.IsScopeLine(line) {
			continue
		}

		if _, ok := s.files.ImportName(line); ok {
			continue
		}

		for _, typeName := range typeNames {
			if s.finder.ContainsQualified(line, args.OldScope, typeName) {
				refs = append(refs, m.RefQualified+args.OldScope+"."+typeName)
				continue
			}

			if importsOld && s.finder.ContainsBare(line, typeName) {
				refs = append(refs, m.RefBareType+typeName)
			}
		}
	}

	// A bare import with zero actual usages is not an affected file.
	if len(refs) == 0 {
		return m.AffectedFileReport{}, false
	}

	if importsOld {
		refs = append([]string{m.RefImport + args.OldScope}, refs...)
	}

	rel, err := s.fs.RelPath(args.SearchRoot, path)
	if err != nil {
		rel = path
	}

	return m.AffectedFileReport{
		FilePath:     path,
		RelativePath: rel,
		References:   refs,
	}, true
}

// importsScope reports whether any import line brings scope into visibility.
func (s *scanner) importsScope(lines []string, scope string) bool {
	for _, line := range lines {
		if name, ok := s.files.ImportName(line); ok && name == scope {
			return true
		}
	}

	return false
}
