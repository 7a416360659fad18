package adapter

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	m "scopemv.dev/pkg/scopemv/internal/model"
)

// ScopeFileAdapter encapsulates the line-oriented source grammar (scope
// declarations, imports, type declarations) so the domain layer can focus on
// rename rules while delegating text-format details to an infrastructure
// component.
type ScopeFileAdapter interface {
	// ParseFacts extracts the current scope declaration and the declared type
	// identifiers from file content. A file without any declaration yields
	// empty facts, not an error.
	ParseFacts(content []byte) (m.ScopeFacts, error)

	// ImportName returns the imported scope name when line is an import
	// statement.
	ImportName(line string) (string, bool)

	// IsScopeLine reports whether line is a scope declaration line. Such lines
	// are never treated as usage lines during reference scans.
	IsScopeLine(line string) bool

	// RenameDeclaration replaces the scope name token in the file's
	// declaration, but only when the declared name equals oldName exactly.
	RenameDeclaration(content []byte, oldName, newName string) ([]byte, bool)

	// InsertDeclaration inserts a new header-style declaration after the last
	// leading import, or at the first non-blank, non-comment, non-directive
	// line when there are no imports.
	InsertDeclaration(content []byte, name string) []byte
}

const dottedIdent = `[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)*`

var (
	headerDeclRe = regexp.MustCompile(`^\s*scope\s+(` + dottedIdent + `)\s*;`)
	blockDeclRe  = regexp.MustCompile(`^\s*scope\s+(` + dottedIdent + `)\s*\{`)
	bareDeclRe   = regexp.MustCompile(`^\s*scope\s+(` + dottedIdent + `)\s*$`)
	scopeLineRe  = regexp.MustCompile(`^\s*scope\b`)
	importLineRe = regexp.MustCompile(`^\s*import\s+(` + dottedIdent + `)\s*;`)
	typeDeclRe   = regexp.MustCompile(`^\s*(?:[A-Za-z_][A-Za-z0-9_]*\s+)*(?:class|struct|interface|enum)\s+([A-Za-z_][A-Za-z0-9_]*)`)
)

// LocalScopeFileAdapter provides a concrete ScopeFileAdapter backed by the
// regex line grammar above.
type LocalScopeFileAdapter struct{}

// NewLocalScopeFileAdapter constructs a LocalScopeFileAdapter.
func NewLocalScopeFileAdapter() *LocalScopeFileAdapter {
	return &LocalScopeFileAdapter{}
}

// ParseFacts extracts scope declaration facts from file content.
func (a *LocalScopeFileAdapter) ParseFacts(content []byte) (m.ScopeFacts, error) {
	if bytes.ContainsRune(content, 0) {
		return m.ScopeFacts{}, fmt.Errorf("binary content is not a source file")
	}

	facts := m.ScopeFacts{}
	lines := strings.Split(string(content), "\n")

	for i, line := range lines {
		if match := typeDeclRe.FindStringSubmatch(line); match != nil {
			facts.TypeNames = append(facts.TypeNames, match[1])
			continue
		}

		// The header-terminated form wins when present anywhere in the file.
		if match := headerDeclRe.FindStringSubmatch(line); match != nil && !facts.HeaderStyle {
			facts.ScopeName = match[1]
			facts.HeaderStyle = true

			continue
		}

		if facts.ScopeName != "" {
			continue
		}

		if match := blockDeclRe.FindStringSubmatch(line); match != nil {
			facts.ScopeName = match[1]
			continue
		}

		if match := bareDeclRe.FindStringSubmatch(line); match != nil && nextLineOpensBlock(lines, i) {
			facts.ScopeName = match[1]
		}
	}

	return facts, nil
}

// nextLineOpensBlock reports whether the line after index i contains only "{".
func nextLineOpensBlock(lines []string, i int) bool {
	if i+1 >= len(lines) {
		return false
	}

	return strings.TrimSpace(lines[i+1]) == "{"
}

// ImportName returns the imported scope name when line is an import statement.
func (a *LocalScopeFileAdapter) ImportName(line string) (string, bool) {
	match := importLineRe.FindStringSubmatch(line)
	if match == nil {
		return "", false
	}

	return match[1], true
}

// IsScopeLine reports whether line begins with the scope keyword.
func (a *LocalScopeFileAdapter) IsScopeLine(line string) bool {
	return scopeLineRe.MatchString(line)
}

// RenameDeclaration rewrites the declared scope name in place, preserving the
// rest of the declaration line byte for byte. The header-style declaration is
// preferred when both forms could match.
func (a *LocalScopeFileAdapter) RenameDeclaration(content []byte, oldName, newName string) ([]byte, bool) {
	lines := strings.Split(string(content), "\n")

	idx, loc := findDeclaration(lines, headerDeclRe, oldName)
	if idx < 0 {
		idx, loc = findDeclaration(lines, blockDeclRe, oldName)
	}

	if idx < 0 {
		idx, loc = findBareDeclaration(lines, oldName)
	}

	if idx < 0 {
		return content, false
	}

	line := lines[idx]
	lines[idx] = line[:loc[0]] + newName + line[loc[1]:]

	return []byte(strings.Join(lines, "\n")), true
}

// findDeclaration locates a declaration matching re whose name equals want.
// It returns the line index and the [start, end) byte range of the name token.
func findDeclaration(lines []string, re *regexp.Regexp, want string) (int, []int) {
	for i, line := range lines {
		loc := re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}

		if line[loc[2]:loc[3]] != want {
			continue
		}

		return i, []int{loc[2], loc[3]}
	}

	return -1, nil
}

func findBareDeclaration(lines []string, want string) (int, []int) {
	for i, line := range lines {
		loc := bareDeclRe.FindStringSubmatchIndex(line)
		if loc == nil || !nextLineOpensBlock(lines, i) {
			continue
		}

		if line[loc[2]:loc[3]] != want {
			continue
		}

		return i, []int{loc[2], loc[3]}
	}

	return -1, nil
}

// InsertDeclaration adds a header-style declaration for name, surrounded by
// blank lines, after the last leading import statement.
func (a *LocalScopeFileAdapter) InsertDeclaration(content []byte, name string) []byte {
	lines := strings.Split(string(content), "\n")
	decl := "scope " + name + ";"

	insertAt := 0
	lastImport := -1

	for i, line := range lines {
		if importLineRe.MatchString(line) {
			lastImport = i
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
			continue
		}

		insertAt = i

		break
	}

	if lastImport >= 0 {
		insertAt = lastImport + 1
	}

	block := []string{decl}
	if insertAt > 0 && strings.TrimSpace(lines[insertAt-1]) != "" {
		block = append([]string{""}, block...)
	}

	if insertAt < len(lines) && strings.TrimSpace(lines[insertAt]) != "" {
		block = append(block, "")
	}

	out := make([]string, 0, len(lines)+len(block))
	out = append(out, lines[:insertAt]...)
	out = append(out, block...)
	out = append(out, lines[insertAt:]...)

	return []byte(strings.Join(out, "\n"))
}
