// Package domain contains the core scope renaming workflow and logic.
package domain

import (
	"path"
	"strings"

	m "scopemv.dev/pkg/scopemv/internal/model"
)

// Suggest derives the canonical scope name for filePath from the suggestion
// input. It is a pure function: identical inputs always yield an identical
// suggested name.
func Suggest(filePath m.Path, in m.SuggestionInput) string {
	file := normalizeSeparators(string(filePath))
	root := strings.TrimRight(normalizeSeparators(string(in.RootPath)), "/")

	// The root folder's own name is the first segment after the prefix.
	segments := []string{sanitizeSegment(path.Base(root))}

	dir := relativeDir(file, root)
	for _, seg := range strings.Split(dir, "/") {
		if seg == "" || seg == "." {
			continue
		}

		if _, excluded := in.ExcludeSegments[seg]; excluded {
			continue
		}

		segments = append(segments, sanitizeSegment(seg))
	}

	if in.Prefix != "" {
		segments = append([]string{in.Prefix}, segments...)
	}

	name := strings.Join(segments, ".")
	if in.CollapseDuplicates {
		name = collapseAdjacentSegments(name)
	}

	return name
}

// normalizeSeparators rewrites backslash separators so suggestion behaves the
// same regardless of the platform the paths came from.
func normalizeSeparators(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// relativeDir returns the directory portion of file relative to root. A file
// that is not under root falls back to its base name without extension as the
// sole relative component, which carries no directory portion.
func relativeDir(file, root string) string {
	if root != "" && strings.HasPrefix(file, root+"/") {
		return path.Dir(strings.TrimPrefix(file, root+"/"))
	}

	base := path.Base(file)

	return path.Dir(strings.TrimSuffix(base, path.Ext(base)))
}

// sanitizeSegment replaces characters outside [A-Za-z0-9_.] with underscores
// and prefixes segments that start with a digit.
func sanitizeSegment(seg string) string {
	if seg == "" {
		return "_"
	}

	var b strings.Builder

	for _, r := range seg {
		if isIdentRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	out := b.String()
	if out[0] >= '0' && out[0] <= '9' {
		out = "_" + out
	}

	return out
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '.' ||
		(r >= '0' && r <= '9') ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z')
}

// collapseAdjacentSegments drops immediately-adjacent duplicate segments,
// scanning right-to-left. Non-adjacent repeats are kept: A.Core.B.Core stays
// untouched while A.Core.Core.B becomes A.Core.B.
func collapseAdjacentSegments(name string) string {
	segs := strings.Split(name, ".")

	for i := len(segs) - 1; i > 0; i-- {
		if segs[i] == segs[i-1] {
			segs = append(segs[:i], segs[i+1:]...)
		}
	}

	return strings.Join(segs, ".")
}
