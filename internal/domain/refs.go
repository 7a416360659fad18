package domain

import (
	"regexp"
	"strings"
)

// ReferenceFinder isolates whole-word matching over raw text so a future
// syntax-aware matcher can be substituted without touching the propagation or
// cleanup logic. Matching is bounded-precision on purpose: an identifier with
// the same bare name as a moved type but declared elsewhere is treated as a
// usage.
type ReferenceFinder interface {
	// ContainsQualified reports whether text contains scope.typeName as a
	// whole word.
	ContainsQualified(text, scope, typeName string) bool

	// ReplaceQualified rewrites every whole-word occurrence of
	// oldScope.typeName to newScope.typeName and returns the rewritten text
	// together with the number of replacements.
	ReplaceQualified(text, oldScope, newScope, typeName string) (string, int)

	// ContainsBare reports whether text contains typeName as a whole word not
	// preceded by a qualifier dot.
	ContainsBare(text, typeName string) bool

	// ContainsWord reports whether text contains typeName as a whole word,
	// qualified or not.
	ContainsWord(text, typeName string) bool
}

// regexFinder implements ReferenceFinder with compiled regular expressions.
// Patterns are cached per token; the core is single-threaded so no locking is
// needed.
type regexFinder struct {
	cache map[string]*regexp.Regexp
}

// NewReferenceFinder constructs the regex-backed ReferenceFinder.
func NewReferenceFinder() ReferenceFinder {
	return &regexFinder{cache: make(map[string]*regexp.Regexp)}
}

// wordPattern builds a whole-word pattern for token. The leading guard rejects
// identifier characters and qualifier dots, so X.token never matches a bare
// token and Outer.Scope.Type never matches Scope.Type.
func (f *regexFinder) wordPattern(token string) *regexp.Regexp {
	re, ok := f.cache[token]
	if !ok {
		re = regexp.MustCompile(`(?m)(^|[^A-Za-z0-9_.])` + regexp.QuoteMeta(token) + `\b`)
		f.cache[token] = re
	}

	return re
}

// ContainsQualified reports whether text contains scope.typeName as a whole word.
func (f *regexFinder) ContainsQualified(text, scope, typeName string) bool {
	return f.wordPattern(scope + "." + typeName).MatchString(text)
}

// ReplaceQualified rewrites whole-word occurrences of oldScope.typeName.
func (f *regexFinder) ReplaceQualified(text, oldScope, newScope, typeName string) (string, int) {
	oldToken := oldScope + "." + typeName
	newToken := newScope + "." + typeName
	count := 0

	out := f.wordPattern(oldToken).ReplaceAllStringFunc(text, func(match string) string {
		count++

		return strings.TrimSuffix(match, oldToken) + newToken
	})

	return out, count
}

// ContainsBare reports whether text contains typeName as an unqualified whole word.
func (f *regexFinder) ContainsBare(text, typeName string) bool {
	return f.wordPattern(typeName).MatchString(text)
}

// ContainsWord reports whether text contains typeName as a whole word, with or
// without a qualifier.
func (f *regexFinder) ContainsWord(text, typeName string) bool {
	key := "\x00word\x00" + typeName

	re, ok := f.cache[key]
	if !ok {
		re = regexp.MustCompile(`\b` + regexp.QuoteMeta(typeName) + `\b`)
		f.cache[key] = re
	}

	return re.MatchString(text)
}
