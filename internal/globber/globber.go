// Package globber implements the restricted glob syntax used to filter
// candidate files during baking.
//
// Supported tokens: '*' matches within a single path segment, '?'
// matches one character within a segment, and '**' crosses segment
// boundaries. Everything else is literal. Patterns and paths are
// compared relative: both are normalized to forward slashes and one
// leading slash is stripped before matching.
package globber

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Compile translates a glob pattern into an anchored regular expression.
//
//   - "**/" matches zero or more whole path segments.
//   - "/**" matches a slash followed by anything, or nothing at all.
//   - "*"   matches any run of characters excluding "/".
//   - "?"   matches exactly one character excluding "/".
//
// A pattern without wildcards behaves as an exact match.
func Compile(pattern string) (*regexp.Regexp, error) {
	pattern = normalize(pattern)

	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); {
		switch {
		case strings.HasPrefix(pattern[i:], "**/"):
			b.WriteString(`(?:[^/]+/)*`)
			i += 3
		case strings.HasPrefix(pattern[i:], "/**"):
			b.WriteString(`(?:/.*)?`)
			i += 3
		case pattern[i] == '*':
			b.WriteString(`[^/]*`)
			i++
		case pattern[i] == '?':
			b.WriteString(`[^/]`)
			i++
		default:
			b.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
			i++
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// Match reports whether path matches pattern. Malformed patterns match
// nothing.
func Match(path, pattern string) bool {
	re, err := Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(normalize(path))
}

// Filter applies include-then-exclude pattern sets to files, preserving
// input order.
//
// When include is non-empty, only files matching at least one include
// pattern survive. Any file matching an exclude pattern is then dropped.
// Empty pattern lists are no-ops at their stage; an empty result is not
// an error here, the caller owns the emptiness policy.
func Filter(files, include, exclude []string) []string {
	inc := compileAll(include)
	exc := compileAll(exclude)

	kept := make([]string, 0, len(files))
	for _, f := range files {
		p := normalize(f)
		if len(inc) > 0 && !matchAny(inc, p) {
			continue
		}
		if matchAny(exc, p) {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

func compileAll(patterns []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := Compile(p)
		if err != nil {
			continue
		}
		res = append(res, re)
	}
	return res
}

func matchAny(res []*regexp.Regexp, path string) bool {
	for _, re := range res {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.TrimPrefix(filepath.ToSlash(s), "/")
}
