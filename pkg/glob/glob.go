// Package glob matches slash-separated relative paths against doublestar
// patterns. It never touches the filesystem.
//
// Conventions shared by strategies, ignores and import allow-lists:
//   - a pattern ending in "/" matches directories only
//   - a pattern without "/" is matched against the full path and against
//     the final path component, so "*.sh" matches "bin/tool.sh"
//   - a leading "/" anchors the pattern at the root, so "/README.md"
//     matches "README.md" but not "docs/README.md"
//   - "**" crosses directory boundaries
package glob

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const metaChars = `*?[]{}\`

// Pattern is a validated glob
type Pattern struct {
	raw      string
	expr     string
	dirOnly  bool
	anyDepth bool
}

// Compile validates a pattern
func Compile(raw string) (Pattern, error) {
	expr := raw
	dirOnly := false
	if strings.HasSuffix(expr, "/") && len(expr) > 1 {
		dirOnly = true
		expr = strings.TrimSuffix(expr, "/")
	}
	expr = strings.TrimPrefix(expr, "./")
	anchored := strings.HasPrefix(expr, "/")
	expr = strings.TrimPrefix(expr, "/")

	if !doublestar.ValidatePattern(expr) {
		return Pattern{}, &InvalidPatternError{Pattern: raw}
	}
	return Pattern{
		raw:      raw,
		expr:     expr,
		dirOnly:  dirOnly,
		anyDepth: !anchored && !strings.Contains(expr, "/"),
	}, nil
}

// MustCompile is Compile for patterns known at build time
func MustCompile(raw string) Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// InvalidPatternError reports a malformed glob
type InvalidPatternError struct {
	Pattern string
}

func (e *InvalidPatternError) Error() string {
	return "invalid glob pattern: " + e.Pattern
}

func (p Pattern) String() string {
	return p.raw
}

// DirOnly reports whether the pattern only matches directories
func (p Pattern) DirOnly() bool {
	return p.dirOnly
}

// Match reports whether rel (slash-separated, relative) matches
func (p Pattern) Match(rel string, isDir bool) bool {
	if p.dirOnly && !isDir {
		return false
	}
	rel = strings.TrimPrefix(rel, "./")
	if ok, _ := doublestar.Match(p.expr, rel); ok {
		return true
	}
	if p.anyDepth && strings.Contains(rel, "/") {
		ok, _ := doublestar.Match(p.expr, path.Base(rel))
		return ok
	}
	return false
}

// Specificity is the number of literal characters in the pattern.
// "**/*.sh" scores 3, ".config/nvim" scores 11.
func (p Pattern) Specificity() int {
	return Specificity(p.expr)
}

// Specificity counts characters that are neither glob metacharacters nor path
// separators. A bracket class counts once.
func Specificity(pattern string) int {
	n := 0
	inClass := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '\\' && i+1 < len(pattern):
			i++
			n++
		case c == '[':
			inClass = true
		case c == ']' && inClass:
			inClass = false
			n++
		case inClass:
		case strings.IndexByte(metaChars, c) >= 0, c == ',', c == '/':
		default:
			n++
		}
	}
	return n
}

// HasMeta reports whether s contains any glob metacharacter
func HasMeta(s string) bool {
	return strings.ContainsAny(s, metaChars)
}

// Match is a one-shot helper; invalid patterns never match
func Match(pattern, rel string) bool {
	p, err := Compile(pattern)
	if err != nil {
		return false
	}
	return p.Match(rel, false)
}

// Set is an ordered list of patterns
type Set []Pattern

// CompileAll compiles patterns in order, stopping at the first invalid one
func CompileAll(raw []string) (Set, error) {
	set := make(Set, 0, len(raw))
	for _, r := range raw {
		p, err := Compile(r)
		if err != nil {
			return nil, err
		}
		set = append(set, p)
	}
	return set, nil
}

// Match returns the first pattern matching rel
func (s Set) Match(rel string, isDir bool) (Pattern, bool) {
	for _, p := range s {
		if p.Match(rel, isDir) {
			return p, true
		}
	}
	return Pattern{}, false
}

// Matches reports whether any pattern matches rel
func (s Set) Matches(rel string, isDir bool) bool {
	_, ok := s.Match(rel, isDir)
	return ok
}
