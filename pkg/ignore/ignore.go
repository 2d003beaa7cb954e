// Package ignore implements gitignore-style pattern matching. Pattern lines
// are compiled to anchored regular expressions; later patterns win, and
// negation ('!') re-includes previously matched paths.
package ignore

import (
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// IgnorePattern encapsulates a compiled regular expression pattern,
// a negation flag, and metadata about the pattern's origin.
type IgnorePattern struct {
	Pattern *regexp.Regexp // Compiled regular expression for the pattern.
	Negate  bool           // Indicates if the pattern is a negation (starts with '!').
	Line    string         // Original pattern line.
	LineNo  int            // Line number in the source (1-based).
}

// GitIgnore represents a collection of ignore patterns.
type GitIgnore struct {
	Patterns []*IgnorePattern // List of compiled ignore patterns.
	logger   *zap.Logger
}

// NewGitIgnore initializes a GitIgnore instance with an optional logger.
func NewGitIgnore(logger *zap.Logger) *GitIgnore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitIgnore{
		Patterns: []*IgnorePattern{},
		logger:   logger,
	}
}

// CompileIgnoreFiles compiles patterns from the given ignore files in order.
// Files that cannot be read are logged as warnings and skipped, so an
// unreadable ignore file never aborts a scan.
func (gi *GitIgnore) CompileIgnoreFiles(paths ...string) {
	for _, path := range paths {
		if err := gi.CompileIgnoreFile(path); err != nil {
			gi.logger.Warn("Could not read ignore file",
				zap.String("filePath", path),
				zap.Error(err))
		}
	}
}

// CompileIgnoreLines compiles a set of ignore pattern lines and adds them to
// the GitIgnore instance.
func (gi *GitIgnore) CompileIgnoreLines(lines ...string) {
	for i, line := range lines {
		pattern, negate := parsePatternLine(line)
		if pattern != nil {
			gi.Patterns = append(gi.Patterns, &IgnorePattern{
				Pattern: pattern,
				Negate:  negate,
				Line:    line,
				LineNo:  i + 1, // 1-based line numbering.
			})
		}
	}
}

// CompileIgnoreFile reads an ignore file, parses its lines, and adds them to
// the GitIgnore instance.
func (gi *GitIgnore) CompileIgnoreFile(fpath string) error {
	content, err := os.ReadFile(fpath)
	if err != nil {
		return err
	}

	lines := strings.Split(string(content), "\n")
	gi.CompileIgnoreLines(lines...)
	gi.logger.Debug("Compiled ignore patterns",
		zap.String("filePath", fpath),
		zap.Int("lineCount", len(lines)))
	return nil
}

// MatchesPath checks if a path matches any of the ignore patterns.
// Directory paths should carry a trailing slash so directory-only patterns
// ("build/") apply.
func (gi *GitIgnore) MatchesPath(path string) bool {
	matches, _ := gi.MatchesPathWithPattern(path)
	return matches
}

// MatchesPathWithPattern checks if a path matches any ignore pattern and
// returns the last pattern that decided the outcome.
func (gi *GitIgnore) MatchesPathWithPattern(path string) (bool, *IgnorePattern) {
	normalizedPath := normalizePath(path)

	var matchedPattern *IgnorePattern
	matches := false

	for _, pattern := range gi.Patterns {
		if pattern.Pattern.MatchString(normalizedPath) {
			matchedPattern = pattern
			matches = !pattern.Negate
		}
	}

	return matches, matchedPattern
}

// normalizePath converts OS-specific path separators to forward slashes.
func normalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// parsePatternLine processes a line from an ignore file into a compiled regex
// and a negation flag. Comment and blank lines yield a nil pattern.
func parsePatternLine(line string) (*regexp.Regexp, bool) {
	trimmedLine := strings.TrimSpace(line)

	if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
		return nil, false
	}

	negate := false
	if strings.HasPrefix(trimmedLine, "!") {
		negate = true
		trimmedLine = strings.TrimPrefix(trimmedLine, "!")
	}

	// Escaped leading '#' and '!' are literals.
	if strings.HasPrefix(trimmedLine, "\\#") || strings.HasPrefix(trimmedLine, "\\!") {
		trimmedLine = trimmedLine[1:]
	}

	escapedLine := escapeSpecialChars(trimmedLine)
	escapedLine = handleDoubleStarPatterns(escapedLine)
	escapedLine = wildcardToRegex(escapedLine)
	escapedLine = anchorPattern(escapedLine, trimmedLine)

	compiledRegex, err := regexp.Compile(escapedLine)
	if err != nil {
		return nil, false
	}

	return compiledRegex, negate
}

// Placeholders keep '**' expansions out of the way of the single-star
// conversion; they are substituted with their regex equivalents last.
const (
	doubleStarMiddle   = "\x00ds-middle\x00"
	doubleStarTrailing = "\x00ds-trailing\x00"
	doubleStarLeading  = "\x00ds-leading\x00"
)

// Precompiled regular expressions used in pattern parsing.
var (
	doubleStarMiddlePattern   = regexp.MustCompile(`/\*\*/`)
	doubleStarTrailingPattern = regexp.MustCompile(`/\*\*$`)
	doubleStarLeadingPattern  = regexp.MustCompile(`^\*\*/`)
)

// escapeSpecialChars escapes regex special characters except for `*`, `?`, and `/`.
func escapeSpecialChars(pattern string) string {
	specialChars := `.+()|^$[]{}`
	for _, char := range specialChars {
		pattern = strings.ReplaceAll(pattern, string(char), `\`+string(char))
	}
	return pattern
}

// handleDoubleStarPatterns replaces '**' forms with placeholders.
func handleDoubleStarPatterns(pattern string) string {
	pattern = doubleStarMiddlePattern.ReplaceAllString(pattern, doubleStarMiddle)
	pattern = doubleStarTrailingPattern.ReplaceAllString(pattern, doubleStarTrailing)
	pattern = doubleStarLeadingPattern.ReplaceAllString(pattern, doubleStarLeading)
	return pattern
}

// wildcardToRegex converts `*` and `?` wildcards to regex equivalents and
// expands the '**' placeholders.
func wildcardToRegex(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "*", `[^/]*`)
	pattern = strings.ReplaceAll(pattern, "?", `[^/]`)
	pattern = strings.ReplaceAll(pattern, doubleStarMiddle, `(/|/.+/)`)
	pattern = strings.ReplaceAll(pattern, doubleStarTrailing, `(/.*)?`)
	pattern = strings.ReplaceAll(pattern, doubleStarLeading, `(.*/)?`)
	return pattern
}

// anchorPattern anchors the regex to the full path. Patterns containing a
// slash (other than a trailing one) are relative to the root of the tree;
// bare names match at any depth. A trailing slash restricts the pattern to
// directories and their contents.
func anchorPattern(pattern string, originalPattern string) string {
	if strings.HasSuffix(originalPattern, "/") {
		pattern += `(.*)?$`
	} else {
		pattern += `(/.*)?$`
	}

	if strings.HasPrefix(originalPattern, "/") {
		return "^" + strings.TrimPrefix(pattern, "/")
	}
	if strings.Contains(strings.TrimSuffix(originalPattern, "/"), "/") {
		return "^" + pattern
	}
	return `^(|.*/)` + pattern
}
