package scanner

// DefaultExtensions is the include set used when no extensions are specified.
var DefaultExtensions = []string{"py", "java", "js", "cpp", "c", "h", "hpp"}

// Options holds the configuration for a single scan.
type Options struct {
	Directory         string   // Directory to scan.
	Extensions        []string // File extensions to include, without dots.
	ExcludePatterns   []string // Substrings; any path containing one is excluded.
	ExcludeExtensions []string // Suffixes; any path ending in one is excluded.
	GitignoreFiles    []string // Explicit ignore files, overriding .gitignore discovery.
	NoGitignore       bool     // Disable gitignore rules entirely.
	Recursive         bool     // Descend into subdirectories.
	IncludeStructure  bool     // Emit the repository structure section.
	MaxFileSizeKB     int      // Files larger than this are skipped; 0 means no limit.
}
