// File: pkg/scanner/structure.go
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// buildStructure renders a markdown bullet tree of the directory, applying
// the same selection rules as the document body so the overview lists
// exactly the files that follow. Dot-entries are hidden, directory names are
// bold with a trailing slash, and empty directories are omitted.
func (s *Scanner) buildStructure(dir string, depth int) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Unreadable directories drop out of the tree silently, matching
		// how permission errors are handled during traversal.
		s.logger.Debug("Cannot list directory for structure",
			zap.String("directory", dir),
			zap.Error(err))
		return ""
	}

	var lines []string
	indent := strings.Repeat("  ", depth)

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		entryPath := filepath.Join(dir, name)
		relPath := s.relPath(entryPath)

		if entry.IsDir() {
			if s.ignore.MatchesPath(relPath + "/") {
				continue
			}
			substructure := s.buildStructure(entryPath, depth+1)
			if substructure != "" {
				lines = append(lines, fmt.Sprintf("%s* **%s/**", indent, escapeMarkdownName(name)))
				lines = append(lines, substructure)
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		if s.shouldInclude(entryPath, info) {
			lines = append(lines, fmt.Sprintf("%s* %s", indent, escapeMarkdownName(name)))
		}
	}

	return strings.Join(lines, "\n")
}

// escapeMarkdownName escapes the markdown emphasis characters '*' and '_'
// so file names render literally in the bullet tree.
func escapeMarkdownName(name string) string {
	name = strings.ReplaceAll(name, "*", `\*`)
	return strings.ReplaceAll(name, "_", `\_`)
}
