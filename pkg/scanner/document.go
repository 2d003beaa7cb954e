// File: pkg/scanner/document.go
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// renderFile reads a file and renders its markdown section: a heading with
// the relative path followed by a fenced code block whose info string is the
// file's extension.
func (s *Scanner) renderFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", path, err)
	}

	content := string(data)
	lang := strings.TrimPrefix(filepath.Ext(path), ".")
	fence := fenceFor(content)

	return []string{
		"# " + s.relPath(path),
		fence + lang,
		content,
		fence,
		"",
	}, nil
}

// fenceFor returns a backtick fence longer than any backtick run in the
// content, so files containing fenced code blocks survive rendering.
func fenceFor(content string) string {
	longest, run := 0, 0
	for _, r := range content {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	length := 3
	if longest >= 3 {
		length = longest + 1
	}
	return strings.Repeat("`", length)
}
