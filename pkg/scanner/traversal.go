// File: pkg/scanner/traversal.go
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// collectFiles gathers the paths of every file that survives filtering.
// Recursive mode walks the whole tree; otherwise only the directory's
// immediate children are considered.
func (s *Scanner) collectFiles() ([]string, error) {
	if !s.opts.Recursive {
		return s.collectTopLevel()
	}

	var files []string
	err := filepath.WalkDir(s.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("Error accessing path during traversal",
				zap.String("path", path),
				zap.Error(err))
			return nil
		}

		if d.IsDir() {
			if path == s.baseDir {
				return nil
			}
			if s.ignore.MatchesPath(s.relPath(path) + "/") {
				s.logger.Debug("Skipping ignored directory", zap.String("directory", path))
				return filepath.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			s.logger.Warn("Failed to get file info during traversal",
				zap.String("filePath", path),
				zap.Error(err))
			return nil
		}
		if s.shouldInclude(path, info) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to traverse %s: %w", s.baseDir, err)
	}
	return files, nil
}

func (s *Scanner) collectTopLevel() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", s.baseDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("Failed to get file info",
				zap.String("filePath", path),
				zap.Error(err))
			continue
		}
		if s.shouldInclude(path, info) {
			files = append(files, path)
		}
	}
	return files, nil
}

// shouldInclude applies the selection rules in order: ignore rules first,
// then the extension include set, substring excludes, suffix excludes, the
// size cap, and finally binary detection.
func (s *Scanner) shouldInclude(path string, info fs.FileInfo) bool {
	relPath := s.relPath(path)
	if s.ignore.MatchesPath(relPath) {
		s.logger.Debug("File matches ignore pattern",
			zap.String("filePath", path),
			zap.String("relPath", relPath))
		return false
	}

	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if _, ok := s.extSet[ext]; !ok {
		return false
	}

	// Substring and suffix excludes apply to the tree-relative path, so the
	// directories leading up to the scanned tree never trigger an exclusion.
	for _, pattern := range s.opts.ExcludePatterns {
		if strings.Contains(relPath, pattern) {
			return false
		}
	}
	for _, suffix := range s.opts.ExcludeExtensions {
		if strings.HasSuffix(relPath, suffix) {
			return false
		}
	}

	if s.opts.MaxFileSizeKB > 0 && info.Size() > int64(s.opts.MaxFileSizeKB)*1024 {
		s.logger.Debug("Skipping file over size limit",
			zap.String("filePath", path),
			zap.Int64("sizeBytes", info.Size()),
			zap.Int("maxSizeKB", s.opts.MaxFileSizeKB))
		return false
	}

	if isCommonBinaryExtension(path) {
		s.logger.Debug("Skipping file with binary extension",
			zap.String("filePath", path),
			zap.String("extension", filepath.Ext(path)))
		return false
	}
	isBinary, err := isBinaryFile(path)
	if err != nil {
		s.logger.Warn("Failed to check if file is binary",
			zap.String("filePath", path),
			zap.Error(err))
		return false
	}
	if isBinary {
		s.logger.Debug("Skipping binary file", zap.String("filePath", path))
		return false
	}

	return true
}
