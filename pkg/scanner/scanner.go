// Package scanner walks a source directory, filters files by extension and
// ignore rules, and merges the survivors into a single markdown document.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Sizchode/codemd/pkg/ignore"

	"go.uber.org/zap"
)

// Scanner performs a single scan of a directory tree.
type Scanner struct {
	opts    Options
	ignore  *ignore.GitIgnore
	baseDir string
	extSet  map[string]struct{}
	logger  *zap.Logger
}

// New validates the options, loads ignore rules, and returns a ready Scanner.
func New(opts Options, logger *zap.Logger) (*Scanner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	baseDir, err := filepath.Abs(opts.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("directory %s does not exist: %w", opts.Directory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", opts.Directory)
	}

	extSet := make(map[string]struct{}, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		extSet[strings.TrimPrefix(ext, ".")] = struct{}{}
	}

	return &Scanner{
		opts:    opts,
		ignore:  loadIgnoreRules(baseDir, opts, logger),
		baseDir: baseDir,
		extSet:  extSet,
		logger:  logger,
	}, nil
}

// loadIgnoreRules compiles the ignore rule set for a scan. The .git
// directory is always excluded; beyond that, explicit ignore files take
// precedence over the scanned directory's .gitignore.
func loadIgnoreRules(baseDir string, opts Options, logger *zap.Logger) *ignore.GitIgnore {
	gi := ignore.NewGitIgnore(logger)
	gi.CompileIgnoreLines(".git/")

	if opts.NoGitignore {
		return gi
	}

	if len(opts.GitignoreFiles) > 0 {
		gi.CompileIgnoreFiles(opts.GitignoreFiles...)
		return gi
	}

	defaultPath := filepath.Join(baseDir, ".gitignore")
	if _, err := os.Stat(defaultPath); err == nil {
		if err := gi.CompileIgnoreFile(defaultPath); err != nil {
			logger.Warn("Could not read default .gitignore", zap.Error(err))
		} else {
			logger.Debug("Loaded .gitignore", zap.String("filePath", defaultPath))
		}
	}
	return gi
}

// Scan walks the directory and returns the assembled markdown document.
func (s *Scanner) Scan() (string, error) {
	startTime := time.Now()

	var segments []string
	if s.opts.IncludeStructure {
		segments = append(segments, "# Repository Structure")
		if structure := s.buildStructure(s.baseDir, 0); structure != "" {
			segments = append(segments, structure)
		}
		segments = append(segments, "")
	}

	files, err := s.collectFiles()
	if err != nil {
		return "", fmt.Errorf("failed to collect files: %w", err)
	}
	sort.Strings(files)

	rendered := 0
	for _, path := range files {
		fileSegments, err := s.renderFile(path)
		if err != nil {
			s.logger.Error("Error processing file",
				zap.String("filePath", path),
				zap.Error(err))
			continue
		}
		segments = append(segments, fileSegments...)
		rendered++
	}

	s.logger.Info("Scan completed",
		zap.Int("totalFiles", rendered),
		zap.Duration("elapsed", time.Since(startTime)))

	return strings.Join(segments, "\n"), nil
}

// relPath returns the slash-separated path of p relative to the scanned
// directory, falling back to the original path when it lies outside it.
func (s *Scanner) relPath(p string) string {
	rel, err := filepath.Rel(s.baseDir, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}
