// Package scanner discovers the header files a compat header is generated from.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/rs/zerolog/log"
)

// DefaultExtension is the header file extension.
const DefaultExtension = ".h"

// Options configures a Scanner.
type Options struct {
	// Extension selects header files (default ".h").
	Extension string
	// Exclude is a base name that is never returned, normally the generated header.
	Exclude string
	// Ignore holds glob patterns, relative to the root, of paths to skip.
	Ignore []string
}

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Scanner walks a directory tree collecting header files.
type Scanner struct {
	rootDir   string
	extension string
	exclude   string
	ignore    []compiledPattern
}

// New creates a scanner rooted at rootDir.
func New(rootDir string, opts Options) (*Scanner, error) {
	s := &Scanner{
		rootDir:   rootDir,
		extension: opts.Extension,
		exclude:   opts.Exclude,
	}
	if s.extension == "" {
		s.extension = DefaultExtension
	}

	for _, pattern := range opts.Ignore {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		s.ignore = append(s.ignore, compiledPattern{pattern: pattern, glob: g})
	}

	return s, nil
}

// Root returns the directory the scanner walks.
func (s *Scanner) Root() string {
	return s.rootDir
}

// Scan returns every header under the root, sorted. Unreadable subtrees are
// skipped; Scan only fails when the root itself cannot be read.
func (s *Scanner) Scan() ([]string, error) {
	if _, err := os.Stat(s.rootDir); err != nil {
		return nil, err
	}

	headers := []string{}

	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.rootDir {
				return err
			}
			log.Debug().Err(err).Str("path", path).Msg("Skipping unreadable path")
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := s.relative(path)
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if relPath != "." && s.ShouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.IsHeader(relPath) {
			headers = append(headers, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(headers)
	return headers, nil
}

// IsHeader reports whether the root-relative path names a header the scanner
// would return.
func (s *Scanner) IsHeader(relPath string) bool {
	base := filepath.Base(relPath)
	if !strings.HasSuffix(base, s.extension) || base == s.exclude {
		return false
	}
	return !s.ShouldIgnore(filepath.ToSlash(relPath))
}

// ShouldIgnore checks if a root-relative, slash-separated path matches an ignore
// pattern. .git is always ignored.
func (s *Scanner) ShouldIgnore(relPath string) bool {
	if relPath == ".git" || strings.HasPrefix(relPath, ".git/") {
		return true
	}

	if s.matchesAnyPattern(relPath) {
		return true
	}

	// Also check if this is a directory that would match with /** suffix
	// For example, "build" should match pattern "build/**"
	return s.matchesAnyPattern(relPath + "/**")
}

func (s *Scanner) matchesAnyPattern(path string) bool {
	for _, cp := range s.ignore {
		if cp.glob.Match(path) {
			return true
		}
	}

	// "**/x" patterns should also match "x" at the root
	if !strings.Contains(path, "/") {
		for _, cp := range s.ignore {
			if strings.HasPrefix(cp.pattern, "**/") {
				if g, err := glob.Compile(strings.TrimPrefix(cp.pattern, "**/"), '/'); err == nil && g.Match(path) {
					return true
				}
			}
		}
	}

	return false
}

func (s *Scanner) relative(path string) (string, error) {
	rel, err := filepath.Rel(s.rootDir, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
