package builder

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	gitignore "github.com/sabhiram/go-gitignore"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// fileDiscovery walks a source tree and returns the files whose extension one
// of the registered front ends handles. Ignore globs and the tree's own
// .gitignore both apply; .git and .codegraph are always skipped.
type fileDiscovery struct {
	rootDir        string
	extensions     map[string]bool
	ignorePatterns []compiledPattern
	gitIgnore      *gitignore.GitIgnore
}

func newFileDiscovery(rootDir string, extensions []string, ignorePatterns []string) (*fileDiscovery, error) {
	fd := &fileDiscovery{
		rootDir:    rootDir,
		extensions: make(map[string]bool, len(extensions)),
	}
	for _, ext := range extensions {
		fd.extensions[strings.ToLower(ext)] = true
	}

	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		fd.ignorePatterns = append(fd.ignorePatterns, compiledPattern{pattern: pattern, glob: g})
	}

	if gi, err := gitignore.CompileIgnoreFile(filepath.Join(rootDir, ".gitignore")); err == nil {
		fd.gitIgnore = gi
	}

	return fd, nil
}

// discover returns the relative paths of parseable files, sorted by the walk
// order, which is lexicographic and therefore stable across runs.
func (fd *fileDiscovery) discover() ([]string, error) {
	var sourceFiles []string

	err := filepath.Walk(fd.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			base := info.Name()
			if base == ".git" || base == ".codegraph" {
				return filepath.SkipDir
			}
			if relPath != "." && fd.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.shouldIgnore(relPath) {
			return nil
		}
		if !fd.extensions[strings.ToLower(filepath.Ext(relPath))] {
			return nil
		}

		sourceFiles = append(sourceFiles, relPath)
		return nil
	})

	return sourceFiles, err
}

// shouldIgnore checks if a path matches any ignore pattern.
func (fd *fileDiscovery) shouldIgnore(relPath string) bool {
	if fd.gitIgnore != nil && fd.gitIgnore.MatchesPath(relPath) {
		return true
	}

	if fd.matchesAnyPattern(relPath, fd.ignorePatterns) {
		return true
	}

	// Also check if this is a directory that would match with /** suffix
	// For example, "node_modules" should match pattern "node_modules/**"
	pathWithSuffix := relPath + "/**"
	return fd.matchesAnyPattern(pathWithSuffix, fd.ignorePatterns)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (fd *fileDiscovery) matchesAnyPattern(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
	}

	// Special handling: if path is in root (no slash), also try matching against
	// patterns with **/ prefix removed. This makes "**/*.pyc" match both "x.pyc"
	// and "build/x.pyc" as users would expect.
	if !strings.Contains(path, "/") {
		for _, cp := range patterns {
			if strings.HasPrefix(cp.pattern, "**/") {
				simplified := strings.TrimPrefix(cp.pattern, "**/")
				if simplifiedGlob, err := glob.Compile(simplified, '/'); err == nil {
					if simplifiedGlob.Match(path) {
						return true
					}
				}
			}
		}
	}

	return false
}
