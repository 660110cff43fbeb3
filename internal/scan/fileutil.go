package scan

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// skipDirs contains directory names never worth scanning.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".next":        true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	"vendor":       true,
	"out":          true,
}

// DefaultInclude is the file set scanned when the project config does not
// specify include globs.
var DefaultInclude = []string{"**/*.tsx", "**/*.jsx", "**/*.ts", "**/*.js"}

// DefaultExclude removes test and type-declaration files from the default
// set. Build output directories are pruned during the walk regardless.
var DefaultExclude = []string{"**/*.test.*", "**/*.spec.*", "**/*.d.ts"}

// CollectFiles walks root and returns the relative (slash-separated) paths
// matching the include globs and not matching the exclude globs. A root
// .gitignore is honored when present. Results are sorted for stable output.
func CollectFiles(root string, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}

	gi := loadGitignore(root)

	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		name := d.Name()
		if d.IsDir() {
			if p == root {
				return nil
			}
			if skipDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if !matchesAny(include, rel) || matchesAny(exclude, rel) {
			return nil
		}

		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// loadGitignore parses the root .gitignore if one exists.
func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// matchesAny reports whether rel matches any of the glob patterns.
func matchesAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if matchGlob(p, rel) {
			return true
		}
	}
	return false
}

// matchGlob matches a rel path against a glob, extending path.Match with
// the "**" conventions: a leading "**/" matches any directory depth
// (including none) and a trailing "/**" matches a whole subtree.
func matchGlob(pattern, rel string) bool {
	if ok, err := path.Match(pattern, rel); err == nil && ok {
		return true
	}

	if rest, found := strings.CutPrefix(pattern, "**/"); found {
		if ok, _ := path.Match(rest, rel); ok {
			return true
		}
		segs := strings.Split(rel, "/")
		for i := 1; i < len(segs); i++ {
			if ok, _ := path.Match(rest, strings.Join(segs[i:], "/")); ok {
				return true
			}
		}
	}

	if prefix, found := strings.CutSuffix(pattern, "/**"); found {
		if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
			return true
		}
	}

	return false
}

// fileExists reports whether a regular file exists at the given path.
func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
