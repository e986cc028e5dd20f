package style

import (
	"errors"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	ignore "github.com/sabhiram/go-gitignore"

	"splitspecs/internal/common"
)

// skipDirs are never descended into while scanning for content.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
}

// ExpandBraces expands {a,b} alternatives: "*.{js,ts}" -> ["*.js", "*.ts"].
// Nested groups are expanded; unbalanced braces are kept literally.
func ExpandBraces(pattern string) []string {
	open := strings.IndexByte(pattern, '{')
	if open < 0 {
		return []string{pattern}
	}

	depth := 0
	parts := []string{}
	start := open + 1
	for i := open; i < len(pattern); i++ {
		switch pattern[i] {
		case '{':
			depth++
		case ',':
			if depth == 1 {
				parts = append(parts, pattern[start:i])
				start = i + 1
			}
		case '}':
			depth--
			if depth == 0 {
				parts = append(parts, pattern[start:i])
				prefix, suffix := pattern[:open], pattern[i+1:]
				var out []string
				for _, p := range parts {
					out = append(out, ExpandBraces(prefix+p+suffix)...)
				}
				return out
			}
		}
	}
	return []string{pattern}
}

// ContentMatcher matches relative paths against the expanded purge globs.
//
// Globs use shell syntax per path segment ("*", "?", "[a-z]") plus "**" for
// any number of directories. A glob matches whole paths only: a file below a
// matching name is not content.
type ContentMatcher struct {
	globs [][]string
}

// ContentMatcher compiles the purge globs.
func (c *Config) ContentMatcher() *ContentMatcher {
	m := &ContentMatcher{}
	for _, p := range c.Purge {
		for _, expanded := range ExpandBraces(p) {
			m.globs = append(m.globs, common.SplitPath(expanded))
		}
	}
	return m
}

// Match reports whether rel is selected by any glob.
func (m *ContentMatcher) Match(rel string) bool {
	parts := common.SplitPath(rel)
	if len(parts) == 0 {
		return false
	}
	for _, g := range m.globs {
		if matchSegments(g, parts) {
			return true
		}
	}
	return false
}

func matchSegments(glob, parts []string) bool {
	if len(glob) == 0 {
		return len(parts) == 0
	}
	if glob[0] == "**" {
		for i := 0; i <= len(parts); i++ {
			if matchSegments(glob[1:], parts[i:]) {
				return true
			}
		}
		return false
	}
	if len(parts) == 0 {
		return false
	}
	ok, err := path.Match(glob[0], parts[0])
	return err == nil && ok && matchSegments(glob[1:], parts[1:])
}

// IsContent reports whether the relative path is scanned. Paths under
// skipped directories never are.
func (c *Config) IsContent(rel string) bool {
	for _, part := range common.SplitPath(rel) {
		if skipDirs[part] {
			return false
		}
	}
	return c.ContentMatcher().Match(rel)
}

// ContentFiles lists files of fs matched by the purge globs, sorted.
// Paths are relative and slash-separated. Files excluded by a .gitignore
// in their directory or any parent are skipped.
func (c *Config) ContentFiles(fs billy.Filesystem) ([]string, error) {
	matcher := c.ContentMatcher()
	var files []string
	if err := walk(fs, "/", nil, func(rel string) {
		if matcher.Match(rel) {
			files = append(files, rel)
		}
	}); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// scopedIgnore is a .gitignore applying to paths below dir.
type scopedIgnore struct {
	dir    string
	ignore *ignore.GitIgnore
}

func ignored(scopes []scopedIgnore, rel string, isDir bool) bool {
	for _, s := range scopes {
		sub := rel
		if s.dir != "" {
			sub = strings.TrimPrefix(rel, s.dir+"/")
		}
		if s.ignore.MatchesPath(sub) {
			return true
		}
		// Patterns with a trailing slash only match directories.
		if isDir && s.ignore.MatchesPath(sub+"/") {
			return true
		}
	}
	return false
}

func loadIgnore(fs billy.Filesystem, dir string) (*ignore.GitIgnore, error) {
	f, err := fs.Open(path.Join(dir, ".gitignore"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return ignore.CompileIgnoreLines(strings.Split(string(data), "\n")...), nil
}

func walk(fs billy.Filesystem, dir string, scopes []scopedIgnore, visit func(rel string)) error {
	gi, err := loadIgnore(fs, dir)
	if err != nil {
		return err
	}
	if gi != nil {
		scopes = append(scopes[:len(scopes):len(scopes)], scopedIgnore{dir: common.RelPath(dir), ignore: gi})
	}

	entries, err := fs.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		full := path.Join(dir, e.Name())
		rel := common.RelPath(full)
		if ignored(scopes, rel, e.IsDir()) {
			continue
		}
		if e.IsDir() {
			if skipDirs[e.Name()] {
				continue
			}
			if err := walk(fs, full, scopes, visit); err != nil {
				return err
			}
			continue
		}
		visit(rel)
	}
	return nil
}
