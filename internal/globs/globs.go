// Package globs reports which project files the watched patterns of a
// DevServerConfig select. It reads the tree once; it does not watch it.
package globs

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/auctions-dev/bsconf/internal/config"
	"github.com/auctions-dev/bsconf/internal/errors"
)

// Match lists the files selected by one watched pattern.
type Match struct {
	// Pattern is the pattern as written in the config.
	Pattern string

	// Files are slash-separated paths relative to the root, sorted.
	Files []string
}

// Resolver evaluates patterns against a directory tree.
type Resolver struct {
	fsys fs.FS
}

// NewResolver creates a Resolver rooted at dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{fsys: os.DirFS(dir)}
}

// NewResolverFS creates a Resolver over fsys.
func NewResolverFS(fsys fs.FS) *Resolver {
	return &Resolver{fsys: fsys}
}

// Normalize converts a pattern to slash form relative to the project root,
// dropping any leading "./".
func Normalize(pattern string) string {
	p := filepath.ToSlash(strings.TrimSpace(pattern))
	for strings.HasPrefix(p, "./") {
		p = strings.TrimLeft(p[2:], "/")
	}
	return p
}

// Escapes reports whether a normalized pattern is absolute or leaves the
// project root.
func Escapes(pattern string) bool {
	p := Normalize(pattern)
	if strings.HasPrefix(p, "/") || filepath.IsAbs(pattern) {
		return true
	}
	return slices.Contains(strings.Split(p, "/"), "..")
}

// ValidPattern reports whether pattern is a well-formed glob.
func ValidPattern(pattern string) bool {
	return doublestar.ValidatePattern(Normalize(pattern))
}

// Validate checks every watched pattern and the ignore pattern.
func Validate(cfg *config.DevServerConfig) error {
	for _, pattern := range cfg.Files() {
		if !ValidPattern(pattern) {
			return invalidPattern(pattern, "files")
		}
	}
	if ignored := cfg.Ignored(); ignored != "" && !ValidPattern(ignored) {
		return invalidPattern(ignored, "watchOptions.ignored")
	}
	return nil
}

func invalidPattern(pattern, key string) *errors.CodedError {
	return errors.New("E300").
		WithDetailf("%q in %s is not a valid glob pattern", pattern, key).
		WithSuggestion("Check for unbalanced [ ] or { } in the pattern")
}

// Ignored reports whether rel is excluded by the ignore pattern.
// The pattern is tried against the relative path and its base name.
func Ignored(ignored, rel string) bool {
	if ignored == "" {
		return false
	}
	pattern := Normalize(ignored)
	rel = Normalize(rel)
	if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
		return true
	}
	ok, err := doublestar.Match(pattern, path.Base(rel))
	return err == nil && ok
}

// Matches returns, for each watched pattern in order, the files it selects
// that are not ignored.
func (r *Resolver) Matches(cfg *config.DevServerConfig) ([]Match, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	ignored := cfg.Ignored()
	patterns := cfg.Files()
	matches := make([]Match, 0, len(patterns))

	for _, pattern := range patterns {
		if Escapes(pattern) {
			return nil, errors.New("E300").
				WithDetailf("%q points outside the project root", pattern).
				WithSuggestion("Use a path relative to the project root")
		}

		found, err := doublestar.Glob(r.fsys, Normalize(pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.New("E300").WithDetailf("%q could not be expanded", pattern).Wrap(err)
		}

		files := make([]string, 0, len(found))
		for _, f := range found {
			if !Ignored(ignored, f) {
				files = append(files, f)
			}
		}
		sort.Strings(files)

		matches = append(matches, Match{Pattern: pattern, Files: files})
	}

	return matches, nil
}

// Triggers reports whether a change to rel would trigger a reload: it
// matches a watched pattern and is not ignored.
func Triggers(cfg *config.DevServerConfig, rel string) bool {
	rel = Normalize(rel)
	if Ignored(cfg.Ignored(), rel) {
		return false
	}
	for _, pattern := range cfg.Files() {
		if ok, err := doublestar.Match(Normalize(pattern), rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Count returns the number of distinct files across matches.
func Count(matches []Match) int {
	seen := make(map[string]struct{})
	for _, m := range matches {
		for _, f := range m.Files {
			seen[f] = struct{}{}
		}
	}
	return len(seen)
}
