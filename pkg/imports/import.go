// Package imports brings files from other trees into a repository.
//
// An import is either a local directory used in place or a git repository
// cloned into <repo>/.homie/imports/<name>. Each import may restrict what it
// contributes with an allow-list and rename path prefixes with remap rules.
// Merge overlays everything into one virtual tree where the repository's own
// files always win and, among imports, the first declared wins. Imports are
// single-level: an imported tree's own homie.toml is never read.
package imports

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/homie/pkg/config"
	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/glob"
	"github.com/arthur-debert/homie/pkg/paths"
)

// Kind tells local imports from git imports
type Kind string

const (
	KindLocal Kind = "local"
	KindGit   Kind = "git"
)

// Import is a resolved import declaration
type Import struct {
	Name   string
	Source string
	Ref    string
	Kind   Kind

	// Dir is the local tree root. For git imports it is the cache directory.
	Dir string

	Paths []string
	Remap []config.RemapRule
}

// Resolve turns a declaration into an Import rooted at a local directory
func Resolve(cfg config.ImportConfig, repoPath string) (*Import, error) {
	source := strings.TrimSpace(cfg.Source)
	if source == "" {
		return nil, errors.New(errors.ErrConfigValid, "import source is required")
	}

	imp := &Import{
		Name:   cfg.Name,
		Source: source,
		Ref:    cfg.Ref,
		Paths:  cfg.Paths,
		Remap:  cfg.Remap,
	}

	if IsGitURL(source) {
		imp.Kind = KindGit
		if imp.Name == "" {
			imp.Name = NameFromURL(source)
		}
		imp.Dir = paths.ImportCachePath(repoPath, imp.Name)
		return imp, nil
	}

	imp.Kind = KindLocal
	dir := paths.ExpandHome(source)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(repoPath, dir)
	}
	imp.Dir = filepath.Clean(dir)
	if imp.Name == "" {
		imp.Name = filepath.Base(imp.Dir)
	}
	return imp, nil
}

// ResolveAll resolves every declaration of a repository in order
func ResolveAll(cfgs []config.ImportConfig, repoPath string) ([]*Import, error) {
	out := make([]*Import, 0, len(cfgs))
	for _, c := range cfgs {
		imp, err := Resolve(c, repoPath)
		if err != nil {
			return nil, err
		}
		out = append(out, imp)
	}
	return out, nil
}

// IsGitURL recognizes the source forms treated as git remotes
func IsGitURL(source string) bool {
	switch {
	case strings.HasPrefix(source, "git@"),
		strings.HasPrefix(source, "https://github.com"),
		strings.HasPrefix(source, "https://gitlab.com"),
		strings.HasPrefix(source, "https://bitbucket.org"),
		strings.HasSuffix(source, ".git"):
		return true
	}
	return strings.Contains(source, "://") && strings.Contains(source, "git")
}

// NameFromURL derives an import name from the last URL segment
func NameFromURL(url string) string {
	url = strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")
	if i := strings.LastIndexAny(url, "/:"); i >= 0 {
		url = url[i+1:]
	}
	if url == "" {
		return "import"
	}
	return url
}

// Includes reports whether the allow-list admits an import-relative path.
// A path is admitted when it or one of its ancestors is listed, either
// literally or through a glob; "*" admits everything.
func (i *Import) Includes(rel string) bool {
	if len(i.Paths) == 0 {
		return true
	}
	for p := rel; p != "." && p != "" && p != "/"; p = path.Dir(p) {
		for _, pattern := range i.Paths {
			if pattern == "*" || pattern == p || glob.Match(pattern, p) {
				return true
			}
		}
	}
	return false
}

// MayContain reports whether a directory could hold admitted paths even if
// it is not admitted itself
func (i *Import) MayContain(dir string) bool {
	if i.Includes(dir) {
		return true
	}
	prefix := dir + "/"
	for _, pattern := range i.Paths {
		head := pattern
		if idx := strings.IndexAny(pattern, "*?[{"); idx >= 0 {
			head = pattern[:idx]
			// the glob can reach below dir
			if strings.HasPrefix(prefix, head) {
				return true
			}
		}
		if strings.HasPrefix(head, prefix) {
			return true
		}
	}
	return false
}

// RemapPath rewrites rel with the first rule whose from is a path prefix.
// An empty result means the import root.
func (i *Import) RemapPath(rel string) string {
	for _, r := range i.Remap {
		from := strings.Trim(r.From, "/")
		to := strings.Trim(r.To, "/")
		switch {
		case rel == from:
			return to
		case strings.HasPrefix(rel, from+"/"):
			rest := strings.TrimPrefix(rel, from+"/")
			if to == "" {
				return rest
			}
			return to + "/" + rest
		}
	}
	return rel
}
