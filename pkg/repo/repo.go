// Package repo discovers repositories under the repos root and turns each
// one into a reconciliation plan.
package repo

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/homie/pkg/config"
	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/imports"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/paths"
	"github.com/arthur-debert/homie/pkg/types"
)

// Repo is one dotfiles repository
type Repo struct {
	// Name is the directory name under the repos root
	Name    string
	Path    string
	Target  string
	Config  *config.RepoConfig
	Imports []*imports.Import
}

// Load reads the repository at path
func Load(fsys types.FS, path string) (*Repo, error) {
	cfg, err := config.LoadRepo(fsys, path)
	if err != nil {
		return nil, err
	}
	imps, err := imports.ResolveAll(cfg.Imports, path)
	if err != nil {
		return nil, err
	}
	return &Repo{
		Name:    filepath.Base(path),
		Path:    path,
		Target:  cfg.Target,
		Config:  cfg,
		Imports: imps,
	}, nil
}

// LoadWarning describes a repository discovery skipped
type LoadWarning struct {
	Path string
	Err  error
}

// Registry finds repositories under a repos root
type Registry struct {
	fs    types.FS
	paths paths.Paths
}

// NewRegistry creates a registry over p.ReposRoot()
func NewRegistry(fsys types.FS, p paths.Paths) *Registry {
	return &Registry{fs: fsys, paths: p}
}

// Root returns the repos root
func (r *Registry) Root() string {
	return r.paths.ReposRoot()
}

// Discover loads every immediate subdirectory of the repos root holding a
// homie.toml, sorted by name. Repositories that fail to load are returned
// as warnings and left out.
func (r *Registry) Discover() ([]*Repo, []LoadWarning, error) {
	logger := logging.GetLogger("repo")
	root := r.paths.ReposRoot()

	entries, err := r.fs.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("root", root).Msg("Repos root does not exist")
			return nil, nil, nil
		}
		return nil, nil, errors.Wrapf(err, errors.ErrRepoAccess, "cannot read repos root %s", root)
	}

	var repos []*Repo
	var warnings []LoadWarning
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if !r.isRepoDir(path) {
			continue
		}
		repo, err := Load(r.fs, path)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Skipping repository that failed to load")
			warnings = append(warnings, LoadWarning{Path: path, Err: err})
			continue
		}
		repos = append(repos, repo)
	}

	sort.Slice(repos, func(i, j int) bool { return repos[i].Name < repos[j].Name })
	logger.Debug().Int("count", len(repos)).Msg("Discovered repositories")
	return repos, warnings, nil
}

// Find loads the repository called name. Unlike Discover it fails when the
// repository's configuration is invalid.
func (r *Registry) Find(name string) (*Repo, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	path := r.paths.RepoPath(name)
	if !r.isRepoDir(path) {
		return nil, errors.Newf(errors.ErrRepoNotFound, "unknown repo: %s", name).
			WithDetail("name", name)
	}
	return Load(r.fs, path)
}

// Select returns the named repository, or every repository when name is
// empty
func (r *Registry) Select(name string) ([]*Repo, []LoadWarning, error) {
	if name == "" {
		return r.Discover()
	}
	repo, err := r.Find(name)
	if err != nil {
		return nil, nil, err
	}
	return []*Repo{repo}, nil, nil
}

// Exists reports whether anything occupies the repository path for name
func (r *Registry) Exists(name string) bool {
	_, err := r.fs.Lstat(r.paths.RepoPath(name))
	return err == nil
}

func (r *Registry) isRepoDir(path string) bool {
	info, err := r.fs.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	_, err = r.fs.Stat(paths.RepoConfigPath(path))
	return err == nil
}

// ValidateName rejects names that are not a single path component
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.New(errors.ErrInvalidInput, "repo name cannot be empty")
	case name == "." || name == "..", strings.ContainsAny(name, `/\`):
		return errors.Newf(errors.ErrInvalidInput, "invalid repo name %q", name)
	case strings.HasPrefix(name, "."):
		return errors.Newf(errors.ErrInvalidInput, "repo name %q cannot start with a dot", name)
	}
	return nil
}
