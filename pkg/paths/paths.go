package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/homie/pkg/errors"
)

// Environment variable names
const (
	// EnvReposDir overrides where managed repositories live
	EnvReposDir = "HOMIE_REPOS_DIR"

	// EnvConfigFile overrides the global config file location
	EnvConfigFile = "HOMIE_CONFIG"

	// EnvStateDir overrides the XDG state directory for homie
	EnvStateDir = "HOMIE_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Fixed names. These define the on-disk layout and are not configurable.
const (
	AppName = "homie"

	// RepoConfigFile is the per-repository configuration file
	RepoConfigFile = "homie.toml"

	// RepoStateDir is the per-repository directory for homie's own files
	RepoStateDir = ".homie"

	// ManifestFile lives inside RepoStateDir
	ManifestFile = "manifest.toml"

	// ImportsDir holds cached git imports inside RepoStateDir
	ImportsDir = "imports"

	// GlobalConfigFile is the file name under the config directory
	GlobalConfigFile = "config.toml"

	// LogFileName is the name of the log file under the state directory
	LogFileName = "homie.log"
)

// Paths resolves global, user-level locations
type Paths interface {
	ReposRoot() string
	RepoPath(name string) string
	ConfigFile() string
	StateDir() string
	LogFilePath() string
}

type paths struct {
	reposRoot  string
	configFile string
	stateDir   string
}

// New resolves global locations from the environment. A non-empty reposRoot
// wins over HOMIE_REPOS_DIR and the ~/.homie/repos default.
func New(reposRoot string) (Paths, error) {
	p := &paths{}

	switch {
	case reposRoot != "":
		p.reposRoot = ExpandHome(reposRoot)
	case os.Getenv(EnvReposDir) != "":
		p.reposRoot = ExpandHome(os.Getenv(EnvReposDir))
	default:
		home, err := HomeDir()
		if err != nil {
			return nil, err
		}
		p.reposRoot = filepath.Join(home, RepoStateDir, "repos")
	}

	abs, err := filepath.Abs(p.reposRoot)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for repos root")
	}
	p.reposRoot = abs

	if cfg := os.Getenv(EnvConfigFile); cfg != "" {
		p.configFile = ExpandHome(cfg)
	} else {
		p.configFile = filepath.Join(xdg.ConfigHome, AppName, GlobalConfigFile)
	}

	if state := os.Getenv(EnvStateDir); state != "" {
		p.stateDir = ExpandHome(state)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, AppName)
	}

	return p, nil
}

func (p *paths) ReposRoot() string {
	return p.reposRoot
}

// RepoPath returns where the named repository lives
func (p *paths) RepoPath(name string) string {
	return filepath.Join(p.reposRoot, name)
}

func (p *paths) ConfigFile() string {
	return p.configFile
}

func (p *paths) StateDir() string {
	return p.stateDir
}

func (p *paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}

// RepoConfigPath returns the homie.toml of a repository
func RepoConfigPath(repo string) string {
	return filepath.Join(repo, RepoConfigFile)
}

// StatePath returns the .homie directory of a repository
func StatePath(repo string) string {
	return filepath.Join(repo, RepoStateDir)
}

// ManifestPath returns the manifest file of a repository
func ManifestPath(repo string) string {
	return filepath.Join(repo, RepoStateDir, ManifestFile)
}

// ImportCachePath returns where a git import named name is cloned
func ImportCachePath(repo, name string) string {
	return filepath.Join(repo, RepoStateDir, ImportsDir, name)
}

// HomeDir returns the user's home directory, falling back to $HOME
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return home, nil
	}
	if home = os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	return "", errors.New(errors.ErrFileAccess, "cannot determine home directory")
}

// ExpandHome expands a leading ~ or ~/ to the home directory. Other forms,
// including ~user, are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) > 1 && path[1] != '/' && path[1] != filepath.Separator {
		return path
	}

	home, err := HomeDir()
	if err != nil {
		return path
	}
	if len(path) == 1 {
		return home
	}
	return filepath.Join(home, path[2:])
}

// Normalize expands ~, makes path absolute and cleans it
func Normalize(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "path cannot be empty")
	}
	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to resolve %s", path)
	}
	return abs, nil
}

// IsWithin reports whether path equals root or lies beneath it.
// The comparison is lexical on cleaned paths.
func IsWithin(path, root string) bool {
	if root == "" {
		return false
	}
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	if root == string(filepath.Separator) {
		return strings.HasPrefix(path, root)
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

// IsWithinAny reports whether path is within any of roots
func IsWithinAny(path string, roots []string) bool {
	for _, root := range roots {
		if IsWithin(path, root) {
			return true
		}
	}
	return false
}

// ResolveLink turns a readlink result into an absolute path. Relative link
// targets are interpreted against the directory holding the link.
func ResolveLink(linkPath, dest string) string {
	if filepath.IsAbs(dest) {
		return filepath.Clean(dest)
	}
	return filepath.Clean(filepath.Join(filepath.Dir(linkPath), dest))
}
