// pkg/testutil/environment.go
// DEPENDENCIES: None (base test utilities)
// PURPOSE: Orchestrate isolated homie environments for tests

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/arthur-debert/homie/pkg/filesystem"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/paths"
	"github.com/arthur-debert/homie/pkg/types"
)

// TestEnvironment is a throwaway home with a repos root, global config path
// and state directory, all under one temp directory
type TestEnvironment struct {
	Root       string
	HomeDir    string
	ReposRoot  string
	ConfigFile string
	StateDir   string

	FS types.FS

	t *testing.T
}

// NewTestEnvironment creates the directories and points HOME and the
// HOMIE_* variables at them for the duration of the test
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	root := t.TempDir()
	// macOS hands out /var paths that are symlinks to /private/var
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	env := &TestEnvironment{
		Root:       root,
		HomeDir:    filepath.Join(root, "home"),
		ReposRoot:  filepath.Join(root, "home", paths.RepoStateDir, "repos"),
		ConfigFile: filepath.Join(root, "config", paths.AppName, paths.GlobalConfigFile),
		StateDir:   filepath.Join(root, "state"),
		FS:         filesystem.NewOS(),
		t:          t,
	}

	for _, dir := range []string{env.HomeDir, env.ReposRoot, env.StateDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	t.Setenv(paths.EnvHome, env.HomeDir)
	t.Setenv(paths.EnvReposDir, env.ReposRoot)
	t.Setenv(paths.EnvConfigFile, env.ConfigFile)
	t.Setenv(paths.EnvStateDir, env.StateDir)
	t.Setenv(logging.EnvLogFile, filepath.Join(env.StateDir, paths.LogFileName))
	t.Setenv("NO_COLOR", "1")

	return env
}

// RepoSpec describes a repository to create
type RepoSpec struct {
	// Target defaults to the environment's home
	Target string

	// Config is appended to homie.toml after the target line
	Config string

	Files FileTree
}

// CreateRepo writes a repository under the repos root and returns its path
func (env *TestEnvironment) CreateRepo(name string, spec RepoSpec) string {
	env.t.Helper()

	repoPath := filepath.Join(env.ReposRoot, name)
	target := spec.Target
	if target == "" {
		target = env.HomeDir
	}

	var cfg strings.Builder
	fmt.Fprintf(&cfg, "target = %q\n", target)
	if spec.Config != "" {
		cfg.WriteString("\n")
		cfg.WriteString(spec.Config)
		cfg.WriteString("\n")
	}
	env.WriteFile(filepath.Join(repoPath, paths.RepoConfigFile), cfg.String())

	if spec.Files != nil {
		CreateFileTree(env.t, env.FS, repoPath, spec.Files)
	}
	return repoPath
}

// RepoPath returns where repository name lives
func (env *TestEnvironment) RepoPath(name string) string {
	return filepath.Join(env.ReposRoot, name)
}

// Home joins rel onto the home directory
func (env *TestEnvironment) Home(rel string) string {
	return filepath.Join(env.HomeDir, rel)
}

// WriteFile writes content to path, creating parent directories
func (env *TestEnvironment) WriteFile(path, content string) string {
	env.t.Helper()
	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := env.FS.WriteFile(path, []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// WriteGlobalConfig writes the global config.toml
func (env *TestEnvironment) WriteGlobalConfig(content string) {
	env.t.Helper()
	env.WriteFile(env.ConfigFile, content)
}

// Symlink creates a link at path pointing to dest
func (env *TestEnvironment) Symlink(dest, path string) {
	env.t.Helper()
	if err := env.FS.MkdirAll(filepath.Dir(path), 0755); err != nil {
		env.t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := env.FS.Symlink(dest, path); err != nil {
		env.t.Fatalf("Failed to link %s: %v", path, err)
	}
}

// ReadFile returns the content at path
func (env *TestEnvironment) ReadFile(path string) string {
	env.t.Helper()
	data, err := env.FS.ReadFile(path)
	if err != nil {
		env.t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// FileTree represents a directory structure. Values are either file
// content strings or nested FileTrees.
type FileTree map[string]interface{}

// CreateFileTree writes tree under base
func CreateFileTree(t *testing.T, fs types.FS, base string, tree FileTree) {
	t.Helper()

	names := make([]string, 0, len(tree))
	for name := range tree {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fullPath := filepath.Join(base, name)
		switch v := tree[name].(type) {
		case string:
			if err := fs.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
				t.Fatalf("Failed to create directory for %s: %v", fullPath, err)
			}
			if err := fs.WriteFile(fullPath, []byte(v), 0644); err != nil {
				t.Fatalf("Failed to write file %s: %v", fullPath, err)
			}
		case FileTree:
			if err := fs.MkdirAll(fullPath, 0755); err != nil {
				t.Fatalf("Failed to create directory %s: %v", fullPath, err)
			}
			CreateFileTree(t, fs, fullPath, v)
		default:
			t.Fatalf("Invalid file tree content type for %s: %T", name, v)
		}
	}
}
