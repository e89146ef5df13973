// pkg/testutil/environment_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test TestEnvironment isolation and fixtures

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/homie/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestEnvironment(t *testing.T) {
	env := NewTestEnvironment(t)

	assert.Equal(t, env.HomeDir, os.Getenv("HOME"))
	assert.Equal(t, env.ReposRoot, os.Getenv(paths.EnvReposDir))
	assert.Equal(t, env.ConfigFile, os.Getenv(paths.EnvConfigFile))
	assert.DirExists(t, env.HomeDir)
	assert.DirExists(t, env.ReposRoot)

	p, err := paths.New("")
	require.NoError(t, err)
	assert.Equal(t, env.ReposRoot, p.ReposRoot())
	assert.Equal(t, env.ConfigFile, p.ConfigFile())
}

func TestCreateRepo(t *testing.T) {
	env := NewTestEnvironment(t)

	repoPath := env.CreateRepo("dotfiles", RepoSpec{
		Config: "[defaults]\nstrategy = \"copy\"",
		Files: FileTree{
			".zshrc": "# zsh",
			".config": FileTree{
				"git": FileTree{"config": "[user]"},
			},
		},
	})

	assert.Equal(t, env.RepoPath("dotfiles"), repoPath)
	cfg := env.ReadFile(filepath.Join(repoPath, paths.RepoConfigFile))
	assert.Contains(t, cfg, `target = "`+env.HomeDir+`"`)
	assert.Contains(t, cfg, "strategy = \"copy\"")

	AssertRegularFile(t, filepath.Join(repoPath, ".zshrc"), "# zsh")
	AssertRegularFile(t, filepath.Join(repoPath, ".config", "git", "config"), "[user]")
}

func TestLinkAssertions(t *testing.T) {
	env := NewTestEnvironment(t)
	src := env.WriteFile(filepath.Join(env.Root, "src"), "x")

	env.Symlink(src, env.Home(".x"))
	AssertSymlink(t, env.Home(".x"), src)
	AssertNotExists(t, env.Home(".y"))
}
