// pkg/imports/import_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test import resolution, git URL detection, allow-lists and remapping

package imports

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/homie/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsGitURL(t *testing.T) {
	assert.True(t, IsGitURL("git@github.com:user/repo.git"))
	assert.True(t, IsGitURL("https://github.com/user/repo.git"))
	assert.True(t, IsGitURL("https://github.com/user/repo"))
	assert.True(t, IsGitURL("https://gitlab.com/user/repo"))
	assert.True(t, IsGitURL("https://bitbucket.org/user/repo"))
	assert.True(t, IsGitURL("ssh://git.example.com/repo"))
	assert.True(t, IsGitURL("/srv/mirrors/dots.git"))
	assert.False(t, IsGitURL("~/dotfiles"))
	assert.False(t, IsGitURL("/home/user/dotfiles"))
	assert.False(t, IsGitURL("https://example.com/archive"))
}

func TestNameFromURL(t *testing.T) {
	assert.Equal(t, "dotfiles", NameFromURL("git@github.com:user/dotfiles.git"))
	assert.Equal(t, "my-configs", NameFromURL("https://github.com/user/my-configs.git"))
	assert.Equal(t, "repo", NameFromURL("https://github.com/user/repo/"))
	assert.Equal(t, "dots", NameFromURL("git@host:dots.git"))
	assert.Equal(t, "import", NameFromURL(".git"))
}

func TestResolve(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	imp, err := Resolve(config.ImportConfig{Source: "https://github.com/u/shared.git", Ref: "main"}, "/repos/dots")
	require.NoError(t, err)
	assert.Equal(t, KindGit, imp.Kind)
	assert.Equal(t, "shared", imp.Name)
	assert.Equal(t, "/repos/dots/.homie/imports/shared", imp.Dir)
	assert.Equal(t, "main", imp.Ref)

	imp, err = Resolve(config.ImportConfig{Source: "~/work/dots"}, "/repos/dots")
	require.NoError(t, err)
	assert.Equal(t, KindLocal, imp.Kind)
	assert.Equal(t, "dots", imp.Name)
	assert.Equal(t, filepath.Join(home, "work", "dots"), imp.Dir)

	imp, err = Resolve(config.ImportConfig{Source: "../common", Name: "common-stuff"}, "/repos/dots")
	require.NoError(t, err)
	assert.Equal(t, "/repos/common", imp.Dir)
	assert.Equal(t, "common-stuff", imp.Name)

	_, err = Resolve(config.ImportConfig{Source: "  "}, "/repos/dots")
	assert.Error(t, err)

	all, err := ResolveAll([]config.ImportConfig{{Source: "/a"}, {Source: "/b"}}, "/r")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Name)
}

func TestIncludes(t *testing.T) {
	all := &Import{}
	assert.True(t, all.Includes(".zshrc"))

	star := &Import{Paths: []string{"*"}}
	assert.True(t, star.Includes(".config/nvim/init.lua"))

	exact := &Import{Paths: []string{".zshrc", ".config/nvim"}}
	assert.True(t, exact.Includes(".zshrc"))
	assert.True(t, exact.Includes(".config/nvim"))
	assert.True(t, exact.Includes(".config/nvim/init.lua"))
	assert.False(t, exact.Includes(".bashrc"))
	assert.False(t, exact.Includes(".config/git/config"))
	assert.False(t, exact.Includes(".config"))

	globbed := &Import{Paths: []string{".config/*"}}
	assert.True(t, globbed.Includes(".config/nvim"))
	assert.True(t, globbed.Includes(".config/git/config"))
	assert.False(t, globbed.Includes(".zshrc"))
}

func TestMayContain(t *testing.T) {
	imp := &Import{Paths: []string{".config/nvim", "bin/*.sh"}}
	assert.True(t, imp.MayContain(".config"))
	assert.True(t, imp.MayContain("bin"))
	assert.False(t, imp.MayContain("docs"))

	deep := &Import{Paths: []string{"**/*.lua"}}
	assert.True(t, deep.MayContain("anything"))
}

func TestRemapPath(t *testing.T) {
	imp := &Import{Remap: []config.RemapRule{
		{From: "commands", To: ".vscode/commands"},
		{From: "commands/special", To: "never"},
		{From: "flat", To: ""},
	}}

	assert.Equal(t, ".vscode/commands", imp.RemapPath("commands"))
	assert.Equal(t, ".vscode/commands/test.md", imp.RemapPath("commands/test.md"))
	assert.Equal(t, ".vscode/commands/special/x", imp.RemapPath("commands/special/x"), "first matching rule wins")
	assert.Equal(t, "commandsx", imp.RemapPath("commandsx"))
	assert.Equal(t, "file", imp.RemapPath("flat/file"))
	assert.Equal(t, "", imp.RemapPath("flat"))
	assert.Equal(t, "other", imp.RemapPath("other"))
}
