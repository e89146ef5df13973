// pkg/repo/repo_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero MemMapFs
// PURPOSE: Test repository discovery, lookup and plan preparation

package repo_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/homie/pkg/config"
	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/filesystem"
	"github.com/arthur-debert/homie/pkg/imports"
	"github.com/arthur-debert/homie/pkg/paths"
	"github.com/arthur-debert/homie/pkg/repo"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/arthur-debert/homie/pkg/vars"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, fsys types.FS, path, content string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, fsys.WriteFile(path, []byte(content), 0644))
}

func newRegistry(t *testing.T, fsys types.FS) *repo.Registry {
	t.Helper()
	p, err := paths.New("/repos")
	require.NoError(t, err)
	return repo.NewRegistry(fsys, p)
}

func TestDiscover(t *testing.T) {
	fsys := filesystem.NewMemory()
	write(t, fsys, "/repos/work/homie.toml", "target = \"/home/u\"\n")
	write(t, fsys, "/repos/dots/homie.toml", "target = \"/home/u\"\n[vars]\nemail = \"a@b.c\"\n")
	write(t, fsys, "/repos/broken/homie.toml", "[defaults]\nstrategy = \"file\"\n")
	write(t, fsys, "/repos/notes/README.md", "not a repo")
	write(t, fsys, "/repos/stray.toml", "")

	repos, warnings, err := newRegistry(t, fsys).Discover()
	require.NoError(t, err)

	require.Len(t, repos, 2)
	assert.Equal(t, "dots", repos[0].Name)
	assert.Equal(t, "work", repos[1].Name)
	assert.Equal(t, "/home/u", repos[0].Target)
	assert.Equal(t, "/repos/dots", repos[0].Path)

	require.Len(t, warnings, 1)
	assert.Equal(t, "/repos/broken", warnings[0].Path)
	assert.True(t, errors.IsConfigError(warnings[0].Err))
}

func TestDiscover_MissingRoot(t *testing.T) {
	repos, warnings, err := newRegistry(t, filesystem.NewMemory()).Discover()
	require.NoError(t, err)
	assert.Empty(t, repos)
	assert.Empty(t, warnings)
}

func TestFind(t *testing.T) {
	fsys := filesystem.NewMemory()
	write(t, fsys, "/repos/dots/homie.toml", "target = \"/home/u\"\n")
	write(t, fsys, "/repos/broken/homie.toml", "target = \"/home/u\"\n[strategies]\n\".vim\" = \"hardlink\"\n")
	reg := newRegistry(t, fsys)

	r, err := reg.Find("dots")
	require.NoError(t, err)
	assert.Equal(t, "dots", r.Name)

	_, err = reg.Find("nope")
	assert.True(t, errors.IsErrorCode(err, errors.ErrRepoNotFound))

	_, err = reg.Find("broken")
	require.Error(t, err)
	assert.True(t, errors.IsConfigError(err))

	_, err = reg.Find("../etc")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	assert.True(t, reg.Exists("dots"))
	assert.False(t, reg.Exists("nope"))
}

func TestSelect(t *testing.T) {
	fsys := filesystem.NewMemory()
	write(t, fsys, "/repos/a/homie.toml", "target = \"/home/u\"\n")
	write(t, fsys, "/repos/b/homie.toml", "target = \"/home/u\"\n")
	reg := newRegistry(t, fsys)

	all, _, err := reg.Select("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, _, err := reg.Select("b")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "b", one[0].Name)
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, repo.ValidateName("dots"))
	assert.NoError(t, repo.ValidateName("work-laptop"))
	for _, bad := range []string{"", " ", ".", "..", "a/b", ".hidden"} {
		assert.Error(t, repo.ValidateName(bad), bad)
	}
}

func TestPrepare(t *testing.T) {
	fsys := filesystem.NewMemory()
	write(t, fsys, "/repos/dots/homie.toml", `target = "/home/u"

[vars]
email = "me@example.com"

[strategies]
".config/nvim" = "directory"

[[imports]]
source = "/shared"
name = "shared"

[[imports]]
source = "https://github.com/someone/dotfiles.git"
`)
	write(t, fsys, "/repos/dots/.zshrc", "z")
	write(t, fsys, "/repos/dots/.gitconfig.tmpl", "{{email}}")
	write(t, fsys, "/repos/dots/.config/nvim/init.lua", "n")
	write(t, fsys, "/shared/.zshrc", "shared z")
	write(t, fsys, "/shared/.tmux.conf", "t")

	r, err := newRegistry(t, fsys).Find("dots")
	require.NoError(t, err)
	require.Len(t, r.Imports, 2)

	fetcher := imports.NewFetcher(nil, fsys)
	fetcher.SkipFetch = true
	global := config.DefaultGlobal()
	global.Vars["email"] = "global@example.com"
	planner := repo.NewPlanner(fsys, fetcher, global, vars.MapEnvironment{}, vars.Builtins{OS: "linux"})

	prep, err := planner.Prepare(context.Background(), r)
	require.NoError(t, err)

	require.Len(t, prep.FetchErrors, 1)
	assert.Equal(t, "dotfiles", prep.FetchErrors[0].Import)

	plan := prep.Plan
	assert.Equal(t, "dots", plan.RepoName)
	assert.Equal(t, "/home/u", plan.TargetRoot)
	assert.Equal(t, []string{"/repos/dots", "/shared"}, plan.OwnedRoots)

	var rels []string
	for _, u := range plan.Units {
		rels = append(rels, u.RelPath)
	}
	assert.Equal(t, []string{".config/nvim", ".gitconfig.tmpl", ".zshrc", ".tmux.conf"}, rels)
	assert.Equal(t, "/repos/dots/.zshrc", plan.Units[2].Source)
	assert.Equal(t, "shared", plan.Units[3].Layer)

	email, _ := plan.Vars.Get("email")
	assert.Equal(t, "me@example.com", email)

	require.Len(t, prep.Shadowed, 1)
	assert.Equal(t, ".zshrc", prep.Shadowed[0].Rel)
}
