// pkg/commands/unlink/unlink_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem under t.TempDir
// PURPOSE: Test the unlink command

package unlink_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/homie/pkg/commands/link"
	"github.com/arthur-debert/homie/pkg/commands/unlink"
	"github.com/arthur-debert/homie/pkg/reconcile"
	"github.com/arthur-debert/homie/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlink_RemovesWhatLinkPlaced(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.CreateRepo("dots", testutil.RepoSpec{Files: testutil.FileTree{".zshrc": "# zsh", ".vimrc": "set nu"}})

	_, err := link.Link(context.Background(), link.LinkOptions{})
	require.NoError(t, err)

	res, err := unlink.Unlink(context.Background(), unlink.UnlinkOptions{})
	require.NoError(t, err)
	require.Len(t, res.Repos, 1)
	assert.False(t, res.Failed())

	td := res.Repos[0].Result
	require.NotNil(t, td)
	assert.True(t, td.FromManifest)
	require.Len(t, td.Removals, 2)
	for _, rm := range td.Removals {
		assert.Equal(t, reconcile.Removed, rm.Result, rm.TargetRel)
	}
	testutil.AssertNotExists(t, env.Home(".zshrc"))
	testutil.AssertNotExists(t, env.Home(".vimrc"))
}

func TestUnlink_DryRunKeepsLinks(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	dots := env.CreateRepo("dots", testutil.RepoSpec{Files: testutil.FileTree{".zshrc": "# zsh"}})

	_, err := link.Link(context.Background(), link.LinkOptions{})
	require.NoError(t, err)

	opts := unlink.UnlinkOptions{}
	opts.DryRun = true
	res, err := unlink.Unlink(context.Background(), opts)
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	require.Len(t, res.Repos[0].Result.Removals, 1)
	assert.Equal(t, reconcile.WouldRemove, res.Repos[0].Result.Removals[0].Result)
	testutil.AssertSymlink(t, env.Home(".zshrc"), filepath.Join(dots, ".zshrc"))
}

func TestUnlink_LeavesForeignFiles(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.CreateRepo("dots", testutil.RepoSpec{Files: testutil.FileTree{".zshrc": "# zsh"}})
	env.WriteFile(env.Home(".zshrc"), "mine")

	res, err := unlink.Unlink(context.Background(), unlink.UnlinkOptions{})
	require.NoError(t, err)

	td := res.Repos[0].Result
	assert.False(t, td.FromManifest)
	for _, rm := range td.Removals {
		assert.NotEqual(t, reconcile.Removed, rm.Result)
	}
	testutil.AssertRegularFile(t, env.Home(".zshrc"), "mine")
}

func TestUnlink_SingleRepo(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	work := env.CreateRepo("work", testutil.RepoSpec{Files: testutil.FileTree{".gitconfig": "[user]"}})
	env.CreateRepo("dots", testutil.RepoSpec{Files: testutil.FileTree{".zshrc": "# zsh"}})

	_, err := link.Link(context.Background(), link.LinkOptions{})
	require.NoError(t, err)

	res, err := unlink.Unlink(context.Background(), unlink.UnlinkOptions{Repo: "dots"})
	require.NoError(t, err)
	require.Len(t, res.Repos, 1)
	testutil.AssertNotExists(t, env.Home(".zshrc"))
	testutil.AssertSymlink(t, env.Home(".gitconfig"), filepath.Join(work, ".gitconfig"))
}
