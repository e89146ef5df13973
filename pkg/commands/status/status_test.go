// pkg/commands/status/status_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem under t.TempDir
// PURPOSE: Test the status command

package status_test

import (
	"context"
	"os"
	"testing"

	"github.com/arthur-debert/homie/pkg/commands/link"
	"github.com/arthur-debert/homie/pkg/commands/status"
	"github.com/arthur-debert/homie/pkg/reconcile"
	"github.com/arthur-debert/homie/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusByRel(t *testing.T, rs status.RepoStatus) map[string]reconcile.UnitStatus {
	t.Helper()
	require.NoError(t, rs.Err)
	require.NotNil(t, rs.Report)
	got := map[string]reconcile.UnitStatus{}
	for _, e := range rs.Report.Entries {
		got[e.Unit.TargetRel] = e.Status
	}
	return got
}

func TestStatus_BeforeAndAfterLink(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.CreateRepo("dots", testutil.RepoSpec{Files: testutil.FileTree{".zshrc": "# zsh", ".vimrc": "set nu"}})

	res, err := status.Status(context.Background(), status.StatusOptions{})
	require.NoError(t, err)
	require.Len(t, res.Repos, 1)
	assert.False(t, res.InSync())
	got := statusByRel(t, res.Repos[0])
	assert.Equal(t, reconcile.StatusMissing, got[".zshrc"])
	assert.Equal(t, reconcile.StatusMissing, got[".vimrc"])

	_, err = link.Link(context.Background(), link.LinkOptions{})
	require.NoError(t, err)

	res, err = status.Status(context.Background(), status.StatusOptions{})
	require.NoError(t, err)
	assert.True(t, res.InSync())
	got = statusByRel(t, res.Repos[0])
	assert.Equal(t, reconcile.StatusLinked, got[".zshrc"])
}

func TestStatus_ConflictAndExternal(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.CreateRepo("dots", testutil.RepoSpec{Files: testutil.FileTree{".zshrc": "# zsh", ".vimrc": "set nu"}})
	env.WriteFile(env.Home(".zshrc"), "mine")
	elsewhere := env.WriteFile(env.Root+"/elsewhere/vimrc", "other")
	env.Symlink(elsewhere, env.Home(".vimrc"))

	res, err := status.Status(context.Background(), status.StatusOptions{})
	require.NoError(t, err)
	got := statusByRel(t, res.Repos[0])
	assert.Equal(t, reconcile.StatusConflict, got[".zshrc"])
	assert.Equal(t, reconcile.StatusExternal, got[".vimrc"])
}

func TestStatus_WritesNothing(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	dots := env.CreateRepo("dots", testutil.RepoSpec{Files: testutil.FileTree{".zshrc": "# zsh"}})

	_, err := status.Status(context.Background(), status.StatusOptions{})
	require.NoError(t, err)

	testutil.AssertNotExists(t, env.Home(".zshrc"))
	_, err = os.Lstat(dots + "/.homie")
	assert.True(t, os.IsNotExist(err))
}
