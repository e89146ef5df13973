// pkg/commands/diff/diff_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem under t.TempDir
// PURPOSE: Test the diff command

package diff_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/homie/pkg/commands/diff"
	"github.com/arthur-debert/homie/pkg/commands/link"
	"github.com/arthur-debert/homie/pkg/reconcile"
	"github.com/arthur-debert/homie/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_ModifiedCopy(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.CreateRepo("dots", testutil.RepoSpec{
		Config: "[strategies]\n\".gitconfig\" = \"copy\"",
		Files:  testutil.FileTree{".gitconfig": "[user]\nname = me\n"},
	})

	_, err := link.Link(context.Background(), link.LinkOptions{})
	require.NoError(t, err)

	res, err := diff.Diff(context.Background(), diff.DiffOptions{})
	require.NoError(t, err)
	assert.True(t, res.Empty())

	env.WriteFile(env.Home(".gitconfig"), "[user]\nname = you\n")

	res, err = diff.Diff(context.Background(), diff.DiffOptions{})
	require.NoError(t, err)
	require.Len(t, res.Repos, 1)
	require.Len(t, res.Repos[0].Diffs, 1)

	d := res.Repos[0].Diffs[0]
	assert.Equal(t, reconcile.DiffModified, d.Kind)
	assert.Equal(t, ".gitconfig", d.Unit.TargetRel)
	assert.Contains(t, d.Unified, "-name = me")
	assert.Contains(t, d.Unified, "+name = you")
}

func TestDiff_RegularFileWhereLinkBelongs(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.CreateRepo("dots", testutil.RepoSpec{Files: testutil.FileTree{".zshrc": "# zsh\n"}})
	env.WriteFile(env.Home(".zshrc"), "# mine\n")

	res, err := diff.Diff(context.Background(), diff.DiffOptions{})
	require.NoError(t, err)
	require.Len(t, res.Repos[0].Diffs, 1)
	d := res.Repos[0].Diffs[0]
	assert.Equal(t, reconcile.DiffConflict, d.Kind)
	assert.Contains(t, d.Unified, "+# mine")
}

func TestDiff_LinkedSymlinksHaveNoDiff(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.CreateRepo("dots", testutil.RepoSpec{Files: testutil.FileTree{".zshrc": "# zsh"}})

	_, err := link.Link(context.Background(), link.LinkOptions{})
	require.NoError(t, err)

	res, err := diff.Diff(context.Background(), diff.DiffOptions{})
	require.NoError(t, err)
	assert.True(t, res.Empty())
}
