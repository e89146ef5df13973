// pkg/commands/list/list_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem under t.TempDir
// PURPOSE: Test repository listing

package list_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/homie/pkg/commands/list"
	"github.com/arthur-debert/homie/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRepos(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.CreateRepo("work", testutil.RepoSpec{
		Config: "[vars]\nemail = \"me@work\"\nname = \"me\"",
		Files:  testutil.FileTree{".gitconfig": "[user]", ".zshrc": "# zsh"},
	})
	env.CreateRepo("dots", testutil.RepoSpec{Files: testutil.FileTree{".vimrc": "set nu"}})

	res, err := list.ListRepos(context.Background(), list.ListReposOptions{})
	require.NoError(t, err)

	assert.Equal(t, env.ReposRoot, res.ReposRoot)
	require.Len(t, res.Repos, 2)

	dots := res.Repos[0]
	assert.Equal(t, "dots", dots.Name)
	assert.Equal(t, env.HomeDir, dots.Target)
	assert.Equal(t, 1, dots.Units)
	assert.Empty(t, dots.Vars)

	work := res.Repos[1]
	assert.Equal(t, "work", work.Name)
	assert.Equal(t, 2, work.Units)
	assert.Equal(t, []string{"email", "name"}, work.Vars)
	assert.NoError(t, work.Err)
}

func TestListRepos_Empty(t *testing.T) {
	testutil.NewTestEnvironment(t)

	res, err := list.ListRepos(context.Background(), list.ListReposOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Repos)
	assert.Empty(t, res.Warnings)
}
