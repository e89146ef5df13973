// pkg/reconcile/teardown_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: real filesystem (t.TempDir)
// PURPOSE: Test manifest-driven and inspection-driven teardown

package reconcile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/homie/pkg/reconcile"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func removals(res *reconcile.TeardownResult) map[string]reconcile.Removal {
	out := map[string]reconcile.Removal{}
	for _, r := range res.Removals {
		out[r.TargetRel] = r
	}
	return out
}

func TestTeardown_FromManifest(t *testing.T) {
	e := newEnv(t)
	e.src(".zshrc", "z")
	e.src(".ssh/config", "c")
	e.src(".npmrc.tmpl", "t={{os}}")
	e.src(".vimrc", "v")
	plan := e.plan(e.link(".zshrc"), e.copy(".ssh/config"), e.render(".npmrc.tmpl"), e.link(".vimrc"))

	_, err := e.engine().Reconcile(context.Background(), plan)
	require.NoError(t, err)

	// the user replaced a managed link with a real file
	require.NoError(t, os.Remove(e.at(".vimrc")))
	e.dst(".vimrc", "mine")

	res, err := e.engine().Teardown(context.Background(), plan, nil)
	require.NoError(t, err)
	assert.True(t, res.FromManifest)
	assert.False(t, res.Failed())

	rm := removals(res)
	assert.Equal(t, reconcile.Removed, rm[".zshrc"].Result)
	assert.Equal(t, reconcile.Removed, rm[".ssh/config"].Result)
	assert.Equal(t, reconcile.Removed, rm[".npmrc"].Result)
	assert.Equal(t, reconcile.Kept, rm[".vimrc"].Result)

	for _, rel := range []string{".zshrc", ".ssh/config", ".npmrc"} {
		_, err := os.Lstat(e.at(rel))
		assert.True(t, os.IsNotExist(err), rel)
	}
	data, err := os.ReadFile(e.at(".vimrc"))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
	assert.Equal(t, 0, e.loadManifest().Len())
}

func TestTeardown_WithoutManifest(t *testing.T) {
	e := newEnv(t)
	src := e.src(".zshrc", "z")
	e.src(".vimrc", "v")
	e.src(".ssh/config", "c")
	e.src(".ssh/known", "k")
	e.src("missing-ok", "m")

	require.NoError(t, os.Symlink(src, e.at(".zshrc")))
	e.dst(".vimrc", "mine")
	e.dst(".ssh/config", "c")
	e.dst(".ssh/known", "edited")

	plan := e.plan(e.link(".zshrc"), e.link(".vimrc"), e.copy(".ssh/config"), e.copy(".ssh/known"), e.link("missing-ok"))
	res, err := e.engine().Teardown(context.Background(), plan, nil)
	require.NoError(t, err)
	assert.False(t, res.FromManifest)

	rm := removals(res)
	assert.Equal(t, reconcile.Removed, rm[".zshrc"].Result)
	assert.Equal(t, reconcile.Kept, rm[".vimrc"].Result)
	assert.Equal(t, reconcile.Removed, rm[".ssh/config"].Result)
	assert.Equal(t, reconcile.Kept, rm[".ssh/known"].Result)
	assert.Equal(t, reconcile.NotPresent, rm["missing-ok"].Result)
}

func TestTeardown_DryRun(t *testing.T) {
	e := newEnv(t)
	e.src(".zshrc", "z")
	plan := e.plan(e.link(".zshrc"))

	_, err := e.engine().Reconcile(context.Background(), plan)
	require.NoError(t, err)

	res, err := e.engine(dryRun).Teardown(context.Background(), plan, nil)
	require.NoError(t, err)
	assert.Equal(t, reconcile.WouldRemove, res.Removals[0].Result)
	assert.True(t, isSymlink(t, e.at(".zshrc")))
	assert.Equal(t, 1, e.loadManifest().Len())
}

func TestTeardown_CopiedDirectory(t *testing.T) {
	e := newEnv(t)
	e.src("share/app/a", "a")
	e.src("share/app/b/c", "c")

	u := e.unit("share/app", types.ActionCopy, types.StrategyCopy)
	plan := e.plan(u)
	_, err := e.engine().Reconcile(context.Background(), plan)
	require.NoError(t, err)

	res, err := e.engine().Teardown(context.Background(), plan, nil)
	require.NoError(t, err)
	assert.Equal(t, reconcile.Removed, res.Removals[0].Result)
	_, err = os.Stat(filepath.Join(e.home, "share", "app"))
	assert.True(t, os.IsNotExist(err))
}
