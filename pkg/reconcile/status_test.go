// pkg/reconcile/status_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: real filesystem (t.TempDir)
// PURPOSE: Test read-only status classification and content diffs

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

func statuses(rep *reconcile.StatusReport) map[string]reconcile.StatusEntry {
	out := map[string]reconcile.StatusEntry{}
	for _, s := range rep.Entries {
		out[s.Unit.TargetRel] = s
	}
	return out
}

func TestStatus(t *testing.T) {
	e := newEnv(t)
	e.src("linked", "l")
	e.src("copied", "c")
	e.src("edited", "e")
	e.src("rendered.tmpl", "r={{os}}")
	e.src("external", "x")
	e.src("missing", "m")
	e.src("conflict", "c")

	plan := e.plan(e.link("linked"), e.copy("copied"), e.copy("edited"), e.render("rendered.tmpl"))
	_, err := e.engine().Reconcile(context.Background(), plan)
	require.NoError(t, err)

	e.dst("edited", "changed")
	ext := writeFile(t, filepath.Join(filepath.Dir(e.home), "elsewhere"), "x")
	require.NoError(t, os.Symlink(ext, e.at("external")))
	e.dst("conflict", "mine")

	plan = e.plan(e.link("linked"), e.copy("copied"), e.copy("edited"), e.render("rendered.tmpl"),
		e.link("external"), e.link("missing"), e.link("conflict"))
	rep, err := e.engine().Status(context.Background(), plan)
	require.NoError(t, err)

	st := statuses(rep)
	assert.Equal(t, reconcile.StatusLinked, st["linked"].Status)
	assert.Equal(t, reconcile.StatusCopied, st["copied"].Status)
	assert.Equal(t, reconcile.StatusStale, st["edited"].Status)
	assert.Equal(t, reconcile.StatusRendered, st["rendered"].Status)
	assert.Equal(t, reconcile.StatusExternal, st["external"].Status)
	assert.Equal(t, ext, st["external"].Detail)
	assert.Equal(t, reconcile.StatusMissing, st["missing"].Status)
	assert.Equal(t, reconcile.StatusConflict, st["conflict"].Status)

	counts := rep.Counts()
	assert.Equal(t, 1, counts[reconcile.StatusLinked])
	assert.Equal(t, 1, counts[reconcile.StatusStale])
	assert.True(t, reconcile.StatusCopied.InSync())
	assert.False(t, reconcile.StatusMissing.InSync())

	// status never writes
	_, err = os.Lstat(e.at("missing"))
	assert.True(t, os.IsNotExist(err))
}

func TestStatus_StaleWhenStrategyChanged(t *testing.T) {
	e := newEnv(t)
	e.src(".vimrc", "v")
	_, err := e.engine().Reconcile(context.Background(), e.plan(e.link(".vimrc")))
	require.NoError(t, err)

	rep, err := e.engine().Status(context.Background(), e.plan(e.copy(".vimrc")))
	require.NoError(t, err)
	assert.Equal(t, reconcile.StatusStale, rep.Entries[0].Status)
	assert.Equal(t, types.StateSymlinkToExpected, rep.Entries[0].State)
}

func TestDiff(t *testing.T) {
	e := newEnv(t)
	e.src(".ssh/config", "Host a\nUser me\n")
	e.src(".npmrc.tmpl", "registry={{os}}\n")
	e.src(".zshrc", "repo zshrc\n")
	e.src(".same", "same\n")

	plan := e.plan(e.copy(".ssh/config"), e.render(".npmrc.tmpl"), e.copy(".same"))
	_, err := e.engine().Reconcile(context.Background(), plan)
	require.NoError(t, err)

	e.dst(".ssh/config", "Host a\nUser you\n")
	e.dst(".zshrc", "local zshrc\n")

	plan = e.plan(e.copy(".ssh/config"), e.render(".npmrc.tmpl"), e.copy(".same"), e.link(".zshrc"))
	diffs, err := e.engine().Diff(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, diffs, 2)

	assert.Equal(t, ".ssh/config", diffs[0].Unit.TargetRel)
	assert.Equal(t, reconcile.DiffModified, diffs[0].Kind)
	assert.Contains(t, diffs[0].Unified, "-User me")
	assert.Contains(t, diffs[0].Unified, "+User you")

	assert.Equal(t, ".zshrc", diffs[1].Unit.TargetRel)
	assert.Equal(t, reconcile.DiffConflict, diffs[1].Kind)
	assert.Contains(t, diffs[1].Unified, "+local zshrc")
}

func TestUnified(t *testing.T) {
	text, err := reconcile.Unified([]byte("a\nb\n"), []byte("a\nc\n"), "repo/x", "/home/u/x")
	require.NoError(t, err)
	assert.Contains(t, text, "--- repo/x")
	assert.Contains(t, text, "+++ /home/u/x")
	assert.Contains(t, text, "-b")
	assert.Contains(t, text, "+c")
}
