// pkg/reconcile/helpers_test.go
// TEST TYPE: Test Helpers
// DEPENDENCIES: real filesystem (t.TempDir), fake clock
// PURPOSE: Build isolated repo/home pairs and plans for engine tests

package reconcile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/homie/pkg/clock"
	"github.com/arthur-debert/homie/pkg/filesystem"
	"github.com/arthur-debert/homie/pkg/manifest"
	"github.com/arthur-debert/homie/pkg/reconcile"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/arthur-debert/homie/pkg/vars"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

type env struct {
	t     *testing.T
	repo  string
	home  string
	fs    types.FS
	clk   *clock.Fake
	store manifest.Store
	vars  map[string]string
}

func newEnv(t *testing.T) *env {
	t.Helper()
	root := t.TempDir()
	e := &env{
		t:    t,
		repo: filepath.Join(root, "repos", "dots"),
		home: filepath.Join(root, "home"),
		fs:   filesystem.NewOS(),
		clk:  clock.NewFake(fixedNow),
		vars: map[string]string{},
	}
	e.store = manifest.NewStore(e.fs, e.clk)
	require.NoError(t, os.MkdirAll(e.repo, 0755))
	require.NoError(t, os.MkdirAll(e.home, 0755))
	return e
}

// src writes a file into the repository
func (e *env) src(rel, content string) string {
	e.t.Helper()
	return writeFile(e.t, filepath.Join(e.repo, rel), content)
}

// dst writes a file into the home directory
func (e *env) dst(rel, content string) string {
	e.t.Helper()
	return writeFile(e.t, filepath.Join(e.home, rel), content)
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func (e *env) unit(rel string, action types.ActionKind, strategy types.Strategy) types.Unit {
	e.t.Helper()
	source := filepath.Join(e.repo, rel)
	info, err := os.Stat(source)
	require.NoError(e.t, err)
	targetRel := types.TargetRelFor(rel, action)
	return types.Unit{
		RelPath:   rel,
		TargetRel: targetRel,
		Source:    source,
		Target:    filepath.Join(e.home, targetRel),
		Strategy:  strategy,
		Action:    action,
		IsDir:     info.IsDir(),
	}
}

func (e *env) link(rel string) types.Unit {
	return e.unit(rel, types.ActionSymlink, types.StrategyFile)
}

func (e *env) copy(rel string) types.Unit {
	return e.unit(rel, types.ActionCopy, types.StrategyCopy)
}

func (e *env) render(rel string) types.Unit {
	return e.unit(rel, types.ActionRender, types.StrategyFile)
}

func (e *env) plan(units ...types.Unit) *reconcile.Plan {
	return &reconcile.Plan{
		RepoName:   "dots",
		RepoPath:   e.repo,
		TargetRoot: e.home,
		OwnedRoots: []string{e.repo},
		Units:      units,
		Vars:       vars.Resolve(e.vars, nil, vars.MapEnvironment{}, vars.Builtins{OS: "linux"}),
	}
}

func (e *env) engine(mutate ...func(*reconcile.Options)) *reconcile.Engine {
	opts := reconcile.OptionsFrom(nil, false, false)
	for _, m := range mutate {
		m(&opts)
	}
	return reconcile.NewEngine(e.fs, e.store, e.clk, opts)
}

func force(o *reconcile.Options)  { o.Force = true }
func dryRun(o *reconcile.Options) { o.DryRun = true }

func (e *env) at(rel string) string {
	return filepath.Join(e.home, rel)
}

func (e *env) loadManifest() *manifest.Manifest {
	e.t.Helper()
	m, err := e.store.Load(e.repo)
	require.NoError(e.t, err)
	return m
}

func outcomes(res *reconcile.Result) map[string]types.Outcome {
	out := map[string]types.Outcome{}
	for _, u := range res.Units {
		out[u.Unit.TargetRel] = u.Outcome
	}
	return out
}

func readLink(t *testing.T, path string) string {
	t.Helper()
	dest, err := os.Readlink(path)
	require.NoError(t, err)
	return dest
}

func isSymlink(t *testing.T, path string) bool {
	t.Helper()
	info, err := os.Lstat(path)
	require.NoError(t, err)
	return info.Mode()&os.ModeSymlink != 0
}
