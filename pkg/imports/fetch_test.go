// pkg/imports/fetch_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: afero MemMapFs, fake git client
// PURPOSE: Test import availability, skip-fetch and failure recording

package imports

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/homie/pkg/filesystem"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGit struct {
	fs      types.FS
	clones  []string
	updates []string
	err     error
}

func (f *fakeGit) Clone(_ context.Context, url, dest, ref string, shallow bool) error {
	f.clones = append(f.clones, url)
	if f.err != nil {
		return f.err
	}
	return f.fs.MkdirAll(dest+"/.git", 0755)
}

func (f *fakeGit) Update(_ context.Context, dir, ref string) error {
	f.updates = append(f.updates, dir)
	return f.err
}

func TestEnsureAvailable_Git(t *testing.T) {
	fsys := filesystem.NewMemory()
	client := &fakeGit{fs: fsys}
	fetcher := NewFetcher(client, fsys)

	imp := &Import{Name: "shared", Source: "https://github.com/u/shared.git", Kind: KindGit, Dir: "/r/.homie/imports/shared"}

	require.NoError(t, fetcher.EnsureAvailable(context.Background(), imp))
	assert.Equal(t, []string{imp.Source}, client.clones)

	require.NoError(t, fetcher.EnsureAvailable(context.Background(), imp))
	assert.Equal(t, []string{imp.Dir}, client.updates)
}

func TestEnsureAvailable_SkipFetch(t *testing.T) {
	fsys := filesystem.NewMemory()
	client := &fakeGit{fs: fsys}
	fetcher := NewFetcher(client, fsys)
	fetcher.SkipFetch = true

	imp := &Import{Name: "shared", Source: "git@github.com:u/shared.git", Kind: KindGit, Dir: "/r/.homie/imports/shared"}

	err := fetcher.EnsureAvailable(context.Background(), imp)
	require.Error(t, err)
	var fe *ImportFetchError
	require.True(t, stderrors.As(err, &fe))
	assert.Equal(t, "shared", fe.Import)

	require.NoError(t, fsys.MkdirAll(imp.Dir+"/.git", 0755))
	require.NoError(t, fetcher.EnsureAvailable(context.Background(), imp))
	assert.Empty(t, client.clones)
	assert.Empty(t, client.updates)
}

func TestEnsureAvailable_DryRunNeverRunsGit(t *testing.T) {
	fsys := filesystem.NewMemory()
	client := &fakeGit{fs: fsys}
	fetcher := NewFetcher(client, fsys)
	fetcher.DryRun = true

	imp := &Import{Name: "shared", Source: "git@github.com:u/shared.git", Kind: KindGit, Dir: "/r/.homie/imports/shared"}
	assert.Error(t, fetcher.EnsureAvailable(context.Background(), imp))

	require.NoError(t, fsys.MkdirAll(imp.Dir+"/.git", 0755))
	assert.NoError(t, fetcher.EnsureAvailable(context.Background(), imp))
	assert.Empty(t, client.clones)
	assert.Empty(t, client.updates)
}

func TestEnsureAvailable_Local(t *testing.T) {
	fsys := filesystem.NewMemory()
	fetcher := NewFetcher(&fakeGit{fs: fsys}, fsys)

	imp := &Import{Name: "work", Source: "/work", Kind: KindLocal, Dir: "/work"}
	assert.Error(t, fetcher.EnsureAvailable(context.Background(), imp))

	require.NoError(t, fsys.WriteFile("/work", []byte("file"), 0644))
	assert.Error(t, fetcher.EnsureAvailable(context.Background(), imp), "a file is not a tree")

	require.NoError(t, fsys.Remove("/work"))
	require.NoError(t, fsys.MkdirAll("/work", 0755))
	assert.NoError(t, fetcher.EnsureAvailable(context.Background(), imp))
}

func TestFetchAll_SkipsFailures(t *testing.T) {
	fsys := filesystem.NewMemory()
	client := &fakeGit{fs: fsys, err: stderrors.New("network down")}
	fetcher := NewFetcher(client, fsys)
	require.NoError(t, fsys.MkdirAll("/local", 0755))

	imps := []*Import{
		{Name: "remote", Source: "https://github.com/u/remote", Kind: KindGit, Dir: "/r/.homie/imports/remote"},
		{Name: "local", Source: "/local", Kind: KindLocal, Dir: "/local"},
	}

	ready, failed := fetcher.FetchAll(context.Background(), imps)
	require.Len(t, ready, 1)
	assert.Equal(t, "local", ready[0].Name)
	require.Len(t, failed, 1)
	assert.Equal(t, "remote", failed[0].Import)
	assert.Contains(t, failed[0].Error(), "network down")
}

func TestFetchAll_Canceled(t *testing.T) {
	fsys := filesystem.NewMemory()
	fetcher := NewFetcher(&fakeGit{fs: fsys}, fsys)
	require.NoError(t, fsys.MkdirAll("/local", 0755))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ready, failed := fetcher.FetchAll(ctx, []*Import{{Name: "local", Kind: KindLocal, Dir: "/local"}})
	assert.Empty(t, ready)
	require.Len(t, failed, 1)
	assert.ErrorIs(t, failed[0], context.Canceled)
}
