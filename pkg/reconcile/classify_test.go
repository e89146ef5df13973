// pkg/reconcile/classify_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: real filesystem (t.TempDir)
// PURPOSE: Test target state classification and stale ancestor detection

package reconcile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/homie/pkg/filesystem"
	"github.com/arthur-debert/homie/pkg/reconcile"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	imported := filepath.Join(root, "imported")
	shared := filepath.Join(root, "shared")
	other := filepath.Join(root, "other")
	home := filepath.Join(root, "home")

	src := writeFile(t, filepath.Join(repo, "f"), "f")
	writeFile(t, filepath.Join(repo, "g"), "g")
	writeFile(t, filepath.Join(imported, "i"), "i")
	writeFile(t, filepath.Join(shared, "s"), "s")
	writeFile(t, filepath.Join(other, "o"), "o")
	writeFile(t, filepath.Join(home, "regular"), "r")
	require.NoError(t, os.MkdirAll(filepath.Join(home, "dir"), 0755))

	links := map[string]string{
		"expected": src,
		"same":     filepath.Join(repo, "g"),
		"import":   filepath.Join(imported, "i"),
		"shared":   filepath.Join(shared, "s"),
		"other":    filepath.Join(other, "o"),
		"broken":   filepath.Join(repo, "nope"),
	}
	for name, dest := range links {
		require.NoError(t, os.Symlink(dest, filepath.Join(home, name)))
	}

	cls := &reconcile.Classifier{
		FS:          filesystem.NewOS(),
		OwnedRoots:  []string{repo, imported},
		Replaceable: []string{shared},
	}

	tests := []struct {
		name  string
		state types.TargetState
		isDir bool
	}{
		{"absent", types.StateAbsent, false},
		{"expected", types.StateSymlinkToExpected, false},
		{"same", types.StateSymlinkToSameRepoOther, false},
		{"import", types.StateSymlinkToSameRepoOther, false},
		{"shared", types.StateSymlinkToReplaceable, false},
		{"other", types.StateSymlinkToOtherExternal, false},
		{"broken", types.StateSymlinkBroken, false},
		{"regular", types.StateRegularFileOrDir, false},
		{"dir", types.StateRegularFileOrDir, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := cls.Classify(filepath.Join(home, tt.name), src)
			require.NoError(t, err)
			assert.Equal(t, tt.state, p.State)
			assert.Equal(t, tt.isDir, p.IsDir)
		})
	}
}

func TestStaleAncestor(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repo")
	home := filepath.Join(root, "home")
	writeFile(t, filepath.Join(repo, ".config", "fish", "config.fish"), "x")
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".config"), 0755))
	require.NoError(t, os.Symlink(filepath.Join(repo, ".config", "fish"), filepath.Join(home, ".config", "fish")))

	cls := &reconcile.Classifier{FS: filesystem.NewOS(), OwnedRoots: []string{repo}}

	dir, ok := cls.StaleAncestor(home, filepath.Join(home, ".config", "fish", "config.fish"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(home, ".config", "fish"), dir)

	_, ok = cls.StaleAncestor(home, filepath.Join(home, ".config", "fish"))
	assert.False(t, ok)

	_, ok = cls.StaleAncestor(home, filepath.Join(home, ".zshrc"))
	assert.False(t, ok)
}

func TestForeignAncestor(t *testing.T) {
	root := t.TempDir()
	repo := filepath.Join(root, "repos", "dots")
	other := filepath.Join(root, "repos", "other", ".config")
	home := filepath.Join(root, "home")
	require.NoError(t, os.MkdirAll(repo, 0755))
	require.NoError(t, os.MkdirAll(other, 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, "real"), 0755))
	require.NoError(t, os.Symlink(other, filepath.Join(home, ".config")))
	require.NoError(t, os.Symlink(filepath.Join(home, "real"), filepath.Join(home, ".local")))

	cls := &reconcile.Classifier{FS: filesystem.NewOS(), OwnedRoots: []string{repo}}

	dir, dest, ok := cls.ForeignAncestor(home, filepath.Join(home, ".config", "foo"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(home, ".config"), dir)
	assert.Equal(t, other, dest)

	_, ok = cls.StaleAncestor(home, filepath.Join(home, ".config", "foo"))
	assert.False(t, ok)

	// links that stay inside the target root are followed
	_, _, ok = cls.ForeignAncestor(home, filepath.Join(home, ".local", "bin", "tool"))
	assert.False(t, ok)

	// the target itself is never its own ancestor
	_, _, ok = cls.ForeignAncestor(home, filepath.Join(home, ".config"))
	assert.False(t, ok)

	// links into an owned root are stale, not foreign
	owned := &reconcile.Classifier{FS: filesystem.NewOS(), OwnedRoots: []string{repo, filepath.Dir(other)}}
	_, _, ok = owned.ForeignAncestor(home, filepath.Join(home, ".config", "foo"))
	assert.False(t, ok)
}
