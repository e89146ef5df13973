package reconcile

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/homie/pkg/paths"
	"github.com/arthur-debert/homie/pkg/types"
)

// Probe is the classified state of one target path
type Probe struct {
	State types.TargetState

	// LinkDest is the resolved destination of a target symlink
	LinkDest string

	// IsDir is set when a non-symlink target is a directory
	IsDir bool

	// Ancestor is set when a parent of the target is a symlink leading
	// outside the target root; LinkDest then holds its destination
	Ancestor string
}

// Classifier classifies target paths against a set of owned and
// replaceable roots
type Classifier struct {
	FS          types.FS
	OwnedRoots  []string
	Replaceable []string
}

// Classify inspects target without following it. A symlink is read one
// level; a relative destination is resolved against the link's directory.
func (c *Classifier) Classify(target, expectedSource string) (Probe, error) {
	info, err := c.FS.Lstat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return Probe{State: types.StateAbsent}, nil
		}
		return Probe{}, err
	}

	if info.Mode()&fs.ModeSymlink == 0 {
		return Probe{State: types.StateRegularFileOrDir, IsDir: info.IsDir()}, nil
	}

	dest, err := c.FS.Readlink(target)
	if err != nil {
		return Probe{}, err
	}
	resolved := paths.ResolveLink(target, dest)
	p := Probe{LinkDest: resolved}

	switch {
	case !c.exists(resolved):
		p.State = types.StateSymlinkBroken
	case resolved == filepath.Clean(expectedSource):
		p.State = types.StateSymlinkToExpected
	case paths.IsWithinAny(resolved, c.OwnedRoots):
		p.State = types.StateSymlinkToSameRepoOther
	case paths.IsWithinAny(resolved, c.Replaceable):
		p.State = types.StateSymlinkToReplaceable
	default:
		p.State = types.StateSymlinkToOtherExternal
	}
	return p, nil
}

func (c *Classifier) exists(path string) bool {
	_, err := c.FS.Stat(path)
	return err == nil
}

// StaleAncestor returns the outermost ancestor of target, strictly between
// root and target, that is a symlink into an owned root. Such links are
// left behind when a directory strategy gives way to a finer one.
func (c *Classifier) StaleAncestor(root, target string) (string, bool) {
	dir, dest, ok := c.ancestorLink(root, target)
	if !ok || !paths.IsWithinAny(dest, c.OwnedRoots) {
		return "", false
	}
	return dir, true
}

// ForeignAncestor returns an ancestor of target that is a symlink leading
// out of root to a path no owned root contains, with its resolved
// destination. Nothing is ever written below such a link.
func (c *Classifier) ForeignAncestor(root, target string) (string, string, bool) {
	dir, dest, ok := c.ancestorLink(root, target)
	if !ok || paths.IsWithinAny(dest, c.OwnedRoots) || paths.IsWithin(dest, filepath.Clean(root)) {
		return "", "", false
	}
	return dir, dest, true
}

// ancestorLink finds the outermost symlink among the ancestors of target
// strictly between root and target
func (c *Classifier) ancestorLink(root, target string) (string, string, bool) {
	root = filepath.Clean(root)
	var chain []string
	for dir := filepath.Dir(target); dir != root && paths.IsWithin(dir, root); dir = filepath.Dir(dir) {
		chain = append(chain, dir)
	}
	// outermost first: a link there hides everything below it
	for i := len(chain) - 1; i >= 0; i-- {
		dir := chain[i]
		info, err := c.FS.Lstat(dir)
		if err != nil {
			return "", "", false
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			continue
		}
		dest, err := c.FS.Readlink(dir)
		if err != nil {
			return "", "", false
		}
		return dir, paths.ResolveLink(dir, dest), true
	}
	return "", "", false
}
