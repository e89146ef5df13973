package imports

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/types"
)

// Layer is one source of files in a merged tree. Index 0 is the repository.
type Layer struct {
	Index int
	Name  string
	Root  string
}

// Node is a file or directory in the merged tree
type Node struct {
	Rel    string
	Source string
	Layer  Layer
	IsDir  bool

	// Link is set when the source is a symlink; a linked directory is a leaf
	Link bool

	// Broken is set when the source is a symlink whose destination is missing
	Broken bool

	// Partial directories hold only part of their source directory because
	// of an import allow-list, so they cannot be placed whole
	Partial bool

	children map[string]*Node
}

// Name returns the final path component
func (n *Node) Name() string {
	return path.Base(n.Rel)
}

// Children returns child nodes sorted by name
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rel < out[j].Rel })
	return out
}

// Shadow records a path dropped because a higher-precedence layer had it
type Shadow struct {
	Rel    string
	Winner string
	Loser  string
}

// Tree is the merged, layered view of a repository and its imports
type Tree struct {
	root     *Node
	layers   []Layer
	shadowed []Shadow
}

// Root returns the root directory node
func (t *Tree) Root() *Node {
	return t.root
}

// Layers returns the repository layer followed by imports in order
func (t *Tree) Layers() []Layer {
	return t.layers
}

// Shadowed lists collisions resolved by precedence
func (t *Tree) Shadowed() []Shadow {
	return t.shadowed
}

// OwnedRoots are the layer roots; symlinks into them belong to the repo
func (t *Tree) OwnedRoots() []string {
	roots := make([]string, 0, len(t.layers))
	for _, l := range t.layers {
		roots = append(roots, l.Root)
	}
	return roots
}

// Lookup finds a node by its merged relative path
func (t *Tree) Lookup(rel string) (*Node, bool) {
	rel = strings.Trim(rel, "/")
	if rel == "" || rel == "." {
		return t.root, true
	}
	n := t.root
	for _, part := range strings.Split(rel, "/") {
		next, ok := n.children[part]
		if !ok {
			return nil, false
		}
		n = next
	}
	return n, true
}

// skipDirs are never read from any layer
var skipDirs = map[string]bool{".git": true, ".homie": true}

// Merge overlays the repository and its available imports
func Merge(fsys types.FS, repoPath string, imps []*Import) (*Tree, error) {
	logger := logging.GetLogger("imports")

	repoLayer := Layer{Index: 0, Name: "", Root: repoPath}
	t := &Tree{
		root:   &Node{Rel: "", Source: repoPath, Layer: repoLayer, IsDir: true, children: map[string]*Node{}},
		layers: []Layer{repoLayer},
	}

	if err := t.addDir(fsys, repoLayer, nil, repoPath, ""); err != nil {
		return nil, err
	}

	for idx, imp := range imps {
		layer := Layer{Index: idx + 1, Name: imp.Name, Root: imp.Dir}
		t.layers = append(t.layers, layer)
		if err := t.addDir(fsys, layer, imp, imp.Dir, ""); err != nil {
			return nil, err
		}
	}

	for _, s := range t.shadowed {
		logger.Debug().Str("path", s.Rel).Str("kept", layerLabel(s.Winner)).Str("dropped", s.Loser).Msg("Path shadowed")
	}
	return t, nil
}

// addDir reads dir (at layerRel inside its layer) and inserts its entries
func (t *Tree) addDir(fsys types.FS, layer Layer, imp *Import, dir, layerRel string) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if skipDirs[name] && layerRel == "" {
			continue
		}
		src := filepath.Join(dir, name)
		rel := name
		if layerRel != "" {
			rel = layerRel + "/" + name
		}

		node := &Node{Source: src, Layer: layer}
		info := entry
		if entry.Mode()&fs.ModeSymlink != 0 {
			node.Link = true
			target, err := fsys.Stat(src)
			if err != nil {
				node.Broken = true
			} else {
				info = target
			}
		}
		node.IsDir = info.IsDir() && !node.Broken

		descend := node.IsDir && !node.Link
		if imp != nil && !imp.Includes(rel) {
			if !descend || !imp.MayContain(rel) {
				continue
			}
			node.Partial = true
		}

		merged := rel
		if imp != nil {
			merged = imp.RemapPath(rel)
		}
		node.Rel = merged

		target := t.insert(node)
		if target == nil || !descend {
			continue
		}
		if err := t.addDir(fsys, layer, imp, src, rel); err != nil {
			return err
		}
	}
	return nil
}

// insert places node at its merged path, creating intermediate directories.
// It returns the node that now owns the path when the new node's contents
// should still be merged, or nil when the path was taken by a file.
func (t *Tree) insert(node *Node) *Node {
	if node.Rel == "" {
		// remapped onto the root: merge children into the root
		return t.root
	}

	parent := t.root
	parts := strings.Split(node.Rel, "/")
	for i, part := range parts[:len(parts)-1] {
		next, ok := parent.children[part]
		if !ok {
			next = &Node{
				Rel:      strings.Join(parts[:i+1], "/"),
				Source:   filepath.Join(node.Layer.Root, filepath.FromSlash(strings.Join(parts[:i+1], "/"))),
				Layer:    node.Layer,
				IsDir:    true,
				Partial:  true,
				children: map[string]*Node{},
			}
			parent.children[part] = next
		}
		if !next.IsDir || next.Link {
			t.shadow(node.Rel, next, node)
			return nil
		}
		parent = next
	}

	name := parts[len(parts)-1]
	existing, ok := parent.children[name]
	if !ok {
		if node.IsDir {
			node.children = map[string]*Node{}
		}
		parent.children[name] = node
		return node
	}

	// directories merge; anything else keeps the earlier layer
	if existing.IsDir && !existing.Link && node.IsDir && !node.Link {
		if existing.Layer.Index != node.Layer.Index {
			existing.Partial = true
		}
		return existing
	}
	t.shadow(node.Rel, existing, node)
	return nil
}

func (t *Tree) shadow(rel string, winner, loser *Node) {
	t.shadowed = append(t.shadowed, Shadow{Rel: rel, Winner: winner.Layer.Name, Loser: loser.Layer.Name})
}

func layerLabel(name string) string {
	if name == "" {
		return "repo"
	}
	return name
}
