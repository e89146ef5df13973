// Package walker turns a merged tree into placement units.
//
// Every path gets exactly one strategy. A directory resolved to directory
// becomes one unit and absorbs its subtree. A directory resolved to contents
// yields no unit of its own: its files become units and its subdirectories
// are placed whole unless they match a strategy themselves. Directories
// under file or copy expand into per-leaf units, and children without a
// strategy of their own inherit the parent's.
package walker

import (
	"path"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/homie/pkg/glob"
	"github.com/arthur-debert/homie/pkg/imports"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/strategy"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/rs/zerolog"
)

// Skipped is a source path the walker declined to place
type Skipped struct {
	RelPath string
	Layer   string
	Reason  string
}

// Result is the ordered, non-overlapping unit list of one walk
type Result struct {
	Units   []types.Unit
	Skipped []Skipped
}

// Walker walks merged trees. It holds no state between walks.
type Walker struct {
	resolver   *strategy.Resolver
	ignores    glob.Set
	targetRoot string
	logger     zerolog.Logger
}

// New creates a walker placing units under targetRoot
func New(resolver *strategy.Resolver, ignores glob.Set, targetRoot string) *Walker {
	return &Walker{
		resolver:   resolver,
		ignores:    ignores,
		targetRoot: targetRoot,
		logger:     logging.GetLogger("walker"),
	}
}

type candidate struct {
	unit  types.Unit
	layer int
}

type walk struct {
	*Walker
	found   []candidate
	skipped []Skipped
}

// Walk enumerates units, repository layer first, then imports in
// declaration order, lexically within each layer
func (w *Walker) Walk(tree *imports.Tree) *Result {
	st := &walk{Walker: w}
	st.expand(tree.Root(), "", false)

	sort.SliceStable(st.found, func(i, j int) bool {
		if st.found[i].layer != st.found[j].layer {
			return st.found[i].layer < st.found[j].layer
		}
		return st.found[i].unit.RelPath < st.found[j].unit.RelPath
	})

	res := &Result{Skipped: st.skipped}
	claimed := map[string]bool{}
	ancestors := map[string]bool{}
	for _, c := range st.found {
		u := c.unit
		if reason := overlap(u.TargetRel, claimed, ancestors); reason != "" {
			w.logger.Warn().Str("path", u.RelPath).Str("target", u.TargetRel).Msg(reason)
			res.Skipped = append(res.Skipped, Skipped{RelPath: u.RelPath, Layer: u.Layer, Reason: reason})
			continue
		}
		claimed[u.TargetRel] = true
		for p := path.Dir(u.TargetRel); p != "." && p != "/"; p = path.Dir(p) {
			ancestors[p] = true
		}
		res.Units = append(res.Units, u)
	}

	w.logger.Debug().Int("units", len(res.Units)).Int("skipped", len(res.Skipped)).Msg("Walk complete")
	return res
}

func overlap(target string, claimed, ancestors map[string]bool) string {
	if claimed[target] {
		return "target already claimed by another unit"
	}
	if ancestors[target] {
		return "target contains paths claimed by other units"
	}
	for p := path.Dir(target); p != "." && p != "/"; p = path.Dir(p) {
		if claimed[p] {
			return "target lies inside a directory placed whole"
		}
	}
	return ""
}

// expand visits the children of a directory placed per leaf. inherited is
// the parent's strategy when hasInherited is set.
func (w *walk) expand(dir *imports.Node, inherited types.Strategy, hasInherited bool) {
	for _, child := range dir.Children() {
		if !w.admit(child) {
			continue
		}
		s, explicit := w.resolver.Match(child.Rel)
		if !explicit {
			if hasInherited {
				s = inherited
			} else {
				s = w.resolver.Default()
			}
		}
		w.place(child, s)
	}
}

// place applies strategy s to node
func (w *walk) place(node *imports.Node, s types.Strategy) {
	if !node.IsDir || node.Link {
		w.leaf(node, s)
		return
	}

	switch s {
	case types.StrategyDirectory:
		if node.Partial {
			// only part of this directory comes from one place
			w.logger.Debug().Str("path", node.Rel).Msg("Directory is merged from several layers; placing its contents")
			w.contents(node)
			return
		}
		w.emit(node, s, types.ActionSymlink)
	case types.StrategyContents:
		w.contents(node)
	default:
		w.expand(node, s, true)
	}
}

// contents places the immediate children of a contents directory
func (w *walk) contents(dir *imports.Node) {
	for _, child := range dir.Children() {
		if !w.admit(child) {
			continue
		}
		if s, ok := w.resolver.Match(child.Rel); ok {
			w.place(child, s)
			continue
		}
		if child.IsDir && !child.Link {
			if child.Partial {
				w.contents(child)
				continue
			}
			w.emit(child, types.StrategyContents, types.ActionSymlink)
			continue
		}
		w.leaf(child, types.StrategyContents)
	}
}

func (w *walk) leaf(node *imports.Node, s types.Strategy) {
	switch {
	case !node.IsDir && types.IsTemplatePath(node.Rel):
		w.emit(node, s, types.ActionRender)
	case s == types.StrategyCopy:
		w.emit(node, s, types.ActionCopy)
	default:
		w.emit(node, s, types.ActionSymlink)
	}
}

func (w *walk) emit(node *imports.Node, s types.Strategy, action types.ActionKind) {
	targetRel := types.TargetRelFor(node.Rel, action)
	w.found = append(w.found, candidate{
		layer: node.Layer.Index,
		unit: types.Unit{
			RelPath:   node.Rel,
			TargetRel: targetRel,
			Source:    node.Source,
			Target:    filepath.Join(w.targetRoot, filepath.FromSlash(targetRel)),
			Strategy:  s,
			Action:    action,
			Layer:     node.Layer.Name,
			IsDir:     node.IsDir,
		},
	})
}

// admit filters ignored paths and broken source links
func (w *walk) admit(node *imports.Node) bool {
	if w.ignores.Matches(node.Rel, node.IsDir) {
		w.logger.Trace().Str("path", node.Rel).Msg("Ignored")
		return false
	}
	if node.Broken {
		w.logger.Warn().Str("path", node.Rel).Str("source", node.Source).Msg("Skipping broken symlink in source tree")
		w.skipped = append(w.skipped, Skipped{RelPath: node.Rel, Layer: node.Layer.Name, Reason: "broken symlink"})
		return false
	}
	return true
}
