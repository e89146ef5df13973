package reconcile

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/template"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/pmezard/go-difflib/difflib"
)

// DiffKind classifies a content difference
type DiffKind string

const (
	// DiffModified is a copied or rendered file edited in place
	DiffModified DiffKind = "modified"

	// DiffConflict is a regular file where a symlink belongs
	DiffConflict DiffKind = "conflict"
)

// FileDiff is the content difference of one unit
type FileDiff struct {
	Unit types.Unit
	Kind DiffKind

	// Unified is a unified diff from the repository version to the target,
	// empty for directories, binary files and identical content
	Unified string
	Binary  bool
}

// Diff reports units whose target is a regular file that differs from
// what homie would place
func (e *Engine) Diff(ctx context.Context, plan *Plan) ([]FileDiff, error) {
	cls := e.classifier(plan)
	var diffs []FileDiff

	for _, u := range plan.Units {
		if err := ctx.Err(); err != nil {
			return diffs, errors.Wrap(err, errors.ErrCanceled, "diff interrupted")
		}
		if _, stale := cls.StaleAncestor(plan.TargetRoot, u.Target); stale {
			continue
		}
		p, err := cls.Classify(u.Target, u.Source)
		if err != nil || p.State != types.StateRegularFileOrDir {
			continue
		}

		d, ok, err := e.unitDiff(plan, u, p)
		if err != nil {
			e.logger.Warn().Err(err).Str("target", u.TargetRel).Msg("Cannot compare target")
			continue
		}
		if ok {
			diffs = append(diffs, d)
		}
	}
	return diffs, nil
}

func (e *Engine) unitDiff(plan *Plan, u types.Unit, p Probe) (FileDiff, bool, error) {
	d := FileDiff{Unit: u, Kind: DiffModified}

	switch u.Action {
	case types.ActionCopy:
		same, err := e.sameCopy(u, p)
		if err != nil || same {
			return d, false, err
		}
		if p.IsDir {
			return d, true, nil
		}
		want, err := e.fs.ReadFile(u.Source)
		if err != nil {
			return d, false, err
		}
		return e.withUnified(d, want, u)

	case types.ActionRender:
		if p.IsDir {
			d.Kind = DiffConflict
			return d, true, nil
		}
		want, err := template.RenderFile(e.fs, u.Source, plan.Vars.Map())
		if err != nil {
			return d, false, err
		}
		got, err := e.fs.ReadFile(u.Target)
		if err != nil {
			return d, false, err
		}
		if bytes.Equal(want, got) {
			return d, false, nil
		}
		return e.withUnified(d, want, u)
	}

	d.Kind = DiffConflict
	src, err := e.fs.Stat(u.Source)
	if err != nil || src.IsDir() || p.IsDir {
		return d, true, nil
	}
	want, err := e.fs.ReadFile(u.Source)
	if err != nil {
		return d, true, nil
	}
	return e.withUnified(d, want, u)
}

func (e *Engine) withUnified(d FileDiff, want []byte, u types.Unit) (FileDiff, bool, error) {
	got, err := e.fs.ReadFile(u.Target)
	if err != nil {
		return d, false, err
	}
	if isBinary(want) || isBinary(got) {
		d.Binary = true
		return d, true, nil
	}
	if bytes.Equal(want, got) {
		return d, true, nil
	}
	text, err := Unified(want, got, filepath.ToSlash(filepath.Join("repo", u.RelPath)), u.Target)
	if err != nil {
		return d, false, err
	}
	d.Unified = text
	return d, true, nil
}

// Unified renders a unified diff with three lines of context
func Unified(from, to []byte, fromName, toName string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(from)),
		B:        difflib.SplitLines(string(to)),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	})
}

func isBinary(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0
}

func joinTarget(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
