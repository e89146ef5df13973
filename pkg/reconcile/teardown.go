package reconcile

import (
	"context"
	"io/fs"
	"os"

	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/filesystem"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/manifest"
	"github.com/arthur-debert/homie/pkg/template"
	"github.com/arthur-debert/homie/pkg/types"
)

// RemovalResult is what teardown did with one target
type RemovalResult string

const (
	Removed      RemovalResult = "removed"
	WouldRemove  RemovalResult = "would-remove"
	Kept         RemovalResult = "kept"
	NotPresent   RemovalResult = "absent"
	RemoveFailed RemovalResult = "failed"
)

// Removal is the teardown record of one target
type Removal struct {
	TargetRel string
	Target    string
	Kind      types.ActionKind
	Result    RemovalResult
	Reason    string
}

// TeardownResult lists removals for one repository
type TeardownResult struct {
	Repo     string
	DryRun   bool
	Removals []Removal

	// FromManifest is set when removals were driven by the manifest
	FromManifest bool
}

// Failed reports whether any removal failed
func (r *TeardownResult) Failed() bool {
	for _, rm := range r.Removals {
		if rm.Result == RemoveFailed {
			return true
		}
	}
	return false
}

// Teardown removes what the repository placed. With a non-empty prior
// manifest its entries drive removal; otherwise only units that are
// provably homie's (a link to the expected source, or a file holding
// exactly the expected content) are removed. The manifest is then saved
// empty. prior may be nil, in which case it is loaded from the store.
func (e *Engine) Teardown(ctx context.Context, plan *Plan, prior *manifest.Manifest) (*TeardownResult, error) {
	logger := e.logger.With().Str("repo", plan.RepoName).Logger()
	done := logging.LogOperationStart(logger, "teardown")
	defer done()

	if prior == nil {
		var err error
		if prior, err = e.store.Load(plan.RepoPath); err != nil {
			return nil, err
		}
	}

	res := &TeardownResult{Repo: plan.RepoName, DryRun: e.opts.DryRun, FromManifest: prior.Len() > 0}
	cls := e.classifier(plan)
	if res.FromManifest {
		for _, rel := range prior.Keys() {
			if err := ctx.Err(); err != nil {
				return res, errors.Wrap(err, errors.ErrCanceled, "teardown interrupted")
			}
			kind, _ := prior.Get(rel)
			target := joinTarget(plan.TargetRoot, rel)
			res.Removals = append(res.Removals, e.removeEntry(cls, plan, rel, target, kind))
		}
	} else {
		for _, u := range plan.Units {
			if err := ctx.Err(); err != nil {
				return res, errors.Wrap(err, errors.ErrCanceled, "teardown interrupted")
			}
			res.Removals = append(res.Removals, e.removeUnit(cls, plan, u))
		}
	}

	for _, rm := range res.Removals {
		ev := logger.Debug()
		if rm.Result == RemoveFailed {
			ev = logger.Error()
		}
		ev.Str("target", rm.TargetRel).Str("result", string(rm.Result)).Str("reason", rm.Reason).Msg("Teardown")
	}

	if e.opts.DryRun {
		return res, nil
	}
	if err := e.store.Save(plan.RepoPath, manifest.New()); err != nil {
		return res, err
	}
	return res, nil
}

func (e *Engine) removeEntry(cls *Classifier, plan *Plan, rel, target string, kind types.ActionKind) Removal {
	rm := Removal{TargetRel: rel, Target: target, Kind: kind}
	if dir, _, ok := cls.ForeignAncestor(plan.TargetRoot, target); ok {
		return keep(rm, "parent "+dir+" links outside the target")
	}

	info, err := e.fs.Lstat(target)
	if err != nil {
		if os.IsNotExist(err) {
			rm.Result = NotPresent
			return rm
		}
		return failedRemoval(rm, err)
	}
	isLink := info.Mode()&fs.ModeSymlink != 0

	switch kind {
	case types.ActionSymlink:
		if !isLink {
			return keep(rm, "expected a symlink, found a regular file")
		}
	case types.ActionRender:
		if isLink || info.IsDir() {
			return keep(rm, "expected a rendered file")
		}
	}
	return e.remove(rm, info.IsDir() && !isLink)
}

func (e *Engine) removeUnit(cls *Classifier, plan *Plan, u types.Unit) Removal {
	rm := Removal{TargetRel: u.TargetRel, Target: u.Target, Kind: u.Action}
	if dir, _, ok := cls.ForeignAncestor(plan.TargetRoot, u.Target); ok {
		return keep(rm, "parent "+dir+" links outside the target")
	}

	p, err := cls.Classify(u.Target, u.Source)
	if err != nil {
		return failedRemoval(rm, err)
	}

	switch p.State {
	case types.StateAbsent:
		rm.Result = NotPresent
		return rm
	case types.StateSymlinkToExpected:
		if u.Action == types.ActionSymlink {
			return e.remove(rm, false)
		}
		return keep(rm, "symlink where a file was expected")
	case types.StateRegularFileOrDir:
		if u.Action == types.ActionSymlink {
			return keep(rm, "not a symlink")
		}
	default:
		return keep(rm, "symlink points elsewhere")
	}

	same, err := e.expectedContent(plan, u, p)
	if err != nil {
		return failedRemoval(rm, err)
	}
	if !same {
		return keep(rm, "content differs from the repository")
	}
	return e.remove(rm, p.IsDir)
}

// expectedContent reports whether a regular target holds what a copy or
// render unit would write
func (e *Engine) expectedContent(plan *Plan, u types.Unit, p Probe) (bool, error) {
	if u.Action == types.ActionCopy {
		return e.sameCopy(u, p)
	}
	if p.IsDir {
		return false, nil
	}
	rendered, err := template.RenderFile(e.fs, u.Source, plan.Vars.Map())
	if err != nil {
		return false, err
	}
	return filesystem.FileEquals(e.fs, u.Target, rendered)
}

func (e *Engine) remove(rm Removal, tree bool) Removal {
	if e.opts.DryRun {
		rm.Result = WouldRemove
		return rm
	}
	var err error
	if tree {
		err = e.fs.RemoveAll(rm.Target)
	} else {
		err = e.fs.Remove(rm.Target)
	}
	if err != nil {
		return failedRemoval(rm, errors.Wrapf(err, errors.ErrFileRemove, "cannot remove %s", rm.Target))
	}
	rm.Result = Removed
	return rm
}

func keep(rm Removal, reason string) Removal {
	rm.Result = Kept
	rm.Reason = reason
	return rm
}

func failedRemoval(rm Removal, err error) Removal {
	rm.Result = RemoveFailed
	rm.Reason = err.Error()
	return rm
}
