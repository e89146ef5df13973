package reconcile

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/homie/pkg/clock"
	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/filesystem"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/manifest"
	"github.com/arthur-debert/homie/pkg/template"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/rs/zerolog"
)

// Engine reconciles plans. It is not safe for concurrent use.
type Engine struct {
	fs     types.FS
	store  manifest.Store
	clock  clock.Clock
	opts   Options
	logger zerolog.Logger
}

// NewEngine creates an engine
func NewEngine(fsys types.FS, store manifest.Store, clk clock.Clock, opts Options) *Engine {
	if clk == nil {
		clk = clock.New()
	}
	return &Engine{
		fs:     fsys,
		store:  store,
		clock:  clk,
		opts:   opts,
		logger: logging.GetLogger("reconcile"),
	}
}

// Options returns the engine options
func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) classifier(plan *Plan) *Classifier {
	return &Classifier{FS: e.fs, OwnedRoots: plan.OwnedRoots, Replaceable: e.opts.ReplaceablePaths}
}

// Reconcile processes every unit of plan in order and, unless dry-run,
// saves the new manifest. A canceled context stops before the next unit and
// before the manifest write.
func (e *Engine) Reconcile(ctx context.Context, plan *Plan) (*Result, error) {
	logger := e.logger.With().Str("repo", plan.RepoName).Logger()
	done := logging.LogOperationStart(logger, "reconcile")
	defer done()

	prior, err := e.store.Load(plan.RepoPath)
	if err != nil {
		return nil, err
	}

	next := manifest.New()
	res := &Result{Repo: plan.RepoName, DryRun: e.opts.DryRun, Manifest: next}
	cls := e.classifier(plan)

	for _, u := range plan.Units {
		if err := ctx.Err(); err != nil {
			return res, errors.Wrap(err, errors.ErrCanceled, "reconciliation interrupted")
		}

		out := e.reconcileUnit(cls, plan, u, prior)
		res.Units = append(res.Units, UnitResult{Unit: u, Outcome: out})
		record(next, prior, u, out)
		e.logOutcome(logger, u, out)
	}

	res.Orphans = manifest.Diff(prior, plan.Units, func(rel string) bool {
		_, err := e.fs.Lstat(joinTarget(plan.TargetRoot, rel))
		return err == nil
	})
	for _, o := range res.Orphans {
		if o.Exists {
			logger.Warn().Str("target", o.TargetRel).Str("kind", o.Kind.String()).
				Msg("Previously placed path has no source anymore; left in place")
		}
	}

	if e.opts.DryRun {
		return res, nil
	}
	if err := e.store.Save(plan.RepoPath, next); err != nil {
		return res, err
	}
	return res, nil
}

// record carries placements into the new manifest. A failed unit keeps
// whatever the previous run recorded for it.
func record(next, prior *manifest.Manifest, u types.Unit, out types.Outcome) {
	if out.Effective().Placed() {
		next.Set(u.TargetRel, u.Action)
		return
	}
	if out.Kind == types.OutcomeFailed {
		if kind, ok := prior.Get(u.TargetRel); ok {
			next.Set(u.TargetRel, kind)
		}
	}
}

func (e *Engine) reconcileUnit(cls *Classifier, plan *Plan, u types.Unit, prior *manifest.Manifest) types.Outcome {
	probe, err := e.probe(cls, plan, u)
	if err != nil {
		return types.FailedOutcome(probe.State, err)
	}

	var rendered []byte
	if u.Action == types.ActionRender {
		rendered, err = template.RenderFile(e.fs, u.Source, plan.Vars.Map())
		if err != nil {
			return types.FailedOutcome(probe.State, err)
		}
	}

	d, err := e.decide(u, probe, rendered, prior)
	if err != nil {
		return types.FailedOutcome(probe.State, err)
	}

	out := types.Outcome{Kind: d.kind, State: probe.State, Reason: d.reason}
	if probe.State.IsSymlink() {
		out.LinkTarget = probe.LinkDest
	}
	if d.backup {
		out.BackupPath = e.backupPath(u.Target)
	}

	if e.opts.DryRun {
		out.Planned = out.Kind
		out.Kind = types.OutcomeDryRunPreview
		return out
	}
	if !d.kind.Mutates() {
		return out
	}
	if d.chmod != 0 {
		if err := e.fs.Chmod(u.Target, d.chmod); err != nil {
			return types.FailedOutcome(probe.State, errors.Wrapf(err, errors.ErrFileWrite, "cannot set mode of %s", u.Target))
		}
		return out
	}
	if err := e.apply(u, probe, rendered, out.BackupPath); err != nil {
		failed := types.FailedOutcome(probe.State, err)
		failed.LinkTarget = out.LinkTarget
		return failed
	}
	return out
}

// probe removes a stale ancestor link, then classifies the target. Under
// dry-run the ancestor stays and the target is taken as absent, which is
// what removing the link would leave.
func (e *Engine) probe(cls *Classifier, plan *Plan, u types.Unit) (Probe, error) {
	if dir, ok := cls.StaleAncestor(plan.TargetRoot, u.Target); ok {
		if e.opts.DryRun {
			return Probe{State: types.StateAbsent}, nil
		}
		if err := e.fs.Remove(dir); err != nil {
			return Probe{State: types.StateAbsent}, errors.Wrapf(err, errors.ErrFileRemove, "cannot remove stale link %s", dir)
		}
		e.logger.Info().Str("path", dir).Msg("Removed stale directory link")
	}

	if dir, dest, ok := cls.ForeignAncestor(plan.TargetRoot, u.Target); ok {
		return Probe{State: types.StateSymlinkToOtherExternal, LinkDest: dest, Ancestor: dir}, nil
	}

	p, err := cls.Classify(u.Target, u.Source)
	if err != nil {
		return Probe{State: types.StateAbsent}, errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", u.Target)
	}
	return p, nil
}

type decision struct {
	kind   types.OutcomeKind
	backup bool
	reason string
	// chmod marks a copy whose content already matches; only the
	// permission bits are brought in line
	chmod fs.FileMode
}

// decide implements the decision table over target state and action kind
func (e *Engine) decide(u types.Unit, p Probe, rendered []byte, prior *manifest.Manifest) (decision, error) {
	if p.Ancestor != "" {
		return decision{
			kind:   types.OutcomeSkippedExternal,
			reason: fmt.Sprintf("parent %s is a symlink to %s, outside the target", p.Ancestor, p.LinkDest),
		}, nil
	}

	switch p.State {
	case types.StateAbsent:
		if u.Action == types.ActionRender {
			return decision{kind: types.OutcomeRendered}, nil
		}
		return decision{kind: types.OutcomeCreated}, nil

	case types.StateSymlinkToExpected:
		switch u.Action {
		case types.ActionSymlink:
			return decision{kind: types.OutcomeUnchanged}, nil
		case types.ActionRender:
			// the link shows the raw template; it only stays when rendering
			// would not change a byte
			same, err := filesystem.FileEquals(e.fs, u.Source, rendered)
			if err != nil {
				return decision{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot compare %s", u.Source)
			}
			if same {
				return decision{kind: types.OutcomeUnchanged}, nil
			}
			return decision{kind: types.OutcomeRendered}, nil
		}
		return decision{kind: types.OutcomeReplaced}, nil

	case types.StateSymlinkToSameRepoOther, types.StateSymlinkToReplaceable, types.StateSymlinkBroken:
		return decision{kind: types.OutcomeReplaced}, nil

	case types.StateSymlinkToOtherExternal:
		if u.Action == types.ActionCopy {
			return decision{kind: types.OutcomeReplaced}, nil
		}
		return decision{
			kind:   types.OutcomeSkippedExternal,
			reason: fmt.Sprintf("symlink to %s is not managed by homie", p.LinkDest),
		}, nil
	}

	// regular file or directory
	switch u.Action {
	case types.ActionCopy:
		same, err := e.sameCopy(u, p)
		if err != nil {
			return decision{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot compare %s", u.Target)
		}
		if !same {
			return decision{kind: types.OutcomeReplaced}, nil
		}
		perm, differs, err := e.permDiffers(u, p)
		if err != nil {
			return decision{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot compare %s", u.Target)
		}
		if differs {
			return decision{kind: types.OutcomeReplaced, chmod: perm, reason: fmt.Sprintf("mode set to %#o", perm)}, nil
		}
		return decision{kind: types.OutcomeUnchanged}, nil

	case types.ActionRender:
		if !p.IsDir {
			same, err := filesystem.FileEquals(e.fs, u.Target, rendered)
			if err != nil {
				return decision{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot compare %s", u.Target)
			}
			if same {
				return decision{kind: types.OutcomeRenderUnchanged}, nil
			}
			if kind, ok := prior.Get(u.TargetRel); ok && kind == types.ActionRender {
				return decision{kind: types.OutcomeRendered}, nil
			}
		}
	}
	return e.conflict(), nil
}

func (e *Engine) conflict() decision {
	if e.opts.Force {
		return decision{kind: types.OutcomeBackedUpAndReplaced, backup: true}
	}
	return decision{
		kind:   types.OutcomeSkippedConflict,
		reason: "target exists and is not managed by homie (use --force to back it up)",
	}
}

func (e *Engine) sameCopy(u types.Unit, p Probe) (bool, error) {
	src, err := e.fs.Stat(u.Source)
	if err != nil {
		return false, err
	}
	if src.IsDir() != p.IsDir {
		return false, nil
	}
	return filesystem.SameContent(e.fs, u.Source, u.Target)
}

// permDiffers reports whether a regular copy target carries other
// permission bits than its source, returning the source's
func (e *Engine) permDiffers(u types.Unit, p Probe) (fs.FileMode, bool, error) {
	if p.IsDir {
		return 0, false, nil
	}
	src, err := e.fs.Stat(u.Source)
	if err != nil {
		return 0, false, err
	}
	dst, err := e.fs.Stat(u.Target)
	if err != nil {
		return 0, false, err
	}
	return src.Mode().Perm(), src.Mode().Perm() != dst.Mode().Perm(), nil
}

// apply performs the single mutation a decision calls for
func (e *Engine) apply(u types.Unit, p Probe, rendered []byte, backup string) error {
	switch {
	case backup != "":
		if err := e.fs.Rename(u.Target, backup); err != nil {
			return errors.Wrapf(err, errors.ErrBackup, "cannot back up %s", u.Target)
		}
	case p.State.IsSymlink():
		if err := e.fs.Remove(u.Target); err != nil {
			return errors.Wrapf(err, errors.ErrFileRemove, "cannot remove %s", u.Target)
		}
	case p.State == types.StateRegularFileOrDir && p.IsDir:
		if err := e.fs.RemoveAll(u.Target); err != nil {
			return errors.Wrapf(err, errors.ErrFileRemove, "cannot remove %s", u.Target)
		}
	}

	if err := e.fs.MkdirAll(filepath.Dir(u.Target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "cannot create %s", filepath.Dir(u.Target))
	}

	switch u.Action {
	case types.ActionSymlink:
		if err := e.fs.Symlink(u.Source, u.Target); err != nil {
			return errors.Wrapf(err, errors.ErrSymlinkCreate, "cannot link %s", u.Target)
		}
	case types.ActionCopy:
		if err := e.fs.Copy(u.Source, u.Target); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "cannot copy to %s", u.Target)
		}
	case types.ActionRender:
		perm := templatePerm(e.fs, u.Source)
		if err := e.fs.AtomicWrite(u.Target, rendered, perm); err != nil {
			return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", u.Target)
		}
	}
	return nil
}

func templatePerm(fsys types.FS, source string) fs.FileMode {
	if info, err := fsys.Stat(source); err == nil {
		return info.Mode().Perm()
	}
	return 0644
}

func (e *Engine) logOutcome(logger zerolog.Logger, u types.Unit, out types.Outcome) {
	var ev *zerolog.Event
	switch {
	case out.Kind == types.OutcomeFailed:
		ev = logger.Error()
	case out.Effective().Skipped():
		ev = logger.Warn()
	case out.Effective().Mutates():
		ev = logger.Info()
	default:
		ev = logger.Debug()
	}
	ev = ev.Str("target", u.TargetRel).
		Str("action", u.Action.String()).
		Str("state", out.State.String()).
		Str("outcome", out.Effective().String()).
		Bool("dry_run", out.Kind == types.OutcomeDryRunPreview)
	if out.Reason != "" {
		ev = ev.Str("reason", out.Reason)
	}
	if out.BackupPath != "" {
		ev = ev.Str("backup", out.BackupPath)
	}
	ev.Msg("Unit reconciled")
}
