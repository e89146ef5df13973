package reconcile

import (
	"context"
	"fmt"

	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/filesystem"
	"github.com/arthur-debert/homie/pkg/manifest"
	"github.com/arthur-debert/homie/pkg/template"
	"github.com/arthur-debert/homie/pkg/types"
)

// UnitStatus is the read-only verdict on one unit
type UnitStatus string

const (
	StatusLinked   UnitStatus = "linked"
	StatusRendered UnitStatus = "rendered"
	StatusCopied   UnitStatus = "copied"
	StatusStale    UnitStatus = "stale"
	StatusExternal UnitStatus = "external"
	StatusMissing  UnitStatus = "missing"
	StatusConflict UnitStatus = "conflict"
)

// Statuses in reporting order
var Statuses = []UnitStatus{
	StatusLinked, StatusRendered, StatusCopied, StatusStale, StatusExternal, StatusMissing, StatusConflict,
}

// InSync reports whether the unit needs no work
func (s UnitStatus) InSync() bool {
	return s == StatusLinked || s == StatusRendered || s == StatusCopied
}

// StatusEntry is the status of one unit
type StatusEntry struct {
	Unit   types.Unit
	Status UnitStatus
	State  types.TargetState
	Detail string
}

// StatusReport is the status of one repository
type StatusReport struct {
	Repo    string
	Entries []StatusEntry
	Orphans []manifest.Orphan
}

// Counts tallies entries by status
func (r *StatusReport) Counts() map[UnitStatus]int {
	counts := map[UnitStatus]int{}
	for _, e := range r.Entries {
		counts[e.Status]++
	}
	return counts
}

// Status inspects every unit without touching the disk
func (e *Engine) Status(ctx context.Context, plan *Plan) (*StatusReport, error) {
	prior, err := e.store.Load(plan.RepoPath)
	if err != nil {
		return nil, err
	}

	cls := e.classifier(plan)
	rep := &StatusReport{Repo: plan.RepoName}
	for _, u := range plan.Units {
		if err := ctx.Err(); err != nil {
			return rep, errors.Wrap(err, errors.ErrCanceled, "status interrupted")
		}
		rep.Entries = append(rep.Entries, e.unitStatus(cls, plan, u, prior))
	}

	rep.Orphans = manifest.Diff(prior, plan.Units, func(rel string) bool {
		_, err := e.fs.Lstat(joinTarget(plan.TargetRoot, rel))
		return err == nil
	})
	return rep, nil
}

func (e *Engine) unitStatus(cls *Classifier, plan *Plan, u types.Unit, prior *manifest.Manifest) StatusEntry {
	entry := StatusEntry{Unit: u}

	if dir, ok := cls.StaleAncestor(plan.TargetRoot, u.Target); ok {
		entry.Status = StatusStale
		entry.Detail = "inside directory link " + dir
		return entry
	}
	if dir, dest, ok := cls.ForeignAncestor(plan.TargetRoot, u.Target); ok {
		entry.State = types.StateSymlinkToOtherExternal
		entry.Status = StatusExternal
		entry.Detail = fmt.Sprintf("parent %s links to %s", dir, dest)
		return entry
	}

	p, err := cls.Classify(u.Target, u.Source)
	if err != nil {
		entry.Status = StatusConflict
		entry.Detail = err.Error()
		return entry
	}
	entry.State = p.State

	switch p.State {
	case types.StateAbsent:
		entry.Status = StatusMissing
	case types.StateSymlinkToExpected:
		if u.Action == types.ActionSymlink {
			entry.Status = StatusLinked
		} else {
			entry.Status = StatusStale
			entry.Detail = "still a symlink"
		}
	case types.StateSymlinkToOtherExternal:
		entry.Status = StatusExternal
		entry.Detail = p.LinkDest
	case types.StateSymlinkToSameRepoOther, types.StateSymlinkToReplaceable, types.StateSymlinkBroken:
		entry.Status = StatusStale
		entry.Detail = "points to " + p.LinkDest
	default:
		entry.Status, entry.Detail = e.regularStatus(plan, u, p, prior)
	}
	return entry
}

func (e *Engine) regularStatus(plan *Plan, u types.Unit, p Probe, prior *manifest.Manifest) (UnitStatus, string) {
	switch u.Action {
	case types.ActionCopy:
		same, err := e.sameCopy(u, p)
		if err != nil {
			return StatusConflict, err.Error()
		}
		if !same {
			return StatusStale, "modified in target"
		}
		if perm, differs, err := e.permDiffers(u, p); err == nil && differs {
			return StatusStale, fmt.Sprintf("mode differs from %#o", perm)
		}
		return StatusCopied, ""

	case types.ActionRender:
		if p.IsDir {
			return StatusConflict, "directory where a rendered file belongs"
		}
		rendered, err := template.RenderFile(e.fs, u.Source, plan.Vars.Map())
		if err != nil {
			return StatusStale, err.Error()
		}
		same, err := filesystem.FileEquals(e.fs, u.Target, rendered)
		if err != nil {
			return StatusConflict, err.Error()
		}
		if same {
			return StatusRendered, ""
		}
		if kind, ok := prior.Get(u.TargetRel); ok && kind == types.ActionRender {
			return StatusStale, "rendered content is out of date"
		}
	}
	return StatusConflict, "file exists, not managed by homie"
}
