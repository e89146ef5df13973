package report

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/homie/pkg/commands"
	"github.com/arthur-debert/homie/pkg/reconcile"
	"github.com/arthur-debert/homie/pkg/repo"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/pterm/pterm"
)

// outcomeOrder is the order of link summary counts. Dry-run previews are
// counted by their planned kind.
var outcomeOrder = []struct {
	kind  types.OutcomeKind
	label string
	color pterm.Color
}{
	{types.OutcomeCreated, "created", pterm.FgGreen},
	{types.OutcomeReplaced, "replaced", pterm.FgGreen},
	{types.OutcomeBackedUpAndReplaced, "backed up", pterm.FgYellow},
	{types.OutcomeRendered, "rendered", pterm.FgGreen},
	{types.OutcomeUnchanged, "unchanged", pterm.FgGray},
	{types.OutcomeRenderUnchanged, "render unchanged", pterm.FgGray},
	{types.OutcomeSkippedConflict, "conflicts", pterm.FgYellow},
	{types.OutcomeSkippedExternal, "external", pterm.FgYellow},
	{types.OutcomeFailed, "failed", pterm.FgRed},
}

// Link reports every unit outcome of every repository, then a summary
func (r *Reporter) Link(res *commands.LinkResult) {
	if res.DryRun {
		r.dryRunNotice()
	}
	r.Warnings(res.Warnings)

	for i, rr := range res.Repos {
		if i > 0 {
			r.println("")
		}
		target := ""
		if rr.Prepared != nil {
			target = rr.Prepared.Repo.Target
		}
		r.header(rr.Name, target)
		if rr.Err != nil {
			r.item("failed", rr.Name, 0, r.theme.Render("Error", errorText(rr.Err)))
			continue
		}
		if rr.Prepared != nil {
			r.prepared(rr.Prepared)
		}
		if rr.Result != nil {
			r.linkResult(rr.Result)
		}
	}

	if len(res.Repos) > 0 {
		r.println("")
	}
	counts := res.Counts()
	items := make([]tally, 0, len(outcomeOrder))
	for _, o := range outcomeOrder {
		items = append(items, tally{n: counts[o.kind], label: o.label, color: o.color})
	}
	if res.DryRun {
		r.printf("%s ", r.theme.Render("DryRun", "Would be:"))
	}
	r.summary(items)
}

// prepared reports what planning set aside: imports that could not be
// fetched always, walker skips and shadowed paths with verbose output
func (r *Reporter) prepared(p *repo.Prepared) {
	for _, fe := range p.FetchErrors {
		r.printf("  %s %s\n", r.theme.Indicator("warning"),
			r.theme.Render("Warning", fmt.Sprintf("import %s not fetched (%s): %s", fe.Import, fe.Source, errorText(fe.Err))))
	}
	if !r.verbose {
		return
	}
	for _, s := range p.Skipped {
		r.detail(fmt.Sprintf("skipped %s (%s): %s", s.RelPath, s.Layer, s.Reason))
	}
	for _, s := range p.Shadowed {
		r.detail(fmt.Sprintf("%s from %s hidden by %s", s.Rel, s.Loser, s.Winner))
	}
}

func (r *Reporter) linkResult(res *reconcile.Result) {
	rels := make([]string, 0, len(res.Units))
	for _, ur := range res.Units {
		rels = append(rels, displayRel(ur.Unit))
	}
	width := pathWidth(rels)

	for i, ur := range res.Units {
		r.item(string(ur.Outcome.Kind), rels[i], width, r.outcomeLabel(ur.Unit, ur.Outcome))
	}
	for _, o := range res.Orphans {
		label := "no longer in the repo, left in place"
		if !o.Exists {
			label = "no longer in the repo, already gone"
		}
		r.item("orphan", filepath.ToSlash(o.TargetRel), width, r.theme.Render("Warning", label))
	}
}

// displayRel is the unit's target path, with a slash for directories
func displayRel(u types.Unit) string {
	rel := filepath.ToSlash(u.TargetRel)
	if u.IsDir {
		rel += "/"
	}
	return rel
}

// outcomeLabel describes an outcome in words
func (r *Reporter) outcomeLabel(u types.Unit, o types.Outcome) string {
	switch o.Kind {
	case types.OutcomeDryRunPreview:
		return r.theme.Render("DryRun", "would be "+plannedLabel(u, o))
	case types.OutcomeFailed:
		return r.theme.Render("Error", "failed: "+o.Reason)
	case types.OutcomeSkippedConflict:
		return r.theme.Render("Warning", "skipped, "+conflictReason(o))
	case types.OutcomeSkippedExternal:
		return r.theme.Render("Warning", "skipped, links to "+o.LinkTarget)
	case types.OutcomeBackedUpAndReplaced:
		return r.theme.Render("Warning", actionVerb(u.Action)+", old version saved as "+filepath.Base(o.BackupPath))
	case types.OutcomeUnchanged, types.OutcomeRenderUnchanged:
		return r.theme.Render("Muted", "unchanged")
	case types.OutcomeReplaced:
		return r.theme.Render("Success", "replaced stale link")
	}
	return r.theme.Render(actionStyle(u.Action), actionVerb(u.Action))
}

func plannedLabel(u types.Unit, o types.Outcome) string {
	switch o.Planned {
	case types.OutcomeBackedUpAndReplaced:
		return "backed up and " + actionVerb(u.Action)
	case types.OutcomeReplaced:
		return "replaced"
	case types.OutcomeUnchanged, types.OutcomeRenderUnchanged:
		return "unchanged"
	case types.OutcomeSkippedConflict:
		return "skipped, " + conflictReason(o)
	case types.OutcomeSkippedExternal:
		return "skipped, links to " + o.LinkTarget
	case types.OutcomeFailed:
		return "failed: " + o.Reason
	}
	return actionVerb(u.Action)
}

func conflictReason(o types.Outcome) string {
	if o.Reason != "" {
		return o.Reason
	}
	return "file exists (use --force to back it up and replace it)"
}

func actionVerb(a types.ActionKind) string {
	switch a {
	case types.ActionCopy:
		return "copied"
	case types.ActionRender:
		return "rendered"
	}
	return "linked"
}

func actionStyle(a types.ActionKind) string {
	switch a {
	case types.ActionCopy:
		return "Copy"
	case types.ActionRender:
		return "Render"
	}
	return "Symlink"
}

// removalOrder is the order of unlink summary counts
var removalOrder = []struct {
	result reconcile.RemovalResult
	label  string
	color  pterm.Color
}{
	{reconcile.Removed, "removed", pterm.FgGreen},
	{reconcile.WouldRemove, "would be removed", pterm.FgCyan},
	{reconcile.Kept, "kept", pterm.FgYellow},
	{reconcile.NotPresent, "already gone", pterm.FgGray},
	{reconcile.RemoveFailed, "failed", pterm.FgRed},
}

// Unlink reports every removal, then a summary
func (r *Reporter) Unlink(res *commands.UnlinkResult) {
	if res.DryRun {
		r.dryRunNotice()
	}
	r.Warnings(res.Warnings)

	counts := map[reconcile.RemovalResult]int{}
	for i, rr := range res.Repos {
		if i > 0 {
			r.println("")
		}
		r.header(rr.Name, "")
		if rr.Err != nil {
			r.item("failed", rr.Name, 0, r.theme.Render("Error", errorText(rr.Err)))
			continue
		}
		if rr.Result == nil {
			continue
		}
		if !rr.Result.FromManifest && r.verbose {
			r.detail("no manifest, only files provably placed by homie are removed")
		}

		rels := make([]string, 0, len(rr.Result.Removals))
		for _, rm := range rr.Result.Removals {
			rels = append(rels, filepath.ToSlash(rm.TargetRel))
		}
		width := pathWidth(rels)
		for i, rm := range rr.Result.Removals {
			counts[rm.Result]++
			if rm.Result == reconcile.NotPresent && !r.verbose {
				continue
			}
			r.item(string(rm.Result), rels[i], width, r.removalLabel(rm))
		}
	}

	if len(res.Repos) > 0 {
		r.println("")
	}
	items := make([]tally, 0, len(removalOrder))
	for _, o := range removalOrder {
		items = append(items, tally{n: counts[o.result], label: o.label, color: o.color})
	}
	r.summary(items)
}

func (r *Reporter) removalLabel(rm reconcile.Removal) string {
	switch rm.Result {
	case reconcile.Removed:
		return r.theme.Render("Success", "removed")
	case reconcile.WouldRemove:
		return r.theme.Render("DryRun", "would be removed")
	case reconcile.Kept:
		return r.theme.Render("Warning", "kept, "+rm.Reason)
	case reconcile.RemoveFailed:
		return r.theme.Render("Error", "failed: "+rm.Reason)
	}
	return r.theme.Render("Muted", "not present")
}
