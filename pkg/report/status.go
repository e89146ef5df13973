package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/arthur-debert/homie/pkg/commands"
	"github.com/arthur-debert/homie/pkg/reconcile"
	"github.com/pterm/pterm"
)

var statusColors = map[reconcile.UnitStatus]pterm.Color{
	reconcile.StatusLinked:   pterm.FgGreen,
	reconcile.StatusRendered: pterm.FgGreen,
	reconcile.StatusCopied:   pterm.FgGreen,
	reconcile.StatusStale:    pterm.FgYellow,
	reconcile.StatusExternal: pterm.FgYellow,
	reconcile.StatusMissing:  pterm.FgGray,
	reconcile.StatusConflict: pterm.FgRed,
}

// Status prints per-repository status counts. Units are listed one per
// line with verbose output, and always when they need attention.
func (r *Reporter) Status(res *commands.StatusResult) {
	r.Warnings(res.Warnings)

	if len(res.Repos) == 0 {
		r.println(r.theme.Render("Muted", "No repositories found."))
		return
	}

	for i, rs := range res.Repos {
		if i > 0 {
			r.println("")
		}
		r.header(rs.Name, rs.Target)
		if rs.Err != nil {
			r.item("failed", rs.Name, 0, r.theme.Render("Error", errorText(rs.Err)))
			continue
		}
		if rs.Prepared != nil {
			r.prepared(rs.Prepared)
		}
		if rs.Report == nil {
			continue
		}

		rels := make([]string, 0, len(rs.Report.Entries))
		for _, e := range rs.Report.Entries {
			rels = append(rels, displayRel(e.Unit))
		}
		width := pathWidth(rels)
		for i, e := range rs.Report.Entries {
			if !r.verbose && e.Status.InSync() {
				continue
			}
			label := string(e.Status)
			if e.Detail != "" {
				label += ", " + e.Detail
			}
			r.item(string(e.Status), rels[i], width, r.theme.Render(statusStyle(e.Status), label))
		}
		for _, o := range rs.Report.Orphans {
			r.item("orphan", filepath.ToSlash(o.TargetRel), width, r.theme.Render("Warning", "recorded but no longer in the repo"))
		}

		counts := rs.Report.Counts()
		items := make([]tally, 0, len(reconcile.Statuses))
		for _, s := range reconcile.Statuses {
			items = append(items, tally{n: counts[s], label: string(s), color: statusColors[s]})
		}
		r.printf("  ")
		r.summary(items)
	}
}

func statusStyle(s reconcile.UnitStatus) string {
	switch s {
	case reconcile.StatusConflict:
		return "Error"
	case reconcile.StatusStale, reconcile.StatusExternal:
		return "Warning"
	case reconcile.StatusMissing:
		return "Muted"
	}
	return "Success"
}

// Diff lists differing units. With verbose output each is followed by its
// unified diff, highlighted on a styled theme.
func (r *Reporter) Diff(res *commands.DiffResult) {
	r.Warnings(res.Warnings)

	if res.Empty() {
		failed := false
		for _, rd := range res.Repos {
			if rd.Err != nil {
				failed = true
			}
		}
		if !failed {
			r.println(r.theme.Render("Success", "No differences."))
			return
		}
	}

	first := true
	for _, rd := range res.Repos {
		if len(rd.Diffs) == 0 && rd.Err == nil {
			continue
		}
		if !first {
			r.println("")
		}
		first = false
		r.header(rd.Name, rd.Target)
		if rd.Err != nil {
			r.item("failed", rd.Name, 0, r.theme.Render("Error", errorText(rd.Err)))
			continue
		}

		rels := make([]string, 0, len(rd.Diffs))
		for _, d := range rd.Diffs {
			rels = append(rels, displayRel(d.Unit))
		}
		width := pathWidth(rels)
		for i, d := range rd.Diffs {
			r.item(string(d.Kind), rels[i], width, r.diffLabel(d))
			if r.verbose && d.Unified != "" {
				r.unified(d.Unified)
			}
		}
	}
}

func (r *Reporter) diffLabel(d reconcile.FileDiff) string {
	var label string
	switch {
	case d.Kind == reconcile.DiffConflict:
		label = r.theme.Render("Error", fmt.Sprintf("conflict, not placed by homie (%s)", d.Unit.Action))
	default:
		label = r.theme.Render("Warning", "modified in target")
	}
	if d.Binary {
		label += r.theme.Render("Muted", ", binary files differ")
	}
	return label
}

// unified prints a diff, through chroma when color is on
func (r *Reporter) unified(text string) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if !r.theme.Plain() {
		if err := quick.Highlight(r.w, text, "diff", "terminal256", "monokai"); err == nil {
			return
		}
	}
	r.printf("%s", text)
}
