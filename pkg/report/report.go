package report

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/repo"
	"github.com/arthur-debert/homie/pkg/style"
	"github.com/pterm/pterm"
)

// Reporter writes command results to one writer
type Reporter struct {
	w       io.Writer
	theme   *style.Theme
	verbose bool
}

// New creates a reporter. With verbose, status lists every unit and diff
// prints unified diffs.
func New(w io.Writer, theme *style.Theme, verbose bool) *Reporter {
	if theme == nil {
		theme = style.NewTheme(w)
	}
	return &Reporter{w: w, theme: theme, verbose: verbose}
}

func (r *Reporter) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.w, format, args...)
}

func (r *Reporter) println(s string) {
	fmt.Fprintln(r.w, s)
}

// header prints a repository name and where it places files
func (r *Reporter) header(name, target string) {
	line := r.theme.Render("Repo", name)
	if target != "" {
		line += " " + r.theme.Render("Muted", "→ "+target)
	}
	r.println(line)
}

// item prints one indented line: indicator, padded path, label
func (r *Reporter) item(key, path string, width int, label string) {
	pad := width - style.Width(path)
	if pad < 0 {
		pad = 0
	}
	r.printf("  %s %s%s  %s\n",
		r.theme.Indicator(key),
		r.theme.Render("Path", path),
		strings.Repeat(" ", pad),
		label)
}

func (r *Reporter) detail(text string) {
	r.printf("      %s\n", r.theme.Render("Detail", text))
}

func (r *Reporter) dryRunNotice() {
	r.println(r.theme.Render("DryRun", "Dry run: nothing will be changed"))
	r.println("")
}

// Warnings reports repositories that could not be loaded
func (r *Reporter) Warnings(warnings []repo.LoadWarning) {
	for _, w := range warnings {
		r.printf("%s %s %s\n",
			r.theme.Indicator("warning"),
			r.theme.Render("Warning", "skipped "+w.Path+":"),
			errorText(w.Err))
	}
	if len(warnings) > 0 {
		r.println("")
	}
}

// Error prints a fatal error. Details are shown with verbose output.
func (r *Reporter) Error(err error) {
	if err == nil {
		return
	}
	r.println(r.theme.Render("Error", "Error: "+errorText(err)))
	if !r.verbose {
		return
	}
	if code := errors.GetErrorCode(err); code != errors.ErrUnknown {
		r.detail("code: " + string(code))
	}
	details := errors.GetErrorDetails(err)
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.detail(fmt.Sprintf("%s: %v", k, details[k]))
	}
}

// codeTag matches the [CODE] markers coded errors carry in their text
var codeTag = regexp.MustCompile(`\[[A-Z_]+\] `)

// errorText is err's message without [CODE] markers
func errorText(err error) string {
	if err == nil {
		return ""
	}
	return codeTag.ReplaceAllString(err.Error(), "")
}

// tally is one entry of a summary line
type tally struct {
	n     int
	label string
	color pterm.Color
}

// summary prints non-zero tallies joined by commas. Counts are colored
// with pterm on a styled theme.
func (r *Reporter) summary(items []tally) {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if it.n == 0 {
			continue
		}
		text := fmt.Sprintf("%d %s", it.n, it.label)
		if !r.theme.Plain() {
			text = pterm.NewStyle(it.color, pterm.Bold).Sprint(text)
		}
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing to do")
	}
	r.println(strings.Join(parts, ", "))
}

// pathWidth returns the width of the longest path for column alignment
func pathWidth(paths []string) int {
	w := 0
	for _, p := range paths {
		if n := style.Width(p); n > w {
			w = n
		}
	}
	return w
}
