package report

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/homie/pkg/commands"
	"github.com/charmbracelet/glamour"
)

// List prints every discovered repository
func (r *Reporter) List(res *commands.ListReposResult) {
	r.Warnings(res.Warnings)

	if len(res.Repos) == 0 {
		r.printf("No repositories found in %s\n", r.theme.Render("Path", res.ReposRoot))
		return
	}

	for i, info := range res.Repos {
		if i > 0 {
			r.println("")
		}
		r.header(info.Name, info.Target)
		if info.Err != nil {
			r.printf("  %s %s\n", r.theme.Indicator("failed"), r.theme.Render("Error", errorText(info.Err)))
		} else {
			r.printf("  %s\n", r.theme.Render("Count", unitsText(info.Units)))
		}
		if r.verbose {
			r.printf("  %s %s\n", r.theme.Render("Muted", "path:"), r.theme.Render("Path", info.Path))
		}
		if len(info.Vars) > 0 {
			r.printf("  %s %s\n", r.theme.Render("Muted", "vars:"), strings.Join(info.Vars, ", "))
		}
		for _, imp := range info.Imports {
			source := imp.Source
			if imp.Ref != "" {
				source += "@" + imp.Ref
			}
			r.printf("  %s %s %s\n",
				r.theme.Render("Muted", "import:"),
				r.theme.Render("Repo", imp.Name),
				r.theme.Render("Muted", fmt.Sprintf("(%s, %s)", imp.Kind, source)))
		}
	}
}

func unitsText(n int) string {
	if n == 1 {
		return "1 unit"
	}
	return fmt.Sprintf("%d units", n)
}

// Init reports a created repository and what to do next
func (r *Reporter) Init(res *commands.InitRepoResult) {
	if res.DryRun {
		r.printf("%s %s\n", r.theme.Render("DryRun", "Would create repo"), r.theme.Render("Repo", res.Name))
		r.printf("  %s\n", r.theme.Render("Path", res.ConfigFile))
		return
	}
	r.printf("%s %s %s\n", r.theme.Indicator("created"), r.theme.Render("Success", "Created repo"), r.theme.Render("Repo", res.Name))
	r.printf("  %s\n", r.theme.Render("Path", res.ConfigFile))
	r.nextSteps(fmt.Sprintf(`## Next steps

- Put files in **%s** laid out as they should appear under `+"`%s`"+`
- Add existing files with `+"`homie add %s <file>`"+`
- Preview with `+"`homie link %s --dry-run`"+`, then run it for real
`, res.Path, res.Target, res.Name, res.Name))
}

// Clone reports a cloned repository
func (r *Reporter) Clone(res *commands.CloneRepoResult) {
	if res.DryRun {
		r.printf("%s %s %s %s\n", r.theme.Render("DryRun", "Would clone"), r.theme.Render("Path", res.URL),
			r.theme.Render("DryRun", "as"), r.theme.Render("Repo", res.Name))
		return
	}
	r.printf("%s %s %s\n", r.theme.Indicator("created"), r.theme.Render("Success", "Cloned repo"), r.theme.Render("Repo", res.Name))
	r.printf("  %s\n", r.theme.Render("Path", res.Path))
	if !res.HasConfig {
		r.printf("%s %s\n", r.theme.Indicator("warning"),
			r.theme.Render("Warning", "the clone has no homie.toml and will be ignored until one is added"))
		r.nextSteps(fmt.Sprintf("Create `%s/homie.toml` with at least a `target = \"~\"` line.\n", res.Path))
		return
	}
	r.nextSteps(fmt.Sprintf("Preview with `homie link %s --dry-run`, then run it for real.\n", res.Name))
}

// Add reports a file taken over by a repository
func (r *Reporter) Add(res *commands.AddFileResult) {
	what := "file"
	if res.IsDir {
		what = "directory"
	}
	if res.DryRun {
		r.printf("%s %s %s %s\n", r.theme.Render("DryRun", "Would move "+what),
			r.theme.Render("Path", res.Target), r.theme.Render("DryRun", "to"), r.theme.Render("Path", res.Source))
		return
	}
	r.printf("%s %s %s %s %s\n", r.theme.Indicator("created"), r.theme.Render("Success", "Moved "+what),
		r.theme.Render("Path", res.Target), r.theme.Render("Muted", "into"), r.theme.Render("Repo", res.Repo))
	r.printf("  %s %s\n", r.theme.Render("Path", res.Target), r.theme.Render("Symlink", "→ "+res.Source))
}

// nextSteps prints markdown, rendered with glamour on a styled theme
func (r *Reporter) nextSteps(md string) {
	if r.theme.Plain() {
		r.println("")
		r.printf("%s", md)
		return
	}
	tr, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err == nil {
		if out, err := tr.Render(md); err == nil {
			r.printf("%s", out)
			return
		}
	}
	r.println("")
	r.printf("%s", md)
}
