package diff

import (
	"context"

	"github.com/arthur-debert/homie/pkg/commands/internal"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/reconcile"
	"github.com/arthur-debert/homie/pkg/repo"
)

// DiffOptions defines the options for the Diff command
type DiffOptions struct {
	internal.Env

	// Repo limits the diff to one repository; empty means all
	Repo string
}

// RepoDiff lists the differing units of one repository
type RepoDiff struct {
	Name   string
	Target string
	Diffs  []reconcile.FileDiff
	Err    error
}

// DiffResult collects every repository compared
type DiffResult struct {
	Repos    []RepoDiff
	Warnings []repo.LoadWarning
}

// Empty reports whether no repository has a difference
func (r *DiffResult) Empty() bool {
	for _, rd := range r.Repos {
		if len(rd.Diffs) > 0 {
			return false
		}
	}
	return true
}

// Diff compares copied and rendered targets with their sources, and lists
// regular files standing where a link belongs
func Diff(ctx context.Context, opts DiffOptions) (*DiffResult, error) {
	logger := logging.GetLogger("commands.diff")
	logger.Debug().Str("command", "Diff").Str("repo", opts.Repo).Msg("Executing command")

	session, err := internal.Open(opts.Env)
	if err != nil {
		return nil, err
	}
	repos, warnings, err := session.Select(opts.Repo)
	if err != nil {
		return nil, err
	}

	planner := session.Planner(true)
	engine := session.Engine(false)
	result := &DiffResult{Warnings: warnings}

	for _, r := range repos {
		rd := RepoDiff{Name: r.Name, Target: r.Target}
		prepared, err := planner.Prepare(ctx, r)
		if err != nil {
			if ctx.Err() != nil {
				return result, err
			}
			rd.Err = err
			result.Repos = append(result.Repos, rd)
			continue
		}

		diffs, err := engine.Diff(ctx, prepared.Plan)
		if ctx.Err() != nil {
			return result, err
		}
		rd.Diffs, rd.Err = diffs, err
		result.Repos = append(result.Repos, rd)
	}

	logger.Info().Int("repos", len(result.Repos)).Bool("empty", result.Empty()).Msg("Command finished")
	return result, nil
}
