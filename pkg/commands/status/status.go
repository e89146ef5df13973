package status

import (
	"context"

	"github.com/arthur-debert/homie/pkg/commands/internal"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/reconcile"
	"github.com/arthur-debert/homie/pkg/repo"
)

// StatusOptions defines the options for the Status command
type StatusOptions struct {
	internal.Env

	// Repo limits the report to one repository; empty means all
	Repo string
}

// RepoStatus is the status of one repository
type RepoStatus struct {
	Name     string
	Target   string
	Prepared *repo.Prepared
	Report   *reconcile.StatusReport
	Err      error
}

// StatusResult collects every repository inspected
type StatusResult struct {
	Repos    []RepoStatus
	Warnings []repo.LoadWarning
}

// InSync reports whether every unit of every repository needs no work
func (r *StatusResult) InSync() bool {
	for _, rs := range r.Repos {
		if rs.Err != nil || rs.Report == nil {
			return false
		}
		for _, e := range rs.Report.Entries {
			if !e.Status.InSync() {
				return false
			}
		}
	}
	return true
}

// Status reports how each unit's target compares to what link would place.
// Nothing is written and git is never run.
func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	logger := logging.GetLogger("commands.status")
	logger.Debug().Str("command", "Status").Str("repo", opts.Repo).Msg("Executing command")

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
	result := &StatusResult{Warnings: warnings}

	for _, r := range repos {
		rs := RepoStatus{Name: r.Name, Target: r.Target}
		prepared, err := planner.Prepare(ctx, r)
		if err != nil {
			if ctx.Err() != nil {
				return result, err
			}
			rs.Err = err
			result.Repos = append(result.Repos, rs)
			continue
		}
		rs.Prepared = prepared

		report, err := engine.Status(ctx, prepared.Plan)
		if ctx.Err() != nil {
			return result, err
		}
		rs.Report, rs.Err = report, err
		result.Repos = append(result.Repos, rs)
	}

	logger.Info().Int("repos", len(result.Repos)).Bool("in_sync", result.InSync()).Msg("Command finished")
	return result, nil
}
