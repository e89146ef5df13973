package unlink

import (
	"context"

	"github.com/arthur-debert/homie/pkg/commands/internal"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/reconcile"
	"github.com/arthur-debert/homie/pkg/repo"
)

// UnlinkOptions defines the options for the Unlink command
type UnlinkOptions struct {
	internal.Env

	// Repo limits teardown to one repository; empty means all
	Repo string
}

// RepoResult is the teardown of one repository
type RepoResult struct {
	Name   string
	Result *reconcile.TeardownResult
	Err    error
}

// UnlinkResult collects every repository torn down
type UnlinkResult struct {
	DryRun   bool
	Repos    []RepoResult
	Warnings []repo.LoadWarning
}

// Failed reports whether any removal or repository failed
func (r *UnlinkResult) Failed() bool {
	for _, rr := range r.Repos {
		if rr.Err != nil || (rr.Result != nil && rr.Result.Failed()) {
			return true
		}
	}
	return false
}

// Unlink removes everything the selected repositories placed. Git imports
// are never fetched; their caches are used as they are.
func Unlink(ctx context.Context, opts UnlinkOptions) (*UnlinkResult, error) {
	logger := logging.GetLogger("commands.unlink")
	done := logging.LogOperationStart(logger, "unlink")
	defer done()

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
	result := &UnlinkResult{DryRun: opts.DryRun, Warnings: warnings}

	for _, r := range repos {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		rr := RepoResult{Name: r.Name}

		prepared, err := planner.Prepare(ctx, r)
		if err != nil {
			rr.Err = err
			result.Repos = append(result.Repos, rr)
			continue
		}

		res, err := engine.Teardown(ctx, prepared.Plan, nil)
		if ctx.Err() != nil {
			return result, err
		}
		rr.Result, rr.Err = res, err
		result.Repos = append(result.Repos, rr)
	}

	logger.Info().Int("repos", len(result.Repos)).Bool("dry_run", opts.DryRun).Msg("Unlink finished")
	return result, nil
}
