package link

import (
	"context"

	"github.com/arthur-debert/homie/pkg/commands/internal"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/reconcile"
	"github.com/arthur-debert/homie/pkg/repo"
	"github.com/arthur-debert/homie/pkg/types"
)

// LinkOptions defines the options for the Link command
type LinkOptions struct {
	internal.Env

	// Repo limits the run to one repository; empty means all
	Repo string

	// Force backs up and replaces conflicting targets
	Force bool

	// SkipFetch uses cached git imports without running git
	SkipFetch bool
}

// RepoResult is the outcome for one repository. Err is set when the
// repository could not be reconciled at all.
type RepoResult struct {
	Prepared *repo.Prepared
	Result   *reconcile.Result
	Name     string
	Err      error
}

// LinkResult collects every repository processed
type LinkResult struct {
	DryRun   bool
	Repos    []RepoResult
	Warnings []repo.LoadWarning
}

// Failed reports whether any unit or repository failed
func (r *LinkResult) Failed() bool {
	for _, rr := range r.Repos {
		if rr.Err != nil || (rr.Result != nil && rr.Result.Failed()) {
			return true
		}
	}
	return false
}

// Counts tallies outcomes across every repository
func (r *LinkResult) Counts() map[types.OutcomeKind]int {
	counts := map[types.OutcomeKind]int{}
	for _, rr := range r.Repos {
		if rr.Result == nil {
			continue
		}
		for kind, n := range rr.Result.Counts() {
			counts[kind] += n
		}
	}
	return counts
}

// Link reconciles the selected repositories in name order
func Link(ctx context.Context, opts LinkOptions) (*LinkResult, error) {
	logger := logging.GetLogger("commands.link")
	done := logging.LogOperationStart(logger, "link")
	defer done()

	session, err := internal.Open(opts.Env)
	if err != nil {
		return nil, err
	}
	repos, warnings, err := session.Select(opts.Repo)
	if err != nil {
		return nil, err
	}

	planner := session.Planner(opts.SkipFetch)
	engine := session.Engine(opts.Force)
	result := &LinkResult{DryRun: opts.DryRun, Warnings: warnings}

	for _, r := range repos {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		rr := RepoResult{Name: r.Name}

		prepared, err := planner.Prepare(ctx, r)
		if err != nil {
			logger.Error().Err(err).Str("repo", r.Name).Msg("Failed to plan repository")
			rr.Err = err
			result.Repos = append(result.Repos, rr)
			continue
		}
		rr.Prepared = prepared

		res, err := engine.Reconcile(ctx, prepared.Plan)
		if ctx.Err() != nil {
			return result, err
		}
		if err != nil {
			logger.Error().Err(err).Str("repo", r.Name).Msg("Failed to reconcile repository")
			rr.Err = err
		}
		rr.Result = res
		result.Repos = append(result.Repos, rr)
	}

	logger.Info().
		Int("repos", len(result.Repos)).
		Bool("dry_run", opts.DryRun).
		Bool("failed", result.Failed()).
		Msg("Link finished")
	return result, nil
}
