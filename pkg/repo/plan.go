package repo

import (
	"context"

	"github.com/arthur-debert/homie/pkg/config"
	"github.com/arthur-debert/homie/pkg/imports"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/reconcile"
	"github.com/arthur-debert/homie/pkg/strategy"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/arthur-debert/homie/pkg/vars"
	"github.com/arthur-debert/homie/pkg/walker"
)

// Prepared is a plan plus what was learned while building it
type Prepared struct {
	Repo *Repo
	Plan *reconcile.Plan

	// FetchErrors are imports skipped because they could not be fetched
	FetchErrors []*imports.ImportFetchError

	// Skipped are source paths the walker declined
	Skipped []walker.Skipped

	// Shadowed are imported paths hidden by a higher layer
	Shadowed []imports.Shadow
}

// Planner builds plans. Global configuration and the environment are fixed
// when the planner is created.
type Planner struct {
	fs       types.FS
	fetcher  *imports.Fetcher
	global   *config.GlobalConfig
	env      vars.Environment
	builtins vars.Builtins
}

// NewPlanner creates a planner
func NewPlanner(fsys types.FS, fetcher *imports.Fetcher, global *config.GlobalConfig, env vars.Environment, builtins vars.Builtins) *Planner {
	if global == nil {
		global = config.DefaultGlobal()
	}
	return &Planner{fs: fsys, fetcher: fetcher, global: global, env: env, builtins: builtins}
}

// Prepare fetches imports, merges layers and walks units for r
func (p *Planner) Prepare(ctx context.Context, r *Repo) (*Prepared, error) {
	logger := logging.GetLogger("repo").With().Str("repo", r.Name).Logger()
	cfg := r.Config

	available, fetchErrs := p.fetcher.FetchAll(ctx, r.Imports)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree, err := imports.Merge(p.fs, r.Path, available)
	if err != nil {
		return nil, err
	}

	resolver, err := strategy.FromTable(cfg.Strategies, cfg.StrategyOrder, cfg.Defaults.Strategy)
	if err != nil {
		return nil, err
	}
	ignores, err := cfg.IgnoreSet()
	if err != nil {
		return nil, err
	}

	walked := walker.New(resolver, ignores, r.Target).Walk(tree)
	resolved := vars.Resolve(cfg.Vars, p.global, p.env, p.builtins)

	logger.Debug().
		Int("units", len(walked.Units)).
		Int("layers", len(tree.Layers())).
		Int("vars", resolved.Len()).
		Msg("Plan prepared")

	return &Prepared{
		Repo: r,
		Plan: &reconcile.Plan{
			RepoName:   r.Name,
			RepoPath:   r.Path,
			TargetRoot: r.Target,
			OwnedRoots: tree.OwnedRoots(),
			Units:      walked.Units,
			Vars:       resolved,
		},
		FetchErrors: fetchErrs,
		Skipped:     walked.Skipped,
		Shadowed:    tree.Shadowed(),
	}, nil
}
