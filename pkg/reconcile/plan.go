package reconcile

import (
	"github.com/arthur-debert/homie/pkg/config"
	"github.com/arthur-debert/homie/pkg/manifest"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/arthur-debert/homie/pkg/vars"
)

// Plan is everything the engine needs to reconcile one repository
type Plan struct {
	RepoName string
	RepoPath string

	// TargetRoot is the directory unit TargetRel paths are relative to
	TargetRoot string

	// OwnedRoots are the repository and every import layer root
	OwnedRoots []string

	// Units in walker order
	Units []types.Unit

	Vars vars.Vars
}

// Options are fixed for the lifetime of an engine
type Options struct {
	DryRun bool
	Force  bool

	// BackupSuffix is a strftime pattern appended to backed up targets
	BackupSuffix string

	// ReplaceablePaths are roots whose symlinks homie may overwrite
	ReplaceablePaths []string
}

// OptionsFrom takes the settings part of the options from global
func OptionsFrom(global *config.GlobalConfig, dryRun, force bool) Options {
	opts := Options{DryRun: dryRun, Force: force}
	if global != nil {
		opts.BackupSuffix = global.Settings.BackupSuffix
		opts.ReplaceablePaths = append(opts.ReplaceablePaths, global.Settings.ReplaceablePaths...)
	}
	if opts.BackupSuffix == "" {
		opts.BackupSuffix = config.DefaultGlobal().Settings.BackupSuffix
	}
	return opts
}

// UnitResult pairs a unit with what happened to it
type UnitResult struct {
	Unit    types.Unit
	Outcome types.Outcome
}

// Result of reconciling one repository
type Result struct {
	Repo   string
	DryRun bool
	Units  []UnitResult

	// Orphans are previous manifest entries with no current unit
	Orphans []manifest.Orphan

	// Manifest is the manifest written (or, under dry-run, not written)
	Manifest *manifest.Manifest
}

// Failed reports whether any unit failed
func (r *Result) Failed() bool {
	for _, u := range r.Units {
		if u.Outcome.Kind == types.OutcomeFailed {
			return true
		}
	}
	return false
}

// Counts tallies outcomes by effective kind, looking through dry-run previews
func (r *Result) Counts() map[types.OutcomeKind]int {
	counts := map[types.OutcomeKind]int{}
	for _, u := range r.Units {
		counts[u.Outcome.Effective()]++
	}
	return counts
}
