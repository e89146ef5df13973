// Package internal holds the plumbing shared by every command: resolving
// paths, loading the global configuration once, and building planners and
// engines from it.
package internal

import (
	"github.com/arthur-debert/homie/pkg/clock"
	"github.com/arthur-debert/homie/pkg/config"
	"github.com/arthur-debert/homie/pkg/filesystem"
	"github.com/arthur-debert/homie/pkg/git"
	"github.com/arthur-debert/homie/pkg/imports"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/manifest"
	"github.com/arthur-debert/homie/pkg/paths"
	"github.com/arthur-debert/homie/pkg/reconcile"
	"github.com/arthur-debert/homie/pkg/repo"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/arthur-debert/homie/pkg/vars"
)

// Env carries the settings every command shares
type Env struct {
	// ReposRoot overrides HOMIE_REPOS_DIR and ~/.homie/repos
	ReposRoot string

	DryRun bool

	// Optional collaborators, defaulted to the real implementations
	FileSystem types.FS
	Git        git.Client
	Clock      clock.Clock

	// Environment replaces the process environment for template variables
	Environment vars.Environment

	// Builtins replaces the detected hostname, user, home and os
	Builtins *vars.Builtins
}

// Session is a command's view of the world, built once per invocation
type Session struct {
	FS       types.FS
	Paths    paths.Paths
	Registry *repo.Registry
	Global   *config.GlobalConfig
	Store    manifest.Store
	Clock    clock.Clock
	Git      git.Client
	DryRun   bool

	env      vars.Environment
	builtins vars.Builtins
}

// Open resolves paths and loads the global configuration
func Open(env Env) (*Session, error) {
	logger := logging.GetLogger("commands")

	fsys := env.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	clk := env.Clock
	if clk == nil {
		clk = clock.New()
	}
	gitClient := env.Git
	if gitClient == nil {
		gitClient = git.NewShellClient()
	}

	p, err := paths.New(env.ReposRoot)
	if err != nil {
		return nil, err
	}
	global, err := config.LoadGlobal(p.ConfigFile())
	if err != nil {
		return nil, err
	}

	environment := env.Environment
	if environment == nil {
		files := make([]string, 0, len(global.Env.Files))
		for _, f := range global.Env.Files {
			files = append(files, paths.ExpandHome(f))
		}
		environment = vars.ProcessEnvironment(files)
	}
	builtins := vars.SystemBuiltins()
	if env.Builtins != nil {
		builtins = *env.Builtins
	}

	logger.Debug().
		Str("repos_root", p.ReposRoot()).
		Str("config", global.Source).
		Bool("dry_run", env.DryRun).
		Msg("Session opened")

	return &Session{
		FS:       fsys,
		Paths:    p,
		Registry: repo.NewRegistry(fsys, p),
		Global:   global,
		Store:    manifest.NewStore(fsys, clk),
		Clock:    clk,
		Git:      gitClient,
		DryRun:   env.DryRun,
		env:      environment,
		builtins: builtins,
	}, nil
}

// Planner builds a planner. With skipFetch git imports are read from their
// caches as they are.
func (s *Session) Planner(skipFetch bool) *repo.Planner {
	fetcher := imports.NewFetcher(s.Git, s.FS)
	fetcher.SkipFetch = skipFetch
	fetcher.DryRun = s.DryRun
	return repo.NewPlanner(s.FS, fetcher, s.Global, s.env, s.builtins)
}

// Engine builds a reconciliation engine
func (s *Session) Engine(force bool) *reconcile.Engine {
	return reconcile.NewEngine(s.FS, s.Store, s.Clock, reconcile.OptionsFrom(s.Global, s.DryRun, force))
}

// Select returns the named repository, or all of them when name is empty
func (s *Session) Select(name string) ([]*repo.Repo, []repo.LoadWarning, error) {
	return s.Registry.Select(name)
}
