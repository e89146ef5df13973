package list

import (
	"context"

	"github.com/arthur-debert/homie/pkg/commands/internal"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/repo"
)

// ListReposOptions defines the options for the ListRepos command
type ListReposOptions struct {
	internal.Env
}

// ImportInfo describes one import of a repository
type ImportInfo struct {
	Name   string
	Source string
	Ref    string
	Kind   string
}

// RepoInfo summarizes one repository
type RepoInfo struct {
	Name    string
	Path    string
	Target  string
	Units   int
	Vars    []string
	Imports []ImportInfo

	// Err is set when the unit count could not be computed
	Err error
}

// ListReposResult lists every discovered repository
type ListReposResult struct {
	ReposRoot string
	Repos     []RepoInfo
	Warnings  []repo.LoadWarning
}

// ListRepos finds all repositories under the repos root
func ListRepos(ctx context.Context, opts ListReposOptions) (*ListReposResult, error) {
	log := logging.GetLogger("commands.list")
	log.Debug().Str("command", "ListRepos").Msg("Executing command")

	session, err := internal.Open(opts.Env)
	if err != nil {
		return nil, err
	}
	repos, warnings, err := session.Registry.Discover()
	if err != nil {
		return nil, err
	}

	planner := session.Planner(true)
	result := &ListReposResult{
		ReposRoot: session.Registry.Root(),
		Warnings:  warnings,
	}

	for _, r := range repos {
		info := RepoInfo{
			Name:   r.Name,
			Path:   r.Path,
			Target: r.Target,
			Vars:   r.Config.VarNames(),
		}
		for _, imp := range r.Imports {
			info.Imports = append(info.Imports, ImportInfo{
				Name:   imp.Name,
				Source: imp.Source,
				Ref:    imp.Ref,
				Kind:   string(imp.Kind),
			})
		}

		prepared, err := planner.Prepare(ctx, r)
		if err != nil {
			info.Err = err
		} else {
			info.Units = len(prepared.Plan.Units)
		}
		result.Repos = append(result.Repos, info)
	}

	log.Info().Str("command", "ListRepos").Int("repoCount", len(result.Repos)).Msg("Command finished")
	return result, nil
}
