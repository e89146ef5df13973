package clone

import (
	"context"
	"strings"

	"github.com/arthur-debert/homie/pkg/commands/internal"
	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/imports"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/paths"
	"github.com/arthur-debert/homie/pkg/repo"
)

// CloneRepoOptions defines the options for the CloneRepo command
type CloneRepoOptions struct {
	internal.Env

	URL string

	// Name defaults to the last segment of the URL
	Name string
}

// CloneRepoResult describes the cloned repository
type CloneRepoResult struct {
	Name   string
	Path   string
	URL    string
	DryRun bool

	// HasConfig is false when the clone has no homie.toml; discovery will
	// ignore it until one is added
	HasConfig bool
}

// CloneRepo clones a repository into the repos root
func CloneRepo(ctx context.Context, opts CloneRepoOptions) (*CloneRepoResult, error) {
	logger := logging.GetLogger("commands.clone")

	url := strings.TrimSpace(opts.URL)
	if url == "" {
		return nil, errors.New(errors.ErrInvalidInput, "repository URL cannot be empty")
	}
	name := opts.Name
	if name == "" {
		name = imports.NameFromURL(url)
	}
	if err := repo.ValidateName(name); err != nil {
		return nil, err
	}

	session, err := internal.Open(opts.Env)
	if err != nil {
		return nil, err
	}
	if session.Registry.Exists(name) {
		return nil, errors.Newf(errors.ErrRepoExists, "repo %s already exists", name).
			WithDetail("path", session.Paths.RepoPath(name))
	}

	result := &CloneRepoResult{
		Name:   name,
		Path:   session.Paths.RepoPath(name),
		URL:    url,
		DryRun: opts.DryRun,
	}
	if opts.DryRun {
		logger.Info().Str("url", url).Str("name", name).Msg("Dry run, repository not cloned")
		return result, nil
	}

	if err := session.Git.Clone(ctx, url, result.Path, "", false); err != nil {
		return nil, err
	}

	if _, err := session.FS.Stat(paths.RepoConfigPath(result.Path)); err == nil {
		result.HasConfig = true
	} else {
		logger.Warn().Str("repo", name).Msg("Cloned repository has no homie.toml")
	}

	logger.Info().Str("repo", name).Str("path", result.Path).Msg("Repository cloned")
	return result, nil
}
