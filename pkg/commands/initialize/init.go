package initialize

import (
	"strings"

	"github.com/arthur-debert/homie/pkg/commands/internal"
	"github.com/arthur-debert/homie/pkg/config"
	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/paths"
	"github.com/arthur-debert/homie/pkg/repo"
	"github.com/arthur-debert/homie/pkg/template"
)

// DefaultTarget is used when init is given no target
const DefaultTarget = "~"

// InitRepoOptions defines the options for the InitRepo command
type InitRepoOptions struct {
	internal.Env

	Name string

	// Target is written to homie.toml as given; ~ is kept unexpanded
	Target string
}

// InitRepoResult describes the repository created
type InitRepoResult struct {
	Name       string
	Path       string
	ConfigFile string
	Target     string
	DryRun     bool
}

// InitRepo creates a repository directory with a commented homie.toml
func InitRepo(opts InitRepoOptions) (*InitRepoResult, error) {
	logger := logging.GetLogger("commands.init")

	if err := repo.ValidateName(opts.Name); err != nil {
		return nil, err
	}
	target := strings.TrimSpace(opts.Target)
	if target == "" {
		target = DefaultTarget
	}

	session, err := internal.Open(opts.Env)
	if err != nil {
		return nil, err
	}
	if session.Registry.Exists(opts.Name) {
		return nil, errors.Newf(errors.ErrRepoExists, "repo %s already exists", opts.Name).
			WithDetail("path", session.Paths.RepoPath(opts.Name))
	}

	repoPath := session.Paths.RepoPath(opts.Name)
	result := &InitRepoResult{
		Name:       opts.Name,
		Path:       repoPath,
		ConfigFile: paths.RepoConfigPath(repoPath),
		Target:     target,
		DryRun:     opts.DryRun,
	}

	content, err := template.Render(config.RepoConfigTemplate(), map[string]string{
		"name":   opts.Name,
		"target": tomlEscape(target),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render homie.toml")
	}

	if opts.DryRun {
		logger.Info().Str("repo", opts.Name).Msg("Dry run, repository not created")
		return result, nil
	}

	if err := session.FS.MkdirAll(repoPath, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", repoPath)
	}
	if err := session.FS.WriteFile(result.ConfigFile, []byte(content), 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", result.ConfigFile)
	}

	logger.Info().Str("repo", opts.Name).Str("path", repoPath).Str("target", target).Msg("Repository created")
	return result, nil
}

// tomlEscape makes s safe inside a basic TOML string
func tomlEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
