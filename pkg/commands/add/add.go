package add

import (
	"context"
	"os"
	"path/filepath"

	"github.com/arthur-debert/homie/pkg/commands/internal"
	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/paths"
	"github.com/arthur-debert/homie/pkg/types"
	"github.com/rs/zerolog"
)

// AddFileOptions defines the options for the AddFile command
type AddFileOptions struct {
	internal.Env

	Repo string

	// Path is the file or directory to take over; ~ is expanded
	Path string
}

// AddFileResult describes the file taken over
type AddFileResult struct {
	Repo      string
	TargetRel string

	// Target is where the file was and the link now is
	Target string

	// Source is where the file lives inside the repository
	Source string
	IsDir  bool
	DryRun bool
}

// AddFile moves a file from under the repository's target into the
// repository at the same relative path, links it back and records the
// link in the manifest
func AddFile(ctx context.Context, opts AddFileOptions) (*AddFileResult, error) {
	logger := logging.GetLogger("commands.add")

	session, err := internal.Open(opts.Env)
	if err != nil {
		return nil, err
	}
	r, err := session.Registry.Find(opts.Repo)
	if err != nil {
		return nil, err
	}

	target, err := paths.Normalize(opts.Path)
	if err != nil {
		return nil, err
	}
	switch {
	case !paths.IsWithin(target, r.Target) || target == r.Target:
		return nil, errors.Newf(errors.ErrInvalidInput, "%s is not under the target of %s (%s)", target, r.Name, r.Target)
	case paths.IsWithin(target, r.Path):
		return nil, errors.Newf(errors.ErrInvalidInput, "%s is already inside repo %s", target, r.Name)
	}

	info, err := session.FS.Lstat(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrFileNotFound, "%s does not exist", target)
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", target)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s is a symlink; only regular files and directories can be added", target)
	}

	rel, err := filepath.Rel(r.Target, target)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot relate %s to %s", target, r.Target)
	}
	source := filepath.Join(r.Path, rel)
	if _, err := session.FS.Lstat(source); err == nil {
		return nil, errors.Newf(errors.ErrAlreadyExists, "%s already exists in repo %s", rel, r.Name)
	}

	result := &AddFileResult{
		Repo:      r.Name,
		TargetRel: rel,
		Target:    target,
		Source:    source,
		IsDir:     info.IsDir(),
		DryRun:    opts.DryRun,
	}
	log := logger.With().Str("repo", r.Name).Str("target", target).Str("source", source).Logger()
	if opts.DryRun {
		log.Info().Msg("Dry run, file not added")
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// the manifest is read first so a bad manifest stops us before any move
	m, err := session.Store.Load(r.Path)
	if err != nil {
		return nil, err
	}

	if err := move(session.FS, log, target, source); err != nil {
		return nil, err
	}
	if err := session.FS.Symlink(source, target); err != nil {
		log.Error().Err(err).Msg("Failed to link back, attempting to roll back move")
		if rbErr := session.FS.Rename(source, target); rbErr != nil {
			log.Error().Err(rbErr).Msg("Failed to roll back move")
			return nil, errors.Wrapf(err, errors.ErrSymlinkCreate,
				"failed to link %s back and failed to restore it; the file is now at %s", target, source)
		}
		return nil, errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s", target)
	}

	m.Set(rel, types.ActionSymlink)
	if err := session.Store.Save(r.Path, m); err != nil {
		return result, err
	}

	log.Info().Bool("dir", result.IsDir).Msg("File added")
	return result, nil
}

// move renames src to dst, falling back to copy and remove across devices
func move(fsys types.FS, logger zerolog.Logger, src, dst string) error {
	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(dst))
	}
	err := fsys.Rename(src, dst)
	if err == nil {
		return nil
	}
	logger.Debug().Err(err).Msg("Rename failed, copying instead")

	if err := fsys.Copy(src, dst); err != nil {
		_ = fsys.RemoveAll(dst)
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to copy %s into the repo", src)
	}
	if err := fsys.RemoveAll(src); err != nil {
		return errors.Wrapf(err, errors.ErrFileRemove, "copied %s but failed to remove the original", src)
	}
	return nil
}
