package imports

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/git"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/types"
)

// ImportFetchError records an import that could not be made available.
// The import is skipped; the run continues without it.
type ImportFetchError struct {
	Import string
	Source string
	Err    error
}

func (e *ImportFetchError) Error() string {
	return fmt.Sprintf("import %s (%s): %v", e.Import, e.Source, e.Err)
}

func (e *ImportFetchError) Unwrap() error {
	return e.Err
}

// Fetcher makes import trees available on disk
type Fetcher struct {
	git git.Client
	fs  types.FS

	// SkipFetch uses existing git caches as they are and never runs git
	SkipFetch bool

	// DryRun reports what would be fetched without running git
	DryRun bool
}

// NewFetcher creates a fetcher
func NewFetcher(client git.Client, fsys types.FS) *Fetcher {
	return &Fetcher{git: client, fs: fsys}
}

// EnsureAvailable clones or updates a git import, or checks that a local
// import exists. Any failure is an *ImportFetchError.
func (f *Fetcher) EnsureAvailable(ctx context.Context, imp *Import) error {
	logger := logging.GetLogger("imports").With().Str("import", imp.Name).Logger()
	fail := func(err error) error {
		return &ImportFetchError{Import: imp.Name, Source: imp.Source, Err: err}
	}

	if imp.Kind == KindLocal {
		info, err := f.fs.Stat(imp.Dir)
		if err != nil {
			return fail(errors.Wrapf(err, errors.ErrImportFetch, "import source %s does not exist", imp.Dir))
		}
		if !info.IsDir() {
			return fail(errors.Newf(errors.ErrImportFetch, "import source %s is not a directory", imp.Dir))
		}
		return nil
	}

	cached := f.isCheckout(imp.Dir)
	switch {
	case f.SkipFetch || (f.DryRun && cached):
		if !cached {
			return fail(errors.Newf(errors.ErrImportFetch, "%s has not been fetched yet", imp.Source))
		}
		logger.Debug().Msg("Using cached import")
		return nil

	case f.DryRun:
		// nothing to read from; the import is reported and skipped
		return fail(errors.Newf(errors.ErrImportFetch, "%s would be cloned", imp.Source))

	case cached:
		logger.Info().Str("ref", imp.Ref).Msg("Updating import")
		if err := f.git.Update(ctx, imp.Dir, imp.Ref); err != nil {
			return fail(err)
		}

	default:
		logger.Info().Str("ref", imp.Ref).Msg("Cloning import")
		if err := f.git.Clone(ctx, imp.Source, imp.Dir, imp.Ref, true); err != nil {
			return fail(err)
		}
	}
	return nil
}

// FetchAll makes every import available, returning those that are usable
// in declaration order and a failure per import that is not.
func (f *Fetcher) FetchAll(ctx context.Context, imps []*Import) ([]*Import, []*ImportFetchError) {
	logger := logging.GetLogger("imports")
	var ready []*Import
	var failed []*ImportFetchError

	for _, imp := range imps {
		if err := ctx.Err(); err != nil {
			failed = append(failed, &ImportFetchError{Import: imp.Name, Source: imp.Source, Err: err})
			continue
		}
		if err := f.EnsureAvailable(ctx, imp); err != nil {
			fe, ok := err.(*ImportFetchError)
			if !ok {
				fe = &ImportFetchError{Import: imp.Name, Source: imp.Source, Err: err}
			}
			logger.Warn().Err(fe.Err).Str("import", imp.Name).Msg("Skipping import")
			failed = append(failed, fe)
			continue
		}
		ready = append(ready, imp)
	}
	return ready, failed
}

func (f *Fetcher) isCheckout(dir string) bool {
	_, err := f.fs.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
