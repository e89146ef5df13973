// Package git runs the handful of git operations homie needs by shelling
// out to the git binary.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/homie/pkg/errors"
	"github.com/arthur-debert/homie/pkg/logging"
)

// Client provides git operations for import caches and repo clones
type Client interface {
	// Clone clones url into dest. A shallow clone fetches a single commit.
	// ref may be empty for the remote's default branch.
	Clone(ctx context.Context, url, dest, ref string, shallow bool) error

	// Update brings an existing checkout up to date. With a ref it fetches
	// and checks out that ref, otherwise it fast-forwards the current branch.
	Update(ctx context.Context, dir, ref string) error
}

// ShellClient implements Client with the git command
type ShellClient struct {
	binary string
}

// NewShellClient returns a client using git from PATH
func NewShellClient() *ShellClient {
	return &ShellClient{binary: "git"}
}

// Available reports whether the git binary can be found
func (c *ShellClient) Available() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}

func (c *ShellClient) Clone(ctx context.Context, url, dest, ref string, shallow bool) error {
	logger := logging.GetLogger("git")

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent directory for %s", dest)
	}

	args := []string{"clone"}
	if shallow {
		args = append(args, "--depth", "1")
	}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, url, dest)

	logger.Debug().Str("url", url).Str("dest", dest).Str("ref", ref).Msg("Cloning")
	if err := c.run(ctx, "", args...); err != nil {
		return errors.Wrapf(err, errors.ErrGit, "git clone %s failed", url).WithDetail("url", url)
	}
	return nil
}

func (c *ShellClient) Update(ctx context.Context, dir, ref string) error {
	logger := logging.GetLogger("git")
	logger.Debug().Str("dir", dir).Str("ref", ref).Msg("Updating")

	if ref == "" {
		if err := c.run(ctx, dir, "pull", "--ff-only"); err != nil {
			return errors.Wrapf(err, errors.ErrGit, "git pull in %s failed", dir).WithDetail("dir", dir)
		}
		return nil
	}

	if err := c.run(ctx, dir, "fetch", "origin", ref); err != nil {
		return errors.Wrapf(err, errors.ErrGit, "git fetch %s in %s failed", ref, dir).WithDetail("dir", dir)
	}
	// a shallow clone only knows the fetched ref as FETCH_HEAD
	if err := c.run(ctx, dir, "checkout", ref); err != nil {
		if err2 := c.run(ctx, dir, "checkout", "FETCH_HEAD"); err2 != nil {
			return errors.Wrapf(err, errors.ErrGit, "git checkout %s in %s failed", ref, dir).WithDetail("dir", dir)
		}
	}
	return nil
}

// IsRepo reports whether dir holds a git checkout
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// run executes git and returns an error carrying its output on failure
func (c *ShellClient) run(ctx context.Context, dir string, args ...string) error {
	defer logging.LogDuration(time.Now(), "git "+args[0])
	if dir != "" {
		args = append([]string{"-C", dir}, args...)
	}
	logging.LogCommand(c.binary, args)

	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
