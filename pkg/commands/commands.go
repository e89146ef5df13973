// Package commands provides the high-level command implementations for homie.
//
// Each command lives in its own subdirectory:
//   - link/       - Link: reconcile repositories into their targets
//   - unlink/     - Unlink: remove what a repository placed
//   - status/     - Status: compare targets with what link would place
//   - diff/       - Diff: content differences of copies and renders
//   - add/        - AddFile: move a file into a repository and link it back
//   - initialize/ - InitRepo: create a repository with a homie.toml
//   - clone/      - CloneRepo: clone a repository into the repos root
//   - list/       - ListRepos: summarize discovered repositories
//   - internal/   - Session setup shared by all of them
//
// Commands return results and never print; rendering is pkg/report's job.
// This file re-exports the command functions and their types.
package commands

import (
	"context"

	"github.com/arthur-debert/homie/pkg/commands/add"
	"github.com/arthur-debert/homie/pkg/commands/clone"
	"github.com/arthur-debert/homie/pkg/commands/diff"
	"github.com/arthur-debert/homie/pkg/commands/initialize"
	"github.com/arthur-debert/homie/pkg/commands/internal"
	"github.com/arthur-debert/homie/pkg/commands/link"
	"github.com/arthur-debert/homie/pkg/commands/list"
	"github.com/arthur-debert/homie/pkg/commands/status"
	"github.com/arthur-debert/homie/pkg/commands/unlink"
)

// Env carries the settings shared by every command
type Env = internal.Env

// Link reconciles repositories into their targets
type (
	LinkOptions = link.LinkOptions
	LinkResult  = link.LinkResult
)

func Link(ctx context.Context, opts LinkOptions) (*LinkResult, error) {
	return link.Link(ctx, opts)
}

// Unlink removes what repositories placed
type (
	UnlinkOptions = unlink.UnlinkOptions
	UnlinkResult  = unlink.UnlinkResult
)

func Unlink(ctx context.Context, opts UnlinkOptions) (*UnlinkResult, error) {
	return unlink.Unlink(ctx, opts)
}

// Status reports per-unit target state
type (
	StatusOptions = status.StatusOptions
	StatusResult  = status.StatusResult
)

func Status(ctx context.Context, opts StatusOptions) (*StatusResult, error) {
	return status.Status(ctx, opts)
}

// Diff reports content differences
type (
	DiffOptions = diff.DiffOptions
	DiffResult  = diff.DiffResult
)

func Diff(ctx context.Context, opts DiffOptions) (*DiffResult, error) {
	return diff.Diff(ctx, opts)
}

// AddFile takes a file over into a repository
type (
	AddFileOptions = add.AddFileOptions
	AddFileResult  = add.AddFileResult
)

func AddFile(ctx context.Context, opts AddFileOptions) (*AddFileResult, error) {
	return add.AddFile(ctx, opts)
}

// InitRepo creates a repository
type (
	InitRepoOptions = initialize.InitRepoOptions
	InitRepoResult  = initialize.InitRepoResult
)

func InitRepo(opts InitRepoOptions) (*InitRepoResult, error) {
	return initialize.InitRepo(opts)
}

// CloneRepo clones a repository into the repos root
type (
	CloneRepoOptions = clone.CloneRepoOptions
	CloneRepoResult  = clone.CloneRepoResult
)

func CloneRepo(ctx context.Context, opts CloneRepoOptions) (*CloneRepoResult, error) {
	return clone.CloneRepo(ctx, opts)
}

// ListRepos summarizes discovered repositories
type (
	ListReposOptions = list.ListReposOptions
	ListReposResult  = list.ListReposResult
)

func ListRepos(ctx context.Context, opts ListReposOptions) (*ListReposResult, error) {
	return list.ListRepos(ctx, opts)
}
