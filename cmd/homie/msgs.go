package main

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Keep dotfiles repositories placed in your home directory"
	MsgLinkShort       = "Place repository files into their targets"
	MsgUnlinkShort     = "Remove what repositories placed"
	MsgStatusShort     = "Show how targets compare to repositories"
	MsgDiffShort       = "Show content changes in copied and rendered files"
	MsgAddShort        = "Move a file into a repository and link it back"
	MsgInitShort       = "Create a new repository"
	MsgInitLong        = "Init creates a repository directory under the repos root with a commented homie.toml."
	MsgCloneShort      = "Clone a repository into the repos root"
	MsgCloneLong       = "Clone runs git clone into the repos root. The repository name defaults to the last segment of the URL."
	MsgListShort       = "List repositories"
	MsgListLong        = "List shows every repository under the repos root with its target, unit count, variables and imports."
	MsgDiffLong        = "Diff lists copied and rendered files that were changed in the target, and files standing where a link belongs. With -v each is followed by a unified diff."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"

	// Examples
	MsgLinkExample   = "  homie link\n  homie link dots --dry-run\n  homie link work --force"
	MsgAddExample    = "  homie add dots ~/.zshrc\n  homie add dots ~/.config/nvim"
	MsgInitExample   = "  homie init dots\n  homie init work --target ~/work"
	MsgCloneExample  = "  homie clone git@github.com:me/dotfiles.git\n  homie clone https://github.com/me/dots --name dots"
	MsgStatusExample = "  homie status\n  homie status dots -v"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO and per-unit detail, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun    = "Preview changes without executing them"
	MsgFlagForce     = "Back up and replace files that are in the way"
	MsgFlagSkipFetch = "Use cached git imports without fetching"
	MsgFlagTarget    = "Directory the repository places files into"
	MsgFlagName      = "Name of the repository (defaults to the last URL segment)"

	// Output
	MsgVersionFormat = "homie version %s\n  commit: %s\n  built:  %s\n"

	// Error messages
	MsgErrLink       = "failed to link: %w"
	MsgErrUnlink     = "failed to unlink: %w"
	MsgErrStatus     = "failed to get status: %w"
	MsgErrDiff       = "failed to diff: %w"
	MsgErrAdd        = "failed to add file: %w"
	MsgErrInit       = "failed to create repository: %w"
	MsgErrClone      = "failed to clone repository: %w"
	MsgErrList       = "failed to list repositories: %w"
	MsgErrMan        = "failed to generate man page: %w"
	MsgErrNoCommand  = "no command specified"
	MsgErrUnitFailed = "one or more units failed"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/link-long.txt
	msgLinkLongRaw string
	MsgLinkLong    = strings.TrimSpace(msgLinkLongRaw)

	//go:embed msgs/unlink-long.txt
	msgUnlinkLongRaw string
	MsgUnlinkLong    = strings.TrimSpace(msgUnlinkLongRaw)

	//go:embed msgs/status-long.txt
	msgStatusLongRaw string
	MsgStatusLong    = strings.TrimSpace(msgStatusLongRaw)

	//go:embed msgs/add-long.txt
	msgAddLongRaw string
	MsgAddLong    = strings.TrimSpace(msgAddLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
