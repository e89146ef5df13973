package main

import (
	"fmt"

	"github.com/arthur-debert/homie/internal/version"
	"github.com/arthur-debert/homie/pkg/commands"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// repoArg returns the optional repository argument
func repoArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func newLinkCmd(flags *globalFlags) *cobra.Command {
	var (
		force     bool
		skipFetch bool
	)
	cmd := &cobra.Command{
		Use:               "link [repo]",
		Short:             MsgLinkShort,
		Long:              MsgLinkLong,
		Example:           MsgLinkExample,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: repoNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Info().
				Str("repo", repoArg(args)).
				Bool("dry_run", flags.dryRun).
				Bool("force", force).
				Bool("skip_fetch", skipFetch).
				Msg("Linking")

			result, err := commands.Link(cmd.Context(), commands.LinkOptions{
				Env:       flags.env(),
				Repo:      repoArg(args),
				Force:     force,
				SkipFetch: skipFetch,
			})
			if err != nil {
				return fmt.Errorf(MsgErrLink, err)
			}

			flags.reporter(cmd).Link(result)
			if result.Failed() {
				return errUnitsFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	cmd.Flags().BoolVar(&skipFetch, "skip-fetch", false, MsgFlagSkipFetch)
	return cmd
}

func newUnlinkCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "unlink [repo]",
		Short:             MsgUnlinkShort,
		Long:              MsgUnlinkLong,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: repoNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.Unlink(cmd.Context(), commands.UnlinkOptions{
				Env:  flags.env(),
				Repo: repoArg(args),
			})
			if err != nil {
				return fmt.Errorf(MsgErrUnlink, err)
			}

			flags.reporter(cmd).Unlink(result)
			if result.Failed() {
				return errUnitsFailed
			}
			return nil
		},
	}
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "status [repo]",
		Short:             MsgStatusShort,
		Long:              MsgStatusLong,
		Example:           MsgStatusExample,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: repoNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.Status(cmd.Context(), commands.StatusOptions{
				Env:  flags.env(),
				Repo: repoArg(args),
			})
			if err != nil {
				return fmt.Errorf(MsgErrStatus, err)
			}

			flags.reporter(cmd).Status(result)
			for _, rs := range result.Repos {
				if rs.Err != nil {
					return errUnitsFailed
				}
			}
			return nil
		},
	}
}

func newDiffCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "diff [repo]",
		Short:             MsgDiffShort,
		Long:              MsgDiffLong,
		GroupID:           "core",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: repoNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.Diff(cmd.Context(), commands.DiffOptions{
				Env:  flags.env(),
				Repo: repoArg(args),
			})
			if err != nil {
				return fmt.Errorf(MsgErrDiff, err)
			}

			flags.reporter(cmd).Diff(result)
			for _, rd := range result.Repos {
				if rd.Err != nil {
					return errUnitsFailed
				}
			}
			return nil
		},
	}
}

func newAddCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "add <repo> <file>",
		Short:             MsgAddShort,
		Long:              MsgAddLong,
		Example:           MsgAddExample,
		GroupID:           "core",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: repoNamesCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.AddFile(cmd.Context(), commands.AddFileOptions{
				Env:  flags.env(),
				Repo: args[0],
				Path: args[1],
			})
			if err != nil {
				return fmt.Errorf(MsgErrAdd, err)
			}
			flags.reporter(cmd).Add(result)
			return nil
		},
	}
}

func newInitCmd(flags *globalFlags) *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:     "init <name>",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Example: MsgInitExample,
		GroupID: "repos",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.InitRepo(commands.InitRepoOptions{
				Env:    flags.env(),
				Name:   args[0],
				Target: target,
			})
			if err != nil {
				return fmt.Errorf(MsgErrInit, err)
			}
			flags.reporter(cmd).Init(result)
			return nil
		},
	}
	cmd.Flags().StringVarP(&target, "target", "t", "", MsgFlagTarget)
	return cmd
}

func newCloneCmd(flags *globalFlags) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:     "clone <url>",
		Short:   MsgCloneShort,
		Long:    MsgCloneLong,
		Example: MsgCloneExample,
		GroupID: "repos",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.CloneRepo(cmd.Context(), commands.CloneRepoOptions{
				Env:  flags.env(),
				URL:  args[0],
				Name: name,
			})
			if err != nil {
				return fmt.Errorf(MsgErrClone, err)
			}
			flags.reporter(cmd).Clone(result)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", MsgFlagName)
	return cmd
}

func newListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		Long:    MsgListLong,
		GroupID: "repos",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.ListRepos(cmd.Context(), commands.ListReposOptions{Env: flags.env()})
			if err != nil {
				return fmt.Errorf(MsgErrList, err)
			}
			flags.reporter(cmd).List(result)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// newManCmd writes a roff man page for the whole command tree
func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  MsgManShort,
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "HOMIE",
				Section: "1",
				Source:  "homie " + version.Version,
				Manual:  "homie manual",
			}
			if err := doc.GenMan(cmd.Root(), header, cmd.OutOrStdout()); err != nil {
				return fmt.Errorf(MsgErrMan, err)
			}
			return nil
		},
	}
}
