package main

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/homie/internal/version"
	"github.com/arthur-debert/homie/pkg/commands"
	"github.com/arthur-debert/homie/pkg/filesystem"
	"github.com/arthur-debert/homie/pkg/logging"
	"github.com/arthur-debert/homie/pkg/paths"
	"github.com/arthur-debert/homie/pkg/report"
	"github.com/arthur-debert/homie/pkg/repo"
	"github.com/arthur-debert/homie/pkg/style"
	"github.com/arthur-debert/homie/pkg/topics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// errUnitsFailed is returned after a command already reported failed units
var errUnitsFailed = stderrors.New(MsgErrUnitFailed)

// globalFlags are shared by every subcommand
type globalFlags struct {
	verbosity int
	dryRun    bool
}

func (g *globalFlags) env() commands.Env {
	return commands.Env{DryRun: g.dryRun}
}

func (g *globalFlags) reporter(cmd *cobra.Command) *report.Reporter {
	out := cmd.OutOrStdout()
	return report.New(out, style.NewTheme(out), g.verbosity > 0)
}

// run executes the CLI and returns the process exit code. An interrupt
// cancels the command between units.
func run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	return execute(ctx, rootCmd, os.Stderr)
}

// execute runs rootCmd, printing fatal errors to stderr
func execute(ctx context.Context, rootCmd *cobra.Command, stderr io.Writer) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if stderrors.Is(err, errUnitsFailed) {
		return 1
	}
	verbose, _ := rootCmd.PersistentFlags().GetCount("verbose")
	report.New(stderr, style.NewTheme(stderr), verbose > 0).Error(err)
	return 1
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "homie",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(flags.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return stderrors.New(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&flags.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVarP(&flags.dryRun, "dry-run", "n", false, MsgFlagDryRun)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "repos", Title: "REPOSITORIES:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newLinkCmd(flags))
	rootCmd.AddCommand(newUnlinkCmd(flags))
	rootCmd.AddCommand(newStatusCmd(flags))
	rootCmd.AddCommand(newDiffCmd(flags))
	rootCmd.AddCommand(newAddCmd(flags))
	rootCmd.AddCommand(newInitCmd(flags))
	rootCmd.AddCommand(newCloneCmd(flags))
	rootCmd.AddCommand(newListCmd(flags))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	if _, err := topics.Initialize(rootCmd, topics.Content(), topics.Options{
		Renderer: topicRenderer(),
	}); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

// topicRenderer renders markdown with glamour on a terminal
func topicRenderer() topics.Renderer {
	if !style.ColorEnabled(os.Stdout) {
		return &topics.PlainRenderer{}
	}
	return topics.NewGlamourRenderer()
}

// repoNamesCompletion completes repository names for the first argument
func repoNamesCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	p, err := paths.New("")
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	repos, _, err := repo.NewRegistry(filesystem.NewOS(), p).Discover()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names := make([]string, 0, len(repos))
	for _, r := range repos {
		names = append(names, r.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
