// ABOUTME: Cobra command tree for the reflow CLI and the exit-code mapping of its errors
// ABOUTME: Exit codes: 0 ok, 1 runtime failure, 2 usage error, 3 configuration error

// Package cli defines the Cobra command tree for the reflow CLI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mauromedda/termreflow/internal/config"
)

// UsageError reports invalid flags or arguments (exit code 2).
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usageErrorf(format string, args ...any) *UsageError {
	return &UsageError{Err: fmt.Errorf(format, args...)}
}

// Execute runs the root command and returns the exit code.
func Execute(ctx context.Context, version, commit, date string) int {
	return execute(ctx, newRootCmd(version, commit, date), os.Stderr)
}

func execute(ctx context.Context, root *cobra.Command, stderr io.Writer) int {
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	fmt.Fprintf(stderr, "reflow: %s\n", err) //nolint:errcheck // best-effort stderr write
	return exitCode(err)
}

func exitCode(err error) int {
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return 2
	}

	var configErr *config.Error
	var profileErr *config.ProfileError
	if errors.As(err, &configErr) || errors.As(err, &profileErr) {
		return 3
	}

	return 1
}

// newRootCmd creates the root command. Without a subcommand it reflows the
// named files, or stdin when none are given.
func newRootCmd(version, commit, date string) *cobra.Command {
	var flags reflowFlags

	rootCmd := &cobra.Command{
		Use:   "reflow [flags] [file...]",
		Short: "Wrap, indent, truncate and pad text containing ANSI escapes",
		Long: `Reshape terminal text to a target width without breaking its colors,
hyperlinks or other escape sequences. Styles cut by a line break are
re-asserted on the next line. Reads stdin when no files are given.

Settings come from, in increasing priority: the config file defaults,
the selected profile, REFLOW_* environment variables, and flags.`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := resolveSettings(cmd, &flags, os.Getenv)
			if err != nil {
				return err
			}
			return runReflow(cmd.Context(), cmd, args, settings)
		},
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (-v for info, -vv for debug)")
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/termreflow/config.yaml)")
	flags.register(rootCmd)

	registerCommands(rootCmd, version, commit, date)

	return rootCmd
}

// registerCommands adds all subcommands to the root command.
func registerCommands(root *cobra.Command, version, commit, date string) {
	root.AddCommand(
		newTokensCmd(),
		newWidthCmd(),
		newProfilesCmd(),
		newVersionCmd(version, commit, date),
	)
}
