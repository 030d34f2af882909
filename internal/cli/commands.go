// ABOUTME: Small subcommands: "profiles" lists or shows config profiles, "version" prints build info
// ABOUTME: A shown profile is the defaults with the profile merged on top, rendered as YAML

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles [name]",
		Short: "List config profiles, or show one resolved against the defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				names := file.ProfileNames()
				if len(names) == 0 {
					_, err := fmt.Fprintln(cmd.ErrOrStderr(), "No profiles configured.")
					return err
				}
				for _, name := range names {
					if _, err := fmt.Fprintln(out, name); err != nil {
						return err
					}
				}
				return nil
			}

			p, err := file.Resolve(args[0])
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(p)
			if err != nil {
				return fmt.Errorf("rendering profile: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}
}

func newVersionCmd(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "reflow version %s (commit: %s, built: %s)\n", version, commit, date)
			return err
		},
	}
}
