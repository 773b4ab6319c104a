package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReposCmd(a *app) *cobra.Command {
	var license string

	cmd := &cobra.Command{
		Use:   "repos <org>",
		Short: "List an organization's public repositories",
		Long: `Repos prints the names of an organization's public repositories, one per
line, in the order the API returns them. With --license only repositories
whose license key matches are listed.

Example:
  orgscout repos google
  orgscout repos google --license apache-2.0`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, release, err := a.newClient(args[0])
			if err != nil {
				return err
			}
			defer release()

			names, err := client.PublicRepos(cmd.Context(), license)
			if err != nil {
				return err
			}

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), names)
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&license, "license", "l", "", "only list repositories with this license key (e.g. apache-2.0)")
	return cmd
}
