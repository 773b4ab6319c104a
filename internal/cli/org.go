package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/orgscout/pkg/nested"
)

func newOrgCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "org <name>",
		Short: "Print an organization payload",
		Long: `Org fetches the organization payload from the GitHub API (or the
response cache) and prints it as JSON.

Example:
  orgscout org google`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, release, err := a.newClient(args[0])
			if err != nil {
				return err
			}
			defer release()

			org, err := client.Org(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), org)
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <org> <path>",
		Short: "Print one field of an organization payload",
		Long: `Get walks the organization payload along a dotted path and prints the
value found there. Strings print bare unless --json is set; maps and
lists always print as JSON.

Example:
  orgscout get google repos_url
  orgscout get google plan.name`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := nested.ParsePath(args[1])
			if len(path) == 0 {
				return usageError("path %q names no keys; use \"orgscout org %s\" for the whole payload", args[1], args[0])
			}

			client, release, err := a.newClient(args[0])
			if err != nil {
				return err
			}
			defer release()

			org, err := client.Org(cmd.Context())
			if err != nil {
				return err
			}

			v, err := nested.Access(org, path...)
			if err != nil {
				return fmt.Errorf("%s %s: %w", args[0], args[1], err)
			}

			if s, ok := v.AsString(); ok && !a.flags.jsonMode {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), s)
				return err
			}
			return writeJSON(cmd.OutOrStdout(), v)
		},
	}
}
