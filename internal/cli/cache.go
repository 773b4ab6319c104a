package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// cacheEntry is the --json shape of one cached response.
type cacheEntry struct {
	ResponseID string    `json:"response_id"`
	URL        string    `json:"url"`
	FetchedAt  time.Time `json:"fetched_at"`
	Bytes      int       `json:"bytes"`
}

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the response cache",
	}
	cmd.AddCommand(newCacheListCmd(a))
	cmd.AddCommand(newCacheClearCmd(a))
	cmd.AddCommand(newCacheRmCmd(a))
	return cmd
}

func newCacheListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached responses",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			responses, err := store.List()
			if err != nil {
				return fmt.Errorf("list cache: %w", err)
			}

			if a.flags.jsonMode {
				entries := make([]cacheEntry, 0, len(responses))
				for _, r := range responses {
					entries = append(entries, cacheEntry{
						ResponseID: r.ResponseID,
						URL:        r.URL,
						FetchedAt:  r.FetchedAt,
						Bytes:      len(r.Body),
					})
				}
				return writeJSON(cmd.OutOrStdout(), entries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "URL\tFETCHED\tBYTES\tSTATE")
			now := time.Now()
			for _, r := range responses {
				state := "fresh"
				if r.Expired(a.settings.cacheTTL, now) {
					state = "expired"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.URL, r.FetchedAt.Local().Format(time.DateTime), len(r.Body), state)
			}
			return tw.Flush()
		},
	}
}

func newCacheClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached response",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			n, err := store.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached responses\n", n)
			return nil
		},
	}
}

func newCacheRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <url>...",
		Short: "Remove cached responses by URL",
		Long: `Rm removes the cached responses stored under each URL, as printed by
"orgscout cache list". The next command that needs them fetches them again.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, url := range args {
				if strings.TrimSpace(url) == "" {
					return usageError("cache rm: empty URL")
				}
			}

			store, err := a.attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			for _, url := range args {
				if err := store.Delete(url); err != nil {
					return fmt.Errorf("cache rm %s: %w", url, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Removed", url)
			}
			return nil
		},
	}
}
