// Package cli implements the orgscout command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/orgscout/internal/github"
	"github.com/mesh-intelligence/orgscout/pkg/nested"
	"github.com/mesh-intelligence/orgscout/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	envFile   string
	apiURL    string
	jsonMode  bool
	verbose   bool
	noCache   bool
}

// app carries the state shared by one command tree: flag values, the
// settings resolved before each command runs, and the logger.
type app struct {
	flags    rootFlags
	settings settings
	logger   *slog.Logger
}

// NewRootCmd creates the top-level "orgscout" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:   "orgscout",
		Short: "Inspect GitHub organizations and their public repositories",
		Long: "orgscout fetches GitHub organization and repository payloads, caches them\n" +
			"locally, and answers questions about them: repository names, license\n" +
			"filters, and arbitrary fields by dotted path.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = newLogger(cmd.ErrOrStderr(), a.flags.verbose)
			if cmd.Name() == "version" {
				return nil
			}
			s, err := resolveSettings(a.flags)
			if err != nil {
				return err
			}
			a.settings = s
			a.logger.Debug("settings resolved",
				"config_dir", s.configDir,
				"data_dir", s.dataDir,
				"api_url", s.apiURL,
				"cache", s.cacheEnabled,
				"ttl", s.cacheTTL,
				"token", s.token != "",
			)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/orgscout)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "cache directory (default: $XDG_CACHE_HOME/orgscout)")
	root.PersistentFlags().StringVar(&a.flags.envFile, "env-file", ".env", "dotenv file loaded before configuration")
	root.PersistentFlags().StringVar(&a.flags.apiURL, "api-url", "", "GitHub API root (overrides config api_url)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log diagnostics to stderr")
	root.PersistentFlags().BoolVar(&a.flags.noCache, "no-cache", false, "bypass the response cache")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %s", errUsage, err)
	})

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newOrgCmd(a))
	root.AddCommand(newGetCmd(a))
	root.AddCommand(newReposCmd(a))
	root.AddCommand(newCacheCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		stop()
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to a process exit code: 1 for mistakes the user can
// fix (bad arguments, unknown organization, missing key, unknown cache
// entry), 2 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errUsage),
		errors.Is(err, nested.ErrMissingKey),
		errors.Is(err, github.ErrOrgNameEmpty),
		errors.Is(err, types.ErrNotFound),
		github.IsNotFound(err):
		return exitUserError
	default:
		return exitSysError
	}
}

// errUsage marks argument errors raised by the commands themselves.
var errUsage = errors.New("usage")

// usageError wraps a message as an errUsage.
func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// newLogger returns a text logger on w at Warn, or Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
