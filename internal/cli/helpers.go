package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/orgscout/internal/github"
	"github.com/mesh-intelligence/orgscout/pkg/orgscout"
	"github.com/mesh-intelligence/orgscout/pkg/sqlite"
	"github.com/mesh-intelligence/orgscout/pkg/types"
)

// usageArgs marks positional-argument errors as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return fmt.Errorf("%w: %s", errUsage, err)
		}
		return nil
	}
}

// attachStore creates a response store and attaches it to the configured data
// directory. The caller must defer store.Detach().
func (a *app) attachStore() (types.ResponseStore, error) {
	store := sqlite.NewBackend()
	cfg := types.Config{
		Backend: a.settings.backend,
		DataDir: a.settings.dataDir,
	}
	if err := store.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}
	return store, nil
}

// newClient builds an OrgClient for org over HTTP, behind the response cache
// when caching is enabled. Cached responses are scoped to the configured
// token. The returned release function detaches the cache
// and must be called when the client is no longer needed.
func (a *app) newClient(org string) (*github.OrgClient, func(), error) {
	var getter github.JSONGetter = github.NewHTTPGetter(
		github.WithToken(a.settings.token),
		github.WithUserAgent("orgscout/"+orgscout.Version),
		github.WithHTTPLogger(a.logger),
	)
	release := func() {}

	if a.settings.cacheEnabled {
		store, err := a.attachStore()
		if err != nil {
			return nil, nil, err
		}
		getter = github.NewCachingGetter(getter, store, a.settings.cacheTTL,
			github.WithCacheScope(github.TokenScope(a.settings.token)),
			github.WithCacheLogger(a.logger),
		)
		release = func() {
			if err := store.Detach(); err != nil {
				a.logger.Warn("detach store failed", "err", err)
			}
		}
	}

	client, err := github.NewOrgClient(org, getter,
		github.WithBaseURL(a.settings.apiURL),
		github.WithLogger(a.logger),
	)
	if err != nil {
		release()
		return nil, nil, err
	}
	return client, release, nil
}

// writeJSON writes v to w as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}
