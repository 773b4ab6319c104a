package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/orgscout/internal/paths"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend string      `yaml:"backend"`
	DataDir string      `yaml:"data_dir,omitempty"`
	APIURL  string      `yaml:"api_url"`
	Cache   cacheConfig `yaml:"cache"`
}

type cacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	TTL     string `yaml:"ttl"`
}

const configHeader = "# orgscout configuration. ORGSCOUT_* environment variables override these\n" +
	"# keys (ORGSCOUT_API_URL, ORGSCOUT_CACHE_TTL, ...). The API token is read\n" +
	"# from \"token\" or, when unset, from GITHUB_TOKEN.\n"

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration and the response cache",
		Long:  "Create the configuration directory with a default config.yaml, then initialize the response cache.",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	s := a.settings

	if err := os.MkdirAll(s.configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	configPath := paths.ConfigFile(s.configDir)
	written, err := writeConfigIfMissing(configPath, configFile{
		Backend: s.backend,
		DataDir: a.flags.dataDir,
		APIURL:  s.apiURL,
		Cache: cacheConfig{
			Enabled: true,
			TTL:     s.cacheTTL.String(),
		},
	})
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	// Initialize the data directory via Attach then Detach.
	store, err := a.attachStore()
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	if err := store.Detach(); err != nil {
		return fmt.Errorf("finalize cache: %w", err)
	}

	out := cmd.OutOrStdout()
	if written {
		fmt.Fprintln(out, "Wrote", configPath)
	} else {
		fmt.Fprintln(out, "Kept existing", configPath)
	}
	fmt.Fprintln(out, "Cache directory", s.dataDir)
	fmt.Fprintln(out, "orgscout initialized successfully")
	return nil
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. If it already exists the file is left alone and written is false.
func writeConfigIfMissing(path string, cfg configFile) (written bool, err error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
