package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/orgscout/internal/github"
	"github.com/mesh-intelligence/orgscout/internal/paths"
	"github.com/mesh-intelligence/orgscout/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	// Config keys in config.yaml. Each can be overridden by an ORGSCOUT_*
	// environment variable, e.g. ORGSCOUT_CACHE_TTL.
	cfgKeyBackend      = "backend"
	cfgKeyDataDir      = "data_dir"
	cfgKeyAPIURL       = "api_url"
	cfgKeyToken        = "token"
	cfgKeyCacheEnabled = "cache.enabled"
	cfgKeyCacheTTL     = "cache.ttl"

	envPrefix = "ORGSCOUT"

	// envGitHubToken is the conventional token variable, used when no
	// token is configured.
	envGitHubToken = "GITHUB_TOKEN"

	defaultCacheTTL = time.Hour
)

// settings is the effective configuration after flags, environment and
// config.yaml are merged.
type settings struct {
	configDir    string
	dataDir      string
	backend      string
	apiURL       string
	token        string
	cacheEnabled bool
	cacheTTL     time.Duration
}

// loadDotEnv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// loadConfig reads config.yaml from configDir using Viper, layering
// ORGSCOUT_* environment variables and defaults beneath it. A missing
// config.yaml is not an error; run "orgscout init" to create one.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyAPIURL, github.DefaultBaseURL)
	v.SetDefault(cfgKeyCacheEnabled, true)
	v.SetDefault(cfgKeyCacheTTL, defaultCacheTTL)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// resolveSettings merges flags over the loaded configuration.
func resolveSettings(f rootFlags) (settings, error) {
	if err := loadDotEnv(f.envFile); err != nil {
		return settings{}, err
	}

	configDir, err := paths.ResolveConfigDir(f.configDir)
	if err != nil {
		return settings{}, fmt.Errorf("resolve config dir: %w", err)
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return settings{}, err
	}

	dataDir, err := paths.ResolveDataDir(f.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, fmt.Errorf("resolve data dir: %w", err)
	}

	s := settings{
		configDir:    configDir,
		dataDir:      dataDir,
		backend:      v.GetString(cfgKeyBackend),
		apiURL:       v.GetString(cfgKeyAPIURL),
		token:        v.GetString(cfgKeyToken),
		cacheEnabled: v.GetBool(cfgKeyCacheEnabled) && !f.noCache,
		cacheTTL:     v.GetDuration(cfgKeyCacheTTL),
	}
	if f.apiURL != "" {
		s.apiURL = f.apiURL
	}
	if s.token == "" {
		s.token = os.Getenv(envGitHubToken)
	}

	if err := (types.Config{Backend: s.backend, DataDir: s.dataDir}).Validate(); err != nil {
		return settings{}, fmt.Errorf("config %s: %w", cfgKeyBackend, err)
	}
	return s, nil
}
