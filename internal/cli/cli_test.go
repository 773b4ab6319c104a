package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/orgscout/internal/github"
	"github.com/mesh-intelligence/orgscout/pkg/nested"
	"github.com/mesh-intelligence/orgscout/pkg/types"
)

// fakeGitHub serves one organization, "google", with four repositories.
type fakeGitHub struct {
	*httptest.Server

	mu       sync.Mutex
	hits     map[string]int
	lastAuth string
}

func newFakeGitHub(t *testing.T) *fakeGitHub {
	t.Helper()
	if testing.Short() {
		t.Skip("fake API command test")
	}
	f := &fakeGitHub{hits: make(map[string]int)}

	router := mux.NewRouter()
	router.HandleFunc("/orgs/{org}", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		if mux.Vars(r)["org"] != "google" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
			return
		}
		fmt.Fprintf(w, `{"login":"google","id":1342004,"repos_url":"%s/orgs/google/repos","plan":{"name":"enterprise"}}`, f.URL)
	}).Methods(http.MethodGet)
	router.HandleFunc("/orgs/{org}/repos", func(w http.ResponseWriter, r *http.Request) {
		f.record(r)
		fmt.Fprint(w, `[
			{"name":"truth","license":{"key":"apache-2.0"}},
			{"name":"autoparse","license":null},
			{"name":"kratu","license":{"key":"apache-2.0"}},
			{"name":"episodes.dart","license":{"key":"bsd-3-clause"}}
		]`)
	}).Methods(http.MethodGet)

	f.Server = httptest.NewServer(router)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeGitHub) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hits[r.URL.Path]++
	f.lastAuth = r.Header.Get("Authorization")
}

func (f *fakeGitHub) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

// testEnv isolates one CLI run from the user's real directories and
// environment.
type testEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
	envFile   string
	api       *fakeGitHub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, k := range []string{
		"GITHUB_TOKEN", "ORGSCOUT_TOKEN", "ORGSCOUT_API_URL", "ORGSCOUT_DATA_DIR",
		"ORGSCOUT_CONFIG_DIR", "ORGSCOUT_CACHE_TTL", "ORGSCOUT_CACHE_ENABLED",
	} {
		t.Setenv(k, "")
	}
	root := t.TempDir()
	return &testEnv{
		t:         t,
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
		envFile:   filepath.Join(root, ".env"),
		api:       newFakeGitHub(t),
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

// run executes the command tree with directories pointing into the test
// env. When withAPI is set, --api-url points at the fake server.
func (e *testEnv) run(withAPI bool, args ...string) result {
	e.t.Helper()
	var stdout, stderr bytes.Buffer

	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	full := []string{"--config-dir", e.configDir, "--data-dir", e.dataDir, "--env-file", e.envFile}
	if withAPI {
		full = append(full, "--api-url", e.api.URL)
	}
	root.SetArgs(append(full, args...))

	err := root.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func (e *testEnv) mustRun(args ...string) result {
	e.t.Helper()
	res := e.run(true, args...)
	require.NoError(e.t, res.err, "stderr: %s", res.stderr)
	return res
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	res := env.mustRun("version")
	assert.Contains(t, res.stdout, "orgscout v")
	assert.Contains(t, res.stdout, "github.com/mesh-intelligence/orgscout")
}

func TestInit(t *testing.T) {
	env := newTestEnv(t)

	res := env.mustRun("init")
	assert.Contains(t, res.stdout, "initialized successfully")
	assert.Contains(t, res.stdout, "Wrote")

	data, err := os.ReadFile(filepath.Join(env.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# orgscout configuration"))

	var cfg configFile
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, "sqlite", cfg.Backend)
	assert.Equal(t, env.dataDir, cfg.DataDir)
	assert.Equal(t, env.api.URL, cfg.APIURL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "1h0m0s", cfg.Cache.TTL)

	_, err = os.Stat(filepath.Join(env.dataDir, "responses.jsonl"))
	assert.NoError(t, err)

	res = env.mustRun("init")
	assert.Contains(t, res.stdout, "Kept existing")
}

func TestRepos(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "all repos", args: []string{"repos", "google"}, want: "truth\nautoparse\nkratu\nepisodes.dart\n"},
		{name: "apache filter", args: []string{"repos", "google", "--license", "apache-2.0"}, want: "truth\nkratu\n"},
		{name: "short flag", args: []string{"repos", "google", "-l", "bsd-3-clause"}, want: "episodes.dart\n"},
		{name: "no match", args: []string{"repos", "google", "-l", "mit"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.mustRun(tt.args...)
			assert.Equal(t, tt.want, res.stdout)
		})
	}
}

func TestRepos_JSON(t *testing.T) {
	env := newTestEnv(t)

	res := env.mustRun("--json", "repos", "google", "-l", "mit")
	var names []string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &names))
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestOrg(t *testing.T) {
	env := newTestEnv(t)

	res := env.mustRun("org", "google")
	var org map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &org))
	assert.Equal(t, "google", org["login"])
	assert.Equal(t, env.api.URL+"/orgs/google/repos", org["repos_url"])
}

func TestOrg_NotFound(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(true, "org", "nope")
	require.Error(t, res.err)
	assert.True(t, github.IsNotFound(res.err))
	assert.Equal(t, exitUserError, exitCode(res.err))
}

func TestGet(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "string prints bare", args: []string{"get", "google", "login"}, want: "google\n"},
		{name: "string with json", args: []string{"--json", "get", "google", "login"}, want: "\"google\"\n"},
		{name: "nested path", args: []string{"get", "google", "plan.name"}, want: "enterprise\n"},
		{name: "number", args: []string{"get", "google", "id"}, want: "1342004\n"},
		{name: "map prints JSON", args: []string{"get", "google", "plan"}, want: "{\n  \"name\": \"enterprise\"\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.mustRun(tt.args...)
			assert.Equal(t, tt.want, res.stdout)
		})
	}
}

func TestGet_MissingKey(t *testing.T) {
	env := newTestEnv(t)

	res := env.run(true, "get", "google", "plan.seats")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, nested.ErrMissingKey))
	assert.Contains(t, res.err.Error(), `missing key "seats"`)
	assert.Equal(t, exitUserError, exitCode(res.err))

	res = env.run(true, "get", "google", "login.first")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), `missing key "first"`)
}

func TestCache_ReusesResponses(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("repos", "google")
	env.mustRun("repos", "google", "-l", "apache-2.0")
	env.mustRun("get", "google", "login")

	assert.Equal(t, 1, env.api.hitCount("/orgs/google"))
	assert.Equal(t, 1, env.api.hitCount("/orgs/google/repos"))

	env.mustRun("--no-cache", "repos", "google")
	assert.Equal(t, 2, env.api.hitCount("/orgs/google"))
	assert.Equal(t, 2, env.api.hitCount("/orgs/google/repos"))
}

func TestCache_ListAndClear(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("repos", "google")

	res := env.mustRun("cache", "list")
	assert.Contains(t, res.stdout, "URL")
	assert.Contains(t, res.stdout, env.api.URL+"/orgs/google/repos")
	assert.Contains(t, res.stdout, "fresh")

	res = env.mustRun("--json", "cache", "list")
	var entries []cacheEntry
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, env.api.URL+"/orgs/google", entries[0].URL)
	assert.NotEmpty(t, entries[0].ResponseID)
	assert.Positive(t, entries[0].Bytes)

	res = env.mustRun("cache", "clear")
	assert.Equal(t, "Removed 2 cached responses\n", res.stdout)

	res = env.mustRun("--json", "cache", "list")
	assert.Equal(t, "[]\n", res.stdout)
}

func TestGet_EmptyPath(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"", "."} {
		res := env.run(true, "get", "google", path)
		require.Error(t, res.err)
		assert.ErrorIs(t, res.err, errUsage)
		assert.Contains(t, res.err.Error(), "names no keys")
	}
	assert.Zero(t, env.api.hitCount("/orgs/google"))
}

func TestCache_Rm(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("get", "google", "login")

	orgURL := env.api.URL + "/orgs/google"
	res := env.mustRun("cache", "rm", orgURL)
	assert.Equal(t, "Removed "+orgURL+"\n", res.stdout)

	env.mustRun("get", "google", "login")
	assert.Equal(t, 2, env.api.hitCount("/orgs/google"))

	res = env.run(true, "cache", "rm", env.api.URL+"/orgs/abc")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, types.ErrNotFound)
	assert.Equal(t, exitUserError, exitCode(res.err))

	res = env.run(true, "cache", "rm")
	assert.Equal(t, exitUserError, exitCode(res.err))
}

func TestCache_ScopedByToken(t *testing.T) {
	env := newTestEnv(t)

	t.Setenv("GITHUB_TOKEN", "ghp_private")
	env.mustRun("get", "google", "login")
	env.mustRun("get", "google", "login")
	assert.Equal(t, 1, env.api.hitCount("/orgs/google"))

	t.Setenv("GITHUB_TOKEN", "")
	env.mustRun("get", "google", "login")
	assert.Equal(t, 2, env.api.hitCount("/orgs/google"))
	assert.Empty(t, env.api.lastAuth)

	res := env.mustRun("--json", "cache", "list")
	var entries []cacheEntry
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, env.api.URL+"/orgs/google", entries[0].URL)
	assert.Equal(t, env.api.URL+"/orgs/google#"+github.TokenScope("ghp_private"), entries[1].URL)
}

func TestConfigFileSettings(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	cfg := fmt.Sprintf("backend: sqlite\napi_url: %s\ncache:\n  enabled: false\n", env.api.URL)
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, "config.yaml"), []byte(cfg), 0o644))

	for range 2 {
		res := env.run(false, "repos", "google", "-l", "apache-2.0")
		require.NoError(t, res.err, res.stderr)
		assert.Equal(t, "truth\nkratu\n", res.stdout)
	}
	// Cache disabled in config: every run hits the API.
	assert.Equal(t, 2, env.api.hitCount("/orgs/google"))
}

func TestConfigFile_UnknownBackend(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, "config.yaml"), []byte("backend: redis\n"), 0o644))

	res := env.run(true, "repos", "google")
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, types.ErrBackendUnknown)
	assert.Equal(t, "config backend: unknown backend", res.err.Error())
	assert.Equal(t, exitSysError, exitCode(res.err))
}

func TestEnvOverridesAPIURL(t *testing.T) {
	env := newTestEnv(t)
	t.Setenv("ORGSCOUT_API_URL", env.api.URL)

	res := env.run(false, "get", "google", "login")
	require.NoError(t, res.err, res.stderr)
	assert.Equal(t, "google\n", res.stdout)
}

func TestDotEnvToken(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.Unsetenv("GITHUB_TOKEN"))
	require.NoError(t, os.WriteFile(env.envFile, []byte("GITHUB_TOKEN=ghp_fromdotenv\n"), 0o600))

	env.mustRun("--no-cache", "org", "google")
	assert.Equal(t, "Bearer ghp_fromdotenv", env.api.lastAuth)
}

func TestVerboseLogsToStderr(t *testing.T) {
	env := newTestEnv(t)

	res := env.mustRun("-v", "repos", "google")
	assert.Contains(t, res.stderr, "level=DEBUG")
	assert.Contains(t, res.stderr, "cache miss")
	assert.NotContains(t, res.stdout, "level=")
}

func TestUsageErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "repos without org", args: []string{"repos"}},
		{name: "get with one arg", args: []string{"get", "google"}},
		{name: "unknown flag", args: []string{"repos", "google", "--bogus"}},
		{name: "version with args", args: []string{"version", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.run(true, tt.args...)
			require.Error(t, res.err)
			assert.Equal(t, exitUserError, exitCode(res.err))
		})
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitSuccess},
		{name: "usage", err: usageError("bad %s", "arg"), want: exitUserError},
		{name: "missing key", err: fmt.Errorf("get: %w", &nested.KeyError{Key: "x"}), want: exitUserError},
		{name: "empty org", err: github.ErrOrgNameEmpty, want: exitUserError},
		{name: "unknown cache entry", err: fmt.Errorf("cache rm x: %w", types.ErrNotFound), want: exitUserError},
		{name: "404", err: &github.StatusError{StatusCode: 404}, want: exitUserError},
		{name: "500", err: &github.StatusError{StatusCode: 500}, want: exitSysError},
		{name: "other", err: errors.New("disk full"), want: exitSysError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
