package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/Cloudsky01/gh-runwatch/internal/paths"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"RUNWATCH_REPO_URL", LegacyRepoURLEnv, "RUNWATCH_WORKFLOW", "RUNWATCH_API_BASE",
		"RUNWATCH_HOST_PREFIX", "RUNWATCH_POLL_INTERVAL", "RUNWATCH_MAX_POLLS",
		"RUNWATCH_REQUEST_TIMEOUT", "RUNWATCH_DEBUG",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func testPaths(t *testing.T) *paths.Paths {
	t.Helper()
	tmpDir := t.TempDir()
	return &paths.Paths{
		UserConfigDir:     filepath.Join(tmpDir, "config"),
		ProjectConfigPath: filepath.Join(tmpDir, "work", paths.ProjectConfigFileName),
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(testPaths(t), "", nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.APIBase != DefaultAPIBase {
		t.Errorf("Expected api base %s, got %s", DefaultAPIBase, cfg.APIBase)
	}
	if cfg.HostPrefix != DefaultHostPrefix {
		t.Errorf("Expected host prefix %s, got %s", DefaultHostPrefix, cfg.HostPrefix)
	}
	if cfg.PollInterval != DefaultPollInterval {
		t.Errorf("Expected poll interval %v, got %v", DefaultPollInterval, cfg.PollInterval)
	}
	if cfg.MaxPolls != 0 {
		t.Errorf("Expected unbounded polling, got max polls %d", cfg.MaxPolls)
	}
	if cfg.RepoURL != "" {
		t.Errorf("Expected no repo url, got %s", cfg.RepoURL)
	}
	if len(cfg.Sources()) != 0 {
		t.Errorf("Expected no sources, got %v", cfg.Sources())
	}
}

func TestLoadMergesUserAndProjectConfig(t *testing.T) {
	clearEnv(t)
	p := testPaths(t)

	writeFile(t, p.UserConfigFile(), `repo_url: https://github.com/user/repo
poll_interval: 10s
max_polls: 4
`)
	writeFile(t, p.ProjectConfigPath, `repo_url: https://github.com/project/repo
`)

	cfg, err := Load(p, "", nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.RepoURL != "https://github.com/project/repo" {
		t.Errorf("Expected project repo url to win, got %s", cfg.RepoURL)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Errorf("Expected poll interval from user config, got %v", cfg.PollInterval)
	}
	if cfg.MaxPolls != 4 {
		t.Errorf("Expected max polls 4, got %d", cfg.MaxPolls)
	}
	if len(cfg.Sources()) != 2 {
		t.Errorf("Expected 2 sources, got %v", cfg.Sources())
	}
}

func TestLoadExplicitPath(t *testing.T) {
	clearEnv(t)
	p := testPaths(t)
	writeFile(t, p.UserConfigFile(), "max_polls: 9\n")

	explicit := filepath.Join(t.TempDir(), "custom.yaml")
	writeFile(t, explicit, "max_polls: 2\n")

	cfg, err := Load(p, explicit, nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.MaxPolls != 2 {
		t.Errorf("Expected explicit config only, got max polls %d", cfg.MaxPolls)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	clearEnv(t)
	if _, err := Load(nil, filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadEnvironment(t *testing.T) {
	clearEnv(t)
	p := testPaths(t)
	writeFile(t, p.UserConfigFile(), "repo_url: https://github.com/file/repo\n")

	t.Setenv("RUNWATCH_REPO_URL", "https://github.com/env/repo")
	t.Setenv("RUNWATCH_POLL_INTERVAL", "2s")

	cfg, err := Load(p, "", nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.RepoURL != "https://github.com/env/repo" {
		t.Errorf("Expected env repo url, got %s", cfg.RepoURL)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("Expected 2s poll interval, got %v", cfg.PollInterval)
	}
}

func TestLoadLegacyRepoURLEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(LegacyRepoURLEnv, "https://github.com/legacy/repo")

	cfg, err := Load(testPaths(t), "", nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.RepoURL != "https://github.com/legacy/repo" {
		t.Errorf("Expected legacy env repo url, got %s", cfg.RepoURL)
	}
}

func TestLoadFlagsOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("RUNWATCH_MAX_POLLS", "3")
	t.Setenv("RUNWATCH_REPO_URL", "https://github.com/env/repo")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("repo-url", "", "")
	flags.Int("max-polls", 0, "")
	if err := flags.Parse([]string{"--max-polls", "7"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(testPaths(t), "", flags)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.MaxPolls != 7 {
		t.Errorf("Expected flag to win, got max polls %d", cfg.MaxPolls)
	}
	if cfg.RepoURL != "https://github.com/env/repo" {
		t.Errorf("Expected unset flag to leave env value, got %s", cfg.RepoURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty api base", func(c *Config) { c.APIBase = "" }, true},
		{"empty host prefix", func(c *Config) { c.HostPrefix = " " }, true},
		{"host prefix without slash", func(c *Config) { c.HostPrefix = "https://github.com" }, true},
		{"zero poll interval", func(c *Config) { c.PollInterval = 0 }, true},
		{"negative max polls", func(c *Config) { c.MaxPolls = -1 }, true},
		{"zero request timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.RepoURL = "https://github.com/acme/widgets"
	cfg.PollInterval = 3 * time.Second

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# runwatch configuration") {
		t.Errorf("Expected header comment, got:\n%s", data)
	}
	if !strings.Contains(string(data), "poll_interval: 3s") {
		t.Errorf("Expected human readable duration, got:\n%s", data)
	}

	loaded, err := Load(nil, path, nil)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if loaded.RepoURL != cfg.RepoURL || loaded.PollInterval != cfg.PollInterval {
		t.Errorf("Round trip mismatch: %+v", loaded)
	}
}
