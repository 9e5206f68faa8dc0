package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Cloudsky01/gh-runwatch/internal/paths"
)

const (
	DefaultAPIBase        = "https://api.github.com"
	DefaultHostPrefix     = "https://github.com/"
	DefaultPollInterval   = 5 * time.Second
	DefaultRequestTimeout = 30 * time.Second
)

// LegacyRepoURLEnv is read when RUNWATCH_REPO_URL is unset
const LegacyRepoURLEnv = "REPO_URL"

type Config struct {
	RepoURL        string        `mapstructure:"repo_url" yaml:"repo_url,omitempty"`
	Workflow       string        `mapstructure:"workflow" yaml:"workflow,omitempty"`
	APIBase        string        `mapstructure:"api_base" yaml:"api_base"`
	HostPrefix     string        `mapstructure:"host_prefix" yaml:"host_prefix"`
	PollInterval   time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	MaxPolls       int           `mapstructure:"max_polls" yaml:"max_polls"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	Debug          bool          `mapstructure:"debug" yaml:"debug,omitempty"`

	sources []string
}

// flagKeys maps CLI flag names to config keys
var flagKeys = map[string]string{
	"repo-url":        "repo_url",
	"workflow":        "workflow",
	"api-base":        "api_base",
	"poll-interval":   "poll_interval",
	"max-polls":       "max_polls",
	"request-timeout": "request_timeout",
	"debug":           "debug",
}

// Default returns the configuration used when nothing else is set
func Default() *Config {
	return &Config{
		APIBase:        DefaultAPIBase,
		HostPrefix:     DefaultHostPrefix,
		PollInterval:   DefaultPollInterval,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Load builds the effective configuration. Precedence, lowest to highest:
// defaults, user config, project config (or only explicitPath when set),
// RUNWATCH_* environment variables, then flags that were set on the command line.
func Load(p *paths.Paths, explicitPath string, flags *pflag.FlagSet) (*Config, error) {
	v := newViper()

	var files []string
	if explicitPath != "" {
		files = []string{explicitPath}
	} else if p != nil {
		files = p.GetConfigPaths()
	}

	for i, file := range files {
		v.SetConfigFile(file)
		var err error
		if i == 0 {
			err = v.ReadInConfig()
		} else {
			err = v.MergeInConfig()
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	config.sources = files

	return &config, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	d := Default()
	v.SetDefault("repo_url", d.RepoURL)
	v.SetDefault("workflow", d.Workflow)
	v.SetDefault("api_base", d.APIBase)
	v.SetDefault("host_prefix", d.HostPrefix)
	v.SetDefault("poll_interval", d.PollInterval)
	v.SetDefault("max_polls", d.MaxPolls)
	v.SetDefault("request_timeout", d.RequestTimeout)
	v.SetDefault("debug", d.Debug)

	v.SetEnvPrefix("RUNWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("repo_url", "RUNWATCH_REPO_URL", LegacyRepoURLEnv)

	return v
}

// Sources returns the config files that contributed to c, lowest precedence first
func (c *Config) Sources() []string {
	return c.sources
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBase) == "" {
		return fmt.Errorf("api_base must not be empty")
	}
	if strings.TrimSpace(c.HostPrefix) == "" {
		return fmt.Errorf("host_prefix must not be empty")
	}
	if !strings.HasSuffix(c.HostPrefix, "/") {
		return fmt.Errorf("host_prefix must end with '/': %q", c.HostPrefix)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive, got %v", c.PollInterval)
	}
	if c.MaxPolls < 0 {
		return fmt.Errorf("max_polls must be >= 0, got %d", c.MaxPolls)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", c.RequestTimeout)
	}
	return nil
}

// Marshal renders c as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	header := `# runwatch configuration
#
# - repo_url: repository to watch (https://github.com/owner/repo)
# - workflow: workflow id or name to preselect
# - api_base: GitHub REST API base URL
# - host_prefix: prefix repository URLs must start with
# - poll_interval: wait between run listings while runs are pending
# - max_polls: stop after this many listings (0 = wait forever)
# - request_timeout: timeout of a single API request
#
# Every key can be overridden with RUNWATCH_<KEY> or the matching flag.

`

	if err := os.WriteFile(path, []byte(header+string(data)), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
