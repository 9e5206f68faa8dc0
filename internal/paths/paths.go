package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// AppName is the application name used in config paths
	AppName = "runwatch"

	// ConfigFileName is the name of the user config file
	ConfigFileName = "config.yaml"

	// ProjectConfigFileName is the name of the per-directory config file
	ProjectConfigFileName = ".runwatch.yaml"

	// GlobalStateFileName is the name of the state file shared by all sessions
	GlobalStateFileName = "state.yaml"
)

// ConfigSource indicates where a config file came from
type ConfigSource int

const (
	SourceUnknown ConfigSource = iota
	SourceUserConfig
	SourceProjectConfig
	SourceExplicit
)

func (s ConfigSource) String() string {
	switch s {
	case SourceUserConfig:
		return "user config"
	case SourceProjectConfig:
		return "project config"
	case SourceExplicit:
		return "--config flag"
	default:
		return "unknown"
	}
}

// Paths provides access to the application's config locations
type Paths struct {
	// UserConfigDir is the user's config directory ($XDG_CONFIG_HOME/runwatch)
	UserConfigDir string

	// ProjectConfigPath is the config file in the working directory (./.runwatch.yaml)
	ProjectConfigPath string

	// UserStateDir is the user's state directory ($XDG_STATE_HOME/runwatch)
	UserStateDir string
}

// New creates a Paths instance using the XDG base directories
func New() (*Paths, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}

	return &Paths{
		UserConfigDir:     filepath.Join(xdg.ConfigHome, AppName),
		ProjectConfigPath: filepath.Join(cwd, ProjectConfigFileName),
		UserStateDir:      filepath.Join(xdg.StateHome, AppName),
	}, nil
}

// UserConfigFile returns the path to the user's config file
func (p *Paths) UserConfigFile() string {
	return filepath.Join(p.UserConfigDir, ConfigFileName)
}

// EnsureDirs creates the user config and state directories with XDG permissions (0700)
func (p *Paths) EnsureDirs() error {
	for _, dir := range []string{p.UserConfigDir, p.UserStateDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			if os.IsPermission(err) {
				return fmt.Errorf(
					"permission denied: cannot create directory %s\n\n"+
						"Set a custom location: export XDG_CONFIG_HOME=/tmp/%s-config XDG_STATE_HOME=/tmp/%s-state\n\n"+
						"Original error: %v",
					dir, AppName, AppName, err)
			}
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GlobalStateFile returns the path to the state file
func (p *Paths) GlobalStateFile() string {
	return filepath.Join(p.UserStateDir, GlobalStateFileName)
}

// GetConfigPaths returns the existing config files in order of precedence (lowest to highest)
func (p *Paths) GetConfigPaths() []string {
	var found []string

	for _, path := range []string{p.UserConfigFile(), p.ProjectConfigPath} {
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			found = append(found, path)
		}
	}

	return found
}

// GetConfigSource determines which source a config path corresponds to
func (p *Paths) GetConfigSource(path string) ConfigSource {
	switch path {
	case p.UserConfigFile():
		return SourceUserConfig
	case p.ProjectConfigPath:
		return SourceProjectConfig
	default:
		return SourceUnknown
	}
}
