// Package state remembers what the last completed session watched.
package state

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Cloudsky01/gh-runwatch/internal/paths"
)

type GlobalState struct {
	LastRepoURL  string    `yaml:"lastRepoURL,omitempty"`
	LastWorkflow string    `yaml:"lastWorkflow,omitempty"`
	LastRunAt    time.Time `yaml:"lastRunAt,omitempty"`
}

// LoadGlobal reads the state file. A missing or corrupted file yields an empty state.
func LoadGlobal(p *paths.Paths) (*GlobalState, error) {
	data, err := os.ReadFile(p.GlobalStateFile())
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalState{}, nil
		}
		return nil, fmt.Errorf("failed to read global state: %w", err)
	}

	var state GlobalState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return &GlobalState{}, nil
	}

	return &state, nil
}

func (s *GlobalState) Save(p *paths.Paths) error {
	if err := p.EnsureDirs(); err != nil {
		return fmt.Errorf("failed to ensure state directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal global state: %w", err)
	}

	return os.WriteFile(p.GlobalStateFile(), data, 0644)
}

// Remember records a completed session and saves the state
func Remember(p *paths.Paths, repoURL, workflow string, at time.Time) error {
	s := &GlobalState{
		LastRepoURL:  repoURL,
		LastWorkflow: workflow,
		LastRunAt:    at,
	}
	return s.Save(p)
}

// Clear removes the state file
func Clear(p *paths.Paths) error {
	err := os.Remove(p.GlobalStateFile())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
