package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Cloudsky01/gh-runwatch/internal/config"
	"github.com/Cloudsky01/gh-runwatch/internal/git"
	"github.com/Cloudsky01/gh-runwatch/internal/paths"
	"github.com/Cloudsky01/gh-runwatch/internal/prompt"
	"github.com/Cloudsky01/gh-runwatch/internal/state"
)

var (
	forceInit bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage runwatch configuration",
		Long: `Manage runwatch configuration files.

Configuration Locations:
  User config:     ~/.config/runwatch/config.yaml
  Project config:  ./.runwatch.yaml

Configuration Precedence (lowest to highest):
  1. Built-in defaults
  2. User config
  3. Project config
  4. Environment variables (RUNWATCH_*, REPO_URL)
  5. CLI flags`,
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Show configuration file locations",
		RunE:  runConfigPath,
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Display merged configuration",
		Long:  `Show the effective configuration after merging all sources.`,
		RunE:  runConfigShow,
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file",
		Long: `Write a configuration file with the default settings to the user config
location, or to the --config path when given. In a terminal you are asked for
the repository URL, prefilled with the repository of the current directory.`,
		RunE: runConfigInit,
	}
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing configuration file")
	configInitCmd.Flags().StringP("repo-url", "r", "", "Repository URL to store (skips the prompt)")
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	p, err := paths.New()
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	writeConfigPaths(cmd.OutOrStdout(), p, configPath)
	return nil
}

func writeConfigPaths(w io.Writer, p *paths.Paths, explicit string) {
	fmt.Fprintln(w, "Configuration File Locations")
	fmt.Fprintln(w, "════════════════════════════════════════════════════════════")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "User Config:        %s %s\n", p.UserConfigFile(), existsIndicator(fileExists(p.UserConfigFile())))
	fmt.Fprintf(w, "Project Config:     %s %s\n", p.ProjectConfigPath, existsIndicator(fileExists(p.ProjectConfigPath)))
	if explicit != "" {
		fmt.Fprintf(w, "Explicit (--config): %s %s\n", explicit, existsIndicator(fileExists(explicit)))
	}

	if p.UserStateDir != "" {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "State File:         %s %s\n", p.GlobalStateFile(), existsIndicator(fileExists(p.GlobalStateFile())))
		if last, err := state.LoadGlobal(p); err == nil && last.LastRepoURL != "" {
			fmt.Fprintf(w, "Last Repository:    %s (%s)\n", last.LastRepoURL, last.LastWorkflow)
		}
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, p, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Merged Configuration")
	fmt.Fprintln(w, "════════════════════════════════════════════════════════════")
	fmt.Fprintln(w, string(data))

	fmt.Fprintln(w, "════════════════════════════════════════════════════════════")
	fmt.Fprintln(w, "Active Configuration Files:")
	if len(cfg.Sources()) == 0 {
		fmt.Fprintln(w, "  (none, using defaults)")
	}
	for _, path := range cfg.Sources() {
		source := p.GetConfigSource(path)
		if path == configPath {
			source = paths.SourceExplicit
		}
		fmt.Fprintf(w, "  • %s (%s)\n", path, source)
	}

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	p, err := paths.New()
	if err != nil {
		return fmt.Errorf("failed to initialize paths: %w", err)
	}

	target, err := initTarget(p, configPath)
	if err != nil {
		return err
	}

	pr := newPrompter()
	if fileExists(target) && !forceInit {
		overwrite := false
		err := pr.AskConfirm(
			"Configuration already exists",
			fmt.Sprintf("Overwrite %s?", target),
			&overwrite,
		)
		switch {
		case errors.Is(err, prompt.ErrNotInteractive):
			return fmt.Errorf("%s already exists, use --force to overwrite", target)
		case errors.Is(err, prompt.ErrCancelled):
			return nil
		case err != nil:
			return err
		}
		if !overwrite {
			fmt.Fprintln(cmd.OutOrStdout(), "Init cancelled.")
			return nil
		}
	}

	cfg := config.Default()
	if repoURL, _ := cmd.Flags().GetString("repo-url"); repoURL != "" {
		cfg.RepoURL = repoURL
	} else {
		suggestion := ""
		if ref, err := git.DetectRepository(); err == nil {
			suggestion = git.RepoURL(ref, cfg.HostPrefix)
		}

		url, err := pr.AskRepoURL(suggestion)
		switch {
		case errors.Is(err, prompt.ErrNotInteractive):
			cfg.RepoURL = suggestion
		case errors.Is(err, prompt.ErrCancelled):
			return nil
		case err != nil:
			return err
		default:
			cfg.RepoURL = url
		}
	}

	if cfg.RepoURL != "" {
		if _, err := git.ParseRepoURL(cfg.RepoURL, cfg.HostPrefix); err != nil {
			return fmt.Errorf("invalid repository URL: %w", err)
		}
	}

	if err := cfg.Save(target); err != nil {
		return err
	}

	printConfigSummary(cmd.OutOrStdout(), target, cfg)
	return nil
}

// initTarget returns the file config init writes to, creating its directory
func initTarget(p *paths.Paths, explicit string) (string, error) {
	if explicit != "" {
		if err := os.MkdirAll(filepath.Dir(explicit), 0755); err != nil {
			return "", fmt.Errorf("failed to create config directory: %w", err)
		}
		return explicit, nil
	}

	if err := p.EnsureDirs(); err != nil {
		return "", err
	}
	return p.UserConfigFile(), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func existsIndicator(exists bool) string {
	if exists {
		return "✓"
	}
	return "✗"
}
