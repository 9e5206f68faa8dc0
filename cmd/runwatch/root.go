package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Cloudsky01/gh-runwatch/internal/config"
	"github.com/Cloudsky01/gh-runwatch/internal/git"
	"github.com/Cloudsky01/gh-runwatch/internal/github"
	"github.com/Cloudsky01/gh-runwatch/internal/paths"
	"github.com/Cloudsky01/gh-runwatch/internal/prompt"
	"github.com/Cloudsky01/gh-runwatch/internal/session"
	"github.com/Cloudsky01/gh-runwatch/internal/state"
	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath  string
	newPrompter = prompt.New

	rootCmd = &cobra.Command{
		Use:   "runwatch",
		Short: "Watch GitHub Actions workflow runs until they settle",
		Long: `runwatch lists the GitHub Actions workflow runs of a repository, waits
while any of them is queued or in progress, then prints a summary.

Pick "All Workflows" to see the runs grouped by workflow, or a single
workflow for a flat list.

The repository URL is read from RUNWATCH_REPO_URL (or REPO_URL), --repo-url
or a config file; otherwise you are prompted for it.

Get started:
  runwatch                                          # Prompt for everything
  runwatch --repo-url https://github.com/owner/repo
  REPO_URL=https://github.com/owner/repo runwatch --workflow all`,
		RunE:    runWatch,
		Version: version,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				enableDebug()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: user and project config)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")

	rootCmd.Flags().StringP("repo-url", "r", "", "Repository URL, e.g. https://github.com/owner/repo")
	rootCmd.Flags().StringP("workflow", "w", "", "Workflow id or name to show, or \"all\" (skips the prompt)")
	rootCmd.Flags().String("api-base", config.DefaultAPIBase, "GitHub REST API base URL")
	rootCmd.Flags().Duration("poll-interval", config.DefaultPollInterval, "Wait between polls while runs are pending")
	rootCmd.Flags().Int("max-polls", 0, "Give up after this many polls (0 = wait until all runs finish)")
	rootCmd.Flags().Duration("request-timeout", config.DefaultRequestTimeout, "Timeout of a single API request")

	rootCmd.SetVersionTemplate(fmt.Sprintf("runwatch {{.Version}} (commit %s, built %s)\n", commit, date))
}

func enableDebug() {
	logrus.SetLevel(logrus.DebugLevel)
	logrus.WithField("version", version).Debug("enabled debug logging")
}

func loadConfig(cmd *cobra.Command) (*config.Config, *paths.Paths, error) {
	p, err := paths.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize paths: %w", err)
	}

	cfg, err := config.Load(p, configPath, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Debug {
		enableDebug()
	}
	logrus.WithField("sources", cfg.Sources()).Debug("loaded configuration")

	return cfg, p, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, p, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client := github.NewClientWithOptions(github.ClientOptions{
		BaseURL:      cfg.APIBase,
		Timeout:      cfg.RequestTimeout,
		PollInterval: cfg.PollInterval,
		MaxPolls:     cfg.MaxPolls,
	})

	printBanner(cmd.OutOrStdout())

	s := session.New(client, newPrompter(), cmd.OutOrStdout(), session.Options{
		RepoURL:    cfg.RepoURL,
		Workflow:   cfg.Workflow,
		HostPrefix: cfg.HostPrefix,
		DetectRepo: func() (models.RepoRef, error) {
			return suggestRepo(p, cfg.HostPrefix)
		},
		StartIndicator: func(message string) session.Indicator {
			return prompt.StartSpinner(message, cancel)
		},
	})

	if err := s.Run(ctx); err != nil {
		return &sessionError{err: err, repo: s.Repo().String()}
	}

	if s.State() == session.StateDone && s.Selected().Name != "" {
		repoURL := git.RepoURL(s.Repo(), cfg.HostPrefix)
		if err := state.Remember(p, repoURL, s.Selected().Name, time.Now()); err != nil {
			logrus.WithError(err).Debug("failed to save state")
		}
	}
	return nil
}

// suggestRepo returns the repository of the working directory, or the one the
// last session watched
func suggestRepo(p *paths.Paths, hostPrefix string) (models.RepoRef, error) {
	ref, err := git.DetectRepository()
	if err == nil {
		return ref, nil
	}

	last, stateErr := state.LoadGlobal(p)
	if stateErr != nil || last.LastRepoURL == "" {
		return models.RepoRef{}, err
	}
	return git.ParseRepoURL(last.LastRepoURL, hostPrefix)
}

// Execute runs the CLI and returns the process exit code
func Execute(ctx context.Context) int {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		printFailure(os.Stderr, err)
		return 1
	}
	return 0
}
