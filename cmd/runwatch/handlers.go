package main

import (
	"fmt"
	"io"

	"emperror.dev/errors"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/Cloudsky01/gh-runwatch/internal/ascii"
	"github.com/Cloudsky01/gh-runwatch/internal/config"
	"github.com/Cloudsky01/gh-runwatch/internal/failure"
	"github.com/Cloudsky01/gh-runwatch/internal/theme"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	asciiStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
)

const divider = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// sessionError carries the repository a failed session was working on
type sessionError struct {
	err  error
	repo string
}

func (e *sessionError) Error() string { return e.err.Error() }
func (e *sessionError) Unwrap() error { return e.err }

func printBanner(w io.Writer) {
	fmt.Fprintln(w, asciiStyle.Render(ascii.Logo()))
	fmt.Fprintln(w, headerStyle.Render("GitHub Workflow Runs"))
	fmt.Fprintln(w)
}

// printFailure writes the user-facing message for err
func printFailure(w io.Writer, err error) {
	repo := ""
	var se *sessionError
	if errors.As(err, &se) {
		repo = se.repo
	}

	report := failure.Classify(err, repo)
	logrus.WithError(err).WithFields(logrus.Fields{
		"kind":   report.Kind.String(),
		"status": report.Status,
	}).Debug("command failed")

	fmt.Fprintln(w, theme.Default().Error(report.Message))
}

func printConfigSummary(w io.Writer, path string, cfg *config.Config) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, dividerStyle.Render(divider))
	fmt.Fprintln(w, theme.Default().Success("Configuration created successfully!"))
	fmt.Fprintln(w, dividerStyle.Render(divider))
	fmt.Fprintln(w)

	repo := cfg.RepoURL
	if repo == "" {
		repo = "(prompt on start)"
	}

	fmt.Fprintln(w, labelStyle.Render("Config file:   ")+infoStyle.Render(path))
	fmt.Fprintln(w, labelStyle.Render("Repository:    ")+infoStyle.Render(repo))
	fmt.Fprintln(w, labelStyle.Render("Poll interval: ")+infoStyle.Render(cfg.PollInterval.String()))

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("Next steps:"))
	fmt.Fprintln(w, infoStyle.Render("   runwatch              # Watch workflow runs"))
	fmt.Fprintln(w, infoStyle.Render("   runwatch --help       # See all options"))
	fmt.Fprintln(w)
}
