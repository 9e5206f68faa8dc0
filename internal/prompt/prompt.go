package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/cli/go-gh/v2/pkg/term"

	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

// ErrCancelled is returned when the user aborts a prompt
var ErrCancelled = errors.New("operation cancelled")

// ErrNotInteractive is returned when a prompt is needed but there is no terminal
var ErrNotInteractive = errors.New("a terminal is required to prompt; set RUNWATCH_REPO_URL or pass --repo-url")

// IsTTY reports whether stdout is attached to a terminal
func IsTTY() bool {
	return term.FromEnv().IsTerminalOutput()
}

// Prompter asks the user for input with huh forms
type Prompter struct {
	interactive bool
}

func New() *Prompter {
	return &Prompter{interactive: IsTTY()}
}

// NewNonInteractive returns a Prompter that never prompts
func NewNonInteractive() *Prompter {
	return &Prompter{}
}

// AskRepoURL prompts for a repository URL, prefilled with suggestion
func (p *Prompter) AskRepoURL(suggestion string) (string, error) {
	if !p.interactive {
		return "", ErrNotInteractive
	}

	url := suggestion
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Enter your repository URL to get workflow runs").
				Placeholder("https://github.com/owner/repo").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("URL is required")
					}
					return nil
				}).
				Value(&url),
		),
	)

	if err := run(form); err != nil {
		return "", err
	}
	return strings.TrimSpace(url), nil
}

// SelectWorkflow lets the user pick one of options by name
func (p *Prompter) SelectWorkflow(options []models.Workflow) (models.Workflow, error) {
	if len(options) == 0 {
		return models.Workflow{}, fmt.Errorf("no workflows to select from")
	}
	if !p.interactive {
		return models.Workflow{}, ErrNotInteractive
	}

	opts := make([]huh.Option[int], len(options))
	for i, wf := range options {
		opts[i] = huh.NewOption(wf.Name, i)
	}

	var selected int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Select workflow").
				Options(opts...).
				Value(&selected),
		),
	)

	if err := run(form); err != nil {
		return models.Workflow{}, err
	}
	return options[selected], nil
}

// AskConfirm asks a yes/no question
func (p *Prompter) AskConfirm(title, description string, value *bool) error {
	if !p.interactive {
		return ErrNotInteractive
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(value),
		),
	)

	return run(form)
}

func run(form *huh.Form) error {
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrCancelled
		}
		return err
	}
	return nil
}
