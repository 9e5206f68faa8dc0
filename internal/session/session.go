// Package session drives one interactive runwatch session: it resolves the
// repository, lets the user pick a workflow, waits for its runs to settle and
// prints them.
package session

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/sirupsen/logrus"

	"github.com/Cloudsky01/gh-runwatch/internal/failure"
	"github.com/Cloudsky01/gh-runwatch/internal/git"
	"github.com/Cloudsky01/gh-runwatch/internal/github"
	"github.com/Cloudsky01/gh-runwatch/internal/prompt"
	"github.com/Cloudsky01/gh-runwatch/internal/theme"
	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

// State is a step of the session
type State int

const (
	StateAcquireRepoURL State = iota
	StateValidateURL
	StateListWorkflows
	StateSelectWorkflow
	StateFetchRuns
	StateRender
	StateDone
	StateAborted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAcquireRepoURL:
		return "acquire-repo-url"
	case StateValidateURL:
		return "validate-url"
	case StateListWorkflows:
		return "list-workflows"
	case StateSelectWorkflow:
		return "select-workflow"
	case StateFetchRuns:
		return "fetch-runs"
	case StateRender:
		return "render"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// API is the part of the GitHub client a session needs
type API interface {
	ListWorkflows(ctx context.Context, repo models.RepoRef) ([]models.Workflow, error)
	WaitForRuns(ctx context.Context, repo models.RepoRef, workflowID int64, progress github.Progress) (*models.RunCollection, error)
}

// Prompter asks the user for the repository and the workflow
type Prompter interface {
	AskRepoURL(suggestion string) (string, error)
	SelectWorkflow(options []models.Workflow) (models.Workflow, error)
}

// Indicator shows progress while the session waits on the API
type Indicator interface {
	SetMessage(message string)
	Update(pending int)
	Stop()
}

// Options configures a Session
type Options struct {
	// RepoURL skips the repository prompt when set
	RepoURL string
	// Workflow preselects a workflow by id, name or "all"
	Workflow   string
	HostPrefix string
	// DetectRepo suggests a repository for the prompt. May be nil.
	DetectRepo func() (models.RepoRef, error)
	// StartIndicator creates the progress indicator. May be nil.
	StartIndicator func(message string) Indicator
	Now            func() time.Time
}

// Session is one run of the interactive flow
type Session struct {
	api      API
	prompter Prompter
	out      io.Writer
	theme    *theme.Theme
	opts     Options

	state    State
	repo     models.RepoRef
	selected models.Workflow
}

func New(api API, prompter Prompter, out io.Writer, opts Options) *Session {
	if opts.HostPrefix == "" {
		opts.HostPrefix = git.DefaultHostPrefix
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		api:      api,
		prompter: prompter,
		out:      out,
		theme:    theme.Default(),
		opts:     opts,
		state:    StateAcquireRepoURL,
	}
}

// State returns the state the session stopped in
func (s *Session) State() State {
	return s.state
}

// Repo returns the repository of the session, once validated
func (s *Session) Repo() models.RepoRef {
	return s.repo
}

// Selected returns the workflow the runs were fetched for
func (s *Session) Selected() models.Workflow {
	return s.selected
}

// Run executes the session. It returns nil when the session completed or the
// user cancelled; State tells the two apart.
func (s *Session) Run(ctx context.Context) error {
	var (
		rawURL    string
		workflows []models.Workflow
		runs      *models.RunCollection
		err       error
	)

	for {
		logrus.WithField("state", s.state.String()).Debug("session state")

		switch s.state {
		case StateAcquireRepoURL:
			rawURL, err = s.acquireRepoURL()
			s.next(err, StateValidateURL)

		case StateValidateURL:
			s.repo, err = git.ParseRepoURL(rawURL, s.opts.HostPrefix)
			if err != nil {
				err = &failure.ValidationError{Input: rawURL, Err: err}
			}
			s.next(err, StateListWorkflows)

		case StateListWorkflows:
			workflows, err = s.listWorkflows(ctx)
			if err == nil && len(workflows) == 0 {
				fmt.Fprintln(s.out, s.theme.Info(fmt.Sprintf("No workflows found on %s.", s.repo)))
				s.state = StateDone
				continue
			}
			s.next(err, StateSelectWorkflow)

		case StateSelectWorkflow:
			s.selected, err = s.selectWorkflow(workflows)
			s.next(err, StateFetchRuns)

		case StateFetchRuns:
			runs, err = s.fetchRuns(ctx)
			s.next(err, StateRender)

		case StateRender:
			RenderRuns(s.out, s.theme, s.repo, runs, s.selected.ID == models.AllWorkflowsID, s.opts.Now())
			s.state = StateDone

		case StateDone:
			fmt.Fprintln(s.out)
			fmt.Fprintln(s.out, s.theme.Success("Thank you for using runwatch!"))
			return nil

		case StateAborted:
			fmt.Fprintln(s.out, s.theme.Warn("Operation cancelled."))
			return nil

		case StateFailed:
			return err
		}
	}
}

// next moves to the following state, or to Aborted/Failed when err is set
func (s *Session) next(err error, following State) {
	switch {
	case err == nil:
		s.state = following
	case errors.Is(err, prompt.ErrCancelled), errors.Is(err, context.Canceled):
		s.state = StateAborted
	default:
		logrus.WithError(err).WithField("state", s.state.String()).Debug("session failed")
		s.state = StateFailed
	}
}

func (s *Session) acquireRepoURL() (string, error) {
	if s.opts.RepoURL != "" {
		logrus.WithField("repo_url", s.opts.RepoURL).Debug("using configured repository URL")
		return s.opts.RepoURL, nil
	}

	suggestion := ""
	if s.opts.DetectRepo != nil {
		if ref, err := s.opts.DetectRepo(); err == nil {
			suggestion = git.RepoURL(ref, s.opts.HostPrefix)
		} else {
			logrus.WithError(err).Debug("no repository detected")
		}
	}

	return s.prompter.AskRepoURL(suggestion)
}

func (s *Session) listWorkflows(ctx context.Context) ([]models.Workflow, error) {
	indicator := s.startIndicator(fmt.Sprintf("Fetching workflows of %s", s.repo))
	defer indicator.Stop()

	workflows, err := s.api.ListWorkflows(ctx, s.repo)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to list workflows")
	}
	return workflows, nil
}

// WorkflowOptions returns the selectable workflows: All Workflows first, then
// the listed workflows in order
func WorkflowOptions(workflows []models.Workflow) []models.Workflow {
	options := make([]models.Workflow, 0, len(workflows)+1)
	options = append(options, models.Workflow{ID: models.AllWorkflowsID, Name: models.AllWorkflowsName})
	return append(options, workflows...)
}

func (s *Session) selectWorkflow(workflows []models.Workflow) (models.Workflow, error) {
	options := WorkflowOptions(workflows)

	if s.opts.Workflow != "" {
		return matchWorkflow(options, s.opts.Workflow)
	}

	return s.prompter.SelectWorkflow(options)
}

// matchWorkflow finds the option named by an id, a name or "all"
func matchWorkflow(options []models.Workflow, query string) (models.Workflow, error) {
	query = strings.TrimSpace(query)
	if strings.EqualFold(query, "all") {
		return options[0], nil
	}

	if id, err := strconv.ParseInt(query, 10, 64); err == nil {
		for _, wf := range options {
			if wf.ID == id {
				return wf, nil
			}
		}
	}

	for _, wf := range options {
		if strings.EqualFold(wf.Name, query) {
			return wf, nil
		}
	}

	return models.Workflow{}, errors.Errorf("workflow %q not found", query)
}

func (s *Session) fetchRuns(ctx context.Context) (*models.RunCollection, error) {
	indicator := s.startIndicator(fmt.Sprintf("Fetching runs of %s", s.selected.Name))
	defer indicator.Stop()

	runs, err := s.api.WaitForRuns(ctx, s.repo, s.selected.ID, indicator)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to fetch workflow runs")
	}
	return runs, nil
}

func (s *Session) startIndicator(message string) Indicator {
	if s.opts.StartIndicator == nil {
		return nopIndicator{}
	}
	return s.opts.StartIndicator(message)
}

type nopIndicator struct{}

func (nopIndicator) SetMessage(string) {}
func (nopIndicator) Update(int)        {}
func (nopIndicator) Stop()             {}
