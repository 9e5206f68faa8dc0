package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/sirupsen/logrus"

	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

const (
	DefaultBaseURL      = "https://api.github.com"
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 5 * time.Second
)

// ClientOptions configures a Client. Zero values fall back to the defaults.
type ClientOptions struct {
	BaseURL      string
	Timeout      time.Duration
	PollInterval time.Duration
	// MaxPolls caps the number of run listings WaitForRuns issues. Zero polls forever.
	MaxPolls   int
	HTTPClient *http.Client
	// Sleep waits between polls. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Client talks to the GitHub REST API without authentication
type Client struct {
	baseURL      string
	httpClient   *http.Client
	timeout      time.Duration
	pollInterval time.Duration
	maxPolls     int
	sleep        func(ctx context.Context, d time.Duration) error
}

func NewClient(baseURL string) *Client {
	return NewClientWithOptions(ClientOptions{BaseURL: baseURL})
}

func NewClientWithOptions(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	return &Client{
		baseURL:      strings.TrimSuffix(opts.BaseURL, "/"),
		httpClient:   opts.HTTPClient,
		timeout:      opts.Timeout,
		pollInterval: opts.PollInterval,
		maxPolls:     opts.MaxPolls,
		sleep:        opts.Sleep,
	}
}

func (c *Client) GetBaseURL() string {
	return c.baseURL
}

func (c *Client) GetPollInterval() time.Duration {
	return c.pollInterval
}

// ListWorkflows fetches the workflows registered in a repository, in listing order
func (c *Client) ListWorkflows(ctx context.Context, repo models.RepoRef) ([]models.Workflow, error) {
	var list models.WorkflowList
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/actions/workflows", repo), &list); err != nil {
		return nil, err
	}

	if list.Workflows == nil {
		return nil, errors.New("unexpected workflows response: missing workflows list")
	}
	for i, wf := range list.Workflows {
		if wf.ID == 0 {
			return nil, errors.Errorf("unexpected workflows response: workflow %d has no id", i)
		}
	}

	return list.Workflows, nil
}

// ListRuns fetches one snapshot of workflow runs. workflowID may be models.AllWorkflowsID.
func (c *Client) ListRuns(ctx context.Context, repo models.RepoRef, workflowID int64) (*models.RunCollection, error) {
	var runs models.RunCollection
	if err := c.get(ctx, runsPath(repo, workflowID), &runs); err != nil {
		return nil, err
	}

	if runs.WorkflowRuns == nil {
		return nil, errors.New("unexpected runs response: missing workflow_runs list")
	}

	return &runs, nil
}

func runsPath(repo models.RepoRef, workflowID int64) string {
	if workflowID == models.AllWorkflowsID {
		return fmt.Sprintf("/repos/%s/actions/runs", repo)
	}
	return fmt.Sprintf("/repos/%s/actions/workflows/%d/runs", repo, workflowID)
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	logrus.WithField("url", url).Debug("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return errors.Errorf("GET %s timed out after %v", path, c.timeout)
		}
		return errors.Wrapf(err, "GET %s failed", path)
	}
	defer resp.Body.Close()

	logrus.WithFields(logrus.Fields{
		"url":    url,
		"status": resp.StatusCode,
	}).Debug("received response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewRequestError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrapf(err, "failed to parse response from %s", path)
	}

	return nil
}
