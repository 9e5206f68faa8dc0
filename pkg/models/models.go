package models

import (
	"fmt"
	"time"
)

// AllWorkflowsID selects every workflow of a repository instead of a single one.
const AllWorkflowsID int64 = -1

// AllWorkflowsName is the label of the AllWorkflowsID option.
const AllWorkflowsName = "All Workflows"

// RepoRef identifies a GitHub repository
type RepoRef struct {
	Owner string
	Name  string
}

func (r RepoRef) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// Workflow represents a GitHub Actions workflow definition
type Workflow struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"path,omitempty"`
	State string `json:"state,omitempty"`
}

// WorkflowList is the payload of the list workflows endpoint
type WorkflowList struct {
	TotalCount int        `json:"total_count"`
	Workflows  []Workflow `json:"workflows"`
}

// WorkflowRun represents a single execution of a workflow
type WorkflowRun struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion"`
	HeadBranch string    `json:"head_branch"`
	HeadSHA    string    `json:"head_sha"`
	CreatedAt  time.Time `json:"created_at"`
	HTMLURL    string    `json:"html_url"`
	RunNumber  int       `json:"run_number"`
	WorkflowID int64     `json:"workflow_id"`
}

// ShortSHA returns the abbreviated commit hash
func (r *WorkflowRun) ShortSHA() string {
	if len(r.HeadSHA) <= 7 {
		return r.HeadSHA
	}
	return r.HeadSHA[:7]
}

// IsPending reports whether the run has not finished yet
func (r *WorkflowRun) IsPending() bool {
	return r.Status == "in_progress" || r.Status == "queued"
}

// RunCollection is the payload of the list workflow runs endpoints
type RunCollection struct {
	TotalCount   int           `json:"total_count"`
	WorkflowRuns []WorkflowRun `json:"workflow_runs"`
}

// Pending returns the runs that are still queued or in progress
func (c *RunCollection) Pending() []WorkflowRun {
	var pending []WorkflowRun
	for _, run := range c.WorkflowRuns {
		if run.IsPending() {
			pending = append(pending, run)
		}
	}
	return pending
}

// RunGroup holds the runs of one workflow, in the order they were listed
type RunGroup struct {
	Name string
	Runs []WorkflowRun
}

// GroupByName groups runs by workflow name, preserving first-seen order
func GroupByName(runs []WorkflowRun) []RunGroup {
	var groups []RunGroup
	index := make(map[string]int)

	for _, run := range runs {
		i, ok := index[run.Name]
		if !ok {
			i = len(groups)
			index[run.Name] = i
			groups = append(groups, RunGroup{Name: run.Name})
		}
		groups[i].Runs = append(groups[i].Runs, run)
	}

	return groups
}
