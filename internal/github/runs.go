package github

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/sirupsen/logrus"

	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

// ErrPollLimit is returned by WaitForRuns when MaxPolls listings still had pending runs
const ErrPollLimit = errors.Sentinel("runs still pending after the maximum number of polls")

// Progress receives the number of pending runs while WaitForRuns is waiting
type Progress interface {
	Update(pending int)
}

// WaitForRuns lists the runs of a workflow (or of all workflows) and keeps
// polling until none of them is queued or in progress. HTTP failures are
// returned immediately; only pending runs cause another poll.
func (c *Client) WaitForRuns(ctx context.Context, repo models.RepoRef, workflowID int64, progress Progress) (*models.RunCollection, error) {
	log := logrus.WithFields(logrus.Fields{
		"repo":     repo.String(),
		"workflow": workflowID,
	})

	for poll := 1; ; poll++ {
		runs, err := c.ListRuns(ctx, repo, workflowID)
		if err != nil {
			return nil, err
		}

		pending := len(runs.Pending())
		log.WithFields(logrus.Fields{
			"poll":    poll,
			"runs":    len(runs.WorkflowRuns),
			"pending": pending,
		}).Debug("listed workflow runs")

		if pending == 0 {
			return runs, nil
		}

		if c.maxPolls > 0 && poll >= c.maxPolls {
			return nil, errors.WithDetails(ErrPollLimit, "polls", poll, "pending", pending)
		}

		if progress != nil {
			progress.Update(pending)
		}

		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return nil, errors.Wrap(err, "stopped waiting for workflow runs")
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
