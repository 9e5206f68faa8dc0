package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cloudsky01/gh-runwatch/pkg/models"
)

var testRepo = models.RepoRef{Owner: "acme", Name: "widgets"}

type recordingSleeper struct {
	calls []time.Duration
}

func (s *recordingSleeper) sleep(_ context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return nil
}

type recordingProgress struct {
	updates []int
}

func (p *recordingProgress) Update(pending int) {
	p.updates = append(p.updates, pending)
}

func newTestClient(t *testing.T, handler http.Handler, sleeper *recordingSleeper, maxPolls int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClientWithOptions(ClientOptions{
		BaseURL:      srv.URL,
		PollInterval: 5 * time.Second,
		MaxPolls:     maxPolls,
		HTTPClient:   srv.Client(),
		Sleep:        sleeper.sleep,
	})
}

func TestListWorkflows(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/actions/workflows", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"total_count":2,"workflows":[{"id":11,"name":"CI"},{"id":7,"name":"Deploy"}]}`))
	})
	c := newTestClient(t, handler, &recordingSleeper{}, 0)

	workflows, err := c.ListWorkflows(context.Background(), testRepo)
	require.NoError(t, err)
	require.Len(t, workflows, 2)
	assert.Equal(t, models.Workflow{ID: 11, Name: "CI"}, workflows[0])
	assert.Equal(t, models.Workflow{ID: 7, Name: "Deploy"}, workflows[1])
}

func TestListWorkflowsRejectsMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing list", `{"total_count":0}`},
		{"workflow without id", `{"workflows":[{"name":"CI"}]}`},
		{"not json", `<html></html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})
			c := newTestClient(t, handler, &recordingSleeper{}, 0)

			_, err := c.ListWorkflows(context.Background(), testRepo)
			require.Error(t, err)

			var reqErr *RequestError
			assert.False(t, errors.As(err, &reqErr))
		})
	}
}

func TestListWorkflowsHTTPFailure(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	})
	c := newTestClient(t, handler, &recordingSleeper{}, 0)

	_, err := c.ListWorkflows(context.Background(), testRepo)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusNotFound, reqErr.Status)
	assert.Equal(t, "Not Found", reqErr.Message)
}

func TestWaitForRunsReturnsImmediatelyWhenSettled(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/repos/acme/widgets/actions/runs", r.URL.Path)
		_, _ = w.Write([]byte(`{"total_count":2,"workflow_runs":[
			{"id":1,"name":"CI","status":"completed","conclusion":"success"},
			{"id":2,"name":"CI","status":"completed","conclusion":"failure"}]}`))
	})
	sleeper := &recordingSleeper{}
	progress := &recordingProgress{}
	c := newTestClient(t, handler, sleeper, 0)

	runs, err := c.WaitForRuns(context.Background(), testRepo, models.AllWorkflowsID, progress)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, sleeper.calls)
	assert.Empty(t, progress.updates)
	assert.Equal(t, 2, runs.TotalCount)
	assert.Len(t, runs.WorkflowRuns, 2)
}

func TestWaitForRunsPollsUntilSettled(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/acme/widgets/actions/workflows/42/runs", r.URL.Path)
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(`{"total_count":1,"workflow_runs":[{"id":1,"name":"CI","status":"queued"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"total_count":1,"workflow_runs":[{"id":1,"name":"CI","status":"completed","conclusion":"success","run_number":9}]}`))
	})
	sleeper := &recordingSleeper{}
	progress := &recordingProgress{}
	c := newTestClient(t, handler, sleeper, 0)

	runs, err := c.WaitForRuns(context.Background(), testRepo, 42, progress)
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, []time.Duration{5 * time.Second}, sleeper.calls)
	assert.Equal(t, []int{1}, progress.updates)
	require.Len(t, runs.WorkflowRuns, 1)
	assert.Equal(t, "completed", runs.WorkflowRuns[0].Status)
	assert.Equal(t, 9, runs.WorkflowRuns[0].RunNumber)
}

func TestWaitForRunsDoesNotRetryHTTPFailure(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"API rate limit exceeded"}`))
	})
	sleeper := &recordingSleeper{}
	c := newTestClient(t, handler, sleeper, 0)

	_, err := c.WaitForRuns(context.Background(), testRepo, models.AllWorkflowsID, nil)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusForbidden, reqErr.Status)
	assert.Equal(t, int32(1), calls.Load())
	assert.Empty(t, sleeper.calls)
}

func TestWaitForRunsPollLimit(t *testing.T) {
	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"total_count":1,"workflow_runs":[{"id":1,"name":"CI","status":"in_progress"}]}`))
	})
	sleeper := &recordingSleeper{}
	c := newTestClient(t, handler, sleeper, 3)

	_, err := c.WaitForRuns(context.Background(), testRepo, models.AllWorkflowsID, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPollLimit))
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, sleeper.calls, 2)
}

func TestWaitForRunsStopsOnCancel(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_count":1,"workflow_runs":[{"id":1,"name":"CI","status":"queued"}]}`))
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := NewClientWithOptions(ClientOptions{
		BaseURL:      srv.URL,
		PollInterval: time.Hour,
		HTTPClient:   srv.Client(),
	})

	progress := progressFunc(func(int) { cancel() })
	_, err := c.WaitForRuns(ctx, testRepo, models.AllWorkflowsID, progress)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

type progressFunc func(int)

func (f progressFunc) Update(pending int) { f(pending) }

func TestRunsPath(t *testing.T) {
	assert.Equal(t, "/repos/acme/widgets/actions/runs", runsPath(testRepo, models.AllWorkflowsID))
	assert.Equal(t, "/repos/acme/widgets/actions/workflows/5/runs", runsPath(testRepo, 5))
}
