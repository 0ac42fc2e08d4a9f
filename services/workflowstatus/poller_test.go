package workflowstatus

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/workersdeploy/lib/mytime"
	"github.com/MarcGrol/workersdeploy/services/githubapi"
)

const exampleRepo = "octo/widget"

func TestPoller(t *testing.T) {

	t.Run("Waits for workflow and run, then follows run to success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		github := githubapi.NewMockClient(ctrl)

		// given
		gomock.InOrder(
			github.EXPECT().ListWorkflows(gomock.Any(), "gho_abc", exampleRepo).Return([]githubapi.Workflow{}, nil),
			github.EXPECT().ListWorkflows(gomock.Any(), "gho_abc", exampleRepo).Return([]githubapi.Workflow{{ID: 7, Name: "Deploy"}}, nil),
			github.EXPECT().ListWorkflowRuns(gomock.Any(), "gho_abc", exampleRepo, int64(7)).Return([]githubapi.WorkflowRun{}, nil),
			github.EXPECT().ListWorkflowRuns(gomock.Any(), "gho_abc", exampleRepo, int64(7)).Return([]githubapi.WorkflowRun{
				{ID: 1, Status: "completed", Conclusion: "failure", CreatedAt: mytime.ExampleTime},
				{ID: 2, Status: "queued", CreatedAt: mytime.ExampleTime.Add(time.Minute), HTMLURL: "https://github.com/octo/widget/actions/runs/2"},
			}, nil),
			github.EXPECT().GetWorkflowRun(gomock.Any(), "gho_abc", exampleRepo, int64(2)).Return(githubapi.WorkflowRun{ID: 2, Status: "in_progress"}, nil),
			github.EXPECT().GetWorkflowRun(gomock.Any(), "gho_abc", exampleRepo, int64(2)).Return(githubapi.WorkflowRun{ID: 2, Status: "in_progress"}, nil),
			github.EXPECT().GetWorkflowRun(gomock.Any(), "gho_abc", exampleRepo, int64(2)).Return(githubapi.WorkflowRun{ID: 2, Status: "completed", Conclusion: "success"}, nil),
		)

		// when
		handle := NewPoller(github, time.Millisecond).Start(context.TODO(), "gho_abc", exampleRepo)
		updates := collect(handle)

		// then
		assert.Equal(t, []Status{StatusQueued, StatusRunning, StatusSuccessful}, statuses(updates))
		assert.Equal(t, "https://github.com/octo/widget/actions/runs/2", updates[0].RunURL)
		assert.Equal(t, StatusSuccessful, handle.Last().Status)
	})

	t.Run("Failed run", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		github := githubapi.NewMockClient(ctrl)

		// given
		github.EXPECT().ListWorkflows(gomock.Any(), "", exampleRepo).Return([]githubapi.Workflow{{ID: 7}}, nil)
		github.EXPECT().ListWorkflowRuns(gomock.Any(), "", exampleRepo, int64(7)).Return([]githubapi.WorkflowRun{{ID: 3, Status: "in_progress"}}, nil)
		github.EXPECT().GetWorkflowRun(gomock.Any(), "", exampleRepo, int64(3)).Return(githubapi.WorkflowRun{ID: 3, Status: "completed", Conclusion: "failure"}, nil)

		// when
		handle := NewPoller(github, time.Millisecond).Start(context.TODO(), "", exampleRepo)
		updates := collect(handle)

		// then
		assert.Equal(t, []Status{StatusRunning, StatusFailed}, statuses(updates))
	})

	t.Run("Run already finished", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		github := githubapi.NewMockClient(ctrl)

		// given
		github.EXPECT().ListWorkflows(gomock.Any(), "", exampleRepo).Return([]githubapi.Workflow{{ID: 7}}, nil)
		github.EXPECT().ListWorkflowRuns(gomock.Any(), "", exampleRepo, int64(7)).Return([]githubapi.WorkflowRun{{ID: 3, Status: "completed", Conclusion: "cancelled"}}, nil)

		// when
		handle := NewPoller(github, time.Millisecond).Start(context.TODO(), "", exampleRepo)
		updates := collect(handle)

		// then
		assert.Equal(t, []Status{StatusError}, statuses(updates))
	})

	t.Run("Transport error halts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		github := githubapi.NewMockClient(ctrl)

		// given
		github.EXPECT().ListWorkflows(gomock.Any(), "", exampleRepo).Return(nil, fmt.Errorf("connection reset"))

		// when
		handle := NewPoller(github, time.Millisecond).Start(context.TODO(), "", exampleRepo)
		updates := collect(handle)

		// then
		assert.Len(t, updates, 1)
		assert.Equal(t, StatusError, updates[0].Status)
		assert.EqualError(t, updates[0].Err, "connection reset")
	})

	t.Run("Stop while waiting for workflow", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		github := githubapi.NewMockClient(ctrl)

		// given
		github.EXPECT().ListWorkflows(gomock.Any(), "", exampleRepo).Return([]githubapi.Workflow{}, nil).MinTimes(1)

		// when
		handle := NewPoller(github, time.Millisecond).Start(context.TODO(), "", exampleRepo)
		time.Sleep(10 * time.Millisecond)
		handle.Stop()

		// then
		_, open := <-handle.Updates()
		assert.False(t, open)
		assert.Equal(t, StatusPending, handle.Last().Status)
	})

	t.Run("Default tick", func(t *testing.T) {
		assert.Equal(t, DefaultTick, NewPoller(nil, 0).tick)
	})
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name       string
		status     string
		conclusion string
		expected   Status
	}{
		{name: "queued", status: "queued", expected: StatusQueued},
		{name: "running", status: "in_progress", expected: StatusRunning},
		{name: "waiting", status: "waiting", expected: StatusPending},
		{name: "success", status: "completed", conclusion: "success", expected: StatusSuccessful},
		{name: "failure", status: "completed", conclusion: "failure", expected: StatusFailed},
		{name: "timed out", status: "completed", conclusion: "timed_out", expected: StatusError},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(githubapi.WorkflowRun{Status: tc.status, Conclusion: tc.conclusion}))
		})
	}
}

func collect(handle *Handle) []Update {
	updates := []Update{}
	for u := range handle.Updates() {
		updates = append(updates, u)
	}
	<-handle.Done()
	return updates
}

func statuses(updates []Update) []Status {
	result := []Status{}
	for _, u := range updates {
		result = append(result, u.Status)
	}
	return result
}
