package workflowstatus

import "github.com/MarcGrol/workersdeploy/services/githubapi"

type Status string

const (
	StatusPending    Status = "Pending"
	StatusQueued     Status = "Queued"
	StatusRunning    Status = "Running"
	StatusSuccessful Status = "Successful"
	StatusFailed     Status = "Failed"
	StatusError      Status = "Error"
)

func (s Status) IsFinal() bool {
	return s == StatusSuccessful || s == StatusFailed || s == StatusError
}

// Update is what the poller reports whenever the observed status changes.
type Update struct {
	Status Status
	RunID  int64
	RunURL string
	Err    error
}

// Classify maps a workflow run onto a status. A run is finished once it has a conclusion.
func Classify(run githubapi.WorkflowRun) Status {
	switch run.Conclusion {
	case "success":
		return StatusSuccessful
	case "failure":
		return StatusFailed
	case "":
	default:
		return StatusError
	}

	switch run.Status {
	case "queued":
		return StatusQueued
	case "in_progress":
		return StatusRunning
	default:
		return StatusPending
	}
}

func newestRun(runs []githubapi.WorkflowRun) githubapi.WorkflowRun {
	newest := runs[0]
	for _, r := range runs[1:] {
		if r.CreatedAt.After(newest.CreatedAt) {
			newest = r
		}
	}
	return newest
}
