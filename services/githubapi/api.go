package githubapi

import (
	"context"
	"time"
)

const DispatchEventType = "deploy_to_cf_workers"

type User struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
}

type Repository struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
}

type PublicKey struct {
	KeyID string `json:"key_id"`
	Key   string `json:"key"`
}

type Workflow struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Path  string `json:"path"`
	State string `json:"state"`
}

type WorkflowRun struct {
	ID         int64     `json:"id"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion"`
	HTMLURL    string    `json:"html_url"`
	CreatedAt  time.Time `json:"created_at"`
}

// Client covers the part of the GitHub REST API needed to fork a template, configure it and follow its deployment.
// An empty token sends the request anonymously.
//
//go:generate mockgen -source=api.go -package githubapi -destination client_mock.go Client
type Client interface {
	WhoAmI(c context.Context, token string) (User, error)
	Fork(c context.Context, token string, owner string, repo string) (Repository, error)
	GetPublicKey(c context.Context, token string, fullName string) (PublicKey, error)
	PutSecret(c context.Context, token string, fullName string, name string, encryptedValue string, keyID string) error
	PutVariable(c context.Context, token string, fullName string, name string, value string) error
	Dispatch(c context.Context, token string, fullName string, eventType string) error
	ListWorkflows(c context.Context, token string, fullName string) ([]Workflow, error)
	ListWorkflowRuns(c context.Context, token string, fullName string, workflowID int64) ([]WorkflowRun, error)
	GetWorkflowRun(c context.Context, token string, fullName string, runID int64) (WorkflowRun, error)
}
