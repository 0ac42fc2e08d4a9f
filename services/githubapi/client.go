package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/MarcGrol/workersdeploy/lib/myhttpclient"
)

type httpClient struct {
	baseURL string
	sender  myhttpclient.HTTPSender
}

func NewClient(baseURL string, sender myhttpclient.HTTPSender) Client {
	return &httpClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		sender:  sender,
	}
}

func (gc *httpClient) WhoAmI(c context.Context, token string) (User, error) {
	user := User{}
	err := gc.call(c, "get-user", token, http.MethodGet, "/user", nil, &user, http.StatusOK)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (gc *httpClient) Fork(c context.Context, token string, owner string, repo string) (Repository, error) {
	fork := Repository{}
	err := gc.call(c, "fork", token, http.MethodPost, fmt.Sprintf("/repos/%s/%s/forks", url.PathEscape(owner), url.PathEscape(repo)), nil, &fork,
		http.StatusAccepted, http.StatusOK)
	if err != nil {
		return Repository{}, err
	}
	if fork.FullName == "" {
		return Repository{}, fmt.Errorf("github fork of %s/%s returned no repository name", owner, repo)
	}
	return fork, nil
}

func (gc *httpClient) GetPublicKey(c context.Context, token string, fullName string) (PublicKey, error) {
	key := PublicKey{}
	err := gc.call(c, "get-public-key", token, http.MethodGet, fmt.Sprintf("/repos/%s/actions/secrets/public-key", fullName), nil, &key, http.StatusOK)
	if err != nil {
		return PublicKey{}, err
	}
	return key, nil
}

func (gc *httpClient) PutSecret(c context.Context, token string, fullName string, name string, encryptedValue string, keyID string) error {
	req := struct {
		EncryptedValue string `json:"encrypted_value"`
		KeyID          string `json:"key_id"`
	}{
		EncryptedValue: encryptedValue,
		KeyID:          keyID,
	}
	return gc.call(c, "put-secret", token, http.MethodPut, fmt.Sprintf("/repos/%s/actions/secrets/%s", fullName, url.PathEscape(name)), req, nil,
		http.StatusCreated, http.StatusNoContent)
}

func (gc *httpClient) PutVariable(c context.Context, token string, fullName string, name string, value string) error {
	req := struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	}{
		Name:  name,
		Value: value,
	}

	err := gc.call(c, "create-variable", token, http.MethodPost, fmt.Sprintf("/repos/%s/actions/variables", fullName), req, nil, http.StatusCreated)
	if StatusCode(err) != http.StatusConflict {
		return err
	}

	// already exists
	return gc.call(c, "update-variable", token, http.MethodPatch, fmt.Sprintf("/repos/%s/actions/variables/%s", fullName, url.PathEscape(name)), req, nil,
		http.StatusNoContent, http.StatusOK)
}

func (gc *httpClient) Dispatch(c context.Context, token string, fullName string, eventType string) error {
	req := struct {
		EventType string `json:"event_type"`
	}{
		EventType: eventType,
	}
	return gc.call(c, "dispatch", token, http.MethodPost, fmt.Sprintf("/repos/%s/dispatches", fullName), req, nil, http.StatusNoContent, http.StatusOK)
}

func (gc *httpClient) ListWorkflows(c context.Context, token string, fullName string) ([]Workflow, error) {
	resp := struct {
		TotalCount int        `json:"total_count"`
		Workflows  []Workflow `json:"workflows"`
	}{}
	err := gc.call(c, "list-workflows", token, http.MethodGet, fmt.Sprintf("/repos/%s/actions/workflows", fullName), nil, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return resp.Workflows, nil
}

func (gc *httpClient) ListWorkflowRuns(c context.Context, token string, fullName string, workflowID int64) ([]WorkflowRun, error) {
	resp := struct {
		TotalCount   int           `json:"total_count"`
		WorkflowRuns []WorkflowRun `json:"workflow_runs"`
	}{}
	err := gc.call(c, "list-runs", token, http.MethodGet, fmt.Sprintf("/repos/%s/actions/workflows/%d/runs", fullName, workflowID), nil, &resp, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return resp.WorkflowRuns, nil
}

func (gc *httpClient) GetWorkflowRun(c context.Context, token string, fullName string, runID int64) (WorkflowRun, error) {
	run := WorkflowRun{}
	err := gc.call(c, "get-run", token, http.MethodGet, fmt.Sprintf("/repos/%s/actions/runs/%d", fullName, runID), nil, &run, http.StatusOK)
	if err != nil {
		return WorkflowRun{}, err
	}
	return run, nil
}

func (gc *httpClient) call(c context.Context, operation string, token string, method string, path string, req any, resp any, expectedStatuses ...int) error {
	var body []byte
	if req != nil {
		var err error
		body, err = json.Marshal(req)
		if err != nil {
			return fmt.Errorf("error marshalling github %s request: %s", operation, err)
		}
	}

	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if token != "" {
		headers["Authorization"] = "token " + token
	}

	status, respBody, err := gc.sender.Send(c, method, gc.baseURL+path, headers, body)
	if err != nil {
		return fmt.Errorf("error calling github %s: %w", operation, err)
	}

	if !contains(expectedStatuses, status) {
		return newError(operation, status, respBody)
	}

	if resp != nil {
		err = json.Unmarshal(respBody, resp)
		if err != nil {
			return fmt.Errorf("error parsing github %s response: %s", operation, err)
		}
	}

	return nil
}

func contains(statuses []int, status int) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}
