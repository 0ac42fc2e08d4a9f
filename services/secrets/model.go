package secrets

import (
	"fmt"

	"github.com/MarcGrol/workersdeploy/services/githubapi"
)

type SecretRequest struct {
	Repo        string `json:"repo"`
	SecretKey   string `json:"secret_key"`
	SecretValue string `json:"secret_value"`
}

func (r SecretRequest) Validate() error {
	if r.Repo == "" {
		return fmt.Errorf("missing repo")
	}
	if !githubapi.IsFullName(r.Repo) {
		return fmt.Errorf("repo '%s' is not of the form owner/name", r.Repo)
	}
	if r.SecretKey == "" {
		return fmt.Errorf("missing secret_key")
	}
	if r.SecretValue == "" {
		return fmt.Errorf("missing secret_value")
	}
	return nil
}

type VariableRequest struct {
	Repo  string `json:"repo"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (r VariableRequest) Validate() error {
	if r.Repo == "" {
		return fmt.Errorf("missing repo")
	}
	if !githubapi.IsFullName(r.Repo) {
		return fmt.Errorf("repo '%s' is not of the form owner/name", r.Repo)
	}
	if r.Name == "" {
		return fmt.Errorf("missing name")
	}
	if r.Value == "" {
		return fmt.Errorf("missing value")
	}
	return nil
}
