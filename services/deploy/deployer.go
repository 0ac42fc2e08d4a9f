package deploy

import (
	"context"
	"fmt"

	"github.com/MarcGrol/workersdeploy/lib/myerrors"
	"github.com/MarcGrol/workersdeploy/lib/mylog"
	"github.com/MarcGrol/workersdeploy/services/githubapi"
	"github.com/MarcGrol/workersdeploy/services/secrets"
)

// Both generations of secret names are written; older templates still read the CF_ ones.
const (
	LegacyAccountIDSecret = "CF_ACCOUNT_ID"
	AccountIDSecret       = "CLOUDFLARE_ACCOUNT_ID"
	LegacyAPITokenSecret  = "CF_API_TOKEN"
	APITokenSecret        = "CLOUDFLARE_API_TOKEN"
)

type Variable struct {
	Name  string
	Value string
}

type ForkRequest struct {
	TemplateURL string
	AccountID   string
	APIToken    string
	Variables   []Variable
}

//go:generate mockgen -source=deployer.go -package deploy -destination deployer_mock.go Deployer
type Deployer interface {
	// Fork copies the template into the account of the token owner and configures it. Returns the full name of the fork.
	Fork(c context.Context, token string, req ForkRequest) (string, error)
	Dispatch(c context.Context, token string, fullName string) error
}

type deployer struct {
	github     githubapi.Client
	propagator secrets.Propagator
	logger     mylog.Logger
}

func NewDeployer(github githubapi.Client, propagator secrets.Propagator) Deployer {
	return &deployer{
		github:     github,
		propagator: propagator,
		logger:     mylog.New("deploy"),
	}
}

func (d *deployer) Fork(c context.Context, token string, req ForkRequest) (string, error) {
	owner, repo, err := githubapi.ParseRepoURL(req.TemplateURL)
	if err != nil {
		return "", myerrors.NewInvalidInputError(err)
	}

	forked, err := d.github.Fork(c, token, owner, repo)
	if err != nil {
		return "", fmt.Errorf("error forking %s/%s: %w", owner, repo, err)
	}
	d.logger.Log(c, forked.FullName, mylog.SeverityInfo, "Forked %s/%s into %s", owner, repo, forked.FullName)

	secretValues := []struct {
		name  string
		value string
	}{
		{name: LegacyAccountIDSecret, value: req.AccountID},
		{name: AccountIDSecret, value: req.AccountID},
		{name: LegacyAPITokenSecret, value: req.APIToken},
		{name: APITokenSecret, value: req.APIToken},
	}
	for _, s := range secretValues {
		err = d.propagator.StoreSecret(c, token, secrets.SecretRequest{
			Repo:        forked.FullName,
			SecretKey:   s.name,
			SecretValue: s.value,
		})
		if err != nil {
			return "", fmt.Errorf("error storing secret %s on %s: %w", s.name, forked.FullName, err)
		}
	}

	for _, v := range req.Variables {
		err = d.propagator.StoreVariable(c, token, secrets.VariableRequest{
			Repo:  forked.FullName,
			Name:  v.Name,
			Value: v.Value,
		})
		if err != nil {
			return "", fmt.Errorf("error storing variable %s on %s: %w", v.Name, forked.FullName, err)
		}
	}

	return forked.FullName, nil
}

func (d *deployer) Dispatch(c context.Context, token string, fullName string) error {
	err := d.github.Dispatch(c, token, fullName, githubapi.DispatchEventType)
	if err != nil {
		return fmt.Errorf("error dispatching deployment of %s: %w", fullName, err)
	}
	d.logger.Log(c, fullName, mylog.SeverityInfo, "Dispatched %s on %s", githubapi.DispatchEventType, fullName)
	return nil
}
