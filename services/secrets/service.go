package secrets

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MarcGrol/workersdeploy/lib/myerrors"
	"github.com/MarcGrol/workersdeploy/lib/myevents"
	"github.com/MarcGrol/workersdeploy/lib/mylog"
	"github.com/MarcGrol/workersdeploy/lib/mypublisher"
	"github.com/MarcGrol/workersdeploy/services/githubapi"
	"github.com/MarcGrol/workersdeploy/services/secrets/secretevents"
)

// Propagator writes secrets and variables onto a repository, with the caller's github token.
//
//go:generate mockgen -source=service.go -package secrets -destination propagator_mock.go Propagator
type Propagator interface {
	StoreSecret(c context.Context, token string, req SecretRequest) error
	StoreVariable(c context.Context, token string, req VariableRequest) error
}

type service struct {
	github    githubapi.Client
	publisher mypublisher.Publisher
	seal      func(publicKey string, value string) (string, error)
	logger    mylog.Logger
}

func newService(github githubapi.Client, pub mypublisher.Publisher) *service {
	return &service{
		github:    github,
		publisher: pub,
		seal:      githubapi.SealSecret,
		logger:    mylog.New("secrets"),
	}
}

func NewPropagator(github githubapi.Client, pub mypublisher.Publisher) Propagator {
	return newService(github, pub)
}

func (s *service) CreateTopics(c context.Context) error {
	err := s.publisher.CreateTopic(c, secretevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", secretevents.TopicName, err)
	}
	return nil
}

func (s *service) StoreSecret(c context.Context, token string, req SecretRequest) error {
	s.logger.Log(c, req.Repo, mylog.SeverityInfo, "Store secret %s on %s", req.SecretKey, req.Repo)

	key, err := s.github.GetPublicKey(c, token, req.Repo)
	if err != nil {
		return mapGithubError(err)
	}

	sealed, err := s.seal(key.Key, req.SecretValue)
	if err != nil {
		return myerrors.NewInternalError(err)
	}

	err = s.github.PutSecret(c, token, req.Repo, req.SecretKey, sealed, key.KeyID)
	if err != nil {
		return mapGithubError(err)
	}

	s.publish(c, secretevents.SecretStored{
		Repo: req.Repo,
		Name: req.SecretKey,
	})

	return nil
}

func (s *service) StoreVariable(c context.Context, token string, req VariableRequest) error {
	s.logger.Log(c, req.Repo, mylog.SeverityInfo, "Store variable %s on %s", req.Name, req.Repo)

	err := s.github.PutVariable(c, token, req.Repo, req.Name, req.Value)
	if err != nil {
		return mapGithubError(err)
	}

	s.publish(c, secretevents.VariableStored{
		Repo: req.Repo,
		Name: req.Name,
	})

	return nil
}

func (s *service) publish(c context.Context, event myevents.Event) {
	err := s.publisher.Publish(c, secretevents.TopicName, event)
	if err != nil {
		s.logger.Log(c, event.GetAggregateName(), mylog.SeverityError, "Error publishing %s: %s", event.GetEventTypeName(), err)
	}
}

func mapGithubError(err error) error {
	switch githubapi.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return myerrors.NewAuthenticationError(err)
	case http.StatusNotFound:
		return myerrors.NewNotFoundError(err)
	case http.StatusUnprocessableEntity:
		return myerrors.NewInvalidInputError(err)
	default:
		return myerrors.NewInternalError(err)
	}
}
