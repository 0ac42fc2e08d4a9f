package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/MarcGrol/workersdeploy/lib/myerrors"
	"github.com/MarcGrol/workersdeploy/lib/myevents"
	"github.com/MarcGrol/workersdeploy/lib/mykv"
	"github.com/MarcGrol/workersdeploy/lib/mylog"
	"github.com/MarcGrol/workersdeploy/lib/mypublisher"
	"github.com/MarcGrol/workersdeploy/lib/myuuid"
	"github.com/MarcGrol/workersdeploy/services/auth/authevents"
	"github.com/MarcGrol/workersdeploy/services/auth/oauthclient"
	"github.com/MarcGrol/workersdeploy/services/auth/sessionvault"
	"github.com/MarcGrol/workersdeploy/services/githubapi"
)

type service struct {
	kv          mykv.Store
	oauthClient oauthclient.OauthClient
	github      githubapi.Client
	uuider      myuuid.UUIDer
	publisher   mypublisher.Publisher
	ttl         time.Duration
	newKey      func() (sessionvault.SessionKey, error)
	logger      mylog.Logger
}

func newService(kv mykv.Store, oauthClient oauthclient.OauthClient, github githubapi.Client, uuider myuuid.UUIDer, pub mypublisher.Publisher, ttl time.Duration) *service {
	return &service{
		kv:          kv,
		oauthClient: oauthClient,
		github:      github,
		uuider:      uuider,
		publisher:   pub,
		ttl:         ttl,
		newKey:      sessionvault.NewSessionKey,
		logger:      mylog.New("auth"),
	}
}

type callbackResult struct {
	RedirectURL string
	SessionUID  string
}

func stateKey(stateUID string) string {
	return "state:" + stateUID
}

func keysKey(sessionUID string) string {
	return "keys:" + sessionUID
}

func authKey(sessionUID string) string {
	return "auth:" + sessionUID
}

func (s *service) CreateTopics(c context.Context) error {
	err := s.publisher.CreateTopic(c, authevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", authevents.TopicName, err)
	}
	return nil
}

func (s *service) login(c context.Context, repositoryURL string) (string, error) {
	stateUID := s.uuider.Create()

	s.logger.Log(c, stateUID, mylog.SeverityInfo, "Start session-setup for %s", repositoryURL)

	err := s.kv.Put(c, stateKey(stateUID), []byte(repositoryURL), s.ttl)
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error storing state: %s", err))
	}

	s.publish(c, authevents.SessionStarted{
		StateUID:      stateUID,
		RepositoryURL: repositoryURL,
	})

	return s.oauthClient.ComposeAuthURL(c, stateUID), nil
}

func (s *service) callback(c context.Context, stateUID string, code string, origin string) (callbackResult, error) {
	noSession := callbackResult{RedirectURL: origin}

	repositoryURL, found := []byte(nil), false
	if stateUID != "" {
		var err error
		repositoryURL, found, err = s.kv.Get(c, stateKey(stateUID))
		if err != nil {
			return callbackResult{}, myerrors.NewInternalError(fmt.Errorf("error fetching state: %s", err))
		}
	}
	if !found {
		s.logger.Log(c, stateUID, mylog.SeverityWarn, "Callback without known state")
		s.publish(c, authevents.SessionFailed{StateUID: stateUID, Reason: "unknown state"})
		return noSession, nil
	}

	token, err := s.oauthClient.GetAccessToken(c, code)
	if err != nil {
		s.logger.Log(c, stateUID, mylog.SeverityWarn, "Code exchange rejected: %s", err)
		s.publish(c, authevents.SessionFailed{StateUID: stateUID, Reason: err.Error()})
		return noSession, nil
	}

	sessionUID := s.uuider.Create()

	err = s.storeSession(c, sessionUID, token)
	if err != nil {
		return callbackResult{}, myerrors.NewInternalError(err)
	}

	err = s.kv.Delete(c, stateKey(stateUID))
	if err != nil {
		s.logger.Log(c, stateUID, mylog.SeverityWarn, "Error removing used state: %s", err)
	}

	login := ""
	user, err := s.github.WhoAmI(c, token.AccessToken)
	if err != nil {
		s.logger.Log(c, stateUID, mylog.SeverityWarn, "Error fetching github user: %s", err)
	} else {
		login = user.Login
	}

	s.publish(c, authevents.SessionEstablished{
		SessionUID:    sessionUID,
		StateUID:      stateUID,
		GithubLogin:   login,
		RepositoryURL: string(repositoryURL),
	})

	s.logger.Log(c, stateUID, mylog.SeverityInfo, "Established session %s", sessionUID)

	return callbackResult{
		RedirectURL: origin + "/?" + url.Values{
			"url":    []string{string(repositoryURL)},
			"authed": []string{"true"},
		}.Encode(),
		SessionUID: sessionUID,
	}, nil
}

func (s *service) storeSession(c context.Context, sessionUID string, token oauthclient.Token) error {
	key, err := s.newKey()
	if err != nil {
		return err
	}

	keyJSON, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("error marshalling session key: %s", err)
	}

	tokenJSON, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("error marshalling token: %s", err)
	}

	sealed, err := key.Seal(tokenJSON)
	if err != nil {
		return fmt.Errorf("error encrypting token: %s", err)
	}

	err = s.kv.Put(c, keysKey(sessionUID), keyJSON, s.ttl)
	if err != nil {
		return fmt.Errorf("error storing session key: %s", err)
	}

	err = s.kv.Put(c, authKey(sessionUID), sealed, s.ttl)
	if err != nil {
		return fmt.Errorf("error storing session: %s", err)
	}

	return nil
}

// Validate never fails: every problem results in an unauthenticated outcome.
func (s *service) Validate(c context.Context, r *http.Request) Validation {
	sessionUID := sessionUIDFromRequest(r)
	if sessionUID == "" {
		return Validation{
			Authed:      false,
			RedirectURL: s.oauthClient.ComposeAuthURL(c, ""),
		}
	}

	accessToken, err := s.accessToken(c, sessionUID)
	if err != nil {
		s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Invalid session: %s", err)
		return Validation{
			Authed:      false,
			ClearCookie: true,
		}
	}

	return Validation{
		Authed:      true,
		AccessToken: accessToken,
	}
}

func (s *service) accessToken(c context.Context, sessionUID string) (string, error) {
	keyJSON, found, err := s.kv.Get(c, keysKey(sessionUID))
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("session key not found")
	}

	key := sessionvault.SessionKey{}
	err = json.Unmarshal(keyJSON, &key)
	if err != nil {
		return "", fmt.Errorf("error parsing session key: %s", err)
	}

	sealed, found, err := s.kv.Get(c, authKey(sessionUID))
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("session not found")
	}

	tokenJSON, err := key.Open(sealed)
	if err != nil {
		return "", err
	}

	token := oauthclient.Token{}
	err = json.Unmarshal(tokenJSON, &token)
	if err != nil {
		return "", fmt.Errorf("error parsing token: %s", err)
	}

	_, err = s.github.WhoAmI(c, token.AccessToken)
	if err != nil {
		return "", fmt.Errorf("token rejected by github: %s", err)
	}

	return token.AccessToken, nil
}

func (s *service) logout(c context.Context, sessionUID string) error {
	if sessionUID == "" {
		return nil
	}

	err := s.kv.Delete(c, keysKey(sessionUID))
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error deleting session key: %s", err))
	}

	err = s.kv.Delete(c, authKey(sessionUID))
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error deleting session: %s", err))
	}

	s.publish(c, authevents.SessionTerminated{SessionUID: sessionUID})

	return nil
}

// publish is best effort: a lost event must not break a login.
func (s *service) publish(c context.Context, event myevents.Event) {
	err := s.publisher.Publish(c, authevents.TopicName, event)
	if err != nil {
		s.logger.Log(c, event.GetAggregateName(), mylog.SeverityError, "Error publishing %s: %s", event.GetEventTypeName(), err)
	}
}
