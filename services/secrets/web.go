package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/workersdeploy/lib/mycontext"
	"github.com/MarcGrol/workersdeploy/lib/myerrors"
	"github.com/MarcGrol/workersdeploy/lib/myhttp"
	"github.com/MarcGrol/workersdeploy/lib/mylog"
	"github.com/MarcGrol/workersdeploy/lib/mypublisher"
	"github.com/MarcGrol/workersdeploy/services/auth"
	"github.com/MarcGrol/workersdeploy/services/githubapi"
)

const maxRequestSize = 64 * 1024

type webService struct {
	service   *service
	validator auth.SessionValidator
	logger    mylog.Logger
}

func NewService(github githubapi.Client, validator auth.SessionValidator, pub mypublisher.Publisher) *webService {
	return &webService{
		service:   newService(github, pub),
		validator: validator,
		logger:    mylog.New("secrets"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/secret", s.secretPage()).Methods("POST")
	router.HandleFunc("/variable", s.variablePage()).Methods("POST")

	err := s.service.CreateTopics(c)
	if err != nil {
		return err
	}

	return nil
}

func (s *webService) secretPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req := SecretRequest{}
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&req)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("error parsing request: %s", err)))
			return
		}

		err = req.Validate()
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(err))
			return
		}

		token, err := s.githubToken(c, w, r)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		err = s.service.StoreSecret(c, token, req)
		if err != nil {
			errorWriter.WriteError(c, w, 4, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("Secret %s stored on %s", req.SecretKey, req.Repo),
		})
	}
}

func (s *webService) variablePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req := VariableRequest{}
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&req)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("error parsing request: %s", err)))
			return
		}

		err = req.Validate()
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputError(err))
			return
		}

		token, err := s.githubToken(c, w, r)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		err = s.service.StoreVariable(c, token, req)
		if err != nil {
			errorWriter.WriteError(c, w, 4, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: fmt.Sprintf("Variable %s stored on %s", req.Name, req.Repo),
		})
	}
}

// githubToken prefers an explicit Authorization header over the session cookie.
func (s *webService) githubToken(c context.Context, w http.ResponseWriter, r *http.Request) (string, error) {
	token := myhttp.BearerToken(r)
	if token != "" {
		return token, nil
	}

	validation := s.validator.Validate(c, r)
	if validation.ClearCookie {
		auth.ClearSessionCookie(w)
	}
	if !validation.Authed {
		return "", myerrors.NewUnauthorizedError(fmt.Errorf("no github token: login first"))
	}

	return validation.AccessToken, nil
}
