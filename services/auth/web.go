package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/workersdeploy/lib/mycontext"
	"github.com/MarcGrol/workersdeploy/lib/myerrors"
	"github.com/MarcGrol/workersdeploy/lib/myhttp"
	"github.com/MarcGrol/workersdeploy/lib/mykv"
	"github.com/MarcGrol/workersdeploy/lib/mylog"
	"github.com/MarcGrol/workersdeploy/lib/mypublisher"
	"github.com/MarcGrol/workersdeploy/lib/myuuid"
	"github.com/MarcGrol/workersdeploy/services/auth/oauthclient"
	"github.com/MarcGrol/workersdeploy/services/githubapi"
)

type webService struct {
	service *service
	baseURL string
	logger  mylog.Logger
}

func NewService(kv mykv.Store, oauthClient oauthclient.OauthClient, github githubapi.Client, uuider myuuid.UUIDer, pub mypublisher.Publisher, ttl time.Duration, baseURL string) *webService {
	return &webService{
		service: newService(kv, oauthClient, github, uuider, pub, ttl),
		baseURL: baseURL,
		logger:  mylog.New("auth"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/login", s.loginPage()).Methods("GET")
	router.HandleFunc("/callback", s.callbackPage()).Methods("GET")
	router.HandleFunc("/logout", s.logoutPage()).Methods("GET", "POST")

	err := s.service.CreateTopics(c)
	if err != nil {
		return err
	}

	return nil
}

func (s *webService) Validate(c context.Context, r *http.Request) Validation {
	return s.service.Validate(c, r)
}

func (s *webService) loginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		validation := s.service.Validate(c, r)
		if validation.Authed {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if validation.ClearCookie {
			ClearSessionCookie(w)
		}

		repositoryURL := r.URL.Query().Get("url")
		if repositoryURL == "" {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("missing url")))
			return
		}

		authURL, err := s.service.login(c, repositoryURL)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		http.Redirect(w, r, authURL, http.StatusSeeOther)
	}
}

func (s *webService) callbackPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		origin := myhttp.HostnameWithScheme(s.baseURL, r)

		// user declined the authorization
		if r.URL.Query().Get("error") != "" {
			s.logger.Log(c, "", mylog.SeverityInfo, "Authorization declined: %s", r.URL.Query().Get("error_description"))
			http.Redirect(w, r, origin, http.StatusSeeOther)
			return
		}

		result, err := s.service.callback(c, r.URL.Query().Get("state"), r.URL.Query().Get("code"), origin)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		if result.SessionUID != "" {
			SetSessionCookie(w, result.SessionUID, int(s.service.ttl.Seconds()))
		}

		http.Redirect(w, r, result.RedirectURL, http.StatusSeeOther)
	}
}

func (s *webService) logoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := s.service.logout(c, sessionUIDFromRequest(r))
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		ClearSessionCookie(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
