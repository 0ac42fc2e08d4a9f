package app

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/workersdeploy/lib/mycontext"
	"github.com/MarcGrol/workersdeploy/lib/myerrors"
	"github.com/MarcGrol/workersdeploy/lib/myhttp"
	"github.com/MarcGrol/workersdeploy/lib/mylog"
	"github.com/MarcGrol/workersdeploy/services/auth"
)

//go:embed assets
var assets embed.FS

var Templates = []string{
	"https://github.com/signalnerve/workers-graphql-server",
	"https://github.com/adamschwartz/web.scraper.workers.dev",
	"https://github.com/Cherry/placeholders.dev",
	"https://github.com/GregBrimble/cf-workers-typescript-template",
	"https://github.com/eidam/cf-workers-status-page",
}

type webService struct {
	validator auth.SessionValidator
	staticDir string
	logger    mylog.Logger
}

func NewService(validator auth.SessionValidator, staticDir string) *webService {
	return &webService{
		validator: validator,
		staticDir: staticDir,
		logger:    mylog.New("app"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/", s.indexPage()).Methods("GET")
	router.HandleFunc("/button", s.buttonPage()).Methods("GET")
	router.HandleFunc("/templates", s.templatesPage()).Methods("GET")

	if s.staticDir != "" {
		// anything no other service claims is a static asset
		router.NotFoundHandler = http.FileServer(http.Dir(s.staticDir))
	}

	return nil
}

func (s *webService) indexPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		query := r.URL.Query()
		if query.Get("authed") == "true" {
			// Reload without the marker: the session written by the callback may not be readable yet
			http.Redirect(w, r, "/?"+url.Values{"url": []string{query.Get("url")}}.Encode(), http.StatusSeeOther)
			return
		}

		page, err := s.readAsset("index.html")
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInternalError(err))
			return
		}

		validation := s.validator.Validate(c, r)
		if validation.ClearCookie {
			auth.ClearSessionCookie(w)
		}

		page, err = InjectEdgeState(page, EdgeState{
			Authed:      validation.Authed,
			AccessToken: validation.AccessToken,
		})
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, err = w.Write(page)
		if err != nil {
			s.logger.Log(c, "", mylog.SeverityError, "Error writing index page: %s", err)
		}
	}
}

func (s *webService) buttonPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		svg, err := s.readAsset("deploy.svg")
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInternalError(err))
			return
		}

		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		_, err = w.Write(svg)
		if err != nil {
			s.logger.Log(c, "", mylog.SeverityError, "Error writing button: %s", err)
		}
	}
}

func (s *webService) templatesPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		myhttp.NewWriter(s.logger).Write(c, w, http.StatusOK, Templates)
	}
}

// readAsset prefers the file in the static directory over the built-in one.
func (s *webService) readAsset(name string) ([]byte, error) {
	if s.staticDir != "" {
		content, err := os.ReadFile(filepath.Join(s.staticDir, name))
		if err == nil {
			return content, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading %s: %s", name, err)
		}
	}

	content, err := assets.ReadFile("assets/" + name)
	if err != nil {
		return nil, fmt.Errorf("error reading built-in %s: %s", name, err)
	}
	return content, nil
}
