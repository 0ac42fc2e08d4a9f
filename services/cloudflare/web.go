package cloudflare

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
	"github.com/MarcGrol/workersdeploy/services/cloudflare/cloudflareevents"
)

const maxRequestSize = 16 * 1024

type VerifyRequest struct {
	AccountID string `json:"accountId"`
	APIToken  string `json:"apiToken"`
}

type VerifyResponse struct {
	Success     bool   `json:"success"`
	AccountName string `json:"accountName"`
}

type webService struct {
	verifier  Verifier
	publisher mypublisher.Publisher
	logger    mylog.Logger
}

func NewService(verifier Verifier, pub mypublisher.Publisher) *webService {
	return &webService{
		verifier:  verifier,
		publisher: pub,
		logger:    mylog.New("cloudflare"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/verify", s.verifyPage()).Methods("POST")

	err := s.publisher.CreateTopic(c, cloudflareevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", cloudflareevents.TopicName, err)
	}

	return nil
}

func (s *webService) verifyPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req := VerifyRequest{}
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestSize)).Decode(&req)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("error parsing request: %s", err)))
			return
		}

		account, err := s.verifier.Verify(c, req.AccountID, req.APIToken)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		err = s.publisher.Publish(c, cloudflareevents.TopicName, cloudflareevents.CredentialsVerified{
			AccountID:   account.ID,
			AccountName: account.Name,
		})
		if err != nil {
			s.logger.Log(c, req.AccountID, mylog.SeverityError, "Error publishing verification: %s", err)
		}

		errorWriter.Write(c, w, http.StatusOK, VerifyResponse{
			Success:     true,
			AccountName: account.Name,
		})
	}
}
