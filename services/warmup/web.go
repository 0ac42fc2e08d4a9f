package warmup

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcGrol/workersdeploy/lib/mycontext"
	"github.com/MarcGrol/workersdeploy/lib/myerrors"
	"github.com/MarcGrol/workersdeploy/lib/myhttp"
	"github.com/MarcGrol/workersdeploy/lib/mykv"
	"github.com/MarcGrol/workersdeploy/lib/mylog"
)

const probeKey = "warmup:probe"

type webService struct {
	kv     mykv.Store
	logger mylog.Logger
}

// NewService answers the warmup requests of the platform by opening the connection to the session store.
func NewService(kv mykv.Store) *webService {
	return &webService{
		kv:     kv,
		logger: mylog.New("warmup"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")
	return nil
}

func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		_, _, err := s.kv.Get(c, probeKey)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewUnavailableError(err))
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}
