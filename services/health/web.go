package health

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/floresvictoria/shopbackend/lib/mycontext"
	"github.com/floresvictoria/shopbackend/lib/myerrors"
	"github.com/floresvictoria/shopbackend/lib/myhttp"
	"github.com/floresvictoria/shopbackend/lib/mylog"
	"github.com/floresvictoria/shopbackend/lib/mystore"
)

type webService struct {
	logger mylog.Logger
	store  mystore.Store
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(store mystore.Store) *webService {
	return &webService{
		logger: mylog.New("health"),
		store:  store,
	}
}

func (s webService) RegisterEndpoints(c context.Context, router *mux.Router) {
	router.HandleFunc("/health", s.livenessPage()).Methods("GET")
	router.HandleFunc("/ready", s.readinessPage()).Methods("GET")
	router.HandleFunc("/_ah/warmup", s.readinessPage()).Methods("GET")
}

func (s *webService) livenessPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		myhttp.NewWriter(s.logger).Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Status:  myhttp.StatusSuccess,
			Message: "Service is alive",
		})
	}
}

// readinessPage also warms up the connection to the store.
func (s *webService) readinessPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		err := s.store.Ping(c)
		if err != nil {
			writer.WriteError(c, w, 1, myerrors.NewUnavailableError(err))
			return
		}

		writer.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Status:  myhttp.StatusSuccess,
			Message: "Service is ready",
		})
	}
}
