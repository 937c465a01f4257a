package basket

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/floresvictoria/shopbackend/lib/myauth"
	"github.com/floresvictoria/shopbackend/lib/mycontext"
	"github.com/floresvictoria/shopbackend/lib/myerrors"
	"github.com/floresvictoria/shopbackend/lib/myevents"
	"github.com/floresvictoria/shopbackend/lib/myhttp"
	"github.com/floresvictoria/shopbackend/lib/mylog"
	"github.com/floresvictoria/shopbackend/lib/mypublisher"
	"github.com/floresvictoria/shopbackend/lib/mystore"
	"github.com/floresvictoria/shopbackend/lib/mytime"
	"github.com/floresvictoria/shopbackend/services/basket/basketevents"
)

// Both the bare paths and the ones below /api are served.
var pathPrefixes = []string{"", "/api"}

type webService struct {
	kinds     []*Aggregates
	verifier  *myauth.Verifier
	publisher mypublisher.Publisher
	nower     mytime.Nower
	logger    mylog.Logger
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(store mystore.Store, ttl time.Duration, verifier *myauth.Verifier, pub mypublisher.Publisher, nower mytime.Nower) *webService {
	return &webService{
		kinds: []*Aggregates{
			NewAggregates(Cart, store, ttl),
			NewAggregates(Wishlist, store, ttl),
		},
		verifier:  verifier,
		publisher: pub,
		nower:     nower,
		logger:    mylog.New("basket"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	err := s.publisher.CreateTopic(c, basketevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", basketevents.TopicName, err)
	}

	for _, prefix := range pathPrefixes {
		for _, aggs := range s.kinds {
			base := prefix + "/" + aggs.Kind().Name
			router.Handle(base, s.authenticated(s.get(aggs))).Methods("GET")
			router.Handle(base+"/items", s.authenticated(s.addItem(aggs))).Methods("POST")
			if aggs.Kind().Merge == MergeQuantity {
				router.Handle(base+"/items/{productId}", s.authenticated(s.updateQuantity(aggs))).Methods("PUT")
			}
			router.Handle(base+"/items/{productId}", s.authenticated(s.removeItem(aggs))).Methods("DELETE")
			router.Handle(base, s.authenticated(s.clear(aggs))).Methods("DELETE")
		}
	}

	return nil
}

func (s *webService) authenticated(h http.HandlerFunc) http.Handler {
	return s.verifier.Middleware(h)
}

func (s *webService) get(aggs *Aggregates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		userID, err := currentUser(c)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		agg, err := aggs.Get(c, userID)
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		writer.Write(c, w, http.StatusOK, envelope(aggs.Kind(), "", agg))
	}
}

func (s *webService) addItem(aggs *Aggregates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		userID, err := currentUser(c)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		item, err := itemFromRequest(aggs.Kind(), r, s.nower.Now())
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		agg, written, err := aggs.addItem(c, userID, item)
		if err != nil {
			writer.WriteError(c, w, 3, err)
			return
		}

		if written {
			s.publish(c, basketevents.ItemAdded{
				Kind:      aggs.Kind().Name,
				UserID:    userID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		writer.Write(c, w, http.StatusOK, envelope(aggs.Kind(), fmt.Sprintf("Item added to %s", aggs.Kind()), agg))
	}
}

func (s *webService) updateQuantity(aggs *Aggregates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		userID, err := currentUser(c)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		productID := mux.Vars(r)["productId"]

		quantity, err := quantityFromRequest(r)
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		agg, written, err := aggs.updateQuantity(c, userID, productID, quantity)
		if err != nil {
			writer.WriteError(c, w, 3, err)
			return
		}

		if written {
			s.publish(c, basketevents.ItemUpdated{
				Kind:      aggs.Kind().Name,
				UserID:    userID,
				ProductID: productID,
				Quantity:  quantity,
			})
		}

		writer.Write(c, w, http.StatusOK, envelope(aggs.Kind(), fmt.Sprintf("Quantity updated in %s", aggs.Kind()), agg))
	}
}

func (s *webService) removeItem(aggs *Aggregates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		userID, err := currentUser(c)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		productID := mux.Vars(r)["productId"]

		agg, err := aggs.RemoveItem(c, userID, productID)
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		s.publish(c, basketevents.ItemRemoved{
			Kind:      aggs.Kind().Name,
			UserID:    userID,
			ProductID: productID,
		})

		writer.Write(c, w, http.StatusOK, envelope(aggs.Kind(), fmt.Sprintf("Item removed from %s", aggs.Kind()), agg))
	}
}

func (s *webService) clear(aggs *Aggregates) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		writer := myhttp.NewWriter(s.logger)

		userID, err := currentUser(c)
		if err != nil {
			writer.WriteError(c, w, 1, err)
			return
		}

		agg, err := aggs.Clear(c, userID)
		if err != nil {
			writer.WriteError(c, w, 2, err)
			return
		}

		s.publish(c, basketevents.Cleared{
			Kind:   aggs.Kind().Name,
			UserID: userID,
		})

		writer.Write(c, w, http.StatusOK, envelope(aggs.Kind(), fmt.Sprintf("%s cleared", capitalize(aggs.Kind().Name)), agg))
	}
}

// publish never fails the request: the mutation has already been stored.
func (s *webService) publish(c context.Context, event myevents.Event) {
	err := s.publisher.Publish(c, basketevents.TopicName, event)
	if err != nil {
		s.logger.Log(c, event.GetAggregateName(), mylog.SeverityWarn, "Error publishing %s: %s", event.GetEventTypeName(), err)
	}
}

func currentUser(c context.Context) (string, error) {
	userID, found := mycontext.UserID(c)
	if !found {
		return "", myerrors.NewAuthenticationError(fmt.Errorf("no authenticated user"))
	}
	return userID, nil
}

func envelope(kind Kind, message string, agg Aggregate) myhttp.SuccessResponse {
	return myhttp.NewSuccess(message, map[string]Aggregate{
		kind.Name: agg,
	})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
