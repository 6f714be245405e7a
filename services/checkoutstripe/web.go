package checkoutstripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stripe/stripe-go/v74"

	"github.com/paybridge/paybridge/lib/mycontext"
	"github.com/paybridge/paybridge/lib/myerrors"
	"github.com/paybridge/paybridge/lib/myhttp"
	"github.com/paybridge/paybridge/lib/mylog"
	"github.com/paybridge/paybridge/lib/mypublisher"
	"github.com/paybridge/paybridge/lib/mystore"
	"github.com/paybridge/paybridge/lib/mytime"
	"github.com/paybridge/paybridge/services/gateway"
	"github.com/paybridge/paybridge/services/orderapi"
)

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(cfg Config, payer Payer, nower mytime.Nower, orderStore mystore.Store[orderapi.Order], publisher mypublisher.Publisher) (*webService, error) {
	logger := mylog.New("checkoutstripe")
	s, err := newService(cfg, payer, logger, nower, orderStore, publisher)
	if err != nil {
		return nil, err
	}

	return &webService{
		logger:  logger,
		service: s,
	}, nil
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/stripe/checkout/{orderUID}", s.startCheckoutPage()).Methods("POST")
	router.HandleFunc("/stripe/checkout/webhook/event", s.webhookNotificationPage()).Methods("POST")
	router.HandleFunc("/stripe/settings/schema", s.settingsSchemaPage()).Methods("GET")

	return s.service.CreateTopics(c)
}

// startCheckoutPage starts a checkout session on the Stripe platform
func (s *webService) startCheckoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]
		if orderUID == "" {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("missing orderUID")))
			return
		}

		result, err := s.Initiate(c, orderUID, myhttp.HostnameWithScheme(r))
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, result)
	}
}

func (s *webService) webhookNotificationPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := s.Reconcile(c, r.Body)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{})
	}
}

func (s *webService) settingsSchemaPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		errorWriter.Write(c, w, http.StatusOK, s.SettingsSchema())
	}
}

// Initiate implements gateway.PaymentGateway
func (s *webService) Initiate(c context.Context, orderUID string, hostname string) (gateway.InitiateResult, error) {
	return s.service.startCheckout(c, orderUID, hostname)
}

// Reconcile implements gateway.PaymentGateway. A body that does not decode
// into an event is rejected as invalid input, which the web layer reports as
// a client error so the provider does not keep retrying it.
func (s *webService) Reconcile(c context.Context, body io.Reader) error {
	event := stripe.Event{}
	err := json.NewDecoder(body).Decode(&event)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("error decoding webhook event: %s", err))
	}

	return s.service.webhookNotification(c, event)
}

// ID implements gateway.StatusRenderer
func (s *webService) ID() string {
	return gatewayID
}

// RenderStatus implements gateway.StatusRenderer
func (s *webService) RenderStatus(order orderapi.Order, queryStatus string, defaultText string) string {
	if order.PaymentMethod != gatewayID {
		return defaultText
	}
	if queryStatus == "cancel" {
		return "Your payment was cancelled. You have not been charged."
	}

	return fmt.Sprintf("Your order has been received. Payment status: %s.", order.PaymentStatus)
}

// SettingsSchema implements gateway.PaymentGateway
func (s *webService) SettingsSchema() []gateway.SettingsField {
	return []gateway.SettingsField{
		{
			Key:         "publishable_key",
			Title:       "Publishable key",
			Type:        "text",
			Description: "Client-side key, safe to expose in the browser",
		},
		{
			Key:         "secret_key",
			Title:       "Secret key",
			Type:        "password",
			Description: "Server-side key, used to create checkout sessions",
		},
	}
}
