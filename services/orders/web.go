package orders

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/paybridge/paybridge/lib/mycontext"
	"github.com/paybridge/paybridge/lib/myerrors"
	"github.com/paybridge/paybridge/lib/myhttp"
	"github.com/paybridge/paybridge/lib/mylog"
	"github.com/paybridge/paybridge/lib/mypublisher"
	"github.com/paybridge/paybridge/lib/mypubsub"
	"github.com/paybridge/paybridge/lib/mystore"
	"github.com/paybridge/paybridge/lib/mytime"
	"github.com/paybridge/paybridge/lib/myuuid"
	"github.com/paybridge/paybridge/services/checkoutevents"
	"github.com/paybridge/paybridge/services/gateway"
	"github.com/paybridge/paybridge/services/orderapi"
)

//go:embed templates
var templateFolder embed.FS

var (
	orderListPageTemplate   *template.Template
	orderDetailPageTemplate *template.Template
	thankYouPageTemplate    *template.Template
)

func init() {
	orderListPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/order_list.html"))
	orderDetailPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/order_detail.html"))
	thankYouPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/thankyou.html"))
}

type webService struct {
	logger  mylog.Logger
	service *service
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewWebService(store mystore.Store[orderapi.Order], nower mytime.Nower, uuider myuuid.UUIDer, subscriber mypubsub.PubSub, publisher mypublisher.Publisher, renderer gateway.StatusRenderer) *webService {
	logger := mylog.New("orders")
	return &webService{
		logger:  logger,
		service: newService(store, nower, uuider, logger, subscriber, publisher, renderer),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	// Endpoints that compose the user-interface
	router.HandleFunc("/", s.orderListPage()).Methods("GET")
	router.HandleFunc("/order", s.orderListPage()).Methods("GET")
	router.HandleFunc("/order", s.createOrderPage()).Methods("POST")
	router.HandleFunc("/order/{orderUID}", s.orderDetailPage()).Methods("GET")
	router.HandleFunc("/order/{orderUID}/cancel", s.cancelOrderPage()).Methods("POST")

	// The provider redirects the customer here after checkout
	router.HandleFunc("/order/{orderUID}/thankyou", s.thankYouPage()).Methods("GET")

	// Receives async status updates from the checkout component
	router.HandleFunc("/api/order/event", s.handleEventEnvelope()).Methods("POST")

	return s.service.Subscribe(c)
}

func (s *webService) orderListPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orders, err := s.service.listOrders(c)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = orderListPageTemplate.Execute(w, orders)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) createOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderForm, err := orderapi.NewFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(fmt.Errorf("error parsing form: %s", err)))
			return
		}

		order, err := s.service.createNewOrder(c, orderForm)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		// Redirect to newly created order
		http.Redirect(w, r, fmt.Sprintf("%s/order/%s", myhttp.HostnameWithScheme(r), order.UID), http.StatusSeeOther)
	}
}

func (s *webService) orderDetailPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]

		order, err := s.service.getOrder(c, orderUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = orderDetailPageTemplate.Execute(w, order)
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) cancelOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]

		order, err := s.service.cancelOrder(c, orderUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		http.Redirect(w, r, fmt.Sprintf("%s/order/%s", myhttp.HostnameWithScheme(r), order.UID), http.StatusSeeOther)
	}
}

func (s *webService) thankYouPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]
		status := r.URL.Query().Get("status") // empty when the customer was not redirected with one

		order, displayText, err := s.service.orderReceived(c, orderUID, status)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = thankYouPageTemplate.Execute(w, struct {
			Order       orderapi.Order
			DisplayText string
		}{Order: order, DisplayText: displayText})
		if err != nil {
			errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
			return
		}
	}
}

func (s *webService) handleEventEnvelope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := checkoutevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed event",
		})
	}
}
