package checkoutstripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/mock/gomock"

	"github.com/paybridge/paybridge/lib/mypublisher"
	"github.com/paybridge/paybridge/lib/mystore"
	"github.com/paybridge/paybridge/lib/mytime"
	"github.com/paybridge/paybridge/services/checkoutevents"
	"github.com/paybridge/paybridge/services/orderapi"
)

var sessionResp = stripe.CheckoutSession{
	ID:  "cs_123",
	URL: "https://checkout.stripe.com/pay/cs_123",
	PaymentIntent: &stripe.PaymentIntent{
		ID: "pi_123",
	},
}

func TestStartCheckout(t *testing.T) {

	t.Run("Start checkout for pending order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, payer, nower, publisher := setup(t, ctrl)

		// given
		_ = storer.Put(ctx, "123", pendingOrder())
		var gotParams stripe.CheckoutSessionParams
		payer.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).DoAndReturn(
			func(c context.Context, params stripe.CheckoutSessionParams) (stripe.CheckoutSession, error) {
				gotParams = params
				return sessionResp, nil
			})
		nower.EXPECT().Now().Return(mytime.ExampleTime)
		publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutStarted{
			OrderUID:         "123",
			ProviderName:     "stripe",
			AmountInCents:    3998,
			Currency:         "usd",
			PaymentIntentRef: "pi_123",
		}).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodPost, "/stripe/checkout/123", nil)
		assert.NoError(t, err)
		request.Host = "localhost:8888"
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Contains(t, response.Body.String(), `"result": "success"`)
		assert.Contains(t, response.Body.String(), `"redirect": "https://checkout.stripe.com/pay/cs_123"`)

		assert.Equal(t, "http://localhost:8888/order/123/thankyou", *gotParams.SuccessURL)
		assert.Equal(t, "http://localhost:8888/order/123/thankyou?status=cancel", *gotParams.CancelURL)
		assert.Equal(t, "123", *gotParams.ClientReferenceID)
		assert.Equal(t, string(stripe.CheckoutSessionModePayment), *gotParams.Mode)
		assert.Equal(t, []string{"card"}, toStrings(gotParams.PaymentMethodTypes))
		assert.Len(t, gotParams.LineItems, 1)
		assert.Equal(t, "Blue t-shirt", *gotParams.LineItems[0].PriceData.ProductData.Name)
		assert.Equal(t, int64(1999), *gotParams.LineItems[0].PriceData.UnitAmount)
		assert.Equal(t, int64(2), *gotParams.LineItems[0].Quantity)

		order, exists, _ := storer.Get(ctx, "123")
		assert.True(t, exists)
		assert.Equal(t, "pi_123", order.PaymentIntentRef)
		assert.Equal(t, orderapi.PaymentStatusPending, order.PaymentStatus)
	})

	t.Run("Start checkout for unknown order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodPost, "/stripe/checkout/999", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 404, response.Code)
	})

	t.Run("Start checkout for completed order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, _, _ := setup(t, ctrl)

		// given
		order := pendingOrder()
		order.PaymentStatus = orderapi.PaymentStatusComplete
		_ = storer.Put(ctx, "123", order)

		// when
		request, err := http.NewRequest(http.MethodPost, "/stripe/checkout/123", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Provider error leaves order untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, payer, _, _ := setup(t, ctrl)

		// given
		_ = storer.Put(ctx, "123", pendingOrder())
		payer.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).Return(stripe.CheckoutSession{}, assert.AnError)

		// when
		request, err := http.NewRequest(http.MethodPost, "/stripe/checkout/123", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 500, response.Code)

		order, exists, _ := storer.Get(ctx, "123")
		assert.True(t, exists)
		assert.Equal(t, "", order.PaymentIntentRef)
		assert.Nil(t, order.LastModified)
	})
}

func TestWebhookNotification(t *testing.T) {

	t.Run("Payment intent succeeded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, nower, publisher := setup(t, ctrl)

		// given
		order := pendingOrder()
		order.PaymentIntentRef = "pi_123"
		_ = storer.Put(ctx, "123", order)
		nower.EXPECT().Now().Return(mytime.ExampleTime.Add(time.Hour))
		publisher.EXPECT().Publish(gomock.Any(), checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
			OrderUID:         "123",
			ProviderName:     "stripe",
			PaymentMethod:    "card",
			PaymentIntentRef: "pi_123",
		}).Return(nil)

		// when
		response := postWebhook(t, router, succeededEventPayload("pi_123"))

		// then
		assert.Equal(t, 200, response.Code)

		got, exists, _ := storer.Get(ctx, "123")
		assert.True(t, exists)
		assert.Equal(t, orderapi.PaymentStatusComplete, got.PaymentStatus)
		assert.NotNil(t, got.LastModified)
	})

	t.Run("Duplicate delivery is idempotent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, nower, _ := setup(t, ctrl)

		// given
		order := pendingOrder()
		order.PaymentIntentRef = "pi_123"
		order.PaymentStatus = orderapi.PaymentStatusComplete
		_ = storer.Put(ctx, "123", order)
		nower.EXPECT().Now().Return(mytime.ExampleTime.Add(time.Hour))

		// when
		response := postWebhook(t, router, succeededEventPayload("pi_123"))

		// then: still a success, no event published, order unchanged
		assert.Equal(t, 200, response.Code)

		got, _, _ := storer.Get(ctx, "123")
		assert.Equal(t, orderapi.PaymentStatusComplete, got.PaymentStatus)
	})

	t.Run("Unknown payment intent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _ := setup(t, ctrl)

		// when
		response := postWebhook(t, router, succeededEventPayload("pi_unknown"))

		// then: non-5xx so the provider retries within bounds
		assert.Equal(t, 404, response.Code)
	})

	t.Run("Malformed payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, _, _ := setup(t, ctrl)

		// given
		order := pendingOrder()
		order.PaymentIntentRef = "pi_123"
		_ = storer.Put(ctx, "123", order)

		// when
		response := postWebhook(t, router, `{"type": "payment_intent.succeeded", "data": {`)

		// then
		assert.Equal(t, 400, response.Code)

		got, _, _ := storer.Get(ctx, "123")
		assert.Equal(t, orderapi.PaymentStatusPending, got.PaymentStatus)
	})

	t.Run("Succeeded event without charges", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, _, _, _ := setup(t, ctrl)

		// when
		response := postWebhook(t, router, `{
			"id": "evt_1",
			"type": "payment_intent.succeeded",
			"data": { "object": { "charges": { "data": [] } } }
		}`)

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Foreign event type is acknowledged without side effects", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, storer, _, _, _ := setup(t, ctrl)

		// given
		order := pendingOrder()
		order.PaymentIntentRef = "pi_123"
		_ = storer.Put(ctx, "123", order)

		// when
		response := postWebhook(t, router, `{
			"id": "evt_1",
			"type": "charge.refunded",
			"data": { "object": {} }
		}`)

		// then
		assert.Equal(t, 200, response.Code)

		got, _, _ := storer.Get(ctx, "123")
		assert.Equal(t, orderapi.PaymentStatusPending, got.PaymentStatus)
	})
}

func TestRenderStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	sut := webServiceForRendering(t, ctrl)

	t.Run("Order of another gateway is left alone", func(t *testing.T) {
		order := pendingOrder()
		order.PaymentMethod = "bank_transfer"
		got := sut.RenderStatus(order, "", "Thanks!")
		assert.Equal(t, "Thanks!", got)
	})

	t.Run("Cancelled checkout", func(t *testing.T) {
		got := sut.RenderStatus(pendingOrder(), "cancel", "Thanks!")
		assert.Equal(t, "Your payment was cancelled. You have not been charged.", got)
	})

	t.Run("Pending order", func(t *testing.T) {
		got := sut.RenderStatus(pendingOrder(), "", "Thanks!")
		assert.Equal(t, "Your order has been received. Payment status: pending.", got)
	})

	t.Run("Completed order", func(t *testing.T) {
		order := pendingOrder()
		order.PaymentStatus = orderapi.PaymentStatusComplete
		got := sut.RenderStatus(order, "", "Thanks!")
		assert.Equal(t, "Your order has been received. Payment status: complete.", got)
	})
}

func TestSettingsSchema(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// setup
	_, router, _, _, _, _ := setup(t, ctrl)

	// when
	request, err := http.NewRequest(http.MethodGet, "/stripe/settings/schema", nil)
	assert.NoError(t, err)
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)

	// then
	assert.Equal(t, 200, response.Code)
	assert.Contains(t, response.Body.String(), `"key": "publishable_key"`)
	assert.Contains(t, response.Body.String(), `"key": "secret_key"`)
}

func pendingOrder() orderapi.Order {
	return orderapi.Order{
		UID:           "123",
		CreatedAt:     mytime.ExampleTime,
		CustomerEmail: "customer@example.com",
		Currency:      "usd",
		LineItems: []orderapi.LineItem{
			{
				Name:       "Blue t-shirt",
				UnitAmount: 1999,
				Currency:   "usd",
				Quantity:   2,
			},
		},
		PaymentMethod: "woo_stripe",
		PaymentStatus: orderapi.PaymentStatusPending,
	}
}

func succeededEventPayload(paymentIntentRef string) string {
	return `{
		"id": "evt_1",
		"object": "event",
		"api_version": "2022-11-15",
		"type": "payment_intent.succeeded",
		"data": {
			"object": {
				"payment_method_types": ["card"],
				"charges": {
					"data": [
						{ "payment_intent": "` + paymentIntentRef + `" }
					]
				}
			}
		}
	}`
}

func postWebhook(t *testing.T, router *mux.Router, payload string) *httptest.ResponseRecorder {
	request, err := http.NewRequest(http.MethodPost, "/stripe/checkout/webhook/event", strings.NewReader(payload))
	assert.NoError(t, err)
	request.Host = "localhost:8888"
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func toStrings(in []*string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, *s)
	}
	return out
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, mystore.Store[orderapi.Order], *MockPayer, *mytime.MockNower, *mypublisher.MockPublisher) {
	c := context.TODO()
	storer, _, _ := mystore.New[orderapi.Order](c)
	payer := NewMockPayer(ctrl)
	nower := mytime.NewMockNower(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)

	payer.EXPECT().UseApiKey("my_secret_key")

	sut, err := NewWebService(Config{
		PublishableKey: "my_publishable_key",
		SecretKey:      "my_secret_key",
	}, payer, nower, storer, publisher)
	assert.NoError(t, err)

	publisher.EXPECT().CreateTopic(gomock.Any(), checkoutevents.TopicName).Return(nil)

	router := mux.NewRouter()
	err = sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return c, router, storer, payer, nower, publisher
}

func webServiceForRendering(t *testing.T, ctrl *gomock.Controller) *webService {
	payer := NewMockPayer(ctrl)
	payer.EXPECT().UseApiKey("my_secret_key")

	storer, _, _ := mystore.New[orderapi.Order](context.TODO())
	sut, err := NewWebService(Config{SecretKey: "my_secret_key"}, payer, mytime.NewMockNower(ctrl), storer, mypublisher.NewMockPublisher(ctrl))
	assert.NoError(t, err)
	return sut
}
