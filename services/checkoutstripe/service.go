package checkoutstripe

import (
	"context"
	"fmt"
	"net/url"

	"github.com/stripe/stripe-go/v74"

	"github.com/paybridge/paybridge/lib/myerrors"
	"github.com/paybridge/paybridge/lib/mylog"
	"github.com/paybridge/paybridge/lib/mypublisher"
	"github.com/paybridge/paybridge/lib/mystore"
	"github.com/paybridge/paybridge/lib/mytime"
	"github.com/paybridge/paybridge/services/checkoutevents"
	"github.com/paybridge/paybridge/services/gateway"
	"github.com/paybridge/paybridge/services/orderapi"
)

type service struct {
	config     Config
	payer      Payer
	logger     mylog.Logger
	nower      mytime.Nower
	orderStore mystore.Store[orderapi.Order]
	publisher  mypublisher.Publisher
}

// Use dependency injection to isolate the infrastructure and easy testing
func newService(cfg Config, payer Payer, logger mylog.Logger, nower mytime.Nower, orderStore mystore.Store[orderapi.Order], publisher mypublisher.Publisher) (*service, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("missing stripe secret key")
	}
	payer.UseApiKey(cfg.SecretKey)

	return &service{
		config:     cfg,
		payer:      payer,
		logger:     logger,
		nower:      nower,
		orderStore: orderStore,
		publisher:  publisher,
	}, nil
}

func (s *service) CreateTopics(c context.Context) error {
	err := s.publisher.CreateTopic(c, checkoutevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}

// startCheckout creates a checkout session on the Stripe platform and records
// the payment-intent reference on the order so the webhook can find it back
func (s *service) startCheckout(c context.Context, orderUID string, hostname string) (gateway.InitiateResult, error) {
	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Start checkout for order %s", orderUID)

	order, found, err := s.orderStore.Get(c, orderUID)
	if err != nil {
		return gateway.InitiateResult{}, myerrors.NewInternalError(fmt.Errorf("error fetching order with uid %s: %s", orderUID, err))
	}
	if !found {
		return gateway.InitiateResult{}, myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
	}
	if !order.IsPending() {
		return gateway.InitiateResult{}, myerrors.NewInvalidInputError(fmt.Errorf("order %s has status %s, cannot start checkout", orderUID, order.PaymentStatus))
	}
	err = order.Validate()
	if err != nil {
		return gateway.InitiateResult{}, myerrors.NewInvalidInputError(fmt.Errorf("invalid order %s: %s", orderUID, err))
	}

	orderReceivedURL := fmt.Sprintf("%s/order/%s/thankyou", hostname, orderUID)
	cancelURL, err := addStatusQueryParam(orderReceivedURL, "cancel")
	if err != nil {
		return gateway.InitiateResult{}, myerrors.NewInternalError(fmt.Errorf("error composing cancel url: %s", err))
	}

	session, err := s.payer.CreateCheckoutSession(c, composeCheckoutSessionParams(order, orderReceivedURL, cancelURL))
	if err != nil {
		return gateway.InitiateResult{}, myerrors.NewInternalError(fmt.Errorf("error creating checkout session for order %s: %s", orderUID, err))
	}
	if session.PaymentIntent == nil || session.PaymentIntent.ID == "" {
		return gateway.InitiateResult{}, myerrors.NewInternalError(fmt.Errorf("checkout session %s carries no payment intent", session.ID))
	}

	now := s.nower.Now()
	err = s.orderStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent

		order, found, err := s.orderStore.Get(c, orderUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching order with uid %s: %s", orderUID, err))
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
		}
		if !order.IsPending() {
			return myerrors.NewInvalidInputError(fmt.Errorf("order %s has status %s, cannot start checkout", orderUID, order.PaymentStatus))
		}

		// A re-initiated checkout replaces the previous payment intent
		order.PaymentIntentRef = session.PaymentIntent.ID
		order.LastModified = &now

		err = s.orderStore.Put(c, orderUID, order)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing order: %s", err))
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutStarted{
			OrderUID:         orderUID,
			ProviderName:     ProviderName,
			AmountInCents:    order.TotalAmount(),
			Currency:         order.Currency,
			PaymentIntentRef: session.PaymentIntent.ID,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
		}

		return nil
	})
	if err != nil {
		return gateway.InitiateResult{}, err
	}

	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Checkout session created for order %s with payment intent %s", orderUID, session.PaymentIntent.ID)

	return gateway.InitiateResult{
		Result:   gateway.ResultSuccess,
		Redirect: session.URL,
	}, nil
}

func (s *service) webhookNotification(c context.Context, event stripe.Event) error {
	if event.Type != eventTypePaymentIntentSucceeded {
		s.logger.Log(c, event.ID, mylog.SeverityInfo, "Webhook: ignoring event %s of type %s", event.ID, event.Type)
		return nil
	}

	paymentIntentRef, err := paymentIntentFromEvent(event)
	if err != nil {
		return myerrors.NewInvalidInputError(fmt.Errorf("error extracting payment intent from event %s: %s", event.ID, err))
	}

	s.logger.Log(c, paymentIntentRef, mylog.SeverityInfo, "Webhook: payment intent %s succeeded", paymentIntentRef)

	orderUID, err := s.lookupOrderUID(c, paymentIntentRef)
	if err != nil {
		return err
	}

	now := s.nower.Now()
	return s.orderStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent

		order, found, err := s.orderStore.Get(c, orderUID)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error fetching order with uid %s: %s", orderUID, err))
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
		}

		changed, err := order.MarkPaid()
		if err != nil {
			return myerrors.NewInvalidInputError(fmt.Errorf("cannot complete order %s: %s", orderUID, err))
		}
		if !changed {
			// duplicate delivery of the same webhook
			s.logger.Log(c, orderUID, mylog.SeverityInfo, "Webhook: order %s already marked paid", orderUID)
			return nil
		}
		order.LastModified = &now

		err = s.orderStore.Put(c, orderUID, order)
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error storing order: %s", err))
		}

		err = s.publisher.Publish(c, checkoutevents.TopicName, checkoutevents.CheckoutCompleted{
			OrderUID:         orderUID,
			ProviderName:     ProviderName,
			PaymentMethod:    paymentMethodFromEvent(event),
			PaymentIntentRef: paymentIntentRef,
		})
		if err != nil {
			return myerrors.NewInternalError(fmt.Errorf("error publishing event: %s", err))
		}

		return nil
	})
}

func composeCheckoutSessionParams(order orderapi.Order, successURL string, cancelURL string) stripe.CheckoutSessionParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(order.LineItems))
	for _, item := range order.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(item.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := stripe.CheckoutSessionParams{
		SuccessURL:         stripe.String(successURL),
		CancelURL:          stripe.String(cancelURL),
		ClientReferenceID:  stripe.String(order.UID),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	if order.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(order.CustomerEmail)
	}

	return params
}

// paymentIntentFromEvent digs the payment-intent reference out of the first
// charge of the event payload
func paymentIntentFromEvent(event stripe.Event) (string, error) {
	if event.Data == nil {
		return "", fmt.Errorf("event carries no data")
	}
	charges, ok := event.Data.Object["charges"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("event carries no charges")
	}
	chargeList, ok := charges["data"].([]interface{})
	if !ok || len(chargeList) == 0 {
		return "", fmt.Errorf("event carries an empty charge list")
	}
	charge, ok := chargeList[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("event carries a malformed charge")
	}
	paymentIntentRef, ok := charge["payment_intent"].(string)
	if !ok || paymentIntentRef == "" {
		return "", fmt.Errorf("charge carries no payment intent")
	}

	return paymentIntentRef, nil
}

func paymentMethodFromEvent(event stripe.Event) string {
	if event.Data == nil {
		return ""
	}
	types, ok := event.Data.Object["payment_method_types"].([]interface{})
	if !ok || len(types) == 0 {
		return ""
	}
	method, _ := types[0].(string)

	return method
}

func addStatusQueryParam(orgURL string, status string) (string, error) {
	u, err := url.Parse(orgURL)
	if err != nil {
		return "", fmt.Errorf("error parsing url %s: %s", orgURL, err)
	}
	params := u.Query()
	params.Set("status", status)
	u.RawQuery = params.Encode()

	return u.String(), nil
}
