package checkoutevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/paybridge/paybridge/lib/myerrors"
	"github.com/paybridge/paybridge/lib/myevents"
)

const (
	TopicName             = "checkout"
	checkoutStartedName   = TopicName + ".started"
	checkoutCompletedName = TopicName + ".completed"
)

type CheckoutEventService interface {
	Subscribe(c context.Context) error
	OnCheckoutStarted(c context.Context, topic string, event CheckoutStarted) error
	OnCheckoutCompleted(c context.Context, topic string, event CheckoutCompleted) error
}

func DispatchEvent(c context.Context, reader io.Reader, service CheckoutEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case checkoutStartedName:
		{
			event := CheckoutStarted{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCheckoutStarted(c, envelope.Topic, event)
		}
	case checkoutCompletedName:
		{
			event := CheckoutCompleted{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnCheckoutCompleted(c, envelope.Topic, event)
		}
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("unknown event type %s", envelope.EventTypeName))
	}
}

// CheckoutStarted is published when a provider-hosted checkout session has been
// created for an order.
type CheckoutStarted struct {
	OrderUID         string
	ProviderName     string
	AmountInCents    int64
	Currency         string
	PaymentIntentRef string
}

func (e CheckoutStarted) GetEventTypeName() string {
	return checkoutStartedName
}

func (e CheckoutStarted) GetAggregateName() string {
	return e.OrderUID
}

// CheckoutCompleted is published when the provider has confirmed payment
// out-of-band via its webhook.
type CheckoutCompleted struct {
	OrderUID         string
	ProviderName     string
	PaymentMethod    string
	PaymentIntentRef string
}

func (e CheckoutCompleted) GetEventTypeName() string {
	return checkoutCompletedName
}

func (e CheckoutCompleted) GetAggregateName() string {
	return e.OrderUID
}
