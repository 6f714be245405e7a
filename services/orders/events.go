package orders

import (
	"context"
	"fmt"

	"github.com/paybridge/paybridge/lib/myerrors"
	"github.com/paybridge/paybridge/lib/myhttp"
	"github.com/paybridge/paybridge/lib/mylog"
	"github.com/paybridge/paybridge/services/checkoutevents"
	"github.com/paybridge/paybridge/services/orders/orderevents"
)

func (s *service) Subscribe(c context.Context) error {
	err := s.publisher.CreateTopic(c, orderevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", orderevents.TopicName, err)
	}

	err = s.subscriber.Subscribe(c, checkoutevents.TopicName, myhttp.GuessHostnameWithScheme()+"/api/order/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", checkoutevents.TopicName, err)
	}

	return nil
}

func (s *service) OnCheckoutStarted(c context.Context, topic string, event checkoutevents.CheckoutStarted) error {
	return nil
}

// OnCheckoutCompleted records the payment instrument that the provider
// reported out-of-band. The payment-status transition itself has already been
// applied by the gateway's reconciler.
func (s *service) OnCheckoutCompleted(c context.Context, topic string, event checkoutevents.CheckoutCompleted) error {
	s.logger.Log(c, event.OrderUID, mylog.SeverityInfo, "Checkout completed for order %s via %s", event.OrderUID, event.PaymentMethod)

	now := s.nower.Now()

	return s.orderStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent
		order, found, err := s.orderStore.Get(c, event.OrderUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", event.OrderUID))
		}

		if order.PaymentMethodDetails == event.PaymentMethod {
			// duplicate delivery
			return nil
		}

		order.PaymentMethodDetails = event.PaymentMethod
		order.LastModified = &now

		err = s.orderStore.Put(c, event.OrderUID, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, orderevents.TopicName, orderevents.OrderPaymentCompleted{
			OrderUID: event.OrderUID,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
}
