package orders

import (
	"context"
	"fmt"
	"sort"

	"github.com/paybridge/paybridge/lib/myerrors"
	"github.com/paybridge/paybridge/lib/mylog"
	"github.com/paybridge/paybridge/services/orderapi"
	"github.com/paybridge/paybridge/services/orders/orderevents"
)

const defaultThankYouText = "Thank you. Your order has been received."

func (s *service) listOrders(c context.Context) ([]orderapi.Order, error) {
	s.logger.Log(c, "", mylog.SeverityInfo, "Fetch all orders")

	orders, err := s.orderStore.List(c)
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (s *service) createNewOrder(c context.Context, orderForm orderapi.OrderForm) (orderapi.Order, error) {
	orderUID := s.uuider.Create()
	createdAt := s.nower.Now()

	order, err := orderForm.ToOrder(orderUID, createdAt)
	if err != nil {
		return orderapi.Order{}, err
	}
	order.PaymentMethod = s.renderer.ID()

	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Creating new order with uid %s", orderUID)

	err = s.orderStore.RunInTransaction(c, func(c context.Context) error {
		err := s.orderStore.Put(c, orderUID, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, orderevents.TopicName, orderevents.OrderCreated{
			OrderUID: orderUID,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return orderapi.Order{}, err
	}

	return order, nil
}

func (s *service) getOrder(c context.Context, orderUID string) (orderapi.Order, error) {
	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Fetch details of order uid %s", orderUID)

	order, found, err := s.orderStore.Get(c, orderUID)
	if err != nil {
		return orderapi.Order{}, myerrors.NewInternalError(err)
	}
	if !found {
		return orderapi.Order{}, myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
	}

	return order, nil
}

func (s *service) cancelOrder(c context.Context, orderUID string) (orderapi.Order, error) {
	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Cancel order %s", orderUID)

	now := s.nower.Now()

	var order orderapi.Order
	var found bool
	var err error
	err = s.orderStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent

		order, found, err = s.orderStore.Get(c, orderUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
		}

		changed, err := order.Cancel()
		if err != nil {
			return myerrors.NewInvalidInputError(err)
		}
		if !changed {
			return nil
		}
		order.LastModified = &now

		err = s.orderStore.Put(c, orderUID, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, orderevents.TopicName, orderevents.OrderCancelled{
			OrderUID: orderUID,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return orderapi.Order{}, err
	}

	return order, nil
}

// orderReceived composes the thank-you page text. The text reflects the
// current persisted payment status: a webhook that lands before the customer
// reloads the page already shows up as complete.
func (s *service) orderReceived(c context.Context, orderUID string, queryStatus string) (orderapi.Order, string, error) {
	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Order received page for order %s (status=%s)", orderUID, queryStatus)

	order, err := s.getOrder(c, orderUID)
	if err != nil {
		return orderapi.Order{}, "", err
	}

	return order, s.renderer.RenderStatus(order, queryStatus, defaultThankYouText), nil
}
