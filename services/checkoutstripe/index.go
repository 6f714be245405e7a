package checkoutstripe

import (
	"context"
	"fmt"

	"github.com/paybridge/paybridge/lib/myerrors"
	"github.com/paybridge/paybridge/lib/mylog"
	"github.com/paybridge/paybridge/lib/mystore"
	"github.com/paybridge/paybridge/services/orderapi"
)

// lookupOrderUID resolves a payment-intent reference to the order that
// initiated it. The reference is recorded on exactly one order, so finding
// more than one indicates an inconsistency: the most recent order wins.
func (s *service) lookupOrderUID(c context.Context, paymentIntentRef string) (string, error) {
	orders, err := s.orderStore.Query(c, []mystore.Filter{
		{Field: orderapi.PaymentIntentField, Compare: "=", Value: paymentIntentRef},
	}, "-CreatedAt")
	if err != nil {
		return "", myerrors.NewInternalError(fmt.Errorf("error querying orders on payment intent %s: %s", paymentIntentRef, err))
	}
	if len(orders) == 0 {
		return "", myerrors.NewNotFoundError(fmt.Errorf("no order found for payment intent %s", paymentIntentRef))
	}
	if len(orders) > 1 {
		s.logger.Log(c, paymentIntentRef, mylog.SeverityWarn, "Found %d orders for payment intent %s, using most recent %s", len(orders), paymentIntentRef, orders[0].UID)
	}

	return orders[0].UID, nil
}
