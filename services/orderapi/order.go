package orderapi

import (
	"fmt"
	"strings"
	"time"
)

// PaymentIntentField is the persisted property name that links an order to the
// provider-side payment intent. It must remain stable: pending orders written
// by earlier versions are still resolved through this property.
const PaymentIntentField = "woo_stripe_payment_intent"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusComplete  PaymentStatus = "complete"
)

type Order struct {
	UID                  string
	CreatedAt            time.Time
	LastModified         *time.Time
	CustomerEmail        string
	Currency             string
	LineItems            []LineItem
	PaymentMethod        string // gateway that handles this order, e.g. "woo_stripe"
	PaymentMethodDetails string // instrument reported by the webhook, e.g. "card"
	PaymentIntentRef     string `datastore:"woo_stripe_payment_intent"`
	PaymentStatus        PaymentStatus
}

type LineItem struct {
	Name       string
	UnitAmount int64 // minor units (cents)
	Currency   string
	Quantity   int64
}

func NewOrder(uid string, createdAt time.Time) Order {
	return Order{
		UID:           uid,
		CreatedAt:     createdAt,
		PaymentStatus: PaymentStatusPending,
	}
}

func (o Order) TotalAmount() int64 {
	var total int64
	for _, item := range o.LineItems {
		total += item.UnitAmount * item.Quantity
	}
	return total
}

func (o Order) AmountFormatted() string {
	return fmt.Sprintf("%.2f %s", float64(o.TotalAmount())/100.0, strings.ToUpper(o.Currency))
}

func (o Order) IsPending() bool {
	return o.PaymentStatus == PaymentStatusPending
}

func (o Order) Timestamp() string {
	return o.CreatedAt.Format("2006-01-02 15:04:05")
}

// MarkPaid transitions the order to complete. A second invocation is a no-op:
// webhook delivery is at-least-once. Reports whether the status changed.
func (o *Order) MarkPaid() (bool, error) {
	switch o.PaymentStatus {
	case PaymentStatusComplete:
		return false, nil
	case PaymentStatusCancelled:
		return false, fmt.Errorf("order %s is cancelled and cannot be completed", o.UID)
	default:
		o.PaymentStatus = PaymentStatusComplete
		return true, nil
	}
}

// Cancel transitions the order to cancelled. Completed orders stay completed.
func (o *Order) Cancel() (bool, error) {
	switch o.PaymentStatus {
	case PaymentStatusCancelled:
		return false, nil
	case PaymentStatusComplete:
		return false, fmt.Errorf("order %s is completed and cannot be cancelled", o.UID)
	default:
		o.PaymentStatus = PaymentStatusCancelled
		return true, nil
	}
}

func (o Order) Validate() error {
	if len(o.LineItems) == 0 {
		return fmt.Errorf("order %s has no line items", o.UID)
	}
	for _, item := range o.LineItems {
		if item.Name == "" {
			return fmt.Errorf("order %s has a line item without a name", o.UID)
		}
		if item.UnitAmount < 0 {
			return fmt.Errorf("order %s has a negative amount for item %s", o.UID, item.Name)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("order %s has a non-positive quantity for item %s", o.UID, item.Name)
		}
	}

	return nil
}
