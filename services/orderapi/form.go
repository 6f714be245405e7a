package orderapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	formcodec "github.com/go-playground/form/v4"

	"github.com/paybridge/paybridge/lib/myerrors"
)

type OrderForm struct {
	CustomerEmail string     `form:"customer.email"`
	Currency      string     `form:"currency"`
	Items         []ItemForm `form:"items"`
}

type ItemForm struct {
	Name      string `form:"name"`
	UnitPrice string `form:"unitPrice"` // decimal units, e.g. "19.99"
	Quantity  int64  `form:"quantity"`
}

func NewFromRequest(r *http.Request) (OrderForm, error) {
	err := r.ParseForm()
	if err != nil {
		return OrderForm{}, myerrors.NewInvalidInputError(err)
	}
	return NewFromValues(r.Form)
}

func NewFromValues(values url.Values) (OrderForm, error) {
	orderForm := OrderForm{}
	err := formcodec.NewDecoder().Decode(&orderForm, values)
	if err != nil {
		return orderForm, fmt.Errorf("error decoding form: %s", err)
	}

	return orderForm, nil
}

func (f OrderForm) ToOrder(uid string, createdAt time.Time) (Order, error) {
	order := NewOrder(uid, createdAt)
	order.CustomerEmail = f.CustomerEmail
	order.Currency = f.Currency

	for _, item := range f.Items {
		unitAmount, err := ParsePrice(item.UnitPrice)
		if err != nil {
			return Order{}, myerrors.NewInvalidInputError(fmt.Errorf("item %s: %s", item.Name, err))
		}
		order.LineItems = append(order.LineItems, LineItem{
			Name:       item.Name,
			UnitAmount: unitAmount,
			Currency:   f.Currency,
			Quantity:   item.Quantity,
		})
	}

	err := order.Validate()
	if err != nil {
		return Order{}, myerrors.NewInvalidInputError(err)
	}

	return order, nil
}

// ParsePrice converts a decimal unit price into minor units (cents).
// Prices with more than 2 fractional digits are rejected rather than
// silently losing precision.
func ParsePrice(price string) (int64, error) {
	wholePart, fracPart, _ := strings.Cut(strings.TrimSpace(price), ".")

	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", price)
	}
	if whole < 0 {
		return 0, fmt.Errorf("negative price %q", price)
	}

	switch len(fracPart) {
	case 0:
		fracPart = "00"
	case 1:
		fracPart += "0"
	case 2:
		// as-is
	default:
		return 0, fmt.Errorf("price %q has more than 2 decimal digits", price)
	}

	frac, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil || frac < 0 {
		return 0, fmt.Errorf("invalid price %q", price)
	}

	return whole*100 + frac, nil
}
