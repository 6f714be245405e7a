package gateway

import (
	"context"
	"io"

	"github.com/paybridge/paybridge/services/orderapi"
)

// InitiateResult is the response contract towards the host commerce platform:
// on success the customer is sent to the provider-hosted payment page.
type InitiateResult struct {
	Result   string `json:"result"`
	Redirect string `json:"redirect"`
}

const ResultSuccess = "success"

// SettingsField describes one admin-configurable setting of a gateway.
// Rendering the settings form itself is up to the host platform.
type SettingsField struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

//go:generate mockgen -source=api.go -package gateway -destination gateway_mock.go StatusRenderer,PaymentGateway
type StatusRenderer interface {
	// ID returns the payment-method identifier this gateway registers under.
	ID() string

	// RenderStatus produces the thank-you page text for an order. Orders paid
	// through another gateway get defaultText back unchanged.
	RenderStatus(order orderapi.Order, queryStatus string, defaultText string) string
}

// PaymentGateway is the capability a payment-provider integration offers to
// the platform. Implementations are plain values wired in at startup, not
// registrations in a global registry.
type PaymentGateway interface {
	StatusRenderer

	// Initiate creates a provider-hosted checkout session for the order and
	// records the pending payment-intent reference on it.
	Initiate(c context.Context, orderUID string, hostname string) (InitiateResult, error)

	// Reconcile consumes one raw webhook notification body.
	Reconcile(c context.Context, body io.Reader) error

	SettingsSchema() []SettingsField
}
