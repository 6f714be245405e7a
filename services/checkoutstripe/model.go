package checkoutstripe

const (
	// ProviderName identifies the payment service provider in published events.
	ProviderName = "stripe"

	// gatewayID is the payment-method identifier orders are tagged with.
	gatewayID = "woo_stripe"

	eventTypePaymentIntentSucceeded = "payment_intent.succeeded"
)

type Config struct {
	// PublishableKey is the client-side key. It is not used for server-side
	// calls but is part of the gateway's admin-configurable settings.
	PublishableKey string

	// SecretKey authenticates server-side calls towards the provider.
	SecretKey string
}
