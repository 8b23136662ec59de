package payments

import "context"

// CheckoutParams describes one single-line-item checkout. Amount is in minor
// units; BookingID travels as opaque metadata and comes back on confirmation.
type CheckoutParams struct {
	BookingID   string
	Amount      int64
	Currency    string
	Description string
	SuccessURL  string
	CancelURL   string
}

type CheckoutSession struct {
	ID       string
	URL      string
	Paid     bool
	Metadata map[string]string
}

const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventPaymentSucceeded  = "payment_intent.succeeded"
)

type WebhookEvent struct {
	Type string
	// Metadata is set for checkout events that carry the session inline.
	Metadata map[string]string
	// PaymentIntentID is set for payment events that only reference the
	// intent; the originating session must be resolved separately.
	PaymentIntentID string
}

// Gateway is the payment provider boundary. The service layer never touches
// provider types directly, which keeps the confirmation logic testable.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	SessionByPaymentIntent(ctx context.Context, paymentIntentID string) (*CheckoutSession, error)
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
