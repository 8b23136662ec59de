package payments

import (
	"context"
	"encoding/json"
	"errors"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/zvrva/staybook/internal/domain"
)

type StripeGateway struct {
	api           *client.API
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeGateway{api: api, webhookSecret: webhookSecret}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params:     stripe.Params{Context: ctx},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(p.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("bookingId", p.BookingID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, wrapStripeErr("failed to create checkout session", err)
	}
	return fromStripeSession(sess), nil
}

func (g *StripeGateway) GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	sess, err := g.api.CheckoutSessions.Get(sessionID, &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, wrapStripeErr("failed to retrieve checkout session", err)
	}
	return fromStripeSession(sess), nil
}

func (g *StripeGateway) SessionByPaymentIntent(ctx context.Context, paymentIntentID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: stripe.String(paymentIntentID),
	}
	params.Context = ctx

	iter := g.api.CheckoutSessions.List(params)
	for iter.Next() {
		return fromStripeSession(iter.CheckoutSession()), nil
	}
	if err := iter.Err(); err != nil {
		return nil, wrapStripeErr("failed to list checkout sessions", err)
	}
	return nil, domain.NewNotFound("Session not found")
}

// ParseWebhook verifies the signature before anything in the payload is
// trusted. Event types the bridge does not handle still parse successfully.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, domain.NewValidation("Webhook signature verification failed")
	}

	out := &WebhookEvent{Type: string(event.Type)}
	switch out.Type {
	case EventCheckoutCompleted:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, domain.NewValidation("Malformed checkout session payload")
		}
		out.Metadata = sess.Metadata
	case EventPaymentSucceeded:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			return nil, domain.NewValidation("Malformed payment intent payload")
		}
		out.PaymentIntentID = intent.ID
	}
	return out, nil
}

func fromStripeSession(sess *stripe.CheckoutSession) *CheckoutSession {
	return &CheckoutSession{
		ID:       sess.ID,
		URL:      sess.URL,
		Paid:     sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Metadata: sess.Metadata,
	}
}

func wrapStripeErr(msg string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewUpstreamTimeout(msg, err)
	}
	return domain.NewUpstream(msg, err)
}

var _ Gateway = (*StripeGateway)(nil)
