package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeProcessor implements Processor with Stripe Checkout.
type StripeProcessor struct {
	api *client.API
}

// StripeOption configures NewStripe.
type StripeOption func(*stripe.Backends)

// WithBackend routes every Stripe call through b, e.g. a test server.
func WithBackend(b stripe.Backend) StripeOption {
	return func(bs *stripe.Backends) {
		bs.API = b
		bs.Connect = b
		bs.Uploads = b
	}
}

// NewStripe returns a processor using the secret key.
func NewStripe(key string, opts ...StripeOption) *StripeProcessor {
	var backends *stripe.Backends
	if len(opts) > 0 {
		backends = &stripe.Backends{}
		for _, opt := range opts {
			opt(backends)
		}
	}
	return &StripeProcessor{api: client.New(key, backends)}
}

func (p *StripeProcessor) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
		Mode:   stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	if req.PayerEmail != "" {
		params.CustomerEmail = stripe.String(req.PayerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, classify("create checkout session", err)
	}
	return toSession(s), nil
}

func (p *StripeProcessor) RetrieveSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{Params: stripe.Params{Context: ctx}}

	s, err := p.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, classify("retrieve checkout session", err)
	}
	return toSession(s), nil
}

func toSession(s *stripe.CheckoutSession) *Session {
	return &Session{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		Paid:          s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Metadata:      s.Metadata,
	}
}

func classify(op string, err error) error {
	var serr *stripe.Error
	if errors.As(err, &serr) && serr.HTTPStatusCode == http.StatusNotFound {
		return fmt.Errorf("stripe: %s: %w", op, errors.Join(ErrSessionNotFound, err))
	}
	return fmt.Errorf("stripe: %s: %w", op, err)
}
