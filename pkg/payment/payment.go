// Package payment talks to the hosted checkout provider. Callers depend on
// Processor; StripeProcessor is the production implementation.
package payment

import (
	"context"
	"errors"
)

// Metadata keys naming the record a session pays for.
const (
	MetaTuitionID     = "tuitionId"
	MetaApplicationID = "applicationId"
)

// ErrSessionNotFound is returned when the provider has no session with the
// requested id.
var ErrSessionNotFound = errors.New("payment: session not found")

// CheckoutRequest describes a single-item hosted checkout.
type CheckoutRequest struct {
	Amount      int64 // minor units
	Currency    string
	Description string
	PayerEmail  string
	Metadata    map[string]string
	SuccessURL  string
	CancelURL   string
}

// Session is the provider's view of one checkout attempt.
type Session struct {
	ID            string
	URL           string
	PaymentStatus string
	Paid          bool
	Metadata      map[string]string
}

// Processor creates and retrieves checkout sessions.
type Processor interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*Session, error)
	RetrieveSession(ctx context.Context, id string) (*Session, error)
}
