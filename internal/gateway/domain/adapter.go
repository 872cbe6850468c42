package domain

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable covers transport and auth failures talking to the
	// gateway. It is never interpreted as a payment failure.
	ErrUnavailable      = errors.New("gateway_unavailable")
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrInvalidPayload   = errors.New("invalid_payload")
	ErrEventIgnored     = errors.New("event_ignored")

	// ErrNotConfigured means a required secret is absent. A server in
	// this state must report a configuration error, not reject the
	// caller's signature.
	ErrNotConfigured = errors.New("gateway_not_configured")
)

// ReceiptMaxLen is the gateway's limit on the receipt field.
const ReceiptMaxLen = 40

// Gateway payment statuses we act on. Anything else is treated as
// still pending.
const (
	PaymentStatusCaptured = "captured"
	PaymentStatusFailed   = "failed"
)

type CreateOrderRequest struct {
	AmountMinorUnits int64
	Currency         string
	Receipt          string
	Notes            map[string]string
}

type Order struct {
	ID       string
	Amount   int64
	Currency string
}

type Payment struct {
	ID               string
	OrderID          string
	Status           string
	Method           string
	Amount           int64
	Currency         string
	ErrorDescription string
}

// WebhookEvent is the canonical event parsed from a gateway webhook
// payload.
type WebhookEvent struct {
	Event            string
	OrderID          string
	PaymentID        string
	Status           string
	Method           string
	Amount           int64
	ErrorDescription string
}

// Adapter wraps the external payment gateway. Implementations are thin
// RPC clients; all booking semantics live in the booking service.
type Adapter interface {
	// KeyID returns the public key id clients use to open checkout.
	KeyID() string

	CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error)
	FetchPayment(ctx context.Context, paymentID string) (Payment, error)

	// VerifyCheckoutSignature authenticates a client-submitted payment
	// claim. Pure and deterministic; never errors.
	VerifyCheckoutSignature(orderID, paymentID, signature string) bool

	// VerifyWebhookSignature authenticates a webhook over the exact raw
	// request bytes. Re-serialized JSON breaks the HMAC. Returns
	// ErrNotConfigured when no webhook secret is set and
	// ErrInvalidSignature on mismatch.
	VerifyWebhookSignature(rawBody []byte, signature string) error

	// ParseWebhookEvent extracts the payment event from a webhook
	// payload. Returns ErrEventIgnored for events with no order
	// reference.
	ParseWebhookEvent(payload []byte) (*WebhookEvent, error)
}
