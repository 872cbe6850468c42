package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidState       = errors.New("invalid_state")
	ErrSignatureInvalid   = errors.New("signature_invalid")
	ErrGatewayUnavailable = errors.New("gateway_unavailable")
	ErrStoreUnavailable   = errors.New("store_unavailable")
	ErrNotConfigured      = errors.New("not_configured")
)

// SignatureMismatchReason is persisted as the payment error when a
// claim fails authentication. Failure is data, not just a response
// code.
const SignatureMismatchReason = "Signature mismatch"

type CreateBookingRequest struct {
	UserID          string  `json:"userId"`
	PlaceID         string  `json:"placeId"`
	BookingDateTime string  `json:"bookingDateTime"`
	AmountINR       float64 `json:"amountInr"`
	Currency        string  `json:"currency,omitempty"`
	NumberOfGuests  *int    `json:"number_of_guests,omitempty"`
}

type CreateOrderRequest struct {
	BookingID string  `json:"bookingId"`
	AmountINR float64 `json:"amountInr"`
	Currency  string  `json:"currency,omitempty"`
}

// CheckoutResponse carries everything the mobile client needs to open
// gateway checkout.
type CheckoutResponse struct {
	KeyID     string `json:"keyId"`
	OrderID   string `json:"orderId"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	BookingID string `json:"bookingId"`
}

type VerifyPaymentRequest struct {
	BookingID string `json:"bookingId"`
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

type VerifyPaymentResponse struct {
	Status        PaymentStatus `json:"status"`
	BookingID     string        `json:"bookingId"`
	PaymentID     string        `json:"paymentId,omitempty"`
	OrderID       string        `json:"orderId,omitempty"`
	Method        string        `json:"method,omitempty"`
	GatewayStatus string        `json:"gatewayStatus,omitempty"`
	Reason        string        `json:"reason,omitempty"`
}

type WebhookResult struct {
	Received bool `json:"received"`
	Ignored  bool `json:"ignored,omitempty"`
}

type PaymentStatusResponse struct {
	BookingID     string        `json:"bookingId"`
	Status        PaymentStatus `json:"status"`
	OrderID       string        `json:"orderId,omitempty"`
	PaymentID     string        `json:"paymentId,omitempty"`
	PaymentError  string        `json:"paymentError,omitempty"`
}

// Service is the booking lifecycle state machine.
type Service interface {
	CreateBookingAndOrder(ctx context.Context, req CreateBookingRequest) (CheckoutResponse, error)
	CreateOrderForBooking(ctx context.Context, req CreateOrderRequest) (CheckoutResponse, error)
	VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (VerifyPaymentResponse, error)
	HandleWebhook(ctx context.Context, rawBody []byte, signatureHeader string) (WebhookResult, error)
	CancelBooking(ctx context.Context, bookingID string) error
	GetPaymentStatus(ctx context.Context, bookingID string) (PaymentStatusResponse, error)
}

// Repository is durable CRUD over bookings. Patches are merge
// semantics; every update stamps updated_at.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, booking *Booking) error
	UpdateByID(ctx context.Context, db *gorm.DB, id snowflake.ID, patch map[string]any) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Booking, error)
	FindByGatewayOrderID(ctx context.Context, db *gorm.DB, orderID string) (*Booking, error)

	// DeletePendingByID deletes the booking only while it is still
	// PENDING and reports whether a row was removed. A booking that
	// settled between the caller's read and the delete stays put.
	DeletePendingByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)

	// TransitionFromPending applies the patch only while the booking is
	// still PENDING and reports whether a row changed. Terminal states
	// are sticky; the caller that wins the transition owns the
	// side effects.
	TransitionFromPending(ctx context.Context, db *gorm.DB, id snowflake.ID, patch map[string]any) (bool, error)
}
