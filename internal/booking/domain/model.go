package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// Terminal reports whether the status is one a booking must never
// leave again.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

// Booking is one booking attempt. Created PENDING, it exits PENDING
// exactly once, either to a terminal payment status or by deletion
// through cancellation.
type Booking struct {
	ID               snowflake.ID `json:"id" gorm:"primaryKey"`
	UserID           string       `json:"user_id" gorm:"type:text;not null;index"`
	PlaceID          string       `json:"place_id" gorm:"type:text;not null;index"`
	BookingDateTime  string       `json:"booking_date_time" gorm:"type:text;not null"`
	BookingRefNumber string       `json:"booking_ref_number" gorm:"type:text;not null"`
	AmountPaid       float64      `json:"amount_paid" gorm:"not null"`
	CurrencyPaid     string       `json:"currency_paid" gorm:"type:text;not null"`
	NumberOfGuests   *int         `json:"number_of_guests,omitempty"`

	GatewayOrderID         *string       `json:"gateway_order_id,omitempty" gorm:"type:text;index"`
	GatewayPaymentID       *string       `json:"gateway_payment_id,omitempty" gorm:"type:text"`
	GatewaySignature       *string       `json:"gateway_signature,omitempty" gorm:"type:text"`
	TransactionID          *string       `json:"transaction_id,omitempty" gorm:"type:text"`
	PaymentMethod          *string       `json:"payment_method,omitempty" gorm:"type:text"`
	PaidAt                 *time.Time    `json:"paid_at,omitempty"`
	AmountReceivedByVendor *float64      `json:"amount_received_by_vendor,omitempty"`
	PaymentError           *string       `json:"payment_error,omitempty" gorm:"type:text"`
	PaymentStatus          PaymentStatus `json:"payment_status" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time `json:"updated_at" gorm:"not null"`
}

func (Booking) TableName() string { return "bookings" }
