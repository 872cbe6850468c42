package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/spotnere/backend/internal/booking/domain"
	"gorm.io/gorm"
)

const TypeNewBooking = "NEW_BOOKING"

// Vendor is the place owner who receives booking notifications.
// Read-only from this service's perspective.
type Vendor struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	PlaceID   string       `json:"place_id" gorm:"type:text;not null;index"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	PushToken string       `json:"push_token" gorm:"type:text"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null"`
}

func (Vendor) TableName() string { return "vendors" }

// VendorNotification is an append-only record of a notification shown
// to a vendor.
type VendorNotification struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	VendorID  snowflake.ID `json:"vendor_id" gorm:"not null;index"`
	PlaceID   string       `json:"place_id" gorm:"type:text;not null"`
	BookingID snowflake.ID `json:"booking_id" gorm:"not null;index"`
	Type      string       `json:"type" gorm:"type:text;not null"`
	Title     string       `json:"title" gorm:"type:text;not null"`
	Body      string       `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null"`
}

func (VendorNotification) TableName() string { return "vendor_notifications" }

// Service dispatches the vendor-facing side effects of a successful
// booking. It never propagates failure back into the payment flow.
type Service interface {
	NotifyBookingConfirmed(ctx context.Context, booking *bookingdomain.Booking) error
}

type Repository interface {
	FindVendorByPlaceID(ctx context.Context, db *gorm.DB, placeID string) (*Vendor, error)
	InsertNotification(ctx context.Context, db *gorm.DB, notification *VendorNotification) error
}
