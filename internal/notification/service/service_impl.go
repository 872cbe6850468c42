package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	bookingdomain "github.com/spotnere/backend/internal/booking/domain"
	notificationdomain "github.com/spotnere/backend/internal/notification/domain"
	obsmetrics "github.com/spotnere/backend/internal/observability/metrics"
	"github.com/spotnere/backend/internal/providers/push"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    notificationdomain.Repository
	Push    push.Provider
	Metrics *obsmetrics.Metrics `optional:"true"`
}

// Service notifies the vendor owning a place when a booking settles
// SUCCESS. It runs after the terminal status is committed and never
// fails the payment flow that triggered it.
type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    notificationdomain.Repository
	push    push.Provider
	metrics *obsmetrics.Metrics
}

func NewService(p Params) notificationdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("notification.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		push:    p.Push,
		metrics: p.Metrics,
	}
}

func (s *Service) NotifyBookingConfirmed(ctx context.Context, booking *bookingdomain.Booking) error {
	if booking == nil {
		return nil
	}

	vendor, err := s.repo.FindVendorByPlaceID(ctx, s.db, booking.PlaceID)
	if err != nil {
		return err
	}
	if vendor == nil {
		s.log.Info("no vendor registered for place, skipping notification",
			zap.String("place_id", booking.PlaceID),
			zap.String("booking_id", booking.ID.String()),
		)
		return nil
	}

	title := "New booking received"
	body := fmt.Sprintf("Booking %s for %s. Amount: %s %.2f",
		booking.BookingRefNumber,
		formatBookingDate(booking.BookingDateTime),
		booking.CurrencyPaid,
		booking.AmountPaid,
	)

	if err := s.repo.InsertNotification(ctx, s.db, &notificationdomain.VendorNotification{
		ID:        s.genID.Generate(),
		VendorID:  vendor.ID,
		PlaceID:   booking.PlaceID,
		BookingID: booking.ID,
		Type:      notificationdomain.TypeNewBooking,
		Title:     title,
		Body:      body,
	}); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.NotificationsSent.Inc()
	}

	if vendor.PushToken == "" {
		return nil
	}

	// Push delivery is best effort; the booking outcome does not depend
	// on it.
	if err := s.push.Send(ctx, push.Message{
		To:    vendor.PushToken,
		Title: title,
		Body:  body,
		Data: map[string]any{
			"type":      notificationdomain.TypeNewBooking,
			"bookingId": booking.ID.String(),
			"placeId":   booking.PlaceID,
		},
	}); err != nil {
		s.log.Warn("push delivery failed",
			zap.String("vendor_id", vendor.ID.String()),
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err),
		)
		if s.metrics != nil {
			s.metrics.PushFailures.Inc()
		}
	}

	return nil
}

// formatBookingDate renders the caller-supplied timestamp for display.
// The stored value is verbatim and may not parse; fall back to it
// unchanged.
func formatBookingDate(raw string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format("02 Jan 2006, 3:04 PM")
		}
	}
	return raw
}
